package http

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/vncsmyrnk/webapps/internal/adapters/live"
	"github.com/vncsmyrnk/webapps/internal/core/domain"
	"github.com/vncsmyrnk/webapps/internal/core/ports"
)

type LiveHandler struct {
	polls ports.PollService
	hub   *live.Hub
}

func NewLiveHandler(polls ports.PollService, hub *live.Hub) *LiveHandler {
	return &LiveHandler{
		polls: polls,
		hub:   hub,
	}
}

// Serve subscribes a websocket to a question's results, starting with the
// current snapshot.
func (h *LiveHandler) Serve(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "question not found", http.StatusNotFound)
		return
	}

	question, err := h.polls.Results(r.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrQuestionNotFound) {
			http.Error(w, "question not found", http.StatusNotFound)
			return
		}
		log.Error().Err(err).Str("question_id", id.String()).Msg("failed to load live results")
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	initial, err := live.NewResultsMessage(question)
	if err != nil {
		log.Error().Err(err).Msg("failed to encode live results")
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	h.hub.Serve(w, r, id, initial)
}
