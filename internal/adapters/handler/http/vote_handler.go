package http

import (
	"errors"
	"net"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/vncsmyrnk/webapps/internal/core/domain"
	"github.com/vncsmyrnk/webapps/internal/core/ports"
)

const noChoiceMessage = "You didn't select a choice."

type VoteHandler struct {
	service ports.VoteService
	polls   ports.PollService
	render  *Renderer
}

func NewVoteHandler(service ports.VoteService, polls ports.PollService, render *Renderer) *VoteHandler {
	return &VoteHandler{
		service: service,
		polls:   polls,
		render:  render,
	}
}

func (h *VoteHandler) Vote(w http.ResponseWriter, r *http.Request) {
	questionID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		h.render.Error(w, r, http.StatusNotFound, "No question matches the given query.")
		return
	}
	if err := r.ParseForm(); err != nil {
		h.render.Error(w, r, http.StatusBadRequest, "Failed to parse form.")
		return
	}

	choiceID, err := uuid.Parse(r.PostFormValue("choice"))
	if err != nil {
		h.redisplay(w, r, questionID)
		return
	}

	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		ip = r.RemoteAddr
	}

	input := ports.VoteInput{
		QuestionID: questionID,
		ChoiceID:   choiceID,
		VoterIP:    ip,
	}

	if _, err := h.service.Vote(r.Context(), input); err != nil {
		if errors.Is(err, domain.ErrInvalidChoice) {
			h.redisplay(w, r, questionID)
			return
		}
		if errors.Is(err, domain.ErrQuestionNotFound) {
			h.render.Error(w, r, http.StatusNotFound, "No question matches the given query.")
			return
		}

		h.render.ServerError(w, r, err)
		return
	}

	// Redirect after a successful POST so a reload does not vote twice.
	http.Redirect(w, r, "/polls/"+questionID.String()+"/results/", http.StatusSeeOther)
}

// redisplay shows the voting form again with an error message.
func (h *VoteHandler) redisplay(w http.ResponseWriter, r *http.Request, questionID uuid.UUID) {
	question, err := h.polls.Detail(r.Context(), questionID)
	if err != nil {
		if errors.Is(err, domain.ErrQuestionNotFound) {
			h.render.Error(w, r, http.StatusNotFound, "No question matches the given query.")
			return
		}
		h.render.ServerError(w, r, err)
		return
	}
	h.render.HTML(w, r, http.StatusOK, "polls/detail.html", questionPage{Question: question, ErrorMessage: noChoiceMessage})
}
