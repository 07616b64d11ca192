package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/vncsmyrnk/webapps/internal/core/domain"
	"github.com/vncsmyrnk/webapps/internal/core/ports"
)

type PollHandler struct {
	service ports.PollService
	render  *Renderer
}

func NewPollHandler(service ports.PollService, render *Renderer) *PollHandler {
	return &PollHandler{
		service: service,
		render:  render,
	}
}

type questionsPage struct {
	Questions []*domain.Question
}

type questionPage struct {
	Question     *domain.Question
	ErrorMessage string
}

func (h *PollHandler) Index(w http.ResponseWriter, r *http.Request) {
	questions, err := h.service.Latest(r.Context())
	if err != nil {
		h.render.ServerError(w, r, err)
		return
	}
	h.render.HTML(w, r, http.StatusOK, "polls/index.html", questionsPage{Questions: questions})
}

func (h *PollHandler) Detail(w http.ResponseWriter, r *http.Request) {
	h.showQuestion(w, r, "polls/detail.html", h.service.Detail)
}

func (h *PollHandler) Results(w http.ResponseWriter, r *http.Request) {
	h.showQuestion(w, r, "polls/results.html", h.service.Results)
}

func (h *PollHandler) showQuestion(w http.ResponseWriter, r *http.Request, page string, load func(ctx context.Context, id uuid.UUID) (*domain.Question, error)) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		h.render.Error(w, r, http.StatusNotFound, "No question matches the given query.")
		return
	}

	question, err := load(r.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrQuestionNotFound) {
			h.render.Error(w, r, http.StatusNotFound, "No question matches the given query.")
			return
		}
		h.render.ServerError(w, r, err)
		return
	}
	h.render.HTML(w, r, http.StatusOK, page, questionPage{Question: question})
}

type createQuestionRequest struct {
	QuestionText string     `json:"question_text"`
	PubDate      *time.Time `json:"pub_date"`
	Choices      []string   `json:"choices"`
}

func (h *PollHandler) ListQuestions(w http.ResponseWriter, r *http.Request) {
	questions, err := h.service.Latest(r.Context())
	if err != nil {
		writeJSONError(w, http.StatusInternalServerError, "failed to list questions")
		return
	}
	if questions == nil {
		questions = []*domain.Question{}
	}
	writeJSON(w, http.StatusOK, questions)
}

func (h *PollHandler) GetQuestion(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid question id")
		return
	}

	question, err := h.service.Results(r.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrQuestionNotFound) {
			writeJSONError(w, http.StatusNotFound, "question not found")
			return
		}
		writeJSONError(w, http.StatusInternalServerError, "failed to get question")
		return
	}
	writeJSON(w, http.StatusOK, question)
}

func (h *PollHandler) CreateQuestion(w http.ResponseWriter, r *http.Request) {
	var req createQuestionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	question, err := h.service.Create(r.Context(), ports.CreateQuestionInput{
		QuestionText: req.QuestionText,
		PubDate:      req.PubDate,
		Choices:      req.Choices,
	})
	if err != nil {
		var vErr *domain.ValidationError
		if errors.As(err, &vErr) {
			writeJSONError(w, http.StatusBadRequest, vErr.Message)
			return
		}
		writeJSONError(w, http.StatusInternalServerError, "failed to create question")
		return
	}
	writeJSON(w, http.StatusCreated, question)
}
