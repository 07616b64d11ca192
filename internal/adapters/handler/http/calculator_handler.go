package http

import (
	"encoding/json"
	"errors"
	"mime"
	"net/http"

	"github.com/rs/zerolog/log"
	"github.com/vncsmyrnk/webapps/internal/core/domain"
	"github.com/vncsmyrnk/webapps/internal/core/ports"
)

const maxComputeBody = 64 << 10

type CalculatorHandler struct {
	service ports.CalculatorService
	render  *Renderer
}

func NewCalculatorHandler(service ports.CalculatorService, render *Renderer) *CalculatorHandler {
	return &CalculatorHandler{
		service: service,
		render:  render,
	}
}

type computeRequest struct {
	Code string `json:"code"`
}

type computeResponse struct {
	Result string `json:"result"`
}

func (h *CalculatorHandler) Page(w http.ResponseWriter, r *http.Request) {
	h.render.HTML(w, r, http.StatusOK, "calculator.html", nil)
}

// Compute evaluates the "code" field of a form or JSON body.
func (h *CalculatorHandler) Compute(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxComputeBody)

	var code string
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "application/json" {
		var req computeRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSONError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		code = req.Code
	} else {
		if err := r.ParseMultipartForm(maxComputeBody); err != nil && !errors.Is(err, http.ErrNotMultipart) {
			writeJSONError(w, http.StatusBadRequest, "invalid form body")
			return
		}
		code = r.FormValue("code")
	}

	result, err := h.service.Compute(r.Context(), code)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidExpression) || errors.Is(err, domain.ErrDivisionByZero) {
			writeJSONError(w, http.StatusBadRequest, err.Error())
			return
		}
		log.Error().Err(err).Msg("failed to compute expression")
		writeJSONError(w, http.StatusInternalServerError, domain.ErrInternal.Error())
		return
	}

	writeJSON(w, http.StatusOK, computeResponse{Result: result})
}
