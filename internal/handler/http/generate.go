// Package http provides the HTTP surface of the routing daemon: the
// generation endpoint, health checks, and the middleware stack (request IDs,
// logging, metrics, timeouts).
package http

import (
	"context"
	"encoding/json"
	"net/http"

	"genroute/internal/domain/entity"
	"genroute/internal/handler/http/respond"
	"genroute/internal/observability/slo"
)

// maxGenerateBodyBytes bounds the request body; prompts beyond this are
// misuse, not traffic.
const maxGenerateBodyBytes = 1 << 20

// GenerationRouter routes one generation request. Implemented by
// router.Router.
type GenerationRouter interface {
	Generate(ctx context.Context, req entity.GenerationRequest) entity.GenerationOutcome
}

// GenerateHandler handles POST /api/generate.
type GenerateHandler struct {
	router  GenerationRouter
	tracker *slo.Tracker
}

// NewGenerateHandler creates the generation endpoint handler. The tracker
// may be nil when SLO tracking is not wanted (e.g. the CLI).
func NewGenerateHandler(router GenerationRouter, tracker *slo.Tracker) *GenerateHandler {
	return &GenerateHandler{router: router, tracker: tracker}
}

type generateRequest struct {
	Prompt            string  `json:"prompt"`
	SystemInstruction string  `json:"system_instruction,omitempty"`
	Temperature       float64 `json:"temperature,omitempty"`
	Shape             string  `json:"shape,omitempty"`
}

type generateResponse struct {
	Text     string `json:"text"`
	Backend  string `json:"backend"`
	Switched bool   `json:"switched,omitempty"`
}

// ServeHTTP decodes the request, routes it, and maps the outcome onto an
// HTTP status. Routing failures are typed outcomes, never panics or raw
// upstream errors.
func (h *GenerateHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		respond.JSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	var req generateRequest
	body := http.MaxBytesReader(w, r.Body, maxGenerateBodyBytes)
	if err := json.NewDecoder(body).Decode(&req); err != nil {
		respond.SafeError(w, http.StatusBadRequest, respond.NewAppError(
			http.StatusBadRequest, "invalid request body", err))
		return
	}

	outcome := h.router.Generate(r.Context(), entity.GenerationRequest{
		Prompt:            req.Prompt,
		SystemInstruction: req.SystemInstruction,
		Temperature:       req.Temperature,
		Shape:             req.Shape,
	})

	if h.tracker != nil {
		h.tracker.Record(outcome.Succeeded(), !outcome.Switched)
	}

	if outcome.Succeeded() {
		respond.JSON(w, http.StatusOK, generateResponse{
			Text:     outcome.Text,
			Backend:  outcome.BackendID,
			Switched: outcome.Switched,
		})
		return
	}

	respond.JSON(w, statusForKind(outcome.Failure.Kind), map[string]string{
		"error": outcome.Failure.Detail,
	})
}

// statusForKind maps terminal failure kinds onto HTTP statuses.
func statusForKind(kind entity.ErrorKind) int {
	switch kind {
	case entity.KindInvalidConfiguration:
		return http.StatusBadRequest
	case entity.KindNoCandidatesAvailable:
		return http.StatusServiceUnavailable
	case entity.KindAllBackendsExhausted:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
