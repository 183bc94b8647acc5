package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"genroute/internal/domain/entity"
	"genroute/internal/observability/slo"
)

// stubRouter returns a fixed outcome and captures the request it saw.
type stubRouter struct {
	outcome entity.GenerationOutcome
	gotReq  entity.GenerationRequest
}

func (s *stubRouter) Generate(_ context.Context, req entity.GenerationRequest) entity.GenerationOutcome {
	s.gotReq = req
	return s.outcome
}

func postGenerate(t *testing.T, h http.Handler, body string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/generate", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	h.ServeHTTP(rec, req)
	return rec
}

func TestGenerateHandler_Success(t *testing.T) {
	router := &stubRouter{outcome: entity.Success("generated text", "model-2.0-pro")}
	h := NewGenerateHandler(router, nil)

	rec := postGenerate(t, h, `{"prompt": "hello", "temperature": 0.5, "shape": "text"}`)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp generateResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "generated text", resp.Text)
	assert.Equal(t, "model-2.0-pro", resp.Backend)
	assert.False(t, resp.Switched)

	assert.Equal(t, "hello", router.gotReq.Prompt)
	assert.Equal(t, 0.5, router.gotReq.Temperature)
	assert.Equal(t, "text", router.gotReq.Shape)
}

func TestGenerateHandler_FailureStatuses(t *testing.T) {
	tests := []struct {
		kind entity.ErrorKind
		want int
	}{
		{entity.KindInvalidConfiguration, http.StatusBadRequest},
		{entity.KindNoCandidatesAvailable, http.StatusServiceUnavailable},
		{entity.KindAllBackendsExhausted, http.StatusBadGateway},
		{entity.KindUnclassified, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			router := &stubRouter{outcome: entity.Failure(tt.kind, "")}
			rec := postGenerate(t, NewGenerateHandler(router, nil), `{"prompt": "x"}`)

			assert.Equal(t, tt.want, rec.Code)

			var body map[string]string
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, entity.UserMessage(tt.kind), body["error"])
		})
	}
}

func TestGenerateHandler_MethodNotAllowed(t *testing.T) {
	h := NewGenerateHandler(&stubRouter{}, nil)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/generate", nil))

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.Equal(t, http.MethodPost, rec.Header().Get("Allow"))
}

func TestGenerateHandler_InvalidJSON(t *testing.T) {
	h := NewGenerateHandler(&stubRouter{}, nil)

	rec := postGenerate(t, h, `{"prompt": `)

	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "invalid request body", body["error"])
}

func TestGenerateHandler_RecordsSLO(t *testing.T) {
	tracker := slo.NewTracker()

	out := entity.Success("text", "model-b")
	out.Switched = true
	h := NewGenerateHandler(&stubRouter{outcome: out}, tracker)

	rec := postGenerate(t, h, `{"prompt": "x"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp generateResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Switched)
}
