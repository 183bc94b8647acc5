package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"genroute/internal/domain/entity"
)

type stubCatalog struct {
	snap *entity.CatalogSnapshot
}

func (s *stubCatalog) Snapshot(context.Context) *entity.CatalogSnapshot {
	return s.snap
}

func getHealth(t *testing.T, h http.Handler) (*httptest.ResponseRecorder, HealthResponse) {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	var resp HealthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return rec, resp
}

func TestHealthHandler_Healthy(t *testing.T) {
	h := &HealthHandler{
		Catalog: &stubCatalog{snap: &entity.CatalogSnapshot{
			Candidates: []entity.BackendCandidate{{ID: "model-2.0-pro"}},
			FetchedAt:  time.Now(),
		}},
		Version: "1.2.3",
	}

	rec, resp := getHealth(t, h)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "healthy", resp.Status)
	assert.Equal(t, "1.2.3", resp.Version)
	assert.Equal(t, "healthy", resp.Checks["catalog"].Status)
	assert.Equal(t, "model-2.0-pro", resp.Checks["catalog"].Details["top"])
}

func TestHealthHandler_EmptyCatalog(t *testing.T) {
	h := &HealthHandler{
		Catalog: &stubCatalog{snap: &entity.CatalogSnapshot{FetchedAt: time.Now()}},
	}

	rec, resp := getHealth(t, h)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "unhealthy", resp.Status)
}

func TestHealthHandler_NoCatalogConfigured(t *testing.T) {
	h := &HealthHandler{}

	rec, resp := getHealth(t, h)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "not configured", resp.Checks["catalog"].Message)
}
