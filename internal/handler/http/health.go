package http

import (
	"context"
	"net/http"
	"time"

	"genroute/internal/domain/entity"
	"genroute/internal/handler/http/respond"
)

// HealthResponse represents the JSON response for health check endpoints.
type HealthResponse struct {
	Status    string                 `json:"status"`    // "healthy" or "unhealthy"
	Timestamp string                 `json:"timestamp"` // ISO 8601 format
	Checks    map[string]CheckStatus `json:"checks"`    // Status of each check item
	Version   string                 `json:"version"`   // Application version
}

// CheckStatus represents the status of a single health check.
type CheckStatus struct {
	Status  string         `json:"status"`            // "healthy" or "unhealthy"
	Message string         `json:"message,omitempty"` // Optional status message
	Details map[string]any `json:"details,omitempty"` // Optional additional details
}

// CatalogStatus exposes the catalog snapshot for health reporting.
type CatalogStatus interface {
	Snapshot(ctx context.Context) *entity.CatalogSnapshot
}

// HealthHandler handles health check endpoint requests. The only hard
// dependency of the router is a usable backend catalog; the catalog itself
// degrades to a safe default, so unhealthy here means genuinely nothing to
// route to.
type HealthHandler struct {
	Catalog CatalogStatus
	Version string
}

// ServeHTTP reports the routing service health.
// Returns 200 OK if healthy, or 503 Service Unavailable otherwise.
func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	checks := make(map[string]CheckStatus)
	allHealthy := true

	if h.Catalog != nil {
		check := h.checkCatalog(ctx)
		checks["catalog"] = check
		if check.Status == "unhealthy" {
			allHealthy = false
		}
	} else {
		checks["catalog"] = CheckStatus{Status: "unhealthy", Message: "not configured"}
		allHealthy = false
	}

	status := "healthy"
	code := http.StatusOK
	if !allHealthy {
		status = "unhealthy"
		code = http.StatusServiceUnavailable
	}

	respond.JSON(w, code, HealthResponse{
		Status:    status,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Checks:    checks,
		Version:   h.Version,
	})
}

// checkCatalog verifies that at least one backend candidate is available.
func (h *HealthHandler) checkCatalog(ctx context.Context) CheckStatus {
	snap := h.Catalog.Snapshot(ctx)
	if snap == nil || snap.Len() == 0 {
		return CheckStatus{
			Status:  "unhealthy",
			Message: "no backend candidates available",
		}
	}

	return CheckStatus{
		Status: "healthy",
		Details: map[string]any{
			"candidates": snap.Len(),
			"top":        snap.Candidates[0].ID,
			"fetched_at": snap.FetchedAt.UTC().Format(time.RFC3339),
		},
	}
}
