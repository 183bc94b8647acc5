package provider

import (
	"context"
	"fmt"

	"genroute/internal/catalog"
	"genroute/internal/domain/entity"
)

// Noop is a provider that serves canned responses. It exists so the daemon
// and CLI can be exercised end to end without credentials or network access.
type Noop struct{}

// NewNoop creates a Noop provider.
func NewNoop() *Noop {
	return &Noop{}
}

// Name implements Provider.
func (*Noop) Name() string { return "noop" }

// SafeDefault implements Provider.
func (*Noop) SafeDefault() string { return "noop-1.0-mini" }

// ListBackends implements Provider. The list includes a non-generation entry
// so the catalog's filtering path gets exercised too.
func (*Noop) ListBackends(context.Context) ([]catalog.BackendInfo, error) {
	return []catalog.BackendInfo{
		{ID: "noop-2.0-pro", SupportsGeneration: true},
		{ID: "noop-2.0-flash", SupportsGeneration: true},
		{ID: "noop-1.0-mini", SupportsGeneration: true},
		{ID: "noop-embedding-001", SupportsGeneration: false},
	}, nil
}

// Generate implements Provider. The response honors the requested shape so
// normalization succeeds.
func (*Noop) Generate(_ context.Context, backendID string, req entity.GenerationRequest) (string, error) {
	switch req.Shape {
	case "list":
		return `["noop response"]`, nil
	case "object":
		return `{"provider": "noop", "backend": "` + backendID + `"}`, nil
	default:
		return fmt.Sprintf("noop response from %s: %s", backendID, req.Prompt), nil
	}
}
