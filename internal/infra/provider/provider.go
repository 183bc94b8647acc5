// Package provider implements the upstream backend adapters. Each provider
// exposes the same two capabilities: listing the backends it currently
// offers, and performing one generation attempt against a named backend.
// Errors leave this package classified, so the router can tell quota
// exhaustion from transient overload without knowing any provider's wire
// format.
package provider

import (
	"context"
	"fmt"

	"genroute/internal/catalog"
	"genroute/internal/domain/entity"
)

// Provider combines backend listing and generation for one upstream service.
type Provider interface {
	// Name identifies the provider ("openai", "anthropic", "noop").
	Name() string

	// ListBackends fetches the full upstream backend list.
	ListBackends(ctx context.Context) ([]catalog.BackendInfo, error)

	// SafeDefault returns the identifier of a well-known, historically
	// low-quota-risk backend used when discovery fails or yields nothing.
	SafeDefault() string

	// Generate performs one raw generation attempt against a named backend.
	Generate(ctx context.Context, backendID string, req entity.GenerationRequest) (string, error)
}

// New creates the named provider. The API key may be empty only for the
// noop provider.
func New(name, apiKey string) (Provider, error) {
	switch name {
	case "openai":
		if apiKey == "" {
			return nil, fmt.Errorf("openai provider requires an API key")
		}
		return NewOpenAI(apiKey), nil
	case "anthropic":
		if apiKey == "" {
			return nil, fmt.Errorf("anthropic provider requires an API key")
		}
		return NewAnthropic(apiKey), nil
	case "noop":
		return NewNoop(), nil
	default:
		return nil, fmt.Errorf("unknown provider %q", name)
	}
}
