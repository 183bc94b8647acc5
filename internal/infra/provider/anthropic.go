package provider

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"genroute/internal/catalog"
	"genroute/internal/domain/entity"
)

// Request pacing and response sizing for the Anthropic API.
const (
	anthropicRequestsPerSecond = 2.0
	anthropicBurst             = 5
	anthropicMaxTokens         = 2048
)

// Anthropic adapts the Anthropic Messages API.
type Anthropic struct {
	client  anthropic.Client
	limiter *RateLimiter
}

// NewAnthropic creates an Anthropic provider with the given API key.
func NewAnthropic(apiKey string) *Anthropic {
	return &Anthropic{
		client:  anthropic.NewClient(option.WithAPIKey(apiKey)),
		limiter: NewRateLimiter(anthropicRequestsPerSecond, anthropicBurst),
	}
}

// Name implements Provider.
func (a *Anthropic) Name() string { return "anthropic" }

// SafeDefault implements Provider.
func (a *Anthropic) SafeDefault() string { return "claude-3-5-haiku-latest" }

// ListBackends implements Provider. Every model on the listing endpoint is a
// generation model, so SupportsGeneration is always true here; family-level
// exclusions are applied by the catalog.
func (a *Anthropic) ListBackends(ctx context.Context) ([]catalog.BackendInfo, error) {
	if err := a.limiter.Wait(ctx); err != nil {
		return nil, classify("", 0, err)
	}

	var infos []catalog.BackendInfo
	iter := a.client.Models.ListAutoPaging(ctx, anthropic.ModelListParams{})
	for iter.Next() {
		m := iter.Current()
		infos = append(infos, catalog.BackendInfo{
			ID:                 m.ID,
			SupportsGeneration: true,
		})
	}
	if err := iter.Err(); err != nil {
		return nil, classify("", anthropicStatus(err), err)
	}

	slog.DebugContext(ctx, "listed anthropic backends", slog.Int("count", len(infos)))
	return infos, nil
}

// Generate implements Provider.
func (a *Anthropic) Generate(ctx context.Context, backendID string, req entity.GenerationRequest) (string, error) {
	if err := a.limiter.Wait(ctx); err != nil {
		return "", classify(backendID, 0, err)
	}

	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(backendID),
		MaxTokens: anthropicMaxTokens,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(req.Prompt)),
		},
		Temperature: anthropic.Float(req.Temperature),
	}
	if req.SystemInstruction != "" {
		params.System = []anthropic.TextBlockParam{
			{Text: req.SystemInstruction},
		}
	}

	msg, err := a.client.Messages.New(ctx, params)
	if err != nil {
		return "", classify(backendID, anthropicStatus(err), err)
	}

	var sb strings.Builder
	for _, block := range msg.Content {
		if block.Type == "text" {
			sb.WriteString(block.Text)
		}
	}
	if sb.Len() == 0 {
		return "", entity.Classified(entity.KindMalformedResponse, backendID,
			fmt.Errorf("message contained no text blocks"))
	}

	return sb.String(), nil
}

// anthropicStatus extracts the HTTP status code from the SDK's error type.
func anthropicStatus(err error) int {
	var apiErr *anthropic.Error
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	return 0
}
