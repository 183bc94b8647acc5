package provider

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"genroute/internal/catalog"
	"genroute/internal/domain/entity"
)

// Request pacing for the OpenAI API. Conservative enough to stay under the
// default per-minute limits of a fresh key.
const (
	openaiRequestsPerSecond = 2.0
	openaiBurst             = 5
)

// OpenAI adapts the OpenAI chat completion API.
type OpenAI struct {
	client  *openai.Client
	limiter *RateLimiter
}

// NewOpenAI creates an OpenAI provider with the given API key.
func NewOpenAI(apiKey string) *OpenAI {
	return &OpenAI{
		client:  openai.NewClient(apiKey),
		limiter: NewRateLimiter(openaiRequestsPerSecond, openaiBurst),
	}
}

// Name implements Provider.
func (o *OpenAI) Name() string { return "openai" }

// SafeDefault implements Provider. The mini tier has the loosest rate limits
// of the current lineup.
func (o *OpenAI) SafeDefault() string { return "gpt-4o-mini" }

// ListBackends implements Provider. The listing endpoint mixes chat models
// with embeddings, audio, and image models; SupportsGeneration is inferred
// from the identifier since the API does not expose capabilities directly.
func (o *OpenAI) ListBackends(ctx context.Context) ([]catalog.BackendInfo, error) {
	if err := o.limiter.Wait(ctx); err != nil {
		return nil, classify("", 0, err)
	}

	list, err := o.client.ListModels(ctx)
	if err != nil {
		return nil, classify("", openaiStatus(err), err)
	}

	infos := make([]catalog.BackendInfo, 0, len(list.Models))
	for _, m := range list.Models {
		infos = append(infos, catalog.BackendInfo{
			ID:                 m.ID,
			SupportsGeneration: openaiGenerationCapable(m.ID),
		})
	}

	slog.DebugContext(ctx, "listed openai backends", slog.Int("count", len(infos)))
	return infos, nil
}

// Generate implements Provider.
func (o *OpenAI) Generate(ctx context.Context, backendID string, req entity.GenerationRequest) (string, error) {
	if err := o.limiter.Wait(ctx); err != nil {
		return "", classify(backendID, 0, err)
	}

	messages := make([]openai.ChatCompletionMessage, 0, 2)
	if req.SystemInstruction != "" {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: req.SystemInstruction,
		})
	}
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: req.Prompt,
	})

	resp, err := o.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       backendID,
		Messages:    messages,
		Temperature: float32(req.Temperature),
	})
	if err != nil {
		return "", classify(backendID, openaiStatus(err), err)
	}

	if len(resp.Choices) == 0 {
		return "", entity.Classified(entity.KindMalformedResponse, backendID,
			fmt.Errorf("completion returned no choices"))
	}

	return resp.Choices[0].Message.Content, nil
}

// openaiStatus extracts the HTTP status code from the SDK's error types.
func openaiStatus(err error) int {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.HTTPStatusCode
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return reqErr.HTTPStatusCode
	}
	return 0
}

// openaiGenerationCapable reports whether the identifier names a chat-capable
// model family.
func openaiGenerationCapable(id string) bool {
	lower := strings.ToLower(id)
	for _, prefix := range []string{"gpt-", "chatgpt-", "o1", "o3", "o4"} {
		if strings.HasPrefix(lower, prefix) {
			return true
		}
	}
	return false
}
