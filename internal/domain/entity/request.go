package entity

import (
	"fmt"
	"strings"
)

// Temperature bounds accepted by the generation endpoints.
const (
	MinTemperature = 0.0
	MaxTemperature = 2.0
)

// GenerationRequest carries one logical text-generation request.
// A request is created fresh per call, reused verbatim across failover
// candidates, and never persisted.
type GenerationRequest struct {
	// Prompt is the user-visible input text. Required.
	Prompt string

	// SystemInstruction is an optional instruction prepended by the backend
	// outside the conversational turn.
	SystemInstruction string

	// Temperature controls sampling randomness. Valid range: [0, 2].
	Temperature float64

	// Shape names the payload form the caller expects back: "text" (default),
	// "list" (JSON array of strings), or "object" (single JSON object).
	Shape string
}

// Validate checks the request against the domain constraints.
func (r GenerationRequest) Validate() error {
	if strings.TrimSpace(r.Prompt) == "" {
		return &ValidationError{Field: "prompt", Message: "prompt cannot be empty"}
	}
	if r.Temperature < MinTemperature || r.Temperature > MaxTemperature {
		return &ValidationError{
			Field:   "temperature",
			Message: fmt.Sprintf("temperature must be between %.1f and %.1f, got %.2f", MinTemperature, MaxTemperature, r.Temperature),
		}
	}
	switch r.Shape {
	case "", "text", "list", "object":
	default:
		return &ValidationError{
			Field:   "shape",
			Message: fmt.Sprintf("shape must be one of text, list, object; got %q", r.Shape),
		}
	}
	return nil
}
