package entity

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"
)

func TestGenerationRequest_Validate(t *testing.T) {
	tests := []struct {
		name    string
		req     GenerationRequest
		wantErr bool
	}{
		{
			name: "valid request",
			req:  GenerationRequest{Prompt: "hello", Temperature: 0.7},
		},
		{
			name: "temperature at lower bound",
			req:  GenerationRequest{Prompt: "hello", Temperature: 0},
		},
		{
			name: "temperature at upper bound",
			req:  GenerationRequest{Prompt: "hello", Temperature: 2},
		},
		{
			name:    "empty prompt",
			req:     GenerationRequest{Prompt: "", Temperature: 0.7},
			wantErr: true,
		},
		{
			name:    "whitespace prompt",
			req:     GenerationRequest{Prompt: "   \n", Temperature: 0.7},
			wantErr: true,
		},
		{
			name:    "temperature below range",
			req:     GenerationRequest{Prompt: "hello", Temperature: -0.1},
			wantErr: true,
		},
		{
			name:    "temperature above range",
			req:     GenerationRequest{Prompt: "hello", Temperature: 2.1},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil {
				var vErr *ValidationError
				if !errors.As(err, &vErr) {
					t.Errorf("expected ValidationError, got %T", err)
				}
			}
		})
	}
}

func TestOutcome_SuccessAndFailure(t *testing.T) {
	success := Success("generated text", "gpt-4.1")
	if !success.Succeeded() {
		t.Error("expected success outcome")
	}
	if success.BackendID != "gpt-4.1" {
		t.Errorf("expected backend id gpt-4.1, got %s", success.BackendID)
	}

	failure := Failure(KindAllBackendsExhausted, "")
	if failure.Succeeded() {
		t.Error("expected failure outcome")
	}
	if failure.Failure.Kind != KindAllBackendsExhausted {
		t.Errorf("unexpected kind %s", failure.Failure.Kind)
	}
	if failure.Failure.Detail != UserMessage(KindAllBackendsExhausted) {
		t.Errorf("empty detail should fall back to the stable user message, got %q", failure.Failure.Detail)
	}
}

func TestUserMessage_Stable(t *testing.T) {
	// The two caller-surfaced kinds must have non-empty, stable messages.
	for _, kind := range []ErrorKind{KindNoCandidatesAvailable, KindAllBackendsExhausted} {
		if UserMessage(kind) == "" {
			t.Errorf("kind %s has no user message", kind)
		}
	}
}

func TestKindOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ErrorKind
	}{
		{
			name: "nil error",
			err:  nil,
			want: KindUnclassified,
		},
		{
			name: "classified quota",
			err:  Classified(KindQuotaExhausted, "gpt-4.1", errors.New("429")),
			want: KindQuotaExhausted,
		},
		{
			name: "wrapped classified error",
			err:  fmt.Errorf("attempt failed: %w", Classified(KindInvalidConfiguration, "gpt-4.1", nil)),
			want: KindInvalidConfiguration,
		},
		{
			name: "deadline exceeded is transient",
			err:  context.DeadlineExceeded,
			want: KindTransientUnavailable,
		},
		{
			name: "cancellation is not transient",
			err:  context.Canceled,
			want: KindUnclassified,
		},
		{
			name: "arbitrary error is unclassified",
			err:  errors.New("boom"),
			want: KindUnclassified,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := KindOf(tt.err); got != tt.want {
				t.Errorf("KindOf() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestCatalogSnapshot_IDs(t *testing.T) {
	snap := &CatalogSnapshot{
		Candidates: []BackendCandidate{{ID: "a"}, {ID: "b"}},
		FetchedAt:  time.Now(),
	}
	ids := snap.IDs()
	if len(ids) != 2 || ids[0] != "a" || ids[1] != "b" {
		t.Errorf("unexpected ids %v", ids)
	}

	var nilSnap *CatalogSnapshot
	if nilSnap.Len() != 0 {
		t.Error("nil snapshot should have zero length")
	}
	if nilSnap.IDs() != nil {
		t.Error("nil snapshot should have nil ids")
	}
}

func TestTier_String(t *testing.T) {
	if TierHigh.String() != "high" || TierMid.String() != "mid" || TierLow.String() != "low" {
		t.Error("unexpected tier names")
	}
}
