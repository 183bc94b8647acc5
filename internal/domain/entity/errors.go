package entity

import (
	"context"
	"errors"
	"fmt"
	"net"
)

// ClassifiedError wraps an upstream error with its failover classification
// and the backend it came from. The wrapped error is kept for logs; outcomes
// surfaced to callers carry only stable messages.
type ClassifiedError struct {
	Kind    ErrorKind
	Backend string
	Err     error
}

// Error returns a formatted message including the backend and kind.
func (e *ClassifiedError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("backend %s: %s: %v", e.Backend, e.Kind, e.Err)
	}
	return fmt.Sprintf("backend %s: %s", e.Backend, e.Kind)
}

// Unwrap exposes the underlying upstream error.
func (e *ClassifiedError) Unwrap() error {
	return e.Err
}

// Classified builds a ClassifiedError for the given backend and kind.
func Classified(kind ErrorKind, backend string, err error) *ClassifiedError {
	return &ClassifiedError{Kind: kind, Backend: backend, Err: err}
}

// KindOf extracts the failover classification from an error. Errors that were
// not explicitly classified by a provider adapter fall back to structural
// signals: timeouts are transient, everything else is unclassified and causes
// an immediate switch to the next candidate.
func KindOf(err error) ErrorKind {
	if err == nil {
		return KindUnclassified
	}

	var classified *ClassifiedError
	if errors.As(err, &classified) {
		return classified.Kind
	}

	// A per-attempt deadline counts as a transient failure of that candidate.
	if errors.Is(err, context.DeadlineExceeded) {
		return KindTransientUnavailable
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return KindTransientUnavailable
	}

	return KindUnclassified
}

// ValidationError represents a validation error with field context.
type ValidationError struct {
	Field   string
	Message string
}

// Error returns a formatted error message for the validation error.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error on field '%s': %s", e.Field, e.Message)
}
