// Package router walks the ranked backend catalog until one candidate
// produces a usable response. It owns the sticky-affinity state, the
// per-backend retry policy, and the decision of when to switch candidates.
package router

import (
	"sync/atomic"

	"genroute/internal/domain/entity"
)

// State remembers which candidate last succeeded so subsequent requests
// start there instead of re-walking the whole ranked list past a backend
// that is known to be failing. The index is stored atomically with
// last-writer-wins semantics; concurrent requests may briefly race on it,
// which only costs an extra failed attempt, never correctness.
type State struct {
	sticky atomic.Int64
}

// NewState creates a State pointing at the top-ranked candidate.
func NewState() *State {
	return &State{}
}

// Rotated returns the candidates reordered so the sticky candidate comes
// first, followed by the rest of the ranked order wrapping around. A sticky
// index that no longer fits the list (the catalog shrank since the last
// success) is read as 0. The input slice is not modified.
func (s *State) Rotated(candidates []entity.BackendCandidate) []entity.BackendCandidate {
	n := len(candidates)
	if n == 0 {
		return nil
	}

	idx := int(s.sticky.Load())
	if idx < 0 || idx >= n {
		idx = 0
	}

	rotated := make([]entity.BackendCandidate, 0, n)
	rotated = append(rotated, candidates[idx:]...)
	rotated = append(rotated, candidates[:idx]...)
	return rotated
}

// MarkSuccess records the canonical index of the candidate that served the
// last request. Only successes move the sticky index; failures leave it
// untouched so a transient outage does not erase a known-good affinity.
func (s *State) MarkSuccess(canonicalIndex int) {
	if canonicalIndex < 0 {
		return
	}
	s.sticky.Store(int64(canonicalIndex))
}

// Sticky returns the current sticky index.
func (s *State) Sticky() int {
	return int(s.sticky.Load())
}
