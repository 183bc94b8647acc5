// Package entity defines the core domain types for the generation-backend
// router: discovered backend candidates, catalog snapshots, generation
// requests, and routing outcomes.
package entity

import (
	"time"
)

// Tier classifies a backend candidate's capability class as inferred from its
// identifier. Higher tiers indicate more capable (and usually slower or more
// expensive) backends.
type Tier int

const (
	// TierLow represents lightweight, reduced-capacity backends.
	TierLow Tier = iota
	// TierMid represents balanced or speed-optimized backends.
	TierMid
	// TierHigh represents high-reasoning backends.
	TierHigh
)

// String returns the human-readable tier name.
func (t Tier) String() string {
	switch t {
	case TierLow:
		return "low"
	case TierMid:
		return "mid"
	case TierHigh:
		return "high"
	default:
		return "unknown"
	}
}

// BackendCandidate describes one discovered text-generation backend.
// Identity is the ID; all fields are inferred from the identifier string at
// discovery time and immutable within the snapshot that owns the candidate.
type BackendCandidate struct {
	// ID is the upstream backend identifier (e.g., "gpt-4.1-mini").
	ID string

	// Version is the numeric capability version parsed from the identifier.
	// Zero when the identifier carries no recognizable version marker.
	Version float64

	// Tier is the capability tier inferred from the identifier.
	Tier Tier

	// Experimental reports whether the identifier carries a preview or
	// experimental tag.
	Experimental bool
}

// CatalogSnapshot is an immutable, rank-sorted view of the usable backend
// candidates at a point in time. Snapshots are replaced wholesale on refresh
// and never mutated in place.
type CatalogSnapshot struct {
	// Candidates is sorted by descending rank score (ties broken by ID).
	Candidates []BackendCandidate

	// FetchedAt is when the snapshot was produced.
	FetchedAt time.Time
}

// Len returns the number of candidates in the snapshot.
func (s *CatalogSnapshot) Len() int {
	if s == nil {
		return 0
	}
	return len(s.Candidates)
}

// IDs returns the candidate identifiers in rank order.
// Useful for logging the active failover chain.
func (s *CatalogSnapshot) IDs() []string {
	if s == nil {
		return nil
	}
	ids := make([]string, len(s.Candidates))
	for i, c := range s.Candidates {
		ids[i] = c.ID
	}
	return ids
}
