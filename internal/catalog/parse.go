package catalog

import (
	"strings"

	"genroute/internal/domain/entity"
	"genroute/internal/ranking"
)

// ParseCandidate builds a BackendCandidate from a raw backend identifier,
// inferring version, tier, and experimental status from the identifier string.
func ParseCandidate(id string) entity.BackendCandidate {
	return entity.BackendCandidate{
		ID:           id,
		Version:      ranking.Version(id),
		Tier:         ranking.TierOf(id),
		Experimental: ranking.Experimental(id),
	}
}

// excluded reports whether the identifier belongs to one of the excluded
// families. Matching is case-insensitive on substrings, mirroring how the
// upstream catalogs tag special-purpose models inside the identifier itself
// (e.g., "text-embedding-3-small", "whisper-1").
func excluded(id string, families []string) bool {
	lower := strings.ToLower(id)
	for _, family := range families {
		if family == "" {
			continue
		}
		if strings.Contains(lower, strings.ToLower(family)) {
			return true
		}
	}
	return false
}
