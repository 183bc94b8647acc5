// Package ranking maps backend identifier strings onto comparable rank
// scores. The catalog is described only by free-text identifiers, so version,
// tier, and stability markers are inferred with regular expressions; all
// functions here are pure and deterministic so they can be unit-tested in
// isolation from any discovery I/O.
package ranking

import (
	"regexp"
	"strconv"
	"strings"

	"genroute/internal/domain/entity"
)

// Scoring constants. The numeric capability version dominates every other
// signal: all bonuses and penalties stay well below one version step, so a
// newer generation always outranks an older one on the same tier, and the
// preview bonus is kept small enough that the router does not flap onto
// unstable backends merely because they are new.
const (
	tierBonusHigh = 0.30
	tierBonusMid  = 0.20
	tierBonusLow  = 0.10
	latestBonus   = 0.05
	previewBonus  = 0.02
	litePenalty   = 0.15
)

// maxVersion bounds plausible capability versions. Larger delimiter-separated
// numeric tokens are dates or build numbers ("-20241022", "exp-1206") and must
// not be read as versions.
const maxVersion = 99

var (
	// versionPattern matches delimiter-separated numeric tokens: digits with
	// an optional single decimal (e.g., "4", "4.1", "3.5"). Version rejects
	// implausibly large matches.
	versionPattern = regexp.MustCompile(`(?:^|[-_ ])(\d+(?:\.\d+)?)`)

	// Word boundaries matter: "gemini" must not match "mini".
	highTierPattern = regexp.MustCompile(`(?i)\b(opus|pro|ultra)\b`)
	lowTierPattern  = regexp.MustCompile(`(?i)\b(haiku|mini|nano|lite|instant)\b`)
	previewPattern  = regexp.MustCompile(`(?i)\b(preview|experimental|exp|beta)\b`)
	litePattern     = regexp.MustCompile(`(?i)\blite\b`)
)

// Version extracts the numeric capability version from a backend identifier:
// the first delimiter-separated numeric token of plausible magnitude. Absence
// of a recognizable marker scores the minimum version, 0.
func Version(id string) float64 {
	for _, m := range versionPattern.FindAllStringSubmatch(id, -1) {
		v, err := strconv.ParseFloat(m[1], 64)
		if err != nil || v > maxVersion {
			continue
		}
		return v
	}
	return 0
}

// TierOf infers the capability tier from a backend identifier. Identifiers
// with no tier marker default to the balanced middle tier.
func TierOf(id string) entity.Tier {
	lower := strings.ToLower(id)
	switch {
	case highTierPattern.MatchString(lower):
		return entity.TierHigh
	case lowTierPattern.MatchString(lower):
		return entity.TierLow
	default:
		return entity.TierMid
	}
}

// Experimental reports whether the identifier carries a preview or
// experimental tag.
func Experimental(id string) bool {
	return previewPattern.MatchString(id)
}

// Latest reports whether the identifier is a floating "latest" alias.
func Latest(id string) bool {
	return strings.Contains(strings.ToLower(id), "latest")
}

// Lite reports whether the identifier names an explicitly reduced-capacity
// variant of another backend (e.g., "flash-lite").
func Lite(id string) bool {
	return litePattern.MatchString(id)
}

// Score maps a backend identifier to its rank value. Higher is better.
func Score(id string) float64 {
	score := Version(id)

	switch TierOf(id) {
	case entity.TierHigh:
		score += tierBonusHigh
	case entity.TierMid:
		score += tierBonusMid
	case entity.TierLow:
		score += tierBonusLow
	}

	if Latest(id) {
		score += latestBonus
	}
	if Experimental(id) {
		score += previewBonus
	}
	if Lite(id) {
		score -= litePenalty
	}

	return score
}

// Less reports whether id a ranks strictly before id b: descending score,
// with ties broken by ascending identifier for determinism.
func Less(a, b string) bool {
	sa, sb := Score(a), Score(b)
	if sa != sb {
		return sa > sb
	}
	return a < b
}
