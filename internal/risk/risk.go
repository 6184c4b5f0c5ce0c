// Package risk computes the deterministic 0-100 risk score over detected
// entity classes. The score is derived data: every pipeline stage recomputes
// it and a caller-supplied risk value is never trusted.
package risk

import (
	"math"
	"strings"

	"github.com/Pramodsai29/AegisAI/internal/entity"
)

// Score sums the fixed per-class weights, applies the context multiplier,
// rounds, and clamps to [0, 100]. An empty entity list scores 0. Unknown
// category strings (including hyphen-joined compound labels) are treated
// as general.
func Score(classes []entity.Class, category string) int {
	base := 0
	for _, c := range classes {
		base += c.Weight()
	}
	score := int(math.Round(float64(base) * multiplier(category)))
	if score > 100 {
		return 100
	}
	if score < 0 {
		return 0
	}
	return score
}

func multiplier(category string) float64 {
	switch strings.ToLower(category) {
	case "medical", "financial":
		return 1.4
	case "personal":
		return 1.2
	default:
		return 1.0
	}
}

// EntityCountFallback is the degraded score used when weighted scoring is
// unavailable during sanitize: 10 per entity, capped at 100.
func EntityCountFallback(n int) int {
	if n <= 0 {
		return 0
	}
	if n*10 > 100 {
		return 100
	}
	return n * 10
}
