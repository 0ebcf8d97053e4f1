// Package similarity ranks entities by cosine similarity of their feature vectors.
package similarity

import (
	"math"
	"slices"

	"github.com/kailas-cloud/tastematch/internal/domain"
	"github.com/kailas-cloud/tastematch/internal/domain/entity"
)

// MaxRecommendations caps a recommendation list.
const MaxRecommendations = 5

// Cosine returns dot(u,v)/(|u|*|v|). Zero norms and length mismatches yield 0.
func Cosine(u, v []float64) float64 {
	if len(u) == 0 || len(u) != len(v) {
		return 0
	}
	var dot, nu, nv float64
	for i := range u {
		dot += u[i] * v[i]
		nu += u[i] * u[i]
		nv += v[i] * v[i]
	}
	if nu == 0 || nv == 0 {
		return 0
	}
	return dot / (math.Sqrt(nu) * math.Sqrt(nv))
}

// Recommendation pairs a candidate with its similarity to the selected entity.
type Recommendation struct {
	Entity     entity.Entity
	Similarity float64
}

// MatchPercent returns the similarity as a rounded percentage.
func (r Recommendation) MatchPercent() int {
	return int(math.Round(r.Similarity * 100))
}

// Rank returns up to limit candidates most similar to selected, excluding selected
// itself by ID and any candidate without a vector. Only positive similarities count.
func Rank(selected *entity.Entity, candidates []entity.Entity, limit int) ([]Recommendation, error) {
	if !selected.HasFeatures() {
		return nil, domain.NewMissingFeatures(selected.Title(), selected.Category())
	}

	var (
		out     []Recommendation
		missing int
	)
	for i := range candidates {
		c := &candidates[i]
		if c.ID() == selected.ID() {
			continue
		}
		if !c.HasFeatures() {
			missing++
			continue
		}
		if s := Cosine(selected.Features(), c.Features()); s > 0 {
			out = append(out, Recommendation{Entity: *c, Similarity: s})
		}
	}
	if len(out) == 0 {
		return nil, domain.NewNoRecommendations(missing)
	}

	slices.SortStableFunc(out, func(a, b Recommendation) int {
		switch {
		case a.Similarity > b.Similarity:
			return -1
		case a.Similarity < b.Similarity:
			return 1
		}
		return 0
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
