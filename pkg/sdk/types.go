package tastematch

import (
	"github.com/kailas-cloud/tastematch/internal/domain/category"
	"github.com/kailas-cloud/tastematch/internal/domain/entity"
	"github.com/kailas-cloud/tastematch/internal/domain/features"
	"github.com/kailas-cloud/tastematch/internal/domain/match"
	"github.com/kailas-cloud/tastematch/internal/domain/similarity"
)

// Category selects the songs or movies collection.
type Category = category.Category

// Categories.
const (
	Songs  = category.Songs
	Movies = category.Movies
)

// Entity is a song or a movie. Rating, Cast and Minutes are set for movies only.
// Minutes stays 0 when the duration is not in "142 min" form.
type Entity struct {
	ID       int
	Kind     string // "song" or "movie"
	Title    string
	Creator  string // artist or director
	Genre    string
	Duration string
	Year     int
	Rating   float64
	Cast     []string
	Minutes  int
	Features []float64
}

// Match is a search hit with its tier score (100, 80, 70, 60 or 40).
type Match struct {
	Entity
	Score int
}

// Suggestions is the autocomplete dropdown state.
type Suggestions struct {
	Items   []Entity
	Visible bool
}

// Recommendation is a similar entity.
type Recommendation struct {
	Entity
	Similarity   float64
	MatchPercent int
}

// Recommendations holds the selected entity and up to five similar ones.
type Recommendations struct {
	Selected Entity
	Items    []Recommendation
}

func entityFromDomain(e *entity.Entity) Entity {
	out := Entity{
		ID:       e.ID(),
		Kind:     string(e.Kind()),
		Title:    e.Title(),
		Creator:  e.Creator(),
		Genre:    e.Genre(),
		Duration: e.Duration(),
		Year:     e.Year(),
		Features: append([]float64(nil), e.Features()...),
	}
	if info, ok := e.Movie(); ok {
		out.Rating = info.Rating()
		out.Cast = append([]string(nil), info.Cast()...)
		if m, err := features.ParseMinutes(out.Duration); err == nil {
			out.Minutes = m
		}
	}
	return out
}

func matchesFromDomain(results []match.Result) []Match {
	out := make([]Match, len(results))
	for i := range results {
		out[i] = Match{Entity: entityFromDomain(&results[i].Entity), Score: results[i].Score}
	}
	return out
}

func recommendationsFromDomain(recs []similarity.Recommendation) []Recommendation {
	out := make([]Recommendation, len(recs))
	for i := range recs {
		out[i] = Recommendation{
			Entity:       entityFromDomain(&recs[i].Entity),
			Similarity:   recs[i].Similarity,
			MatchPercent: recs[i].MatchPercent(),
		}
	}
	return out
}
