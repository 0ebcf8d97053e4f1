// Package match implements tiered text scoring of entities against a query.
package match

import (
	"slices"
	"strings"

	"github.com/kailas-cloud/tastematch/internal/domain/entity"
	"github.com/kailas-cloud/tastematch/internal/domain/query"
)

// Tier scores, highest wins.
const (
	ScoreExactTitle         = 100
	ScoreTitleContains      = 80
	ScoreQueryContainsTitle = 70
	ScoreCreator            = 60
	ScoreGenre              = 40
	ScoreNone               = 0
)

// MaxResults caps a ranked result list.
const MaxResults = 20

// minPartialRunes is the shortest query eligible for partial tiers.
const minPartialRunes = 2

// Options tunes scoring.
type Options struct {
	// ReverseTitle enables the tier where the query contains the title.
	ReverseTitle bool
}

// Result pairs an entity with its score.
type Result struct {
	Entity entity.Entity
	Score  int
}

// Score returns the tier score of keys against q. 0 means no match.
func Score(q query.Query, k entity.Keys, opts Options) int {
	text := q.Text()
	if text == "" {
		return ScoreNone
	}
	if k.Title != "" && k.Title == text {
		return ScoreExactTitle
	}
	if q.Len() < minPartialRunes {
		return ScoreNone
	}
	switch {
	case contains(k.Title, text):
		return ScoreTitleContains
	case opts.ReverseTitle && contains(text, k.Title):
		return ScoreQueryContainsTitle
	case overlaps(k.Creator, text), overlaps(k.Cast, text):
		return ScoreCreator
	case contains(k.Genre, text):
		return ScoreGenre
	}
	return ScoreNone
}

// Rank scores every entity, drops non-matches and returns at most limit results
// ordered by descending score. Ties keep corpus order.
func Rank(q query.Query, entities []entity.Entity, opts Options, limit int) []Result {
	var out []Result
	for i := range entities {
		if s := Score(q, entities[i].Keys(), opts); s > ScoreNone {
			out = append(out, Result{Entity: entities[i], Score: s})
		}
	}
	slices.SortStableFunc(out, func(a, b Result) int { return b.Score - a.Score })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// contains reports whether s contains sub. Empty strings never match.
func contains(s, sub string) bool {
	return s != "" && sub != "" && strings.Contains(s, sub)
}

func overlaps(field, text string) bool {
	return contains(field, text) || contains(text, field)
}
