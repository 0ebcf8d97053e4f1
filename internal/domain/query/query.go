// Package query normalizes free-text input before it is matched against the corpus.
package query

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/cases"

	"github.com/kailas-cloud/tastematch/internal/domain"
)

// Query is a normalized, non-empty search query.
type Query struct {
	raw   string
	text  string
	runes int
}

// New trims and case-folds raw. Blank input yields domain.ErrEmptyQuery.
func New(raw string) (Query, error) {
	text := Normalize(raw)
	if text == "" {
		return Query{}, domain.ErrEmptyQuery
	}
	return Query{raw: raw, text: text, runes: utf8.RuneCountInString(text)}, nil
}

// Normalize trims surrounding whitespace and applies Unicode case folding.
// A cases.Caser is stateful, so one is created per call.
func Normalize(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	return cases.Fold().String(s)
}

// Raw returns the input as the caller typed it.
func (q Query) Raw() string { return q.raw }

// Text returns the normalized query.
func (q Query) Text() string { return q.text }

// Len returns the normalized query length in runes.
func (q Query) Len() int { return q.runes }
