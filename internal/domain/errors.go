package domain

import (
	"errors"
	"fmt"
	"strings"

	"github.com/kailas-cloud/tastematch/internal/domain/category"
)

var (
	// ErrEmptyQuery signals a query that is blank after trimming.
	ErrEmptyQuery = errors.New("empty query")
	// ErrNotFound signals a search where no entity scored above zero.
	ErrNotFound = errors.New("not found")
	// ErrMissingFeatures signals a selected entity without a feature vector.
	ErrMissingFeatures = errors.New("missing features")
	// ErrNoRecommendations signals a ranking with no positive-similarity candidate.
	ErrNoRecommendations = errors.New("no valid recommendations")
	// ErrUnknownCategory signals a category outside the supported set.
	ErrUnknownCategory = errors.New("unknown category")
	// ErrEntityNotFound signals an entity ID outside its collection.
	ErrEntityNotFound = errors.New("entity not found")
)

// NotFoundError wraps ErrNotFound with sample titles the caller can suggest instead.
type NotFoundError struct {
	Query   string
	Samples []string
}

func (e *NotFoundError) Error() string {
	if len(e.Samples) == 0 {
		return fmt.Sprintf("%q %s", e.Query, ErrNotFound.Error())
	}
	return fmt.Sprintf("%q %s, try: %s", e.Query, ErrNotFound.Error(), strings.Join(e.Samples, ", "))
}

func (e *NotFoundError) Unwrap() error { return ErrNotFound }

// NewNotFound creates a not-found error with recovery hints.
func NewNotFound(query string, samples []string) error {
	return &NotFoundError{Query: query, Samples: samples}
}

// MissingFeaturesError wraps ErrMissingFeatures with the offending entity.
type MissingFeaturesError struct {
	Title    string
	Category category.Category
}

func (e *MissingFeaturesError) Error() string {
	return fmt.Sprintf("%s: %s %q has no feature vector", ErrMissingFeatures.Error(), e.Category, e.Title)
}

func (e *MissingFeaturesError) Unwrap() error { return ErrMissingFeatures }

// NewMissingFeatures creates a missing-features error.
func NewMissingFeatures(title string, c category.Category) error {
	return &MissingFeaturesError{Title: title, Category: c}
}

// NoRecommendationsError wraps ErrNoRecommendations.
// MissingFeatures counts candidates excluded because they carry no feature vector.
type NoRecommendationsError struct {
	MissingFeatures int
}

func (e *NoRecommendationsError) Error() string {
	if e.MissingFeatures > 0 {
		return fmt.Sprintf("%s: %d candidates excluded for missing feature vectors",
			ErrNoRecommendations.Error(), e.MissingFeatures)
	}
	return ErrNoRecommendations.Error()
}

func (e *NoRecommendationsError) Unwrap() error { return ErrNoRecommendations }

// NewNoRecommendations creates a no-recommendations error.
func NewNoRecommendations(missingFeatures int) error {
	return &NoRecommendationsError{MissingFeatures: missingFeatures}
}

// Error codes shared by transports and metrics.
const (
	CodeOK                = "ok"
	CodeEmptyQuery        = "empty_query"
	CodeNotFound          = "not_found"
	CodeMissingFeatures   = "missing_features"
	CodeNoRecommendations = "no_recommendations"
	CodeUnknownCategory   = "unknown_category"
	CodeEntityNotFound    = "entity_not_found"
	CodeInternal          = "internal_error"
)

var codes = []struct {
	err  error
	code string
}{
	{ErrEmptyQuery, CodeEmptyQuery},
	{ErrNotFound, CodeNotFound},
	{ErrMissingFeatures, CodeMissingFeatures},
	{ErrNoRecommendations, CodeNoRecommendations},
	{ErrUnknownCategory, CodeUnknownCategory},
	{ErrEntityNotFound, CodeEntityNotFound},
}

// Code maps an error to its stable code. nil maps to CodeOK.
func Code(err error) string {
	if err == nil {
		return CodeOK
	}
	for _, c := range codes {
		if errors.Is(err, c.err) {
			return c.code
		}
	}
	return CodeInternal
}
