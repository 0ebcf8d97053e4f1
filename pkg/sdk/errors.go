package tastematch

import "github.com/kailas-cloud/tastematch/internal/domain"

// Sentinel errors re-exported from the domain layer.
// Use errors.Is() to check.
var (
	ErrEmptyQuery        = domain.ErrEmptyQuery
	ErrNotFound          = domain.ErrNotFound
	ErrMissingFeatures   = domain.ErrMissingFeatures
	ErrNoRecommendations = domain.ErrNoRecommendations
	ErrUnknownCategory   = domain.ErrUnknownCategory
	ErrEntityNotFound    = domain.ErrEntityNotFound
)

// Typed errors carrying detail. Use errors.As() to extract.
type (
	NotFoundError          = domain.NotFoundError
	MissingFeaturesError   = domain.MissingFeaturesError
	NoRecommendationsError = domain.NoRecommendationsError
)

// ErrorCode returns the stable code of err, "ok" for nil.
func ErrorCode(err error) string { return domain.Code(err) }
