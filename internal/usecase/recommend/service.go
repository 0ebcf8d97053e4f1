package recommend

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/tastematch/internal/domain"
	"github.com/kailas-cloud/tastematch/internal/domain/category"
	"github.com/kailas-cloud/tastematch/internal/domain/entity"
	"github.com/kailas-cloud/tastematch/internal/domain/similarity"
	"github.com/kailas-cloud/tastematch/internal/logger"
	"github.com/kailas-cloud/tastematch/internal/metrics"
)

const op = "recommend"

// Result is a recommendation list together with the entity it was computed for.
type Result struct {
	Selected        entity.Entity
	Recommendations []similarity.Recommendation
}

// Service ranks the entities most similar to a selected one.
type Service struct {
	corpus CorpusReader
}

// New creates a recommendation service.
func New(corpus CorpusReader) *Service {
	return &Service{corpus: corpus}
}

// Recommend returns up to similarity.MaxRecommendations entities of the same
// category closest to the entity with the given ID.
func (s *Service) Recommend(ctx context.Context, c category.Category, id int) (res Result, err error) {
	start := time.Now()
	defer func() {
		metrics.ObserveCore(op, string(c), domain.Code(err), time.Since(start), len(res.Recommendations))
	}()

	col, err := s.corpus.Collection(c)
	if err != nil {
		return Result{}, fmt.Errorf("resolve collection: %w", err)
	}
	selected, ok := col.At(id)
	if !ok {
		return Result{}, fmt.Errorf("%w: %s/%d", domain.ErrEntityNotFound, c, id)
	}

	recs, err := similarity.Rank(selected, col.All(), similarity.MaxRecommendations)
	if err != nil {
		logger.FromContext(ctx).Debug("No recommendations",
			zap.String("category", string(c)),
			zap.Int("id", id),
			zap.Error(err),
		)
		return Result{Selected: *selected}, err //nolint:wrapcheck // typed domain error
	}

	logger.FromContext(ctx).Debug("Recommend completed",
		zap.String("category", string(c)),
		zap.Int("id", id),
		zap.Int("recommendations", len(recs)),
		zap.Float64("top_similarity", recs[0].Similarity),
	)
	return Result{Selected: *selected, Recommendations: recs}, nil
}
