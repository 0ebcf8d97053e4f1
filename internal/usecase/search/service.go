package search

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/tastematch/internal/domain"
	"github.com/kailas-cloud/tastematch/internal/domain/category"
	"github.com/kailas-cloud/tastematch/internal/domain/match"
	"github.com/kailas-cloud/tastematch/internal/domain/query"
	"github.com/kailas-cloud/tastematch/internal/logger"
	"github.com/kailas-cloud/tastematch/internal/metrics"
)

// SampleTitles is how many titles a not-found error suggests.
const SampleTitles = 3

const op = "search"

// Options configures the search service.
type Options struct {
	// ReverseTitleMatch enables the "query contains title" tier.
	ReverseTitleMatch bool
}

// Service ranks a collection against a free-text query.
type Service struct {
	corpus CorpusReader
	opts   match.Options
}

// New creates a search service.
func New(corpus CorpusReader, opts Options) *Service {
	return &Service{
		corpus: corpus,
		opts:   match.Options{ReverseTitle: opts.ReverseTitleMatch},
	}
}

// Search returns up to match.MaxResults entities of the category scored against raw.
// A blank query fails with domain.ErrEmptyQuery; no match fails with *domain.NotFoundError.
func (s *Service) Search(ctx context.Context, c category.Category, raw string) (results []match.Result, err error) {
	start := time.Now()
	defer func() {
		metrics.ObserveCore(op, string(c), domain.Code(err), time.Since(start), len(results))
	}()

	q, err := query.New(raw)
	if err != nil {
		return nil, err //nolint:wrapcheck // sentinel passes through unchanged
	}

	col, err := s.corpus.Collection(c)
	if err != nil {
		return nil, fmt.Errorf("resolve collection: %w", err)
	}

	results = match.Rank(q, col.All(), s.opts, match.MaxResults)
	if len(results) == 0 {
		return nil, domain.NewNotFound(strings.TrimSpace(q.Raw()), col.Titles(SampleTitles))
	}

	logger.FromContext(ctx).Debug("Search completed",
		zap.String("category", string(c)),
		zap.String("query", q.Text()),
		zap.Int("results", len(results)),
		zap.Int("top_score", results[0].Score),
	)
	return results, nil
}
