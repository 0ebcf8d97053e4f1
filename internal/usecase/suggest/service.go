package suggest

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/kailas-cloud/tastematch/internal/domain"
	"github.com/kailas-cloud/tastematch/internal/domain/category"
	"github.com/kailas-cloud/tastematch/internal/domain/corpus"
	"github.com/kailas-cloud/tastematch/internal/domain/entity"
	"github.com/kailas-cloud/tastematch/internal/domain/query"
	"github.com/kailas-cloud/tastematch/internal/logger"
	"github.com/kailas-cloud/tastematch/internal/metrics"
)

// Suggestion limits.
const (
	MinQueryRunes  = 2
	MaxSuggestions = 8
)

const op = "suggest"

// Suggestions is the autocomplete answer for one keystroke.
// Visible is false when the query is too short to activate suggestions.
type Suggestions struct {
	Items   []entity.Entity
	Visible bool
}

// Options configures the suggestion service.
type Options struct {
	// UseIndex selects the suffix index instead of a linear scan.
	UseIndex bool
}

// Service answers substring autocomplete queries. It is safe for concurrent use.
type Service struct {
	corpus  CorpusReader
	indexes map[category.Category]*suffixIndex
}

// New creates a suggestion service. With UseIndex set, a suffix index is built
// for every category up front.
func New(corpus CorpusReader, opts Options) (*Service, error) {
	s := &Service{corpus: corpus}
	if !opts.UseIndex {
		return s, nil
	}
	s.indexes = make(map[category.Category]*suffixIndex, len(category.All))
	for _, c := range category.All {
		col, err := corpus.Collection(c)
		if err != nil {
			return nil, fmt.Errorf("index %s: %w", c, err)
		}
		s.indexes[c] = newSuffixIndex(col.All())
	}
	return s, nil
}

// Suggest returns up to MaxSuggestions entities, in corpus order, whose title,
// creator, genre or cast contains raw. It never fails on user input; an unknown
// category yields domain.ErrUnknownCategory.
func (s *Service) Suggest(ctx context.Context, c category.Category, raw string) (out Suggestions, err error) {
	start := time.Now()
	defer func() {
		metrics.ObserveCore(op, string(c), domain.Code(err), time.Since(start), len(out.Items))
	}()

	col, err := s.corpus.Collection(c)
	if err != nil {
		return Suggestions{}, fmt.Errorf("resolve collection: %w", err)
	}

	if utf8.RuneCountInString(strings.TrimSpace(raw)) < MinQueryRunes {
		return Suggestions{}, nil
	}
	text := query.Normalize(raw)

	if idx, ok := s.indexes[c]; ok {
		out.Items = s.fromIndex(col, idx, text)
	} else {
		out.Items = Scan(col.All(), text, MaxSuggestions)
	}
	out.Visible = true

	logger.FromContext(ctx).Debug("Suggest completed",
		zap.String("category", string(c)),
		zap.String("query", text),
		zap.Int("suggestions", len(out.Items)),
	)
	return out, nil
}

func (s *Service) fromIndex(col *corpus.Collection, idx *suffixIndex, text string) []entity.Entity {
	ids := idx.lookup(text, MaxSuggestions)
	items := make([]entity.Entity, 0, len(ids))
	for _, id := range ids {
		if e, ok := col.At(id); ok {
			items = append(items, *e)
		}
	}
	return items
}

// Matches reports whether any normalized field of e contains text.
func Matches(e *entity.Entity, text string) bool {
	if text == "" {
		return false
	}
	k := e.Keys()
	for _, field := range []string{k.Title, k.Creator, k.Genre, k.Cast} {
		if strings.Contains(field, text) {
			return true
		}
	}
	return false
}

// Scan returns up to limit entities matching text in corpus order.
func Scan(entities []entity.Entity, text string, limit int) []entity.Entity {
	var out []entity.Entity
	for i := range entities {
		if len(out) == limit {
			break
		}
		if Matches(&entities[i], text) {
			out = append(out, entities[i])
		}
	}
	return out
}
