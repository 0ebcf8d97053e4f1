// Package corpus loads the song and movie collections from files or a key-value store.
package corpus

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/kailas-cloud/tastematch/internal/domain/category"
	domcorpus "github.com/kailas-cloud/tastematch/internal/domain/corpus"
	"github.com/kailas-cloud/tastematch/internal/domain/entity"
	"github.com/kailas-cloud/tastematch/internal/domain/features"
)

// Options controls feature post-processing during load.
type Options struct {
	// DeriveMovieFeatures fills movies lacking a vector from genre, rating and year.
	DeriveMovieFeatures bool
	// StandardizeSongFeatures z-scores song vectors column-wise.
	StandardizeSongFeatures bool
}

// Loader builds an immutable corpus from a source.
type Loader struct {
	src    Source
	codec  Codec
	opts   Options
	logger *zap.Logger
}

// NewLoader creates a loader.
func NewLoader(src Source, codec Codec, opts Options, logger *zap.Logger) *Loader {
	return &Loader{src: src, codec: codec, opts: opts, logger: logger}
}

// Load fetches both collections concurrently. A missing collection loads as
// empty; a fetch or decode failure aborts the load.
func (l *Loader) Load(ctx context.Context) (*domcorpus.Corpus, error) {
	var songs, movies []entity.Entity

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		songs, err = l.loadSongs(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		movies, err = l.loadMovies(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err //nolint:wrapcheck // already wrapped per collection
	}

	c := domcorpus.New(songs, movies)
	stats := c.Stats()
	for _, cat := range category.All {
		if n := stats.DroppedVectors[cat]; n > 0 {
			l.logger.Warn("Feature vectors dropped for dimension mismatch",
				zap.String("category", string(cat)),
				zap.Int("dropped", n),
			)
		}
		l.logger.Info("Collection loaded",
			zap.String("category", string(cat)),
			zap.String("format", l.codec.Name()),
			zap.Int("entities", stats.Entities[cat]),
			zap.Int("with_features", stats.WithFeatures[cat]),
		)
	}
	return c, nil
}

func (l *Loader) fetch(ctx context.Context, c category.Category) ([]byte, bool, error) {
	data, err := l.src.Fetch(ctx, c)
	if err != nil {
		if errors.Is(err, ErrMissing) {
			l.logger.Warn("Collection missing, loading empty", zap.String("category", string(c)), zap.Error(err))
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("fetch %s: %w", c, err)
	}
	return data, true, nil
}

func (l *Loader) loadSongs(ctx context.Context) ([]entity.Entity, error) {
	data, ok, err := l.fetch(ctx, category.Songs)
	if err != nil || !ok {
		return nil, err
	}
	var doc songsDoc
	if err := l.codec.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode songs: %w", err)
	}

	out := make([]entity.Entity, 0, len(doc.Songs))
	for i := range doc.Songs {
		e, err := songToEntity(&doc.Songs[i])
		if err != nil {
			l.logger.Warn("Skipping song record", zap.Int("index", i), zap.Error(err))
			continue
		}
		out = append(out, e)
	}
	if l.opts.StandardizeSongFeatures {
		out = standardize(out)
	}
	return out, nil
}

func (l *Loader) loadMovies(ctx context.Context) ([]entity.Entity, error) {
	data, ok, err := l.fetch(ctx, category.Movies)
	if err != nil || !ok {
		return nil, err
	}
	var doc moviesDoc
	if err := l.codec.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode movies: %w", err)
	}

	out := make([]entity.Entity, 0, len(doc.Movies))
	for i := range doc.Movies {
		e, err := movieToEntity(&doc.Movies[i], l.opts.DeriveMovieFeatures)
		if err != nil {
			l.logger.Warn("Skipping movie record", zap.Int("index", i), zap.Error(err))
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

// standardize z-scores the vectors of entities that carry one.
func standardize(items []entity.Entity) []entity.Entity {
	var (
		rows [][]float64
		idx  []int
	)
	for i := range items {
		if items[i].HasFeatures() {
			rows = append(rows, items[i].Features())
			idx = append(idx, i)
		}
	}
	scaled := features.Standardize(rows)
	for j, i := range idx {
		items[i] = items[i].WithFeatures(scaled[j])
	}
	return items
}
