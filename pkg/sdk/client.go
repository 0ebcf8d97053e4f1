package tastematch

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	dbRedis "github.com/kailas-cloud/tastematch/internal/db/redis"
	"github.com/kailas-cloud/tastematch/internal/domain/category"
	domcorpus "github.com/kailas-cloud/tastematch/internal/domain/corpus"
	"github.com/kailas-cloud/tastematch/internal/domain/match"
	corpusrepo "github.com/kailas-cloud/tastematch/internal/repository/corpus"
	healthuc "github.com/kailas-cloud/tastematch/internal/usecase/health"
	recommenduc "github.com/kailas-cloud/tastematch/internal/usecase/recommend"
	searchuc "github.com/kailas-cloud/tastematch/internal/usecase/search"
	suggestuc "github.com/kailas-cloud/tastematch/internal/usecase/suggest"
)

const defaultReadinessTimeout = 10 * time.Second

// Internal use case interfaces, replaced by mocks in tests.
type searchUseCase interface {
	Search(ctx context.Context, c category.Category, raw string) ([]match.Result, error)
}

type suggestUseCase interface {
	Suggest(ctx context.Context, c category.Category, raw string) (suggestuc.Suggestions, error)
}

type recommendUseCase interface {
	Recommend(ctx context.Context, c category.Category, id int) (recommenduc.Result, error)
}

// Client is the tastematch SDK entry point. It is safe for concurrent use.
type Client struct {
	store        *dbRedis.Store
	searchSvc    searchUseCase
	suggestSvc   suggestUseCase
	recommendSvc recommendUseCase
	healthSvc    healthUseCase
	obs          *observer
}

// New loads the corpus and builds a Client. Files given by WithFiles take
// precedence; otherwise the corpus is read from the store configured by
// WithValkey or WithRedis. The provided context bounds the load.
func New(ctx context.Context, opts ...Option) (*Client, error) {
	cfg := defaultConfig()
	for _, o := range opts {
		o.apply(cfg)
	}

	fromFiles := cfg.songsPath != "" || cfg.moviesPath != ""
	if !fromFiles && len(cfg.addrs) == 0 {
		return nil, errors.New("tastematch: corpus source required (use WithFiles, WithValkey or WithRedis)")
	}

	codec, err := corpusrepo.CodecFor(cfg.format)
	if err != nil {
		return nil, fmt.Errorf("tastematch: %w", err)
	}

	var store *dbRedis.Store
	if len(cfg.addrs) > 0 {
		store, err = createStore(cfg)
		if err != nil {
			return nil, err
		}
		if err := store.WaitForReady(ctx, defaultReadinessTimeout); err != nil {
			store.Close()
			return nil, fmt.Errorf("tastematch: database not ready: %w", err)
		}
	}

	var src corpusrepo.Source
	if fromFiles {
		src = corpusrepo.NewFileSource(cfg.songsPath, cfg.moviesPath)
	} else {
		src = corpusrepo.NewKVSource(store, cfg.keyPrefix, cfg.songsKey, cfg.moviesKey)
	}

	loader := corpusrepo.NewLoader(src, codec, corpusrepo.Options{
		DeriveMovieFeatures:     cfg.deriveMovieFeatures,
		StandardizeSongFeatures: cfg.standardizeSongs,
	}, zap.NewNop())
	corpus, err := loader.Load(ctx)
	if err != nil {
		closeStore(store)
		return nil, fmt.Errorf("tastematch: %w", err)
	}

	obs, err := newObserver(cfg.logger, cfg.metricsReg)
	if err != nil {
		closeStore(store)
		return nil, err
	}

	c, err := wireClient(corpus, store, cfg, obs)
	if err != nil {
		closeStore(store)
		return nil, err
	}
	return c, nil
}

func createStore(cfg *clientConfig) (*dbRedis.Store, error) {
	switch cfg.driver {
	case "valkey", "redis":
		s, err := dbRedis.NewStore(dbRedis.Config{
			Addrs:       cfg.addrs,
			Password:    cfg.password,
			ClientCache: cfg.driver == "valkey",
		})
		if err != nil {
			return nil, fmt.Errorf("tastematch: create %s store: %w", cfg.driver, err)
		}
		return s, nil
	default:
		return nil, fmt.Errorf("tastematch: unknown driver %q", cfg.driver)
	}
}

func closeStore(s *dbRedis.Store) {
	if s != nil {
		s.Close()
	}
}

func wireClient(corpus *domcorpus.Corpus, store *dbRedis.Store, cfg *clientConfig, obs *observer) (*Client, error) {
	suggestSvc, err := suggestuc.New(corpus, suggestuc.Options{UseIndex: cfg.suggestIndex})
	if err != nil {
		return nil, fmt.Errorf("tastematch: build suggestion index: %w", err)
	}

	// nil interface, not a typed nil pointer, when no store is configured
	var pinger healthuc.DBPinger
	if store != nil {
		pinger = store
	}

	return &Client{
		store:        store,
		searchSvc:    searchuc.New(corpus, searchuc.Options{ReverseTitleMatch: cfg.reverseTitleMatch}),
		suggestSvc:   suggestSvc,
		recommendSvc: recommenduc.New(corpus),
		healthSvc:    healthuc.New(corpus, pinger),
		obs:          obs,
	}, nil
}

// Close releases all resources.
func (c *Client) Close() {
	closeStore(c.store)
}

// Search ranks the entities of a category against a free-text query.
// It returns at most 20 matches, best first. An empty query fails with
// ErrEmptyQuery; no match fails with a *NotFoundError holding sample titles.
func (c *Client) Search(ctx context.Context, cat Category, q string) (out []Match, err error) {
	start := time.Now()
	defer func() { c.obs.observe("search", cat, start, len(out), err) }()

	results, err := c.searchSvc.Search(ctx, cat, q)
	if err != nil {
		return nil, fmt.Errorf("search %s: %w", cat, err)
	}
	return matchesFromDomain(results), nil
}

// Suggest returns the autocomplete dropdown for a partial query.
func (c *Client) Suggest(ctx context.Context, cat Category, q string) (out Suggestions, err error) {
	start := time.Now()
	defer func() { c.obs.observe("suggest", cat, start, len(out.Items), err) }()

	sug, err := c.suggestSvc.Suggest(ctx, cat, q)
	if err != nil {
		return Suggestions{}, fmt.Errorf("suggest %s: %w", cat, err)
	}
	items := make([]Entity, len(sug.Items))
	for i := range sug.Items {
		items[i] = entityFromDomain(&sug.Items[i])
	}
	return Suggestions{Items: items, Visible: sug.Visible}, nil
}

// Recommend returns up to five entities most similar to the one with the given ID.
func (c *Client) Recommend(ctx context.Context, cat Category, id int) (out Recommendations, err error) {
	start := time.Now()
	defer func() { c.obs.observe("recommend", cat, start, len(out.Items), err) }()

	res, err := c.recommendSvc.Recommend(ctx, cat, id)
	if err != nil {
		return Recommendations{}, fmt.Errorf("recommend %s/%d: %w", cat, id, err)
	}
	return Recommendations{
		Selected: entityFromDomain(&res.Selected),
		Items:    recommendationsFromDomain(res.Recommendations),
	}, nil
}
