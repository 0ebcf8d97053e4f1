package tastematch

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/kailas-cloud/tastematch/internal/domain"
	"github.com/kailas-cloud/tastematch/internal/domain/category"
	"github.com/kailas-cloud/tastematch/internal/domain/entity"
	"github.com/kailas-cloud/tastematch/internal/domain/match"
	"github.com/kailas-cloud/tastematch/internal/domain/similarity"
	healthuc "github.com/kailas-cloud/tastematch/internal/usecase/health"
	recommenduc "github.com/kailas-cloud/tastematch/internal/usecase/recommend"
	suggestuc "github.com/kailas-cloud/tastematch/internal/usecase/suggest"
)

const songsFixture = `{"songs": [
  {"name": "Bohemian Rhapsody", "artists": "Queen", "genre": "Rock", "features": [0.39, 0.4, 0.23], "duration_ms": 354947, "year": 1975},
  {"name": "Don't Stop Me Now", "artists": "Queen", "genre": "Rock", "features": [0.56, 0.87, 0.6], "duration_ms": 209413, "year": 1978},
  {"name": "Blinding Lights", "artists": "The Weeknd", "genre": "Synthpop", "features": [0.51, 0.73, 0.33], "duration_ms": 200040, "year": 2019}
]}`

const moviesFixture = `{"movies": [
  {"title": "The Matrix", "director": "Lana Wachowski", "year": 1999, "genre": "Sci-Fi", "duration": "136 min", "rating": 8.7, "cast": ["Keanu Reeves"]},
  {"title": "Inception", "director": "Christopher Nolan", "year": 2010, "genre": "Sci-Fi", "duration": "148 min", "rating": 8.8, "cast": ["Leonardo DiCaprio"]}
]}`

func writeFixtures(t *testing.T) (songsPath, moviesPath string) {
	t.Helper()
	dir := t.TempDir()
	songsPath = filepath.Join(dir, "songs.json")
	moviesPath = filepath.Join(dir, "movies.json")
	if err := os.WriteFile(songsPath, []byte(songsFixture), 0o600); err != nil {
		t.Fatalf("write songs: %v", err)
	}
	if err := os.WriteFile(moviesPath, []byte(moviesFixture), 0o600); err != nil {
		t.Fatalf("write movies: %v", err)
	}
	return songsPath, moviesPath
}

func TestNew_NoSource(t *testing.T) {
	_, err := New(context.Background())
	if err == nil {
		t.Fatal("expected error when no corpus source provided")
	}
}

func TestNew_UnknownFormat(t *testing.T) {
	songs, movies := writeFixtures(t)
	_, err := New(context.Background(), WithFiles(songs, movies), WithFormat("xml"))
	if err == nil {
		t.Fatal("expected error for unknown format")
	}
}

func TestNew_UnknownDriver(t *testing.T) {
	cfg := &clientConfig{driver: "unknown", addrs: []string{"localhost:1234"}}
	_, err := createStore(cfg)
	if err == nil {
		t.Fatal("expected error for unknown driver")
	}
}

func TestNew_MalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "songs.json")
	if err := os.WriteFile(path, []byte(`{"songs": [`), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	_, err := New(context.Background(), WithFiles(path, ""))
	if err == nil {
		t.Fatal("expected error for malformed payload")
	}
}

func TestClient_FromFiles(t *testing.T) {
	songs, movies := writeFixtures(t)
	ctx := context.Background()

	c, err := New(ctx, WithFiles(songs, movies), WithDerivedMovieFeatures())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer c.Close()

	hits, err := c.Search(ctx, Songs, "queen")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(hits) != 2 {
		t.Fatalf("hits: got %d, want 2", len(hits))
	}
	if hits[0].Title != "Bohemian Rhapsody" || hits[0].Score != 60 {
		t.Errorf("first hit: got %q score %d", hits[0].Title, hits[0].Score)
	}
	if hits[0].Duration != "5:54" {
		t.Errorf("duration: got %q, want 5:54", hits[0].Duration)
	}

	sug, err := c.Suggest(ctx, Movies, "keanu")
	if err != nil {
		t.Fatalf("Suggest: %v", err)
	}
	if !sug.Visible || len(sug.Items) != 1 || sug.Items[0].Title != "The Matrix" {
		t.Errorf("suggest: got %+v", sug)
	}
	if sug.Items[0].Rating != 8.7 {
		t.Errorf("rating: got %v", sug.Items[0].Rating)
	}
	if sug.Items[0].Minutes != 136 {
		t.Errorf("minutes: got %d, want 136", sug.Items[0].Minutes)
	}

	recs, err := c.Recommend(ctx, Songs, 0)
	if err != nil {
		t.Fatalf("Recommend: %v", err)
	}
	if recs.Selected.Title != "Bohemian Rhapsody" {
		t.Errorf("selected: got %q", recs.Selected.Title)
	}
	if len(recs.Items) != 2 {
		t.Fatalf("recommendations: got %d, want 2", len(recs.Items))
	}

	movieRecs, err := c.Recommend(ctx, Movies, 0)
	if err != nil {
		t.Fatalf("Recommend movies: %v", err)
	}
	if len(movieRecs.Items) != 1 || movieRecs.Items[0].Title != "Inception" {
		t.Errorf("movie recommendations: got %+v", movieRecs.Items)
	}

	health := c.Health(ctx)
	if health.Status != "ok" {
		t.Errorf("health: got %q, want ok", health.Status)
	}
	if _, ok := health.Checks["database"]; ok {
		t.Error("database check reported without a store")
	}
}

func TestClient_Errors(t *testing.T) {
	songs, movies := writeFixtures(t)
	ctx := context.Background()

	c, err := New(ctx, WithFiles(songs, movies))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer c.Close()

	if _, err := c.Search(ctx, Songs, "   "); !errors.Is(err, ErrEmptyQuery) {
		t.Errorf("empty query: got %v", err)
	}

	_, err = c.Search(ctx, Songs, "zzzz")
	var nf *NotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("expected *NotFoundError, got %v", err)
	}
	if len(nf.Samples) != 3 {
		t.Errorf("samples: got %d, want 3", len(nf.Samples))
	}
	if ErrorCode(err) != domain.CodeNotFound {
		t.Errorf("code: got %q", ErrorCode(err))
	}

	// Movies carry no vectors unless derived.
	if _, err := c.Recommend(ctx, Movies, 0); !errors.Is(err, ErrMissingFeatures) {
		t.Errorf("movie without features: got %v", err)
	}
	if _, err := c.Recommend(ctx, Songs, 99); !errors.Is(err, ErrEntityNotFound) {
		t.Errorf("unknown id: got %v", err)
	}
}

func TestClient_OneCollection(t *testing.T) {
	songs, _ := writeFixtures(t)
	ctx := context.Background()

	c, err := New(ctx, WithFiles(songs, ""), WithoutSuggestIndex())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer c.Close()

	sug, err := c.Suggest(ctx, Movies, "matrix")
	if err != nil {
		t.Fatalf("Suggest: %v", err)
	}
	if !sug.Visible || len(sug.Items) != 0 {
		t.Errorf("empty collection: got %+v", sug)
	}
	if h := c.Health(ctx); h.Status != "ok" {
		t.Errorf("health: got %q", h.Status)
	}
}

func TestClient_Delegates(t *testing.T) {
	song, err := entity.NewSong("Blinding Lights", "The Weeknd", "Synthpop", "3:20", 2019, []float64{1, 0})
	if err != nil {
		t.Fatalf("NewSong: %v", err)
	}
	movie, err := entity.NewMovie("Inception", "Christopher Nolan", "Sci-Fi", "148 min", 2010, nil, 8.8, []string{"Leonardo DiCaprio"})
	if err != nil {
		t.Fatalf("NewMovie: %v", err)
	}

	var gotCat category.Category
	var gotRaw string
	c := testClient(
		&mockSearchUC{searchFn: func(_ context.Context, cat category.Category, raw string) ([]match.Result, error) {
			gotCat, gotRaw = cat, raw
			return []match.Result{{Entity: song, Score: 80}}, nil
		}},
		&mockSuggestUC{suggestFn: func(_ context.Context, _ category.Category, _ string) (suggestuc.Suggestions, error) {
			return suggestuc.Suggestions{Items: []entity.Entity{movie}, Visible: true}, nil
		}},
		&mockRecommendUC{recommendFn: func(_ context.Context, _ category.Category, _ int) (recommenduc.Result, error) {
			return recommenduc.Result{
				Selected:        song,
				Recommendations: []similarity.Recommendation{{Entity: song, Similarity: 0.5}},
			}, nil
		}},
		&mockHealthUC{report: healthuc.Report{
			Status: healthuc.Degraded,
			Checks: map[string]healthuc.CheckResult{"corpus": healthuc.CheckEmpty},
		}},
	)
	ctx := context.Background()

	hits, err := c.Search(ctx, Songs, "blinding")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if gotCat != Songs || gotRaw != "blinding" {
		t.Errorf("search args: got %q %q", gotCat, gotRaw)
	}
	if len(hits) != 1 || hits[0].Score != 80 || hits[0].Kind != "song" {
		t.Errorf("hits: got %+v", hits)
	}

	sug, err := c.Suggest(ctx, Movies, "in")
	if err != nil {
		t.Fatalf("Suggest: %v", err)
	}
	if len(sug.Items) != 1 || len(sug.Items[0].Cast) != 1 {
		t.Errorf("suggest: got %+v", sug)
	}

	recs, err := c.Recommend(ctx, Songs, 0)
	if err != nil {
		t.Fatalf("Recommend: %v", err)
	}
	if len(recs.Items) != 1 || recs.Items[0].MatchPercent != 50 {
		t.Errorf("recommend: got %+v", recs.Items)
	}

	h := c.Health(ctx)
	if h.Status != "degraded" || h.Checks["corpus"] != "empty" {
		t.Errorf("health: got %+v", h)
	}
}

func TestClient_WrapsErrors(t *testing.T) {
	c := testClient(
		&mockSearchUC{searchFn: func(_ context.Context, _ category.Category, _ string) ([]match.Result, error) {
			return nil, domain.ErrEmptyQuery
		}},
		&mockSuggestUC{suggestFn: func(_ context.Context, _ category.Category, _ string) (suggestuc.Suggestions, error) {
			return suggestuc.Suggestions{}, domain.ErrUnknownCategory
		}},
		&mockRecommendUC{recommendFn: func(_ context.Context, _ category.Category, _ int) (recommenduc.Result, error) {
			return recommenduc.Result{}, domain.NewNoRecommendations(3)
		}},
		nil,
	)
	ctx := context.Background()

	if _, err := c.Search(ctx, Songs, ""); !errors.Is(err, ErrEmptyQuery) {
		t.Errorf("search: got %v", err)
	}
	if _, err := c.Suggest(ctx, "books", "ab"); !errors.Is(err, ErrUnknownCategory) {
		t.Errorf("suggest: got %v", err)
	}
	_, err := c.Recommend(ctx, Songs, 1)
	var nr *NoRecommendationsError
	if !errors.As(err, &nr) {
		t.Errorf("recommend: got %v", err)
	}
}

func TestClientOptions(t *testing.T) {
	cfg := defaultConfig()
	if !cfg.reverseTitleMatch || !cfg.suggestIndex || cfg.format != "json" {
		t.Errorf("defaults: got %+v", cfg)
	}

	WithValkey("localhost:6379", "secret").apply(cfg)
	if cfg.driver != "valkey" {
		t.Errorf("driver = %q, want valkey", cfg.driver)
	}
	if cfg.addrs[0] != "localhost:6379" {
		t.Errorf("addr = %q, want localhost:6379", cfg.addrs[0])
	}
	if cfg.password != "secret" {
		t.Errorf("password = %q, want secret", cfg.password)
	}

	cfg2 := defaultConfig()
	WithRedis("localhost:6380", "pass").apply(cfg2)
	if cfg2.driver != "redis" {
		t.Errorf("driver = %q, want redis", cfg2.driver)
	}

	WithKeys("app:", "s", "m").apply(cfg2)
	if cfg2.keyPrefix != "app:" || cfg2.songsKey != "s" || cfg2.moviesKey != "m" {
		t.Errorf("keys = (%q, %q, %q)", cfg2.keyPrefix, cfg2.songsKey, cfg2.moviesKey)
	}

	WithFormat("msgpack").apply(cfg2)
	WithStandardizedSongFeatures().apply(cfg2)
	WithoutReverseTitleMatch().apply(cfg2)
	if cfg2.format != "msgpack" || !cfg2.standardizeSongs || cfg2.reverseTitleMatch {
		t.Errorf("options not applied: %+v", cfg2)
	}

	cfg3 := defaultConfig()
	logger := slog.Default()
	WithLogger(logger).apply(cfg3)
	if cfg3.logger != logger {
		t.Error("expected logger to be set")
	}

	reg := prometheus.NewRegistry()
	WithPrometheus(reg).apply(cfg3)
	if cfg3.metricsReg != reg {
		t.Error("expected metricsReg to be set")
	}
}

func TestClient_Close_NilStore(t *testing.T) {
	c := &Client{store: nil}
	c.Close()
}

func TestObserver_NilSafe(t *testing.T) {
	var obs *observer
	obs.observe("search", Songs, time.Now(), 0, nil)
	obs.observe("search", Songs, time.Now(), 0, errors.New("err"))
}

func TestObserver_NoMetricsNoLogger(t *testing.T) {
	obs, err := newObserver(nil, nil)
	if err != nil {
		t.Fatalf("newObserver: %v", err)
	}
	if obs.metrics != nil {
		t.Error("metrics should be nil without a registerer")
	}
	obs.observe("suggest", Movies, time.Now(), 8, nil)
}

func TestObserver_WithPrometheus(t *testing.T) {
	reg := prometheus.NewRegistry()
	obs, err := newObserver(nil, reg)
	if err != nil {
		t.Fatalf("newObserver: %v", err)
	}

	obs.observe("search", Songs, time.Now().Add(-10*time.Millisecond), 2, nil)
	obs.observe("search", "Song", time.Now(), 0, domain.ErrEmptyQuery)
	obs.observe("suggest", "podcasts", time.Now(), 0, domain.ErrUnknownCategory)
	obs.observe("recommend", Movies, time.Now(), 0, errors.New("boom"))

	want := map[[3]string]bool{
		{"search", "songs", domain.CodeOK}:                 false,
		{"search", "songs", domain.CodeEmptyQuery}:         false,
		{"suggest", "invalid", domain.CodeUnknownCategory}: false,
		{"recommend", "movies", domain.CodeInternal}:       false,
	}
	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	for _, f := range families {
		if f.GetName() != "tastematch_sdk_lookups_total" {
			continue
		}
		for _, m := range f.GetMetric() {
			labels := map[string]string{}
			for _, l := range m.GetLabel() {
				labels[l.GetName()] = l.GetValue()
			}
			key := [3]string{labels["operation"], labels["category"], labels["code"]}
			if _, ok := want[key]; !ok {
				t.Errorf("unexpected series %v", key)
				continue
			}
			want[key] = true
		}
	}
	for key, seen := range want {
		if !seen {
			t.Errorf("series %v not recorded", key)
		}
	}
}

func TestObserver_ClientCategoryFolded(t *testing.T) {
	reg := prometheus.NewRegistry()
	obs, err := newObserver(nil, reg)
	if err != nil {
		t.Fatalf("newObserver: %v", err)
	}
	c := testClient(nil,
		&mockSuggestUC{suggestFn: func(_ context.Context, _ category.Category, _ string) (suggestuc.Suggestions, error) {
			return suggestuc.Suggestions{}, domain.ErrUnknownCategory
		}},
		nil, nil)
	c.obs = obs

	for i := 0; i < 3; i++ {
		_, _ = c.Suggest(context.Background(), Category(fmt.Sprintf("made-up-%d", i)), "ab")
	}

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	for _, f := range families {
		if f.GetName() != "tastematch_sdk_lookups_total" {
			continue
		}
		if n := len(f.GetMetric()); n != 1 {
			t.Fatalf("series: got %d, want 1 folded series", n)
		}
		if got := f.GetMetric()[0].GetCounter().GetValue(); got != 3 {
			t.Errorf("count: got %v, want 3", got)
		}
		return
	}
	t.Fatal("tastematch_sdk_lookups_total not found")
}

func TestObserver_ReusesRegistered(t *testing.T) {
	reg := prometheus.NewRegistry()
	if _, err := newObserver(nil, reg); err != nil {
		t.Fatalf("first newObserver: %v", err)
	}
	if _, err := newObserver(nil, reg); err != nil {
		t.Fatalf("second newObserver: %v", err)
	}
}

func TestObserver_WithLogger(t *testing.T) {
	var buf bytes.Buffer
	obs, err := newObserver(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})), nil)
	if err != nil {
		t.Fatalf("newObserver: %v", err)
	}
	obs.observe("recommend", Songs, time.Now(), 5, nil)
	obs.observe("search", Songs, time.Now(), 0, domain.NewNotFound("zzz", nil))
	obs.observe("recommend", Movies, time.Now(), 0, errors.New("store down"))

	out := buf.String()
	for _, want := range []string{
		"level=DEBUG msg=\"lookup completed\"",
		"level=INFO msg=\"lookup rejected\"",
		"code=not_found",
		"level=ERROR msg=\"lookup failed\"",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("log output missing %q:\n%s", want, out)
		}
	}
}
