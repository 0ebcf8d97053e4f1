// Seed uploads the song and movie collections from local files into Valkey/Redis
// so that a deployment can run with corpus.source: kv.
//
// Usage:
//
//	ENV=prod seed -songs data/songs.json -movies data/movies.json
//
// The target store, key prefix, keys and stored format come from the ENV config.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/tastematch/internal/config"
	dbRedis "github.com/kailas-cloud/tastematch/internal/db/redis"
	logpkg "github.com/kailas-cloud/tastematch/internal/logger"
	corpusrepo "github.com/kailas-cloud/tastematch/internal/repository/corpus"
)

type options struct {
	songsPath  string
	moviesPath string
	fromFormat string
}

func parseFlags() options {
	opts := options{}
	flag.StringVar(&opts.songsPath, "songs", "data/songs.json", "songs file to upload")
	flag.StringVar(&opts.moviesPath, "movies", "data/movies.json", "movies file to upload")
	flag.StringVar(&opts.fromFormat, "from", config.FormatJSON, "format of the input files (json, msgpack)")
	flag.Parse()
	return opts
}

func main() {
	opts := parseFlags()

	env := config.GetEnv()
	cfg, err := config.Load(env)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger, err := logpkg.NewLogger(env, logpkg.Options{Level: cfg.Logging.Level, Output: cfg.Logging.Output})
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer cancel()

	if err := run(ctx, cfg, opts, logger); err != nil {
		logger.Error("Seed failed", zap.Error(err))
		cancel()
		os.Exit(1) //nolint:gocritic // deferred Sync is best effort
	}
}

func run(ctx context.Context, cfg config.Config, opts options, logger *zap.Logger) error {
	if len(cfg.Database.Addrs) == 0 {
		return fmt.Errorf("database.addrs is required")
	}
	from, err := corpusrepo.CodecFor(opts.fromFormat)
	if err != nil {
		return fmt.Errorf("input codec: %w", err)
	}
	to, err := corpusrepo.CodecFor(cfg.Corpus.Format)
	if err != nil {
		return fmt.Errorf("output codec: %w", err)
	}

	store, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:    cfg.Database.Addrs,
		Password: cfg.Database.Password,
	})
	if err != nil {
		return fmt.Errorf("create store: %w", err)
	}
	defer store.Close()

	if err := store.WaitForReady(ctx, time.Duration(cfg.Database.ReadinessTimeout)*time.Second); err != nil {
		return fmt.Errorf("database not ready: %w", err)
	}

	dst := corpusrepo.NewKVSource(store, cfg.Storage.KeyPrefix, cfg.Corpus.SongsKey, cfg.Corpus.MoviesKey)
	written, err := corpusrepo.Seed(ctx, corpusrepo.NewFileSource(opts.songsPath, opts.moviesPath), from, dst, to)
	for _, c := range written {
		logger.Info("Collection uploaded",
			zap.String("category", string(c)),
			zap.String("key", dst.Key(c)),
			zap.String("format", to.Name()),
		)
	}
	if err != nil {
		return fmt.Errorf("seed: %w", err)
	}
	if len(written) == 0 {
		logger.Warn("Nothing uploaded: no input files found",
			zap.String("songs", opts.songsPath),
			zap.String("movies", opts.moviesPath),
		)
	}
	return nil
}
