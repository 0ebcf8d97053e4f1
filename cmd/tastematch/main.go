package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/kailas-cloud/tastematch/internal/config"
	"github.com/kailas-cloud/tastematch/internal/console"
	dbRedis "github.com/kailas-cloud/tastematch/internal/db/redis"
	"github.com/kailas-cloud/tastematch/internal/domain/category"
	domcorpus "github.com/kailas-cloud/tastematch/internal/domain/corpus"
	logpkg "github.com/kailas-cloud/tastematch/internal/logger"
	"github.com/kailas-cloud/tastematch/internal/metrics"
	corpusrepo "github.com/kailas-cloud/tastematch/internal/repository/corpus"
	chiTransport "github.com/kailas-cloud/tastematch/internal/transport/chi"
	mcpTransport "github.com/kailas-cloud/tastematch/internal/transport/mcp"
	healthuc "github.com/kailas-cloud/tastematch/internal/usecase/health"
	recommenduc "github.com/kailas-cloud/tastematch/internal/usecase/recommend"
	searchuc "github.com/kailas-cloud/tastematch/internal/usecase/search"
	suggestuc "github.com/kailas-cloud/tastematch/internal/usecase/suggest"
	"github.com/kailas-cloud/tastematch/internal/version"
)

func main() {
	// Load configuration based on ENV
	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.NewLogger(env, logpkg.Options{Level: cfg.Logging.Level, Output: cfg.Logging.Output})
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting tastematch",
		zap.String("build", version.String()),
		zap.String("env", env),
		zap.String("mode", cfg.Mode),
		zap.String("corpus_source", cfg.Corpus.Source),
		zap.String("corpus_format", cfg.Corpus.Format),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// The store is optional: it backs the kv corpus source and the database health check.
	var store *dbRedis.Store
	if len(cfg.Database.Addrs) > 0 {
		store, err = newStore(cfg.Database)
		if err != nil {
			logger.Fatal("Failed to create database store", zap.Error(err))
		}
		defer store.Close()

		if err := store.WaitForReady(ctx, time.Duration(cfg.Database.ReadinessTimeout)*time.Second); err != nil {
			logger.Fatal("Database not ready", zap.Error(err))
		}
		logger.Info("Connected to database",
			zap.String("db_driver", cfg.Database.Driver),
			zap.Strings("db_addrs", cfg.Database.Addrs),
		)
	}

	corpus, err := loadCorpus(ctx, cfg, store, logger)
	if err != nil {
		logger.Fatal("Failed to load corpus", zap.Error(err))
	}

	// Register core metrics explicitly (no init())
	metrics.RegisterCoreMetrics()
	observeCorpus(corpus)

	// Create use case services
	searchSvc := searchuc.New(corpus, searchuc.Options{
		ReverseTitleMatch: cfg.Search.ReverseTitleMatchEnabled(),
	})
	suggestSvc, err := suggestuc.New(corpus, suggestuc.Options{UseIndex: cfg.Suggest.IndexEnabled()})
	if err != nil {
		logger.Fatal("Failed to build suggestion index", zap.Error(err))
	}
	recommendSvc := recommenduc.New(corpus)

	switch cfg.Mode {
	case config.ModeMCP:
		server := mcpTransport.NewServer("tastematch", version.Version, searchSvc, suggestSvc, recommendSvc, logger)
		logger.Info("Serving MCP over stdio")
		if err := server.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("MCP server error", zap.Error(err))
		}
	case config.ModeConsole:
		con := console.New(searchSvc, suggestSvc, recommendSvc,
			time.Duration(cfg.Suggest.DebounceMS)*time.Millisecond, logger)
		if err := con.Run(ctx, os.Stdin, os.Stdout); err != nil {
			logger.Error("Console error", zap.Error(err))
		}
	default:
		// Pass nil interface (not typed nil pointer!) if no store is configured.
		var pinger healthuc.DBPinger
		if store != nil {
			pinger = store
		}
		healthSvc := healthuc.New(corpus, pinger)
		serveHTTP(ctx, cfg, chiTransport.NewServer(searchSvc, suggestSvc, recommendSvc, healthSvc, logger), logger)
	}

	logger.Info("Stopped gracefully")
}

func newStore(cfg config.DatabaseConfig) (*dbRedis.Store, error) {
	// Valkey gets client-side caching; plain Redis stays on RESP2.
	store, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:       cfg.Addrs,
		Password:    cfg.Password,
		ClientCache: cfg.Driver == "valkey",
	})
	if err != nil {
		return nil, fmt.Errorf("%s store: %w", cfg.Driver, err)
	}
	return store, nil
}

func loadCorpus(
	ctx context.Context, cfg config.Config, store *dbRedis.Store, logger *zap.Logger,
) (*domcorpus.Corpus, error) {
	codec, err := corpusrepo.CodecFor(cfg.Corpus.Format)
	if err != nil {
		return nil, fmt.Errorf("corpus codec: %w", err)
	}

	var src corpusrepo.Source
	switch cfg.Corpus.Source {
	case config.SourceKV:
		if store == nil {
			return nil, fmt.Errorf("kv corpus source requires database.addrs")
		}
		src = corpusrepo.NewKVSource(store, cfg.Storage.KeyPrefix, cfg.Corpus.SongsKey, cfg.Corpus.MoviesKey)
	default:
		src = corpusrepo.NewFileSource(cfg.Corpus.SongsPath, cfg.Corpus.MoviesPath)
	}

	loader := corpusrepo.NewLoader(src, codec, corpusrepo.Options{
		DeriveMovieFeatures:     cfg.Corpus.DeriveMovieFeatures,
		StandardizeSongFeatures: cfg.Corpus.StandardizeSongFeatures,
	}, logger)
	c, err := loader.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load corpus: %w", err)
	}
	return c, nil
}

func observeCorpus(c *domcorpus.Corpus) {
	stats := c.Stats()
	for _, cat := range category.All {
		metrics.CorpusEntities.WithLabelValues(string(cat)).Set(float64(stats.Entities[cat]))
		metrics.CorpusDroppedVectors.WithLabelValues(string(cat)).Set(float64(stats.DroppedVectors[cat]))
	}
}

func serveHTTP(ctx context.Context, cfg config.Config, server *chiTransport.Server, logger *zap.Logger) {
	r := chi.NewRouter()
	r.Use(jsonRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(logger))
	r.Use(chiTransport.BearerAuthMiddleware(cfg.Auth.APIKeys))
	r.Use(metrics.Middleware())
	chiTransport.HandlerWithOptions(server, chiTransport.ChiServerOptions{
		BaseRouter:       r,
		ErrorHandlerFunc: chiTransport.ParamErrorHandler,
	})

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}
}

// jsonRecoverer is a recovery middleware that returns JSON instead of a plain text stacktrace.
func jsonRecoverer(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rvr := recover(); rvr != nil {
					logger.Error("panic recovered",
						zap.Any("panic", rvr),
						zap.String("path", r.URL.Path),
						zap.Stack("stacktrace"),
					)
					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					_ = json.NewEncoder(w).Encode(chiTransport.ErrorResponse{
						Code:    "internal_error",
						Message: "internal error",
					})
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// wideEventMiddleware emits a canonical log line per request and propagates X-Request-ID.
func wideEventMiddleware(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			// chi.middleware.RequestID already placed request_id in context
			requestID := chiMiddleware.GetReqID(r.Context())
			if requestID != "" {
				w.Header().Set("X-Request-ID", requestID)
			}

			reqLogger := logger.With(zap.String("request_id", requestID))
			ctx := logpkg.ContextWithLogger(r.Context(), reqLogger)

			ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(ctx))

			// Canonical log line, one per request
			reqLogger.Info("http_request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.String("query", r.URL.RawQuery),
				zap.Int("status", ww.Status()),
				zap.Duration("latency", time.Since(start)),
				zap.String("ip", r.RemoteAddr),
				zap.String("user_agent", r.UserAgent()),
				zap.Int("response_bytes", ww.BytesWritten()),
			)
		})
	}
}
