package tastematch

import (
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
)

// Option configures the Client.
type Option interface {
	apply(*clientConfig)
}

// optionFunc adapts a function to the Option interface.
type optionFunc func(*clientConfig)

func (f optionFunc) apply(c *clientConfig) { f(c) }

type clientConfig struct {
	songsPath  string
	moviesPath string

	driver    string // "valkey" or "redis"
	addrs     []string
	password  string
	keyPrefix string
	songsKey  string
	moviesKey string

	format              string
	deriveMovieFeatures bool
	standardizeSongs    bool
	reverseTitleMatch   bool
	suggestIndex        bool

	logger     *slog.Logger
	metricsReg prometheus.Registerer
}

func defaultConfig() *clientConfig {
	return &clientConfig{
		keyPrefix:         "tastematch:",
		songsKey:          "corpus:songs",
		moviesKey:         "corpus:movies",
		format:            "json",
		reverseTitleMatch: true,
		suggestIndex:      true,
	}
}

// WithFiles loads the corpus from local files. Either path may be empty.
func WithFiles(songsPath, moviesPath string) Option {
	return optionFunc(func(c *clientConfig) {
		c.songsPath = songsPath
		c.moviesPath = moviesPath
	})
}

// WithValkey connects to a Valkey instance with client-side caching.
// Without WithFiles the corpus is read from the store.
func WithValkey(addr, password string) Option {
	return optionFunc(func(c *clientConfig) {
		c.driver = "valkey"
		c.addrs = []string{addr}
		c.password = password
	})
}

// WithRedis connects to a Redis instance.
// Without WithFiles the corpus is read from the store.
func WithRedis(addr, password string) Option {
	return optionFunc(func(c *clientConfig) {
		c.driver = "redis"
		c.addrs = []string{addr}
		c.password = password
	})
}

// WithKeys overrides the store keys. Defaults: "tastematch:", "corpus:songs", "corpus:movies".
func WithKeys(prefix, songsKey, moviesKey string) Option {
	return optionFunc(func(c *clientConfig) {
		c.keyPrefix = prefix
		c.songsKey = songsKey
		c.moviesKey = moviesKey
	})
}

// WithFormat selects the payload encoding: "json" (default) or "msgpack".
func WithFormat(format string) Option {
	return optionFunc(func(c *clientConfig) {
		c.format = format
	})
}

// WithDerivedMovieFeatures fills missing movie vectors from genre, rating and year.
func WithDerivedMovieFeatures() Option {
	return optionFunc(func(c *clientConfig) {
		c.deriveMovieFeatures = true
	})
}

// WithStandardizedSongFeatures z-scores song vectors column-wise after load.
func WithStandardizedSongFeatures() Option {
	return optionFunc(func(c *clientConfig) {
		c.standardizeSongs = true
	})
}

// WithoutReverseTitleMatch disables the tier where the query contains a whole title.
func WithoutReverseTitleMatch() Option {
	return optionFunc(func(c *clientConfig) {
		c.reverseTitleMatch = false
	})
}

// WithoutSuggestIndex answers suggestions by linear scan instead of the suffix index.
func WithoutSuggestIndex() Option {
	return optionFunc(func(c *clientConfig) {
		c.suggestIndex = false
	})
}

// WithLogger enables structured logging for SDK operations.
// Pass nil to disable (default). Uses standard library slog.
func WithLogger(l *slog.Logger) Option {
	return optionFunc(func(c *clientConfig) {
		c.logger = l
	})
}

// WithPrometheus registers SDK metrics (operation counts and durations)
// on the given registerer. Pass nil to disable (default).
func WithPrometheus(reg prometheus.Registerer) Option {
	return optionFunc(func(c *clientConfig) {
		c.metricsReg = reg
	})
}
