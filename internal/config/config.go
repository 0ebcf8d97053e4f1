package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"

	"gopkg.in/yaml.v3"
)

// Run modes.
const (
	ModeHTTP    = "http"
	ModeMCP     = "mcp"
	ModeConsole = "console"
)

// Corpus sources and formats.
const (
	SourceFile    = "file"
	SourceKV      = "kv"
	FormatJSON    = "json"
	FormatMsgpack = "msgpack"
)

// Config holds the tastematch configuration.
type Config struct {
	Mode     string         `yaml:"mode"` // http, mcp, console (default: http)
	HTTP     HTTPConfig     `yaml:"http"`
	Database DatabaseConfig `yaml:"database"`
	Auth     AuthConfig     `yaml:"auth"`
	Storage  StorageConfig  `yaml:"storage"`
	Corpus   CorpusConfig   `yaml:"corpus"`
	Search   SearchConfig   `yaml:"search"`
	Suggest  SuggestConfig  `yaml:"suggest"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error (default: determined by env)
	Output string `yaml:"output"` // stderr (default), stdout or a file path
}

// AuthConfig holds API authentication settings.
type AuthConfig struct {
	APIKeys []string `yaml:"api_keys"`
}

// HTTPConfig holds HTTP server settings.
type HTTPConfig struct {
	Port            int `yaml:"port"`
	ReadTimeoutSec  int `yaml:"read_timeout_sec"`
	WriteTimeoutSec int `yaml:"write_timeout_sec"`
	ShutdownSec     int `yaml:"shutdown_timeout_sec"`
}

// DatabaseConfig holds key-value store connection settings.
// Addrs may be empty unless the corpus is read from the store.
type DatabaseConfig struct {
	Driver           string   `yaml:"driver"` // valkey, redis (default: valkey)
	Addrs            []string `yaml:"addrs"`
	Password         string   `yaml:"password"`
	ReadinessTimeout int      `yaml:"readiness_timeout_sec"`
}

// StorageConfig holds storage settings.
type StorageConfig struct {
	KeyPrefix string `yaml:"key_prefix"`
}

// CorpusConfig describes where the song and movie collections come from.
type CorpusConfig struct {
	Source     string `yaml:"source"` // file, kv (default: file)
	Format     string `yaml:"format"` // json, msgpack (default: json)
	SongsPath  string `yaml:"songs_path"`
	MoviesPath string `yaml:"movies_path"`
	SongsKey   string `yaml:"songs_key"`  // prefixed with storage.key_prefix
	MoviesKey  string `yaml:"movies_key"` // prefixed with storage.key_prefix

	DeriveMovieFeatures     bool `yaml:"derive_movie_features"`
	StandardizeSongFeatures bool `yaml:"standardize_song_features"`
}

// SearchConfig tunes text matching.
type SearchConfig struct {
	ReverseTitleMatch *bool `yaml:"reverse_title_match"` // default: true
}

// SuggestConfig tunes autocomplete.
type SuggestConfig struct {
	DebounceMS int   `yaml:"debounce_ms"` // default: 300
	UseIndex   *bool `yaml:"use_index"`   // default: true
}

// Load reads configuration from a YAML file by environment name (local, dev, prod).
func Load(env string) (Config, error) {
	configPath := findConfigPath(env)

	data, err := os.ReadFile(filepath.Clean(configPath))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", configPath, err)
	}

	return Parse(data)
}

// Parse decodes YAML configuration, expands ${VAR} references, applies defaults and validates.
func Parse(data []byte) (Config, error) {
	data = expandEnvVars(data)

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// MustLoad loads configuration or panics.
func MustLoad(env string) Config {
	cfg, err := Load(env)
	if err != nil {
		panic(err)
	}
	return cfg
}

// GetEnv returns the current environment from the ENV variable, defaulting to "local".
func GetEnv() string {
	if env := os.Getenv("ENV"); env != "" {
		return env
	}
	return "local"
}

// ApplyDefaults fills empty fields with default values.
func (c *Config) ApplyDefaults() {
	if c.Mode == "" {
		c.Mode = ModeHTTP
	}
	if c.HTTP.ReadTimeoutSec <= 0 {
		c.HTTP.ReadTimeoutSec = 10
	}
	if c.HTTP.WriteTimeoutSec <= 0 {
		c.HTTP.WriteTimeoutSec = 10
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}
	if c.Database.Driver == "" {
		c.Database.Driver = "valkey"
	}
	if c.Database.ReadinessTimeout <= 0 {
		c.Database.ReadinessTimeout = 10
	}
	if c.Storage.KeyPrefix == "" {
		c.Storage.KeyPrefix = "tastematch:"
	}
	if c.Corpus.Source == "" {
		c.Corpus.Source = SourceFile
	}
	if c.Corpus.Format == "" {
		c.Corpus.Format = FormatJSON
	}
	if c.Corpus.SongsKey == "" {
		c.Corpus.SongsKey = "corpus:songs"
	}
	if c.Corpus.MoviesKey == "" {
		c.Corpus.MoviesKey = "corpus:movies"
	}
	if c.Search.ReverseTitleMatch == nil {
		c.Search.ReverseTitleMatch = boolPtr(true)
	}
	if c.Suggest.DebounceMS <= 0 {
		c.Suggest.DebounceMS = 300
	}
	if c.Suggest.UseIndex == nil {
		c.Suggest.UseIndex = boolPtr(true)
	}
	if c.Logging.Output == "" {
		c.Logging.Output = "stderr"
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	switch c.Mode {
	case ModeHTTP:
		if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
			return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
		}
	case ModeMCP:
		if c.Logging.Output == "stdout" {
			return fmt.Errorf("logging.output must not be stdout in mcp mode, stdout carries the protocol")
		}
	case ModeConsole:
	default:
		return fmt.Errorf("mode must be one of http, mcp, console, got %q", c.Mode)
	}
	switch c.Database.Driver {
	case "valkey", "redis":
	default:
		return fmt.Errorf("database.driver must be \"valkey\" or \"redis\", got %q", c.Database.Driver)
	}
	switch c.Corpus.Format {
	case FormatJSON, FormatMsgpack:
	default:
		return fmt.Errorf("corpus.format must be \"json\" or \"msgpack\", got %q", c.Corpus.Format)
	}
	switch c.Corpus.Source {
	case SourceFile:
		if c.Corpus.SongsPath == "" && c.Corpus.MoviesPath == "" {
			return fmt.Errorf("corpus.songs_path or corpus.movies_path is required for file source")
		}
	case SourceKV:
		if len(c.Database.Addrs) == 0 {
			return fmt.Errorf("database.addrs is required for kv corpus source")
		}
	default:
		return fmt.Errorf("corpus.source must be \"file\" or \"kv\", got %q", c.Corpus.Source)
	}
	return nil
}

// ReverseTitleMatchEnabled reports whether the "query contains title" tier is enabled.
func (c SearchConfig) ReverseTitleMatchEnabled() bool {
	return c.ReverseTitleMatch == nil || *c.ReverseTitleMatch
}

// IndexEnabled reports whether suggestions use the suffix index.
func (c SuggestConfig) IndexEnabled() bool {
	return c.UseIndex == nil || *c.UseIndex
}

func boolPtr(b bool) *bool { return &b }

// findConfigPath locates the config file.
func findConfigPath(env string) string {
	filename := fmt.Sprintf("%s.yaml", env)

	if path := filepath.Join("config", filename); fileExists(path) {
		return path
	}

	// Relative to the source file, for tests run from package dirs.
	_, b, _, _ := runtime.Caller(0)
	projectRoot := filepath.Dir(filepath.Dir(filepath.Dir(b)))
	if path := filepath.Join(projectRoot, "config", filename); fileExists(path) {
		return path
	}

	return filepath.Join("config", filename)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// expandEnvVars replaces ${VAR} and ${VAR:-default} with environment variable values.
var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

func expandEnvVars(data []byte) []byte {
	return envVarRegex.ReplaceAllFunc(data, func(match []byte) []byte {
		expr := string(match[2 : len(match)-1])
		varName, defaultVal, hasDefault := strings.Cut(expr, ":-")
		val := os.Getenv(varName)
		if val == "" && hasDefault {
			val = defaultVal
		}
		return []byte(val)
	})
}
