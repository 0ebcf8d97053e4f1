package corpus

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/kailas-cloud/tastematch/internal/db"
	"github.com/kailas-cloud/tastematch/internal/domain/category"
)

// ErrMissing signals that a collection payload does not exist at its source.
var ErrMissing = errors.New("corpus: collection missing")

// Source fetches the raw payload of one collection.
type Source interface {
	Fetch(ctx context.Context, c category.Category) ([]byte, error)
}

// FileSource reads collection payloads from local files.
type FileSource struct {
	paths map[category.Category]string
}

// NewFileSource creates a file source. An empty path marks the collection as absent.
func NewFileSource(songsPath, moviesPath string) *FileSource {
	return &FileSource{paths: map[category.Category]string{
		category.Songs:  songsPath,
		category.Movies: moviesPath,
	}}
}

// Fetch reads the file configured for c.
func (s *FileSource) Fetch(_ context.Context, c category.Category) ([]byte, error) {
	path := s.paths[c]
	if path == "" {
		return nil, fmt.Errorf("%w: no file configured for %s", ErrMissing, c)
	}
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrMissing, path)
		}
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return data, nil
}

// kvStore is the consumer interface for the key-value source (ISP).
type kvStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
}

// KVSource reads and writes collection payloads in a Valkey/Redis store.
type KVSource struct {
	store kvStore
	keys  map[category.Category]string
}

// NewKVSource creates a store-backed source. Keys are prefix+songsKey and prefix+moviesKey.
func NewKVSource(store kvStore, prefix, songsKey, moviesKey string) *KVSource {
	return &KVSource{
		store: store,
		keys: map[category.Category]string{
			category.Songs:  prefix + songsKey,
			category.Movies: prefix + moviesKey,
		},
	}
}

// Key returns the store key of c.
func (s *KVSource) Key(c category.Category) string { return s.keys[c] }

// Fetch reads the payload stored for c.
func (s *KVSource) Fetch(ctx context.Context, c category.Category) ([]byte, error) {
	key, ok := s.keys[c]
	if !ok {
		return nil, fmt.Errorf("%w: no key for %s", ErrMissing, c)
	}
	data, err := s.store.Get(ctx, key)
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return nil, fmt.Errorf("%w: key %s", ErrMissing, key)
		}
		return nil, fmt.Errorf("get %s: %w", key, err)
	}
	return data, nil
}

// Put stores the payload for c.
func (s *KVSource) Put(ctx context.Context, c category.Category, data []byte) error {
	key, ok := s.keys[c]
	if !ok {
		return fmt.Errorf("no key for %s", c)
	}
	if err := s.store.Set(ctx, key, data); err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}
	return nil
}
