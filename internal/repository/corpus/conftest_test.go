package corpus

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/kailas-cloud/tastematch/internal/db"
)

const songsJSON = `{"songs": [
  {"name": "Blinding Lights", "artists": "The Weeknd", "genre": "Pop", "features": [1, 0], "duration": "3:20", "year": 2019},
  {"name": "Levitating", "artists": "Dua Lipa", "genre": "Pop", "features": [0.9, 0.1], "duration_ms": 203064, "year": 2020},
  {"name": "", "artists": "Nobody", "genre": "Pop", "features": [1, 1], "year": 2000},
  {"name": "Symphony No.5", "artists": "Beethoven", "genre": "Classical", "features": [0, 1], "duration": "7:08", "year": 1808}
]}`

const moviesJSON = `{"movies": [
  {"title": "Inception", "director": "Christopher Nolan", "year": 2010, "genre": "Sci-Fi", "duration": "148 min", "rating": 8.8,
   "cast": ["Leonardo DiCaprio", "Tom Hardy"], "features": [0.6, 0.8, 0.7, 0.75, 0.65, 0.55, 0.75, 0.8, 0.7]},
  {"title": "Heat", "director": "Michael Mann", "year": 1995, "genre": "Crime", "duration": "170 min", "rating": 8.3,
   "cast": ["Al Pacino", "Robert De Niro"]}
]}`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}

// mockKV implements kvStore in memory.
type mockKV struct {
	data   map[string][]byte
	getErr error
	setErr error
}

func newMockKV() *mockKV { return &mockKV{data: map[string][]byte{}} }

func (m *mockKV) Get(_ context.Context, key string) ([]byte, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	v, ok := m.data[key]
	if !ok {
		return nil, db.ErrKeyNotFound
	}
	return v, nil
}

func (m *mockKV) Set(_ context.Context, key string, value []byte) error {
	if m.setErr != nil {
		return m.setErr
	}
	m.data[key] = value
	return nil
}
