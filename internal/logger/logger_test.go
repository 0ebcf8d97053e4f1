package logger

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestNewLogger_Envs(t *testing.T) {
	for _, env := range []string{"prod", "local", "dev", "docker"} {
		if _, err := NewLogger(env, Options{}); err != nil {
			t.Errorf("NewLogger(%q): %v", env, err)
		}
	}
	if _, err := NewLogger("staging", Options{}); err == nil {
		t.Error("expected error for unknown env")
	}
	if _, err := NewLogger("local", Options{Level: "loud"}); err == nil {
		t.Error("expected error for invalid level")
	}
}

func TestNewLogger_FileOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tastematch.log")

	l, err := NewLogger("prod", Options{Level: "warn", Output: path})
	if err != nil {
		t.Fatalf("NewLogger: %v", err)
	}
	l.Info("hidden by level")
	l.Warn("corpus vector dropped", zap.String("category", "songs"))
	_ = l.Sync()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	got := string(data)
	if !strings.Contains(got, "corpus vector dropped") || !strings.Contains(got, `"category":"songs"`) {
		t.Errorf("log file missing entry:\n%s", got)
	}
	if strings.Contains(got, "hidden by level") {
		t.Errorf("info line written despite warn level:\n%s", got)
	}
}

func TestWith_AddsFields(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	ctx := ContextWithLogger(context.Background(), zap.New(core))

	ctx = With(ctx, zap.String("tool", "search"))
	FromContext(ctx).Debug("Search completed")

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("entries: got %d, want 1", len(entries))
	}
	if got := entries[0].ContextMap()["tool"]; got != "search" {
		t.Errorf("tool field: got %v", got)
	}
}

func TestFromContext_Nop(t *testing.T) {
	if FromContext(context.Background()) == nil {
		t.Fatal("expected a no-op logger")
	}
	// With on a bare context must not panic.
	FromContext(With(context.Background(), zap.Int("id", 1))).Info("discarded")
}
