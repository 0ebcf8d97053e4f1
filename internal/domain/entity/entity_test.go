package entity

import (
	"testing"

	"github.com/kailas-cloud/tastematch/internal/domain/category"
)

func TestNewSong_Valid(t *testing.T) {
	vec := []float64{1, 0}
	e, err := NewSong("Blinding Lights", "The Weeknd", "Pop", "3:20", 2019, vec)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if e.Kind() != Song {
		t.Errorf("Kind() = %q", e.Kind())
	}
	if e.Category() != category.Songs {
		t.Errorf("Category() = %q", e.Category())
	}
	if e.Title() != "Blinding Lights" || e.Creator() != "The Weeknd" || e.Genre() != "Pop" {
		t.Errorf("unexpected fields: %q %q %q", e.Title(), e.Creator(), e.Genre())
	}
	if e.Duration() != "3:20" || e.Year() != 2019 {
		t.Errorf("unexpected duration/year: %q %d", e.Duration(), e.Year())
	}
	if !e.HasFeatures() {
		t.Error("HasFeatures() = false")
	}
	if _, ok := e.Movie(); ok {
		t.Error("Movie() ok = true for a song")
	}

	vec[0] = 42
	if e.Features()[0] != 1 {
		t.Error("features must be cloned on construction")
	}
}

func TestNewSong_EmptyTitle(t *testing.T) {
	if _, err := NewSong("  ", "x", "Pop", "", 2000, nil); err == nil {
		t.Fatal("expected error for blank title")
	}
}

func TestNewMovie_Valid(t *testing.T) {
	cast := []string{"Leonardo DiCaprio", "Tom Hardy"}
	e, err := NewMovie("Inception", "Christopher Nolan", "Sci-Fi", "148 min", 2010, nil, 8.8, cast)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if e.Category() != category.Movies {
		t.Errorf("Category() = %q", e.Category())
	}
	m, ok := e.Movie()
	if !ok {
		t.Fatal("Movie() ok = false")
	}
	if m.Rating() != 8.8 {
		t.Errorf("Rating() = %f", m.Rating())
	}
	if len(m.Cast()) != 2 {
		t.Errorf("Cast() = %v", m.Cast())
	}
	if e.HasFeatures() {
		t.Error("HasFeatures() = true for nil features")
	}

	cast[0] = "changed"
	if m.Cast()[0] != "Leonardo DiCaprio" {
		t.Error("cast must be cloned on construction")
	}
}

func TestNewMovie_EmptyTitle(t *testing.T) {
	if _, err := NewMovie("", "x", "Drama", "", 2000, nil, 0, nil); err == nil {
		t.Fatal("expected error for empty title")
	}
}

func TestKeys_Normalized(t *testing.T) {
	e, _ := NewMovie(" The Matrix ", "The Wachowskis", "Sci-Fi", "136 min", 1999, nil, 8.7,
		[]string{"Keanu Reeves", "Carrie-Anne Moss"})
	k := e.Keys()
	if k.Title != "the matrix" {
		t.Errorf("Title key = %q", k.Title)
	}
	if k.Creator != "the wachowskis" {
		t.Errorf("Creator key = %q", k.Creator)
	}
	if k.Genre != "sci-fi" {
		t.Errorf("Genre key = %q", k.Genre)
	}
	if k.Cast != "keanu reeves, carrie-anne moss" {
		t.Errorf("Cast key = %q", k.Cast)
	}

	song, _ := NewSong("Song", "Artist", "Rock", "", 2000, nil)
	if song.Keys().Cast != "" {
		t.Errorf("song Cast key = %q, want empty", song.Keys().Cast)
	}
}

func TestWithID_WithFeatures(t *testing.T) {
	e, _ := NewSong("A", "B", "C", "", 2000, []float64{1})
	moved := e.WithID(7)
	if moved.ID() != 7 || e.ID() != 0 {
		t.Errorf("WithID: got %d, original %d", moved.ID(), e.ID())
	}
	stripped := e.WithFeatures(nil)
	if stripped.HasFeatures() || !e.HasFeatures() {
		t.Error("WithFeatures(nil) must not mutate the original")
	}
}
