package recommend

import (
	"context"
	"errors"
	"testing"

	"github.com/kailas-cloud/tastematch/internal/domain"
	"github.com/kailas-cloud/tastematch/internal/domain/category"
	"github.com/kailas-cloud/tastematch/internal/domain/corpus"
	"github.com/kailas-cloud/tastematch/internal/domain/entity"
	"github.com/kailas-cloud/tastematch/internal/domain/similarity"
)

func newSong(t *testing.T, title string, vec []float64) entity.Entity {
	t.Helper()
	e, err := entity.NewSong(title, "artist", "Pop", "", 2020, vec)
	if err != nil {
		t.Fatalf("NewSong: %v", err)
	}
	return e
}

func sampleCorpus(t *testing.T) *corpus.Corpus {
	t.Helper()
	songs := []entity.Entity{
		newSong(t, "Blinding Lights", []float64{1, 0}),
		newSong(t, "Levitating", []float64{0.9, 0.1}),
		newSong(t, "Symphony No.5", []float64{0, 1}),
		newSong(t, "Unscored", nil),
	}
	return corpus.New(songs, nil)
}

func TestRecommend_Example(t *testing.T) {
	svc := New(sampleCorpus(t))

	res, err := svc.Recommend(context.Background(), category.Songs, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Selected.Title() != "Blinding Lights" {
		t.Errorf("Selected = %q", res.Selected.Title())
	}
	if len(res.Recommendations) != 1 || res.Recommendations[0].Entity.Title() != "Levitating" {
		t.Fatalf("unexpected recommendations: %+v", res.Recommendations)
	}
	if len(res.Recommendations) > similarity.MaxRecommendations {
		t.Errorf("more than %d recommendations", similarity.MaxRecommendations)
	}
}

func TestRecommend_MissingFeatures(t *testing.T) {
	svc := New(sampleCorpus(t))

	_, err := svc.Recommend(context.Background(), category.Songs, 3)
	if !errors.Is(err, domain.ErrMissingFeatures) {
		t.Fatalf("expected ErrMissingFeatures, got %v", err)
	}
}

func TestRecommend_NoRecommendations(t *testing.T) {
	// Symphony No.5 is orthogonal to Blinding Lights, Unscored has no vector.
	svc := New(corpus.New([]entity.Entity{
		newSong(t, "Blinding Lights", []float64{1, 0}),
		newSong(t, "Symphony No.5", []float64{0, 1}),
		newSong(t, "Unscored", nil),
	}, nil))

	res, err := svc.Recommend(context.Background(), category.Songs, 1)
	if !errors.Is(err, domain.ErrNoRecommendations) {
		t.Fatalf("expected ErrNoRecommendations, got %v", err)
	}
	var nr *domain.NoRecommendationsError
	if !errors.As(err, &nr) || nr.MissingFeatures != 1 {
		t.Errorf("expected one missing-vector exclusion, got %v", err)
	}
	if res.Selected.Title() != "Symphony No.5" {
		t.Errorf("Selected = %q, want it reported alongside the error", res.Selected.Title())
	}
}

func TestRecommend_WeakPositiveSimilarityCounts(t *testing.T) {
	svc := New(sampleCorpus(t))

	res, err := svc.Recommend(context.Background(), category.Songs, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Recommendations) != 1 || res.Recommendations[0].Entity.Title() != "Levitating" {
		t.Fatalf("unexpected recommendations: %+v", res.Recommendations)
	}
	if res.Recommendations[0].MatchPercent() != 11 {
		t.Errorf("MatchPercent = %d, want 11", res.Recommendations[0].MatchPercent())
	}
}

func TestRecommend_EntityNotFound(t *testing.T) {
	svc := New(sampleCorpus(t))

	for _, id := range []int{-1, 4, 100} {
		if _, err := svc.Recommend(context.Background(), category.Songs, id); !errors.Is(err, domain.ErrEntityNotFound) {
			t.Errorf("id %d: expected ErrEntityNotFound, got %v", id, err)
		}
	}
}

func TestRecommend_UnknownCategory(t *testing.T) {
	svc := New(sampleCorpus(t))

	_, err := svc.Recommend(context.Background(), category.Category("books"), 0)
	if !errors.Is(err, domain.ErrUnknownCategory) {
		t.Fatalf("expected ErrUnknownCategory, got %v", err)
	}
}

func TestRecommend_EmptyCollection(t *testing.T) {
	svc := New(corpus.Empty())

	_, err := svc.Recommend(context.Background(), category.Movies, 0)
	if !errors.Is(err, domain.ErrEntityNotFound) {
		t.Fatalf("expected ErrEntityNotFound, got %v", err)
	}
}
