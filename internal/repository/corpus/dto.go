package corpus

import (
	"github.com/kailas-cloud/tastematch/internal/domain/entity"
	"github.com/kailas-cloud/tastematch/internal/domain/features"
)

// songRecord is the stored shape of a song.
type songRecord struct {
	Name       string    `json:"name" msgpack:"name"`
	Artists    string    `json:"artists" msgpack:"artists"`
	Genre      string    `json:"genre" msgpack:"genre"`
	Features   []float64 `json:"features,omitempty" msgpack:"features,omitempty"`
	Duration   string    `json:"duration,omitempty" msgpack:"duration,omitempty"`
	DurationMS int64     `json:"duration_ms,omitempty" msgpack:"duration_ms,omitempty"`
	Year       int       `json:"year" msgpack:"year"`
}

// movieRecord is the stored shape of a movie.
type movieRecord struct {
	Title    string    `json:"title" msgpack:"title"`
	Director string    `json:"director" msgpack:"director"`
	Year     int       `json:"year" msgpack:"year"`
	Genre    string    `json:"genre" msgpack:"genre"`
	Duration string    `json:"duration" msgpack:"duration"`
	Rating   float64   `json:"rating" msgpack:"rating"`
	Cast     []string  `json:"cast,omitempty" msgpack:"cast,omitempty"`
	Features []float64 `json:"features,omitempty" msgpack:"features,omitempty"`
}

type songsDoc struct {
	Songs []songRecord `json:"songs" msgpack:"songs"`
}

type moviesDoc struct {
	Movies []movieRecord `json:"movies" msgpack:"movies"`
}

func songToEntity(r *songRecord) (entity.Entity, error) {
	duration := r.Duration
	if duration == "" && r.DurationMS > 0 {
		duration = features.FormatDuration(r.DurationMS)
	}
	return entity.NewSong(r.Name, r.Artists, r.Genre, duration, r.Year, r.Features) //nolint:wrapcheck // caller adds context
}

func movieToEntity(r *movieRecord, derive bool) (entity.Entity, error) {
	vec := r.Features
	if len(vec) == 0 && derive {
		vec = features.MovieVector(r.Genre, r.Rating, r.Year)
	}
	return entity.NewMovie(r.Title, r.Director, r.Genre, r.Duration, r.Year, vec, r.Rating, r.Cast) //nolint:wrapcheck // caller adds context
}
