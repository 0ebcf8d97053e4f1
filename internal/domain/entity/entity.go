// Package entity defines the searchable corpus records: songs and movies.
//
// Entity is a tagged variant. The fields every kind shares are exposed directly;
// the movie-only fields are reachable through Movie, which reports false for songs.
package entity

import (
	"fmt"
	"slices"
	"strings"

	"github.com/kailas-cloud/tastematch/internal/domain/category"
	"github.com/kailas-cloud/tastematch/internal/domain/query"
)

// Kind is the variant tag of an entity.
type Kind string

// Kind constants.
const (
	Song  Kind = "song"
	Movie Kind = "movie"
)

// Category returns the collection an entity of this kind belongs to.
func (k Kind) Category() category.Category {
	if k == Movie {
		return category.Movies
	}
	return category.Songs
}

// castSeparator joins cast members for matching.
const castSeparator = ", "

// MovieInfo holds the movie-only fields.
type MovieInfo struct {
	rating float64
	cast   []string
}

// Rating returns the movie rating.
func (m MovieInfo) Rating() float64 { return m.rating }

// Cast returns the ordered cast list.
func (m MovieInfo) Cast() []string { return m.cast }

// Keys are the normalized text fields used by matching. Cast is empty for songs.
type Keys struct {
	Title   string
	Creator string
	Genre   string
	Cast    string
}

// Entity is a corpus record (immutable value object).
type Entity struct {
	id       int
	kind     Kind
	title    string
	creator  string
	genre    string
	duration string
	year     int
	features []float64
	movie    *MovieInfo
	keys     Keys
}

// NewSong validates and creates a song. creator is the performing artist.
func NewSong(title, creator, genre, duration string, year int, features []float64) (Entity, error) {
	if strings.TrimSpace(title) == "" {
		return Entity{}, fmt.Errorf("song title is required")
	}
	e := Entity{
		kind:     Song,
		title:    title,
		creator:  creator,
		genre:    genre,
		duration: duration,
		year:     year,
		features: slices.Clone(features),
	}
	e.keys = buildKeys(&e)
	return e, nil
}

// NewMovie validates and creates a movie. creator is the director.
func NewMovie(
	title, creator, genre, duration string, year int, features []float64,
	rating float64, cast []string,
) (Entity, error) {
	if strings.TrimSpace(title) == "" {
		return Entity{}, fmt.Errorf("movie title is required")
	}
	e := Entity{
		kind:     Movie,
		title:    title,
		creator:  creator,
		genre:    genre,
		duration: duration,
		year:     year,
		features: slices.Clone(features),
		movie:    &MovieInfo{rating: rating, cast: slices.Clone(cast)},
	}
	e.keys = buildKeys(&e)
	return e, nil
}

func buildKeys(e *Entity) Keys {
	k := Keys{
		Title:   query.Normalize(e.title),
		Creator: query.Normalize(e.creator),
		Genre:   query.Normalize(e.genre),
	}
	if e.movie != nil && len(e.movie.cast) > 0 {
		k.Cast = query.Normalize(strings.Join(e.movie.cast, castSeparator))
	}
	return k
}

// ID returns the position of the entity in its collection.
func (e *Entity) ID() int { return e.id }

// Kind returns the variant tag.
func (e *Entity) Kind() Kind { return e.kind }

// Category returns the collection the entity belongs to.
func (e *Entity) Category() category.Category { return e.kind.Category() }

// Title returns the display title.
func (e *Entity) Title() string { return e.title }

// Creator returns the performing artist or director.
func (e *Entity) Creator() string { return e.creator }

// Genre returns the genre label.
func (e *Entity) Genre() string { return e.genre }

// Duration returns the display-formatted duration.
func (e *Entity) Duration() string { return e.duration }

// Year returns the release year.
func (e *Entity) Year() int { return e.year }

// Features returns the embedding, nil when the entity carries none.
func (e *Entity) Features() []float64 { return e.features }

// HasFeatures reports whether the entity carries a non-empty embedding.
func (e *Entity) HasFeatures() bool { return len(e.features) > 0 }

// Movie returns the movie-only fields. ok is false for songs.
func (e *Entity) Movie() (info MovieInfo, ok bool) {
	if e.movie == nil {
		return MovieInfo{}, false
	}
	return *e.movie, true
}

// Keys returns the normalized match fields.
func (e *Entity) Keys() Keys { return e.keys }

// WithID returns a copy positioned at id.
func (e *Entity) WithID(id int) Entity {
	c := *e
	c.id = id
	return c
}

// WithFeatures returns a copy carrying features (nil drops the embedding).
func (e *Entity) WithFeatures(features []float64) Entity {
	c := *e
	c.features = features
	return c
}
