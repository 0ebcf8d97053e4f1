// Package corpus holds the immutable, in-memory entity collections.
package corpus

import (
	"fmt"

	"github.com/kailas-cloud/tastematch/internal/domain"
	"github.com/kailas-cloud/tastematch/internal/domain/category"
	"github.com/kailas-cloud/tastematch/internal/domain/entity"
)

// Collection is an ordered, read-only list of entities of one category.
// Entity IDs equal their position in the collection.
type Collection struct {
	category category.Category
	entities []entity.Entity
	dim      int
	dropped  int
}

func newCollection(c category.Category, items []entity.Entity) *Collection {
	col := &Collection{
		category: c,
		entities: make([]entity.Entity, 0, len(items)),
	}
	for i := range items {
		e := items[i].WithID(len(col.entities))
		if e.HasFeatures() {
			switch {
			case col.dim == 0:
				col.dim = len(e.Features())
			case len(e.Features()) != col.dim:
				e = e.WithFeatures(nil)
				col.dropped++
			}
		}
		col.entities = append(col.entities, e)
	}
	return col
}

// Category returns the collection category.
func (c *Collection) Category() category.Category { return c.category }

// Len returns the number of entities.
func (c *Collection) Len() int { return len(c.entities) }

// Dim returns the feature dimensionality, 0 when no entity carries a vector.
func (c *Collection) Dim() int { return c.dim }

// DroppedVectors returns how many vectors were discarded for a dimension mismatch.
func (c *Collection) DroppedVectors() int { return c.dropped }

// At returns the entity with the given ID.
func (c *Collection) At(id int) (*entity.Entity, bool) {
	if id < 0 || id >= len(c.entities) {
		return nil, false
	}
	return &c.entities[id], true
}

// All returns the entities in corpus order. Callers must not modify the slice.
func (c *Collection) All() []entity.Entity { return c.entities }

// Titles returns up to n titles in corpus order.
func (c *Collection) Titles(n int) []string {
	n = min(n, len(c.entities))
	out := make([]string, 0, n)
	for i := range n {
		out = append(out, c.entities[i].Title())
	}
	return out
}

// Stats summarizes a corpus.
type Stats struct {
	Entities       map[category.Category]int
	WithFeatures   map[category.Category]int
	DroppedVectors map[category.Category]int
}

// Corpus holds both collections. It is built once and never mutated.
type Corpus struct {
	collections map[category.Category]*Collection
}

// New builds a corpus from songs and movies, assigning IDs in input order.
func New(songs, movies []entity.Entity) *Corpus {
	return &Corpus{
		collections: map[category.Category]*Collection{
			category.Songs:  newCollection(category.Songs, songs),
			category.Movies: newCollection(category.Movies, movies),
		},
	}
}

// Empty returns a corpus with no entities.
func Empty() *Corpus { return New(nil, nil) }

// Collection returns the collection for c.
func (c *Corpus) Collection(cat category.Category) (*Collection, error) {
	col, ok := c.collections[cat]
	if !ok {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownCategory, cat)
	}
	return col, nil
}

// Len returns the total number of entities across collections.
func (c *Corpus) Len() int {
	total := 0
	for _, col := range c.collections {
		total += col.Len()
	}
	return total
}

// Stats reports per-category counts.
func (c *Corpus) Stats() Stats {
	s := Stats{
		Entities:       make(map[category.Category]int, len(c.collections)),
		WithFeatures:   make(map[category.Category]int, len(c.collections)),
		DroppedVectors: make(map[category.Category]int, len(c.collections)),
	}
	for cat, col := range c.collections {
		s.Entities[cat] = col.Len()
		s.DroppedVectors[cat] = col.dropped
		n := 0
		for i := range col.entities {
			if col.entities[i].HasFeatures() {
				n++
			}
		}
		s.WithFeatures[cat] = n
	}
	return s
}
