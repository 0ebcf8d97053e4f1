package category

import (
	"fmt"
	"strings"
)

// Category selects which collection of the corpus an operation runs over.
type Category string

// Category constants.
const (
	Songs  Category = "songs"
	Movies Category = "movies"
)

// All lists the supported categories in corpus order.
var All = []Category{Songs, Movies}

// IsValid checks if the category is one of the supported values.
func (c Category) IsValid() bool {
	return c == Songs || c == Movies
}

// Parse accepts the plural and singular spellings, case-insensitively.
func Parse(s string) (Category, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "songs", "song":
		return Songs, nil
	case "movies", "movie", "films", "film":
		return Movies, nil
	default:
		return "", fmt.Errorf("invalid category: %q", s)
	}
}

func (c Category) String() string { return string(c) }
