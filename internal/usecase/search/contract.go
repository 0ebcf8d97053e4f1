package search

import (
	"github.com/kailas-cloud/tastematch/internal/domain/category"
	"github.com/kailas-cloud/tastematch/internal/domain/corpus"
)

// CorpusReader resolves a category to its collection.
type CorpusReader interface {
	Collection(c category.Category) (*corpus.Collection, error)
}
