package suggest

import (
	"slices"

	"github.com/tchap/go-patricia/v2/patricia"

	"github.com/kailas-cloud/tastematch/internal/domain/entity"
)

// suffixIndex is a generalized suffix trie over the normalized match fields of
// one collection. Every rune-aligned suffix of every field maps to the IDs of
// the entities carrying it, so a substring lookup becomes a prefix walk.
type suffixIndex struct {
	trie *patricia.Trie
}

func newSuffixIndex(entities []entity.Entity) *suffixIndex {
	idx := &suffixIndex{trie: patricia.NewTrie()}
	for i := range entities {
		e := &entities[i]
		k := e.Keys()
		for _, field := range []string{k.Title, k.Creator, k.Genre, k.Cast} {
			idx.insert(field, e.ID())
		}
	}
	return idx
}

func (idx *suffixIndex) insert(field string, id int) {
	for pos := range field {
		key := patricia.Prefix(field[pos:])
		ids, _ := idx.trie.Get(key).([]int)
		// Entities are inserted in ID order, so a repeat can only be the tail.
		if n := len(ids); n > 0 && ids[n-1] == id {
			continue
		}
		idx.trie.Set(key, append(ids, id))
	}
}

// lookup returns up to limit IDs, ascending, of entities with a field containing text.
func (idx *suffixIndex) lookup(text string, limit int) []int {
	seen := make(map[int]struct{})
	_ = idx.trie.VisitSubtree(patricia.Prefix(text), func(_ patricia.Prefix, item patricia.Item) error {
		for _, id := range item.([]int) {
			seen[id] = struct{}{}
		}
		return nil
	})

	ids := make([]int, 0, len(seen))
	for id := range seen {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	if len(ids) > limit {
		ids = ids[:limit]
	}
	return ids
}
