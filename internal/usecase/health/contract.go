package health

import "context"

// DBPinger checks database availability.
type DBPinger interface {
	Ping(ctx context.Context) error
}

// CorpusCounter reports how many entities are loaded.
type CorpusCounter interface {
	Len() int
}
