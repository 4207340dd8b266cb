package db

import (
	"context"
	"time"
)

// Store is the read-only facade over the media document store.
type Store interface {
	Pinger
	Searcher
	DocumentReader
	Aggregator
	Close()
	WaitForReady(ctx context.Context, timeout time.Duration) error
}

// Pinger checks store connectivity.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Searcher executes a query and returns one page of raw hits.
type Searcher interface {
	Search(ctx context.Context, q *Query) (*SearchResult, error)
}

// DocumentReader performs point lookups by document id.
// A miss returns an error wrapping ErrDocNotFound.
type DocumentReader interface {
	Get(ctx context.Context, id string) (Hit, error)
}

// Aggregator lists distinct values of a field, ascending, at most size of them.
type Aggregator interface {
	Distinct(ctx context.Context, field string, size int) ([]string, error)
}

// KVStore provides the key-value operations used by caches.
type KVStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
}
