// Package db defines the storage contract the vector repository needs
// from a Redis-compatible search backend.
package db

import (
	"context"
	"time"
)

// Store is the backend capability set used by the retrieval stage.
type Store interface {
	Ping(ctx context.Context) error
	WaitForReady(ctx context.Context, timeout time.Duration) error
	Close()

	HSetMulti(ctx context.Context, items []HashSetItem) error

	CreateIndex(ctx context.Context, def *IndexDefinition) error
	DropIndex(ctx context.Context, name string) error
	IndexExists(ctx context.Context, name string) (bool, error)

	SearchKNN(ctx context.Context, q *KNNQuery) (*SearchResult, error)
}

// HashSetItem is one hash write in a multi-set batch.
type HashSetItem struct {
	Key    string
	Fields map[string]string
}

// IndexFieldType enumerates supported FT field types.
type IndexFieldType string

const (
	IndexFieldText   IndexFieldType = "TEXT"
	IndexFieldTag    IndexFieldType = "TAG"
	IndexFieldVector IndexFieldType = "VECTOR"
)

// IndexField describes one schema field of an FT index.
type IndexField struct {
	Name string
	// Alias renames the attribute for queries (SCHEMA <name> AS <alias>).
	Alias string
	Type  IndexFieldType

	// Vector parameters, meaningful when Type is IndexFieldVector.
	Dimensions      int
	Metric          string // IP, COSINE, L2
	HNSWM           int
	HNSWEFConstruct int
}

// IndexDefinition describes an FT index over hash keys.
type IndexDefinition struct {
	Name     string
	Prefixes []string
	Fields   []IndexField
}

// KNNQuery is a vector similarity query.
type KNNQuery struct {
	IndexName    string
	Vector       []float32
	K            int
	ReturnFields []string
}

// SearchEntry is one hit: the hash key plus requested fields, with the
// vector score under "__vector_score".
type SearchEntry struct {
	Key    string
	Fields map[string]string
}

// SearchResult is a parsed FT.SEARCH reply.
type SearchResult struct {
	Total   int64
	Entries []SearchEntry
}
