// Package vector stores embedded corpus chunks in a Redis search index
// and answers KNN queries for the retrieval stage.
package vector

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/raglab/morgana/internal/db"
	"github.com/raglab/morgana/internal/domain"
)

// store is the consumer interface for vector index operations.
type store interface {
	HSetMulti(ctx context.Context, items []db.HashSetItem) error
	CreateIndex(ctx context.Context, def *db.IndexDefinition) error
	DropIndex(ctx context.Context, name string) error
	IndexExists(ctx context.Context, name string) (bool, error)
	SearchKNN(ctx context.Context, q *db.KNNQuery) (*db.SearchResult, error)
}

// Config holds index parameters.
type Config struct {
	KeyPrefix       string
	Collection      string
	Dimensions      int
	Metric          string
	HNSWM           int
	HNSWEFConstruct int
}

// Repo implements the vector index over a db.Store.
type Repo struct {
	store store
	cfg   Config
}

// New creates a vector repository.
func New(s store, cfg Config) *Repo {
	return &Repo{store: s, cfg: cfg}
}

func (r *Repo) indexName() string {
	return fmt.Sprintf("%s%s:idx", r.cfg.KeyPrefix, r.cfg.Collection)
}

func (r *Repo) keyPrefix() string {
	return fmt.Sprintf("%s%s:", r.cfg.KeyPrefix, r.cfg.Collection)
}

// Reset drops any existing index (with its documents) and creates a
// fresh one, so an ingest run always starts from a clean collection.
func (r *Repo) Reset(ctx context.Context) error {
	name := r.indexName()

	exists, err := r.store.IndexExists(ctx, name)
	if err != nil {
		return fmt.Errorf("probe index %s: %w", name, err)
	}
	if exists {
		if err := r.store.DropIndex(ctx, name); err != nil && !errors.Is(err, db.ErrIndexNotFound) {
			return fmt.Errorf("drop index %s: %w", name, err)
		}
	}

	def := &db.IndexDefinition{
		Name:     name,
		Prefixes: []string{r.keyPrefix()},
		Fields: []db.IndexField{
			{Name: "__content", Type: db.IndexFieldText},
			{Name: "title", Type: db.IndexFieldTag},
			{Name: "doc_id", Type: db.IndexFieldTag},
			{
				// The KNN query addresses the attribute as @vector
				// and sorts by __vector_score.
				Name:            "__vector",
				Alias:           "vector",
				Type:            db.IndexFieldVector,
				Dimensions:      r.cfg.Dimensions,
				Metric:          r.cfg.Metric,
				HNSWM:           r.cfg.HNSWM,
				HNSWEFConstruct: r.cfg.HNSWEFConstruct,
			},
		},
	}
	if err := r.store.CreateIndex(ctx, def); err != nil {
		return fmt.Errorf("create index %s: %w", name, err)
	}
	return nil
}

// UpsertChunks writes a batch of embedded chunks as hashes under the
// collection prefix.
func (r *Repo) UpsertChunks(ctx context.Context, chunks []domain.Chunk) error {
	if len(chunks) == 0 {
		return nil
	}

	items := make([]db.HashSetItem, len(chunks))
	for i, c := range chunks {
		if len(c.Vector) != r.cfg.Dimensions {
			return fmt.Errorf("chunk %s: vector has %d dimensions, index expects %d",
				c.ID, len(c.Vector), r.cfg.Dimensions)
		}
		items[i] = db.HashSetItem{
			Key: r.keyPrefix() + c.ID,
			Fields: map[string]string{
				"__content": c.Text,
				"title":     c.Title,
				"doc_id":    c.ID,
				"__vector":  db.VectorToBytes(c.Vector),
			},
		}
	}

	if err := r.store.HSetMulti(ctx, items); err != nil {
		return fmt.Errorf("upsert %d chunks: %w", len(chunks), err)
	}
	return nil
}

// Search returns the top-k nearest chunks for a query vector, ranked
// by vector score.
func (r *Repo) Search(ctx context.Context, vector []float32, k int) ([]domain.RetrievedChunk, error) {
	q := &db.KNNQuery{
		IndexName:    r.indexName(),
		Vector:       vector,
		K:            k,
		ReturnFields: []string{"__content", "title", "doc_id", "__vector_score"},
	}

	sr, err := r.store.SearchKNN(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("knn search %s: %w", r.cfg.Collection, err)
	}
	if sr == nil || sr.Total == 0 {
		return nil, nil
	}

	results := make([]domain.RetrievedChunk, 0, len(sr.Entries))
	for _, entry := range sr.Entries {
		chunk := domain.RetrievedChunk{
			DocID: strings.TrimPrefix(entry.Key, r.keyPrefix()),
			Title: entry.Fields["title"],
			Text:  entry.Fields["__content"],
		}
		if id := entry.Fields["doc_id"]; id != "" {
			chunk.DocID = id
		}
		if raw := entry.Fields["__vector_score"]; raw != "" {
			if score, err := strconv.ParseFloat(raw, 64); err == nil {
				chunk.Distance = score
			}
		}
		results = append(results, chunk)
	}

	return results, nil
}
