package ingest

import (
	"context"

	"github.com/raglab/morgana/internal/domain"
)

// Embedder vectorizes text into embeddings.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// Index is the vector index the pipeline writes into.
type Index interface {
	Reset(ctx context.Context) error
	UpsertChunks(ctx context.Context, chunks []domain.Chunk) error
}

// ProgressFunc receives completion counts as documents are indexed.
type ProgressFunc func(done, total int)
