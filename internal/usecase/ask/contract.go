package ask

import (
	"context"

	"github.com/raglab/morgana/internal/domain"
)

// Completer answers a prompt with the chat model.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// Embedder vectorizes text into embeddings.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// Searcher runs KNN queries against the vector index.
type Searcher interface {
	Search(ctx context.Context, vector []float32, k int) ([]domain.RetrievedChunk, error)
}

// ProgressFunc receives completion counts as queries are answered.
type ProgressFunc func(done, total int)
