package ingest

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/raglab/morgana/internal/domain"
	"github.com/raglab/morgana/internal/metrics"
)

// upsertBatchSize is how many embedded chunks are written per HSET
// round trip.
const upsertBatchSize = 64

// Service embeds corpus documents and writes them into the vector
// index. The index is rebuilt from scratch on every run.
type Service struct {
	embedder Embedder
	index    Index
	logger   *zap.Logger

	maxWorkers int
	onProgress ProgressFunc
}

// New creates an ingest service.
func New(embedder Embedder, index Index, maxWorkers int, logger *zap.Logger) *Service {
	if maxWorkers <= 0 {
		maxWorkers = 1
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		embedder:   embedder,
		index:      index,
		logger:     logger,
		maxWorkers: maxWorkers,
	}
}

// WithProgress installs a completion callback invoked after each
// document is embedded and queued for upsert.
func (s *Service) WithProgress(fn ProgressFunc) *Service {
	s.onProgress = fn
	return s
}

// Run rebuilds the index and ingests the corpus. Documents with empty
// content or a failing embedding call are skipped with a warning; a
// store write failure aborts the run. Returns the number of chunks
// indexed.
func (s *Service) Run(ctx context.Context, documents []domain.Document) (int, error) {
	if err := s.index.Reset(ctx); err != nil {
		return 0, fmt.Errorf("reset index: %w", err)
	}

	total := len(documents)
	s.logger.Info("starting corpus ingestion",
		zap.Int("documents", total),
		zap.Int("workers", s.maxWorkers),
	)

	jobs := make(chan domain.Document)
	out := make(chan domain.Chunk)

	var wg sync.WaitGroup
	for i := 0; i < s.maxWorkers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for doc := range jobs {
				chunk, ok := s.embedDocument(ctx, doc)
				if !ok {
					chunk = domain.Chunk{}
				}
				out <- chunk
			}
		}()
	}

	go func() {
		defer close(jobs)
		for _, doc := range documents {
			select {
			case <-ctx.Done():
				return
			case jobs <- doc:
			}
		}
	}()

	go func() {
		wg.Wait()
		close(out)
	}()

	var (
		batch   []domain.Chunk
		done    int
		indexed int
	)
	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		if err := s.index.UpsertChunks(ctx, batch); err != nil {
			return fmt.Errorf("upsert chunks: %w", err)
		}
		indexed += len(batch)
		metrics.ChunksIndexedTotal.WithLabelValues("ok").Add(float64(len(batch)))
		batch = batch[:0]
		return nil
	}

	for chunk := range out {
		done++
		if chunk.ID != "" {
			batch = append(batch, chunk)
			if len(batch) >= upsertBatchSize {
				if err := flush(); err != nil {
					// Drain the workers before reporting the failure.
					for range out {
					}
					return indexed, err
				}
			}
		}
		if s.onProgress != nil {
			s.onProgress(done, total)
		}
	}
	if err := flush(); err != nil {
		return indexed, err
	}

	s.logger.Info("corpus ingestion finished",
		zap.Int("chunks_indexed", indexed),
		zap.Int("documents_skipped", total-indexed),
	)
	return indexed, nil
}

// embedDocument turns one corpus record into an indexable chunk.
func (s *Service) embedDocument(ctx context.Context, doc domain.Document) (domain.Chunk, bool) {
	passage := doc.Content.Passage()
	if passage == "" {
		s.logger.Warn("skipping document with empty content", zap.String("document_id", doc.ID))
		return domain.Chunk{}, false
	}

	vec, err := s.embedder.Embed(ctx, passage)
	if err != nil {
		s.logger.Warn("embedding failed, skipping document",
			zap.String("document_id", doc.ID),
			zap.Error(err),
		)
		return domain.Chunk{}, false
	}

	return domain.Chunk{
		ID:     doc.ID,
		Title:  doc.Title,
		Text:   passage,
		Vector: vec,
	}, true
}
