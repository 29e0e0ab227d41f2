package ask

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/raglab/morgana/internal/domain"
)

// Service executes benchmark queries against the vector index and the
// chat model, producing the results file the evaluator consumes.
type Service struct {
	model    Completer
	embedder Embedder
	searcher Searcher
	logger   *zap.Logger

	topK       int
	maxWorkers int
	newID      func() string
	onProgress ProgressFunc
}

// New creates an ask service.
func New(model Completer, embedder Embedder, searcher Searcher, topK, maxWorkers int, logger *zap.Logger) *Service {
	if topK <= 0 {
		topK = 3
	}
	if maxWorkers <= 0 {
		maxWorkers = 1
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		model:      model,
		embedder:   embedder,
		searcher:   searcher,
		logger:     logger,
		topK:       topK,
		maxWorkers: maxWorkers,
		newID:      uuid.NewString,
	}
}

// WithProgress installs a completion callback invoked after each query
// finishes.
func (s *Service) WithProgress(fn ProgressFunc) *Service {
	s.onProgress = fn
	return s
}

// WithIDFunc overrides query id generation, for deterministic tests.
func (s *Service) WithIDFunc(fn func() string) *Service {
	s.newID = fn
	return s
}

// Run answers every query over the worker pool. A query whose
// embedding, search, or completion fails is skipped with a warning;
// the rest of the batch continues. Results follow completion order.
func (s *Service) Run(ctx context.Context, queries []domain.QAPair) domain.ResultSet {
	total := len(queries)
	s.logger.Info("starting retrieval run",
		zap.Int("queries", total),
		zap.Int("top_k", s.topK),
		zap.Int("workers", s.maxWorkers),
	)

	jobs := make(chan domain.QAPair)
	out := make(chan *domain.RAGResult)

	var wg sync.WaitGroup
	for i := 0; i < s.maxWorkers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for q := range jobs {
				out <- s.answerQuery(ctx, q)
			}
		}()
	}

	go func() {
		defer close(jobs)
		for _, q := range queries {
			select {
			case <-ctx.Done():
				return
			case jobs <- q:
			}
		}
	}()

	go func() {
		wg.Wait()
		close(out)
	}()

	var rs domain.ResultSet
	done := 0
	for res := range out {
		done++
		if res != nil {
			rs.Results = append(rs.Results, *res)
		}
		if s.onProgress != nil {
			s.onProgress(done, total)
		}
	}

	s.logger.Info("retrieval run finished",
		zap.Int("answered", len(rs.Results)),
		zap.Int("skipped", total-len(rs.Results)),
	)
	return rs
}

// answerQuery runs embed → KNN search → answer for one query. A nil
// return means the query was skipped.
func (s *Service) answerQuery(ctx context.Context, q domain.QAPair) *domain.RAGResult {
	vec, err := s.embedder.Embed(ctx, q.Question)
	if err != nil {
		s.logger.Warn("query embedding failed, skipping",
			zap.String("question", q.Question),
			zap.Error(err),
		)
		return nil
	}

	chunks, err := s.searcher.Search(ctx, vec, s.topK)
	if err != nil {
		s.logger.Warn("vector search failed, skipping",
			zap.String("question", q.Question),
			zap.Error(err),
		)
		return nil
	}

	answer, err := s.model.Complete(ctx, BuildAnswerPrompt(q.Question, chunks))
	if err != nil {
		s.logger.Warn("no model response for query, skipping",
			zap.String("question", q.Question),
			zap.Error(err),
		)
		return nil
	}

	return &domain.RAGResult{
		QueryID:          s.newID(),
		Query:            q.Question,
		GTAnswer:         q.Answer,
		Response:         answer,
		RetrievedContext: chunks,
	}
}
