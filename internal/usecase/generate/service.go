package generate

import (
	"context"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/raglab/morgana/internal/domain"
	"github.com/raglab/morgana/internal/metrics"
	"github.com/raglab/morgana/internal/usecase/sampler"
)

// Service is the QA synthesizer: it fans document processing out over
// a bounded worker pool and, per document, runs the
// sample → prompt → complete → parse → filter loop for each requested
// question slot.
type Service struct {
	model    Completer
	sampler  *sampler.Sampler
	taxonomy domain.Taxonomy
	filter   *Filter
	logger   *zap.Logger

	questionsPerDoc   int
	candidatesPerCall int
	retryEmptySlot    bool
	maxWorkers        int

	onProgress ProgressFunc
}

// Config holds the synthesizer run parameters.
type Config struct {
	QuestionsPerDoc   int
	CandidatesPerCall int
	RetryEmptySlot    bool
	MaxWorkers        int
}

// New creates a synthesizer service. The completer is shared across
// workers; the taxonomy and filter are read-only for the run.
func New(
	model Completer,
	smp *sampler.Sampler,
	taxonomy domain.Taxonomy,
	cfg Config,
	logger *zap.Logger,
) *Service {
	questions := cfg.QuestionsPerDoc
	if questions <= 0 {
		questions = 1
	}
	candidates := cfg.CandidatesPerCall
	if candidates <= 0 {
		candidates = 2
	}
	workers := cfg.MaxWorkers
	if workers <= 0 {
		workers = 1
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		model:             model,
		sampler:           smp,
		taxonomy:          taxonomy,
		filter:            NewFilter(taxonomy.ReferenceTokens),
		logger:            logger,
		questionsPerDoc:   questions,
		candidatesPerCall: candidates,
		retryEmptySlot:    cfg.RetryEmptySlot,
		maxWorkers:        workers,
	}
}

// WithProgress installs a completion callback invoked after each
// document finishes.
func (s *Service) WithProgress(fn ProgressFunc) *Service {
	s.onProgress = fn
	return s
}

// GenerateBenchmark processes the whole corpus over the worker pool.
// The returned slice follows completion order, not input order;
// callers needing the original ordering must re-sort by document id.
func (s *Service) GenerateBenchmark(ctx context.Context, documents []domain.Document) []domain.Document {
	total := len(documents)
	s.logger.Info("starting benchmark generation",
		zap.Int("documents", total),
		zap.Int("workers", s.maxWorkers),
		zap.Int("questions_per_document", s.questionsPerDoc),
	)

	jobs := make(chan domain.Document)
	out := make(chan domain.Document)

	var wg sync.WaitGroup
	for i := 0; i < s.maxWorkers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for doc := range jobs {
				out <- s.ProcessDocument(ctx, doc)
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

	results := make([]domain.Document, 0, total)
	for doc := range out {
		results = append(results, doc)
		if s.onProgress != nil {
			s.onProgress(len(results), total)
		}
	}

	return results
}

// ProcessDocument generates QA pairs for one document. An empty
// passage is a terminal early exit making zero model calls. Any
// unexpected panic is absorbed at this boundary and the original
// record is returned, so one document can never abort the batch.
func (s *Service) ProcessDocument(ctx context.Context, doc domain.Document) (result domain.Document) {
	result = doc
	defer func() {
		if r := recover(); r != nil {
			metrics.DocumentsProcessedTotal.WithLabelValues("error").Inc()
			s.logger.Error("document processing panicked",
				zap.String("document_id", doc.ID),
				zap.Any("panic", r),
			)
			result = doc
		}
	}()

	passage := doc.Content.Passage()
	if passage == "" {
		metrics.DocumentsProcessedTotal.WithLabelValues("empty").Inc()
		s.logger.Warn("document content is empty", zap.String("document_id", doc.ID))
		return doc
	}

	var pairs []domain.QAPair
	for slot := 0; slot < s.questionsPerDoc; slot++ {
		pair, ok := s.fillSlot(ctx, doc.ID, passage)
		if !ok && s.retryEmptySlot {
			// One re-sample with fresh categories; a second empty
			// result abandons the slot like the default path.
			pair, ok = s.fillSlot(ctx, doc.ID, passage)
		}
		if !ok {
			s.logger.Warn("question slot produced no survivor",
				zap.String("document_id", doc.ID),
				zap.Int("slot", slot+1),
			)
			continue
		}
		pairs = append(pairs, pair)
		metrics.QAPairsGeneratedTotal.Inc()
	}

	metrics.DocumentsProcessedTotal.WithLabelValues("ok").Inc()
	result.GeneratedQA = pairs
	s.logger.Debug("document processed",
		zap.String("document_id", doc.ID),
		zap.Int("qa_pairs", len(pairs)),
	)
	return result
}

// fillSlot runs one independent sample/prompt/complete/parse/filter
// trial and returns the surviving pair, if any.
func (s *Service) fillSlot(ctx context.Context, docID, passage string) (domain.QAPair, bool) {
	userCats := s.sampler.PickAll(s.taxonomy.UserCategorizations)
	questionCats := s.sampler.PickAll(s.taxonomy.QuestionCategorizations)

	prompt := BuildPrompt(passage, userCats, questionCats, s.candidatesPerCall)

	response, err := s.model.Complete(ctx, prompt)
	if err != nil {
		// Gateway exhaustion is a skipped slot, not a failure.
		s.logger.Warn("no model response for slot",
			zap.String("document_id", docID),
			zap.Error(err),
		)
		return domain.QAPair{}, false
	}

	candidates := ParseCandidates(response)
	if len(candidates) == 0 {
		s.logger.Warn("response yielded no parseable candidates",
			zap.String("document_id", docID),
		)
		return domain.QAPair{}, false
	}

	survivors := s.filter.Apply(candidates)
	if len(survivors) == 0 {
		return domain.QAPair{}, false
	}

	chosen := survivors[s.sampler.ChooseIndex(len(survivors))]
	return domain.QAPair{
		Question:           chosen.Question,
		Answer:             chosen.Answer,
		UserCategories:     joinNames(userCats),
		QuestionCategories: joinNames(questionCats),
		DocumentID:         docID,
	}, true
}

func joinNames(cats []domain.Category) string {
	names := make([]string, len(cats))
	for i, c := range cats {
		names[i] = c.Name
	}
	return strings.Join(names, ", ")
}
