package evaluate

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/raglab/morgana/internal/domain"
)

// Metric names, following the RAGChecker report layout.
const (
	metricContextPrecision = "context_precision"
	metricCorrectness      = "answer_correctness"
	metricFaithfulness     = "faithfulness"
	metricOverall          = "overall_score"
)

// resultScores holds the judged values for one result.
type resultScores struct {
	contextPrecision float64
	correctness      float64
	faithfulness     float64
}

// Service judges a retrieval results file with the chat model and
// aggregates the scores into grouped metric averages.
type Service struct {
	model  Completer
	logger *zap.Logger

	group      domain.MetricGroup
	maxWorkers int
	onProgress ProgressFunc
}

// New creates an evaluation service for the given metric group.
func New(model Completer, group domain.MetricGroup, maxWorkers int, logger *zap.Logger) *Service {
	switch group {
	case domain.MetricsRetriever, domain.MetricsGenerator:
	default:
		group = domain.MetricsAll
	}
	if maxWorkers <= 0 {
		maxWorkers = 1
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		model:      model,
		logger:     logger,
		group:      group,
		maxWorkers: maxWorkers,
	}
}

// WithProgress installs a completion callback invoked after each
// result is judged.
func (s *Service) WithProgress(fn ProgressFunc) *Service {
	s.onProgress = fn
	return s
}

// Run judges every result over the worker pool and returns the results
// together with metric averages for the selected group. Judge call
// failures score the ambiguous 0.5 and never abort the run.
func (s *Service) Run(ctx context.Context, rs domain.ResultSet) domain.Evaluation {
	total := len(rs.Results)
	s.logger.Info("starting evaluation",
		zap.Int("results", total),
		zap.String("metric_group", string(s.group)),
		zap.Int("workers", s.maxWorkers),
	)

	scores := make([]resultScores, total)

	jobs := make(chan int)
	out := make(chan int)

	var wg sync.WaitGroup
	for i := 0; i < s.maxWorkers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				scores[idx] = s.judgeResult(ctx, rs.Results[idx])
				out <- idx
			}
		}()
	}

	go func() {
		defer close(jobs)
		for i := range rs.Results {
			select {
			case <-ctx.Done():
				return
			case jobs <- i:
			}
		}
	}()

	go func() {
		wg.Wait()
		close(out)
	}()

	done := 0
	for range out {
		done++
		if s.onProgress != nil {
			s.onProgress(done, total)
		}
	}

	eval := domain.Evaluation{
		Results: rs.Results,
		Metrics: s.aggregate(scores),
	}
	s.logger.Info("evaluation finished", zap.Int("results_judged", total))
	return eval
}

// judgeResult scores one result for the metrics the selected group
// needs.
func (s *Service) judgeResult(ctx context.Context, r domain.RAGResult) resultScores {
	var sc resultScores
	if s.group != domain.MetricsGenerator {
		sc.contextPrecision = s.judge(ctx, r.QueryID, metricContextPrecision, BuildContextPrecisionPrompt(r))
	}
	if s.group != domain.MetricsRetriever {
		sc.correctness = s.judge(ctx, r.QueryID, metricCorrectness, BuildCorrectnessPrompt(r))
		sc.faithfulness = s.judge(ctx, r.QueryID, metricFaithfulness, BuildFaithfulnessPrompt(r))
	}
	return sc
}

func (s *Service) judge(ctx context.Context, queryID, metric, prompt string) float64 {
	response, err := s.model.Complete(ctx, prompt)
	if err != nil {
		s.logger.Warn("judge call failed, scoring ambiguous",
			zap.String("query_id", queryID),
			zap.String("metric", metric),
			zap.Error(err),
		)
		return ambiguousScore
	}
	return parseScore(response)
}

// aggregate averages the per-result scores into the grouped layout:
// retriever_metrics, generator_metrics, and for the full group an
// overall_metrics block with the mean of the three averages.
func (s *Service) aggregate(scores []resultScores) map[string]map[string]float64 {
	metrics := make(map[string]map[string]float64)
	if len(scores) == 0 {
		return metrics
	}

	n := float64(len(scores))
	var precision, correctness, faithfulness float64
	for _, sc := range scores {
		precision += sc.contextPrecision
		correctness += sc.correctness
		faithfulness += sc.faithfulness
	}
	precision /= n
	correctness /= n
	faithfulness /= n

	if s.group != domain.MetricsGenerator {
		metrics[string(domain.MetricsRetriever)] = map[string]float64{
			metricContextPrecision: precision,
		}
	}
	if s.group != domain.MetricsRetriever {
		metrics[string(domain.MetricsGenerator)] = map[string]float64{
			metricCorrectness:  correctness,
			metricFaithfulness: faithfulness,
		}
	}
	if s.group == domain.MetricsAll {
		metrics["overall_metrics"] = map[string]float64{
			metricOverall: (precision + correctness + faithfulness) / 3,
		}
	}
	return metrics
}
