package metrics

import "github.com/prometheus/client_golang/prometheus"

// QA synthesizer Prometheus metrics.
var (
	ModelRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "morgana",
			Name:      "model_requests_total",
			Help:      "Total number of completion requests",
		},
		[]string{"model", "status"},
	)

	ModelRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "morgana",
			Name:      "model_request_duration_seconds",
			Help:      "Completion request duration in seconds",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		},
		[]string{"model"},
	)

	ModelRetriesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "morgana",
			Name:      "model_retries_total",
			Help:      "Total retry attempts after a failed completion call",
		},
		[]string{"model"},
	)

	DocumentsProcessedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "morgana",
			Name:      "documents_processed_total",
			Help:      "Documents processed by the benchmark orchestrator",
		},
		[]string{"outcome"}, // "ok" / "empty" / "error"
	)

	QAPairsGeneratedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "morgana",
			Name:      "qa_pairs_generated_total",
			Help:      "Question/answer pairs that survived filtering",
		},
	)

	CandidatesFilteredTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "morgana",
			Name:      "candidates_filtered_total",
			Help:      "Candidate pairs rejected by the quality filter",
		},
		[]string{"reason"}, // "too_short" / "document_reference"
	)
)

var genMetricsRegistered bool

// RegisterGenerationMetrics registers generation metrics. Must be called once from main.
func RegisterGenerationMetrics() {
	if genMetricsRegistered {
		return
	}
	prometheus.MustRegister(ModelRequestsTotal)
	prometheus.MustRegister(ModelRequestDuration)
	prometheus.MustRegister(ModelRetriesTotal)
	prometheus.MustRegister(DocumentsProcessedTotal)
	prometheus.MustRegister(QAPairsGeneratedTotal)
	prometheus.MustRegister(CandidatesFilteredTotal)
	genMetricsRegistered = true
}
