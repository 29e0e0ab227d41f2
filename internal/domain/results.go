package domain

// Chunk is one embedded corpus record ready for indexing.
type Chunk struct {
	ID     string
	Title  string
	Text   string
	Vector []float32
}

// RetrievedChunk is one ranked neighbor returned by the vector index.
type RetrievedChunk struct {
	DocID    string  `json:"doc_id"`
	Title    string  `json:"title,omitempty"`
	Text     string  `json:"text"`
	Distance float64 `json:"distance"`
}

// RAGResult is one executed benchmark query: the question, the ground
// truth from generation, the model's answer, and the context it saw.
type RAGResult struct {
	QueryID          string           `json:"query_id"`
	Query            string           `json:"query"`
	GTAnswer         string           `json:"gt_answer"`
	Response         string           `json:"response"`
	RetrievedContext []RetrievedChunk `json:"retrieved_context"`
}

// ResultSet is the file exchanged between the retrieval run and the
// evaluator.
type ResultSet struct {
	Results []RAGResult `json:"results"`
}

// MetricGroup names which judged metrics an evaluation run computes.
type MetricGroup string

const (
	MetricsAll       MetricGroup = "all_metrics"
	MetricsRetriever MetricGroup = "retriever_metrics"
	MetricsGenerator MetricGroup = "generator_metrics"
)

// Evaluation is the evaluator's output: the judged results plus metric
// averages grouped by pipeline stage.
type Evaluation struct {
	Results []RAGResult                   `json:"results"`
	Metrics map[string]map[string]float64 `json:"metrics"`
}
