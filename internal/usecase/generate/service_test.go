package generate

import (
	"context"
	"errors"
	"reflect"
	"sort"
	"sync/atomic"
	"testing"

	"go.uber.org/zap"

	"github.com/raglab/morgana/internal/domain"
	"github.com/raglab/morgana/internal/usecase/sampler"
)

// stubModel returns a fixed response for every prompt and counts calls.
type stubModel struct {
	calls    atomic.Int64
	response string
	err      error
}

func (s *stubModel) Complete(_ context.Context, _ string) (string, error) {
	s.calls.Add(1)
	if s.err != nil {
		return "", s.err
	}
	return s.response, nil
}

func testService(model Completer, cfg Config) *Service {
	return New(
		model,
		sampler.NewWithSource(sampler.NewSeededSource(42)),
		domain.DefaultTaxonomy(),
		cfg,
		zap.NewNop(),
	)
}

func TestGenerateBenchmark_TwoDocuments(t *testing.T) {
	model := &stubModel{response: `{"question": "What is X?", "answer": "Y"}` + "\n"}
	svc := testService(model, Config{QuestionsPerDoc: 1, MaxWorkers: 2})

	docs := []domain.Document{
		{ID: "doc1", Content: domain.Content{"Passage about X."}},
		{ID: "doc2", Content: domain.Content{"Another passage about X."}},
	}

	results := svc.GenerateBenchmark(context.Background(), docs)
	if len(results) != 2 {
		t.Fatalf("expected 2 documents, got %d", len(results))
	}

	sort.Slice(results, func(i, j int) bool { return results[i].ID < results[j].ID })
	for _, doc := range results {
		if len(doc.GeneratedQA) != 1 {
			t.Fatalf("document %s: expected 1 QA pair, got %d", doc.ID, len(doc.GeneratedQA))
		}
		pair := doc.GeneratedQA[0]
		if pair.Question != "What is X?" || pair.Answer != "Y" {
			t.Errorf("document %s: unexpected pair %+v", doc.ID, pair)
		}
		if pair.DocumentID != doc.ID {
			t.Errorf("provenance document_id %q does not match source %q", pair.DocumentID, doc.ID)
		}
		if pair.UserCategories == "" || pair.QuestionCategories == "" {
			t.Errorf("document %s: missing category provenance: %+v", doc.ID, pair)
		}
	}
}

func TestProcessDocument_EmptyContent(t *testing.T) {
	model := &stubModel{response: `{"question": "unused", "answer": "unused"}`}
	svc := testService(model, Config{QuestionsPerDoc: 3})

	doc := domain.Document{ID: "empty", Content: domain.Content{""}}
	got := svc.ProcessDocument(context.Background(), doc)

	if got.GeneratedQA != nil {
		t.Errorf("empty document must carry no generated_qa_pairs, got %+v", got.GeneratedQA)
	}
	if model.calls.Load() != 0 {
		t.Errorf("empty document must make zero gateway calls, made %d", model.calls.Load())
	}
}

func TestProcessDocument_FilterRejectsSlot(t *testing.T) {
	model := &stubModel{
		response: `{"question": "What does the text say, as stated in the document?", "answer": "filtered out"}`,
	}
	svc := testService(model, Config{QuestionsPerDoc: 2})

	doc := domain.Document{ID: "doc1", Content: domain.Content{"Some passage."}}
	got := svc.ProcessDocument(context.Background(), doc)

	if len(got.GeneratedQA) != 0 {
		t.Fatalf("expected zero pairs when every candidate is rejected, got %d", len(got.GeneratedQA))
	}
	if model.calls.Load() != 2 {
		t.Errorf("each slot is one independent call, expected 2, got %d", model.calls.Load())
	}
}

func TestProcessDocument_GatewayFailureSkipsSlot(t *testing.T) {
	model := &stubModel{err: domain.ErrModelUnavailable}
	svc := testService(model, Config{QuestionsPerDoc: 3})

	doc := domain.Document{ID: "doc1", Content: domain.Content{"Some passage."}}
	got := svc.ProcessDocument(context.Background(), doc)

	if len(got.GeneratedQA) != 0 {
		t.Fatalf("expected zero pairs on total gateway failure, got %d", len(got.GeneratedQA))
	}
	if model.calls.Load() != 3 {
		t.Errorf("failed slots must not stop later slots, expected 3 calls, got %d", model.calls.Load())
	}
}

func TestProcessDocument_RetryEmptySlot(t *testing.T) {
	model := &stubModel{
		response: `{"question": "refers to the document explicitly", "answer": "always filtered"}`,
	}
	svc := testService(model, Config{QuestionsPerDoc: 1, RetryEmptySlot: true})

	doc := domain.Document{ID: "doc1", Content: domain.Content{"Some passage."}}
	svc.ProcessDocument(context.Background(), doc)

	// One slot, one re-sample: exactly two calls, then the slot is abandoned.
	if model.calls.Load() != 2 {
		t.Errorf("expected 2 calls with retry_empty_slot, got %d", model.calls.Load())
	}
}

func TestGenerateBenchmark_DeterministicWithSeed(t *testing.T) {
	docs := []domain.Document{
		{ID: "a", Content: domain.Content{"Passage one."}},
		{ID: "b", Content: domain.Content{"Passage two."}},
		{ID: "c", Content: domain.Content{"Passage three."}},
	}

	run := func() []domain.Document {
		model := &stubModel{response: `{"question": "What is deterministic?", "answer": "This run."}`}
		svc := testService(model, Config{QuestionsPerDoc: 2, MaxWorkers: 1})
		results := svc.GenerateBenchmark(context.Background(), docs)
		sort.Slice(results, func(i, j int) bool { return results[i].ID < results[j].ID })
		return results
	}

	first := run()
	second := run()
	if !reflect.DeepEqual(first, second) {
		t.Error("seeded sampler and deterministic stub must yield identical output")
	}
}

func TestGenerateBenchmark_ProgressPerDocument(t *testing.T) {
	model := &stubModel{response: `{"question": "What is X?", "answer": "Y"}`}
	svc := testService(model, Config{QuestionsPerDoc: 1, MaxWorkers: 3})

	var reports atomic.Int64
	svc.WithProgress(func(done, total int) {
		reports.Add(1)
		if total != 4 {
			t.Errorf("expected total 4, got %d", total)
		}
	})

	docs := []domain.Document{
		{ID: "a", Content: domain.Content{"p"}},
		{ID: "b", Content: domain.Content{"p"}},
		{ID: "c", Content: domain.Content{"p"}},
		{ID: "d", Content: domain.Content{"p"}},
	}
	svc.GenerateBenchmark(context.Background(), docs)

	if reports.Load() != 4 {
		t.Errorf("expected one progress report per document, got %d", reports.Load())
	}
}

func TestProcessDocument_MultiCandidateSelection(t *testing.T) {
	model := &stubModel{response: `{"question": "What is A about?", "answer": "Answer A"}
{"question": "What is B about?", "answer": "Answer B"}`}
	svc := testService(model, Config{QuestionsPerDoc: 1})

	doc := domain.Document{ID: "doc1", Content: domain.Content{"Some passage."}}
	got := svc.ProcessDocument(context.Background(), doc)

	if len(got.GeneratedQA) != 1 {
		t.Fatalf("expected exactly one survivor per slot, got %d", len(got.GeneratedQA))
	}
	q := got.GeneratedQA[0].Question
	if q != "What is A about?" && q != "What is B about?" {
		t.Errorf("selection must come from the survivor set, got %q", q)
	}
}

func TestGenerateBenchmark_ErrNotPropagated(t *testing.T) {
	// A completer returning a non-gateway error still only skips slots.
	model := &stubModel{err: errors.New("hard transport failure")}
	svc := testService(model, Config{QuestionsPerDoc: 1, MaxWorkers: 2})

	docs := []domain.Document{
		{ID: "a", Content: domain.Content{"p"}},
		{ID: "b", Content: domain.Content{"p"}},
	}
	results := svc.GenerateBenchmark(context.Background(), docs)

	if len(results) != 2 {
		t.Fatalf("batch must complete despite per-slot failures, got %d docs", len(results))
	}
}
