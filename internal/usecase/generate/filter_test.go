package generate

import (
	"os"
	"testing"

	"github.com/raglab/morgana/internal/domain"
	"github.com/raglab/morgana/internal/metrics"
)

func TestMain(m *testing.M) {
	metrics.RegisterGenerationMetrics()
	os.Exit(m.Run())
}

func TestFilter_RejectsShortFields(t *testing.T) {
	f := NewFilter(nil)

	candidates := []domain.QACandidate{
		{Question: "ab", Answer: "long enough answer"},
		{Question: "long enough question", Answer: "no"},
		{Question: "  xy  ", Answer: "padded short question"},
		{Question: "What is blockchain?", Answer: "A distributed ledger."},
	}

	kept := f.Apply(candidates)
	if len(kept) != 1 {
		t.Fatalf("expected 1 survivor, got %d: %+v", len(kept), kept)
	}
	if kept[0].Question != "What is blockchain?" {
		t.Errorf("unexpected survivor %q", kept[0].Question)
	}
}

func TestFilter_RejectsDocumentReferences(t *testing.T) {
	f := NewFilter(nil)

	rejected := []string{
		"What does the document say about COVID-19?",
		"According to the TEXT, who invented the transistor?",
		"What is the author's view on quantum computing?",
		"Which passage mentions neural networks?",
		"이 문서에서 설명하는 핵심 개념은 무엇인가?",
	}
	for _, q := range rejected {
		kept := f.Apply([]domain.QACandidate{{Question: q, Answer: "some valid answer"}})
		if len(kept) != 0 {
			t.Errorf("question %q should have been rejected", q)
		}
	}

	passed := []string{
		"What is the Transformer architecture?",
		"How does HNSW trade recall for speed?",
		"블록체인의 합의 알고리즘은 어떻게 작동하는가?",
	}
	for _, q := range passed {
		kept := f.Apply([]domain.QACandidate{{Question: q, Answer: "some valid answer"}})
		if len(kept) != 1 {
			t.Errorf("question %q should have passed", q)
		}
	}
}

func TestFilter_PreservesOrder(t *testing.T) {
	f := NewFilter(nil)

	candidates := []domain.QACandidate{
		{Question: "first valid question", Answer: "answer one"},
		{Question: "refers to the document", Answer: "dropped"},
		{Question: "second valid question", Answer: "answer two"},
		{Question: "third valid question", Answer: "answer three"},
	}

	kept := f.Apply(candidates)
	if len(kept) != 3 {
		t.Fatalf("expected 3 survivors, got %d", len(kept))
	}
	for i, want := range []string{"first valid question", "second valid question", "third valid question"} {
		if kept[i].Question != want {
			t.Errorf("position %d: got %q, want %q", i, kept[i].Question, want)
		}
	}
}

func TestFilter_CustomTokens(t *testing.T) {
	f := NewFilter([]string{"artikel", "verfasser"})

	kept := f.Apply([]domain.QACandidate{
		{Question: "Was sagt der Artikel über Photosynthese?", Answer: "wird verworfen"},
		{Question: "What does the document describe?", Answer: "default tokens not in play"},
	})

	if len(kept) != 1 {
		t.Fatalf("expected 1 survivor, got %d", len(kept))
	}
	if kept[0].Question != "What does the document describe?" {
		t.Errorf("custom token list must replace the defaults, kept %q", kept[0].Question)
	}
}
