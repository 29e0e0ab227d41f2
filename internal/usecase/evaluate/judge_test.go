package evaluate

import (
	"strings"
	"testing"

	"github.com/raglab/morgana/internal/domain"
)

func TestParseScore(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want float64
	}{
		{"plain float", "0.85", 0.85},
		{"integer", "1", 1},
		{"zero", "0", 0},
		{"embedded in prose", "The score is 0.7 out of 1.", 0.7},
		{"leading whitespace", "  0.25\n", 0.25},
		{"above range clamped", "4.5", 1},
		{"negative clamped", "-0.3", 0},
		{"no number", "the answer looks fine to me", ambiguousScore},
		{"empty", "", ambiguousScore},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := parseScore(tc.in); got != tc.want {
				t.Fatalf("parseScore(%q) = %v, want %v", tc.in, got, tc.want)
			}
		})
	}
}

func testResult() domain.RAGResult {
	return domain.RAGResult{
		QueryID:  "q1",
		Query:    "What is the capital?",
		GTAnswer: "Seoul is the capital.",
		Response: "The capital is Seoul.",
		RetrievedContext: []domain.RetrievedChunk{
			{DocID: "d1", Text: "Seoul is the capital of South Korea."},
			{DocID: "d2", Text: "Busan is a port city."},
		},
	}
}

func TestJudgePrompts_CarryTheJudgedMaterial(t *testing.T) {
	r := testResult()

	precision := BuildContextPrecisionPrompt(r)
	for _, want := range []string{r.GTAnswer, "Seoul is the capital of South Korea.", "Busan is a port city.", "Score (0-1):"} {
		if !strings.Contains(precision, want) {
			t.Fatalf("context precision prompt missing %q", want)
		}
	}
	if strings.Contains(precision, r.Response) {
		t.Fatal("context precision must not see the generated answer")
	}

	correctness := BuildCorrectnessPrompt(r)
	for _, want := range []string{r.Query, r.GTAnswer, r.Response} {
		if !strings.Contains(correctness, want) {
			t.Fatalf("correctness prompt missing %q", want)
		}
	}

	faithfulness := BuildFaithfulnessPrompt(r)
	for _, want := range []string{r.Response, "Seoul is the capital of South Korea."} {
		if !strings.Contains(faithfulness, want) {
			t.Fatalf("faithfulness prompt missing %q", want)
		}
	}
	if strings.Contains(faithfulness, "Reference answer:") {
		t.Fatal("faithfulness judges against the context, not the reference answer")
	}
}
