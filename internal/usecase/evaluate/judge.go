package evaluate

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/raglab/morgana/internal/domain"
)

// ambiguousScore is assigned when the judge response carries no usable
// number.
const ambiguousScore = 0.5

var scorePattern = regexp.MustCompile(`[-+]?[0-9]*\.?[0-9]+`)

const judgePreamble = "You are a strict evaluator. Return only a single number between 0 and 1. "

// BuildContextPrecisionPrompt asks how much of the retrieved context is
// relevant to the ground truth answer.
func BuildContextPrecisionPrompt(r domain.RAGResult) string {
	return judgePreamble +
		"0 means none of the retrieved passages are relevant to the reference answer. " +
		"1 means every passage is relevant.\n\n" +
		fmt.Sprintf("Reference answer:\n%s\n\nRetrieved passages:\n%s\n\nScore (0-1):",
			r.GTAnswer, joinContext(r.RetrievedContext))
}

// BuildCorrectnessPrompt asks how well the generated answer matches the
// ground truth.
func BuildCorrectnessPrompt(r domain.RAGResult) string {
	return judgePreamble +
		"0 means the answer contradicts or misses the reference answer. " +
		"1 means it is fully correct.\n\n" +
		fmt.Sprintf("Question:\n%s\n\nReference answer:\n%s\n\nAnswer:\n%s\n\nScore (0-1):",
			r.Query, r.GTAnswer, r.Response)
}

// BuildFaithfulnessPrompt asks how well the generated answer is
// supported by the retrieved context.
func BuildFaithfulnessPrompt(r domain.RAGResult) string {
	return judgePreamble +
		"0 means the answer is not supported by the context. " +
		"1 means all claims are fully supported.\n\n" +
		fmt.Sprintf("Context:\n%s\n\nAnswer:\n%s\n\nScore (0-1):",
			joinContext(r.RetrievedContext), r.Response)
}

func joinContext(chunks []domain.RetrievedChunk) string {
	parts := make([]string, len(chunks))
	for i, c := range chunks {
		parts[i] = c.Text
	}
	return strings.Join(parts, "\n\n")
}

// parseScore extracts the first number from a judge response and
// clamps it to [0, 1]. A response with no number at all scores 0.5 so
// one unparseable verdict cannot drag an aggregate to either extreme.
func parseScore(text string) float64 {
	match := scorePattern.FindString(strings.TrimSpace(text))
	if match == "" {
		return ambiguousScore
	}
	val, err := strconv.ParseFloat(match, 64)
	if err != nil {
		return ambiguousScore
	}
	if val < 0 {
		return 0
	}
	if val > 1 {
		return 1
	}
	return val
}
