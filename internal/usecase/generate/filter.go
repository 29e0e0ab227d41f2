package generate

import (
	"strings"
	"unicode/utf8"

	"github.com/raglab/morgana/internal/domain"
	"github.com/raglab/morgana/internal/metrics"
)

// minFieldLength is the minimum trimmed length, in runes, of a
// question or answer.
const minFieldLength = 3

// Filter rejects candidates that are too short or that presuppose
// access to the source document. Pure and total: never fails, returns
// an ordered subsequence of its input.
type Filter struct {
	tokens []string // lower-cased reference tokens
}

// NewFilter creates a filter for the given reference tokens. An empty
// list falls back to the built-in defaults.
func NewFilter(tokens []string) *Filter {
	if len(tokens) == 0 {
		tokens = domain.DefaultReferenceTokens
	}
	lowered := make([]string, len(tokens))
	for i, tok := range tokens {
		lowered[i] = strings.ToLower(tok)
	}
	return &Filter{tokens: lowered}
}

// Apply returns the candidates passing all quality checks, preserving
// relative order.
func (f *Filter) Apply(candidates []domain.QACandidate) []domain.QACandidate {
	var kept []domain.QACandidate
	for _, c := range candidates {
		if f.keep(c) {
			kept = append(kept, c)
		}
	}
	return kept
}

func (f *Filter) keep(c domain.QACandidate) bool {
	question := strings.TrimSpace(c.Question)
	answer := strings.TrimSpace(c.Answer)

	if utf8.RuneCountInString(question) < minFieldLength ||
		utf8.RuneCountInString(answer) < minFieldLength {
		metrics.CandidatesFilteredTotal.WithLabelValues("too_short").Inc()
		return false
	}

	lower := strings.ToLower(question)
	for _, tok := range f.tokens {
		if strings.Contains(lower, tok) {
			metrics.CandidatesFilteredTotal.WithLabelValues("document_reference").Inc()
			return false
		}
	}

	return true
}
