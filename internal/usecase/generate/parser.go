package generate

import (
	"encoding/json"
	"strings"

	"github.com/raglab/morgana/internal/domain"
)

// ParseCandidates extracts question/answer records from a
// line-oriented model response. The split/shape stage never fails;
// the per-line decode stage skips malformed lines silently, since a
// free-text model interleaving prose with JSON is expected noise.
// Returns candidates in response order, possibly empty.
func ParseCandidates(response string) []domain.QACandidate {
	var candidates []domain.QACandidate

	for _, line := range strings.Split(response, "\n") {
		line = strings.TrimSpace(line)
		if !strings.HasPrefix(line, "{") || !strings.HasSuffix(line, "}") {
			continue
		}
		if c, ok := decodeCandidate(line); ok {
			candidates = append(candidates, c)
		}
	}

	return candidates
}

// decodeCandidate parses one {...} line. Both the question and answer
// keys must be present and hold strings.
func decodeCandidate(line string) (domain.QACandidate, bool) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal([]byte(line), &fields); err != nil {
		return domain.QACandidate{}, false
	}

	rawQ, okQ := fields["question"]
	rawA, okA := fields["answer"]
	if !okQ || !okA {
		return domain.QACandidate{}, false
	}

	var c domain.QACandidate
	if err := json.Unmarshal(rawQ, &c.Question); err != nil {
		return domain.QACandidate{}, false
	}
	if err := json.Unmarshal(rawA, &c.Answer); err != nil {
		return domain.QACandidate{}, false
	}
	return c, true
}
