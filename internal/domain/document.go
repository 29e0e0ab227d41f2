package domain

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Content is a document body that arrives either as a single string or
// as an array of text segments. Segments are joined with newlines when
// the passage is needed as one string.
type Content []string

// UnmarshalJSON accepts both `"text"` and `["seg1", "seg2"]` forms.
func (c *Content) UnmarshalJSON(data []byte) error {
	var single string
	if err := json.Unmarshal(data, &single); err == nil {
		*c = Content{single}
		return nil
	}
	var many []string
	if err := json.Unmarshal(data, &many); err != nil {
		return fmt.Errorf("content must be a string or an array of strings: %w", err)
	}
	*c = Content(many)
	return nil
}

// MarshalJSON preserves the array form on output.
func (c Content) MarshalJSON() ([]byte, error) {
	return json.Marshal([]string(c))
}

// Passage joins the segments into the single text the synthesizer
// prompts against. Empty segments collapse to an empty passage.
func (c Content) Passage() string {
	return strings.TrimSpace(strings.Join(c, "\n"))
}

// Document is one corpus record. GeneratedQA is attached by the
// synthesizer; all other fields pass through untouched.
type Document struct {
	ID          string   `json:"id"`
	Title       string   `json:"title,omitempty"`
	Content     Content  `json:"content"`
	GeneratedQA []QAPair `json:"generated_qa_pairs,omitempty"`
}

// QACandidate is one question/answer pair proposed by the model,
// before filtering and provenance attachment.
type QACandidate struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// QAPair is a surviving candidate enriched with the provenance of the
// categories that shaped it.
type QAPair struct {
	Question           string `json:"question"`
	Answer             string `json:"answer"`
	UserCategories     string `json:"user_categories"`
	QuestionCategories string `json:"question_categories"`
	DocumentID         string `json:"document_id"`
}
