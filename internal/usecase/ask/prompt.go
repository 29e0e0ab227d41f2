package ask

import (
	"fmt"
	"strings"

	"github.com/raglab/morgana/internal/domain"
)

// BuildAnswerPrompt assembles the retrieval-augmented answer prompt:
// the ranked context passages wrapped in <context> tags followed by
// the question in <question> tags.
func BuildAnswerPrompt(question string, chunks []domain.RetrievedChunk) string {
	passages := make([]string, len(chunks))
	for i, chunk := range chunks {
		passages[i] = fmt.Sprintf("[source: %s]\n%s", chunk.Title, chunk.Text)
	}

	var b strings.Builder
	b.WriteString("You are an AI assistant. You are able to find answers to the ")
	b.WriteString("questions from the contextual passage snippets provided.\n")
	b.WriteString("Use the following pieces of information enclosed in <context> ")
	b.WriteString("tags to provide an answer to the question enclosed in <question> tags.\n")
	b.WriteString("<context>\n")
	b.WriteString(strings.Join(passages, "\n\n"))
	b.WriteString("\n</context>\n")
	b.WriteString("<question>\n")
	b.WriteString(question)
	b.WriteString("\n</question>\n")
	return b.String()
}
