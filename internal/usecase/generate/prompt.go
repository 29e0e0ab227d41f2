package generate

import (
	"fmt"
	"strings"

	"github.com/raglab/morgana/internal/domain"
)

// BuildPrompt renders the user-simulator instruction for one question
// slot: the candidate count, the context-free constraints, the passage,
// and one clause per sampled category. Pure string composition.
func BuildPrompt(
	passage string,
	userCats, questionCats []domain.Category,
	numCandidates int,
) string {
	userClauses := make([]string, 0, len(userCats))
	for _, c := range userCats {
		userClauses = append(userClauses, "They must be "+c.Description)
	}

	questionClauses := make([]string, 0, len(questionCats))
	for _, c := range questionCats {
		questionClauses = append(questionClauses, "It must be "+c.Description)
	}

	var b strings.Builder
	fmt.Fprintf(&b,
		"You are a user simulator that should generate %d candidate questions for starting a conversation.\n\n",
		numCandidates)
	fmt.Fprintf(&b,
		"The %d questions must be about facts discussed in the documents you will now receive. "+
			"When generating the questions, assume that the real users you must simulate, as well as "+
			"the readers of the questions do not have access to these documents. Therefore, never refer "+
			"to the author of the documents or the documents themselves. Also, assume that whoever reads "+
			"the questions will read each question independently. The %d questions must be diverse and "+
			"different from each other. Return only the questions without any preamble. Write each pair "+
			"in a new line, in the following JSON format: {\"question\": \"<question>\", \"answer\": \"<answer>\"}.\n\n",
		numCandidates, numCandidates)
	b.WriteString(
		"IMPORTANT: The questions MUST include specific ENTITIES, TERMS, CONCEPTS, or NAMES mentioned " +
			"in the document. Avoid vague pronoun references like \"this technology\", \"that method\", or " +
			"\"such system\". Instead, use the actual names like \"blockchain\", \"COVID-19\", \"artificial " +
			"intelligence\", etc. This makes the questions clearer and more specific.\n\n")
	b.WriteString("The generated questions should be about facts from the following document:\n")
	b.WriteString(passage)
	b.WriteString("\n\nEach of the generated questions must reflect a user with the following characteristics:\n")
	b.WriteString(strings.Join(userClauses, "\n"))
	b.WriteString("\n\nEach of the generated questions must have the following characteristics:\n")
	b.WriteString(strings.Join(questionClauses, "\n"))

	return b.String()
}
