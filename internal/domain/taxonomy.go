package domain

// Category is one weighted option within a facet. Probabilities are
// relative weights and need not sum to 1 within a categorization.
type Category struct {
	Name        string  `json:"name"`
	Probability float64 `json:"probability"`
	Description string  `json:"description"`
}

// Categorization is a named facet: an ordered set of categories from
// which exactly one is drawn per question slot.
type Categorization struct {
	Name       string     `json:"name"`
	Categories []Category `json:"categories"`
}

// Taxonomy holds the user and question facets plus the token list used
// by the context-free quality filter. Immutable after load.
type Taxonomy struct {
	UserCategorizations     []Categorization `json:"user_categorizations"`
	QuestionCategorizations []Categorization `json:"question_categorizations"`
	ReferenceTokens         []string         `json:"reference_tokens,omitempty"`
}

// DefaultReferenceTokens are matched case-insensitively against
// generated questions; a hit means the question presupposes access to
// the source document and is rejected.
var DefaultReferenceTokens = []string{
	"document", "text", "passage", "author",
	"문서", "텍스트", "단락", "저자", "자료", "내용",
}

// DefaultTaxonomy returns the built-in facet set used when no taxonomy
// file is supplied: one user facet (expertise) and five question facets
// (factuality, premise, phrasing, linguistic variation, language).
func DefaultTaxonomy() Taxonomy {
	return Taxonomy{
		UserCategorizations: []Categorization{
			{
				Name: "expertise",
				Categories: []Category{
					{Name: "expert", Probability: 0.5, Description: "a specialized user with deep understanding of the corpus"},
					{Name: "novice", Probability: 0.5, Description: "a regular user with no understanding of specialized terms"},
				},
			},
		},
		QuestionCategorizations: []Categorization{
			{
				Name: "factuality",
				Categories: []Category{
					{Name: "factoid", Probability: 0.4, Description: "question seeking a specific, concise piece of information or a short fact about a particular subject, such as a name, date, or number"},
					{Name: "open-ended", Probability: 0.6, Description: "question inviting detailed or exploratory responses, encouraging discussion or elaboration"},
				},
			},
			{
				Name: "premise",
				Categories: []Category{
					{Name: "direct", Probability: 0.7, Description: "question that does not contain any premise or any information about the user"},
					{Name: "with-premise", Probability: 0.3, Description: "question starting with a very short premise, where the user reveals their needs or some information about himself"},
				},
			},
			{
				Name: "phrasing",
				Categories: []Category{
					{Name: "concise-and-natural", Probability: 0.3, Description: "phrased in the way people typically speak, reflecting everyday language use, without formal or artificial structure. It is a concise direct question consisting of less than 10 words"},
					{Name: "verbose-and-natural", Probability: 0.4, Description: "phrased in the way people typically speak, reflecting everyday language use, without formal or artificial structure. It is a relatively long question consisting of more than 9 words"},
					{Name: "short-search-query", Probability: 0.15, Description: "phrased as a typed web query for search engines (only keywords, without punctuation and without a natural-sounding structure). It consists of less than 7 words"},
					{Name: "long-search-query", Probability: 0.15, Description: "phrased as a typed web query for search engines (only keywords, without punctuation and without a natural-sounding structure). It consists of more than 6 words"},
				},
			},
			{
				Name: "linguistic_variation",
				Categories: []Category{
					{Name: "similar-to-document", Probability: 0.4, Description: "phrased using the same terminology and phrases appearing in the document"},
					{Name: "distance-from-document", Probability: 0.6, Description: "phrased using terms completely different from the ones appearing in the document"},
				},
			},
			{
				Name: "language",
				Categories: []Category{
					{Name: "korean", Probability: 0.7, Description: "generate questions and answers in Korean language"},
					{Name: "english", Probability: 0.3, Description: "generate questions and answers in English language"},
				},
			},
		},
		ReferenceTokens: DefaultReferenceTokens,
	}
}
