package domain

// DefaultLanguage is the response language used when the request does not
// specify one. The service targets a Spanish-speaking domain.
const DefaultLanguage = "es"

// Query is a single discovery request. Immutable per invocation.
type Query struct {
	// Text is the raw user input.
	Text string
	// Language is the requested response language code (es, en, it).
	Language string
	// IsSuggestion marks pre-curated queries from UI chips. Suggestions are
	// trusted and bypass relevance classification.
	IsSuggestion bool
}

// NewQuery builds a query, filling the default language when empty.
func NewQuery(text, language string, isSuggestion bool) Query {
	if language == "" {
		language = DefaultLanguage
	}
	return Query{Text: text, Language: language, IsSuggestion: isSuggestion}
}
