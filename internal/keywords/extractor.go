// Package keywords turns raw operational text into a normalized keyword
// list used for indexing and similarity scoring. Extraction is pure and
// deterministic: lowercase, split on non-alphanumeric boundaries, drop
// short tokens and stop words.
package keywords

import "strings"

// stopWords are articles, conjunctions, and common auxiliary verbs that
// carry no retrieval signal in command output or log text.
var stopWords = map[string]struct{}{
	"the": {}, "and": {}, "for": {}, "are": {}, "but": {}, "not": {},
	"was": {}, "were": {}, "been": {}, "being": {}, "has": {}, "had": {},
	"have": {}, "will": {}, "would": {}, "can": {}, "could": {},
	"should": {}, "does": {}, "did": {}, "this": {}, "that": {},
	"these": {}, "those": {}, "with": {}, "from": {}, "into": {},
	"you": {}, "your": {}, "they": {}, "their": {}, "what": {},
	"which": {}, "when": {}, "where": {},
}

// minTokenLength filters noise like flag letters and unit suffixes.
const minTokenLength = 3

// Extract returns the ordered keyword list for text. Terms may repeat;
// repetition carries term-frequency signal for scoring. Degenerate
// input yields an empty list, never an error.
func Extract(text string) []string {
	if text == "" {
		return nil
	}

	lower := strings.ToLower(text)
	tokens := strings.FieldsFunc(lower, func(r rune) bool {
		return !isASCIIAlnum(r)
	})

	result := make([]string, 0, len(tokens))
	for _, token := range tokens {
		if len(token) < minTokenLength {
			continue
		}
		if _, stop := stopWords[token]; stop {
			continue
		}
		result = append(result, token)
	}
	return result
}

// isASCIIAlnum reports whether r is an ASCII letter or digit. Non-ASCII
// runes are treated as token boundaries.
func isASCIIAlnum(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9')
}
