package ml

import (
	"strings"
	"unicode"
)

// stopwords are dropped during normalization. The list mirrors the one the
// vectorizer was fitted with; changing it invalidates the artifact.
var stopwords = map[string]struct{}{
	"a": {}, "an": {}, "the": {}, "and": {}, "or": {}, "but": {},
	"is": {}, "are": {}, "was": {}, "were": {}, "be": {}, "been": {},
	"in": {}, "on": {}, "at": {}, "to": {}, "from": {}, "of": {},
	"for": {}, "with": {}, "by": {}, "about": {}, "into": {}, "near": {},
	"it": {}, "its": {}, "this": {}, "that": {}, "these": {}, "those": {},
	"there": {}, "here": {}, "has": {}, "have": {}, "had": {}, "very": {},
	"i": {}, "we": {}, "my": {}, "our": {}, "me": {}, "us": {},
	"please": {}, "since": {}, "as": {}, "so": {}, "not": {}, "no": {},
}

// Normalize turns raw complaint text into a canonical token sequence:
// lower-cased, punctuation stripped, stop-words removed. It is deterministic
// and side-effect-free. Empty or whitespace-only input yields an empty slice,
// never an error; the routing engine treats that as unclassifiable.
func Normalize(text string) []string {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(unicode.ToLower(r))
		default:
			// Punctuation and every other rune becomes a separator so that
			// "street,flooded" still splits into two tokens.
			b.WriteRune(' ')
		}
	}

	fields := strings.Fields(b.String())
	tokens := make([]string, 0, len(fields))
	for _, tok := range fields {
		if _, stop := stopwords[tok]; stop {
			continue
		}
		tokens = append(tokens, tok)
	}
	if len(tokens) == 0 {
		return nil
	}
	return tokens
}
