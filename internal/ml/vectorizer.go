package ml

import (
	"fmt"
	"math"
)

// Vectorizer holds the fitted TF-IDF vocabulary and weights. Fields are
// exported for gob serialization; treat them as read-only after Load.
type Vectorizer struct {
	// Vocabulary maps a token to its feature index.
	Vocabulary map[string]int
	// IDF holds the inverse-document-frequency weight per feature index.
	IDF []float64
}

// Dimension returns the feature-vector length (the vocabulary size).
func (v *Vectorizer) Dimension() int {
	return len(v.IDF)
}

// Transform converts a normalized token sequence into a fixed-length TF-IDF
// vector, L2-normalized the way the fitting pipeline produced it. Tokens
// outside the vocabulary contribute nothing. Pure function of (tokens, v).
func (v *Vectorizer) Transform(tokens []string) []float64 {
	vec := make([]float64, v.Dimension())
	if len(tokens) == 0 {
		return vec
	}

	for _, tok := range tokens {
		if idx, ok := v.Vocabulary[tok]; ok {
			vec[idx]++
		}
	}

	var norm float64
	for idx := range vec {
		if vec[idx] == 0 {
			continue
		}
		vec[idx] *= v.IDF[idx]
		norm += vec[idx] * vec[idx]
	}
	if norm > 0 {
		norm = math.Sqrt(norm)
		for idx := range vec {
			vec[idx] /= norm
		}
	}
	return vec
}

func (v *Vectorizer) validate() error {
	if len(v.Vocabulary) == 0 {
		return fmt.Errorf("vectorizer: empty vocabulary")
	}
	for tok, idx := range v.Vocabulary {
		if idx < 0 || idx >= len(v.IDF) {
			return fmt.Errorf("vectorizer: token %q maps to index %d outside IDF table (%d)", tok, idx, len(v.IDF))
		}
	}
	return nil
}
