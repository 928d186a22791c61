// Package routing turns free-text complaint descriptions into a department
// assignment and a review signal. It wraps the pure ml stages and applies the
// confidence threshold and manual-override rules.
package routing

import (
	"github.com/civicgrid/complaint-service/internal/ml"
)

// DefaultConfidenceThreshold flags predictions below it for manual review.
const DefaultConfidenceThreshold = 0.5

// Classification source values recorded on routing results.
const (
	SourceModel    = "model"
	SourceOverride = "override"
	SourceFallback = "fallback"
)

// Result is the outcome of routing one complaint. Department is always
// non-empty: low confidence or a missing model routes to the default triage
// department instead of leaving the complaint unassigned.
type Result struct {
	Category    string  `json:"category"`
	Department  string  `json:"department"`
	Confidence  float64 `json:"confidence"`
	NeedsReview bool    `json:"needs_review"`
	Source      string  `json:"source"`
}

// Engine routes complaints. The artifact may be nil when the model failed to
// load at startup; the engine then degrades to fallback routing for every
// request instead of erroring.
type Engine struct {
	artifact  *ml.Artifact
	threshold float64
}

// NewEngine builds a routing engine. A threshold <= 0 selects the default.
func NewEngine(artifact *ml.Artifact, threshold float64) *Engine {
	if threshold <= 0 {
		threshold = DefaultConfidenceThreshold
	}
	return &Engine{artifact: artifact, threshold: threshold}
}

// ModelAvailable reports whether the classification artifact loaded.
func (e *Engine) ModelAvailable() bool {
	return e.artifact != nil
}

// Route classifies text and picks a department. A non-empty override skips
// classification entirely and is reported with confidence 1.0. Deterministic
// for a fixed artifact and input.
func (e *Engine) Route(text, override string) Result {
	if override != "" {
		// Submitter knows best; an unknown override still lands somewhere.
		if !ValidCategory(override) {
			return Result{
				Category:    CategoryUncategorized,
				Department:  DefaultDepartment,
				Confidence:  1.0,
				NeedsReview: false,
				Source:      SourceOverride,
			}
		}
		return Result{
			Category:    override,
			Department:  DepartmentFor(override),
			Confidence:  1.0,
			NeedsReview: false,
			Source:      SourceOverride,
		}
	}

	tokens := ml.Normalize(text)
	if len(tokens) == 0 || e.artifact == nil {
		return Result{
			Category:    CategoryUncategorized,
			Department:  DefaultDepartment,
			Confidence:  0,
			NeedsReview: true,
			Source:      SourceFallback,
		}
	}

	vec := e.artifact.Vectorizer.Transform(tokens)
	idx, probs := e.artifact.Forest.Predict(vec)
	category, department := ResolveLabel(idx, e.artifact.Labels)
	confidence := probs[idx]

	if confidence < e.threshold {
		return Result{
			Category:    category,
			Department:  DefaultDepartment,
			Confidence:  confidence,
			NeedsReview: true,
			Source:      SourceModel,
		}
	}
	return Result{
		Category:    category,
		Department:  department,
		Confidence:  confidence,
		NeedsReview: false,
		Source:      SourceModel,
	}
}
