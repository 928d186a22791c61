package lifecycle

import (
	"strings"
	"time"

	"github.com/civicgrid/complaint-service/internal/routing"
)

// PriorityConfig tunes the priority formula. Weights are configuration, not
// structural invariants; tests override them freely.
type PriorityConfig struct {
	// BaseWeights holds the per-category vote weight. Safety-related
	// categories carry more weight per vote.
	BaseWeights map[string]float64
	// DefaultWeight applies to categories absent from BaseWeights.
	DefaultWeight float64
	// SeverityWeight scales the submitter-supplied severity (0-10).
	SeverityWeight float64
	// DecayPerDay is subtracted per day of complaint age. Decay is only
	// applied when the score is recomputed on a vote, so the score never
	// drops from the passage of time alone.
	DecayPerDay float64
}

// DefaultPriorityConfig returns the shipped weights.
func DefaultPriorityConfig() PriorityConfig {
	return PriorityConfig{
		BaseWeights: map[string]float64{
			routing.CategoryElectricity: 1.5,
			routing.CategoryWater:       1.4,
			routing.CategoryDrainage:    1.2,
			routing.CategoryRoad:        1.1,
			routing.CategoryGarbage:     1.0,
		},
		DefaultWeight:  1.0,
		SeverityWeight: 0.5,
		DecayPerDay:    0.1,
	}
}

// Score computes the priority of a complaint: votes weighted by the category
// base weight plus a severity contribution minus age decay, floored at zero.
func (c PriorityConfig) Score(category string, votes, severity int, age time.Duration) float64 {
	weight, ok := c.BaseWeights[category]
	if !ok {
		weight = c.DefaultWeight
	}
	days := age.Hours() / 24
	score := weight*float64(votes) + c.SeverityWeight*float64(severity) - c.DecayPerDay*days
	if score < 0 {
		return 0
	}
	return score
}

// IntakeSeverity boosts the submitter-supplied severity based on urgency
// keywords in the complaint text, capped at 10.
func IntakeSeverity(text string, severity int) int {
	if severity < 0 {
		severity = 0
	}
	lower := strings.ToLower(text)
	switch {
	case strings.Contains(lower, "urgent") || strings.Contains(lower, "emergency"):
		severity += 2
	case strings.Contains(lower, "soon") || strings.Contains(lower, "important"):
		severity++
	}
	if severity > 10 {
		return 10
	}
	return severity
}
