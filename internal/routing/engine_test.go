package routing

import (
	"testing"

	"github.com/civicgrid/complaint-service/internal/ml"
)

// fixtureArtifact classifies on two signal words: "water" selects class 0 and
// "pothole" selects class 1; anything else lands in class 2 with a weak,
// below-threshold distribution.
func fixtureArtifact() *ml.Artifact {
	tree := ml.Tree{Nodes: []ml.TreeNode{
		{Feature: 0, Threshold: 0, Left: 1, Right: 2},
		{Feature: 1, Threshold: 0, Left: 3, Right: 4},
		{Feature: -1, Dist: []float64{1, 0, 0}},
		{Feature: -1, Dist: []float64{0.2, 0.35, 0.45}},
		{Feature: -1, Dist: []float64{0, 1, 0}},
	}}
	return &ml.Artifact{
		Vectorizer: &ml.Vectorizer{
			Vocabulary: map[string]int{"water": 0, "pothole": 1, "garbage": 2},
			IDF:        []float64{1, 1, 1},
		},
		Forest: &ml.Forest{NumClasses: 3, Trees: []ml.Tree{tree}},
		Labels: []string{CategoryWater, CategoryRoad, CategoryGarbage},
	}
}

func TestRouteModelPrediction(t *testing.T) {
	e := NewEngine(fixtureArtifact(), 0)

	tests := []struct {
		name            string
		text            string
		wantCategory    string
		wantDepartment  string
		wantNeedsReview bool
		wantSource      string
	}{
		{
			name:           "confident water prediction",
			text:           "water pipe burst flooding the street",
			wantCategory:   CategoryWater,
			wantDepartment: "Water Dept",
			wantSource:     SourceModel,
		},
		{
			name:           "confident road prediction",
			text:           "huge pothole outside the school",
			wantCategory:   CategoryRoad,
			wantDepartment: "Roads Dept",
			wantSource:     SourceModel,
		},
		{
			name:            "low confidence keeps category but routes to triage",
			text:            "garbage piling up behind the market",
			wantCategory:    CategoryGarbage,
			wantDepartment:  DefaultDepartment,
			wantNeedsReview: true,
			wantSource:      SourceModel,
		},
		{
			name:            "empty text falls back",
			text:            "   ",
			wantCategory:    CategoryUncategorized,
			wantDepartment:  DefaultDepartment,
			wantNeedsReview: true,
			wantSource:      SourceFallback,
		},
		{
			name:            "stopwords only falls back",
			text:            "it is the and of",
			wantCategory:    CategoryUncategorized,
			wantDepartment:  DefaultDepartment,
			wantNeedsReview: true,
			wantSource:      SourceFallback,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := e.Route(tt.text, "")
			if got.Category != tt.wantCategory {
				t.Errorf("category = %q, want %q", got.Category, tt.wantCategory)
			}
			if got.Department != tt.wantDepartment {
				t.Errorf("department = %q, want %q", got.Department, tt.wantDepartment)
			}
			if got.NeedsReview != tt.wantNeedsReview {
				t.Errorf("needs_review = %v, want %v", got.NeedsReview, tt.wantNeedsReview)
			}
			if got.Source != tt.wantSource {
				t.Errorf("source = %q, want %q", got.Source, tt.wantSource)
			}
		})
	}
}

func TestRouteOverride(t *testing.T) {
	e := NewEngine(fixtureArtifact(), 0)

	got := e.Route("water everywhere", CategoryElectricity)
	if got.Category != CategoryElectricity {
		t.Errorf("category = %q, want override %q", got.Category, CategoryElectricity)
	}
	if got.Department != "Electricity Dept" {
		t.Errorf("department = %q, want %q", got.Department, "Electricity Dept")
	}
	if got.Confidence != 1.0 {
		t.Errorf("confidence = %f, want 1.0", got.Confidence)
	}
	if got.NeedsReview {
		t.Error("override must not need review")
	}
	if got.Source != SourceOverride {
		t.Errorf("source = %q, want %q", got.Source, SourceOverride)
	}
}

func TestRouteUnknownOverride(t *testing.T) {
	e := NewEngine(fixtureArtifact(), 0)
	got := e.Route("anything", "Alien Invasions")
	if got.Category != CategoryUncategorized || got.Department != DefaultDepartment {
		t.Errorf("unknown override routed to (%q, %q), want sentinel pairing", got.Category, got.Department)
	}
	if got.Source != SourceOverride {
		t.Errorf("source = %q, want %q", got.Source, SourceOverride)
	}
}

func TestRouteThresholdBoundary(t *testing.T) {
	// A single leaf with an exact 0.5/0.5 split: confidence equals the default
	// threshold and must be accepted, review is only for strictly below.
	a := fixtureArtifact()
	a.Forest = &ml.Forest{NumClasses: 3, Trees: []ml.Tree{
		{Nodes: []ml.TreeNode{{Feature: -1, Dist: []float64{0.5, 0.5, 0}}}},
	}}
	e := NewEngine(a, 0)
	got := e.Route("water", "")
	if got.Confidence != 0.5 {
		t.Fatalf("confidence = %f, want 0.5", got.Confidence)
	}
	if got.NeedsReview {
		t.Error("confidence equal to threshold must not need review")
	}
	if got.Category != CategoryWater {
		t.Errorf("tie must resolve to lowest class index, got %q", got.Category)
	}
}

func TestRouteDegradedMode(t *testing.T) {
	e := NewEngine(nil, 0)
	if e.ModelAvailable() {
		t.Fatal("nil artifact must report model unavailable")
	}
	got := e.Route("water pipe burst", "")
	if got.Source != SourceFallback || !got.NeedsReview {
		t.Errorf("degraded mode result = %+v, want fallback needing review", got)
	}
	// Overrides still work without a model.
	got = e.Route("water pipe burst", CategoryWater)
	if got.Category != CategoryWater || got.Source != SourceOverride {
		t.Errorf("override in degraded mode = %+v", got)
	}
}

func TestRouteDeterministic(t *testing.T) {
	e := NewEngine(fixtureArtifact(), 0)
	first := e.Route("water pipe burst flooding the street", "")
	for i := 0; i < 20; i++ {
		if got := e.Route("water pipe burst flooding the street", ""); got != first {
			t.Fatalf("run %d: %+v != %+v", i, got, first)
		}
	}
}
