package lifecycle

import (
	"testing"
	"time"

	"github.com/civicgrid/complaint-service/internal/routing"
)

func TestScore(t *testing.T) {
	cfg := DefaultPriorityConfig()

	tests := []struct {
		name     string
		category string
		votes    int
		severity int
		age      time.Duration
		want     float64
	}{
		{
			name:     "electricity weighs heaviest",
			category: routing.CategoryElectricity,
			votes:    10,
			want:     15, // 1.5 * 10
		},
		{
			name:     "severity contributes",
			category: routing.CategoryGarbage,
			votes:    4,
			severity: 6,
			want:     7, // 1.0*4 + 0.5*6
		},
		{
			name:     "age decays",
			category: routing.CategoryGarbage,
			votes:    2,
			age:      10 * 24 * time.Hour,
			want:     1, // 1.0*2 - 0.1*10
		},
		{
			name:     "unknown category uses default weight",
			category: "Something Else",
			votes:    3,
			want:     3,
		},
		{
			name:     "floored at zero",
			category: routing.CategoryGarbage,
			votes:    0,
			age:      365 * 24 * time.Hour,
			want:     0,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := cfg.Score(tt.category, tt.votes, tt.severity, tt.age)
			if diff := got - tt.want; diff > 1e-9 || diff < -1e-9 {
				t.Errorf("Score = %f, want %f", got, tt.want)
			}
		})
	}
}

func TestScoreMoreVotesNeverLowers(t *testing.T) {
	cfg := DefaultPriorityConfig()
	prev := 0.0
	for votes := 0; votes <= 50; votes++ {
		got := cfg.Score(routing.CategoryWater, votes, 3, 48*time.Hour)
		if got < prev {
			t.Fatalf("score dropped from %f to %f at %d votes", prev, got, votes)
		}
		prev = got
	}
}

func TestIntakeSeverity(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		severity int
		want     int
	}{
		{name: "urgent boosts by two", text: "URGENT water leak", severity: 3, want: 5},
		{name: "emergency boosts by two", text: "this is an emergency", severity: 0, want: 2},
		{name: "soon boosts by one", text: "please fix soon", severity: 3, want: 4},
		{name: "important boosts by one", text: "important road damage", severity: 0, want: 1},
		{name: "urgent wins over soon", text: "urgent, fix soon", severity: 1, want: 3},
		{name: "no keywords", text: "garbage on the corner", severity: 4, want: 4},
		{name: "capped at ten", text: "urgent emergency", severity: 9, want: 10},
		{name: "negative clamped", text: "nothing special", severity: -5, want: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IntakeSeverity(tt.text, tt.severity); got != tt.want {
				t.Errorf("IntakeSeverity(%q, %d) = %d, want %d", tt.text, tt.severity, got, tt.want)
			}
		})
	}
}
