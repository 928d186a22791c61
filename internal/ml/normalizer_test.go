package ml

import (
	"reflect"
	"testing"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{
			name: "lowercases and strips punctuation",
			in:   "Water LEAK, near Main-Street!!",
			want: []string{"water", "leak", "main", "street"},
		},
		{
			name: "drops stopwords",
			in:   "there is a pothole on the road",
			want: []string{"pothole", "road"},
		},
		{
			name: "keeps digits",
			in:   "streetlight 42 broken",
			want: []string{"streetlight", "42", "broken"},
		},
		{
			name: "empty input",
			in:   "",
			want: nil,
		},
		{
			name: "whitespace only",
			in:   "   \t\n  ",
			want: nil,
		},
		{
			name: "only stopwords",
			in:   "it is the and of",
			want: nil,
		},
		{
			name: "punctuation splits tokens",
			in:   "street,flooded",
			want: []string{"street", "flooded"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Normalize(tt.in)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Normalize(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestNormalizeDeterministic(t *testing.T) {
	in := "URGENT: water pipe burst near the school, please fix soon!"
	first := Normalize(in)
	for i := 0; i < 10; i++ {
		if got := Normalize(in); !reflect.DeepEqual(got, first) {
			t.Fatalf("run %d: Normalize not deterministic: %v != %v", i, got, first)
		}
	}
}
