// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package normalize

import (
	"reflect"
	"testing"
)

func TestSplitAuthors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{
			name:  "and separator",
			input: "Smith, John and Doe, Jane",
			want:  []string{"Smith, John", "Doe, Jane"},
		},
		{
			name:  "uppercase AND separator",
			input: "John Smith AND Jane Doe",
			want:  []string{"John Smith", "Jane Doe"},
		},
		{
			name:  "three authors with and",
			input: "A. Smith and B. Jones and C. Brown",
			want:  []string{"A. Smith", "B. Jones", "C. Brown"},
		},
		{
			name:  "comma fallback",
			input: "John Smith, Jane Doe",
			want:  []string{"John Smith", "Jane Doe"},
		},
		{
			name:  "semicolon fallback",
			input: "John Smith; Jane Doe",
			want:  []string{"John Smith", "Jane Doe"},
		},
		{
			name:  "ampersand fallback",
			input: "Smith & Doe",
			want:  []string{"Smith", "Doe"},
		},
		{
			name:  "single author",
			input: "John Smith",
			want:  []string{"John Smith"},
		},
		{
			name:  "empty string",
			input: "",
			want:  nil,
		},
		{
			name:  "whitespace only",
			input: "   ",
			want:  nil,
		},
		{
			name:  "trailing separator drops empties",
			input: "John Smith, ",
			want:  []string{"John Smith"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SplitAuthors(tt.input)
			if len(got) == 0 && len(tt.want) == 0 {
				return
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("SplitAuthors(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestLastName(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"John Smith", "Smith"},
		{"Jane van Doe", "Doe"},
		{"Smith", "Smith"},
		{"  A. B. Jones  ", "Jones"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := LastName(tt.input); got != tt.want {
			t.Errorf("LastName(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestForComparison(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"lowercases", "Deep Learning", "deep learning"},
		{"strips punctuation", "deep learning for nlp.", "deep learning for nlp"},
		{"collapses whitespace", "deep   learning\tfor nlp", "deep learning for nlp"},
		{"mixed", "Deep Learning: for NLP!", "deep learning for nlp"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ForComparison(tt.input); got != tt.want {
				t.Errorf("ForComparison(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

// Case and punctuation variants of the same title must normalize identically;
// the duplicate grouper depends on this.
func TestForComparisonEquivalence(t *testing.T) {
	a := ForComparison("Deep Learning for NLP")
	b := ForComparison("deep learning for nlp.")
	if a != b {
		t.Errorf("variants normalize differently: %q vs %q", a, b)
	}
}

func TestEqualFold(t *testing.T) {
	if !EqualFold("  Nature ", "nature") {
		t.Error("EqualFold should ignore case and surrounding whitespace")
	}
	if EqualFold("Nature", "Science") {
		t.Error("EqualFold matched distinct values")
	}
}
