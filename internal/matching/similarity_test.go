package matching

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "Ravi Kumar", want: "ravi kumar"},
		{in: "  Ravi   Kumar ", want: "ravi kumar"},
		{in: "RAVI\tKUMAR", want: "ravi kumar"},
		{in: "Ｒａｖｉ Kumar", want: "ravi kumar"},
		{in: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeName(tt.in))
		})
	}
}

func TestRatio(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		want float64
	}{
		{name: "both empty", a: "", b: "", want: 1.0},
		{name: "one empty", a: "abc", b: "", want: 0.0},
		{name: "identical", a: "ravi", b: "ravi", want: 1.0},
		{name: "shifted block", a: "abcd", b: "bcde", want: 0.75},
		{name: "one substitution", a: "abcd", b: "abce", want: 0.75},
		{name: "disjoint", a: "abc", b: "xyz", want: 0.0},
		{name: "recursion on both sides", a: "xaybz", b: "aqb", want: 2.0 * 2 / 8},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, Ratio(tt.a, tt.b), 1e-9)
			assert.InDelta(t, tt.want, Ratio(tt.b, tt.a), 1e-9)
		})
	}
}

func TestNameSimilarity_Threshold(t *testing.T) {
	tests := []struct {
		name      string
		a, b      string
		wantMatch bool
	}{
		{name: "extra inner space", a: "Ravi Kumar", b: "Ravi  Kumar", wantMatch: true},
		{name: "case only", a: "ravi kumar", b: "RAVI KUMAR", wantMatch: true},
		{name: "one extra letter", a: "Ravi Kumar", b: "Ravi Kumaar", wantMatch: true},
		{name: "different surname", a: "Ravi Kumar", b: "Ravi Kiran", wantMatch: false},
		{name: "different person", a: "Ravi Kumar", b: "Suresh Babu", wantMatch: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			score := NameSimilarity(tt.a, tt.b)
			assert.GreaterOrEqual(t, score, 0.0)
			assert.LessOrEqual(t, score, 1.0)
			assert.Equal(t, tt.wantMatch, score >= DefaultThreshold, "score %.3f", score)
		})
	}

	assert.Equal(t, 1.0, NameSimilarity("Ravi Kumar", "Ravi  Kumar"))
	assert.Less(t, NameSimilarity("Ravi Kumar", "Suresh Babu"), 0.5)
}
