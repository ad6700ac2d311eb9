package embedding

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestPreprocess(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "emphasis and spacing", input: "  **Bold** _text_  - bullet  ", want: "Bold text - bullet"},
		{name: "leading dash", input: "- Shipped the thing", want: "Shipped the thing"},
		{name: "leading glyph", input: "•   Shipped", want: "Shipped"},
		{name: "double underscore", input: "__Led__ a *team*", want: "Led a team"},
		{name: "newlines collapse", input: "Built\n\n\tpipelines", want: "Built pipelines"},
		{name: "empty", input: "   ", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Preprocess(tt.input, PreprocessV1))
		})
	}
}

func TestPreprocess_TruncatesByRunes(t *testing.T) {
	long := strings.Repeat("é", maxEmbedTextRunes+50)
	out := Preprocess(long, PreprocessV1)
	assert.Equal(t, maxEmbedTextRunes, utf8.RuneCountInString(out))
}

func TestCosine(t *testing.T) {
	tests := []struct {
		name string
		a, b []float64
		want float64
	}{
		{name: "identical", a: []float64{1, 2, 3}, b: []float64{1, 2, 3}, want: 1},
		{name: "orthogonal", a: []float64{1, 0}, b: []float64{0, 1}, want: 0},
		{name: "opposite", a: []float64{1, 0}, b: []float64{-1, 0}, want: -1},
		{name: "length mismatch", a: []float64{1}, b: []float64{1, 0}, want: 0},
		{name: "zero vector", a: []float64{0, 0}, b: []float64{1, 0}, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, Cosine(tt.a, tt.b), 1e-9)
		})
	}
}
