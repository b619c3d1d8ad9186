package shoplist

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeName(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"lowercase words", "olive oil", "Olive Oil"},
		{"already title case", "Olive Oil", "Olive Oil"},
		{"mixed case", "oLIVE oIL", "Olive Oil"},
		{"leading digit token dropped", "2 eggs", "Eggs"},
		{"parenthesised token dropped", "(optional) salt", "Salt"},
		{"extra whitespace collapsed", "  soy   sauce ", "Soy Sauce"},
		{"umlauts", "zwiebeln rot", "Zwiebeln Rot"},
		{"empty", "", ""},
		{"only non-letter tokens", "2 100", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, NormalizeName(tt.input))
		})
	}
}

func TestNormalizeAmount(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"unit glued to number", "100g", "100 g"},
		{"already separated", "100 g", "100 g"},
		{"ml", "100ml", "100 ml"},
		{"decimal comma", "1,5l", "1,5 l"},
		{"bare number", "3", "3"},
		{"no leading number", "a pinch", "a pinch"},
		{"whitespace trimmed", " 200g ", "200 g"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, NormalizeAmount(tt.input))
		})
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	line := IngredientLine{Amount: "100ml", Name: "olive oil", Recipes: []int{1}}

	once := Normalize(line)
	twice := Normalize(once)

	assert.Equal(t, "100 ml", once.Amount)
	assert.Equal(t, "Olive Oil", once.Name)
	assert.Equal(t, once, twice)
}
