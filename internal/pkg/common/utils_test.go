package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"plain", "anonymous", "anonymous"},
		{"spaces to underscores", "Maria Garcia", "Maria_Garcia"},
		{"umlauts transliterated", "Jörg Müßig", "Joerg_Muessig"},
		{"illegal characters stripped", "a/b\\c:d*e", "abcde"},
		{"dots and dashes kept", "list.v2-final", "list.v2-final"},
		{"collapsed whitespace", "  a   b  ", "a_b"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, SanitizeFilename(tt.input))
		})
	}
}

func TestShortID(t *testing.T) {
	id := ShortID()
	assert.Len(t, id, 8)
	assert.NotEqual(t, id, ShortID())
}

func TestExtractJSONArray(t *testing.T) {
	assert.Equal(t, `[1, 2]`, ExtractJSONArray("noise [1, 2] trailing"))
	assert.Equal(t, `[{"a": [1]}]`, ExtractJSONArray("```json\n[{\"a\": [1]}]\n```"))
	assert.Equal(t, "", ExtractJSONArray("no array here"))
	assert.Equal(t, "", ExtractJSONArray("only open ["))
}
