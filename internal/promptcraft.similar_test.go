package internal

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEditDistance(t *testing.T) {
	tests := []struct {
		name     string
		a        string
		b        string
		expected int
	}{
		{"empty strings", "", "", 0},
		{"empty a", "", "query", 5},
		{"empty b", "query", "", 5},
		{"identical", "answer", "answer", 0},
		{"transposition", "qurey", "query", 2},
		{"insertion", "word", "words", 1},
		{"substitution", "runes", "tunes", 1},
		{"case sensitive", "Query", "query", 1},
		{"multibyte runes", "héllo", "hello", 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, editDistance([]rune(tt.a), []rune(tt.b)))
		})
	}
}

func TestClosestMatches(t *testing.T) {
	t.Run("closest first", func(t *testing.T) {
		result := ClosestMatches("anwser", []string{"query", "answers", "answer"}, DefaultMaxSuggestions)
		assert.Equal(t, []string{"answer", "answers"}, result)
	})

	t.Run("no matches", func(t *testing.T) {
		assert.Empty(t, ClosestMatches("provider", []string{"xyz", "abc"}, 3))
	})

	t.Run("limit caps results", func(t *testing.T) {
		result := ClosestMatches("word", []string{"words", "ward", "cord", "wore"}, 2)
		assert.Len(t, result, 2)
	})

	t.Run("empty candidates", func(t *testing.T) {
		assert.Empty(t, ClosestMatches("query", nil, 3))
	})

	t.Run("zero limit", func(t *testing.T) {
		assert.Empty(t, ClosestMatches("query", []string{"queries"}, 0))
	})

	t.Run("case insensitive", func(t *testing.T) {
		assert.Equal(t, []string{"OpenAI"}, ClosestMatches("openia", []string{"OpenAI", "gemini"}, 3))
	})

	t.Run("exact match is not a suggestion", func(t *testing.T) {
		assert.Empty(t, ClosestMatches("words", []string{"words"}, 3))
	})

	t.Run("ties keep candidate order", func(t *testing.T) {
		result := ClosestMatches("cat", []string{"bat", "hat", "rat"}, 3)
		assert.Equal(t, []string{"bat", "hat", "rat"}, result)
	})
}

func TestFormatSuggestions(t *testing.T) {
	tests := []struct {
		name        string
		suggestions []string
		expected    string
	}{
		{"empty", nil, ""},
		{"one suggestion", []string{"query"}, ` (did you mean "query"?)`},
		{"two suggestions", []string{"word", "words"}, ` (did you mean "word" or "words"?)`},
		{"three suggestions", []string{"a", "b", "c"}, ` (did you mean "a", "b" or "c"?)`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, FormatSuggestions(tt.suggestions))
		})
	}
}
