package promptcraft

import (
	"strings"
	"unicode/utf8"

	"github.com/pkoukk/tiktoken-go"
)

// LengthFunc measures rendered example text in some unit. It must be deterministic.
type LengthFunc func(text string) int

// WordCount counts whitespace-delimited words. It is the default unit.
func WordCount(text string) int {
	return len(strings.Fields(text))
}

// RuneCount counts UTF-8 characters.
func RuneCount(text string) int {
	return utf8.RuneCountInString(text)
}

// EstimatedTokenCount returns the heuristic token estimate from EstimateTokens.
func EstimatedTokenCount(text string) int {
	return EstimateTokens(text).EstimatedTokens
}

// NewTiktokenLength returns a LengthFunc counting BPE tokens for model.
// Unknown models fall back to the cl100k_base encoding.
func NewTiktokenLength(model string) (LengthFunc, error) {
	enc, err := tiktoken.EncodingForModel(model)
	if err != nil {
		enc, err = tiktoken.GetEncoding(DefaultTiktokenEncoding)
		if err != nil {
			return nil, NewInvalidLengthUnitError(LengthUnitTiktokenPrefix+model, err)
		}
	}
	return func(text string) int {
		return len(enc.Encode(text, nil, nil))
	}, nil
}

// lengthUnitNames are the fixed unit names, used for suggestions.
var lengthUnitNames = []string{LengthUnitWords, LengthUnitRunes, LengthUnitTokens}

// ParseLengthUnit resolves a unit name: words, runes, tokens or tiktoken:<model>.
// An empty name selects words.
func ParseLengthUnit(name string) (LengthFunc, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", LengthUnitWords:
		return WordCount, nil
	case LengthUnitRunes:
		return RuneCount, nil
	case LengthUnitTokens:
		return EstimatedTokenCount, nil
	}
	if model, ok := strings.CutPrefix(name, LengthUnitTiktokenPrefix); ok && model != "" {
		return NewTiktokenLength(model)
	}
	return nil, NewInvalidLengthUnitError(name, nil)
}
