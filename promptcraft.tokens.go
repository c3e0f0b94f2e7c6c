package promptcraft

import (
	"math"
	"unicode"
)

// Ratios used by EstimateTokens. Text whose share of non-ASCII runes exceeds
// NonASCIIThreshold tokenizes denser, so fewer runes count as one token.
const (
	RunesPerTokenLatin = 3.0
	RunesPerTokenOther = 2.0
	NonASCIIThreshold  = 0.3
)

// TokenEstimate holds size metrics of prompt text. EstimatedTokens is a
// budgeting heuristic, not tokenizer output; use LengthUnitTokens for exact
// counts.
type TokenEstimate struct {
	Characters      int
	Words           int
	Lines           int
	EstimatedTokens int
	NonASCIIRatio   float64
}

// EstimateTokens measures text in a single pass.
func EstimateTokens(text string) *TokenEstimate {
	est := &TokenEstimate{}
	if text == "" {
		return est
	}

	nonASCII := 0
	inWord := false
	est.Lines = 1
	for _, r := range text {
		est.Characters++
		if r > unicode.MaxASCII {
			nonASCII++
		}
		if r == '\n' {
			est.Lines++
		}
		space := unicode.IsSpace(r)
		if !space && !inWord {
			est.Words++
		}
		inWord = !space
	}

	est.NonASCIIRatio = float64(nonASCII) / float64(est.Characters)
	ratio := RunesPerTokenLatin
	if est.NonASCIIRatio > NonASCIIThreshold {
		ratio = RunesPerTokenOther
	}
	est.EstimatedTokens = int(math.Round(float64(est.Characters) / ratio))
	return est
}

// TokenBudget divides a context window into a prompt allowance and a part
// held back for the model's reply.
type TokenBudget struct {
	MaxTokens           int
	ReservedForResponse int
	AvailableForPrompt  int
}

// NewTokenBudget reserves reserved tokens of window for the reply. The prompt
// allowance never drops below zero.
func NewTokenBudget(window, reserved int) *TokenBudget {
	return &TokenBudget{
		MaxTokens:           window,
		ReservedForResponse: reserved,
		AvailableForPrompt:  max(window-reserved, 0),
	}
}

// FitsWithin reports whether est stays inside the prompt allowance.
func (b *TokenBudget) FitsWithin(est *TokenEstimate) bool {
	return est.EstimatedTokens <= b.AvailableForPrompt
}

// Remaining is the allowance left after est, floored at zero.
func (b *TokenBudget) Remaining(est *TokenEstimate) int {
	return max(b.AvailableForPrompt-est.EstimatedTokens, 0)
}

// ExampleBudget is the allowance left for few-shot examples after the fixed
// prompt parts (prefix, suffix, query). Pass it to SelectWithBudget on a
// selector measuring with EstimatedTokenCount.
func (b *TokenBudget) ExampleBudget(fixed ...string) int {
	left := b.AvailableForPrompt
	for _, part := range fixed {
		left -= EstimateTokens(part).EstimatedTokens
	}
	return max(left, 0)
}
