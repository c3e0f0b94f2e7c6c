package internal

import (
	"cmp"
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// Suggestion defaults
const (
	DefaultMaxSuggestions = 3
	minSuggestionDistance = 2
)

// ClosestMatches returns up to limit candidates near target, nearest first.
// Nearness is the case-insensitive edit distance over runes; anything farther
// than half the target length (at least 2) is dropped. target itself is
// never suggested.
func ClosestMatches(target string, candidates []string, limit int) []string {
	if limit <= 0 || len(candidates) == 0 {
		return nil
	}

	want := []rune(strings.ToLower(target))
	threshold := max(len(want)/2, minSuggestionDistance)

	type match struct {
		name string
		dist int
	}
	var matches []match
	for _, c := range candidates {
		if c == target {
			continue
		}
		if d := editDistance(want, []rune(strings.ToLower(c))); d <= threshold {
			matches = append(matches, match{name: c, dist: d})
		}
	}
	slices.SortStableFunc(matches, func(x, y match) int {
		return cmp.Compare(x.dist, y.dist)
	})

	n := min(limit, len(matches))
	out := make([]string, n)
	for i := range out {
		out[i] = matches[i].name
	}
	return out
}

// editDistance is the Levenshtein distance between a and b, kept in one row.
func editDistance(a, b []rune) int {
	row := make([]int, len(b)+1)
	for j := range row {
		row[j] = j
	}
	for i, ra := range a {
		diag := row[0]
		row[0] = i + 1
		for j, rb := range b {
			above := row[j+1]
			sub := diag
			if ra != rb {
				sub++
			}
			row[j+1] = min(above+1, row[j]+1, sub)
			diag = above
		}
	}
	return row[len(b)]
}

// FormatSuggestions renders a hint suffix such as ` (did you mean "a" or "b"?)`.
func FormatSuggestions(suggestions []string) string {
	switch len(suggestions) {
	case 0:
		return ""
	case 1:
		return fmt.Sprintf(" (did you mean %q?)", suggestions[0])
	}
	quoted := make([]string, len(suggestions))
	for i, s := range suggestions {
		quoted[i] = strconv.Quote(s)
	}
	last := len(quoted) - 1
	return " (did you mean " + strings.Join(quoted[:last], ", ") + " or " + quoted[last] + "?)"
}
