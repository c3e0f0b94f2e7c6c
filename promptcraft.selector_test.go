package promptcraft

import (
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/itsatony/go-cuserr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testExampleTemplate = "User: {query}\nAI: {answer}\n"

func referencePool() []Example {
	return []Example{
		{FieldQuery: "How do I become a better programmer?", FieldAnswer: "Try talking to a rubber duck; it works wonders."},
		{FieldQuery: "Why is the sky blue?", FieldAnswer: "It's nature's way of preventing eye strain."},
	}
}

func newTestSelector(t *testing.T, pool []Example, budget int, opts ...SelectorOption) *LengthBasedSelector {
	t.Helper()
	tmpl := MustNewPromptTemplate(testExampleTemplate)
	s, err := NewLengthBasedSelector(pool, tmpl.FormatExample, budget, opts...)
	require.NoError(t, err)
	return s
}

func renderedWords(t *testing.T, ex Example) int {
	t.Helper()
	text, err := MustNewPromptTemplate(testExampleTemplate).FormatExample(ex)
	require.NoError(t, err)
	return WordCount(text)
}

func TestLengthBasedSelector_ReferenceLengths(t *testing.T) {
	s := newTestSelector(t, referencePool(), 100)
	assert.Equal(t, []int{18, 14}, s.Lengths())
}

func TestLengthBasedSelector_Scenarios(t *testing.T) {
	pool := referencePool()
	first := renderedWords(t, pool[0])

	tests := []struct {
		name     string
		pool     []Example
		budget   int
		expected []Example
	}{
		{"budget admits both", pool, 100, pool},
		{"zero budget", pool, 0, []Example{}},
		{"exactly first example", pool, first, pool[:1]},
		{"one short of both", pool, first + 13, pool[:1]},
		{"exactly both", pool, first + 14, pool},
		{"single oversized example", pool[:1], first - 1, []Example{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestSelector(t, tt.pool, tt.budget)
			got := s.Select()
			if diff := cmp.Diff(tt.expected, got); diff != "" {
				t.Errorf("Select() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestLengthBasedSelector_FirstThreeOfFive(t *testing.T) {
	pool := []Example{
		{FieldQuery: "one", FieldAnswer: "a b"},         // 5 words
		{FieldQuery: "two words", FieldAnswer: "c"},     // 5 words
		{FieldQuery: "three", FieldAnswer: "d e f"},     // 6 words
		{FieldQuery: "x", FieldAnswer: "y"},             // 4 words
		{FieldQuery: strings.Repeat("w ", 50), FieldAnswer: "z"},
	}
	s := newTestSelector(t, pool, 16)
	require.Equal(t, []int{5, 5, 6, 4, 53}, s.Lengths())

	assert.Equal(t, pool[:3], s.Select())

	// Content of the tail does not matter
	tail := []Example{
		{FieldQuery: "completely", FieldAnswer: "different"},
		{FieldQuery: "", FieldAnswer: ""},
	}
	other := newTestSelector(t, append(append([]Example{}, pool[:3]...), tail...), 16)
	assert.Equal(t, pool[:3], other.Select())
}

func TestLengthBasedSelector_StopsAtFirstOverflow(t *testing.T) {
	pool := []Example{
		{FieldQuery: "short", FieldAnswer: "short"},                 // 4 words
		{FieldQuery: strings.Repeat("long ", 20), FieldAnswer: "x"}, // 23 words
		{FieldQuery: "tiny", FieldAnswer: "tiny"},                   // 4 words
	}
	s := newTestSelector(t, pool, 10)

	// The third example would fit on its own but selection has already stopped.
	assert.Equal(t, pool[:1], s.Select())
}

func TestLengthBasedSelector_EmptyPool(t *testing.T) {
	for _, budget := range []int{0, 1, 100} {
		s := newTestSelector(t, nil, budget)
		assert.Empty(t, s.Select())
		assert.Equal(t, 0, s.Len())

		got, err := s.SelectWithBudget(budget)
		require.NoError(t, err)
		assert.Empty(t, got)
	}
}

func TestLengthBasedSelector_NegativeBudget(t *testing.T) {
	tmpl := MustNewPromptTemplate(testExampleTemplate)
	s, err := NewLengthBasedSelector(referencePool(), tmpl.FormatExample, -1)
	require.Error(t, err)
	assert.Nil(t, s)
	assert.Contains(t, err.Error(), ErrMsgNegativeBudget)

	var customErr *cuserr.CustomError
	require.True(t, errors.As(err, &customErr))
	budget, ok := customErr.GetMetadata(MetaKeyBudget)
	assert.True(t, ok)
	assert.Equal(t, "-1", budget)

	valid := newTestSelector(t, referencePool(), 10)
	selected, err := valid.SelectWithBudget(-5)
	require.Error(t, err)
	assert.Nil(t, selected)
	assert.Contains(t, err.Error(), ErrMsgNegativeBudget)
}

func TestLengthBasedSelector_ConfigErrors(t *testing.T) {
	t.Run("nil renderer", func(t *testing.T) {
		_, err := NewLengthBasedSelector(referencePool(), nil, 10)
		require.Error(t, err)
		assert.Contains(t, err.Error(), ErrMsgNilRenderer)
	})

	t.Run("nil length func", func(t *testing.T) {
		tmpl := MustNewPromptTemplate(testExampleTemplate)
		_, err := NewLengthBasedSelector(referencePool(), tmpl.FormatExample, 10, WithLengthFunc(nil))
		require.Error(t, err)
		assert.Contains(t, err.Error(), ErrMsgNilLengthFunc)
	})

	t.Run("render failure reports index", func(t *testing.T) {
		tmpl := MustNewPromptTemplate(testExampleTemplate)
		pool := append(referencePool(), Example{FieldQuery: "no answer"})
		_, err := NewLengthBasedSelector(pool, tmpl.FormatExample, 10)
		require.Error(t, err)
		assert.Contains(t, err.Error(), ErrMsgRenderFailed)

		var missing *MissingFieldError
		require.True(t, errors.As(err, &missing))
		assert.Equal(t, FieldAnswer, missing.Field)

		var customErr *cuserr.CustomError
		require.True(t, errors.As(err, &customErr))
		idx, ok := customErr.GetMetadata(MetaKeyIndex)
		assert.True(t, ok)
		assert.Equal(t, "2", idx)
	})
}

func TestLengthBasedSelector_DoesNotAliasPool(t *testing.T) {
	pool := referencePool()
	s := newTestSelector(t, pool, 100)

	pool[0][FieldQuery] = "mutated by caller"
	selected := s.Select()
	assert.Equal(t, "How do I become a better programmer?", selected[0][FieldQuery])

	selected[1][FieldAnswer] = "mutated result"
	again := s.Select()
	assert.Equal(t, "It's nature's way of preventing eye strain.", again[1][FieldAnswer])
}

func TestLengthBasedSelector_With(t *testing.T) {
	base := newTestSelector(t, referencePool()[:1], 100)
	extended, err := base.With(referencePool()[1])
	require.NoError(t, err)

	assert.Equal(t, 1, base.Len())
	assert.Equal(t, 2, extended.Len())
	assert.Equal(t, referencePool(), extended.Select())
	assert.Equal(t, 100, extended.MaxLength())

	_, err = base.With(Example{FieldQuery: "missing answer"})
	require.Error(t, err)
	assert.Equal(t, 1, base.Len())
}

func TestLengthBasedSelector_SelectExamplesIgnoresInputs(t *testing.T) {
	s := newTestSelector(t, referencePool(), 20)
	short, err := s.SelectExamples(map[string]string{FieldQuery: "Who?"})
	require.NoError(t, err)
	long, err := s.SelectExamples(map[string]string{FieldQuery: strings.Repeat("very long input ", 100)})
	require.NoError(t, err)
	assert.Equal(t, short, long)
	assert.Len(t, short, 1)
}

func TestLengthBasedSelector_RuneUnit(t *testing.T) {
	pool := []Example{{FieldQuery: "ab", FieldAnswer: "cd"}} // "User: ab\nAI: cd\n" = 16 runes
	s := newTestSelector(t, pool, 16, WithLengthFunc(RuneCount))
	assert.Len(t, s.Select(), 1)

	got, err := s.SelectWithBudget(15)
	require.NoError(t, err)
	assert.Empty(t, got)
}

// randomPool builds a deterministic pool of examples with varying sizes.
func randomPool(r *rand.Rand, n int) []Example {
	pool := make([]Example, n)
	for i := range pool {
		pool[i] = Example{
			FieldQuery:  strings.TrimSpace(strings.Repeat("q ", r.Intn(12))),
			FieldAnswer: strings.TrimSpace(strings.Repeat("a ", r.Intn(12))),
		}
	}
	return pool
}

func isPrefix(prefix, of []Example) bool {
	if len(prefix) > len(of) {
		return false
	}
	return cmp.Equal(prefix, of[:len(prefix)], cmp.Comparer(func(a, b Example) bool {
		return cmp.Equal(map[string]string(a), map[string]string(b))
	}))
}

func TestLengthBasedSelector_Properties(t *testing.T) {
	r := rand.New(rand.NewSource(42))
	for iter := 0; iter < 200; iter++ {
		pool := randomPool(r, r.Intn(8))
		s := newTestSelector(t, pool, 0)
		lengths := s.Lengths()

		prev := []Example{}
		for budget := 0; budget <= 60; budget += 1 + r.Intn(5) {
			got, err := s.SelectWithBudget(budget)
			require.NoError(t, err)

			// prefix of the pool
			require.True(t, isPrefix(got, pool), "iter %d budget %d", iter, budget)

			// within budget
			total := 0
			for i := range got {
				total += lengths[i]
			}
			require.LessOrEqual(t, total, budget)

			// maximal: the next example would overflow
			if len(got) < len(pool) {
				require.Greater(t, total+lengths[len(got)], budget)
			}

			// deterministic
			again, err := s.SelectWithBudget(budget)
			require.NoError(t, err)
			require.Equal(t, got, again)

			// monotonic in budget
			require.True(t, isPrefix(prev, got), "iter %d budget %d", iter, budget)
			prev = got

			// oversized head selects nothing
			if len(pool) > 0 && lengths[0] > budget {
				require.Empty(t, got)
			}
		}
	}
}

func TestLengthBasedSelector_ConcurrentSelect(t *testing.T) {
	s := newTestSelector(t, referencePool(), 20)
	expected := s.Select()

	var wg sync.WaitGroup
	errs := make(chan error, 16)
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(budget int) {
			defer wg.Done()
			got := s.Select()
			if !cmp.Equal(expected, got) {
				errs <- fmt.Errorf("goroutine %d got %v", budget, got)
			}
			if _, err := s.SelectWithBudget(budget); err != nil {
				errs <- err
			}
		}(i)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Error(err)
	}
}

func TestLengthBasedSelector_ImplementsExampleSelector(t *testing.T) {
	var _ ExampleSelector = (*LengthBasedSelector)(nil)
}
