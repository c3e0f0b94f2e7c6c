package promptcraft

import (
	"go.uber.org/zap"
)

// RenderFunc turns an Example into the text that counts against the budget.
// It must be deterministic and free of side effects.
type RenderFunc func(Example) (string, error)

// ExampleSelector chooses which examples go into a few-shot prompt.
// inputs are the values of the surrounding prompt; selectors may ignore them.
type ExampleSelector interface {
	SelectExamples(inputs map[string]string) ([]Example, error)
}

// SelectorOption configures a LengthBasedSelector.
type SelectorOption func(*selectorConfig)

type selectorConfig struct {
	length LengthFunc
	logger *zap.Logger
}

// WithLengthFunc sets the unit used to measure rendered examples.
// Default: WordCount
func WithLengthFunc(fn LengthFunc) SelectorOption {
	return func(c *selectorConfig) {
		c.length = fn
	}
}

// WithSelectorLogger sets the logger for the selector.
// Default: nil (no logging)
func WithSelectorLogger(logger *zap.Logger) SelectorOption {
	return func(c *selectorConfig) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// LengthBasedSelector takes the longest prefix of its pool whose rendered
// length fits a budget. Selection stops at the first example that would
// overflow; later, shorter examples are not considered.
//
// The pool is copied and measured once at construction. A selector is
// immutable and safe for concurrent use.
type LengthBasedSelector struct {
	examples  []Example
	lengths   []int
	maxLength int
	render    RenderFunc
	length    LengthFunc
	logger    *zap.Logger
}

// NewLengthBasedSelector creates a selector over examples with budget maxLength.
// A negative budget or nil renderer is a configuration error, as is any
// rendering failure within the pool.
func NewLengthBasedSelector(examples []Example, render RenderFunc, maxLength int, opts ...SelectorOption) (*LengthBasedSelector, error) {
	cfg := &selectorConfig{
		length: WordCount,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(cfg)
	}

	if maxLength < 0 {
		return nil, NewNegativeBudgetError(maxLength)
	}
	if render == nil {
		return nil, NewConfigError(ErrMsgNilRenderer, "render")
	}
	if cfg.length == nil {
		return nil, NewConfigError(ErrMsgNilLengthFunc, "length")
	}

	s := &LengthBasedSelector{
		maxLength: maxLength,
		render:    render,
		length:    cfg.length,
		logger:    cfg.logger,
	}
	if err := s.add(examples); err != nil {
		return nil, err
	}

	s.logger.Debug(LogMsgSelectorCreated,
		zap.Int(LogFieldPoolSize, len(s.examples)),
		zap.Int(LogFieldBudget, maxLength))
	return s, nil
}

// add measures and appends examples. Only used before the selector is shared.
func (s *LengthBasedSelector) add(examples []Example) error {
	for i, ex := range examples {
		text, err := s.render(ex)
		if err != nil {
			return NewRenderError(len(s.examples)+i, err)
		}
		s.lengths = append(s.lengths, s.length(text))
	}
	s.examples = append(s.examples, cloneExamples(examples)...)
	return nil
}

// With returns a new selector whose pool is this pool followed by examples.
// The receiver is unchanged.
func (s *LengthBasedSelector) With(examples ...Example) (*LengthBasedSelector, error) {
	next := &LengthBasedSelector{
		examples:  cloneExamples(s.examples),
		lengths:   append([]int(nil), s.lengths...),
		maxLength: s.maxLength,
		render:    s.render,
		length:    s.length,
		logger:    s.logger,
	}
	if err := next.add(examples); err != nil {
		return nil, err
	}
	return next, nil
}

// MaxLength returns the construction-time budget.
func (s *LengthBasedSelector) MaxLength() int {
	return s.maxLength
}

// Len returns the pool size.
func (s *LengthBasedSelector) Len() int {
	return len(s.examples)
}

// Examples returns a copy of the pool in insertion order.
func (s *LengthBasedSelector) Examples() []Example {
	return cloneExamples(s.examples)
}

// Lengths returns the measured length of every pool entry.
func (s *LengthBasedSelector) Lengths() []int {
	return append([]int(nil), s.lengths...)
}

// Select returns the examples that fit the construction-time budget.
func (s *LengthBasedSelector) Select() []Example {
	return s.selectPrefix(s.maxLength)
}

// SelectWithBudget returns the examples that fit budget.
// A negative budget is rejected, never clamped.
func (s *LengthBasedSelector) SelectWithBudget(budget int) ([]Example, error) {
	if budget < 0 {
		return nil, NewNegativeBudgetError(budget)
	}
	return s.selectPrefix(budget), nil
}

// SelectExamples implements ExampleSelector. The inputs belong to the
// surrounding prompt and do not influence the selection.
func (s *LengthBasedSelector) SelectExamples(_ map[string]string) ([]Example, error) {
	return s.Select(), nil
}

// selectPrefix walks the pool in order and stops at the first overflow.
func (s *LengthBasedSelector) selectPrefix(budget int) []Example {
	n := s.prefixLen(budget)
	selected := make([]Example, n)
	for i := 0; i < n; i++ {
		selected[i] = s.examples[i].Clone()
	}
	return selected
}

func (s *LengthBasedSelector) prefixLen(budget int) int {
	total := 0
	for i, l := range s.lengths {
		if total+l > budget {
			s.logger.Debug(LogMsgSelectionOverflow,
				zap.Int(LogFieldIndex, i),
				zap.Int(LogFieldLength, l),
				zap.Int(LogFieldTotalLength, total),
				zap.Int(LogFieldBudget, budget))
			return i
		}
		total += l
	}
	s.logger.Debug(LogMsgSelectionDone,
		zap.Int(LogFieldSelected, len(s.lengths)),
		zap.Int(LogFieldTotalLength, total))
	return len(s.lengths)
}
