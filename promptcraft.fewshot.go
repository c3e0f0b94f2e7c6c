package promptcraft

import (
	"slices"
	"strings"

	"go.uber.org/zap"
)

// FewShotConfig describes a few-shot prompt. Exactly one of Examples or
// Selector must be set.
type FewShotConfig struct {
	// Prefix is formatted with the caller's inputs and placed before the examples.
	Prefix string
	// Suffix is formatted with the caller's inputs and placed after the examples.
	Suffix string
	// ExampleTemplate renders each example.
	ExampleTemplate *PromptTemplate
	// Examples is a fixed list used as-is.
	Examples []Example
	// Selector picks examples per call.
	Selector ExampleSelector
	// Separator joins prefix, examples and suffix. Default: "\n\n"
	Separator string
	// Logger is optional.
	Logger *zap.Logger
}

// FewShotPromptTemplate assembles prefix, demonstration examples and suffix.
type FewShotPromptTemplate struct {
	prefix    *PromptTemplate
	suffix    *PromptTemplate
	example   *PromptTemplate
	examples  []Example
	selector  ExampleSelector
	separator string
	logger    *zap.Logger
}

// NewFewShotPromptTemplate validates cfg and parses the prefix and suffix.
func NewFewShotPromptTemplate(cfg FewShotConfig) (*FewShotPromptTemplate, error) {
	if cfg.ExampleTemplate == nil {
		return nil, NewConfigError(ErrMsgFewShotNoTemplate, "example_template")
	}
	if (cfg.Examples == nil) == (cfg.Selector == nil) {
		return nil, NewConfigError(ErrMsgFewShotSource, "examples")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	prefix, err := NewPromptTemplate(cfg.Prefix, WithTemplateLogger(logger))
	if err != nil {
		return nil, err
	}
	suffix, err := NewPromptTemplate(cfg.Suffix, WithTemplateLogger(logger))
	if err != nil {
		return nil, err
	}

	sep := cfg.Separator
	if sep == "" {
		sep = DefaultExampleSeparator
	}

	return &FewShotPromptTemplate{
		prefix:    prefix,
		suffix:    suffix,
		example:   cfg.ExampleTemplate,
		examples:  cloneExamples(cfg.Examples),
		selector:  cfg.Selector,
		separator: sep,
		logger:    logger,
	}, nil
}

// InputVariables returns the names the prefix and suffix need, in order.
func (f *FewShotPromptTemplate) InputVariables() []string {
	vars := f.prefix.InputVariables()
	for _, v := range f.suffix.InputVariables() {
		if !slices.Contains(vars, v) {
			vars = append(vars, v)
		}
	}
	return vars
}

// Examples returns the examples that would be used for inputs.
func (f *FewShotPromptTemplate) Examples(inputs map[string]string) ([]Example, error) {
	if f.selector != nil {
		return f.selector.SelectExamples(inputs)
	}
	return cloneExamples(f.examples), nil
}

// Format builds the final prompt. Empty pieces are skipped.
func (f *FewShotPromptTemplate) Format(inputs map[string]string) (string, error) {
	examples, err := f.Examples(inputs)
	if err != nil {
		return "", err
	}

	pieces := make([]string, 0, len(examples)+2)

	prefix, err := f.prefix.Format(inputs)
	if err != nil {
		return "", err
	}
	pieces = appendNonEmpty(pieces, prefix)

	for _, ex := range examples {
		text, err := f.example.FormatExample(ex)
		if err != nil {
			return "", err
		}
		pieces = appendNonEmpty(pieces, text)
	}

	suffix, err := f.suffix.Format(inputs)
	if err != nil {
		return "", err
	}
	pieces = appendNonEmpty(pieces, suffix)

	out := strings.Join(pieces, f.separator)
	f.logger.Debug(LogMsgFewShotFormatted,
		zap.Int(LogFieldSelected, len(examples)),
		zap.Int(LogFieldPromptLength, len(out)))
	return out, nil
}

func appendNonEmpty(pieces []string, s string) []string {
	if s == "" {
		return pieces
	}
	return append(pieces, s)
}
