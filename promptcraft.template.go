package promptcraft

import (
	"errors"
	"maps"
	"slices"
	"strings"

	"go.uber.org/zap"

	"github.com/itsatony/go-promptcraft/internal"
)

// PromptFormatter turns a set of named values into a final prompt string.
type PromptFormatter interface {
	Format(values map[string]string) (string, error)
}

// TemplateOption configures a PromptTemplate.
type TemplateOption func(*PromptTemplate)

// WithPartials pre-binds values for some placeholders.
// Partials are overridden by values passed to Format.
func WithPartials(partials map[string]string) TemplateOption {
	return func(t *PromptTemplate) {
		maps.Copy(t.partials, partials)
	}
}

// WithTemplateLogger sets the logger for the template.
// Default: nil (no logging)
func WithTemplateLogger(logger *zap.Logger) TemplateOption {
	return func(t *PromptTemplate) {
		if logger != nil {
			t.logger = logger
		}
	}
}

// PromptTemplate is a parsed template with {name} placeholders.
// It is immutable after construction and safe for concurrent use.
type PromptTemplate struct {
	source   string
	segments []internal.Segment
	fields   []string
	partials map[string]string
	logger   *zap.Logger
}

// NewPromptTemplate parses source into a PromptTemplate.
func NewPromptTemplate(source string, opts ...TemplateOption) (*PromptTemplate, error) {
	t := &PromptTemplate{
		source:   source,
		partials: make(map[string]string),
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(t)
	}

	segments, err := internal.NewScanner(source, t.logger).Scan()
	if err != nil {
		var scanErr *internal.ScanError
		if errors.As(err, &scanErr) {
			return nil, NewTemplateParseError(scanErr.Message, scanErr.Position)
		}
		return nil, err
	}
	t.segments = segments
	t.fields = internal.FieldNames(segments)

	t.logger.Debug(LogMsgTemplateParsed, zap.Strings(LogFieldVariables, t.fields))
	return t, nil
}

// MustNewPromptTemplate is like NewPromptTemplate but panics on error.
func MustNewPromptTemplate(source string, opts ...TemplateOption) *PromptTemplate {
	t, err := NewPromptTemplate(source, opts...)
	if err != nil {
		panic(err)
	}
	return t
}

// Source returns the original template text.
func (t *PromptTemplate) Source() string {
	return t.source
}

// Fields returns every placeholder name in first-occurrence order, including partials.
func (t *PromptTemplate) Fields() []string {
	return append([]string(nil), t.fields...)
}

// InputVariables returns the placeholder names a caller must supply.
func (t *PromptTemplate) InputVariables() []string {
	vars := make([]string, 0, len(t.fields))
	for _, f := range t.fields {
		if _, ok := t.partials[f]; !ok {
			vars = append(vars, f)
		}
	}
	return vars
}

// Partial returns a copy of the template with additional pre-bound values.
func (t *PromptTemplate) Partial(values map[string]string) *PromptTemplate {
	clone := *t
	clone.partials = maps.Clone(t.partials)
	maps.Copy(clone.partials, values)
	return &clone
}

// Format substitutes values into the template. Unknown keys are ignored;
// a placeholder without a value yields a MissingFieldError.
func (t *PromptTemplate) Format(values map[string]string) (string, error) {
	var sb strings.Builder
	sb.Grow(len(t.source))
	for _, seg := range t.segments {
		if seg.Kind == internal.SegmentText {
			sb.WriteString(seg.Value)
			continue
		}
		v, ok := values[seg.Value]
		if !ok {
			v, ok = t.partials[seg.Value]
		}
		if !ok {
			return "", NewMissingFieldError(seg.Value, t.availableNames(values))
		}
		sb.WriteString(v)
	}
	return sb.String(), nil
}

// availableNames lists the keys of values and partials, sorted.
func (t *PromptTemplate) availableNames(values map[string]string) []string {
	names := slices.Collect(maps.Keys(values))
	for k := range t.partials {
		if _, ok := values[k]; !ok {
			names = append(names, k)
		}
	}
	slices.Sort(names)
	return names
}

// FormatExample renders an Example. It satisfies RenderFunc.
func (t *PromptTemplate) FormatExample(example Example) (string, error) {
	return t.Format(example)
}
