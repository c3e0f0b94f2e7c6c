package promptcraft

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"
	"unicode"
)

// FieldSpec declares one field of a structured model response.
type FieldSpec struct {
	Name        string
	Description string
	// Type is a JSON schema type. Default: string
	Type string
	// Items is the element type when Type is array. Default: string
	Items string
}

// Validator is a declarative rule run against one decoded field.
// Check receives the value as decoded from JSON (string, float64, bool,
// []any or map[string]any).
type Validator struct {
	Field       string
	Description string
	Check       func(value any) error
}

// NoLeadingDigit rejects a string, or any string element of a list, whose
// first character is a digit.
func NoLeadingDigit(field string) Validator {
	return Validator{
		Field:       field,
		Description: "values must not start with a digit",
		Check: func(value any) error {
			for _, s := range stringValues(value) {
				r := []rune(s)
				if len(r) > 0 && unicode.IsDigit(r[0]) {
					return NewSchemaValidationError(field, s, ErrMsgLeadingDigit)
				}
			}
			return nil
		},
	}
}

// NotEmpty rejects empty strings, empty lists and empty string elements.
func NotEmpty(field string) Validator {
	return Validator{
		Field:       field,
		Description: "values must not be empty",
		Check: func(value any) error {
			switch v := value.(type) {
			case string:
				if strings.TrimSpace(v) == "" {
					return NewSchemaValidationError(field, v, ErrMsgEmptyValue)
				}
			case []any:
				if len(v) == 0 {
					return NewSchemaValidationError(field, "[]", ErrMsgEmptyValue)
				}
				for _, s := range stringValues(v) {
					if strings.TrimSpace(s) == "" {
						return NewSchemaValidationError(field, s, ErrMsgEmptyValue)
					}
				}
			}
			return nil
		},
	}
}

func stringValues(value any) []string {
	switch v := value.(type) {
	case string:
		return []string{v}
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	case []string:
		return v
	default:
		return nil
	}
}

// OutputSchema describes the JSON object a model is asked to return.
// Every field is required.
type OutputSchema struct {
	Name       string
	Fields     []FieldSpec
	Validators []Validator
}

// JSONSchema renders the schema as a closed JSON schema object: extra keys in
// a reply are not allowed.
func (s OutputSchema) JSONSchema() map[string]any {
	props := make(map[string]any, len(s.Fields))
	required := make([]string, 0, len(s.Fields))
	for _, f := range s.Fields {
		prop := map[string]any{
			SchemaKeyType:  fieldType(f.Type),
			SchemaKeyTitle: fieldTitle(f.Name),
		}
		if f.Description != "" {
			prop[SchemaKeyDescription] = f.Description
		}
		if prop[SchemaKeyType] == SchemaTypeArray {
			prop[SchemaKeyItems] = map[string]any{SchemaKeyType: fieldType(f.Items)}
		}
		props[f.Name] = prop
		required = append(required, f.Name)
	}

	name := s.Name
	if name == "" {
		name = DefaultOutputSchemaName
	}
	return StrictJSONSchema(map[string]any{
		SchemaKeyTitle:      name,
		SchemaKeyType:       SchemaTypeObject,
		SchemaKeyProperties: props,
		SchemaKeyRequired:   required,
	})
}

// Validate checks the schema and its validators.
func (s OutputSchema) Validate() error {
	seen := make(map[string]bool, len(s.Fields))
	for _, f := range s.Fields {
		if f.Name == "" {
			return NewInvalidOutputSchemaError(ErrMsgOutputFieldName)
		}
		if seen[f.Name] {
			return NewInvalidOutputSchemaError(ErrMsgDuplicateField + ": " + f.Name)
		}
		seen[f.Name] = true
	}

	if report := CheckJSONSchema(s.JSONSchema()); !report.OK() {
		return NewInvalidOutputSchemaError(strings.Join(report.Problems, "; "))
	}

	for _, v := range s.Validators {
		if !seen[v.Field] {
			return NewInvalidOutputSchemaError(ErrMsgValidatorField + ": " + v.Field)
		}
		if v.Check == nil {
			return NewInvalidOutputSchemaError(ErrMsgValidatorNoCheck + ": " + v.Field)
		}
	}
	return nil
}

func fieldType(t string) string {
	if t == "" {
		return SchemaTypeString
	}
	return t
}

func fieldTitle(name string) string {
	words := strings.FieldsFunc(name, func(r rune) bool { return r == '_' || r == '-' })
	for i, w := range words {
		r := []rune(w)
		r[0] = unicode.ToUpper(r[0])
		words[i] = string(r)
	}
	return strings.Join(words, " ")
}

// OutputParser turns raw model text into a typed value.
type OutputParser[T any] interface {
	FormatInstructions() string
	Parse(text string) (T, error)
}

// StructuredOutputParser decodes a JSON model response into T after checking
// it against an OutputSchema.
type StructuredOutputParser[T any] struct {
	schema       OutputSchema
	instructions string
}

// NewStructuredOutputParser validates schema and prepares its format instructions.
func NewStructuredOutputParser[T any](schema OutputSchema) (*StructuredOutputParser[T], error) {
	if err := schema.Validate(); err != nil {
		return nil, err
	}

	raw, err := json.Marshal(schema.JSONSchema())
	if err != nil {
		return nil, NewOutputParseError(ErrMsgInvalidOutputSchema, err)
	}

	return &StructuredOutputParser[T]{
		schema:       schema,
		instructions: fmt.Sprintf(FormatInstructionsJSON, raw),
	}, nil
}

// Schema returns the parser's schema.
func (p *StructuredOutputParser[T]) Schema() OutputSchema {
	return p.schema
}

// FormatInstructions is the text to embed in a prompt, usually through the
// format_instructions partial.
func (p *StructuredOutputParser[T]) FormatInstructions() string {
	return p.instructions
}

// Parse extracts the JSON object from text, checks field presence and types,
// runs the validators and decodes the result into T.
func (p *StructuredOutputParser[T]) Parse(text string) (T, error) {
	var zero T

	payload := extractJSON(text)
	var obj map[string]any
	if err := json.Unmarshal([]byte(payload), &obj); err != nil {
		return zero, NewOutputParseError(ErrMsgOutputParse, err)
	}
	if obj == nil {
		return zero, NewOutputParseError(ErrMsgOutputParse, nil)
	}

	for _, f := range p.schema.Fields {
		value, ok := obj[f.Name]
		if !ok || value == nil {
			return zero, NewSchemaValidationError(f.Name, "", ErrMsgRequiredField)
		}
		if !matchesType(value, fieldType(f.Type), f.Items) {
			return zero, NewSchemaValidationError(f.Name, fmt.Sprint(value), ErrMsgUnexpectedValueType)
		}
	}

	for _, v := range p.schema.Validators {
		value := obj[v.Field]
		if err := v.Check(value); err != nil {
			var sve *SchemaValidationError
			if errors.As(err, &sve) {
				return zero, err
			}
			return zero, NewSchemaValidationError(v.Field, fmt.Sprint(value), err.Error())
		}
	}

	var out T
	if err := json.Unmarshal([]byte(payload), &out); err != nil {
		return zero, NewOutputParseError(ErrMsgOutputDecode, err)
	}
	return out, nil
}

// extractJSON returns the content of the first fenced block if present,
// otherwise the span from the first '{' to the last '}'. The fence may sit on
// one line with its info string.
func extractJSON(text string) string {
	text = strings.TrimSpace(text)

	if start := strings.Index(text, CodeFenceMarker); start >= 0 {
		body := text[start+len(CodeFenceMarker):]
		if end := strings.Index(body, CodeFenceMarker); end >= 0 {
			body = body[:end]
		}
		// drop the info string (e.g. "json") after the opening marker
		if nl := strings.IndexByte(body, '\n'); nl >= 0 {
			if strings.TrimLeftFunc(strings.TrimSpace(body[:nl]), isInfoStringRune) == "" {
				body = body[nl+1:]
			}
		} else {
			body = strings.TrimLeftFunc(body, isInfoStringRune)
		}
		return strings.TrimSpace(body)
	}

	first := strings.IndexByte(text, '{')
	last := strings.LastIndexByte(text, '}')
	if first >= 0 && last > first {
		return text[first : last+1]
	}
	return text
}

func isInfoStringRune(r rune) bool {
	return r == '_' || r == '-' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

func matchesType(value any, typ, items string) bool {
	switch typ {
	case SchemaTypeString:
		_, ok := value.(string)
		return ok
	case SchemaTypeNumber:
		_, ok := value.(float64)
		return ok
	case SchemaTypeInteger:
		f, ok := value.(float64)
		return ok && f == math.Trunc(f)
	case SchemaTypeBoolean:
		_, ok := value.(bool)
		return ok
	case SchemaTypeObject:
		_, ok := value.(map[string]any)
		return ok
	case SchemaTypeArray:
		list, ok := value.([]any)
		if !ok {
			return false
		}
		itemType := fieldType(items)
		for _, item := range list {
			if !matchesType(item, itemType, "") {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// CommaSeparatedListParser reads a comma separated list from model output.
type CommaSeparatedListParser struct{}

// FormatInstructions asks the model for a comma separated list.
func (CommaSeparatedListParser) FormatInstructions() string {
	return FormatInstructionsList
}

// Parse splits text on commas, trims each item and drops empty ones.
func (CommaSeparatedListParser) Parse(text string) ([]string, error) {
	parts := strings.Split(strings.TrimSpace(text), ListSeparator)
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out, nil
}
