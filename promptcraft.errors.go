package promptcraft

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/itsatony/go-cuserr"

	"github.com/itsatony/go-promptcraft/internal"
)

// Error message constants - ALL error messages must be constants (NO MAGIC STRINGS)
const (
	// Configuration errors
	ErrMsgNegativeBudget      = "budget must not be negative"
	ErrMsgNilRenderer         = "example renderer is required"
	ErrMsgNilLengthFunc       = "length function is required"
	ErrMsgRenderFailed        = "example rendering failed"
	ErrMsgInvalidLengthUnit   = "unknown length unit"
	ErrMsgTiktokenUnavailable = "tiktoken encoding unavailable"
	ErrMsgFewShotNoTemplate   = "few-shot prompt requires an example template"
	ErrMsgFewShotSource       = "few-shot prompt requires exactly one of examples or selector"
	ErrMsgNilPrompt           = "chain requires a prompt"
	ErrMsgNilCompleter        = "chain requires a completer"
	ErrMsgExamplesLoad        = "failed to load examples"
	ErrMsgExamplesEmpty       = "example document is empty"
	ErrMsgExamplesUnknownKey  = "unknown top-level key in example document"
	ErrMsgExamplesNoList      = "example document has no examples list"
	ErrMsgExamplesNotList     = "examples must be a list of mappings"

	// Template errors
	ErrMsgTemplateParse = "prompt template parsing failed"
	ErrMsgMissingField  = "missing value for template field"

	// Output parsing errors
	ErrMsgSchemaValidation    = "output failed schema validation"
	ErrMsgOutputParse         = "failed to parse model output"
	ErrMsgOutputDecode        = "failed to decode model output into target type"
	ErrMsgRequiredField       = "required field missing"
	ErrMsgLeadingDigit        = "the word can not start with numbers"
	ErrMsgEmptyValue          = "value must not be empty"
	ErrMsgUnexpectedValueType = "unexpected value type"
	ErrMsgInvalidOutputSchema = "invalid output schema"
	ErrMsgSchemaMissingType   = "schema missing type"
	ErrMsgSchemaInvalidType   = "schema type must be a string"
	ErrMsgSchemaMissingProps  = "object schema has no properties"
	ErrMsgSchemaInvalidProps  = "schema properties must be an object"
	ErrMsgSchemaInvalidReq    = "schema required must be an array"
	ErrMsgSchemaUnknownReq    = "required field not declared in properties"
	ErrMsgSchemaUnknownType   = "unknown schema type"
	ErrMsgSchemaNoAdditional  = "additionalProperties: false recommended"
	ErrMsgValidatorField      = "validator references an undeclared field"
	ErrMsgValidatorNoCheck    = "validator has no check function"
	ErrMsgDuplicateField      = "duplicate output field"
	ErrMsgOutputFieldName     = "output field name is required"

	// Model configuration errors
	ErrMsgUnknownProvider       = "unknown provider"
	ErrMsgTemperatureOutOfRange = "temperature out of range"
	ErrMsgTopPOutOfRange        = "top_p must be between 0.0 and 1.0"
	ErrMsgMaxTokensInvalid      = "max_tokens must be greater than 0"
	ErrMsgConfigLoad            = "failed to load model config"
	ErrMsgMissingAPIKey         = "api key not configured"

	// Provider errors
	ErrMsgCompletionFailed = "completion request failed"
	ErrMsgEmptyCompletion  = "provider returned an empty completion"
	ErrMsgClientInit       = "failed to initialize provider client"
)

// FmtTemperatureRange renders message, min, max and provider
const FmtTemperatureRange = "%s: must be between %.1f and %.1f for %s"

// Error code constants for categorization
const (
	ErrCodeConfig   = "PROMPTCRAFT_CONFIG"
	ErrCodeTemplate = "PROMPTCRAFT_TEMPLATE"
	ErrCodeSchema   = "PROMPTCRAFT_SCHEMA"
	ErrCodeOutput   = "PROMPTCRAFT_OUTPUT"
	ErrCodeProvider = "PROMPTCRAFT_PROVIDER"
)

// Position represents a location in a template source
type Position = internal.Position

// NewConfigError creates a configuration error for an invalid option value
func NewConfigError(msg string, option string) error {
	return cuserr.NewValidationError(ErrCodeConfig, msg).
		WithMetadata(MetaKeyOption, option)
}

// NewNegativeBudgetError reports a budget below zero. Budgets are never clamped.
func NewNegativeBudgetError(budget int) error {
	return cuserr.NewValidationError(ErrCodeConfig, ErrMsgNegativeBudget).
		WithMetadata(MetaKeyBudget, strconv.Itoa(budget))
}

// NewRenderError wraps a renderer failure for the pool entry at index
func NewRenderError(index int, cause error) error {
	return cuserr.WrapStdError(cause, ErrCodeConfig, ErrMsgRenderFailed).
		WithMetadata(MetaKeyIndex, strconv.Itoa(index))
}

// NewExamplesLoadError wraps a failure to read an example pool file
func NewExamplesLoadError(path string, cause error) error {
	return cuserr.WrapStdError(cause, ErrCodeConfig, ErrMsgExamplesLoad).
		WithMetadata(MetaKeyPath, path)
}

// NewExamplesShapeError reports an example document that is neither a list
// nor an "examples" mapping. key is the offending key, if any.
func NewExamplesShapeError(msg, key string) error {
	if key != "" && key != ExamplesKey {
		msg += internal.FormatSuggestions(internal.ClosestMatches(key, []string{ExamplesKey}, internal.DefaultMaxSuggestions))
	}
	err := cuserr.NewValidationError(ErrCodeConfig, msg)
	if key != "" {
		err = err.WithMetadata(MetaKeyField, key)
	}
	return err
}

// NewInvalidLengthUnitError reports an unknown length unit name
func NewInvalidLengthUnitError(unit string, cause error) error {
	var err *cuserr.CustomError
	if cause != nil {
		err = cuserr.WrapStdError(cause, ErrCodeConfig, ErrMsgTiktokenUnavailable)
	} else {
		msg := ErrMsgInvalidLengthUnit + internal.FormatSuggestions(
			internal.ClosestMatches(unit, lengthUnitNames, internal.DefaultMaxSuggestions))
		err = cuserr.NewValidationError(ErrCodeConfig, msg)
	}
	return err.WithMetadata(MetaKeyUnit, unit)
}

// NewTemplateParseError creates a template parse error with position context
func NewTemplateParseError(msg string, pos Position) error {
	return cuserr.NewValidationError(ErrCodeTemplate, ErrMsgTemplateParse+": "+msg).
		WithMetadata(MetaKeyLine, strconv.Itoa(pos.Line)).
		WithMetadata(MetaKeyColumn, strconv.Itoa(pos.Column)).
		WithMetadata(MetaKeyOffset, strconv.Itoa(pos.Offset)).
		WithMetadata(MetaKeyReason, msg)
}

// MissingFieldError is returned when a template references a name that has no value.
type MissingFieldError struct {
	Field string
	// Suggestions are available names close to Field
	Suggestions []string
	err         *cuserr.CustomError
}

// NewMissingFieldError creates a MissingFieldError for field. available are
// the names that did have values; similar ones become suggestions.
func NewMissingFieldError(field string, available []string) error {
	suggestions := internal.ClosestMatches(field, available, internal.DefaultMaxSuggestions)
	err := cuserr.NewValidationError(ErrCodeTemplate, ErrMsgMissingField).
		WithMetadata(MetaKeyField, field)
	if len(suggestions) > 0 {
		err = err.WithMetadata(MetaKeySuggestions, strings.Join(suggestions, ","))
	}
	return &MissingFieldError{Field: field, Suggestions: suggestions, err: err}
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("%s: %q", ErrMsgMissingField, e.Field) + internal.FormatSuggestions(e.Suggestions)
}

// Unwrap exposes the underlying cuserr error
func (e *MissingFieldError) Unwrap() error {
	return e.err
}

// SchemaValidationError carries the field and value that failed an output validator.
type SchemaValidationError struct {
	Field  string
	Value  string
	Reason string
	err    *cuserr.CustomError
}

// NewSchemaValidationError creates a SchemaValidationError
func NewSchemaValidationError(field, value, reason string) error {
	return &SchemaValidationError{
		Field:  field,
		Value:  value,
		Reason: reason,
		err: cuserr.NewValidationError(ErrCodeSchema, ErrMsgSchemaValidation).
			WithMetadata(MetaKeyField, field).
			WithMetadata(MetaKeyValue, value).
			WithMetadata(MetaKeyReason, reason),
	}
}

func (e *SchemaValidationError) Error() string {
	return fmt.Sprintf("%s: field %q value %q: %s", ErrMsgSchemaValidation, e.Field, e.Value, e.Reason)
}

// Unwrap exposes the underlying cuserr error
func (e *SchemaValidationError) Unwrap() error {
	return e.err
}

// NewOutputParseError wraps a decoding failure of raw model output
func NewOutputParseError(msg string, cause error) error {
	if cause == nil {
		return cuserr.NewValidationError(ErrCodeOutput, msg)
	}
	return cuserr.WrapStdError(cause, ErrCodeOutput, msg)
}

// NewInvalidOutputSchemaError reports a schema that fails structural checks
func NewInvalidOutputSchemaError(reason string) error {
	return cuserr.NewValidationError(ErrCodeSchema, ErrMsgInvalidOutputSchema).
		WithMetadata(MetaKeyReason, reason)
}

// NewModelConfigError creates a model configuration validation error
func NewModelConfigError(msg, key string) error {
	return cuserr.NewValidationError(ErrCodeConfig, msg).
		WithMetadata(MetaKeyOption, key)
}

// NewTemperatureRangeError reports a temperature outside what provider accepts
func NewTemperatureRangeError(provider string, maxTemp float64) error {
	msg := fmt.Sprintf(FmtTemperatureRange, ErrMsgTemperatureOutOfRange, TemperatureMin, maxTemp, provider)
	return cuserr.NewValidationError(ErrCodeConfig, msg).
		WithMetadata(MetaKeyOption, ConfigKeyTemperature).
		WithMetadata(MetaKeyProvider, provider)
}

// NewConfigLoadError wraps a failure to read or decode a model config
func NewConfigLoadError(path string, cause error) error {
	return cuserr.WrapStdError(cause, ErrCodeConfig, ErrMsgConfigLoad).
		WithMetadata(MetaKeyPath, path)
}

// NewUnknownProviderError reports a provider with no client implementation
func NewUnknownProviderError(provider string) error {
	msg := ErrMsgUnknownProvider + internal.FormatSuggestions(
		internal.ClosestMatches(provider, KnownProviders, internal.DefaultMaxSuggestions))
	return cuserr.NewNotFoundError(MetaKeyProvider, msg).
		WithMetadata(MetaKeyProvider, provider)
}

// NewProviderError wraps a failed completion request
func NewProviderError(provider, model string, cause error) error {
	return cuserr.WrapStdError(cause, ErrCodeProvider, ErrMsgCompletionFailed).
		WithMetadata(MetaKeyProvider, provider).
		WithMetadata(MetaKeyModel, model)
}

// NewEmptyCompletionError reports a response without any text
func NewEmptyCompletionError(provider, model string) error {
	return cuserr.NewValidationError(ErrCodeProvider, ErrMsgEmptyCompletion).
		WithMetadata(MetaKeyProvider, provider).
		WithMetadata(MetaKeyModel, model)
}

// NewProviderStatusError reports a non-2xx HTTP status from a provider
func NewProviderStatusError(provider, model string, status int, body string) error {
	return cuserr.NewValidationError(ErrCodeProvider, ErrMsgCompletionFailed+": "+body).
		WithMetadata(MetaKeyProvider, provider).
		WithMetadata(MetaKeyModel, model).
		WithMetadata(MetaKeyStatus, strconv.Itoa(status))
}

// NewClientInitError wraps a failure to build a provider SDK client
func NewClientInitError(provider string, cause error) error {
	return cuserr.WrapStdError(cause, ErrCodeProvider, ErrMsgClientInit).
		WithMetadata(MetaKeyProvider, provider)
}

// NewMissingAPIKeyError reports a provider configured without credentials
func NewMissingAPIKeyError(provider string) error {
	return cuserr.NewValidationError(ErrCodeConfig, ErrMsgMissingAPIKey).
		WithMetadata(MetaKeyProvider, provider)
}
