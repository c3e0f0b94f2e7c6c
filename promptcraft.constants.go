package promptcraft

import "time"

// Placeholder syntax for prompt templates
const (
	PlaceholderOpen   = "{"
	PlaceholderClose  = "}"
	EscapedOpenBrace  = "{{"
	EscapedCloseBrace = "}}"
)

// Few-shot defaults
const (
	DefaultExampleSeparator = "\n\n"
	DefaultMaxLength        = 2048
)

// Example field names used by the reference prompts
const (
	FieldQuery              = "query"
	FieldAnswer             = "answer"
	FieldFormatInstructions = "format_instructions"
)

// ExamplesKey is the only top-level key of a mapping-shaped example document
const ExamplesKey = "examples"

// Length unit names accepted by ParseLengthUnit
const (
	LengthUnitWords          = "words"
	LengthUnitRunes          = "runes"
	LengthUnitTokens         = "tokens"
	LengthUnitTiktokenPrefix = "tiktoken:"
	DefaultTiktokenEncoding  = "cl100k_base"
)

// Provider identifiers
const (
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
	ProviderGemini    = "gemini"
	ProviderOllama    = "ollama"
)

// Default models per provider
const (
	DefaultOpenAIModel    = "gpt-4o-mini"
	DefaultAnthropicModel = "claude-3-5-haiku-latest"
	DefaultGeminiModel    = "gemini-2.0-flash"
	DefaultOllamaModel    = "llama3.2"
)

// Client defaults
const (
	DefaultProvider         = ProviderOpenAI
	DefaultAnthropicTokens  = 1024
	DefaultOllamaBaseURL    = "http://127.0.0.1:11434"
	OllamaGenerateEndpoint  = "/api/generate"
	DefaultRequestTimeout   = 60 * time.Second
	TemperatureMin          = 0.0
	TemperatureMax          = 2.0
	TemperatureMaxAnthropic = 1.0
	TopPMin                 = 0.0
	TopPMax                 = 1.0
	AnthropicTextBlockType  = "text"
	ContentTypeJSON         = "application/json"
	HeaderContentType       = "Content-Type"
	DefaultOutputSchemaName = "response"
)

// Ollama generate options
const (
	OllamaOptionTemperature = "temperature"
	OllamaOptionTopP        = "top_p"
	OllamaOptionNumPredict  = "num_predict"
)

// Environment variables
const (
	EnvPrefix          = "PROMPTCRAFT"
	EnvOpenAIAPIKey    = "OPENAI_API_KEY"
	EnvOpenAIBaseURL   = "OPENAI_BASE_URL"
	EnvAnthropicAPIKey = "ANTHROPIC_API_KEY"
	EnvGeminiAPIKey    = "GEMINI_API_KEY"
	EnvOllamaHost      = "OLLAMA_HOST"
	DotEnvFile         = ".env"
)

// Config keys (viper / mapstructure)
const (
	ConfigKeyProvider    = "provider"
	ConfigKeyModel       = "model"
	ConfigKeyTemperature = "temperature"
	ConfigKeyMaxTokens   = "max_tokens"
	ConfigKeyTopP        = "top_p"
	ConfigKeyBaseURL     = "base_url"
	ConfigKeyAPIKey      = "api_key"
	ConfigKeyTimeout     = "timeout"
)

// JSON schema keys and types
const (
	SchemaKeyType                 = "type"
	SchemaKeyProperties           = "properties"
	SchemaKeyRequired             = "required"
	SchemaKeyItems                = "items"
	SchemaKeyDescription          = "description"
	SchemaKeyTitle                = "title"
	SchemaKeyAdditionalProperties = "additionalProperties"

	SchemaTypeObject  = "object"
	SchemaTypeArray   = "array"
	SchemaTypeString  = "string"
	SchemaTypeNumber  = "number"
	SchemaTypeInteger = "integer"
	SchemaTypeBoolean = "boolean"
)

// Output parsing
const (
	CodeFenceMarker     = "```"
	CodeFenceJSONMarker = "```json"
	ListSeparator       = ","

	FormatInstructionsJSON = "The output should be formatted as a JSON instance that conforms to the JSON schema below.\n\n" +
		"As an example, for the schema {\"properties\": {\"foo\": {\"title\": \"Foo\", \"description\": \"a list of strings\", \"type\": \"array\", \"items\": {\"type\": \"string\"}}}, \"required\": [\"foo\"]}\n" +
		"the object {\"foo\": [\"bar\", \"baz\"]} is a well-formatted instance of the schema. The object {\"properties\": {\"foo\": [\"bar\", \"baz\"]}} is not well-formatted.\n\n" +
		"Here is the output schema:\n```\n%s\n```"
	FormatInstructionsList = "Your response should be a list of comma separated values, eg: `foo, bar, baz`"
)

// Metadata keys for cuserr.WithMetadata
const (
	MetaKeyLine        = "line"
	MetaKeyColumn      = "column"
	MetaKeyOffset      = "offset"
	MetaKeyField       = "field"
	MetaKeyValue       = "value"
	MetaKeyReason      = "reason"
	MetaKeyBudget      = "budget"
	MetaKeyIndex       = "index"
	MetaKeyProvider    = "provider"
	MetaKeyModel       = "model"
	MetaKeyStatus      = "status"
	MetaKeyUnit        = "unit"
	MetaKeyOption      = "option"
	MetaKeyValidator   = "validator"
	MetaKeyPath        = "path"
	MetaKeySuggestions = "suggestions"
)

// Log messages
const (
	LogMsgSelectorCreated   = "example selector created"
	LogMsgSelectionDone     = "examples selected"
	LogMsgSelectionOverflow = "selection stopped at budget overflow"
	LogMsgTemplateParsed    = "prompt template parsed"
	LogMsgFewShotFormatted  = "few-shot prompt formatted"
	LogMsgChainRun          = "running chain"
	LogMsgChainDone         = "chain completed"
	LogMsgCompletionRequest = "requesting completion"
	LogMsgCompletionDone    = "completion received"
	LogMsgCompletionFailed  = "completion failed"
	LogMsgOutputParsed      = "structured output parsed"
	LogMsgDotEnvSkipped     = "no .env file loaded"
	LogMsgConfigLoaded      = "model config loaded"
)

// Log field names
const (
	LogFieldPoolSize         = "pool_size"
	LogFieldBudget           = "budget"
	LogFieldSelected         = "selected"
	LogFieldTotalLength      = "total_length"
	LogFieldIndex            = "index"
	LogFieldLength           = "length"
	LogFieldVariables        = "variables"
	LogFieldPromptLength     = "prompt_length"
	LogFieldProvider         = "provider"
	LogFieldModel            = "model"
	LogFieldPromptTokens     = "prompt_tokens"
	LogFieldCompletionTokens = "completion_tokens"
	LogFieldFields           = "fields"
	LogFieldPath             = "path"
	LogFieldDuration         = "duration"
)
