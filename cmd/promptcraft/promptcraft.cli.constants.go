package main

// Command names
const (
	CmdNameSelect  = "select"
	CmdNameRender  = "render"
	CmdNameAsk     = "ask"
	CmdNameSuggest = "suggest"
	CmdNameVersion = "version"
)

// Flag names - long form
const (
	FlagExamples     = "examples"
	FlagTemplate     = "template"
	FlagTemplateFile = "template-file"
	FlagBudget       = "budget"
	FlagUnit         = "unit"
	FlagFormat       = "format"
	FlagPrefix       = "prefix"
	FlagSuffix       = "suffix"
	FlagSeparator    = "separator"
	FlagVar          = "var"
	FlagConfig       = "config"
	FlagProvider     = "provider"
	FlagModel        = "model"
	FlagWord         = "word"
	FlagContext      = "context"
	FlagVerbose      = "verbose"
)

// Flag names - short form
const (
	FlagExamplesShort = "e"
	FlagTemplateShort = "t"
	FlagBudgetShort   = "b"
	FlagUnitShort     = "u"
	FlagFormatShort   = "F"
	FlagVarShort      = "v"
	FlagConfigShort   = "c"
	FlagModelShort    = "m"
)

// Flag default values
const (
	FlagDefaultFormat    = OutputFormatText
	FlagDefaultBudget    = 100
	FlagDefaultSeparator = "\n"
	FlagDefaultTemplate  = "\nUser: {query}\nAI: {answer}\n"
	FlagDefaultUnit      = "words"
)

// Output formats
const (
	OutputFormatText = "text"
	OutputFormatJSON = "json"
)

// Exit codes
const (
	ExitCodeSuccess         = 0
	ExitCodeError           = 1
	ExitCodeUsageError      = 2
	ExitCodeValidationError = 3
	ExitCodeInputError      = 4
)

// Input source indicators
const (
	InputSourceStdin = "-"
	VarSeparator     = "="
)

// Error messages - ALL must be constants
const (
	ErrMsgInvalidFormat     = "invalid output format"
	ErrMsgInvalidVar        = "variable must be key=value"
	ErrMsgReadFileFailed    = "failed to read file"
	ErrMsgLoadExamples      = "failed to load examples"
	ErrMsgTemplateInvalid   = "invalid template"
	ErrMsgSelectorInvalid   = "invalid selector configuration"
	ErrMsgRenderFailed      = "prompt rendering failed"
	ErrMsgConfigFailed      = "model configuration failed"
	ErrMsgCompletionFailed  = "completion failed"
	ErrMsgParseOutputFailed = "model output rejected"
	ErrMsgTemplateConflict  = "use either --template or --template-file"
)

// Help text
const (
	CLIName        = "promptcraft"
	CLIDescription = "Few-shot prompt construction and completion CLI"
	CLILong        = `promptcraft builds few-shot prompts from an example pool and a length budget.

Examples are selected greedily in pool order: selection stops at the first
example whose rendered length would exceed the budget.

Commands:
  select   Show which examples fit a budget (offline)
  render   Render a few-shot prompt (offline)
  ask      Send a prompt to a model
  suggest  Ask a model for substitute words, validated as structured output
  version  Show version information`

	HelpSelectExample = `  promptcraft select -e examples.yaml -b 100
  promptcraft select -e examples.yaml -b 40 --unit runes -F json
  cat examples.yaml | promptcraft select -e - -b 20`

	HelpRenderExample = `  promptcraft render -e examples.yaml -b 100 \
      --prefix "Here are some examples:" \
      --suffix "User: {query}\nAI: " \
      -v query="Who invented the telephone?"`

	HelpAskExample = `  promptcraft ask -t "What are some musical genres?\nAnswer: "
  promptcraft ask -t "Tell me about {genre}." -v genre=jazz --provider anthropic`

	HelpSuggestExample = `  promptcraft suggest --word behaviour --context "The behaviour of the students was disruptive."`
)

// Output text
const (
	SelectTextItem      = "[%d] length=%d\n%s\n"
	SelectTextSummary   = "selected %d of %d examples (%d/%d %s)\n"
	VersionTextTemplate = "promptcraft version %s\nCommit: %s\nBranch: %s\nBuilt: %s\nGo: %s"
	VersionUnknown      = "unknown"
	VersionsFile        = "versions.yaml"
)

// Format string constants
const (
	FmtError          = "%s\n"
	FmtErrorWithCause = "%s: %v\n"
	FmtNewline        = "\n"
)

// File permission constant
const (
	FilePermissions = 0o644
)

// Prompt used by the suggest command
const (
	SuggestTemplate = `
Offer a list of suggestions to substitue the specified target_word based the presented context.
{format_instructions}
target_word={target_word}
context={context}
`
	SuggestFieldWords       = "words"
	SuggestFieldDescription = "list of substitute words based on context"
	SuggestSchemaName       = "Suggestions"
	SuggestVarTargetWord    = "target_word"
	SuggestVarContext       = "context"
)
