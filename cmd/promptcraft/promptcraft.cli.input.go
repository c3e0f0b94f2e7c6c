package main

import (
	"bytes"
	"errors"
	"io"
	"os"
	"strings"

	"github.com/itsatony/go-promptcraft"
	"github.com/spf13/cobra"
)

// readInput reads content from a file or stdin
func readInput(path string, stdin io.Reader) ([]byte, error) {
	if path == InputSourceStdin {
		return io.ReadAll(stdin)
	}

	return os.ReadFile(path)
}

// parseVars turns repeated key=value flags into template inputs
func parseVars(pairs []string) (map[string]string, error) {
	vars := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, VarSeparator)
		if !ok || strings.TrimSpace(key) == "" {
			return nil, usageError(ErrMsgInvalidVar, errors.New(pair))
		}
		vars[strings.TrimSpace(key)] = unescape(value)
	}
	return vars, nil
}

var escapes = strings.NewReplacer(`\n`, "\n", `\t`, "\t")

// unescape expands \n and \t typed on the command line.
func unescape(s string) string {
	return escapes.Replace(s)
}

// poolFlags are the flags describing an example pool and its budget.
type poolFlags struct {
	examples     string
	template     string
	templateFile string
	budget       int
	unit         string
}

func (p *poolFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&p.examples, FlagExamples, FlagExamplesShort, "", "Examples file, YAML or JSON ('-' for stdin)")
	cmd.Flags().StringVarP(&p.template, FlagTemplate, FlagTemplateShort, FlagDefaultTemplate, "Example template")
	cmd.Flags().StringVar(&p.templateFile, FlagTemplateFile, "", "Read the example template from a file")
	cmd.Flags().IntVarP(&p.budget, FlagBudget, FlagBudgetShort, FlagDefaultBudget, "Length budget for the selected examples")
	cmd.Flags().StringVarP(&p.unit, FlagUnit, FlagUnitShort, FlagDefaultUnit, "Length unit: words, runes, tokens or tiktoken:<model>")
}

// build loads the pool and constructs the selector.
func (p *poolFlags) build(cmd *cobra.Command, st *cliState) (*promptcraft.LengthBasedSelector, *promptcraft.PromptTemplate, error) {
	source := unescape(p.template)
	if p.templateFile != "" {
		if cmd.Flags().Changed(FlagTemplate) {
			return nil, nil, usageError(ErrMsgTemplateConflict, nil)
		}
		data, err := readInput(p.templateFile, st.stdin)
		if err != nil {
			return nil, nil, inputError(ErrMsgReadFileFailed, err)
		}
		source = string(data)
	}

	tmpl, err := promptcraft.NewPromptTemplate(source, promptcraft.WithTemplateLogger(st.logger))
	if err != nil {
		return nil, nil, validationError(ErrMsgTemplateInvalid, err)
	}

	data, err := readInput(p.examples, st.stdin)
	if err != nil {
		return nil, nil, inputError(ErrMsgReadFileFailed, err)
	}
	examples, err := promptcraft.DecodeExamples(bytes.NewReader(data))
	if err != nil {
		return nil, nil, inputError(ErrMsgLoadExamples, err)
	}

	length, err := promptcraft.ParseLengthUnit(p.unit)
	if err != nil {
		return nil, nil, validationError(ErrMsgSelectorInvalid, err)
	}

	sel, err := promptcraft.NewLengthBasedSelector(examples, tmpl.FormatExample, p.budget,
		promptcraft.WithLengthFunc(length),
		promptcraft.WithSelectorLogger(st.logger))
	if err != nil {
		return nil, nil, validationError(ErrMsgSelectorInvalid, err)
	}
	return sel, tmpl, nil
}

// modelFlags select and override the model configuration.
type modelFlags struct {
	config   string
	provider string
	model    string
}

func (m *modelFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&m.config, FlagConfig, FlagConfigShort, "", "Model config file (YAML, JSON or TOML)")
	cmd.Flags().StringVar(&m.provider, FlagProvider, "", "Provider: openai, anthropic, gemini or ollama")
	cmd.Flags().StringVarP(&m.model, FlagModel, FlagModelShort, "", "Model name")
}

// completer loads the model config and builds its client.
func (m *modelFlags) completer(cmd *cobra.Command, st *cliState) (promptcraft.Completer, error) {
	cfg, err := promptcraft.LoadModelConfig(m.config,
		promptcraft.WithOverrides(&promptcraft.ModelConfig{Provider: m.provider, Model: m.model}),
		promptcraft.WithLoadLogger(st.logger))
	if err != nil {
		return nil, validationError(ErrMsgConfigFailed, err)
	}

	completer, err := st.deps.newCompleter(cmd.Context(), cfg, st.logger)
	if err != nil {
		return nil, validationError(ErrMsgConfigFailed, err)
	}
	return completer, nil
}
