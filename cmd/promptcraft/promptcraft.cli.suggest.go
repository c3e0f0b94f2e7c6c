package main

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/itsatony/go-promptcraft"
	"github.com/spf13/cobra"
)

// suggestions is the structured reply of the suggest command
type suggestions struct {
	Words []string `json:"words"`
}

func suggestionsSchema() promptcraft.OutputSchema {
	return promptcraft.OutputSchema{
		Name: SuggestSchemaName,
		Fields: []promptcraft.FieldSpec{{
			Name:        SuggestFieldWords,
			Description: SuggestFieldDescription,
			Type:        promptcraft.SchemaTypeArray,
			Items:       promptcraft.SchemaTypeString,
		}},
		Validators: []promptcraft.Validator{
			promptcraft.NoLeadingDigit(SuggestFieldWords),
			promptcraft.NotEmpty(SuggestFieldWords),
		},
	}
}

func newSuggestCmd(st *cliState) *cobra.Command {
	var (
		model   modelFlags
		word    string
		context string
		format  string
	)

	cmd := &cobra.Command{
		Use:     CmdNameSuggest,
		Short:   "Suggest substitute words for a word in context",
		Example: HelpSuggestExample,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkFormat(format); err != nil {
				return err
			}

			parser, err := promptcraft.NewStructuredOutputParser[suggestions](suggestionsSchema())
			if err != nil {
				return runtimeError(ErrMsgTemplateInvalid, err)
			}
			prompt, err := promptcraft.NewPromptTemplate(SuggestTemplate,
				promptcraft.WithPartials(map[string]string{promptcraft.FieldFormatInstructions: parser.FormatInstructions()}),
				promptcraft.WithTemplateLogger(st.logger))
			if err != nil {
				return runtimeError(ErrMsgTemplateInvalid, err)
			}

			completer, err := model.completer(cmd, st)
			if err != nil {
				return err
			}
			chain, err := promptcraft.NewChain(prompt, completer, promptcraft.WithChainLogger(st.logger))
			if err != nil {
				return runtimeError(ErrMsgCompletionFailed, err)
			}

			result, err := promptcraft.RunStructured(cmd.Context(), chain, parser, map[string]string{
				SuggestVarTargetWord: word,
				SuggestVarContext:    context,
			})
			if err != nil {
				return suggestError(err)
			}

			if format == OutputFormatJSON {
				jsonBytes, err := json.MarshalIndent(result, "", "  ")
				if err != nil {
					return runtimeError(ErrMsgCompletionFailed, err)
				}
				fmt.Fprintln(st.stdout, string(jsonBytes))
				return nil
			}
			for _, w := range result.Words {
				fmt.Fprintln(st.stdout, w)
			}
			return nil
		},
	}

	model.register(cmd)
	cmd.Flags().StringVar(&word, FlagWord, "", "Word to replace")
	cmd.Flags().StringVar(&context, FlagContext, "", "Sentence the word appears in")
	cmd.Flags().StringVarP(&format, FlagFormat, FlagFormatShort, FlagDefaultFormat, "Output format: text or json")
	_ = cmd.MarkFlagRequired(FlagWord)
	_ = cmd.MarkFlagRequired(FlagContext)
	return cmd
}

// suggestError separates rejected model output from transport failures.
func suggestError(err error) error {
	var sve *promptcraft.SchemaValidationError
	if errors.As(err, &sve) {
		return validationError(ErrMsgParseOutputFailed, err)
	}
	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &syntaxErr) || errors.As(err, &typeErr) {
		return validationError(ErrMsgParseOutputFailed, err)
	}
	var mfe *promptcraft.MissingFieldError
	if errors.As(err, &mfe) {
		return validationError(ErrMsgRenderFailed, err)
	}
	return runtimeError(ErrMsgCompletionFailed, err)
}
