package main

import (
	"encoding/json"
	"fmt"

	"github.com/itsatony/go-promptcraft"
	"github.com/spf13/cobra"
)

func newAskCmd(st *cliState) *cobra.Command {
	var (
		model    modelFlags
		template string
		vars     []string
		format   string
	)

	cmd := &cobra.Command{
		Use:     CmdNameAsk,
		Short:   "Send a prompt to a model",
		Example: HelpAskExample,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkFormat(format); err != nil {
				return err
			}
			inputs, err := parseVars(vars)
			if err != nil {
				return err
			}
			prompt, err := promptcraft.NewPromptTemplate(unescape(template), promptcraft.WithTemplateLogger(st.logger))
			if err != nil {
				return validationError(ErrMsgTemplateInvalid, err)
			}
			// fail on missing inputs before a client is built
			if _, err := prompt.Format(inputs); err != nil {
				return formatError(err)
			}

			completer, err := model.completer(cmd, st)
			if err != nil {
				return err
			}
			chain, err := promptcraft.NewChain(prompt, completer, promptcraft.WithChainLogger(st.logger))
			if err != nil {
				return runtimeError(ErrMsgCompletionFailed, err)
			}

			completion, err := chain.Call(cmd.Context(), inputs)
			if err != nil {
				return runtimeError(ErrMsgCompletionFailed, err)
			}

			if format == OutputFormatJSON {
				jsonBytes, err := json.MarshalIndent(completion, "", "  ")
				if err != nil {
					return runtimeError(ErrMsgCompletionFailed, err)
				}
				fmt.Fprintln(st.stdout, string(jsonBytes))
				return nil
			}
			fmt.Fprintln(st.stdout, completion.Text)
			return nil
		},
	}

	model.register(cmd)
	cmd.Flags().StringVarP(&template, FlagTemplate, FlagTemplateShort, "", "Prompt template")
	cmd.Flags().StringArrayVarP(&vars, FlagVar, FlagVarShort, nil, "Template input as key=value (repeatable)")
	cmd.Flags().StringVarP(&format, FlagFormat, FlagFormatShort, FlagDefaultFormat, "Output format: text or json")
	_ = cmd.MarkFlagRequired(FlagTemplate)
	return cmd
}
