package main

import (
	"fmt"

	"github.com/itsatony/go-promptcraft"
	"github.com/spf13/cobra"
)

func newRenderCmd(st *cliState) *cobra.Command {
	var (
		pool      poolFlags
		prefix    string
		suffix    string
		separator string
		vars      []string
	)

	cmd := &cobra.Command{
		Use:     CmdNameRender,
		Short:   "Render a few-shot prompt",
		Example: HelpRenderExample,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			inputs, err := parseVars(vars)
			if err != nil {
				return err
			}
			sel, tmpl, err := pool.build(cmd, st)
			if err != nil {
				return err
			}

			prompt, err := promptcraft.NewFewShotPromptTemplate(promptcraft.FewShotConfig{
				Prefix:          unescape(prefix),
				Suffix:          unescape(suffix),
				ExampleTemplate: tmpl,
				Selector:        sel,
				Separator:       unescape(separator),
				Logger:          st.logger,
			})
			if err != nil {
				return validationError(ErrMsgTemplateInvalid, err)
			}

			text, err := prompt.Format(inputs)
			if err != nil {
				return formatError(err)
			}
			fmt.Fprintln(st.stdout, text)
			return nil
		},
	}

	pool.register(cmd)
	cmd.Flags().StringVar(&prefix, FlagPrefix, "", "Text before the examples")
	cmd.Flags().StringVar(&suffix, FlagSuffix, "", "Text after the examples")
	cmd.Flags().StringVar(&separator, FlagSeparator, FlagDefaultSeparator, "Separator between prompt pieces")
	cmd.Flags().StringArrayVarP(&vars, FlagVar, FlagVarShort, nil, "Template input as key=value (repeatable)")
	_ = cmd.MarkFlagRequired(FlagExamples)
	return cmd
}
