package main

import (
	"encoding/json"
	"fmt"

	"github.com/itsatony/go-promptcraft"
	"github.com/spf13/cobra"
)

// selectedExample is one entry of the JSON output of select
type selectedExample struct {
	Index   int                 `json:"index"`
	Length  int                 `json:"length"`
	Example promptcraft.Example `json:"example"`
}

// selectOutput represents JSON output for select
type selectOutput struct {
	Budget      int               `json:"budget"`
	Unit        string            `json:"unit"`
	PoolSize    int               `json:"pool_size"`
	TotalLength int               `json:"total_length"`
	Selected    []selectedExample `json:"selected"`
}

func newSelectCmd(st *cliState) *cobra.Command {
	var (
		pool   poolFlags
		format string
	)

	cmd := &cobra.Command{
		Use:     CmdNameSelect,
		Short:   "Show which examples fit a length budget",
		Example: HelpSelectExample,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkFormat(format); err != nil {
				return err
			}
			sel, tmpl, err := pool.build(cmd, st)
			if err != nil {
				return err
			}
			return outputSelection(st, sel, tmpl, pool.unit, format)
		},
	}

	pool.register(cmd)
	cmd.Flags().StringVarP(&format, FlagFormat, FlagFormatShort, FlagDefaultFormat, "Output format: text or json")
	_ = cmd.MarkFlagRequired(FlagExamples)
	return cmd
}

func outputSelection(st *cliState, sel *promptcraft.LengthBasedSelector, tmpl *promptcraft.PromptTemplate, unit, format string) error {
	selected := sel.Select()
	lengths := sel.Lengths()

	out := selectOutput{
		Budget:   sel.MaxLength(),
		Unit:     unit,
		PoolSize: sel.Len(),
		Selected: make([]selectedExample, 0, len(selected)),
	}
	for i, ex := range selected {
		out.TotalLength += lengths[i]
		out.Selected = append(out.Selected, selectedExample{Index: i, Length: lengths[i], Example: ex})
	}

	if format == OutputFormatJSON {
		jsonBytes, err := json.MarshalIndent(out, "", "  ")
		if err != nil {
			return runtimeError(ErrMsgRenderFailed, err)
		}
		fmt.Fprintln(st.stdout, string(jsonBytes))
		return nil
	}

	for _, s := range out.Selected {
		text, err := tmpl.FormatExample(s.Example)
		if err != nil {
			return formatError(err)
		}
		fmt.Fprintf(st.stdout, SelectTextItem, s.Index, s.Length, text)
	}
	fmt.Fprintf(st.stdout, SelectTextSummary, len(out.Selected), out.PoolSize, out.TotalLength, out.Budget, unit)
	return nil
}
