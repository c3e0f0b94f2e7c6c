// Package main provides the promptcraft CLI.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/itsatony/go-promptcraft"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

// run executes the CLI with given arguments and I/O streams.
// Returns the exit code.
func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	return runWith(args, stdin, stdout, stderr, defaultDeps())
}

func runWith(args []string, stdin io.Reader, stdout, stderr io.Writer, deps *cliDeps) int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	st := &cliState{stdin: stdin, stdout: stdout, stderr: stderr, deps: deps, logger: zap.NewNop()}
	root := newRootCmd(st)
	root.SetArgs(args)

	if err := root.ExecuteContext(ctx); err != nil {
		var ce *cliError
		if errors.As(err, &ce) {
			if ce.err == nil {
				fmt.Fprintf(stderr, FmtError, ce.msg)
			} else {
				fmt.Fprintf(stderr, FmtErrorWithCause, ce.msg, ce.err)
			}
			return ce.code
		}
		// flag parsing, unknown commands and missing required flags
		fmt.Fprintln(stderr, err)
		return ExitCodeUsageError
	}
	return ExitCodeSuccess
}

// cliDeps holds what tests replace.
type cliDeps struct {
	newCompleter func(ctx context.Context, cfg *promptcraft.ModelConfig, logger *zap.Logger) (promptcraft.Completer, error)
}

func defaultDeps() *cliDeps {
	return &cliDeps{
		newCompleter: func(ctx context.Context, cfg *promptcraft.ModelConfig, logger *zap.Logger) (promptcraft.Completer, error) {
			return promptcraft.NewCompleter(ctx, cfg, promptcraft.WithClientLogger(logger))
		},
	}
}

// cliState is shared by all commands of one invocation.
type cliState struct {
	stdin   io.Reader
	stdout  io.Writer
	stderr  io.Writer
	deps    *cliDeps
	logger  *zap.Logger
	verbose bool
}

func newRootCmd(st *cliState) *cobra.Command {
	root := &cobra.Command{
		Use:           CLIName,
		Short:         CLIDescription,
		Long:          CLILong,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if st.verbose {
				st.logger = newCLILogger(st.stderr)
			}
		},
	}
	root.SetIn(st.stdin)
	root.SetOut(st.stdout)
	root.SetErr(st.stderr)
	root.CompletionOptions.DisableDefaultCmd = true
	root.PersistentFlags().BoolVar(&st.verbose, FlagVerbose, false, "Write debug logs to stderr")

	root.AddCommand(
		newSelectCmd(st),
		newRenderCmd(st),
		newAskCmd(st),
		newSuggestCmd(st),
		newVersionCmd(st),
	)
	return root
}

// newCLILogger writes human readable debug logs to w.
func newCLILogger(w io.Writer) *zap.Logger {
	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig()),
		zapcore.AddSync(w),
		zapcore.DebugLevel,
	)
	return zap.New(core)
}

// cliError carries the exit code of a failed command.
type cliError struct {
	code int
	msg  string
	err  error
}

func (e *cliError) Error() string {
	if e.err == nil {
		return e.msg
	}
	return e.msg + ": " + e.err.Error()
}

func (e *cliError) Unwrap() error {
	return e.err
}

func usageError(msg string, err error) error {
	return &cliError{code: ExitCodeUsageError, msg: msg, err: err}
}

func validationError(msg string, err error) error {
	return &cliError{code: ExitCodeValidationError, msg: msg, err: err}
}

func inputError(msg string, err error) error {
	return &cliError{code: ExitCodeInputError, msg: msg, err: err}
}

func runtimeError(msg string, err error) error {
	return &cliError{code: ExitCodeError, msg: msg, err: err}
}

// formatError classifies a prompt formatting failure.
func formatError(err error) error {
	var mfe *promptcraft.MissingFieldError
	if errors.As(err, &mfe) {
		return validationError(ErrMsgRenderFailed, err)
	}
	return runtimeError(ErrMsgRenderFailed, err)
}

func checkFormat(format string) error {
	if format != OutputFormatText && format != OutputFormatJSON {
		return usageError(ErrMsgInvalidFormat, errors.New(format))
	}
	return nil
}
