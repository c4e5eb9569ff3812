package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

// exitError carries the exit status of a failure whose message was
// already printed.
type exitError struct {
	code int
}

// Error implements error.
func (e *exitError) Error() string {
	return fmt.Sprintf("exit status %d", e.code)
}

// errFailed is returned once the reason for a failed run has been printed.
var errFailed = &exitError{code: 1}

// NewRootCmd creates the root command for sbmltestgen.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sbmltestgen <model-file>",
		Short: "Generate SBML test-suite cases from a model",
		Long: `sbmltestgen generates a test case for the SBML test suite from one model.

The model file name must contain its SBML level and version, for example
00001-sbml-l2v4.xml. sbmltestgen then:
- writes the model translated to every other level and version it
  converts to cleanly (00001-sbml-l3v1.xml, ...)
- writes 00001-model.m, describing the model and listing the component
  and test tags it exercises; an existing file is kept at its end

Each run is recorded in a local history database unless --no-history is given.`,
		Version:       getVersion(),
		Args:          exactlyOneModel,
		RunE:          runGenerateCmd,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")
	cmd.PersistentFlags().StringP("config", "c", "",
		"Path to configuration file (default: .sbmltestgen in current or home directory)")
	cmd.PersistentFlags().StringP("summary", "s", "",
		"Print a run summary: text, markdown, json or a comma-separated list")
	cmd.PersistentFlags().Bool("no-history", false,
		"Do not record runs in the history database")
	cmd.PersistentFlags().Bool("no-translations", false,
		"Do not probe or write translations; the levels line stays empty")
	cmd.PersistentFlags().Bool("log-json", false,
		"Write log messages to stderr as JSON")

	cmd.AddCommand(NewBatchCmd())
	cmd.AddCommand(NewHistoryCmd())
	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// exactlyOneModel accepts a single model file argument.
func exactlyOneModel(cmd *cobra.Command, args []string) error {
	if len(args) != 1 {
		fmt.Fprintf(cmd.ErrOrStderr(), "\nUsage: %s filename\n\n", cmd.Root().Name())
		return errFailed
	}
	return nil
}

// Execute runs the root command with args and returns the exit status.
func Execute(args []string, stdout, stderr io.Writer) int {
	cmd := NewRootCmd()
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	if err := cmd.Execute(); err != nil {
		var ee *exitError
		if errors.As(err, &ee) {
			return ee.code
		}
		fmt.Fprintln(stderr, err)
		return 1
	}
	return 0
}
