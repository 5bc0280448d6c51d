package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/buckaroo-pm/boost-safe-numerics/internal/version"
)

var rootCmd = newRootCmd()

// errReported marks a failure that was already printed; main only sets the
// exit status.
var errReported = errors.New("reported")

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "safenum",
		Short:         "Checked integer arithmetic with range propagation",
		Long:          `safenum evaluates and plans checked integer operations, and generates the regression matrix of the engine.`,
		Version:       version.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(newEvalCmd())
	root.AddCommand(newPlanCmd())
	root.AddCommand(newMatrixCmd())
	root.AddCommand(newKindsCmd())
	root.AddCommand(newVersionCmd())

	flags := root.PersistentFlags()
	flags.String("config", "", "project file (default: nearest "+configFileName+")")
	flags.String("promotion", "", "promotion policy (default|native|legacy|narrowest|table); a non-table policy drops [[promotion.table]] rules")
	flags.String("exception", "", "exception policy (trap-at-construction|trap-at-runtime|legacy-wrap)")
	flags.String("negative-shift", "", "negative left operands of << (arithmetic|reject)")
	flags.String("color", "auto", "colorize output (auto|on|off)")
	flags.String("trace", "", "trace output file (- for stderr)")
	flags.String("trace-level", "", "trace level (off|error|phase|detail|debug)")
	flags.String("trace-mode", "", "trace storage mode (stream|ring|both)")
	flags.String("trace-format", "", "trace format (auto|text|ndjson)")
	flags.String("cpu-profile", "", "write a CPU profile to file")
	flags.String("mem-profile", "", "write a heap profile to file on exit")
	flags.String("runtime-trace", "", "write a Go runtime trace to file")
	return root
}

// main executes the root command and exits with status 1 on failure.
func main() {
	if err := rootCmd.Execute(); err != nil {
		if !errors.Is(err, errReported) {
			fmt.Fprintf(os.Stderr, "%s %v\n", errorLabel(), err)
		}
		os.Exit(1)
	}
}

// isTerminal reports whether f is a terminal.
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
