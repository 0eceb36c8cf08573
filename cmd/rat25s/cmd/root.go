package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	Version   = "0.1.0-dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "rat25s",
	Short: "A Rat25S compiler front end",
	Long: `rat25s lexes, parses, and type-checks Rat25S source files and emits
stack-machine code for them.

Rat25S is a small imperative language with integers, booleans,
conditionals, while-loops, user-defined functions, and interactive I/O.`,
	Version: Version,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.SetVersionTemplate(fmt.Sprintf("rat25s version %s (commit %s, built %s)\n", Version, GitCommit, BuildDate))
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "print diagnostics and lexer warnings to stderr")
}

