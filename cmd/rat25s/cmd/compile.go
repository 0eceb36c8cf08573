package cmd

import (
	"fmt"
	"os"

	"github.com/cwbudde/rat25s/internal/diag"
	"github.com/cwbudde/rat25s/internal/lexer"
	"github.com/cwbudde/rat25s/internal/parser"
	"github.com/cwbudde/rat25s/internal/report"
	"github.com/spf13/cobra"
)

const defaultOutputFile = "parser_output.txt"

var compileCmd = &cobra.Command{
	Use:   "compile <input> [output]",
	Short: "Lex, parse, and emit stack code for a Rat25S source file",
	Long: `compile runs the full Rat25S pipeline over a source file: lexing,
recursive-descent parsing with integrated semantic checking, and
stack-code emission. The report (parse trace, symbol table, instruction
listing) is written to output, defaulting to parser_output.txt.

A report with diagnostics in it is still a complete, valid artifact —
compile only exits non-zero on I/O failure, never on compilation errors.

Examples:
  rat25s compile program.rat
  rat25s compile program.rat out.txt`,
	Args: cobra.RangeArgs(1, 2),
	RunE: compileScript,
}

func init() {
	rootCmd.AddCommand(compileCmd)
}

func compileScript(cmd *cobra.Command, args []string) error {
	inputFile := args[0]
	outputFile := defaultOutputFile
	if len(args) == 2 {
		outputFile = args[1]
	}

	verbose, _ := cmd.Flags().GetBool("verbose")

	source, err := os.ReadFile(inputFile)
	if err != nil {
		return fmt.Errorf("failed to read file %s: %w", inputFile, err)
	}

	tokens, warnings := lexer.Tokenize(string(source))
	result := parser.Parse(tokens)

	out, err := os.Create(outputFile)
	if err != nil {
		return fmt.Errorf("failed to create file %s: %w", outputFile, err)
	}
	defer out.Close()

	if err := report.Write(out, result.Trace, result.Globals, result.Instructions); err != nil {
		return fmt.Errorf("failed to write report to %s: %w", outputFile, err)
	}

	if verbose {
		for _, w := range warnings {
			fmt.Fprintf(os.Stderr, "warning at line %d: %s\n", w.Line, w.Message)
		}
		if len(result.Diagnostics) > 0 {
			fmt.Fprintln(os.Stderr, diag.Format(result.Diagnostics, string(source), false))
		}
	}

	fmt.Printf("Compiled %s -> %s (%d error(s))\n", inputFile, outputFile, len(result.Diagnostics))
	return nil
}
