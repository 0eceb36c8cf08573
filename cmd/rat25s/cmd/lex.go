package cmd

import (
	"fmt"
	"os"

	"github.com/cwbudde/rat25s/internal/lexer"
	"github.com/cwbudde/rat25s/internal/token"
	"github.com/spf13/cobra"
)

var lexCmd = &cobra.Command{
	Use:   "lex <input>",
	Short: "Tokenize a Rat25S file and print the resulting tokens",
	Long: `lex tokenizes a Rat25S source file and prints the resulting tokens,
one per line. Useful for debugging the lexer independently of the parser.

Examples:
  rat25s lex program.rat
  rat25s lex --only-errors program.rat`,
	Args: cobra.ExactArgs(1),
	RunE: lexScript,
}

var onlyErrors bool

func init() {
	rootCmd.AddCommand(lexCmd)
	lexCmd.Flags().BoolVar(&onlyErrors, "only-errors", false, "show only LexError/Invalid tokens")
}

func lexScript(cmd *cobra.Command, args []string) error {
	filename := args[0]
	content, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("failed to read file %s: %w", filename, err)
	}

	verbose, _ := cmd.Flags().GetBool("verbose")

	tokens, warnings := lexer.Tokenize(string(content))

	errorCount := 0
	for _, tok := range tokens {
		isError := tok.Kind == token.LexError || tok.Kind == token.Invalid
		if isError {
			errorCount++
		}
		if onlyErrors && !isError {
			continue
		}
		fmt.Printf("Token: %-15s Lexeme: %s Line: %d\n", tok.Kind.String(), tok.Lexeme, tok.Line)
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "Total tokens: %d, errors: %d, warnings: %d\n", len(tokens), errorCount, len(warnings))
		for _, w := range warnings {
			fmt.Fprintf(os.Stderr, "warning at line %d: %s\n", w.Line, w.Message)
		}
	}

	return nil
}
