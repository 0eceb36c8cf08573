// Command rat25s is the CLI front end for the Rat25S compiler front-end:
// lexer, parser/semantic-checker, and stack-code emitter.
package main

import (
	"fmt"
	"os"

	"github.com/cwbudde/rat25s/cmd/rat25s/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
