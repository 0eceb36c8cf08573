// Package report assembles the Rat25S compiler's output artifact: the
// interleaved parse trace, the global symbol table, and the instruction
// listing, in the exact column layout spec.md §6 requires. The column
// widths (20/20 for the symbol table, 10 for the instruction index) are
// taken from the original implementation's write loop, which this format
// is distilled from.
package report

import (
	"fmt"
	"io"

	"github.com/cwbudde/rat25s/internal/emitter"
	"github.com/cwbudde/rat25s/internal/symtab"
)

// Write renders the full report to w: the trace, a blank line, the
// "Symbol Table:" section, a blank line, and the "Assembly Code Listing:"
// section.
func Write(w io.Writer, trace []string, globals []symtab.GlobalEntry, instructions []emitter.Instruction) error {
	for _, line := range trace {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}

	if _, err := fmt.Fprintln(w); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(w, "Symbol Table:"); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "%-20s%-20s%s\n", "Identifier", "MemoryLocation", "Type"); err != nil {
		return err
	}
	for _, g := range globals {
		if _, err := fmt.Fprintf(w, "%-20s%-20d%s\n", g.Name, g.Address, g.Type.String()); err != nil {
			return err
		}
	}

	if _, err := fmt.Fprintln(w); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(w, "Assembly Code Listing:"); err != nil {
		return err
	}
	for i, instr := range instructions {
		line := string(instr.Mnemonic)
		if instr.HasOperand {
			line += " " + instr.Operand
		}
		if _, err := fmt.Fprintf(w, "%-10d %s\n", i+1, line); err != nil {
			return err
		}
	}
	return nil
}
