// Package diag accumulates and renders Rat25S compiler diagnostics.
//
// A Diagnostic is the line/message pair produced by the parser's
// semantic checks and panic-mode error recovery (spec.md §3, §4.3.1). Sink is the append-only
// collector the parser writes to; Lines and Format are the two renderings
// the report writer and the CLI need, grounded on the teacher's
// internal/errors.CompilerError / FormatErrors.
package diag

import (
	"fmt"
	"strings"
)

// Diagnostic is one recorded syntax or semantic error.
type Diagnostic struct {
	Line    int
	Message string
}

// Sink is the append-only diagnostics collector shared by the parser.
// Diagnostics are recorded in the order they are raised; nothing is ever
// removed.
type Sink struct {
	diagnostics []Diagnostic
}

// NewSink returns an empty Sink.
func NewSink() *Sink {
	return &Sink{}
}

// Add records one diagnostic at line with the given message.
func (s *Sink) Add(line int, message string) {
	s.diagnostics = append(s.diagnostics, Diagnostic{Line: line, Message: message})
}

// Count is the number of diagnostics recorded so far.
func (s *Sink) Count() int {
	return len(s.diagnostics)
}

// All returns every recorded diagnostic, in raise order.
func (s *Sink) All() []Diagnostic {
	return s.diagnostics
}

// Lines renders each diagnostic as "Syntax error at line <n>: <message>",
// the exact form the report's interleaved trace requires (spec.md §6).
func Lines(diagnostics []Diagnostic) []string {
	lines := make([]string, len(diagnostics))
	for i, d := range diagnostics {
		lines[i] = fmt.Sprintf("Syntax error at line %d: %s", d.Line, d.Message)
	}
	return lines
}

// Format renders diagnostics as a multi-error terminal report for
// `--verbose` CLI use, in the style of the teacher's
// CompilerError.Format/FormatErrors: each entry quotes its numbered source
// line followed by the message. Diagnostics carry no column, so no caret
// marks a position within the line.
func Format(diagnostics []Diagnostic, source string, color bool) string {
	if len(diagnostics) == 0 {
		return ""
	}
	sourceLines := strings.Split(source, "\n")

	var sb strings.Builder
	if len(diagnostics) > 1 {
		sb.WriteString(fmt.Sprintf("Compilation failed with %d error(s):\n\n", len(diagnostics)))
	}
	for i, d := range diagnostics {
		if len(diagnostics) > 1 {
			sb.WriteString(fmt.Sprintf("[Error %d of %d]\n", i+1, len(diagnostics)))
		}
		sb.WriteString(fmt.Sprintf("Error at line %d\n", d.Line))
		if d.Line >= 1 && d.Line <= len(sourceLines) {
			lineNumStr := fmt.Sprintf("%4d | ", d.Line)
			sb.WriteString(lineNumStr)
			sb.WriteString(sourceLines[d.Line-1])
			sb.WriteString("\n")
		}
		if color {
			sb.WriteString("\033[1m")
		}
		sb.WriteString(d.Message)
		if color {
			sb.WriteString("\033[0m")
		}
		if i < len(diagnostics)-1 {
			sb.WriteString("\n\n")
		}
	}
	return sb.String()
}
