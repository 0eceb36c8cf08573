// Package token defines the token vocabulary produced by the Rat25S lexer.
package token

// Kind classifies a token. Kind is organized as a small closed set — Rat25S
// has no user-extensible lexical categories.
type Kind int

const (
	Keyword Kind = iota
	Identifier
	Integer
	Operator
	Separator
	LexError
	Invalid
	Eof
)

var kindStrings = [...]string{
	Keyword:    "Keyword",
	Identifier: "Identifier",
	Integer:    "Integer",
	Operator:   "Operator",
	Separator:  "Separator",
	LexError:   "LexError",
	Invalid:    "Invalid",
	Eof:        "Eof",
}

// String returns the token kind's name, as printed in the trace.
func (k Kind) String() string {
	if int(k) >= 0 && int(k) < len(kindStrings) {
		return kindStrings[k]
	}
	return "Unknown"
}

// Token is an immutable lexer output: a classified lexeme at a source line.
// Produced once by the lexer and never mutated afterwards.
type Token struct {
	Kind   Kind
	Lexeme string
	Line   int
}

// Keywords is the full Rat25S reserved-word set, stored lowercase. The
// lexer lowercases a run before checking membership, so keywords match in
// any letter case; the stored lexeme for a keyword token is always the
// lowercased form.
var Keywords = map[string]bool{
	"if":       true,
	"else":     true,
	"endif":    true,
	"while":    true,
	"endwhile": true,
	"for":      true,
	"function": true,
	"return":   true,
	"integer":  true,
	"boolean":  true,
	"print":    true,
	"scan":     true,
	"true":     true,
	"false":    true,
}

// IsKeyword reports whether lowered is a reserved word. Callers are expected
// to have already lowercased the candidate lexeme.
func IsKeyword(lowered string) bool {
	return Keywords[lowered]
}
