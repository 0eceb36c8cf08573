// Package lexer converts Rat25S source text into a token stream.
//
// The lexer never fails outright: unrecognized input is reported as a
// LexError or Invalid token so the parser can keep going (spec.md §4.1).
// It is restartable and deterministic — repeated invocation on identical
// input yields identical output (spec.md §8).
package lexer

import (
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/cwbudde/rat25s/internal/token"
)

// Warning is a non-fatal lexer observation (currently: unterminated block
// comments and unrecognized input) that is never written into the compiler report (spec.md §7.1)
// but is available to callers that want it, mirroring the teacher's
// separate Lexer.Errors() channel.
type Warning struct {
	Message string
	Line    int
}

// runeTerminators are the characters (besides whitespace) that end an
// identifier/number/unknown run, per spec.md §4.1 rules 5–7 and 10.
const runeTerminators = "(){};,"

// Lexer is a single-pass, single-use scanner over a fixed input buffer.
type Lexer struct {
	input        string
	pos          int
	readPos      int
	ch           rune
	chSize       int
	line         int
	warnings     []Warning
}

// New creates a Lexer over input, ready to produce tokens from line 1.
func New(input string) *Lexer {
	l := &Lexer{input: input, line: 1}
	l.readChar()
	return l
}

// Warnings returns all warnings accumulated so far (e.g. unterminated
// block comments).
func (l *Lexer) Warnings() []Warning {
	return l.warnings
}

func (l *Lexer) addWarning(msg string) {
	l.warnings = append(l.warnings, Warning{Message: msg, Line: l.line})
}

func (l *Lexer) readChar() {
	if l.readPos >= len(l.input) {
		l.ch = 0
		l.chSize = 0
		l.pos = l.readPos
		return
	}
	r, size := utf8.DecodeRuneInString(l.input[l.readPos:])
	l.ch = r
	l.chSize = size
	l.pos = l.readPos
	l.readPos += size
}

func (l *Lexer) peekChar() rune {
	if l.readPos >= len(l.input) {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(l.input[l.readPos:])
	return r
}

func (l *Lexer) atEOF() bool {
	return l.pos >= len(l.input)
}

// startsWith reports whether the two characters at the current position
// spell the given two-rune sequence.
func (l *Lexer) startsWith(a, b rune) bool {
	return l.ch == a && l.peekChar() == b
}

// Tokenize fully consumes the input and returns the complete token vector,
// terminated by a single Eof token. The parser consumes this vector
// read-only (spec.md §3, §5: lexer fully consumes input before parsing
// begins).
func Tokenize(input string) ([]token.Token, []Warning) {
	l := New(input)
	var tokens []token.Token
	for {
		tok, stop := l.next()
		if tok != nil {
			tokens = append(tokens, *tok)
		}
		if stop {
			break
		}
	}
	tokens = append(tokens, token.Token{Kind: token.Eof, Lexeme: "", Line: l.line})
	return tokens, l.warnings
}

// next scans one token. It returns (nil, false) for consumed whitespace or
// comments (caller should loop again), and (nil, true) when an unterminated
// comment has ended the stream early.
func (l *Lexer) next() (tok *token.Token, stop bool) {
	switch {
	case l.atEOF():
		return nil, true

	case l.ch == '\n':
		l.line++
		l.readChar()
		return nil, false

	case isSpace(l.ch):
		l.readChar()
		return nil, false

	case l.startsWith('/', '*'):
		return l.scanBlockComment("*/")

	case l.startsWith('[', '*'):
		return l.scanBlockComment("*]")

	case l.startsWith('$', '$'):
		line := l.line
		l.readChar()
		l.readChar()
		return &token.Token{Kind: token.Separator, Lexeme: "$$", Line: line}, false

	case isLetter(l.ch):
		return l.scanIdentifier(), false

	case l.ch == '.':
		return l.scanDotError(), false

	case isDigit(l.ch):
		return l.scanNumber(), false

	case strings.ContainsRune(runeTerminators, l.ch):
		line := l.line
		lexeme := string(l.ch)
		l.readChar()
		return &token.Token{Kind: token.Separator, Lexeme: lexeme, Line: line}, false

	case isOperatorStart(l.ch):
		return l.scanOperator(), false

	default:
		return l.scanUnknown(), false
	}
}

// scanBlockComment consumes a /* ... */ or [* ... *] comment. An
// unterminated comment is reported as a warning and ends the stream
// (spec.md §4.1 rule 3, §8 boundary behaviour).
func (l *Lexer) scanBlockComment(closer string) (*token.Token, bool) {
	startLine := l.line
	l.readChar()
	l.readChar()
	closeA, closeB := rune(closer[0]), rune(closer[1])
	for {
		if l.atEOF() {
			l.addWarning("unterminated comment starting at line " + strconv.Itoa(startLine))
			return nil, true
		}
		if l.startsWith(closeA, closeB) {
			l.readChar()
			l.readChar()
			return nil, false
		}
		if l.ch == '\n' {
			l.line++
		}
		l.readChar()
	}
}

// runUntilTerminator consumes characters until whitespace, a character in
// runeTerminators, EOF, or a "$$" lookahead — the terminator rule shared by
// identifiers, numbers, the stray-dot case, and unknown runs.
func (l *Lexer) runUntilTerminator() string {
	var sb strings.Builder
	for !l.atEOF() && l.ch != '\n' && !isSpace(l.ch) && !strings.ContainsRune(runeTerminators, l.ch) && !l.startsWith('$', '$') {
		sb.WriteRune(l.ch)
		l.readChar()
	}
	return sb.String()
}

func (l *Lexer) scanIdentifier() *token.Token {
	line := l.line
	lexeme := l.runUntilTerminator()
	lowered := strings.ToLower(lexeme)
	if token.IsKeyword(lowered) {
		return &token.Token{Kind: token.Keyword, Lexeme: lowered, Line: line}
	}
	if isPlainIdentifier(lexeme) {
		return &token.Token{Kind: token.Identifier, Lexeme: lexeme, Line: line}
	}
	return &token.Token{Kind: token.LexError, Lexeme: lexeme, Line: line}
}

func (l *Lexer) scanDotError() *token.Token {
	line := l.line
	lexeme := l.runUntilTerminator()
	return &token.Token{Kind: token.LexError, Lexeme: lexeme, Line: line}
}

func (l *Lexer) scanNumber() *token.Token {
	line := l.line
	lexeme := l.runUntilTerminator()
	for _, r := range lexeme {
		if !isDigit(r) && r != '.' {
			return &token.Token{Kind: token.LexError, Lexeme: lexeme, Line: line}
		}
	}
	if strings.ContainsRune(lexeme, '.') {
		return &token.Token{Kind: token.LexError, Lexeme: lexeme, Line: line}
	}
	return &token.Token{Kind: token.Integer, Lexeme: lexeme, Line: line}
}

// twoCharOperators lists the preferred two-character operators; they must
// be matched before any single-character prefix (spec.md §4.1 rule 9).
var twoCharOperators = map[string]bool{
	"==": true, "!=": true, "<=": true, "=>": true,
}

var oneCharOperators = map[rune]bool{
	'+': true, '-': true, '*': true, '/': true, '=': true, '<': true, '>': true,
}

func isOperatorStart(r rune) bool {
	return oneCharOperators[r] || r == '!'
}

func (l *Lexer) scanOperator() *token.Token {
	line := l.line
	two := string(l.ch) + string(l.peekChar())
	if twoCharOperators[two] {
		l.readChar()
		l.readChar()
		return &token.Token{Kind: token.Operator, Lexeme: two, Line: line}
	}
	if oneCharOperators[l.ch] {
		lexeme := string(l.ch)
		l.readChar()
		return &token.Token{Kind: token.Operator, Lexeme: lexeme, Line: line}
	}
	// A lone '!' that isn't followed by '=' has no single-character meaning.
	lexeme := l.runUntilTerminator()
	return &token.Token{Kind: token.Invalid, Lexeme: lexeme, Line: line}
}

func (l *Lexer) scanUnknown() *token.Token {
	line := l.line
	lexeme := l.runUntilTerminator()
	if lexeme == "" {
		lexeme = string(l.ch)
		l.readChar()
	}
	l.addWarning("unrecognized input " + strconv.Quote(lexeme) + " at line " + strconv.Itoa(line))
	return &token.Token{Kind: token.Invalid, Lexeme: lexeme, Line: line}
}

func isSpace(r rune) bool {
	return r == ' ' || r == '\t' || r == '\r' || r == '\v' || r == '\f'
}

func isLetter(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

func isPlainIdentifier(s string) bool {
	for _, r := range s {
		if !isLetter(r) && !isDigit(r) && r != '_' {
			return false
		}
	}
	return s != ""
}

