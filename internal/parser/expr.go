package parser

import (
	"fmt"
	"strconv"

	"github.com/cwbudde/rat25s/internal/emitter"
	"github.com/cwbudde/rat25s/internal/symtab"
	"github.com/cwbudde/rat25s/internal/token"
)

// exprInfo is the type information threaded back up through the
// expression grammar. Bare holds the literal "0" or "1" when the
// expression reduces to exactly that bare integer literal with no
// arithmetic operator applied anywhere in it — the one case
// areTypesCompatible treats as boolean-compatible (spec.md §9 / the
// original's 0-or-1-literal special case).
type exprInfo struct {
	Typ  symtab.Type
	Bare string
}

// compatibleAssign reports whether an expression of type expr (with bare
// literal marker bare) may be assigned to, or passed as, a value of type
// target.
func compatibleAssign(target, expr symtab.Type, bare string) bool {
	if target == expr {
		return true
	}
	if target == symtab.Boolean && expr == symtab.Integer && (bare == "0" || bare == "1") {
		return true
	}
	return false
}

// compatibleCompare reports whether two operand types may be compared
// with a relational operator, honoring the same bare-literal special
// case symmetrically.
func compatibleCompare(left, right symtab.Type, leftBare, rightBare string) bool {
	if left == right {
		return true
	}
	if left == symtab.Boolean && right == symtab.Integer && (rightBare == "0" || rightBare == "1") {
		return true
	}
	if right == symtab.Boolean && left == symtab.Integer && (leftBare == "0" || leftBare == "1") {
		return true
	}
	return false
}

func (p *Parser) parseCondition() {
	p.production("<Condition> -> <Expression> <Relop> <Expression>")
	left := p.parseExpression()
	relopTok := p.cur()
	p.parseRelop()
	right := p.parseExpression()

	switch relopTok.Lexeme {
	case "==":
		p.em.Emit(emitter.Equ)
	case "!=":
		p.em.Emit(emitter.Neq)
	case ">":
		p.em.Emit(emitter.Grt)
	case "<":
		p.em.Emit(emitter.Les)
	case "<=":
		p.em.Emit(emitter.Leq)
	case "=>":
		p.em.Emit(emitter.Geq)
	}

	if left.Typ != symtab.Unknown && right.Typ != symtab.Unknown && left.Typ != right.Typ {
		if !compatibleCompare(left.Typ, right.Typ, left.Bare, right.Bare) {
			p.error(fmt.Sprintf("Type mismatch: You cannot compare %s with %s using %s", left.Typ, right.Typ, relopTok.Lexeme))
		}
	}
}

func (p *Parser) parseRelop() {
	p.production("<Relop> -> == | != | > | < | <= | =>")
	tok := p.cur()
	relops := map[string]bool{"==": true, "!=": true, ">": true, "<": true, "<=": true, "=>": true}
	if tok.Kind == token.Operator && relops[tok.Lexeme] {
		p.match(token.Operator, tok.Lexeme)
	} else {
		p.error("Relational operator expected")
	}
}

func (p *Parser) parseExpression() exprInfo {
	p.production("<Expression> -> <Term> <ExpressionPrime>")
	left := p.parseTerm()
	return p.parseExpressionPrime(left)
}

func (p *Parser) parseExpressionPrime(left exprInfo) exprInfo {
	p.production("<ExpressionPrime> -> + <Term> <ExpressionPrime> | - <Term> <ExpressionPrime> | ε")
	tok := p.cur()
	if tok.Kind == token.Operator && (tok.Lexeme == "+" || tok.Lexeme == "-") {
		p.match(token.Operator, tok.Lexeme)
		right := p.parseTerm()
		if tok.Lexeme == "+" {
			p.em.Emit(emitter.Add)
		} else {
			p.em.Emit(emitter.Sub)
		}
		if left.Typ == symtab.Boolean || right.Typ == symtab.Boolean {
			p.error(fmt.Sprintf("Cannot use %s operator with boolean operands", tok.Lexeme))
		}
		combined := exprInfo{Typ: symtab.Integer}
		return p.parseExpressionPrime(combined)
	}
	return left
}

func (p *Parser) parseTerm() exprInfo {
	p.production("<Term> -> <Factor> <TermPrime>")
	left := p.parseFactor()
	return p.parseTermPrime(left)
}

func (p *Parser) parseTermPrime(left exprInfo) exprInfo {
	p.production("<TermPrime> -> * <Factor> <TermPrime> | / <Factor> <TermPrime> | ε")
	tok := p.cur()
	if tok.Kind == token.Operator && (tok.Lexeme == "*" || tok.Lexeme == "/") {
		p.match(token.Operator, tok.Lexeme)
		right := p.parseFactor()
		if tok.Lexeme == "*" {
			p.em.Emit(emitter.Mul)
		} else {
			p.em.Emit(emitter.Div)
		}
		if left.Typ == symtab.Boolean || right.Typ == symtab.Boolean {
			p.error(fmt.Sprintf("Cannot use %s operator with boolean operands", tok.Lexeme))
		}
		combined := exprInfo{Typ: symtab.Integer}
		return p.parseTermPrime(combined)
	}
	return left
}

func (p *Parser) parseFactor() exprInfo {
	p.production("<Factor> -> <Identifier> | <Number> | ( <Expression> ) | <Function Call>")
	tok := p.cur()

	switch {
	case tok.Kind == token.Identifier:
		if p.peek(1).Kind == token.Separator && p.peek(1).Lexeme == "(" {
			return p.parseFunctionCall()
		}
		name := tok.Lexeme
		declared := p.table.Declared(name)
		_, isFunc := p.functions[name]
		if !declared && !isFunc {
			p.error(fmt.Sprintf("Variable '%s' used before declaration", name))
		} else if !p.inPrint {
			p.em.EmitOperand(emitter.Pushm, p.table.AddressOf(name))
		}
		varType, _ := p.table.Resolve(name)
		p.matchKind(token.Identifier)
		return exprInfo{Typ: varType}

	case tok.Kind == token.Integer:
		p.em.EmitOperand(emitter.Pushi, mustAtoi(tok.Lexeme))
		p.matchKind(token.Integer)
		bare := ""
		if tok.Lexeme == "0" || tok.Lexeme == "1" {
			bare = tok.Lexeme
		}
		return exprInfo{Typ: symtab.Integer, Bare: bare}

	case tok.Kind == token.Separator && tok.Lexeme == "(":
		p.match(token.Separator, "(")
		inner := p.parseExpression()
		p.match(token.Separator, ")")
		return inner

	case tok.Kind == token.Keyword && (tok.Lexeme == "true" || tok.Lexeme == "false"):
		value := 0
		if tok.Lexeme == "true" {
			value = 1
		}
		p.em.EmitOperand(emitter.Pushi, value)
		p.match(token.Keyword, tok.Lexeme)
		return exprInfo{Typ: symtab.Boolean}

	default:
		p.error(fmt.Sprintf("Unexpected token in factor: %s", tok.Lexeme))
		return exprInfo{Typ: symtab.Unknown}
	}
}

// mustAtoi parses a lexer-verified integer lexeme. The lexer only ever
// classifies a run as token.Integer when every character is a digit
// (lexer.go scanNumber), so strconv.Atoi cannot fail on well-formed input.
func mustAtoi(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		panic(fmt.Sprintf("lexer produced a non-numeric Integer token: %q", s))
	}
	return n
}
