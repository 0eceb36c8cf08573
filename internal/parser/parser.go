// Package parser implements the Rat25S recursive-descent parser with an
// integrated semantic checker and code emitter driver.
//
// The grammar, production trace, and panic-mode recovery are grounded on
// the original Rat25S reference implementation (rat25s_parser.py) and
// expressed in the teacher's cursor/error-recovery idiom
// (internal/parser/parser.go's TokenCursor/synchronize pattern), adapted
// to Rat25S's simpler LL(1) grammar (no Pratt precedence climbing — the
// grammar is already left-recursion-eliminated via the Expression/Term
// "Prime" productions).
package parser

import (
	"fmt"

	"github.com/cwbudde/rat25s/internal/diag"
	"github.com/cwbudde/rat25s/internal/emitter"
	"github.com/cwbudde/rat25s/internal/symtab"
	"github.com/cwbudde/rat25s/internal/token"
)

// Param is one declared function parameter.
type Param struct {
	Name string
	Type symtab.Type
}

// funcInfo tracks a declared function's signature. ReturnType starts
// Unknown and is set by each `return` statement seen in its body, so the
// last one parsed wins
// (spec.md's function descriptor has no separate forward-declared return
// type — it is inferred, mirroring the original implementation).
type funcInfo struct {
	Params     []Param
	ReturnType symtab.Type
}

// Result is everything the parser/emitter pass produced, ready for the
// report writer.
type Result struct {
	Trace        []string
	Diagnostics  []diag.Diagnostic
	Globals      []symtab.GlobalEntry
	Instructions []emitter.Instruction
}

// Parser drives the grammar over a fixed token vector, built once by the
// lexer (spec.md §5: the parser fully consumes the token vector before
// the emitter is finalized — there is no interleaved re-lexing).
type Parser struct {
	tokens []token.Token
	pos    int

	trace []string
	sink  *diag.Sink

	table     *symtab.SymbolTable
	em        *emitter.Emitter
	functions map[string]*funcInfo

	inPrint     bool
	currentFunc *funcInfo
}

// Parse runs the full Program production over tokens and returns the
// accumulated trace, diagnostics, global symbol table, and instruction
// list.
func Parse(tokens []token.Token) *Result {
	p := &Parser{
		tokens:    tokens,
		sink:      diag.NewSink(),
		table:     symtab.New(),
		em:        emitter.New(),
		functions: make(map[string]*funcInfo),
	}
	p.parseProgram()
	return &Result{
		Trace:        p.trace,
		Diagnostics:  p.sink.All(),
		Globals:      p.table.Globals(),
		Instructions: p.em.Instructions(),
	}
}

// --- cursor primitives -----------------------------------------------

func (p *Parser) cur() token.Token {
	return p.tokens[p.pos]
}

func (p *Parser) peek(steps int) token.Token {
	idx := p.pos + steps
	if idx >= len(p.tokens) {
		return p.tokens[len(p.tokens)-1]
	}
	return p.tokens[idx]
}

func (p *Parser) atEOF() bool {
	return p.cur().Kind == token.Eof
}

func (p *Parser) production(rule string) {
	p.trace = append(p.trace, rule)
}

// advance records the current token's trace line (spec.md §6's
// "Token: <kind> Lexeme: <text>" line) and moves the cursor forward. Eof
// is never printed, mirroring the original's output_token.
func (p *Parser) advance() token.Token {
	tok := p.cur()
	if tok.Kind != token.Eof {
		p.trace = append(p.trace, fmt.Sprintf("Token: %-15s Lexeme: %s", tok.Kind.String(), tok.Lexeme))
	}
	if !p.atEOF() {
		p.pos++
	}
	return tok
}

// match consumes the current token if it has the expected kind (and,
// when given, the expected lexeme); otherwise it raises a diagnostic and
// triggers panic-mode recovery. It reports whether the match succeeded.
func (p *Parser) match(kind token.Kind, lexeme string) bool {
	tok := p.cur()
	if tok.Kind == kind && (lexeme == "" || tok.Lexeme == lexeme) {
		p.advance()
		return true
	}
	expected := kind.String()
	if lexeme != "" {
		expected += " " + lexeme
	}
	found := tok.Kind.String()
	if tok.Lexeme != "" {
		found += " " + tok.Lexeme
	}
	p.error(fmt.Sprintf("Expected %s but found %s", expected, found))
	return false
}

// matchKind consumes the current token if it has the expected kind,
// regardless of lexeme.
func (p *Parser) matchKind(kind token.Kind) bool {
	return p.match(kind, "")
}

// structuralKeywords are the block terminators panic-mode recovery must
// never swallow — they belong to an enclosing rule (spec.md §4.3.1 rule 2).
var structuralKeywords = map[string]bool{"endif": true, "endwhile": true, "else": true}

// syncKeywords additionally stop recovery but are not consumed either
// (spec.md §4.3.1 rule 3).
var syncKeywords = map[string]bool{
	"if": true, "while": true, "function": true, "return": true,
	"endif": true, "endwhile": true, "else": true,
}

// error records a diagnostic at the current line and performs panic-mode
// recovery (spec.md §4.3.1).
func (p *Parser) error(message string) {
	p.semanticError(message)
	p.synchronize()
}

// semanticError records a diagnostic at the current line without panic-mode
// recovery, so the caller goes on parsing the statement.
func (p *Parser) semanticError(message string) {
	line := p.cur().Line
	p.sink.Add(line, message)
	p.trace = append(p.trace, fmt.Sprintf("Syntax error at line %d: %s", line, message))
}

func (p *Parser) synchronize() {
	cur := p.cur()
	if cur.Kind == token.Keyword && structuralKeywords[cur.Lexeme] {
		return
	}
	for !p.atEOF() {
		cur = p.cur()
		if cur.Kind == token.Separator && cur.Lexeme == ";" {
			p.advance()
			return
		}
		if cur.Kind == token.Keyword && syncKeywords[cur.Lexeme] {
			return
		}
		if cur.Kind == token.Separator && (cur.Lexeme == "$$" || cur.Lexeme == "}") {
			return
		}
		p.pos++
	}
}

// --- grammar: Program / StatementList / Statement ----------------------

func (p *Parser) parseProgram() {
	p.production("<Program> -> <Statement List>")
	p.parseStatementList()
}

func (p *Parser) parseStatementList() {
	p.production("<Statement List> -> <Statement> <Statement List> | ε")
	for !p.atEOF() {
		tok := p.cur()
		if tok.Kind == token.Separator && tok.Lexeme == "$$" {
			p.advance()
			continue
		}
		if tok.Kind == token.Keyword && structuralKeywords[tok.Lexeme] {
			break
		}
		p.parseStatement()
	}
}

func (p *Parser) parseStatement() {
	p.production("<Statement> -> <Compound> | <Assign> | <If> | <Return> | <Print> | <Scan> | <While> | <Declaration>")
	tok := p.cur()

	switch {
	case tok.Kind == token.Keyword && tok.Lexeme == "function":
		p.parseFunctionDef()
	case tok.Kind == token.Keyword && tok.Lexeme == "if":
		p.parseIfStmt()
	case tok.Kind == token.Keyword && tok.Lexeme == "while":
		p.parseWhileStmt()
	case tok.Kind == token.Keyword && tok.Lexeme == "return":
		p.parseReturnStmt()
	case tok.Kind == token.Keyword && (tok.Lexeme == "integer" || tok.Lexeme == "boolean"):
		p.parseVarDec()
	case tok.Kind == token.Keyword && tok.Lexeme == "print":
		p.parsePrintStmt()
	case tok.Kind == token.Keyword && tok.Lexeme == "scan":
		p.parseScanStmt()
	case tok.Kind == token.Identifier:
		if p.peek(1).Kind == token.Operator && p.peek(1).Lexeme == "=" {
			p.parseAssignment()
		} else {
			p.parseFunctionCall()
		}
	case tok.Kind == token.Separator && tok.Lexeme == "{":
		p.parseCompound()
	case tok.Kind == token.Keyword && structuralKeywords[tok.Lexeme]:
		// Handled by the enclosing rule; do not consume or error.
	case tok.Kind == token.Keyword && (tok.Lexeme == "true" || tok.Lexeme == "false"):
		p.error(fmt.Sprintf("Boolean literal '%s' cannot be used as a statement", tok.Lexeme))
	default:
		p.error(fmt.Sprintf("Unexpected token in statement: %s", tok.Lexeme))
	}
}

func (p *Parser) parseCompound() {
	p.production("<Compound> -> { <Statement List> }")
	p.table.PushScope()
	defer p.table.PopScope()

	if !p.match(token.Separator, "{") {
		return
	}
	for {
		tok := p.cur()
		if tok.Kind == token.Separator && tok.Lexeme == "}" {
			break
		}
		if p.atEOF() {
			p.error("Unexpected end of file in compound statement")
			return
		}
		if tok.Kind == token.Keyword && structuralKeywords[tok.Lexeme] {
			break
		}
		p.parseStatement()
	}
	p.match(token.Separator, "}")
}

// --- Declaration ---------------------------------------------------------

func (p *Parser) parseVarDec() {
	p.production("<Declaration> -> <Qualifier> <IDs> ;")
	varType := p.parseQualifier()
	p.parseIDs(varType)
	if !p.match(token.Separator, ";") {
		p.error("Expected semicolon after variable declaration")
	}
}

func (p *Parser) parseQualifier() symtab.Type {
	p.production("<Qualifier> -> integer | boolean")
	tok := p.cur()
	if tok.Kind == token.Keyword && (tok.Lexeme == "integer" || tok.Lexeme == "boolean") {
		p.match(token.Keyword, tok.Lexeme)
		if tok.Lexeme == "integer" {
			return symtab.Integer
		}
		return symtab.Boolean
	}
	p.error("Type qualifier expected (integer or boolean)")
	return symtab.Unknown
}

func (p *Parser) parseIDs(varType symtab.Type) {
	p.production("<IDs> -> <Identifier> <IDsPrime>")
	p.declareOne(varType)
	p.parseIDsPrime(varType)
}

func (p *Parser) parseIDsPrime(varType symtab.Type) {
	p.production("<IDsPrime> -> , <Identifier> <IDsPrime> | ε")
	if p.cur().Kind == token.Separator && p.cur().Lexeme == "," {
		p.match(token.Separator, ",")
		p.declareOne(varType)
		p.parseIDsPrime(varType)
	}
}

func (p *Parser) declareOne(varType symtab.Type) {
	name := p.cur().Lexeme
	if !p.matchKind(token.Identifier) {
		return
	}
	if p.table.IsDeclaredInCurrentScope(name) {
		p.semanticError(fmt.Sprintf("%s already declared. Declaration unnecessary.", name))
		return
	}
	p.table.Define(name, varType)
}

// --- Assign / Scan / Print -----------------------------------------------

func (p *Parser) parseAssignment() {
	p.production("<Assign> -> <Identifier> = <Expression> ;")
	name := p.cur().Lexeme

	declared := p.table.Declared(name)
	if !declared {
		p.semanticError(fmt.Sprintf("Variable '%s' used before declaration", name))
	}
	varType, _ := p.table.Resolve(name)

	if !p.matchKind(token.Identifier) {
		return
	}
	if !p.match(token.Operator, "=") {
		return
	}
	expr := p.parseExpression()

	if expr.Typ != symtab.Unknown && varType != symtab.Unknown && varType != expr.Typ {
		if !compatibleAssign(varType, expr.Typ, expr.Bare) {
			p.semanticError(fmt.Sprintf("Type mismatch: Cannot assign %s value to %s variable '%s'", expr.Typ, varType, name))
		}
	}

	p.em.EmitOperand(emitter.Popm, p.table.AddressOf(name))

	if !p.match(token.Separator, ";") {
		p.error("Expected semicolon after assignment")
	}
}

func (p *Parser) parseScanStmt() {
	p.production("<Scan> -> scan ( <IDs> );")
	if !p.match(token.Keyword, "scan") {
		return
	}
	if !p.match(token.Separator, "(") {
		return
	}

	var scanned []string
	p.parseIDsScan(&scanned)

	if !p.match(token.Separator, ")") {
		return
	}
	p.match(token.Separator, ";")

	p.em.Emit(emitter.Sin)
	for i := len(scanned) - 1; i >= 0; i-- {
		p.em.EmitOperand(emitter.Popm, p.table.AddressOf(scanned[i]))
	}
}

func (p *Parser) parseIDsScan(scanned *[]string) {
	p.production("<IDs> -> <Identifier> <IDsPrime>")
	name := p.cur().Lexeme
	if !p.table.Declared(name) {
		p.error(fmt.Sprintf("Variable '%s' used in scan procedure without prior declaration.", name))
	}
	*scanned = append(*scanned, name)
	if !p.matchKind(token.Identifier) {
		return
	}
	p.parseIDsPrimeScan(scanned)
}

func (p *Parser) parseIDsPrimeScan(scanned *[]string) {
	p.production("<IDsPrime> -> , <Identifier> <IDsPrime> | ε")
	if p.cur().Kind == token.Separator && p.cur().Lexeme == "," {
		p.match(token.Separator, ",")
		name := p.cur().Lexeme
		if !p.table.Declared(name) {
			p.error(fmt.Sprintf("Variable '%s' used in scan procedure without prior declaration.", name))
		}
		*scanned = append(*scanned, name)
		if !p.matchKind(token.Identifier) {
			return
		}
		p.parseIDsPrimeScan(scanned)
	}
}

func (p *Parser) parsePrintStmt() {
	p.production("<Print> -> print ( <Expression> );")
	if !p.match(token.Keyword, "print") {
		return
	}
	if !p.match(token.Separator, "(") {
		return
	}

	previous := p.inPrint
	p.inPrint = true
	p.parseExpression()
	p.inPrint = previous

	p.em.Emit(emitter.Sout)

	if !p.match(token.Separator, ")") {
		return
	}
	p.match(token.Separator, ";")
}

// --- If / While -----------------------------------------------------------

func (p *Parser) parseIfStmt() {
	p.production("<If> -> if ( <Condition> ) <Statement> <IfPrime>")
	p.table.PushScope()
	defer p.table.PopScope()

	if !p.match(token.Keyword, "if") {
		return
	}
	if !p.match(token.Separator, "(") {
		return
	}
	p.parseCondition()
	if !p.match(token.Separator, ")") {
		return
	}

	jmpSlot := p.em.EmitJumpPlaceholder(emitter.Jmp0)

	p.table.PushScope()
	p.parseStatement()
	p.table.PopScope()

	hasElse := p.cur().Kind == token.Keyword && p.cur().Lexeme == "else"

	var elseJmpSlot int
	if hasElse {
		elseJmpSlot = p.em.EmitJumpPlaceholder(emitter.Jmp)
		p.em.EmitLabel()
		p.em.Patch(jmpSlot, p.em.NextSlot1Based()-1)
	} else {
		p.em.EmitLabel()
		p.em.Patch(jmpSlot, p.em.NextSlot1Based()-1)
	}

	p.parseIfPrime()

	if hasElse {
		p.em.EmitLabel()
		p.em.Patch(elseJmpSlot, p.em.NextSlot1Based()-1)
	}
}

func (p *Parser) parseIfPrime() {
	p.production("<IfPrime> -> else <Statement> endif | endif")
	tok := p.cur()
	switch {
	case tok.Kind == token.Keyword && tok.Lexeme == "else":
		p.match(token.Keyword, "else")
		p.table.PushScope()
		p.parseStatement()
		p.table.PopScope()
		if !p.match(token.Keyword, "endif") {
			p.error("Expected 'endif' after else clause")
		}
	case tok.Kind == token.Keyword && tok.Lexeme == "endif":
		p.match(token.Keyword, "endif")
	default:
		p.error("Expected 'else' or 'endif'")
	}
}

func (p *Parser) parseWhileStmt() {
	p.production("<While> -> while ( <Condition> ) <Statement List> endwhile")
	p.table.PushScope()
	defer p.table.PopScope()

	if !p.match(token.Keyword, "while") {
		return
	}
	if !p.match(token.Separator, "(") {
		return
	}

	p.em.EmitLabel()
	startSlot1Based := p.em.NextSlot1Based() - 1

	p.parseCondition()
	if !p.match(token.Separator, ")") {
		return
	}

	jmp0Slot := p.em.EmitJumpPlaceholder(emitter.Jmp0)

	if p.cur().Kind == token.Separator && p.cur().Lexeme == "{" {
		p.parseCompound()
	} else {
		p.parseStatement()
		for !p.atEOF() && !(p.cur().Kind == token.Keyword && structuralKeywords[p.cur().Lexeme]) {
			if p.cur().Kind == token.Separator && p.cur().Lexeme == "$$" {
				p.error("Expected 'endwhile' before end of section")
				break
			}
			p.parseStatement()
		}
	}

	p.em.EmitOperand(emitter.Jmp, startSlot1Based)
	p.em.EmitLabel()
	p.em.Patch(jmp0Slot, p.em.NextSlot1Based()-1)

	if p.cur().Kind == token.Keyword && p.cur().Lexeme == "endwhile" {
		p.match(token.Keyword, "endwhile")
	} else {
		p.error("Expected 'endwhile' to close while loop")
	}
}

// --- Return / Function definition -----------------------------------------

func (p *Parser) parseReturnStmt() {
	p.production("<Return> -> return <Expression> ;")
	if !p.match(token.Keyword, "return") {
		return
	}
	expr := p.parseExpression()
	if p.currentFunc != nil {
		p.currentFunc.ReturnType = expr.Typ
	}
	if !p.match(token.Separator, ";") {
		p.error("Expected semicolon after return statement")
	}
}

func (p *Parser) parseFunctionDef() {
	p.production("<Function> -> function <Identifier> ( <Parameter List> ) <Compound>")
	if !p.match(token.Keyword, "function") {
		return
	}

	name := p.cur().Lexeme
	if _, exists := p.functions[name]; exists {
		p.error(fmt.Sprintf("Function %s already defined", name))
	}
	if !p.matchKind(token.Identifier) {
		return
	}
	if !p.match(token.Separator, "(") {
		return
	}

	p.table.PushScope()
	params := p.parseParameterList()
	fi := &funcInfo{Params: params, ReturnType: symtab.Unknown}
	p.functions[name] = fi

	if !p.match(token.Separator, ")") {
		p.table.PopScope()
		return
	}

	previousFunc := p.currentFunc
	p.currentFunc = fi
	p.parseCompound()
	p.currentFunc = previousFunc
	p.table.PopScope()
}

func (p *Parser) parseParameterList() []Param {
	p.production("<Parameter List> -> <Parameter> <Parameter List Prime> | ε")
	var params []Param
	if p.cur().Kind == token.Identifier {
		if param, ok := p.parseParameter(); ok {
			params = append(params, param)
		}
		params = append(params, p.parseParameterListPrime()...)
	}
	return params
}

func (p *Parser) parseParameterListPrime() []Param {
	p.production("<Parameter List Prime> -> , <Parameter> <Parameter List Prime> | ε")
	var params []Param
	if p.cur().Kind == token.Separator && p.cur().Lexeme == "," {
		p.match(token.Separator, ",")
		if param, ok := p.parseParameter(); ok {
			params = append(params, param)
		}
		params = append(params, p.parseParameterListPrime()...)
	}
	return params
}

func (p *Parser) parseParameter() (Param, bool) {
	p.production("<Parameter> -> <IDs> <Qualifier>")
	name := p.cur().Lexeme
	if !p.matchKind(token.Identifier) {
		return Param{}, false
	}
	varType := p.parseQualifier()
	p.table.Define(name, varType)
	return Param{Name: name, Type: varType}, true
}

// --- Function call --------------------------------------------------------

func (p *Parser) parseFunctionCall() exprInfo {
	p.production("<Function Call> -> <Identifier> ( <Arguments> )")
	name := p.cur().Lexeme

	fi, known := p.functions[name]
	if !known {
		p.error(fmt.Sprintf("Function '%s' used before declaration", name))
		if !p.matchKind(token.Identifier) {
			return exprInfo{Typ: symtab.Unknown}
		}
		if !p.match(token.Separator, "(") {
			return exprInfo{Typ: symtab.Unknown}
		}
		p.parseArguments()
		p.match(token.Separator, ")")
		return exprInfo{Typ: symtab.Unknown}
	}

	if !p.matchKind(token.Identifier) {
		return exprInfo{Typ: symtab.Unknown}
	}
	if !p.match(token.Separator, "(") {
		return exprInfo{Typ: symtab.Unknown}
	}

	args := p.parseArguments()

	if len(args) != len(fi.Params) {
		p.error(fmt.Sprintf("Function '%s' called with %d arguments but expects %d", name, len(args), len(fi.Params)))
	} else {
		for i, param := range fi.Params {
			arg := args[i]
			if arg.Typ != symtab.Unknown && param.Type != symtab.Unknown && arg.Typ != param.Type {
				if !compatibleAssign(param.Type, arg.Typ, arg.Bare) {
					p.error(fmt.Sprintf("Type mismatch in function call '%s': argument %d is %s, but parameter '%s' expects %s",
						name, i+1, arg.Typ, param.Name, param.Type))
				}
			}
		}
	}

	if !p.match(token.Separator, ")") {
		return exprInfo{Typ: fi.ReturnType}
	}
	if p.cur().Kind == token.Separator && p.cur().Lexeme == ";" {
		p.match(token.Separator, ";")
	}
	return exprInfo{Typ: fi.ReturnType}
}

func (p *Parser) parseArguments() []exprInfo {
	p.production("<Arguments> -> <Expression> <ArgumentsPrime> | ε")
	if p.cur().Kind == token.Separator && p.cur().Lexeme == ")" {
		return nil
	}
	first := p.parseExpression()
	args := []exprInfo{first}
	args = append(args, p.parseArgumentsPrime()...)
	return args
}

func (p *Parser) parseArgumentsPrime() []exprInfo {
	p.production("<ArgumentsPrime> -> , <Expression> <ArgumentsPrime> | ε")
	if p.cur().Kind == token.Separator && p.cur().Lexeme == "," {
		p.match(token.Separator, ",")
		next := p.parseExpression()
		args := []exprInfo{next}
		args = append(args, p.parseArgumentsPrime()...)
		return args
	}
	return nil
}
