package parser

import (
	"strings"
	"testing"

	"github.com/cwbudde/rat25s/internal/emitter"
	"github.com/cwbudde/rat25s/internal/lexer"
	"github.com/cwbudde/rat25s/internal/symtab"
)

func parse(t *testing.T, src string) *Result {
	t.Helper()
	tokens, _ := lexer.Tokenize(src)
	return Parse(tokens)
}

func TestParseSimpleDeclarationAndAssignment(t *testing.T) {
	r := parse(t, "integer total; total = 5;")
	if len(r.Diagnostics) != 0 {
		t.Fatalf("unexpected diagnostics: %+v", r.Diagnostics)
	}
	if len(r.Globals) != 1 || r.Globals[0].Name != "total" || r.Globals[0].Address != 10000 {
		t.Fatalf("globals = %+v", r.Globals)
	}

	var mnemonics []emitter.Mnemonic
	for _, instr := range r.Instructions {
		mnemonics = append(mnemonics, instr.Mnemonic)
	}
	want := []emitter.Mnemonic{emitter.Pushi, emitter.Popm}
	if len(mnemonics) != len(want) {
		t.Fatalf("instructions = %+v", r.Instructions)
	}
	for i := range want {
		if mnemonics[i] != want[i] {
			t.Errorf("mnemonic %d = %v, want %v", i, mnemonics[i], want[i])
		}
	}
}

func TestParseUndeclaredVariableUse(t *testing.T) {
	r := parse(t, "total = 5;")
	if len(r.Diagnostics) != 1 {
		t.Fatalf("expected one diagnostic, got %+v", r.Diagnostics)
	}
	if !strings.Contains(r.Diagnostics[0].Message, "used before declaration") {
		t.Errorf("diagnostic = %+v", r.Diagnostics[0])
	}
}

func TestParseDuplicateDeclaration(t *testing.T) {
	r := parse(t, "integer total; integer total;")
	if len(r.Diagnostics) != 1 {
		t.Fatalf("expected one diagnostic, got %+v", r.Diagnostics)
	}
	if !strings.Contains(r.Diagnostics[0].Message, "already declared") {
		t.Errorf("diagnostic = %+v", r.Diagnostics[0])
	}
}

func TestParseTypeMismatchAssignment(t *testing.T) {
	r := parse(t, "integer total; boolean flag; flag = total;")
	if len(r.Diagnostics) != 1 {
		t.Fatalf("expected one diagnostic, got %+v", r.Diagnostics)
	}
	if !strings.Contains(r.Diagnostics[0].Message, "Type mismatch") {
		t.Errorf("diagnostic = %+v", r.Diagnostics[0])
	}
}

func TestParseBooleanLiteralZeroOneCompatible(t *testing.T) {
	r := parse(t, "boolean flag; flag = 1;")
	if len(r.Diagnostics) != 0 {
		t.Fatalf("unexpected diagnostics for bare 0/1 special case: %+v", r.Diagnostics)
	}
}

func TestParseBareIntegerLiteralTwoIsIncompatible(t *testing.T) {
	r := parse(t, "boolean flag; flag = 2;")
	if len(r.Diagnostics) != 1 {
		t.Fatalf("expected a type mismatch diagnostic, got %+v", r.Diagnostics)
	}
}

func TestParseIfElseEmitsPatchedJumps(t *testing.T) {
	r := parse(t, `
integer x;
x = 1;
if (x == 1)
  x = 2;
else
  x = 3;
endif
`)
	if len(r.Diagnostics) != 0 {
		t.Fatalf("unexpected diagnostics: %+v", r.Diagnostics)
	}
	foundJmp0, foundJmp, foundLabel := false, false, false
	for _, instr := range r.Instructions {
		switch instr.Mnemonic {
		case emitter.Jmp0:
			foundJmp0 = true
			if instr.Operand == "TBD" {
				t.Errorf("JMP0 operand left unpatched: %+v", instr)
			}
		case emitter.Jmp:
			foundJmp = true
			if instr.Operand == "TBD" {
				t.Errorf("JMP operand left unpatched: %+v", instr)
			}
		case emitter.Label:
			foundLabel = true
		}
	}
	if !foundJmp0 || !foundJmp || !foundLabel {
		t.Errorf("expected JMP0, JMP, and LABEL in instructions, got %+v", r.Instructions)
	}
}

func TestParseWhileLoopBackEdge(t *testing.T) {
	r := parse(t, `
integer x;
x = 0;
while (x < 10)
  x = x;
endwhile
`)
	if len(r.Diagnostics) != 0 {
		t.Fatalf("unexpected diagnostics: %+v", r.Diagnostics)
	}
	last := r.Instructions[len(r.Instructions)-2]
	if last.Mnemonic != emitter.Jmp {
		t.Errorf("expected a trailing JMP back to loop head, got %+v", r.Instructions)
	}
}

func TestParseFunctionCallArityMismatch(t *testing.T) {
	r := parse(t, `
function add(a integer, b integer)
{
  return a;
}
integer total;
total = add(1);
`)
	found := false
	for _, d := range r.Diagnostics {
		if strings.Contains(d.Message, "expects 2") {
			found = true
		}
	}
	if !found {
		t.Errorf("expected an arity mismatch diagnostic, got %+v", r.Diagnostics)
	}
}

func TestParseScanEmitsPopmInReverseOrder(t *testing.T) {
	r := parse(t, "integer a, b; scan(a, b);")
	var popms []string
	for _, instr := range r.Instructions {
		if instr.Mnemonic == emitter.Popm {
			popms = append(popms, instr.Operand)
		}
	}
	if len(popms) != 2 || popms[0] != "10001" || popms[1] != "10000" {
		t.Errorf("scan POPM order = %v, want [10001 10000] (reverse of scan order)", popms)
	}
}

func TestParsePanicModeRecoversAtSemicolon(t *testing.T) {
	r := parse(t, "integer total total = 5;")
	if len(r.Diagnostics) == 0 {
		t.Fatal("expected at least one diagnostic")
	}
	if len(r.Globals) != 1 {
		t.Fatalf("expected recovery to allow 'total' to remain declared, got globals=%+v", r.Globals)
	}
}

func TestScopingRejectsDeclarationLeakFromIf(t *testing.T) {
	r := parse(t, `
if (1 == 1)
  integer inner;
endif
inner = 1;
`)
	found := false
	for _, d := range r.Diagnostics {
		if strings.Contains(d.Message, "used before declaration") {
			found = true
		}
	}
	if !found {
		t.Errorf("expected 'inner' to be out of scope outside the if-block, got %+v", r.Diagnostics)
	}
}

func TestTypeString(t *testing.T) {
	if symtab.Integer.String() != "integer" {
		t.Fatal("sanity check on imported symtab package failed")
	}
}
