package report

import (
	"fmt"
	"strings"
	"testing"

	"github.com/gkampitakis/go-snaps/snaps"

	"github.com/cwbudde/rat25s/internal/lexer"
	"github.com/cwbudde/rat25s/internal/parser"
)

func compileToReport(t *testing.T, src string) string {
	t.Helper()
	tokens, _ := lexer.Tokenize(src)
	result := parser.Parse(tokens)

	var sb strings.Builder
	if err := Write(&sb, result.Trace, result.Globals, result.Instructions); err != nil {
		t.Fatalf("Write returned error: %v", err)
	}
	return sb.String()
}

func TestWriteContainsAllThreeSections(t *testing.T) {
	out := compileToReport(t, "integer total; total = 5;")
	for _, want := range []string{"Symbol Table:", "Assembly Code Listing:", "Identifier", "total"} {
		if !strings.Contains(out, want) {
			t.Errorf("report missing %q:\n%s", want, out)
		}
	}
}

func TestWriteSymbolTableColumns(t *testing.T) {
	out := compileToReport(t, "integer total; boolean flag;")
	wantTotal := fmt.Sprintf("%-20s%-20d%s", "total", 10000, "integer")
	wantFlag := fmt.Sprintf("%-20s%-20d%s", "flag", 10001, "boolean")
	if !strings.Contains(out, wantTotal) {
		t.Errorf("symbol table row not in expected column layout, want %q in:\n%s", wantTotal, out)
	}
	if !strings.Contains(out, wantFlag) {
		t.Errorf("symbol table row not in expected column layout, want %q in:\n%s", wantFlag, out)
	}
}

func TestWriteInstructionNumberingIsOneBased(t *testing.T) {
	out := compileToReport(t, "integer total; total = 5;")
	wantFirst := fmt.Sprintf("%-10d %s", 1, "PUSHI 5")
	wantSecond := fmt.Sprintf("%-10d %s", 2, "POPM 10000")
	if !strings.Contains(out, wantFirst) {
		t.Errorf("expected instruction 1 to be PUSHI 5, want %q in:\n%s", wantFirst, out)
	}
	if !strings.Contains(out, wantSecond) {
		t.Errorf("expected instruction 2 to be POPM 10000, want %q in:\n%s", wantSecond, out)
	}
}

func TestWriteFullReportSnapshot(t *testing.T) {
	out := compileToReport(t, `
integer total;
boolean done;
total = 0;
done = false;
while (total < 3)
  total = total + 1;
endwhile
print(total);
`)
	snaps.MatchSnapshot(t, out)
}
