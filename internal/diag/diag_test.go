package diag

import (
	"strings"
	"testing"
)

func TestSinkAddAndCount(t *testing.T) {
	s := NewSink()
	if s.Count() != 0 {
		t.Fatalf("new sink count = %d, want 0", s.Count())
	}
	s.Add(3, "undeclared variable total")
	s.Add(5, "type mismatch in assignment")
	if s.Count() != 2 {
		t.Fatalf("count = %d, want 2", s.Count())
	}
	all := s.All()
	if all[0].Line != 3 || all[1].Line != 5 {
		t.Errorf("All() = %+v", all)
	}
}

func TestLinesFormat(t *testing.T) {
	diags := []Diagnostic{
		{Line: 3, Message: "undeclared variable total"},
		{Line: 5, Message: "type mismatch in assignment"},
	}
	lines := Lines(diags)
	want := []string{
		"Syntax error at line 3: undeclared variable total",
		"Syntax error at line 5: type mismatch in assignment",
	}
	if len(lines) != len(want) {
		t.Fatalf("got %d lines, want %d", len(lines), len(want))
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Errorf("line %d = %q, want %q", i, lines[i], want[i])
		}
	}
}

func TestFormatEmpty(t *testing.T) {
	if got := Format(nil, "", false); got != "" {
		t.Errorf("Format(nil) = %q, want empty", got)
	}
}

func TestFormatSingleError(t *testing.T) {
	source := "integer x\nx = 5;"
	diags := []Diagnostic{{Line: 1, Message: "missing ;"}}
	out := Format(diags, source, false)
	if !strings.Contains(out, "Error at line 1") {
		t.Errorf("Format output missing line marker: %q", out)
	}
	if !strings.Contains(out, "integer x") {
		t.Errorf("Format output missing source snippet: %q", out)
	}
	if strings.Contains(out, "Compilation failed with") {
		t.Errorf("single-error output should not mention the multi-error summary: %q", out)
	}
}

func TestFormatMultipleErrors(t *testing.T) {
	diags := []Diagnostic{
		{Line: 1, Message: "missing ;"},
		{Line: 2, Message: "undeclared variable x"},
	}
	out := Format(diags, "a\nb", false)
	if !strings.Contains(out, "Compilation failed with 2 error(s)") {
		t.Errorf("Format output missing summary line: %q", out)
	}
	if !strings.Contains(out, "[Error 1 of 2]") || !strings.Contains(out, "[Error 2 of 2]") {
		t.Errorf("Format output missing error index markers: %q", out)
	}
}
