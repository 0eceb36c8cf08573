package cmd

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestCompileScriptWritesReport(t *testing.T) {
	tempDir := t.TempDir()

	program := `integer total;
total = 0;
total = total + 1;
print(total);
`
	inputPath := filepath.Join(tempDir, "main.rat")
	if err := os.WriteFile(inputPath, []byte(program), 0644); err != nil {
		t.Fatalf("failed to write test program: %v", err)
	}
	outputPath := filepath.Join(tempDir, "out.txt")

	if err := compileScript(compileCmd, []string{inputPath, outputPath}); err != nil {
		t.Fatalf("compileScript failed: %v", err)
	}

	report, err := os.ReadFile(outputPath)
	if err != nil {
		t.Fatalf("expected report file to be written: %v", err)
	}
	out := string(report)

	for _, want := range []string{"Symbol Table:", "total", "Assembly Code Listing:", "PUSHI", "SOUT"} {
		if !strings.Contains(out, want) {
			t.Errorf("report missing %q:\n%s", want, out)
		}
	}
}

func TestCompileScriptDefaultsOutputFilename(t *testing.T) {
	tempDir := t.TempDir()
	inputPath := filepath.Join(tempDir, "main.rat")
	if err := os.WriteFile(inputPath, []byte("integer x; x = 1;"), 0644); err != nil {
		t.Fatalf("failed to write test program: %v", err)
	}

	oldwd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Getwd: %v", err)
	}
	if err := os.Chdir(tempDir); err != nil {
		t.Fatalf("Chdir: %v", err)
	}
	defer os.Chdir(oldwd)

	if err := compileScript(compileCmd, []string{inputPath}); err != nil {
		t.Fatalf("compileScript failed: %v", err)
	}
	if _, err := os.Stat(defaultOutputFile); err != nil {
		t.Errorf("expected default output file %s to exist: %v", defaultOutputFile, err)
	}
}

func TestCompileScriptSurvivesDiagnostics(t *testing.T) {
	tempDir := t.TempDir()
	inputPath := filepath.Join(tempDir, "bad.rat")
	if err := os.WriteFile(inputPath, []byte("total = 1;"), 0644); err != nil {
		t.Fatalf("failed to write test program: %v", err)
	}
	outputPath := filepath.Join(tempDir, "out.txt")

	if err := compileScript(compileCmd, []string{inputPath, outputPath}); err != nil {
		t.Fatalf("compileScript should not fail on compilation diagnostics, got: %v", err)
	}

	report, err := os.ReadFile(outputPath)
	if err != nil {
		t.Fatalf("expected report file to still be written: %v", err)
	}
	if !strings.Contains(string(report), "Syntax error at line") {
		t.Errorf("expected the report to include the diagnostic line:\n%s", string(report))
	}
}

func TestCompileScriptReturnsErrorOnMissingFile(t *testing.T) {
	err := compileScript(compileCmd, []string{filepath.Join(t.TempDir(), "missing.rat")})
	if err == nil {
		t.Fatal("expected an error for a missing input file")
	}
}
