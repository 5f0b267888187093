package cmd

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/tidwall/gjson"
)

func writeFixture(t *testing.T, dir, name, src string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(src), 0o644); err != nil {
		t.Fatalf("failed to write fixture %s: %v", path, err)
	}
	return path
}

func captureStdout(t *testing.T, fn func()) string {
	t.Helper()
	old := os.Stdout
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("os.Pipe: %v", err)
	}
	os.Stdout = w
	fn()
	w.Close()
	os.Stdout = old
	var buf bytes.Buffer
	io.Copy(&buf, r)
	return buf.String()
}

func TestRunCheckReportsOKForAValidProgram(t *testing.T) {
	dir := t.TempDir()
	path := writeFixture(t, dir, "ok.asl", `
functions:
  - name: main
    vars:
      - names: [x]
        type: int
    body:
      - kind: assign
        left: {kind: ident, name: x}
        right: {kind: int, value: 1}
`)
	out := captureStdout(t, func() {
		if err := runCheck(checkCmd, []string{path}); err != nil {
			t.Fatalf("runCheck: %v", err)
		}
	})
	if out != "OK\n" {
		t.Fatalf("expected OK output, got %q", out)
	}
}

func TestRunCheckJSONReportsDiagnosticFields(t *testing.T) {
	dir := t.TempDir()
	path := writeFixture(t, dir, "bad.asl", `
functions:
  - name: main
    vars:
      - names: [a]
        type: int
    body:
      - kind: assign
        left: {kind: ident, name: a}
        right: {kind: bool, value: true}
`)

	oldJSON := checkJSON
	checkJSON = true
	defer func() { checkJSON = oldJSON }()

	var out string
	err := func() error {
		var runErr error
		out = captureStdout(t, func() {
			runErr = runCheck(checkCmd, []string{path})
		})
		return runErr
	}()
	if err == nil {
		t.Fatal("expected runCheck to report a non-nil error for a diagnostic-bearing program")
	}

	result := gjson.Parse(out)
	if !result.IsArray() {
		t.Fatalf("expected a JSON array, got %q", out)
	}
	diags := result.Array()
	if len(diags) != 1 {
		t.Fatalf("expected exactly one diagnostic, got %d: %q", len(diags), out)
	}
	if diags[0].Get("kind").String() != "IncompatibleAssignment" {
		t.Fatalf("expected kind IncompatibleAssignment, got %q", diags[0].Get("kind").String())
	}
	if !diags[0].Get("line").Exists() || !diags[0].Get("column").Exists() {
		t.Fatal("expected line and column fields in the JSON diagnostic")
	}
	if !diags[0].Get("message").Exists() {
		t.Fatal("expected a message field in the JSON diagnostic")
	}
}
