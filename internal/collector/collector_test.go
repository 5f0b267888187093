package collector_test

import (
	"testing"

	"github.com/aslcore/aslc/internal/astio"
	"github.com/aslcore/aslc/internal/collector"
	"github.com/aslcore/aslc/internal/diagnostics"
	"github.com/aslcore/aslc/internal/passes"
)

func mustParse(t *testing.T, src string) *passes.Context {
	t.Helper()
	prog, err := astio.ParseProgram([]byte(src))
	if err != nil {
		t.Fatalf("ParseProgram: %v", err)
	}
	ctx := passes.NewContext("test.asl", src)
	if err := collector.New().Run(prog, ctx); err != nil {
		t.Fatalf("collector.Run: %v", err)
	}
	return ctx
}

func TestProperMainIsAccepted(t *testing.T) {
	ctx := mustParse(t, `
functions:
  - name: main
    body: []
`)
	for _, d := range ctx.Diags.All() {
		if d.Kind == diagnostics.NoMainProperlyDeclared {
			t.Fatalf("did not expect NoMainProperlyDeclared, got %+v", d)
		}
	}
}

func TestMissingMainIsReported(t *testing.T) {
	ctx := mustParse(t, `
functions:
  - name: helper
    body: []
`)
	found := false
	for _, d := range ctx.Diags.All() {
		if d.Kind == diagnostics.NoMainProperlyDeclared {
			found = true
		}
	}
	if !found {
		t.Fatal("expected NoMainProperlyDeclared when no proper main exists")
	}
}

func TestMainWithParametersDoesNotCount(t *testing.T) {
	ctx := mustParse(t, `
functions:
  - name: main
    params:
      - name: argc
        type: int
    body: []
`)
	found := false
	for _, d := range ctx.Diags.All() {
		if d.Kind == diagnostics.NoMainProperlyDeclared {
			found = true
		}
	}
	if !found {
		t.Fatal("a main with parameters should not satisfy the proper-main requirement")
	}
}

func TestDuplicateFunctionNameIsReported(t *testing.T) {
	ctx := mustParse(t, `
functions:
  - name: main
    body: []
  - name: main
    body: []
`)
	found := false
	for _, d := range ctx.Diags.All() {
		if d.Kind == diagnostics.DuplicateDeclaration {
			found = true
		}
	}
	if !found {
		t.Fatal("expected DuplicateDeclaration for a function declared twice")
	}
}

func TestDuplicateLocalNameIsReported(t *testing.T) {
	ctx := mustParse(t, `
functions:
  - name: main
    vars:
      - names: [x]
        type: int
      - names: [x]
        type: float
    body: []
`)
	found := false
	for _, d := range ctx.Diags.All() {
		if d.Kind == diagnostics.DuplicateDeclaration {
			found = true
		}
	}
	if !found {
		t.Fatal("expected DuplicateDeclaration for a local declared twice in the same scope")
	}
}

func TestArrayParameterIsByReference(t *testing.T) {
	prog, err := astio.ParseProgram([]byte(`
functions:
  - name: f
    params:
      - name: a
        type: {kind: array, size: 4, elem: int}
    body: []
  - name: main
    body: []
`))
	if err != nil {
		t.Fatalf("ParseProgram: %v", err)
	}
	ctx := passes.NewContext("test.asl", "")
	if err := collector.New().Run(prog, ctx); err != nil {
		t.Fatalf("collector.Run: %v", err)
	}
	scope, ok := ctx.Decor.Scope(prog.Functions[0])
	if !ok {
		t.Fatal("expected a scope to be recorded for function f")
	}
	sym, ok := scope.Lookup("a")
	if !ok {
		t.Fatal("expected parameter a to be defined in f's scope")
	}
	if !sym.ByRef {
		t.Fatal("array parameters must be marked by-reference")
	}
}

func TestLocalArrayIsNotByReference(t *testing.T) {
	prog, err := astio.ParseProgram([]byte(`
functions:
  - name: main
    vars:
      - names: [buf]
        type: {kind: array, size: 4, elem: int}
    body: []
`))
	if err != nil {
		t.Fatalf("ParseProgram: %v", err)
	}
	ctx := passes.NewContext("test.asl", "")
	if err := collector.New().Run(prog, ctx); err != nil {
		t.Fatalf("collector.Run: %v", err)
	}
	scope, ok := ctx.Decor.Scope(prog.Functions[0])
	if !ok {
		t.Fatal("expected a scope to be recorded for function main")
	}
	sym, ok := scope.Lookup("buf")
	if !ok {
		t.Fatal("expected local buf to be defined in main's scope")
	}
	if sym.ByRef {
		t.Fatal("a local array variable must not be marked by-reference; only array parameters are")
	}
}
