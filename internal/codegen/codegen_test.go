package codegen_test

import (
	"strings"
	"testing"

	"github.com/aslcore/aslc/internal/astio"
	"github.com/aslcore/aslc/internal/checker"
	"github.com/aslcore/aslc/internal/codegen"
	"github.com/aslcore/aslc/internal/collector"
	"github.com/aslcore/aslc/internal/ir"
	"github.com/aslcore/aslc/internal/passes"
)

func compile(t *testing.T, src string) *passes.Context {
	t.Helper()
	prog, err := astio.ParseProgram([]byte(src))
	if err != nil {
		t.Fatalf("ParseProgram: %v", err)
	}
	ctx := passes.NewContext("test.asl", src)
	mgr := &passes.Manager{Collector: collector.New(), Checker: checker.New(), Codegen: codegen.New()}
	if err := mgr.RunAll(prog, ctx); err != nil {
		t.Fatalf("RunAll: %v", err)
	}
	if !ctx.Diags.Empty() {
		t.Fatalf("expected no diagnostics, got %+v", ctx.Diags.All())
	}
	if ctx.IR == nil {
		t.Fatal("expected IR to be generated")
	}
	return ctx
}

func subroutine(t *testing.T, ctx *passes.Context, name string) ir.SubroutineIR {
	t.Helper()
	for _, s := range ctx.IR.Subroutines {
		if s.Name == name {
			return s
		}
	}
	t.Fatalf("no subroutine named %q in generated IR", name)
	return ir.SubroutineIR{}
}

func opsOf(sub ir.SubroutineIR) []ir.OpCode {
	ops := make([]ir.OpCode, len(sub.Code))
	for i, instr := range sub.Code {
		ops[i] = instr.Op
	}
	return ops
}

func assertOpsContainInOrder(t *testing.T, sub ir.SubroutineIR, want []ir.OpCode) {
	t.Helper()
	ops := opsOf(sub)
	j := 0
	for _, op := range ops {
		if j < len(want) && op == want[j] {
			j++
		}
	}
	if j != len(want) {
		t.Fatalf("expected opcodes %v to appear in order within %v", want, ops)
	}
}

// Seed scenario 1: scalar assign + write.
func TestSeedScalarAssignWrite(t *testing.T) {
	ctx := compile(t, `
functions:
  - name: main
    vars:
      - names: [x]
        type: int
    body:
      - kind: assign
        left: {kind: ident, name: x}
        right: {kind: int, value: 3}
      - kind: write
        value: {kind: ident, name: x}
`)
	sub := subroutine(t, ctx, "main")
	if len(sub.Locals) != 1 || sub.Locals[0].Name != "x" || sub.Locals[0].Type != "int" {
		t.Fatalf("expected local x:int, got %+v", sub.Locals)
	}
	assertOpsContainInOrder(t, sub, []ir.OpCode{ir.OpILoad, ir.OpLoad, ir.OpWriteI, ir.OpReturn})

	last := sub.Code[len(sub.Code)-1]
	if last.Op != ir.OpReturn {
		t.Fatalf("expected the subroutine to end with RETURN, got %s", last.Op)
	}
}

// Seed scenario 2: Integer -> Float widening on assignment.
func TestSeedWideningOnAssign(t *testing.T) {
	ctx := compile(t, `
functions:
  - name: main
    vars:
      - names: [a]
        type: float
      - names: [b]
        type: int
    body:
      - kind: assign
        left: {kind: ident, name: b}
        right: {kind: int, value: 2}
      - kind: assign
        left: {kind: ident, name: a}
        right: {kind: ident, name: b}
`)
	sub := subroutine(t, ctx, "main")
	assertOpsContainInOrder(t, sub, []ir.OpCode{ir.OpILoad, ir.OpLoad, ir.OpFloat, ir.OpLoad})

	foundFloat := false
	for i, instr := range sub.Code {
		if instr.Op == ir.OpFloat {
			foundFloat = true
			if len(instr.Args) != 2 {
				t.Fatalf("FLOAT should take (dst, src), got %+v", instr.Args)
			}
			// the temporary FLOAT defines must be the one the following LOAD a,... consumes
			next := sub.Code[i+1]
			if next.Op != ir.OpLoad || len(next.Args) != 2 || next.Args[1] != instr.Args[0] {
				t.Fatalf("expected the LOAD right after FLOAT to consume its destination temp, got %+v then %+v", instr, next)
			}
		}
	}
	if !foundFloat {
		t.Fatal("expected a FLOAT widening instruction")
	}
}

// Seed scenario 3: array parameter accessed by reference.
func TestSeedArrayByReferenceParameter(t *testing.T) {
	ctx := compile(t, `
functions:
  - name: f
    params:
      - name: a
        type: {kind: array, size: 4, elem: int}
    body:
      - kind: assign
        left: {kind: index, name: a, index: {kind: int, value: 0}}
        right: {kind: int, value: 7}
  - name: main
    body: []
`)
	sub := subroutine(t, ctx, "f")
	if len(sub.Params) != 1 || !sub.Params[0].ByRef || sub.Params[0].Name != "a" {
		t.Fatalf("expected by-reference array parameter a, got %+v", sub.Params)
	}
	found := false
	for _, instr := range sub.Code {
		if instr.Op == ir.OpXLoad {
			found = true
			if len(instr.Args) != 3 || instr.Args[0] != "a" {
				t.Fatalf("expected XLOAD a,idx,val using the parameter name directly as base, got %+v", instr.Args)
			}
		}
		if instr.Op == ir.OpALoad {
			t.Fatal("a by-reference array parameter should never need an ALOAD to take its address")
		}
	}
	if !found {
		t.Fatal("expected an XLOAD for a[0] := 7")
	}
}

// Seed scenario 4: call with widening and a discarded void-context result.
func TestSeedCallWithWideningAndVoidDiscard(t *testing.T) {
	ctx := compile(t, `
functions:
  - name: g
    params:
      - name: x
        type: float
    return: int
    body:
      - kind: return
        value: {kind: int, value: 1}
  - name: main
    body:
      - kind: call
        name: g
        args:
          - {kind: int, value: 1}
`)
	sub := subroutine(t, ctx, "main")
	assertOpsContainInOrder(t, sub, []ir.OpCode{
		ir.OpPush, ir.OpILoad, ir.OpFloat, ir.OpPush, ir.OpCall, ir.OpPop, ir.OpPop,
	})
	pushCount, popCount := 0, 0
	for _, instr := range sub.Code {
		if instr.Op == ir.OpPush {
			pushCount++
		}
		if instr.Op == ir.OpPop {
			popCount++
		}
	}
	if pushCount != 2 {
		t.Fatalf("expected 2 PUSHes (result slot + 1 widened arg), got %d", pushCount)
	}
	if popCount != 2 {
		t.Fatalf("expected 2 POPs (1 discarding the arg, 1 retrieving the result), got %d", popCount)
	}
}

// Seed scenario 5: if/else control flow.
func TestSeedIfElse(t *testing.T) {
	ctx := compile(t, `
functions:
  - name: main
    vars:
      - names: [x]
        type: int
      - names: [b]
        type: bool
    body:
      - kind: if
        cond: {kind: ident, name: b}
        then:
          - kind: assign
            left: {kind: ident, name: x}
            right: {kind: int, value: 1}
        else:
          - kind: assign
            left: {kind: ident, name: x}
            right: {kind: int, value: 2}
`)
	sub := subroutine(t, ctx, "main")
	assertOpsContainInOrder(t, sub, []ir.OpCode{
		ir.OpFJump, ir.OpILoad, ir.OpLoad, ir.OpUJump, ir.OpLabel, ir.OpILoad, ir.OpLoad, ir.OpLabel,
	})

	fjump := mustFind(t, sub, ir.OpFJump)
	ujump := mustFind(t, sub, ir.OpUJump)
	elseLabel := mustFind(t, sub, ir.OpLabel)
	if fjump.Args[1] != elseLabel.Args[0] {
		t.Fatalf("FJUMP should target the else label, got FJUMP->%s vs LABEL %s", fjump.Args[1], elseLabel.Args[0])
	}
	if ujump.Args[0] == elseLabel.Args[0] {
		t.Fatalf("UJUMP at the end of the then-branch should target the end label, not the else label")
	}
}

func mustFind(t *testing.T, sub ir.SubroutineIR, op ir.OpCode) ir.Instruction {
	t.Helper()
	for _, instr := range sub.Code {
		if instr.Op == op {
			return instr
		}
	}
	t.Fatalf("expected a %s instruction in %v", op, sub.Code)
	return ir.Instruction{}
}

// Array-to-array assignment copies exactly N elements via an explicit loop.
func TestArrayToArrayAssignCopiesAllElements(t *testing.T) {
	ctx := compile(t, `
functions:
  - name: main
    vars:
      - names: [a]
        type: {kind: array, size: 3, elem: int}
      - names: [c]
        type: {kind: array, size: 3, elem: int}
    body:
      - kind: assign
        left: {kind: ident, name: c}
        right: {kind: ident, name: a}
`)
	sub := subroutine(t, ctx, "main")
	loadXCount, xloadCount := 0, 0
	for _, instr := range sub.Code {
		if instr.Op == ir.OpLoadX {
			loadXCount++
		}
		if instr.Op == ir.OpXLoad {
			xloadCount++
		}
	}
	if loadXCount != 1 || xloadCount != 1 {
		t.Fatalf("expected exactly one LOADX/XLOAD pair inside the copy loop body, got LOADX=%d XLOAD=%d", loadXCount, xloadCount)
	}
	assertOpsContainInOrder(t, sub, []ir.OpCode{ir.OpALoad, ir.OpLabel, ir.OpLt, ir.OpFJump, ir.OpLoadX, ir.OpXLoad, ir.OpUJump, ir.OpLabel})
}

func TestArrayToArrayAssignThroughParensCopiesAllElements(t *testing.T) {
	ctx := compile(t, `
functions:
  - name: main
    vars:
      - names: [a]
        type: {kind: array, size: 3, elem: int}
      - names: [c]
        type: {kind: array, size: 3, elem: int}
    body:
      - kind: assign
        left: {kind: ident, name: c}
        right: {kind: paren, inner: {kind: paren, inner: {kind: ident, name: a}}}
`)
	sub := subroutine(t, ctx, "main")
	loadXCount, xloadCount := 0, 0
	for _, instr := range sub.Code {
		if instr.Op == ir.OpLoadX {
			loadXCount++
		}
		if instr.Op == ir.OpXLoad {
			xloadCount++
		}
	}
	if loadXCount != 1 || xloadCount != 1 {
		t.Fatalf("a parenthesized array identifier on the right must still lower to a full copy loop, got LOADX=%d XLOAD=%d", loadXCount, xloadCount)
	}
	if err := ir.Validate(*ctx.IR); err != nil {
		t.Fatalf("Validate: %v", err)
	}
}

func TestGeneratedIRValidates(t *testing.T) {
	ctx := compile(t, `
functions:
  - name: main
    vars:
      - names: [x]
        type: int
    body:
      - kind: while
        cond: {kind: binary, op: "<", left: {kind: ident, name: x}, right: {kind: int, value: 10}}
        body:
          - kind: assign
            left: {kind: ident, name: x}
            right: {kind: binary, op: "+", left: {kind: ident, name: x}, right: {kind: int, value: 1}}
`)
	if err := ir.Validate(*ctx.IR); err != nil {
		t.Fatalf("Validate: %v", err)
	}
}

func TestGeneratedIRValidatesForArrayCopyAndCalls(t *testing.T) {
	ctx := compile(t, `
functions:
  - name: g
    params:
      - name: a
        type: {kind: array, size: 3, elem: int}
    return: int
    body:
      - kind: return
        value: {kind: index, name: a, index: {kind: int, value: 0}}
  - name: main
    vars:
      - names: [src]
        type: {kind: array, size: 3, elem: int}
      - names: [dst]
        type: {kind: array, size: 3, elem: int}
      - names: [r]
        type: int
    body:
      - kind: assign
        left: {kind: ident, name: dst}
        right: {kind: ident, name: src}
      - kind: assign
        left: {kind: ident, name: r}
        right: {kind: call, name: g, args: [{kind: ident, name: src}]}
`)
	if err := ir.Validate(*ctx.IR); err != nil {
		t.Fatalf("Validate: %v", err)
	}
}

func TestSerializeIncludesHeaderLocalsAndInstructions(t *testing.T) {
	ctx := compile(t, `
functions:
  - name: main
    vars:
      - names: [x]
        type: int
    body:
      - kind: assign
        left: {kind: ident, name: x}
        right: {kind: int, value: 3}
      - kind: write
        value: {kind: ident, name: x}
`)
	out := ir.Serialize(*ctx.IR)
	if out == "" {
		t.Fatal("expected non-empty serialized IR")
	}
	for _, want := range []string{"SUBROUTINE main()", "LOCAL x: int", "ILOAD", "WRITEI", "RETURN"} {
		if !strings.Contains(out, want) {
			t.Fatalf("serialized IR missing %q:\n%s", want, out)
		}
	}
}
