// Package codegen implements component C of the semantic core: it lowers
// a checked program into the three-address IR of internal/ir, reading the
// types the checker attached via internal/decor and the symbols the
// collector attached via internal/symbols.
//
// The register/label counter bookkeeping and the PUSH-args/CALL/POP
// calling convention are grounded on the teacher's
// internal/bytecode/compiler_core.go (its local/globalVar/loopContext
// slot counters) and compiler_statements.go/compiler_expressions.go,
// retargeted from the teacher's byte-packed stack-VM opcodes onto this
// core's named, string-operand three-address opcodes.
package codegen

import (
	"strconv"

	"github.com/aslcore/aslc/internal/ast"
	"github.com/aslcore/aslc/internal/ir"
	"github.com/aslcore/aslc/internal/passes"
	"github.com/aslcore/aslc/internal/symbols"
	"github.com/aslcore/aslc/internal/types"
)

// Codegen is the Pass implementation for component C.
type Codegen struct{}

// New returns a Codegen.
func New() *Codegen { return &Codegen{} }

// Name identifies this pass.
func (c *Codegen) Name() string { return "codegen" }

// Run implements passes.Pass.
func (c *Codegen) Run(prog *ast.Program, ctx *passes.Context) error {
	program := ir.ProgramIR{}
	for _, fn := range prog.Functions {
		program.Subroutines = append(program.Subroutines, buildSubroutine(fn, ctx))
	}
	ctx.IR = &program
	return nil
}

// fnGen holds the per-subroutine state while lowering one function:
// fresh register/label counters (reset for every function, per spec's
// determinism requirement) and the shared context.
type fnGen struct {
	ctx  *passes.Context
	tmp  int
	ifN  int
	whN  int
	forN int
}

func buildSubroutine(fn *ast.Function, ctx *passes.Context) ir.SubroutineIR {
	scope, _ := ctx.Decor.Scope(fn)
	ctx.Symbols.Enter(scope)

	retSym, _ := ctx.Symbols.Global().Lookup(fn.Name)
	retType := types.Void
	if retSym != nil {
		retType = ctx.Types.FuncReturn(retSym.Type)
	}

	sub := ir.SubroutineIR{Name: fn.Name}
	if retType != types.Void {
		sub.Params = append(sub.Params, ir.Param{Name: "_result", Type: ctx.Types.String(retType)})
	}
	for _, p := range fn.Params {
		sym, _ := scope.Lookup(p.Name)
		sub.Params = append(sub.Params, ir.Param{Name: p.Name, Type: typeNameForSlot(ctx.Types, sym.Type), ByRef: sym.ByRef})
	}
	if fn.Decls != nil {
		for _, vd := range fn.Decls.Vars {
			for _, name := range vd.Names {
				sym, _ := scope.Lookup(name)
				count := ctx.Types.SizeOf(sym.Type)
				elemType := sym.Type
				if ctx.Types.IsArray(sym.Type) {
					elemType = ctx.Types.ArrayElem(sym.Type)
				}
				sub.Locals = append(sub.Locals, ir.Local{Name: name, Type: ctx.Types.String(elemType), Count: count})
			}
		}
	}

	g := &fnGen{ctx: ctx}
	for _, stmt := range fn.Body {
		sub.Code = append(sub.Code, g.lowerStmt(stmt, retType)...)
	}
	sub.Code = append(sub.Code, ir.Instruction{Op: ir.OpReturn})

	ctx.Symbols.Pop()
	return sub
}

func typeNameForSlot(m *types.Manager, t types.TypeId) string {
	if m.IsArray(t) {
		return m.String(m.ArrayElem(t))
	}
	return m.String(t)
}

func (g *fnGen) newTemp() string {
	name := "%" + strconv.Itoa(g.tmp)
	g.tmp++
	return name
}

func (g *fnGen) newIfLabels() (string, string) {
	k := g.ifN
	g.ifN++
	base := "labelIF_" + strconv.Itoa(k)
	return base + "_else", base + "_end"
}

func (g *fnGen) newWhileLabels() (string, string) {
	k := g.whN
	g.whN++
	base := "labelWHILE_" + strconv.Itoa(k)
	return base + "_start", base + "_end"
}

func (g *fnGen) newForLabels() (string, string) {
	k := g.forN
	g.forN++
	base := "labelFOR_" + strconv.Itoa(k)
	return base + "_start", base + "_end"
}

// symbolOf resolves name against the active scope. Codegen runs after the
// checker has already validated every reference, so a miss here would be
// an internal bug, not a user-facing error.
func (g *fnGen) symbolOf(name string) *symbols.Symbol {
	sym, _ := g.ctx.Symbols.Resolve(name)
	return sym
}

func (g *fnGen) lowerStmt(stmt ast.Stmt, retType types.TypeId) []ir.Instruction {
	switch s := stmt.(type) {
	case *ast.AssignStmt:
		return g.lowerAssign(s)
	case *ast.IfStmt:
		return g.lowerIf(s, retType)
	case *ast.WhileStmt:
		return g.lowerWhile(s, retType)
	case *ast.ProcCallStmt:
		_, code := g.lowerCall(s.Name, s.Args)
		return code
	case *ast.ReadStmt:
		return g.lowerRead(s)
	case *ast.WriteStmt:
		return g.lowerWrite(s)
	case *ast.WriteStringStmt:
		return []ir.Instruction{{Op: ir.OpWriteS, Args: []string{strconv.Quote(s.Value)}}}
	case *ast.ReturnStmt:
		return g.lowerReturn(s, retType)
	default:
		return nil
	}
}

func (g *fnGen) lowerIf(s *ast.IfStmt, retType types.TypeId) []ir.Instruction {
	condAddr, _, condCode := g.lowerExpr(s.Cond)
	elseLbl, endLbl := g.newIfLabels()

	var code []ir.Instruction
	code = append(code, condCode...)
	code = append(code, ir.Instruction{Op: ir.OpFJump, Args: []string{condAddr, elseLbl}})
	for _, st := range s.Then {
		code = append(code, g.lowerStmt(st, retType)...)
	}
	if len(s.Else) == 0 {
		code = append(code, ir.Instruction{Op: ir.OpLabel, Args: []string{elseLbl}})
		return code
	}
	code = append(code, ir.Instruction{Op: ir.OpUJump, Args: []string{endLbl}})
	code = append(code, ir.Instruction{Op: ir.OpLabel, Args: []string{elseLbl}})
	for _, st := range s.Else {
		code = append(code, g.lowerStmt(st, retType)...)
	}
	code = append(code, ir.Instruction{Op: ir.OpLabel, Args: []string{endLbl}})
	return code
}

func (g *fnGen) lowerWhile(s *ast.WhileStmt, retType types.TypeId) []ir.Instruction {
	startLbl, endLbl := g.newWhileLabels()
	var code []ir.Instruction
	code = append(code, ir.Instruction{Op: ir.OpLabel, Args: []string{startLbl}})
	condAddr, _, condCode := g.lowerExpr(s.Cond)
	code = append(code, condCode...)
	code = append(code, ir.Instruction{Op: ir.OpFJump, Args: []string{condAddr, endLbl}})
	for _, st := range s.Body {
		code = append(code, g.lowerStmt(st, retType)...)
	}
	code = append(code, ir.Instruction{Op: ir.OpUJump, Args: []string{startLbl}})
	code = append(code, ir.Instruction{Op: ir.OpLabel, Args: []string{endLbl}})
	return code
}

func (g *fnGen) lowerRead(s *ast.ReadStmt) []ir.Instruction {
	addr, offset, code := g.lowerLExpr(s.Target)
	elemType := g.lexprType(s.Target)
	op := readOpFor(g.ctx.Types, elemType)
	if offset == "" {
		return append(code, ir.Instruction{Op: op, Args: []string{addr}})
	}
	tmp := g.newTemp()
	code = append(code, ir.Instruction{Op: op, Args: []string{tmp}})
	code = append(code, ir.Instruction{Op: ir.OpXLoad, Args: []string{addr, offset, tmp}})
	return code
}

func (g *fnGen) lowerWrite(s *ast.WriteStmt) []ir.Instruction {
	addr, _, code := g.lowerExpr(s.Value)
	info, _ := g.ctx.Decor.Expr(s.Value)
	op := writeOpFor(g.ctx.Types, info.Type)
	return append(code, ir.Instruction{Op: op, Args: []string{addr}})
}

func (g *fnGen) lowerReturn(s *ast.ReturnStmt, retType types.TypeId) []ir.Instruction {
	if s.Value == nil {
		return []ir.Instruction{{Op: ir.OpReturn}}
	}
	addr, _, code := g.lowerExpr(s.Value)
	info, _ := g.ctx.Decor.Expr(s.Value)
	addr, widenCode := widen(g, addr, info.Type, retType)
	code = append(code, widenCode...)
	code = append(code, ir.Instruction{Op: ir.OpLoad, Args: []string{"_result", addr}})
	code = append(code, ir.Instruction{Op: ir.OpReturn})
	return code
}

func readOpFor(m *types.Manager, t types.TypeId) ir.OpCode {
	switch {
	case m.IsFloat(t):
		return ir.OpReadF
	case m.IsCharacter(t):
		return ir.OpReadC
	default:
		return ir.OpReadI
	}
}

func writeOpFor(m *types.Manager, t types.TypeId) ir.OpCode {
	switch {
	case m.IsFloat(t):
		return ir.OpWriteF
	case m.IsCharacter(t):
		return ir.OpWriteC
	default:
		return ir.OpWriteI
	}
}

// widen emits the FLOAT (int-to-float) conversion when assigning or
// passing an Integer-typed value where a Float is expected.
func widen(g *fnGen, addr string, from, to types.TypeId) (string, []ir.Instruction) {
	if to == types.Float && from == types.Integer {
		dst := g.newTemp()
		return dst, []ir.Instruction{{Op: ir.OpFloat, Args: []string{dst, addr}}}
	}
	return addr, nil
}
