// Package checker implements component B of the semantic core: it visits
// every function body, resolving identifiers against the scopes the
// collector built, checking every statement and expression rule spec.md
// §4.B lists, and recording a (TypeId, isLValue) decoration on every
// expression and l-value node it visits.
//
// Grounded on the declare-then-check two-pass shape of the retrieved
// Hassandahiru compiler's internal/semantic.Analyzer — in particular its
// side-table exprTypes map instead of mutating AST nodes, which is the
// same role internal/decor plays here.
package checker

import (
	"fmt"

	"github.com/aslcore/aslc/internal/ast"
	"github.com/aslcore/aslc/internal/diagnostics"
	"github.com/aslcore/aslc/internal/lexer"
	"github.com/aslcore/aslc/internal/passes"
	"github.com/aslcore/aslc/internal/symbols"
	"github.com/aslcore/aslc/internal/types"
)

// Checker is the Pass implementation for component B.
type Checker struct{}

// New returns a Checker.
func New() *Checker { return &Checker{} }

// Name identifies this pass.
func (c *Checker) Name() string { return "checker" }

// Run implements passes.Pass.
func (c *Checker) Run(prog *ast.Program, ctx *passes.Context) error {
	for _, fn := range prog.Functions {
		scope, ok := ctx.Decor.Scope(fn)
		if !ok {
			continue // collector didn't register this function; nothing to check
		}
		ctx.Symbols.Enter(scope)

		retType := types.Void
		if fn.RetType != nil {
			if sym, ok := ctx.Symbols.Global().Lookup(fn.Name); ok {
				retType = ctx.Types.FuncReturn(sym.Type)
			}
		}
		fc := &funcChecker{ctx: ctx, retType: retType}
		for _, stmt := range fn.Body {
			fc.checkStmt(stmt)
		}
	}
	return nil
}

// funcChecker holds the state needed while checking one function body:
// the shared pass context plus that function's declared return type.
type funcChecker struct {
	ctx     *passes.Context
	retType types.TypeId
}

func (fc *funcChecker) checkStmt(stmt ast.Stmt) {
	switch s := stmt.(type) {
	case *ast.AssignStmt:
		fc.checkAssign(s)
	case *ast.IfStmt:
		fc.checkCond(s.Cond)
		for _, st := range s.Then {
			fc.checkStmt(st)
		}
		for _, st := range s.Else {
			fc.checkStmt(st)
		}
	case *ast.WhileStmt:
		fc.checkCond(s.Cond)
		for _, st := range s.Body {
			fc.checkStmt(st)
		}
	case *ast.ProcCallStmt:
		fc.checkCall(s.Name, s.Args, s.Pos(), diagnostics.IsNotCallable)
	case *ast.ReadStmt:
		fc.checkRead(s)
	case *ast.WriteStmt:
		fc.checkWrite(s)
	case *ast.WriteStringStmt:
		// no checks: a literal string is always well-formed
	case *ast.ReturnStmt:
		fc.checkReturn(s)
	}
}

func (fc *funcChecker) checkAssign(s *ast.AssignStmt) {
	leftT, leftLV := fc.checkLExpr(s.Left)
	rightT := fc.checkExpr(s.Right)
	if !leftLV {
		fc.report(diagnostics.NonReferenceableLeftExpr, s.Left.Pos(), "left-hand side is not assignable")
		return
	}
	if leftT == types.Error || rightT == types.Error {
		return
	}
	if !fc.ctx.Types.Copyable(leftT, rightT) {
		fc.report(diagnostics.IncompatibleAssignment, s.Pos(),
			fmt.Sprintf("cannot assign %s to %s", fc.ctx.Types.String(rightT), fc.ctx.Types.String(leftT)))
	}
}

func (fc *funcChecker) checkCond(cond ast.Expr) {
	t := fc.checkExpr(cond)
	if t != types.Error && !fc.ctx.Types.IsBoolean(t) {
		fc.report(diagnostics.BooleanRequired, cond.Pos(), "condition must be boolean")
	}
}

func (fc *funcChecker) checkRead(s *ast.ReadStmt) {
	t, lv := fc.checkLExpr(s.Target)
	if t == types.Error {
		return
	}
	if !lv {
		fc.report(diagnostics.NonReferenceableExpression, s.Target.Pos(), "read target is not assignable")
		return
	}
	if !fc.ctx.Types.IsPrimitive(t) {
		fc.report(diagnostics.ReadWriteRequireBasic, s.Target.Pos(), "read target must be a basic type")
	}
}

func (fc *funcChecker) checkWrite(s *ast.WriteStmt) {
	t := fc.checkExpr(s.Value)
	if t == types.Error {
		return
	}
	if !fc.ctx.Types.IsPrimitive(t) {
		fc.report(diagnostics.ReadWriteRequireBasic, s.Value.Pos(), "write operand must be a basic type")
	}
}

func (fc *funcChecker) checkReturn(s *ast.ReturnStmt) {
	if fc.ctx.Types.IsVoid(fc.retType) {
		if s.Value != nil {
			fc.checkExpr(s.Value)
			fc.report(diagnostics.IncompatibleReturn, s.Pos(), "void function must not return a value")
		}
		return
	}
	if s.Value == nil {
		fc.report(diagnostics.IncompatibleReturn, s.Pos(), "non-void function must return a value")
		return
	}
	t := fc.checkExpr(s.Value)
	if t == types.Error {
		return
	}
	if !fc.ctx.Types.Copyable(fc.retType, t) {
		fc.report(diagnostics.IncompatibleReturn, s.Pos(),
			fmt.Sprintf("cannot return %s from a function declared %s", fc.ctx.Types.String(t), fc.ctx.Types.String(fc.retType)))
	}
}

// checkCall checks a call's callee and arguments, shared by both
// procedure-call statements and call expressions, and returns the
// callee's return type (Void for a procedure). notFunctionKind is the
// diagnostic kind reported for a non-function callee; both call sites
// (procedure-call statements and call expressions) pass IsNotCallable.
func (fc *funcChecker) checkCall(name string, args []ast.Expr, pos lexer.Position, notFunctionKind diagnostics.Kind) types.TypeId {
	sym, ok := fc.ctx.Symbols.Resolve(name)
	if !ok {
		fc.report(diagnostics.UndeclaredIdent, pos, fmt.Sprintf("undeclared identifier %q", name))
		for _, a := range args {
			fc.checkExpr(a)
		}
		return types.Error
	}
	if sym.Kind != symbols.KindFunction {
		fc.report(notFunctionKind, pos, fmt.Sprintf("%q is not a function", name))
		for _, a := range args {
			fc.checkExpr(a)
		}
		return types.Error
	}
	params := fc.ctx.Types.FuncParams(sym.Type)
	if len(args) != len(params) {
		fc.report(diagnostics.NumberOfParameters, pos,
			fmt.Sprintf("%q expects %d argument(s), got %d", name, len(params), len(args)))
	}
	n := len(args)
	if len(params) < n {
		n = len(params)
	}
	for i := 0; i < n; i++ {
		argT := fc.checkExpr(args[i])
		if argT == types.Error {
			continue
		}
		if !fc.ctx.Types.Copyable(params[i], argT) {
			fc.reportParam(args[i].Pos(), i+1,
				fmt.Sprintf("argument %d: cannot pass %s as %s", i+1, fc.ctx.Types.String(argT), fc.ctx.Types.String(params[i])))
		}
	}
	for i := n; i < len(args); i++ {
		fc.checkExpr(args[i])
	}
	return fc.ctx.Types.FuncReturn(sym.Type)
}

func (fc *funcChecker) report(kind diagnostics.Kind, pos lexer.Position, msg string) {
	fc.ctx.Diags.Add(diagnostics.Diagnostic{Kind: kind, Pos: pos, Message: msg})
}

// reportParam reports an IncompatibleParameter diagnostic carrying its
// 1-based argument index as structured data, not just in the message text.
func (fc *funcChecker) reportParam(pos lexer.Position, index int, msg string) {
	fc.ctx.Diags.Add(diagnostics.Diagnostic{Kind: diagnostics.IncompatibleParameter, Pos: pos, Message: msg, Index: index})
}
