package checker

import (
	"fmt"

	"github.com/aslcore/aslc/internal/ast"
	"github.com/aslcore/aslc/internal/decor"
	"github.com/aslcore/aslc/internal/diagnostics"
	"github.com/aslcore/aslc/internal/symbols"
	"github.com/aslcore/aslc/internal/types"
)

// checkExpr checks an expression node, records its decoration, and
// returns its type. Error propagates: once a subexpression is Error, no
// further diagnostic is raised about it higher up the tree.
func (fc *funcChecker) checkExpr(e ast.Expr) types.TypeId {
	t, lv := fc.checkExprLV(e)
	fc.ctx.Decor.SetExpr(e, decor.Info{Type: t, IsLValue: lv})
	return t
}

func (fc *funcChecker) checkExprLV(e ast.Expr) (types.TypeId, bool) {
	switch ex := e.(type) {
	case *ast.IntLit:
		return types.Integer, false
	case *ast.FloatLit:
		return types.Float, false
	case *ast.BoolLit:
		return types.Boolean, false
	case *ast.CharLit:
		return types.Character, false
	case *ast.IdentExpr:
		return fc.checkIdentExpr(ex)
	case *ast.ArrayAccessExpr:
		return fc.checkArrayAccessExpr(ex)
	case *ast.CallExpr:
		return fc.checkCallExpr(ex)
	case *ast.UnaryExpr:
		return fc.checkUnary(ex)
	case *ast.BinaryExpr:
		return fc.checkBinary(ex)
	case *ast.ParenExpr:
		t := fc.checkExpr(ex.Inner)
		return t, false
	default:
		return types.Error, false
	}
}

func (fc *funcChecker) checkIdentExpr(ex *ast.IdentExpr) (types.TypeId, bool) {
	sym, ok := fc.ctx.Symbols.Resolve(ex.Name)
	if !ok {
		fc.report(diagnostics.UndeclaredIdent, ex.ValuePos, fmt.Sprintf("undeclared identifier %q", ex.Name))
		// l-value=true so that an undeclared identifier used as an
		// assignment target doesn't also raise NonReferenceableLeftExpr.
		return types.Error, true
	}
	// A bare reference to a function's name (no call) decorates with the
	// function's own type and is not an l-value; spec.md §4.B's Identifier
	// rule raises no diagnostic for this, only CallExpr's void-context
	// check (checkCallExpr) reports IsNotFunction.
	if sym.Kind == symbols.KindFunction {
		return sym.Type, false
	}
	return sym.Type, true
}

func (fc *funcChecker) checkArrayAccessExpr(ex *ast.ArrayAccessExpr) (types.TypeId, bool) {
	sym, ok := fc.ctx.Symbols.Resolve(ex.Name)
	if !ok {
		fc.report(diagnostics.UndeclaredIdent, ex.ValuePos, fmt.Sprintf("undeclared identifier %q", ex.Name))
		fc.checkExpr(ex.Index)
		return types.Error, false
	}
	idxT := fc.checkExpr(ex.Index)
	if !fc.ctx.Types.IsArray(sym.Type) {
		if sym.Type != types.Error {
			fc.report(diagnostics.NonArrayInArrayAccess, ex.ValuePos, fmt.Sprintf("%q is not an array", ex.Name))
		}
		return types.Error, false
	}
	if idxT != types.Error && !fc.ctx.Types.IsInteger(idxT) {
		fc.report(diagnostics.NonIntegerIndexInArrayAccess, ex.Index.Pos(), "array index must be integer")
	}
	return fc.ctx.Types.ArrayElem(sym.Type), true
}

func (fc *funcChecker) checkCallExpr(ex *ast.CallExpr) (types.TypeId, bool) {
	ret := fc.checkCall(ex.Name, ex.Args, ex.ValuePos, diagnostics.IsNotCallable)
	if ret == types.Error {
		return types.Error, false
	}
	if fc.ctx.Types.IsVoid(ret) {
		fc.report(diagnostics.IsNotFunction, ex.ValuePos, fmt.Sprintf("%q does not return a value", ex.Name))
		return types.Error, false
	}
	return ret, false
}

func (fc *funcChecker) checkUnary(ex *ast.UnaryExpr) (types.TypeId, bool) {
	t := fc.checkExpr(ex.Operand)
	if t == types.Error {
		return types.Error, false
	}
	switch ex.Op {
	case "+", "-":
		if !fc.ctx.Types.IsNumeric(t) {
			fc.report(diagnostics.IncompatibleOperator, ex.ValuePos,
				fmt.Sprintf("unary %q requires a numeric operand", ex.Op))
			return types.Error, false
		}
		// OPEN-Q1: the original compiler's type checker tags a unary
		// +/- expression Integer no matter the operand's type. Code
		// generation still dispatches on the operand's real type (see
		// internal/codegen), so this only matters for the type this
		// node reports to its parent — kept as-is for fidelity.
		return types.Integer, false
	case "not":
		if !fc.ctx.Types.IsBoolean(t) {
			fc.report(diagnostics.IncompatibleOperator, ex.ValuePos, "unary \"not\" requires a boolean operand")
			return types.Error, false
		}
		return types.Boolean, false
	default:
		fc.report(diagnostics.IncompatibleOperator, ex.ValuePos, fmt.Sprintf("unknown unary operator %q", ex.Op))
		return types.Error, false
	}
}

func (fc *funcChecker) checkBinary(ex *ast.BinaryExpr) (types.TypeId, bool) {
	lt := fc.checkExpr(ex.Left)
	rt := fc.checkExpr(ex.Right)
	if lt == types.Error || rt == types.Error {
		return types.Error, false
	}
	switch ex.Op {
	case "+", "-", "*", "/":
		if !fc.ctx.Types.IsNumeric(lt) || !fc.ctx.Types.IsNumeric(rt) {
			fc.report(diagnostics.IncompatibleOperator, ex.ValuePos,
				fmt.Sprintf("%q requires numeric operands", ex.Op))
			return types.Error, false
		}
		if lt == types.Float || rt == types.Float {
			return types.Float, false
		}
		return types.Integer, false
	case "%":
		if !fc.ctx.Types.IsInteger(lt) || !fc.ctx.Types.IsInteger(rt) {
			fc.report(diagnostics.IncompatibleOperator, ex.ValuePos, "%% requires integer operands")
			return types.Error, false
		}
		return types.Integer, false
	case "and", "or":
		if !fc.ctx.Types.IsBoolean(lt) || !fc.ctx.Types.IsBoolean(rt) {
			fc.report(diagnostics.IncompatibleOperator, ex.ValuePos,
				fmt.Sprintf("%q requires boolean operands", ex.Op))
			return types.Error, false
		}
		return types.Boolean, false
	case "=", "<>", "<", "<=", ">", ">=":
		if !fc.ctx.Types.Comparable(lt, rt, ex.Op) {
			fc.report(diagnostics.IncompatibleOperator, ex.ValuePos,
				fmt.Sprintf("%q cannot compare %s and %s", ex.Op, fc.ctx.Types.String(lt), fc.ctx.Types.String(rt)))
			return types.Error, false
		}
		return types.Boolean, false
	default:
		fc.report(diagnostics.IncompatibleOperator, ex.ValuePos, fmt.Sprintf("unknown operator %q", ex.Op))
		return types.Error, false
	}
}

// checkLExpr checks an l-value target (the left side of an assignment or
// the target of a read), records its decoration, and returns its type and
// whether it is in fact referenceable.
func (fc *funcChecker) checkLExpr(le ast.LExpr) (types.TypeId, bool) {
	var t types.TypeId
	var lv bool
	switch x := le.(type) {
	case *ast.IdentLExpr:
		sym, ok := fc.ctx.Symbols.Resolve(x.Name)
		if !ok {
			fc.report(diagnostics.UndeclaredIdent, x.ValuePos, fmt.Sprintf("undeclared identifier %q", x.Name))
			// l-value=true: avoid a second NonReferenceableLeftExpr
			// diagnostic on top of the UndeclaredIdent already reported.
			t, lv = types.Error, true
		} else if sym.Kind == symbols.KindFunction {
			t, lv = types.Error, false
		} else {
			t, lv = sym.Type, true
		}
	case *ast.ArrayLExpr:
		sym, ok := fc.ctx.Symbols.Resolve(x.Name)
		if !ok {
			fc.report(diagnostics.UndeclaredIdent, x.ValuePos, fmt.Sprintf("undeclared identifier %q", x.Name))
			fc.checkExpr(x.Index)
			t, lv = types.Error, true
			break
		}
		idxT := fc.checkExpr(x.Index)
		if !fc.ctx.Types.IsArray(sym.Type) {
			if sym.Type != types.Error {
				fc.report(diagnostics.NonArrayInArrayAccess, x.ValuePos, fmt.Sprintf("%q is not an array", x.Name))
			}
			t, lv = types.Error, false
			break
		}
		if idxT != types.Error && !fc.ctx.Types.IsInteger(idxT) {
			fc.report(diagnostics.NonIntegerIndexInArrayAccess, x.Index.Pos(), "array index must be integer")
		}
		t, lv = fc.ctx.Types.ArrayElem(sym.Type), true
	default:
		t, lv = types.Error, false
	}
	fc.ctx.Decor.SetExpr(le, decor.Info{Type: t, IsLValue: lv})
	return t, lv
}
