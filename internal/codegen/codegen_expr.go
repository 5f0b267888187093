package codegen

import (
	"strconv"

	"github.com/aslcore/aslc/internal/ast"
	"github.com/aslcore/aslc/internal/ir"
	"github.com/aslcore/aslc/internal/symbols"
	"github.com/aslcore/aslc/internal/types"
)

func pick(cond bool, ifTrue, ifFalse ir.OpCode) ir.OpCode {
	if cond {
		return ifTrue
	}
	return ifFalse
}

// arrayBase returns the operand to use as the base address of sym's
// storage: the symbol's own name when it is a by-reference (parameter)
// array, which already holds a pointer in its slot, or a fresh ALOAD of a
// by-value local array, which needs its address taken first.
func (g *fnGen) arrayBase(sym *symbols.Symbol) (string, []ir.Instruction) {
	if sym.ByRef {
		return sym.Name, nil
	}
	tmp := g.newTemp()
	return tmp, []ir.Instruction{{Op: ir.OpALoad, Args: []string{tmp, sym.Name}}}
}

// arrayOperandBase returns the base-address operand for an Expr that
// denotes a whole array value, either on the right of an array-to-array
// assignment or as an argument for an array parameter. The grammar's only Expr form that can carry an array type
// is an identifier, possibly wrapped in one or more ParenExprs (Paren
// propagates its inner type unchanged per spec.md §4.B), so this peels
// through parentheses down to the identifier and defers to arrayBase.
func (g *fnGen) arrayOperandBase(e ast.Expr) (string, []ir.Instruction) {
	switch ex := e.(type) {
	case *ast.ParenExpr:
		return g.arrayOperandBase(ex.Inner)
	case *ast.IdentExpr:
		return g.arrayBase(g.symbolOf(ex.Name))
	default:
		return "", nil
	}
}

// lexprType returns the type decoration the checker recorded for an
// l-value node.
func (g *fnGen) lexprType(le ast.LExpr) types.TypeId {
	info, _ := g.ctx.Decor.Expr(le)
	return info.Type
}

// lowerExpr lowers an expression to the (address, offset, code) triple:
// address is where the value lives (a virtual register or a symbol
// name), offset is the index register when e is an array element (address
// then holds the element value already loaded with LOADX), and code is the
// instruction sequence that must run, in order, before address is valid.
func (g *fnGen) lowerExpr(e ast.Expr) (string, string, []ir.Instruction) {
	switch ex := e.(type) {
	case *ast.IntLit:
		dst := g.newTemp()
		return dst, "", []ir.Instruction{{Op: ir.OpILoad, Args: []string{dst, strconv.FormatInt(ex.Value, 10)}}}
	case *ast.FloatLit:
		dst := g.newTemp()
		return dst, "", []ir.Instruction{{Op: ir.OpFLoad, Args: []string{dst, strconv.FormatFloat(ex.Value, 'g', -1, 64)}}}
	case *ast.BoolLit:
		dst := g.newTemp()
		v := "0"
		if ex.Value {
			v = "1"
		}
		return dst, "", []ir.Instruction{{Op: ir.OpILoad, Args: []string{dst, v}}}
	case *ast.CharLit:
		dst := g.newTemp()
		return dst, "", []ir.Instruction{{Op: ir.OpCHLoad, Args: []string{dst, strconv.QuoteRune(ex.Value)}}}
	case *ast.IdentExpr:
		return ex.Name, "", nil
	case *ast.ArrayAccessExpr:
		idxAddr, _, idxCode := g.lowerExpr(ex.Index)
		sym := g.symbolOf(ex.Name)
		baseAddr, baseCode := g.arrayBase(sym)
		dst := g.newTemp()
		code := append(append(idxCode, baseCode...), ir.Instruction{Op: ir.OpLoadX, Args: []string{dst, baseAddr, idxAddr}})
		return dst, idxAddr, code
	case *ast.CallExpr:
		addr, code := g.lowerCall(ex.Name, ex.Args)
		return addr, "", code
	case *ast.UnaryExpr:
		return g.lowerUnary(ex)
	case *ast.BinaryExpr:
		return g.lowerBinary(ex)
	case *ast.ParenExpr:
		return g.lowerExpr(ex.Inner)
	default:
		return "", "", nil
	}
}

func (g *fnGen) lowerUnary(ex *ast.UnaryExpr) (string, string, []ir.Instruction) {
	operandAddr, _, operandCode := g.lowerExpr(ex.Operand)
	operandInfo, _ := g.ctx.Decor.Expr(ex.Operand)
	switch ex.Op {
	case "+":
		// Identity at runtime: the OPEN-Q1 mistyping (the checker always
		// tags unary + as Integer) only affects the type this node
		// reports upward, not the value, so no instruction is needed.
		return operandAddr, "", operandCode
	case "-":
		dst := g.newTemp()
		op := pick(g.ctx.Types.IsFloat(operandInfo.Type), ir.OpFNeg, ir.OpNeg)
		code := append(operandCode, ir.Instruction{Op: op, Args: []string{dst, operandAddr}})
		return dst, "", code
	case "not":
		dst := g.newTemp()
		code := append(operandCode, ir.Instruction{Op: ir.OpNot, Args: []string{dst, operandAddr}})
		return dst, "", code
	default:
		return operandAddr, "", operandCode
	}
}

func (g *fnGen) lowerBinary(ex *ast.BinaryExpr) (string, string, []ir.Instruction) {
	leftAddr, _, leftCode := g.lowerExpr(ex.Left)
	rightAddr, _, rightCode := g.lowerExpr(ex.Right)
	leftInfo, _ := g.ctx.Decor.Expr(ex.Left)
	rightInfo, _ := g.ctx.Decor.Expr(ex.Right)
	resultInfo, _ := g.ctx.Decor.Expr(ex)
	code := append(leftCode, rightCode...)

	switch ex.Op {
	case "+", "-", "*", "/":
		lA, lw := widen(g, leftAddr, leftInfo.Type, resultInfo.Type)
		rA, rw := widen(g, rightAddr, rightInfo.Type, resultInfo.Type)
		code = append(code, lw...)
		code = append(code, rw...)
		dst := g.newTemp()
		isFloat := g.ctx.Types.IsFloat(resultInfo.Type)
		var op ir.OpCode
		switch ex.Op {
		case "+":
			op = pick(isFloat, ir.OpFAdd, ir.OpAdd)
		case "-":
			op = pick(isFloat, ir.OpFSub, ir.OpSub)
		case "*":
			op = pick(isFloat, ir.OpFMul, ir.OpMul)
		case "/":
			op = pick(isFloat, ir.OpFDiv, ir.OpDiv)
		}
		code = append(code, ir.Instruction{Op: op, Args: []string{dst, lA, rA}})
		return dst, "", code
	case "%":
		dst := g.newTemp()
		code = append(code, ir.Instruction{Op: ir.OpMod, Args: []string{dst, leftAddr, rightAddr}})
		return dst, "", code
	case "and":
		dst := g.newTemp()
		code = append(code, ir.Instruction{Op: ir.OpAnd, Args: []string{dst, leftAddr, rightAddr}})
		return dst, "", code
	case "or":
		dst := g.newTemp()
		code = append(code, ir.Instruction{Op: ir.OpOr, Args: []string{dst, leftAddr, rightAddr}})
		return dst, "", code
	case "=", "<>", "<", "<=", ">", ">=":
		isFloat := g.ctx.Types.IsFloat(leftInfo.Type) || g.ctx.Types.IsFloat(rightInfo.Type)
		common := types.Integer
		if isFloat {
			common = types.Float
		}
		lA, lw := widen(g, leftAddr, leftInfo.Type, common)
		rA, rw := widen(g, rightAddr, rightInfo.Type, common)
		code = append(code, lw...)
		code = append(code, rw...)
		dst := g.newTemp()
		switch ex.Op {
		case "=":
			code = append(code, ir.Instruction{Op: pick(isFloat, ir.OpFEq, ir.OpEq), Args: []string{dst, lA, rA}})
		case "<>":
			tmp := g.newTemp()
			code = append(code, ir.Instruction{Op: pick(isFloat, ir.OpFEq, ir.OpEq), Args: []string{tmp, lA, rA}})
			code = append(code, ir.Instruction{Op: ir.OpNot, Args: []string{dst, tmp}})
		case "<":
			code = append(code, ir.Instruction{Op: pick(isFloat, ir.OpFLt, ir.OpLt), Args: []string{dst, lA, rA}})
		case "<=":
			code = append(code, ir.Instruction{Op: pick(isFloat, ir.OpFLe, ir.OpLe), Args: []string{dst, lA, rA}})
		case ">":
			code = append(code, ir.Instruction{Op: pick(isFloat, ir.OpFLt, ir.OpLt), Args: []string{dst, rA, lA}})
		case ">=":
			code = append(code, ir.Instruction{Op: pick(isFloat, ir.OpFLe, ir.OpLe), Args: []string{dst, rA, lA}})
		}
		return dst, "", code
	default:
		return leftAddr, "", code
	}
}

// lowerLExpr lowers an assignment target or read target to an
// (address, offset, code) triple with the same shape as lowerExpr, except
// address never needs to be loaded: it names a storage location, not a
// value already computed.
func (g *fnGen) lowerLExpr(le ast.LExpr) (string, string, []ir.Instruction) {
	switch x := le.(type) {
	case *ast.IdentLExpr:
		sym := g.symbolOf(x.Name)
		if g.ctx.Types.IsArray(sym.Type) {
			addr, code := g.arrayBase(sym)
			return addr, "", code
		}
		return x.Name, "", nil
	case *ast.ArrayLExpr:
		idxAddr, _, idxCode := g.lowerExpr(x.Index)
		sym := g.symbolOf(x.Name)
		baseAddr, baseCode := g.arrayBase(sym)
		code := append(idxCode, baseCode...)
		return baseAddr, idxAddr, code
	default:
		return "", "", nil
	}
}

// lowerAssign lowers an assignment statement: a scalar store, an indexed
// array-element store, or — when the left side names a whole array — an
// explicit element-wise copy loop.
func (g *fnGen) lowerAssign(s *ast.AssignStmt) []ir.Instruction {
	addr, offset, code := g.lowerLExpr(s.Left)
	leftType := g.lexprType(s.Left)

	if offset != "" {
		rhsAddr, _, rhsCode := g.lowerExpr(s.Right)
		rhsInfo, _ := g.ctx.Decor.Expr(s.Right)
		widenedAddr, widenCode := widen(g, rhsAddr, rhsInfo.Type, leftType)
		code = append(code, rhsCode...)
		code = append(code, widenCode...)
		code = append(code, ir.Instruction{Op: ir.OpXLoad, Args: []string{addr, offset, widenedAddr}})
		return code
	}

	if g.ctx.Types.IsArray(leftType) {
		rhsBase, rhsCode := g.arrayOperandBase(s.Right)
		code = append(code, rhsCode...)

		size := g.ctx.Types.ArraySize(leftType)
		i, end, tmp, cond, one := g.newTemp(), g.newTemp(), g.newTemp(), g.newTemp(), g.newTemp()
		startLbl, endLbl := g.newForLabels()
		code = append(code, ir.Instruction{Op: ir.OpILoad, Args: []string{i, "0"}})
		code = append(code, ir.Instruction{Op: ir.OpILoad, Args: []string{end, strconv.Itoa(size)}})
		code = append(code, ir.Instruction{Op: ir.OpLabel, Args: []string{startLbl}})
		code = append(code, ir.Instruction{Op: ir.OpLt, Args: []string{cond, i, end}})
		code = append(code, ir.Instruction{Op: ir.OpFJump, Args: []string{cond, endLbl}})
		code = append(code, ir.Instruction{Op: ir.OpLoadX, Args: []string{tmp, rhsBase, i}})
		code = append(code, ir.Instruction{Op: ir.OpXLoad, Args: []string{addr, i, tmp}})
		code = append(code, ir.Instruction{Op: ir.OpILoad, Args: []string{one, "1"}})
		code = append(code, ir.Instruction{Op: ir.OpAdd, Args: []string{i, i, one}})
		code = append(code, ir.Instruction{Op: ir.OpUJump, Args: []string{startLbl}})
		code = append(code, ir.Instruction{Op: ir.OpLabel, Args: []string{endLbl}})
		return code
	}

	rhsAddr, _, rhsCode := g.lowerExpr(s.Right)
	rhsInfo, _ := g.ctx.Decor.Expr(s.Right)
	widenedAddr, widenCode := widen(g, rhsAddr, rhsInfo.Type, leftType)
	code = append(code, rhsCode...)
	code = append(code, widenCode...)
	code = append(code, ir.Instruction{Op: ir.OpLoad, Args: []string{addr, widenedAddr}})
	return code
}

// lowerCall lowers a call's arguments and the PUSH/CALL/POP calling
// convention shared by call expressions and procedure-call statements: a
// reserved result slot (if non-void), one PUSH per argument in source
// order (widened, or ALOAD'd for a whole-array argument, as needed), the
// CALL itself, one discarding POP per argument, and — if non-void — one
// POP that retrieves the result into a fresh temporary.
func (g *fnGen) lowerCall(name string, args []ast.Expr) (string, []ir.Instruction) {
	sym := g.symbolOf(name)
	retType := g.ctx.Types.FuncReturn(sym.Type)
	paramTypes := g.ctx.Types.FuncParams(sym.Type)

	var code []ir.Instruction
	if retType != types.Void {
		code = append(code, ir.Instruction{Op: ir.OpPush})
	}
	for i, a := range args {
		if i >= len(paramTypes) {
			break // the checker already reported a NumberOfParameters mismatch
		}
		paramT := paramTypes[i]
		if g.ctx.Types.IsArray(paramT) {
			baseAddr, baseCode := g.arrayOperandBase(a)
			if baseAddr == "" {
				continue
			}
			code = append(code, baseCode...)
			code = append(code, ir.Instruction{Op: ir.OpPush, Args: []string{baseAddr}})
			continue
		}
		argAddr, _, argCode := g.lowerExpr(a)
		argInfo, _ := g.ctx.Decor.Expr(a)
		widenedAddr, widenCode := widen(g, argAddr, argInfo.Type, paramT)
		code = append(code, argCode...)
		code = append(code, widenCode...)
		code = append(code, ir.Instruction{Op: ir.OpPush, Args: []string{widenedAddr}})
	}
	code = append(code, ir.Instruction{Op: ir.OpCall, Args: []string{name}})
	for range args {
		code = append(code, ir.Instruction{Op: ir.OpPop})
	}
	var resultAddr string
	if retType != types.Void {
		resultAddr = g.newTemp()
		code = append(code, ir.Instruction{Op: ir.OpPop, Args: []string{resultAddr}})
	}
	return resultAddr, code
}
