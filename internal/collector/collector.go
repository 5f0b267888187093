// Package collector implements component A of the semantic core: it walks
// the program once, defining every function in the global scope and every
// parameter/local in its own function scope, and checks that exactly one
// properly-shaped main function exists.
//
// Grounded on the two-phase (globals, then per-function locals) binding
// style of the retrieved hhramberg-go-vslc compiler's symbol-table
// builder (bindGlobal before per-function bind), and on the teacher's
// Scope{Symbols, Parent} shape from internal/semantic/pass_context.go.
package collector

import (
	"fmt"

	"github.com/aslcore/aslc/internal/ast"
	"github.com/aslcore/aslc/internal/diagnostics"
	"github.com/aslcore/aslc/internal/passes"
	"github.com/aslcore/aslc/internal/symbols"
	"github.com/aslcore/aslc/internal/types"
)

// Collector is the Pass implementation for component A.
type Collector struct{}

// New returns a Collector.
func New() *Collector { return &Collector{} }

// Name identifies this pass.
func (c *Collector) Name() string { return "collector" }

// Run implements passes.Pass.
func (c *Collector) Run(prog *ast.Program, ctx *passes.Context) error {
	global := ctx.Symbols.Global()
	ctx.Decor.SetScope(prog, global)

	hasMain := false
	for _, fn := range prog.Functions {
		retType := types.Void
		if fn.RetType != nil {
			retType = resolveType(ctx.Types, fn.RetType)
		}
		paramTypes := make([]types.TypeId, len(fn.Params))
		for i, p := range fn.Params {
			paramTypes[i] = resolveType(ctx.Types, p.Type)
		}
		funcType := ctx.Types.Function(paramTypes, retType)
		sym := &symbols.Symbol{Name: fn.Name, Kind: symbols.KindFunction, Type: funcType}
		if !global.Define(sym) {
			ctx.Diags.Add(diagnostics.Diagnostic{
				Kind:    diagnostics.DuplicateDeclaration,
				Pos:     fn.NamePos,
				Message: fmt.Sprintf("function %q already declared", fn.Name),
			})
		}
		if fn.Name == "main" && len(fn.Params) == 0 && retType == types.Void {
			hasMain = true
		}
	}
	if !hasMain {
		ctx.Diags.Add(diagnostics.Diagnostic{
			Kind:    diagnostics.NoMainProperlyDeclared,
			Pos:     prog.Pos(),
			Message: "program must declare a parameterless, void function named \"main\"",
		})
	}

	for _, fn := range prog.Functions {
		scope := ctx.Symbols.Push()
		ctx.Decor.SetScope(fn, scope)

		for _, p := range fn.Params {
			t := resolveType(ctx.Types, p.Type)
			sym := &symbols.Symbol{Name: p.Name, Kind: symbols.KindParameter, Type: t, ByRef: ctx.Types.IsArray(t)}
			if !scope.Define(sym) {
				ctx.Diags.Add(diagnostics.Diagnostic{
					Kind:    diagnostics.DuplicateDeclaration,
					Pos:     p.NamePos,
					Message: fmt.Sprintf("parameter %q already declared", p.Name),
				})
			}
		}
		if fn.Decls != nil {
			for _, vd := range fn.Decls.Vars {
				t := resolveType(ctx.Types, vd.Type)
				for _, name := range vd.Names {
					sym := &symbols.Symbol{Name: name, Kind: symbols.KindVariable, Type: t}
					if !scope.Define(sym) {
						ctx.Diags.Add(diagnostics.Diagnostic{
							Kind:    diagnostics.DuplicateDeclaration,
							Pos:     vd.DeclPos,
							Message: fmt.Sprintf("name %q already declared", name),
						})
					}
				}
			}
		}

		ctx.Symbols.Pop()
	}
	return nil
}

// resolveType maps an ast.TypeExpr annotation onto an interned TypeId.
func resolveType(m *types.Manager, te ast.TypeExpr) types.TypeId {
	switch t := te.(type) {
	case *ast.IntType:
		return types.Integer
	case *ast.FloatType:
		return types.Float
	case *ast.BoolType:
		return types.Boolean
	case *ast.CharType:
		return types.Character
	case *ast.ArrayType:
		return m.Array(resolveType(m, t.Elem), t.Size)
	default:
		return types.Error
	}
}
