// Package decor implements the decoration side table: the collector
// records the owning scope of program and function nodes, and the type
// checker attaches a type and an l-value flag to expression and l-value
// nodes, without touching the AST itself.
//
// Keying the map by the ast.Node interface works because every concrete
// node type is used through a pointer, so interface equality reduces to
// pointer identity — the same "don't mutate the tree, decorate beside it"
// design the analyzer in the retrieved Hassandahiru compiler example uses
// for its exprTypes map, and the one spec.md's own design notes call for.
package decor

import (
	"github.com/aslcore/aslc/internal/ast"
	"github.com/aslcore/aslc/internal/symbols"
	"github.com/aslcore/aslc/internal/types"
)

// Info is what the checker records for one expression or l-value node.
type Info struct {
	Type     types.TypeId
	IsLValue bool
}

// Store holds every decoration produced for one compilation.
type Store struct {
	expr  map[ast.Node]Info
	scope map[ast.Node]*symbols.Scope
}

// NewStore returns an empty Store.
func NewStore() *Store {
	return &Store{
		expr:  make(map[ast.Node]Info),
		scope: make(map[ast.Node]*symbols.Scope),
	}
}

// SetExpr records the type and l-value-ness of an expression or l-value
// node.
func (s *Store) SetExpr(n ast.Node, info Info) {
	s.expr[n] = info
}

// Expr returns the decoration previously recorded for n, if any.
func (s *Store) Expr(n ast.Node) (Info, bool) {
	info, ok := s.expr[n]
	return info, ok
}

// MustExpr returns the decoration for n, panicking if it was never set.
// The code generator does not call it: it reads decorations through Expr,
// which returns the zero Info for an undecorated node instead of panicking.
func (s *Store) MustExpr(n ast.Node) Info {
	info, ok := s.expr[n]
	if !ok {
		panic("decor: no decoration recorded for node")
	}
	return info
}

// SetScope records which scope owns a Program or Function node.
func (s *Store) SetScope(n ast.Node, scope *symbols.Scope) {
	s.scope[n] = scope
}

// Scope returns the scope previously recorded for n, if any.
func (s *Store) Scope(n ast.Node) (*symbols.Scope, bool) {
	sc, ok := s.scope[n]
	return sc, ok
}
