// Package ast defines the abstract syntax tree the semantic core consumes.
// Nodes are plain structs reached through pointers; pointer identity is the
// key the decoration side table (internal/decor) uses to attach type and
// l-value information without mutating the tree itself.
package ast

import "github.com/aslcore/aslc/internal/lexer"

// Node is anything that can report where it came from in source.
type Node interface {
	Pos() lexer.Position
}

// TypeExpr is a type annotation as written in a declaration: a scalar
// keyword or an array-of construct.
type TypeExpr interface {
	Node
	typeExprNode()
}

// Expr is any expression that produces a value.
type Expr interface {
	Node
	exprNode()
}

// LExpr is the left-hand side of an assignment or the target of a read: an
// identifier or an indexed array element.
type LExpr interface {
	Node
	lexprNode()
}

// Stmt is a statement inside a function body.
type Stmt interface {
	Node
	stmtNode()
}

// Program is the root node: an ordered list of function declarations.
type Program struct {
	Functions []*Function
	NamePos   lexer.Position
}

func (p *Program) Pos() lexer.Position { return p.NamePos }

// Function declares a subroutine: a name, parameters, an optional return
// type (nil means void), a block of local declarations, and a body.
type Function struct {
	Name     string
	Params   []*Parameter
	RetType  TypeExpr // nil => void
	Decls    *Declarations
	Body     []Stmt
	NamePos  lexer.Position
}

func (f *Function) Pos() lexer.Position { return f.NamePos }

// Parameter is one formal parameter of a Function.
type Parameter struct {
	Name    string
	Type    TypeExpr
	NamePos lexer.Position
}

func (p *Parameter) Pos() lexer.Position { return p.NamePos }

// Declarations groups the local variable declarations at the top of a
// function body.
type Declarations struct {
	Vars    []*VarDecl
	ListPos lexer.Position
}

func (d *Declarations) Pos() lexer.Position { return d.ListPos }

// VarDecl declares one or more names sharing a type, e.g. "var a, b: int".
type VarDecl struct {
	Names     []string
	Type      TypeExpr
	DeclPos   lexer.Position
}

func (v *VarDecl) Pos() lexer.Position { return v.DeclPos }

// ---- Type expressions ----

type IntType struct{ TypePos lexer.Position }
type FloatType struct{ TypePos lexer.Position }
type BoolType struct{ TypePos lexer.Position }
type CharType struct{ TypePos lexer.Position }

// ArrayType is "array[Size] of Elem".
type ArrayType struct {
	Elem    TypeExpr
	Size    int
	TypePos lexer.Position
}

func (t *IntType) Pos() lexer.Position   { return t.TypePos }
func (t *FloatType) Pos() lexer.Position { return t.TypePos }
func (t *BoolType) Pos() lexer.Position  { return t.TypePos }
func (t *CharType) Pos() lexer.Position  { return t.TypePos }
func (t *ArrayType) Pos() lexer.Position { return t.TypePos }

func (*IntType) typeExprNode()   {}
func (*FloatType) typeExprNode() {}
func (*BoolType) typeExprNode()  {}
func (*CharType) typeExprNode()  {}
func (*ArrayType) typeExprNode() {}
