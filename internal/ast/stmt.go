package ast

import "github.com/aslcore/aslc/internal/lexer"

// AssignStmt is "left := right" (or "left = right" depending on surface
// syntax; the AST doesn't care which spelling the parser used).
type AssignStmt struct {
	Left    LExpr
	Right   Expr
	StmtPos lexer.Position
}

// IfStmt is "if Cond then Then [else Else]". Else is nil when absent.
type IfStmt struct {
	Cond    Expr
	Then    []Stmt
	Else    []Stmt
	StmtPos lexer.Position
}

// WhileStmt is "while Cond do Body".
type WhileStmt struct {
	Cond    Expr
	Body    []Stmt
	StmtPos lexer.Position
}

// ProcCallStmt invokes a function for its side effects, discarding any
// return value.
type ProcCallStmt struct {
	Name    string
	Args    []Expr
	StmtPos lexer.Position
}

// ReadStmt reads one value from standard input into Target.
type ReadStmt struct {
	Target  LExpr
	StmtPos lexer.Position
}

// WriteStmt writes the value of Value to standard output.
type WriteStmt struct {
	Value   Expr
	StmtPos lexer.Position
}

// WriteStringStmt writes a literal string constant to standard output.
type WriteStringStmt struct {
	Value   string
	StmtPos lexer.Position
}

// ReturnStmt returns from the enclosing function, optionally with a value.
// Value is nil for a bare "return;" in a void function.
type ReturnStmt struct {
	Value   Expr
	StmtPos lexer.Position
}

func (s *AssignStmt) Pos() lexer.Position      { return s.StmtPos }
func (s *IfStmt) Pos() lexer.Position          { return s.StmtPos }
func (s *WhileStmt) Pos() lexer.Position       { return s.StmtPos }
func (s *ProcCallStmt) Pos() lexer.Position    { return s.StmtPos }
func (s *ReadStmt) Pos() lexer.Position        { return s.StmtPos }
func (s *WriteStmt) Pos() lexer.Position       { return s.StmtPos }
func (s *WriteStringStmt) Pos() lexer.Position { return s.StmtPos }
func (s *ReturnStmt) Pos() lexer.Position      { return s.StmtPos }

func (*AssignStmt) stmtNode()      {}
func (*IfStmt) stmtNode()          {}
func (*WhileStmt) stmtNode()       {}
func (*ProcCallStmt) stmtNode()    {}
func (*ReadStmt) stmtNode()        {}
func (*WriteStmt) stmtNode()       {}
func (*WriteStringStmt) stmtNode() {}
func (*ReturnStmt) stmtNode()      {}
