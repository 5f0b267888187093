// Package lexer carries the source-position type shared by the AST,
// diagnostics, and IR packages. Scanning and tokenizing real source text is
// out of scope for this module; callers hand us an already-built AST (see
// internal/astio) and we only ever need to say where in the source a node
// came from.
package lexer

import "fmt"

// Position identifies a line/column location in a source file. Both are
// 1-based, matching editor conventions.
type Position struct {
	Line   int
	Column int
}

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// IsZero reports whether the position was never set.
func (p Position) IsZero() bool {
	return p.Line == 0 && p.Column == 0
}
