// Package diagnostics implements the semantic error taxonomy and an
// append-only sink, plus a caret-style formatter grounded directly on the
// teacher's internal/errors.CompilerError (the "%4d | " gutter, the caret
// line under the offending column).
package diagnostics

import (
	"fmt"
	"sort"
	"strings"

	"github.com/aslcore/aslc/internal/lexer"
)

// Kind names one semantic error category.
type Kind string

const (
	UndeclaredIdent              Kind = "UndeclaredIdent"
	NoMainProperlyDeclared       Kind = "NoMainProperlyDeclared"
	DuplicateDeclaration         Kind = "DuplicateDeclaration"
	IncompatibleAssignment       Kind = "IncompatibleAssignment"
	IncompatibleReturn           Kind = "IncompatibleReturn"
	IncompatibleOperator         Kind = "IncompatibleOperator"
	IncompatibleParameter        Kind = "IncompatibleParameter"
	NonReferenceableLeftExpr     Kind = "NonReferenceableLeftExpr"
	NonReferenceableExpression   Kind = "NonReferenceableExpression"
	BooleanRequired              Kind = "BooleanRequired"
	ReadWriteRequireBasic        Kind = "ReadWriteRequireBasic"
	NonArrayInArrayAccess        Kind = "NonArrayInArrayAccess"
	NonIntegerIndexInArrayAccess Kind = "NonIntegerIndexInArrayAccess"
	IsNotCallable                Kind = "IsNotCallable"
	IsNotFunction                Kind = "IsNotFunction"
	NumberOfParameters           Kind = "NumberOfParameters"
)

// Diagnostic is one reported semantic error.
type Diagnostic struct {
	Kind    Kind
	Pos     lexer.Position
	Message string
	// Index is the 1-based argument index for IncompatibleParameter; it
	// is zero for every other Kind.
	Index int
}

// Sink collects diagnostics as passes run. Nothing in this package ever
// removes an entry: collection and checking both keep going after an
// error so the caller sees every problem in one run, per the "continue
// past the first error" requirement.
type Sink struct {
	diags []Diagnostic
}

// Add appends d to the sink.
func (s *Sink) Add(d Diagnostic) {
	s.diags = append(s.diags, d)
}

// Len returns the number of diagnostics recorded so far.
func (s *Sink) Len() int { return len(s.diags) }

// Empty reports whether no diagnostics have been recorded.
func (s *Sink) Empty() bool { return len(s.diags) == 0 }

// All returns every diagnostic recorded, in the order Add was called.
func (s *Sink) All() []Diagnostic {
	return s.diags
}

// Sorted returns every diagnostic ordered by source position, stable for
// diagnostics that share a position.
func (s *Sink) Sorted() []Diagnostic {
	out := append([]Diagnostic(nil), s.diags...)
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i].Pos, out[j].Pos
		if a.Line != b.Line {
			return a.Line < b.Line
		}
		return a.Column < b.Column
	})
	return out
}

// Format renders d in the teacher's style: an "Error in file:line:col"
// header, the offending source line with a line-number gutter, and a
// caret under the reported column.
func Format(d Diagnostic, file, source string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Error in %s:%d:%d\n", file, d.Pos.Line, d.Pos.Column)
	if line := sourceLine(source, d.Pos.Line); line != "" {
		fmt.Fprintf(&b, "%4d | %s\n", d.Pos.Line, line)
		b.WriteString(strings.Repeat(" ", 7+max(d.Pos.Column-1, 0)))
		b.WriteString("^\n")
	}
	fmt.Fprintf(&b, "%s: %s\n", d.Kind, d.Message)
	return b.String()
}

func sourceLine(source string, line int) string {
	if line <= 0 {
		return ""
	}
	lines := strings.Split(source, "\n")
	if line > len(lines) {
		return ""
	}
	return lines[line-1]
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
