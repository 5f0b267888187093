// Package passes wires the three semantic-core components (symbol
// collection, type checking, code generation) into a single pipeline,
// grounded on the teacher's internal/semantic/pass.go Pass/PassManager
// pair: a small interface plus a runner that stops before a later stage
// once the diagnostic sink holds errors from an earlier one.
package passes

import (
	"github.com/aslcore/aslc/internal/ast"
	"github.com/aslcore/aslc/internal/decor"
	"github.com/aslcore/aslc/internal/diagnostics"
	"github.com/aslcore/aslc/internal/ir"
	"github.com/aslcore/aslc/internal/symbols"
	"github.com/aslcore/aslc/internal/types"
)

// Context is the shared state every pass reads from and writes to.
type Context struct {
	Types   *types.Manager
	Symbols *symbols.Table
	Decor   *decor.Store
	Diags   *diagnostics.Sink
	IR      *ir.ProgramIR

	File   string
	Source string
}

// NewContext returns a Context with fresh, empty Types/Symbols/Decor/Diags
// and no generated IR yet.
func NewContext(file, source string) *Context {
	return &Context{
		Types:   types.NewManager(),
		Symbols: symbols.NewTable(),
		Decor:   decor.NewStore(),
		Diags:   &diagnostics.Sink{},
		File:    file,
		Source:  source,
	}
}

// Pass is one stage of the pipeline.
type Pass interface {
	Name() string
	Run(p *ast.Program, ctx *Context) error
}

// Manager sequences the three components: collector, checker, and
// codegen. It halts before running Checker if Collector left any
// diagnostics behind, and before running Codegen if Checker did, matching
// the teacher's PassManager.RunAll "stop after critical errors" behavior.
type Manager struct {
	Collector Pass
	Checker   Pass
	Codegen   Pass
}

// RunAll runs Collector, then Checker, then Codegen, running each later
// pass only while the diagnostic sink is still empty.
func (m *Manager) RunAll(p *ast.Program, ctx *Context) error {
	if err := m.Collector.Run(p, ctx); err != nil {
		return err
	}
	if !ctx.Diags.Empty() {
		return nil
	}
	if err := m.Checker.Run(p, ctx); err != nil {
		return err
	}
	if !ctx.Diags.Empty() {
		return nil
	}
	return m.Codegen.Run(p, ctx)
}
