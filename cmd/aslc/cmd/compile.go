package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/aslcore/aslc/internal/astio"
	"github.com/aslcore/aslc/internal/checker"
	"github.com/aslcore/aslc/internal/codegen"
	"github.com/aslcore/aslc/internal/collector"
	"github.com/aslcore/aslc/internal/ir"
	"github.com/aslcore/aslc/internal/passes"
)

var (
	compileOutput   string
	compileJSON     bool
	compileValidate bool
)

var compileCmd = &cobra.Command{
	Use:   "compile [file]",
	Short: "Compile an AST fixture to three-address IR",
	Long: `compile loads an AST fixture, runs the full collector/checker/
codegen pipeline, and prints the generated three-address IR listing. If
semantic checking fails, the IR is never generated: compile reports the
diagnostics instead and exits non-zero.`,
	Args: cobra.ExactArgs(1),
	RunE: compileProgram,
}

func init() {
	rootCmd.AddCommand(compileCmd)

	compileCmd.Flags().StringVarP(&compileOutput, "output", "o", "", "write IR to this file instead of stdout")
	compileCmd.Flags().BoolVar(&compileJSON, "json", false, "report diagnostics as a JSON array instead of text")
	compileCmd.Flags().BoolVar(&compileValidate, "validate", false, "validate label/register well-formedness of the generated IR")
}

func compileProgram(_ *cobra.Command, args []string) error {
	filename := args[0]
	data, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("failed to read file %s: %w", filename, err)
	}

	prog, err := astio.ParseProgram(data)
	if err != nil {
		return err
	}

	ctx := passes.NewContext(filename, string(data))
	if verbose {
		fmt.Fprintf(os.Stderr, "compiling %s...\n", filename)
	}

	mgr := &passes.Manager{Collector: collector.New(), Checker: checker.New(), Codegen: codegen.New()}
	if err := mgr.RunAll(prog, ctx); err != nil {
		return err
	}

	if !ctx.Diags.Empty() {
		if err := reportDiagnostics(ctx, filename, string(data), compileJSON); err != nil {
			return err
		}
		return fmt.Errorf("compilation failed with %d diagnostic(s)", ctx.Diags.Len())
	}

	if compileValidate {
		if err := ir.Validate(*ctx.IR); err != nil {
			return fmt.Errorf("compile: generated IR failed validation: %w", err)
		}
	}

	listing := ir.Serialize(*ctx.IR)
	if compileOutput == "" {
		fmt.Print(listing)
		return nil
	}
	return os.WriteFile(compileOutput, []byte(listing), 0o644)
}
