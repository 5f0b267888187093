package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/aslcore/aslc/internal/astio"
	"github.com/aslcore/aslc/internal/checker"
	"github.com/aslcore/aslc/internal/collector"
	"github.com/aslcore/aslc/internal/passes"
)

var checkJSON bool

var checkCmd = &cobra.Command{
	Use:   "check [file]",
	Short: "Run symbol collection and type checking without generating IR",
	Long: `check loads an AST fixture, runs the symbol collector and type
checker, and reports every semantic diagnostic. It never runs code
generation, so it's useful for validating a program without caring about
the emitted instructions.`,
	Args: cobra.ExactArgs(1),
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)
	checkCmd.Flags().BoolVar(&checkJSON, "json", false, "report diagnostics as a JSON array instead of text")
}

func runCheck(_ *cobra.Command, args []string) error {
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
		fmt.Fprintf(os.Stderr, "checking %s...\n", filename)
	}
	if err := collector.New().Run(prog, ctx); err != nil {
		return err
	}
	if err := checker.New().Run(prog, ctx); err != nil {
		return err
	}

	if ctx.Diags.Empty() {
		fmt.Println("OK")
		return nil
	}
	if err := reportDiagnostics(ctx, filename, string(data), checkJSON); err != nil {
		return err
	}
	return fmt.Errorf("checking failed with %d diagnostic(s)", ctx.Diags.Len())
}

func reportDiagnostics(ctx *passes.Context, filename, source string, asJSON bool) error {
	if asJSON {
		out, err := renderDiagnosticsJSON(ctx.Diags)
		if err != nil {
			return err
		}
		fmt.Println(out)
		return nil
	}
	fmt.Fprint(os.Stderr, renderDiagnosticsText(ctx.Diags, filename, source))
	return nil
}
