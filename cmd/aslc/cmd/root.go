package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	// Version information (set by build flags).
	Version   = "0.1.0-dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "aslc",
	Short: "Semantic checker and IR generator for the Source Language",
	Long: `aslc is the semantic-analysis and code-generation core for a small
imperative, statically typed language.

Given an AST fixture (see the astio package for its YAML grammar, a
stand-in for whatever a real lexer/parser would hand this core), aslc
resolves scopes, type-checks the program, and emits a three-address
intermediate representation.`,
	Version: Version,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.SetVersionTemplate(fmt.Sprintf(`{{with .Name}}{{printf "%%s " .}}{{end}}{{printf "version %%s" .Version}}
Commit: %s
Built:  %s
`, GitCommit, BuildDate))

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
