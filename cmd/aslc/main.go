// Command aslc is the command-line front end for the semantic-analysis
// and code-generation core: it reads an AST fixture, runs the
// collector/checker/codegen pipeline, and prints diagnostics or the
// generated three-address IR.
package main

import (
	"fmt"
	"os"

	"github.com/aslcore/aslc/cmd/aslc/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
