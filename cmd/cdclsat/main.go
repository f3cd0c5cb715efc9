// Command cdclsat reads a DIMACS CNF file, runs the solver, and prints the
// result in the conventional "s SATISFIABLE" / "v ..." competition format.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "cdclsat:", err)
		os.Exit(1)
	}
	os.Exit(exitCode)
}
