// Command boil is the command line entry point to loop detection in Go
// functions.
//
// Usage:
//
//	boil loops [options] file.go [files.go...]
//	boil dom [options] file.go [files.go...]
//	boil dot --func name [options] file.go [files.go...]
//	boil ssa [options] file.go [files.go...]
package main

import (
	"fmt"
	"os"

	"github.com/nickng/boil/cmd/boil/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
