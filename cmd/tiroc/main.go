// Command tiroc is the Tiro compiler's command-line entry point.
package main

import (
	"fmt"
	"os"

	"github.com/tiro-lang/tiro/cmd/tiroc/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
