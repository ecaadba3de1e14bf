package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/tiro-lang/tiro/internal/codegen"
	"github.com/tiro-lang/tiro/pkg/tiro"
)

var (
	disassemble    bool
	compileVerbose bool
)

var compileCmd = &cobra.Command{
	Use:   "compile [file]",
	Short: "Compile a Tiro file to a bytecode link object",
	Long: `Compile a Tiro program through the full pipeline (parse, analyze,
lower to SSA, and emit bytecode) and report diagnostics.

Examples:
  # Compile a script and report any diagnostics
  tiroc compile script.tiro

  # Compile and print the disassembled bytecode
  tiroc compile script.tiro --disassemble`,
	Args: cobra.ExactArgs(1),
	RunE: compileScript,
}

func init() {
	rootCmd.AddCommand(compileCmd)

	compileCmd.Flags().BoolVar(&disassemble, "disassemble", false, "print disassembled bytecode after compilation")
	compileCmd.Flags().BoolVarP(&compileVerbose, "verbose", "v", false, "verbose output")
}

func compileScript(_ *cobra.Command, args []string) error {
	filename := args[0]

	content, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("failed to read file %s: %w", filename, err)
	}

	if compileVerbose {
		fmt.Fprintf(os.Stderr, "Compiling %s...\n", filename)
	}

	obj, diags := tiro.NewCompilation(filename).Compile(content)
	for _, d := range diags {
		fmt.Fprintln(os.Stderr, d.Format(filename))
	}
	if obj == nil {
		return fmt.Errorf("compilation failed with %d diagnostic(s)", len(diags))
	}

	if compileVerbose {
		fmt.Fprintf(os.Stderr, "Compiled %s: %d function(s), %d link item(s)\n",
			filename, len(obj.Functions), len(obj.Items))
	}

	if disassemble {
		if err := codegen.Disassemble(obj, os.Stdout); err != nil {
			return fmt.Errorf("failed to disassemble: %w", err)
		}
	}

	if !compileVerbose {
		fmt.Printf("Compiled %s (%d function(s))\n", filename, len(obj.Functions))
	}
	return nil
}
