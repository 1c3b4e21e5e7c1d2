package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Version information, set by build flags.
	Version   = "0.1.0-dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

var evalExpr string

var rootCmd = &cobra.Command{
	Use:   "kale",
	Short: "Kaleidoscope front end: lexer, parser, and IR lowering",
	Long: `kale is a Go implementation of the Kaleidoscope expression
language front end: a lexer, a recursive-descent parser with
precedence climbing, and a pass that lowers the resulting AST to
SSA-form IR.

This tool exposes each stage as its own subcommand so the pipeline
can be inspected one layer at a time.`,
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

	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "verbose output")
}

// readInput resolves a command's input source: the -e/--eval flag,
// a file argument, or stdin, in that order, mirroring the teacher's
// lex/parse command input resolution.
func readInput(evalExpr string, args []string) (input string, source string, err error) {
	switch {
	case evalExpr != "":
		return evalExpr, "<eval>", nil
	case len(args) == 1:
		data, err := os.ReadFile(args[0])
		if err != nil {
			return "", "", fmt.Errorf("failed to read file %s: %w", args[0], err)
		}
		return string(data), args[0], nil
	default:
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", "", fmt.Errorf("failed to read stdin: %w", err)
		}
		return string(data), "<stdin>", nil
	}
}
