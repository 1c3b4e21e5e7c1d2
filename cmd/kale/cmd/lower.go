package cmd

import (
	"fmt"
	"os"

	"github.com/kaleidoscope-lang/kale/internal/driver"
	"github.com/kaleidoscope-lang/kale/internal/errors"
	"github.com/kaleidoscope-lang/kale/internal/ir"
	"github.com/kaleidoscope-lang/kale/internal/lexer"
	"github.com/kaleidoscope-lang/kale/internal/lower"
	"github.com/kaleidoscope-lang/kale/internal/parser"
	"github.com/spf13/cobra"
)

var lowerCmd = &cobra.Command{
	Use:   "lower [file]",
	Short: "Lower Kaleidoscope source to SSA-form IR and print it",
	Long: `Run the full pipeline -- lex, parse, lower -- over Kaleidoscope
source and print the resulting IR module.

Each top-level expression is lowered into its own anonymous function
and immediately erased after being inspected, the way the REPL loop
does (§6).`,
	Args: cobra.MaximumNArgs(1),
	RunE: runLower,
}

func init() {
	rootCmd.AddCommand(lowerCmd)

	lowerCmd.Flags().StringVarP(&evalExpr, "eval", "e", "", "lower inline source instead of reading from a file")
}

func runLower(cmd *cobra.Command, args []string) error {
	input, file, err := readInput(evalExpr, args)
	if err != nil {
		return err
	}

	errs := errors.NewSink(input, file)
	l := lexer.NewFromString(input)
	p := parser.New(l, errs)

	mod := ir.NewModule(file)
	dbg := ir.NewDebugInfoBuilder("kale", file, ".")
	lctx := lower.New(mod, dbg, errs, file)

	driver.Run(p, lctx)

	if errs.HasErrors() {
		fmt.Fprint(os.Stderr, errors.FormatAll(errs.Diagnostics(), true))
	}
	fmt.Print(mod.String())

	if errs.HasErrors() {
		return fmt.Errorf("lowering failed with %d error(s)", len(errs.Diagnostics()))
	}
	return nil
}
