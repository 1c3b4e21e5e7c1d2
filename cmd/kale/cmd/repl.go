package cmd

import (
	"fmt"
	"os"

	"github.com/kaleidoscope-lang/kale/internal/errors"
	"github.com/kaleidoscope-lang/kale/internal/ir"
	"github.com/kaleidoscope-lang/kale/internal/lexer"
	"github.com/kaleidoscope-lang/kale/internal/lower"
	"github.com/kaleidoscope-lang/kale/internal/parser"
	"github.com/kaleidoscope-lang/kale/internal/source"
	"github.com/spf13/cobra"
)

var replCmd = &cobra.Command{
	Use:   "repl",
	Short: "Interactively lower Kaleidoscope definitions and expressions",
	Long: `Read Kaleidoscope top-level productions from stdin one at a time,
lowering each into a shared module and printing the resulting IR
function, the classic "ready>" loop (§6) over the IR library instead
of a JIT.`,
	RunE: runRepl,
}

func init() {
	rootCmd.AddCommand(replCmd)
}

func runRepl(cmd *cobra.Command, args []string) error {
	src, err := source.FromReader(os.Stdin)
	if err != nil {
		return err
	}

	l := lexer.New(src)
	errs := errors.NewSink("", "<repl>")
	p := parser.New(l, errs)

	mod := ir.NewModule("repl")
	dbg := ir.NewDebugInfoBuilder("kale", "<repl>", ".")
	lctx := lower.New(mod, dbg, errs, "<repl>")

	reported := 0
	reportNew := func() {
		diags := errs.Diagnostics()
		for _, d := range diags[reported:] {
			fmt.Fprint(os.Stderr, d.Format(true))
		}
		reported = len(diags)
	}
	resync := func() {
		reportNew()
		if p.Current().Type != lexer.EOF {
			p.Advance()
		}
	}

	for p.Current().Type != lexer.EOF {
		fmt.Fprint(os.Stderr, "ready> ")

		switch p.Current().Type {
		case lexer.SEMICOLON, lexer.COMMENT, lexer.ILLEGAL:
			p.Advance()
			continue
		case lexer.DEF:
			fn := p.ParseDefinition()
			if fn == nil {
				resync()
				continue
			}
			if out := lctx.Definition(fn); out != nil {
				fmt.Println(out.String())
			} else {
				reportNew()
			}
		case lexer.EXTERN:
			proto := p.ParseExtern()
			if proto == nil {
				resync()
				continue
			}
			fmt.Println(lctx.Extern(proto).String())
		default:
			fn := p.ParseTop()
			if fn == nil {
				resync()
				continue
			}
			out := lctx.Definition(fn)
			if out == nil {
				reportNew()
				continue
			}
			fmt.Println(out.String())
			out.Erase()
		}
	}
	return nil
}
