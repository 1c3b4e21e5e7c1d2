package cmd

import (
	"fmt"
	"os"

	"github.com/kaleidoscope-lang/kale/internal/errors"
	"github.com/kaleidoscope-lang/kale/internal/lexer"
	"github.com/kaleidoscope-lang/kale/internal/parser"
	"github.com/spf13/cobra"
)

var parseCmd = &cobra.Command{
	Use:   "parse [file]",
	Short: "Parse Kaleidoscope source and print the AST",
	Long: `Parse Kaleidoscope source code one top-level production at a time
and print each resulting expression tree.

If no file is provided and -e is not used, reads from stdin.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runParseCmd,
}

func init() {
	rootCmd.AddCommand(parseCmd)

	parseCmd.Flags().StringVarP(&evalExpr, "eval", "e", "", "parse inline source instead of reading from a file")
}

func runParseCmd(cmd *cobra.Command, args []string) error {
	input, file, err := readInput(evalExpr, args)
	if err != nil {
		return err
	}

	errs := errors.NewSink(input, file)
	l := lexer.NewFromString(input)
	p := parser.New(l, errs)

	for p.Current().Type != lexer.EOF {
		switch p.Current().Type {
		case lexer.SEMICOLON, lexer.COMMENT, lexer.ILLEGAL:
			p.Advance()
		case lexer.DEF:
			if fn := p.ParseDefinition(); fn != nil {
				fmt.Println(fn.String())
			} else if p.Current().Type != lexer.EOF {
				p.Advance()
			}
		case lexer.EXTERN:
			if proto := p.ParseExtern(); proto != nil {
				fmt.Println("extern " + proto.String())
			} else if p.Current().Type != lexer.EOF {
				p.Advance()
			}
		default:
			if fn := p.ParseTop(); fn != nil {
				fmt.Println(fn.Body.String())
			} else if p.Current().Type != lexer.EOF {
				p.Advance()
			}
		}
	}

	if errs.HasErrors() {
		fmt.Fprint(os.Stderr, errors.FormatAll(errs.Diagnostics(), false))
		return fmt.Errorf("parsing failed with %d error(s)", len(errs.Diagnostics()))
	}
	return nil
}
