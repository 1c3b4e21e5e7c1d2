package cmd

import (
	"fmt"

	"github.com/kaleidoscope-lang/kale/internal/lexer"
	"github.com/spf13/cobra"
)

var (
	lexShowPos  bool
	lexShowType bool
)

var lexCmd = &cobra.Command{
	Use:   "lex [file]",
	Short: "Tokenize Kaleidoscope source and print the resulting atoms",
	Long: `Tokenize a Kaleidoscope program and print the resulting atoms.

Examples:
  kale lex fib.kal
  kale lex -e "def fib(x) if x < 2 then x else fib(x-1)+fib(x-2)"
  kale lex --show-pos --show-type fib.kal`,
	Args: cobra.MaximumNArgs(1),
	RunE: runLex,
}

func init() {
	rootCmd.AddCommand(lexCmd)

	lexCmd.Flags().StringVarP(&evalExpr, "eval", "e", "", "tokenize inline source instead of reading from a file")
	lexCmd.Flags().BoolVar(&lexShowPos, "show-pos", false, "show each atom's line:column")
	lexCmd.Flags().BoolVar(&lexShowType, "show-type", false, "show each atom's type name")
}

func runLex(cmd *cobra.Command, args []string) error {
	input, _, err := readInput(evalExpr, args)
	if err != nil {
		return err
	}

	l := lexer.NewFromString(input, lexer.WithPreserveComments(true))
	for {
		tok := l.Read()
		printAtom(tok)
		if tok.Type == lexer.EOF {
			break
		}
	}
	return nil
}

func printAtom(tok lexer.Token) {
	out := ""
	if lexShowType {
		out += fmt.Sprintf("[%-9s]", tok.Type)
	}
	switch tok.Type {
	case lexer.EOF:
		out += " EOF"
	case lexer.ILLEGAL:
		out += fmt.Sprintf(" ILLEGAL %q", tok.Literal)
	default:
		out += fmt.Sprintf(" %q", tok.Literal)
	}
	if lexShowPos {
		out += fmt.Sprintf(" @%s", tok.Pos)
	}
	fmt.Println(out)
}
