// Command kale is the Kaleidoscope front-end CLI: lexing, parsing,
// and lowering to IR, each exposed as its own subcommand.
package main

import (
	"fmt"
	"os"

	"github.com/kaleidoscope-lang/kale/cmd/kale/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
