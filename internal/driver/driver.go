// Package driver implements the top-level REPL-style dispatch loop
// (§6): read one top-level production at a time from a parser, lower
// whatever comes back into the shared module, and resynchronise after
// a failure instead of aborting the whole source unit.
package driver

import (
	"github.com/kaleidoscope-lang/kale/internal/ast"
	"github.com/kaleidoscope-lang/kale/internal/ir"
	"github.com/kaleidoscope-lang/kale/internal/lexer"
	"github.com/kaleidoscope-lang/kale/internal/lower"
	"github.com/kaleidoscope-lang/kale/internal/parser"
)

// Result is one top-level production's outcome, reported in source
// order for callers (the CLI, tests) that want to show each
// definition/extern/expression's lowered function or the reason it
// failed.
type Result struct {
	Kind     string // "def", "extern", "expr"
	Function *ir.Function
	Proto    *ast.Prototype
	OK       bool
}

// Run drives p to exhaustion against lctx, appending one Result per
// top-level production. Mirrors the classic Kaleidoscope
// "MainLoop"/HandleDefinition/HandleExtern/HandleTopLevelExpression
// dispatch (§6):
//
//	eof             -> stop
//	';'             -> consumed and ignored (statement separator)
//	COMMENT/ILLEGAL -> consumed and ignored
//	'def'           -> parse and lower a definition
//	'extern'        -> parse and lower an extern
//	anything else   -> parse and lower a top-level expression, then
//	                   erase its anonymous wrapper function
//
// A parse failure resynchronises by advancing exactly one atom before
// continuing, so one bad top-level form does not abort the rest of
// the source unit. A lowering failure needs no resynchronisation: the
// parser has already consumed the whole form, and lowering has erased
// the partially built function. Diagnostics accumulate on lctx.Errs;
// callers inspect it after Run returns.
func Run(p *parser.Parser, lctx *lower.Context) []Result {
	var results []Result
	for {
		switch p.Current().Type {
		case lexer.EOF:
			return results

		case lexer.SEMICOLON:
			p.Advance()

		case lexer.COMMENT, lexer.ILLEGAL:
			p.Advance()

		case lexer.DEF:
			fn := p.ParseDefinition()
			if fn == nil {
				resync(p)
				results = append(results, Result{Kind: "def", OK: false})
				continue
			}
			out := lctx.Definition(fn)
			results = append(results, Result{Kind: "def", Function: out, Proto: fn.Proto, OK: out != nil})

		case lexer.EXTERN:
			proto := p.ParseExtern()
			if proto == nil {
				resync(p)
				results = append(results, Result{Kind: "extern", OK: false})
				continue
			}
			out := lctx.Extern(proto)
			results = append(results, Result{Kind: "extern", Function: out, Proto: proto, OK: out != nil})

		default:
			fn := p.ParseTop()
			if fn == nil {
				resync(p)
				results = append(results, Result{Kind: "expr", OK: false})
				continue
			}
			out := lctx.Definition(fn)
			if out != nil {
				out.Erase()
			}
			results = append(results, Result{Kind: "expr", Function: out, Proto: fn.Proto, OK: out != nil})
		}
	}
}

// resync advances exactly one atom past the failed production's
// current position, the single-atom error-recovery strategy of §6.
func resync(p *parser.Parser) {
	if p.Current().Type != lexer.EOF {
		p.Advance()
	}
}
