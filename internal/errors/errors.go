// Package errors formats Kaleidoscope front-end diagnostics with
// source context: a file:line:column header, the offending source
// line, and a caret pointing at the column.
package errors

import (
	"fmt"
	"strings"

	"github.com/kaleidoscope-lang/kale/internal/lexer"
)

// Kind classifies a diagnostic per the taxonomy in §7: lexical atoms
// never raise errors (unrecognised characters become ILLEGAL atoms
// the driver ignores), so only Syntax and Semantic are used.
type Kind int

const (
	Syntax Kind = iota
	Semantic
)

func (k Kind) String() string {
	switch k {
	case Syntax:
		return "syntax error"
	case Semantic:
		return "error"
	default:
		return "error"
	}
}

// Diagnostic is a single reported problem with position and source
// context for pretty printing.
type Diagnostic struct {
	Kind    Kind
	Message string
	Pos     lexer.Position
	Source  string
	File    string
}

// New builds a Diagnostic.
func New(kind Kind, pos lexer.Position, message, source, file string) *Diagnostic {
	return &Diagnostic{Kind: kind, Message: message, Pos: pos, Source: source, File: file}
}

// Error implements the error interface with uncoloured formatting.
func (d *Diagnostic) Error() string {
	return d.Format(false)
}

// Format renders the diagnostic with a file:line:col header, the
// source line, and a caret under the offending column. If color is
// true, ANSI codes highlight the caret and message.
func (d *Diagnostic) Format(color bool) string {
	var sb strings.Builder

	if d.File != "" {
		fmt.Fprintf(&sb, "%s:%d:%d: %s: ", d.File, d.Pos.Line, d.Pos.Column, d.Kind)
	} else {
		fmt.Fprintf(&sb, "%d:%d: %s: ", d.Pos.Line, d.Pos.Column, d.Kind)
	}
	if color {
		sb.WriteString("\033[1m")
	}
	sb.WriteString(d.Message)
	if color {
		sb.WriteString("\033[0m")
	}
	sb.WriteString("\n")

	if line := sourceLine(d.Source, d.Pos.Line); line != "" {
		prefix := fmt.Sprintf("%4d | ", d.Pos.Line)
		sb.WriteString(prefix)
		sb.WriteString(line)
		sb.WriteString("\n")

		col := d.Pos.Column
		if col < 1 {
			col = 1
		}
		sb.WriteString(strings.Repeat(" ", len(prefix)+col-1))
		if color {
			sb.WriteString("\033[1;31m")
		}
		sb.WriteString("^")
		if color {
			sb.WriteString("\033[0m")
		}
		sb.WriteString("\n")
	}

	return sb.String()
}

func sourceLine(source string, line int) string {
	if line < 1 {
		return ""
	}
	lines := strings.Split(source, "\n")
	if line > len(lines) {
		return ""
	}
	return lines[line-1]
}

// FormatAll renders a slice of diagnostics back to back.
func FormatAll(diags []*Diagnostic, color bool) string {
	var sb strings.Builder
	for _, d := range diags {
		sb.WriteString(d.Format(color))
	}
	return sb.String()
}

// Sink accumulates diagnostics produced while parsing or lowering a
// single source unit. It is the concrete "diagnostic sink" of §6.
type Sink struct {
	Source string
	File   string

	diags []*Diagnostic
}

// NewSink creates a Sink for one source unit.
func NewSink(source, file string) *Sink {
	return &Sink{Source: source, File: file}
}

// Add records a new diagnostic.
func (s *Sink) Add(kind Kind, pos lexer.Position, format string, args ...any) *Diagnostic {
	d := New(kind, pos, fmt.Sprintf(format, args...), s.Source, s.File)
	s.diags = append(s.diags, d)
	return d
}

// Errorf records a Syntax diagnostic. Named to read naturally at
// parser call sites ("p.errs.Errorf(...)").
func (s *Sink) Errorf(pos lexer.Position, format string, args ...any) *Diagnostic {
	return s.Add(Syntax, pos, format, args...)
}

// Semanticf records a Semantic diagnostic, for use from the lowering
// pass.
func (s *Sink) Semanticf(pos lexer.Position, format string, args ...any) *Diagnostic {
	return s.Add(Semantic, pos, format, args...)
}

// Diagnostics returns every diagnostic recorded so far, in order.
func (s *Sink) Diagnostics() []*Diagnostic { return s.diags }

// HasErrors reports whether any diagnostic has been recorded.
func (s *Sink) HasErrors() bool { return len(s.diags) > 0 }
