// Package lexer implements a streaming, single-token-lookahead lexer
// for Kaleidoscope source text.
package lexer

import (
	"strings"

	"github.com/kaleidoscope-lang/kale/internal/source"
)

// operatorChars is the fixed set of characters the lexer recognises
// as operator atoms (§4.1 rule 6). The parser, not the lexer, assigns
// precedence and arity to each.
const operatorChars = ":=|&<>+-*/"

// Option configures a Lexer at construction time.
type Option func(*Lexer)

// WithPreserveComments makes Read emit COMMENT atoms instead of
// silently discarding them. Useful for tools (the `lex` CLI command)
// that want to see every byte of input accounted for.
func WithPreserveComments(preserve bool) Option {
	return func(l *Lexer) { l.preserveComments = preserve }
}

// Lexer scans Kaleidoscope source text one atom at a time.
//
// The lexer keeps exactly one character of lookahead (l.ch). Initial
// state primes l.ch with a space so the first Read begins by skipping
// whitespace, per §4.1.
type Lexer struct {
	src *source.Source

	ch      byte
	chValid bool

	preserveComments bool

	cur Token
}

// New constructs a Lexer over src.
func New(src *source.Source, opts ...Option) *Lexer {
	l := &Lexer{src: src}
	for _, opt := range opts {
		opt(l)
	}
	l.ch = ' '
	l.chValid = true
	return l
}

// NewFromString is a convenience constructor for tests and the CLI.
func NewFromString(input string, opts ...Option) *Lexer {
	return New(source.FromString(input), opts...)
}

// Current returns the most recently read atom.
func (l *Lexer) Current() Token { return l.cur }

func (l *Lexer) advance() {
	b, ok := l.src.NextByte()
	l.ch = b
	l.chValid = ok
}

func (l *Lexer) pos() Position {
	line, col := l.src.Pos()
	return Position{Line: line, Column: col}
}

// Read advances the lexer by one atom, stores it as Current, and
// returns it. Whitespace between atoms is skipped silently.
func (l *Lexer) Read() Token {
	tok := l.scan()
	l.cur = tok
	return tok
}

func isLetter(b byte) bool {
	return b == '_' || (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}

func isAlnum(b byte) bool {
	return isLetter(b) || isDigit(b)
}

func isOperatorChar(b byte) bool {
	return strings.IndexByte(operatorChars, b) >= 0
}

func isSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r'
}

// scan implements the classification rules of §4.1 in order. A
// comment is skipped and scanning resumes from the next atom unless
// WithPreserveComments was given, in which case it is returned as a
// COMMENT atom.
func (l *Lexer) scan() Token {
	for {
		tok := l.scanOne()
		if tok.Type == COMMENT && !l.preserveComments {
			continue
		}
		return tok
	}
}

func (l *Lexer) scanOne() Token {
	for l.chValid && isSpace(l.ch) {
		l.advance()
	}

	if !l.chValid {
		return Token{Type: EOF, Pos: l.pos()}
	}

	startPos := l.pos()
	ch := l.ch

	switch {
	case isLetter(ch):
		var sb strings.Builder
		for l.chValid && isAlnum(l.ch) {
			sb.WriteByte(l.ch)
			l.advance()
		}
		lit := sb.String()
		return Token{Type: LookupIdent(lit), Literal: lit, Pos: startPos}

	case isDigit(ch) || ch == '.':
		var sb strings.Builder
		for l.chValid && (isDigit(l.ch) || l.ch == '.') {
			sb.WriteByte(l.ch)
			l.advance()
		}
		return Token{Type: NUMBER, Literal: sb.String(), Pos: startPos}

	case ch == '#':
		var sb strings.Builder
		for l.chValid && l.ch != '\n' {
			sb.WriteByte(l.ch)
			l.advance()
		}
		return Token{Type: COMMENT, Literal: sb.String(), Pos: startPos}

	case ch == '(':
		l.advance()
		return NewToken(LPAREN, ch, startPos)

	case ch == ')':
		l.advance()
		return NewToken(RPAREN, ch, startPos)

	case ch == ';':
		l.advance()
		return NewToken(SEMICOLON, ch, startPos)

	case ch == ',':
		l.advance()
		return NewToken(COMMA, ch, startPos)

	case isOperatorChar(ch):
		l.advance()
		return NewToken(OPERATOR, ch, startPos)

	default:
		l.advance()
		return NewToken(ILLEGAL, ch, startPos)
	}
}
