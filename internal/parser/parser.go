// Package parser implements a recursive-descent parser with a
// precedence-climbing binary-operator subroutine for Kaleidoscope,
// producing an ast.Expr tree, ast.Prototype, and ast.Function values.
//
// Key patterns, lifted from the teacher's Pratt-parser idiom:
//   - single current-token state with Read()-driven lookahead
//   - a precedence table (map[byte]int) instead of an if-chain
//   - parse failures log to an errors.Sink and return nil; the driver
//     (not the parser) performs single-atom resynchronisation
package parser

import (
	"strconv"
	"strings"

	"github.com/kaleidoscope-lang/kale/internal/ast"
	"github.com/kaleidoscope-lang/kale/internal/errors"
	"github.com/kaleidoscope-lang/kale/internal/lexer"
)

// Precedence levels, lowest to highest, per §4.2's precedence table.
// Operator characters not present in precedences yield -1 and
// terminate the precedence-climbing loop.
const (
	lowest = 0
)

var precedences = map[byte]int{
	':': 1,
	'=': 2,
	'|': 5,
	'&': 6,
	'<': 10,
	'>': 10,
	'+': 20,
	'-': 20,
	'*': 40,
	'/': 40,
}

func precedenceOf(tok lexer.Token) int {
	if tok.Type != lexer.OPERATOR || len(tok.Literal) == 0 {
		return -1
	}
	if p, ok := precedences[tok.Literal[0]]; ok {
		return p
	}
	return -1
}

// Parser consumes atoms from a lexer.Lexer and produces AST nodes.
type Parser struct {
	lex  *lexer.Lexer
	errs *errors.Sink
	cur  lexer.Token
}

// New creates a Parser over lex, reporting failures to errs.
func New(lex *lexer.Lexer, errs *errors.Sink) *Parser {
	p := &Parser{lex: lex, errs: errs}
	p.cur = lex.Read()
	return p
}

// Current returns the atom the parser is currently positioned on.
func (p *Parser) Current() lexer.Token { return p.cur }

// Advance consumes Current and reads the next atom from the lexer.
// Exported so the driver can perform single-atom resynchronisation
// after a parse failure (§4.2, §6).
func (p *Parser) Advance() lexer.Token {
	tok := p.cur
	p.cur = p.lex.Read()
	return tok
}

func (p *Parser) errorf(format string, args ...any) {
	p.errs.Errorf(p.cur.Pos, format, args...)
}

// expect checks Current against tt, consumes it, and reports msg
// otherwise. Returns ok so call sites can bail out early.
func (p *Parser) expect(tt lexer.TokenType, msg string) (lexer.Token, bool) {
	if p.cur.Type != tt {
		p.errorf("%s", msg)
		return lexer.Token{}, false
	}
	tok := p.Advance()
	return tok, true
}

// ParseExpression parses a single expression at the top of the
// precedence table. Entry point used by Top and by every
// sub-production that needs a nested expression.
func (p *Parser) ParseExpression() ast.Expr {
	lhs := p.parseUnary()
	if lhs == nil {
		return nil
	}
	return p.parseBinOpRHS(lowest, lhs)
}

// parseBinOpRHS implements the precedence-climbing rule of §4.2:
// repeatedly consume an operator whose precedence is >= minPrec,
// parse its right-hand unary operand, and — if the operator that
// follows binds tighter still — recurse with that operator's
// precedence plus one before
// combining, so higher-precedence runs nest on the right while
// equal-precedence runs stay left-associative.
func (p *Parser) parseBinOpRHS(minPrec int, lhs ast.Expr) ast.Expr {
	for {
		opTok := p.cur
		prec := precedenceOf(opTok)
		if prec < minPrec {
			return lhs
		}
		p.Advance()

		rhs := p.parseUnary()
		if rhs == nil {
			return nil
		}

		nextPrec := precedenceOf(p.cur)
		if prec < nextPrec {
			rhs = p.parseBinOpRHS(prec+1, rhs)
			if rhs == nil {
				return nil
			}
		}

		if opTok.Literal[0] == ':' {
			lhs = &ast.SeqExpr{BaseNode: ast.BaseNode{Token: opTok}, Left: lhs, Right: rhs}
			continue
		}
		lhs = &ast.BinaryExpr{
			BaseNode: ast.BaseNode{Token: opTok},
			Op:       opTok.Literal[0],
			Left:     lhs,
			Right:    rhs,
		}
	}
}

// parseUnary implements `unary := unary_op unary | primary`. Any
// operator character preceding a primary is parsed as a UnaryExpr;
// only '-' is accepted by lowering, which rejects every other one
// (the reserved UnaryOp variant in §3/§4.3).
// Kaleidoscope only assigns lowering semantics to unary '-', but the
// grammar accepts any operator character in prefix position so
// lowering can produce a uniform "invalid unary operator" diagnostic
// instead of a parse error, matching the UnaryOp variant's reserved
// status (§3, §4.3).
func (p *Parser) parseUnary() ast.Expr {
	if p.cur.Type == lexer.OPERATOR {
		opTok := p.Advance()
		operand := p.parseUnary()
		if operand == nil {
			return nil
		}
		return &ast.UnaryExpr{BaseNode: ast.BaseNode{Token: opTok}, Op: opTok.Literal[0], Operand: operand}
	}
	return p.parsePrimary()
}

// parsePrimary implements `primary := number | identifier_ref | paren
// | if | for | var`.
func (p *Parser) parsePrimary() ast.Expr {
	switch p.cur.Type {
	case lexer.NUMBER:
		return p.parseNumber()
	case lexer.IDENT:
		return p.parseIdentifier()
	case lexer.LPAREN:
		return p.parseParen()
	case lexer.IF:
		return p.parseIf()
	case lexer.FOR:
		return p.parseFor()
	case lexer.VAR:
		return p.parseVar()
	default:
		p.errorf("Unknown token %s", p.cur.Literal)
		return nil
	}
}

func (p *Parser) parseNumber() ast.Expr {
	tok := p.Advance()
	if strings.Count(tok.Literal, ".") > 1 {
		p.errs.Errorf(tok.Pos, "malformed number literal %q", tok.Literal)
		return nil
	}
	val, err := strconv.ParseFloat(tok.Literal, 64)
	if err != nil {
		p.errs.Errorf(tok.Pos, "malformed number literal %q", tok.Literal)
		return nil
	}
	return &ast.NumberExpr{BaseNode: ast.BaseNode{Token: tok}, Value: val}
}

// parseIdentifier implements `identifier_ref := IDENT ['(' arglist ')']`.
func (p *Parser) parseIdentifier() ast.Expr {
	tok := p.Advance()
	if p.cur.Type != lexer.LPAREN {
		return &ast.VariableExpr{BaseNode: ast.BaseNode{Token: tok}, Name: tok.Literal}
	}

	p.Advance() // consume '('
	args := []ast.Expr{}
	if p.cur.Type != lexer.RPAREN {
		for {
			arg := p.ParseExpression()
			if arg == nil {
				return nil
			}
			args = append(args, arg)
			if p.cur.Type == lexer.COMMA {
				p.Advance()
				if p.cur.Type == lexer.RPAREN {
					p.errorf("Expected ')' or ',' in argument list")
					return nil
				}
				continue
			}
			break
		}
	}
	if _, ok := p.expect(lexer.RPAREN, "Expected ')' or ',' in argument list"); !ok {
		return nil
	}
	return &ast.CallExpr{BaseNode: ast.BaseNode{Token: tok}, Callee: tok.Literal, Args: args}
}

func (p *Parser) parseParen() ast.Expr {
	p.Advance() // consume '('
	inner := p.ParseExpression()
	if inner == nil {
		return nil
	}
	if _, ok := p.expect(lexer.RPAREN, "expected )"); !ok {
		return nil
	}
	return inner
}

// parseIf implements `if := 'if' expression 'then' expression 'else' expression`.
func (p *Parser) parseIf() ast.Expr {
	tok := p.Advance() // consume 'if'
	cond := p.ParseExpression()
	if cond == nil {
		return nil
	}
	if _, ok := p.expect(lexer.THEN, "Expected `then`"); !ok {
		return nil
	}
	thenExpr := p.ParseExpression()
	if thenExpr == nil {
		return nil
	}
	if _, ok := p.expect(lexer.ELSE, "Expected `else`"); !ok {
		return nil
	}
	elseExpr := p.ParseExpression()
	if elseExpr == nil {
		return nil
	}
	return &ast.IfExpr{BaseNode: ast.BaseNode{Token: tok}, Cond: cond, Then: thenExpr, Else: elseExpr}
}

// parseFor implements:
// `for := 'for' IDENT '=' expression ',' expression [',' expression] 'in' expression`.
func (p *Parser) parseFor() ast.Expr {
	tok := p.Advance() // consume 'for'
	identTok, ok := p.expect(lexer.IDENT, "Expected identifier after `for`")
	if !ok {
		return nil
	}
	if _, ok := p.expectOperator('='); !ok {
		p.errorf("expected '=' after for")
		return nil
	}
	start := p.ParseExpression()
	if start == nil {
		return nil
	}
	if _, ok := p.expect(lexer.COMMA, "expected ',' after for start value"); !ok {
		return nil
	}
	end := p.ParseExpression()
	if end == nil {
		return nil
	}

	var step ast.Expr
	if p.cur.Type == lexer.COMMA {
		p.Advance()
		step = p.ParseExpression()
		if step == nil {
			return nil
		}
	}

	if _, ok := p.expect(lexer.IN, "expected 'in' after for"); !ok {
		return nil
	}
	body := p.ParseExpression()
	if body == nil {
		return nil
	}
	return &ast.ForExpr{
		BaseNode: ast.BaseNode{Token: tok},
		Ident:    identTok.Literal,
		Start:    start,
		End:      end,
		Step:     step,
		Body:     body,
	}
}

// parseVar implements `var := 'var' binding (',' binding)* 'in' expression`.
func (p *Parser) parseVar() ast.Expr {
	tok := p.Advance() // consume 'var'

	var bindings []ast.Binding
	for {
		nameTok, ok := p.expect(lexer.IDENT, "Expected identifier list after `var`")
		if !ok {
			return nil
		}
		b := ast.Binding{Name: nameTok.Literal}
		if eqTok, isEq := p.expectOperator('='); isEq {
			_ = eqTok
			init := p.ParseExpression()
			if init == nil {
				return nil
			}
			b.Init = init
		}
		bindings = append(bindings, b)

		if p.cur.Type == lexer.COMMA {
			p.Advance()
			continue
		}
		break
	}

	if len(bindings) == 0 {
		p.errorf("Expected at least one identifier")
		return nil
	}

	if _, ok := p.expect(lexer.IN, "Expected `in` keyword after `var`"); !ok {
		return nil
	}
	body := p.ParseExpression()
	if body == nil {
		return nil
	}
	return &ast.VarInExpr{BaseNode: ast.BaseNode{Token: tok}, Bindings: bindings, Body: body}
}

// expectOperator consumes Current if it is an OPERATOR atom whose
// single character equals ch.
func (p *Parser) expectOperator(ch byte) (lexer.Token, bool) {
	if p.cur.Type == lexer.OPERATOR && len(p.cur.Literal) == 1 && p.cur.Literal[0] == ch {
		return p.Advance(), true
	}
	return lexer.Token{}, false
}

// ParsePrototype implements `prototype := IDENT '(' IDENT* ')'`.
func (p *Parser) ParsePrototype() *ast.Prototype {
	nameTok, ok := p.expect(lexer.IDENT, "Expected function name in prototype")
	if !ok {
		return nil
	}
	if _, ok := p.expect(lexer.LPAREN, "Expected '(' in prototype"); !ok {
		return nil
	}
	var params []string
	for p.cur.Type == lexer.IDENT {
		params = append(params, p.cur.Literal)
		p.Advance()
	}
	if _, ok := p.expect(lexer.RPAREN, "Expected ')' in prototype"); !ok {
		return nil
	}
	return &ast.Prototype{BaseNode: ast.BaseNode{Token: nameTok}, Name: nameTok.Literal, Params: params}
}

// ParseDefinition implements `definition := 'def' prototype expression`.
// PRE: Current is DEF.
func (p *Parser) ParseDefinition() *ast.Function {
	tok := p.Advance() // consume 'def'
	proto := p.ParsePrototype()
	if proto == nil {
		return nil
	}
	body := p.ParseExpression()
	if body == nil {
		return nil
	}
	return &ast.Function{BaseNode: ast.BaseNode{Token: tok}, Proto: proto, Body: body}
}

// ParseExtern implements `extern := 'extern' prototype`.
// PRE: Current is EXTERN.
func (p *Parser) ParseExtern() *ast.Prototype {
	p.Advance() // consume 'extern'
	return p.ParsePrototype()
}

// anonName is the name given to a top-level expression wrapped as a
// zero-arg function by ParseTop, per §4.2.
const anonName = "__anon_expr"

// ParseTop parses a single expression and wraps it in an anonymous,
// zero-parameter function definition so it can be lowered through the
// same path as a named definition. The driver is expected to erase
// the anonymous function from the module after inspecting it.
func (p *Parser) ParseTop() *ast.Function {
	tok := p.cur
	body := p.ParseExpression()
	if body == nil {
		return nil
	}
	proto := &ast.Prototype{BaseNode: ast.BaseNode{Token: tok}, Name: anonName}
	return &ast.Function{BaseNode: ast.BaseNode{Token: tok}, Proto: proto, Body: body, Anonymous: true}
}
