package parser

import (
	"github.com/nvlang/nvc/ast"
	"github.com/nvlang/nvc/token"
)

// Operator precedence levels, lowest to highest, per the grammar:
// equality -> comparison -> term -> factor -> unary -> primary.
const (
	_ int = iota
	LOWEST
	EQUALITY
	COMPARISON
	TERM
	FACTOR
	UNARY
)

var precedences = map[token.Kind]int{
	token.EQ:  EQUALITY,
	token.NEQ: EQUALITY,

	token.LT: COMPARISON,
	token.LE: COMPARISON,
	token.GT: COMPARISON,
	token.GE: COMPARISON,

	token.PLUS:  TERM,
	token.MINUS: TERM,

	token.STAR:  FACTOR,
	token.SLASH: FACTOR,
}

// parseExpression implements the Pratt-style precedence climb: it parses
// one unary term, then folds in binary operators whose precedence is
// strictly greater than minPrec.
func (p *Parser) parseExpression(minPrec int) ast.Expression {
	left := p.parseUnary()

	for minPrec < p.precedenceOfCurrentAsInfix() {
		opTok := p.cur
		p.next()
		right := p.parseExpression(precedences[opTok.Kind])
		left = &ast.Binary{Pos: opTok.Pos, Left: left, Op: opTok.Kind, Right: right}
	}
	return left
}

func (p *Parser) precedenceOfCurrentAsInfix() int {
	if prec, ok := precedences[p.cur.Kind]; ok {
		return prec
	}
	return LOWEST
}

// parseUnary handles the unary level: `! - & *` prefix operators, falling
// through to primary.
func (p *Parser) parseUnary() ast.Expression {
	switch p.cur.Kind {
	case token.BANG, token.MINUS, token.AMP, token.STAR:
		opTok := p.cur
		p.next()
		inner := p.parseUnary()
		return &ast.Unary{Pos: opTok.Pos, Op: opTok.Kind, Inner: inner}
	default:
		return p.parsePrimary()
	}
}

// parsePrimary handles integer/float/string/identifier/void literals,
// `IDENT ( args )` calls, `{ IDENT: expr, ... }` struct literals, and
// parenthesized sub-expressions.
func (p *Parser) parsePrimary() ast.Expression {
	switch p.cur.Kind {
	case token.INTEGER, token.FLOAT, token.STRING, token.VOID:
		lit := &ast.Literal{Token: p.cur}
		p.next()
		return lit

	case token.IDENT:
		name := p.cur.Meta.Ident
		pos := p.cur.Pos
		identTok := p.cur
		if p.peekAt(token.LPAREN) {
			p.next() // consume ident
			p.next() // consume (
			var args []ast.Expression
			for !p.at(token.RPAREN) {
				args = append(args, p.parseExpression(LOWEST))
				if p.at(token.COMMA) {
					p.next()
				}
			}
			p.expect(token.RPAREN)
			return &ast.Call{Pos: pos, Name: name, Args: args}
		}
		p.next()
		return &ast.Literal{Token: identTok}

	case token.LBRACE:
		return p.parseStructLiteral()

	case token.LPAREN:
		p.next()
		inner := p.parseExpression(LOWEST)
		p.expect(token.RPAREN)
		return inner

	default:
		token.Abort("parse", p.cur.Pos, "expected an expression, found %s", p.cur.Kind)
		panic("unreachable")
	}
}

// parseStructLiteral parses `{ IDENT : expr {, IDENT : expr} }`.
func (p *Parser) parseStructLiteral() ast.Expression {
	pos := p.cur.Pos
	p.expect(token.LBRACE)
	var fields []ast.StructFieldInit
	for !p.at(token.RBRACE) {
		name := p.ident()
		p.expect(token.COLON)
		value := p.parseExpression(LOWEST)
		fields = append(fields, ast.StructFieldInit{Name: name, Value: value})
		if p.at(token.COMMA) {
			p.next()
		}
	}
	p.expect(token.RBRACE)
	return &ast.StructExpr{Pos: pos, Fields: fields}
}
