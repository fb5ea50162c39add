// Package parser implements a recursive-descent, one-token-lookahead
// parser producing a typed ast.Program. It owns the user-defined type
// table (type aliases and struct names must be declared, in type
// position, before first use).
package parser

import (
	"github.com/nvlang/nvc/ast"
	"github.com/nvlang/nvc/lexer"
	"github.com/nvlang/nvc/token"
)

// Option configures a Parser.
type Option func(*Parser)

// WithTokenTrace makes the parser record every token it consumes, for the
// driver's -dump-tokens diagnostic flag. It does not change parse results.
func WithTokenTrace() Option {
	return func(p *Parser) {
		p.trace = true
	}
}

// Parser is a recursive-descent parser over a peekable lexer.
type Parser struct {
	lex  *lexer.Lexer
	cur  token.Token
	peek token.Token

	userTypes map[string]ast.Type

	trace      bool
	tokenTrace []token.Token
}

// New creates a Parser over l.
func New(l *lexer.Lexer) *Parser {
	p := &Parser{
		lex:       l,
		userTypes: map[string]ast.Type{},
	}
	p.next()
	p.next()
	return p
}

// WithOptions applies options after construction; returns p for chaining.
func (p *Parser) WithOptions(opts ...Option) *Parser {
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// TokenTrace returns every token consumed so far, when WithTokenTrace was
// set; otherwise nil.
func (p *Parser) TokenTrace() []token.Token {
	return p.tokenTrace
}

func (p *Parser) next() {
	p.cur = p.peek
	p.peek = p.lex.NextToken()
	if p.trace && p.cur.Kind != token.ILLEGAL {
		p.tokenTrace = append(p.tokenTrace, p.cur)
	}
}

func (p *Parser) at(k token.Kind) bool     { return p.cur.Kind == k }
func (p *Parser) peekAt(k token.Kind) bool { return p.peek.Kind == k }

func (p *Parser) expect(k token.Kind) token.Token {
	if p.cur.Kind != k {
		token.Abort("parse", p.cur.Pos, "expected %s, found %s", k, p.cur.Kind)
	}
	t := p.cur
	p.next()
	return t
}

func (p *Parser) ident() string {
	t := p.expect(token.IDENT)
	return t.Meta.Ident
}

// ParseProgram parses the full token stream into an ast.Program. Any
// lexical, syntactic, or type-table violation aborts with a *token.Fatal;
// ParseProgram recovers it and returns it as err.
func (p *Parser) ParseProgram() (prog *ast.Program, err error) {
	defer func() {
		if r := recover(); r != nil {
			if f, ok := r.(*token.Fatal); ok {
				err = f
				return
			}
			panic(r)
		}
	}()

	prog = &ast.Program{}
	for !p.at(token.EOF) {
		prog.Statements = append(prog.Statements, p.parseStatement())
	}
	return prog, nil
}

func (p *Parser) parseStatement() ast.Statement {
	switch p.cur.Kind {
	case token.DEC:
		return p.parseVarDecl()
	case token.AT:
		return p.parseFunctionDecl()
	case token.RETURN:
		return p.parseReturn()
	case token.EXTERN:
		return p.parseExternDecl()
	case token.STRUCT:
		return p.parseStructDecl()
	case token.TYPE:
		return p.parseTypeDecl()
	default:
		return p.parseExprOrAssign()
	}
}

// parseVarDecl parses `dec IDENT Type = expr ;`.
func (p *Parser) parseVarDecl() ast.Statement {
	pos := p.cur.Pos
	p.next() // dec
	name := p.ident()
	typ := p.parseType()
	p.expect(token.ASSIGN)
	value := p.parseExpression(LOWEST)
	p.expect(token.SEMI)
	return &ast.VarDecl{Pos: pos, Name: name, Type: typ, Value: value}
}

// parseFunctionDecl parses
// `@ IDENT ( [Type IDENT {, Type IDENT}] ) Type Block`.
func (p *Parser) parseFunctionDecl() ast.Statement {
	pos := p.cur.Pos
	p.next() // @
	name := p.ident()
	p.expect(token.LPAREN)

	var args []ast.Param
	for !p.at(token.RPAREN) {
		t := p.parseType()
		n := p.ident()
		args = append(args, ast.Param{Name: n, Type: t})
		if p.at(token.COMMA) {
			p.next()
		}
	}
	p.expect(token.RPAREN)

	retType := p.parseType()
	body := p.parseBlock()

	localsSize := 8
	for _, s := range body.Stmts {
		if vd, ok := s.(*ast.VarDecl); ok {
			localsSize += vd.Type.Size()
		}
	}

	return &ast.FunctionDecl{
		Pos: pos, Name: name, Args: args, ReturnType: retType,
		Body: body, LocalsSize: localsSize,
	}
}

// parseBlock parses `{ stmt* }`. Only the statement forms in
// parseStatement's dispatch table are recognized inside a block; there is
// no nested-block or control-flow statement production in this core.
func (p *Parser) parseBlock() *ast.Block {
	pos := p.cur.Pos
	p.expect(token.LBRACE)
	block := &ast.Block{Pos: pos}
	for !p.at(token.RBRACE) {
		block.Stmts = append(block.Stmts, p.parseStatement())
	}
	p.expect(token.RBRACE)
	return block
}

func (p *Parser) parseReturn() ast.Statement {
	pos := p.cur.Pos
	p.next() // return
	value := p.parseExpression(LOWEST)
	p.expect(token.SEMI)
	return &ast.Return{Pos: pos, Value: value}
}

// parseExternDecl parses `extern IDENT ( [Type {, Type}] ) Type ;`.
func (p *Parser) parseExternDecl() ast.Statement {
	pos := p.cur.Pos
	p.next() // extern
	name := p.ident()
	p.expect(token.LPAREN)

	var argTypes []ast.Type
	for !p.at(token.RPAREN) {
		argTypes = append(argTypes, p.parseType())
		if p.at(token.COMMA) {
			p.next()
		}
	}
	p.expect(token.RPAREN)
	retType := p.parseType()
	p.expect(token.SEMI)

	return &ast.ExternDecl{Pos: pos, Name: name, Sig: ast.Signature{Args: argTypes, Return: retType}}
}

// parseStructDecl parses `struct IDENT { {IDENT Type [= expr] [,]} }` and
// registers the struct as a named type in the parser's user-type table.
func (p *Parser) parseStructDecl() ast.Statement {
	pos := p.cur.Pos
	p.next() // struct
	name := p.ident()
	p.expect(token.LBRACE)

	var fields []ast.StructFieldDecl
	for !p.at(token.RBRACE) {
		fname := p.ident()
		ftype := p.parseType()
		var def ast.Expression
		if p.at(token.ASSIGN) {
			p.next()
			def = p.parseExpression(LOWEST)
		}
		fields = append(fields, ast.StructFieldDecl{Name: fname, Type: ftype, Default: def})
		if p.at(token.COMMA) {
			p.next()
		}
	}
	p.expect(token.RBRACE)

	structType := ast.Struct{Name: name}
	for _, f := range fields {
		structType.Fields = append(structType.Fields, ast.StructField{Name: f.Name, Type: f.Type})
	}
	p.userTypes[name] = ast.Alias{Name: name, Target: structType}

	return &ast.StructDecl{Pos: pos, Name: name, Fields: fields}
}

// parseTypeDecl parses `type IDENT : Type ;` and registers the alias.
func (p *Parser) parseTypeDecl() ast.Statement {
	pos := p.cur.Pos
	p.next() // type
	name := p.ident()
	p.expect(token.COLON)
	target := p.parseType()
	p.expect(token.SEMI)

	p.userTypes[name] = ast.Alias{Name: name, Target: target}
	return &ast.TypeDecl{Pos: pos, Alias: name, Target: target}
}

// parseExprOrAssign parses a bare expression statement, which is either
// terminated by `;` (ExprStmt) or followed by `= expr ;` (Assign, whose
// lhs must be an lvalue).
func (p *Parser) parseExprOrAssign() ast.Statement {
	pos := p.cur.Pos
	expr := p.parseExpression(LOWEST)
	if p.at(token.ASSIGN) {
		p.next()
		if !ast.IsLvalue(expr) {
			token.Abort("parse", pos, "illegal assignment target")
		}
		rhs := p.parseExpression(LOWEST)
		p.expect(token.SEMI)
		return &ast.Assign{Pos: pos, LHS: expr, RHS: rhs}
	}
	p.expect(token.SEMI)
	return &ast.ExprStmt{Pos: pos, Value: expr}
}

// parseType consumes one type expression: a built-in keyword, a `&`
// recursively parsed Pointer, or an identifier looked up in the parser's
// user_types table (unknown names abort — type aliases must precede use).
func (p *Parser) parseType() ast.Type {
	switch p.cur.Kind {
	case token.INT_T:
		p.next()
		return ast.Integer{}
	case token.FLOAT_T:
		p.next()
		return ast.Float{}
	case token.STRING_T:
		p.next()
		return ast.String{}
	case token.VOID_T, token.UNIT_T:
		p.next()
		return ast.Void{}
	case token.AMP:
		p.next()
		return ast.Pointer{Elem: p.parseType()}
	case token.IDENT:
		name := p.cur.Meta.Ident
		pos := p.cur.Pos
		p.next()
		t, ok := p.userTypes[name]
		if !ok {
			token.Abort("parse", pos, "unknown type %q", name)
		}
		return t
	default:
		token.Abort("parse", p.cur.Pos, "expected a type, found %s", p.cur.Kind)
		panic("unreachable")
	}
}
