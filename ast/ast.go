// Package ast defines the tagged-variant node types produced by the
// parser: expressions, statements, and the Type variant (see type.go).
package ast

import "github.com/nvlang/nvc/token"

// Node is the base interface every AST node satisfies.
type Node interface {
	Position() token.Position
}

// Expression is the closed set of expression nodes: Binary, Unary,
// Literal, Call, and StructExpr.
type Expression interface {
	Node
	expressionNode()
}

// Statement is the closed set of statement nodes.
type Statement interface {
	Node
	statementNode()
}

// Program is the root node: an ordered sequence of top-level statements.
type Program struct {
	Statements []Statement
}

// --- Expressions ---

// Binary is a binary operation: Left Op Right.
type Binary struct {
	Pos   token.Position
	Left  Expression
	Op    token.Kind
	Right Expression
}

func (b *Binary) Position() token.Position { return b.Pos }
func (*Binary) expressionNode()            {}

// Unary is a unary operation: Op applied to Inner. Op is one of
// token.BANG, token.MINUS, token.AMP (&), or token.STAR (*).
type Unary struct {
	Pos   token.Position
	Op    token.Kind
	Inner Expression
}

func (u *Unary) Position() token.Position { return u.Pos }
func (*Unary) expressionNode()            {}

// Literal wraps a single literal or identifier token: integer, float,
// string, void, or identifier.
type Literal struct {
	Token token.Token
}

func (l *Literal) Position() token.Position { return l.Token.Pos }
func (*Literal) expressionNode()            {}

// Call is a function invocation: Name(Args...).
type Call struct {
	Pos  token.Position
	Name string
	Args []Expression
}

func (c *Call) Position() token.Position { return c.Pos }
func (*Call) expressionNode()            {}

// StructFieldInit is one `name: expr` pair in a struct literal.
type StructFieldInit struct {
	Name  string
	Value Expression
}

// StructExpr is a struct literal: { name: expr, ... }.
type StructExpr struct {
	Pos    token.Position
	Fields []StructFieldInit
}

func (s *StructExpr) Position() token.Position { return s.Pos }
func (*StructExpr) expressionNode()            {}

// IsLvalue reports whether e can have its address taken: an identifier
// literal, or a pointer-dereference unary expression (*e).
func IsLvalue(e Expression) bool {
	switch v := e.(type) {
	case *Literal:
		return v.Token.Kind == token.IDENT
	case *Unary:
		return v.Op == token.STAR
	default:
		return false
	}
}

// --- Statements ---

// VarDecl is `dec name Type = value;`.
type VarDecl struct {
	Pos   token.Position
	Name  string
	Type  Type
	Value Expression
}

func (v *VarDecl) Position() token.Position { return v.Pos }
func (*VarDecl) statementNode()             {}

// Assign is `lhs = rhs;`; LHS must satisfy IsLvalue.
type Assign struct {
	Pos token.Position
	LHS Expression
	RHS Expression
}

func (a *Assign) Position() token.Position { return a.Pos }
func (*Assign) statementNode()             {}

// Return is `return value;`.
type Return struct {
	Pos   token.Position
	Value Expression
}

func (r *Return) Position() token.Position { return r.Pos }
func (*Return) statementNode()             {}

// ExprStmt is an expression evaluated for its side effect; its value is
// discarded.
type ExprStmt struct {
	Pos   token.Position
	Value Expression
}

func (e *ExprStmt) Position() token.Position { return e.Pos }
func (*ExprStmt) statementNode()             {}

// Block is an ordered list of statements, used as a function body.
type Block struct {
	Pos   token.Position
	Stmts []Statement
}

func (b *Block) Position() token.Position { return b.Pos }
func (*Block) statementNode()             {}

// Param is one (name, type) pair in a function's or extern's signature.
type Param struct {
	Name string
	Type Type
}

// FunctionDecl is `@ name(Type name, ...) Type { body }`.
type FunctionDecl struct {
	Pos        token.Position
	Name       string
	Args       []Param
	ReturnType Type
	Body       *Block
	// LocalsSize is 8 (saved frame-pointer area) plus the sum of
	// Size(type) over every VarDecl appearing directly in Body.
	LocalsSize int
}

func (f *FunctionDecl) Position() token.Position { return f.Pos }
func (*FunctionDecl) statementNode()             {}

// Signature is a function's argument types and return type, used for
// ExternDecl and for the type checker's function environment.
type Signature struct {
	Args   []Type
	Return Type
}

// ExternDecl is `extern name(Type, ...) Type;`.
type ExternDecl struct {
	Pos  token.Position
	Name string
	Sig  Signature
}

func (e *ExternDecl) Position() token.Position { return e.Pos }
func (*ExternDecl) statementNode()             {}

// TypeDecl is `type Alias : Target;`.
type TypeDecl struct {
	Pos    token.Position
	Alias  string
	Target Type
}

func (t *TypeDecl) Position() token.Position { return t.Pos }
func (*TypeDecl) statementNode()             {}

// StructFieldDecl is one field of a struct definition, with an optional
// default-value expression.
type StructFieldDecl struct {
	Name    string
	Type    Type
	Default Expression // nil when no default is given
}

// StructDecl is `struct Name { name Type [= expr], ... }`; it also
// registers Name as an alias to a Struct type in the parser's user-type
// table.
type StructDecl struct {
	Pos    token.Position
	Name   string
	Fields []StructFieldDecl
}

func (s *StructDecl) Position() token.Position { return s.Pos }
func (*StructDecl) statementNode()             {}
