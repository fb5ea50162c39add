package typecheck

import (
	"github.com/nvlang/nvc/ast"
	"github.com/nvlang/nvc/token"
)

// Checker walks a Program and validates every declaration and expression
// against the language's type rules, aborting via token.Abort on the
// first violation.
type Checker struct {
	env *Environment
}

// NewChecker returns a Checker with a fresh top-level environment.
func NewChecker() *Checker {
	return &Checker{env: NewEnvironment()}
}

// Check type-checks prog. Any violation aborts with a *token.Fatal; Check
// recovers it and returns it as err.
func Check(prog *ast.Program) (err error) {
	defer func() {
		if r := recover(); r != nil {
			if f, ok := r.(*token.Fatal); ok {
				err = f
				return
			}
			panic(r)
		}
	}()
	NewChecker().checkStatements(prog.Statements)
	return nil
}

// checkStatements pre-scans every FunctionDecl and ExternDecl in stmts to
// register its signature before checking bodies, so forward and mutually
// recursive calls resolve. Extern signatures are pre-registered alongside
// functions for the same reason: a call can precede the extern declaration
// it targets.
func (c *Checker) checkStatements(stmts []ast.Statement) {
	for _, s := range stmts {
		switch d := s.(type) {
		case *ast.FunctionDecl:
			c.env.Functions[d.Name] = funcSig{Args: paramTypes(d.Args), Return: d.ReturnType}
		case *ast.ExternDecl:
			c.env.Functions[d.Name] = funcSig{Args: d.Sig.Args, Return: d.Sig.Return}
		}
	}
	for _, s := range stmts {
		c.checkStatement(s)
	}
}

func paramTypes(params []ast.Param) []ast.Type {
	types := make([]ast.Type, len(params))
	for i, p := range params {
		types[i] = p.Type
	}
	return types
}

func (c *Checker) checkStatement(s ast.Statement) {
	switch v := s.(type) {
	case *ast.VarDecl:
		c.checkVarDecl(v)
	case *ast.Assign:
		c.checkAssign(v)
	case *ast.Return:
		c.checkReturn(v)
	case *ast.ExprStmt:
		c.typeOf(v.Value)
	case *ast.FunctionDecl:
		c.checkFunctionDecl(v)
	case *ast.ExternDecl:
		// Already registered by the pre-scan; extern bodies don't exist.
	case *ast.TypeDecl:
		// Alias registration happened in the parser; nothing to check.
	case *ast.StructDecl:
		// Struct registration happened in the parser; nothing to check.
	default:
		token.Abort("typecheck", s.Position(), "unrecognized statement %T", s)
	}
}

func (c *Checker) checkVarDecl(v *ast.VarDecl) {
	declared := ast.Resolve(v.Type)
	got := ast.Resolve(c.typeOf(v.Value))
	if !ast.Equal(declared, got) {
		token.Abort("typecheck", v.Pos,
			"variable %q declared as %s but initialized with %s", v.Name, declared, got)
	}
	c.env.Vars[v.Name] = v.Type
}

func (c *Checker) checkAssign(a *ast.Assign) {
	lhs := ast.Resolve(c.typeOf(a.LHS))
	rhs := ast.Resolve(c.typeOf(a.RHS))
	if !ast.Equal(lhs, rhs) {
		token.Abort("typecheck", a.Pos, "cannot assign %s to a variable of type %s", rhs, lhs)
	}
}

func (c *Checker) checkReturn(r *ast.Return) {
	if c.env.ReturnType == nil {
		token.Abort("typecheck", r.Pos, "return statement outside of a function")
	}
	expected := ast.Resolve(c.env.ReturnType)
	got := ast.Resolve(c.typeOf(r.Value))
	if !ast.Equal(expected, got) {
		token.Abort("typecheck", r.Pos, "return type mismatch: expected %s, got %s", expected, got)
	}
}

// checkFunctionDecl checks one function body in a scope seeded with its
// parameters, then restores the enclosing scope. The function's own
// signature was already registered by checkStatements's pre-scan.
func (c *Checker) checkFunctionDecl(f *ast.FunctionDecl) {
	savedVars := c.env.snapshotVars()
	savedReturn := c.env.ReturnType
	c.env.ReturnType = f.ReturnType

	for _, p := range f.Args {
		c.env.Vars[p.Name] = p.Type
	}

	for _, s := range f.Body.Stmts {
		c.checkStatement(s)
	}

	c.env.Vars = savedVars
	c.env.ReturnType = savedReturn
}

// typeOf evaluates an expression's type, aborting on any rule violation.
// Supported operators are: arithmetic on Integer/Float with float-dominance
// promotion, equality and division always yielding Float (the language has
// no boolean type), address-of and dereference, and call-site arity/type
// checking. Comparison operators other than == (!=, <, <=, >, >=) and the
// unary ! and - operators have no typing rule at all and are rejected as
// unsupported rather than silently accepted.
func (c *Checker) typeOf(e ast.Expression) ast.Type {
	switch v := e.(type) {
	case *ast.Literal:
		return c.typeOfLiteral(v)
	case *ast.Binary:
		return c.typeOfBinary(v)
	case *ast.Unary:
		return c.typeOfUnary(v)
	case *ast.Call:
		return c.typeOfCall(v)
	case *ast.StructExpr:
		return c.typeOfStructExpr(v)
	default:
		token.Abort("typecheck", e.Position(), "unrecognized expression %T", e)
		panic("unreachable")
	}
}

func (c *Checker) typeOfLiteral(l *ast.Literal) ast.Type {
	switch l.Token.Kind {
	case token.INTEGER:
		if l.Token.Meta.Kind == token.MetaFloat {
			return ast.Float{}
		}
		return ast.Integer{}
	case token.STRING:
		return ast.String{}
	case token.VOID:
		// no literal syntax produces this token yet; kept for the full literal tag set
		return ast.Void{}
	case token.IDENT:
		name := l.Token.Meta.Ident
		t, ok := c.env.Vars[name]
		if !ok {
			token.Abort("typecheck", l.Token.Pos, "unknown variable %q", name)
		}
		return t
	default:
		token.Abort("typecheck", l.Token.Pos, "unrecognized literal %s", l.Token.Kind)
		panic("unreachable")
	}
}

func (c *Checker) typeOfBinary(b *ast.Binary) ast.Type {
	lhs := ast.Resolve(c.typeOf(b.Left))
	rhs := ast.Resolve(c.typeOf(b.Right))

	switch b.Op {
	case token.PLUS, token.MINUS, token.STAR:
		_, lInt := lhs.(ast.Integer)
		_, rInt := rhs.(ast.Integer)
		_, lFloat := lhs.(ast.Float)
		_, rFloat := rhs.(ast.Float)
		switch {
		case lInt && rInt:
			return ast.Integer{}
		case (lInt && rFloat) || (lFloat && rInt) || (lFloat && rFloat):
			return ast.Float{}
		default:
			token.Abort("typecheck", b.Pos, "operator %s requires numeric operands, got %s and %s", b.Op, lhs, rhs)
		}
	case token.SLASH:
		return ast.Float{}
	case token.EQ:
		return ast.Float{}
	default:
		token.Abort("typecheck", b.Pos, "operator %s is not supported in expressions", b.Op)
	}
	panic("unreachable")
}

func (c *Checker) typeOfUnary(u *ast.Unary) ast.Type {
	switch u.Op {
	case token.AMP:
		return ast.Pointer{Elem: c.typeOf(u.Inner)}
	case token.STAR:
		inner := ast.Resolve(c.typeOf(u.Inner))
		ptr, ok := inner.(ast.Pointer)
		if !ok {
			token.Abort("typecheck", u.Pos, "cannot dereference non-pointer type %s", inner)
		}
		return ptr.Elem
	default:
		token.Abort("typecheck", u.Pos, "operator %s is not supported in expressions", u.Op)
		panic("unreachable")
	}
}

func (c *Checker) typeOfCall(call *ast.Call) ast.Type {
	sig, ok := c.env.Functions[call.Name]
	if !ok {
		token.Abort("typecheck", call.Pos, "call to undeclared function %q", call.Name)
	}
	if len(call.Args) != len(sig.Args) {
		token.Abort("typecheck", call.Pos,
			"function %q expects %d argument(s), got %d", call.Name, len(sig.Args), len(call.Args))
	}
	for i, arg := range call.Args {
		got := ast.Resolve(c.typeOf(arg))
		want := ast.Resolve(sig.Args[i])
		if !ast.Equal(got, want) {
			token.Abort("typecheck", call.Pos,
				"argument %d of %q: expected %s, got %s", i+1, call.Name, want, got)
		}
	}
	return sig.Return
}

func (c *Checker) typeOfStructExpr(s *ast.StructExpr) ast.Type {
	fields := make([]ast.StructField, len(s.Fields))
	for i, f := range s.Fields {
		fields[i] = ast.StructField{Name: f.Name, Type: c.typeOf(f.Value)}
	}
	return ast.Struct{Fields: fields}
}
