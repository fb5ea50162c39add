// Package codegen lowers a type-checked ast.Program into x86-64 NASM
// assembly text targeting the System V AMD64 calling convention.
package codegen

import (
	"fmt"
	"strings"

	"github.com/nvlang/nvc/ast"
	"github.com/nvlang/nvc/token"
)

// symbol is one entry of a function's symbol table: a variable's or
// parameter's offset below rbp (a positive magnitude; the memory operand
// is always written as `[rbp-offset]`) and its size in bytes.
type symbol struct {
	offset int
	size   int
}

// Generator accumulates NASM output: a data section for string literals
// and a text section made of one labeled body per function, plus the
// global/extern declarations collected along the way.
type Generator struct {
	data strings.Builder

	globals []string
	externs []string
	bodies  []string // one fully-formed "name:\n<body>" block per function

	dataCounter int

	// Per-function state, reset at the start of each compileFunction call.
	symbols     map[string]symbol
	stackCursor int
}

// New returns an empty Generator.
func New() *Generator {
	return &Generator{symbols: map[string]symbol{}}
}

// Generate lowers prog to NASM source text. Any codegen-stage violation
// aborts with a *token.Fatal; Generate recovers it and returns it as err.
func Generate(prog *ast.Program) (asm string, err error) {
	defer func() {
		if r := recover(); r != nil {
			if f, ok := r.(*token.Fatal); ok {
				err = f
				return
			}
			panic(r)
		}
	}()
	g := New()
	g.compileProgram(prog)
	return g.assemble(), nil
}

func (g *Generator) compileProgram(prog *ast.Program) {
	for _, s := range prog.Statements {
		switch d := s.(type) {
		case *ast.FunctionDecl:
			g.globals = append(g.globals, d.Name)
			g.bodies = append(g.bodies, g.compileFunction(d))
		case *ast.ExternDecl:
			g.externs = append(g.externs, d.Name)
		case *ast.TypeDecl, *ast.StructDecl:
			// Type-level declarations emit no code.
		default:
			token.Abort("codegen", s.Position(),
				"top-level statement %T is not supported: a module consists only of functions, externs, and type declarations", s)
		}
	}
}

func (g *Generator) assemble() string {
	var out strings.Builder
	out.WriteString("section .data\n")
	out.WriteString(g.data.String())
	out.WriteString("section .text\n")
	for _, name := range g.globals {
		fmt.Fprintf(&out, "  global %s\n", name)
	}
	for _, name := range g.externs {
		fmt.Fprintf(&out, "  extern %s\n", name)
	}
	for _, body := range g.bodies {
		out.WriteString(body)
	}
	return out.String()
}

// paramSize is the on-stack width of a function parameter: Integer spills
// as 4 bytes, everything else (Float, String, Pointer, Struct, an alias
// resolving to one of those) as its natural size.
func paramSize(t ast.Type) int {
	switch ast.Resolve(t).(type) {
	case ast.Integer:
		return 4
	default:
		return t.Size()
	}
}

func alignTo16(n int) int {
	return (n + 15) &^ 15
}

// compileFunction compiles one function declaration to a complete
// "name:\n<body>" assembly block, with its own fresh symbol table and
// stack cursor.
func (g *Generator) compileFunction(f *ast.FunctionDecl) string {
	g.symbols = map[string]symbol{}
	g.stackCursor = 0

	if len(f.Args) > len(abiArgRegs) {
		token.Abort("codegen", f.Pos,
			"function %q has %d parameters; only %d fit in argument registers", f.Name, len(f.Args), len(abiArgRegs))
	}

	paramTotal := 0
	for _, p := range f.Args {
		paramTotal += paramSize(p.Type)
	}
	frameSize := alignTo16(paramTotal + f.LocalsSize)

	var body strings.Builder
	fmt.Fprintf(&body, "%s:\n", f.Name)
	body.WriteString("  push rbp\n")
	body.WriteString("  mov rbp, rsp\n")
	fmt.Fprintf(&body, "  sub rsp, %d\n", frameSize)

	for i, p := range f.Args {
		size := paramSize(p.Type)
		g.stackCursor -= size
		offset := -g.stackCursor
		reg := sized(abiArgRegs[i], size)
		fmt.Fprintf(&body, "  mov %s [rbp-%d], %s\n", sizeDirective(size), offset, reg)
		g.symbols[p.Name] = symbol{offset: offset, size: size}
	}

	hasReturn := false
	for _, stmt := range f.Body.Stmts {
		if _, ok := stmt.(*ast.Return); ok {
			hasReturn = true
		}
		g.compileStatement(stmt, &body)
	}

	if !hasReturn {
		body.WriteString("  mov rax, 0\n")
	}
	body.WriteString("  leave\n")
	body.WriteString("  ret\n")

	return body.String()
}

func (g *Generator) compileStatement(s ast.Statement, out *strings.Builder) {
	switch v := s.(type) {
	case *ast.VarDecl:
		g.compileVarDecl(v, out)
	case *ast.Assign:
		g.compileAssign(v, out)
	case *ast.Return:
		g.compileExpr(v.Value, "rax", out)
	case *ast.ExprStmt:
		g.compileExpr(v.Value, "rax", out)
	default:
		token.Abort("codegen", s.Position(), "statement %T is not supported in a function body", s)
	}
}

// compileVarDecl stores a declaration's value into its freshly reserved
// stack slot. A struct-typed declaration initialized from a struct literal
// is materialized field by field, each field stored straight into its own
// sub-offset; every other type routes through the single-register
// compileExpr path using rax.
func (g *Generator) compileVarDecl(v *ast.VarDecl, out *strings.Builder) {
	resolved := ast.Resolve(v.Type)

	if st, ok := resolved.(ast.Struct); ok {
		structExpr, ok := v.Value.(*ast.StructExpr)
		if !ok {
			token.Abort("codegen", v.Pos, "struct-typed variable %q must be initialized with a struct literal", v.Name)
		}
		g.compileStructMaterialization(v.Name, st, structExpr, out)
		return
	}

	size := resolved.Size()
	if size > 8 {
		token.Abort("codegen", v.Pos, "unsupported variable size for %q: %d bytes", v.Name, size)
	}

	g.compileExpr(v.Value, "rax", out)
	g.stackCursor -= size
	offset := -g.stackCursor
	fmt.Fprintf(out, "  mov %s [rbp-%d], %s\n", sizeDirective(size), offset, sized("rax", size))
	g.symbols[v.Name] = symbol{offset: offset, size: size}
}

// compileStructMaterialization reserves one stack region sized to the
// whole struct, then stores each field expression into its own sub-offset
// within that region, in declaration order.
func (g *Generator) compileStructMaterialization(name string, st ast.Struct, lit *ast.StructExpr, out *strings.Builder) {
	if len(lit.Fields) != len(st.Fields) {
		token.Abort("codegen", lit.Pos,
			"struct literal for %q has %d field(s), expected %d", name, len(lit.Fields), len(st.Fields))
	}

	total := st.Size()
	g.stackCursor -= total
	base := -g.stackCursor
	g.symbols[name] = symbol{offset: base, size: total}

	fieldOffset := base - total
	for i, field := range st.Fields {
		size := field.Type.Size()
		if size > 8 {
			token.Abort("codegen", lit.Pos, "unsupported field size for %s.%s: %d bytes", name, field.Name, size)
		}
		fieldOffset += size
		g.compileExpr(lit.Fields[i].Value, "rax", out)
		fmt.Fprintf(out, "  mov %s [rbp-%d], %s\n", sizeDirective(size), fieldOffset, sized("rax", size))
	}
}

// compileAssign implements `lhs = rhs;`: the address of lhs goes into rbx,
// the value of rhs into rdx, then a single indirect store.
func (g *Generator) compileAssign(a *ast.Assign, out *strings.Builder) {
	g.compileAddress(a.LHS, "rbx", out)
	g.compileExpr(a.RHS, "rdx", out)
	out.WriteString("  mov [rbx], rdx\n")
}

// compileExpr emits instructions that leave expr's value in reg.
func (g *Generator) compileExpr(expr ast.Expression, reg string, out *strings.Builder) {
	switch e := expr.(type) {
	case *ast.Literal:
		g.compileLiteral(e, reg, out)
	case *ast.Binary:
		g.compileBinary(e, reg, out)
	case *ast.Unary:
		g.compileUnary(e, reg, out)
	case *ast.Call:
		g.compileCall(e, reg, out)
	default:
		token.Abort("codegen", expr.Position(), "expression %T is not supported here", expr)
	}
}

func (g *Generator) compileLiteral(l *ast.Literal, reg string, out *strings.Builder) {
	switch l.Token.Kind {
	case token.INTEGER:
		if l.Token.Meta.Kind == token.MetaFloat {
			fmt.Fprintf(out, "  mov %s, %.9f\n", reg, l.Token.Meta.Float64)
			return
		}
		fmt.Fprintf(out, "  mov %s, %d\n", reg, l.Token.Meta.Int)
	case token.STRING:
		label := g.internString(l.Token.Meta.Str)
		fmt.Fprintf(out, "  lea %s, [rel %s]\n", reg, label)
	case token.IDENT:
		sym, ok := g.symbols[l.Token.Meta.Ident]
		if !ok {
			token.Abort("codegen", l.Token.Pos, "unknown identifier %q at emit time", l.Token.Meta.Ident)
		}
		g.loadSized(reg, sym, out)
	default:
		token.Abort("codegen", l.Token.Pos, "literal kind %s is not supported in codegen", l.Token.Kind)
	}
}

// loadSized loads sym's value into reg, zero-extending sub-word widths
// with movzx and failing if sym is wider than reg's 64-bit family.
func (g *Generator) loadSized(reg string, sym symbol, out *strings.Builder) {
	if sym.size > 8 {
		token.Abort("codegen", token.Position{}, "unsupported variable size: %d bytes", sym.size)
	}
	mem := fmt.Sprintf("%s [rbp-%d]", sizeDirective(sym.size), sym.offset)
	switch sym.size {
	case 8, 4:
		fmt.Fprintf(out, "  mov %s, %s\n", sized(reg, sym.size), mem)
	default:
		fmt.Fprintf(out, "  movzx %s, %s\n", sized(reg, 8), mem)
	}
}

// internString allocates a fresh, monotonically numbered data label for a
// string literal's lexeme (which already includes its surrounding quotes).
func (g *Generator) internString(lexeme string) string {
	n := g.dataCounter
	g.dataCounter++
	label := fmt.Sprintf("LC_%d", n)
	length := len(lexeme) - 2 // exclude the quotes the lexer kept on the lexeme
	fmt.Fprintf(&g.data, "  %s db %s, 0\n", label, lexeme)
	fmt.Fprintf(&g.data, "  LC_len_%d equ %d\n", n, length)
	return label
}

// compileBinary evaluates left into reg, pushes it, evaluates right into
// reg, pops the saved left value into rbx, then combines. Every push here
// has exactly one matching pop, so rsp returns to its pre-expression value
// once the subtree finishes, regardless of how deeply binary expressions
// nest.
func (g *Generator) compileBinary(b *ast.Binary, reg string, out *strings.Builder) {
	g.compileExpr(b.Left, reg, out)
	fmt.Fprintf(out, "  push %s\n", reg)
	g.compileExpr(b.Right, reg, out)
	out.WriteString("  pop rbx\n")

	switch b.Op {
	case token.PLUS:
		fmt.Fprintf(out, "  add %s, rbx\n", reg)
	case token.MINUS:
		fmt.Fprintf(out, "  sub %s, rbx\n", reg)
	case token.STAR:
		fmt.Fprintf(out, "  imul %s, rbx\n", reg)
	case token.SLASH:
		out.WriteString("  mov rax, rbx\n")
		out.WriteString("  xor rdx, rdx\n")
		fmt.Fprintf(out, "  div %s\n", reg)
		fmt.Fprintf(out, "  mov %s, rax\n", reg)
	case token.EQ:
		// The type checker gives this a Float result type (the language has
		// no boolean type); codegen only needs the 0/1 comparison outcome
		// to round-trip through the existing register.
		fmt.Fprintf(out, "  cmp rbx, %s\n", reg)
		out.WriteString("  sete al\n")
		fmt.Fprintf(out, "  movzx %s, al\n", sized(reg, 8))
	default:
		token.Abort("codegen", b.Pos, "operator %s is not supported in codegen", b.Op)
	}
}

func (g *Generator) compileUnary(u *ast.Unary, reg string, out *strings.Builder) {
	switch u.Op {
	case token.AMP:
		g.compileAddress(u.Inner, reg, out)
	case token.STAR:
		g.compileExpr(u.Inner, reg, out)
		fmt.Fprintf(out, "  mov %s, [%s]\n", reg, reg)
	default:
		token.Abort("codegen", u.Pos, "operator %s is not supported in codegen", u.Op)
	}
}

// compileCall spills each argument into its ABI register in order, zeroes
// rax (no variadic float arguments are ever passed), calls, and moves the
// result into reg.
func (g *Generator) compileCall(c *ast.Call, reg string, out *strings.Builder) {
	if len(c.Args) > len(abiArgRegs) {
		token.Abort("codegen", c.Pos, "call to %q has %d arguments; only %d fit in argument registers", c.Name, len(c.Args), len(abiArgRegs))
	}
	for i, arg := range c.Args {
		g.compileExpr(arg, abiArgRegs[i], out)
	}
	out.WriteString("  xor rax, rax\n")
	fmt.Fprintf(out, "  call %s\n", c.Name)
	if reg != "rax" {
		fmt.Fprintf(out, "  mov %s, rax\n", reg)
	}
}

// compileAddress emits instructions leaving expr's address in reg.
func (g *Generator) compileAddress(expr ast.Expression, reg string, out *strings.Builder) {
	switch e := expr.(type) {
	case *ast.Literal:
		if e.Token.Kind != token.IDENT {
			token.Abort("codegen", e.Token.Pos, "cannot take the address of a non-identifier literal")
		}
		sym, ok := g.symbols[e.Token.Meta.Ident]
		if !ok {
			token.Abort("codegen", e.Token.Pos, "unknown identifier %q at emit time", e.Token.Meta.Ident)
		}
		fmt.Fprintf(out, "  lea %s, [rbp-%d]\n", reg, sym.offset)
	case *ast.Unary:
		switch e.Op {
		case token.AMP, token.STAR:
			g.compileAddress(e.Inner, reg, out)
			fmt.Fprintf(out, "  mov %s, [%s]\n", reg, reg)
		default:
			token.Abort("codegen", e.Pos, "expression is not an lvalue")
		}
	default:
		token.Abort("codegen", expr.Position(), "expression is not an lvalue")
	}
}
