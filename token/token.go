// Package token defines the lexical atoms shared by the lexer, parser,
// type checker, and code generator: source positions, token kinds, and
// the fatal-error type used to abort the pipeline.
package token

import "fmt"

// Position is a 1-indexed line / 0-indexed column pair into the source text.
type Position struct {
	Line   int
	Column int
}

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// IsZero reports whether the position was never set (e.g. a codegen size
// check that has no source location).
func (p Position) IsZero() bool {
	return p.Line == 0 && p.Column == 0
}

// Kind tags the lexical category of a Token.
type Kind int

const (
	ILLEGAL Kind = iota
	EOF

	// Punctuation
	LPAREN   // (
	RPAREN   // )
	LBRACE   // {
	RBRACE   // }
	COMMA    // ,
	DOT      // .
	SEMI     // ;
	COLON    // :
	AT       // @
	HASH     // #
	AMP      // &
	ASSIGN   // =
	BANG     // !
	PLUS     // +
	MINUS    // -
	STAR     // *
	SLASH    // /

	// Comparisons
	EQ  // ==
	NEQ // !=
	LT  // <
	LE  // <=
	GT  // >
	GE  // >=

	// Literal tags
	IDENT
	STRING
	INTEGER
	FLOAT
	VOID
	CHARACTER

	// Keywords
	AND
	OR
	NOT
	ELSE
	IF
	WHILE
	FOR
	RETURN
	FUN
	DEC
	VAR
	TRUE
	FALSE
	NIL
	PRINT
	SUPER
	THIS
	EXTERN
	TYPE
	STRUCT

	// Type keywords
	INT_T
	FLOAT_T
	STRING_T
	CHAR_T
	VOID_T
	UNIT_T
)

var kindNames = map[Kind]string{
	ILLEGAL: "ILLEGAL",
	EOF:     "EOF",

	LPAREN: "(", RPAREN: ")", LBRACE: "{", RBRACE: "}",
	COMMA: ",", DOT: ".", SEMI: ";", COLON: ":",
	AT: "@", HASH: "#", AMP: "&", ASSIGN: "=", BANG: "!",
	PLUS: "+", MINUS: "-", STAR: "*", SLASH: "/",

	EQ: "==", NEQ: "!=", LT: "<", LE: "<=", GT: ">", GE: ">=",

	IDENT: "Identifier", STRING: "String", INTEGER: "Integer",
	FLOAT: "Float", VOID: "Void", CHARACTER: "Character",

	AND: "and", OR: "or", NOT: "not", ELSE: "else", IF: "if",
	WHILE: "while", FOR: "for", RETURN: "return", FUN: "fun",
	DEC: "dec", VAR: "var", TRUE: "true", FALSE: "false", NIL: "nil",
	PRINT: "print", SUPER: "super", THIS: "this", EXTERN: "extern",
	TYPE: "type", STRUCT: "struct",

	INT_T: "int", FLOAT_T: "float", STRING_T: "string",
	CHAR_T: "char", VOID_T: "void", UNIT_T: "unit",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "UNKNOWN"
}

var keywords = map[string]Kind{
	"and": AND, "or": OR, "not": NOT, "else": ELSE, "if": IF,
	"while": WHILE, "for": FOR, "return": RETURN, "fun": FUN,
	"dec": DEC, "var": VAR, "true": TRUE, "false": FALSE, "nil": NIL,
	"print": PRINT, "super": SUPER, "this": THIS, "extern": EXTERN,
	"type": TYPE, "struct": STRUCT,

	"int": INT_T, "float": FLOAT_T, "string": STRING_T,
	"char": CHAR_T, "void": VOID_T, "unit": UNIT_T,
}

// LookupIdent classifies a word as a keyword or a plain identifier.
func LookupIdent(word string) Kind {
	if k, ok := keywords[word]; ok {
		return k
	}
	return IDENT
}

// MetaKind tags which field of Metadata is meaningful.
type MetaKind int

const (
	MetaNone MetaKind = iota
	MetaString
	MetaIdent
	MetaInt
	MetaFloat
)

// Metadata is the disjoint literal payload a Token may carry: exactly one
// of the typed fields is populated, selected by Kind.
type Metadata struct {
	Kind    MetaKind
	Str     string
	Ident   string
	Int     int64
	Float64 float64
}

// Token is a single lexical atom: its kind, source position, half-open
// lexeme span into the original source text, and optional metadata.
type Token struct {
	Kind  Kind
	Pos   Position
	Start int
	End   int
	Meta  Metadata
}

// Lexeme returns the token's source slice, given the original source text
// the token was lexed from.
func (t Token) Lexeme(source string) string {
	return source[t.Start:t.End]
}

// Fatal is the single error type used to abort the pipeline at any stage:
// lexing, parsing, type checking, or code generation. Pos is the zero
// Position when no source location applies. The driver's own I/O failures
// are reported directly and are not Fatal values.
type Fatal struct {
	Pos   Position
	Stage string
	Msg   string
}

func (f *Fatal) Error() string {
	if f.Pos.IsZero() {
		return fmt.Sprintf("%s: %s", f.Stage, f.Msg)
	}
	return fmt.Sprintf("%s: %s at %s", f.Stage, f.Msg, f.Pos)
}

// Abort panics with a *Fatal built from stage, pos, and a formatted message.
// Every pipeline stage uses this as its sole failure path; each stage's
// public entry point (parser.ParseProgram, typecheck.Check,
// codegen.Generate) recovers it and returns it as an error. Lexer aborts
// are recovered by parser.ParseProgram, which drives the lexer.
func Abort(stage string, pos Position, format string, args ...interface{}) {
	panic(&Fatal{Pos: pos, Stage: stage, Msg: fmt.Sprintf(format, args...)})
}
