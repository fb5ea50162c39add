package lexer

import (
	"testing"

	"github.com/nvlang/nvc/token"
)

func TestBasicTokens(t *testing.T) {
	input := `dec x int = 5;`

	tests := []struct {
		expectedKind token.Kind
	}{
		{token.DEC},
		{token.IDENT},
		{token.INT_T},
		{token.ASSIGN},
		{token.INTEGER},
		{token.SEMI},
		{token.EOF},
	}

	l := New(input)
	for i, tt := range tests {
		tok := l.NextToken()
		if tok.Kind != tt.expectedKind {
			t.Fatalf("tests[%d] - kind wrong. expected=%s, got=%s (lexeme=%q)",
				i, tt.expectedKind, tok.Kind, tok.Lexeme(input))
		}
	}
}

func TestTwoCharOperators(t *testing.T) {
	input := `== != <= >=`
	want := []token.Kind{token.EQ, token.NEQ, token.LE, token.GE, token.EOF}

	l := New(input)
	for i, k := range want {
		tok := l.NextToken()
		if tok.Kind != k {
			t.Fatalf("tests[%d]: expected=%s, got=%s", i, k, tok.Kind)
		}
	}
}

func TestStringLexemeIncludesQuotes(t *testing.T) {
	input := `"hi"`
	l := New(input)
	tok := l.NextToken()
	if tok.Kind != token.STRING {
		t.Fatalf("expected STRING, got %s", tok.Kind)
	}
	if tok.Meta.Str != `"hi"` {
		t.Fatalf("expected metadata %q, got %q", `"hi"`, tok.Meta.Str)
	}
	if tok.Lexeme(input) != `"hi"` {
		t.Fatalf("expected lexeme %q, got %q", `"hi"`, tok.Lexeme(input))
	}
}

func TestUnterminatedStringAborts(t *testing.T) {
	defer func() {
		r := recover()
		if r == nil {
			t.Fatal("expected panic for unterminated string")
		}
		if _, ok := r.(*token.Fatal); !ok {
			t.Fatalf("expected *token.Fatal, got %T", r)
		}
	}()
	l := New(`"unterminated`)
	l.NextToken()
}

func TestIntegerVsFloatMetadata(t *testing.T) {
	l := New(`5 5.25`)

	i := l.NextToken()
	if i.Kind != token.INTEGER || i.Meta.Kind != token.MetaInt || i.Meta.Int != 5 {
		t.Fatalf("expected integer metadata 5, got %+v", i)
	}

	f := l.NextToken()
	if f.Kind != token.INTEGER || f.Meta.Kind != token.MetaFloat || f.Meta.Float64 != 5.25 {
		t.Fatalf("expected float metadata 5.25, got %+v", f)
	}
}

func TestSecondDotTerminatesNumber(t *testing.T) {
	l := New(`1.2.3`)
	first := l.NextToken()
	if first.Meta.Kind != token.MetaFloat || first.Meta.Float64 != 1.2 {
		t.Fatalf("expected float 1.2, got %+v", first)
	}
	dot := l.NextToken()
	if dot.Kind != token.DOT {
		t.Fatalf("expected DOT, got %s", dot.Kind)
	}
	third := l.NextToken()
	if third.Meta.Kind != token.MetaInt || third.Meta.Int != 3 {
		t.Fatalf("expected integer 3, got %+v", third)
	}
}

func TestIllegalCharacterAborts(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic for illegal character")
		}
	}()
	l := New(`$`)
	l.NextToken()
}

func TestKeywordsAndTypeKeywords(t *testing.T) {
	input := `fun extern type struct int float string char void unit`
	want := []token.Kind{
		token.FUN, token.EXTERN, token.TYPE, token.STRUCT,
		token.INT_T, token.FLOAT_T, token.STRING_T, token.CHAR_T,
		token.VOID_T, token.UNIT_T, token.EOF,
	}
	l := New(input)
	for i, k := range want {
		tok := l.NextToken()
		if tok.Kind != k {
			t.Fatalf("tests[%d]: expected=%s, got=%s", i, k, tok.Kind)
		}
	}
}
