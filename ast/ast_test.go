package ast

import (
	"testing"

	"github.com/nvlang/nvc/token"
)

func TestIsLvalueIdentifier(t *testing.T) {
	ident := &Literal{Token: token.Token{Kind: token.IDENT}}
	if !IsLvalue(ident) {
		t.Error("expected identifier literal to be an lvalue")
	}
}

func TestIsLvalueDeref(t *testing.T) {
	deref := &Unary{Op: token.STAR, Inner: &Literal{Token: token.Token{Kind: token.IDENT}}}
	if !IsLvalue(deref) {
		t.Error("expected *expr to be an lvalue")
	}
}

func TestIsLvalueRejectsLiteralsAndOtherUnaries(t *testing.T) {
	num := &Literal{Token: token.Token{Kind: token.INTEGER}}
	if IsLvalue(num) {
		t.Error("did not expect an integer literal to be an lvalue")
	}
	addr := &Unary{Op: token.AMP, Inner: num}
	if IsLvalue(addr) {
		t.Error("did not expect &expr to be an lvalue")
	}
}
