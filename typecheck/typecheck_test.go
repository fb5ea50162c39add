package typecheck

import (
	"testing"

	"github.com/nvlang/nvc/lexer"
	"github.com/nvlang/nvc/parser"
)

func checkSource(t *testing.T, src string) error {
	t.Helper()
	p := parser.New(lexer.New(src))
	prog, err := p.ParseProgram()
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}
	return Check(prog)
}

func TestArithmeticPromotesToFloat(t *testing.T) {
	if err := checkSource(t, `@main() float { dec x int = 2; dec y float = 3.0; return x + y; }`); err != nil {
		t.Fatalf("unexpected type error: %v", err)
	}
}

func TestIntegerArithmeticStaysInteger(t *testing.T) {
	if err := checkSource(t, `@main() int { return 2 + 3 * 4; }`); err != nil {
		t.Fatalf("unexpected type error: %v", err)
	}
}

func TestDivisionAlwaysYieldsFloat(t *testing.T) {
	if err := checkSource(t, `@main() float { return 4 / 2; }`); err != nil {
		t.Fatalf("unexpected type error: %v", err)
	}
}

func TestEqualityAlwaysYieldsFloat(t *testing.T) {
	if err := checkSource(t, `@main() float { return 3 == 3; }`); err != nil {
		t.Fatalf("unexpected type error: %v", err)
	}
}

func TestUnsupportedComparisonOperatorAborts(t *testing.T) {
	if err := checkSource(t, `@main() float { return 3 < 4; }`); err == nil {
		t.Fatal("expected error for unsupported comparison operator")
	}
}

func TestUnaryNotAborts(t *testing.T) {
	if err := checkSource(t, `@main() float { return !3; }`); err == nil {
		t.Fatal("expected error for unsupported unary operator")
	}
}

func TestAddressAndDerefRoundTrip(t *testing.T) {
	err := checkSource(t, `@main() int { dec x int = 5; dec p &int = &x; return *p; }`)
	if err != nil {
		t.Fatalf("unexpected type error: %v", err)
	}
}

func TestDereferenceOfNonPointerAborts(t *testing.T) {
	if err := checkSource(t, `@main() int { dec x int = 5; return *x; }`); err == nil {
		t.Fatal("expected error for dereferencing a non-pointer")
	}
}

func TestVarDeclTypeMismatchAborts(t *testing.T) {
	if err := checkSource(t, `@main() int { dec x int = 1.5; return 0; }`); err == nil {
		t.Fatal("expected error for declared-vs-initializer type mismatch")
	}
}

func TestReturnTypeMismatchAborts(t *testing.T) {
	if err := checkSource(t, `@main() int { return 1.5; }`); err == nil {
		t.Fatal("expected error for return type mismatch")
	}
}

func TestForwardCallToLaterFunctionTypechecks(t *testing.T) {
	src := `
		@caller() int { return callee(); }
		@callee() int { return 0; }
	`
	if err := checkSource(t, src); err != nil {
		t.Fatalf("unexpected type error for mutually-ordered forward call: %v", err)
	}
}

func TestCallArityMismatchAborts(t *testing.T) {
	src := `
		@add(int a, int b) int { return a + b; }
		@main() int { return add(1); }
	`
	if err := checkSource(t, src); err == nil {
		t.Fatal("expected error for call arity mismatch")
	}
}

func TestCallArgumentTypeMismatchAborts(t *testing.T) {
	src := `
		@needsInt(int a) int { return a; }
		@main() int { return needsInt(1.5); }
	`
	if err := checkSource(t, src); err == nil {
		t.Fatal("expected error for call argument type mismatch")
	}
}

func TestExternCallTypechecks(t *testing.T) {
	src := `
		extern puts(&int) int;
		@main() int { dec x int = 5; return puts(&x); }
	`
	if err := checkSource(t, src); err != nil {
		t.Fatalf("unexpected type error calling extern: %v", err)
	}
}

func TestTypeAliasResolvesForComparison(t *testing.T) {
	src := `type Age : int; @main() Age { dec a Age = 30; return a; }`
	if err := checkSource(t, src); err != nil {
		t.Fatalf("unexpected type error: %v", err)
	}
}

func TestStructLiteralTypechecksByFieldShape(t *testing.T) {
	src := `struct Point { x int, y int } @main() int { dec p Point = { x: 1, y: 2 }; return 0; }`
	if err := checkSource(t, src); err != nil {
		t.Fatalf("unexpected type error: %v", err)
	}
}

func TestAssignTypeMismatchAborts(t *testing.T) {
	src := `@main() int { dec x int = 1; x = 1.5; return 0; }`
	if err := checkSource(t, src); err == nil {
		t.Fatal("expected error for assignment type mismatch")
	}
}

func TestUnknownVariableAborts(t *testing.T) {
	if err := checkSource(t, `@main() int { return y; }`); err == nil {
		t.Fatal("expected error for unknown variable")
	}
}

func TestUnknownFunctionCallAborts(t *testing.T) {
	if err := checkSource(t, `@main() int { return ghost(); }`); err == nil {
		t.Fatal("expected error for call to undeclared function")
	}
}
