package expr_test

import (
	"testing"

	"kestrel.dev/armjit/pkg/expr"
)

func TestParse(t *testing.T) {
	syms := expr.SymbolTable{
		{Name: "width", Addr: 0x1000},
		{Name: "max", Addr: 0x8000},
	}

	test := func(dense string, expected expr.Node) {
		node, err := expr.NewParser(dense, syms).Parse()
		if err != nil {
			t.Fatalf("Parse(%q) returned unexpected error: %v", dense, err)
		}
		if !equal(node, expected) {
			t.Fatalf("Parse(%q) = %#v, expected %#v", dense, node, expected)
		}
	}

	t.Run("Precedence", func(t *testing.T) {
		// 2+3*4 should parse as 2+(3*4), not (2+3)*4.
		test("2+3*4", expr.Add{
			LHS: expr.Literal{Value: 2},
			RHS: expr.Mul{LHS: expr.Literal{Value: 3}, RHS: expr.Literal{Value: 4}},
		})
	})

	t.Run("ExplicitGrouping", func(t *testing.T) {
		test("(2+3)*4", expr.Mul{
			LHS: expr.Parenthesised{Inner: expr.Add{LHS: expr.Literal{Value: 2}, RHS: expr.Literal{Value: 3}}},
			RHS: expr.Literal{Value: 4},
		})
	})

	t.Run("LeftAssociativity", func(t *testing.T) {
		test("10-3-2", expr.Sub{
			LHS: expr.Sub{LHS: expr.Literal{Value: 10}, RHS: expr.Literal{Value: 3}},
			RHS: expr.Literal{Value: 2},
		})
	})

	t.Run("UnaryMinus", func(t *testing.T) {
		// "-5+8" should parse as ((-1)*5)+8, not a special-cased negative literal.
		test("-5+8", expr.Add{
			LHS: expr.Mul{LHS: expr.Literal{Value: -1}, RHS: expr.Literal{Value: 5}},
			RHS: expr.Literal{Value: 8},
		})
	})

	t.Run("ExternValueReference", func(t *testing.T) {
		test("width+1", expr.Add{
			LHS: expr.ExternValue{Addr: 0x1000},
			RHS: expr.Literal{Value: 1},
		})
	})

	t.Run("ExternFunctionCall", func(t *testing.T) {
		test("max(1,2)", expr.ExternFunction{
			Addr: 0x8000,
			Args: []expr.Node{expr.Literal{Value: 1}, expr.Literal{Value: 2}},
		})
	})

	errtest := func(dense string) {
		if _, err := expr.NewParser(dense, syms).Parse(); err == nil {
			t.Fatalf("Parse(%q) expected an error, got none", dense)
		}
	}

	t.Run("UnknownIdentifier", func(t *testing.T) {
		errtest("depth+1")
	})

	t.Run("UnbalancedParens", func(t *testing.T) {
		errtest("(1+2")
	})

	t.Run("TrailingInput", func(t *testing.T) {
		errtest("1+2)")
	})

	t.Run("TooManyArguments", func(t *testing.T) {
		errtest("max(1,2,3,4,5)")
	})

	t.Run("EmptyArgumentList", func(t *testing.T) {
		errtest("max()")
	})
}

// equal is a structural comparison good enough for the small, finite trees
// these tests build; it avoids pulling in reflect.DeepEqual's interface{}
// quirks around nil slices by special-casing ExternFunction's Args.
func equal(a, b expr.Node) bool {
	switch x := a.(type) {
	case expr.Literal:
		y, ok := b.(expr.Literal)
		return ok && x == y
	case expr.ExternValue:
		y, ok := b.(expr.ExternValue)
		return ok && x == y
	case expr.ExternFunction:
		y, ok := b.(expr.ExternFunction)
		if !ok || x.Addr != y.Addr || len(x.Args) != len(y.Args) {
			return false
		}
		for i := range x.Args {
			if !equal(x.Args[i], y.Args[i]) {
				return false
			}
		}
		return true
	case expr.Parenthesised:
		y, ok := b.(expr.Parenthesised)
		return ok && equal(x.Inner, y.Inner)
	case expr.Add:
		y, ok := b.(expr.Add)
		return ok && equal(x.LHS, y.LHS) && equal(x.RHS, y.RHS)
	case expr.Sub:
		y, ok := b.(expr.Sub)
		return ok && equal(x.LHS, y.LHS) && equal(x.RHS, y.RHS)
	case expr.Mul:
		y, ok := b.(expr.Mul)
		return ok && equal(x.LHS, y.LHS) && equal(x.RHS, y.RHS)
	default:
		return false
	}
}
