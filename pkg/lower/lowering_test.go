package lower_test

import (
	"testing"

	"kestrel.dev/armjit/pkg/armcode"
	"kestrel.dev/armjit/pkg/expr"
	"kestrel.dev/armjit/pkg/lower"
	"kestrel.dev/armjit/pkg/verify"
)

func TestLower(t *testing.T) {
	encode := func(program []armcode.Instruction) []uint32 {
		buf := armcode.NewBuffer(make([]uint32, 256))
		if err := armcode.NewCodeGenerator().Generate(program, buf); err != nil {
			t.Fatalf("Generate returned unexpected error: %v", err)
		}
		return buf.Words()
	}

	t.Run("LiteralWrappedInPrologueEpilogue", func(t *testing.T) {
		program, err := lower.NewLowerer(expr.Literal{Value: 42}).Lower()
		if err != nil {
			t.Fatalf("Lower returned unexpected error: %v", err)
		}
		if _, ok := program[0].(armcode.PushPop); !ok {
			t.Fatalf("expected first instruction to be a push, got %T", program[0])
		}
		last := program[len(program)-1]
		if pp, ok := last.(armcode.PushPop); !ok || !pp.Pop {
			t.Fatalf("expected last instruction to be a pop, got %#v", last)
		}
	})

	t.Run("EveryPushHasAMatchingPop", func(t *testing.T) {
		tree := expr.Add{
			LHS: expr.Mul{LHS: expr.Literal{Value: 2}, RHS: expr.Literal{Value: 3}},
			RHS: expr.ExternFunction{Addr: 0x8000, Args: []expr.Node{expr.Literal{Value: 1}, expr.Literal{Value: 2}}},
		}
		program, err := lower.NewLowerer(tree).Lower()
		if err != nil {
			t.Fatalf("Lower returned unexpected error: %v", err)
		}
		words := encode(program)
		if err := verify.PushPopBalance(words); err != nil {
			t.Fatalf("PushPopBalance: %v", err)
		}
		if err := verify.AllUnconditional(words); err != nil {
			t.Fatalf("AllUnconditional: %v", err)
		}
	})

	t.Run("TooManyCallArguments", func(t *testing.T) {
		call := expr.ExternFunction{Addr: 0x8000, Args: make([]expr.Node, 5)}
		for i := range call.Args {
			call.Args[i] = expr.Literal{Value: int32(i)}
		}
		if _, err := lower.NewLowerer(call).Lower(); err == nil {
			t.Fatal("expected an error lowering a 5-argument call, got none")
		}
	})
}
