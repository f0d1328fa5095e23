// Package lower walks an expr.Node tree in evaluation order and produces a
// flat, linear stream of armcode.Instruction pseudo-ops — the first of the
// two passes spec.md's monolithic "Emitter" is split into here, the way the
// teacher splits asm.Lowerer (IR to IR) from hack.CodeGenerator (IR to
// bits).
package lower

import (
	"github.com/pkg/errors"

	"kestrel.dev/armjit/pkg/armcode"
	"kestrel.dev/armjit/pkg/expr"
)

// Lowerer turns an expr.Node tree into a []armcode.Instruction stream.
type Lowerer struct{ root expr.Node }

// NewLowerer returns a Lowerer for root.
func NewLowerer(root expr.Node) Lowerer { return Lowerer{root: root} }

// Lower walks the tree in evaluation order and returns the emitted
// pseudo-instruction stream; the final 'bx lr' is appended by the caller
// (package armjit), not here — a Lowerer only ever compiles one expression
// node at a time and has no notion of "the program is complete".
func (l Lowerer) Lower() ([]armcode.Instruction, error) {
	return l.lowerNode(l.root)
}

// lowerNode wraps every compiled node in the shared prologue/epilogue pair
// that preserves R4-R7 and LR across the node's own evaluation, then
// dispatches on node kind.
func (l Lowerer) lowerNode(node expr.Node) ([]armcode.Instruction, error) {
	body, err := l.lowerBody(node)
	if err != nil {
		return nil, err
	}

	out := make([]armcode.Instruction, 0, len(body)+2)
	out = append(out, armcode.PushPop{Mask: armcode.DefaultMask})
	out = append(out, body...)
	out = append(out, armcode.PushPop{Mask: armcode.DefaultMask, Pop: true})
	return out, nil
}

func (l Lowerer) lowerBody(node expr.Node) ([]armcode.Instruction, error) {
	switch n := node.(type) {
	case expr.Literal:
		return materialise(armcode.R0, uint32(n.Value)), nil

	case expr.Parenthesised:
		return l.lowerNode(n.Inner)

	case expr.ExternValue:
		out := materialise(armcode.R0, uint32(n.Addr))
		out = append(out, armcode.Ldr{Dst: armcode.R0})
		return out, nil

	case expr.Add:
		return l.lowerBinary(n.LHS, n.RHS, func(dst, src armcode.Reg) armcode.Instruction {
			return armcode.AddReg{Dst: dst, Src: src}
		})
	case expr.Sub:
		return l.lowerBinary(n.LHS, n.RHS, func(dst, src armcode.Reg) armcode.Instruction {
			return armcode.SubReg{Dst: dst, Src: src}
		})
	case expr.Mul:
		return l.lowerBinary(n.LHS, n.RHS, func(dst, src armcode.Reg) armcode.Instruction {
			return armcode.MulReg{Dst: dst, Src: src}
		})

	case expr.ExternFunction:
		return l.lowerCall(n)

	default:
		return nil, errors.Errorf("lower: unrecognized node %T", node)
	}
}

// lowerBinary implements the shared Add/Sub/Mul schema: evaluate the
// right-hand side first, save it in R4 across the left-hand side's own
// push/pop (safe because R4 is callee-saved by every node's prologue),
// then combine in R0/R1.
func (l Lowerer) lowerBinary(lhs, rhs expr.Node, op func(dst, src armcode.Reg) armcode.Instruction) ([]armcode.Instruction, error) {
	rhsCode, err := l.lowerNode(rhs)
	if err != nil {
		return nil, err
	}
	lhsCode, err := l.lowerNode(lhs)
	if err != nil {
		return nil, err
	}

	out := make([]armcode.Instruction, 0, len(rhsCode)+len(lhsCode)+3)
	out = append(out, rhsCode...)
	out = append(out, armcode.MovReg{Dst: armcode.R4, Src: armcode.R0})
	out = append(out, lhsCode...)
	out = append(out, armcode.MovReg{Dst: armcode.R1, Src: armcode.R4})
	out = append(out, op(armcode.R0, armcode.R1))
	return out, nil
}

// lowerCall implements the ExternFunction schema: evaluate each argument in
// turn, staging its result in R4..R7 (so that evaluating argument i+1, which
// itself may clobber R0, cannot destroy argument i's already-computed
// value), then copy the staged values down into the R0-R3 argument
// registers immediately before the call.
func (l Lowerer) lowerCall(n expr.ExternFunction) ([]armcode.Instruction, error) {
	if len(n.Args) < 1 || len(n.Args) > expr.MaxArgs {
		return nil, errors.Errorf("lower: ExternFunction with %d arguments, expected 1..%d", len(n.Args), expr.MaxArgs)
	}

	var out []armcode.Instruction

	for i, arg := range n.Args {
		code, err := l.lowerNode(arg)
		if err != nil {
			return nil, err
		}
		out = append(out, code...)
		out = append(out, armcode.MovReg{Dst: armcode.R4 + armcode.Reg(i), Src: armcode.R0})
	}

	for i := range n.Args {
		out = append(out, armcode.MovReg{Dst: armcode.Reg(i), Src: armcode.R4 + armcode.Reg(i)})
	}

	out = append(out, materialise(armcode.R4, uint32(n.Addr))...)
	out = append(out, armcode.PushPop{Mask: 1 << armcode.LR})
	out = append(out, armcode.Blx{Rm: armcode.R4})
	out = append(out, armcode.PushPop{Mask: 1 << armcode.LR, Pop: true})

	return out, nil
}

// materialise places a full 32-bit value into dst via the fixed five-word
// sequence: 'mov dst, #0' then four 'orr dst, dst, #imm8 ROR rot', one
// byte of value per ORR, so that the emitter never needs to back-patch a
// variable-length encoding into the linear output cursor.
func materialise(dst armcode.Reg, value uint32) []armcode.Instruction {
	out := make([]armcode.Instruction, 0, 5)
	out = append(out, armcode.MovImmZero{Dst: dst})

	for it := uint32(0); it < 4; it++ {
		shift := it * 8
		byteVal := (value >> shift) & 0xFF
		rot := (16 - it*4) % 16
		out = append(out, armcode.OrrImm{Dst: dst, Rot: rot, Imm8: byteVal})
	}

	return out
}
