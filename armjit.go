// Package armjit is a just-in-time compiler for a small arithmetic
// expression language. Given a textual expression and a table of
// externally-provided symbols, it emits a sequence of 32-bit ARM (A32)
// instructions into a caller-supplied buffer such that, executed as a
// parameterless function returning its value in R0, the buffer evaluates
// the expression.
//
// Buffer allocation, making the buffer executable, any required
// cache/TLB maintenance, and actually calling the emitted function are the
// caller's responsibility — this package only ever writes instruction
// words, never executes them.
package armjit

import (
	"kestrel.dev/armjit/internal/normalize"
	"kestrel.dev/armjit/pkg/armcode"
	"kestrel.dev/armjit/pkg/expr"
	"kestrel.dev/armjit/pkg/lower"
)

// Compile parses expression against externs and appends the emitted ARM
// instruction stream — the compiled expression followed by a trailing
// 'bx lr' — to out, returning the number of words written.
//
// An error is returned, with out left in an unspecified (possibly
// partially written) state, if expression is ill-formed, references a
// name absent from externs, or the compiled program does not fit in out.
func Compile(expression string, externs expr.SymbolTable, out []uint32) (int, error) {
	dense := normalize.Strip(expression)

	tree, err := expr.NewParser(dense, externs).Parse()
	if err != nil {
		return 0, err
	}

	program, err := lower.NewLowerer(tree).Lower()
	if err != nil {
		return 0, err
	}
	program = append(program, armcode.Bx{Rm: armcode.LR})

	buf := armcode.NewBuffer(out)
	if err := armcode.NewCodeGenerator().Generate(program, buf); err != nil {
		return 0, err
	}

	return buf.Len(), nil
}
