// Package hostdef provides a small, human-editable textual format for
// describing a host symbol table: the (name, address) externs an embedder
// would otherwise have to hand-assemble as Go literals. It exists for the
// demonstration CLI and for test fixtures — it is not part of the
// compiler's contract, which still takes an expr.SymbolTable built however
// the caller likes.
package hostdef

import "kestrel.dev/armjit/pkg/expr"

// NativeFunc is a host function body the execution harness can invoke; it
// receives the already-evaluated argument values, in order.
type NativeFunc func(args []int32) int32

// Host is the mock memory and function table a hostdef file resolves to:
// the addresses embedded in the returned expr.SymbolTable index into it.
type Host struct {
	Memory    map[uintptr]int32
	Functions map[uintptr]NativeFunc
}

// NewHost returns an empty Host ready for population by Parse.
func NewHost() *Host {
	return &Host{
		Memory:    map[uintptr]int32{},
		Functions: map[uintptr]NativeFunc{},
	}
}

// Natives is the fixed set of built-in host functions a 'func ... = native:NAME'
// declaration may bind to.
var Natives = map[string]NativeFunc{
	"add": func(a []int32) int32 { return a[0] + a[1] },
	"sub": func(a []int32) int32 { return a[0] - a[1] },
	"mul": func(a []int32) int32 { return a[0] * a[1] },
	"max": func(a []int32) int32 {
		m := a[0]
		for _, v := range a[1:] {
			if v > m {
				m = v
			}
		}
		return m
	},
}

// addresses assigned to value cells and function slots are disjoint mock
// ranges so a stray confusion between the two is easy to spot in a dump.
const (
	valueBase = 0x1000
	funcBase  = 0x8000
)
