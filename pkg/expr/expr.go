// Package expr defines the expression tree model produced by the parser
// and consumed by the lowering pass.
package expr

// ----------------------------------------------------------------------------
// General information

// This section defines the node kinds of the arithmetic expression tree.
//
// We declare a shared 'Node' marker interface implemented by one struct per
// node kind, in place of the tagged-union/opaque-payload-pointer scheme used
// by the original C implementation: a type switch over 'Node' disambiguates
// instead of a node_type_t tag field. Every non-leaf node exclusively owns
// its children — there is no shared ownership and the tree is never a DAG.

// Just used to put together every node kind of the expression language, use
// a type switch to disambiguate.
type Node interface{ isNode() }

// ----------------------------------------------------------------------------
// Binary operators

// Add, Sub and Mul are the three binary operators the grammar supports.
// Each owns its left-hand and right-hand operand exclusively.
type (
	Add struct{ LHS, RHS Node }
	Sub struct{ LHS, RHS Node }
	Mul struct{ LHS, RHS Node }
)

func (Add) isNode() {}
func (Sub) isNode() {}
func (Mul) isNode() {}

// ----------------------------------------------------------------------------
// Leaves

// Literal is an immediate 32-bit signed constant, fitting the source's
// `fetch_value` result (and the synthesized `-1` from unary minus).
type Literal struct{ Value int32 }

func (Literal) isNode() {}

// ExternValue refers to a host-provided 32-bit integer cell that must be
// loaded at runtime. Addr is the host address resolved at parse time by
// looking the identifier up in the symbol table.
type ExternValue struct{ Addr uintptr }

func (ExternValue) isNode() {}

// ExternFunction refers to a host-provided function of 1 to 4 arguments,
// called at runtime with the evaluated results of Args in order.
type ExternFunction struct {
	Addr uintptr
	Args []Node // 1..=4 entries, enforced by the parser
}

func (ExternFunction) isNode() {}

// ----------------------------------------------------------------------------
// Grouping

// Parenthesised is a transparent wrapper that preserves source grouping; the
// lowering pass treats it as a no-op pass-through to its single child.
type Parenthesised struct{ Inner Node }

func (Parenthesised) isNode() {}
