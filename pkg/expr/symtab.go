package expr

// ----------------------------------------------------------------------------
// Symbol table

// Symbol is a single (name, host address) entry of the externs table; the
// pointer is untyped at this boundary — the parser decides whether it
// denotes a value or a function by inspecting the character that follows
// the name in the source (an open paren means function, anything else
// means value).
type Symbol struct {
	Name string
	Addr uintptr
}

// SymbolTable is an ordered sequence of Symbol entries, resolved by linear
// scan (the caller guarantees every name referenced by the expression is
// present; a name absent from the table is a parse-time error, not an
// infinite loop as in the original C `fetch_extern`).
type SymbolTable []Symbol

// Resolve looks up name by linear scan and reports whether it was found.
func (st SymbolTable) Resolve(name string) (uintptr, bool) {
	for _, sym := range st {
		if sym.Name == name {
			return sym.Addr, true
		}
	}
	return 0, false
}
