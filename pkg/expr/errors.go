package expr

import "github.com/pkg/errors"

// ----------------------------------------------------------------------------
// Error taxonomy

// This section enumerates the fatal-input error cases the parser can signal.
// The reference C implementation treats ill-formed input as undefined
// behaviour (an unresolved extern loops forever in `fetch_extern`); here
// every case is a typed, returned error with no recovery attempted.

// ErrUnknownIdentifier reports an identifier referenced by the expression
// that is absent from the supplied symbol table.
type ErrUnknownIdentifier struct{ Name string }

func (e *ErrUnknownIdentifier) Error() string {
	return errors.Errorf("unknown identifier %q", e.Name).Error()
}

// ErrTooManyArguments reports a function call with more than MaxArgs
// arguments; ARM's standard argument registers R0-R3 cap it at 4.
type ErrTooManyArguments struct{ Count int }

func (e *ErrTooManyArguments) Error() string {
	return errors.Errorf("function call with %d arguments exceeds the maximum of %d", e.Count, MaxArgs).Error()
}

// ErrMalformedExpression reports any other parse failure: an unexpected
// character, unbalanced parentheses, empty input, or an empty argument.
type ErrMalformedExpression struct {
	Pos    int
	Reason string
}

func (e *ErrMalformedExpression) Error() string {
	return errors.Errorf("malformed expression at position %d: %s", e.Pos, e.Reason).Error()
}

// MaxArgs is the maximum number of arguments an ExternFunction call may
// carry — fixed by ARM's standard argument-register count (R0-R3).
const MaxArgs = 4
