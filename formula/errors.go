package formula

import "errors"

// Error types for the formula package.
var (
	// ErrSyntax is returned when an expression does not match the
	// TFormula grammar.
	ErrSyntax = errors.New("formula syntax error")

	// ErrInsufficientVariables is returned when x, y, z or t refers to a
	// position past the declared variable list.
	ErrInsufficientVariables = errors.New("insufficient variables for formula")

	// ErrInsufficientParameters is returned when [k] refers past the
	// supplied parameters.
	ErrInsufficientParameters = errors.New("insufficient parameters for formula")

	// ErrGenericNotBound is returned when a generic formula is evaluated
	// without parameters.
	ErrGenericNotBound = errors.New("generic formula must be evaluated with parameters")

	// ErrBadInput is returned when a referenced input is not real-valued.
	ErrBadInput = errors.New("formula input is not real-valued")
)
