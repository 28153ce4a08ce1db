package correction

import "errors"

// Error types for the correction package. Load-time errors surface
// during compilation of a document; evaluation errors surface from
// Evaluate.
var (
	// ErrArityMismatch is returned when the number of inputs does not
	// match the correction's declaration.
	ErrArityMismatch = errors.New("wrong number of inputs")

	// ErrTypeMismatch is returned when an input value's type does not
	// match its variable's declared type.
	ErrTypeMismatch = errors.New("input type mismatch")

	// ErrOutOfBounds is returned by binned nodes with error flow when an
	// input falls outside the axis range.
	ErrOutOfBounds = errors.New("input out of bounds")

	// ErrKeyNotFound is returned on a category miss with no default, and
	// on correction-set lookups of unknown names.
	ErrKeyNotFound = errors.New("key not found")

	// ErrDuplicateName is returned when correction or compound names
	// collide, or when category keys repeat.
	ErrDuplicateName = errors.New("duplicate name")

	// ErrUnknownVariable is returned when a node references an input
	// name the enclosing correction does not declare.
	ErrUnknownVariable = errors.New("unknown variable")

	// ErrNonMonotonicEdges is returned when bin edges are not strictly
	// increasing.
	ErrNonMonotonicEdges = errors.New("bin edges not strictly increasing")

	// ErrContentMismatch is returned when the number of content nodes
	// does not match the binning.
	ErrContentMismatch = errors.New("content size does not match binning")

	// ErrZeroBins is returned for a uniform axis with no bins.
	ErrZeroBins = errors.New("uniform binning must have at least one bin")

	// ErrTypeDisallowed is returned at load when a node binds an input
	// of a type it cannot handle (e.g. a string in a binning axis).
	ErrTypeDisallowed = errors.New("input type not allowed here")

	// ErrUnknownParser is returned for formula parser dialects the
	// evaluator does not implement.
	ErrUnknownParser = errors.New("unsupported formula parser")

	// ErrUnresolvedConstituent is returned when a compound correction
	// names a correction absent from its set.
	ErrUnresolvedConstituent = errors.New("unresolved constituent correction")

	// ErrBadReference is returned for a formularef index outside the
	// generic formula table.
	ErrBadReference = errors.New("formularef index out of range")
)
