// Package correction evaluates multi-dimensional correction functions
// loaded from schema-versioned JSON documents. A document is compiled
// once into an immutable tree of lookup and arithmetic nodes; Evaluate
// is then safe to call concurrently. Evaluation allocates only per-call
// scratch: transform nodes copy the input tuple, hashprng nodes build
// their seed buffer, and compound corrections copy the tuple and build
// each stage's sub-tuple.
package correction

import (
	"fmt"

	"github.com/cms-nanoAOD/correctionlib/schema"
)

// Value is one element of an input tuple: a string for string-typed
// variables, a Go integer (int, int32 or int64) for int-typed
// variables, or a float64 for real-typed variables.
type Value = any

// VarType is the declared semantic type of a variable.
type VarType int

const (
	VarString VarType = iota
	VarInt
	VarReal
)

// String returns the document spelling of the type.
func (t VarType) String() string {
	switch t {
	case VarString:
		return "string"
	case VarInt:
		return "int"
	case VarReal:
		return "real"
	}
	return "unknown"
}

// Variable is one declared input or output: a name, a description and a
// semantic type. Variables are immutable after load.
type Variable struct {
	name        string
	description string
	typ         VarType
}

func newVariable(sv schema.Variable) (Variable, error) {
	v := Variable{name: sv.Name, description: sv.Description}
	switch sv.Type {
	case "string":
		v.typ = VarString
	case "int":
		v.typ = VarInt
	case "real":
		v.typ = VarReal
	default:
		return v, fmt.Errorf("%w: variable %q has type %q", ErrTypeMismatch, sv.Name, sv.Type)
	}
	return v, nil
}

// Name returns the variable name.
func (v Variable) Name() string { return v.name }

// Description returns the variable description.
func (v Variable) Description() string { return v.description }

// Type returns the declared semantic type.
func (v Variable) Type() VarType { return v.typ }

// Validate checks that a value's dynamic type matches the declared
// type. Tags must match exactly: an integer is not accepted for a real
// input nor vice versa.
func (v Variable) Validate(val Value) error {
	switch val.(type) {
	case string:
		if v.typ != VarString {
			return fmt.Errorf("%w: input %q got string, expected %s", ErrTypeMismatch, v.name, v.typ)
		}
	case int, int32, int64:
		if v.typ != VarInt {
			return fmt.Errorf("%w: input %q got int, expected %s", ErrTypeMismatch, v.name, v.typ)
		}
	case float64:
		if v.typ != VarReal {
			return fmt.Errorf("%w: input %q got real, expected %s", ErrTypeMismatch, v.name, v.typ)
		}
	default:
		return fmt.Errorf("%w: input %q got unsupported type %T", ErrTypeMismatch, v.name, val)
	}
	return nil
}

// asFloat widens a numeric value to float64. Callers only reach this
// after load-time checks have excluded string-typed bindings.
func asFloat(v Value) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case int:
		return float64(n)
	case int32:
		return float64(n)
	case int64:
		return float64(n)
	}
	return 0
}

// asInt normalizes a Go integer value to int64.
func asInt(v Value) (int64, bool) {
	switch n := v.(type) {
	case int:
		return int64(n), true
	case int32:
		return int64(n), true
	case int64:
		return n, true
	}
	return 0, false
}
