package correction

import (
	"fmt"

	"github.com/cms-nanoAOD/correctionlib/schema"
)

// updateOp combines two reals during a compound pipeline: input updates
// allow add/multiply/divide, output accumulation additionally allows
// keeping the last stage's value.
type updateOp int

const (
	opAdd updateOp = iota
	opMultiply
	opDivide
	opLast
)

func parseUpdateOp(s string, allowLast bool) (updateOp, error) {
	switch s {
	case "+":
		return opAdd, nil
	case "*":
		return opMultiply, nil
	case "/":
		return opDivide, nil
	case "last":
		if allowLast {
			return opLast, nil
		}
	}
	return 0, fmt.Errorf("%w: operator %q", schema.ErrInvalidFieldType, s)
}

func combine(a, b float64, op updateOp) float64 {
	switch op {
	case opAdd:
		return a + b
	case opMultiply:
		return a * b
	case opDivide:
		return a / b
	}
	return b // last
}

// compoundStage pairs a constituent correction with the permutation
// mapping its input positions into the compound's tuple.
type compoundStage struct {
	perm []int
	corr *Correction
}

// CompoundCorrection is a staged pipeline over constituent corrections,
// with optional in-place updates of real-valued inputs between stages.
type CompoundCorrection struct {
	name         string
	description  string
	inputs       []Variable
	output       Variable
	inputsUpdate []int
	inputOp      updateOp
	outputOp     updateOp
	stack        []compoundStage
}

func newCompoundCorrection(sc *schema.CompoundCorrection, set *CorrectionSet) (*CompoundCorrection, error) {
	c := &CompoundCorrection{
		name:        sc.Name,
		description: sc.Description,
		inputs:      make([]Variable, len(sc.Inputs)),
	}
	index := make(map[string]int, len(sc.Inputs))
	for i, sv := range sc.Inputs {
		v, err := newVariable(sv)
		if err != nil {
			return nil, fmt.Errorf("compound %q: %w", sc.Name, err)
		}
		if _, dup := index[v.Name()]; dup {
			return nil, fmt.Errorf("compound %q: %w: input %q", sc.Name, ErrDuplicateName, v.Name())
		}
		index[v.Name()] = i
		c.inputs[i] = v
	}

	out, err := newVariable(sc.Output)
	if err != nil {
		return nil, fmt.Errorf("compound %q: %w", sc.Name, err)
	}
	if out.Type() != VarReal {
		return nil, fmt.Errorf("compound %q: %w: output must be real, got %s", sc.Name, ErrTypeDisallowed, out.Type())
	}
	c.output = out

	for _, name := range sc.InputsUpdate {
		i, ok := index[name]
		if !ok {
			return nil, fmt.Errorf("compound %q inputs_update: %w: %q", sc.Name, ErrUnknownVariable, name)
		}
		if c.inputs[i].Type() != VarReal {
			return nil, fmt.Errorf("compound %q: %w: updatable input %q must be real", sc.Name, ErrTypeDisallowed, name)
		}
		c.inputsUpdate = append(c.inputsUpdate, i)
	}

	if c.inputOp, err = parseUpdateOp(sc.InputOp, false); err != nil {
		return nil, fmt.Errorf("compound %q input_op: %w", sc.Name, err)
	}
	if c.outputOp, err = parseUpdateOp(sc.OutputOp, true); err != nil {
		return nil, fmt.Errorf("compound %q output_op: %w", sc.Name, err)
	}

	c.stack = make([]compoundStage, len(sc.Stack))
	for s, corrName := range sc.Stack {
		corr, ok := set.corrections[corrName]
		if !ok {
			return nil, fmt.Errorf("compound %q: %w: %q", sc.Name, ErrUnresolvedConstituent, corrName)
		}
		perm := make([]int, len(corr.inputs))
		for j, want := range corr.inputs {
			i, ok := index[want.Name()]
			if !ok {
				return nil, fmt.Errorf("compound %q stage %q: %w: %q", sc.Name, corrName, ErrUnknownVariable, want.Name())
			}
			if c.inputs[i].Type() != want.Type() {
				return nil, fmt.Errorf("compound %q stage %q: %w: input %q is %s here and %s there",
					sc.Name, corrName, ErrTypeMismatch, want.Name(), c.inputs[i].Type(), want.Type())
			}
			perm[j] = i
		}
		c.stack[s] = compoundStage{perm: perm, corr: corr}
	}
	return c, nil
}

// Name returns the compound correction name.
func (c *CompoundCorrection) Name() string { return c.name }

// Description returns the compound correction description.
func (c *CompoundCorrection) Description() string { return c.description }

// Inputs returns the declared inputs in evaluation order.
func (c *CompoundCorrection) Inputs() []Variable { return c.inputs }

// Output returns the output variable.
func (c *CompoundCorrection) Output() Variable { return c.output }

// InputIndex resolves an input name to its tuple position.
func (c *CompoundCorrection) InputIndex(name string) (int, error) {
	for i, v := range c.inputs {
		if v.Name() == name {
			return i, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownVariable, name)
}

// Evaluate runs the pipeline. Stages execute in declared order on a
// working copy of the tuple; the caller's values are never modified.
func (c *CompoundCorrection) Evaluate(values []Value) (float64, error) {
	if len(values) != len(c.inputs) {
		return 0, fmt.Errorf("%w: got %d inputs, expected %d", ErrArityMismatch, len(values), len(c.inputs))
	}
	for i, v := range c.inputs {
		if err := v.Validate(values[i]); err != nil {
			return 0, fmt.Errorf("position %d: %w", i, err)
		}
	}

	state := make([]Value, len(values))
	copy(state, values)

	var out float64
	first := true
	for _, stage := range c.stack {
		sub := make([]Value, len(stage.perm))
		for j, i := range stage.perm {
			sub[j] = state[i]
		}
		sf, err := stage.corr.Evaluate(sub)
		if err != nil {
			return 0, fmt.Errorf("stage %q: %w", stage.corr.Name(), err)
		}
		for _, i := range c.inputsUpdate {
			state[i] = combine(state[i].(float64), sf, c.inputOp)
		}
		if first {
			out = sf
			first = false
		} else {
			out = combine(out, sf, c.outputOp)
		}
	}
	return out, nil
}
