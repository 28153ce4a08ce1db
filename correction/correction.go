package correction

import (
	"fmt"

	"github.com/cms-nanoAOD/correctionlib/formula"
	"github.com/cms-nanoAOD/correctionlib/schema"
)

// Correction is one compiled correction: a typed input/output header, a
// content tree, and a table of generic formulas shared by formularef
// nodes within the tree.
type Correction struct {
	name        string
	description string
	version     int32
	inputs      []Variable
	output      Variable
	formulas    []*formula.Formula
	data        content
}

func newCorrection(sc *schema.Correction) (*Correction, error) {
	c := &Correction{
		name:        sc.Name,
		description: sc.Description,
		version:     sc.Version,
		inputs:      make([]Variable, len(sc.Inputs)),
	}
	seen := make(map[string]struct{}, len(sc.Inputs))
	for i, sv := range sc.Inputs {
		v, err := newVariable(sv)
		if err != nil {
			return nil, fmt.Errorf("correction %q: %w", sc.Name, err)
		}
		if _, dup := seen[v.Name()]; dup {
			return nil, fmt.Errorf("correction %q: %w: input %q", sc.Name, ErrDuplicateName, v.Name())
		}
		seen[v.Name()] = struct{}{}
		c.inputs[i] = v
	}

	out, err := newVariable(sc.Output)
	if err != nil {
		return nil, fmt.Errorf("correction %q: %w", sc.Name, err)
	}
	if out.Type() != VarReal {
		return nil, fmt.Errorf("correction %q: %w: output must be real, got %s", sc.Name, ErrTypeDisallowed, out.Type())
	}
	c.output = out

	c.formulas = make([]*formula.Formula, len(sc.GenericFormulas))
	for i := range sc.GenericFormulas {
		f, err := c.compileFormula(&sc.GenericFormulas[i], true)
		if err != nil {
			return nil, fmt.Errorf("correction %q generic_formulas[%d]: %w", sc.Name, i, err)
		}
		c.formulas[i] = f
	}

	if c.data, err = resolveContent(sc.Data, c); err != nil {
		return nil, fmt.Errorf("correction %q: %w", sc.Name, err)
	}
	return c, nil
}

// compileFormula parses a formula node against this correction's
// inputs. Generic formulas keep their parameters open for formularef
// binding; inline formulas close over theirs at parse time.
func (c *Correction) compileFormula(sf *schema.Formula, generic bool) (*formula.Formula, error) {
	switch sf.Parser {
	case "TFormula":
	case "numexpr":
		return nil, fmt.Errorf("%w: numexpr", ErrUnknownParser)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownParser, sf.Parser)
	}
	varIdx := make([]int, len(sf.Variables))
	for i, name := range sf.Variables {
		idx, err := c.inputIndex(name)
		if err != nil {
			return nil, err
		}
		if c.inputs[idx].Type() != VarReal {
			return nil, fmt.Errorf("%w: formulas only accept real-valued inputs, got %s for %q", ErrTypeDisallowed, c.inputs[idx].Type(), name)
		}
		varIdx[i] = idx
	}
	return formula.Parse(sf.Expression, sf.Parameters, varIdx, !generic)
}

// inputIndex resolves an input name to its tuple position.
func (c *Correction) inputIndex(name string) (int, error) {
	for i, v := range c.inputs {
		if v.Name() == name {
			return i, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownVariable, name)
}

// Name returns the correction name.
func (c *Correction) Name() string { return c.name }

// Description returns the correction description.
func (c *Correction) Description() string { return c.description }

// Version returns the declared version.
func (c *Correction) Version() int32 { return c.version }

// Inputs returns the declared inputs in evaluation order.
func (c *Correction) Inputs() []Variable { return c.inputs }

// Output returns the output variable.
func (c *Correction) Output() Variable { return c.output }

// Evaluate computes the correction for one input tuple. values must
// match the declared inputs in arity and type. Safe for concurrent use.
func (c *Correction) Evaluate(values []Value) (float64, error) {
	if len(values) > len(c.inputs) {
		return 0, fmt.Errorf("%w: too many inputs, got %d expected %d", ErrArityMismatch, len(values), len(c.inputs))
	}
	if len(values) < len(c.inputs) {
		return 0, fmt.Errorf("%w: insufficient inputs, got %d expected %d", ErrArityMismatch, len(values), len(c.inputs))
	}
	for i, v := range c.inputs {
		if err := v.Validate(values[i]); err != nil {
			return 0, fmt.Errorf("position %d: %w", i, err)
		}
	}
	return c.data.evaluate(values)
}
