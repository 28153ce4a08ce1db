package correction

import (
	"fmt"

	"github.com/cms-nanoAOD/correctionlib/formula"
	"github.com/cms-nanoAOD/correctionlib/schema"
)

// resolveContent compiles one schema content node into its evaluator
// form, validating eagerly against the enclosing correction.
func resolveContent(sc schema.Content, ctx *Correction) (content, error) {
	switch node := sc.Value().(type) {
	case float64:
		return literal(node), nil
	case *schema.Binning:
		return newBinning(node, ctx)
	case *schema.MultiBinning:
		return newMultiBinning(node, ctx)
	case *schema.Category:
		return newCategory(node, ctx)
	case *schema.Formula:
		f, err := ctx.compileFormula(node, false)
		if err != nil {
			return nil, err
		}
		return &formulaNode{f: f}, nil
	case *schema.FormulaRef:
		return newFormulaRef(node, ctx)
	case *schema.Transform:
		return newTransform(node, ctx)
	case *schema.HashPRNG:
		return newHashPRNG(node, ctx)
	}
	return nil, fmt.Errorf("%w: %T", schema.ErrUnknownNodeType, sc.Value())
}

// formulaNode is an inline formula leaf with its parameters bound at
// parse time.
type formulaNode struct {
	f *formula.Formula
}

// formulaRef binds a shared generic formula of the enclosing correction
// with explicit parameters.
type formulaRef struct {
	f      *formula.Formula
	params []float64
}

func newFormulaRef(sr *schema.FormulaRef, ctx *Correction) (*formulaRef, error) {
	if sr.Index < 0 || sr.Index >= len(ctx.formulas) {
		return nil, fmt.Errorf("%w: index %d with %d generic formulas", ErrBadReference, sr.Index, len(ctx.formulas))
	}
	target := ctx.formulas[sr.Index]
	if len(sr.Parameters) < target.ParameterCount() {
		return nil, fmt.Errorf("%w: formularef %d supplies %d parameters, formula references %d",
			formula.ErrInsufficientParameters, sr.Index, len(sr.Parameters), target.ParameterCount())
	}
	return &formulaRef{f: target, params: sr.Parameters}, nil
}

func (n *formulaNode) evaluate(values []Value) (float64, error) {
	return n.f.Evaluate(values)
}

func (r *formulaRef) evaluate(values []Value) (float64, error) {
	return r.f.EvaluateWith(values, r.params)
}
