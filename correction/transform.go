package correction

import (
	"fmt"
	"math"

	"github.com/cms-nanoAOD/correctionlib/schema"
)

// transform rewrites one numeric input via a rule sub-evaluation, then
// evaluates content on the rewritten tuple. The caller's tuple is never
// modified.
type transform struct {
	varIdx  int
	isInt   bool
	rule    content
	content content
}

func newTransform(st *schema.Transform, ctx *Correction) (*transform, error) {
	idx, err := ctx.inputIndex(st.Input)
	if err != nil {
		return nil, err
	}
	v := ctx.inputs[idx]
	if v.Type() == VarString {
		return nil, fmt.Errorf("%w: transform cannot rewrite string input %q", ErrTypeDisallowed, st.Input)
	}
	t := &transform{varIdx: idx, isInt: v.Type() == VarInt}
	if t.rule, err = resolveContent(st.Rule, ctx); err != nil {
		return nil, err
	}
	if t.content, err = resolveContent(st.Content, ctx); err != nil {
		return nil, err
	}
	return t, nil
}

func (t *transform) evaluate(values []Value) (float64, error) {
	r, err := t.rule.evaluate(values)
	if err != nil {
		return 0, err
	}
	rewritten := make([]Value, len(values))
	copy(rewritten, values)
	if t.isInt {
		// round half away from zero
		rewritten[t.varIdx] = int64(math.Round(r))
	} else {
		rewritten[t.varIdx] = r
	}
	return t.content.evaluate(rewritten)
}
