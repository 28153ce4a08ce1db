package correction

import (
	"fmt"

	"github.com/cms-nanoAOD/correctionlib/schema"
)

// mbAxis couples one axis with its input index and row-major stride.
type mbAxis struct {
	varIdx int
	stride int
	ax     axis
}

// multiBinning is an N-dimensional rectilinear histogram lookup with
// row-major content (last axis varies fastest).
type multiBinning struct {
	axes     []mbAxis
	contents []content
	flow     flowBehavior
	def      content
}

func newMultiBinning(sm *schema.MultiBinning, ctx *Correction) (*multiBinning, error) {
	if len(sm.Inputs) != len(sm.Edges) {
		return nil, fmt.Errorf("%w: multibinning has %d inputs and %d axes", ErrContentMismatch, len(sm.Inputs), len(sm.Edges))
	}
	if len(sm.Edges) == 0 {
		return nil, fmt.Errorf("%w: multibinning has no axes", ErrContentMismatch)
	}
	m := &multiBinning{axes: make([]mbAxis, len(sm.Edges))}
	for d, se := range sm.Edges {
		ax, err := newAxis(se)
		if err != nil {
			return nil, fmt.Errorf("multibinning axis %d (%q): %w", d, sm.Inputs[d], err)
		}
		idx, err := ctx.inputIndex(sm.Inputs[d])
		if err != nil {
			return nil, err
		}
		if ctx.inputs[idx].Type() == VarString {
			return nil, fmt.Errorf("%w: multibinning axis %q is string-typed", ErrTypeDisallowed, sm.Inputs[d])
		}
		m.axes[d] = mbAxis{varIdx: idx, ax: ax}
	}

	stride := 1
	for d := len(m.axes) - 1; d >= 0; d-- {
		m.axes[d].stride = stride
		stride *= m.axes[d].ax.nbins()
	}
	if len(sm.Content) != stride {
		return nil, fmt.Errorf("%w: multibinning has %d cells and %d content nodes", ErrContentMismatch, stride, len(sm.Content))
	}

	var err error
	if m.flow, m.def, err = resolveFlow(sm.Flow, ctx); err != nil {
		return nil, err
	}
	m.contents = make([]content, len(sm.Content))
	for i, sc := range sm.Content {
		if m.contents[i], err = resolveContent(sc, ctx); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (m *multiBinning) evaluate(values []Value) (float64, error) {
	idx := 0
	for d := range m.axes {
		a := &m.axes[d]
		v := asFloat(values[a.varIdx])
		i, off := a.ax.find(v)
		if off != 0 {
			switch m.flow {
			case flowError:
				return 0, fmt.Errorf("%w: multibinning axis %d input %d value %g", ErrOutOfBounds, d, a.varIdx, v)
			case flowDefault:
				return m.def.evaluate(values)
			default:
				i = a.ax.clampIndex(off)
			}
		}
		idx += i * a.stride
	}
	return m.contents[idx].evaluate(values)
}
