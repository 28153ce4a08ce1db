package correction

import (
	"fmt"
	"math"
	"sort"

	"github.com/cms-nanoAOD/correctionlib/schema"
)

// flowBehavior is the shared out-of-range policy of binned nodes.
type flowBehavior int

const (
	flowClamp flowBehavior = iota
	flowError
	flowDefault
)

// axis is one binning dimension, uniform or non-uniform.
type axis struct {
	uniform bool
	n       int
	low     float64
	high    float64
	edges   []float64 // non-uniform only
}

func newAxis(sa schema.Axis) (axis, error) {
	if sa.Uniform != nil {
		u := sa.Uniform
		if u.N < 1 {
			return axis{}, ErrZeroBins
		}
		if !(u.Low < u.High) {
			return axis{}, fmt.Errorf("%w: uniform range [%g, %g)", ErrNonMonotonicEdges, u.Low, u.High)
		}
		return axis{uniform: true, n: int(u.N), low: u.Low, high: u.High}, nil
	}
	if len(sa.Edges) < 2 {
		return axis{}, fmt.Errorf("%w: need at least 2 edges, got %d", ErrNonMonotonicEdges, len(sa.Edges))
	}
	for i := 1; i < len(sa.Edges); i++ {
		if !(sa.Edges[i-1] < sa.Edges[i]) {
			return axis{}, fmt.Errorf("%w: edges[%d]=%g, edges[%d]=%g", ErrNonMonotonicEdges, i-1, sa.Edges[i-1], i, sa.Edges[i])
		}
	}
	return axis{
		n:     len(sa.Edges) - 1,
		low:   sa.Edges[0],
		high:  sa.Edges[len(sa.Edges)-1],
		edges: sa.Edges,
	}, nil
}

func (a *axis) nbins() int {
	return a.n
}

// find locates the bin holding v. off reports the flow direction:
// -1 underflow, +1 overflow, 0 in range. NaN counts as underflow.
func (a *axis) find(v float64) (idx, off int) {
	if math.IsNaN(v) || v < a.low {
		return 0, -1
	}
	if v >= a.high {
		return 0, 1
	}
	if a.uniform {
		i := int(float64(a.n) * (v - a.low) / (a.high - a.low))
		if i >= a.n {
			i = a.n - 1 // guard against rounding at the upper edge
		}
		return i, 0
	}
	// smallest i with edges[i] > v, minus one
	i := sort.Search(len(a.edges), func(i int) bool { return a.edges[i] > v }) - 1
	return i, 0
}

// clampIndex resolves an out-of-range lookup to the nearest edge bin.
func (a *axis) clampIndex(off int) int {
	if off < 0 {
		return 0
	}
	return a.n - 1
}

// binning is a one-dimensional histogram lookup.
type binning struct {
	ax       axis
	varIdx   int
	contents []content
	flow     flowBehavior
	def      content // flowDefault only
}

func newBinning(sb *schema.Binning, ctx *Correction) (*binning, error) {
	ax, err := newAxis(sb.Edges)
	if err != nil {
		return nil, fmt.Errorf("binning on %q: %w", sb.Input, err)
	}
	if len(sb.Content) != ax.nbins() {
		return nil, fmt.Errorf("%w: binning on %q has %d bins and %d content nodes", ErrContentMismatch, sb.Input, ax.nbins(), len(sb.Content))
	}
	idx, err := ctx.inputIndex(sb.Input)
	if err != nil {
		return nil, err
	}
	if ctx.inputs[idx].Type() == VarString {
		return nil, fmt.Errorf("%w: binning axis %q is string-typed", ErrTypeDisallowed, sb.Input)
	}
	b := &binning{ax: ax, varIdx: idx}
	if b.flow, b.def, err = resolveFlow(sb.Flow, ctx); err != nil {
		return nil, err
	}
	b.contents = make([]content, len(sb.Content))
	for i, sc := range sb.Content {
		if b.contents[i], err = resolveContent(sc, ctx); err != nil {
			return nil, err
		}
	}
	return b, nil
}

func (b *binning) evaluate(values []Value) (float64, error) {
	v := asFloat(values[b.varIdx])
	i, off := b.ax.find(v)
	if off != 0 {
		switch b.flow {
		case flowError:
			return 0, fmt.Errorf("%w: binning input %d value %g", ErrOutOfBounds, b.varIdx, v)
		case flowDefault:
			return b.def.evaluate(values)
		default:
			i = b.ax.clampIndex(off)
		}
	}
	return b.contents[i].evaluate(values)
}

func resolveFlow(f schema.Flow, ctx *Correction) (flowBehavior, content, error) {
	switch f.Policy {
	case "clamp":
		return flowClamp, nil, nil
	case "error":
		return flowError, nil, nil
	}
	if f.Default == nil || f.Default.Value() == nil {
		return 0, nil, fmt.Errorf("%w: flow", schema.ErrMissingField)
	}
	def, err := resolveContent(*f.Default, ctx)
	if err != nil {
		return 0, nil, err
	}
	return flowDefault, def, nil
}
