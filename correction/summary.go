package correction

import (
	"math"
	"sort"
	"strconv"
)

// InputStats aggregates how one input is used across a correction's
// tree.
type InputStats struct {
	// Min and Max bound the range covered by binning axes on this input.
	Min, Max float64
	// Overflow reports whether every binning on this input tolerates
	// out-of-range values (clamp or default flow).
	Overflow bool
	// HasTransform reports whether a transform rewrites this input.
	HasTransform bool
	// HasDefault reports whether a category on this input has a default.
	HasDefault bool
	// Values lists the category keys seen for this input.
	Values []string
}

// Summary describes a correction's tree: node counts by type and
// per-input usage statistics.
type Summary struct {
	NodeCounts map[string]int
	Inputs     map[string]*InputStats
}

// Summary walks the data tree and aggregates node counts and input
// statistics, mirroring the document model's summary view.
func (c *Correction) Summary() Summary {
	s := Summary{
		NodeCounts: make(map[string]int),
		Inputs:     make(map[string]*InputStats, len(c.inputs)),
	}
	values := make(map[string]map[string]struct{}, len(c.inputs))
	for _, v := range c.inputs {
		s.Inputs[v.Name()] = &InputStats{Min: math.Inf(1), Max: math.Inf(-1), Overflow: true}
		values[v.Name()] = make(map[string]struct{})
	}
	c.summarize(c.data, s, values)
	for name, set := range values {
		stats := s.Inputs[name]
		for v := range set {
			stats.Values = append(stats.Values, v)
		}
		sort.Strings(stats.Values)
	}
	return s
}

func (c *Correction) summarize(node content, s Summary, values map[string]map[string]struct{}) {
	switch n := node.(type) {
	case literal:
		s.NodeCounts["literal"]++
	case *formulaNode:
		s.NodeCounts["formula"]++
	case *formulaRef:
		s.NodeCounts["formularef"]++
	case *transform:
		s.NodeCounts["transform"]++
		s.Inputs[c.inputs[n.varIdx].Name()].HasTransform = true
		c.summarize(n.rule, s, values)
		c.summarize(n.content, s, values)
	case *hashprng:
		s.NodeCounts["hashprng"]++
	case *binning:
		s.NodeCounts["binning"]++
		c.recordAxis(s, n.varIdx, &n.ax, n.flow)
		for _, child := range n.contents {
			c.summarize(child, s, values)
		}
		if n.def != nil {
			c.summarize(n.def, s, values)
		}
	case *multiBinning:
		s.NodeCounts["multibinning"]++
		for d := range n.axes {
			c.recordAxis(s, n.axes[d].varIdx, &n.axes[d].ax, n.flow)
		}
		for _, child := range n.contents {
			c.summarize(child, s, values)
		}
		if n.def != nil {
			c.summarize(n.def, s, values)
		}
	case *category:
		s.NodeCounts["category"]++
		name := c.inputs[n.varIdx].Name()
		for k, child := range n.strMap {
			values[name][k] = struct{}{}
			c.summarize(child, s, values)
		}
		for k, child := range n.intMap {
			values[name][strconv.FormatInt(k, 10)] = struct{}{}
			c.summarize(child, s, values)
		}
		if n.def != nil {
			s.Inputs[name].HasDefault = true
			c.summarize(n.def, s, values)
		}
	}
}

func (c *Correction) recordAxis(s Summary, varIdx int, ax *axis, flow flowBehavior) {
	stats := s.Inputs[c.inputs[varIdx].Name()]
	if ax.low < stats.Min {
		stats.Min = ax.low
	}
	if ax.high > stats.Max {
		stats.Max = ax.high
	}
	if flow == flowError {
		stats.Overflow = false
	}
}
