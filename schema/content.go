package schema

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
)

// Content is one node of a correction's data tree: either a bare number
// (literal) or an object dispatched on its "nodetype" field. The
// wrapped value is a float64 or a pointer to one of the node structs.
type Content struct {
	value any
}

// NewContent wraps a node value. Valid kinds are float64 and pointers
// to the node structs of this package.
func NewContent(v any) Content {
	return Content{value: v}
}

// Value returns the wrapped node: float64, *Formula, *FormulaRef,
// *Transform, *HashPRNG, *Binning, *MultiBinning or *Category. A zero
// Content returns nil.
func (c Content) Value() any {
	return c.value
}

// UnmarshalJSON dispatches a bare number to a literal and an object on
// its nodetype.
func (c *Content) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimLeft(data, " \t\r\n")
	if len(trimmed) == 0 {
		return fmt.Errorf("%w: empty content", ErrInvalidFieldType)
	}
	switch trimmed[0] {
	case 'n': // null, only meaningful for optional defaults
		c.value = nil
		return nil
	case '{':
		var probe struct {
			NodeType *string `json:"nodetype"`
		}
		if err := json.Unmarshal(data, &probe); err != nil {
			return err
		}
		if probe.NodeType == nil {
			return fmt.Errorf("%w: nodetype", ErrMissingField)
		}
		var node any
		switch *probe.NodeType {
		case "binning":
			node = new(Binning)
		case "multibinning":
			node = new(MultiBinning)
		case "category":
			node = new(Category)
		case "formula":
			node = new(Formula)
		case "formularef":
			node = new(FormulaRef)
		case "transform":
			node = new(Transform)
		case "hashprng":
			node = new(HashPRNG)
		default:
			return fmt.Errorf("%w: %q", ErrUnknownNodeType, *probe.NodeType)
		}
		if err := json.Unmarshal(data, node); err != nil {
			return err
		}
		c.value = node
		return nil
	}
	var lit float64
	if err := json.Unmarshal(data, &lit); err != nil {
		return fmt.Errorf("%w: content must be a number or a node object", ErrInvalidFieldType)
	}
	c.value = lit
	return nil
}

// MarshalJSON writes the wrapped node back out.
func (c Content) MarshalJSON() ([]byte, error) {
	if c.value == nil {
		return []byte("null"), nil
	}
	return json.Marshal(c.value)
}

// Axis is one binning axis: either explicit non-uniform edges or a
// uniform {n, low, high} description.
type Axis struct {
	Uniform *UniformBins
	Edges   []float64
}

// UnmarshalJSON accepts the array form (with "inf", "+inf", "-inf"
// string edges mapped to signed infinity) and the uniform object form.
func (a *Axis) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimLeft(data, " \t\r\n")
	if len(trimmed) == 0 {
		return fmt.Errorf("%w: empty axis", ErrInvalidFieldType)
	}
	if trimmed[0] == '{' {
		var u UniformBins
		if err := json.Unmarshal(data, &u); err != nil {
			return err
		}
		a.Uniform = &u
		a.Edges = nil
		return nil
	}
	var raw []any
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("%w: axis must be an edge array or {n, low, high}", ErrInvalidFieldType)
	}
	edges := make([]float64, 0, len(raw))
	for i, item := range raw {
		switch v := item.(type) {
		case float64:
			edges = append(edges, v)
		case string:
			switch v {
			case "inf", "+inf":
				edges = append(edges, math.Inf(1))
			case "-inf":
				edges = append(edges, math.Inf(-1))
			default:
				return fmt.Errorf("%w: edge %d is %q", ErrInvalidFieldType, i, v)
			}
		default:
			return fmt.Errorf("%w: edge %d is %T", ErrInvalidFieldType, i, item)
		}
	}
	a.Uniform = nil
	a.Edges = edges
	return nil
}

// MarshalJSON writes infinite edges back as their string forms, since
// JSON has no literal for them.
func (a Axis) MarshalJSON() ([]byte, error) {
	if a.Uniform != nil {
		return json.Marshal(a.Uniform)
	}
	items := make([]any, len(a.Edges))
	for i, e := range a.Edges {
		switch {
		case math.IsInf(e, 1):
			items[i] = "inf"
		case math.IsInf(e, -1):
			items[i] = "-inf"
		default:
			items[i] = e
		}
	}
	return json.Marshal(items)
}

// Flow is the out-of-range policy of a binned node: "clamp", "error",
// or a default content node evaluated in place of the lookup.
type Flow struct {
	Policy  string // "clamp" or "error"; empty when Default is set
	Default *Content
}

// UnmarshalJSON accepts the two policy strings or any content value.
func (f *Flow) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimLeft(data, " \t\r\n")
	if len(trimmed) > 0 && trimmed[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		if s != "clamp" && s != "error" {
			return fmt.Errorf("%w: flow %q", ErrInvalidFieldType, s)
		}
		f.Policy = s
		f.Default = nil
		return nil
	}
	var c Content
	if err := c.UnmarshalJSON(data); err != nil {
		return err
	}
	f.Policy = ""
	f.Default = &c
	return nil
}

// MarshalJSON writes the policy string or the default node.
func (f Flow) MarshalJSON() ([]byte, error) {
	if f.Default != nil {
		return json.Marshal(*f.Default)
	}
	return json.Marshal(f.Policy)
}

// CategoryItem is one key/value pair of a category node. Key is a
// string or an int64 matching the bound input's declared type.
type CategoryItem struct {
	Key   any
	Value Content
}

// UnmarshalJSON enforces that keys are strings or integral numbers.
func (ci *CategoryItem) UnmarshalJSON(data []byte) error {
	var raw struct {
		Key   json.RawMessage `json:"key"`
		Value Content         `json:"value"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if len(raw.Key) == 0 {
		return fmt.Errorf("%w: key", ErrMissingField)
	}
	if raw.Key[0] == '"' {
		var s string
		if err := json.Unmarshal(raw.Key, &s); err != nil {
			return err
		}
		ci.Key = s
	} else {
		n, err := strconv.ParseInt(string(bytes.TrimSpace(raw.Key)), 10, 64)
		if err != nil {
			return fmt.Errorf("%w: category key %s", ErrInvalidFieldType, raw.Key)
		}
		ci.Key = n
	}
	ci.Value = raw.Value
	return nil
}

// MarshalJSON writes the pair back out.
func (ci CategoryItem) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Key   any     `json:"key"`
		Value Content `json:"value"`
	}{ci.Key, ci.Value})
}
