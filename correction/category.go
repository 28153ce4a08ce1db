package correction

import (
	"fmt"

	"github.com/cms-nanoAOD/correctionlib/schema"
)

// category dispatches on a string or integer input; the map variant
// follows the bound input's declared type.
type category struct {
	varIdx int
	strMap map[string]content
	intMap map[int64]content
	def    content
}

func newCategory(sc *schema.Category, ctx *Correction) (*category, error) {
	idx, err := ctx.inputIndex(sc.Input)
	if err != nil {
		return nil, err
	}
	v := ctx.inputs[idx]
	c := &category{varIdx: idx}
	switch v.Type() {
	case VarString:
		c.strMap = make(map[string]content, len(sc.Content))
	case VarInt:
		c.intMap = make(map[int64]content, len(sc.Content))
	default:
		return nil, fmt.Errorf("%w: category input %q is real-typed", ErrTypeDisallowed, sc.Input)
	}

	for _, item := range sc.Content {
		node, err := resolveContent(item.Value, ctx)
		if err != nil {
			return nil, err
		}
		switch key := item.Key.(type) {
		case string:
			if c.strMap == nil {
				return nil, fmt.Errorf("%w: category on %q got string key %q for int input", ErrTypeMismatch, sc.Input, key)
			}
			if _, dup := c.strMap[key]; dup {
				return nil, fmt.Errorf("%w: category key %q", ErrDuplicateName, key)
			}
			c.strMap[key] = node
		case int64:
			if c.intMap == nil {
				return nil, fmt.Errorf("%w: category on %q got int key %d for string input", ErrTypeMismatch, sc.Input, key)
			}
			if _, dup := c.intMap[key]; dup {
				return nil, fmt.Errorf("%w: category key %d", ErrDuplicateName, key)
			}
			c.intMap[key] = node
		default:
			return nil, fmt.Errorf("%w: category key %v (%T)", ErrTypeMismatch, item.Key, item.Key)
		}
	}

	if sc.Default != nil && sc.Default.Value() != nil {
		if c.def, err = resolveContent(*sc.Default, ctx); err != nil {
			return nil, err
		}
	}
	return c, nil
}

func (c *category) evaluate(values []Value) (float64, error) {
	if s, ok := values[c.varIdx].(string); ok {
		if node, ok := c.strMap[s]; ok {
			return node.evaluate(values)
		}
		if c.def != nil {
			return c.def.evaluate(values)
		}
		return 0, fmt.Errorf("%w: category input %d value %q", ErrKeyNotFound, c.varIdx, s)
	}
	n, ok := asInt(values[c.varIdx])
	if !ok {
		return 0, fmt.Errorf("%w: category input %d", ErrTypeMismatch, c.varIdx)
	}
	if node, ok := c.intMap[n]; ok {
		return node.evaluate(values)
	}
	if c.def != nil {
		return c.def.evaluate(values)
	}
	return 0, fmt.Errorf("%w: category input %d value %d", ErrKeyNotFound, c.varIdx, n)
}
