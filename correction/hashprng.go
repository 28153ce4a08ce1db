package correction

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/cms-nanoAOD/correctionlib/prng"
	"github.com/cms-nanoAOD/correctionlib/schema"
)

type distribution int

const (
	distStdFlat distribution = iota
	distStdNormal
	distNormal
)

// hashprng draws a pseudo-random value from a generator seeded by an
// XXH64 hash of the referenced inputs. The draw is a pure function of
// the input tuple: no generator state survives between evaluations.
type hashprng struct {
	indices []int
	dist    distribution
}

func newHashPRNG(sh *schema.HashPRNG, ctx *Correction) (*hashprng, error) {
	if len(sh.Inputs) == 0 {
		return nil, fmt.Errorf("%w: hashprng inputs", schema.ErrMissingField)
	}
	h := &hashprng{indices: make([]int, len(sh.Inputs))}
	for i, name := range sh.Inputs {
		idx, err := ctx.inputIndex(name)
		if err != nil {
			return nil, err
		}
		if ctx.inputs[idx].Type() == VarString {
			return nil, fmt.Errorf("%w: hashprng input %q is string-typed", ErrTypeDisallowed, name)
		}
		h.indices[i] = idx
	}
	switch sh.Distribution {
	case "stdflat":
		h.dist = distStdFlat
	case "stdnormal":
		h.dist = distStdNormal
	case "normal":
		h.dist = distNormal
	default:
		return nil, fmt.Errorf("%w: hashprng distribution %q", schema.ErrInvalidFieldType, sh.Distribution)
	}
	return h, nil
}

func (h *hashprng) evaluate(values []Value) (float64, error) {
	// Seed material: each referenced input as 64 little-endian bits, in
	// declared order. Integers are sign-extended; reals contribute their
	// IEEE-754 bit pattern.
	buf := make([]byte, 8*len(h.indices))
	for i, idx := range h.indices {
		var word uint64
		if f, ok := values[idx].(float64); ok {
			word = math.Float64bits(f)
		} else {
			n, ok := asInt(values[idx])
			if !ok {
				return 0, fmt.Errorf("%w: hashprng input %d", ErrTypeMismatch, idx)
			}
			word = uint64(n)
		}
		binary.LittleEndian.PutUint64(buf[8*i:], word)
	}

	g := prng.New(prng.Seed(buf))
	switch h.dist {
	case distStdNormal:
		return g.StdNormal(), nil
	case distNormal:
		return g.Normal(), nil
	default:
		return g.Float64(), nil
	}
}
