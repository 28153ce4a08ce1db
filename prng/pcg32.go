// Package prng implements the fixed pseudo-random draw used by hashprng
// nodes: a pcg32_oneseq generator seeded from an XXH64 digest of the
// referenced input values. Both algorithms are pinned by the document
// format, so their outputs are bit-exact across implementations.
package prng

import (
	"math"
	"math/bits"

	"github.com/cespare/xxhash/v2"
)

// PCG-XSH-RR 64/32 constants for the oneseq stream.
const (
	pcgMultiplier = 6364136223846793005
	pcgIncrement  = 1442695040888963407
)

// PCG32 is a pcg32_oneseq generator. The zero value is not seeded;
// use New.
type PCG32 struct {
	state uint64
}

// New creates a generator seeded with the given value, following the
// reference seeding sequence (zero state, step, add seed, step).
func New(seed uint64) *PCG32 {
	p := &PCG32{}
	p.step()
	p.state += seed
	p.step()
	return p
}

func (p *PCG32) step() {
	p.state = p.state*pcgMultiplier + pcgIncrement
}

// Uint32 returns the next 32-bit output. The output function is applied
// to the state prior to the advance, matching the reference engine.
func (p *PCG32) Uint32() uint32 {
	old := p.state
	p.step()
	xorshifted := uint32(((old >> 18) ^ old) >> 27)
	rot := int(old >> 59)
	return bits.RotateLeft32(xorshifted, -rot)
}

// Float64 returns a uniform draw in [0, 1): one 32-bit output divided
// by 2^32.
func (p *PCG32) Float64() float64 {
	return float64(p.Uint32()) / (1 << 32)
}

// StdNormal returns a standard normal draw via the Box-Muller
// transform. The first uniform is mapped into (0, 1] so the logarithm
// stays finite.
func (p *PCG32) StdNormal() float64 {
	u1 := (float64(p.Uint32()) + 1) / (1 << 32)
	u2 := float64(p.Uint32()) / (1 << 32)
	return math.Sqrt(-2*math.Log(u1)) * math.Cos(2*math.Pi*u2)
}

// Normal returns a normal draw using the polar Marsaglia form: pairs
// u,v in [-1, 1) are rejected until s = u^2+v^2 lies in (0, 1), and the
// u component is scaled by sqrt(-2 ln(s) / s).
func (p *PCG32) Normal() float64 {
	for {
		u := math.Ldexp(float64(p.Uint32()), -31) - 1
		v := math.Ldexp(float64(p.Uint32()), -31) - 1
		s := u*u + v*v
		if s < 1 && s != 0 {
			return u * math.Sqrt(-2*math.Log(s)/s)
		}
	}
}

// Seed hashes the seed material with XXH64 (seed 0).
func Seed(buf []byte) uint64 {
	return xxhash.Sum64(buf)
}
