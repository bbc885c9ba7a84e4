package core

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

const (
	pcg32DefaultState  = 0x853c49e6748fea9b
	pcg32DefaultStream = 0xda3e39cb94b95bdb
	pcg32Mult          = 0x5851f42d4c957f2d
)

// OneMinusEpsilon is the largest float64 below one
const OneMinusEpsilon = 0x1.fffffffffffffp-1

// Sampler provides uniform variates for sampling routines
type Sampler interface {
	Get1D() float64
	Get2D() mgl64.Vec2
}

// RNG is a PCG32 generator. Each parallel invocation owns its RNG and seeds it
// from invocation-local data, so no generator state is ever shared.
type RNG struct {
	state uint64
	inc   uint64
}

// NewRNG creates a generator on stream seqIndex starting at offset
func NewRNG(seqIndex, offset uint64) *RNG {
	r := &RNG{}
	r.SetSequence(seqIndex, offset)
	return r
}

// NewDefaultRNG creates a generator on the default PCG32 stream
func NewDefaultRNG() *RNG {
	return &RNG{state: pcg32DefaultState, inc: pcg32DefaultStream}
}

// SetSequence restarts the generator on stream seqIndex with the given seed
func (r *RNG) SetSequence(seqIndex, seed uint64) {
	r.state = 0
	r.inc = seqIndex<<1 | 1
	r.Uint32()
	r.state += seed
	r.Uint32()
}

// Uint32 returns the next 32 random bits
func (r *RNG) Uint32() uint32 {
	old := r.state
	r.state = old*pcg32Mult + r.inc
	xorshifted := uint32(((old >> 18) ^ old) >> 27)
	rot := uint32(old >> 59)
	return (xorshifted >> rot) | (xorshifted << ((-rot) & 31))
}

// Uniform returns a float64 in [0, 1)
func (r *RNG) Uniform() float64 {
	return math.Min(OneMinusEpsilon, float64(r.Uint32())*0x1p-32)
}

// Get1D implements Sampler
func (r *RNG) Get1D() float64 {
	return r.Uniform()
}

// Get2D implements Sampler
func (r *RNG) Get2D() mgl64.Vec2 {
	return mgl64.Vec2{r.Uniform(), r.Uniform()}
}

// MixBits is a 64-bit finalizer with good avalanche behavior
func MixBits(v uint64) uint64 {
	v ^= v >> 31
	v *= 0x7fb5d329728ea185
	v ^= v >> 27
	v *= 0x81dadef4bc2dd44d
	v ^= v >> 33
	return v
}

// Hash combines the given words into one 64-bit hash
func Hash(values ...uint64) uint64 {
	h := uint64(0x9e3779b97f4a7c15)
	for _, v := range values {
		h = MixBits(h ^ MixBits(v))
	}
	return h
}

// HashFloat hashes the bit pattern of f; +Inf hashes to a fixed value
func HashFloat(f float64) uint64 {
	return Hash(math.Float64bits(f))
}

// HashVec hashes the bit pattern of all three components of v
func HashVec(v mgl64.Vec3) uint64 {
	return Hash(math.Float64bits(v[0]), math.Float64bits(v[1]), math.Float64bits(v[2]))
}
