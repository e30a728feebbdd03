package xoshiro

import (
	"math/bits"
	"math/rand/v2"
)

const (
	// DefaultSeed is the seed of the baseline worker in every mode.
	DefaultSeed uint64 = 12345

	// SeedMultiplier spaces worker seeds apart, the 64-bit golden ratio fraction.
	SeedMultiplier uint64 = 0x9E3779B97F4A7C15

	float64Unit = 1.0 / (1 << 53)
)

var _ rand.Source = (*Xoshiro256)(nil)

// Xoshiro256 is a non-cryptographic generator over 256 bits of state. A value
// must not be shared between goroutines.
type Xoshiro256 struct {
	state [4]uint64
}

func NewXoshiro256(seed uint64) *Xoshiro256 {
	return &Xoshiro256{state: Expand(seed)}
}

func (r *Xoshiro256) Seed(seed uint64) {
	r.state = Expand(seed)
}

func (r *Xoshiro256) State() [4]uint64 {
	return r.state
}

// Expand derives the initial state from seed by applying the mixing rounds
// four times over a running value. Seed 0 yields the all-zero state.
func Expand(seed uint64) [4]uint64 {
	var state [4]uint64
	s := seed
	for i := range state {
		s ^= s >> 30
		s *= 0xBF58476D1CE4E5B9
		s ^= s >> 27
		s *= 0x94D049BB133111EB
		s ^= s >> 31
		state[i] = s
	}
	return state
}

// Uint64 advances the state and returns the next 64-bit output.
func (r *Xoshiro256) Uint64() uint64 {
	s := &r.state
	result := bits.RotateLeft64(s[1]*5, 7) * 9

	t := s[1] << 17
	s[2] ^= s[0]
	s[3] ^= s[1]
	s[1] ^= s[2]
	s[0] ^= s[3]
	s[2] ^= t
	s[3] = bits.RotateLeft64(s[1], 45)

	return result
}

// Float64 returns a value in [0.0, 1.0) built from the top 53 bits of the
// next output.
func (r *Xoshiro256) Float64() float64 {
	return float64(r.Uint64()>>11) * float64Unit
}

// WorkerSeed returns the seed of the worker at index, wrapping mod 2^64.
func WorkerSeed(base uint64, index int) uint64 {
	return base + uint64(index)*SeedMultiplier
}
