package systems

import "math/rand/v2"

// Rand is the entropy source for target selection and probability draws.
// *rand.Rand from math/rand/v2 satisfies it.
type Rand interface {
	IntN(n int) int
	Float64() float64
}

// NewPCG creates the generator behind NewRand. Its state can be saved with
// MarshalBinary and restored with UnmarshalBinary.
func NewPCG(seed int64) *rand.PCG {
	return rand.NewPCG(uint64(seed), 0)
}

// NewRand creates a deterministic PCG-backed source for the given seed.
func NewRand(seed int64) *rand.Rand {
	return rand.New(NewPCG(seed))
}

// pick returns a uniformly chosen element. items must not be empty.
func pick[T any](r Rand, items []T) T {
	return items[r.IntN(len(items))]
}
