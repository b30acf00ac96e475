package engine

import (
	mathrand "math/rand/v2"
	"sync"
)

// Rand is the injected randomness source used by probability-bearing
// conditions and actions. Injecting it at construction (instead of reading
// ambient process-wide randomness) is what makes seeded replay and
// deterministic tests possible.
//
// Implemented by SeededRand (production) and FixedRand (tests).
type Rand interface {
	// Float64 returns one sample in [0, 1).
	Float64() float64
}

// SeededRand is a PCG-backed source with an explicit seed. The same seed
// always yields the same stream.
type SeededRand struct {
	r *mathrand.Rand
}

// NewSeededRand creates a source seeded with the given value.
func NewSeededRand(seed uint64) *SeededRand {
	return &SeededRand{r: mathrand.New(mathrand.NewPCG(seed, 0))}
}

// Float64 returns the next sample in the seeded stream.
func (s *SeededRand) Float64() float64 {
	return s.r.Float64()
}

// FixedRand returns predetermined samples for testing.
//
// Tests script the exact sequence of draws and verify draw counts: if the
// engine consumes more samples than the test provided, Float64 panics,
// which is a fail-fast signal that draw counting broke.
type FixedRand struct {
	mu      sync.Mutex
	samples []float64
	idx     int
}

// NewFixedRand creates a source that returns samples in order.
func NewFixedRand(samples ...float64) *FixedRand {
	return &FixedRand{samples: samples}
}

// Float64 returns the next predetermined sample.
// Panics when all samples have been consumed.
func (f *FixedRand) Float64() float64 {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.idx >= len(f.samples) {
		panic("FixedRand: all samples exhausted")
	}
	v := f.samples[f.idx]
	f.idx++
	return v
}

// Draws reports how many samples have been consumed so far.
func (f *FixedRand) Draws() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.idx
}
