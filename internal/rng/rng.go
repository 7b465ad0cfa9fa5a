// Package rng provides the seedable uniform random source driving the
// Monte-Carlo sampling. Each simulator owns a Source; a seedable
// process-wide default is also provided. The CLI does not use the
// default: it seeds each shot's own Source through the sampler.
package rng

import (
	crand "crypto/rand"
	"encoding/binary"
	"math/rand/v2"
	"sync"
)

// Source is a seedable uniform float generator. It is not safe for
// concurrent use; replicate it per shard instead of sharing.
type Source struct {
	r *rand.Rand
}

// New creates a Source with a fixed seed.
func New(seed uint64) *Source {
	return &Source{r: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

// NewRandomized creates a Source seeded from the OS entropy pool.
func NewRandomized() *Source {
	return New(entropySeed())
}

// Seed resets the generator to a fixed seed.
func (s *Source) Seed(seed uint64) {
	s.r = rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// Randomize reseeds the generator from the OS entropy pool.
func (s *Source) Randomize() {
	s.Seed(entropySeed())
}

// Float returns a uniform float in [from, to).
func (s *Source) Float(from, to float64) float64 {
	return from + (to-from)*s.r.Float64()
}

// IntN returns a uniform integer in [0, n).
func (s *Source) IntN(n int) int {
	return s.r.IntN(n)
}

// Uint64 returns a uniform 64-bit value.
func (s *Source) Uint64() uint64 {
	return s.r.Uint64()
}

func entropySeed() uint64 {
	var buf [8]byte
	if _, err := crand.Read(buf[:]); err != nil {
		// The entropy pool is unavailable; fall back to a constant so the
		// generator still works, just without fresh randomness.
		return 0x6c65616b79
	}

	return binary.LittleEndian.Uint64(buf[:])
}

var (
	defaultMu     sync.Mutex
	defaultSource = NewRandomized()
)

// SetSeed seeds the process-wide default source.
func SetSeed(seed uint64) {
	defaultMu.Lock()
	defer defaultMu.Unlock()

	defaultSource.Seed(seed)
}

// Randomize reseeds the process-wide default source from OS entropy.
func Randomize() {
	defaultMu.Lock()
	defer defaultMu.Unlock()

	defaultSource.Randomize()
}

// Float draws a uniform float in [from, to) from the default source.
func Float(from, to float64) float64 {
	defaultMu.Lock()
	defer defaultMu.Unlock()

	return defaultSource.Float(from, to)
}
