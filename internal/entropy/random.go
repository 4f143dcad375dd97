// Package entropy provides the process-wide randomness source used for
// vote tie-breaking and random discovery. Sources are seedable so tests
// can force specific outcomes; the default seed comes from crypto/rand.
package entropy

import (
	crand "crypto/rand"
	"encoding/binary"
	"math/rand"
	"sync"
)

// Source wraps a seeded PRNG behind a mutex so the simulation and the
// HTTP command handlers can share one instance.
type Source struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// New creates a Source with an explicit seed.
func New(seed int64) *Source {
	return &Source{rng: rand.New(rand.NewSource(seed))}
}

// NewCrypto creates a Source seeded from crypto/rand.
func NewCrypto() *Source {
	var buf [8]byte
	if _, err := crand.Read(buf[:]); err != nil {
		// crypto/rand should never fail; fall back to a fixed seed.
		return New(1)
	}
	return New(int64(binary.LittleEndian.Uint64(buf[:])))
}

// Intn returns a uniform int in [0, n).
func (s *Source) Intn(n int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.Intn(n)
}

// Float returns a uniform float64 in [0, 1).
func (s *Source) Float() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.Float64()
}

// Pick returns a uniformly chosen element. Panics on an empty slice,
// matching rand.Intn semantics.
func (s *Source) Pick(items []string) string {
	return items[s.Intn(len(items))]
}

// Sample returns n distinct elements in random order.
// If n exceeds len(items), all items are returned shuffled.
func (s *Source) Sample(items []string, n int) []string {
	out := make([]string, len(items))
	copy(out, items)

	s.mu.Lock()
	s.rng.Shuffle(len(out), func(i, j int) {
		out[i], out[j] = out[j], out[i]
	})
	s.mu.Unlock()

	if n < len(out) {
		out = out[:n]
	}
	return out
}
