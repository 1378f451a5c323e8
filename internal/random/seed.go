// Package random provides seed generation and seeded stream helpers.
//
// Sessions draw one high-entropy seed at start; every trial then derives its own
// deterministic stream from that seed so regenerating a trial yields the same words.
package random

import (
	crand "crypto/rand"
	"encoding/binary"
	"fmt"
	"math/rand/v2"
)

// SeedFunc produces a new session seed.
type SeedFunc func() (int64, error)

// NewSeed generates a random seed using crypto/rand.
func NewSeed() (int64, error) {
	var b [8]byte
	if _, err := crand.Read(b[:]); err != nil {
		return 0, fmt.Errorf("read random seed: %w", err)
	}

	return int64(binary.LittleEndian.Uint64(b[:])), nil
}

// FixedOrNew returns a SeedFunc that always yields fixed when it is non-zero and
// falls back to generate otherwise.
func FixedOrNew(fixed int64, generate SeedFunc) SeedFunc {
	if generate == nil {
		generate = NewSeed
	}
	if fixed == 0 {
		return generate
	}
	return func() (int64, error) {
		return fixed, nil
	}
}

// Stream returns a PRNG for one (seed, stream) pair.
//
// Equal inputs always produce the same sequence.
func Stream(seed int64, stream uint64) *rand.Rand {
	return rand.New(rand.NewPCG(uint64(seed), stream))
}
