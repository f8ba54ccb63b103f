// Package seeds derives the seeds of the independent random number
// generators of a run from a single seed.
package seeds

import (
	"golang.org/x/exp/rand"
)

// Streams of a single experiment
const (
	Environment uint64 = iota
	Agent
	Target
	Replay
)

// Derive returns the seed of the stream'th generator seeded by seed.
// Derived seeds are outputs of a PCG generator, so different streams
// of the same seed and the same stream of neighbouring seeds do not
// coincide.
func Derive(seed, stream uint64) uint64 {
	rng := rand.New(rand.NewSource(seed))
	var s uint64
	for i := uint64(0); i <= stream; i++ {
		s = rng.Uint64()
	}
	return s
}

// Workers returns the seeds of n parallel workers run from seed
func Workers(seed uint64, n int) []uint64 {
	if n <= 0 {
		return nil
	}
	rng := rand.New(rand.NewSource(seed))
	out := make([]uint64, n)
	for i := range out {
		out[i] = rng.Uint64()
	}
	return out
}
