package road

import (
	"hash/fnv"
	"math/rand"
	"time"
)

// Random streams. Each consumer of randomness draws from its own stream so that
// adding draws in one generator never shifts the sequence seen by another.
const (
	// StreamSynthesis feeds the ISO 8608 spectral synthesis. Uses the seed directly,
	// so a given seed reproduces the same left track regardless of other streams.
	StreamSynthesis = "synthesis"

	// StreamCSVExpansion feeds the right-track derivation of single-profile CSV files.
	StreamCSVExpansion = "csv_expansion"
)

// NewRand returns a generator for the named stream.
//
// Derivation:
//   - seed == nil: wall-clock seeded, output is not reproducible
//   - StreamSynthesis: *seed
//   - any other stream: *seed XOR fnv1a64(stream)
func NewRand(seed *int64, stream string) *rand.Rand {
	if seed == nil {
		return rand.New(rand.NewSource(time.Now().UnixNano() ^ fnv1a64(stream)))
	}
	derived := *seed
	if stream != StreamSynthesis {
		derived ^= fnv1a64(stream)
	}
	return rand.New(rand.NewSource(derived))
}

// fnv1a64 computes a 64-bit FNV-1a hash of the input string.
func fnv1a64(s string) int64 {
	h := fnv.New64a()
	h.Write([]byte(s))
	return int64(h.Sum64())
}
