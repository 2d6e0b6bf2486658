package kvgen

import (
	"math/rand/v2"

	"github.com/ananthvk/kvgen/internal/command"
)

// Alphabet is the fixed set of symbols random keys are made of
const Alphabet = command.Alphabet

// MaxKeyLength is the maximum length of a random key, lengths are drawn uniformly from [0, MaxKeyLength]
const MaxKeyLength = command.MaxKeyLength

// Source is the random number stream used by the generator. *rand.Rand from math/rand/v2 satisfies it
type Source interface {
	// IntN returns a uniform integer in [0, n)
	IntN(n int) int
	// Uint64 returns a uniform integer in [0, 2^64 - 1]
	Uint64() uint64
}

// NewSource returns a deterministic source, the same seed always produces the same stream
func NewSource(seed uint64) Source {
	return rand.New(rand.NewPCG(seed, seed))
}

// NewRandomSource returns a source seeded from the runtime's random state, successive calls
// produce different streams
func NewRandomSource() Source {
	return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
}

// RandomKey builds a key of random length in [0, MaxKeyLength], every character is drawn independently
// from Alphabet. The result is the empty string when the drawn length is zero
func RandomKey(src Source) string {
	b := make([]byte, src.IntN(MaxKeyLength+1))
	for i := range b {
		b[i] = Alphabet[src.IntN(len(Alphabet))]
	}
	return string(b)
}
