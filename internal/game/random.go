package game

import (
	"math/bits"
	"sort"
	"strings"
	"unicode/utf16"

	"github.com/google/uuid"
)

// RandomGenerator is a deterministic pseudo-random stream seeded from a string.
// The seed is hashed with cyrb128 into four words that drive xoshiro128**.
// Two generators built from the same seed yield identical sequences.
type RandomGenerator struct {
	seedString string
	state      [4]uint32
}

// NewRandomGenerator creates a generator for the given seed string.
func NewRandomGenerator(seed string) *RandomGenerator {
	return &RandomGenerator{
		seedString: seed,
		state:      cyrb128(seed),
	}
}

// NewSeedString returns a fresh 32 character seed. Only the outermost
// application layer should call it; the engine always takes explicit seeds.
func NewSeedString() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}

// SeedString returns the seed this generator was created from.
func (g *RandomGenerator) SeedString() string {
	return g.seedString
}

// NextRandom returns the next float in [0, 1).
func (g *RandomGenerator) NextRandom() float64 {
	return float64(g.xoshiro128ss()) / 4294967296
}

// Copy returns an independent generator continuing from the same position.
func (g *RandomGenerator) Copy() *RandomGenerator {
	cp := *g
	return &cp
}

func cyrb128(str string) [4]uint32 {
	var h1, h2, h3, h4 uint32 = 1779033703, 3144134277, 1013904242, 2773480762
	for _, unit := range utf16.Encode([]rune(str)) {
		k := uint32(unit)
		h1 = h2 ^ ((h1 ^ k) * 597399067)
		h2 = h3 ^ ((h2 ^ k) * 2869860233)
		h3 = h4 ^ ((h3 ^ k) * 951274213)
		h4 = h1 ^ ((h4 ^ k) * 2716044179)
	}
	h1 = (h3 ^ (h1 >> 18)) * 597399067
	h2 = (h4 ^ (h2 >> 22)) * 2869860233
	h3 = (h1 ^ (h3 >> 17)) * 951274213
	h4 = (h2 ^ (h4 >> 19)) * 2716044179
	return [4]uint32{h1 ^ h2 ^ h3 ^ h4, h2 ^ h1, h3 ^ h1, h4 ^ h1}
}

func (g *RandomGenerator) xoshiro128ss() uint32 {
	s := &g.state
	t := s[1] << 9
	r := bits.RotateLeft32(s[0]*5, 7) * 9
	s[2] ^= s[0]
	s[3] ^= s[1]
	s[1] ^= s[2]
	s[0] ^= s[3]
	s[2] ^= t
	s[3] = bits.RotateLeft32(s[3], 11)
	return r
}

// Shuffle returns items in a seeded random order without modifying the input.
// Each item gets a generator-assigned sort key and the slice is sorted by it.
func Shuffle[T any](g *RandomGenerator, items []T) []T {
	keys := make([]float64, len(items))
	order := make([]int, len(items))
	for i := range items {
		keys[i] = g.NextRandom()
		order[i] = i
	}
	sort.SliceStable(order, func(i, j int) bool {
		return keys[order[i]] < keys[order[j]]
	})
	result := make([]T, len(items))
	for i, idx := range order {
		result[i] = items[idx]
	}
	return result
}
