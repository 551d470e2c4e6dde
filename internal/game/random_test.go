package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRandomGeneratorIsDeterministic(t *testing.T) {
	a := NewRandomGenerator("punch-cards")
	b := NewRandomGenerator("punch-cards")
	for i := 0; i < 1000; i++ {
		require.Equal(t, a.NextRandom(), b.NextRandom(), "value %d", i)
	}
}

func TestRandomGeneratorRange(t *testing.T) {
	g := NewRandomGenerator("range")
	for i := 0; i < 10000; i++ {
		v := g.NextRandom()
		require.GreaterOrEqual(t, v, 0.0)
		require.Less(t, v, 1.0)
	}
}

func TestRandomGeneratorSeedsDiffer(t *testing.T) {
	left := NewRandomGenerator("seed-left")
	right := NewRandomGenerator("seed-right")
	same := 0
	for i := 0; i < 100; i++ {
		if left.NextRandom() == right.NextRandom() {
			same++
		}
	}
	assert.Less(t, same, 5)
}

func TestRandomGeneratorCopyContinuesSequence(t *testing.T) {
	g := NewRandomGenerator("copy")
	g.NextRandom()
	cp := g.Copy()
	assert.Equal(t, g.SeedString(), cp.SeedString())
	for i := 0; i < 10; i++ {
		assert.Equal(t, g.NextRandom(), cp.NextRandom())
	}
}

func TestNewSeedString(t *testing.T) {
	a, b := NewSeedString(), NewSeedString()
	assert.Len(t, a, 32)
	assert.NotEqual(t, a, b)
}

func TestShuffleKeepsItems(t *testing.T) {
	items := []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}
	shuffled := Shuffle(NewRandomGenerator("shuffle"), items)

	assert.ElementsMatch(t, items, shuffled)
	assert.Equal(t, []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}, items, "input must not be modified")
	assert.Equal(t, shuffled, Shuffle(NewRandomGenerator("shuffle"), items))
}
