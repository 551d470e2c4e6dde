package bot

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PetrHeinz/punch-cards/internal/game"
)

func TestRandobotFillsSlotsThenCommits(t *testing.T) {
	m := newTestMatch(t, nil)
	r := NewRandobot(m, Config{Side: game.SideLeft, Seed: "rando"})
	ctx := context.Background()
	m.Tick()

	steps := 0
	for m.RobotState(game.SideLeft) == game.StateWaitingForInput {
		_, err := r.Step(ctx)
		require.NoError(t, err)
		steps++
		require.Less(t, steps, 20)
	}
	// collect, three choices, three toggles, commit
	assert.Equal(t, 8, steps)
	assert.Equal(t, game.StateInputAccepted, m.RobotState(game.SideLeft))

	seen := map[int]bool{}
	for _, a := range m.CardsInfo(game.SideLeft).Actions {
		require.GreaterOrEqual(t, a.HandCardIndex, 0)
		assert.False(t, seen[a.HandCardIndex], "hand card %d used twice", a.HandCardIndex)
		seen[a.HandCardIndex] = true
	}
}

func TestRandobotWithSmallHand(t *testing.T) {
	m := newTestMatch(t, func(o *game.Options) {
		o.Left.CardsCount = 1
		o.Left.FixedCards = nil
	})
	r := NewRandobot(m, Config{Side: game.SideLeft, Seed: "small"})
	m.Tick()

	for i := 0; i < 20 && m.RobotState(game.SideLeft) == game.StateWaitingForInput; i++ {
		_, err := r.Step(context.Background())
		require.NoError(t, err)
	}
	require.Equal(t, game.StateInputAccepted, m.RobotState(game.SideLeft))

	actions := m.CardsInfo(game.SideLeft).Actions
	assert.Equal(t, 0, actions[0].HandCardIndex)
	assert.Equal(t, -1, actions[1].HandCardIndex)
}

func TestRandobotStopsWhenTerminal(t *testing.T) {
	m := newTestMatch(t, nil)
	m.Tick()
	m.View(func(g *game.Game) { g.Right().Torso().SetHealth(0) })
	m.Tick()

	done, err := NewRandobot(m, Config{Side: game.SideLeft}).Step(context.Background())
	require.NoError(t, err)
	assert.True(t, done)
}
