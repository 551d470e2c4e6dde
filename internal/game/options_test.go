package game

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestDefaultOptionsAreValid(t *testing.T) {
	opts := DefaultOptions()
	require.NoError(t, opts.Validate())
	assert.Equal(t, "punch-cards", opts.Seed)
	assert.Equal(t, 1000, opts.TickIntervalMs)
	assert.Equal(t, []CardType{CardPunch, CardUp1, CardDown1, CardRandom, CardRandom}, opts.Left.HandSlots())
}

func TestParseOptionsLayers(t *testing.T) {
	data := []byte(`
seed: layered
tick_interval_ms: 250
robot:
  actions_count: 4
  head_health: 50
  deck_cards:
    punch: 10
left:
  head_health: 20
right:
  fixed_cards: [charge]
`)
	opts, err := ParseOptions(data)
	require.NoError(t, err)

	assert.Equal(t, "layered", opts.Seed)
	assert.Equal(t, 250, opts.TickIntervalMs)

	assert.Equal(t, 4, opts.Left.ActionsCount)
	assert.Equal(t, 4, opts.Right.ActionsCount)
	assert.Equal(t, 20, opts.Left.HeadHealth)
	assert.Equal(t, 50, opts.Right.HeadHealth)
	assert.Equal(t, 80, opts.Right.TorsoHealth, "unset fields keep defaults")

	assert.Equal(t, map[CardType]int{CardPunch: 10}, opts.Left.DeckCards, "deck tables replace, not merge")
	assert.Equal(t, map[CardType]int{CardPunch: 10}, opts.Right.DeckCards)
	assert.Equal(t, []CardType{CardPunch, CardUp1, CardDown1}, opts.Left.FixedCards)
	assert.Equal(t, []CardType{CardCharge}, opts.Right.FixedCards)

	opts.Left.DeckCards[CardRepair] = 1
	assert.NotContains(t, opts.Right.DeckCards, CardRepair, "sides do not share tables")
}

func TestParseOptionsEmptyKeepsDefaults(t *testing.T) {
	opts, err := ParseOptions(nil)
	require.NoError(t, err)
	assert.Equal(t, DefaultOptions(), opts)
}

func TestParseOptionsValidates(t *testing.T) {
	for name, data := range map[string]string{
		"unknown deck card":  "robot:\n  deck_cards:\n    kick: 1\n",
		"unknown fixed card": "left:\n  fixed_cards: [kick]\n",
	} {
		t.Run(name, func(t *testing.T) {
			_, err := ParseOptions([]byte(data))
			assert.ErrorIs(t, err, ErrInvalidIdentifier)
		})
	}
	for name, data := range map[string]string{
		"no actions":      "robot:\n  actions_count: 0\n",
		"hand off robot":  "right:\n  left_hand_position: 9\n",
		"dead on arrival": "left:\n  torso_health: 0\n",
		"negative count":  "robot:\n  deck_cards:\n    punch: -1\n",
		"zero interval":   "tick_interval_ms: 0\n",
	} {
		t.Run(name, func(t *testing.T) {
			_, err := ParseOptions([]byte(data))
			assert.ErrorIs(t, err, ErrInvalidIndex)
		})
	}

	_, err := ParseOptions([]byte("robot: [1, 2]"))
	assert.Error(t, err)
}

func TestLoadOptionsRoundTrip(t *testing.T) {
	opts := DefaultOptions()
	opts.Seed = "round-trip"
	opts.Right.HeatsinkHealth = 70

	data, err := yaml.Marshal(opts)
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "options.yaml")
	require.NoError(t, os.WriteFile(path, data, 0o644))

	loaded, err := LoadOptions(path)
	require.NoError(t, err)
	assert.Equal(t, opts, loaded)

	_, err = LoadOptions(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestSampleOptionsFile(t *testing.T) {
	opts, err := LoadOptions(filepath.Join("..", "..", "options.yaml"))
	require.NoError(t, err)

	assert.Empty(t, opts.Seed)
	assert.Equal(t, DefaultRobotOptions(), opts.Left)
	assert.Equal(t, 30, opts.Right.HeadHealth)
	assert.Equal(t, DefaultRobotOptions().DeckCards, opts.Right.DeckCards)
}
