package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// redraw forces a robot back to PREPARING and draws a new hand.
func redraw(t *testing.T, r *Robot) {
	t.Helper()
	r.setState(StatePreparing)
	require.NoError(t, r.DrawHand())
}

func cardTypes(cards []*Card) []CardType {
	types := make([]CardType, len(cards))
	for i, c := range cards {
		types[i] = c.Type
	}
	return types
}

func TestDrawSequenceIsDeterministic(t *testing.T) {
	a := newTestRobot(t, SideLeft, nil)
	b := newTestRobot(t, SideLeft, nil)

	for round := 0; round < 12; round++ {
		redraw(t, a)
		redraw(t, b)
		require.Equal(t, cardTypes(a.HandCards()), cardTypes(b.HandCards()), "round %d", round)
	}
}

func TestFixedCardsLeadTheHand(t *testing.T) {
	r := newTestRobot(t, SideLeft, nil)
	require.NoError(t, r.DrawHand())

	hand := cardTypes(r.HandCards())
	require.Len(t, hand, 5)
	assert.Equal(t, []CardType{CardPunch, CardUp1, CardDown1}, hand[:3])
}

func TestCardConservation(t *testing.T) {
	r := newTestRobot(t, SideLeft, nil)
	total := 0
	for _, n := range DefaultRobotOptions().DeckCards {
		total += n
	}
	assert.Equal(t, total, r.PileCardsCount())

	for round := 0; round < 30; round++ {
		redraw(t, r)
		require.Equal(t, total, r.PileCardsCount(), "round %d", round)
	}
}

func TestReshuffleOnExhaustion(t *testing.T) {
	r := newTestRobot(t, SideLeft, func(o *RobotOptions) {
		o.FixedCards = nil
		o.CardsCount = 5
		o.DeckCards = map[CardType]int{CardPunch: 3, CardRepair: 4}
	})

	redraw(t, r)
	assert.Len(t, r.HandCards(), 5)
	assert.Equal(t, 2, r.DeckCount())
	assert.Equal(t, 0, r.DiscardCount())

	// deck runs out after two cards, the discard pile of five is shuffled back
	redraw(t, r)
	assert.Len(t, r.HandCards(), 5)
	assert.Equal(t, 7, r.PileCardsCount())
}

func TestDrawWithTooFewCards(t *testing.T) {
	r := newTestRobot(t, SideLeft, func(o *RobotOptions) {
		o.FixedCards = nil
		o.DeckCards = map[CardType]int{CardPunch: 1}
	})

	redraw(t, r)
	assert.Len(t, r.HandCards(), 1)
	redraw(t, r)
	assert.Len(t, r.HandCards(), 1)
	assert.Equal(t, 1, r.PileCardsCount())
}

func TestCommandsAreStateGated(t *testing.T) {
	r := newTestRobot(t, SideLeft, nil)

	assert.ErrorIs(t, r.ChooseAction(0, 0), ErrIllegalState)
	assert.ErrorIs(t, r.Commit(), ErrIllegalState)

	require.NoError(t, r.DrawHand())
	assert.ErrorIs(t, r.DrawHand(), ErrIllegalState)

	require.NoError(t, r.Commit())
	assert.ErrorIs(t, r.Commit(), ErrIllegalState, "second commit must fail")
	assert.ErrorIs(t, r.ChooseAction(0, 0), ErrIllegalState)
	assert.ErrorIs(t, r.SwapActions(0, 1), ErrIllegalState)
	assert.ErrorIs(t, r.ToggleActionHand(0), ErrIllegalState)
	assert.ErrorIs(t, r.DiscardAction(0), ErrIllegalState)
	assert.Equal(t, StateInputAccepted, r.State())
}

func TestCommandsRejectInvalidIndexes(t *testing.T) {
	r := newTestRobot(t, SideLeft, nil)
	require.NoError(t, r.DrawHand())

	assert.ErrorIs(t, r.ChooseAction(5, 0), ErrInvalidIndex)
	assert.ErrorIs(t, r.ChooseAction(-1, 0), ErrInvalidIndex)
	assert.ErrorIs(t, r.ChooseAction(0, 3), ErrInvalidIndex)
	assert.ErrorIs(t, r.SwapActions(0, 3), ErrInvalidIndex)
	assert.ErrorIs(t, r.SwapActions(-1, 0), ErrInvalidIndex)
	assert.ErrorIs(t, r.ToggleActionHand(3), ErrInvalidIndex)
	assert.ErrorIs(t, r.DiscardAction(-1), ErrInvalidIndex)

	for _, a := range r.Actions() {
		assert.True(t, a.IsIdle())
	}
}

func TestChooseRebindsHandCard(t *testing.T) {
	r := newTestRobot(t, SideLeft, nil)
	require.NoError(t, r.DrawHand())

	require.NoError(t, r.ChooseAction(0, 0))
	require.NoError(t, r.ChooseAction(0, 2))

	assert.True(t, r.Actions()[0].IsIdle())
	assert.Equal(t, CardBlank, r.Actions()[0].Card().Type)
	assert.Equal(t, 0, r.Actions()[2].HandCardIndex())
	assert.Equal(t, CardPunch, r.Actions()[2].Card().Type)

	bound := map[int]int{}
	for _, a := range r.Actions() {
		if !a.IsIdle() {
			bound[a.HandCardIndex()]++
		}
	}
	assert.Equal(t, map[int]int{0: 1}, bound)
}

func TestSwapToggleDiscard(t *testing.T) {
	r := newTestRobot(t, SideLeft, nil)
	require.NoError(t, r.DrawHand())

	require.NoError(t, r.ChooseAction(1, 0))
	require.NoError(t, r.ToggleActionHand(0))
	require.NoError(t, r.SwapActions(0, 2))

	moved := r.Actions()[2]
	assert.Equal(t, 1, moved.HandCardIndex())
	assert.Equal(t, HandLeft, moved.Hand())
	assert.True(t, r.Actions()[0].IsIdle())

	require.NoError(t, r.DiscardAction(2))
	assert.True(t, moved.IsIdle())
	assert.Equal(t, HandLeft, moved.Hand(), "discard keeps the chosen hand")
}

func TestDrawHandResetsActions(t *testing.T) {
	r := newTestRobot(t, SideLeft, nil)
	require.NoError(t, r.DrawHand())
	require.NoError(t, r.ChooseAction(0, 0))
	redraw(t, r)

	for _, a := range r.Actions() {
		assert.True(t, a.IsIdle())
	}
}

func TestOvertimeDamage(t *testing.T) {
	r := newTestRobot(t, SideLeft, func(o *RobotOptions) {
		o.MaxTimeToInput = 2
		o.InputOvertimeTorsoDamage = 5
	})
	require.NoError(t, r.DrawHand())
	assert.Equal(t, 2, r.TimeToInput())

	assert.Equal(t, 0, r.Tick())
	assert.Equal(t, 80, r.Torso().Health())
	assert.Equal(t, 5, r.Tick())
	assert.Equal(t, 75, r.Torso().Health())
	assert.Equal(t, 5, r.Tick())
	assert.Equal(t, 70, r.Torso().Health())

	r.Torso().SetHealth(3)
	assert.Equal(t, 3, r.Tick())
	assert.Equal(t, StateDisassembled, r.State())
}

func TestNoOvertimeWithoutLimit(t *testing.T) {
	r := newTestRobot(t, SideLeft, nil)
	require.NoError(t, r.DrawHand())
	for i := 0; i < 20; i++ {
		r.Tick()
	}
	assert.Equal(t, 80, r.Torso().Health())
	assert.Equal(t, StateWaitingForInput, r.State())
}

func TestBodypartAt(t *testing.T) {
	r := newTestRobot(t, SideLeft, nil)
	for _, tc := range []struct {
		lane int
		want *Bodypart
	}{
		{1, r.Head()}, {2, r.Head()},
		{3, r.Torso()}, {4, r.Torso()}, {5, r.Torso()},
		{6, r.Heatsink()}, {7, r.Heatsink()},
	} {
		assert.Same(t, tc.want, r.BodypartAt(tc.lane), "lane %d", tc.lane)
	}

	outside := r.BodypartAt(0)
	assert.Equal(t, 0, outside.Health())
	outside.Damage(10)
	assert.False(t, r.IsDestroyed())
	assert.NotSame(t, outside, r.BodypartAt(8))
}

func TestHandsBlockingAt(t *testing.T) {
	r := newTestRobot(t, SideLeft, nil) // right 3, left 5

	assert.Equal(t, []*Hand{r.RightHand()}, r.HandsBlockingAt(3))
	assert.Equal(t, []*Hand{r.RightHand()}, r.HandsBlockingAt(2))
	assert.Equal(t, []*Hand{r.LeftHand()}, r.HandsBlockingAt(4))
	assert.Empty(t, r.HandsBlockingAt(1))
	assert.Empty(t, r.HandsBlockingAt(5+1))

	r.LeftHand().IsBlocking = false
	assert.Empty(t, r.HandsBlockingAt(4))
}

func TestHealthBounds(t *testing.T) {
	b := newBodypart("torso", 80)
	b.Damage(100)
	assert.Equal(t, 0, b.Health())
	assert.True(t, b.IsDestroyed())
	b.Heal(200)
	assert.Equal(t, 80, b.Health())
	b.SetMaxHealth(50)
	assert.Equal(t, 50, b.Health())
}

func TestSafeCopyRedactsAndIsolates(t *testing.T) {
	r := newTestRobot(t, SideLeft, nil)
	require.NoError(t, r.DrawHand())
	require.NoError(t, r.ChooseAction(0, 1))
	require.NoError(t, r.Commit())

	cp := r.Copy(true)
	assert.Equal(t, StateWaitingForInput, cp.State())
	for _, a := range cp.Actions() {
		assert.True(t, a.IsIdle())
	}
	assert.Equal(t, r.DeckCount(), cp.DeckCount())
	for _, c := range cp.deckCards {
		assert.Equal(t, CardBlank, c.Type)
	}
	assert.Equal(t, cardTypes(r.HandCards()), cardTypes(cp.HandCards()))

	cp.Head().Damage(15)
	cp.RightHand().Move(2)
	require.NoError(t, cp.ChooseAction(2, 0))

	assert.Equal(t, 40, r.Head().Health())
	assert.Equal(t, 3, r.RightHand().Position())
	assert.Equal(t, StateInputAccepted, r.State())
	assert.Equal(t, 0, r.Actions()[1].HandCardIndex())
	assert.True(t, r.Actions()[0].IsIdle())
}

func TestSafeCopyKeepsSlotHandsFromEarlierRounds(t *testing.T) {
	r := newTestRobot(t, SideLeft, nil)
	require.NoError(t, r.DrawHand())
	require.NoError(t, r.ToggleActionHand(0))
	require.NoError(t, r.SwapActions(0, 2))
	require.NoError(t, r.Commit())

	// hands survive the discard at the start of the next round
	redraw(t, r)
	want := []HandSide{HandRight, HandRight, HandLeft}
	assertSlotHands(t, want, r)
	assertSlotHands(t, want, r.Copy(true))

	// edits made while waiting stay private
	require.NoError(t, r.ToggleActionHand(1))
	require.NoError(t, r.ChooseAction(0, 2))
	cp := r.Copy(true)
	assertSlotHands(t, want, cp)
	assert.True(t, cp.Actions()[2].IsIdle())
	assertSlotHands(t, []HandSide{HandRight, HandLeft, HandLeft}, r)

	// a command played on the copy binds the same hand it would on the robot
	require.NoError(t, r.Commit())
	redraw(t, r)
	cp = r.Copy(true)
	require.NoError(t, ApplyAll(cp, []Command{Choose(0, 1), Commit()}))
	require.NoError(t, ApplyAll(r, []Command{Choose(0, 1), Commit()}))
	assert.Equal(t, r.Actions()[1].Hand(), cp.Actions()[1].Hand())
	assert.Equal(t, HandLeft, cp.Actions()[1].Hand())
}

func assertSlotHands(t *testing.T, want []HandSide, r *Robot) {
	t.Helper()
	got := make([]HandSide, len(r.Actions()))
	for i, a := range r.Actions() {
		got[i] = a.Hand()
	}
	assert.Equal(t, want, got)
}

func TestUnsafeCopyKeepsEverything(t *testing.T) {
	r := newTestRobot(t, SideLeft, nil)
	require.NoError(t, r.DrawHand())
	require.NoError(t, r.ChooseAction(0, 1))
	require.NoError(t, r.Commit())

	cp := r.Copy(false)
	assert.Equal(t, StateInputAccepted, cp.State())
	assert.Equal(t, r.Info(), cp.Info())
	assert.Equal(t, r.CardsInfo(), cp.CardsInfo())
	assert.Equal(t, cardTypes(r.deckCards), cardTypes(cp.deckCards))

	redraw(t, r)
	redraw(t, cp)
	assert.Equal(t, cardTypes(r.HandCards()), cardTypes(cp.HandCards()), "copies share the shuffle sequence")
}
