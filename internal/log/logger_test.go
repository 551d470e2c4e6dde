package log

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryLoggerSequencesAndDrains(t *testing.T) {
	l := NewMemoryLogger()
	assert.Equal(t, GameEvent{}, l.LastEvent())

	l.Log(NewRoundEvent(1))
	l.Log(NewActionStartEvent(2))
	l.Log(NewRoundEvent(5))

	events := l.Events()
	require.Len(t, events, 3)
	assert.Equal(t, []int{1, 2, 3}, []int{events[0].Seq, events[1].Seq, events[2].Seq})
	assert.Len(t, l.EventsOfType(EventNewRound), 2)
	assert.Equal(t, 5, l.LastEvent().Tick)

	assert.Len(t, l.Drain(), 3)
	assert.Empty(t, l.Events())

	l.Log(NewTieEvent(6))
	assert.Equal(t, 4, l.LastEvent().Seq, "sequence survives a drain")
}

func TestTextLoggerHidesSnapshotsByDefault(t *testing.T) {
	var buf bytes.Buffer
	l := NewTextLogger(&buf)
	l.Log(NewTickEvent(3, nil))
	l.Log(NewRobotInfoEvent(3, "LEFT", "robot", nil))
	l.Log(NewOvertimeEvent(3, "LEFT", 80, 79))
	assert.Equal(t, "T3   LEFT | LEFT torso overheats waiting for input: 80 → 79\n", buf.String())

	buf.Reset()
	l.Snapshots = true
	l.Log(NewRobotInfoEvent(4, "RIGHT", "robot", nil))
	assert.Equal(t, "T4   RIGHT| robot\n", buf.String())
}

func TestMultiLoggerForwardsInOrder(t *testing.T) {
	a, b := NewMemoryLogger(), NewMemoryLogger()
	MultiLogger{a, b, Discard}.Log(NewWinEvent(9, "LEFT"))
	assert.Equal(t, EventWin, a.LastEvent().Type)
	assert.Equal(t, EventWin, b.LastEvent().Type)
}

func TestBroadcasterFansOutAndDropsWhenFull(t *testing.T) {
	br := NewBroadcaster()
	fast, cancelFast := br.Subscribe(4)
	slow, cancelSlow := br.Subscribe(1)

	br.Log(NewRoundEvent(1))
	br.Log(NewActionStartEvent(2))

	assert.Equal(t, EventNewRound, (<-fast).Type)
	assert.Equal(t, EventActionStart, (<-fast).Type)
	assert.Equal(t, EventNewRound, (<-slow).Type)
	assert.Empty(t, slow, "the second event was dropped for the slow subscriber")

	cancelSlow()
	cancelSlow()
	_, open := <-slow
	assert.False(t, open)

	br.Log(NewRoundEvent(3))
	assert.Equal(t, 3, (<-fast).Tick)
	cancelFast()
}
