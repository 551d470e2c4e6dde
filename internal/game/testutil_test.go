package game

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/PetrHeinz/punch-cards/internal/log"
)

// testOptions returns default options with unlimited input time, so that
// waiting robots do not overheat between scripted commands.
func testOptions() Options {
	opts := DefaultOptions()
	opts.Seed = "test-seed"
	opts.Left.MaxTimeToInput = 0
	opts.Right.MaxTimeToInput = 0
	return opts
}

// newTestGame builds a game from testOptions, letting modify adjust them first.
func newTestGame(t *testing.T, modify func(*Options)) (*Game, *log.MemoryLogger) {
	t.Helper()
	opts := testOptions()
	if modify != nil {
		modify(&opts)
	}
	logger := log.NewMemoryLogger()
	g, err := NewGame(GameConfig{Options: opts, Logger: logger})
	require.NoError(t, err)
	return g, logger
}

// startRound ticks until both robots wait for input.
func startRound(t *testing.T, g *Game) {
	t.Helper()
	for i := 0; i < 20; i++ {
		if g.Left().State() == StateWaitingForInput && g.Right().State() == StateWaitingForInput {
			return
		}
		g.Tick()
	}
	t.Fatalf("robots never reached %s: left %s, right %s", StateWaitingForInput, g.Left().State(), g.Right().State())
}

// play applies scripted commands to a robot. A trailing commit is added
// when the script does not end with one.
func play(t *testing.T, r *Robot, commands ...Command) {
	t.Helper()
	if len(commands) == 0 || commands[len(commands)-1].Kind != CmdCommit {
		commands = append(commands, Commit())
	}
	require.NoError(t, ApplyAll(r, commands))
}

// tickUntil ticks until cond holds, failing after limit ticks.
func tickUntil(t *testing.T, g *Game, limit int, cond func() bool) {
	t.Helper()
	for i := 0; i < limit; i++ {
		if cond() {
			return
		}
		g.Tick()
	}
	require.True(t, cond(), "condition not reached within %d ticks", limit)
}

// handCardIndex finds the first hand card of the given type.
func handCardIndex(t *testing.T, r *Robot, ct CardType) int {
	t.Helper()
	for i, c := range r.HandCards() {
		if c.Type == ct {
			return i
		}
	}
	t.Fatalf("%s robot has no %q in hand", r.Side(), ct)
	return -1
}

// newTestRobot builds a standalone robot for card effect tests.
func newTestRobot(t *testing.T, side Side, modify func(*RobotOptions)) *Robot {
	t.Helper()
	opts := DefaultRobotOptions()
	opts.MaxTimeToInput = 0
	if modify != nil {
		modify(&opts)
	}
	r, err := NewRobot(side, opts, NewRandomGenerator("robot-"+side.String()))
	require.NoError(t, err)
	return r
}

// resolveOne runs the full effect pipeline for a single card.
func resolveOne(card *Card, hand *Hand, self, other *Robot) {
	res := Resolution{Card: card, Hand: hand, Self: self, Other: other}
	res.SelfPrepare()
	res.OtherPrepare()
	res.SelfDo()
	res.OtherDo()
	res.SelfCleanup()
}

func phaseEvents(logger *log.MemoryLogger, phase ActionPhase) []PhaseInfo {
	var infos []PhaseInfo
	for _, e := range logger.EventsOfType(log.EventActionPhase) {
		if e.Phase == phase.String() {
			infos = append(infos, e.Payload.(PhaseInfo))
		}
	}
	return infos
}
