package game

import (
	"fmt"
	"slices"
	"strings"

	"go.uber.org/zap"

	"github.com/PetrHeinz/punch-cards/internal/log"
)

// GameConfig holds configuration for creating a new game.
type GameConfig struct {
	Options Options
	Logger  log.EventLogger // snapshot and event stream
	Diag    *zap.Logger     // diagnostics, nil disables them
}

// Game owns both robots and drives rounds tick by tick. It is not safe for
// concurrent use; see match.Match for a guarded owner.
type Game struct {
	left  *Robot
	right *Robot

	currentAction int
	tickCounter   int

	logger log.EventLogger
	diag   *zap.Logger

	// last published snapshots, indexed by Side
	lastRobotInfo [2]*RobotInfo
	lastCardsInfo [2]*CardsInfo
}

// NewGame creates both robots from the options and publishes the initial snapshots.
// Each robot shuffles with its own generator seeded "<seed>-left" / "<seed>-right".
func NewGame(cfg GameConfig) (*Game, error) {
	if err := cfg.Options.Validate(); err != nil {
		return nil, err
	}

	g := &Game{
		logger: cfg.Logger,
		diag:   cfg.Diag,
	}
	if g.logger == nil {
		g.logger = log.NewMemoryLogger()
	}
	if g.diag == nil {
		g.diag = zap.NewNop()
	}

	var err error
	g.left, err = NewRobot(SideLeft, cfg.Options.Left, NewRandomGenerator(cfg.Options.Seed+"-left"))
	if err != nil {
		return nil, fmt.Errorf("left robot: %w", err)
	}
	g.right, err = NewRobot(SideRight, cfg.Options.Right, NewRandomGenerator(cfg.Options.Seed+"-right"))
	if err != nil {
		return nil, fmt.Errorf("right robot: %w", err)
	}
	g.left.onUpdate = func() { g.publishRobot(g.left) }
	g.right.onUpdate = func() { g.publishRobot(g.right) }

	g.publishTick()
	g.publishRobot(g.left)
	g.publishRobot(g.right)
	return g, nil
}

// --- Accessors ---

func (g *Game) Left() *Robot {
	return g.left
}

func (g *Game) Right() *Robot {
	return g.right
}

func (g *Game) Robot(side Side) *Robot {
	if side == SideLeft {
		return g.left
	}
	return g.right
}

// CurrentAction is the index of the action slot resolved next.
func (g *Game) CurrentAction() int {
	return g.currentAction
}

func (g *Game) TickCounter() int {
	return g.tickCounter
}

// IsOver reports whether a robot won or both were disassembled.
func (g *Game) IsOver() bool {
	if g.left.state == StateDisassembled && g.right.state == StateDisassembled {
		return true
	}
	return g.left.state == StateWinner || g.right.state == StateWinner
}

// Winner returns the winning side. ok is false while the game runs and after a tie.
func (g *Game) Winner() (side Side, ok bool) {
	switch {
	case g.left.state == StateWinner:
		return SideLeft, true
	case g.right.state == StateWinner:
		return SideRight, true
	}
	return SideLeft, false
}

func (g *Game) IsWaitingForInput() bool {
	return g.left.state == StateWaitingForInput || g.right.state == StateWaitingForInput
}

// IsEvaluating reports whether ticking can make progress without any input.
func (g *Game) IsEvaluating() bool {
	return !g.IsOver() && !g.IsWaitingForInput()
}

// --- Tick ---

// Tick advances the game by one step. Rounds move through barriers: both
// robots draw together, the action phase starts once both committed, and
// slot k of both robots resolves in the same tick.
func (g *Game) Tick() {
	g.publishTick()
	g.publishRobot(g.left)
	g.publishRobot(g.right)

	if g.IsOver() {
		g.diag.Debug("game is already over")
		return
	}

	g.tickRobot(g.left)
	g.tickRobot(g.right)

	if g.resolveOutcome() {
		return
	}

	if g.IsWaitingForInput() {
		g.diag.Debug("either robot is still waiting for input")
		return
	}

	if g.left.state == StatePreparing && g.right.state == StatePreparing {
		g.diag.Info("preparing for new round", zap.Int("tick", g.tick()))
		g.logger.Log(log.NewRoundEvent(g.tick()))
		g.currentAction = 0
		g.drawHands()
		return
	}

	if g.left.state == StateInputAccepted && g.right.state == StateInputAccepted {
		g.diag.Info("starting action", zap.Int("tick", g.tick()))
		g.logger.Log(log.NewActionStartEvent(g.tick()))
		g.left.setState(StateAction)
		g.right.setState(StateAction)
	}

	var queue []Resolution
	for _, pair := range [][2]*Robot{{g.left, g.right}, {g.right, g.left}} {
		self, other := pair[0], pair[1]
		if self.state != StateAction {
			continue
		}
		if g.currentAction < len(self.actions) {
			queue = append(queue, self.actions[g.currentAction].resolution(self, other))
			continue
		}
		if self.IsDestroyed() {
			self.setState(StateDisassembled)
		} else {
			self.setState(StatePreparing)
		}
	}

	if g.resolveOutcome() {
		return
	}

	if g.left.state == StateAction || g.right.state == StateAction {
		g.resolve(queue)
	}
}

func (g *Game) tickRobot(r *Robot) {
	before := r.torso.Health()
	if dealt := r.Tick(); dealt > 0 {
		g.logger.Log(log.NewOvertimeEvent(g.tick(), r.side.String(), before, r.torso.Health()))
	}
}

// resolve runs the effect pipeline for one action slot. Each hook kind runs
// for every queued card before the next kind starts.
func (g *Game) resolve(queue []Resolution) {
	for _, res := range queue {
		res.SelfPrepare()
	}
	for _, res := range queue {
		res.OtherPrepare()
	}
	g.publishPhase(PhasePrepare)

	for _, res := range queue {
		res.SelfDo()
	}
	for _, res := range queue {
		res.OtherDo()
	}
	g.publishPhase(PhaseDo)

	for _, res := range queue {
		res.SelfCleanup()
	}
	g.publishPhase(PhaseCleanup)

	g.currentAction++
}

// resolveOutcome declares the winner once a robot is disassembled and
// reports whether the game is over.
func (g *Game) resolveOutcome() bool {
	leftDown := g.left.state == StateDisassembled
	rightDown := g.right.state == StateDisassembled

	switch {
	case leftDown && rightDown:
		g.diag.Info("both robots disassembled", zap.Int("tick", g.tick()))
		g.logger.Log(log.NewTieEvent(g.tick()))
	case rightDown:
		g.declareWinner(g.left)
	case leftDown:
		g.declareWinner(g.right)
	default:
		return false
	}
	return true
}

func (g *Game) drawHands() {
	for _, r := range []*Robot{g.left, g.right} {
		if err := r.DrawHand(); err != nil {
			g.diag.Error("draw hand", zap.Stringer("side", r.side), zap.Error(err))
		}
	}
}

func (g *Game) declareWinner(r *Robot) {
	g.diag.Info("robot won", zap.Stringer("side", r.side), zap.Int("tick", g.tick()))
	r.setState(StateWinner)
	g.logger.Log(log.NewWinEvent(g.tick(), r.side.String()))
}

// --- Fork ---

// Fork returns an independent deep copy for what-if simulation. The fork
// publishes nothing. With safe set, hidden information is redacted as
// described on Robot.Copy.
func (g *Game) Fork(safe bool) *Game {
	return &Game{
		left:          g.left.Copy(safe),
		right:         g.right.Copy(safe),
		currentAction: g.currentAction,
		tickCounter:   g.tickCounter,
		logger:        log.Discard,
		diag:          zap.NewNop(),
	}
}

// --- Snapshots ---

// ClearUpdateCache makes the next publication repeat every snapshot, e.g.
// for a newly connected observer.
func (g *Game) ClearUpdateCache() {
	g.lastRobotInfo = [2]*RobotInfo{}
	g.lastCardsInfo = [2]*CardsInfo{}
}

// tick is the counter value of the tick currently being processed.
func (g *Game) tick() int {
	return max(0, g.tickCounter-1)
}

func (g *Game) silent() bool {
	return g.logger == log.Discard
}

func (g *Game) publishTick() {
	info := TickInfo{CurrentAction: -1, TickCounter: g.tickCounter}
	bothCommitted := g.left.state == StateInputAccepted && g.right.state == StateInputAccepted
	anyInAction := g.left.state == StateAction || g.right.state == StateAction
	if bothCommitted || anyInAction {
		info.CurrentAction = g.currentAction
	}
	g.tickCounter++

	if g.silent() {
		return
	}
	g.logger.Log(log.NewTickEvent(info.TickCounter, info))
}

// publishRobot emits the robot's cards and robot snapshots if they changed
// since they were last published.
func (g *Game) publishRobot(r *Robot) {
	if g.silent() {
		return
	}

	cards := r.CardsInfo()
	if last := g.lastCardsInfo[r.side]; last == nil || !cardsInfoEqual(*last, cards) {
		g.lastCardsInfo[r.side] = &cards
		g.logger.Log(log.NewCardsInfoEvent(g.tick(), r.side.String(), describeCards(cards), cards))
	}

	info := r.Info()
	if last := g.lastRobotInfo[r.side]; last == nil || *last != info {
		g.lastRobotInfo[r.side] = &info
		g.logger.Log(log.NewRobotInfoEvent(g.tick(), r.side.String(), describeRobot(info), info))
	}
}

func (g *Game) publishPhase(phase ActionPhase) {
	if g.silent() {
		return
	}
	info := PhaseInfo{
		Phase:  phase.String(),
		Action: g.currentAction,
		Left:   g.left.Info(),
		Right:  g.right.Info(),
	}
	g.logger.Log(log.NewActionPhaseEvent(g.tick(), phase.String(), g.currentAction, info))
}

func cardsInfoEqual(a, b CardsInfo) bool {
	return a.DeckCardsCount == b.DeckCardsCount &&
		a.DiscardedCardsCount == b.DiscardedCardsCount &&
		slices.Equal(a.Actions, b.Actions) &&
		slices.Equal(a.HandCards, b.HandCards)
}

func describeRobot(info RobotInfo) string {
	return fmt.Sprintf("%s head %d/%d torso %d/%d heatsink %d/%d | R%d%s L%d%s",
		info.State,
		info.Head.Health, info.Head.MaxHealth,
		info.Torso.Health, info.Torso.MaxHealth,
		info.Heatsink.Health, info.Heatsink.MaxHealth,
		info.RightHand.Position, handFlags(info.RightHand),
		info.LeftHand.Position, handFlags(info.LeftHand))
}

func handFlags(h HandInfo) string {
	var flags string
	if h.IsBlocking {
		flags += "b"
	}
	if h.IsAttacking {
		flags += "a"
	}
	if h.IsBlocked {
		flags += "x"
	}
	if h.IsCharged {
		flags += "c"
	}
	if flags == "" {
		return ""
	}
	return "(" + flags + ")"
}

func describeCards(info CardsInfo) string {
	hand := make([]string, len(info.HandCards))
	for i, c := range info.HandCards {
		hand[i] = c.Icon + " " + c.Name
	}
	actions := make([]string, len(info.Actions))
	for i, a := range info.Actions {
		actions[i] = fmt.Sprintf("%s(%s)", a.Card.Name, strings.ToLower(a.Hand[:1]))
	}
	return fmt.Sprintf("hand [%s] actions [%s] deck %d discard %d",
		strings.Join(hand, ", "), strings.Join(actions, ", "), info.DeckCardsCount, info.DiscardedCardsCount)
}
