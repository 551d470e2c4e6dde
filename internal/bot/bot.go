// Package bot implements computer opponents that drive a robot through the
// same command surface as human players.
package bot

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/PetrHeinz/punch-cards/internal/game"
)

const (
	DefaultInterval = 200 * time.Millisecond
	DefaultBudget   = 2 * time.Second

	// maxSimulationTicks caps a single simulated round.
	maxSimulationTicks = 100

	// maxActionSets caps the candidates enumerated for one robot.
	maxActionSets = 1 << 14
)

// Driver is the bot's view of a match.
type Driver interface {
	RobotState(side game.Side) game.RobotState
	Fork(safe bool) *game.Game
	Apply(side game.Side, commands ...game.Command) error
}

// ActionSet is an ordered list of commands ending with a commit.
type ActionSet []game.Command

func (s ActionSet) String() string {
	parts := make([]string, len(s))
	for i, c := range s {
		parts[i] = c.String()
	}
	return strings.Join(parts, "; ")
}

// Passive only commits, leaving every action slot idle.
var Passive = ActionSet{game.Commit()}

// Config holds configuration for creating a bot.
type Config struct {
	Side     game.Side
	Seed     string        // seed of the tie-breaking generator
	Interval time.Duration // polling cadence, DefaultInterval if zero
	Budget   time.Duration // soft search time limit, DefaultBudget if zero
	Diag     *zap.Logger
}

// Bot searches the action sets of its robot by simulating them on game forks.
type Bot struct {
	side     game.Side
	driver   Driver
	rng      *game.RandomGenerator
	interval time.Duration
	budget   time.Duration
	diag     *zap.Logger

	fork *game.Game
}

func New(driver Driver, cfg Config) *Bot {
	b := &Bot{
		side:     cfg.Side,
		driver:   driver,
		rng:      game.NewRandomGenerator(cfg.Seed),
		interval: cfg.Interval,
		budget:   cfg.Budget,
		diag:     cfg.Diag,
	}
	if b.interval <= 0 {
		b.interval = DefaultInterval
	}
	if b.budget <= 0 {
		b.budget = DefaultBudget
	}
	if b.diag == nil {
		b.diag = zap.NewNop()
	}
	b.diag = b.diag.With(zap.Stringer("side", b.side))
	return b
}

func (b *Bot) Side() game.Side {
	return b.side
}

// Run polls the robot until it is disassembled or wins, or ctx is cancelled.
func (b *Bot) Run(ctx context.Context) error {
	return poll(ctx, b.interval, b.diag, b.Step)
}

// poll calls step on every interval until it reports done.
func poll(ctx context.Context, interval time.Duration, diag *zap.Logger, step func(context.Context) (bool, error)) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			done, err := step(ctx)
			if err != nil {
				diag.Warn("bot command rejected", zap.Error(err))
			}
			if done {
				return nil
			}
		}
	}
}

// Step performs one polling round. The first poll that finds the robot
// waiting for input takes a safe fork; the next one searches it and applies
// the best action set. done reports that the robot reached a terminal state.
func (b *Bot) Step(ctx context.Context) (done bool, err error) {
	state := b.driver.RobotState(b.side)
	switch {
	case state.IsTerminal():
		return true, nil
	case state != game.StateWaitingForInput:
		b.fork = nil
		return false, nil
	case b.fork == nil:
		b.fork = b.driver.Fork(true)
		return false, nil
	}

	best := b.ChooseBestActions(ctx, b.fork)
	b.fork = nil
	if err := b.driver.Apply(b.side, best...); err != nil {
		return false, fmt.Errorf("apply %s: %w", best, err)
	}
	return false, nil
}

type scoredSet struct {
	set   ActionSet
	score float64
}

func sortByScore(sets []scoredSet) {
	sort.SliceStable(sets, func(i, j int) bool { return sets[i].score > sets[j].score })
}

// ChooseBestActions picks an action set for the bot's robot in base, which
// must have both robots waiting for input. Every candidate is scored against
// a passive opponent, against the opponent's best reply to our passivity,
// and against the opponent's best reply to our best move versus passivity.
//
// When the budget runs out the most complete ranking so far is used, so a
// move is always returned.
func (b *Bot) ChooseBestActions(ctx context.Context, base *game.Game) ActionSet {
	start := time.Now()
	ctx, cancel := context.WithTimeout(ctx, b.budget)
	defer cancel()

	own := b.ActionSets(ctx, base.Robot(b.side))
	other := b.ActionSets(ctx, base.Robot(b.side.Opponent()))

	scored := make([]scoredSet, 0, len(own))
	for _, set := range own {
		if len(scored) > 0 && ctx.Err() != nil {
			break
		}
		scored = append(scored, scoredSet{set, b.scoreGame(b.simulate(base, set, Passive))})
	}
	sortByScore(scored)
	best := scored[0].set
	stage := "passive"

	replyToPassive, err := b.bestReply(ctx, base, Passive, other)
	if err == nil {
		var replyToBest ActionSet
		replyToBest, err = b.bestReply(ctx, base, best, other)
		if err == nil {
			var rescored []scoredSet
			rescored, err = b.rescore(ctx, base, scored, replyToPassive, replyToBest)
			if err == nil {
				best = rescored[0].set
				stage = "full"
			}
		}
	}

	b.diag.Info("chose actions",
		zap.Int("own_sets", len(own)),
		zap.Int("other_sets", len(other)),
		zap.Int("scored", len(scored)),
		zap.String("stage", stage),
		zap.Stringer("actions", best),
		zap.Duration("elapsed", time.Since(start)),
	)
	return best
}

var errBudget = errors.New("search budget exhausted")

// bestReply finds the opponent set that minimizes our score when we play ours.
func (b *Bot) bestReply(ctx context.Context, base *game.Game, ours ActionSet, candidates []ActionSet) (ActionSet, error) {
	replies := make([]scoredSet, 0, len(candidates))
	for _, set := range candidates {
		if ctx.Err() != nil {
			return nil, errBudget
		}
		replies = append(replies, scoredSet{set, -b.scoreGame(b.simulate(base, ours, set))})
	}
	sortByScore(replies)
	return replies[0].set, nil
}

func (b *Bot) rescore(ctx context.Context, base *game.Game, scored []scoredSet, replies ...ActionSet) ([]scoredSet, error) {
	rescored := make([]scoredSet, len(scored))
	for i, s := range scored {
		total := s.score
		for _, reply := range replies {
			if ctx.Err() != nil {
				return nil, errBudget
			}
			total += b.scoreGame(b.simulate(base, s.set, reply))
		}
		rescored[i] = scoredSet{s.set, total}
	}
	sortByScore(rescored)
	return rescored, nil
}

// simulate plays one round on a fork of base with the given sets for both
// robots and returns the fork once it needs input again or is over.
func (b *Bot) simulate(base *game.Game, own, other ActionSet) *game.Game {
	sim := base.Fork(false)
	if err := game.ApplyAll(sim.Robot(b.side), own); err != nil {
		b.diag.Warn("illegal own action set in simulation", zap.Stringer("actions", own), zap.Error(err))
	}
	if err := game.ApplyAll(sim.Robot(b.side.Opponent()), other); err != nil {
		b.diag.Warn("illegal opponent action set in simulation", zap.Stringer("actions", other), zap.Error(err))
	}

	for ticks := 0; sim.IsEvaluating(); ticks++ {
		if ticks > maxSimulationTicks {
			b.diag.Warn("simulation is taking too long",
				zap.Int("ticks", ticks),
				zap.Stringer("own", own),
				zap.Stringer("other", other),
			)
			return sim
		}
		sim.Tick()
	}
	return sim
}

func (b *Bot) scoreGame(g *game.Game) float64 {
	return ScoreRobot(g.Robot(b.side)) - ScoreRobot(g.Robot(b.side.Opponent()))
}

// ScoreRobot rates a robot's position. A destroyed robot scores zero.
// Otherwise the score is total health plus the weakest part's health, with
// bonuses for keeping the weakest part above one and three punches, and for
// blocking lanes whose bodypart is low on health.
func ScoreRobot(r *game.Robot) float64 {
	if r.IsDestroyed() {
		return 0
	}

	head, torso, heatsink := r.Head().Health(), r.Torso().Health(), r.Heatsink().Health()
	score := float64(head + torso + heatsink)

	minHealth := min(head, torso, heatsink)
	score += float64(minHealth)
	if minHealth > 30 {
		score += 50
	}
	if minHealth > 10 {
		score += 50
	}

	for lane := game.HandPositionMin; lane <= game.HandPositionMax; lane++ {
		if len(r.HandsBlockingAt(lane)) > 0 {
			score += float64(max(0, 40-r.BodypartAt(lane).Health())) / 2
		}
	}
	return score
}

// ActionSets enumerates the action sets for the robot: the i-th chosen hand
// card goes to action slot i, optionally with the slot's hand toggled, and a
// commit may follow at any point. The order is shuffled with the bot's generator.
//
// Enumeration stops early at maxActionSets or when ctx is done, but always
// yields at least the passive set.
func (b *Bot) ActionSets(ctx context.Context, r *game.Robot) []ActionSet {
	sets, complete := enumerateActionSets(ctx, len(r.Actions()), len(r.HandCards()), maxActionSets)
	if !complete {
		b.diag.Warn("action sets truncated",
			zap.Stringer("robot", r.Side()),
			zap.Int("sets", len(sets)),
			zap.Bool("budget_exhausted", ctx.Err() != nil),
		)
	}
	return game.Shuffle(b.rng, sets)
}

func enumerateActionSets(ctx context.Context, actionsCount, handCardsCount, limit int) ([]ActionSet, bool) {
	e := &actionSetEnumerator{ctx: ctx, actionsCount: actionsCount, handCardsCount: handCardsCount, limit: limit}
	complete := e.walk(nil, 0, nil)
	return e.sets, complete
}

type actionSetEnumerator struct {
	ctx            context.Context
	actionsCount   int
	handCardsCount int
	limit          int
	sets           []ActionSet
}

// walk emits prefix followed by a commit, then every extension binding an
// unused hand card to the next slot. It returns false once enumeration stops.
func (e *actionSetEnumerator) walk(prefix ActionSet, actionIndex int, used []int) bool {
	if len(e.sets) > 0 && (len(e.sets) >= e.limit || e.ctx.Err() != nil) {
		return false
	}
	e.sets = append(e.sets, extend(prefix, game.Commit()))
	if actionIndex >= e.actionsCount {
		return true
	}

	for handCardIndex := 0; handCardIndex < e.handCardsCount; handCardIndex++ {
		if slices.Contains(used, handCardIndex) {
			continue
		}
		nextUsed := append(used[:len(used):len(used)], handCardIndex)
		choose := game.Choose(handCardIndex, actionIndex)
		if !e.walk(extend(prefix, choose), actionIndex+1, nextUsed) {
			return false
		}
		if !e.walk(extend(prefix, choose, game.Toggle(actionIndex)), actionIndex+1, nextUsed) {
			return false
		}
	}
	return true
}

func extend(prefix ActionSet, commands ...game.Command) ActionSet {
	return append(prefix[:len(prefix):len(prefix)], commands...)
}
