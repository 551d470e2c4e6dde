package bot

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/PetrHeinz/punch-cards/internal/game"
)

// CardsDriver is a Driver that also exposes the cards snapshot.
type CardsDriver interface {
	Driver
	CardsInfo(side game.Side) game.CardsInfo
}

// Randobot fills action slots with random hand cards, one command per poll,
// the way a hurried player would.
type Randobot struct {
	side     game.Side
	driver   CardsDriver
	rng      *game.RandomGenerator
	interval time.Duration
	diag     *zap.Logger

	phase       int
	candidates  []int
	actionIndex int
	toggleIndex int
}

const (
	randoCollect = iota
	randoChoose
	randoToggle
	randoCommit
)

func NewRandobot(driver CardsDriver, cfg Config) *Randobot {
	r := &Randobot{
		side:     cfg.Side,
		driver:   driver,
		rng:      game.NewRandomGenerator(cfg.Seed),
		interval: cfg.Interval,
		diag:     cfg.Diag,
	}
	if r.interval <= 0 {
		r.interval = DefaultInterval
	}
	if r.diag == nil {
		r.diag = zap.NewNop()
	}
	return r
}

func (r *Randobot) Run(ctx context.Context) error {
	return poll(ctx, r.interval, r.diag, r.Step)
}

// Step issues at most one command.
func (r *Randobot) Step(context.Context) (done bool, err error) {
	state := r.driver.RobotState(r.side)
	if state.IsTerminal() {
		return true, nil
	}
	if state != game.StateWaitingForInput {
		r.reset()
		return false, nil
	}

	cards := r.driver.CardsInfo(r.side)
	actionsCount := len(cards.Actions)

	finished := false
	switch r.phase {
	case randoCollect:
		r.candidates = r.candidates[:0]
		for i := range cards.HandCards {
			r.candidates = append(r.candidates, i)
		}
		finished = true

	case randoChoose:
		if len(r.candidates) == 0 || r.actionIndex >= actionsCount {
			finished = true
			break
		}
		r.candidates = game.Shuffle(r.rng, r.candidates)
		last := len(r.candidates) - 1
		handCardIndex := r.candidates[last]
		r.candidates = r.candidates[:last]
		err = r.driver.Apply(r.side, game.Choose(handCardIndex, r.actionIndex))
		r.actionIndex++
		finished = len(r.candidates) == 0 || r.actionIndex >= actionsCount

	case randoToggle:
		if r.toggleIndex < actionsCount && r.rng.NextRandom() > .5 {
			err = r.driver.Apply(r.side, game.Toggle(r.toggleIndex))
		}
		r.toggleIndex++
		finished = r.toggleIndex >= actionsCount

	case randoCommit:
		err = r.driver.Apply(r.side, game.Commit())
		r.reset()
		return false, err
	}

	if err != nil {
		r.reset()
		return false, err
	}
	if finished {
		r.phase++
	}
	return false, nil
}

func (r *Randobot) reset() {
	r.phase = randoCollect
	r.actionIndex = 0
	r.toggleIndex = 0
}
