// Package match owns an authoritative game and makes it safe to drive from
// several goroutines: the tick loop, remote peers, bots and tool servers.
package match

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/PetrHeinz/punch-cards/internal/game"
	"github.com/PetrHeinz/punch-cards/internal/log"
)

// Config holds configuration for creating a new match.
type Config struct {
	Options game.Options
	Logger  log.EventLogger
	Diag    *zap.Logger
}

// Match guards a game with a mutex and ticks it on a fixed interval.
type Match struct {
	mu       sync.Mutex
	game     *game.Game
	interval time.Duration
	diag     *zap.Logger

	done     chan struct{}
	doneOnce sync.Once
}

func New(cfg Config) (*Match, error) {
	diag := cfg.Diag
	if diag == nil {
		diag = zap.NewNop()
	}
	g, err := game.NewGame(game.GameConfig{
		Options: cfg.Options,
		Logger:  cfg.Logger,
		Diag:    diag,
	})
	if err != nil {
		return nil, fmt.Errorf("create game: %w", err)
	}
	return &Match{
		game:     g,
		interval: cfg.Options.TickInterval(),
		diag:     diag,
		done:     make(chan struct{}),
	}, nil
}

// Run ticks the game until it is over or ctx is cancelled.
func (m *Match) Run(ctx context.Context) error {
	m.diag.Info("match started", zap.Duration("interval", m.interval))
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-m.done:
			m.diag.Info("match over")
			return nil
		case <-ticker.C:
			m.Tick()
		}
	}
}

// Tick advances the game by one step.
func (m *Match) Tick() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.game.Tick()
	if m.game.IsOver() {
		m.doneOnce.Do(func() { close(m.done) })
	}
}

// Done is closed once the game is over.
func (m *Match) Done() <-chan struct{} {
	return m.done
}

// Apply executes commands against one robot in order, stopping at the first error.
func (m *Match) Apply(side game.Side, commands ...game.Command) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return game.ApplyAll(m.game.Robot(side), commands)
}

// Fork returns a private copy of the current game.
func (m *Match) Fork(safe bool) *game.Game {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.game.Fork(safe)
}

func (m *Match) RobotState(side game.Side) game.RobotState {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.game.Robot(side).State()
}

func (m *Match) CardsInfo(side game.Side) game.CardsInfo {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.game.Robot(side).CardsInfo()
}

func (m *Match) IsOver() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.game.IsOver()
}

func (m *Match) Winner() (game.Side, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.game.Winner()
}

// ClearUpdateCache makes the next tick republish every snapshot.
func (m *Match) ClearUpdateCache() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.game.ClearUpdateCache()
}

// View runs fn with exclusive access to the game. fn must not retain g.
func (m *Match) View(fn func(g *game.Game)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	fn(m.game)
}
