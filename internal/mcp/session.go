package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	stdnet "net"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/PetrHeinz/punch-cards/internal/bot"
	"github.com/PetrHeinz/punch-cards/internal/game"
	"github.com/PetrHeinz/punch-cards/internal/log"
	"github.com/PetrHeinz/punch-cards/internal/match"
	pcnet "github.com/PetrHeinz/punch-cards/internal/net"
)

// pollInterval is how often blocking tools look at the robot state.
const pollInterval = 10 * time.Millisecond

// ToolResponse is the JSON envelope returned by all MCP tools.
type ToolResponse struct {
	SessionID       string            `json:"session_id"`
	Side            string            `json:"side"`
	Events          []pcnet.EventView `json:"events"`
	You             game.RobotInfo    `json:"you"`
	Cards           game.CardsInfo    `json:"cards"`
	Opponent        game.RobotInfo    `json:"opponent"`
	WaitingForInput bool              `json:"waiting_for_input"`
	GameOver        bool              `json:"game_over"`
	Winner          string            `json:"winner,omitempty"`
	Result          string            `json:"result,omitempty"`
	Port            string            `json:"port,omitempty"`
}

// SessionConfig holds configuration for a new game session.
type SessionConfig struct {
	Options   game.Options
	Side      game.Side // robot driven through the tools
	Opponent  string    // pcnet.OpponentBot or pcnet.OpponentRemote
	Port      string    // listen port for a remote opponent
	BotBudget time.Duration
	Diag      *zap.Logger
}

// GameSession holds the state of a single MCP game session: a running match
// whose one robot is driven by tool calls.
type GameSession struct {
	id     string
	side   game.Side
	port   string
	match  *match.Match
	events *log.MemoryLogger
	cancel context.CancelFunc
	diag   *zap.Logger

	listener  stdnet.Listener
	humanConn stdnet.Conn
}

// NewGameSession creates the match and starts ticking it. A remote opponent
// must connect with `punch-cards join` before this returns.
func NewGameSession(cfg SessionConfig) (*GameSession, error) {
	diag := cfg.Diag
	if diag == nil {
		diag = zap.NewNop()
	}

	sess := &GameSession{
		id:     uuid.NewString(),
		side:   cfg.Side,
		port:   cfg.Port,
		events: log.NewMemoryLogger(),
	}
	sess.diag = diag.With(zap.String("session", sess.id))

	broadcaster := log.NewBroadcaster()
	m, err := match.New(match.Config{
		Options: cfg.Options,
		Logger:  log.MultiLogger{sess.events, broadcaster},
		Diag:    sess.diag,
	})
	if err != nil {
		return nil, err
	}
	sess.match = m

	ctx, cancel := context.WithCancel(context.Background())
	sess.cancel = cancel
	opponent := cfg.Side.Opponent()

	switch cfg.Opponent {
	case pcnet.OpponentBot, "":
		b := bot.New(m, bot.Config{
			Side:   opponent,
			Seed:   cfg.Options.Seed + "-bot",
			Budget: cfg.BotBudget,
			Diag:   sess.diag,
		})
		go func() { _ = b.Run(ctx) }()

	case pcnet.OpponentRemote:
		ln, err := stdnet.Listen("tcp", ":"+cfg.Port)
		if err != nil {
			cancel()
			return nil, fmt.Errorf("listen on port %s: %w", cfg.Port, err)
		}
		// Accept one connection (blocks until the human runs `punch-cards join`)
		conn, err := ln.Accept()
		if err != nil {
			ln.Close()
			cancel()
			return nil, fmt.Errorf("accept: %w", err)
		}
		sess.listener = ln
		sess.humanConn = conn

		events, unsubscribe := broadcaster.Subscribe(256)
		human := pcnet.NewRemoteController(conn, opponent, m, sess.diag)
		go func() {
			defer unsubscribe()
			if err := human.Serve(ctx, events); err != nil {
				sess.diag.Warn("human connection ended", zap.Error(err))
			}
		}()

	default:
		cancel()
		return nil, fmt.Errorf("%w: unknown opponent %q", game.ErrInvalidIdentifier, cfg.Opponent)
	}

	m.ClearUpdateCache()
	go func() { _ = m.Run(ctx) }()
	return sess, nil
}

// Close stops the match and releases the network resources.
func (s *GameSession) Close() {
	s.cancel()
	if s.humanConn != nil {
		s.humanConn.Close()
	}
	if s.listener != nil {
		s.listener.Close()
	}
}

func (s *GameSession) IsOver() bool {
	return s.match.IsOver()
}

// waitForInput blocks until the session's robot needs input, the game ends
// or ctx is done, then builds a response.
func (s *GameSession) waitForInput(ctx context.Context) *ToolResponse {
	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	for {
		if s.match.IsOver() || s.match.RobotState(s.side) == game.StateWaitingForInput {
			return s.response()
		}
		select {
		case <-ctx.Done():
			return s.response()
		case <-ticker.C:
		}
	}
}

// response builds a ToolResponse with the current snapshots and the events
// accumulated since the last response.
func (s *GameSession) response() *ToolResponse {
	resp := &ToolResponse{
		SessionID: s.id,
		Side:      s.side.String(),
		Events:    s.drainEvents(),
		Port:      s.port,
	}
	s.match.View(func(g *game.Game) {
		resp.You = g.Robot(s.side).Info()
		resp.Cards = g.Robot(s.side).CardsInfo()
		resp.Opponent = g.Robot(s.side.Opponent()).Info()
		resp.WaitingForInput = g.Robot(s.side).State() == game.StateWaitingForInput

		if g.IsOver() {
			resp.GameOver = true
			resp.Result = "Tie: both robots were disassembled"
			if winner, ok := g.Winner(); ok {
				resp.Winner = winner.String()
				resp.Result = fmt.Sprintf("%s robot wins", winner)
			}
		}
	})
	return resp
}

// drainEvents returns the narrative events since the last call. Snapshot
// events are left out; the response carries the latest snapshots instead.
func (s *GameSession) drainEvents() []pcnet.EventView {
	views := []pcnet.EventView{}
	for _, e := range s.events.Drain() {
		switch e.Type {
		case log.EventTick, log.EventRobotInfo, log.EventCardsInfo:
			continue
		}
		e.Payload = nil
		ev, err := pcnet.NewEventView(e)
		if err != nil {
			continue
		}
		views = append(views, *ev)
	}
	return views
}

// respondJSON marshals a ToolResponse to a JSON string.
func respondJSON(resp *ToolResponse) string {
	data, err := json.Marshal(resp)
	if err != nil {
		return fmt.Sprintf(`{"error": "marshal error: %v"}`, err)
	}
	return string(data)
}
