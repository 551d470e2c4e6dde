package net

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"sync"

	"go.uber.org/zap"

	"github.com/PetrHeinz/punch-cards/internal/game"
	"github.com/PetrHeinz/punch-cards/internal/log"
	"github.com/PetrHeinz/punch-cards/internal/match"
)

// RemoteController lets a peer on the other end of a connection drive one
// robot of a match. Commands arrive as ClientMessages; game events go out as
// ServerMessages.
type RemoteController struct {
	conn  net.Conn
	enc   *json.Encoder
	dec   *json.Decoder
	side  game.Side
	match *match.Match
	diag  *zap.Logger
	mu    sync.Mutex
}

// NewRemoteController creates a new controller for the given connection.
func NewRemoteController(conn net.Conn, side game.Side, m *match.Match, diag *zap.Logger) *RemoteController {
	if diag == nil {
		diag = zap.NewNop()
	}
	return &RemoteController{
		conn:  conn,
		enc:   json.NewEncoder(conn),
		dec:   json.NewDecoder(conn),
		side:  side,
		match: m,
		diag:  diag.With(zap.Stringer("side", side), zap.String("peer", conn.RemoteAddr().String())),
	}
}

// Serve forwards events to the peer and applies the peer's commands until the
// match is over, the peer disconnects or ctx is cancelled. A peer that
// disconnects cleanly is not an error.
func (rc *RemoteController) Serve(ctx context.Context, events <-chan log.GameEvent) error {
	if err := rc.send(ServerMessage{Type: MsgHello, Side: rc.side.String()}); err != nil {
		return fmt.Errorf("send hello: %w", err)
	}

	readErr := make(chan error, 1)
	go func() { readErr <- rc.readLoop() }()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case err := <-readErr:
			if errors.Is(err, io.EOF) {
				rc.diag.Info("peer disconnected")
				return nil
			}
			return fmt.Errorf("read: %w", err)

		case e, ok := <-events:
			if !ok {
				events = nil
				continue
			}
			if err := rc.Notify(e); err != nil {
				return fmt.Errorf("send event: %w", err)
			}

		case <-rc.match.Done():
			// the final events were broadcast before Done closed
			for drained := false; !drained; {
				select {
				case e, ok := <-events:
					if !ok {
						drained = true
						break
					}
					if err := rc.Notify(e); err != nil {
						return fmt.Errorf("send event: %w", err)
					}
				default:
					drained = true
				}
			}
			return rc.SendGameOver()
		}
	}
}

func (rc *RemoteController) readLoop() error {
	for {
		var raw json.RawMessage
		if err := rc.dec.Decode(&raw); err != nil {
			return err
		}
		if err := rc.handle(raw); err != nil {
			rc.diag.Debug("rejected peer message", zap.Error(err))
			if err := rc.send(ServerMessage{Type: MsgError, Error: err.Error()}); err != nil {
				return err
			}
		}
	}
}

// handle processes one client message. Returned errors are reported to the
// peer and the connection stays open.
func (rc *RemoteController) handle(raw json.RawMessage) error {
	var msg ClientMessage
	if err := json.Unmarshal(raw, &msg); err != nil {
		return fmt.Errorf("decode message: %w", err)
	}

	switch msg.Type {
	case MsgJoin:
		rc.diag.Info("peer joined", zap.String("name", msg.Name))
		return nil
	case MsgCommand:
		if msg.Command == nil {
			return fmt.Errorf("%w: command message without command", game.ErrInvalidIdentifier)
		}
		return rc.match.Apply(rc.side, *msg.Command)
	}
	return fmt.Errorf("%w: unknown message type %q", game.ErrInvalidIdentifier, msg.Type)
}

// send writes a server message to the peer.
func (rc *RemoteController) send(msg ServerMessage) error {
	rc.mu.Lock()
	defer rc.mu.Unlock()
	return rc.enc.Encode(msg)
}

// Notify sends a single game event to the peer.
func (rc *RemoteController) Notify(e log.GameEvent) error {
	ev, err := NewEventView(e)
	if err != nil {
		return err
	}
	return rc.send(ServerMessage{Type: MsgEvent, Event: ev})
}

// SendGameOver sends a game_over message to the peer.
func (rc *RemoteController) SendGameOver() error {
	winner, ok := rc.match.Winner()
	msg := ServerMessage{Type: MsgGameOver, Result: "Tie: both robots were disassembled"}
	if ok {
		msg.Winner = winner.String()
		msg.Result = fmt.Sprintf("%s robot wins", winner)
	}
	rc.diag.Info("game over", zap.String("result", msg.Result))
	return rc.send(msg)
}
