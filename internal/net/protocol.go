package net

import (
	"encoding/json"

	"github.com/PetrHeinz/punch-cards/internal/game"
	"github.com/PetrHeinz/punch-cards/internal/log"
)

// Message types for the JSON protocol over TCP. Every message is one JSON
// object per line.

// --- Server → Client messages ---

const (
	MsgHello    = "hello"
	MsgEvent    = "event"
	MsgError    = "error"
	MsgGameOver = "game_over"
)

// ServerMessage is the envelope for all server-to-client messages.
type ServerMessage struct {
	Type string `json:"type"`

	// For "hello": the robot this connection drives.
	Side string `json:"side,omitempty"`

	// For "event"
	Event *EventView `json:"event,omitempty"`

	// For "error"
	Error string `json:"error,omitempty"`

	// For "game_over". Winner is empty on a tie.
	Winner string `json:"winner,omitempty"`
	Result string `json:"result,omitempty"`
}

// EventView is a game event as sent over the wire. Payload holds the encoded
// snapshot record, if any.
type EventView struct {
	Seq     int             `json:"seq"`
	Tick    int             `json:"tick"`
	Type    string          `json:"type"`
	Side    string          `json:"side,omitempty"`
	Phase   string          `json:"phase,omitempty"`
	Details string          `json:"details"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// NewEventView converts a logged event for transport.
func NewEventView(e log.GameEvent) (*EventView, error) {
	ev := &EventView{
		Seq:     e.Seq,
		Tick:    e.Tick,
		Type:    e.Type.String(),
		Side:    e.Side,
		Phase:   e.Phase,
		Details: e.Details,
	}
	if e.Payload != nil {
		raw, err := json.Marshal(e.Payload)
		if err != nil {
			return nil, err
		}
		ev.Payload = raw
	}
	return ev, nil
}

// --- Client → Server messages ---

const (
	MsgJoin    = "join"
	MsgCommand = "command"
)

// ClientMessage is the envelope for all client-to-server messages.
type ClientMessage struct {
	Type string `json:"type"`

	// For "join"
	Name string `json:"name,omitempty"`

	// For "command"
	Command *game.Command `json:"command,omitempty"`
}
