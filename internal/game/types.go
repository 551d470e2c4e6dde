package game

import (
	"errors"
	"fmt"
)

// --- Enums ---

type Side int

const (
	SideLeft Side = iota
	SideRight
)

func (s Side) String() string {
	if s == SideLeft {
		return "LEFT"
	}
	return "RIGHT"
}

// Opponent returns the other side.
func (s Side) Opponent() Side {
	return 1 - s
}

// ParseSide parses "LEFT"/"RIGHT" (case-insensitive first letter is enough).
func ParseSide(s string) (Side, error) {
	switch s {
	case "LEFT", "left", "l", "L":
		return SideLeft, nil
	case "RIGHT", "right", "r", "R":
		return SideRight, nil
	}
	return SideLeft, fmt.Errorf("%w: unknown side %q", ErrInvalidIdentifier, s)
}

type HandSide int

const (
	HandRight HandSide = iota
	HandLeft
)

func (h HandSide) String() string {
	if h == HandRight {
		return "RIGHT"
	}
	return "LEFT"
}

// Toggle returns the other hand.
func (h HandSide) Toggle() HandSide {
	return 1 - h
}

// ParseHandSide parses a hand identifier as used in snapshots and commands.
func ParseHandSide(s string) (HandSide, error) {
	switch s {
	case "RIGHT", "right":
		return HandRight, nil
	case "LEFT", "left":
		return HandLeft, nil
	}
	return HandRight, fmt.Errorf("%w: unknown hand %q", ErrInvalidIdentifier, s)
}

type RobotState int

const (
	StatePreparing RobotState = iota
	StateWaitingForInput
	StateInputAccepted
	StateAction
	StateDisassembled
	StateWinner
)

func (s RobotState) String() string {
	switch s {
	case StatePreparing:
		return "PREPARING"
	case StateWaitingForInput:
		return "WAITING_FOR_INPUT"
	case StateInputAccepted:
		return "INPUT_ACCEPTED"
	case StateAction:
		return "ACTION"
	case StateDisassembled:
		return "DISASSEMBLED"
	case StateWinner:
		return "WINNER"
	default:
		return "UNKNOWN"
	}
}

// IsTerminal reports whether the robot can no longer take part in the match.
func (s RobotState) IsTerminal() bool {
	return s == StateDisassembled || s == StateWinner
}

// ActionPhase names the resolution steps published as intermediate snapshots.
type ActionPhase int

const (
	PhasePrepare ActionPhase = iota
	PhaseDo
	PhaseCleanup
)

func (p ActionPhase) String() string {
	switch p {
	case PhasePrepare:
		return "prepare"
	case PhaseDo:
		return "do"
	case PhaseCleanup:
		return "cleanup"
	default:
		return ""
	}
}

// Lane layout of a robot.
const (
	HandPositionMin = 1
	HandPositionMax = 7
)

// --- Errors ---

var (
	// ErrIllegalState is returned when a command is invoked in a robot state that does not permit it.
	ErrIllegalState = errors.New("illegal robot state")
	// ErrInvalidIndex is returned for an action or hand card index outside the valid range.
	ErrInvalidIndex = errors.New("invalid index")
	// ErrInvalidIdentifier is returned for unknown hands, sides, card types or commands.
	ErrInvalidIdentifier = errors.New("invalid identifier")
)
