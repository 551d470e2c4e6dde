package game

import "fmt"

// CommandKind identifies one of the robot's input commands.
type CommandKind int

const (
	CmdChoose CommandKind = iota
	CmdSwap
	CmdToggle
	CmdDiscard
	CmdCommit
)

func (k CommandKind) String() string {
	switch k {
	case CmdChoose:
		return "choose"
	case CmdSwap:
		return "swap"
	case CmdToggle:
		return "toggle"
	case CmdDiscard:
		return "discard"
	case CmdCommit:
		return "commit"
	default:
		return "unknown"
	}
}

func ParseCommandKind(s string) (CommandKind, error) {
	switch s {
	case "choose":
		return CmdChoose, nil
	case "swap":
		return CmdSwap, nil
	case "toggle":
		return CmdToggle, nil
	case "discard":
		return CmdDiscard, nil
	case "commit":
		return CmdCommit, nil
	}
	return 0, fmt.Errorf("%w: unknown command %q", ErrInvalidIdentifier, s)
}

func (k CommandKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

func (k *CommandKind) UnmarshalText(text []byte) error {
	parsed, err := ParseCommandKind(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// Command is a serializable robot input. Remote peers, the bot and the MCP
// tools all go through it so they share one command surface.
type Command struct {
	Kind              CommandKind `json:"kind"`
	HandCardIndex     int         `json:"handCardIndex,omitempty"`
	ActionIndex       int         `json:"actionIndex,omitempty"`
	SecondActionIndex int         `json:"secondActionIndex,omitempty"`
}

func Choose(handCardIndex, actionIndex int) Command {
	return Command{Kind: CmdChoose, HandCardIndex: handCardIndex, ActionIndex: actionIndex}
}

func Swap(first, second int) Command {
	return Command{Kind: CmdSwap, ActionIndex: first, SecondActionIndex: second}
}

func Toggle(actionIndex int) Command {
	return Command{Kind: CmdToggle, ActionIndex: actionIndex}
}

func Discard(actionIndex int) Command {
	return Command{Kind: CmdDiscard, ActionIndex: actionIndex}
}

func Commit() Command {
	return Command{Kind: CmdCommit}
}

// Apply executes the command against the robot.
func (c Command) Apply(r *Robot) error {
	switch c.Kind {
	case CmdChoose:
		return r.ChooseAction(c.HandCardIndex, c.ActionIndex)
	case CmdSwap:
		return r.SwapActions(c.ActionIndex, c.SecondActionIndex)
	case CmdToggle:
		return r.ToggleActionHand(c.ActionIndex)
	case CmdDiscard:
		return r.DiscardAction(c.ActionIndex)
	case CmdCommit:
		return r.Commit()
	}
	return fmt.Errorf("%w: unknown command kind %d", ErrInvalidIdentifier, int(c.Kind))
}

// ApplyAll executes commands in order and stops at the first failure.
func ApplyAll(r *Robot, commands []Command) error {
	for i, c := range commands {
		if err := c.Apply(r); err != nil {
			return fmt.Errorf("command %d (%s): %w", i, c, err)
		}
	}
	return nil
}

func (c Command) String() string {
	switch c.Kind {
	case CmdChoose:
		return fmt.Sprintf("choose %d %d", c.HandCardIndex, c.ActionIndex)
	case CmdSwap:
		return fmt.Sprintf("swap %d %d", c.ActionIndex, c.SecondActionIndex)
	case CmdToggle, CmdDiscard:
		return fmt.Sprintf("%s %d", c.Kind, c.ActionIndex)
	default:
		return c.Kind.String()
	}
}
