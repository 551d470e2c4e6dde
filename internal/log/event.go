package log

// EventType enumerates all observable game events.
type EventType int

const (
	EventTick EventType = iota
	EventRobotInfo
	EventCardsInfo
	EventActionPhase
	EventNewRound
	EventActionStart
	EventOvertime
	EventWin
	EventTie
)

func (e EventType) String() string {
	switch e {
	case EventTick:
		return "Tick"
	case EventRobotInfo:
		return "RobotInfo"
	case EventCardsInfo:
		return "CardsInfo"
	case EventActionPhase:
		return "ActionPhase"
	case EventNewRound:
		return "NewRound"
	case EventActionStart:
		return "ActionStart"
	case EventOvertime:
		return "Overtime"
	case EventWin:
		return "Win"
	case EventTie:
		return "Tie"
	default:
		return "Unknown"
	}
}

// GameEvent represents a single observable event in a match.
type GameEvent struct {
	Seq     int       // monotonic sequence number
	Tick    int       // game tick counter at emission time
	Type    EventType // event type
	Side    string    // "LEFT", "RIGHT" or empty for match-wide events
	Phase   string    // action phase name for EventActionPhase
	Details string    // human-readable detail string
	Payload any       // snapshot record (robot info, cards info, tick info)
}
