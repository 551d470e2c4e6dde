package log

import (
	"fmt"
	"io"
	"strings"
	"sync"
)

// EventLogger is the interface for logging game events.
type EventLogger interface {
	Log(event GameEvent)
}

// Discard drops every event. Simulation forks log into it.
var Discard EventLogger = discardLogger{}

type discardLogger struct{}

func (discardLogger) Log(GameEvent) {}

// --- MemoryLogger: stores events in memory for test assertions and polling ---

type MemoryLogger struct {
	mu     sync.Mutex
	events []GameEvent
	seq    int
}

func NewMemoryLogger() *MemoryLogger {
	return &MemoryLogger{}
}

func (l *MemoryLogger) Log(event GameEvent) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.seq++
	event.Seq = l.seq
	l.events = append(l.events, event)
}

func (l *MemoryLogger) Events() []GameEvent {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]GameEvent(nil), l.events...)
}

// Drain returns all accumulated events and clears the buffer.
func (l *MemoryLogger) Drain() []GameEvent {
	l.mu.Lock()
	defer l.mu.Unlock()
	events := l.events
	l.events = nil
	return events
}

// EventsOfType returns all events matching the given type.
func (l *MemoryLogger) EventsOfType(t EventType) []GameEvent {
	l.mu.Lock()
	defer l.mu.Unlock()
	var result []GameEvent
	for _, e := range l.events {
		if e.Type == t {
			result = append(result, e)
		}
	}
	return result
}

// LastEvent returns the most recent event, or a zero event if none.
func (l *MemoryLogger) LastEvent() GameEvent {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.events) == 0 {
		return GameEvent{}
	}
	return l.events[len(l.events)-1]
}

// --- TextLogger: writes human-readable lines to an io.Writer ---

type TextLogger struct {
	mu sync.Mutex
	w  io.Writer

	// Snapshots repeats robot/cards snapshot events as text; they are noisy.
	Snapshots bool
}

func NewTextLogger(w io.Writer) *TextLogger {
	return &TextLogger{w: w}
}

func (l *TextLogger) Log(event GameEvent) {
	if !l.Snapshots && (event.Type == EventRobotInfo || event.Type == EventCardsInfo || event.Type == EventTick) {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintln(l.w, FormatEvent(event))
}

// --- MultiLogger: forwards to several loggers in order ---

type MultiLogger []EventLogger

func (m MultiLogger) Log(event GameEvent) {
	for _, l := range m {
		l.Log(event)
	}
}

// --- Broadcaster: fans events out to channel subscribers ---

// Broadcaster delivers every event to all current subscribers. A subscriber
// whose buffer is full misses the event; the tick loop never blocks on it.
type Broadcaster struct {
	mu   sync.Mutex
	subs map[chan GameEvent]struct{}
}

func NewBroadcaster() *Broadcaster {
	return &Broadcaster{subs: make(map[chan GameEvent]struct{})}
}

// Subscribe registers a new subscriber with the given buffer size. The
// returned cancel func unregisters it and closes the channel.
func (b *Broadcaster) Subscribe(buffer int) (<-chan GameEvent, func()) {
	ch := make(chan GameEvent, buffer)
	b.mu.Lock()
	b.subs[ch] = struct{}{}
	b.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			b.mu.Lock()
			delete(b.subs, ch)
			b.mu.Unlock()
			close(ch)
		})
	}
}

func (b *Broadcaster) Log(event GameEvent) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for ch := range b.subs {
		select {
		case ch <- event:
		default:
		}
	}
}

// --- Formatting ---

// FormatEvent formats a single event as a human-readable line.
func FormatEvent(e GameEvent) string {
	side := e.Side
	if side == "" {
		side = "     "
	}
	for len(side) < 5 {
		side += " "
	}

	return fmt.Sprintf("T%-3d %s| %s", e.Tick, side, e.Details)
}

// FormatAll formats all events as a multi-line string.
func FormatAll(events []GameEvent) string {
	var sb strings.Builder
	for _, e := range events {
		sb.WriteString(FormatEvent(e))
		sb.WriteByte('\n')
	}
	return sb.String()
}

// --- Helper constructors for common events ---

func NewTickEvent(tick int, payload any) GameEvent {
	return GameEvent{
		Tick:    tick,
		Type:    EventTick,
		Details: fmt.Sprintf("tick %d", tick),
		Payload: payload,
	}
}

func NewRobotInfoEvent(tick int, side string, details string, payload any) GameEvent {
	return GameEvent{
		Tick:    tick,
		Type:    EventRobotInfo,
		Side:    side,
		Details: details,
		Payload: payload,
	}
}

func NewCardsInfoEvent(tick int, side string, details string, payload any) GameEvent {
	return GameEvent{
		Tick:    tick,
		Type:    EventCardsInfo,
		Side:    side,
		Details: details,
		Payload: payload,
	}
}

func NewActionPhaseEvent(tick int, phase string, action int, payload any) GameEvent {
	return GameEvent{
		Tick:    tick,
		Type:    EventActionPhase,
		Phase:   phase,
		Details: fmt.Sprintf("Action %d: %s", action+1, phase),
		Payload: payload,
	}
}

func NewRoundEvent(tick int) GameEvent {
	return GameEvent{
		Tick:    tick,
		Type:    EventNewRound,
		Details: "=== Preparing for new round ===",
	}
}

func NewActionStartEvent(tick int) GameEvent {
	return GameEvent{
		Tick:    tick,
		Type:    EventActionStart,
		Details: "Both robots committed, starting action!",
	}
}

func NewOvertimeEvent(tick int, side string, oldHP, newHP int) GameEvent {
	return GameEvent{
		Tick:    tick,
		Type:    EventOvertime,
		Side:    side,
		Details: fmt.Sprintf("%s torso overheats waiting for input: %d → %d", side, oldHP, newHP),
	}
}

func NewWinEvent(tick int, winner string) GameEvent {
	return GameEvent{
		Tick:    tick,
		Type:    EventWin,
		Side:    winner,
		Details: fmt.Sprintf("%s robot won!", winner),
	}
}

func NewTieEvent(tick int) GameEvent {
	return GameEvent{
		Tick:    tick,
		Type:    EventTie,
		Details: "Both robots disassembled, nobody wins",
	}
}
