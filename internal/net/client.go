package net

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/PetrHeinz/punch-cards/internal/game"
	"github.com/PetrHeinz/punch-cards/internal/log"
)

// Client connects to a game server and provides a terminal REPL.
type Client struct {
	conn net.Conn
	in   io.Reader
	out  io.Writer
	side string // filled in by the server's hello

	mu sync.Mutex // guards out
}

func NewClient(conn net.Conn, in io.Reader, out io.Writer) *Client {
	return &Client{conn: conn, in: in, out: out}
}

// Connect connects to a server, announces itself and runs the REPL on the
// terminal.
func Connect(ctx context.Context, addr, name string) error {
	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("connect: %w", err)
	}
	defer conn.Close()

	enc := json.NewEncoder(conn)
	if err := enc.Encode(ClientMessage{Type: MsgJoin, Name: name}); err != nil {
		return fmt.Errorf("send join: %w", err)
	}

	fmt.Println("Connected! Waiting for game to start...")
	return NewClient(conn, os.Stdin, os.Stdout).RunREPL(ctx)
}

// RunREPL reads server messages and renders them while commands typed on the
// input are sent as they come. It returns nil once the game is over.
func (c *Client) RunREPL(ctx context.Context) error {
	stop := context.AfterFunc(ctx, func() { _ = c.conn.Close() })
	defer stop()

	go c.readInput(json.NewEncoder(c.conn))

	dec := json.NewDecoder(c.conn)
	for {
		var msg ServerMessage
		if err := dec.Decode(&msg); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return fmt.Errorf("read message: %w", err)
		}

		switch msg.Type {
		case MsgHello:
			c.side = msg.Side
			c.printf("You control the %s robot. Type 'help' for commands.\n", msg.Side)

		case MsgEvent:
			c.renderEvent(msg.Event)

		case MsgError:
			c.printf("! %s\n", msg.Error)

		case MsgGameOver:
			c.printf("\n═══════════════════════════════════\n")
			c.printf("          GAME OVER\n")
			c.printf("═══════════════════════════════════\n")
			c.printf("%s\n", msg.Result)
			c.printf("═══════════════════════════════════\n")
			return nil
		}
	}
}

// readInput sends every command line typed by the user. Several commands may
// be given on one line separated by ';'.
func (c *Client) readInput(enc *json.Encoder) {
	scanner := bufio.NewScanner(c.in)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if line == "help" {
			c.printf("%s", helpText)
			continue
		}
		commands, err := ParseCommandLine(line)
		if err != nil {
			c.printf("! %s\n", err)
			continue
		}
		for _, cmd := range commands {
			if err := enc.Encode(ClientMessage{Type: MsgCommand, Command: &cmd}); err != nil {
				return
			}
		}
	}
}

const helpText = `Commands (cards and slots are numbered from 1):
  choose <card> <slot>   put a hand card into an action slot
  swap <slot> <slot>     exchange two action slots
  toggle <slot>          switch the hand a slot acts with
  discard <slot>         clear a slot
  commit                 lock in the actions for this round
Separate several commands with ';'.
`

// ParseCommandLine parses user input such as "choose 2 1; toggle 1; commit"
// into commands. Numbers are 1-based on input and 0-based in the result.
func ParseCommandLine(line string) ([]game.Command, error) {
	var commands []game.Command
	for _, part := range strings.Split(line, ";") {
		fields := strings.Fields(part)
		if len(fields) == 0 {
			continue
		}
		kind, err := game.ParseCommandKind(strings.ToLower(fields[0]))
		if err != nil {
			return nil, err
		}
		args, err := parseIndexes(fields[1:])
		if err != nil {
			return nil, err
		}

		var cmd game.Command
		switch kind {
		case game.CmdChoose:
			if len(args) != 2 {
				return nil, errors.New("usage: choose <card> <slot>")
			}
			cmd = game.Choose(args[0], args[1])
		case game.CmdSwap:
			if len(args) != 2 {
				return nil, errors.New("usage: swap <slot> <slot>")
			}
			cmd = game.Swap(args[0], args[1])
		case game.CmdToggle, game.CmdDiscard:
			if len(args) != 1 {
				return nil, fmt.Errorf("usage: %s <slot>", kind)
			}
			cmd = game.Command{Kind: kind, ActionIndex: args[0]}
		case game.CmdCommit:
			if len(args) != 0 {
				return nil, errors.New("usage: commit")
			}
			cmd = game.Commit()
		}
		commands = append(commands, cmd)
	}
	if len(commands) == 0 {
		return nil, errors.New("no command given")
	}
	return commands, nil
}

func parseIndexes(fields []string) ([]int, error) {
	indexes := make([]int, len(fields))
	for i, f := range fields {
		n, err := strconv.Atoi(f)
		if err != nil || n < 1 {
			return nil, fmt.Errorf("%w: %q is not a positive number", game.ErrInvalidIndex, f)
		}
		indexes[i] = n - 1
	}
	return indexes, nil
}

func (c *Client) printf(format string, args ...any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintf(c.out, format, args...)
}

func (c *Client) renderEvent(ev *EventView) {
	if ev == nil {
		return
	}
	switch ev.Type {
	case log.EventTick.String():
		return
	case log.EventCardsInfo.String():
		if ev.Side == c.side {
			var cards game.CardsInfo
			if err := json.Unmarshal(ev.Payload, &cards); err == nil {
				c.renderCards(cards)
				return
			}
		}
	}
	c.printf("%s\n", log.FormatEvent(log.GameEvent{Tick: ev.Tick, Side: ev.Side, Details: ev.Details}))
}

func (c *Client) renderCards(cards game.CardsInfo) {
	var sb strings.Builder
	sb.WriteString("\nHand:    ")
	for i, card := range cards.HandCards {
		fmt.Fprintf(&sb, "[%d] %s %s  ", i+1, card.Icon, card.Name)
	}
	sb.WriteString("\nActions: ")
	for i, a := range cards.Actions {
		fmt.Fprintf(&sb, "%d) %s %s (%s)  ", i+1, a.Card.Icon, a.Card.Name, strings.ToLower(a.Hand))
	}
	fmt.Fprintf(&sb, "\nDeck: %d  Discard: %d\n", cards.DeckCardsCount, cards.DiscardedCardsCount)
	c.printf("%s", sb.String())
}
