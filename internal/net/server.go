package net

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/PetrHeinz/punch-cards/internal/bot"
	"github.com/PetrHeinz/punch-cards/internal/game"
	"github.com/PetrHeinz/punch-cards/internal/log"
	"github.com/PetrHeinz/punch-cards/internal/match"
)

const (
	OpponentRemote = "remote"
	OpponentBot    = "bot"

	eventBuffer = 256
)

// Server hosts a match. The host plays the left robot from the local
// terminal; the right robot is driven by a TCP client or by the bot.
type Server struct {
	Options   game.Options
	Port      string
	Opponent  string        // OpponentRemote (default) or OpponentBot
	BotBudget time.Duration // search budget of the bot opponent
	Diag      *zap.Logger

	// Terminal of the host, os.Stdin and os.Stdout when nil.
	Stdin  io.Reader
	Stdout io.Writer
}

// Run starts the match once the opponent is ready and returns when the host
// has seen the game end.
func (s *Server) Run(ctx context.Context) error {
	diag := s.Diag
	if diag == nil {
		diag = zap.NewNop()
	}
	in, out := s.Stdin, s.Stdout
	if in == nil {
		in = os.Stdin
	}
	if out == nil {
		out = os.Stdout
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	broadcaster := log.NewBroadcaster()
	m, err := match.New(match.Config{Options: s.Options, Logger: broadcaster, Diag: diag})
	if err != nil {
		return err
	}

	errCh := make(chan error, 3)

	switch s.Opponent {
	case OpponentBot:
		b := bot.New(m, bot.Config{
			Side:   game.SideRight,
			Seed:   s.Options.Seed + "-bot",
			Budget: s.BotBudget,
			Diag:   diag,
		})
		go func() { errCh <- b.Run(ctx) }()

	case OpponentRemote, "":
		conn, err := s.accept(ctx, out, diag)
		if err != nil {
			return err
		}
		defer conn.Close()

		events, unsubscribe := broadcaster.Subscribe(eventBuffer)
		defer unsubscribe()
		remote := NewRemoteController(conn, game.SideRight, m, diag)
		go func() { errCh <- remote.Serve(ctx, events) }()

	default:
		return fmt.Errorf("%w: unknown opponent %q", game.ErrInvalidIdentifier, s.Opponent)
	}

	// The host talks to its own controller over an in-memory pipe, exactly
	// like a remote client would.
	hostConn, hostServerConn := net.Pipe()
	defer hostConn.Close()
	defer hostServerConn.Close()

	hostEvents, unsubscribeHost := broadcaster.Subscribe(eventBuffer)
	defer unsubscribeHost()
	host := NewRemoteController(hostServerConn, game.SideLeft, m, diag)
	go func() { errCh <- host.Serve(ctx, hostEvents) }()

	replErr := make(chan error, 1)
	go func() { replErr <- NewClient(hostConn, in, out).RunREPL(ctx) }()

	// snapshots published while nobody was subscribed
	m.ClearUpdateCache()
	go func() { errCh <- m.Run(ctx) }()

	for {
		select {
		case err := <-replErr:
			return err
		case err := <-errCh:
			if err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
		}
	}
}

// accept waits for exactly one opponent connection.
func (s *Server) accept(ctx context.Context, out io.Writer, diag *zap.Logger) (net.Conn, error) {
	var lc net.ListenConfig
	ln, err := lc.Listen(ctx, "tcp", ":"+s.Port)
	if err != nil {
		return nil, fmt.Errorf("listen: %w", err)
	}
	defer ln.Close()
	stop := context.AfterFunc(ctx, func() { _ = ln.Close() })
	defer stop()

	fmt.Fprintf(out, "Waiting for opponent on port %s...\n", s.Port)

	conn, err := ln.Accept()
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("accept: %w", err)
	}

	diag.Info("opponent connected", zap.String("addr", conn.RemoteAddr().String()))
	fmt.Fprintf(out, "Opponent connected from %s\n", conn.RemoteAddr())
	return conn, nil
}
