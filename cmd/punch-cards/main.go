package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/PetrHeinz/punch-cards/internal/bot"
	"github.com/PetrHeinz/punch-cards/internal/game"
	"github.com/PetrHeinz/punch-cards/internal/log"
	"github.com/PetrHeinz/punch-cards/internal/match"
	pcnet "github.com/PetrHeinz/punch-cards/internal/net"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	var err error
	switch os.Args[1] {
	case "host":
		err = runHost(ctx, os.Args[2:])
	case "join":
		err = runJoin(ctx, os.Args[2:])
	case "sim":
		err = runSim(os.Args[2:])
	default:
		printUsage()
		os.Exit(1)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println("Usage:")
	fmt.Println("  punch-cards host [--port P] [--options FILE] [--seed S] [--opponent remote|bot]")
	fmt.Println("  punch-cards join [--addr ADDR] [--name NAME]")
	fmt.Println("  punch-cards sim  [--options FILE] [--seed S] [--left bot|rando] [--right bot|rando]")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  host    Start a match and play the left robot")
	fmt.Println("  join    Connect to a host and play the right robot")
	fmt.Println("  sim     Let two computer players fight and print the event log")
}

// newLogger builds the diagnostic logger. It writes to stderr so it never
// mixes with the REPL on stdout.
func newLogger(verbose bool) *zap.Logger {
	cfg := zap.NewDevelopmentConfig()
	cfg.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
	if verbose {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	logger, err := cfg.Build()
	if err != nil {
		return zap.NewNop()
	}
	return logger
}

// loadOptions reads the options file, if any, and applies the seed flag.
// A match without a seed gets a fresh one.
func loadOptions(path, seed string) (game.Options, error) {
	opts := game.DefaultOptions()
	if path != "" {
		var err error
		if opts, err = game.LoadOptions(path); err != nil {
			return game.Options{}, fmt.Errorf("load options: %w", err)
		}
	}
	if seed != "" {
		opts.Seed = seed
	}
	if opts.Seed == "" {
		opts.Seed = game.NewSeedString()
	}
	return opts, nil
}

func runHost(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("host", flag.ExitOnError)
	port := fs.String("port", "9000", "TCP port to listen on")
	optionsFile := fs.String("options", "", "path to options YAML file")
	seed := fs.String("seed", "", "match seed (overrides the options file)")
	opponent := fs.String("opponent", pcnet.OpponentRemote, "who plays the right robot: remote or bot")
	budget := fs.Duration("budget", bot.DefaultBudget, "search budget of the bot opponent")
	verbose := fs.Bool("v", false, "verbose diagnostic logging")
	fs.Parse(args)

	opts, err := loadOptions(*optionsFile, *seed)
	if err != nil {
		return err
	}
	diag := newLogger(*verbose)
	defer diag.Sync()

	fmt.Printf("Match seed: %s\n", opts.Seed)
	srv := &pcnet.Server{
		Options:   opts,
		Port:      *port,
		Opponent:  *opponent,
		BotBudget: *budget,
		Diag:      diag,
	}
	return srv.Run(ctx)
}

func runJoin(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("join", flag.ExitOnError)
	addr := fs.String("addr", "localhost:9000", "server address to connect to")
	name := fs.String("name", "player", "name shown to the host")
	fs.Parse(args)

	return pcnet.Connect(ctx, *addr, *name)
}

// simPlayer is a computer player that can be stepped synchronously.
type simPlayer interface {
	Step(ctx context.Context) (bool, error)
}

func newSimPlayer(kind string, m *match.Match, cfg bot.Config) (simPlayer, error) {
	switch kind {
	case "bot":
		return bot.New(m, cfg), nil
	case "rando":
		return bot.NewRandobot(m, cfg), nil
	}
	return nil, fmt.Errorf("%w: unknown player %q", game.ErrInvalidIdentifier, kind)
}

func runSim(args []string) error {
	fs := flag.NewFlagSet("sim", flag.ExitOnError)
	optionsFile := fs.String("options", "", "path to options YAML file")
	seed := fs.String("seed", "", "match seed (overrides the options file)")
	left := fs.String("left", "bot", "left player: bot or rando")
	right := fs.String("right", "rando", "right player: bot or rando")
	budget := fs.Duration("budget", 200*time.Millisecond, "search budget of bot players")
	maxTicks := fs.Int("max-ticks", 5000, "stop after this many ticks")
	snapshots := fs.Bool("snapshots", false, "print robot and cards snapshots too")
	verbose := fs.Bool("v", false, "verbose diagnostic logging")
	fs.Parse(args)

	opts, err := loadOptions(*optionsFile, *seed)
	if err != nil {
		return err
	}
	diag := newLogger(*verbose)
	defer diag.Sync()

	text := log.NewTextLogger(os.Stdout)
	text.Snapshots = *snapshots
	m, err := match.New(match.Config{Options: opts, Logger: text, Diag: diag})
	if err != nil {
		return err
	}

	fmt.Printf("Match seed: %s\n", opts.Seed)
	players := make([]simPlayer, 0, 2)
	for _, p := range []struct {
		side game.Side
		kind string
	}{{game.SideLeft, *left}, {game.SideRight, *right}} {
		player, err := newSimPlayer(p.kind, m, bot.Config{
			Side:   p.side,
			Seed:   opts.Seed + "-" + p.kind + "-" + p.side.String(),
			Budget: *budget,
			Diag:   diag,
		})
		if err != nil {
			return err
		}
		players = append(players, player)
	}

	ctx := context.Background()
	for tick := 0; tick < *maxTicks && !m.IsOver(); tick++ {
		for _, p := range players {
			if _, err := p.Step(ctx); err != nil {
				diag.Warn("player command rejected", zap.Error(err))
			}
		}
		m.Tick()
	}

	if !m.IsOver() {
		return fmt.Errorf("no winner after %d ticks", *maxTicks)
	}
	if winner, ok := m.Winner(); ok {
		fmt.Printf("%s robot wins\n", winner)
	} else {
		fmt.Println("Tie: both robots were disassembled")
	}
	return nil
}
