package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"github.com/PetrHeinz/punch-cards/internal/bot"
	"github.com/PetrHeinz/punch-cards/internal/game"
	pcmcp "github.com/PetrHeinz/punch-cards/internal/mcp"
)

func main() {
	optionsFile := flag.String("options", "", "path to options YAML file")
	port := flag.String("port", "9999", "TCP port for a human opponent connection")
	budget := flag.Duration("budget", bot.DefaultBudget, "search budget of the bot opponent")
	flag.Parse()

	opts := game.DefaultOptions()
	// agents think slowly; the input countdown is off unless a file sets it
	opts.Left.MaxTimeToInput = 0
	opts.Right.MaxTimeToInput = 0
	if *optionsFile != "" {
		var err error
		if opts, err = game.LoadOptions(*optionsFile); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	}

	// stdout carries the MCP protocol, so diagnostics go to stderr
	diag, err := zap.NewProduction()
	if err != nil {
		diag = zap.NewNop()
	}
	defer diag.Sync()

	pcmcp.SetOptions(opts)
	pcmcp.SetPort(*port)
	pcmcp.SetBotBudget(*budget)
	pcmcp.SetLogger(diag)

	s := server.NewMCPServer("punch-cards", "1.0.0")
	pcmcp.RegisterTools(s)

	if err := server.ServeStdio(s); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
