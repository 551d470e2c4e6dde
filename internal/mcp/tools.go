package mcp

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"github.com/PetrHeinz/punch-cards/internal/game"
	pcnet "github.com/PetrHeinz/punch-cards/internal/net"
)

var (
	// activeSession is the singleton game session (one per stdio process).
	activeSession *GameSession
	sessionMu     sync.Mutex

	// Set by main.
	baseOptions = game.DefaultOptions()
	port        = "9999"
	botBudget   time.Duration
	diag        = zap.NewNop()
)

// SetOptions sets the game options new sessions start from.
func SetOptions(o game.Options) {
	baseOptions = o
}

// SetPort sets the TCP port for a human opponent connection.
func SetPort(p string) {
	port = p
}

// SetBotBudget sets the search budget of the bot opponent.
func SetBotBudget(d time.Duration) {
	botBudget = d
}

func SetLogger(l *zap.Logger) {
	diag = l
}

func currentSession() *GameSession {
	sessionMu.Lock()
	defer sessionMu.Unlock()
	return activeSession
}

// RegisterTools adds all game tools to the MCP server.
func RegisterTools(s *server.MCPServer) {
	s.AddTool(startGameTool(), handleStartGame)
	s.AddTool(getGameStateTool(), handleGetGameState)
	s.AddTool(waitForInputTool(), handleWaitForInput)
	s.AddTool(chooseActionTool(), commandHandler(game.CmdChoose))
	s.AddTool(swapActionsTool(), commandHandler(game.CmdSwap))
	s.AddTool(toggleActionHandTool(), commandHandler(game.CmdToggle))
	s.AddTool(discardActionTool(), commandHandler(game.CmdDiscard))
	s.AddTool(commitTool(), commandHandler(game.CmdCommit))
}

// --- Tool definitions ---

func startGameTool() mcp.Tool {
	return mcp.NewTool("start_game",
		mcp.WithDescription("Start a new Punch Cards match and return the state once your robot needs input. "+
			"Each round you place hand cards into action slots, then commit; both robots then resolve their actions slot by slot. "+
			"With opponent 'human' the other player connects via `punch-cards join --addr localhost:<port>` and this call blocks until they do."),
		mcp.WithString("side", mcp.Description("Robot you control: 'left' (default) or 'right'")),
		mcp.WithString("opponent", mcp.Description("'bot' (default) or 'human'")),
		mcp.WithString("seed", mcp.Description("Seed of the match; a fresh one is generated when empty")),
	)
}

func getGameStateTool() mcp.Tool {
	return mcp.NewTool("get_game_state",
		mcp.WithDescription("Get both robots, your cards and the events since the last call without acting. Read-only."),
	)
}

func waitForInputTool() mcp.Tool {
	return mcp.NewTool("wait_for_input",
		mcp.WithDescription("Block until your robot is waiting for input or the game is over, then return the state."),
		mcp.WithNumber("timeout_seconds", mcp.Description("Give up and return the current state after this many seconds (default 60)")),
	)
}

func chooseActionTool() mcp.Tool {
	return mcp.NewTool("choose_action",
		mcp.WithDescription("Put a hand card into an action slot. A card already placed elsewhere moves to this slot."),
		mcp.WithNumber("hand_card", mcp.Required(), mcp.Description("0-based index into cards.handCards")),
		mcp.WithNumber("action", mcp.Required(), mcp.Description("0-based action slot index")),
	)
}

func swapActionsTool() mcp.Tool {
	return mcp.NewTool("swap_actions",
		mcp.WithDescription("Exchange the contents of two action slots."),
		mcp.WithNumber("first", mcp.Required(), mcp.Description("0-based action slot index")),
		mcp.WithNumber("second", mcp.Required(), mcp.Description("0-based action slot index")),
	)
}

func toggleActionHandTool() mcp.Tool {
	return mcp.NewTool("toggle_action_hand",
		mcp.WithDescription("Switch the hand (right/left) an action slot acts with."),
		mcp.WithNumber("action", mcp.Required(), mcp.Description("0-based action slot index")),
	)
}

func discardActionTool() mcp.Tool {
	return mcp.NewTool("discard_action",
		mcp.WithDescription("Clear an action slot back to Idle. The slot keeps its hand."),
		mcp.WithNumber("action", mcp.Required(), mcp.Description("0-based action slot index")),
	)
}

func commitTool() mcp.Tool {
	return mcp.NewTool("commit",
		mcp.WithDescription("Lock in your actions for this round. Blocks until the round resolves and your robot needs input again, or the game ends."),
	)
}

// --- Tool handlers ---

func handleStartGame(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionMu.Lock()
	if activeSession != nil && !activeSession.IsOver() {
		sessionMu.Unlock()
		return mcp.NewToolResultError("A game is already running. Only one game at a time is supported."), nil
	}
	sessionMu.Unlock()

	side := game.SideLeft
	if s := request.GetString("side", ""); s != "" {
		parsed, err := game.ParseSide(strings.ToUpper(s))
		if err != nil {
			return mcp.NewToolResultErrorf("Invalid side: %v", err), nil
		}
		side = parsed
	}

	opponent := pcnet.OpponentBot
	switch o := request.GetString("opponent", "bot"); o {
	case "bot", "":
	case "human":
		opponent = pcnet.OpponentRemote
	default:
		return mcp.NewToolResultErrorf("opponent must be 'bot' or 'human', got '%s'", o), nil
	}

	opts := baseOptions
	opts.Left = opts.Left.Clone()
	opts.Right = opts.Right.Clone()
	if seed := request.GetString("seed", ""); seed != "" {
		opts.Seed = seed
	}
	if opts.Seed == "" {
		opts.Seed = game.NewSeedString()
	}

	sess, err := NewGameSession(SessionConfig{
		Options:   opts,
		Side:      side,
		Opponent:  opponent,
		Port:      port,
		BotBudget: botBudget,
		Diag:      diag,
	})
	if err != nil {
		return mcp.NewToolResultErrorf("Failed to start game: %v", err), nil
	}

	sessionMu.Lock()
	if activeSession != nil {
		activeSession.Close()
	}
	activeSession = sess
	sessionMu.Unlock()

	return mcp.NewToolResultText(respondJSON(sess.waitForInput(ctx))), nil
}

func handleGetGameState(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sess := currentSession()
	if sess == nil {
		return mcp.NewToolResultError("No game is running. Use start_game first."), nil
	}
	return mcp.NewToolResultText(respondJSON(sess.response())), nil
}

func handleWaitForInput(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sess := currentSession()
	if sess == nil {
		return mcp.NewToolResultError("No game is running. Use start_game first."), nil
	}

	timeout := request.GetInt("timeout_seconds", 60)
	if timeout <= 0 {
		return mcp.NewToolResultErrorf("timeout_seconds must be positive, got %d", timeout), nil
	}
	ctx, cancel := context.WithTimeout(ctx, time.Duration(timeout)*time.Second)
	defer cancel()

	return mcp.NewToolResultText(respondJSON(sess.waitForInput(ctx))), nil
}
