package mcp

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/PetrHeinz/punch-cards/internal/game"
)

// commandFromRequest translates a command tool call into a game command.
// Indexes are passed through unchecked; the robot rejects bad ones.
func commandFromRequest(kind game.CommandKind, request mcp.CallToolRequest) game.Command {
	switch kind {
	case game.CmdChoose:
		return game.Choose(request.GetInt("hand_card", -1), request.GetInt("action", -1))
	case game.CmdSwap:
		return game.Swap(request.GetInt("first", -1), request.GetInt("second", -1))
	case game.CmdToggle:
		return game.Toggle(request.GetInt("action", -1))
	case game.CmdDiscard:
		return game.Discard(request.GetInt("action", -1))
	}
	return game.Commit()
}

// commandHandler returns the tool handler for one command kind. Editing
// commands answer right away; commit blocks until the robot needs input
// again or the game ends.
func commandHandler(kind game.CommandKind) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		sess := currentSession()
		if sess == nil {
			return mcp.NewToolResultError("No game is running. Use start_game first."), nil
		}
		if sess.IsOver() {
			return mcp.NewToolResultError("The game is over. Use start_game to play again."), nil
		}

		cmd := commandFromRequest(kind, request)
		if err := sess.match.Apply(sess.side, cmd); err != nil {
			return mcp.NewToolResultErrorf("Command '%s' rejected: %v", cmd, err), nil
		}

		if kind == game.CmdCommit {
			return mcp.NewToolResultText(respondJSON(sess.waitForInput(ctx))), nil
		}
		return mcp.NewToolResultText(respondJSON(sess.response())), nil
	}
}
