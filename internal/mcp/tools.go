package mcp

import (
	"context"
	"sync"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"github.com/peterkuimelis/warden/internal/game"
)

var (
	mu sync.Mutex
	// activeSession is the singleton game session (one per stdio process).
	activeSession *GameSession

	engine   *game.Engine
	narrator game.Narrator
	logger   *zap.Logger
)

// Configure sets the engine and collaborators used by start_game.
func Configure(e *game.Engine, n game.Narrator, l *zap.Logger) {
	mu.Lock()
	defer mu.Unlock()
	engine, narrator, logger = e, n, l
	activeSession = nil
}

// RegisterTools adds all game tools to the MCP server.
func RegisterTools(s *server.MCPServer) {
	s.AddTool(startGameTool(), handleStartGame)
	s.AddTool(playCardTool(), handlePlayCard)
	s.AddTool(sacrificeCardTool(), handleSacrificeCard)
	s.AddTool(endTurnTool(), handleEndTurn)
	s.AddTool(skipAndDrawTool(), handleSkipAndDraw)
	s.AddTool(proceedTool(), handleProceed)
	s.AddTool(resetTool(), handleReset)
	s.AddTool(getGameStateTool(), handleGetGameState)
}

// --- Tool definitions ---

func startGameTool() mcp.Tool {
	return mcp.NewTool("start_game",
		mcp.WithDescription("Sit at the Warden's table and begin chapter 1. You play the wanderer: place creatures "+
			"on your 4 slots, spend seeds, and bring the Warden's health to 0 before yours runs out. "+
			"Returns the state, the events so far and the tools that make sense next."),
	)
}

func playCardTool() mcp.Tool {
	return mcp.NewTool("play_card",
		mcp.WithDescription("Play a card from your hand. Creatures go on your own board; traps (TRAPPOLA) and cages "+
			"(GABBIA) must be set on the Warden's board, where they catch creatures arriving from the queue. "+
			"A BUFF_TURNO totem played on an occupied own slot permanently gives that creature +1 attack."),
		mcp.WithNumber("hand", mcp.Required(), mcp.Description("0-based index of the card in your hand")),
		mcp.WithNumber("slot", mcp.Required(), mcp.Description("0-based board slot")),
		mcp.WithString("side", mcp.Description("'wanderer' (default) or 'warden'"), mcp.Enum("wanderer", "warden")),
	)
}

func sacrificeCardTool() mcp.Tool {
	return mcp.NewTool("sacrifice_card",
		mcp.WithDescription("Discard a card from your hand for seeds: 1 for cheap cards, 2 for cost 2, 3 for cost 3 and above."),
		mcp.WithNumber("hand", mcp.Required(), mcp.Description("0-based index of the card in your hand")),
	)
}

func endTurnTool() mcp.Tool {
	return mcp.NewTool("end_turn",
		mcp.WithDescription("End your turn. Both boards fight, then the Warden restocks and you draw."),
	)
}

func skipAndDrawTool() mcp.Tool {
	return mcp.NewTool("skip_and_draw",
		mcp.WithDescription("End your turn without attacking. The Warden still attacks and you still draw."),
	)
}

func proceedTool() mcp.Tool {
	return mcp.NewTool("proceed",
		mcp.WithDescription("After winning a chapter, move on to the next one. Health and hand carry over."),
	)
}

func resetTool() mcp.Tool {
	return mcp.NewTool("reset",
		mcp.WithDescription("Abandon the run and return to the menu with a fresh hand."),
	)
}

func getGameStateTool() mcp.Tool {
	return mcp.NewTool("get_game_state",
		mcp.WithDescription("Get the current game state and accumulated events without acting. Read-only."),
	)
}

// --- Tool handlers ---

func current() (*GameSession, *mcp.CallToolResult) {
	mu.Lock()
	defer mu.Unlock()
	if activeSession == nil {
		return nil, mcp.NewToolResultError("No game is running. Use start_game first.")
	}
	return activeSession, nil
}

func applyTool(ctx context.Context, a game.Action) (*mcp.CallToolResult, error) {
	sess, errResult := current()
	if errResult != nil {
		return errResult, nil
	}
	return mcp.NewToolResultText(respondJSON(sess.apply(ctx, a))), nil
}

func handleStartGame(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	mu.Lock()
	if engine == nil {
		mu.Unlock()
		return mcp.NewToolResultError("The server has no game engine configured."), nil
	}
	if activeSession == nil {
		activeSession = NewGameSession(engine, narrator, logger)
	}
	sess := activeSession
	mu.Unlock()

	if sess.session.State().Status != game.StatusMenu {
		return mcp.NewToolResultError("A game is already running. Use reset to start over."), nil
	}
	return mcp.NewToolResultText(respondJSON(sess.apply(ctx, game.Action{Type: game.ActionStartGame}))), nil
}

func handlePlayCard(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	side := game.SideWanderer
	switch request.GetString("side", "wanderer") {
	case "wanderer":
	case "warden":
		side = game.SideWarden
	default:
		return mcp.NewToolResultError("side must be 'wanderer' or 'warden'"), nil
	}
	return applyTool(ctx, game.Action{
		Type:      game.ActionPlayCard,
		HandIndex: request.GetInt("hand", -1),
		Slot:      request.GetInt("slot", -1),
		Side:      side,
	})
}

func handleSacrificeCard(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return applyTool(ctx, game.Action{Type: game.ActionSacrifice, HandIndex: request.GetInt("hand", -1)})
}

func handleEndTurn(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return applyTool(ctx, game.Action{Type: game.ActionEndTurn})
}

func handleSkipAndDraw(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return applyTool(ctx, game.Action{Type: game.ActionSkipAndDraw})
}

func handleProceed(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return applyTool(ctx, game.Action{Type: game.ActionProceed})
}

func handleReset(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return applyTool(ctx, game.Action{Type: game.ActionResetToMenu})
}

func handleGetGameState(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sess, errResult := current()
	if errResult != nil {
		return errResult, nil
	}
	return mcp.NewToolResultText(respondJSON(sess.snapshot())), nil
}
