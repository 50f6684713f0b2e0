package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"github.com/peterkuimelis/warden/internal/game"
	"github.com/peterkuimelis/warden/internal/log"
	wardennet "github.com/peterkuimelis/warden/internal/net"
)

// ToolResponse is the JSON envelope returned by all MCP tools.
type ToolResponse struct {
	Events     []wardennet.EventView `json:"events"`
	Log        string                `json:"log,omitempty"` // events as text lines
	State      *wardennet.StateView  `json:"state,omitempty"`
	Tick       *wardennet.TickView   `json:"tick,omitempty"`
	Rejected   bool                  `json:"rejected,omitempty"`
	WardenLine string                `json:"warden_line,omitempty"`
	GameOver   bool                  `json:"game_over"`
	Next       []string              `json:"next"` // tools that make sense now
}

// GameSession holds the state of a single MCP game session.
type GameSession struct {
	session *game.Session
	ctrl    *MCPController
}

// NewGameSession creates a session in the menu.
func NewGameSession(e *game.Engine, narrator game.Narrator, logger *zap.Logger) *GameSession {
	s := game.NewSession(e, game.SessionConfig{Narrator: narrator, Logger: logger})
	ctrl := NewMCPController()
	s.AddPresenter(ctrl)
	return &GameSession{session: s, ctrl: ctrl}
}

// apply runs one action and builds the tool response from what it produced.
func (s *GameSession) apply(ctx context.Context, a game.Action) *ToolResponse {
	out := s.session.Apply(ctx, a)
	resp := s.snapshot()
	resp.Tick = wardennet.BuildTickView(out.Tick)
	resp.Rejected = out.Rejected
	if out.Rejected && len(resp.Events) == 0 {
		// busy rejections are not presented
		resp.Events = wardennet.EventViews(out.Events)
		resp.Log = log.FormatAll(out.Events)
	}
	return resp
}

// snapshot drains accumulated events and describes the current state.
func (s *GameSession) snapshot() *ToolResponse {
	gs := s.session.State()
	sv := wardennet.BuildStateView(s.session.Engine(), gs)
	sv.WardenLine = s.session.WardenLine()
	events := s.ctrl.drainEvents()
	return &ToolResponse{
		Events:     wardennet.EventViews(events),
		Log:        log.FormatAll(events),
		State:      sv,
		WardenLine: sv.WardenLine,
		GameOver:   gs.Status == game.StatusPlayerLoss,
		Next:       nextTools(gs),
	}
}

func nextTools(gs *game.GameState) []string {
	switch gs.Status {
	case game.StatusMenu:
		return []string{"start_game"}
	case game.StatusPlaying:
		return []string{"play_card", "sacrifice_card", "end_turn", "skip_and_draw"}
	case game.StatusLevelTransition:
		return []string{"proceed"}
	default:
		return []string{"reset"}
	}
}

// respondJSON marshals a ToolResponse to a JSON string.
func respondJSON(resp *ToolResponse) string {
	data, err := json.Marshal(resp)
	if err != nil {
		return fmt.Sprintf(`{"error": "marshal error: %v"}`, err)
	}
	return string(data)
}
