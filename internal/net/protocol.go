package net

import (
	"fmt"

	"github.com/peterkuimelis/warden/internal/game"
)

// Message types for the JSON-lines protocol over TCP. The web socket
// endpoint speaks the same messages, one per frame.

// --- Server → Client messages ---

const (
	MsgOutcome = "outcome" // state after an action, with the events it produced
	MsgLine    = "line"    // a new warden line
	MsgError   = "error"   // malformed client message
)

// ServerMessage is the envelope for all server-to-client messages.
type ServerMessage struct {
	Type string `json:"type"`

	// For "outcome"
	Action   string      `json:"action,omitempty"`
	State    *StateView  `json:"state,omitempty"`
	Events   []EventView `json:"events,omitempty"`
	Tick     *TickView   `json:"tick,omitempty"`
	Rejected bool        `json:"rejected,omitempty"`

	// For "line" and "error"
	Line  string `json:"line,omitempty"`
	Error string `json:"error,omitempty"`
}

// EventView is a simplified game event for the client.
type EventView struct {
	Seq     int    `json:"seq"`
	Turn    int    `json:"turn"`
	Phase   string `json:"phase,omitempty"`
	Player  int    `json:"player"`
	Type    string `json:"type"`
	Card    string `json:"card,omitempty"`
	Details string `json:"details"`
}

// CardView describes one card instance.
type CardView struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	ATK      int      `json:"atk"`
	HP       int      `json:"hp"`
	MaxHP    int      `json:"max_hp"`
	Cost     int      `json:"cost"`
	Type     string   `json:"type"`
	Sigils   []string `json:"sigils,omitempty"`
	Age      int      `json:"age,omitempty"`
	Shielded bool     `json:"shielded,omitempty"`
	Stunned  bool     `json:"stunned,omitempty"`
}

// StateView is the whole table as the wanderer sees it. Board slices hold
// nil for empty slots.
type StateView struct {
	Status        string      `json:"status"`
	Level         int         `json:"level"`
	Boss          string      `json:"boss,omitempty"`
	Turn          int         `json:"turn"`
	IsYourTurn    bool        `json:"is_your_turn"`
	PlayerHP      int         `json:"player_hp"`
	OpponentHP    int         `json:"opponent_hp"`
	Seeds         int         `json:"seeds"`
	Hand          []CardView  `json:"hand"`
	PlayerBoard   []*CardView `json:"player_board"`
	OpponentBoard []*CardView `json:"opponent_board"`
	Queue         []*CardView `json:"queue"`
	WardenLine    string      `json:"warden_line,omitempty"`
}

// TickView summarizes one resolved tick.
type TickView struct {
	PlayerSkipped bool     `json:"player_skipped,omitempty"`
	Damaged       []string `json:"damaged,omitempty"`
	Healed        []string `json:"healed,omitempty"`
	PlayerAttacks []int    `json:"player_attacks,omitempty"`
	WardenAttacks []int    `json:"warden_attacks,omitempty"`
	Phases        []string `json:"phases"`
	Status        string   `json:"status"`
}

// --- Client → Server messages ---

const (
	MsgPlay      = "play"
	MsgSacrifice = "sacrifice"
	MsgEndTurn   = "end_turn"
	MsgSkip      = "skip"
	MsgStart     = "start"
	MsgLevel     = "level"
	MsgProceed   = "proceed"
	MsgMenu      = "menu"
	MsgQuit      = "quit"
)

// ClientMessage is the envelope for all client-to-server messages.
// Hand and Slot are 0-based.
type ClientMessage struct {
	Type string `json:"type"`

	// For "play" and "sacrifice"
	Hand int `json:"hand,omitempty"`

	// For "play"
	Slot int    `json:"slot,omitempty"`
	Side string `json:"side,omitempty"` // "wanderer" (default) or "warden"

	// For "level"
	Level int `json:"level,omitempty"`
}

// Action converts the message into an engine action.
func (m ClientMessage) Action() (game.Action, error) {
	switch m.Type {
	case MsgPlay:
		side, err := parseSide(m.Side)
		if err != nil {
			return game.Action{}, err
		}
		return game.Action{Type: game.ActionPlayCard, HandIndex: m.Hand, Side: side, Slot: m.Slot}, nil
	case MsgSacrifice:
		return game.Action{Type: game.ActionSacrifice, HandIndex: m.Hand}, nil
	case MsgEndTurn:
		return game.Action{Type: game.ActionEndTurn}, nil
	case MsgSkip:
		return game.Action{Type: game.ActionSkipAndDraw}, nil
	case MsgStart:
		return game.Action{Type: game.ActionStartGame}, nil
	case MsgLevel:
		return game.Action{Type: game.ActionStartLevel, Level: m.Level}, nil
	case MsgProceed:
		return game.Action{Type: game.ActionProceed}, nil
	case MsgMenu:
		return game.Action{Type: game.ActionResetToMenu}, nil
	default:
		return game.Action{}, fmt.Errorf("unknown message type %q", m.Type)
	}
}

func parseSide(s string) (game.Side, error) {
	switch s {
	case "", "wanderer":
		return game.SideWanderer, nil
	case "warden":
		return game.SideWarden, nil
	default:
		return 0, fmt.Errorf("unknown side %q", s)
	}
}
