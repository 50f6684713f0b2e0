package net

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"sync"

	"go.uber.org/zap"

	"github.com/peterkuimelis/warden/internal/game"
	"github.com/peterkuimelis/warden/internal/log"
)

// NetworkController drives a game.Session from a JSON-lines connection and
// presents every outcome and warden line back over it.
type NetworkController struct {
	conn    net.Conn
	enc     *json.Encoder
	dec     *json.Decoder
	session *game.Session
	logger  *zap.Logger
	mu      sync.Mutex // guards enc
}

var _ game.Presenter = (*NetworkController)(nil)

// NewNetworkController creates a controller for the given connection and
// registers it as a presenter on session.
func NewNetworkController(conn net.Conn, session *game.Session, logger *zap.Logger) *NetworkController {
	if logger == nil {
		logger = zap.NewNop()
	}
	nc := &NetworkController{
		conn:    conn,
		enc:     json.NewEncoder(conn),
		dec:     json.NewDecoder(conn),
		session: session,
		logger:  logger,
	}
	session.AddPresenter(nc)
	return nc
}

// BuildStateView creates the wire view of a state.
func BuildStateView(e *game.Engine, gs *game.GameState) *StateView {
	sv := &StateView{
		Status:        gs.Status.String(),
		Level:         gs.Level,
		Turn:          gs.Turn,
		IsYourTurn:    gs.IsPlayerTurn && gs.Status == game.StatusPlaying,
		PlayerHP:      gs.PlayerHP,
		OpponentHP:    gs.OpponentHP,
		Seeds:         gs.Seeds,
		Hand:          make([]CardView, 0, len(gs.Hand)),
		PlayerBoard:   BoardView(gs.PlayerBoard),
		OpponentBoard: BoardView(gs.OpponentBoard),
		Queue:         BoardView(gs.Queue),
	}
	if boss := e.BossFor(gs.Level); boss != nil && gs.Status != game.StatusMenu {
		sv.Boss = boss.Name
	}
	for _, ci := range gs.Hand {
		sv.Hand = append(sv.Hand, *InstanceView(ci))
	}
	return sv
}

// BoardView maps each slot to a view, nil for empty slots.
func BoardView(b game.Board) []*CardView {
	out := make([]*CardView, len(b))
	for i, ci := range b {
		out[i] = InstanceView(ci)
	}
	return out
}

// InstanceView creates a CardView for one instance, or nil.
func InstanceView(ci *game.CardInstance) *CardView {
	if ci == nil {
		return nil
	}
	return &CardView{
		ID:       ci.ID,
		Name:     ci.Name(),
		ATK:      ci.ATK,
		HP:       ci.HP,
		MaxHP:    ci.MaxHP,
		Cost:     ci.Card.Cost,
		Type:     ci.Card.Type.String(),
		Sigils:   ci.Card.Sigils.Names(),
		Age:      ci.Age,
		Shielded: ci.Shielded,
		Stunned:  ci.Stunned,
	}
}

// BuildTickView summarizes a tick, or returns nil when none ran.
func BuildTickView(res *game.TickResult) *TickView {
	if res == nil {
		return nil
	}
	tv := &TickView{
		PlayerSkipped: res.PlayerSkipped,
		Damaged:       res.Damaged,
		Healed:        res.Healed,
		PlayerAttacks: res.AttackingSlots[game.SideWanderer],
		WardenAttacks: res.AttackingSlots[game.SideWarden],
		Status:        res.Status.String(),
	}
	for _, p := range res.Phases {
		tv.Phases = append(tv.Phases, p.Phase.String())
	}
	return tv
}

// EventViews converts engine events for the wire.
func EventViews(events []log.GameEvent) []EventView {
	out := make([]EventView, 0, len(events))
	for _, e := range events {
		out = append(out, EventView{
			Seq:     e.Seq,
			Turn:    e.Turn,
			Phase:   e.Phase,
			Player:  e.Player,
			Type:    e.Type.String(),
			Card:    e.Card,
			Details: e.Details,
		})
	}
	return out
}

// OutcomeMessage builds the "outcome" message for one applied action.
func OutcomeMessage(s *game.Session, out game.Outcome) ServerMessage {
	sv := BuildStateView(s.Engine(), out.State)
	sv.WardenLine = s.WardenLine()
	return ServerMessage{
		Type:     MsgOutcome,
		Action:   out.Action.String(),
		State:    sv,
		Events:   EventViews(out.Events),
		Tick:     BuildTickView(out.Tick),
		Rejected: out.Rejected,
	}
}

// SnapshotMessage builds an "outcome" message for the current state with no action.
func SnapshotMessage(s *game.Session) ServerMessage {
	sv := BuildStateView(s.Engine(), s.State())
	sv.WardenLine = s.WardenLine()
	return ServerMessage{Type: MsgOutcome, State: sv}
}

// send encodes one message. Safe for concurrent use.
func (nc *NetworkController) send(msg ServerMessage) error {
	nc.mu.Lock()
	defer nc.mu.Unlock()
	return nc.enc.Encode(msg)
}

// recv reads a client message. Only the Serve loop reads.
func (nc *NetworkController) recv() (ClientMessage, error) {
	var msg ClientMessage
	err := nc.dec.Decode(&msg)
	return msg, err
}

// Present implements game.Presenter.
func (nc *NetworkController) Present(_ context.Context, out game.Outcome) error {
	return nc.send(OutcomeMessage(nc.session, out))
}

// PresentLine implements game.Presenter.
func (nc *NetworkController) PresentLine(_ context.Context, line string) error {
	return nc.send(ServerMessage{Type: MsgLine, Line: line})
}

// Serve sends the current state, then applies client messages until the
// client quits, disconnects or ctx is cancelled.
func (nc *NetworkController) Serve(ctx context.Context) error {
	stop := context.AfterFunc(ctx, func() { nc.conn.Close() })
	defer stop()

	if err := nc.send(SnapshotMessage(nc.session)); err != nil {
		return fmt.Errorf("send snapshot: %w", err)
	}
	for {
		msg, err := nc.recv()
		if err != nil {
			if errors.Is(err, io.EOF) || ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("recv: %w", err)
		}
		if msg.Type == MsgQuit {
			return nil
		}
		action, err := msg.Action()
		if err != nil {
			nc.logger.Debug("bad client message", zap.String("type", msg.Type), zap.Error(err))
			if err := nc.send(ServerMessage{Type: MsgError, Error: err.Error()}); err != nil {
				return fmt.Errorf("send error: %w", err)
			}
			continue
		}
		nc.session.Apply(ctx, action)
	}
}
