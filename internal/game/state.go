package game

import (
	"github.com/peterkuimelis/warden/internal/log"
)

// GameState holds the complete state of a run. The engine replaces it wholesale
// on every action; callers never mutate a published state.
type GameState struct {
	Hand          []*CardInstance // ordered, bounded by Rules.MaxHand
	PlayerBoard   Board
	OpponentBoard Board
	Queue         Board // warden arrivals, parallel to OpponentBoard

	Seeds      int
	PlayerHP   int
	OpponentHP int

	Turn         int // 1-based
	Level        int // 0 while in the menu
	IsPlayerTurn bool
	Status       Status

	Log []log.GameEvent // append-only
}

// Clone deep-copies the state. Card definitions stay shared.
func (gs *GameState) Clone() *GameState {
	cp := *gs
	cp.Hand = make([]*CardInstance, len(gs.Hand))
	for i, ci := range gs.Hand {
		cp.Hand[i] = ci.Clone()
	}
	cp.PlayerBoard = gs.PlayerBoard.Clone()
	cp.OpponentBoard = gs.OpponentBoard.Clone()
	cp.Queue = gs.Queue.Clone()
	cp.Log = append([]log.GameEvent(nil), gs.Log...)
	return &cp
}

// BoardOf returns the board for a side.
func (gs *GameState) BoardOf(s Side) Board {
	if s == SideWarden {
		return gs.OpponentBoard
	}
	return gs.PlayerBoard
}

// HandFull reports whether the hand is at capacity.
func (gs *GameState) HandFull(r Rules) bool {
	return len(gs.Hand) >= r.MaxHand
}

// AddSeeds adds delta and clamps to [0, max].
func (gs *GameState) AddSeeds(delta, max int) {
	gs.Seeds = clamp(gs.Seeds+delta, 0, max)
}

// DisplayHP returns health clamped at zero for presentation.
func DisplayHP(hp int) int {
	return max(0, hp)
}

// log appends an event, stamping its sequence number.
func (gs *GameState) log(e log.GameEvent) {
	e.Seq = len(gs.Log) + 1
	gs.Log = append(gs.Log, e)
}

// EventsSince returns the events appended after the first n.
func (gs *GameState) EventsSince(n int) []log.GameEvent {
	if n >= len(gs.Log) {
		return nil
	}
	return append([]log.GameEvent(nil), gs.Log[n:]...)
}

func clamp(v, lo, hi int) int {
	return max(lo, min(hi, v))
}
