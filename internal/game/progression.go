package game

import (
	"github.com/peterkuimelis/warden/internal/log"
)

// NewGame builds a fresh run sitting in the menu, with a starting hand
// dealt from the shuffled initial deck.
func (e *Engine) NewGame() *GameState {
	r := e.Rules
	gs := &GameState{
		PlayerBoard:   NewBoard(r.BoardSize),
		OpponentBoard: NewBoard(r.BoardSize),
		Queue:         NewBoard(r.BoardSize),
		Seeds:         r.StartingSeeds,
		PlayerHP:      r.StartingHealth,
		OpponentHP:    r.MenuOpponentHealth,
		Turn:          1,
		Level:         1,
		IsPlayerTurn:  true,
		Status:        StatusMenu,
	}
	deck := append([]*Card(nil), e.Catalog.InitialDeck...)
	shuffle(e.Rand, deck)
	for _, c := range deck[:min(r.StartingHandSize, len(deck))] {
		gs.Hand = append(gs.Hand, NewInstance(c))
	}
	return gs
}

// StartGame leaves the menu and begins level 1.
func (e *Engine) StartGame(gs *GameState) *GameState {
	if gs.Status != StatusMenu {
		return rejected(gs, "The game has already begun.")
	}
	return e.StartLevel(gs, 1)
}

// StartLevel clears both boards and the queue, then seeds the warden's
// opening position for level n. Health and hand carry over.
func (e *Engine) StartLevel(gs *GameState, n int) *GameState {
	if n < 1 {
		return rejected(gs, "There is no such chapter.")
	}
	r := e.Rules
	next := gs.Clone()
	next.PlayerBoard = NewBoard(r.BoardSize)
	next.OpponentBoard = NewBoard(r.BoardSize)
	next.Queue = NewBoard(r.BoardSize)
	next.Level = n
	next.OpponentHP = r.OpponentHealthAt(n)
	next.Seeds = max(next.Seeds, 1)
	next.Status = StatusPlaying
	next.Turn = 1
	next.IsPlayerTurn = true

	boss := r.IsBossLevel(n)
	next.log(log.NewLevelStartEvent(n, boss))

	switch {
	case boss:
		def := e.Catalog.Boss(n, r.BossEvery)
		slot := r.BoardSize / 2
		next.OpponentBoard[slot] = NewInstance(def)
		next.log(log.NewBossEvent(n, def.Name, slot))
	default:
		def, ok := pick(e.Rand, e.Catalog.ObstaclePool(n))
		if !ok {
			break
		}
		slot := e.Rand.Intn(r.BoardSize)
		next.OpponentBoard[slot] = NewInstance(def)
		next.log(log.NewObstacleEvent(next.Turn, def.Name, slot))
	}
	return next
}

// Proceed starts the next level after a won one.
func (e *Engine) Proceed(gs *GameState) *GameState {
	if gs.Status != StatusLevelTransition {
		return rejected(gs, "The Warden is not done with you yet.")
	}
	return e.StartLevel(gs, gs.Level+1)
}

// ResetToMenu discards the run and returns a fresh game.
func (e *Engine) ResetToMenu(_ *GameState) *GameState {
	return e.NewGame()
}

// BossFor returns the boss faced on level n, or nil on a normal level.
func (e *Engine) BossFor(n int) *Card {
	if !e.Rules.IsBossLevel(n) {
		return nil
	}
	return e.Catalog.Boss(n, e.Rules.BossEvery)
}
