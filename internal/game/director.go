package game

import (
	"github.com/peterkuimelis/warden/internal/log"
)

// Restock runs the warden's step after a tick: queue promotion, obstacle
// seeding, monster spawning and the wanderer's draw. It returns a new state,
// advances the turn counter and hands control back to the wanderer.
// A state that is no longer Playing is returned unchanged.
// When res is non-nil the warden snapshot and events are appended to it.
func (e *Engine) Restock(gs *GameState, res *TickResult) *GameState {
	if gs.Status != StatusPlaying {
		return gs
	}
	next := gs.Clone()
	start := len(next.Log)

	e.promoteQueue(next)
	e.seedObstacles(next)
	e.spawnMonster(next)
	e.drawCard(next)

	next.Turn++
	next.IsPlayerTurn = true

	if res != nil {
		res.Phases = append(res.Phases, snapshotOf(PhaseWarden, next))
		res.Events = append(res.Events, next.EventsSince(start)...)
	}
	return next
}

// intercepts reports whether a board occupant catches queue arrivals.
// A fighting card that merely carries the tag, like a boss, does not.
func intercepts(ci *CardInstance) bool {
	return ci != nil && ci.Card.IsPassive() && ci.Card.ATK == 0
}

// promoteQueue moves each pending arrival onto its board slot.
// Arrivals facing a live occupant stay queued.
func (e *Engine) promoteQueue(gs *GameState) {
	for i, arrival := range gs.Queue {
		if arrival == nil {
			continue
		}
		occ := gs.OpponentBoard[i]
		switch {
		case occ == nil:
			gs.OpponentBoard[i] = arrival
			gs.log(log.NewQueueArriveEvent(gs.Turn, arrival.Name(), i))
		case intercepts(occ) && occ.Has(SigilTrappola):
			arrival.HP -= e.Rules.TrapDamage
			survived := arrival.HP > 0
			gs.OpponentBoard[i] = nil
			if survived {
				gs.OpponentBoard[i] = arrival
			}
			gs.log(log.NewTrapEvent(gs.Turn, arrival.Name(), e.Rules.TrapDamage, survived))
		case intercepts(occ) && occ.Has(SigilGabbia):
			arrival.Stunned = true
			gs.OpponentBoard[i] = arrival
			gs.log(log.NewCageEvent(gs.Turn, arrival.Name()))
		default:
			continue
		}
		gs.Queue[i] = nil
	}
}

// seedObstacles may drop an obstacle into every slot empty on both board and queue.
func (e *Engine) seedObstacles(gs *GameState) {
	chance := e.Rules.ObstacleChanceAt(gs.Level)
	pool := e.Catalog.ObstaclePool(gs.Level)
	for i := range gs.OpponentBoard {
		if gs.OpponentBoard[i] != nil || gs.Queue[i] != nil {
			continue
		}
		if e.Rand.Float64() >= chance {
			continue
		}
		def, ok := pick(e.Rand, pool)
		if !ok {
			return
		}
		gs.OpponentBoard[i] = NewInstance(def)
		gs.log(log.NewObstacleEvent(gs.Turn, def.Name, i))
	}
}

// SpawnPool returns the catalog cards the warden may queue on a level.
func (e *Engine) SpawnPool(level int) []*Card {
	maxCost := e.Rules.SpawnCostCapAt(level)
	var pool []*Card
	for _, c := range e.Catalog.Cards {
		if c.Cost > maxCost || c.Type == CardTypeTotem {
			continue
		}
		if level <= 1 && (c.Cost != 1 || !c.Sigils.Empty()) {
			continue
		}
		pool = append(pool, c)
	}
	return pool
}

// spawnMonster may queue one monster into a random empty queue slot.
func (e *Engine) spawnMonster(gs *GameState) {
	empty := gs.Queue.EmptySlots()
	if len(empty) == 0 {
		return
	}
	if e.Rand.Float64() >= e.Rules.SpawnChanceAt(gs.Level) {
		return
	}
	def, ok := pick(e.Rand, e.SpawnPool(gs.Level))
	if !ok {
		return
	}
	slot, _ := pick(e.Rand, empty)
	gs.Queue[slot] = NewInstance(def)
	gs.log(log.NewSpawnEvent(gs.Turn, def.Name, slot))
}

// DrawPool returns the cards the wanderer may draw at the given turn and level.
func (e *Engine) DrawPool(turn, level int) []*Card {
	maxCost := e.Rules.DrawCostCapAt(turn, level)
	var pool []*Card
	for _, c := range e.Catalog.Cards {
		if c.Cost <= maxCost {
			pool = append(pool, c)
		}
	}
	return pool
}

// drawCard gives the wanderer one card if the hand has room.
func (e *Engine) drawCard(gs *GameState) {
	if gs.HandFull(e.Rules) {
		return
	}
	def, ok := pick(e.Rand, e.DrawPool(gs.Turn, gs.Level))
	if !ok {
		return
	}
	gs.Hand = append(gs.Hand, NewInstance(def))
	gs.log(log.NewDrawEvent(gs.Turn, def.Name))
}

// EndTurn resolves one tick and, if the game goes on, lets the warden restock.
func (e *Engine) EndTurn(gs *GameState, playerSkipped bool) (*GameState, *TickResult) {
	next, res := e.ResolveTurn(gs, playerSkipped)
	next = e.Restock(next, res)
	res.Status = next.Status
	return next, res
}
