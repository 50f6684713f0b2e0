package game

import (
	"github.com/peterkuimelis/warden/internal/log"
)

// PhaseSnapshot records both boards and the counters after one phase of a tick.
type PhaseSnapshot struct {
	Phase         ResolvePhase
	PlayerBoard   Board
	OpponentBoard Board
	Queue         Board
	PlayerHP      int
	OpponentHP    int
	Seeds         int
	HandSize      int
}

// TickResult is the informational outcome of one tick, for presenters.
// It never feeds back into resolution.
type TickResult struct {
	PlayerSkipped  bool
	Damaged        []string // instance ids hit this tick, first-hit order
	Healed         []string // instance ids healed this tick
	AttackingSlots [2][]int // indexed by Side
	Phases         []PhaseSnapshot
	Events         []log.GameEvent
	Status         Status
}

// Engine bundles the catalog, the rules and the randomness source.
type Engine struct {
	Catalog *Catalog
	Rules   Rules
	Rand    Rand
}

// NewEngine creates an engine. A nil rng uses a time-seeded source.
func NewEngine(cat *Catalog, rules Rules, rng Rand) *Engine {
	if rng == nil {
		rng = NewRand(0)
	}
	return &Engine{Catalog: cat, Rules: rules, Rand: rng}
}

// tick is the working set of one ResolveTurn call.
type tick struct {
	e     *Engine
	gs    *GameState
	res   *TickResult
	phase ResolvePhase

	damaged    map[string]bool
	healed     map[string]bool
	deathSeeds int
	logStart   int
}

func (t *tick) log(ev log.GameEvent) {
	t.gs.log(ev)
}

func (t *tick) markDamaged(ci *CardInstance) {
	if !t.damaged[ci.ID] {
		t.damaged[ci.ID] = true
		t.res.Damaged = append(t.res.Damaged, ci.ID)
	}
}

func (t *tick) markHealed(ci *CardInstance) {
	if !t.healed[ci.ID] {
		t.healed[ci.ID] = true
		t.res.Healed = append(t.res.Healed, ci.ID)
	}
}

// snapshot closes the current phase.
func (t *tick) snapshot() {
	t.res.Phases = append(t.res.Phases, snapshotOf(t.phase, t.gs))
}

func snapshotOf(p ResolvePhase, gs *GameState) PhaseSnapshot {
	return PhaseSnapshot{
		Phase:         p,
		PlayerBoard:   gs.PlayerBoard.Clone(),
		OpponentBoard: gs.OpponentBoard.Clone(),
		Queue:         gs.Queue.Clone(),
		PlayerHP:      gs.PlayerHP,
		OpponentHP:    gs.OpponentHP,
		Seeds:         gs.Seeds,
		HandSize:      len(gs.Hand),
	}
}

var bothSides = [2]Side{SideWanderer, SideWarden}

// ResolveTurn runs one combat tick over a copy of gs and returns the new state.
// gs itself is never modified. It performs no I/O and cannot fail.
func (e *Engine) ResolveTurn(gs *GameState, playerSkipped bool) (*GameState, *TickResult) {
	t := &tick{
		e:        e,
		gs:       gs.Clone(),
		res:      &TickResult{PlayerSkipped: playerSkipped},
		damaged:  make(map[string]bool),
		healed:   make(map[string]bool),
		logStart: len(gs.Log),
	}
	t.gs.IsPlayerTurn = false

	steps := []struct {
		phase ResolvePhase
		run   func()
	}{
		{PhaseAging, t.aging},
		{PhaseStartOfCombat, t.startOfCombat},
		{PhaseDynamicStats, t.dynamicStats},
		{PhasePlayerAttack, func() {
			if playerSkipped {
				t.log(log.NewHesitateEvent(t.gs.Turn))
				return
			}
			t.attack(SideWanderer)
		}},
		{PhaseOpponentAttack, func() { t.attack(SideWarden) }},
		{PhaseDeath, t.deaths},
		{PhaseMovement, t.movement},
		{PhaseEconomy, t.economy},
	}
	for _, s := range steps {
		t.phase = s.phase
		s.run()
		t.snapshot()
	}

	t.res.Status = t.gs.Status
	t.res.Events = t.gs.EventsSince(t.logStart)
	return t.gs, t.res
}

func (t *tick) aging() {
	t.log(log.NewCombatStartEvent(t.gs.Turn))
	for _, side := range bothSides {
		for _, ci := range t.gs.BoardOf(side) {
			if ci != nil {
				ci.Age++
			}
		}
	}
}

// startOfCombat clears last tick's bonuses, then applies per-slot start effects.
func (t *tick) startOfCombat() {
	for _, side := range bothSides {
		b := t.gs.BoardOf(side)
		for _, ci := range b {
			if ci != nil {
				ci.ATK = ci.BaseATK
			}
		}
		for i := range b {
			t.eachOccupantHook(side, i, func(eff sigilEffect) func(*tick, Side, int) { return eff.startOfCombat })
		}
	}
}

// dynamicStats applies own-board bonuses to both sides, then cross-board debuffs.
func (t *tick) dynamicStats() {
	for _, side := range bothSides {
		b := t.gs.BoardOf(side)
		for i := range b {
			ci := b[i]
			if ci == nil {
				continue
			}
			if ci.Card.SynergyWith != "" && b.HasName(ci.Card.SynergyWith) {
				ci.ATK++
				t.log(log.NewBuffEvent(t.gs.Turn, ci.Card.SynergyWith, ci.Name(), 1))
			}
			t.eachOccupantHook(side, i, func(eff sigilEffect) func(*tick, Side, int) { return eff.dynamic })
		}
	}
	for _, side := range bothSides {
		for i := range t.gs.BoardOf(side) {
			t.eachOccupantHook(side, i, func(eff sigilEffect) func(*tick, Side, int) { return eff.debuff })
		}
	}
}

// eachOccupantHook runs the selected slot hook for every sigil of the occupant of slot i.
func (t *tick) eachOccupantHook(side Side, i int, sel func(sigilEffect) func(*tick, Side, int)) {
	ci := t.gs.BoardOf(side).At(i)
	if ci == nil {
		return
	}
	eachSigil(ci, func(_ Sigil, eff sigilEffect) {
		if hook := sel(eff); hook != nil {
			hook(t, side, i)
		}
	})
}

// fights reports whether ci takes part in its side's attack phase at all.
// Cages stay passive on the wanderer side; a warden-side cage bearer still fights.
func fights(side Side, ci *CardInstance) bool {
	if ci == nil || ci.Has(SigilTrappola) {
		return false
	}
	return side == SideWarden || !ci.Has(SigilGabbia)
}

// targets returns the opposing slots ci strikes from slot i, skipping out-of-range indices.
func targets(ci *CardInstance, i, size int) []int {
	candidates := []int{i}
	if ci.Has(SigilCecchino) {
		candidates = []int{i - 1, i + 1}
	}
	var out []int
	for _, n := range candidates {
		if n >= 0 && n < size {
			out = append(out, n)
		}
	}
	return out
}

// attack resolves one side's attack phase in ascending slot order.
// Occupants brought to zero health earlier in the tick still strike; removal waits for the death phase.
func (t *tick) attack(side Side) {
	own := t.gs.BoardOf(side)
	foe := t.gs.BoardOf(side.Opposite())
	for i, ci := range own {
		if !fights(side, ci) {
			continue
		}
		// A stun is spent on the first attack phase, even one with no attack to skip.
		if ci.Stunned {
			ci.Stunned = false
			t.log(log.NewStunnedEvent(t.gs.Turn, t.phase.String(), int(side), ci.Name()))
			continue
		}
		if ci.ATK <= 0 {
			continue
		}
		t.res.AttackingSlots[side] = append(t.res.AttackingSlots[side], i)
		for _, slot := range targets(ci, i, len(foe)) {
			t.strike(side, ci, foe[slot])
		}
	}
}

func (t *tick) strike(side Side, attacker, defender *CardInstance) {
	if attacker.Has(SigilDiretto) || defender == nil {
		t.hitPlayer(side, attacker)
		return
	}
	if defender.Shielded {
		defender.Shielded = false
		t.log(log.NewShieldBlockEvent(t.gs.Turn, t.phase.String(), int(side.Opposite()), defender.Name()))
		return
	}

	s := strike{side: side, attacker: attacker, defender: defender}
	defender.HP -= attacker.ATK
	t.markDamaged(defender)
	t.log(log.NewDamageEvent(t.gs.Turn, t.phase.String(), int(side), attacker.Name(), defender.Name(), attacker.ATK, defender.HP))

	eachSigil(defender, func(_ Sigil, eff sigilEffect) {
		if eff.struck != nil {
			eff.struck(t, s)
		}
	})
	if defender.HP <= 0 {
		eachSigil(defender, func(_ Sigil, eff sigilEffect) {
			if eff.killed != nil {
				eff.killed(t, s)
			}
		})
		eachSigil(attacker, func(_ Sigil, eff sigilEffect) {
			if eff.kill != nil {
				eff.kill(t, s)
			}
		})
	}
	eachSigil(attacker, func(_ Sigil, eff sigilEffect) {
		if eff.afterHit != nil {
			eff.afterHit(t, s)
		}
	})
}

// hitPlayer applies the attacker's damage to the opposing player's health total.
func (t *tick) hitPlayer(side Side, attacker *CardInstance) {
	hp := &t.gs.OpponentHP
	if side == SideWarden {
		hp = &t.gs.PlayerHP
	}
	old := *hp
	*hp -= attacker.ATK
	t.log(log.NewDirectDamageEvent(t.gs.Turn, t.phase.String(), int(side), attacker.Name(), attacker.ATK, old, *hp))
}

// deaths removes fallen occupants, runs their death reactions, then evolves survivors.
func (t *tick) deaths() {
	for _, side := range bothSides {
		b := t.gs.BoardOf(side)
		for i, ci := range b {
			if ci == nil || ci.HP > 0 {
				continue
			}
			b[i] = nil
			t.log(log.NewDestroyEvent(t.gs.Turn, t.phase.String(), int(side), ci.Name()))
			eachSigil(ci, func(_ Sigil, eff sigilEffect) {
				if eff.death != nil {
					eff.death(t, side, i, ci)
				}
			})
		}
	}
	for _, side := range bothSides {
		for i := range t.gs.BoardOf(side) {
			t.eachOccupantHook(side, i, func(eff sigilEffect) func(*tick, Side, int) { return eff.survive })
		}
	}
}

// movement relocates wandering occupants after combat.
func (t *tick) movement() {
	for _, side := range bothSides {
		var movers []*CardInstance
		for _, ci := range t.gs.BoardOf(side) {
			if ci != nil {
				movers = append(movers, ci)
			}
		}
		for _, ci := range movers {
			eachSigil(ci, func(_ Sigil, eff sigilEffect) {
				if eff.afterCombat != nil {
					eff.afterCombat(t, side, ci)
				}
			})
		}
	}
}

// economy pays seed income and settles the game status.
func (t *tick) economy() {
	r := t.e.Rules
	old := t.gs.Seeds
	t.gs.AddSeeds(r.SeedIncome+r.DeathSeedBonus*t.deathSeeds, r.MaxSeeds)
	t.log(log.NewSeedsEvent(t.gs.Turn, old, t.gs.Seeds, t.deathSeeds*r.DeathSeedBonus))

	switch {
	case t.gs.PlayerHP <= 0:
		t.gs.Status = StatusPlayerLoss
		t.log(log.NewLossEvent(t.gs.Turn))
	case t.gs.OpponentHP <= 0:
		t.gs.Status = StatusLevelTransition
		t.log(log.NewLevelWonEvent(t.gs.Turn, t.gs.Level))
	default:
		t.gs.Status = StatusPlaying
	}
}
