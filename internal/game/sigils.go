package game

import (
	"github.com/peterkuimelis/warden/internal/log"
)

// strike describes one attacker hitting one defender.
type strike struct {
	side     Side // attacking side
	attacker *CardInstance
	defender *CardInstance
}

// sigilEffect groups the hooks a sigil contributes to each phase.
// A nil hook means the sigil does nothing at that point.
type sigilEffect struct {
	startOfCombat func(t *tick, side Side, i int)
	dynamic       func(t *tick, side Side, i int)
	debuff        func(t *tick, side Side, i int)
	struck        func(t *tick, s strike) // defender's sigils, after damage lands
	killed        func(t *tick, s strike) // defender's sigils, when it falls
	kill          func(t *tick, s strike) // attacker's sigils, when the defender falls
	afterHit      func(t *tick, s strike) // attacker's sigils, after any damaging hit
	death         func(t *tick, side Side, i int, dead *CardInstance)
	survive       func(t *tick, side Side, i int)
	afterCombat   func(t *tick, side Side, ci *CardInstance)
	played        func(e *Engine, gs *GameState, side Side, slot int)
}

var sigilEffects [sigilCount]sigilEffect

func init() {
	sigilEffects = [sigilCount]sigilEffect{
		SigilSemiMorte: {
			death: func(t *tick, side Side, _ int, _ *CardInstance) {
				if side == SideWanderer {
					t.deathSeeds++
				}
			},
		},
		SigilIntimidazione: {
			debuff: func(t *tick, side Side, i int) {
				if foe := t.gs.BoardOf(side.Opposite()).At(i); foe != nil {
					foe.ATK = max(0, foe.ATK-1)
				}
			},
		},
		SigilForzaBranco: {
			dynamic: func(t *tick, side Side, i int) {
				b := t.gs.BoardOf(side)
				b[i].ATK += b.Count(SigilForzaBranco)
			},
		},
		SigilCura: {
			startOfCombat: func(t *tick, side Side, i int) {
				b := t.gs.BoardOf(side)
				for _, n := range []int{i - 1, i, i + 1} {
					ci := b.At(n)
					if ci != nil && ci.heal(1) {
						t.markHealed(ci)
						t.log(log.NewHealEvent(t.gs.Turn, t.phase.String(), int(side), ci.Name(), ci.HP))
					}
				}
			},
		},
		SigilBuffTurno: {
			startOfCombat: func(t *tick, side Side, i int) {
				b := t.gs.BoardOf(side)
				for _, n := range b.Neighbors(i) {
					if b[n] != nil {
						b[n].ATK++
					}
				}
			},
		},
		SigilLadro:     {kill: steal},
		SigilLadroMano: {kill: steal},
		SigilEvoluzione: {
			survive: func(t *tick, side Side, i int) {
				b := t.gs.BoardOf(side)
				ci := b[i]
				if ci.Age < 2 {
					return
				}
				def, err := t.e.Catalog.Lookup(ci.Card.EvolvesInto)
				if err != nil {
					return
				}
				b[i] = NewInstance(def)
				t.log(log.NewEvolveEvent(t.gs.Turn, t.phase.String(), int(side), ci.Name(), def.Name))
			},
		},
		SigilSinfonia: {
			// CORAZZA bearers are skipped: their shield comes only from deployment.
			death: func(t *tick, side Side, i int, _ *CardInstance) {
				b := t.gs.BoardOf(side)
				for _, n := range b.Neighbors(i) {
					if b[n] != nil && !b[n].Has(SigilCorazza) {
						b[n].Shielded = true
					}
				}
			},
		},
		SigilSpine: {
			struck: func(t *tick, s strike) {
				s.attacker.HP--
				t.markDamaged(s.attacker)
				t.log(log.NewThornsEvent(t.gs.Turn, t.phase.String(), int(s.side.Opposite()), s.defender.Name(), s.attacker.Name()))
			},
		},
		SigilVeleno: {
			afterHit: func(t *tick, s strike) {
				s.defender.HP = 0
				t.log(log.NewPoisonEvent(t.gs.Turn, t.phase.String(), int(s.side), s.attacker.Name(), s.defender.Name()))
			},
		},
		SigilSerbatoio: {
			struck: func(t *tick, s strike) {
				if s.side != SideWarden || t.gs.HandFull(t.e.Rules) {
					return
				}
				def, err := t.e.Catalog.Lookup(s.defender.Card.Token)
				if err != nil {
					return
				}
				t.gs.Hand = append(t.gs.Hand, NewInstance(def))
				t.log(log.NewTokenEvent(t.gs.Turn, t.phase.String(), log.Wanderer, s.defender.Name(), def.Name))
			},
		},
		SigilCodaReazione: {
			death: func(t *tick, side Side, i int, dead *CardInstance) {
				def, err := t.e.Catalog.Lookup(dead.Card.Token)
				if err != nil {
					return
				}
				t.gs.BoardOf(side)[i] = NewInstance(def)
				t.log(log.NewTokenEvent(t.gs.Turn, t.phase.String(), int(side), dead.Name(), def.Name))
			},
		},
		SigilAuraATK: {
			dynamic: func(t *tick, side Side, i int) {
				b := t.gs.BoardOf(side)
				for _, n := range b.Neighbors(i) {
					if b[n] != nil {
						b[n].ATK++
					}
				}
			},
		},
		SigilAuraHP: {
			dynamic: func(t *tick, side Side, i int) {
				b := t.gs.BoardOf(side)
				bonus := t.e.Rules.AuraHealthBonus
				for _, n := range b.Neighbors(i) {
					if ci := b[n]; ci != nil {
						ci.HP = min(ci.HP+bonus, ci.MaxHP+bonus)
					}
				}
			},
		},
		SigilVampirismo: {
			kill: func(t *tick, s strike) {
				if s.attacker.heal(1) {
					t.markHealed(s.attacker)
					t.log(log.NewHealEvent(t.gs.Turn, t.phase.String(), int(s.side), s.attacker.Name(), s.attacker.HP))
				}
			},
		},
		SigilEsalazione: {
			death: func(t *tick, side Side, i int, _ *CardInstance) {
				b := t.gs.BoardOf(side)
				for _, n := range b.Neighbors(i) {
					if ci := b[n]; ci != nil && ci.HP > 0 {
						ci.BaseATK++
						ci.ATK++
					}
				}
			},
		},
		SigilDetonazione: {
			killed: func(t *tick, s strike) {
				s.attacker.HP = 0
				t.markDamaged(s.attacker)
				t.log(log.NewDetonateEvent(t.gs.Turn, t.phase.String(), int(s.side.Opposite()), s.defender.Name(), s.attacker.Name()))
			},
		},
		SigilBarrieraCollettiva: {
			played: func(e *Engine, gs *GameState, side Side, slot int) {
				b := gs.BoardOf(side)
				allies := 0
				for i, ci := range b {
					if ci == nil || i == slot {
						continue
					}
					ci.MaxHP += e.Rules.AuraHealthBonus
					ci.HP += e.Rules.AuraHealthBonus
					allies++
				}
				gs.log(log.NewBarrierEvent(gs.Turn, b[slot].Name(), allies))
			},
		},
		SigilMovimentoCasuale: {
			afterCombat: func(t *tick, side Side, ci *CardInstance) {
				b := t.gs.BoardOf(side)
				from := -1
				for i, occ := range b {
					if occ == ci {
						from = i
					}
				}
				to, ok := pick(t.e.Rand, b.EmptySlots())
				if from < 0 || !ok {
					return
				}
				b[to], b[from] = ci, nil
				t.log(log.NewMoveEvent(t.gs.Turn, t.phase.String(), int(side), ci.Name(), from, to))
			},
		},
	}
}

// steal hands the wanderer a fresh copy of the fallen defender.
func steal(t *tick, s strike) {
	if s.side != SideWanderer || t.gs.HandFull(t.e.Rules) {
		return
	}
	t.gs.Hand = append(t.gs.Hand, NewInstance(s.defender.Card))
	t.log(log.NewStealEvent(t.gs.Turn, t.phase.String(), s.attacker.Name(), s.defender.Name()))
}

// eachSigil runs fn for every sigil the instance carries, in canonical order.
func eachSigil(ci *CardInstance, fn func(Sigil, sigilEffect)) {
	for _, s := range ci.Card.Sigils.Slice() {
		fn(s, sigilEffects[s])
	}
}
