package game

import (
	"fmt"

	"github.com/peterkuimelis/warden/internal/log"
)

// rejected returns a copy of gs with a logged rejection. Illegal actions
// never fail; they leave the state as it was, plus the message.
func rejected(gs *GameState, reason string) *GameState {
	next := gs.Clone()
	next.log(log.NewRejectedEvent(next.Turn, reason))
	return next
}

// IsRejection reports whether the most recent event is a rejected action.
func IsRejection(gs *GameState) bool {
	return len(gs.Log) > 0 && gs.Log[len(gs.Log)-1].Type == log.EventRejected
}

// checkTurn returns a rejection reason when the wanderer may not act.
func checkTurn(gs *GameState) string {
	switch {
	case gs.Status != StatusPlaying:
		return fmt.Sprintf("Nothing to do while the game is %s.", gs.Status)
	case !gs.IsPlayerTurn:
		return "Wait for the Warden to finish."
	}
	return ""
}

// checkHand validates a hand index and returns the card there.
func checkHand(gs *GameState, handIndex int) (*CardInstance, string) {
	if handIndex < 0 || handIndex >= len(gs.Hand) {
		return nil, fmt.Sprintf("No card at hand position %d.", handIndex+1)
	}
	return gs.Hand[handIndex], ""
}

// PlayCard places a hand card onto a board slot. Trap and cage cards go on
// the warden's board; everything else on the wanderer's. A BUFF_TURNO totem
// played onto an occupied own slot permanently strengthens that occupant.
func (e *Engine) PlayCard(gs *GameState, handIndex int, side Side, slot int) *GameState {
	if reason := checkTurn(gs); reason != "" {
		return rejected(gs, reason)
	}
	card, reason := checkHand(gs, handIndex)
	if reason != "" {
		return rejected(gs, reason)
	}
	board := gs.BoardOf(side)
	if !board.InRange(slot) {
		return rejected(gs, fmt.Sprintf("There is no slot %d.", slot+1))
	}
	if card.Card.IsPassive() != (side == SideWarden) {
		if side == SideWarden {
			return rejected(gs, fmt.Sprintf("%s cannot be placed on the Warden's side.", card.Name()))
		}
		return rejected(gs, fmt.Sprintf("%s must be set on the Warden's side.", card.Name()))
	}
	if card.Card.Cost > gs.Seeds {
		return rejected(gs, fmt.Sprintf("%s needs %d seeds.", card.Name(), card.Card.Cost))
	}

	occupant := board[slot]
	totemBuff := side == SideWanderer && card.Card.Type == CardTypeTotem && card.Has(SigilBuffTurno)
	if occupant != nil && !totemBuff {
		return rejected(gs, fmt.Sprintf("Slot %d is already taken.", slot+1))
	}

	next := gs.Clone()
	placed := next.Hand[handIndex]
	next.Seeds -= card.Card.Cost
	next.Hand = append(next.Hand[:handIndex], next.Hand[handIndex+1:]...)
	b := next.BoardOf(side)

	if occupant != nil {
		target := b[slot]
		target.BaseATK++
		target.ATK++
		next.log(log.NewBuffEvent(next.Turn, card.Name(), target.Name(), 1))
		return next
	}

	b[slot] = placed
	next.log(log.NewPlayCardEvent(next.Turn, int(side), placed.Name(), slot))
	eachSigil(placed, func(_ Sigil, eff sigilEffect) {
		if eff.played != nil {
			eff.played(e, next, side, slot)
		}
	})
	return next
}

// SacrificeCard discards a hand card for a seed refund based on its cost.
func (e *Engine) SacrificeCard(gs *GameState, handIndex int) *GameState {
	if reason := checkTurn(gs); reason != "" {
		return rejected(gs, reason)
	}
	card, reason := checkHand(gs, handIndex)
	if reason != "" {
		return rejected(gs, reason)
	}
	next := gs.Clone()
	next.Hand = append(next.Hand[:handIndex], next.Hand[handIndex+1:]...)
	old := next.Seeds
	next.AddSeeds(e.Rules.SacrificeRefund(card.Card.Cost), e.Rules.MaxSeeds)
	next.log(log.NewSacrificeEvent(next.Turn, card.Name(), next.Seeds-old))
	return next
}

// FinishTurn commits the wanderer's turn: a full tick plus the warden's restock.
func (e *Engine) FinishTurn(gs *GameState) (*GameState, *TickResult) {
	if reason := checkTurn(gs); reason != "" {
		return rejected(gs, reason), nil
	}
	return e.EndTurn(gs, false)
}

// SkipAndDraw forgoes the wanderer's attacks this tick. The warden still
// attacks and the usual draw follows.
func (e *Engine) SkipAndDraw(gs *GameState) (*GameState, *TickResult) {
	if reason := checkTurn(gs); reason != "" {
		return rejected(gs, reason), nil
	}
	return e.EndTurn(gs, true)
}

// Apply dispatches an action to the matching operation. The TickResult is
// nil for actions that do not run combat.
func (e *Engine) Apply(gs *GameState, a Action) (*GameState, *TickResult) {
	switch a.Type {
	case ActionPlayCard:
		return e.PlayCard(gs, a.HandIndex, a.Side, a.Slot), nil
	case ActionSacrifice:
		return e.SacrificeCard(gs, a.HandIndex), nil
	case ActionEndTurn:
		return e.FinishTurn(gs)
	case ActionSkipAndDraw:
		return e.SkipAndDraw(gs)
	case ActionStartGame:
		return e.StartGame(gs), nil
	case ActionStartLevel:
		return e.StartLevel(gs, a.Level), nil
	case ActionProceed:
		return e.Proceed(gs), nil
	case ActionResetToMenu:
		return e.ResetToMenu(gs), nil
	default:
		return rejected(gs, fmt.Sprintf("Unknown action %q.", a.Type)), nil
	}
}
