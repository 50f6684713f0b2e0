package game

import (
	"fmt"

	"github.com/google/uuid"
)

// --- Card definition (static, from the catalog) ---

type Card struct {
	Name        string
	Description string
	Type        CardType
	ATK         int
	HP          int
	Cost        int
	Sigils      SigilSet

	EvolvesInto string // EVOLUZIONE target definition
	SynergyWith string // +1 ATK while a card with this name shares the board
	Token       string // card left behind (CODA_REAZIONE) or handed out (SERBATOIO)
}

func (c *Card) String() string {
	return c.Name
}

// Has reports whether the definition carries the sigil.
func (c *Card) Has(s Sigil) bool {
	return c.Sigils.Has(s)
}

// IsPassive reports whether the card is a trap or cage that never attacks.
func (c *Card) IsPassive() bool {
	return c.Has(SigilTrappola) || c.Has(SigilGabbia)
}

// --- CardInstance (runtime card on a board, in the queue or in hand) ---

type CardInstance struct {
	Card *Card
	ID   string // globally unique

	ATK     int // current, recomputed every tick
	HP      int // current
	BaseATK int // value ATK resets to at the start of combat
	BaseHP  int
	MaxHP   int // healing ceiling

	Age      int  // ticks survived on the board
	Shielded bool // absorbs the next hit
	Stunned  bool // skips its next attack
}

// NewInstance stamps a definition into a fresh, uniquely identified instance.
func NewInstance(c *Card) *CardInstance {
	return &CardInstance{
		Card:     c,
		ID:       uuid.NewString(),
		ATK:      c.ATK,
		HP:       c.HP,
		BaseATK:  c.ATK,
		BaseHP:   c.HP,
		MaxHP:    c.HP,
		Shielded: c.Has(SigilCorazza),
	}
}

// Clone returns a copy sharing the definition and the id.
func (ci *CardInstance) Clone() *CardInstance {
	if ci == nil {
		return nil
	}
	cp := *ci
	return &cp
}

// Has reports whether the instance's definition carries the sigil.
func (ci *CardInstance) Has(s Sigil) bool {
	return ci.Card.Has(s)
}

// Name returns the definition name.
func (ci *CardInstance) Name() string {
	return ci.Card.Name
}

func (ci *CardInstance) String() string {
	if ci == nil {
		return "(empty)"
	}
	return ci.DisplayString()
}

// DisplayString returns a human-readable description for the event log.
func (ci *CardInstance) DisplayString() string {
	if ci == nil {
		return "(empty)"
	}
	s := fmt.Sprintf("%s (%d/%d)", ci.Card.Name, ci.ATK, ci.HP)
	if ci.Shielded {
		s += " [shield]"
	}
	if ci.Stunned {
		s += " [stunned]"
	}
	return s
}

// heal raises HP by amount without passing MaxHP. It reports whether HP changed.
func (ci *CardInstance) heal(amount int) bool {
	if ci.HP >= ci.MaxHP {
		return false
	}
	ci.HP = min(ci.MaxHP, ci.HP+amount)
	return true
}
