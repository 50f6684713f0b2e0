package game

import (
	"fmt"
	"strings"
)

// --- Enums ---

type Side int

const (
	SideWanderer Side = iota
	SideWarden
)

func (s Side) String() string {
	if s == SideWarden {
		return "Warden"
	}
	return "Wanderer"
}

// Opposite returns the other side of the table.
func (s Side) Opposite() Side {
	return 1 - s
}

type CardType int

const (
	CardTypeBeast CardType = iota
	CardTypePlant
	CardTypeInsect
	CardTypeTotem
	CardTypeSpecial
	CardTypeObstacle
)

var cardTypeNames = [...]string{"BEAST", "PLANT", "INSECT", "TOTEM", "SPECIAL", "OBSTACLE"}

func (ct CardType) String() string {
	if ct < 0 || int(ct) >= len(cardTypeNames) {
		return "UNKNOWN"
	}
	return cardTypeNames[ct]
}

// ParseCardType maps a catalog type name to a CardType. An empty name is a beast.
func ParseCardType(name string) (CardType, error) {
	if name == "" {
		return CardTypeBeast, nil
	}
	for i, n := range cardTypeNames {
		if strings.EqualFold(n, name) {
			return CardType(i), nil
		}
	}
	return 0, fmt.Errorf("unknown card type %q", name)
}

// Sigil is a special-ability tag carried by a card definition.
type Sigil int

// The declaration order is the canonical order in which sigil effects are applied.
const (
	SigilSemiMorte Sigil = iota
	SigilIntimidazione
	SigilForzaBranco
	SigilCura
	SigilBuffTurno
	SigilCorazza
	SigilLadro
	SigilDiretto
	SigilTrappola
	SigilEvoluzione
	SigilSinfonia
	SigilParata
	SigilSpine
	SigilVeleno
	SigilBarriera
	SigilSerbatoio
	SigilBranco
	SigilCecchino
	SigilVolo
	SigilLadroMano
	SigilCodaReazione
	SigilAuraATK
	SigilAuraHP
	SigilGabbia
	SigilVampirismo
	SigilEsalazione
	SigilDetonazione
	SigilBarrieraCollettiva
	SigilMovimentoCasuale

	sigilCount
)

var sigilNames = [sigilCount]string{
	"SEMI_MORTE",
	"INTIMIDAZIONE",
	"FORZA_BRANCO",
	"CURA",
	"BUFF_TURNO",
	"CORAZZA",
	"LADRO",
	"DIRETTO",
	"TRAPPOLA",
	"EVOLUZIONE",
	"SINFONIA",
	"PARATA",
	"SPINE",
	"VELENO",
	"BARRIERA",
	"SERBATOIO",
	"BRANCO",
	"CECCHINO",
	"VOLO",
	"LADRO_MANO",
	"CODA_REAZIONE",
	"AURA_ATK",
	"AURA_HP",
	"GABBIA",
	"VAMPIRISMO",
	"ESALAZIONE",
	"DETONAZIONE",
	"BARRIERA_COLLETTIVA",
	"MOVIMENTO_CASUALE",
}

func (s Sigil) String() string {
	if s < 0 || s >= sigilCount {
		return "UNKNOWN"
	}
	return sigilNames[s]
}

// ParseSigil maps a catalog sigil name to a Sigil.
func ParseSigil(name string) (Sigil, error) {
	for i, n := range sigilNames {
		if strings.EqualFold(n, name) {
			return Sigil(i), nil
		}
	}
	return 0, fmt.Errorf("unknown sigil %q", name)
}

// SigilSet is a duplicate-free set of sigils.
type SigilSet uint64

// NewSigilSet builds a set from the given sigils.
func NewSigilSet(sigils ...Sigil) SigilSet {
	var set SigilSet
	for _, s := range sigils {
		set |= 1 << uint(s)
	}
	return set
}

// Has reports whether s is in the set.
func (set SigilSet) Has(s Sigil) bool {
	return set&(1<<uint(s)) != 0
}

// Empty reports whether the set carries no sigils.
func (set SigilSet) Empty() bool {
	return set == 0
}

// Slice returns the sigils in canonical order.
func (set SigilSet) Slice() []Sigil {
	var out []Sigil
	for s := Sigil(0); s < sigilCount; s++ {
		if set.Has(s) {
			out = append(out, s)
		}
	}
	return out
}

// Names returns the catalog names of the sigils in canonical order.
func (set SigilSet) Names() []string {
	var out []string
	for _, s := range set.Slice() {
		out = append(out, s.String())
	}
	return out
}

// Status is the lifecycle state of a game.
type Status int

const (
	StatusMenu Status = iota
	StatusPlaying
	StatusPlayerLoss
	StatusLevelTransition
)

func (s Status) String() string {
	switch s {
	case StatusMenu:
		return "MENU"
	case StatusPlaying:
		return "PLAYING"
	case StatusPlayerLoss:
		return "PLAYER_LOSS"
	case StatusLevelTransition:
		return "LEVEL_TRANSITION"
	default:
		return "UNKNOWN"
	}
}

// ResolvePhase names one ordered step of a combat tick.
type ResolvePhase int

const (
	PhaseAging ResolvePhase = iota
	PhaseStartOfCombat
	PhaseDynamicStats
	PhasePlayerAttack
	PhaseOpponentAttack
	PhaseDeath
	PhaseMovement
	PhaseEconomy
	PhaseWarden
)

func (p ResolvePhase) String() string {
	switch p {
	case PhaseAging:
		return "Aging"
	case PhaseStartOfCombat:
		return "Start of Combat"
	case PhaseDynamicStats:
		return "Dynamic Stats"
	case PhasePlayerAttack:
		return "Player Attack"
	case PhaseOpponentAttack:
		return "Warden Attack"
	case PhaseDeath:
		return "Death"
	case PhaseMovement:
		return "Movement"
	case PhaseEconomy:
		return "Economy"
	case PhaseWarden:
		return "Warden"
	default:
		return ""
	}
}

// --- Action types ---

type ActionType int

const (
	ActionPlayCard ActionType = iota
	ActionSacrifice
	ActionEndTurn
	ActionSkipAndDraw
	ActionStartGame
	ActionStartLevel
	ActionProceed
	ActionResetToMenu
)

func (a ActionType) String() string {
	switch a {
	case ActionPlayCard:
		return "Play Card"
	case ActionSacrifice:
		return "Sacrifice"
	case ActionEndTurn:
		return "End Turn"
	case ActionSkipAndDraw:
		return "Skip and Draw"
	case ActionStartGame:
		return "Start Game"
	case ActionStartLevel:
		return "Start Level"
	case ActionProceed:
		return "Proceed"
	case ActionResetToMenu:
		return "Reset to Menu"
	default:
		return "Unknown"
	}
}

// Action represents a player action with all necessary details.
type Action struct {
	Type      ActionType
	HandIndex int  // card in hand (PlayCard, Sacrifice)
	Side      Side // board the card is played onto (PlayCard)
	Slot      int  // target slot (PlayCard)
	Level     int  // level to start (StartLevel)
}

func (a Action) String() string {
	switch a.Type {
	case ActionPlayCard:
		return fmt.Sprintf("%s (hand %d → %s slot %d)", a.Type, a.HandIndex, a.Side, a.Slot+1)
	case ActionSacrifice:
		return fmt.Sprintf("%s (hand %d)", a.Type, a.HandIndex)
	case ActionStartLevel:
		return fmt.Sprintf("%s %d", a.Type, a.Level)
	default:
		return a.Type.String()
	}
}
