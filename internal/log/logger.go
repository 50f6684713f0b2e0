package log

import (
	"fmt"
	"io"
	"strings"
	"sync"
)

// EventLogger is the interface for logging game events. Implementations are
// safe for concurrent use.
type EventLogger interface {
	Log(event GameEvent)
	Events() []GameEvent
}

// --- MemoryLogger: stores events in memory for test assertions ---

type MemoryLogger struct {
	mu     sync.Mutex
	events []GameEvent
	seq    int
}

func NewMemoryLogger() *MemoryLogger {
	return &MemoryLogger{}
}

func (l *MemoryLogger) Log(event GameEvent) {
	l.record(event)
}

// record stores event with the next sequence number and returns it.
func (l *MemoryLogger) record(event GameEvent) GameEvent {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.seq++
	event.Seq = l.seq
	l.events = append(l.events, event)
	return event
}

func (l *MemoryLogger) Events() []GameEvent {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]GameEvent(nil), l.events...)
}

// EventsOfType returns all events matching the given type.
func (l *MemoryLogger) EventsOfType(t EventType) []GameEvent {
	return OfType(l.Events(), t)
}

// LastEvent returns the most recent event, or a zero event if none.
func (l *MemoryLogger) LastEvent() GameEvent {
	events := l.Events()
	if len(events) == 0 {
		return GameEvent{}
	}
	return events[len(events)-1]
}

// --- TextLogger: writes human-readable lines to an io.Writer ---

type TextLogger struct {
	MemoryLogger
	wmu sync.Mutex
	w   io.Writer
}

func NewTextLogger(w io.Writer) *TextLogger {
	return &TextLogger{w: w}
}

func (l *TextLogger) Log(event GameEvent) {
	event = l.record(event)
	l.wmu.Lock()
	defer l.wmu.Unlock()
	fmt.Fprintln(l.w, FormatEvent(event))
}

// OfType filters events by type.
func OfType(events []GameEvent, t EventType) []GameEvent {
	var result []GameEvent
	for _, e := range events {
		if e.Type == t {
			result = append(result, e)
		}
	}
	return result
}

// --- Formatting ---

// SideName returns "Wanderer" or "Warden" for display.
func SideName(p int) string {
	if p == Warden {
		return "Warden"
	}
	return "Wanderer"
}

// FormatEvent formats a single event as a human-readable line.
func FormatEvent(e GameEvent) string {
	phase := e.Phase
	if phase == "" {
		phase = "          "
	}
	// Pad phase to 16 chars for alignment
	for len(phase) < 16 {
		phase += " "
	}

	return fmt.Sprintf("T%-2d %s| %s", e.Turn, phase, e.Details)
}

// FormatAll formats all events as a multi-line string.
func FormatAll(events []GameEvent) string {
	var sb strings.Builder
	for _, e := range events {
		sb.WriteString(FormatEvent(e))
		sb.WriteByte('\n')
	}
	return sb.String()
}

// --- Helper constructors for common events ---

func NewLevelStartEvent(level int, boss bool) GameEvent {
	details := fmt.Sprintf("--- Chapter %d ---", level)
	if boss {
		details = fmt.Sprintf("--- Chapter %d (BOSS FIGHT) ---", level)
	}
	return GameEvent{
		Turn:    1,
		Type:    EventLevelStart,
		Details: details,
	}
}

func NewCombatStartEvent(turn int) GameEvent {
	return GameEvent{
		Turn:    turn,
		Phase:   "Aging",
		Type:    EventCombatStart,
		Details: "--- Combat begins ---",
	}
}

func NewHesitateEvent(turn int) GameEvent {
	return GameEvent{
		Turn:    turn,
		Phase:   "Player Attack",
		Player:  Wanderer,
		Type:    EventHesitate,
		Details: "You hesitated. The Warden takes advantage!",
	}
}

func NewPlayCardEvent(turn int, player int, cardName string, slot int) GameEvent {
	return GameEvent{
		Turn:    turn,
		Player:  player,
		Type:    EventPlayCard,
		Card:    cardName,
		Details: fmt.Sprintf("%s enters the field in %s slot %d", cardName, SideName(player), slot+1),
	}
}

func NewBuffEvent(turn int, source, target string, amount int) GameEvent {
	return GameEvent{
		Turn:    turn,
		Player:  Wanderer,
		Type:    EventBuff,
		Card:    target,
		Details: fmt.Sprintf("%s empowers %s (+%d ATK)", source, target, amount),
	}
}

func NewBarrierEvent(turn int, cardName string, allies int) GameEvent {
	return GameEvent{
		Turn:    turn,
		Player:  Wanderer,
		Type:    EventBarrier,
		Card:    cardName,
		Details: fmt.Sprintf("%s raises a protective barrier over %d allies", cardName, allies),
	}
}

func NewSacrificeEvent(turn int, cardName string, refund int) GameEvent {
	return GameEvent{
		Turn:    turn,
		Player:  Wanderer,
		Type:    EventSacrifice,
		Card:    cardName,
		Details: fmt.Sprintf("Sacrifice: %s (+%d seeds)", cardName, refund),
	}
}

func NewRejectedEvent(turn int, reason string) GameEvent {
	return GameEvent{
		Turn:    turn,
		Player:  Wanderer,
		Type:    EventRejected,
		Details: reason,
	}
}

func NewHealEvent(turn int, phase string, player int, cardName string, hp int) GameEvent {
	return GameEvent{
		Turn:    turn,
		Phase:   phase,
		Player:  player,
		Type:    EventHeal,
		Card:    cardName,
		Details: fmt.Sprintf("Healing dew: %s +1 HP (now %d)", cardName, hp),
	}
}

func NewShieldBlockEvent(turn int, phase string, player int, cardName string) GameEvent {
	return GameEvent{
		Turn:    turn,
		Phase:   phase,
		Player:  player,
		Type:    EventShieldBlock,
		Card:    cardName,
		Details: fmt.Sprintf("%s blocks the blow with its shell", cardName),
	}
}

func NewDamageEvent(turn int, phase string, player int, attacker, defender string, amount, hp int) GameEvent {
	return GameEvent{
		Turn:    turn,
		Phase:   phase,
		Player:  player,
		Type:    EventDamage,
		Card:    attacker,
		Details: fmt.Sprintf("%s hits %s for %d (HP %d)", attacker, defender, amount, hp),
	}
}

func NewDirectDamageEvent(turn int, phase string, player int, attacker string, amount, oldHP, newHP int) GameEvent {
	return GameEvent{
		Turn:    turn,
		Phase:   phase,
		Player:  player,
		Type:    EventDirectDamage,
		Card:    attacker,
		Details: fmt.Sprintf("%s strikes %s directly for %d (HP %d → %d)", attacker, SideName(1-player), amount, oldHP, newHP),
	}
}

func NewThornsEvent(turn int, phase string, player int, defender, attacker string) GameEvent {
	return GameEvent{
		Turn:    turn,
		Phase:   phase,
		Player:  player,
		Type:    EventThorns,
		Card:    defender,
		Details: fmt.Sprintf("The thorns of %s wound %s", defender, attacker),
	}
}

func NewDetonateEvent(turn int, phase string, player int, defender, attacker string) GameEvent {
	return GameEvent{
		Turn:    turn,
		Phase:   phase,
		Player:  player,
		Type:    EventDetonate,
		Card:    defender,
		Details: fmt.Sprintf("BOOM! %s explodes and takes %s with it", defender, attacker),
	}
}

func NewStealEvent(turn int, phase string, thief, victim string) GameEvent {
	return GameEvent{
		Turn:    turn,
		Phase:   phase,
		Player:  Wanderer,
		Type:    EventSteal,
		Card:    victim,
		Details: fmt.Sprintf("%s steals a copy of %s into your hand", thief, victim),
	}
}

func NewPoisonEvent(turn int, phase string, player int, attacker, defender string) GameEvent {
	return GameEvent{
		Turn:    turn,
		Phase:   phase,
		Player:  player,
		Type:    EventPoison,
		Card:    attacker,
		Details: fmt.Sprintf("%s's venom fells %s", attacker, defender),
	}
}

func NewStunnedEvent(turn int, phase string, player int, cardName string) GameEvent {
	return GameEvent{
		Turn:    turn,
		Phase:   phase,
		Player:  player,
		Type:    EventStunned,
		Card:    cardName,
		Details: fmt.Sprintf("%s is stunned and cannot attack", cardName),
	}
}

func NewDestroyEvent(turn int, phase string, player int, cardName string) GameEvent {
	return GameEvent{
		Turn:    turn,
		Phase:   phase,
		Player:  player,
		Type:    EventDestroy,
		Card:    cardName,
		Details: fmt.Sprintf("%s falls (%s side)", cardName, SideName(player)),
	}
}

func NewTokenEvent(turn int, phase string, player int, source, token string) GameEvent {
	return GameEvent{
		Turn:    turn,
		Phase:   phase,
		Player:  player,
		Type:    EventToken,
		Card:    token,
		Details: fmt.Sprintf("%s leaves behind %s", source, token),
	}
}

func NewEvolveEvent(turn int, phase string, player int, from, to string) GameEvent {
	return GameEvent{
		Turn:    turn,
		Phase:   phase,
		Player:  player,
		Type:    EventEvolve,
		Card:    to,
		Details: fmt.Sprintf("%s evolves into %s", from, to),
	}
}

func NewMoveEvent(turn int, phase string, player int, cardName string, from, to int) GameEvent {
	return GameEvent{
		Turn:    turn,
		Phase:   phase,
		Player:  player,
		Type:    EventMove,
		Card:    cardName,
		Details: fmt.Sprintf("%s slips away from slot %d to slot %d", cardName, from+1, to+1),
	}
}

func NewSeedsEvent(turn int, oldSeeds, newSeeds, deathSeeds int) GameEvent {
	return GameEvent{
		Turn:    turn,
		Phase:   "Economy",
		Player:  Wanderer,
		Type:    EventSeeds,
		Details: fmt.Sprintf("Seeds: %d → %d (%d from fallen seed-bearers)", oldSeeds, newSeeds, deathSeeds),
	}
}

func NewQueueArriveEvent(turn int, cardName string, slot int) GameEvent {
	return GameEvent{
		Turn:    turn,
		Phase:   "Warden",
		Player:  Warden,
		Type:    EventQueueArrive,
		Card:    cardName,
		Details: fmt.Sprintf("%s arrives in slot %d", cardName, slot+1),
	}
}

func NewTrapEvent(turn int, cardName string, damage int, survived bool) GameEvent {
	details := fmt.Sprintf("Trap! %s takes %d damage", cardName, damage)
	if !survived {
		details += " and dies"
	}
	return GameEvent{
		Turn:    turn,
		Phase:   "Warden",
		Player:  Warden,
		Type:    EventTrap,
		Card:    cardName,
		Details: details,
	}
}

func NewCageEvent(turn int, cardName string) GameEvent {
	return GameEvent{
		Turn:    turn,
		Phase:   "Warden",
		Player:  Warden,
		Type:    EventCage,
		Card:    cardName,
		Details: fmt.Sprintf("The cage locks %s in place", cardName),
	}
}

func NewObstacleEvent(turn int, cardName string, slot int) GameEvent {
	return GameEvent{
		Turn:    turn,
		Phase:   "Warden",
		Player:  Warden,
		Type:    EventObstacle,
		Card:    cardName,
		Details: fmt.Sprintf("The Warden places %s in slot %d", cardName, slot+1),
	}
}

func NewSpawnEvent(turn int, cardName string, slot int) GameEvent {
	return GameEvent{
		Turn:    turn,
		Phase:   "Warden",
		Player:  Warden,
		Type:    EventSpawn,
		Card:    cardName,
		Details: fmt.Sprintf("Something stirs in queue slot %d", slot+1),
	}
}

func NewBossEvent(level int, cardName string, slot int) GameEvent {
	return GameEvent{
		Turn:    1,
		Player:  Warden,
		Type:    EventBoss,
		Card:    cardName,
		Details: fmt.Sprintf("%s rises in slot %d", cardName, slot+1),
	}
}

func NewDrawEvent(turn int, cardName string) GameEvent {
	return GameEvent{
		Turn:    turn,
		Phase:   "Warden",
		Player:  Wanderer,
		Type:    EventDraw,
		Card:    cardName,
		Details: fmt.Sprintf("You draw %s", cardName),
	}
}

func NewLevelWonEvent(turn int, level int) GameEvent {
	return GameEvent{
		Turn:    turn,
		Phase:   "Economy",
		Player:  Wanderer,
		Type:    EventLevelWon,
		Details: fmt.Sprintf("Chapter %d complete: the Warden falls silent", level),
	}
}

func NewLossEvent(turn int) GameEvent {
	return GameEvent{
		Turn:    turn,
		Phase:   "Economy",
		Player:  Warden,
		Type:    EventLoss,
		Details: "Your flesh will feed the roots.",
	}
}

func NewNarrativeEvent(turn int, line string) GameEvent {
	return GameEvent{
		Turn:    turn,
		Player:  Warden,
		Type:    EventNarrative,
		Details: line,
	}
}
