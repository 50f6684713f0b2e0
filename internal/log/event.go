package log

// EventType enumerates all observable game events.
type EventType int

const (
	EventLevelStart EventType = iota
	EventCombatStart
	EventHesitate
	EventPlayCard
	EventBuff
	EventBarrier
	EventSacrifice
	EventRejected
	EventHeal
	EventShieldBlock
	EventDamage
	EventDirectDamage
	EventThorns
	EventDetonate
	EventSteal
	EventPoison
	EventStunned
	EventDestroy
	EventToken
	EventEvolve
	EventMove
	EventSeeds
	EventQueueArrive
	EventTrap
	EventCage
	EventObstacle
	EventSpawn
	EventBoss
	EventDraw
	EventLevelWon
	EventLoss
	EventNarrative
)

func (e EventType) String() string {
	switch e {
	case EventLevelStart:
		return "LevelStart"
	case EventCombatStart:
		return "CombatStart"
	case EventHesitate:
		return "Hesitate"
	case EventPlayCard:
		return "PlayCard"
	case EventBuff:
		return "Buff"
	case EventBarrier:
		return "Barrier"
	case EventSacrifice:
		return "Sacrifice"
	case EventRejected:
		return "Rejected"
	case EventHeal:
		return "Heal"
	case EventShieldBlock:
		return "ShieldBlock"
	case EventDamage:
		return "Damage"
	case EventDirectDamage:
		return "DirectDamage"
	case EventThorns:
		return "Thorns"
	case EventDetonate:
		return "Detonate"
	case EventSteal:
		return "Steal"
	case EventPoison:
		return "Poison"
	case EventStunned:
		return "Stunned"
	case EventDestroy:
		return "Destroy"
	case EventToken:
		return "Token"
	case EventEvolve:
		return "Evolve"
	case EventMove:
		return "Move"
	case EventSeeds:
		return "Seeds"
	case EventQueueArrive:
		return "QueueArrive"
	case EventTrap:
		return "Trap"
	case EventCage:
		return "Cage"
	case EventObstacle:
		return "Obstacle"
	case EventSpawn:
		return "Spawn"
	case EventBoss:
		return "Boss"
	case EventDraw:
		return "Draw"
	case EventLevelWon:
		return "LevelWon"
	case EventLoss:
		return "Loss"
	case EventNarrative:
		return "Narrative"
	default:
		return "Unknown"
	}
}

// Player indices used in events.
const (
	Wanderer = 0
	Warden   = 1
)

// GameEvent represents a single observable event in a game.
type GameEvent struct {
	Seq     int       // monotonic sequence number
	Turn    int       // which turn (1-based)
	Phase   string    // engine step that produced the event (e.g. "Player Attack")
	Player  int       // acting side (Wanderer or Warden)
	Type    EventType // event type
	Card    string    // card name (if applicable)
	Details string    // human-readable detail string
}
