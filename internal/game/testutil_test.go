package game

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/peterkuimelis/warden/internal/log"
)

// ScriptedRand replays fixed sequences. Once a sequence runs out, Intn
// returns 0 and Float64 returns 0.999 so no random event fires.
type ScriptedRand struct {
	ints   []int
	floats []float64
}

func NewScriptedRand() *ScriptedRand {
	return &ScriptedRand{}
}

func (r *ScriptedRand) AddInts(v ...int) *ScriptedRand {
	r.ints = append(r.ints, v...)
	return r
}

func (r *ScriptedRand) AddFloats(v ...float64) *ScriptedRand {
	r.floats = append(r.floats, v...)
	return r
}

func (r *ScriptedRand) Intn(n int) int {
	if len(r.ints) == 0 {
		return 0
	}
	v := r.ints[0]
	r.ints = r.ints[1:]
	return v % n
}

func (r *ScriptedRand) Float64() float64 {
	if len(r.floats) == 0 {
		return 0.999
	}
	v := r.floats[0]
	r.floats = r.floats[1:]
	return v
}

// newTestEngine returns an engine over the embedded catalog and default rules.
func newTestEngine(t *testing.T, rng *ScriptedRand) *Engine {
	t.Helper()
	if rng == nil {
		rng = NewScriptedRand()
	}
	return NewEngine(DefaultCatalog(), DefaultRules(), rng)
}

// newPlayingState returns an empty mid-run state on the given level.
func newPlayingState(e *Engine, level int) *GameState {
	r := e.Rules
	return &GameState{
		PlayerBoard:   NewBoard(r.BoardSize),
		OpponentBoard: NewBoard(r.BoardSize),
		Queue:         NewBoard(r.BoardSize),
		Seeds:         0,
		PlayerHP:      r.StartingHealth,
		OpponentHP:    20,
		Turn:          1,
		Level:         level,
		IsPlayerTurn:  true,
		Status:        StatusPlaying,
	}
}

// testCard builds a standalone definition for resolver tests.
func testCard(name string, atk, hp int, sigils ...Sigil) *Card {
	return &Card{Name: name, ATK: atk, HP: hp, Cost: 1, Sigils: NewSigilSet(sigils...)}
}

// put stamps c into a slot and returns the instance.
func put(b Board, slot int, c *Card) *CardInstance {
	ci := NewInstance(c)
	b[slot] = ci
	return ci
}

// lookup fetches a catalog definition, failing the test if it is missing.
func lookup(t *testing.T, e *Engine, name string) *Card {
	t.Helper()
	c, err := e.Catalog.Lookup(name)
	require.NoError(t, err)
	return c
}

// findByID returns the instance with the given id on board, or nil.
func findByID(b Board, id string) *CardInstance {
	for _, ci := range b {
		if ci != nil && ci.ID == id {
			return ci
		}
	}
	return nil
}

func eventsOfType(gs *GameState, et log.EventType) []log.GameEvent {
	return log.OfType(gs.Log, et)
}
