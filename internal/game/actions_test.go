package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/peterkuimelis/warden/internal/log"
)

func handOf(t *testing.T, e *Engine, names ...string) []*CardInstance {
	t.Helper()
	var hand []*CardInstance
	for _, n := range names {
		hand = append(hand, NewInstance(lookup(t, e, n)))
	}
	return hand
}

func TestPlayCardPlacesHandInstance(t *testing.T) {
	e := newTestEngine(t, nil)
	gs := newPlayingState(e, 2)
	gs.Seeds = 3
	gs.Hand = handOf(t, e, "Scoiattolo", "Lupacchiotto")
	cub := gs.Hand[1]

	next := e.PlayCard(gs, 1, SideWanderer, 2)

	require.False(t, IsRejection(next))
	require.NotNil(t, next.PlayerBoard[2])
	assert.Equal(t, cub.ID, next.PlayerBoard[2].ID, "the instance moves, it is not copied")
	assert.Equal(t, 1, next.Seeds)
	require.Len(t, next.Hand, 1)
	assert.Equal(t, "Scoiattolo", next.Hand[0].Name())
	assert.Len(t, eventsOfType(next, log.EventPlayCard), 1)
	assert.Len(t, gs.Hand, 2, "input state is untouched")
}

func TestPlayCardRejections(t *testing.T) {
	e := newTestEngine(t, nil)
	base := newPlayingState(e, 2)
	base.Seeds = 2
	base.Hand = handOf(t, e, "Orso", "Scoiattolo", "Trappola")
	put(base.PlayerBoard, 0, testCard("Blocker", 1, 1))

	for name, tc := range map[string]struct {
		mutate func(gs *GameState)
		hand   int
		side   Side
		slot   int
	}{
		"not enough seeds":      {hand: 0, side: SideWanderer, slot: 1},
		"occupied slot":         {hand: 1, side: SideWanderer, slot: 0},
		"bad hand index":        {hand: 9, side: SideWanderer, slot: 1},
		"bad slot":              {hand: 1, side: SideWanderer, slot: 4},
		"creature on warden":    {hand: 1, side: SideWarden, slot: 1},
		"trap on own board":     {hand: 2, side: SideWanderer, slot: 1},
		"out of turn":           {hand: 1, side: SideWanderer, slot: 1, mutate: func(gs *GameState) { gs.IsPlayerTurn = false }},
		"not playing":           {hand: 1, side: SideWanderer, slot: 1, mutate: func(gs *GameState) { gs.Status = StatusMenu }},
		"game already lost":     {hand: 1, side: SideWanderer, slot: 1, mutate: func(gs *GameState) { gs.Status = StatusPlayerLoss }},
		"level already cleared": {hand: 1, side: SideWanderer, slot: 1, mutate: func(gs *GameState) { gs.Status = StatusLevelTransition }},
	} {
		t.Run(name, func(t *testing.T) {
			gs := base.Clone()
			if tc.mutate != nil {
				tc.mutate(gs)
			}
			next := e.PlayCard(gs, tc.hand, tc.side, tc.slot)
			require.True(t, IsRejection(next))
			assert.Equal(t, gs.Seeds, next.Seeds)
			assert.Len(t, next.Hand, len(gs.Hand))
			assert.Equal(t, gs.PlayerBoard.Occupied(), next.PlayerBoard.Occupied())
			assert.Equal(t, gs.OpponentBoard.Occupied(), next.OpponentBoard.Occupied())
			assert.Len(t, next.Log, len(gs.Log)+1)
		})
	}
}

func TestPlayTrapOnWardenBoard(t *testing.T) {
	e := newTestEngine(t, nil)
	gs := newPlayingState(e, 2)
	gs.Seeds = 2
	gs.Hand = handOf(t, e, "Trappola")

	next := e.PlayCard(gs, 0, SideWarden, 3)

	require.False(t, IsRejection(next))
	require.NotNil(t, next.OpponentBoard[3])
	assert.Equal(t, "Trappola", next.OpponentBoard[3].Name())
	assert.Equal(t, 0, next.Seeds)
}

func TestPlayTotemBuffsOccupant(t *testing.T) {
	e := newTestEngine(t, nil)
	gs := newPlayingState(e, 2)
	gs.Seeds = 1
	gs.Hand = handOf(t, e, "Totem Lupacchiotto")
	biter := put(gs.PlayerBoard, 1, testCard("Biter", 2, 4))

	next := e.PlayCard(gs, 0, SideWanderer, 1)

	require.False(t, IsRejection(next))
	buffed := next.PlayerBoard[1]
	assert.Equal(t, biter.ID, buffed.ID)
	assert.Equal(t, 3, buffed.BaseATK)
	assert.Equal(t, 3, buffed.ATK)
	assert.Empty(t, next.Hand)
	assert.Equal(t, 0, next.Seeds)

	after, _ := e.ResolveTurn(next, false)
	assert.Equal(t, 3, findByID(after.PlayerBoard, biter.ID).ATK, "the buff survives the start-of-combat reset")
}

func TestPlayCollectiveBarrier(t *testing.T) {
	e := newTestEngine(t, nil)
	gs := newPlayingState(e, 2)
	gs.Seeds = 4
	gs.Hand = handOf(t, e, "Castoro")
	left := put(gs.PlayerBoard, 0, testCard("Left", 1, 3))
	far := put(gs.PlayerBoard, 3, testCard("Far", 1, 2))

	next := e.PlayCard(gs, 0, SideWanderer, 1)

	require.False(t, IsRejection(next))
	l := findByID(next.PlayerBoard, left.ID)
	assert.Equal(t, 5, l.HP)
	assert.Equal(t, 5, l.MaxHP)
	assert.Equal(t, 4, findByID(next.PlayerBoard, far.ID).HP)
	assert.Equal(t, 2, next.PlayerBoard[1].HP, "the beaver does not shield itself")
	assert.Len(t, eventsOfType(next, log.EventBarrier), 1)
}

func TestSacrificeRefunds(t *testing.T) {
	e := newTestEngine(t, nil)
	for _, tc := range []struct {
		name   string
		seeds  int
		refund int
	}{
		{"Scoiattolo", 0, 1},
		{"Volpe", 0, 2},
		{"Pipistrello", 0, 3},
		{"Mostro del lago", 0, 3},
		{"Mostro del lago", 9, 1},
	} {
		gs := newPlayingState(e, 2)
		gs.Seeds = tc.seeds
		gs.Hand = handOf(t, e, tc.name)

		next := e.SacrificeCard(gs, 0)

		assert.Equal(t, tc.seeds+tc.refund, next.Seeds, tc.name)
		assert.Empty(t, next.Hand)
		assert.Len(t, eventsOfType(next, log.EventSacrifice), 1)
	}
}

func TestSacrificeRejectsBadIndex(t *testing.T) {
	e := newTestEngine(t, nil)
	gs := newPlayingState(e, 2)

	next := e.SacrificeCard(gs, 0)

	assert.True(t, IsRejection(next))
	assert.Equal(t, gs.Seeds, next.Seeds)
}

func TestFinishTurnOutOfTurn(t *testing.T) {
	e := newTestEngine(t, nil)
	gs := newPlayingState(e, 2)
	gs.IsPlayerTurn = false

	next, res := e.FinishTurn(gs)

	assert.True(t, IsRejection(next))
	assert.Nil(t, res)
	assert.Equal(t, 1, next.Turn)
}

func TestSkipAndDraw(t *testing.T) {
	e := newTestEngine(t, nil)
	gs := newPlayingState(e, 2)
	put(gs.PlayerBoard, 0, testCard("Biter", 2, 4))

	next, res := e.SkipAndDraw(gs)

	require.NotNil(t, res)
	assert.True(t, res.PlayerSkipped)
	assert.Equal(t, 20, next.OpponentHP)
	assert.Len(t, next.Hand, 1)
	assert.Equal(t, 2, next.Turn)
}

func TestApplyDispatch(t *testing.T) {
	e := newTestEngine(t, nil)
	gs := e.NewGame()

	gs, res := e.Apply(gs, Action{Type: ActionStartGame})
	assert.Nil(t, res)
	assert.Equal(t, StatusPlaying, gs.Status)

	gs, res = e.Apply(gs, Action{Type: ActionEndTurn})
	require.NotNil(t, res)
	assert.Equal(t, 2, gs.Turn)

	gs, _ = e.Apply(gs, Action{Type: ActionType(99)})
	assert.True(t, IsRejection(gs))

	gs, _ = e.Apply(gs, Action{Type: ActionResetToMenu})
	assert.Equal(t, StatusMenu, gs.Status)
}
