package game

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/peterkuimelis/warden/internal/log"
)

// fakeNarrator holds deliveries until the test releases them.
type fakeNarrator struct {
	mu      sync.Mutex
	intros  []int
	lines   []string
	pending []func(string)
}

func (n *fakeNarrator) RequestOpponentLine(_ *GameState, lineContext string, deliver func(string)) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.lines = append(n.lines, lineContext)
	n.pending = append(n.pending, deliver)
}

func (n *fakeNarrator) RequestLevelIntro(level int, deliver func(string)) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.intros = append(n.intros, level)
	n.pending = append(n.pending, deliver)
}

func (n *fakeNarrator) deliver(i int, line string) {
	n.mu.Lock()
	d := n.pending[i]
	n.mu.Unlock()
	d(line)
}

type recordingPresenter struct {
	mu       sync.Mutex
	outcomes []Outcome
	lines    []string
	err      error
}

func (p *recordingPresenter) Present(_ context.Context, out Outcome) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.outcomes = append(p.outcomes, out)
	return p.err
}

func (p *recordingPresenter) PresentLine(_ context.Context, line string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.lines = append(p.lines, line)
	return p.err
}

func newTestSession(t *testing.T) (*Session, *fakeNarrator, *recordingPresenter) {
	t.Helper()
	n := &fakeNarrator{}
	p := &recordingPresenter{}
	s := NewSession(newTestEngine(t, nil), SessionConfig{Narrator: n})
	s.AddPresenter(p)
	return s, n, p
}

func TestSessionStartsInMenu(t *testing.T) {
	s, _, _ := newTestSession(t)

	assert.Equal(t, StatusMenu, s.State().Status)
	assert.Equal(t, MenuLine, s.WardenLine())
	assert.False(t, s.Busy())
}

func TestSessionStartGameRequestsIntro(t *testing.T) {
	s, n, p := newTestSession(t)

	out := s.Apply(context.Background(), Action{Type: ActionStartGame})

	require.False(t, out.Rejected)
	assert.Nil(t, out.Tick)
	assert.Equal(t, StatusPlaying, s.State().Status)
	assert.NotEmpty(t, out.Events)
	require.Equal(t, []int{1}, n.intros)
	require.Len(t, p.outcomes, 1)

	n.deliver(0, "Il sentiero ti chiama.")
	assert.Equal(t, "Il sentiero ti chiama.", s.WardenLine())
	assert.Equal(t, []string{"Il sentiero ti chiama."}, p.lines)
}

func TestSessionRejectsWhileBusy(t *testing.T) {
	s, _, p := newTestSession(t)
	before := s.State()
	s.busy.Store(true)

	out := s.Apply(context.Background(), Action{Type: ActionStartGame})

	assert.True(t, out.Rejected)
	assert.Same(t, before, s.State())
	assert.Empty(t, p.outcomes)
}

func TestSessionEndTurnRequestsOpponentLine(t *testing.T) {
	s, n, p := newTestSession(t)
	ctx := context.Background()
	s.Apply(ctx, Action{Type: ActionStartGame})

	out := s.Apply(ctx, Action{Type: ActionEndTurn})

	require.NotNil(t, out.Tick)
	assert.Equal(t, 2, s.State().Turn)
	assert.Equal(t, []string{turnLineContext}, n.lines)
	assert.Len(t, p.outcomes, 2)
}

func TestSessionIgnoresStaleLines(t *testing.T) {
	s, n, _ := newTestSession(t)
	ctx := context.Background()
	s.Apply(ctx, Action{Type: ActionStartGame})
	s.Apply(ctx, Action{Type: ActionEndTurn})

	n.deliver(1, "fresh")
	n.deliver(0, "stale")

	assert.Equal(t, "fresh", s.WardenLine())
}

func TestSessionBossLevelSkipsNarrator(t *testing.T) {
	s, n, _ := newTestSession(t)
	ctx := context.Background()
	s.Apply(ctx, Action{Type: ActionStartGame})

	out := s.Apply(ctx, Action{Type: ActionStartLevel, Level: 5})

	require.False(t, out.Rejected)
	assert.Equal(t, "TREMATE. SILVA È QUI PER DIVORARVI.", s.WardenLine())
	assert.Equal(t, []int{1}, n.intros)
}

func TestSessionRejectedActionIsNotNarrated(t *testing.T) {
	s, n, p := newTestSession(t)

	out := s.Apply(context.Background(), Action{Type: ActionEndTurn})

	assert.True(t, out.Rejected)
	require.Len(t, out.Events, 1)
	assert.Empty(t, n.intros)
	assert.Empty(t, n.lines)
	assert.Len(t, p.outcomes, 1)
	assert.Equal(t, MenuLine, s.WardenLine())
}

func TestSessionResetRestoresMenuLine(t *testing.T) {
	s, n, _ := newTestSession(t)
	ctx := context.Background()
	s.Apply(ctx, Action{Type: ActionStartGame})
	n.deliver(0, "intro")

	s.Apply(ctx, Action{Type: ActionResetToMenu})

	assert.Equal(t, MenuLine, s.WardenLine())
	assert.Equal(t, StatusMenu, s.State().Status)
}

func TestSessionToleratesPresenterErrors(t *testing.T) {
	s, _, p := newTestSession(t)
	p.err = errors.New("socket closed")

	out := s.Apply(context.Background(), Action{Type: ActionStartGame})

	assert.False(t, out.Rejected)
	assert.Equal(t, StatusPlaying, s.State().Status)
	assert.False(t, s.Busy())
}

func TestSessionJournal(t *testing.T) {
	n := &fakeNarrator{}
	journal := log.NewMemoryLogger()
	s := NewSession(newTestEngine(t, nil), SessionConfig{Narrator: n, Journal: journal})
	ctx := context.Background()

	start := s.Apply(ctx, Action{Type: ActionStartGame})
	require.Len(t, journal.Events(), len(start.Events))
	assert.Len(t, journal.EventsOfType(log.EventLevelStart), 1)

	s.Apply(ctx, Action{Type: ActionSacrifice, HandIndex: 99})
	assert.Equal(t, log.EventRejected, journal.LastEvent().Type)

	n.deliver(0, "Benvenuto.")
	last := journal.LastEvent()
	assert.Equal(t, log.EventNarrative, last.Type)
	assert.Equal(t, "Benvenuto.", last.Details)
	assert.Equal(t, len(journal.Events()), last.Seq)
}
