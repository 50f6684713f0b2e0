package narrative

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/peterkuimelis/warden/internal/game"
)

type stubService struct {
	line    string
	intro   string
	err     error
	calls   atomic.Int32
	release chan struct{}
	lastReq LineRequest
	mu      sync.Mutex
}

func (s *stubService) OpponentLine(ctx context.Context, req LineRequest) (string, error) {
	s.calls.Add(1)
	s.mu.Lock()
	s.lastReq = req
	s.mu.Unlock()
	return s.wait(ctx, s.line)
}

func (s *stubService) LevelIntro(ctx context.Context, _ int) (string, error) {
	s.calls.Add(1)
	return s.wait(ctx, s.intro)
}

func (s *stubService) wait(ctx context.Context, text string) (string, error) {
	if s.release != nil {
		select {
		case <-s.release:
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	return text, s.err
}

func receive(t *testing.T, ch <-chan string) string {
	t.Helper()
	select {
	case line := <-ch:
		return line
	case <-time.After(2 * time.Second):
		t.Fatal("no line delivered")
		return ""
	}
}

func TestRequesterDeliversLine(t *testing.T) {
	svc := &stubService{line: "  Le ossa scricchiolano.  "}
	r := NewRequester(svc, time.Second, nil)
	defer r.Close()
	got := make(chan string, 1)

	r.RequestOpponentLine(&game.GameState{PlayerHP: 4, OpponentHP: 9, Level: 3}, "Turno avversario", func(s string) { got <- s })

	assert.Equal(t, "Le ossa scricchiolano.", receive(t, got))
	svc.mu.Lock()
	defer svc.mu.Unlock()
	assert.Equal(t, LineRequest{PlayerHP: 4, OpponentHP: 9, Level: 3, Context: "Turno avversario"}, svc.lastReq)
}

func TestRequesterFallsBackOnError(t *testing.T) {
	r := NewRequester(&stubService{err: errors.New("boom")}, time.Second, nil)
	defer r.Close()
	got := make(chan string, 2)

	r.RequestOpponentLine(&game.GameState{}, "x", func(s string) { got <- s })
	assert.Equal(t, FallbackOpponentLine, receive(t, got))

	r.RequestLevelIntro(2, func(s string) { got <- s })
	assert.Equal(t, FallbackLevelIntro, receive(t, got))
}

func TestRequesterFallsBackOnTimeout(t *testing.T) {
	r := NewRequester(&stubService{release: make(chan struct{})}, 20*time.Millisecond, nil)
	defer r.Close()
	got := make(chan string, 1)

	r.RequestLevelIntro(1, func(s string) { got <- s })

	assert.Equal(t, FallbackLevelIntro, receive(t, got))
}

func TestRequesterFillsEmptyText(t *testing.T) {
	r := NewRequester(&stubService{}, time.Second, nil)
	defer r.Close()
	got := make(chan string, 2)

	r.RequestLevelIntro(2, func(s string) { got <- s })
	assert.Equal(t, "Benvenuto a La Palude delle Ossa. Pochi tornano da qui.", receive(t, got))

	r.RequestOpponentLine(&game.GameState{}, "x", func(s string) { got <- s })
	assert.Equal(t, quietOpponentLine, receive(t, got))
}

func TestRequesterSharesConcurrentIntros(t *testing.T) {
	svc := &stubService{intro: "Avanti.", release: make(chan struct{})}
	r := NewRequester(svc, time.Second, nil)
	defer r.Close()
	got := make(chan string, 3)

	for range 3 {
		r.RequestLevelIntro(4, func(s string) { got <- s })
	}
	require.Eventually(t, func() bool { return svc.calls.Load() == 1 }, time.Second, 5*time.Millisecond)
	time.Sleep(20 * time.Millisecond)
	close(svc.release)

	for range 3 {
		assert.Equal(t, "Avanti.", receive(t, got))
	}
	assert.Equal(t, int32(1), svc.calls.Load())
}

func TestRequesterCloseDropsPending(t *testing.T) {
	r := NewRequester(&stubService{release: make(chan struct{})}, time.Minute, nil)
	var delivered atomic.Bool

	r.RequestOpponentLine(&game.GameState{}, "x", func(string) { delivered.Store(true) })
	r.Close()

	assert.False(t, delivered.Load())
}

func TestStaticService(t *testing.T) {
	intro, err := Static{}.LevelIntro(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "Benvenuto a Il Sentiero dei Sospiri. Pochi tornano da qui.", intro)
}
