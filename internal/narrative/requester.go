package narrative

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/peterkuimelis/warden/internal/game"
)

// DefaultTimeout bounds a single backend call.
const DefaultTimeout = 4 * time.Second

// Requester adapts a Service to game.Narrator. Every request runs on its
// own goroutine; the delivered line is never empty.
type Requester struct {
	svc     Service
	timeout time.Duration
	logger  *zap.Logger

	intros singleflight.Group

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

var _ game.Narrator = (*Requester)(nil)

// NewRequester wraps svc. A non-positive timeout uses DefaultTimeout.
func NewRequester(svc Service, timeout time.Duration, logger *zap.Logger) *Requester {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Requester{
		svc:     svc,
		timeout: timeout,
		logger:  logger,
		ctx:     ctx,
		cancel:  cancel,
	}
}

func (r *Requester) RequestOpponentLine(gs *game.GameState, lineContext string, deliver func(string)) {
	req := LineRequest{
		PlayerHP:   gs.PlayerHP,
		OpponentHP: gs.OpponentHP,
		Level:      gs.Level,
		Context:    lineContext,
	}
	r.run("opponent line", deliver, FallbackOpponentLine, quietOpponentLine, func(ctx context.Context) (string, error) {
		return r.svc.OpponentLine(ctx, req)
	})
}

// RequestLevelIntro asks for a level introduction. Concurrent requests for
// the same level share one backend call.
func (r *Requester) RequestLevelIntro(level int, deliver func(string)) {
	key := fmt.Sprintf("intro:%d", level)
	quiet := fmt.Sprintf(quietLevelIntro, LevelName(level))
	r.run("level intro", deliver, FallbackLevelIntro, quiet, func(ctx context.Context) (string, error) {
		v, err, _ := r.intros.Do(key, func() (any, error) {
			return r.svc.LevelIntro(ctx, level)
		})
		if err != nil {
			return "", err
		}
		return v.(string), nil
	})
}

func (r *Requester) run(kind string, deliver func(string), fallback, quiet string, call func(context.Context) (string, error)) {
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		ctx, cancel := context.WithTimeout(r.ctx, r.timeout)
		defer cancel()

		start := time.Now()
		text, err := call(ctx)
		text = strings.TrimSpace(text)
		switch {
		case r.ctx.Err() != nil:
			return
		case err != nil:
			r.logger.Warn("narrative request failed",
				zap.String("kind", kind),
				zap.Duration("elapsed", time.Since(start)),
				zap.Error(err))
			text = fallback
		case text == "":
			text = quiet
		}
		deliver(text)
	}()
}

// Close cancels outstanding requests and waits for their goroutines.
// Cancelled requests deliver nothing.
func (r *Requester) Close() {
	r.cancel()
	r.wg.Wait()
}
