package game

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/peterkuimelis/warden/internal/log"
)

const tracerName = "github.com/peterkuimelis/warden/internal/game"

// Lines the warden speaks without consulting the narrator.
const (
	MenuLine        = "...avvicinati al tavolo."
	bossIntroLine   = "TREMATE. %s È QUI PER DIVORARVI."
	turnLineContext = "Turno avversario"
)

// Narrator requests flavor text asynchronously. deliver is called at most
// once, from any goroutine, with a non-empty line.
type Narrator interface {
	RequestOpponentLine(gs *GameState, context string, deliver func(string))
	RequestLevelIntro(level int, deliver func(string))
}

// Presenter receives the result of every committed action and every new
// warden line. Errors are logged and otherwise ignored.
type Presenter interface {
	Present(ctx context.Context, out Outcome) error
	PresentLine(ctx context.Context, line string) error
}

// Outcome is what one Session.Apply call produced.
type Outcome struct {
	Action   Action
	State    *GameState
	Tick     *TickResult     // nil unless combat ran
	Events   []log.GameEvent // events appended by this action
	Rejected bool
}

// SessionConfig holds the optional collaborators of a Session.
type SessionConfig struct {
	Narrator Narrator
	Logger   *zap.Logger
	Tracer   trace.Tracer
	Journal  log.EventLogger // receives every committed event and warden line
}

// Session serializes actions over one game. The state is replaced wholesale
// after each action; readers always see a complete state.
type Session struct {
	engine   *Engine
	narrator Narrator
	logger   *zap.Logger
	tracer   trace.Tracer
	journal  log.EventLogger

	busy  atomic.Bool
	state atomic.Pointer[GameState]

	presentersMu sync.Mutex
	presenters   []Presenter

	lineMu  sync.Mutex
	line    string
	lineGen uint64
}

// NewSession starts a session on a fresh game in the menu.
func NewSession(e *Engine, cfg SessionConfig) *Session {
	s := &Session{
		engine:   e,
		narrator: cfg.Narrator,
		logger:   cfg.Logger,
		tracer:   cfg.Tracer,
		journal:  cfg.Journal,
		line:     MenuLine,
	}
	if s.logger == nil {
		s.logger = zap.NewNop()
	}
	if s.tracer == nil {
		s.tracer = otel.Tracer(tracerName)
	}
	s.state.Store(e.NewGame())
	return s
}

// Engine returns the engine the session runs on.
func (s *Session) Engine() *Engine {
	return s.engine
}

// State returns the current published state. Callers must not mutate it.
func (s *Session) State() *GameState {
	return s.state.Load()
}

// WardenLine returns the most recent line of flavor text.
func (s *Session) WardenLine() string {
	s.lineMu.Lock()
	defer s.lineMu.Unlock()
	return s.line
}

// AddPresenter registers p for every later outcome and line.
func (s *Session) AddPresenter(p Presenter) {
	s.presentersMu.Lock()
	defer s.presentersMu.Unlock()
	s.presenters = append(s.presenters, p)
}

// Busy reports whether an action is being resolved.
func (s *Session) Busy() bool {
	return s.busy.Load()
}

// Apply runs one action to completion. While another action is in progress
// the call is rejected without touching the state.
func (s *Session) Apply(ctx context.Context, a Action) Outcome {
	ctx, span := s.tracer.Start(ctx, "warden.action", trace.WithAttributes(
		attribute.String("warden.action", a.Type.String()),
	))
	defer span.End()

	if !s.busy.CompareAndSwap(false, true) {
		cur := s.State()
		span.SetStatus(codes.Error, "busy")
		s.logger.Debug("action rejected while busy", zap.Stringer("action", a))
		return Outcome{
			Action:   a,
			State:    cur,
			Events:   []log.GameEvent{log.NewRejectedEvent(cur.Turn, "Still resolving the previous action.")},
			Rejected: true,
		}
	}
	defer s.busy.Store(false)

	prev := s.State()
	next, res := s.resolve(ctx, prev, a)
	s.state.Store(next)

	out := Outcome{
		Action:   a,
		State:    next,
		Tick:     res,
		Events:   next.EventsSince(len(prev.Log)),
		Rejected: IsRejection(next) && len(next.Log) > len(prev.Log),
	}
	span.SetAttributes(
		attribute.Int("warden.level", next.Level),
		attribute.Int("warden.turn", next.Turn),
		attribute.String("warden.status", next.Status.String()),
		attribute.Bool("warden.rejected", out.Rejected),
	)
	s.logger.Debug("action applied",
		zap.Stringer("action", a),
		zap.Stringer("status", next.Status),
		zap.Int("level", next.Level),
		zap.Int("turn", next.Turn),
		zap.Bool("rejected", out.Rejected),
	)

	if s.journal != nil {
		for _, ev := range out.Events {
			s.journal.Log(ev)
		}
	}
	s.present(ctx, out)
	if !out.Rejected {
		s.narrate(prev, out)
	}
	return out
}

func (s *Session) resolve(ctx context.Context, prev *GameState, a Action) (*GameState, *TickResult) {
	if a.Type != ActionEndTurn && a.Type != ActionSkipAndDraw {
		return s.engine.Apply(prev, a)
	}
	_, span := s.tracer.Start(ctx, "warden.tick", trace.WithAttributes(
		attribute.Int("warden.level", prev.Level),
		attribute.Int("warden.turn", prev.Turn),
		attribute.Bool("warden.skipped", a.Type == ActionSkipAndDraw),
	))
	defer span.End()
	next, res := s.engine.Apply(prev, a)
	if res != nil {
		span.SetAttributes(
			attribute.Int("warden.damaged", len(res.Damaged)),
			attribute.Int("warden.healed", len(res.Healed)),
		)
	}
	return next, res
}

func (s *Session) present(ctx context.Context, out Outcome) {
	s.presentersMu.Lock()
	presenters := append([]Presenter(nil), s.presenters...)
	s.presentersMu.Unlock()
	for _, p := range presenters {
		if err := p.Present(ctx, out); err != nil {
			s.logger.Warn("presenter failed", zap.Error(err))
		}
	}
}

// narrate asks for flavor text after ticks and level starts. Only the
// newest request may update the line.
func (s *Session) narrate(prev *GameState, out Outcome) {
	next := out.State
	switch {
	case out.Action.Type == ActionResetToMenu:
		s.setLine(s.nextLineGen(), MenuLine)
	case next.Status == StatusPlaying && out.Tick == nil && (prev.Status != StatusPlaying || next.Level != prev.Level):
		gen := s.nextLineGen()
		if boss := s.engine.BossFor(next.Level); boss != nil {
			s.setLine(gen, fmt.Sprintf(bossIntroLine, strings.ToUpper(boss.Name)))
			return
		}
		if s.narrator != nil {
			s.narrator.RequestLevelIntro(next.Level, func(line string) { s.setLine(gen, line) })
		}
	case out.Tick != nil && s.narrator != nil:
		gen := s.nextLineGen()
		s.narrator.RequestOpponentLine(next, turnLineContext, func(line string) { s.setLine(gen, line) })
	}
}

func (s *Session) nextLineGen() uint64 {
	s.lineMu.Lock()
	defer s.lineMu.Unlock()
	s.lineGen++
	return s.lineGen
}

func (s *Session) setLine(gen uint64, line string) {
	s.lineMu.Lock()
	if gen != s.lineGen || line == "" {
		s.lineMu.Unlock()
		return
	}
	s.line = line
	s.lineMu.Unlock()

	if s.journal != nil {
		s.journal.Log(log.NewNarrativeEvent(s.State().Turn, line))
	}

	s.presentersMu.Lock()
	presenters := append([]Presenter(nil), s.presenters...)
	s.presentersMu.Unlock()
	for _, p := range presenters {
		if err := p.PresentLine(context.Background(), line); err != nil {
			s.logger.Warn("presenter failed", zap.Error(err))
		}
	}
}
