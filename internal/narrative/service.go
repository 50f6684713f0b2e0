// Package narrative produces the warden's flavor text. Text never affects
// the game; a missing or failing backend degrades to fixed lines.
package narrative

import (
	"context"
	"fmt"
)

// Lines used when the backend fails or has nothing to say.
const (
	FallbackOpponentLine = "Il silenzio della foresta è assordante."
	FallbackLevelIntro   = "Il sentiero si stringe. Prosegui, se ne hai il coraggio."
	quietOpponentLine    = "Il bosco osserva il tuo fallimento..."
	quietLevelIntro      = "Benvenuto a %s. Pochi tornano da qui."
)

var levelNames = []string{
	"Il Sentiero dei Sospiri",
	"La Palude delle Ossa",
	"La Radura del Sangue",
	"Il Cuore del Bosco Oscuro",
	"L'Abisso delle Radici",
}

// LevelName returns the name of a level. Levels past the last name reuse it.
func LevelName(level int) string {
	return levelNames[min(max(level, 1), len(levelNames))-1]
}

// LineRequest is the game context a line is written for.
type LineRequest struct {
	PlayerHP   int
	OpponentHP int
	Level      int
	Context    string
}

// Service generates flavor text. Implementations may block; callers bound
// them with ctx.
type Service interface {
	OpponentLine(ctx context.Context, req LineRequest) (string, error)
	LevelIntro(ctx context.Context, level int) (string, error)
}

// Static is a Service that never leaves the process.
type Static struct{}

func (Static) OpponentLine(context.Context, LineRequest) (string, error) {
	return quietOpponentLine, nil
}

func (Static) LevelIntro(_ context.Context, level int) (string, error) {
	return fmt.Sprintf(quietLevelIntro, LevelName(level)), nil
}
