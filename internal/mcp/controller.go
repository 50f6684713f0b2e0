package mcp

import (
	"context"
	"sync"

	"github.com/peterkuimelis/warden/internal/game"
	"github.com/peterkuimelis/warden/internal/log"
)

// MCPController implements game.Presenter by buffering events until the
// next tool call collects them.
type MCPController struct {
	mu     sync.Mutex
	events []log.GameEvent
}

var _ game.Presenter = (*MCPController)(nil)

func NewMCPController() *MCPController {
	return &MCPController{}
}

// Present implements game.Presenter.
func (c *MCPController) Present(_ context.Context, out game.Outcome) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = append(c.events, out.Events...)
	return nil
}

// PresentLine implements game.Presenter. Lines are read from the session
// when a response is built.
func (c *MCPController) PresentLine(context.Context, string) error {
	return nil
}

// drainEvents returns all accumulated events and clears the buffer.
func (c *MCPController) drainEvents() []log.GameEvent {
	c.mu.Lock()
	defer c.mu.Unlock()
	events := c.events
	c.events = nil
	return events
}
