package scoreboard

import (
	"sync"

	"github.com/scoreit/scoreit"
)

// Controller is the game-state machine. It only decides whether scoring is
// allowed; it knows nothing about the scores themselves.
type Controller struct {
	mu    sync.RWMutex
	state scoreit.GameState
}

func NewController() *Controller {
	return &Controller{state: scoreit.StateNone}
}

// Start moves NONE or STOPPED to STARTED.
func (c *Controller) Start() bool {
	return c.transition(scoreit.StateStarted, scoreit.StateNone, scoreit.StateStopped)
}

// Stop pauses a STARTED game.
func (c *Controller) Stop() bool {
	return c.transition(scoreit.StateStopped, scoreit.StateStarted)
}

// End finishes a STARTED or STOPPED game. ENDED is terminal until Reset.
func (c *Controller) End() bool {
	return c.transition(scoreit.StateEnded, scoreit.StateStarted, scoreit.StateStopped)
}

// Reset always succeeds.
func (c *Controller) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state = scoreit.StateNone
}

func (c *Controller) State() scoreit.GameState {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state
}

func (c *Controller) IsRunning() bool  { return c.State() == scoreit.StateStarted }
func (c *Controller) IsPaused() bool   { return c.State() == scoreit.StateStopped }
func (c *Controller) IsComplete() bool { return c.State() == scoreit.StateEnded }

func (c *Controller) set(state scoreit.GameState) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state = state
}

func (c *Controller) transition(to scoreit.GameState, from ...scoreit.GameState) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, f := range from {
		if c.state == f {
			c.state = to
			return true
		}
	}
	return false
}
