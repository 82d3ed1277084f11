package scoreboard

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/scoreit/scoreit"
)

func TestControllerTransitions(t *testing.T) {
	type op struct {
		name string
		do   func(*Controller) bool
	}
	start := op{"start", (*Controller).Start}
	stop := op{"stop", (*Controller).Stop}
	end := op{"end", (*Controller).End}

	tests := []struct {
		from   scoreit.GameState
		op     op
		ok     bool
		wantTo scoreit.GameState
	}{
		{scoreit.StateNone, start, true, scoreit.StateStarted},
		{scoreit.StateNone, stop, false, scoreit.StateNone},
		{scoreit.StateNone, end, false, scoreit.StateNone},

		{scoreit.StateStarted, start, false, scoreit.StateStarted},
		{scoreit.StateStarted, stop, true, scoreit.StateStopped},
		{scoreit.StateStarted, end, true, scoreit.StateEnded},

		{scoreit.StateStopped, start, true, scoreit.StateStarted},
		{scoreit.StateStopped, stop, false, scoreit.StateStopped},
		{scoreit.StateStopped, end, true, scoreit.StateEnded},

		{scoreit.StateEnded, start, false, scoreit.StateEnded},
		{scoreit.StateEnded, stop, false, scoreit.StateEnded},
		{scoreit.StateEnded, end, false, scoreit.StateEnded},
	}

	for _, tt := range tests {
		t.Run(tt.from.String()+" "+tt.op.name, func(t *testing.T) {
			c := NewController()
			c.set(tt.from)

			assert.Equal(t, tt.ok, tt.op.do(c))
			assert.Equal(t, tt.wantTo, c.State())
		})
	}
}

func TestControllerReset(t *testing.T) {
	for _, from := range []scoreit.GameState{
		scoreit.StateNone,
		scoreit.StateStarted,
		scoreit.StateStopped,
		scoreit.StateEnded,
	} {
		t.Run(from.String(), func(t *testing.T) {
			c := NewController()
			c.set(from)
			c.Reset()
			assert.Equal(t, scoreit.StateNone, c.State())
		})
	}
}

func TestControllerPredicates(t *testing.T) {
	c := NewController()
	assert.False(t, c.IsRunning())
	assert.False(t, c.IsPaused())
	assert.False(t, c.IsComplete())

	c.Start()
	assert.True(t, c.IsRunning())

	c.Stop()
	assert.True(t, c.IsPaused())
	assert.False(t, c.IsRunning())

	c.End()
	assert.True(t, c.IsComplete())
	assert.False(t, c.IsPaused())
}
