package errors

import (
	"errors"
)

var (
	ErrInvalidArgument = errors.New("invalid argument")
	ErrMissingArgument = errors.New("missing argument")
	ErrNotFound        = errors.New("not found")

	// ErrGameNotStarted is returned for scoring attempts while the game is
	// in any state other than STARTED or STOPPED.
	ErrGameNotStarted = errors.New("game not started")

	// ErrGamePaused is returned for scoring attempts while the game is
	// STOPPED.
	ErrGamePaused = errors.New("game paused")
)
