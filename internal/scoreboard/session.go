package scoreboard

import (
	"sync"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/scoreit/scoreit"
	"github.com/scoreit/scoreit/errors"
)

// Session owns one game: its state machine and its leaderboard. Single
// operations go straight to the controller or the leaderboard; operations
// that touch both hold the session lock so no transition can interleave.
type Session struct {
	id string

	mu    sync.Mutex
	state *Controller
	board *Leaderboard
}

func New() *Session {
	return &Session{
		id:    uuid.NewString(),
		state: NewController(),
		board: NewLeaderboard(),
	}
}

func (s *Session) ID() string { return s.id }

func (s *Session) Leaderboard() *Leaderboard { return s.board }

func (s *Session) State() scoreit.GameState { return s.state.State() }

func (s *Session) Start() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Start()
}

func (s *Session) Stop() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Stop()
}

func (s *Session) End() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.End()
}

// Reset puts the session back to NONE with an empty leaderboard.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Reset()
	s.board.Clear()
}

// Join registers a player with zero points unless they are already known.
func (s *Session) Join(id, name string) bool {
	return s.board.AddPlayer(id, name)
}

// Deposit credits points that were already derived from a deposit. The game
// must be running; unknown players are registered first.
func (s *Session) Deposit(d scoreit.Deposit, points int64) (scoreit.DepositResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkRunning(); err != nil {
		return scoreit.DepositResult{}, err
	}

	s.board.AddPlayer(d.PlayerID, d.PlayerName)
	total, _ := s.board.AddItemPoints(d.PlayerID, points, d.Item, d.Quantity)

	return scoreit.DepositResult{
		PlayerID: d.PlayerID,
		Awarded:  points,
		Total:    total,
	}, nil
}

// CheckRunning reports why deposits are refused, or nil when the game is
// running.
func (s *Session) CheckRunning() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.checkRunning()
}

func (s *Session) checkRunning() error {
	switch s.state.State() {
	case scoreit.StateStarted:
		return nil
	case scoreit.StateStopped:
		return errors.ErrGamePaused
	default:
		return errors.ErrGameNotStarted
	}
}

func (s *Session) Snapshot() scoreit.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return scoreit.Snapshot{
		State:  s.state.State(),
		Scores: s.board.Scores(),
	}
}

// Restore merges a persisted snapshot into the session and adopts its
// state. Scores already present in the session are kept.
func (s *Session) Restore(snap scoreit.Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()

	loaded, skipped := s.board.Load(snap.Scores)

	logger := log.WithFields(logrus.Fields{
		"session": s.id,
		"loaded":  loaded,
		"skipped": skipped,
	})

	if !snap.State.Valid() {
		logger.WithField("state", snap.State).Warn("unknown persisted game state, keeping current state")
		return
	}
	s.state.set(snap.State)
	logger.WithField("state", snap.State).Info("restored session")
}
