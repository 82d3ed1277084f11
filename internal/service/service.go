// Package service coordinates a scoring session with everything around it:
// persistence, the end-of-game dump and event broadcast.
package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/scoreit/scoreit"
	poperrs "github.com/scoreit/scoreit/errors"
	"github.com/scoreit/scoreit/internal/event"
	"github.com/scoreit/scoreit/internal/points"
	"github.com/scoreit/scoreit/internal/scoreboard"
	"github.com/scoreit/scoreit/internal/store"
)

var log = logrus.StandardLogger().WithFields(logrus.Fields{
	"component": "service",
})

type Service interface {
	Start(ctx context.Context) (bool, error)
	Stop(ctx context.Context) (bool, error)
	End(ctx context.Context) (scoreit.Board, bool, error)
	Reset(ctx context.Context) error
	State() scoreit.GameState

	Join(ctx context.Context, id, name string) bool
	Deposit(ctx context.Context, d scoreit.Deposit) (scoreit.DepositResult, error)
	Player(ctx context.Context, id string) (scoreit.PlayerScore, error)
	Remove(ctx context.Context, id string) error
	Scores(ctx context.Context, limit uint, pivot string) scoreit.Board

	Restore(ctx context.Context) error
	Save(ctx context.Context) error
	SaveIfDirty(ctx context.Context) (bool, error)
	Health() (details map[string]any, ok bool)
}

//go:generate mockery --name Store --case underscore --with-expecter --testonly --inpackage
type Store interface {
	store.Store
}

//go:generate mockery --name EventBus --case underscore --with-expecter --testonly --inpackage
type EventBus interface {
	Publish(ctx context.Context, evt *event.Event) error
}

type Dumper interface {
	Write(board scoreit.Board) (string, error)
}

type service struct {
	session *scoreboard.Session
	store   Store
	bus     EventBus
	dumper  Dumper
	points  points.Deriver
	now     func() time.Time

	// serialises state commands so published transitions are accurate
	cmdMu sync.Mutex
	dirty atomic.Bool
}

func New(session *scoreboard.Session, st Store, bus EventBus, dumper Dumper, deriver points.Deriver) Service {
	return &service{
		session: session,
		store:   st,
		bus:     bus,
		dumper:  dumper,
		points:  deriver,
		now:     time.Now,
	}
}

func (s *service) Start(ctx context.Context) (bool, error) {
	return s.transition(ctx, s.session.Start)
}

func (s *service) Stop(ctx context.Context) (bool, error) {
	return s.transition(ctx, s.session.Stop)
}

// End finishes the game. The final board is dumped and broadcast before
// the leaderboard is cleared; the session stays ENDED until Reset.
func (s *service) End(ctx context.Context) (scoreit.Board, bool, error) {
	s.cmdMu.Lock()
	defer s.cmdMu.Unlock()

	from := s.session.State()
	if !s.session.End() {
		return nil, false, nil
	}
	s.publishTransition(ctx, from)

	board := s.session.Leaderboard().Ranked(0, "")
	logger := log.WithFields(logrus.Fields{
		"session": s.session.ID(),
		"players": len(board),
	})

	if _, err := s.dumper.Write(board); err != nil {
		logger.WithError(err).Error("failed to dump final scores")
	}

	s.publish(ctx, &event.Event{
		EndedStandings: &event.EndedStandings{
			SessionID: s.session.ID(),
			Board:     board,
			At:        s.now(),
		},
	})

	s.session.Leaderboard().Clear()
	logger.Info("game ended")

	return board, true, s.Save(ctx)
}

func (s *service) Reset(ctx context.Context) error {
	s.cmdMu.Lock()
	defer s.cmdMu.Unlock()

	from := s.session.State()
	s.session.Reset()
	s.publishTransition(ctx, from)

	return s.Save(ctx)
}

func (s *service) State() scoreit.GameState {
	return s.session.State()
}

func (s *service) Join(ctx context.Context, id, name string) bool {
	joined := s.session.Join(id, name)
	if joined {
		s.dirty.Store(true)
	}
	return joined
}

// Deposit credits the points a deposit is worth. The game state is checked
// before the item tags so a stopped game always answers "paused".
func (s *service) Deposit(ctx context.Context, d scoreit.Deposit) (scoreit.DepositResult, error) {
	logger := log.WithFields(logrus.Fields{
		"player_id": d.PlayerID,
		"item":      d.Item,
		"quantity":  d.Quantity,
	})

	if d.PlayerID == "" {
		return scoreit.DepositResult{}, fmt.Errorf("%w: player id", poperrs.ErrMissingArgument)
	}

	if err := s.session.CheckRunning(); err != nil {
		return scoreit.DepositResult{}, err
	}

	awarded, err := s.points.Derive(d.Tags, d.Quantity)
	if err != nil {
		logger.WithError(err).WithField("tags", d.Tags).Warn("unable to award points for deposit")
		return scoreit.DepositResult{}, err
	}

	res, err := s.session.Deposit(d, awarded)
	if err != nil {
		return scoreit.DepositResult{}, err
	}
	s.dirty.Store(true)

	logger.WithFields(logrus.Fields{
		"awarded": res.Awarded,
		"total":   res.Total,
	}).Debug("points awarded")

	s.publish(ctx, &event.Event{
		AwardedPoints: &event.AwardedPoints{
			SessionID: s.session.ID(),
			PlayerID:  d.PlayerID,
			Item:      d.Item,
			Quantity:  d.Quantity,
			Awarded:   res.Awarded,
			Total:     res.Total,
		},
	})

	return res, nil
}

func (s *service) Player(ctx context.Context, id string) (scoreit.PlayerScore, error) {
	p, ok := s.session.Leaderboard().Player(id)
	if !ok {
		return scoreit.PlayerScore{}, poperrs.ErrNotFound
	}
	return p, nil
}

func (s *service) Remove(ctx context.Context, id string) error {
	if _, ok := s.session.Leaderboard().RemovePlayer(id); !ok {
		return poperrs.ErrNotFound
	}
	s.dirty.Store(true)
	return nil
}

func (s *service) Scores(ctx context.Context, limit uint, pivot string) scoreit.Board {
	return s.session.Leaderboard().Ranked(limit, pivot)
}

// Restore loads the last saved session. Having nothing saved is not an
// error.
func (s *service) Restore(ctx context.Context) error {
	snap, err := s.store.Load(ctx)
	if errors.Is(err, store.ErrNotFound) {
		log.Info("no saved session, starting fresh")
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to load session: %w", err)
	}

	s.session.Restore(snap)
	return nil
}

func (s *service) Save(ctx context.Context) error {
	s.dirty.Store(false)
	if err := s.store.Save(ctx, s.session.Snapshot()); err != nil {
		s.dirty.Store(true)
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

// SaveIfDirty saves only when something changed since the last save.
func (s *service) SaveIfDirty(ctx context.Context) (bool, error) {
	if !s.dirty.Load() {
		return false, nil
	}
	return true, s.Save(ctx)
}

func (s *service) Health() (map[string]any, bool) {
	return map[string]any{
		"session": s.session.ID(),
		"state":   s.session.State().String(),
		"players": s.session.Leaderboard().Len(),
		"dirty":   s.dirty.Load(),
	}, true
}

func (s *service) transition(ctx context.Context, fn func() bool) (bool, error) {
	s.cmdMu.Lock()
	defer s.cmdMu.Unlock()

	from := s.session.State()
	if !fn() {
		return false, nil
	}
	s.publishTransition(ctx, from)

	return true, s.Save(ctx)
}

func (s *service) publishTransition(ctx context.Context, from scoreit.GameState) {
	s.publish(ctx, &event.Event{
		ChangedState: &event.ChangedState{
			SessionID: s.session.ID(),
			From:      from,
			To:        s.session.State(),
			At:        s.now(),
		},
	})
}

func (s *service) publish(ctx context.Context, evt *event.Event) {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	if err := s.bus.Publish(ctx, evt); err != nil {
		log.WithError(err).WithField("key", evt.RoutingKey()).Error("failed to publish event")
	}
}
