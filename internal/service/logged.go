package service

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"

	"github.com/scoreit/scoreit"
	poperrs "github.com/scoreit/scoreit/errors"
	"github.com/scoreit/scoreit/internal/points"
)

type loggedService struct {
	svc Service
}

// NewLogged logs the outcome of every command svc handles.
func NewLogged(svc Service) Service {
	return &loggedService{svc: svc}
}

func (s *loggedService) Start(ctx context.Context) (bool, error) {
	ok, err := s.svc.Start(ctx)
	s.logTransition("start", ok, err)
	return ok, err
}

func (s *loggedService) Stop(ctx context.Context) (bool, error) {
	ok, err := s.svc.Stop(ctx)
	s.logTransition("stop", ok, err)
	return ok, err
}

func (s *loggedService) End(ctx context.Context) (scoreit.Board, bool, error) {
	board, ok, err := s.svc.End(ctx)
	s.logTransition("end", ok, err)
	return board, ok, err
}

func (s *loggedService) Reset(ctx context.Context) error {
	err := s.svc.Reset(ctx)
	s.logTransition("reset", true, err)
	return err
}

func (s *loggedService) State() scoreit.GameState {
	return s.svc.State()
}

func (s *loggedService) Join(ctx context.Context, id, name string) bool {
	joined := s.svc.Join(ctx, id, name)
	if joined {
		log.WithFields(logrus.Fields{
			"player_id": id,
			"name":      name,
		}).Info("player joined")
	}
	return joined
}

func (s *loggedService) Deposit(ctx context.Context, d scoreit.Deposit) (scoreit.DepositResult, error) {
	res, err := s.svc.Deposit(ctx, d)
	logger := log.WithFields(logrus.Fields{
		"op":        "deposit",
		"player_id": d.PlayerID,
	})
	switch {
	case err == nil:
		logger.WithField("total", res.Total).Info("deposit accepted")
	case errors.Is(err, poperrs.ErrGameNotStarted), errors.Is(err, poperrs.ErrGamePaused),
		errors.Is(err, points.ErrNoPointTag), errors.Is(err, points.ErrInvalidPointTag),
		errors.Is(err, points.ErrInvalidQuantity), errors.Is(err, poperrs.ErrMissingArgument):
		logger.WithError(err).Info("deposit refused")
	default:
		logger.WithError(err).Error("deposit failed")
	}
	return res, err
}

func (s *loggedService) Player(ctx context.Context, id string) (scoreit.PlayerScore, error) {
	return s.svc.Player(ctx, id)
}

func (s *loggedService) Remove(ctx context.Context, id string) error {
	err := s.svc.Remove(ctx, id)
	if err != nil {
		log.WithError(err).WithField("player_id", id).Warn("remove")
	}
	return err
}

func (s *loggedService) Scores(ctx context.Context, limit uint, pivot string) scoreit.Board {
	return s.svc.Scores(ctx, limit, pivot)
}

func (s *loggedService) Restore(ctx context.Context) error {
	err := s.svc.Restore(ctx)
	if err != nil {
		log.WithError(err).Error("restore")
	}
	return err
}

func (s *loggedService) Save(ctx context.Context) error {
	err := s.svc.Save(ctx)
	if err != nil {
		log.WithError(err).Error("save")
	}
	return err
}

func (s *loggedService) SaveIfDirty(ctx context.Context) (bool, error) {
	saved, err := s.svc.SaveIfDirty(ctx)
	if err != nil {
		log.WithError(err).Error("autosave")
	}
	return saved, err
}

func (s *loggedService) Health() (map[string]any, bool) {
	return s.svc.Health()
}

func (s *loggedService) logTransition(op string, ok bool, err error) {
	logger := log.WithFields(logrus.Fields{
		"op":    op,
		"state": s.svc.State().String(),
	})
	switch {
	case err != nil:
		logger.WithError(err).Error("state change not saved")
	case ok:
		logger.Info("state changed")
	default:
		logger.Info("state change refused")
	}
}
