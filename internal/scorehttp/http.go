// Package scorehttp is the HTTP API game servers use to report players and
// deposits, and operators use to drive the game.
package scorehttp

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"

	"github.com/scoreit/scoreit"
	poperrs "github.com/scoreit/scoreit/errors"
	"github.com/scoreit/scoreit/internal/points"
)

var log = logrus.StandardLogger().WithFields(logrus.Fields{
	"component": "scorehttp",
})

const requestTimeout = 2 * time.Second

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

	Health() (details map[string]any, ok bool)
}

// HealthCheck reports on a dependency of the service.
type HealthCheck func() (details any, ok bool)

type Server struct {
	svc    Service
	checks map[string]HealthCheck
}

func NewServer(svc Service) *Server {
	return &Server{
		svc:    svc,
		checks: make(map[string]HealthCheck),
	}
}

func (s *Server) AddHealthCheck(name string, check HealthCheck) {
	s.checks[name] = check
}

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/health", s.Health)

	r.Get("/game", s.Game)
	r.Post("/game/{op}", s.ChangeState)

	r.Post("/players", s.Join)
	r.Get("/players/{player_id}", s.Player)
	r.Delete("/players/{player_id}", s.RemovePlayer)

	r.Post("/deposits", s.Deposit)
	r.Get("/scores", s.Scores)

	return r
}

type errorBody struct {
	Error string `json:"error"`
	State string `json:"state,omitempty"`
}

type stateBody struct {
	OK    bool          `json:"ok"`
	State string        `json:"state"`
	Board scoreit.Board `json:"board,omitempty"`
}

func (s *Server) Health(w http.ResponseWriter, r *http.Request) {
	details, healthy := s.svc.Health()
	body := map[string]any{"service": details}
	for name, check := range s.checks {
		d, ok := check()
		body[name] = d
		healthy = healthy && ok
	}
	body["healthy"] = healthy

	status := http.StatusOK
	if !healthy {
		status = http.StatusServiceUnavailable
	}
	writeJSON(log.WithField("handler", "health"), w, status, body)
}

func (s *Server) Game(w http.ResponseWriter, r *http.Request) {
	writeJSON(log.WithField("handler", "game"), w, http.StatusOK, stateBody{
		OK:    true,
		State: s.svc.State().String(),
	})
}

func (s *Server) ChangeState(w http.ResponseWriter, r *http.Request) {
	op := chi.URLParam(r, "op")
	logger := log.WithFields(logrus.Fields{
		"handler": "change_state",
		"op":      op,
	})

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	var (
		ok    bool
		err   error
		board scoreit.Board
	)
	switch op {
	case "start":
		ok, err = s.svc.Start(ctx)
	case "stop":
		ok, err = s.svc.Stop(ctx)
	case "end":
		board, ok, err = s.svc.End(ctx)
	case "reset":
		ok, err = true, s.svc.Reset(ctx)
	default:
		writeJSON(logger, w, http.StatusNotFound, errorBody{Error: "unknown game operation " + op})
		return
	}
	if err != nil {
		logger.WithError(err).Error("state change was not saved")
	}

	status := http.StatusOK
	if !ok {
		status = http.StatusConflict
	}
	writeJSON(logger, w, status, stateBody{
		OK:    ok,
		State: s.svc.State().String(),
		Board: board,
	})
}

func (s *Server) Join(w http.ResponseWriter, r *http.Request) {
	logger := log.WithFields(logrus.Fields{
		"handler": "join",
	})

	var body struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	}
	err := json.NewDecoder(r.Body).Decode(&body)
	if err != nil || body.ID == "" {
		writeJSON(logger, w, http.StatusBadRequest, errorBody{Error: "a player id is required"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	status := http.StatusOK
	if s.svc.Join(ctx, body.ID, body.Name) {
		status = http.StatusCreated
	}

	p, err := s.svc.Player(ctx, body.ID)
	if err != nil {
		logger.WithError(err).Error("Player failed after Join")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	writeJSON(logger, w, status, p)
}

func (s *Server) Player(w http.ResponseWriter, r *http.Request) {
	logger := log.WithFields(logrus.Fields{
		"handler": "player",
	})

	id, err := playerID(r)
	if err != nil {
		writeJSON(logger, w, http.StatusBadRequest, errorBody{Error: "malformed player id"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	p, err := s.svc.Player(ctx, id)
	if errors.Is(err, poperrs.ErrNotFound) {
		writeJSON(logger, w, http.StatusNotFound, errorBody{Error: "no such player"})
		return
	}
	if err != nil {
		logger.WithError(err).Error("Player failed")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	writeJSON(logger, w, http.StatusOK, p)
}

func (s *Server) RemovePlayer(w http.ResponseWriter, r *http.Request) {
	logger := log.WithFields(logrus.Fields{
		"handler": "remove_player",
	})

	id, err := playerID(r)
	if err != nil {
		writeJSON(logger, w, http.StatusBadRequest, errorBody{Error: "malformed player id"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	err = s.svc.Remove(ctx, id)
	if errors.Is(err, poperrs.ErrNotFound) {
		writeJSON(logger, w, http.StatusNotFound, errorBody{Error: "no such player"})
		return
	}
	if err != nil {
		logger.WithError(err).Error("Remove failed")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// playerID returns the decoded {player_id} segment. chi hands back the
// escaped form when the request path carried escapes.
func playerID(r *http.Request) (string, error) {
	return url.PathUnescape(chi.URLParam(r, "player_id"))
}

func (s *Server) Deposit(w http.ResponseWriter, r *http.Request) {
	logger := log.WithFields(logrus.Fields{
		"handler": "deposit",
	})

	var d scoreit.Deposit
	if err := json.NewDecoder(r.Body).Decode(&d); err != nil {
		writeJSON(logger, w, http.StatusBadRequest, errorBody{Error: "malformed deposit"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	res, err := s.svc.Deposit(ctx, d)
	switch {
	case err == nil:
		writeJSON(logger, w, http.StatusOK, res)
	case errors.Is(err, poperrs.ErrGamePaused), errors.Is(err, poperrs.ErrGameNotStarted):
		writeJSON(logger, w, http.StatusConflict, errorBody{Error: err.Error(), State: s.svc.State().String()})
	case errors.Is(err, points.ErrNoPointTag), errors.Is(err, points.ErrInvalidPointTag), errors.Is(err, points.ErrInvalidQuantity):
		writeJSON(logger, w, http.StatusUnprocessableEntity, errorBody{Error: err.Error()})
	case errors.Is(err, poperrs.ErrMissingArgument), errors.Is(err, poperrs.ErrInvalidArgument):
		writeJSON(logger, w, http.StatusBadRequest, errorBody{Error: err.Error()})
	default:
		logger.WithError(err).Error("Deposit failed")
		w.WriteHeader(http.StatusInternalServerError)
	}
}

func (s *Server) Scores(w http.ResponseWriter, r *http.Request) {
	logger := log.WithFields(logrus.Fields{
		"handler": "scores",
	})

	var limit uint
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.ParseUint(v, 10, 32)
		if err != nil {
			writeJSON(logger, w, http.StatusBadRequest, errorBody{Error: "limit must be a non-negative number"})
			return
		}
		limit = uint(n)
	}
	pivot := r.URL.Query().Get("pivot")

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	board := s.svc.Scores(ctx, limit, pivot)
	if board == nil {
		board = scoreit.Board{}
	}
	writeJSON(logger, w, http.StatusOK, board)
}

func writeJSON(logger *logrus.Entry, w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.WithError(err).Error("json encoding failed")
	}
}
