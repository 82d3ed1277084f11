// Package null is a Store that keeps the last snapshot in memory. It is
// used when persistence is disabled and in tests.
package null

import (
	"context"
	"sync"

	"github.com/scoreit/scoreit"
	"github.com/scoreit/scoreit/internal/store"
)

type Store struct {
	mu    sync.Mutex
	saved *scoreit.Snapshot
	saves int
}

func New() *Store {
	return &Store{}
}

func (s *Store) Save(_ context.Context, snap scoreit.Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c := clone(snap)
	s.saved = &c
	s.saves++
	return nil
}

func (s *Store) Load(_ context.Context) (scoreit.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.saved == nil {
		return scoreit.Snapshot{}, store.ErrNotFound
	}
	return clone(*s.saved), nil
}

// Saves counts successful calls to Save.
func (s *Store) Saves() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saves
}

func clone(snap scoreit.Snapshot) scoreit.Snapshot {
	c := scoreit.Snapshot{State: snap.State}
	if snap.Scores != nil {
		c.Scores = make([]scoreit.PlayerScore, len(snap.Scores))
		for i, s := range snap.Scores {
			c.Scores[i] = s.Clone()
		}
	}
	return c
}
