// Package nbtfile stores session snapshots as a gzip compressed NBT file,
// the save format of the game server hosting the drop box.
package nbtfile

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/Tnze/go-mc/nbt"
	"github.com/klauspost/compress/gzip"
	"github.com/sirupsen/logrus"

	"github.com/scoreit/scoreit"
	"github.com/scoreit/scoreit/internal/store"
)

const rootTag = "scoreit"

var log = logrus.StandardLogger().WithFields(logrus.Fields{
	"component": "nbtfile",
})

type file struct {
	Leaderboard leaderboard `nbt:"leaderboard"`
}

type leaderboard struct {
	State    string   `nbt:"state"`
	Registry []player `nbt:"registry"`
}

type player struct {
	UUID   string      `nbt:"uuid"`
	Name   string      `nbt:"name"`
	Points int64       `nbt:"points"`
	Counts []itemCount `nbt:"counts"`
}

type itemCount struct {
	Name  string `nbt:"name"`
	Count int64  `nbt:"count"`
}

type Store struct {
	mu   sync.Mutex
	path string
}

var _ store.Store = (*Store)(nil)

func New(path string) *Store {
	return &Store{path: path}
}

func (s *Store) Path() string { return s.path }

// Save writes snap next to the target file and renames it into place so a
// crash mid-write never leaves a truncated save behind.
func (s *Store) Save(ctx context.Context, snap scoreit.Snapshot) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	zw := gzip.NewWriter(tmp)
	if err := nbt.NewEncoder(zw).Encode(encode(snap), rootTag); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("encode %s: %w", s.path, err)
	}
	if err := zw.Close(); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}

	return os.Rename(tmp.Name(), s.path)
}

func (s *Store) Load(ctx context.Context) (scoreit.Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return scoreit.Snapshot{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := os.Open(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return scoreit.Snapshot{}, store.ErrNotFound
	}
	if err != nil {
		return scoreit.Snapshot{}, err
	}
	defer f.Close()

	zr, err := gzip.NewReader(f)
	if err != nil {
		return scoreit.Snapshot{}, fmt.Errorf("read %s: %w", s.path, err)
	}
	defer zr.Close()

	var data file
	if _, err := nbt.NewDecoder(zr).Decode(&data); err != nil {
		return scoreit.Snapshot{}, fmt.Errorf("decode %s: %w", s.path, err)
	}

	return decode(data), nil
}

func encode(snap scoreit.Snapshot) file {
	registry := make([]player, 0, len(snap.Scores))
	for _, score := range snap.Scores {
		p := player{
			UUID:   score.ID,
			Name:   score.Name,
			Points: score.Points,
			Counts: make([]itemCount, 0, len(score.ItemCounts)),
		}
		for item, n := range score.ItemCounts {
			p.Counts = append(p.Counts, itemCount{Name: item, Count: n})
		}
		sort.Slice(p.Counts, func(i, j int) bool { return p.Counts[i].Name < p.Counts[j].Name })
		registry = append(registry, p)
	}

	return file{
		Leaderboard: leaderboard{
			State:    snap.State.String(),
			Registry: registry,
		},
	}
}

func decode(data file) scoreit.Snapshot {
	state, err := scoreit.ParseGameState(data.Leaderboard.State)
	if err != nil {
		log.WithError(err).Warn("saved game state is not recognised")
	}

	scores := make([]scoreit.PlayerScore, 0, len(data.Leaderboard.Registry))
	for _, p := range data.Leaderboard.Registry {
		score := scoreit.PlayerScore{
			ID:     p.UUID,
			Name:   p.Name,
			Points: p.Points,
		}
		for _, c := range p.Counts {
			if score.ItemCounts == nil {
				score.ItemCounts = make(map[string]int64, len(p.Counts))
			}
			score.ItemCounts[c.Name] += c.Count
		}
		scores = append(scores, score)
	}

	return scoreit.Snapshot{State: state, Scores: scores}
}
