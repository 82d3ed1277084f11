package scoreboard

import (
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/scoreit/scoreit"
)

var log = logrus.StandardLogger().WithFields(logrus.Fields{
	"component": "scoreboard",
})

// Leaderboard maps player ids to their accumulated scores. Every accessor
// hands out copies so callers never alias the registry's records.
type Leaderboard struct {
	mu      sync.RWMutex
	players map[string]*scoreit.PlayerScore
}

func NewLeaderboard() *Leaderboard {
	return &Leaderboard{
		players: make(map[string]*scoreit.PlayerScore),
	}
}

// AddPlayer registers id with zero points and reports whether id was new.
// Re-adding a known id is a no-op; neither the name nor the points are
// touched.
func (l *Leaderboard) AddPlayer(id, name string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, ok := l.players[id]; ok {
		return false
	}
	l.players[id] = &scoreit.PlayerScore{ID: id, Name: name}
	return true
}

func (l *Leaderboard) Player(id string) (scoreit.PlayerScore, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	p, ok := l.players[id]
	if !ok {
		return scoreit.PlayerScore{}, false
	}
	return p.Clone(), true
}

func (l *Leaderboard) HasPlayer(id string) bool {
	l.mu.RLock()
	defer l.mu.RUnlock()

	_, ok := l.players[id]
	return ok
}

func (l *Leaderboard) RemovePlayer(id string) (scoreit.PlayerScore, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	p, ok := l.players[id]
	if !ok {
		return scoreit.PlayerScore{}, false
	}
	delete(l.players, id)
	return *p, true
}

// AddPoints adds amount to the player's total and returns the new total.
// The amount is not validated. Unknown players are left alone and
// reported with ok == false.
func (l *Leaderboard) AddPoints(id string, amount int64) (total int64, ok bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	p, ok := l.players[id]
	if !ok {
		return 0, false
	}
	p.Points += amount
	return p.Points, true
}

// AddItemPoints is AddPoints that also records quantity units of item in
// the player's deposit counts.
func (l *Leaderboard) AddItemPoints(id string, amount int64, item string, quantity int64) (total int64, ok bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	p, ok := l.players[id]
	if !ok {
		return 0, false
	}
	p.Points += amount
	if p.ItemCounts == nil {
		p.ItemCounts = make(map[string]int64)
	}
	p.ItemCounts[item] += quantity
	return p.Points, true
}

// Scores returns every record in no particular order.
func (l *Leaderboard) Scores() []scoreit.PlayerScore {
	l.mu.RLock()
	defer l.mu.RUnlock()

	scores := make([]scoreit.PlayerScore, 0, len(l.players))
	for _, p := range l.players {
		scores = append(scores, p.Clone())
	}
	return scores
}

func (l *Leaderboard) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.players)
}

func (l *Leaderboard) Clear() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.players = make(map[string]*scoreit.PlayerScore)
}

// Ranked returns the board for the current scores. See Rank.
func (l *Leaderboard) Ranked(limit uint, pivot string) scoreit.Board {
	return Rank(l.Scores(), limit, pivot)
}

// Load merges persisted scores into the registry. Records that are already
// present win over the persisted copy. Records without an id are skipped.
func (l *Leaderboard) Load(scores []scoreit.PlayerScore) (loaded, skipped int) {
	l.mu.Lock()
	defer l.mu.Unlock()

	for i, s := range scores {
		if s.ID == "" {
			log.WithFields(logrus.Fields{
				"index": i,
				"name":  s.Name,
			}).Warn("skipping persisted score without a player id")
			skipped++
			continue
		}
		if _, ok := l.players[s.ID]; ok {
			continue
		}
		c := s.Clone()
		l.players[s.ID] = &c
		loaded++
	}
	return loaded, skipped
}
