// Package scoreit holds the types shared by the scoring service, its
// stores and its clients.
package scoreit

import (
	"fmt"
	"strings"
)

// GameState is the phase of a game session.
type GameState int

const (
	StateNone GameState = iota
	StateStarted
	StateStopped
	StateEnded

	// StateUnknown stands in for a persisted label that could not be
	// parsed. It is never entered by a running session.
	StateUnknown GameState = -1
)

var stateLabels = map[GameState]string{
	StateNone:    "NONE",
	StateStarted: "STARTED",
	StateStopped: "STOPPED",
	StateEnded:   "ENDED",
}

func (s GameState) String() string {
	if label, ok := stateLabels[s]; ok {
		return label
	}
	return fmt.Sprintf("GameState(%d)", int(s))
}

// ParseGameState converts a persisted or user supplied label back into a
// GameState. Matching is case-insensitive.
func ParseGameState(s string) (GameState, error) {
	want := strings.ToUpper(strings.TrimSpace(s))
	for state, label := range stateLabels {
		if label == want {
			return state, nil
		}
	}
	return StateUnknown, fmt.Errorf("unknown game state %q", s)
}

// Valid reports whether s is one of the four session phases.
func (s GameState) Valid() bool {
	_, ok := stateLabels[s]
	return ok
}

func (s GameState) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *GameState) UnmarshalText(text []byte) error {
	state, err := ParseGameState(string(text))
	if err != nil {
		return err
	}
	*s = state
	return nil
}

// PlayerScore is a single player's standing for the current session.
type PlayerScore struct {
	ID         string           `json:"id"`
	Name       string           `json:"name"`
	Points     int64            `json:"points"`
	ItemCounts map[string]int64 `json:"item_counts,omitempty"`
}

// Clone returns a deep copy of p.
func (p PlayerScore) Clone() PlayerScore {
	c := p
	if p.ItemCounts != nil {
		c.ItemCounts = make(map[string]int64, len(p.ItemCounts))
		for item, n := range p.ItemCounts {
			c.ItemCounts[item] = n
		}
	}
	return c
}

// RankedScore is a PlayerScore with its 1-based position in the
// points-descending ordering.
type RankedScore struct {
	Rank int `json:"rank"`
	PlayerScore
}

type Board []RankedScore

// Snapshot is everything needed to restore a session.
type Snapshot struct {
	State  GameState     `json:"state"`
	Scores []PlayerScore `json:"scores"`
}

// Deposit describes items handed in at the drop box.
type Deposit struct {
	PlayerID   string   `json:"player_id"`
	PlayerName string   `json:"player_name"`
	Item       string   `json:"item"`
	Quantity   int64    `json:"quantity"`
	Tags       []string `json:"tags"`
}

// DepositResult reports the points awarded for a deposit and the
// player's new total.
type DepositResult struct {
	PlayerID string `json:"player_id"`
	Awarded  int64  `json:"awarded"`
	Total    int64  `json:"total"`
}
