// Package event describes what the scoring service broadcasts to other
// systems. Exactly one field of an Event is set.
package event

import (
	"context"
	"time"

	"github.com/scoreit/scoreit"
)

const (
	KeyChangedState   = "changed.state"
	KeyAwardedPoints  = "awarded.points"
	KeyEndedStandings = "ended.standings"
)

type Event struct {
	ChangedState   *ChangedState   `json:"event-changed-state,omitempty"`
	AwardedPoints  *AwardedPoints  `json:"event-awarded-points,omitempty"`
	EndedStandings *EndedStandings `json:"event-ended-standings,omitempty"`
}

// RoutingKey is the topic the event is published under.
func (e *Event) RoutingKey() string {
	switch {
	case e.ChangedState != nil:
		return KeyChangedState
	case e.AwardedPoints != nil:
		return KeyAwardedPoints
	case e.EndedStandings != nil:
		return KeyEndedStandings
	}
	return ""
}

type ChangedState struct {
	SessionID string            `json:"session_id"`
	From      scoreit.GameState `json:"from"`
	To        scoreit.GameState `json:"to"`
	At        time.Time         `json:"at"`
}

type AwardedPoints struct {
	SessionID string `json:"session_id"`
	PlayerID  string `json:"player_id"`
	Item      string `json:"item"`
	Quantity  int64  `json:"quantity"`
	Awarded   int64  `json:"awarded"`
	Total     int64  `json:"total"`
}

type EndedStandings struct {
	SessionID string        `json:"session_id"`
	Board     scoreit.Board `json:"board"`
	At        time.Time     `json:"at"`
}

// Discard drops every event. It stands in for the broker when none is
// configured.
type Discard struct{}

func (Discard) Publish(context.Context, *Event) error { return nil }
