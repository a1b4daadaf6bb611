// Package broadcast republishes scoring state changes to registered
// observers. Delivery is synchronous, at-most-once, in registration
// order, over a point-in-time snapshot of the observer set; a failing
// observer is logged and skipped, never surfaced to the scoring caller.
package broadcast

import (
	"time"

	"cricket-score-service/internal/domain"
)

// EventKind names the notification channels of the broadcaster.
type EventKind string

const (
	EventMatchStart  EventKind = "matchStart"
	EventBallBowled  EventKind = "ballBowled"
	EventWicket      EventKind = "wicket"
	EventInningsEnd  EventKind = "inningsEnd"
	EventMatchEnd    EventKind = "matchEnd"
	EventScoreUpdate EventKind = "scoreUpdate"
)

// Observer receives match events. Implementations must be lightweight,
// in-process callbacks; a slow observer delays every later one in the
// same notify call. Errors are isolated by the broadcaster.
type Observer interface {
	Name() string
	OnMatchStart(m *domain.Match) error
	OnBallBowled(m *domain.Match, ball domain.Ball) error
	OnWicket(m *domain.Match, ball domain.Ball) error
	OnInningsEnd(m *domain.Match, inningsNumber int) error
	OnMatchEnd(m *domain.Match) error
	OnScoreUpdate(m *domain.Match, score string) error
}

// Event is the wire shape sinks publish to external consumers.
type Event struct {
	Kind          EventKind    `json:"kind"`
	MatchID       string       `json:"matchId"`
	Score         string       `json:"score,omitempty"`
	InningsNumber int          `json:"inningsNumber,omitempty"`
	Ball          *domain.Ball `json:"ball,omitempty"`
	Result        string       `json:"result,omitempty"`
	At            time.Time    `json:"at"`
}

// NewEvent assembles the external wire shape for an event kind.
func NewEvent(kind EventKind, m *domain.Match, ball *domain.Ball, inningsNumber int) Event {
	ev := Event{
		Kind:          kind,
		MatchID:       m.ID,
		Score:         m.LiveScore(),
		InningsNumber: inningsNumber,
		Ball:          ball,
		At:            time.Now().UTC(),
	}
	if kind == EventMatchEnd && m.Result != "" {
		ev.Result = string(m.Result)
	}
	return ev
}
