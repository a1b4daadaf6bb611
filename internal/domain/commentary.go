package domain

import "time"

// CommentaryKind classifies a commentary line for display filtering.
type CommentaryKind string

const (
	CommentaryWicket   CommentaryKind = "WICKET"
	CommentaryBoundary CommentaryKind = "BOUNDARY"
	CommentaryBall     CommentaryKind = "BALL"
)

// Commentary is a derived, immutable text record generated per ball.
type Commentary struct {
	MatchID       string         `json:"matchId"`
	InningsNumber int            `json:"inningsNumber"`
	Over          string         `json:"over"`
	Kind          CommentaryKind `json:"kind"`
	Text          string         `json:"text"`
	At            time.Time      `json:"at"`
}
