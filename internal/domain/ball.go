package domain

import (
	"strconv"

	"github.com/google/uuid"
)

// ExtraKind classifies a delivery for scoring and over-progression rules.
type ExtraKind string

const (
	ExtraNone     ExtraKind = "NONE"
	ExtraWide     ExtraKind = "WIDE"
	ExtraNoBall   ExtraKind = "NO_BALL"
	ExtraBye      ExtraKind = "BYE"
	ExtraLegBye   ExtraKind = "LEG_BYE"
	ExtraDeadBall ExtraKind = "DEAD_BALL"
)

// Legal reports whether the delivery counts toward the six balls of an
// over. Byes and leg byes are legal deliveries; wides, no-balls and
// dead balls must be re-bowled.
func (e ExtraKind) Legal() bool {
	switch e {
	case ExtraWide, ExtraNoBall, ExtraDeadBall:
		return false
	}
	return true
}

// CreditedToBatsman reports whether runs off this delivery count toward
// the striker's personal score.
func (e ExtraKind) CreditedToBatsman() bool {
	return e == ExtraNone || e == ExtraNoBall
}

// DismissalKind enumerates the ways a batsman can be out.
type DismissalKind string

const (
	DismissalBowled    DismissalKind = "BOWLED"
	DismissalCaught    DismissalKind = "CAUGHT"
	DismissalLBW       DismissalKind = "LBW"
	DismissalRunOut    DismissalKind = "RUN_OUT"
	DismissalStumped   DismissalKind = "STUMPED"
	DismissalHitWicket DismissalKind = "HIT_WICKET"
)

// CreditedToBowler reports whether the dismissal counts in the bowler's figures.
func (d DismissalKind) CreditedToBowler() bool {
	switch d {
	case DismissalBowled, DismissalCaught, DismissalLBW, DismissalStumped, DismissalHitWicket:
		return true
	}
	return false
}

// Ball is the immutable record of a single delivery. Players and teams
// are referenced by ID; resolution happens at the store boundary.
type Ball struct {
	ID             string        `json:"id"`
	InningsNumber  int           `json:"inningsNumber"`
	Over           int           `json:"over"`
	PositionInOver int           `json:"positionInOver"`
	BatsmanID      string        `json:"batsmanId"`
	BowlerID       string        `json:"bowlerId"`
	RunsOffBat     int           `json:"runsOffBat"`
	Extra          ExtraKind     `json:"extra"`
	ExtraRuns      int           `json:"extraRuns"`
	Wicket         bool          `json:"wicket"`
	Dismissal      DismissalKind `json:"dismissal,omitempty"`
	DismissedID    string        `json:"dismissedId,omitempty"`
}

// NewBallID mints an identifier for a delivery record.
func NewBallID() string {
	return uuid.NewString()
}

// TotalRuns is the contribution of the delivery to the team total.
func (b Ball) TotalRuns() int {
	return b.RunsOffBat + b.ExtraRuns
}

// LegalDelivery reports whether the ball advances the over.
func (b Ball) LegalDelivery() bool {
	return b.Extra.Legal()
}

// Four reports a boundary scored along the ground.
func (b Ball) Four() bool {
	return b.RunsOffBat == 4
}

// Six reports a boundary cleared on the full.
func (b Ball) Six() bool {
	return b.RunsOffBat == 6
}

// Notation renders the over.ball position, e.g. "18.3".
func (b Ball) Notation() string {
	return strconv.Itoa(b.Over) + "." + strconv.Itoa(b.PositionInOver)
}
