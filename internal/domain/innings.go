package domain

import (
	"fmt"

	"github.com/google/uuid"
)

// InningsStatus tracks the innings lifecycle.
type InningsStatus string

const (
	InningsNotStarted     InningsStatus = "NOT_STARTED"
	InningsInProgress     InningsStatus = "IN_PROGRESS"
	InningsAllOut         InningsStatus = "ALL_OUT"
	InningsDeclared       InningsStatus = "DECLARED"
	InningsTargetAchieved InningsStatus = "TARGET_ACHIEVED"
	InningsCompleted      InningsStatus = "COMPLETED"
)

// BallsPerOver is fixed by the laws of the game.
const BallsPerOver = 6

// MaxWickets is the number of dismissals that closes an innings.
const MaxWickets = 10

// BatsmanScore is one batsman's line in the scorecard.
type BatsmanScore struct {
	PlayerID   string        `json:"playerId"`
	Position   int           `json:"position"`
	Runs       int           `json:"runs"`
	BallsFaced int           `json:"ballsFaced"`
	Fours      int           `json:"fours"`
	Sixes      int           `json:"sixes"`
	Out        bool          `json:"out"`
	Dismissal  DismissalKind `json:"dismissal,omitempty"`
}

// BowlerFigures is one bowler's line in the scorecard.
type BowlerFigures struct {
	PlayerID      string `json:"playerId"`
	Balls         int    `json:"balls"`
	RunsConceded  int    `json:"runsConceded"`
	Wickets       int    `json:"wickets"`
	OversComplete int    `json:"oversComplete"`
}

// Extras breaks the team's extras down by kind.
type Extras struct {
	Wides   int `json:"wides"`
	NoBalls int `json:"noBalls"`
	Byes    int `json:"byes"`
	LegByes int `json:"legByes"`
}

// Total is the number of extra runs conceded.
func (e Extras) Total() int {
	return e.Wides + e.NoBalls + e.Byes + e.LegByes
}

// Innings holds one innings' live state. Counters are mutated only by
// the engine package; everything else treats an Innings as read-only.
type Innings struct {
	ID            string        `json:"id"`
	Number        int           `json:"number"`
	BattingTeamID string        `json:"battingTeamId"`
	BowlingTeamID string        `json:"bowlingTeamId"`
	TotalRuns     int           `json:"totalRuns"`
	Wickets       int           `json:"wickets"`
	OversBowled   int           `json:"oversBowled"`
	BallsInOver   int           `json:"ballsInOver"`
	Target        int           `json:"target,omitempty"`
	Status        InningsStatus `json:"status"`

	// OversLimit caps this innings below the format allotment when rain
	// curtails play; zero means the full allotment applies.
	OversLimit int `json:"oversLimit,omitempty"`

	StrikerID    string `json:"strikerId,omitempty"`
	NonStrikerID string `json:"nonStrikerId,omitempty"`
	BowlerID     string `json:"bowlerId,omitempty"`

	Balls          []Ball          `json:"balls"`
	Batsmen        []BatsmanScore  `json:"batsmen"`
	Bowlers        []BowlerFigures `json:"bowlers"`
	ExtrasConceded Extras          `json:"extras"`
	FallOfWickets  []string        `json:"fallOfWickets"`
}

// NewInnings creates an innings in the NOT_STARTED state.
func NewInnings(number int, battingTeamID, bowlingTeamID string) *Innings {
	return &Innings{
		ID:            uuid.NewString(),
		Number:        number,
		BattingTeamID: battingTeamID,
		BowlingTeamID: bowlingTeamID,
		Status:        InningsNotStarted,
	}
}

// Start moves the innings to IN_PROGRESS with the opening pair at the
// crease.
func (in *Innings) Start(strikerID, nonStrikerID string) {
	in.StrikerID = strikerID
	in.NonStrikerID = nonStrikerID
	in.Status = InningsInProgress
	in.addBatsman(strikerID)
	in.addBatsman(nonStrikerID)
}

// InProgress reports whether the innings accepts deliveries.
func (in *Innings) InProgress() bool {
	return in.Status == InningsInProgress
}

// Closed reports whether the innings has reached a terminal scoring
// state (no further deliveries, possibly pending finalization).
func (in *Innings) Closed() bool {
	switch in.Status {
	case InningsAllOut, InningsDeclared, InningsTargetAchieved, InningsCompleted:
		return true
	}
	return false
}

// LegalBalls is the count of legal deliveries bowled so far.
func (in *Innings) LegalBalls() int {
	return in.OversBowled*BallsPerOver + in.BallsInOver
}

// Overs is the overs bowled as a real number (e.g. 12 overs 3 balls is
// 12.5), suitable for run-rate arithmetic.
func (in *Innings) Overs() float64 {
	return float64(in.LegalBalls()) / BallsPerOver
}

// RunRate is runs per over bowled; zero before the first legal ball.
func (in *Innings) RunRate() float64 {
	overs := in.Overs()
	if overs <= 0 {
		return 0
	}
	return float64(in.TotalRuns) / overs
}

// RotateStrike swaps the striker and non-striker.
func (in *Innings) RotateStrike() {
	in.StrikerID, in.NonStrikerID = in.NonStrikerID, in.StrikerID
}

// SendNewBatsman brings a replacement in at the striker's end. The new
// batsman takes strike; no rotation is implied by the dismissal itself.
func (in *Innings) SendNewBatsman(playerID string) {
	in.StrikerID = playerID
	in.addBatsman(playerID)
}

// Batsman returns the scorecard line for a player, creating none.
func (in *Innings) Batsman(playerID string) *BatsmanScore {
	for i := range in.Batsmen {
		if in.Batsmen[i].PlayerID == playerID {
			return &in.Batsmen[i]
		}
	}
	return nil
}

// Bowler returns the figures for a bowler, adding a line on first use.
func (in *Innings) Bowler(playerID string) *BowlerFigures {
	for i := range in.Bowlers {
		if in.Bowlers[i].PlayerID == playerID {
			return &in.Bowlers[i]
		}
	}
	in.Bowlers = append(in.Bowlers, BowlerFigures{PlayerID: playerID})
	return &in.Bowlers[len(in.Bowlers)-1]
}

func (in *Innings) addBatsman(playerID string) {
	if in.Batsman(playerID) != nil {
		return
	}
	in.Batsmen = append(in.Batsmen, BatsmanScore{
		PlayerID: playerID,
		Position: len(in.Batsmen) + 1,
	})
}

// Score renders the conventional total, e.g. "161/5".
func (in *Innings) Score() string {
	return fmt.Sprintf("%d/%d", in.TotalRuns, in.Wickets)
}

// ScoreWithOvers renders the total with the over count in cricket
// notation (completed overs, dot, balls into the current over).
func (in *Innings) ScoreWithOvers() string {
	return fmt.Sprintf("%d/%d (%d.%d ov)", in.TotalRuns, in.Wickets, in.OversBowled, in.BallsInOver)
}
