package domain

import (
	"fmt"

	"github.com/google/uuid"
)

// MatchStatus tracks the match lifecycle.
type MatchStatus string

const (
	MatchScheduled MatchStatus = "SCHEDULED"
	MatchLive      MatchStatus = "LIVE"
	MatchCompleted MatchStatus = "COMPLETED"
	MatchAbandoned MatchStatus = "ABANDONED"
)

// MatchResult identifies the decided outcome of a match.
type MatchResult string

const (
	ResultTeam1Win MatchResult = "TEAM1_WIN"
	ResultTeam2Win MatchResult = "TEAM2_WIN"
	ResultTie      MatchResult = "TIE"
	ResultDraw     MatchResult = "DRAW"
	ResultNone     MatchResult = "NO_RESULT"
)

// Format describes the playing conditions attached to a match.
type Format struct {
	Name            string `json:"name"`
	OversPerInnings int    `json:"oversPerInnings"`
	LimitedOvers    bool   `json:"limitedOvers"`
	InningsPerSide  int    `json:"inningsPerSide"`
}

// Standard formats.
var (
	FormatT20  = Format{Name: "T20", OversPerInnings: 20, LimitedOvers: true, InningsPerSide: 1}
	FormatODI  = Format{Name: "ODI", OversPerInnings: 50, LimitedOvers: true, InningsPerSide: 1}
	FormatTest = Format{Name: "TEST", OversPerInnings: 0, LimitedOvers: false, InningsPerSide: 2}
)

// Toss records who won the toss and what they chose.
type Toss struct {
	WinnerTeamID string `json:"winnerTeamId"`
	Decision     string `json:"decision"`
}

// Match owns match-level state: teams, format, the ordered innings
// list, and the result once decided. Innings are appended in order and
// never reordered or removed.
type Match struct {
	ID       string      `json:"id"`
	Team1ID  string      `json:"team1Id"`
	Team2ID  string      `json:"team2Id"`
	Format   Format      `json:"format"`
	Status   MatchStatus `json:"status"`
	Toss     *Toss       `json:"toss,omitempty"`
	Innings  []*Innings  `json:"innings"`
	Result   MatchResult `json:"result,omitempty"`
	WinnerID string      `json:"winnerId,omitempty"`
	Summary  string      `json:"summary,omitempty"`

	// Commentary is newest-first, derived per ball; not authoritative.
	Commentary []Commentary `json:"commentary"`
}

// NewMatch creates a match in the SCHEDULED state.
func NewMatch(team1ID, team2ID string, format Format) *Match {
	return &Match{
		ID:      uuid.NewString(),
		Team1ID: team1ID,
		Team2ID: team2ID,
		Format:  format,
		Status:  MatchScheduled,
	}
}

// Live reports whether scoring commands may be applied.
func (m *Match) Live() bool {
	return m.Status == MatchLive
}

// Completed reports whether the match has finished.
func (m *Match) Completed() bool {
	return m.Status == MatchCompleted
}

// CurrentInnings returns the most recent innings, or nil before the first.
func (m *Match) CurrentInnings() *Innings {
	if len(m.Innings) == 0 {
		return nil
	}
	return m.Innings[len(m.Innings)-1]
}

// ActiveInnings returns the innings currently in progress, or nil.
func (m *Match) ActiveInnings() *Innings {
	in := m.CurrentInnings()
	if in == nil || !in.InProgress() {
		return nil
	}
	return in
}

// AppendInnings registers the next innings on the match.
func (m *Match) AppendInnings(in *Innings) {
	m.Innings = append(m.Innings, in)
}

// AddCommentary prepends a commentary record (latest first).
func (m *Match) AddCommentary(c Commentary) {
	m.Commentary = append([]Commentary{c}, m.Commentary...)
}

// LiveScore renders the current scoreline for broadcast payloads.
func (m *Match) LiveScore() string {
	in := m.CurrentInnings()
	if in == nil {
		return "match not started"
	}
	s := fmt.Sprintf("%s: %s", in.BattingTeamID, in.ScoreWithOvers())
	if in.Target > 0 && in.InProgress() {
		required := in.Target - in.TotalRuns
		remaining := m.Format.OversPerInnings*BallsPerOver - in.LegalBalls()
		s += fmt.Sprintf(" | need %d from %d balls", required, remaining)
	}
	return s
}
