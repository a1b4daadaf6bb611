package scoring

import (
	"math"

	"cricket-score-service/internal/domain"
)

// Standard is the plain limited-overs arithmetic: target is the first
// innings total plus one, projections extrapolate the current run rate
// linearly across the allotment.
type Standard struct{}

// NewStandard constructs the standard strategy.
func NewStandard() *Standard {
	return &Standard{}
}

func (s *Standard) Name() string { return NameStandard }

// ChaseTarget is one more than the first innings total.
func (s *Standard) ChaseTarget(m *domain.Match) int {
	if len(m.Innings) == 0 {
		return 0
	}
	return m.Innings[0].TotalRuns + 1
}

// RequiredRunRate divides the runs still needed by the overs left.
func (s *Standard) RequiredRunRate(m *domain.Match) float64 {
	chase := chasingInnings(m)
	if chase == nil || chase.Target <= 0 {
		return 0
	}
	required := chase.Target - chase.TotalRuns
	if required <= 0 {
		return 0
	}
	overs := oversRemaining(m, chase)
	if overs <= 0 {
		return math.Inf(1)
	}
	return float64(required) / overs
}

// ProjectedScore extrapolates the innings' run rate across the full
// allotment. Before the first legal ball the projection is the current
// total.
func (s *Standard) ProjectedScore(in *domain.Innings, totalOvers int) int {
	overs := in.Overs()
	if overs <= 0 || totalOvers <= 0 {
		return in.TotalRuns
	}
	return int(in.RunRate() * float64(totalOvers))
}

// WinProbability compares what the chasing side can still score at its
// current rate against what it needs, clamped to [0,1]. Without a
// chase under way both sides sit at even money.
func (s *Standard) WinProbability(m *domain.Match, forBattingTeam bool) float64 {
	chase := chasingInnings(m)
	if chase == nil || chase.Target <= 0 {
		return 0.5
	}

	p := s.chaseProbability(m, chase)
	if forBattingTeam {
		return p
	}
	return 1 - p
}

func (s *Standard) chaseProbability(m *domain.Match, chase *domain.Innings) float64 {
	required := chase.Target - chase.TotalRuns
	if required <= 0 {
		return 1
	}
	overs := oversRemaining(m, chase)
	if overs <= 0 || chase.Wickets >= domain.MaxWickets {
		return 0
	}

	rate := chase.RunRate()
	if rate <= 0 {
		// No scoring yet; fall back to the asking rate of the first innings.
		rate = float64(chase.Target-1) / float64(m.Format.OversPerInnings)
	}
	achievable := rate * overs
	return clamp01(achievable / float64(required))
}
