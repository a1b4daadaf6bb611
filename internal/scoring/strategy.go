// Package scoring holds the pluggable derived-metric strategies:
// required run rate, projected score, win probability and the chase
// target. A strategy is chosen once per service instance at
// construction; there is no mid-match switching.
package scoring

import (
	"fmt"

	"cricket-score-service/internal/domain"
)

// Strategy computes derived metrics from live match state. All methods
// are pure reads.
type Strategy interface {
	Name() string

	// ChaseTarget is the total the side batting second must reach.
	ChaseTarget(m *domain.Match) int

	// RequiredRunRate is runs per over the chasing side still needs.
	// Positive infinity when no overs remain and runs are required.
	RequiredRunRate(m *domain.Match) float64

	// ProjectedScore estimates the batting side's final total given the
	// full allotment of overs.
	ProjectedScore(in *domain.Innings, totalOvers int) int

	// WinProbability is the chasing side's probability in [0,1] when
	// forBattingTeam is true, its complement otherwise.
	WinProbability(m *domain.Match, forBattingTeam bool) float64
}

// Strategy names accepted in configuration.
const (
	NameStandard = "standard"
	NameDLS      = "dls"
)

// ForName resolves a configured strategy name.
func ForName(name string) (Strategy, error) {
	switch name {
	case NameStandard, "":
		return NewStandard(), nil
	case NameDLS:
		return NewDLS(), nil
	}
	return nil, fmt.Errorf("unknown scoring strategy %q", name)
}

// chasingInnings returns the second innings if the match has one.
func chasingInnings(m *domain.Match) *domain.Innings {
	if len(m.Innings) < 2 {
		return nil
	}
	return m.Innings[1]
}

// oversRemaining is the chasing side's remaining allotment in real
// overs, derived from balls so partial overs carry exact weight.
func oversRemaining(m *domain.Match, in *domain.Innings) float64 {
	allotment := m.Format.OversPerInnings
	if in.OversLimit > 0 && in.OversLimit < allotment {
		allotment = in.OversLimit
	}
	remaining := allotment*domain.BallsPerOver - in.LegalBalls()
	if remaining < 0 {
		remaining = 0
	}
	return float64(remaining) / domain.BallsPerOver
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
