package scoring

import (
	"math"

	"cricket-score-service/internal/domain"
)

// DLS is a simplified Duckworth-Lewis-Stern calculation for
// rain-affected matches. Resources come from a fixed table keyed by a
// discretized overs-remaining bucket and wickets lost; buckets use the
// nearest lower threshold with no interpolation. The simplification is
// deliberate and the table values are load-bearing: revised targets
// agreed mid-match must stay reproducible.
type DLS struct{}

// NewDLS constructs the rain-adjusted strategy.
func NewDLS() *DLS {
	return &DLS{}
}

// resourceTable holds the percentage of scoring resources remaining,
// indexed by overs-remaining bucket then wickets lost (0-9).
var resourceTable = [9][10]float64{
	{100.0, 96.5, 91.6, 84.3, 73.5, 59.5, 44.6, 30.2, 17.9, 8.3}, // 20 overs
	{95.0, 91.8, 87.2, 80.3, 70.1, 56.8, 42.6, 28.9, 17.1, 7.9},  // 18 overs
	{87.5, 84.7, 80.4, 74.1, 64.7, 52.4, 39.4, 26.7, 15.8, 7.3},  // 15 overs
	{77.5, 75.1, 71.3, 65.7, 57.4, 46.5, 34.9, 23.7, 14.0, 6.5},  // 12 overs
	{65.0, 62.9, 59.7, 55.1, 48.1, 39.0, 29.2, 19.8, 11.7, 5.5},  // 10 overs
	{50.0, 48.4, 46.0, 42.4, 37.0, 30.0, 22.5, 15.3, 9.0, 4.2},   // 7 overs
	{32.5, 31.5, 29.9, 27.5, 24.0, 19.5, 14.6, 9.9, 5.9, 2.7},    // 5 overs
	{15.0, 14.5, 13.8, 12.7, 11.1, 9.0, 6.7, 4.6, 2.7, 1.3},      // 2 overs
	{5.0, 4.8, 4.6, 4.2, 3.7, 3.0, 2.2, 1.5, 0.9, 0.4},           // 1 over
}

// oversBuckets are the thresholds for the nearest-lower lookup, in the
// same order as resourceTable's rows.
var oversBuckets = [9]float64{20, 18, 15, 12, 10, 7, 5, 2, 1}

// resourcePercentage looks up remaining resources for the given overs
// remaining and wickets lost.
func resourcePercentage(oversRemaining float64, wicketsLost int) float64 {
	if oversRemaining <= 0 || wicketsLost >= domain.MaxWickets {
		return 0
	}
	row := len(oversBuckets) - 1
	for i, threshold := range oversBuckets {
		if oversRemaining >= threshold {
			row = i
			break
		}
	}
	col := wicketsLost
	if col > 9 {
		col = 9
	}
	return resourceTable[row][col]
}

func (d *DLS) Name() string { return NameDLS }

// ChaseTarget is the DLS par score plus one: the first innings total
// scaled by the ratio of each side's starting resources. Without
// curtailment both sides start at full resources and the target reduces
// to the standard first-innings-plus-one.
func (d *DLS) ChaseTarget(m *domain.Match) int {
	if len(m.Innings) == 0 {
		return 0
	}

	first := m.Innings[0]
	team1Resources := resourcePercentage(d.startingOvers(m, first), 0)
	team2Overs := float64(m.Format.OversPerInnings)
	if chase := chasingInnings(m); chase != nil {
		team2Overs = d.startingOvers(m, chase)
	}
	team2Resources := resourcePercentage(team2Overs, 0)
	if team1Resources <= 0 {
		return 0
	}

	par := float64(first.TotalRuns) * (team2Resources / team1Resources)
	return int(math.Ceil(par)) + 1
}

// startingOvers is the allotment an innings began with, after any
// curtailment.
func (d *DLS) startingOvers(m *domain.Match, in *domain.Innings) float64 {
	if in.OversLimit > 0 && in.OversLimit < m.Format.OversPerInnings {
		return float64(in.OversLimit)
	}
	return float64(m.Format.OversPerInnings)
}

// RequiredRunRate is runs-to-par per over remaining.
func (d *DLS) RequiredRunRate(m *domain.Match) float64 {
	chase := chasingInnings(m)
	if chase == nil {
		return 0
	}
	required := d.ChaseTarget(m) - chase.TotalRuns
	if required <= 0 {
		return 0
	}
	overs := oversRemaining(m, chase)
	if overs <= 0 {
		return math.Inf(1)
	}
	return float64(required) / overs
}

// ProjectedScore scales the runs already scored by the resources left
// to consume.
func (d *DLS) ProjectedScore(in *domain.Innings, totalOvers int) int {
	resourcesUsed := resourcePercentage(float64(totalOvers), 0) -
		resourcePercentage(float64(totalOvers)-in.Overs(), in.Wickets)
	if resourcesUsed <= 0 {
		return in.TotalRuns
	}
	resourcesRemaining := 100 - resourcesUsed
	runsPerResource := float64(in.TotalRuns) / resourcesUsed
	return in.TotalRuns + int(runsPerResource*resourcesRemaining)
}

// WinProbability is the ratio of runs the chasing side can expect from
// its remaining resources to the runs still required, clamped to [0,1].
func (d *DLS) WinProbability(m *domain.Match, forBattingTeam bool) float64 {
	chase := chasingInnings(m)
	if chase == nil {
		return 0.5
	}

	required := d.ChaseTarget(m) - chase.TotalRuns
	resourcesRemaining := resourcePercentage(
		float64(m.Format.OversPerInnings)-chase.Overs(), chase.Wickets)

	expected := (resourcesRemaining / 100.0) * float64(m.Innings[0].TotalRuns)
	denom := float64(required)
	if denom < 1 {
		denom = 1
	}
	p := clamp01(expected / denom)

	if forBattingTeam {
		return p
	}
	return 1 - p
}
