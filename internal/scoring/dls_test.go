package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cricket-score-service/internal/domain"
)

func TestResourcePercentageBuckets(t *testing.T) {
	// The lookup takes the nearest lower bucket without interpolation.
	cases := []struct {
		overs   float64
		wickets int
		want    float64
	}{
		{20, 0, 100.0},
		{19.5, 0, 95.0},  // falls to the 18-over row
		{18, 0, 95.0},
		{16, 2, 80.4},    // 15-over row
		{12, 5, 46.5},
		{10, 9, 5.5},
		{7.9, 0, 50.0},   // 7-over row
		{4.5, 3, 12.7},   // 2-over row
		{1, 0, 5.0},
		{0.5, 0, 5.0},    // below the last threshold, last row applies
	}
	for _, tc := range cases {
		assert.InDelta(t, tc.want, resourcePercentage(tc.overs, tc.wickets), 1e-9,
			"overs=%v wickets=%d", tc.overs, tc.wickets)
	}
}

func TestResourcePercentageExhausted(t *testing.T) {
	assert.Zero(t, resourcePercentage(0, 3))
	assert.Zero(t, resourcePercentage(-1, 0))
	assert.Zero(t, resourcePercentage(10, domain.MaxWickets))
}

func TestDLSChaseTargetFullResources(t *testing.T) {
	d := NewDLS()

	// Both sides on full 20-over resources: same target as standard.
	m := chaseFixture(t, 160, 0, 0, 0)
	assert.Equal(t, 161, d.ChaseTarget(m))
}

func TestDLSChaseTargetCurtailedChase(t *testing.T) {
	d := NewDLS()

	// The chase is cut to 10 overs: the side batting second has 65% of
	// resources against the first side's 100%, so par = 160 * 0.65.
	m := chaseFixture(t, 160, 0, 0, 0)
	m.Innings[1].OversLimit = 10
	assert.Equal(t, 105, d.ChaseTarget(m))
}

func TestDLSChaseTargetMonotonicInFirstInningsRuns(t *testing.T) {
	d := NewDLS()

	prev := 0
	for runs := 50; runs <= 250; runs += 10 {
		m := chaseFixture(t, runs, 0, 0, 0)
		m.Innings[1].OversLimit = 12
		target := d.ChaseTarget(m)
		require.GreaterOrEqual(t, target, prev, "target must not shrink as the first innings grows")
		prev = target
	}
}

func TestDLSChaseTargetNoInnings(t *testing.T) {
	d := NewDLS()
	assert.Zero(t, d.ChaseTarget(domain.NewMatch("a", "b", domain.FormatT20)))
}

func TestDLSRequiredRunRate(t *testing.T) {
	d := NewDLS()

	// Full resources: target 161, 61 scored, 100 needed from 10 overs.
	m := chaseFixture(t, 160, 61, 2, 10*domain.BallsPerOver)
	assert.InDelta(t, 10.0, d.RequiredRunRate(m), 1e-9)

	m = chaseFixture(t, 160, 161, 3, 15*domain.BallsPerOver)
	assert.Zero(t, d.RequiredRunRate(m))
}

func TestDLSProjectedScore(t *testing.T) {
	d := NewDLS()

	in := domain.NewInnings(1, "team-a", "team-b")
	in.Start("bat-1", "bat-2")
	in.TotalRuns = 80
	in.OversBowled = 10
	in.Wickets = 2

	// Resources used = 100 - R(10 remaining, 2 wickets) = 100 - 59.7.
	// Projection = 80 + 80/40.3 * 59.7 = 80 + 118.5 -> 198.
	assert.Equal(t, 198, d.ProjectedScore(in, 20))

	// Nothing consumed yet: projection is the current total.
	fresh := domain.NewInnings(1, "team-a", "team-b")
	fresh.TotalRuns = 1
	assert.Equal(t, 1, d.ProjectedScore(fresh, 20))
}

func TestDLSWinProbability(t *testing.T) {
	d := NewDLS()

	assert.InDelta(t, 0.5, d.WinProbability(domain.NewMatch("a", "b", domain.FormatT20), true), 1e-9)

	// 10 overs left, 2 down: 59.7% of resources remain, expecting
	// 0.597 * 160 = 95.5 runs against 100 required.
	m := chaseFixture(t, 160, 61, 2, 10*domain.BallsPerOver)
	assert.InDelta(t, 0.9552, d.WinProbability(m, true), 1e-4)
	assert.InDelta(t, 1-0.9552, d.WinProbability(m, false), 1e-4)

	// Target reached: probability pinned at 1.
	m = chaseFixture(t, 160, 165, 4, 18*domain.BallsPerOver)
	assert.InDelta(t, 1.0, d.WinProbability(m, true), 1e-9)
}
