package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cricket-score-service/internal/domain"
)

const (
	striker    = "batsman-1"
	nonStriker = "batsman-2"
	bowler     = "bowler-1"
)

func newInnings(t *testing.T) *domain.Innings {
	t.Helper()
	in := domain.NewInnings(1, "team-a", "team-b")
	in.Start(striker, nonStriker)
	return in
}

func delivery(runs int) domain.Ball {
	return domain.Ball{
		ID:         domain.NewBallID(),
		BatsmanID:  striker,
		BowlerID:   bowler,
		RunsOffBat: runs,
		Extra:      domain.ExtraNone,
	}
}

func TestAddBallRunsAndLegalBallCount(t *testing.T) {
	eng := New(domain.FormatT20)
	in := newInnings(t)

	require.NoError(t, eng.AddBall(in, delivery(4)))
	require.NoError(t, eng.AddBall(in, delivery(0)))

	assert.Equal(t, 4, in.TotalRuns)
	assert.Equal(t, 2, in.LegalBalls())
	assert.Equal(t, 2, in.BallsInOver)
	assert.Equal(t, 0, in.OversBowled)

	card := in.Batsman(striker)
	require.NotNil(t, card)
	assert.Equal(t, 4, card.Runs)
	assert.Equal(t, 2, card.BallsFaced)
	assert.Equal(t, 1, card.Fours)
}

func TestAddBallWideDoesNotAdvanceOver(t *testing.T) {
	eng := New(domain.FormatT20)
	in := newInnings(t)

	wide := domain.Ball{BatsmanID: striker, BowlerID: bowler, Extra: domain.ExtraWide, ExtraRuns: 1}
	require.NoError(t, eng.AddBall(in, wide))

	assert.Equal(t, 1, in.TotalRuns)
	assert.Equal(t, 0, in.LegalBalls())
	assert.Equal(t, 1, in.ExtrasConceded.Wides)

	card := in.Batsman(striker)
	require.NotNil(t, card)
	assert.Equal(t, 0, card.Runs, "wides are never credited to the batsman")
	assert.Equal(t, 0, card.BallsFaced)
	assert.Equal(t, 1, in.Bowler(bowler).RunsConceded)
	assert.Equal(t, 0, in.Bowler(bowler).Balls)
}

func TestAddBallNoBallCreditsBatsmanButNotOver(t *testing.T) {
	eng := New(domain.FormatT20)
	in := newInnings(t)

	noBall := domain.Ball{BatsmanID: striker, BowlerID: bowler, RunsOffBat: 4, Extra: domain.ExtraNoBall, ExtraRuns: 1}
	require.NoError(t, eng.AddBall(in, noBall))

	assert.Equal(t, 5, in.TotalRuns)
	assert.Equal(t, 0, in.LegalBalls())
	assert.Equal(t, 4, in.Batsman(striker).Runs)
	assert.Equal(t, 0, in.Batsman(striker).BallsFaced)
	assert.Equal(t, 5, in.Bowler(bowler).RunsConceded)
}

func TestAddBallByeIsLegalButNotCredited(t *testing.T) {
	eng := New(domain.FormatT20)
	in := newInnings(t)

	bye := domain.Ball{BatsmanID: striker, BowlerID: bowler, Extra: domain.ExtraBye, ExtraRuns: 2}
	require.NoError(t, eng.AddBall(in, bye))

	assert.Equal(t, 2, in.TotalRuns)
	assert.Equal(t, 1, in.LegalBalls())
	assert.Equal(t, 2, in.ExtrasConceded.Byes)
	assert.Equal(t, 0, in.Batsman(striker).Runs)
	assert.Equal(t, 1, in.Batsman(striker).BallsFaced)
	assert.Equal(t, 0, in.Bowler(bowler).RunsConceded, "byes are not charged to the bowler")
}

func TestTotalsInvariant(t *testing.T) {
	eng := New(domain.FormatT20)
	in := newInnings(t)

	balls := []domain.Ball{
		delivery(4),
		{BatsmanID: striker, BowlerID: bowler, Extra: domain.ExtraWide, ExtraRuns: 1},
		delivery(2),
		{BatsmanID: striker, BowlerID: bowler, Extra: domain.ExtraLegBye, ExtraRuns: 1},
		{BatsmanID: striker, BowlerID: bowler, RunsOffBat: 6, Extra: domain.ExtraNoBall, ExtraRuns: 1},
		delivery(0),
	}
	for _, b := range balls {
		require.NoError(t, eng.AddBall(in, b))
	}

	batRuns := 0
	for _, card := range in.Batsmen {
		batRuns += card.Runs
	}
	assert.Equal(t, batRuns+in.ExtrasConceded.Total(), in.TotalRuns)
	assert.Equal(t, 15, in.TotalRuns)
}

func TestOverCompletionRotatesStrike(t *testing.T) {
	eng := New(domain.FormatT20)
	in := newInnings(t)

	for i := 0; i < domain.BallsPerOver; i++ {
		require.NoError(t, eng.AddBall(in, delivery(0)))
	}

	assert.Equal(t, 1, in.OversBowled)
	assert.Equal(t, 0, in.BallsInOver)
	assert.Equal(t, nonStriker, in.StrikerID)
	assert.Equal(t, striker, in.NonStrikerID)
	assert.Equal(t, 1, in.Bowler(bowler).OversComplete)
}

func TestOddRunsRotateStrike(t *testing.T) {
	eng := New(domain.FormatT20)
	in := newInnings(t)

	require.NoError(t, eng.AddBall(in, delivery(1)))
	assert.Equal(t, nonStriker, in.StrikerID)

	require.NoError(t, eng.AddBall(in, domain.Ball{BatsmanID: nonStriker, BowlerID: bowler, RunsOffBat: 2}))
	assert.Equal(t, nonStriker, in.StrikerID, "even runs keep the striker")

	require.NoError(t, eng.AddBall(in, domain.Ball{BatsmanID: nonStriker, BowlerID: bowler, RunsOffBat: 3}))
	assert.Equal(t, striker, in.StrikerID)
}

func TestSingleOnLastBallOfOverSwapsTwice(t *testing.T) {
	eng := New(domain.FormatT20)
	in := newInnings(t)

	for i := 0; i < domain.BallsPerOver-1; i++ {
		require.NoError(t, eng.AddBall(in, delivery(0)))
	}
	require.NoError(t, eng.AddBall(in, delivery(1)))

	// End-of-over rotation and the odd-run rotation cancel out: the
	// batsman who took the single keeps the strike for the next over.
	assert.Equal(t, striker, in.StrikerID)
}

func TestWicketUpdatesCardsAndSuppressesRotation(t *testing.T) {
	eng := New(domain.FormatT20)
	in := newInnings(t)

	runOut := domain.Ball{
		BatsmanID:   striker,
		BowlerID:    bowler,
		RunsOffBat:  1,
		Wicket:      true,
		Dismissal:   domain.DismissalRunOut,
		DismissedID: nonStriker,
	}
	require.NoError(t, eng.AddBall(in, runOut))

	assert.Equal(t, 1, in.Wickets)
	assert.Equal(t, striker, in.StrikerID, "dismissal suppresses the odd-run swap")
	assert.Equal(t, 0, in.Bowler(bowler).Wickets, "run outs are not credited to the bowler")

	out := in.Batsman(nonStriker)
	require.NotNil(t, out)
	assert.True(t, out.Out)
	assert.Equal(t, domain.DismissalRunOut, out.Dismissal)
	require.Len(t, in.FallOfWickets, 1)
}

func TestBowledCreditsBowler(t *testing.T) {
	eng := New(domain.FormatT20)
	in := newInnings(t)

	bowled := domain.Ball{BatsmanID: striker, BowlerID: bowler, Wicket: true, Dismissal: domain.DismissalBowled}
	require.NoError(t, eng.AddBall(in, bowled))

	assert.Equal(t, 1, in.Bowler(bowler).Wickets)
	assert.True(t, in.Batsman(striker).Out)
}

func TestTenthWicketClosesInnings(t *testing.T) {
	eng := New(domain.FormatT20)
	in := newInnings(t)

	for i := 0; i < domain.MaxWickets; i++ {
		b := domain.Ball{BatsmanID: in.StrikerID, BowlerID: bowler, Wicket: true, Dismissal: domain.DismissalBowled}
		require.NoError(t, eng.AddBall(in, b))
	}

	assert.Equal(t, domain.InningsAllOut, in.Status)

	err := eng.AddBall(in, delivery(1))
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrNoActiveInnings)
}

func TestTargetAchievedMidOver(t *testing.T) {
	eng := New(domain.FormatT20)
	in := newInnings(t)
	in.Target = 5

	require.NoError(t, eng.AddBall(in, delivery(2)))
	require.NoError(t, eng.AddBall(in, delivery(4)))

	assert.Equal(t, domain.InningsTargetAchieved, in.Status)
	assert.Equal(t, 2, in.BallsInOver, "the over is left where it stood")
}

func TestOversLimitClosesInningsAtBoundary(t *testing.T) {
	eng := New(domain.FormatT20)
	in := newInnings(t)
	in.OversLimit = 1

	for i := 0; i < domain.BallsPerOver; i++ {
		require.NoError(t, eng.AddBall(in, delivery(0)))
	}

	assert.Equal(t, domain.InningsCompleted, in.Status)
	assert.Equal(t, 1, in.OversBowled)
}

func TestUnlimitedFormatNeverClosesOnOvers(t *testing.T) {
	eng := New(domain.FormatTest)
	in := newInnings(t)

	for i := 0; i < 3*domain.BallsPerOver; i++ {
		require.NoError(t, eng.AddBall(in, delivery(0)))
	}
	assert.Equal(t, domain.InningsInProgress, in.Status)
}

func TestAddBallRejectsNotStartedInnings(t *testing.T) {
	eng := New(domain.FormatT20)
	in := domain.NewInnings(1, "team-a", "team-b")

	err := eng.AddBall(in, delivery(1))
	assert.ErrorIs(t, err, domain.ErrNoActiveInnings)
}

func TestAddBallRejectsCorruptOverCounter(t *testing.T) {
	eng := New(domain.FormatT20)
	in := newInnings(t)
	in.BallsInOver = domain.BallsPerOver

	err := eng.AddBall(in, delivery(0))
	assert.ErrorIs(t, err, domain.ErrInvariant)
}

func TestDeclare(t *testing.T) {
	eng := New(domain.FormatTest)
	in := newInnings(t)
	require.NoError(t, eng.AddBall(in, delivery(4)))

	require.NoError(t, eng.Declare(in))
	assert.Equal(t, domain.InningsDeclared, in.Status)

	assert.ErrorIs(t, eng.Declare(in), domain.ErrNoActiveInnings)
}

func TestFinalize(t *testing.T) {
	eng := New(domain.FormatT20)

	in := domain.NewInnings(1, "team-a", "team-b")
	eng.Finalize(in)
	assert.Equal(t, domain.InningsNotStarted, in.Status, "an unstarted innings stays unstarted")

	in = newInnings(t)
	require.NoError(t, eng.Declare(in))
	eng.Finalize(in)
	assert.Equal(t, domain.InningsCompleted, in.Status)
}
