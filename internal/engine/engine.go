// Package engine owns the ball-application rules. It is the only code
// permitted to mutate an innings' counters; everything above it treats
// innings state as read-only.
package engine

import (
	"fmt"

	"cricket-score-service/internal/domain"
)

// Engine applies deliveries to one match's innings under a fixed
// format. It holds no state of its own and takes no locks; callers
// serialize deliveries per match.
type Engine struct {
	oversPerInnings int
}

// New builds an engine for the given format. A zero overs-per-innings
// (first-class cricket) means innings end only by wickets or declaration.
func New(format domain.Format) *Engine {
	return &Engine{oversPerInnings: format.OversPerInnings}
}

// AddBall applies a single delivery. Effects, in order: runs, wicket,
// over progression with end-of-over strike rotation, odd-run strike
// rotation, append to the ball log. Termination conditions are
// evaluated after every ball; reaching the target ends the innings
// immediately, mid-over.
func (e *Engine) AddBall(in *domain.Innings, ball domain.Ball) error {
	if !in.InProgress() {
		return fmt.Errorf("add ball to innings %d (status %s): %w", in.Number, in.Status, domain.ErrNoActiveInnings)
	}
	if in.Wickets >= domain.MaxWickets {
		return fmt.Errorf("innings %d already has %d wickets: %w", in.Number, in.Wickets, domain.ErrInvariant)
	}
	if in.BallsInOver >= domain.BallsPerOver {
		return fmt.Errorf("innings %d over counter at %d: %w", in.Number, in.BallsInOver, domain.ErrInvariant)
	}

	e.applyRuns(in, ball)

	if ball.Wicket {
		e.applyWicket(in, ball)
	}

	if ball.LegalDelivery() {
		in.BallsInOver++
		if in.BallsInOver == domain.BallsPerOver {
			in.BallsInOver = 0
			in.OversBowled++
			in.Bowler(ball.BowlerID).OversComplete++
			// End-of-over rotation is independent of run-based rotation.
			in.RotateStrike()
		}
	}

	// Odd runs off the bat swap the strike, except after a dismissal:
	// the replacement enters per the dismissal rules, not via a swap.
	if ball.RunsOffBat%2 == 1 && !ball.Wicket {
		in.RotateStrike()
	}

	in.Balls = append(in.Balls, ball)

	e.checkTermination(in)
	return nil
}

func (e *Engine) applyRuns(in *domain.Innings, ball domain.Ball) {
	in.TotalRuns += ball.TotalRuns()

	switch ball.Extra {
	case domain.ExtraWide:
		in.ExtrasConceded.Wides += ball.ExtraRuns
	case domain.ExtraNoBall:
		in.ExtrasConceded.NoBalls += ball.ExtraRuns
	case domain.ExtraBye:
		in.ExtrasConceded.Byes += ball.ExtraRuns
	case domain.ExtraLegBye:
		in.ExtrasConceded.LegByes += ball.ExtraRuns
	}

	if batsman := in.Batsman(ball.BatsmanID); batsman != nil {
		if ball.LegalDelivery() {
			batsman.BallsFaced++
		}
		if ball.Extra.CreditedToBatsman() {
			batsman.Runs += ball.RunsOffBat
			if ball.Four() {
				batsman.Fours++
			}
			if ball.Six() {
				batsman.Sixes++
			}
		}
	}

	bowler := in.Bowler(ball.BowlerID)
	if ball.LegalDelivery() {
		bowler.Balls++
	}
	bowler.RunsConceded += ball.RunsOffBat
	if ball.Extra == domain.ExtraWide || ball.Extra == domain.ExtraNoBall {
		bowler.RunsConceded += ball.ExtraRuns
	}
}

func (e *Engine) applyWicket(in *domain.Innings, ball domain.Ball) {
	in.Wickets++

	dismissedID := ball.DismissedID
	if dismissedID == "" {
		dismissedID = ball.BatsmanID
	}
	if batsman := in.Batsman(dismissedID); batsman != nil {
		batsman.Out = true
		batsman.Dismissal = ball.Dismissal
	}
	if ball.Dismissal.CreditedToBowler() {
		in.Bowler(ball.BowlerID).Wickets++
	}

	in.FallOfWickets = append(in.FallOfWickets,
		fmt.Sprintf("%d-%d (%s, %d.%d ov)", in.Wickets, in.TotalRuns, dismissedID, in.OversBowled, in.BallsInOver))
}

func (e *Engine) checkTermination(in *domain.Innings) {
	// The target check short-circuits mid-over: the chase ends the
	// instant the target is reached, not at the over boundary.
	if in.Target > 0 && in.TotalRuns >= in.Target {
		in.Status = domain.InningsTargetAchieved
		return
	}
	if in.Wickets >= domain.MaxWickets {
		in.Status = domain.InningsAllOut
		return
	}
	if limit := e.oversLimit(in); limit > 0 && in.OversBowled >= limit && in.BallsInOver == 0 {
		in.Status = domain.InningsCompleted
	}
}

// oversLimit is the allotment for this innings: the format's overs per
// innings, reduced by any rain curtailment.
func (e *Engine) oversLimit(in *domain.Innings) int {
	if in.OversLimit > 0 && (e.oversPerInnings == 0 || in.OversLimit < e.oversPerInnings) {
		return in.OversLimit
	}
	return e.oversPerInnings
}

// Declare forces the innings closed regardless of overs or wickets
// remaining. Only valid while the innings is in progress.
func (e *Engine) Declare(in *domain.Innings) error {
	if !in.InProgress() {
		return fmt.Errorf("declare innings %d (status %s): %w", in.Number, in.Status, domain.ErrNoActiveInnings)
	}
	in.Status = domain.InningsDeclared
	return nil
}

// Finalize moves a started innings to COMPLETED, after which it is
// immutable. Calling it on a completed innings is a no-op.
func (e *Engine) Finalize(in *domain.Innings) {
	if in.Status == domain.InningsNotStarted || in.Status == domain.InningsCompleted {
		return
	}
	in.Status = domain.InningsCompleted
}
