package score

import (
	"fmt"
	"time"

	"cricket-score-service/internal/domain"
)

// buildCommentary derives the display record for a delivery. The
// classification priority is wicket, then six, then four, then an
// ordinary delivery.
func buildCommentary(matchID string, ball domain.Ball, in *domain.Innings) domain.Commentary {
	c := domain.Commentary{
		MatchID:       matchID,
		InningsNumber: in.Number,
		Over:          ball.Notation(),
		At:            time.Now().UTC(),
	}

	prefix := fmt.Sprintf("%s to %s, ", ball.BowlerID, ball.BatsmanID)

	switch {
	case ball.Wicket:
		c.Kind = domain.CommentaryWicket
		c.Text = prefix + "OUT! " + string(ball.Dismissal)
	case ball.Six():
		c.Kind = domain.CommentaryBoundary
		c.Text = prefix + fmt.Sprintf("SIX! %d runs", ball.RunsOffBat)
	case ball.Four():
		c.Kind = domain.CommentaryBoundary
		c.Text = prefix + fmt.Sprintf("FOUR! %d runs", ball.RunsOffBat)
	default:
		c.Kind = domain.CommentaryBall
		c.Text = prefix + describeRuns(ball)
	}
	return c
}

func describeRuns(ball domain.Ball) string {
	if ball.Extra != domain.ExtraNone {
		return fmt.Sprintf("%s, %d run(s)", extraLabel(ball.Extra), ball.TotalRuns())
	}
	if ball.TotalRuns() == 0 {
		return "no run"
	}
	return fmt.Sprintf("%d run(s)", ball.TotalRuns())
}

func extraLabel(e domain.ExtraKind) string {
	switch e {
	case domain.ExtraWide:
		return "wide"
	case domain.ExtraNoBall:
		return "no ball"
	case domain.ExtraBye:
		return "bye"
	case domain.ExtraLegBye:
		return "leg bye"
	case domain.ExtraDeadBall:
		return "dead ball"
	}
	return string(e)
}
