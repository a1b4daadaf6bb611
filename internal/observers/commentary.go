// Package observers holds the built-in consumers of the broadcast
// surface. Each sink implements broadcast.Observer; all of them live
// strictly outside the engine and may fail without affecting scoring.
package observers

import (
	"log/slog"

	"cricket-score-service/internal/broadcast"
	"cricket-score-service/internal/domain"
	"cricket-score-service/internal/logging"
)

// CommentaryLogger writes match events to the structured log, the
// service's stand-in for a console scoreboard.
type CommentaryLogger struct {
	logger *slog.Logger
}

// NewCommentaryLogger builds the logging sink.
func NewCommentaryLogger(logger *slog.Logger) *CommentaryLogger {
	return &CommentaryLogger{logger: logger}
}

func (c *CommentaryLogger) Name() string { return "commentary-logger" }

func (c *CommentaryLogger) OnMatchStart(m *domain.Match) error {
	logging.Info(c.logger, "match start",
		slog.String(logging.FieldMatch, m.ID),
		slog.String("teams", m.Team1ID+" v "+m.Team2ID),
		slog.String("format", m.Format.Name),
	)
	return nil
}

func (c *CommentaryLogger) OnBallBowled(m *domain.Match, ball domain.Ball) error {
	if len(m.Commentary) == 0 {
		return nil
	}
	latest := m.Commentary[0]
	logging.Info(c.logger, "ball",
		slog.String(logging.FieldMatch, m.ID),
		slog.String("over", latest.Over),
		slog.String("text", latest.Text),
	)
	return nil
}

func (c *CommentaryLogger) OnWicket(m *domain.Match, ball domain.Ball) error {
	logging.Info(c.logger, "wicket",
		slog.String(logging.FieldMatch, m.ID),
		slog.String("batsman", ball.BatsmanID),
		slog.String("dismissal", string(ball.Dismissal)),
	)
	return nil
}

func (c *CommentaryLogger) OnInningsEnd(m *domain.Match, inningsNumber int) error {
	logging.Info(c.logger, "innings end",
		slog.String(logging.FieldMatch, m.ID),
		slog.Int(logging.FieldInnings, inningsNumber),
	)
	return nil
}

func (c *CommentaryLogger) OnMatchEnd(m *domain.Match) error {
	logging.Info(c.logger, "match end",
		slog.String(logging.FieldMatch, m.ID),
		slog.String("result", string(m.Result)),
		slog.String("summary", m.Summary),
	)
	return nil
}

func (c *CommentaryLogger) OnScoreUpdate(m *domain.Match, score string) error {
	logging.Info(c.logger, "score",
		slog.String(logging.FieldMatch, m.ID),
		slog.String("score", score),
	)
	return nil
}

var _ broadcast.Observer = (*CommentaryLogger)(nil)
