// Package score orchestrates the live scoring engine: it validates
// preconditions, delegates ball application to the engine, derives
// commentary, fans events out through the broadcaster, and answers
// derived-metric queries via the configured strategy.
package score

import (
	"fmt"
	"log/slog"
	"time"

	"cricket-score-service/internal/broadcast"
	"cricket-score-service/internal/domain"
	"cricket-score-service/internal/engine"
	"cricket-score-service/internal/logging"
	"cricket-score-service/internal/metrics"
	"cricket-score-service/internal/scoring"
)

// Command names used in telemetry.
const (
	CommandStartMatch     = "startMatch"
	CommandStartInnings   = "startInnings"
	CommandRecordBall     = "recordBall"
	CommandSendNewBatsman = "sendNewBatsman"
	CommandChangeBowler   = "changeBowler"
	CommandEndInnings     = "endInnings"
	CommandDeclare        = "declareInnings"
)

// Service is the command and query surface of the engine. It is built
// with an injected strategy and broadcaster; there is no package-level
// state. Callers serialize commands per match.
type Service struct {
	strategy    scoring.Strategy
	broadcaster *broadcast.Broadcaster
	logger      *slog.Logger
	metrics     *metrics.Recorder
}

// NewService constructs a Service around the given collaborators.
func NewService(strategy scoring.Strategy, b *broadcast.Broadcaster, logger *slog.Logger, recorder *metrics.Recorder) *Service {
	return &Service{
		strategy:    strategy,
		broadcaster: b,
		logger:      logger,
		metrics:     recorder,
	}
}

// Strategy exposes the configured scoring strategy.
func (s *Service) Strategy() scoring.Strategy {
	return s.strategy
}

// StartMatch moves a scheduled match to LIVE and announces it.
func (s *Service) StartMatch(m *domain.Match) (err error) {
	defer s.observe(CommandStartMatch, time.Now(), &err)

	if m.Status != domain.MatchScheduled {
		return fmt.Errorf("start match %s (status %s): %w", m.ID, m.Status, domain.ErrMatchNotLive)
	}
	m.Status = domain.MatchLive
	s.broadcaster.NotifyMatchStart(m)
	logging.Info(s.logger, "match started", slog.String(logging.FieldMatch, m.ID))
	return nil
}

// StartInningsParams carries the arguments of StartInnings.
type StartInningsParams struct {
	BattingTeamID string
	BowlingTeamID string
	StrikerID     string
	NonStrikerID  string
	BowlerID      string

	// OversLimit curtails the innings below the format allotment (rain);
	// zero means the full allotment.
	OversLimit int
}

// StartInnings creates and registers the next innings. For any innings
// after the first the chase target comes from the active strategy.
func (s *Service) StartInnings(m *domain.Match, p StartInningsParams) (in *domain.Innings, err error) {
	defer s.observe(CommandStartInnings, time.Now(), &err)

	if !m.Live() {
		return nil, fmt.Errorf("start innings on match %s (status %s): %w", m.ID, m.Status, domain.ErrMatchNotLive)
	}
	if active := m.ActiveInnings(); active != nil {
		return nil, fmt.Errorf("innings %d still in progress on match %s: %w", active.Number, m.ID, domain.ErrMatchNotLive)
	}

	in = domain.NewInnings(len(m.Innings)+1, p.BattingTeamID, p.BowlingTeamID)
	in.OversLimit = p.OversLimit
	in.BowlerID = p.BowlerID
	m.AppendInnings(in)
	in.Start(p.StrikerID, p.NonStrikerID)

	if in.Number > 1 {
		in.Target = s.strategy.ChaseTarget(m)
	}

	s.broadcaster.NotifyScoreUpdate(m, m.LiveScore())
	logging.Info(s.logger, "innings started",
		slog.String(logging.FieldMatch, m.ID),
		slog.Int(logging.FieldInnings, in.Number),
		slog.Int("target", in.Target),
	)
	return in, nil
}

// RecordBall applies one delivery, derives commentary, broadcasts the
// resulting events, and finalizes the innings (and possibly the match)
// when the delivery ends it.
func (s *Service) RecordBall(m *domain.Match, ball domain.Ball) (err error) {
	defer s.observe(CommandRecordBall, time.Now(), &err)

	if !m.Live() {
		return fmt.Errorf("record ball on match %s (status %s): %w", m.ID, m.Status, domain.ErrMatchNotLive)
	}
	in := m.ActiveInnings()
	if in == nil {
		return fmt.Errorf("record ball on match %s: %w", m.ID, domain.ErrNoActiveInnings)
	}

	s.stampBall(&ball, in)

	eng := engine.New(m.Format)
	if err := eng.AddBall(in, ball); err != nil {
		return err
	}
	s.metrics.RecordBall(ball.Wicket)

	m.AddCommentary(buildCommentary(m.ID, ball, in))

	s.broadcaster.NotifyBallBowled(m, ball)
	if ball.Wicket {
		s.broadcaster.NotifyWicket(m, ball)
	}
	s.broadcaster.NotifyScoreUpdate(m, m.LiveScore())

	if !in.InProgress() {
		s.finishInnings(m, in)
	}
	return nil
}

// stampBall fills positional and participant fields the caller left
// blank, from the innings' current state.
func (s *Service) stampBall(ball *domain.Ball, in *domain.Innings) {
	if ball.ID == "" {
		ball.ID = domain.NewBallID()
	}
	ball.InningsNumber = in.Number
	if ball.Over == 0 && ball.PositionInOver == 0 {
		ball.Over = in.OversBowled
		ball.PositionInOver = in.BallsInOver + 1
	}
	if ball.BatsmanID == "" {
		ball.BatsmanID = in.StrikerID
	}
	if ball.BowlerID == "" {
		ball.BowlerID = in.BowlerID
	}
}

// SendNewBatsman brings the replacement batsman to the crease.
func (s *Service) SendNewBatsman(m *domain.Match, playerID string) (err error) {
	defer s.observe(CommandSendNewBatsman, time.Now(), &err)

	in := m.ActiveInnings()
	if in == nil {
		return fmt.Errorf("send new batsman on match %s: %w", m.ID, domain.ErrNoActiveInnings)
	}
	in.SendNewBatsman(playerID)
	return nil
}

// ChangeBowler sets the bowler for the next delivery.
func (s *Service) ChangeBowler(m *domain.Match, playerID string) (err error) {
	defer s.observe(CommandChangeBowler, time.Now(), &err)

	in := m.ActiveInnings()
	if in == nil {
		return fmt.Errorf("change bowler on match %s: %w", m.ID, domain.ErrNoActiveInnings)
	}
	in.BowlerID = playerID
	return nil
}

// EndInnings finalizes the current innings and broadcasts inningsEnd.
func (s *Service) EndInnings(m *domain.Match) (err error) {
	defer s.observe(CommandEndInnings, time.Now(), &err)

	in := m.CurrentInnings()
	if in == nil || in.Status == domain.InningsNotStarted || in.Status == domain.InningsCompleted {
		return fmt.Errorf("end innings on match %s: %w", m.ID, domain.ErrNoActiveInnings)
	}
	s.finishInnings(m, in)
	return nil
}

// DeclareInnings closes the batting side's innings voluntarily.
func (s *Service) DeclareInnings(m *domain.Match) (err error) {
	defer s.observe(CommandDeclare, time.Now(), &err)

	in := m.ActiveInnings()
	if in == nil {
		return fmt.Errorf("declare innings on match %s: %w", m.ID, domain.ErrNoActiveInnings)
	}
	eng := engine.New(m.Format)
	if err := eng.Declare(in); err != nil {
		return err
	}
	s.finishInnings(m, in)
	return nil
}

// finishInnings finalizes an innings, announces it, and settles the
// match when the innings decided it.
func (s *Service) finishInnings(m *domain.Match, in *domain.Innings) {
	decided := in.Target > 0

	eng := engine.New(m.Format)
	eng.Finalize(in)
	s.broadcaster.NotifyInningsEnd(m, in.Number)
	logging.Info(s.logger, "innings ended",
		slog.String(logging.FieldMatch, m.ID),
		slog.Int(logging.FieldInnings, in.Number),
		slog.String("score", in.Score()),
	)

	if decided {
		s.settleMatch(m, in)
	}
}

// settleMatch derives the result from the completed chase and closes
// the match.
func (s *Service) settleMatch(m *domain.Match, chase *domain.Innings) {
	switch {
	case chase.TotalRuns >= chase.Target:
		m.WinnerID = chase.BattingTeamID
		m.Summary = fmt.Sprintf("%s won by %d wickets", chase.BattingTeamID, domain.MaxWickets-chase.Wickets)
	case chase.TotalRuns == chase.Target-1:
		m.Result = domain.ResultTie
		m.Summary = "match tied"
	default:
		m.WinnerID = chase.BowlingTeamID
		m.Summary = fmt.Sprintf("%s won by %d runs", chase.BowlingTeamID, chase.Target-1-chase.TotalRuns)
	}
	if m.WinnerID != "" {
		if m.WinnerID == m.Team1ID {
			m.Result = domain.ResultTeam1Win
		} else {
			m.Result = domain.ResultTeam2Win
		}
	}

	m.Status = domain.MatchCompleted
	s.broadcaster.NotifyMatchEnd(m)
	logging.Info(s.logger, "match completed",
		slog.String(logging.FieldMatch, m.ID),
		slog.String("result", string(m.Result)),
	)
}

// LiveScore renders the current scoreline.
func (s *Service) LiveScore(m *domain.Match) string {
	return m.LiveScore()
}

// RequiredRunRate answers the strategy's required rate for the chase.
func (s *Service) RequiredRunRate(m *domain.Match) float64 {
	return s.strategy.RequiredRunRate(m)
}

// ProjectedScore answers the strategy's projection for the innings in
// progress; zero when no innings is active.
func (s *Service) ProjectedScore(m *domain.Match) int {
	in := m.CurrentInnings()
	if in == nil {
		return 0
	}
	return s.strategy.ProjectedScore(in, m.Format.OversPerInnings)
}

// WinProbability answers the batting side's win probability in [0,1].
func (s *Service) WinProbability(m *domain.Match) float64 {
	return s.strategy.WinProbability(m, true)
}

func (s *Service) observe(command string, start time.Time, err *error) {
	s.metrics.RecordCommand(command, time.Since(start), *err)
}
