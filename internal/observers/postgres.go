package observers

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	// Postgres driver, registered for database/sql.
	_ "github.com/lib/pq"

	"cricket-score-service/internal/broadcast"
	"cricket-score-service/internal/domain"
)

const mirrorTimeout = 3 * time.Second

// PostgresMirror appends every ball and event to Postgres. It is the
// persistence-layer consumer of the notification surface: the engine
// itself stays purely in-memory, and a mirror write failure never
// affects scoring.
type PostgresMirror struct {
	db *sql.DB
}

// NewPostgresMirror opens a connection pool and ensures the mirror
// tables exist.
func NewPostgresMirror(dsn string) (*PostgresMirror, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	m := &PostgresMirror{db: db}
	if err := m.ensureSchema(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return m, nil
}

func (p *PostgresMirror) ensureSchema(ctx context.Context) error {
	const schema = `
CREATE TABLE IF NOT EXISTS match_balls (
	id          TEXT PRIMARY KEY,
	match_id    TEXT NOT NULL,
	innings     INT  NOT NULL,
	over_number INT  NOT NULL,
	position    INT  NOT NULL,
	payload     JSONB NOT NULL,
	created_at  TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE TABLE IF NOT EXISTS match_events (
	id         BIGSERIAL PRIMARY KEY,
	match_id   TEXT NOT NULL,
	kind       TEXT NOT NULL,
	payload    JSONB NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS idx_match_balls_match ON match_balls (match_id, innings, over_number, position);
CREATE INDEX IF NOT EXISTS idx_match_events_match ON match_events (match_id, kind);`

	if _, err := p.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("ensure mirror schema: %w", err)
	}
	return nil
}

// Close releases the connection pool.
func (p *PostgresMirror) Close() error {
	return p.db.Close()
}

func (p *PostgresMirror) Name() string { return "postgres-mirror" }

func (p *PostgresMirror) insertEvent(ev broadcast.Event) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(context.Background(), mirrorTimeout)
	defer cancel()
	_, err = p.db.ExecContext(ctx,
		`INSERT INTO match_events (match_id, kind, payload) VALUES ($1, $2, $3)`,
		ev.MatchID, string(ev.Kind), payload)
	return err
}

func (p *PostgresMirror) insertBall(matchID string, ball domain.Ball) error {
	payload, err := json.Marshal(ball)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(context.Background(), mirrorTimeout)
	defer cancel()
	_, err = p.db.ExecContext(ctx,
		`INSERT INTO match_balls (id, match_id, innings, over_number, position, payload)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 ON CONFLICT (id) DO NOTHING`,
		ball.ID, matchID, ball.InningsNumber, ball.Over, ball.PositionInOver, payload)
	return err
}

func (p *PostgresMirror) OnMatchStart(m *domain.Match) error {
	return p.insertEvent(broadcast.NewEvent(broadcast.EventMatchStart, m, nil, 0))
}

func (p *PostgresMirror) OnBallBowled(m *domain.Match, ball domain.Ball) error {
	return p.insertBall(m.ID, ball)
}

func (p *PostgresMirror) OnWicket(m *domain.Match, ball domain.Ball) error {
	return p.insertEvent(broadcast.NewEvent(broadcast.EventWicket, m, &ball, ball.InningsNumber))
}

func (p *PostgresMirror) OnInningsEnd(m *domain.Match, inningsNumber int) error {
	return p.insertEvent(broadcast.NewEvent(broadcast.EventInningsEnd, m, nil, inningsNumber))
}

func (p *PostgresMirror) OnMatchEnd(m *domain.Match) error {
	return p.insertEvent(broadcast.NewEvent(broadcast.EventMatchEnd, m, nil, 0))
}

func (p *PostgresMirror) OnScoreUpdate(m *domain.Match, score string) error {
	// Score updates accompany every ball; the ball rows already carry
	// the running totals, so mirroring these adds only noise.
	return nil
}

var _ broadcast.Observer = (*PostgresMirror)(nil)
