package history

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// schema bootstraps the detection history table.
const schema = `
CREATE TABLE IF NOT EXISTS detection_history (
	id          UUID PRIMARY KEY,
	session_id  UUID NOT NULL,
	class_name  TEXT NOT NULL,
	confidence  DOUBLE PRECISION NOT NULL,
	distance_m  DOUBLE PRECISION NOT NULL,
	risk_score  DOUBLE PRECISION NOT NULL,
	risk_level  TEXT NOT NULL,
	position    TEXT NOT NULL,
	observed_at TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_history_session ON detection_history (session_id, observed_at);
`

// Postgres stores entries in a detection_history table.
type Postgres struct {
	pool *pgxpool.Pool
}

// OpenPostgres connects, verifies the connection and bootstraps the
// schema.
func OpenPostgres(ctx context.Context, dsn string) (*Postgres, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse postgres config: %w", err)
	}
	cfg.MaxConns = 4
	cfg.MaxConnLifetime = time.Hour

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	if _, err := pool.Exec(ctx, schema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("bootstrap schema: %w", err)
	}
	return &Postgres{pool: pool}, nil
}

// Insert writes one entry.
func (p *Postgres) Insert(ctx context.Context, e Entry) error {
	_, err := p.pool.Exec(ctx,
		`INSERT INTO detection_history
		 (id, session_id, class_name, confidence, distance_m, risk_score, risk_level, position, observed_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		e.ID, e.SessionID, e.ClassName, e.Confidence, e.Distance,
		e.RiskScore, e.RiskLevel, e.Position, e.ObservedAt)
	if err != nil {
		return fmt.Errorf("insert history: %w", err)
	}
	return nil
}

// Close releases the pool.
func (p *Postgres) Close() {
	p.pool.Close()
}

var _ Sink = (*Postgres)(nil)
