package capture

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"netcheck/internal/diagnostic/domain"
	"netcheck/pkg/uuidutil"
)

// PostgresSink stores raw captures in a table, keyed by run, for setups
// where operators want to inspect tool output away from the machine
// that ran the diagnostic.
//
// Expected schema:
//
//	CREATE TABLE raw_captures (
//	    id         UUID PRIMARY KEY,
//	    run_id     TEXT NOT NULL,
//	    step       TEXT NOT NULL,
//	    raw        BYTEA NOT NULL,
//	    created_at TIMESTAMPTZ NOT NULL
//	);
type PostgresSink struct {
	pool  *pgxpool.Pool
	runID string
}

func NewPostgresSink(ctx context.Context, dsn, runID string) (*PostgresSink, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open postgres pool: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping postgres: %w", err)
	}

	return &PostgresSink{pool: pool, runID: runID}, nil
}

func (s *PostgresSink) Write(ctx context.Context, step domain.StepID, raw []byte) error {
	query := `
		INSERT INTO raw_captures (id, run_id, step, raw, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := s.pool.Exec(ctx, query,
		uuidutil.New(),
		s.runID,
		string(step),
		raw,
		time.Now(),
	)
	if err != nil {
		return fmt.Errorf("failed to store raw capture: %w", err)
	}
	return nil
}

func (s *PostgresSink) Close() error {
	s.pool.Close()
	return nil
}
