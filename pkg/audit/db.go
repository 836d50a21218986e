package audit

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

const dbLogPrefix = "audit:db"

// schemaSQL creates the dispatch log table. Idempotent.
const schemaSQL = `
CREATE TABLE IF NOT EXISTS dispatch_log (
    id             BIGSERIAL PRIMARY KEY,
    envelope_id    TEXT        NOT NULL,
    intent         TEXT        NOT NULL,
    correlation_id TEXT        NOT NULL,
    ok             BOOLEAN     NOT NULL,
    error_code     TEXT,
    error_message  TEXT,
    duration_ms    BIGINT      NOT NULL DEFAULT 0,
    dispatched_at  TIMESTAMPTZ NOT NULL,
    recorded_at    TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS dispatch_log_correlation_idx ON dispatch_log (correlation_id);
CREATE INDEX IF NOT EXISTS dispatch_log_intent_idx ON dispatch_log (intent, dispatched_at);
`

// NewPool creates a pgx connection pool and verifies connectivity.
func NewPool(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("%s - failed to parse database URL: %w", dbLogPrefix, err)
	}
	cfg.MaxConns = 4
	cfg.MaxConnLifetime = time.Hour

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("%s - failed to create pool: %w", dbLogPrefix, err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("%s - failed to ping database: %w", dbLogPrefix, err)
	}

	slog.Info(fmt.Sprintf("%s - Connected to database", dbLogPrefix))
	return pool, nil
}

// EnsureSchema creates the dispatch log schema if it does not exist.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	if _, err := pool.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("%s - failed to ensure schema: %w", dbLogPrefix, err)
	}
	slog.Info(fmt.Sprintf("%s - Dispatch log schema is ready", dbLogPrefix))
	return nil
}

// SchemaStatus reports whether the dispatch log table exists and how many
// rows it holds.
func SchemaStatus(ctx context.Context, pool *pgxpool.Pool) (exists bool, rows int64, err error) {
	err = pool.QueryRow(ctx,
		`SELECT EXISTS (
		   SELECT 1 FROM information_schema.tables WHERE table_name = 'dispatch_log'
		 )`).Scan(&exists)
	if err != nil {
		return false, 0, fmt.Errorf("%s - failed to check schema: %w", dbLogPrefix, err)
	}
	if !exists {
		return false, 0, nil
	}
	if err = pool.QueryRow(ctx, `SELECT count(*) FROM dispatch_log`).Scan(&rows); err != nil {
		return true, 0, fmt.Errorf("%s - failed to count rows: %w", dbLogPrefix, err)
	}
	return true, rows, nil
}
