package audit

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"
)

const repoLogPrefix = "audit:repository"

// Repository is a Recorder backed by Postgres.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new Repository with the given connection pool.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Record inserts one dispatch outcome row.
func (r *Repository) Record(ctx context.Context, rec *Record) error {
	slog.Debug(fmt.Sprintf("%s - Record intent=%s correlationId=%s ok=%v", repoLogPrefix, rec.Intent, rec.CorrelationID, rec.Ok))

	var errCode, errMsg *string
	if rec.ErrorCode != "" {
		errCode = &rec.ErrorCode
	}
	if rec.ErrorMessage != "" {
		errMsg = &rec.ErrorMessage
	}

	_, err := r.pool.Exec(ctx,
		`INSERT INTO dispatch_log
		   (envelope_id, intent, correlation_id, ok, error_code, error_message, duration_ms, dispatched_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		rec.EnvelopeID, rec.Intent, rec.CorrelationID, rec.Ok, errCode, errMsg, rec.DurationMs, rec.Timestamp)
	if err != nil {
		return fmt.Errorf("%s - failed to insert dispatch record: %w", repoLogPrefix, err)
	}
	return nil
}

// RecentByCorrelation returns up to limit records sharing a correlation id,
// oldest first.
func (r *Repository) RecentByCorrelation(ctx context.Context, correlationID string, limit int) ([]Record, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := r.pool.Query(ctx,
		`SELECT envelope_id, intent, correlation_id, ok,
		        COALESCE(error_code, ''), COALESCE(error_message, ''), duration_ms, dispatched_at
		 FROM dispatch_log
		 WHERE correlation_id = $1
		 ORDER BY dispatched_at ASC
		 LIMIT $2`, correlationID, limit)
	if err != nil {
		return nil, fmt.Errorf("%s - failed to query dispatch records: %w", repoLogPrefix, err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var rec Record
		if err := rows.Scan(&rec.EnvelopeID, &rec.Intent, &rec.CorrelationID, &rec.Ok,
			&rec.ErrorCode, &rec.ErrorMessage, &rec.DurationMs, &rec.Timestamp); err != nil {
			return nil, fmt.Errorf("%s - failed to scan dispatch record: %w", repoLogPrefix, err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}
