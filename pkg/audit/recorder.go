// Package audit records dispatch outcomes, optionally to Postgres.
package audit

import (
	"context"
	"time"
)

// Record is one dispatch outcome row.
type Record struct {
	EnvelopeID    string
	Intent        string
	CorrelationID string
	Ok            bool
	ErrorCode     string
	ErrorMessage  string
	DurationMs    int64
	Timestamp     time.Time
}

// Recorder persists dispatch outcomes. Recording is best-effort: the loop
// logs a failed Record call and moves on.
type Recorder interface {
	Record(ctx context.Context, rec *Record) error
}

// NoOpRecorder is a Recorder that discards everything (audit disabled).
type NoOpRecorder struct{}

// Record is a no-op.
func (r *NoOpRecorder) Record(_ context.Context, _ *Record) error {
	return nil
}

// CallbackRecorder is a Recorder that calls a callback function (for testing).
type CallbackRecorder struct {
	callback func(ctx context.Context, rec *Record) error
}

// NewCallbackRecorder creates a new CallbackRecorder.
func NewCallbackRecorder(cb func(ctx context.Context, rec *Record) error) *CallbackRecorder {
	return &CallbackRecorder{callback: cb}
}

// Record calls the callback.
func (r *CallbackRecorder) Record(ctx context.Context, rec *Record) error {
	return r.callback(ctx, rec)
}
