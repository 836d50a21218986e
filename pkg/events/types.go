// Package events defines event types and publisher interfaces for dispatch
// outcome events.
package events

// EnvelopeDispatchedEvent is emitted after the dispatch loop finishes
// handling one envelope, whatever the outcome.
type EnvelopeDispatchedEvent struct {
	EnvelopeID    string `json:"envelopeId"`
	Intent        string `json:"intent"`
	CorrelationID string `json:"correlationId"`
	Ok            bool   `json:"ok"`
	ErrorCode     string `json:"errorCode,omitempty"`
	DurationMs    int64  `json:"durationMs"`
	Timestamp     string `json:"timestamp"`
}
