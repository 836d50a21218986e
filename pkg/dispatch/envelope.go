package dispatch

import (
	"time"

	"github.com/google/uuid"
)

// Priority bounds for envelopes; 0 is most urgent.
const (
	MinPriority     = 0
	MaxPriority     = 9
	DefaultPriority = 5
)

// Envelope is one unit of routed work. ID, Timestamp, Priority, and
// CorrelationID are fixed at creation; re-routing means creating a new
// envelope that carries the same correlation id.
type Envelope struct {
	ID            string                 `json:"id"`
	Timestamp     time.Time              `json:"timestamp"`
	Intent        string                 `json:"intent"`
	Priority      int                    `json:"priority"`
	CorrelationID string                 `json:"correlationId"`
	Payload       map[string]interface{} `json:"payload"`
}

// NewEnvelope creates an envelope for the given intent. Priority is clamped
// to [MinPriority, MaxPriority]; an empty correlation id gets a generated
// one; a nil payload becomes an empty document.
func NewEnvelope(intent string, priority int, correlationID string, payload map[string]interface{}) *Envelope {
	if correlationID == "" {
		correlationID = uuid.NewString()
	}
	if payload == nil {
		payload = map[string]interface{}{}
	}
	return &Envelope{
		ID:            uuid.NewString(),
		Timestamp:     time.Now().UTC(),
		Intent:        intent,
		Priority:      ClampPriority(priority),
		CorrelationID: correlationID,
		Payload:       payload,
	}
}

// ClampPriority bounds p to the valid priority range.
func ClampPriority(p int) int {
	if p < MinPriority {
		return MinPriority
	}
	if p > MaxPriority {
		return MaxPriority
	}
	return p
}
