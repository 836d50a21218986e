// Package dispatch implements the routing core: envelopes, the priority
// queue, the handler registry, and the dispatch loop that drains the queue.
package dispatch

import "context"

// Handler consumes a payload for a named intent and produces a result or a
// typed failure. Implementations must honor ctx cancellation; the loop
// propagates its shutdown signal but never force-terminates a handler.
type Handler interface {
	Handle(ctx context.Context, payload map[string]interface{}, correlationID string) (*Result, error)
}

// HandlerFunc adapts a function to the Handler interface.
type HandlerFunc func(ctx context.Context, payload map[string]interface{}, correlationID string) (*Result, error)

// Handle calls f.
func (f HandlerFunc) Handle(ctx context.Context, payload map[string]interface{}, correlationID string) (*Result, error) {
	return f(ctx, payload, correlationID)
}

// Result is a successful handler outcome carrying an arbitrary structured value.
type Result struct {
	Value map[string]interface{} `json:"value,omitempty"`
}

// HandlerError is a typed handler failure.
type HandlerError struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

func (e *HandlerError) Error() string {
	return e.Code + ": " + e.Message
}

// NewHandlerError creates a new HandlerError.
func NewHandlerError(code, message string) *HandlerError {
	return &HandlerError{Code: code, Message: message}
}

// Enqueuer is the follow-up channel handed to handlers that emit envelopes of
// their own. The Queue satisfies it.
type Enqueuer interface {
	Enqueue(env *Envelope)
}
