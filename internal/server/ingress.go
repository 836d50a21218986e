package server

// RouteRequest is the ingress wire document. A request names an intent
// directly, or carries only text and is routed to the recognition intent.
type RouteRequest struct {
	ID            string                 `json:"id,omitempty"`
	Intent        string                 `json:"intent,omitempty"`
	Text          string                 `json:"text,omitempty"`
	Priority      *int                   `json:"priority,omitempty"`
	CorrelationID string                 `json:"correlationId,omitempty"`
	Payload       map[string]interface{} `json:"payload,omitempty"`
}

// RouteAck is the synchronous reply to a RouteRequest. Ok means the request
// was accepted and queued; handler execution is asynchronous.
type RouteAck struct {
	ID            string       `json:"id,omitempty"`
	Ok            bool         `json:"ok"`
	EnvelopeID    string       `json:"envelopeId,omitempty"`
	Intent        string       `json:"intent,omitempty"`
	CorrelationID string       `json:"correlationId,omitempty"`
	QueueDepth    int          `json:"queueDepth,omitempty"`
	Error         *ErrorDetail `json:"error,omitempty"`
}

// ErrorDetail carries a rejection code and message on a failed ack.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
