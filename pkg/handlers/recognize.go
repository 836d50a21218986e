// Package handlers contains the built-in intent handlers registered by the
// server: free-text recognition, canned replies, and the clock lookup.
package handlers

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/morezero/intent-router/pkg/dispatch"
	"github.com/morezero/intent-router/pkg/nlu"
)

const recognizeLogPrefix = "handlers:recognize"

// IntentRecognize is the intent name text-only requests are routed to.
const IntentRecognize = "nlu.recognize"

// IntentChecker reports whether a handler is registered for an intent. The
// dispatch registry satisfies it.
type IntentChecker interface {
	Resolve(intent string) (dispatch.Handler, bool)
}

// NewRecognizeHandlerParams holds parameters for NewRecognizeHandler.
type NewRecognizeHandlerParams struct {
	Engine   *nlu.Engine
	Resolver *nlu.AliasResolver
	Checker  IntentChecker
	Queue    dispatch.Enqueuer
}

// RecognizeHandler turns free-form text into a canonical intent and, when
// that intent has a registered handler, enqueues a follow-up envelope for it
// under the same correlation id.
type RecognizeHandler struct {
	engine   *nlu.Engine
	resolver *nlu.AliasResolver
	checker  IntentChecker
	queue    dispatch.Enqueuer
}

// NewRecognizeHandler creates a RecognizeHandler.
func NewRecognizeHandler(params NewRecognizeHandlerParams) *RecognizeHandler {
	return &RecognizeHandler{
		engine:   params.Engine,
		resolver: params.Resolver,
		checker:  params.Checker,
		queue:    params.Queue,
	}
}

// Handle expects payload.text and returns the recognition outcome. Unknown
// intents are a successful recognition with intent "unknown", not a failure.
func (h *RecognizeHandler) Handle(_ context.Context, payload map[string]interface{}, correlationID string) (*dispatch.Result, error) {
	text, _ := payload["text"].(string)
	if text == "" {
		return nil, dispatch.NewHandlerError("BAD_INPUT", "payload.text is required")
	}

	rec := nlu.Recognize(h.engine, h.resolver, text)
	slog.Info(fmt.Sprintf("%s - Recognized %q as %s (score %.3f) correlationId=%s",
		recognizeLogPrefix, text, rec.Intent, rec.Score, correlationID))

	value := map[string]interface{}{
		"intent": rec.Intent,
		"score":  rec.Score,
		"domain": rec.Domain,
	}
	if len(rec.Slots) > 0 {
		value["slots"] = rec.Slots
	}

	if rec.Intent != nlu.IntentUnknown && h.checker != nil && h.queue != nil {
		if _, ok := h.checker.Resolve(rec.Intent); ok {
			followUp := h.buildFollowUp(rec, text, correlationID)
			h.queue.Enqueue(followUp)
			value["followUpId"] = followUp.ID
		}
	}

	return &dispatch.Result{Value: value}, nil
}

// buildFollowUp creates the envelope carrying the recognized intent onward.
// Slots ride along in the payload so the target handler need not re-extract.
func (h *RecognizeHandler) buildFollowUp(rec nlu.Recognition, text, correlationID string) *dispatch.Envelope {
	payload := map[string]interface{}{
		"text":   text,
		"score":  rec.Score,
		"domain": rec.Domain,
	}
	for name, val := range rec.Slots {
		payload[name] = val
	}
	return dispatch.NewEnvelope(rec.Intent, dispatch.DefaultPriority, correlationID, payload)
}
