package dispatch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/morezero/intent-router/pkg/audit"
	"github.com/morezero/intent-router/pkg/events"
)

const loopLogPrefix = "dispatch:loop"

// DefaultPollInterval is the backoff between queue polls when no work is
// available. This loop polls rather than waiting on a condition: intent
// volume is low and tens of milliseconds of latency are immaterial here.
const DefaultPollInterval = 25 * time.Millisecond

// NewLoopParams holds parameters for NewLoop.
type NewLoopParams struct {
	Queue        *Queue
	Registry     *Registry
	Publisher    events.EventPublisher
	Recorder     audit.Recorder
	PollInterval time.Duration
}

// Loop drains the queue and dispatches each envelope to its handler, one at
// a time. Handler failures and panics are contained at the loop boundary;
// nothing a handler does stops the loop.
type Loop struct {
	queue        *Queue
	registry     *Registry
	publisher    events.EventPublisher
	recorder     audit.Recorder
	pollInterval time.Duration
}

// NewLoop creates a dispatch loop. Publisher and Recorder default to no-ops.
func NewLoop(params NewLoopParams) *Loop {
	pub := params.Publisher
	if pub == nil {
		pub = &events.NoOpPublisher{}
	}
	rec := params.Recorder
	if rec == nil {
		rec = &audit.NoOpRecorder{}
	}
	interval := params.PollInterval
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	return &Loop{
		queue:        params.Queue,
		registry:     params.Registry,
		publisher:    pub,
		recorder:     rec,
		pollInterval: interval,
	}
}

// Run executes the loop until ctx is cancelled. The current iteration is
// finished before exit; in-flight handlers see the same cancellation via ctx
// but are never force-terminated.
func (l *Loop) Run(ctx context.Context) {
	slog.Info(fmt.Sprintf("%s - Dispatch loop started (poll interval %s)", loopLogPrefix, l.pollInterval))
	timer := time.NewTimer(l.pollInterval)
	defer timer.Stop()

	for {
		if ctx.Err() != nil {
			slog.Info(fmt.Sprintf("%s - Dispatch loop stopped", loopLogPrefix))
			return
		}

		env, ok := l.queue.TryDequeue()
		if !ok {
			timer.Reset(l.pollInterval)
			select {
			case <-ctx.Done():
				slog.Info(fmt.Sprintf("%s - Dispatch loop stopped", loopLogPrefix))
				return
			case <-timer.C:
			}
			continue
		}

		l.dispatch(ctx, env)
	}
}

// dispatch resolves and invokes the handler for one envelope, then records
// the outcome. Unresolved intents are logged and dropped: the caller already
// received its synchronous acknowledgment at ingress.
func (l *Loop) dispatch(ctx context.Context, env *Envelope) {
	handler, ok := l.registry.Resolve(env.Intent)
	if !ok {
		slog.Warn(fmt.Sprintf("%s - No handler for intent %s, dropping envelope id=%s correlationId=%s",
			loopLogPrefix, env.Intent, env.ID, env.CorrelationID))
		return
	}

	start := time.Now()
	result, err := invoke(ctx, handler, env)
	duration := time.Since(start)

	var errCode, errMsg string
	if err != nil {
		herr := asHandlerError(err)
		errCode, errMsg = herr.Code, herr.Message
		slog.Error(fmt.Sprintf("%s - Handler failed intent=%s correlationId=%s code=%s message=%s",
			loopLogPrefix, env.Intent, env.CorrelationID, errCode, errMsg))
	} else {
		slog.Info(fmt.Sprintf("%s - Handled intent=%s correlationId=%s result=%s",
			loopLogPrefix, env.Intent, env.CorrelationID, summarize(result)))
	}

	l.report(ctx, env, err == nil, errCode, errMsg, duration)
}

// invoke calls the handler, converting a panic into a typed failure so one
// misbehaving handler cannot take the loop down.
func invoke(ctx context.Context, handler Handler, env *Envelope) (result *Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			result = nil
			err = &HandlerError{
				Code:    "HANDLER_PANIC",
				Message: fmt.Sprintf("handler for %s panicked: %v", env.Intent, r),
			}
		}
	}()
	return handler.Handle(ctx, env.Payload, env.CorrelationID)
}

// asHandlerError normalizes any handler error into a HandlerError.
func asHandlerError(err error) *HandlerError {
	var herr *HandlerError
	if errors.As(err, &herr) {
		return herr
	}
	return &HandlerError{Code: "HANDLER_FAULT", Message: err.Error()}
}

// report publishes the dispatch event and writes the audit record. Both are
// best-effort. A background context is used so in-flight reporting is not cut
// short by loop shutdown mid-iteration.
func (l *Loop) report(ctx context.Context, env *Envelope, ok bool, errCode, errMsg string, duration time.Duration) {
	reportCtx := ctx
	if ctx.Err() != nil {
		var cancel context.CancelFunc
		reportCtx, cancel = context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
	}

	now := time.Now().UTC()
	event := &events.EnvelopeDispatchedEvent{
		EnvelopeID:    env.ID,
		Intent:        env.Intent,
		CorrelationID: env.CorrelationID,
		Ok:            ok,
		ErrorCode:     errCode,
		DurationMs:    duration.Milliseconds(),
		Timestamp:     now.Format(time.RFC3339),
	}
	if err := l.publisher.PublishDispatched(reportCtx, event); err != nil {
		slog.Warn(fmt.Sprintf("%s - Failed to publish dispatch event: %v", loopLogPrefix, err))
	}

	rec := &audit.Record{
		EnvelopeID:    env.ID,
		Intent:        env.Intent,
		CorrelationID: env.CorrelationID,
		Ok:            ok,
		ErrorCode:     errCode,
		ErrorMessage:  errMsg,
		DurationMs:    duration.Milliseconds(),
		Timestamp:     now,
	}
	if err := l.recorder.Record(reportCtx, rec); err != nil {
		slog.Warn(fmt.Sprintf("%s - Failed to record dispatch outcome: %v", loopLogPrefix, err))
	}
}

// summarize renders a short log-friendly description of a handler result.
func summarize(result *Result) string {
	if result == nil || len(result.Value) == 0 {
		return "ok"
	}
	return fmt.Sprintf("ok (%d field(s))", len(result.Value))
}
