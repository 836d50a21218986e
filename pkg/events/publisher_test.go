package events

import (
	"context"
	"errors"
	"testing"
)

func TestNoOpPublisher(t *testing.T) {
	pub := &NoOpPublisher{}
	err := pub.PublishDispatched(context.Background(), &EnvelopeDispatchedEvent{
		EnvelopeID: "env-1",
		Intent:     "chat.greet",
		Ok:         true,
	})
	if err != nil {
		t.Errorf("expected no error, got %v", err)
	}
}

func TestCallbackPublisher(t *testing.T) {
	var captured *EnvelopeDispatchedEvent

	pub := NewCallbackPublisher(func(_ context.Context, event *EnvelopeDispatchedEvent) error {
		captured = event
		return nil
	})

	event := &EnvelopeDispatchedEvent{
		EnvelopeID:    "env-7",
		Intent:        "sys.time.now",
		CorrelationID: "corr-7",
		Ok:            false,
		ErrorCode:     "HANDLER_FAULT",
		DurationMs:    3,
		Timestamp:     "2025-01-01T00:00:00Z",
	}

	err := pub.PublishDispatched(context.Background(), event)
	if err != nil {
		t.Errorf("expected no error, got %v", err)
	}

	if captured == nil {
		t.Fatal("expected callback to be called")
	}
	if captured.Intent != "sys.time.now" {
		t.Errorf("expected intent sys.time.now, got %s", captured.Intent)
	}
	if captured.CorrelationID != "corr-7" {
		t.Errorf("expected correlation id corr-7, got %s", captured.CorrelationID)
	}
	if captured.ErrorCode != "HANDLER_FAULT" {
		t.Errorf("expected error code HANDLER_FAULT, got %s", captured.ErrorCode)
	}
}

func TestCallbackPublisher_PropagatesError(t *testing.T) {
	want := errors.New("sink unavailable")
	pub := NewCallbackPublisher(func(_ context.Context, _ *EnvelopeDispatchedEvent) error {
		return want
	})

	err := pub.PublishDispatched(context.Background(), &EnvelopeDispatchedEvent{Intent: "chat.greet"})
	if !errors.Is(err, want) {
		t.Errorf("expected callback error to propagate, got %v", err)
	}
}

func TestNewCommsPublisher_SubjectDefaults(t *testing.T) {
	pub := NewCommsPublisher(nil, nil)
	if pub.globalDispatchSubject != "intent.dispatched" {
		t.Errorf("expected default global subject intent.dispatched, got %s", pub.globalDispatchSubject)
	}

	pub = NewCommsPublisher(nil, &CommsPublisherOpts{GlobalDispatchSubject: "custom.dispatched"})
	if pub.globalDispatchSubject != "custom.dispatched" {
		t.Errorf("expected custom.dispatched, got %s", pub.globalDispatchSubject)
	}
}
