package events

import (
	"context"
	"fmt"
	"log/slog"

	comms "github.com/nats-io/nats.go"

	"github.com/morezero/intent-router/pkg/commsutil"
)

const commsPublisherLogPrefix = "events:comms_publisher"

// CommsPublisherOpts configures CommsPublisher. Nil or zero values use defaults.
type CommsPublisherOpts struct {
	// GlobalDispatchSubject overrides the global dispatch event subject
	// (e.g. from ROUTER_DISPATCH_EVENT_SUBJECT).
	GlobalDispatchSubject string
}

// CommsPublisher publishes dispatch outcome events to COMMS subjects.
type CommsPublisher struct {
	nc                    *comms.Conn
	globalDispatchSubject string
}

// NewCommsPublisher creates a new CommsPublisher. Pass nil for opts to use defaults.
func NewCommsPublisher(nc *comms.Conn, opts *CommsPublisherOpts) *CommsPublisher {
	globalSubject := commsutil.SubjectDispatchEvent
	if opts != nil && opts.GlobalDispatchSubject != "" {
		globalSubject = opts.GlobalDispatchSubject
	}
	return &CommsPublisher{nc: nc, globalDispatchSubject: globalSubject}
}

// PublishDispatched publishes an EnvelopeDispatchedEvent to both the granular
// per-intent and global dispatch event subjects.
func (p *CommsPublisher) PublishDispatched(_ context.Context, event *EnvelopeDispatchedEvent) error {
	data, err := commsutil.EncodePayload(event)
	if err != nil {
		return fmt.Errorf("%s - failed to encode event: %w", commsPublisherLogPrefix, err)
	}

	// Publish to granular subject
	granularSubject := commsutil.BuildDispatchSubject(event.Intent)
	if err := p.nc.Publish(granularSubject, data); err != nil {
		slog.Error(fmt.Sprintf("%s - failed to publish to %s: %v", commsPublisherLogPrefix, granularSubject, err))
		return err
	}

	// Publish to global subject
	if err := p.nc.Publish(p.globalDispatchSubject, data); err != nil {
		slog.Error(fmt.Sprintf("%s - failed to publish to %s: %v", commsPublisherLogPrefix, p.globalDispatchSubject, err))
		return err
	}

	slog.Debug(fmt.Sprintf("%s - Published dispatch event for %s", commsPublisherLogPrefix, event.Intent))
	return nil
}
