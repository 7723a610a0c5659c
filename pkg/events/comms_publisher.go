package events

import (
	"context"
	"fmt"
	"log/slog"

	comms "github.com/nats-io/nats.go"

	"github.com/morezero/netline-server/pkg/commsutil"
)

const commsPublisherLogPrefix = "events:comms_publisher"

// CommsPublisherOpts configures CommsPublisher. Nil or zero values use
// defaults.
type CommsPublisherOpts struct {
	// ConnectionSubject overrides the connection event subject.
	ConnectionSubject string
	// RequestSubject overrides the global request event subject.
	RequestSubject string
}

// CommsPublisher publishes session lifecycle events to COMMS subjects.
type CommsPublisher struct {
	nc                *comms.Conn
	connectionSubject string
	requestSubject    string
}

// NewCommsPublisher creates a CommsPublisher. Pass nil for opts to use
// the default subjects.
func NewCommsPublisher(nc *comms.Conn, opts *CommsPublisherOpts) *CommsPublisher {
	connectionSubject := commsutil.SubjectConnectionEvent
	requestSubject := commsutil.SubjectRequestEvent
	if opts != nil && opts.ConnectionSubject != "" {
		connectionSubject = opts.ConnectionSubject
	}
	if opts != nil && opts.RequestSubject != "" {
		requestSubject = opts.RequestSubject
	}
	return &CommsPublisher{nc: nc, connectionSubject: connectionSubject, requestSubject: requestSubject}
}

// PublishConnection publishes a ConnectionEvent to the connection
// subject.
func (p *CommsPublisher) PublishConnection(_ context.Context, event *ConnectionEvent) error {
	data, err := commsutil.EncodePayload(event)
	if err != nil {
		return fmt.Errorf("%s - failed to encode connection event: %w", commsPublisherLogPrefix, err)
	}

	if err := p.nc.Publish(p.connectionSubject, data); err != nil {
		slog.Error(fmt.Sprintf("%s - failed to publish to %s: %v", commsPublisherLogPrefix, p.connectionSubject, err))
		return err
	}

	slog.Debug(fmt.Sprintf("%s - Published %s event for %s", commsPublisherLogPrefix, event.Kind, event.RemoteAddr))
	return nil
}

// PublishRequest publishes a RequestEvent to both the granular
// per-type and the global request subjects.
func (p *CommsPublisher) PublishRequest(_ context.Context, event *RequestEvent) error {
	data, err := commsutil.EncodePayload(event)
	if err != nil {
		return fmt.Errorf("%s - failed to encode request event: %w", commsPublisherLogPrefix, err)
	}

	granularSubject := commsutil.BuildRequestSubject(event.Type)
	if err := p.nc.Publish(granularSubject, data); err != nil {
		slog.Error(fmt.Sprintf("%s - failed to publish to %s: %v", commsPublisherLogPrefix, granularSubject, err))
		return err
	}

	if err := p.nc.Publish(p.requestSubject, data); err != nil {
		slog.Error(fmt.Sprintf("%s - failed to publish to %s: %v", commsPublisherLogPrefix, p.requestSubject, err))
		return err
	}

	slog.Debug(fmt.Sprintf("%s - Published request event id=%s status=%s", commsPublisherLogPrefix, event.RequestID, event.Status))
	return nil
}
