package events

import "context"

// Publisher is the interface for publishing session lifecycle events.
type Publisher interface {
	PublishConnection(ctx context.Context, event *ConnectionEvent) error
	PublishRequest(ctx context.Context, event *RequestEvent) error
}

// NoOpPublisher is a Publisher that does nothing (for running without
// an event bus).
type NoOpPublisher struct{}

// PublishConnection is a no-op.
func (p *NoOpPublisher) PublishConnection(context.Context, *ConnectionEvent) error {
	return nil
}

// PublishRequest is a no-op.
func (p *NoOpPublisher) PublishRequest(context.Context, *RequestEvent) error {
	return nil
}

// CallbackPublisher is a Publisher that calls callback functions (for
// testing). Nil callbacks are skipped.
type CallbackPublisher struct {
	OnConnection func(ctx context.Context, event *ConnectionEvent) error
	OnRequest    func(ctx context.Context, event *RequestEvent) error
}

// PublishConnection calls the connection callback.
func (p *CallbackPublisher) PublishConnection(ctx context.Context, event *ConnectionEvent) error {
	if p.OnConnection == nil {
		return nil
	}
	return p.OnConnection(ctx, event)
}

// PublishRequest calls the request callback.
func (p *CallbackPublisher) PublishRequest(ctx context.Context, event *RequestEvent) error {
	if p.OnRequest == nil {
		return nil
	}
	return p.OnRequest(ctx, event)
}
