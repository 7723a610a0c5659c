package events

import (
	"context"
	"errors"
	"testing"
)

func TestNoOpPublisher(t *testing.T) {
	p := &NoOpPublisher{}
	if err := p.PublishConnection(context.Background(), &ConnectionEvent{Kind: KindConnected}); err != nil {
		t.Errorf("events:publisher_test - PublishConnection = %v, want nil", err)
	}
	if err := p.PublishRequest(context.Background(), &RequestEvent{Status: "OK"}); err != nil {
		t.Errorf("events:publisher_test - PublishRequest = %v, want nil", err)
	}
}

func TestCallbackPublisher(t *testing.T) {
	var gotConnection *ConnectionEvent
	var gotRequest *RequestEvent
	p := &CallbackPublisher{
		OnConnection: func(_ context.Context, event *ConnectionEvent) error {
			gotConnection = event
			return nil
		},
		OnRequest: func(_ context.Context, event *RequestEvent) error {
			gotRequest = event
			return nil
		},
	}

	connection := &ConnectionEvent{Kind: KindDisconnected, RemoteAddr: "127.0.0.1:50000", ActiveClients: 2}
	if err := p.PublishConnection(context.Background(), connection); err != nil {
		t.Fatalf("events:publisher_test - unexpected error: %v", err)
	}
	if gotConnection != connection {
		t.Error("events:publisher_test - connection callback did not receive the event")
	}

	request := &RequestEvent{RequestID: "r1", Type: "ECHO", Status: "OK", DurationMs: 3}
	if err := p.PublishRequest(context.Background(), request); err != nil {
		t.Fatalf("events:publisher_test - unexpected error: %v", err)
	}
	if gotRequest != request {
		t.Error("events:publisher_test - request callback did not receive the event")
	}
}

func TestCallbackPublisher_PropagatesErrors(t *testing.T) {
	wantErr := errors.New("bus unavailable")
	p := &CallbackPublisher{
		OnRequest: func(context.Context, *RequestEvent) error { return wantErr },
	}
	if err := p.PublishRequest(context.Background(), &RequestEvent{}); !errors.Is(err, wantErr) {
		t.Errorf("events:publisher_test - err = %v, want %v", err, wantErr)
	}
}

func TestCallbackPublisher_NilCallbacks(t *testing.T) {
	p := &CallbackPublisher{}
	if err := p.PublishConnection(context.Background(), &ConnectionEvent{}); err != nil {
		t.Errorf("events:publisher_test - err = %v, want nil for nil callback", err)
	}
	if err := p.PublishRequest(context.Background(), &RequestEvent{}); err != nil {
		t.Errorf("events:publisher_test - err = %v, want nil for nil callback", err)
	}
}
