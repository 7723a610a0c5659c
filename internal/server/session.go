package server

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"net"
	"time"

	"github.com/morezero/netline-server/pkg/dispatcher"
	"github.com/morezero/netline-server/pkg/events"
	"github.com/morezero/netline-server/pkg/protocol"
	"github.com/morezero/netline-server/pkg/sysinfo"
)

const sessionLogPrefix = "server:session"

// session owns one client connection: the read loop, error containment,
// response writing and registration in the shared client count.
type session struct {
	conn      net.Conn
	codec     *protocol.LineCodec
	disp      *dispatcher.Dispatcher
	tracker   *tracker
	publisher events.Publisher
	clock     sysinfo.Clock
}

func newSession(conn net.Conn, disp *dispatcher.Dispatcher, tr *tracker, publisher events.Publisher, maxLineBytes int) *session {
	if publisher == nil {
		publisher = &events.NoOpPublisher{}
	}
	return &session{
		conn:      conn,
		codec:     protocol.NewLineCodec(conn, maxLineBytes),
		disp:      disp,
		tracker:   tr,
		publisher: publisher,
		clock:     sysinfo.SystemClock{},
	}
}

// serve drives the session until the peer disconnects, the codec
// reports end of stream, or dispatch hits an internal fault. The
// counter decrement and the socket close run on every exit path.
func (s *session) serve(ctx context.Context) {
	remote := s.conn.RemoteAddr().String()
	count := s.tracker.add()
	s.publishConnection(ctx, events.KindConnected, remote, count)
	slog.Info(fmt.Sprintf("%s - client connected remote=%s active=%d", sessionLogPrefix, remote, count))

	defer func() {
		s.conn.Close()
		count := s.tracker.done()
		s.publishConnection(ctx, events.KindDisconnected, remote, count)
		slog.Info(fmt.Sprintf("%s - client disconnected remote=%s active=%d", sessionLogPrefix, remote, count))
	}()

	for {
		line, err := s.codec.ReadLine()
		if err != nil {
			return
		}
		if len(bytes.TrimSpace(line)) == 0 {
			continue
		}

		start := time.Now()
		value, err := protocol.DecodeValue(line)
		if err != nil {
			// A single bad line does not terminate the session; the id
			// cannot be trusted, so the response carries an empty one.
			resp := protocol.ErrorResponse("", protocol.CodeInvalidJSON, "Could not parse JSON request")
			if werr := s.codec.WriteResponse(resp); werr != nil {
				return
			}
			s.publishRequest(ctx, "", resp, remote, start)
			continue
		}

		req, reason := dispatcher.ValidateRequest(value)
		if reason != "" {
			resp := protocol.ErrorResponse(dispatcher.RecoverRequestID(value), protocol.CodeBadRequest, reason)
			if werr := s.codec.WriteResponse(resp); werr != nil {
				return
			}
			s.publishRequest(ctx, "", resp, remote, start)
			continue
		}

		resp, fatal := s.dispatchSafe(ctx, req)
		if werr := s.codec.WriteResponse(resp); werr != nil {
			return
		}
		s.publishRequest(ctx, req.Type, resp, remote, start)
		if fatal {
			// Dispatch faulted; the response was reported, but the
			// session cannot continue in an unknown state.
			return
		}
	}
}

// dispatchSafe converts a panic during dispatch into a SERVER_ERROR
// response and signals the session to close.
func (s *session) dispatchSafe(ctx context.Context, req *protocol.Request) (resp *protocol.Response, fatal bool) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error(fmt.Sprintf("%s - dispatch panic: %v", sessionLogPrefix, r))
			resp = protocol.ErrorResponse("", protocol.CodeServerError, fmt.Sprintf("Unexpected error: %v", r))
			fatal = true
		}
	}()
	return s.disp.Dispatch(ctx, req), false
}

func (s *session) publishConnection(ctx context.Context, kind, remote string, count int) {
	event := &events.ConnectionEvent{
		Kind:          kind,
		RemoteAddr:    remote,
		ActiveClients: count,
		Timestamp:     s.clock.Now(),
	}
	if err := s.publisher.PublishConnection(ctx, event); err != nil {
		slog.Warn(fmt.Sprintf("%s - failed to publish connection event: %v", sessionLogPrefix, err))
	}
}

func (s *session) publishRequest(ctx context.Context, reqType string, resp *protocol.Response, remote string, start time.Time) {
	event := &events.RequestEvent{
		RequestID:  resp.RequestID,
		Type:       reqType,
		Status:     resp.Status,
		DurationMs: time.Since(start).Milliseconds(),
		RemoteAddr: remote,
		Timestamp:  s.clock.Now(),
	}
	if resp.Error != nil {
		event.ErrorCode = resp.Error.Code
	}
	if err := s.publisher.PublishRequest(ctx, event); err != nil {
		slog.Warn(fmt.Sprintf("%s - failed to publish request event: %v", sessionLogPrefix, err))
	}
}
