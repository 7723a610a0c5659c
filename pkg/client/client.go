// Package client implements the protocol side of the demo client: one
// persistent connection, one JSON request per line, one response line
// per request.
package client

import (
	"encoding/json"
	"fmt"
	"net"
	"time"

	"github.com/google/uuid"

	"github.com/morezero/netline-server/pkg/protocol"
)

const logPrefix = "client:client"

// Client is one persistent connection to a netline server.
type Client struct {
	conn  net.Conn
	codec *protocol.LineCodec
}

// Dial connects to addr.
func Dial(addr string) (*Client, error) {
	conn, err := net.DialTimeout("tcp", addr, 10*time.Second)
	if err != nil {
		return nil, fmt.Errorf("%s - failed to connect to %s: %w", logPrefix, addr, err)
	}
	return &Client{conn: conn, codec: protocol.NewLineCodec(conn, protocol.DefaultMaxLineBytes)}, nil
}

// Do sends one request with a generated request_id and reads the next
// response line. It reports an error when the response's request_id
// does not match the one sent and is not empty; an empty id means the
// server could not correlate the request.
func (c *Client) Do(reqType string, payload map[string]interface{}) (*protocol.Response, error) {
	if payload == nil {
		payload = map[string]interface{}{}
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("%s - failed to encode payload: %w", logPrefix, err)
	}

	req := &protocol.Request{
		Type:      reqType,
		RequestID: uuid.NewString(),
		Payload:   raw,
	}
	if err := c.codec.WriteRequest(req); err != nil {
		return nil, fmt.Errorf("%s - failed to send request: %w", logPrefix, err)
	}

	resp, err := c.codec.ReadResponse()
	if err != nil {
		return nil, fmt.Errorf("%s - failed to read response: %w", logPrefix, err)
	}
	if resp.RequestID != "" && resp.RequestID != req.RequestID {
		return nil, fmt.Errorf("%s - response id %q does not match request id %q", logPrefix, resp.RequestID, req.RequestID)
	}
	return resp, nil
}

// Close closes the connection.
func (c *Client) Close() error {
	return c.conn.Close()
}
