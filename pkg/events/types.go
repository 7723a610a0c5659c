// Package events defines session lifecycle event types and publisher
// interfaces for the netline server.
package events

// Kind values for ConnectionEvent.
const (
	KindConnected    = "connected"
	KindDisconnected = "disconnected"
)

// ConnectionEvent is emitted when a client session opens or closes.
type ConnectionEvent struct {
	Kind          string `json:"kind"`
	RemoteAddr    string `json:"remoteAddr"`
	ActiveClients int    `json:"activeClients"`
	Timestamp     string `json:"timestamp"`
}

// RequestEvent is emitted after a response line has been written back
// to the client, whatever the outcome.
type RequestEvent struct {
	RequestID  string `json:"requestId"`
	Type       string `json:"type,omitempty"`
	Status     string `json:"status"`
	ErrorCode  string `json:"errorCode,omitempty"`
	DurationMs int64  `json:"durationMs"`
	RemoteAddr string `json:"remoteAddr"`
	Timestamp  string `json:"timestamp"`
}
