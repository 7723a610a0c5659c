package server

import "sync/atomic"

// tracker counts currently open client sessions. It backs the
// active_clients field of SYSTEM_INFO and implements
// dispatcher.ClientCounter. Sessions are the only writers.
type tracker struct {
	n atomic.Int64
}

// add registers a session and returns the new count.
func (t *tracker) add() int {
	return int(t.n.Add(1))
}

// done deregisters a session and returns the new count.
func (t *tracker) done() int {
	return int(t.n.Add(-1))
}

// Count reports the number of open sessions.
func (t *tracker) Count() int {
	return int(t.n.Load())
}
