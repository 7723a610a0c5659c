// Package dispatcher validates decoded request lines and routes them to
// the handler named by their type.
package dispatcher

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/morezero/netline-server/pkg/protocol"
	"github.com/morezero/netline-server/pkg/store"
	"github.com/morezero/netline-server/pkg/sysinfo"
)

const logPrefix = "dispatcher:dispatch"

// Request types handled by Dispatch.
const (
	TypeEcho       = "ECHO"
	TypeSystemInfo = "SYSTEM_INFO"
	TypeFileQuery  = "FILE_QUERY"
	TypeHelp       = "HELP"
)

// SupportedTypes lists the handled request types in the stable order
// reported by HELP.
var SupportedTypes = []string{TypeEcho, TypeSystemInfo, TypeFileQuery, TypeHelp}

// ClientCounter reports how many client sessions are currently open.
// The listener owns the counter; the dispatcher only reads it.
type ClientCounter interface {
	Count() int
}

// Params holds the collaborators a Dispatcher reads from.
type Params struct {
	Store      store.Store
	Clients    ClientCounter
	Clock      sysinfo.Clock
	Platform   string
	ServerName string
}

// Dispatcher maps a request's declared type to its handler. Aside from
// the client-count snapshot it mutates nothing.
type Dispatcher struct {
	store      store.Store
	clients    ClientCounter
	clock      sysinfo.Clock
	platform   string
	serverName string
}

// NewDispatcher creates a Dispatcher. A nil store behaves as an empty
// lookup table and a nil clock falls back to the system clock.
func NewDispatcher(params Params) *Dispatcher {
	st := params.Store
	if st == nil {
		st = store.Static(nil)
	}
	clock := params.Clock
	if clock == nil {
		clock = sysinfo.SystemClock{}
	}
	return &Dispatcher{
		store:      st,
		clients:    params.Clients,
		clock:      clock,
		platform:   params.Platform,
		serverName: params.ServerName,
	}
}

// Dispatch produces exactly one response for a validated request. Type
// matching trims surrounding whitespace and ignores case.
func (d *Dispatcher) Dispatch(ctx context.Context, req *protocol.Request) *protocol.Response {
	reqType := strings.ToUpper(strings.TrimSpace(req.Type))
	slog.Debug(fmt.Sprintf("%s - type=%s id=%s", logPrefix, reqType, req.RequestID))

	switch reqType {
	case TypeEcho:
		return d.handleEcho(req)
	case TypeSystemInfo:
		return d.handleSystemInfo(req)
	case TypeFileQuery:
		return d.handleFileQuery(ctx, req)
	case TypeHelp:
		return d.handleHelp(req)
	default:
		return protocol.ErrorResponse(req.RequestID, protocol.CodeUnknownType,
			fmt.Sprintf("Unknown request type: %s", reqType))
	}
}

// EchoParams is the ECHO payload variant.
type EchoParams struct {
	Message *string `json:"message"`
}

func (d *Dispatcher) handleEcho(req *protocol.Request) *protocol.Response {
	var params EchoParams
	if err := json.Unmarshal(req.Payload, &params); err != nil || params.Message == nil {
		return protocol.ErrorResponse(req.RequestID, protocol.CodeBadRequest,
			"ECHO requires payload.message (string)")
	}
	return protocol.OKResponse(req.RequestID, map[string]interface{}{"echo": *params.Message})
}

func (d *Dispatcher) handleSystemInfo(req *protocol.Request) *protocol.Response {
	count := 0
	if d.clients != nil {
		count = d.clients.Count()
	}
	return protocol.OKResponse(req.RequestID, map[string]interface{}{
		"server_name":    d.serverName,
		"server_time":    d.clock.Now(),
		"active_clients": count,
		"platform":       d.platform,
	})
}

// FileQueryParams is the FILE_QUERY payload variant.
type FileQueryParams struct {
	Key *string `json:"key"`
}

func (d *Dispatcher) handleFileQuery(ctx context.Context, req *protocol.Request) *protocol.Response {
	var params FileQueryParams
	if err := json.Unmarshal(req.Payload, &params); err != nil || params.Key == nil || strings.TrimSpace(*params.Key) == "" {
		return protocol.ErrorResponse(req.RequestID, protocol.CodeBadRequest,
			"FILE_QUERY requires payload.key (non-empty string)")
	}
	key := strings.TrimSpace(*params.Key)

	table := d.store.Load(ctx)
	value, ok := table[key]
	if !ok {
		return protocol.ErrorResponse(req.RequestID, protocol.CodeNotFound,
			fmt.Sprintf("Key '%s' not found", key))
	}
	return protocol.OKResponse(req.RequestID, map[string]interface{}{"key": key, "value": value})
}

func (d *Dispatcher) handleHelp(req *protocol.Request) *protocol.Response {
	return protocol.OKResponse(req.RequestID, map[string]interface{}{
		"supported_types": SupportedTypes,
	})
}
