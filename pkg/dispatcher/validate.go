package dispatcher

import (
	"encoding/json"
	"strings"

	"github.com/morezero/netline-server/pkg/protocol"
)

// ValidateRequest checks the structural shape of a decoded JSON value
// before dispatch. It returns the typed request, or a human-readable
// reason when the value is rejected. Checks short-circuit in order:
// object shape, then type, then request_id, then payload.
func ValidateRequest(value interface{}) (*protocol.Request, string) {
	obj, ok := value.(map[string]interface{})
	if !ok {
		return nil, "Request must be a JSON object"
	}

	reqType, ok := obj["type"].(string)
	if !ok || strings.TrimSpace(reqType) == "" {
		return nil, "Missing or invalid 'type' field"
	}

	requestID, ok := obj["request_id"].(string)
	if !ok || strings.TrimSpace(requestID) == "" {
		return nil, "Missing or invalid 'request_id' field"
	}

	payload, ok := obj["payload"].(map[string]interface{})
	if !ok {
		return nil, "Missing or invalid 'payload' field (must be an object)"
	}

	// Re-encode only the payload so handlers can decode it into their
	// typed variant. The map came out of the JSON decoder, so this
	// cannot fail.
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, "Missing or invalid 'payload' field (must be an object)"
	}

	return &protocol.Request{Type: reqType, RequestID: requestID, Payload: raw}, ""
}

// RecoverRequestID pulls a best-effort request_id out of a value that
// failed validation, so the error response still correlates when the
// client at least sent a string id.
func RecoverRequestID(value interface{}) string {
	obj, ok := value.(map[string]interface{})
	if !ok {
		return ""
	}
	id, _ := obj["request_id"].(string)
	return id
}
