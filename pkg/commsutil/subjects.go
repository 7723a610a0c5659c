package commsutil

import (
	"fmt"
	"strings"
)

// Default COMMS subjects for server lifecycle events.
const (
	SubjectConnectionEvent = "netline.events.connection"
	SubjectRequestEvent    = "netline.events.request"
)

// BuildRequestSubject builds the granular per-type request event
// subject, e.g. "netline.events.request.echo".
func BuildRequestSubject(reqType string) string {
	safe := strings.ToLower(strings.ReplaceAll(strings.TrimSpace(reqType), ".", "_"))
	if safe == "" {
		safe = "unknown"
	}
	return fmt.Sprintf("%s.%s", SubjectRequestEvent, safe)
}
