package dispatcher

import (
	"encoding/json"
	"testing"
)

func decodeLine(t *testing.T, line string) interface{} {
	t.Helper()
	var value interface{}
	if err := json.Unmarshal([]byte(line), &value); err != nil {
		t.Fatalf("dispatcher:validate_test - failed to decode line %q: %v", line, err)
	}
	return value
}

func TestValidateRequest(t *testing.T) {
	tests := []struct {
		name       string
		line       string
		wantReason string
	}{
		{"valid request", `{"type":"ECHO","request_id":"r1","payload":{"message":"hi"}}`, ""},
		{"valid with empty payload", `{"type":"HELP","request_id":"r2","payload":{}}`, ""},
		{"not an object", `[1,2,3]`, "Request must be a JSON object"},
		{"scalar value", `42`, "Request must be a JSON object"},
		{"missing type", `{"request_id":"r1","payload":{}}`, "Missing or invalid 'type' field"},
		{"type not a string", `{"type":7,"request_id":"r1","payload":{}}`, "Missing or invalid 'type' field"},
		{"type blank", `{"type":"   ","request_id":"r1","payload":{}}`, "Missing or invalid 'type' field"},
		{"missing request_id", `{"type":"ECHO","payload":{}}`, "Missing or invalid 'request_id' field"},
		{"request_id not a string", `{"type":"ECHO","request_id":1,"payload":{}}`, "Missing or invalid 'request_id' field"},
		{"request_id blank", `{"type":"ECHO","request_id":" ","payload":{}}`, "Missing or invalid 'request_id' field"},
		{"missing payload", `{"type":"ECHO","request_id":"r1"}`, "Missing or invalid 'payload' field (must be an object)"},
		{"payload not an object", `{"type":"ECHO","request_id":"r1","payload":[1]}`, "Missing or invalid 'payload' field (must be an object)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, reason := ValidateRequest(decodeLine(t, tt.line))
			if reason != tt.wantReason {
				t.Errorf("dispatcher:validate_test - reason = %q, want %q", reason, tt.wantReason)
			}
			if tt.wantReason == "" && req == nil {
				t.Error("dispatcher:validate_test - expected request, got nil")
			}
			if tt.wantReason != "" && req != nil {
				t.Errorf("dispatcher:validate_test - expected nil request, got %+v", req)
			}
		})
	}
}

func TestValidateRequest_ChecksShortCircuitInOrder(t *testing.T) {
	// Both type and request_id are broken; the type failure wins.
	_, reason := ValidateRequest(decodeLine(t, `{"request_id":9,"payload":"x"}`))
	if reason != "Missing or invalid 'type' field" {
		t.Errorf("dispatcher:validate_test - reason = %q, want the type failure first", reason)
	}
}

func TestValidateRequest_PreservesFields(t *testing.T) {
	req, reason := ValidateRequest(decodeLine(t, `{"type":" echo ","request_id":" r1 ","payload":{"message":"m"}}`))
	if reason != "" {
		t.Fatalf("dispatcher:validate_test - unexpected reason %q", reason)
	}
	// Trimming is an emptiness check only; the original values carry through.
	if req.Type != " echo " {
		t.Errorf("dispatcher:validate_test - type = %q, want original untrimmed value", req.Type)
	}
	if req.RequestID != " r1 " {
		t.Errorf("dispatcher:validate_test - request_id = %q, want original untrimmed value", req.RequestID)
	}
}

func TestRecoverRequestID(t *testing.T) {
	tests := []struct {
		name string
		line string
		want string
	}{
		{"string id survives", `{"type":7,"request_id":"r7"}`, "r7"},
		{"non-string id drops", `{"request_id":12}`, ""},
		{"missing id", `{"type":"ECHO"}`, ""},
		{"not an object", `"just a string"`, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := RecoverRequestID(decodeLine(t, tt.line)); got != tt.want {
				t.Errorf("dispatcher:validate_test - RecoverRequestID = %q, want %q", got, tt.want)
			}
		})
	}
}
