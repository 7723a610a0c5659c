package protocol

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

// rwBuffer pairs a fixed input stream with a capture buffer for writes.
type rwBuffer struct {
	in  *strings.Reader
	out bytes.Buffer
}

func newRWBuffer(input string) *rwBuffer {
	return &rwBuffer{in: strings.NewReader(input)}
}

func (b *rwBuffer) Read(p []byte) (int, error)  { return b.in.Read(p) }
func (b *rwBuffer) Write(p []byte) (int, error) { return b.out.Write(p) }

func TestLineCodec_ReadLine(t *testing.T) {
	rw := newRWBuffer("{\"a\":1}\n{\"b\":2}\n")
	c := NewLineCodec(rw, 0)

	line, err := c.ReadLine()
	if err != nil {
		t.Fatalf("protocol:codec_test - unexpected error: %v", err)
	}
	if string(line) != `{"a":1}` {
		t.Errorf("protocol:codec_test - line = %q, want %q", line, `{"a":1}`)
	}

	line, err = c.ReadLine()
	if err != nil {
		t.Fatalf("protocol:codec_test - unexpected error on second line: %v", err)
	}
	if string(line) != `{"b":2}` {
		t.Errorf("protocol:codec_test - line = %q, want %q", line, `{"b":2}`)
	}

	if _, err := c.ReadLine(); err != ErrClosed {
		t.Errorf("protocol:codec_test - err = %v, want ErrClosed at end of stream", err)
	}
}

func TestLineCodec_ReadLine_EndOfStreamCases(t *testing.T) {
	tests := []struct {
		name  string
		input string
		max   int
	}{
		{"empty stream", "", 0},
		{"final line without newline", `{"a":1}`, 0},
		{"line exceeding buffer", strings.Repeat("x", 64) + "\n", 32},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewLineCodec(newRWBuffer(tt.input), tt.max)
			if _, err := c.ReadLine(); err != ErrClosed {
				t.Errorf("protocol:codec_test - err = %v, want ErrClosed", err)
			}
		})
	}
}

func TestLineCodec_ReadLine_CopiesOutOfBuffer(t *testing.T) {
	c := NewLineCodec(newRWBuffer("first\nsecond\n"), 0)

	first, err := c.ReadLine()
	if err != nil {
		t.Fatalf("protocol:codec_test - unexpected error: %v", err)
	}
	if _, err := c.ReadLine(); err != nil {
		t.Fatalf("protocol:codec_test - unexpected error: %v", err)
	}
	if string(first) != "first" {
		t.Errorf("protocol:codec_test - first line corrupted by second read: %q", first)
	}
}

func TestDecodeValue(t *testing.T) {
	value, err := DecodeValue([]byte(`{"type":"ECHO"}`))
	if err != nil {
		t.Fatalf("protocol:codec_test - unexpected error: %v", err)
	}
	obj, ok := value.(map[string]interface{})
	if !ok {
		t.Fatalf("protocol:codec_test - value = %T, want map", value)
	}
	if obj["type"] != "ECHO" {
		t.Errorf("protocol:codec_test - type = %v, want ECHO", obj["type"])
	}

	if _, err := DecodeValue([]byte("not json")); err == nil {
		t.Error("protocol:codec_test - expected error for non-JSON line")
	}
}

func TestLineCodec_WriteResponse(t *testing.T) {
	rw := newRWBuffer("")
	c := NewLineCodec(rw, 0)

	if err := c.WriteResponse(OKResponse("r1", map[string]interface{}{"echo": "hi"})); err != nil {
		t.Fatalf("protocol:codec_test - unexpected error: %v", err)
	}

	written := rw.out.String()
	if !strings.HasSuffix(written, "\n") {
		t.Fatalf("protocol:codec_test - response line missing trailing newline: %q", written)
	}
	if strings.Count(written, "\n") != 1 {
		t.Errorf("protocol:codec_test - expected exactly one newline, got %q", written)
	}

	var decoded map[string]interface{}
	if err := json.Unmarshal([]byte(written), &decoded); err != nil {
		t.Fatalf("protocol:codec_test - written line is not valid JSON: %v", err)
	}
	if decoded["request_id"] != "r1" {
		t.Errorf("protocol:codec_test - request_id = %v, want r1", decoded["request_id"])
	}
	if decoded["status"] != StatusOK {
		t.Errorf("protocol:codec_test - status = %v, want OK", decoded["status"])
	}
	// error must be present and JSON null on success
	errValue, present := decoded["error"]
	if !present {
		t.Error("protocol:codec_test - error key missing from success response")
	}
	if errValue != nil {
		t.Errorf("protocol:codec_test - error = %v, want null", errValue)
	}
}

func TestLineCodec_ReadResponse(t *testing.T) {
	input := `{"request_id":"r9","status":"ERROR","data":{},"error":{"code":"NOT_FOUND","message":"Key 'x' not found"}}` + "\n"
	c := NewLineCodec(newRWBuffer(input), 0)

	resp, err := c.ReadResponse()
	if err != nil {
		t.Fatalf("protocol:codec_test - unexpected error: %v", err)
	}
	if resp.RequestID != "r9" {
		t.Errorf("protocol:codec_test - request_id = %q, want r9", resp.RequestID)
	}
	if resp.Error == nil || resp.Error.Code != CodeNotFound {
		t.Errorf("protocol:codec_test - error = %+v, want NOT_FOUND", resp.Error)
	}
}
