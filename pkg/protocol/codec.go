package protocol

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// DefaultMaxLineBytes bounds a single framed line when the caller does
// not configure a limit.
const DefaultMaxLineBytes = 64 * 1024

// ErrClosed reports that no further framed line can be read from the
// stream: the peer closed it, a read failed, a line exceeded the read
// buffer, or the final line had no trailing newline. All of these end
// the session the same way.
var ErrClosed = errors.New("protocol: stream closed")

// LineCodec frames newline-delimited JSON on a byte stream. It reads
// exactly one line per call and writes exactly one JSON object plus a
// single trailing newline per message. It performs no buffering beyond
// single-line framing and does not support values spanning lines.
type LineCodec struct {
	r *bufio.Reader
	w *bufio.Writer
}

// NewLineCodec wraps rw in a codec whose read buffer holds at most
// maxLineBytes per line. A non-positive limit uses DefaultMaxLineBytes.
func NewLineCodec(rw io.ReadWriter, maxLineBytes int) *LineCodec {
	if maxLineBytes <= 0 {
		maxLineBytes = DefaultMaxLineBytes
	}
	return &LineCodec{
		r: bufio.NewReaderSize(rw, maxLineBytes),
		w: bufio.NewWriter(rw),
	}
}

// ReadLine reads the next newline-terminated line and returns it
// without the trailing newline. Any condition that prevents reading a
// complete framed line is reported as ErrClosed.
func (c *LineCodec) ReadLine() ([]byte, error) {
	line, err := c.r.ReadSlice('\n')
	if err != nil {
		return nil, ErrClosed
	}
	// ReadSlice returns a view into the codec's buffer; copy before the
	// next read invalidates it.
	out := make([]byte, len(line)-1)
	copy(out, line[:len(line)-1])
	return out, nil
}

// DecodeValue parses one line as a single JSON value. A failure here is
// a recoverable decode error: the caller reports it and keeps reading.
func DecodeValue(line []byte) (interface{}, error) {
	var value interface{}
	if err := json.Unmarshal(line, &value); err != nil {
		return nil, fmt.Errorf("protocol: invalid JSON line: %w", err)
	}
	return value, nil
}

// WriteRequest encodes req as one JSON line and flushes it.
func (c *LineCodec) WriteRequest(req *Request) error {
	return c.writeLine(req)
}

// WriteResponse encodes resp as one JSON line and flushes it.
func (c *LineCodec) WriteResponse(resp *Response) error {
	return c.writeLine(resp)
}

// ReadResponse reads one line and decodes it as a Response.
func (c *LineCodec) ReadResponse() (*Response, error) {
	line, err := c.ReadLine()
	if err != nil {
		return nil, err
	}
	var resp Response
	if err := json.Unmarshal(line, &resp); err != nil {
		return nil, fmt.Errorf("protocol: invalid response line: %w", err)
	}
	return &resp, nil
}

func (c *LineCodec) writeLine(v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("protocol: encode line: %w", err)
	}
	if _, err := c.w.Write(data); err != nil {
		return err
	}
	if err := c.w.WriteByte('\n'); err != nil {
		return err
	}
	return c.w.Flush()
}
