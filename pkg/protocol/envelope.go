// Package protocol defines the JSON envelopes of the newline-delimited
// request/response protocol and the line codec that frames them.
package protocol

import "encoding/json"

// Status values carried in a Response.
const (
	StatusOK    = "OK"
	StatusError = "ERROR"
)

// Stable error codes carried in ErrorDetail.
const (
	CodeInvalidJSON = "INVALID_JSON"
	CodeBadRequest  = "BAD_REQUEST"
	CodeNotFound    = "NOT_FOUND"
	CodeUnknownType = "UNKNOWN_TYPE"
	CodeServerError = "SERVER_ERROR"
)

// Request is the JSON envelope for one incoming request line. RequestID
// is an opaque correlation token chosen by the client; the server never
// interprets it, only copies it into the response.
type Request struct {
	Type      string          `json:"type"`
	RequestID string          `json:"request_id"`
	Payload   json.RawMessage `json:"payload"`
}

// Response is the JSON envelope for one outgoing response line. Data is
// always an object on the wire (never null or omitted) so clients can
// parse it unconditionally; Error is JSON null unless Status is ERROR.
type Response struct {
	RequestID string                 `json:"request_id"`
	Status    string                 `json:"status"`
	Data      map[string]interface{} `json:"data"`
	Error     *ErrorDetail           `json:"error"`
}

// ErrorDetail holds structured error information.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// OKResponse builds a success response. A nil data map is replaced with
// an empty object.
func OKResponse(requestID string, data map[string]interface{}) *Response {
	if data == nil {
		data = map[string]interface{}{}
	}
	return &Response{RequestID: requestID, Status: StatusOK, Data: data}
}

// ErrorResponse builds an error response with an empty data object.
func ErrorResponse(requestID, code, message string) *Response {
	return &Response{
		RequestID: requestID,
		Status:    StatusError,
		Data:      map[string]interface{}{},
		Error:     &ErrorDetail{Code: code, Message: message},
	}
}
