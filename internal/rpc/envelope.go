// Package rpc implements the inbound JSON-RPC dialect of the MCP endpoint:
// envelope types, method routing for initialize / tools/list / tools/call,
// and the shaping of every outcome into a well-formed response envelope.
package rpc

import "encoding/json"

// JSON-RPC error codes used by the gateway.
const (
	CodeParseError     = -32700
	CodeMethodNotFound = -32601
	CodeInternalError  = -32603
)

// Request is one inbound JSON-RPC envelope. The id is kept raw so it is
// echoed back verbatim, null included.
type Request struct {
	JSONRPC string          `json:"jsonrpc"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
	ID      json.RawMessage `json:"id"`
}

// Response is one outbound JSON-RPC envelope. Exactly one of Result and
// Error is set.
type Response struct {
	JSONRPC string          `json:"jsonrpc"`
	Result  any             `json:"result,omitempty"`
	Error   *Error          `json:"error,omitempty"`
	ID      json.RawMessage `json:"id"`
}

// Error is the error member of a response envelope.
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// NewResult builds a success envelope echoing the request id.
func NewResult(id json.RawMessage, result any) *Response {
	return &Response{JSONRPC: "2.0", Result: result, ID: id}
}

// NewError builds an error envelope echoing the request id.
func NewError(id json.RawMessage, code int, message string) *Response {
	return &Response{JSONRPC: "2.0", Error: &Error{Code: code, Message: message}, ID: id}
}
