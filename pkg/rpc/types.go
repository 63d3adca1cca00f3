// Package rpc implements the two-method dispatch protocol spoken between
// the sanitization server and its clients: a single POST endpoint carrying
// tools/list and tools/call envelopes.
package rpc

import (
	"fmt"

	"github.com/scrublab/scrub/pkg/catalog"
)

// Protocol method names.
const (
	MethodListTools = "tools/list"
	MethodCallTool  = "tools/call"
)

// Error codes follow the JSON-RPC convention so generic clients can tell
// the failure classes apart.
const (
	CodeMethodNotFound = -32601
	CodeToolNotFound   = -32602
	CodeInternalError  = -32603
)

// Request is the envelope every call arrives in.
type Request struct {
	Method string     `json:"method"`
	Params CallParams `json:"params,omitempty"`
}

// CallParams carries the arguments of a tools/call request. Provider is
// optional; empty means the server's configured default backend.
type CallParams struct {
	Name      string         `json:"name"`
	Arguments map[string]any `json:"arguments,omitempty"`
	Provider  string         `json:"provider,omitempty"`
}

// Response holds exactly one of Result or Error.
type Response struct {
	Result any       `json:"result,omitempty"`
	Error  *RPCError `json:"error,omitempty"`
}

// RPCError is the structured error half of a Response.
type RPCError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *RPCError) Error() string {
	return fmt.Sprintf("rpc error %d: %s", e.Code, e.Message)
}

// Is matches RPC errors by code, so callers can branch with errors.Is
// against the sentinels below.
func (e *RPCError) Is(target error) bool {
	t, ok := target.(*RPCError)
	return ok && t.Code == e.Code
}

// Sentinels for errors.Is branching on the failure class.
var (
	ErrMethodNotFound = &RPCError{Code: CodeMethodNotFound, Message: "method not found"}
	ErrToolNotFound   = &RPCError{Code: CodeToolNotFound, Message: "tool not found"}
	ErrInternal       = &RPCError{Code: CodeInternalError, Message: "internal error"}
)

// ListResult is the payload of a successful tools/list.
type ListResult struct {
	Tools []catalog.ToolSpec `json:"tools"`
}

// CallResult is the payload of a successful tools/call.
type CallResult struct {
	SanitizedText string `json:"sanitizedText"`
}
