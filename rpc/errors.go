package rpc

import (
	"context"
	"errors"
	"fmt"
)

// Error code constants, per spec.md §3 and the LSP base protocol.
const (
	CodeParseError           int32 = -32700
	CodeInvalidRequest       int32 = -32600
	CodeMethodNotFound       int32 = -32601
	CodeInvalidParams        int32 = -32602
	CodeInternalError        int32 = -32603
	CodeServerNotInitialized int32 = -32002
	CodeUnknownErrorCode     int32 = -32001
	CodeRequestFailed        int32 = -32803
	CodeServerCancelled      int32 = -32802
	CodeContentModified      int32 = -32801
	CodeRequestCancelled     int32 = -32800
)

// canonicalMessages maps each closed error code to its canonical message, so
// constructors never need a free-form string for the common cases.
var canonicalMessages = map[int32]string{
	CodeParseError:           "Parse error",
	CodeInvalidRequest:       "Invalid Request",
	CodeMethodNotFound:       "Method not found",
	CodeInvalidParams:        "Invalid params",
	CodeInternalError:        "Internal error",
	CodeServerNotInitialized: "Server not initialized",
	CodeUnknownErrorCode:     "Unknown error code",
	CodeRequestFailed:        "Request failed",
	CodeServerCancelled:      "Server cancelled",
	CodeContentModified:      "Content modified",
	CodeRequestCancelled:     "Request cancelled",
}

// ResponseError is the one typed error the core returns across its public
// API. Data is opaque JSON. INTERNAL_ERROR data never carries the internal Go
// error's text (see spec.md §7 point 4: handler failures must not leak
// exception text); INVALID_PARAMS data may carry the params decode error.
type ResponseError struct {
	Code    int32 `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

func (e *ResponseError) Error() string {
	return fmt.Sprintf("jsonrpc error %d: %s", e.Code, e.Message)
}

func newCanonicalError(code int32, data any) *ResponseError {
	return &ResponseError{Code: code, Message: canonicalMessages[code], Data: data}
}

func NewParseError(detail string) *ResponseError {
	return &ResponseError{Code: CodeParseError, Message: canonicalMessages[CodeParseError], Data: detailData(detail)}
}

func NewInvalidRequest(detail string) *ResponseError {
	return &ResponseError{Code: CodeInvalidRequest, Message: canonicalMessages[CodeInvalidRequest], Data: detailData(detail)}
}

func NewMethodNotFound(method string) *ResponseError {
	return &ResponseError{
		Code:    CodeMethodNotFound,
		Message: canonicalMessages[CodeMethodNotFound],
		Data:    map[string]any{"method": method},
	}
}

func NewInvalidParams(detail string) *ResponseError {
	return &ResponseError{Code: CodeInvalidParams, Message: canonicalMessages[CodeInvalidParams], Data: detailData(detail)}
}

// NewInternalError never takes raw error text from the caller's exception;
// callers pass a short, safe description instead.
func NewInternalError(detail string) *ResponseError {
	return &ResponseError{Code: CodeInternalError, Message: canonicalMessages[CodeInternalError], Data: detailData(detail)}
}

func NewServerNotInitialized() *ResponseError { return newCanonicalError(CodeServerNotInitialized, nil) }

func NewRequestFailed(detail string) *ResponseError {
	return &ResponseError{Code: CodeRequestFailed, Message: canonicalMessages[CodeRequestFailed], Data: detailData(detail)}
}

func NewServerCancelled() *ResponseError { return newCanonicalError(CodeServerCancelled, nil) }

func NewContentModified() *ResponseError { return newCanonicalError(CodeContentModified, nil) }

func NewRequestCancelled() *ResponseError { return newCanonicalError(CodeRequestCancelled, nil) }

func detailData(detail string) any {
	if detail == "" {
		return nil
	}
	return map[string]any{"detail": detail}
}

// errClosed is returned by Connection methods once the connection has
// terminated; further request/notify calls fail fast per spec.md §4.E.
var errClosed = errors.New("connection closed")

// toResponseError maps an internal Go error (typically from a context, or
// already a *ResponseError) onto the wire error shape, without leaking
// exception text for anything other than a known, safe case.
func toResponseError(err error) *ResponseError {
	if err == nil {
		return nil
	}
	var re *ResponseError
	if errors.As(err, &re) {
		return re
	}
	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		// Both explicit cancellation and a timed-out context end the pending
		// call the same way: REQUEST_CANCELLED, never INTERNAL_ERROR.
		return NewRequestCancelled()
	case errors.Is(err, errClosed):
		return NewInternalError("peer disconnected before response")
	default:
		return NewInternalError("internal error")
	}
}
