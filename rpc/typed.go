package rpc

import (
	"context"
	"encoding/json"
	"fmt"
	"reflect"
)

// RegisterRequest registers a strongly-typed request handler on d: fn
// receives params already decoded into P and returns a result of type R.
// When P is a value type, params are required and a missing or null params
// body is an INVALID_PARAMS error, matching the majority of LSP request
// methods. When P is a pointer type, a missing or null params body invokes fn
// with nil.
func RegisterRequest[P, R any](d *Dispatcher, method string, fn func(ctx context.Context, params P) (R, *ResponseError)) {
	d.OnRequest(method, func(ctx context.Context, raw json.RawMessage) (json.RawMessage, *ResponseError) {
		var params P
		if err := decodeRequiredParams(raw, &params); err != nil {
			return nil, err
		}
		result, rerr := fn(ctx, params)
		if rerr != nil {
			return nil, rerr
		}
		out, err := json.Marshal(result)
		if err != nil {
			return nil, NewInternalError("failed to marshal result")
		}
		return out, nil
	})
}

// RegisterRequestOptional is RegisterRequest for methods whose params object
// is itself optional, such as "shutdown". Absent params decode to the zero
// value of P instead of failing.
func RegisterRequestOptional[P, R any](d *Dispatcher, method string, fn func(ctx context.Context, params P) (R, *ResponseError)) {
	d.OnRequest(method, func(ctx context.Context, raw json.RawMessage) (json.RawMessage, *ResponseError) {
		var params P
		if len(raw) > 0 && string(raw) != "null" {
			if err := json.Unmarshal(raw, &params); err != nil {
				return nil, NewInvalidParams(fmt.Sprintf("%s: %v", method, err))
			}
		}
		result, rerr := fn(ctx, params)
		if rerr != nil {
			return nil, rerr
		}
		out, err := json.Marshal(result)
		if err != nil {
			return nil, NewInternalError("failed to marshal result")
		}
		return out, nil
	})
}

// RegisterNotification registers a strongly-typed notification handler.
// Decode failures are reported through the return value only for logging;
// per JSON-RPC semantics no response is ever sent for a notification.
func RegisterNotification[P any](d *Dispatcher, method string, fn func(ctx context.Context, params P) *ResponseError) {
	d.OnNotification(method, func(ctx context.Context, raw json.RawMessage) *ResponseError {
		var params P
		if err := decodeRequiredParams(raw, &params); err != nil {
			return err
		}
		return fn(ctx, params)
	})
}

func decodeRequiredParams(raw json.RawMessage, out any) *ResponseError {
	if len(raw) == 0 || string(raw) == "null" {
		if reflect.TypeOf(out).Elem().Kind() == reflect.Pointer {
			// Nullable (pointer) params: leave the target nil.
			return nil
		}
		return NewInvalidParams("params is required")
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return NewInvalidParams(err.Error())
	}
	return nil
}
