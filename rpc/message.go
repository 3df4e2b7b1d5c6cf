// Package rpc implements the transport-independent JSON-RPC 2.0 core used to
// build Language Server Protocol servers and clients: Content-Length framing,
// a polymorphic message model, a method dispatcher with request/response
// correlation, and a bidirectional connection tying them to a byte-stream
// transport.
package rpc

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// Version is the jsonrpc field value every message on the wire carries.
const Version = "2.0"

// Kind identifies which variant of the Message tagged union a value holds.
type Kind int

const (
	KindRequest Kind = iota
	KindResponse
	KindNotification
)

func (k Kind) String() string {
	switch k {
	case KindRequest:
		return "request"
	case KindResponse:
		return "response"
	case KindNotification:
		return "notification"
	default:
		return "unknown"
	}
}

// RequestId is either a signed integer or a non-empty string. The wire
// representation preserves the variant: numbers stay numbers, strings stay
// strings. Decoders must branch on the JSON type, never on whether a string
// happens to look numeric.
type RequestId struct {
	isString bool
	str      string
	num      int64
}

// NewIntId builds an integer-valued RequestId.
func NewIntId(n int64) RequestId { return RequestId{num: n} }

// NewStringId builds a string-valued RequestId. The string must be non-empty;
// callers that might pass an empty string should check first, as an empty id
// cannot be distinguished from "no id" on some transports.
func NewStringId(s string) RequestId { return RequestId{isString: true, str: s} }

// IsString reports whether this id is the string variant.
func (id RequestId) IsString() bool { return id.isString }

// Int returns the integer value. It is only meaningful when IsString is false.
func (id RequestId) Int() int64 { return id.num }

// String returns the string value when IsString is true, otherwise a decimal
// rendering of the integer value (for logging/map-key use, not for the wire).
func (id RequestId) String() string {
	if id.isString {
		return id.str
	}
	return fmt.Sprintf("%d", id.num)
}

// Equal reports whether two RequestIds have the same variant and value.
func (id RequestId) Equal(other RequestId) bool {
	if id.isString != other.isString {
		return false
	}
	if id.isString {
		return id.str == other.str
	}
	return id.num == other.num
}

func (id RequestId) MarshalJSON() ([]byte, error) {
	if id.isString {
		return json.Marshal(id.str)
	}
	return json.Marshal(id.num)
}

func (id *RequestId) UnmarshalJSON(data []byte) error {
	var raw any
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&raw); err != nil {
		return fmt.Errorf("decode request id: %w", err)
	}
	switch v := raw.(type) {
	case json.Number:
		n, err := v.Int64()
		if err != nil {
			return fmt.Errorf("request id %q is not a valid integer: %w", v.String(), err)
		}
		*id = RequestId{num: n}
		return nil
	case string:
		if v == "" {
			return errors.New("request id must be a non-empty string")
		}
		*id = RequestId{isString: true, str: v}
		return nil
	default:
		return fmt.Errorf("request id must be a JSON string or number, got %T", raw)
	}
}

// Request is a Message variant carrying a required, non-null id and method.
type Request struct {
	Id     RequestId
	Method string
	Params json.RawMessage
}

// Response is a Message variant carrying exactly one of Result or Error. Id
// is nil only when responding to a request whose id could not be parsed.
type Response struct {
	Id     *RequestId
	Result json.RawMessage
	Error  *ResponseError
}

// Notification is a Message variant with no id and no expected reply.
type Notification struct {
	Method string
	Params json.RawMessage
}

// Message is the closed tagged union of Request, Response, and Notification.
// Exactly one of the three fields is non-nil, matching the Kind.
type Message struct {
	Kind         Kind
	Request      *Request
	Response     *Response
	Notification *Notification
}

func RequestMessage(r Request) Message {
	return Message{Kind: KindRequest, Request: &r}
}

func ResponseMessage(r Response) Message {
	return Message{Kind: KindResponse, Response: &r}
}

func NotificationMessage(n Notification) Message {
	return Message{Kind: KindNotification, Notification: &n}
}

// wireMessage is the on-the-wire shape all three variants marshal to and
// unmarshal from; a single struct deliberately covers every field so the
// classifier in Decode can inspect presence/absence of id/method/
// result/error before committing to a variant.
type wireMessage struct {
	JSONRPC string           `json:"jsonrpc"`
	Id      *json.RawMessage `json:"id,omitempty"`
	Method  string           `json:"method,omitempty"`
	Params  json.RawMessage  `json:"params,omitempty"`
	Result  json.RawMessage  `json:"result,omitempty"`
	Error   *ResponseError   `json:"error,omitempty"`
}

// EncodeJSON serializes a Message to its wire JSON form, with no
// Content-Length framing. Omitted optional fields are absent, never emitted
// as explicit nulls, except a Response's id which is serialized as null
// when responding to an unparseable request. Use Encode (codec.go) to get
// a framed, ready-to-write byte payload.
func EncodeJSON(msg Message) ([]byte, error) {
	w := wireMessage{JSONRPC: Version}
	switch msg.Kind {
	case KindRequest:
		req := msg.Request
		idRaw, err := json.Marshal(req.Id)
		if err != nil {
			return nil, fmt.Errorf("encode request id: %w", err)
		}
		raw := json.RawMessage(idRaw)
		w.Id = &raw
		w.Method = req.Method
		w.Params = req.Params
	case KindResponse:
		resp := msg.Response
		if resp.Result != nil && resp.Error != nil {
			return nil, errors.New("response has both result and error set")
		}
		if resp.Id == nil {
			raw := json.RawMessage("null")
			w.Id = &raw
		} else {
			idRaw, err := json.Marshal(*resp.Id)
			if err != nil {
				return nil, fmt.Errorf("encode response id: %w", err)
			}
			raw := json.RawMessage(idRaw)
			w.Id = &raw
		}
		w.Result = resp.Result
		w.Error = resp.Error
	case KindNotification:
		n := msg.Notification
		w.Method = n.Method
		w.Params = n.Params
	default:
		return nil, fmt.Errorf("unknown message kind %v", msg.Kind)
	}
	return json.Marshal(w)
}

// Decode parses and classifies a single wire JSON object into a Message,
// following the classification rules in spec.md §4.A:
//  1. jsonrpc must equal "2.0".
//  2. result and error are mutually exclusive.
//  3. id+method present -> Request.
//  4. id present, method absent -> Response.
//  5. id absent, method present -> Notification.
//  6. id absent, result/error present -> Response with a null id.
//  7. anything else -> INVALID_REQUEST.
func Decode(data []byte) (Message, *ResponseError) {
	var w wireMessage
	if err := json.Unmarshal(data, &w); err != nil {
		return Message{}, NewParseError(fmt.Sprintf("invalid JSON: %v", err))
	}
	if w.JSONRPC != Version {
		return Message{}, NewInvalidRequest(fmt.Sprintf("unsupported jsonrpc version %q", w.JSONRPC))
	}
	if len(w.Result) > 0 && w.Error != nil {
		return Message{}, NewInvalidRequest("response carries both result and error")
	}

	hasId := w.Id != nil
	hasMethod := w.Method != ""
	hasResultOrError := len(w.Result) > 0 || w.Error != nil

	switch {
	case hasId && hasMethod:
		id, rerr := decodeNonNullId(*w.Id)
		if rerr != nil {
			return Message{}, rerr
		}
		return RequestMessage(Request{Id: id, Method: w.Method, Params: w.Params}), nil

	case hasId && !hasMethod:
		id, isNull, rerr := decodeMaybeNullId(*w.Id)
		if rerr != nil {
			return Message{}, rerr
		}
		resp := Response{Result: w.Result, Error: w.Error}
		if !isNull {
			resp.Id = &id
		}
		return ResponseMessage(resp), nil

	case !hasId && hasMethod:
		return NotificationMessage(Notification{Method: w.Method, Params: w.Params}), nil

	case !hasId && hasResultOrError:
		return ResponseMessage(Response{Result: w.Result, Error: w.Error}), nil

	default:
		return Message{}, NewInvalidRequest("message has neither id/method nor result/error")
	}
}

func decodeNonNullId(raw json.RawMessage) (RequestId, *ResponseError) {
	var id RequestId
	if err := id.UnmarshalJSON(raw); err != nil {
		return RequestId{}, NewInvalidRequest(fmt.Sprintf("invalid request id: %v", err))
	}
	return id, nil
}

// decodeMaybeNullId decodes a Response id, which may legitimately be the
// JSON literal null when responding to a request whose id could not be read.
func decodeMaybeNullId(raw json.RawMessage) (id RequestId, isNull bool, rerr *ResponseError) {
	trimmed := bytes.TrimSpace(raw)
	if string(trimmed) == "null" {
		return RequestId{}, true, nil
	}
	if err := id.UnmarshalJSON(raw); err != nil {
		return RequestId{}, false, NewInvalidRequest(fmt.Sprintf("invalid response id: %v", err))
	}
	return id, false, nil
}
