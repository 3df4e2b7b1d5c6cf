package rpc

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
)

// RequestHandler answers a single incoming request. A nil *ResponseError
// return means success; Result carries the raw JSON result (nil is valid,
// meaning a JSON null result).
type RequestHandler func(ctx context.Context, params json.RawMessage) (json.RawMessage, *ResponseError)

// NotificationHandler processes a fire-and-forget incoming notification.
// Any error it returns is logged, never sent back to the peer.
type NotificationHandler func(ctx context.Context, params json.RawMessage) *ResponseError

// pendingSlot is the single-shot completion slot a PendingRequest resolves:
// either with the raw result JSON, or with a failure carrying a
// *ResponseError, per spec.md §3.
type pendingSlot struct {
	ch chan pendingResult
}

type pendingResult struct {
	result json.RawMessage
	err    *ResponseError
}

func newPendingSlot() *pendingSlot {
	return &pendingSlot{ch: make(chan pendingResult, 1)}
}

// Dispatcher is the registry + router described in spec.md §4.D: a map of
// request handlers, a map of notification handlers, and the pending-request
// table used to correlate outbound requests with their eventual responses.
// All four pieces of shared state (the two handler maps, the pending table,
// and the inbound in-flight table used for $/cancelRequest) are guarded by
// a single mutex; handlers are always invoked outside that lock.
type Dispatcher struct {
	mu              sync.RWMutex
	requestHandlers map[string]RequestHandler
	notifyHandlers  map[string]NotificationHandler
	pending         map[string]*pendingSlot
	inflight        map[string]context.CancelFunc
	deliverFn       func(Message)
	logger          *slog.Logger
}

// NewDispatcher returns an empty Dispatcher ready to register handlers on.
func NewDispatcher() *Dispatcher {
	return &Dispatcher{
		requestHandlers: make(map[string]RequestHandler),
		notifyHandlers:  make(map[string]NotificationHandler),
		pending:         make(map[string]*pendingSlot),
		inflight:        make(map[string]context.CancelFunc),
	}
}

// OnRequest registers (or replaces) the handler for a request method name.
func (d *Dispatcher) OnRequest(method string, h RequestHandler) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.requestHandlers[method] = h
}

// OnNotification registers (or replaces) the handler for a notification
// method name.
func (d *Dispatcher) OnNotification(method string, h NotificationHandler) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.notifyHandlers[method] = h
}

func (d *Dispatcher) requestHandler(method string) (RequestHandler, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	h, ok := d.requestHandlers[method]
	return h, ok
}

func (d *Dispatcher) notificationHandler(method string) (NotificationHandler, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	h, ok := d.notifyHandlers[method]
	return h, ok
}

// registerPending installs a completion slot for an outbound request id,
// for the Connection to await. Called before the request is sent, so the
// response can never race the registration.
func (d *Dispatcher) registerPending(id RequestId) *pendingSlot {
	slot := newPendingSlot()
	d.mu.Lock()
	d.pending[id.String()] = slot
	d.mu.Unlock()
	return slot
}

func (d *Dispatcher) removePending(id RequestId) {
	d.mu.Lock()
	delete(d.pending, id.String())
	d.mu.Unlock()
}

// cancelPending aborts one outstanding outbound request, resolving its slot
// with a request-cancelled failure.
func (d *Dispatcher) cancelPending(id RequestId) {
	d.mu.Lock()
	slot, ok := d.pending[id.String()]
	if ok {
		delete(d.pending, id.String())
	}
	d.mu.Unlock()
	if ok {
		select {
		case slot.ch <- pendingResult{err: NewRequestCancelled()}:
		default:
		}
	}
}

// cancelAll aborts every outstanding outbound request; used on Connection
// shutdown.
func (d *Dispatcher) cancelAll() {
	d.mu.Lock()
	slots := d.pending
	d.pending = make(map[string]*pendingSlot)
	d.mu.Unlock()
	for _, slot := range slots {
		select {
		case slot.ch <- pendingResult{err: NewInternalError("connection closed")}:
		default:
		}
	}
}

// trackInflight records the cancel func for an inbound request currently
// being handled, keyed by the peer's RequestId, so a matching
// $/cancelRequest can cancel it.
func (d *Dispatcher) trackInflight(id RequestId, cancel context.CancelFunc) {
	d.mu.Lock()
	d.inflight[id.String()] = cancel
	d.mu.Unlock()
}

func (d *Dispatcher) untrackInflight(id RequestId) {
	d.mu.Lock()
	delete(d.inflight, id.String())
	d.mu.Unlock()
}

func (d *Dispatcher) cancelInflight(id RequestId) {
	d.mu.Lock()
	cancel, ok := d.inflight[id.String()]
	d.mu.Unlock()
	if ok {
		cancel()
	}
}

// cancelRequestParams is the payload of the $/cancelRequest notification.
type cancelRequestParams struct {
	Id RequestId `json:"id"`
}

// Dispatch routes a single inbound Message per spec.md §4.D. Request
// handling spawns the handler in its own goroutine via the returned
// spawn func so dispatch() itself never blocks the caller's read loop;
// Connection.handleInbound is expected to call the returned spawn closure (if
// non-nil) after recording bookkeeping it needs before the handler starts.
func (d *Dispatcher) Dispatch(ctx context.Context, msg Message) (result *Message, spawn func()) {
	switch msg.Kind {
	case KindRequest:
		return d.dispatchRequest(ctx, msg.Request)
	case KindNotification:
		return nil, d.dispatchNotification(ctx, msg.Notification)
	case KindResponse:
		d.dispatchResponse(msg.Response)
		return nil, nil
	default:
		return nil, nil
	}
}

func (d *Dispatcher) dispatchRequest(ctx context.Context, req *Request) (result *Message, spawn func()) {
	handler, ok := d.requestHandler(req.Method)
	if !ok {
		resp := ResponseMessage(Response{Id: &req.Id, Error: NewMethodNotFound(req.Method)})
		return &resp, nil
	}

	reqCtx, cancel := context.WithCancel(ctx)
	id := req.Id
	d.trackInflight(id, cancel)

	return nil, func() {
		defer func() {
			d.untrackInflight(id)
			cancel()
		}()
		result, rerr := handler(reqCtx, req.Params)
		if rerr == nil && reqCtx.Err() != nil {
			// The handler returned a value, but we were already cancelled:
			// its result is discarded per spec.md §5 Cancellation.
			rerr = NewRequestCancelled()
			result = nil
		}
		resp := Response{Id: &id}
		if rerr != nil {
			resp.Error = rerr
		} else if result == nil {
			resp.Result = json.RawMessage("null")
		} else {
			resp.Result = result
		}
		d.deliver(ResponseMessage(resp))
	}
}

func (d *Dispatcher) dispatchNotification(ctx context.Context, n *Notification) func() {
	if n.Method == MethodCancelRequest {
		return func() { d.handleCancelRequest(n.Params) }
	}

	handler, ok := d.notificationHandler(n.Method)
	if !ok {
		return nil
	}
	return func() {
		if rerr := handler(ctx, n.Params); rerr != nil {
			d.logf("notification handler failed: method=%s code=%d message=%s", n.Method, rerr.Code, rerr.Message)
		}
	}
}

func (d *Dispatcher) handleCancelRequest(params json.RawMessage) {
	var p cancelRequestParams
	if err := json.Unmarshal(params, &p); err != nil {
		return
	}
	d.cancelInflight(p.Id)
}

func (d *Dispatcher) dispatchResponse(resp *Response) {
	if resp.Id == nil {
		return
	}
	d.mu.Lock()
	slot, ok := d.pending[resp.Id.String()]
	if ok {
		delete(d.pending, resp.Id.String())
	}
	d.mu.Unlock()
	if !ok {
		return
	}
	select {
	case slot.ch <- pendingResult{result: resp.Result, err: resp.Error}:
	default:
	}
}

// deliver is set by Connection so handler goroutines spawned by Dispatch
// can enqueue their Response without Connection exposing its queue
// directly to Dispatcher.
func (d *Dispatcher) setDeliver(fn func(Message)) {
	d.mu.Lock()
	d.deliverFn = fn
	d.mu.Unlock()
}

func (d *Dispatcher) deliver(msg Message) {
	d.mu.RLock()
	fn := d.deliverFn
	d.mu.RUnlock()
	if fn != nil {
		fn(msg)
	}
}

// SetLogger installs a structured logger used, at debug level, for
// notification-handler failures. A nil logger (the default) disables logging.
func (d *Dispatcher) SetLogger(logger *slog.Logger) {
	d.mu.Lock()
	d.logger = logger
	d.mu.Unlock()
}

func (d *Dispatcher) logf(format string, args ...any) {
	d.mu.RLock()
	logger := d.logger
	d.mu.RUnlock()
	if logger != nil {
		logger.Debug(fmt.Sprintf(format, args...))
	}
}
