package rpc

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
)

// connState is the lifecycle of a Connection: it is Idle immediately after
// construction, becomes Active once its pump goroutines are running, and is
// Closed exactly once, after which every operation fails fast.
type connState int32

const (
	connIdle connState = iota
	connActive
	connClosed
)

// outboundQueueCapacity bounds how many framed outbound payloads may be
// buffered before enqueueing blocks, giving backpressure to handlers and callers
// that outrun a slow transport writer.
const outboundQueueCapacity = 256

// Connection is a bidirectional JSON-RPC 2.0 connection over a byte-stream
// transport, framed with Content-Length headers. It owns a Dispatcher for
// inbound routing and request/response correlation, a Decoder for the read
// side, and a bounded outboundQueue for the write side.
type Connection struct {
	reader io.Reader
	writer io.Writer
	closer io.Closer

	dispatcher *Dispatcher
	decoder    *Decoder
	outq       *outboundQueue

	nextID atomic.Int64

	state  atomic.Int32
	ctx    context.Context
	cancel context.CancelCauseFunc

	notificationWg sync.WaitGroup
	pumpWg         sync.WaitGroup

	logger *slog.Logger
}

// NewConnection constructs a Connection around a transport split into a
// reader and writer half (they may be the same value, e.g. a net.Conn, or
// distinct values, e.g. os.Stdin/os.Stdout). closer, if non-nil, is invoked
// by Close to release the underlying transport. The Connection is Idle until
// Start is called.
func NewConnection(reader io.Reader, writer io.Writer, closer io.Closer) *Connection {
	ctx, cancel := context.WithCancelCause(context.Background())
	c := &Connection{
		reader:     reader,
		writer:     writer,
		closer:     closer,
		dispatcher: NewDispatcher(),
		decoder:    NewDecoder(),
		outq:       newOutboundQueue(outboundQueueCapacity),
		ctx:        ctx,
		cancel:     cancel,
	}
	c.dispatcher.setDeliver(c.enqueue)
	return c
}

// Dispatcher exposes the connection's method registry so callers can
// register request and notification handlers before calling Start.
func (c *Connection) Dispatcher() *Dispatcher { return c.dispatcher }

// SetLogger installs a structured logger for internal diagnostics (outbound
// encode failures and write failures) and passes it on to the Dispatcher. A
// nil logger makes the Connection log through slog.Default() and disables
// the Dispatcher's own logging.
func (c *Connection) SetLogger(logger *slog.Logger) {
	c.logger = logger
	c.dispatcher.SetLogger(logger)
}

func (c *Connection) loggerOrDefault() *slog.Logger {
	if c.logger != nil {
		return c.logger
	}
	return slog.Default()
}

// Start transitions the Connection from Idle to Active and launches its
// read and write pump goroutines. Calling Start more than once panics, since
// it indicates a programming error, not a runtime condition.
func (c *Connection) Start() {
	if !c.state.CompareAndSwap(int32(connIdle), int32(connActive)) {
		panic("rpc: Connection.Start called more than once")
	}
	c.pumpWg.Add(2)
	go c.readPump()
	go c.writePump()
}

func (c *Connection) readPump() {
	defer c.pumpWg.Done()
	buf := make([]byte, 64*1024)
	for {
		n, err := c.reader.Read(buf)
		if n > 0 {
			msgs, ferr := c.decoder.Feed(buf[:n])
			for _, msg := range msgs {
				c.handleInbound(msg)
			}
			if ferr != nil {
				c.shutdown(fmt.Errorf("framing error: %w", ferr))
				return
			}
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				c.shutdown(io.ErrClosedPipe)
			} else {
				c.shutdown(err)
			}
			return
		}
	}
}

func (c *Connection) writePump() {
	defer c.pumpWg.Done()
	for {
		item, ok := c.outq.pop()
		if !ok {
			return
		}
		if _, err := c.writer.Write(item); err != nil {
			c.loggerOrDefault().Error("write failed", "err", err)
			c.shutdown(err)
			return
		}
	}
}

func (c *Connection) handleInbound(msg Message) {
	if msg.Kind == KindNotification {
		c.notificationWg.Add(1)
		_, spawn := c.dispatcher.Dispatch(c.ctx, msg)
		if spawn == nil {
			c.notificationWg.Done()
			return
		}
		go func() {
			defer c.notificationWg.Done()
			spawn()
		}()
		return
	}

	resp, spawn := c.dispatcher.Dispatch(c.ctx, msg)
	if resp != nil {
		c.enqueue(*resp)
		return
	}
	if spawn != nil {
		go spawn()
	}
}

// enqueue frames and pushes one outbound message. It is used both by
// Connection's own Call, Notify and $/cancelRequest sends and by Dispatcher
// delivering a handler's eventual response.
func (c *Connection) enqueue(msg Message) {
	framed, err := Encode(msg)
	if err != nil {
		c.loggerOrDefault().Error("failed to encode outbound message", "err", err)
		return
	}
	c.outq.push(framed)
}

// shutdown moves the Connection to Closed exactly once, cancelling its
// context with cause, resolving all outstanding pending requests, and
// closing the outbound queue and underlying transport.
func (c *Connection) shutdown(cause error) {
	if !c.state.CompareAndSwap(int32(connActive), int32(connClosed)) {
		// Also allow closing directly from Idle (Start was never called).
		if !c.state.CompareAndSwap(int32(connIdle), int32(connClosed)) {
			return
		}
	}
	c.cancel(cause)
	c.dispatcher.cancelAll()
	c.outq.close()
	if c.closer != nil {
		_ = c.closer.Close()
	}
}

// Close shuts the connection down and waits for its pump goroutines to
// exit. It is safe to call multiple times and safe to call even if Start
// was never called.
func (c *Connection) Close() error {
	wasActive := connState(c.state.Load()) == connActive
	c.shutdown(errClosed)
	if wasActive {
		c.pumpWg.Wait()
	}
	return nil
}

// Done returns a channel closed once the connection has shut down, whether
// due to peer disconnect, a framing error, or an explicit Close.
func (c *Connection) Done() <-chan struct{} { return c.ctx.Done() }

// Err returns the reason the connection shut down, or nil while still open.
func (c *Connection) Err() error {
	return context.Cause(c.ctx)
}

func (c *Connection) nextRequestID() RequestId {
	return NewIntId(c.nextID.Add(1))
}

// Call sends a request and blocks until a matching response arrives, ctx is
// done, or the connection closes — whichever happens first. On ctx
// cancellation it best-effort notifies the peer with $/cancelRequest before
// giving up locally.
func Call[P, R any](ctx context.Context, c *Connection, method string, params P) (R, error) {
	var zero R
	if connState(c.state.Load()) == connClosed {
		return zero, errClosed
	}

	id := c.nextRequestID()
	raw, merr := marshalParams(params)
	if merr != nil {
		return zero, NewInvalidParams(merr.Error())
	}

	slot := c.dispatcher.registerPending(id)
	c.enqueue(RequestMessage(Request{Id: id, Method: method, Params: raw}))

	select {
	case res := <-slot.ch:
		c.notificationWg.Wait()
		if res.err != nil {
			return zero, res.err
		}
		if len(res.result) > 0 {
			if err := unmarshalResult(res.result, &zero); err != nil {
				return zero, NewInternalError(err.Error())
			}
		}
		return zero, nil

	case <-ctx.Done():
		c.dispatcher.cancelPending(id)
		c.sendCancelRequest(id)
		return zero, toResponseError(ctx.Err())

	case <-c.Done():
		c.dispatcher.removePending(id)
		return zero, errClosed
	}
}

// Notify sends a fire-and-forget notification. It fails only if the
// connection is already closed.
func (c *Connection) Notify(ctx context.Context, method string, params any) error {
	if connState(c.state.Load()) == connClosed {
		return errClosed
	}
	raw, err := marshalParams(params)
	if err != nil {
		return NewInvalidParams(err.Error())
	}
	c.enqueue(NotificationMessage(Notification{Method: method, Params: raw}))
	return nil
}

func (c *Connection) sendCancelRequest(id RequestId) {
	if connState(c.state.Load()) == connClosed {
		return
	}
	raw, err := marshalParams(cancelRequestParams{Id: id})
	if err != nil {
		return
	}
	c.enqueue(NotificationMessage(Notification{Method: MethodCancelRequest, Params: raw}))
}

func marshalParams(params any) ([]byte, error) {
	if params == nil {
		return nil, nil
	}
	return json.Marshal(params)
}

func unmarshalResult(raw []byte, out any) error {
	return json.Unmarshal(raw, out)
}
