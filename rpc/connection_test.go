package rpc

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"
)

func newPipeConnections() (client, server *Connection) {
	clientR, serverW := io.Pipe()
	serverR, clientW := io.Pipe()
	client = NewConnection(clientR, clientW, clientW)
	server = NewConnection(serverR, serverW, serverW)
	return client, server
}

func TestConnectionRequestResponseRoundtrip(t *testing.T) {
	client, server := newPipeConnections()
	defer client.Close()
	defer server.Close()

	type params struct {
		Text string `json:"text"`
	}
	type result struct {
		Upper string `json:"upper"`
	}

	RegisterRequest(server.Dispatcher(), "upper", func(ctx context.Context, p params) (result, *ResponseError) {
		return result{Upper: p.Text + "!"}, nil
	})

	client.Start()
	server.Start()

	res, err := Call[params, result](context.Background(), client, "upper", params{Text: "hi"})
	if err != nil {
		t.Fatalf("call failed: %v", err)
	}
	if res.Upper != "hi!" {
		t.Fatalf("unexpected result: %+v", res)
	}
}

func TestConnectionNotificationDelivered(t *testing.T) {
	client, server := newPipeConnections()
	defer client.Close()
	defer server.Close()

	type params struct {
		Message string `json:"message"`
	}
	received := make(chan string, 1)
	RegisterNotification(server.Dispatcher(), "window/logMessage", func(ctx context.Context, p params) *ResponseError {
		received <- p.Message
		return nil
	})

	client.Start()
	server.Start()

	if err := client.Notify(context.Background(), "window/logMessage", params{Message: "hello"}); err != nil {
		t.Fatalf("notify failed: %v", err)
	}

	select {
	case msg := <-received:
		if msg != "hello" {
			t.Fatalf("unexpected message %q", msg)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("notification was never delivered")
	}
}

func TestConnectionMethodNotFoundReturnsError(t *testing.T) {
	client, server := newPipeConnections()
	defer client.Close()
	defer server.Close()

	client.Start()
	server.Start()

	_, err := Call[struct{}, struct{}](context.Background(), client, "nope", struct{}{})
	if err == nil {
		t.Fatal("expected error")
	}
	re, ok := err.(*ResponseError)
	if !ok {
		t.Fatalf("expected *ResponseError, got %T", err)
	}
	if re.Code != CodeMethodNotFound {
		t.Fatalf("expected METHOD_NOT_FOUND, got %d", re.Code)
	}
}

func TestConnectionCallCancelledByContextSendsCancelRequest(t *testing.T) {
	client, server := newPipeConnections()
	defer client.Close()
	defer server.Close()

	started := make(chan struct{})
	handlerCancelled := make(chan struct{})
	RegisterRequest(server.Dispatcher(), "block", func(ctx context.Context, p struct{}) (struct{}, *ResponseError) {
		close(started)
		<-ctx.Done()
		close(handlerCancelled)
		return struct{}{}, toResponseError(ctx.Err())
	})

	client.Start()
	server.Start()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		_, err := Call[struct{}, struct{}](ctx, client, "block", struct{}{})
		done <- err
	}()

	select {
	case <-started:
	case <-time.After(2 * time.Second):
		t.Fatal("handler never started")
	}
	cancel()

	select {
	case err := <-done:
		if err == nil {
			t.Fatal("expected cancellation error")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Call never returned after ctx cancel")
	}

	// The server is still open, so only a $/cancelRequest from the client can
	// cancel the handler's context.
	select {
	case <-handlerCancelled:
	case <-time.After(2 * time.Second):
		t.Fatal("server handler was never cancelled by $/cancelRequest")
	}
}

func TestConnectionCallDeadlineExceededMapsToRequestCancelled(t *testing.T) {
	client, server := newPipeConnections()
	defer client.Close()
	defer server.Close()

	started := make(chan struct{})
	RegisterRequest(server.Dispatcher(), "block", func(ctx context.Context, p struct{}) (struct{}, *ResponseError) {
		close(started)
		<-ctx.Done()
		return struct{}{}, toResponseError(ctx.Err())
	})

	client.Start()
	server.Start()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := Call[struct{}, struct{}](ctx, client, "block", struct{}{})

	<-started
	var re *ResponseError
	if !errors.As(err, &re) {
		t.Fatalf("expected a *ResponseError, got %v (%T)", err, err)
	}
	if re.Code != CodeRequestCancelled {
		t.Fatalf("expected CodeRequestCancelled, got %d (%v)", re.Code, re)
	}
}

func TestConnectionCloseResolvesPendingCalls(t *testing.T) {
	client, server := newPipeConnections()
	defer server.Close()

	blocked := make(chan struct{})
	RegisterRequest(server.Dispatcher(), "hang", func(ctx context.Context, p struct{}) (struct{}, *ResponseError) {
		close(blocked)
		<-ctx.Done()
		return struct{}{}, toResponseError(ctx.Err())
	})

	client.Start()
	server.Start()

	done := make(chan error, 1)
	go func() {
		_, err := Call[struct{}, struct{}](context.Background(), client, "hang", struct{}{})
		done <- err
	}()

	select {
	case <-blocked:
	case <-time.After(2 * time.Second):
		t.Fatal("handler never started")
	}

	client.Close()

	select {
	case err := <-done:
		if err == nil {
			t.Fatal("expected error after Close")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Call never returned after Close")
	}
}

func TestDecodeMessageMalformedJSONReportsParseError(t *testing.T) {
	// Exercises Decode directly: a truncated JSON body is a body-level
	// protocol error reported as PARSE_ERROR, not a framing error.
	_, rerr := Decode([]byte(`{"jsonrpc":"2.0","id":1,`))
	if rerr == nil || rerr.Code != CodeParseError {
		t.Fatalf("expected PARSE_ERROR, got %v", rerr)
	}
}
