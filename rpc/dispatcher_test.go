package rpc

import (
	"context"
	"encoding/json"
	"testing"
	"time"
)

func TestDispatchUnknownMethodReturnsMethodNotFound(t *testing.T) {
	d := NewDispatcher()
	resp, spawn := d.Dispatch(context.Background(), RequestMessage(Request{Id: NewIntId(1), Method: "nope"}))
	if spawn != nil {
		t.Fatal("expected no spawn for unknown method")
	}
	if resp == nil || resp.Response.Error == nil || resp.Response.Error.Code != CodeMethodNotFound {
		t.Fatalf("expected METHOD_NOT_FOUND response, got %+v", resp)
	}
}

func TestDispatchRequestInvokesHandler(t *testing.T) {
	d := NewDispatcher()
	d.OnRequest("echo", func(ctx context.Context, params json.RawMessage) (json.RawMessage, *ResponseError) {
		return params, nil
	})

	var delivered Message
	done := make(chan struct{})
	d.setDeliver(func(msg Message) {
		delivered = msg
		close(done)
	})

	resp, spawn := d.Dispatch(context.Background(), RequestMessage(Request{Id: NewIntId(9), Method: "echo", Params: json.RawMessage(`{"a":1}`)}))
	if resp != nil {
		t.Fatalf("expected nil immediate response, got %+v", resp)
	}
	if spawn == nil {
		t.Fatal("expected a spawn func")
	}
	go spawn()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("handler result was never delivered")
	}
	if delivered.Response.Id == nil || delivered.Response.Id.Int() != 9 {
		t.Fatalf("unexpected delivered response id: %v", delivered.Response.Id)
	}
	if string(delivered.Response.Result) != `{"a":1}` {
		t.Fatalf("unexpected result: %s", delivered.Response.Result)
	}
}

func TestDispatchCancelRequestCancelsInflightHandler(t *testing.T) {
	d := NewDispatcher()
	started := make(chan struct{})
	d.OnRequest("block", func(ctx context.Context, params json.RawMessage) (json.RawMessage, *ResponseError) {
		close(started)
		<-ctx.Done()
		return nil, toResponseError(ctx.Err())
	})

	var delivered Message
	done := make(chan struct{})
	d.setDeliver(func(msg Message) {
		delivered = msg
		close(done)
	})

	_, spawn := d.Dispatch(context.Background(), RequestMessage(Request{Id: NewIntId(1), Method: "block"}))
	go spawn()

	select {
	case <-started:
	case <-time.After(time.Second):
		t.Fatal("handler did not start")
	}

	cancelParams, _ := json.Marshal(cancelRequestParams{Id: NewIntId(1)})
	_, cancelSpawn := d.Dispatch(context.Background(), NotificationMessage(Notification{Method: MethodCancelRequest, Params: cancelParams}))
	cancelSpawn()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for cancelled response")
	}
	if delivered.Response.Error == nil || delivered.Response.Error.Code != CodeRequestCancelled {
		t.Fatalf("expected REQUEST_CANCELLED, got %+v", delivered.Response.Error)
	}
}

func TestDispatchResponseResolvesPending(t *testing.T) {
	d := NewDispatcher()
	id := NewIntId(5)
	slot := d.registerPending(id)

	d.Dispatch(context.Background(), ResponseMessage(Response{Id: &id, Result: json.RawMessage(`"ok"`)}))

	select {
	case res := <-slot.ch:
		if res.err != nil {
			t.Fatalf("unexpected error: %v", res.err)
		}
		if string(res.result) != `"ok"` {
			t.Fatalf("unexpected result: %s", res.result)
		}
	case <-time.After(time.Second):
		t.Fatal("pending slot was never resolved")
	}
}

func TestDispatchNotificationWithNoHandlerIsIgnored(t *testing.T) {
	d := NewDispatcher()
	_, spawn := d.Dispatch(context.Background(), NotificationMessage(Notification{Method: "unregistered"}))
	if spawn != nil {
		t.Fatal("expected nil spawn for unregistered notification method")
	}
}

func TestCancelAllResolvesAllPending(t *testing.T) {
	d := NewDispatcher()
	slot1 := d.registerPending(NewIntId(1))
	slot2 := d.registerPending(NewIntId(2))

	d.cancelAll()

	for _, slot := range []*pendingSlot{slot1, slot2} {
		select {
		case res := <-slot.ch:
			if res.err == nil {
				t.Fatal("expected error on cancelAll")
			}
		case <-time.After(time.Second):
			t.Fatal("pending slot was never resolved by cancelAll")
		}
	}
}
