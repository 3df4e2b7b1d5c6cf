package rpc

import (
	"encoding/json"
	"testing"
)

func TestEncodeDecodeRoundtrip(t *testing.T) {
	msg := NotificationMessage(Notification{Method: "initialized"})
	framed, err := Encode(msg)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}

	d := NewDecoder()
	msgs, ferr := d.Feed(framed)
	if ferr != nil {
		t.Fatalf("feed: %v", ferr)
	}
	if len(msgs) != 1 {
		t.Fatalf("expected 1 message, got %d", len(msgs))
	}
	if msgs[0].Notification.Method != "initialized" {
		t.Errorf("unexpected method %q", msgs[0].Notification.Method)
	}
}

func TestFeedByteAtATime(t *testing.T) {
	msg := NotificationMessage(Notification{Method: "exit"})
	framed, err := Encode(msg)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}

	d := NewDecoder()
	var got []Message
	for i := 0; i < len(framed); i++ {
		msgs, ferr := d.Feed(framed[i : i+1])
		if ferr != nil {
			t.Fatalf("feed byte %d: %v", i, ferr)
		}
		got = append(got, msgs...)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 message, got %d", len(got))
	}
}

func TestFeedMultipleFramesAtOnce(t *testing.T) {
	a, _ := Encode(NotificationMessage(Notification{Method: "a"}))
	b, _ := Encode(NotificationMessage(Notification{Method: "b"}))
	d := NewDecoder()
	msgs, ferr := d.Feed(append(a, b...))
	if ferr != nil {
		t.Fatalf("feed: %v", ferr)
	}
	if len(msgs) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(msgs))
	}
	if msgs[0].Notification.Method != "a" || msgs[1].Notification.Method != "b" {
		t.Errorf("unexpected methods: %v", msgs)
	}
}

func TestFeedMissingContentLengthHeader(t *testing.T) {
	d := NewDecoder()
	_, ferr := d.Feed([]byte("X-Foo: bar\r\n\r\n{}"))
	if ferr == nil {
		t.Fatal("expected missing Content-Length error")
	}
}

func TestFeedDuplicateContentLengthHeader(t *testing.T) {
	d := NewDecoder()
	_, ferr := d.Feed([]byte("Content-Length: 2\r\nContent-Length: 2\r\n\r\n{}"))
	if ferr == nil {
		t.Fatal("expected duplicate Content-Length error")
	}
}

func TestFeedHeaderNameCaseInsensitive(t *testing.T) {
	body := []byte(`{"jsonrpc":"2.0","method":"exit"}`)
	frame := append([]byte("content-LENGTH: "+itoa(len(body))+"\r\n\r\n"), body...)
	d := NewDecoder()
	msgs, ferr := d.Feed(frame)
	if ferr != nil {
		t.Fatalf("feed: %v", ferr)
	}
	if len(msgs) != 1 {
		t.Fatalf("expected 1 message, got %d", len(msgs))
	}
}

func TestFeedBodyProtocolErrorKeepsStreamOpen(t *testing.T) {
	bad := []byte(`{"jsonrpc":"1.0"}`)
	frame := append([]byte("Content-Length: "+itoa(len(bad))+"\r\n\r\n"), bad...)
	good, _ := Encode(NotificationMessage(Notification{Method: "exit"}))

	d := NewDecoder()
	msgs, ferr := d.Feed(append(frame, good...))
	if ferr != nil {
		t.Fatalf("unexpected framing error: %v", ferr)
	}
	if len(msgs) != 2 {
		t.Fatalf("expected 2 messages (error response + notification), got %d", len(msgs))
	}
	if msgs[0].Kind != KindResponse || msgs[0].Response.Error == nil {
		t.Errorf("expected first message to be an error response, got %+v", msgs[0])
	}
	if msgs[1].Notification == nil || msgs[1].Notification.Method != "exit" {
		t.Errorf("expected second message to be the exit notification, got %+v", msgs[1])
	}
}

func TestFeedUTF8BodyContentLengthIsByteLengthNotRuneCount(t *testing.T) {
	// "café" is 4 runes but 5 bytes (é is 2 bytes in UTF-8); a length header
	// counted in runes would cut the body one byte short and corrupt é.
	params, err := json.Marshal(map[string]string{"label": "café"})
	if err != nil {
		t.Fatalf("marshal params: %v", err)
	}
	if len(params) == len([]rune(string(params))) {
		t.Fatal("test body must diverge between byte length and rune count")
	}

	msg := NotificationMessage(Notification{Method: "labelled", Params: params})
	framed, err := Encode(msg)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	good, _ := Encode(NotificationMessage(Notification{Method: "exit"}))

	d := NewDecoder()
	msgs, ferr := d.Feed(append(framed, good...))
	if ferr != nil {
		t.Fatalf("feed: %v", ferr)
	}
	if len(msgs) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(msgs))
	}
	if msgs[0].Notification.Method != "labelled" {
		t.Fatalf("unexpected method %q", msgs[0].Notification.Method)
	}
	var decoded struct {
		Label string `json:"label"`
	}
	if err := json.Unmarshal(msgs[0].Notification.Params, &decoded); err != nil {
		t.Fatalf("unmarshal decoded params: %v", err)
	}
	if decoded.Label != "café" {
		t.Errorf("expected label %q, got %q", "café", decoded.Label)
	}
	if msgs[1].Notification.Method != "exit" {
		t.Errorf("expected trailing exit notification to decode cleanly, got %+v", msgs[1])
	}
}

func TestParseContentLengthValueRejectsNonDigits(t *testing.T) {
	if _, ok := parseContentLengthValue([]byte("12a")); ok {
		t.Error("expected rejection of non-digit content")
	}
}

func TestParseContentLengthValueRejectsOverCap(t *testing.T) {
	if _, ok := parseContentLengthValue([]byte("999999999999")); ok {
		t.Error("expected rejection over MaxContentLength")
	}
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	return string(buf[i:])
}
