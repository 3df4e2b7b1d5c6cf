package rpc

import (
	"bytes"
	"fmt"
)

// MaxContentLength bounds a single frame's declared body size. Exceeding it
// is reported identically to a missing Content-Length header — see
// spec.md §3: "Exceeding the cap... means 'not a valid Content-Length' and
// is reported as missing header if no other header satisfied it."
const MaxContentLength = 100 * 1024 * 1024

var headerDelimiter = []byte("\r\n\r\n")

// Encode frames a single Message as Content-Length-headed bytes. No header
// other than Content-Length is written.
func Encode(msg Message) ([]byte, error) {
	body, err := EncodeJSON(msg)
	if err != nil {
		return nil, err
	}
	header := fmt.Sprintf("Content-Length: %d\r\n\r\n", len(body))
	out := make([]byte, 0, len(header)+len(body))
	out = append(out, header...)
	out = append(out, body...)
	return out, nil
}

// Decoder incrementally extracts complete frames from a byte stream. It
// never returns a partial message: Feed either returns zero or more
// complete messages, or a framing error. Decoder state is the three fields
// named in spec.md §3 (a growable buffer, an optional parsed Content-Length,
// and a headers-parsed flag) plus a read offset into the buffer.
type Decoder struct {
	buf           []byte
	readOffset    int // bytes at buf[:readOffset] are consumed header/body already sliced off
	contentLength int
	headersParsed bool
}

// NewDecoder returns an empty streaming decoder.
func NewDecoder() *Decoder { return &Decoder{} }

// Feed appends newBytes to the internal buffer and extracts as many
// complete messages as are now available, in arrival order. A non-nil error
// indicates an unrecoverable framing error (spec.md §7 point 1); the stream
// must be closed, and Reset should not be called on the same stream.
func (d *Decoder) Feed(newBytes []byte) ([]Message, error) {
	d.buf = append(d.buf, newBytes...)
	var out []Message
	for {
		if !d.headersParsed {
			ok, err := d.parseHeaders()
			if err != nil {
				return out, err
			}
			if !ok {
				return out, nil
			}
		}

		if len(d.buf)-d.readOffset < d.contentLength {
			return out, nil
		}

		body := d.buf[d.readOffset : d.readOffset+d.contentLength]
		bodyCopy := append([]byte(nil), body...)
		d.readOffset += d.contentLength
		d.compact()
		d.contentLength = 0
		d.headersParsed = false

		msg, rerr := Decode(bodyCopy)
		if rerr != nil {
			// A malformed body is a protocol error scoped to this frame,
			// not a framing error: the stream stays open (spec.md §7 point 2).
			// Surface it as a null-id error Response in the output, in arrival
			// order, so the caller can still see and act on it.
			out = append(out, ResponseMessage(Response{Error: rerr}))
			continue
		}
		out = append(out, msg)
	}
}

// parseHeaders looks for the blank-line delimiter, parses exactly one
// Content-Length header from the lines preceding it, and advances past the
// header section. It returns ok=false when more bytes are needed.
func (d *Decoder) parseHeaders() (ok bool, err error) {
	idx := bytes.Index(d.buf[d.readOffset:], headerDelimiter)
	if idx < 0 {
		return false, nil
	}
	headerSection := d.buf[d.readOffset : d.readOffset+idx]
	length, perr := parseContentLength(headerSection)
	if perr != nil {
		return false, perr
	}
	d.readOffset += idx + len(headerDelimiter)
	d.compact()
	d.contentLength = length
	d.headersParsed = true
	return true, nil
}

// compact drops already-consumed bytes from the front of the buffer so it
// doesn't grow unboundedly across many frames. It runs every time the read
// offset advances and copies the unconsumed tail to the front of the buffer.
func (d *Decoder) compact() {
	if d.readOffset == 0 {
		return
	}
	d.buf = append(d.buf[:0], d.buf[d.readOffset:]...)
	d.readOffset = 0
}

// Reset clears all decoder state. Per spec.md §4.C this is only safe to use
// to prepare a *new* stream; a stream that has produced a framing error
// must be closed, never resynchronized in place.
func (d *Decoder) Reset() {
	d.buf = nil
	d.readOffset = 0
	d.contentLength = 0
	d.headersParsed = false
}

// parseContentLength parses the header lines between two successive frame
// delimiters. Exactly one line must parse as a valid Content-Length; any
// other header is ignored; header names are matched case-insensitively.
func parseContentLength(section []byte) (int, *ResponseError) {
	lines := bytes.Split(section, []byte("\r\n"))
	found := false
	length := 0
	for _, line := range lines {
		if len(line) == 0 {
			continue
		}
		name, value, ok := splitHeaderLine(line)
		if !ok || !headerNameEquals(name, "content-length") {
			continue
		}
		n, ok := parseContentLengthValue(value)
		if !ok {
			continue
		}
		if found {
			return 0, NewParseError("Duplicate Content-Length header")
		}
		found = true
		length = n
	}
	if !found {
		return 0, NewParseError("Missing Content-Length header")
	}
	return length, nil
}

func splitHeaderLine(line []byte) (name, value []byte, ok bool) {
	idx := bytes.IndexByte(line, ':')
	if idx < 0 {
		return nil, nil, false
	}
	return line[:idx], line[idx+1:], true
}

func headerNameEquals(name []byte, want string) bool {
	trimmed := bytes.TrimSpace(name)
	if len(trimmed) != len(want) {
		return false
	}
	for i := 0; i < len(trimmed); i++ {
		if toLowerASCII(trimmed[i]) != want[i] {
			return false
		}
	}
	return true
}

func toLowerASCII(b byte) byte {
	if b >= 'A' && b <= 'Z' {
		return b + ('a' - 'A')
	}
	return b
}

// parseContentLengthValue accepts only ASCII digits after trimming
// surrounding whitespace: no sign, no decimal point, no exponent, and the
// resulting value must not exceed MaxContentLength.
func parseContentLengthValue(value []byte) (int, bool) {
	trimmed := bytes.TrimSpace(value)
	if len(trimmed) == 0 {
		return 0, false
	}
	n := 0
	for _, b := range trimmed {
		if b < '0' || b > '9' {
			return 0, false
		}
		n = n*10 + int(b-'0')
		if n > MaxContentLength {
			return 0, false
		}
	}
	return n, true
}
