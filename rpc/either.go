package rpc

import (
	"encoding/json"
	"fmt"
)

// Discriminator inspects a raw JSON element and reports whether it belongs
// to the "left"/"first" arm of a union. It is supplied by the caller at
// schema-construction time — the generic decoder has no way to know which
// concrete arm a given payload is without one (spec.md §4.B / §9).
type Discriminator func(raw json.RawMessage) bool

// IsJSONBool is a ready-made Discriminator for Either<bool, T> capability
// toggles: true if the element is a JSON boolean literal.
func IsJSONBool(raw json.RawMessage) bool {
	trimmed := trimJSON(raw)
	return trimmed == "true" || trimmed == "false"
}

// IsJSONNumber is a ready-made Discriminator for unions like
// Either<i32, String> diagnostic codes: true if the element parses as a
// JSON number. A JSON string is never a number, even when its content is
// numeric.
func IsJSONNumber(raw json.RawMessage) bool {
	trimmed := trimJSON(raw)
	if trimmed == "" || trimmed[0] == '"' {
		return false
	}
	var n json.Number
	return json.Unmarshal([]byte(trimmed), &n) == nil
}

// IsJSONString is a ready-made Discriminator for unions like
// Either<String, MarkupContent> documentation fields: true if the element is
// a JSON string literal.
func IsJSONString(raw json.RawMessage) bool {
	trimmed := trimJSON(raw)
	return len(trimmed) >= 2 && trimmed[0] == '"'
}

// HasField returns a Discriminator that is true when the element is a JSON
// object containing the given field, e.g. Either<TextEdit,
// InsertReplaceEdit>'s "object has field `insert`" rule.
func HasField(field string) Discriminator {
	return func(raw json.RawMessage) bool {
		var obj map[string]json.RawMessage
		if err := json.Unmarshal(raw, &obj); err != nil {
			return false
		}
		_, ok := obj[field]
		return ok
	}
}

func trimJSON(raw json.RawMessage) string {
	s := string(raw)
	start, end := 0, len(s)
	for start < end && isJSONSpace(s[start]) {
		start++
	}
	for end > start && isJSONSpace(s[end-1]) {
		end--
	}
	return s[start:end]
}

func isJSONSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r'
}

// Either is a disjoint union carrying exactly one of L or R. The zero value
// holds neither side; use NewLeft/NewRight to construct one, or decode a
// populated instance with DecodeEither and a Discriminator.
type Either[L, R any] struct {
	left    *L
	right   *R
	hasLeft bool
}

func NewLeft[L, R any](v L) Either[L, R]  { return Either[L, R]{left: &v, hasLeft: true} }
func NewRight[L, R any](v R) Either[L, R] { return Either[L, R]{right: &v} }

func (e Either[L, R]) IsLeft() bool  { return e.hasLeft }
func (e Either[L, R]) IsRight() bool { return !e.hasLeft && e.right != nil }

// Left returns the left value and whether it was present.
func (e Either[L, R]) Left() (L, bool) {
	if e.hasLeft {
		return *e.left, true
	}
	var zero L
	return zero, false
}

// Right returns the right value and whether it was present.
func (e Either[L, R]) Right() (R, bool) {
	if !e.hasLeft && e.right != nil {
		return *e.right, true
	}
	var zero R
	return zero, false
}

// Fold calls onLeft or onRight depending on which side is inhabited.
func Fold[L, R, T any](e Either[L, R], onLeft func(L) T, onRight func(R) T) T {
	if e.hasLeft {
		return onLeft(*e.left)
	}
	var zero R
	if e.right != nil {
		return onRight(*e.right)
	}
	return onRight(zero)
}

// MarshalJSON writes whichever side is inhabited in its natural form.
func (e Either[L, R]) MarshalJSON() ([]byte, error) {
	if e.hasLeft {
		return json.Marshal(*e.left)
	}
	if e.right != nil {
		return json.Marshal(*e.right)
	}
	return nil, fmt.Errorf("either: neither side populated")
}

// DecodeEither decodes raw into an Either, using discriminateLeft to decide
// which side's schema to apply. There is no generic runtime way to infer L
// vs R from JSON alone (see spec.md §9): the caller must supply the
// discriminator appropriate to the concrete instantiation.
func DecodeEither[L, R any](raw json.RawMessage, discriminateLeft Discriminator) (Either[L, R], error) {
	var out Either[L, R]
	if discriminateLeft(raw) {
		var l L
		if err := json.Unmarshal(raw, &l); err != nil {
			return out, fmt.Errorf("decode either left: %w", err)
		}
		out.left = &l
		out.hasLeft = true
		return out, nil
	}
	var r R
	if err := json.Unmarshal(raw, &r); err != nil {
		return out, fmt.Errorf("decode either right: %w", err)
	}
	out.right = &r
	return out, nil
}

// Either3 generalizes Either to three disjoint arms, selected by a
// two-predicate discriminator cascade (A, then B, else C).
type Either3[A, B, C any] struct {
	a    *A
	b    *B
	c    *C
	slot int // 0 = a, 1 = b, 2 = c; meaningful only once one pointer is set
}

func NewA[A, B, C any](v A) Either3[A, B, C] { return Either3[A, B, C]{a: &v, slot: 0} }
func NewB[A, B, C any](v B) Either3[A, B, C] { return Either3[A, B, C]{b: &v, slot: 1} }
func NewC[A, B, C any](v C) Either3[A, B, C] { return Either3[A, B, C]{c: &v, slot: 2} }

func (e Either3[A, B, C]) IsA() bool { return e.a != nil }
func (e Either3[A, B, C]) IsB() bool { return e.a == nil && e.b != nil }
func (e Either3[A, B, C]) IsC() bool { return e.a == nil && e.b == nil && e.c != nil }

func (e Either3[A, B, C]) A() (A, bool) {
	if e.a != nil {
		return *e.a, true
	}
	var zero A
	return zero, false
}

func (e Either3[A, B, C]) B() (B, bool) {
	if e.a == nil && e.b != nil {
		return *e.b, true
	}
	var zero B
	return zero, false
}

func (e Either3[A, B, C]) C() (C, bool) {
	if e.a == nil && e.b == nil && e.c != nil {
		return *e.c, true
	}
	var zero C
	return zero, false
}

// Fold3 calls the handler matching whichever arm is inhabited.
func Fold3[A, B, C, T any](e Either3[A, B, C], onA func(A) T, onB func(B) T, onC func(C) T) T {
	switch {
	case e.a != nil:
		return onA(*e.a)
	case e.b != nil:
		return onB(*e.b)
	default:
		var zero C
		if e.c != nil {
			return onC(*e.c)
		}
		return onC(zero)
	}
}

func (e Either3[A, B, C]) MarshalJSON() ([]byte, error) {
	switch {
	case e.a != nil:
		return json.Marshal(*e.a)
	case e.b != nil:
		return json.Marshal(*e.b)
	case e.c != nil:
		return json.Marshal(*e.c)
	default:
		return nil, fmt.Errorf("either3: no arm populated")
	}
}

// DecodeEither3 decodes raw by trying discriminateA first, then
// discriminateB, falling back to C otherwise.
func DecodeEither3[A, B, C any](raw json.RawMessage, discriminateA, discriminateB Discriminator) (Either3[A, B, C], error) {
	var out Either3[A, B, C]
	switch {
	case discriminateA(raw):
		var a A
		if err := json.Unmarshal(raw, &a); err != nil {
			return out, fmt.Errorf("decode either3 arm a: %w", err)
		}
		out.a = &a
	case discriminateB(raw):
		var b B
		if err := json.Unmarshal(raw, &b); err != nil {
			return out, fmt.Errorf("decode either3 arm b: %w", err)
		}
		out.b = &b
	default:
		var c C
		if err := json.Unmarshal(raw, &c); err != nil {
			return out, fmt.Errorf("decode either3 arm c: %w", err)
		}
		out.c = &c
	}
	return out, nil
}
