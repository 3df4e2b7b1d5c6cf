package lsptypes

import (
	"encoding/json"
	"fmt"

	"github.com/lspkit/lsprpc-go-sdk/rpc"
)

// HoverContents is the "hover-contents union" named in spec.md §4.B: either
// a plain markdown string or a MarkupContent object.
type HoverContents = rpc.Either[string, MarkupContent]

// NewHoverContentsString builds a plain-string HoverContents.
func NewHoverContentsString(s string) HoverContents {
	return rpc.NewLeft[string, MarkupContent](s)
}

// NewHoverContentsMarkup builds a MarkupContent-valued HoverContents.
func NewHoverContentsMarkup(m MarkupContent) HoverContents {
	return rpc.NewRight[string, MarkupContent](m)
}

// DecodeHoverContents decodes raw into a HoverContents, discriminating on
// whether the element is a JSON string literal.
func DecodeHoverContents(raw json.RawMessage) (HoverContents, error) {
	return rpc.DecodeEither[string, MarkupContent](raw, rpc.IsJSONString)
}

// Hover is the result of a textDocument/hover request.
type Hover struct {
	Contents HoverContents `json:"contents"`
	Range    *Range        `json:"range,omitempty"`
}

// hoverWire is Hover's wire shape with Contents left as raw JSON, since
// rpc.Either has no way to self-discriminate during decode (spec.md §9): the
// caller must supply a Discriminator, which only a concrete type like Hover
// knows how to pick.
type hoverWire struct {
	Contents json.RawMessage `json:"contents"`
	Range    *Range          `json:"range,omitempty"`
}

func (h Hover) MarshalJSON() ([]byte, error) {
	contentsRaw, err := h.Contents.MarshalJSON()
	if err != nil {
		return nil, fmt.Errorf("marshal hover contents: %w", err)
	}
	return json.Marshal(hoverWire{Contents: contentsRaw, Range: h.Range})
}

func (h *Hover) UnmarshalJSON(data []byte) error {
	var w hoverWire
	if err := json.Unmarshal(data, &w); err != nil {
		return fmt.Errorf("unmarshal hover: %w", err)
	}
	contents, err := DecodeHoverContents(w.Contents)
	if err != nil {
		return fmt.Errorf("unmarshal hover contents: %w", err)
	}
	h.Contents = contents
	h.Range = w.Range
	return nil
}
