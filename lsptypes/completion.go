package lsptypes

import (
	"encoding/json"
	"fmt"

	"github.com/lspkit/lsprpc-go-sdk/rpc"
)

// CompletionDocumentation is the Either<String, MarkupContent> shape used by
// CompletionItem.Documentation.
type CompletionDocumentation = rpc.Either[string, MarkupContent]

// DecodeCompletionDocumentation discriminates on whether the element is a
// JSON string literal.
func DecodeCompletionDocumentation(raw json.RawMessage) (CompletionDocumentation, error) {
	return rpc.DecodeEither[string, MarkupContent](raw, rpc.IsJSONString)
}

// CompletionItem is one entry in a completion list.
type CompletionItem struct {
	Label         string                   `json:"label"`
	Documentation *CompletionDocumentation `json:"documentation,omitempty"`
	InsertText    string                   `json:"insertText,omitempty"`
}

type completionItemWire struct {
	Label         string          `json:"label"`
	Documentation json.RawMessage `json:"documentation,omitempty"`
	InsertText    string          `json:"insertText,omitempty"`
}

func (c CompletionItem) MarshalJSON() ([]byte, error) {
	w := completionItemWire{Label: c.Label, InsertText: c.InsertText}
	if c.Documentation != nil {
		raw, err := c.Documentation.MarshalJSON()
		if err != nil {
			return nil, fmt.Errorf("marshal completion documentation: %w", err)
		}
		w.Documentation = raw
	}
	return json.Marshal(w)
}

func (c *CompletionItem) UnmarshalJSON(data []byte) error {
	var w completionItemWire
	if err := json.Unmarshal(data, &w); err != nil {
		return fmt.Errorf("unmarshal completion item: %w", err)
	}
	c.Label = w.Label
	c.InsertText = w.InsertText
	if len(w.Documentation) > 0 {
		doc, err := DecodeCompletionDocumentation(w.Documentation)
		if err != nil {
			return fmt.Errorf("unmarshal completion documentation: %w", err)
		}
		c.Documentation = &doc
	}
	return nil
}
