package lsptypes

import (
	"encoding/json"
	"fmt"

	"github.com/lspkit/lsprpc-go-sdk/rpc"
)

// HoverOptions carries provider-specific options for hover support.
type HoverOptions struct {
	WorkDoneProgress bool `json:"workDoneProgress,omitempty"`
}

// CapabilityToggle is the Either<bool, T> shape LSP uses throughout
// ServerCapabilities: a capability is either a plain "supported" boolean or
// an options object enabling it with extra settings.
type CapabilityToggle[T any] = rpc.Either[bool, T]

// NewCapabilityBool builds a plain-boolean toggle.
func NewCapabilityBool[T any](on bool) CapabilityToggle[T] {
	return rpc.NewLeft[bool, T](on)
}

// NewCapabilityOptions builds an options-valued toggle.
func NewCapabilityOptions[T any](opts T) CapabilityToggle[T] {
	return rpc.NewRight[bool, T](opts)
}

// DecodeCapabilityToggle discriminates on whether the element is a JSON
// boolean literal.
func DecodeCapabilityToggle[T any](raw json.RawMessage) (CapabilityToggle[T], error) {
	return rpc.DecodeEither[bool, T](raw, rpc.IsJSONBool)
}

// ServerCapabilities is a deliberately small slice of the real LSP
// ServerCapabilities object: enough toggles to exercise the
// Either<bool, T> capability pattern, not the full catalog.
type ServerCapabilities struct {
	HoverProvider      *CapabilityToggle[HoverOptions] `json:"hoverProvider,omitempty"`
	DefinitionProvider *CapabilityToggle[struct{}]     `json:"definitionProvider,omitempty"`
}

type serverCapabilitiesWire struct {
	HoverProvider      json.RawMessage `json:"hoverProvider,omitempty"`
	DefinitionProvider json.RawMessage `json:"definitionProvider,omitempty"`
}

func (s ServerCapabilities) MarshalJSON() ([]byte, error) {
	var w serverCapabilitiesWire
	if s.HoverProvider != nil {
		raw, err := s.HoverProvider.MarshalJSON()
		if err != nil {
			return nil, fmt.Errorf("marshal hoverProvider: %w", err)
		}
		w.HoverProvider = raw
	}
	if s.DefinitionProvider != nil {
		raw, err := s.DefinitionProvider.MarshalJSON()
		if err != nil {
			return nil, fmt.Errorf("marshal definitionProvider: %w", err)
		}
		w.DefinitionProvider = raw
	}
	return json.Marshal(w)
}

func (s *ServerCapabilities) UnmarshalJSON(data []byte) error {
	var w serverCapabilitiesWire
	if err := json.Unmarshal(data, &w); err != nil {
		return fmt.Errorf("unmarshal server capabilities: %w", err)
	}
	if len(w.HoverProvider) > 0 {
		toggle, err := DecodeCapabilityToggle[HoverOptions](w.HoverProvider)
		if err != nil {
			return fmt.Errorf("unmarshal hoverProvider: %w", err)
		}
		s.HoverProvider = &toggle
	}
	if len(w.DefinitionProvider) > 0 {
		toggle, err := DecodeCapabilityToggle[struct{}](w.DefinitionProvider)
		if err != nil {
			return fmt.Errorf("unmarshal definitionProvider: %w", err)
		}
		s.DefinitionProvider = &toggle
	}
	return nil
}
