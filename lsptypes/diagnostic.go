package lsptypes

import (
	"encoding/json"
	"fmt"

	"github.com/lspkit/lsprpc-go-sdk/rpc"
)

// DiagnosticCode is the Either<i32,String> union spec.md §4.B names
// explicitly as a discriminator example.
type DiagnosticCode = rpc.Either[int32, string]

// NewDiagnosticCodeInt builds an integer-valued DiagnosticCode.
func NewDiagnosticCodeInt(n int32) DiagnosticCode {
	return rpc.NewLeft[int32, string](n)
}

// NewDiagnosticCodeString builds a string-valued DiagnosticCode.
func NewDiagnosticCodeString(s string) DiagnosticCode {
	return rpc.NewRight[int32, string](s)
}

// DecodeDiagnosticCode discriminates on whether the element parses as a
// JSON number.
func DecodeDiagnosticCode(raw json.RawMessage) (DiagnosticCode, error) {
	return rpc.DecodeEither[int32, string](raw, rpc.IsJSONNumber)
}

// Diagnostic reports one problem found while analyzing a document.
type Diagnostic struct {
	Range    Range               `json:"range"`
	Severity *DiagnosticSeverity `json:"severity,omitempty"`
	Code     *DiagnosticCode     `json:"code,omitempty"`
	Source   string              `json:"source,omitempty"`
	Message  string              `json:"message"`
}

type diagnosticWire struct {
	Range    Range               `json:"range"`
	Severity *DiagnosticSeverity `json:"severity,omitempty"`
	Code     json.RawMessage     `json:"code,omitempty"`
	Source   string              `json:"source,omitempty"`
	Message  string              `json:"message"`
}

func (d Diagnostic) MarshalJSON() ([]byte, error) {
	w := diagnosticWire{Range: d.Range, Severity: d.Severity, Source: d.Source, Message: d.Message}
	if d.Code != nil {
		raw, err := d.Code.MarshalJSON()
		if err != nil {
			return nil, fmt.Errorf("marshal diagnostic code: %w", err)
		}
		w.Code = raw
	}
	return json.Marshal(w)
}

func (d *Diagnostic) UnmarshalJSON(data []byte) error {
	var w diagnosticWire
	if err := json.Unmarshal(data, &w); err != nil {
		return fmt.Errorf("unmarshal diagnostic: %w", err)
	}
	d.Range = w.Range
	d.Severity = w.Severity
	d.Source = w.Source
	d.Message = w.Message
	if len(w.Code) > 0 {
		code, err := DecodeDiagnosticCode(w.Code)
		if err != nil {
			return fmt.Errorf("unmarshal diagnostic code: %w", err)
		}
		d.Code = &code
	}
	return nil
}

// TextEditOrInsertReplace is the union spec.md §4.B names via the
// "object has field `insert`" discriminator.
type TextEditOrInsertReplace = rpc.Either[TextEdit, InsertReplaceEdit]

// NewTextEdit builds a plain-TextEdit-valued union member.
func NewTextEdit(e TextEdit) TextEditOrInsertReplace {
	return rpc.NewLeft[TextEdit, InsertReplaceEdit](e)
}

// NewInsertReplaceEdit builds an InsertReplaceEdit-valued union member.
func NewInsertReplaceEdit(e InsertReplaceEdit) TextEditOrInsertReplace {
	return rpc.NewRight[TextEdit, InsertReplaceEdit](e)
}

// isPlainTextEdit is the Left discriminator for TextEditOrInsertReplace:
// true when the element lacks the "insert" field InsertReplaceEdit always
// carries.
func isPlainTextEdit(raw json.RawMessage) bool {
	return !rpc.HasField("insert")(raw)
}

// DecodeTextEditOrInsertReplace discriminates on the presence of an
// "insert" field: TextEdit never has one, InsertReplaceEdit always does.
func DecodeTextEditOrInsertReplace(raw json.RawMessage) (TextEditOrInsertReplace, error) {
	return rpc.DecodeEither[TextEdit, InsertReplaceEdit](raw, isPlainTextEdit)
}
