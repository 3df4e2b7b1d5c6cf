// Package lsptypes provides just enough of the Language Server Protocol's
// payload catalog to give the rpc package's generic shapes (Either, Either3,
// integer/string-tagged enums) concrete, testable instantiations. It does
// not attempt the full LSP data-type catalog.
package lsptypes

// Position is a zero-based line/character offset within a text document.
type Position struct {
	Line      uint32 `json:"line"`
	Character uint32 `json:"character"`
}

// Range is a half-open [Start, End) span within a text document.
type Range struct {
	Start Position `json:"start"`
	End   Position `json:"end"`
}

// Location names a Range within a specific document.
type Location struct {
	URI   string `json:"uri"`
	Range Range  `json:"range"`
}

// MarkupKind is a closed string-tagged enum for the format of a
// MarkupContent value.
type MarkupKind string

const (
	MarkupPlainText MarkupKind = "plaintext"
	MarkupMarkdown  MarkupKind = "markdown"
)

// MarkupContent is a string tagged with the markup format it's written in.
type MarkupContent struct {
	Kind  MarkupKind `json:"kind"`
	Value string     `json:"value"`
}

// DiagnosticSeverity is a closed integer-tagged enum.
type DiagnosticSeverity int

const (
	SeverityError       DiagnosticSeverity = 1
	SeverityWarning     DiagnosticSeverity = 2
	SeverityInformation DiagnosticSeverity = 3
	SeverityHint        DiagnosticSeverity = 4
)

// TraceValue is a closed string-tagged enum controlling $/logTrace verbosity.
type TraceValue string

const (
	TraceOff      TraceValue = "off"
	TraceMessages TraceValue = "messages"
	TraceVerbose  TraceValue = "verbose"
)

// TextEdit replaces the text in Range with NewText.
type TextEdit struct {
	Range   Range  `json:"range"`
	NewText string `json:"newText"`
}

// InsertReplaceEdit offers two ranges for a completion edit: one for plain
// insertion, one for replacing the text the client would otherwise retype.
// Its presence is distinguished on the wire by the "insert" field, since
// both variants otherwise look like objects.
type InsertReplaceEdit struct {
	NewText string `json:"newText"`
	Insert  Range  `json:"insert"`
	Replace Range  `json:"replace"`
}
