package main

// eitherSpec describes one concrete Either[L, R] instantiation to emit a
// typed wrapper for: a type alias, constructors, and a Decode function
// using the named Discriminator. This is the "small Go source manifest"
// this generator works from instead of a JSON schema directory — there is
// no JSON-schema catalog in this toolkit's scope to drive it from.
type eitherSpec struct {
	Name          string // exported type alias name, e.g. "HoverContents"
	LeftType      string // Go type expression for the left arm
	RightType     string // Go type expression for the right arm
	LeftQual      string // import path for LeftType's package, or "" if unqualified/builtin
	RightQual     string // import path for RightType's package, or "" if unqualified/builtin
	Discriminator string // unqualified name of the rpc.Discriminator function to use, OR ""
	// HasField, if set, generates a rpc.HasField(...) discriminator instead
	// of using Discriminator: the left arm is chosen when the field is
	// ABSENT, matching the "object has field X" convention spec.md §4.B
	// names for edit-shaped unions.
	HasField string
}

// manifest lists the Either instantiations cmd/geneither regenerates into
// lspgen/either_gen.go. Adding an entry here and rerunning the generator is
// the supported way to add a new concrete union without hand-writing the
// wrapper boilerplate every lsptypes file currently writes by hand.
var manifest = []eitherSpec{
	{
		Name:          "HoverContents",
		LeftType:      "string",
		RightType:     "lsptypes.MarkupContent",
		RightQual:     "github.com/lspkit/lsprpc-go-sdk/lsptypes",
		Discriminator: "IsJSONString",
	},
	{
		Name:          "DiagnosticCode",
		LeftType:      "int32",
		RightType:     "string",
		Discriminator: "IsJSONNumber",
	},
	{
		Name:      "TextEditOrInsertReplace",
		LeftType:  "lsptypes.TextEdit",
		RightType: "lsptypes.InsertReplaceEdit",
		LeftQual:  "github.com/lspkit/lsprpc-go-sdk/lsptypes",
		RightQual: "github.com/lspkit/lsprpc-go-sdk/lsptypes",
		HasField:  "insert",
	},
}
