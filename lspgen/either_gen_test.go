package lspgen_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/lspkit/lsprpc-go-sdk/lspgen"
	"github.com/lspkit/lsprpc-go-sdk/lsptypes"
)

func TestHoverContentsRight(t *testing.T) {
	v := lspgen.NewHoverContentsRight(lsptypes.MarkupContent{Kind: lsptypes.MarkupMarkdown, Value: "**hi**"})
	raw, err := json.Marshal(v)
	require.NoError(t, err)

	decoded, err := lspgen.DecodeHoverContents(raw)
	require.NoError(t, err)
	mc, ok := decoded.Right()
	require.True(t, ok)
	require.Equal(t, "**hi**", mc.Value)
}

func TestDiagnosticCodeLeft(t *testing.T) {
	v := lspgen.NewDiagnosticCodeLeft(42)
	raw, err := json.Marshal(v)
	require.NoError(t, err)

	decoded, err := lspgen.DecodeDiagnosticCode(raw)
	require.NoError(t, err)
	n, ok := decoded.Left()
	require.True(t, ok)
	require.Equal(t, int32(42), n)
}

func TestTextEditOrInsertReplaceRoundtrip(t *testing.T) {
	edit := lsptypes.InsertReplaceEdit{
		NewText: "x",
		Insert:  lsptypes.Range{},
		Replace: lsptypes.Range{},
	}
	v := lspgen.NewTextEditOrInsertReplaceRight(edit)
	raw, err := json.Marshal(v)
	require.NoError(t, err)

	decoded, err := lspgen.DecodeTextEditOrInsertReplace(raw)
	require.NoError(t, err)
	got, ok := decoded.Right()
	require.True(t, ok)
	require.Equal(t, edit, got)
}
