package metadata

import (
	"testing"

	"github.com/stretchr/testify/require"

	"onnxspect/onnx"
)

func testGraph(meta map[string]string) *onnx.Graph {
	return &onnx.Graph{
		Name:     "test",
		Metadata: meta,
		Nodes:    []onnx.Node{{OpType: "Relu"}},
	}
}

func TestExport(t *testing.T) {
	t.Run("AscendingKeyOrder", func(t *testing.T) {
		g := testGraph(map[string]string{"zeta": "1", "alpha": "2", "mid": "3"})
		rec, err := Export(g)
		require.NoError(t, err)
		require.Equal(t, Record{
			{Key: "alpha", Value: "2"},
			{Key: "mid", Value: "3"},
			{Key: "zeta", Value: "1"},
		}, rec)
	})

	t.Run("Deterministic", func(t *testing.T) {
		g := testGraph(map[string]string{"a": "1", "b": "2", "c": "3", "d": "4"})
		first, err := Export(g)
		require.NoError(t, err)
		second, err := Export(g)
		require.NoError(t, err)
		require.Equal(t, FormatText(first), FormatText(second))
	})

	t.Run("Empty", func(t *testing.T) {
		rec, err := Export(testGraph(nil))
		require.NoError(t, err)
		require.Empty(t, rec)
		require.Equal(t, "", FormatText(rec))
	})

	t.Run("TabInValue", func(t *testing.T) {
		g := testGraph(map[string]string{"good": "ok", "bad": "a\tb"})
		_, err := Export(g)
		var unsupported *UnsupportedValueError
		require.ErrorAs(t, err, &unsupported)
		require.Equal(t, "bad", unsupported.Key)
	})

	t.Run("NewlineInValue", func(t *testing.T) {
		g := testGraph(map[string]string{"notes": "line1\nline2"})
		_, err := Export(g)
		var unsupported *UnsupportedValueError
		require.ErrorAs(t, err, &unsupported)
		require.Equal(t, "notes", unsupported.Key)
	})

	t.Run("TabInKey", func(t *testing.T) {
		g := testGraph(map[string]string{"k\tey": "v"})
		_, err := Export(g)
		var unsupported *UnsupportedValueError
		require.ErrorAs(t, err, &unsupported)
	})
}

func TestParseText(t *testing.T) {
	t.Run("Basic", func(t *testing.T) {
		rec, err := ParseText("author\talice\nlicense\tmit\n")
		require.NoError(t, err)
		require.Equal(t, Record{
			{Key: "author", Value: "alice"},
			{Key: "license", Value: "mit"},
		}, rec)
	})

	t.Run("BlankLinesIgnored", func(t *testing.T) {
		rec, err := ParseText("\na\t1\n\n\nb\t2\n\n")
		require.NoError(t, err)
		require.Len(t, rec, 2)
	})

	t.Run("SplitsOnFirstTabOnly", func(t *testing.T) {
		rec, err := ParseText("key\tvalue\twith\ttabs\n")
		require.NoError(t, err)
		require.Equal(t, Record{{Key: "key", Value: "value\twith\ttabs"}}, rec)
	})

	t.Run("EmptyValue", func(t *testing.T) {
		rec, err := ParseText("key\t\n")
		require.NoError(t, err)
		require.Equal(t, Record{{Key: "key", Value: ""}}, rec)
	})

	t.Run("DuplicateKeysLastWins", func(t *testing.T) {
		rec, err := ParseText("k\t1\nk\t2\n")
		require.NoError(t, err)
		require.Len(t, rec, 2)
		require.Equal(t, map[string]string{"k": "2"}, rec.Map())
	})

	t.Run("NoTabFailsWithLineNumber", func(t *testing.T) {
		_, err := ParseText("novalue\n")
		var malformed *MalformedLineError
		require.ErrorAs(t, err, &malformed)
		require.Equal(t, 1, malformed.Line)
	})

	t.Run("LineNumberCountsBlanks", func(t *testing.T) {
		_, err := ParseText("a\t1\n\nbroken\n")
		var malformed *MalformedLineError
		require.ErrorAs(t, err, &malformed)
		require.Equal(t, 3, malformed.Line)
		require.Equal(t, "broken", malformed.Text)
	})
}

func TestImport(t *testing.T) {
	t.Run("MergeOverlays", func(t *testing.T) {
		g := testGraph(map[string]string{"a": "1", "b": "2"})
		rec := Record{{Key: "b", Value: "3"}, {Key: "c", Value: "4"}}
		require.NoError(t, Import(g, rec, ModeMerge))
		require.Equal(t, map[string]string{"a": "1", "b": "3", "c": "4"}, g.Metadata)
	})

	t.Run("ReplaceDeletesAbsentKeys", func(t *testing.T) {
		g := testGraph(map[string]string{"a": "1", "b": "2"})
		rec := Record{{Key: "b", Value: "3"}, {Key: "c", Value: "4"}}
		require.NoError(t, Import(g, rec, ModeReplace))
		require.Equal(t, map[string]string{"b": "3", "c": "4"}, g.Metadata)
	})

	t.Run("Idempotent", func(t *testing.T) {
		for _, mode := range []Mode{ModeMerge, ModeReplace} {
			g := testGraph(map[string]string{"a": "1", "b": "2"})
			rec := Record{{Key: "b", Value: "3"}, {Key: "c", Value: "4"}}
			require.NoError(t, Import(g, rec, mode))
			once := map[string]string{}
			for k, v := range g.Metadata {
				once[k] = v
			}
			require.NoError(t, Import(g, rec, mode))
			require.Equal(t, once, g.Metadata, "mode %s not idempotent", mode)
		}
	})

	t.Run("RoundTripIsIdentity", func(t *testing.T) {
		g := testGraph(map[string]string{"a": "1", "b": "2", "c": "3"})
		rec, err := Export(g)
		require.NoError(t, err)
		require.NoError(t, Import(g, rec, ModeMerge))
		require.Equal(t, map[string]string{"a": "1", "b": "2", "c": "3"}, g.Metadata)
	})

	t.Run("DuplicateRecordKeysLastWins", func(t *testing.T) {
		g := testGraph(nil)
		g.Metadata = map[string]string{}
		rec := Record{{Key: "k", Value: "1"}, {Key: "k", Value: "2"}}
		require.NoError(t, Import(g, rec, ModeReplace))
		require.Equal(t, map[string]string{"k": "2"}, g.Metadata)
	})

	t.Run("UnknownModeLeavesGraphUntouched", func(t *testing.T) {
		g := testGraph(map[string]string{"a": "1"})
		rec := Record{{Key: "b", Value: "2"}}
		err := Import(g, rec, Mode(42))
		var invalid *InvalidModeError
		require.ErrorAs(t, err, &invalid)
		require.Equal(t, map[string]string{"a": "1"}, g.Metadata)
	})

	t.Run("NeverTouchesGraphStructure", func(t *testing.T) {
		g := testGraph(map[string]string{"a": "1"})
		nodes := g.Nodes
		require.NoError(t, Import(g, Record{{Key: "x", Value: "y"}}, ModeReplace))
		require.Equal(t, nodes, g.Nodes)
	})
}

func TestParseMode(t *testing.T) {
	t.Run("Known", func(t *testing.T) {
		m, err := ParseMode("merge")
		require.NoError(t, err)
		require.Equal(t, ModeMerge, m)
		m, err = ParseMode("replace")
		require.NoError(t, err)
		require.Equal(t, ModeReplace, m)
	})

	t.Run("ClosedEnumeration", func(t *testing.T) {
		_, err := ParseMode("merge-ish")
		var invalid *InvalidModeError
		require.ErrorAs(t, err, &invalid)
		require.Equal(t, "merge-ish", invalid.Mode)
	})
}

func TestFormatText(t *testing.T) {
	rec := Record{{Key: "a", Value: "1"}, {Key: "b", Value: "two words"}}
	text := FormatText(rec)
	require.Equal(t, "a\t1\nb\ttwo words\n", text)

	parsed, err := ParseText(text)
	require.NoError(t, err)
	require.Equal(t, rec, parsed)
}
