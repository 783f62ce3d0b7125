package cli

import (
	"math/big"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/janpfeifer/must"
	"github.com/stretchr/testify/require"

	"onnxspect/inspect"
	"onnxspect/internal/protos"
	"onnxspect/onnx"
)

// fixtureGraph parses a tiny one-node model from its wire encoding.
func fixtureGraph(t *testing.T) *onnx.Graph {
	t.Helper()
	raw := protos.Marshal(&protos.ModelProto{
		IRVersion:    8,
		ProducerName: "onnxspect-test",
		OpsetImport:  []protos.OperatorSetID{{Domain: "", Version: 17}},
		MetadataProps: []protos.StringStringEntry{
			{Key: "license", Value: "apache-2.0"},
		},
		Graph: &protos.GraphProto{
			Name: "fixture",
			Nodes: []protos.NodeProto{
				{Name: "relu0", OpType: "Relu", Inputs: []string{"x"}, Outputs: []string{"y"}},
			},
			Inputs: []protos.ValueInfoProto{{
				Name: "x",
				Type: &protos.TypeProto{TensorType: &protos.TensorTypeProto{
					ElemType: protos.DataTypeFloat,
					Shape: &protos.TensorShapeProto{Dims: []protos.DimensionProto{
						{DimParam: "batch"},
						{DimValue: 10, HasValue: true},
					}},
				}},
			}},
			Outputs: []protos.ValueInfoProto{{
				Name: "y",
				Type: &protos.TypeProto{TensorType: &protos.TensorTypeProto{
					ElemType: protos.DataTypeFloat,
					Shape: &protos.TensorShapeProto{Dims: []protos.DimensionProto{
						{DimParam: "batch"},
						{DimValue: 10, HasValue: true},
					}},
				}},
			}},
			Initializers: []protos.TensorProto{
				{Name: "w", DataType: protos.DataTypeFloat, Dims: []int64{10, 10}},
			},
		},
	})
	return must.M1(onnx.Parse(raw)).Graph
}

func TestFormatParams(t *testing.T) {
	require.Equal(t, "999", formatParams(big.NewInt(999)))
	require.Equal(t, "25.56K", formatParams(big.NewInt(25557)))
	require.Equal(t, "25.56M", formatParams(big.NewInt(25557032)))
	require.Equal(t, "0", formatParams(big.NewInt(0)))
}

func TestTruncate(t *testing.T) {
	require.Equal(t, "hello", truncate("hello", 10))
	require.Equal(t, "hello", truncate("hello", 0))
	require.Equal(t, "hell...", truncate("hello world", 7))
	require.Equal(t, "héllo", truncate("héllo", 5))
}

func TestOpsetDomainName(t *testing.T) {
	require.Equal(t, "ai.onnx", opsetDomainName(""))
	require.Equal(t, "com.microsoft", opsetDomainName("com.microsoft"))
}

func TestBuildInfoDoc(t *testing.T) {
	g := fixtureGraph(t)
	report := must.M1(inspect.Compute(g))
	doc := buildInfoDoc(g, report)

	require.Equal(t, "fixture", doc.Name)
	require.Equal(t, int64(8), doc.IRVersion)
	require.Equal(t, 1, doc.Nodes)
	require.Equal(t, 1, doc.Weights)
	require.Equal(t, "100", doc.Parameters)
	require.Equal(t, map[string]string{"license": "apache-2.0"}, doc.Metadata)

	require.Len(t, doc.Inputs, 1)
	require.Equal(t, valueDoc{
		Name:  "x",
		Type:  "FLOAT32",
		Shape: []string{"batch", "10"},
	}, doc.Inputs[0])

	require.Equal(t, []opCountDoc{{OpType: "Relu", Count: 1}}, doc.Ops)
}

func TestTreeModel(t *testing.T) {
	g := fixtureGraph(t)
	report := must.M1(inspect.Compute(g))
	m := newTreeModel(g, report, defaultConfig())

	t.Run("Sections", func(t *testing.T) {
		require.Len(t, m.rows, len(treeSections))
		require.Len(t, m.rows[1], 1) // inputs
		require.Len(t, m.rows[2], 1) // outputs
		require.Len(t, m.rows[3], 1) // operators
		require.Equal(t, []string{"Relu", "1"}, m.rows[3][0])
		require.Equal(t, []string{"license", "apache-2.0"}, m.rows[5][0])
	})

	t.Run("Navigation", func(t *testing.T) {
		next, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("l")})
		require.Equal(t, 1, next.(treeModel).section)

		prev, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("h")})
		require.Equal(t, len(treeSections)-1, prev.(treeModel).section)
	})

	t.Run("QuitKey", func(t *testing.T) {
		_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
		require.NotNil(t, cmd)
	})

	t.Run("View", func(t *testing.T) {
		out := m.View()
		require.Contains(t, out, "fixture")
		require.Contains(t, out, "Overview")
	})
}
