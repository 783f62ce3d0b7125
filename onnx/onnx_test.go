package onnx

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"onnxspect/internal/protos"
)

// fixtureModel builds a small classifier-shaped model and serializes it, so
// tests exercise the real decode path rather than hand-assembled Graphs.
func fixtureModel() []byte {
	dim := func(v int64) protos.DimensionProto {
		return protos.DimensionProto{DimValue: v, HasValue: true}
	}
	symbolic := func(name string) protos.DimensionProto {
		return protos.DimensionProto{DimParam: name}
	}
	vi := func(name string, elem int32, dims ...protos.DimensionProto) protos.ValueInfoProto {
		return protos.ValueInfoProto{
			Name: name,
			Type: &protos.TypeProto{TensorType: &protos.TensorTypeProto{
				ElemType: elem,
				Shape:    &protos.TensorShapeProto{Dims: dims},
			}},
		}
	}
	return protos.Marshal(&protos.ModelProto{
		IRVersion:       8,
		ProducerName:    "pytorch",
		ProducerVersion: "2.1.0",
		OpsetImport: []protos.OperatorSetID{
			{Domain: "", Version: 17},
			{Domain: "com.microsoft", Version: 1},
		},
		MetadataProps: []protos.StringStringEntry{
			{Key: "author", Value: "alice"},
			{Key: "license", Value: "mit"},
		},
		Graph: &protos.GraphProto{
			Name: "tiny",
			Nodes: []protos.NodeProto{
				{Name: "gemm0", OpType: "Gemm", Inputs: []string{"x", "w", "b"}, Outputs: []string{"h"}},
				{Name: "relu0", OpType: "Relu", Inputs: []string{"h"}, Outputs: []string{"y"}},
			},
			Inputs:  []protos.ValueInfoProto{vi("x", protos.DataTypeFloat, symbolic("batch"), dim(10))},
			Outputs: []protos.ValueInfoProto{vi("y", protos.DataTypeFloat, symbolic("batch"), dim(4))},
			Initializers: []protos.TensorProto{
				{Name: "w", DataType: protos.DataTypeFloat, Dims: []int64{10, 4}},
				{Name: "b", DataType: protos.DataTypeFloat, Dims: []int64{4}},
			},
		},
	})
}

func TestParse(t *testing.T) {
	m, err := Parse(fixtureModel())
	require.NoError(t, err)
	g := m.Graph

	t.Run("Envelope", func(t *testing.T) {
		require.Equal(t, "tiny", g.Name)
		require.Equal(t, int64(8), g.IRVersion)
		require.Equal(t, "pytorch", g.ProducerName)
		require.Equal(t, "2.1.0", g.ProducerVersion)
		require.Equal(t, map[string]int64{"": 17, "com.microsoft": 1}, g.OpsetVersions)
		require.Equal(t, map[string]string{"author": "alice", "license": "mit"}, g.Metadata)
	})

	t.Run("Nodes", func(t *testing.T) {
		require.Len(t, g.Nodes, 2)
		require.Equal(t, "Gemm", g.Nodes[0].OpType)
		require.Equal(t, []string{"x", "w", "b"}, g.Nodes[0].Inputs)
		require.Equal(t, "Relu", g.Nodes[1].OpType)
	})

	t.Run("IOSchema", func(t *testing.T) {
		require.Len(t, g.Inputs, 1)
		require.Equal(t, "x", g.Inputs[0].Name)
		require.Equal(t, Float32, g.Inputs[0].ElemType)
		require.True(t, g.Inputs[0].Shape[0].IsSymbolic())
		require.Equal(t, "batch", g.Inputs[0].Shape[0].String())
		require.Equal(t, "[batch × 10]", ShapeString(g.Inputs[0].Shape))
	})

	t.Run("Initializers", func(t *testing.T) {
		require.Len(t, g.Initializers, 2)
		require.Equal(t, "w", g.Initializers[0].Name)
		require.Equal(t, []int64{10, 4}, g.Initializers[0].Dims)
		require.Equal(t, Float32, g.Initializers[0].ElemType)
	})

	t.Run("Garbage", func(t *testing.T) {
		_, err := Parse([]byte{0xff, 0xff, 0xff})
		require.Error(t, err)
	})
}

func TestReadWriteFile(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "model.onnx")
	require.NoError(t, os.WriteFile(src, fixtureModel(), 0o644))

	m, err := ReadFile(src)
	require.NoError(t, err)

	t.Run("MissingFile", func(t *testing.T) {
		_, err := ReadFile(filepath.Join(dir, "nope.onnx"))
		require.Error(t, err)
	})

	t.Run("MetadataEditRoundTrip", func(t *testing.T) {
		m.Graph.Metadata["license"] = "apache-2.0"
		m.Graph.Metadata["revision"] = "42"
		dst := filepath.Join(dir, "edited.onnx")
		require.NoError(t, m.WriteFile(dst))

		edited, err := ReadFile(dst)
		require.NoError(t, err)
		require.Equal(t, map[string]string{
			"author":   "alice",
			"license":  "apache-2.0",
			"revision": "42",
		}, edited.Graph.Metadata)

		// Everything outside metadata is untouched.
		require.Equal(t, m.Graph.Nodes, edited.Graph.Nodes)
		require.Equal(t, m.Graph.Inputs, edited.Graph.Inputs)
		require.Equal(t, m.Graph.Initializers, edited.Graph.Initializers)
	})

	t.Run("DeterministicBytes", func(t *testing.T) {
		first, err := m.Bytes()
		require.NoError(t, err)
		second, err := m.Bytes()
		require.NoError(t, err)
		require.Equal(t, first, second)
	})
}

func TestDataTypeString(t *testing.T) {
	require.Equal(t, "FLOAT32", Float32.String())
	require.Equal(t, "BFLOAT16", BFloat16.String())
	require.Equal(t, "DOUBLE", Float64.String())
	require.Equal(t, "UNKNOWN(99)", DataType(99).String())
}

func TestDimensionString(t *testing.T) {
	require.Equal(t, "3", Dimension{Value: 3}.String())
	require.Equal(t, "seq_len", Dimension{Value: -1, Param: "seq_len"}.String())
	require.Equal(t, "?", Dimension{Value: -1}.String())
	require.Equal(t, "0", Dimension{Value: 0}.String())
}

func TestGraphString(t *testing.T) {
	m, err := Parse(fixtureModel())
	require.NoError(t, err)
	s := m.String()
	require.Contains(t, s, "ONNX Model:")
	require.Contains(t, s, "IR Version:\t8")
	require.Contains(t, s, "v17")
	require.Contains(t, s, "v1 (com.microsoft)")
	require.Contains(t, s, "author=alice")
}
