package protos

import (
	"google.golang.org/protobuf/encoding/protowire"
)

// Marshal serializes the model. Only the modeled fields are emitted, so a
// decode/encode round trip through these structs is lossy for anything the
// inspector doesn't represent; RewriteMetadata is the lossless path for
// models that came from real files.
func Marshal(m *ModelProto) []byte {
	var b []byte
	if m.IRVersion != 0 {
		b = protowire.AppendTag(b, modelIRVersion, protowire.VarintType)
		b = protowire.AppendVarint(b, uint64(m.IRVersion))
	}
	if m.ProducerName != "" {
		b = appendStringField(b, modelProducerName, m.ProducerName)
	}
	if m.ProducerVersion != "" {
		b = appendStringField(b, modelProducerVersion, m.ProducerVersion)
	}
	if m.Domain != "" {
		b = appendStringField(b, modelDomain, m.Domain)
	}
	if m.ModelVersion != 0 {
		b = protowire.AppendTag(b, modelVersion, protowire.VarintType)
		b = protowire.AppendVarint(b, uint64(m.ModelVersion))
	}
	if m.DocString != "" {
		b = appendStringField(b, modelDocString, m.DocString)
	}
	if m.Graph != nil {
		b = appendMessage(b, modelGraph, marshalGraph(m.Graph))
	}
	for _, opset := range m.OpsetImport {
		b = appendMessage(b, modelOpsetImport, marshalOpset(opset))
	}
	for _, entry := range m.MetadataProps {
		b = appendMessage(b, modelMetadataProps, marshalEntry(entry))
	}
	return b
}

func marshalGraph(g *GraphProto) []byte {
	var b []byte
	for i := range g.Nodes {
		b = appendMessage(b, graphNode, marshalNode(&g.Nodes[i]))
	}
	if g.Name != "" {
		b = appendStringField(b, graphName, g.Name)
	}
	for i := range g.Initializers {
		b = appendMessage(b, graphInitializer, marshalTensor(&g.Initializers[i]))
	}
	if g.DocString != "" {
		b = appendStringField(b, graphDocString, g.DocString)
	}
	for i := range g.Inputs {
		b = appendMessage(b, graphInput, marshalValueInfo(&g.Inputs[i]))
	}
	for i := range g.Outputs {
		b = appendMessage(b, graphOutput, marshalValueInfo(&g.Outputs[i]))
	}
	for i := range g.ValueInfos {
		b = appendMessage(b, graphValueInfo, marshalValueInfo(&g.ValueInfos[i]))
	}
	return b
}

func marshalNode(n *NodeProto) []byte {
	var b []byte
	for _, in := range n.Inputs {
		b = appendStringField(b, nodeInput, in)
	}
	for _, out := range n.Outputs {
		b = appendStringField(b, nodeOutput, out)
	}
	if n.Name != "" {
		b = appendStringField(b, nodeName, n.Name)
	}
	if n.OpType != "" {
		b = appendStringField(b, nodeOpType, n.OpType)
	}
	for i := range n.Attributes {
		if raw := n.Attributes[i].Raw; raw != nil {
			b = appendMessage(b, nodeAttribute, raw)
		}
	}
	if n.DocString != "" {
		b = appendStringField(b, nodeDocString, n.DocString)
	}
	if n.Domain != "" {
		b = appendStringField(b, nodeDomain, n.Domain)
	}
	return b
}

func marshalTensor(t *TensorProto) []byte {
	var b []byte
	for _, d := range t.Dims {
		b = protowire.AppendTag(b, tensorDims, protowire.VarintType)
		b = protowire.AppendVarint(b, uint64(d))
	}
	if t.DataType != 0 {
		b = protowire.AppendTag(b, tensorDataType, protowire.VarintType)
		b = protowire.AppendVarint(b, uint64(t.DataType))
	}
	if t.Name != "" {
		b = appendStringField(b, tensorName, t.Name)
	}
	if t.RawData != nil {
		b = protowire.AppendTag(b, tensorRawData, protowire.BytesType)
		b = protowire.AppendBytes(b, t.RawData)
	}
	if t.DocString != "" {
		b = appendStringField(b, tensorDocString, t.DocString)
	}
	return b
}

func marshalValueInfo(vi *ValueInfoProto) []byte {
	var b []byte
	if vi.Name != "" {
		b = appendStringField(b, valueInfoName, vi.Name)
	}
	if vi.Type != nil && vi.Type.TensorType != nil {
		tt := vi.Type.TensorType
		var tb []byte
		if tt.ElemType != 0 {
			tb = protowire.AppendTag(tb, tensorTypeElemType, protowire.VarintType)
			tb = protowire.AppendVarint(tb, uint64(tt.ElemType))
		}
		if tt.Shape != nil {
			var sb []byte
			for _, d := range tt.Shape.Dims {
				var db []byte
				if d.DimParam != "" {
					db = appendStringField(db, dimParam, d.DimParam)
				} else if d.HasValue {
					db = protowire.AppendTag(db, dimValue, protowire.VarintType)
					db = protowire.AppendVarint(db, uint64(d.DimValue))
				}
				sb = appendMessage(sb, shapeDim, db)
			}
			tb = appendMessage(tb, tensorTypeShape, sb)
		}
		b = appendMessage(b, valueInfoType, appendMessage(nil, typeTensorType, tb))
	}
	if vi.DocString != "" {
		b = appendStringField(b, valueInfoDocString, vi.DocString)
	}
	return b
}

func marshalOpset(o OperatorSetID) []byte {
	var b []byte
	if o.Domain != "" {
		b = appendStringField(b, opsetDomain, o.Domain)
	}
	b = protowire.AppendTag(b, opsetVersion, protowire.VarintType)
	b = protowire.AppendVarint(b, uint64(o.Version))
	return b
}

func marshalEntry(e StringStringEntry) []byte {
	var b []byte
	b = appendStringField(b, entryKey, e.Key)
	b = appendStringField(b, entryValue, e.Value)
	return b
}

func appendStringField(b []byte, num protowire.Number, s string) []byte {
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendString(b, s)
}

func appendMessage(b []byte, num protowire.Number, payload []byte) []byte {
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendBytes(b, payload)
}

// RewriteMetadata returns a copy of the serialized model with the
// metadata_props field replaced by entries. Every other top-level field is
// copied verbatim, including fields this package does not model, so the
// rewrite is lossless for graphs, weights, and anything added to onnx.proto
// after this code was written. Entries are appended at the end, which is
// where exporters place them and where protobuf semantics are indifferent.
func RewriteMetadata(raw []byte, entries []StringStringEntry) ([]byte, error) {
	out := make([]byte, 0, len(raw))
	b := raw
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return nil, protowire.ParseError(n)
		}
		m := protowire.ConsumeFieldValue(num, typ, b[n:])
		if m < 0 {
			return nil, protowire.ParseError(m)
		}
		if num != modelMetadataProps {
			out = append(out, b[:n+m]...)
		}
		b = b[n+m:]
	}
	for _, entry := range entries {
		out = appendMessage(out, modelMetadataProps, marshalEntry(entry))
	}
	return out, nil
}
