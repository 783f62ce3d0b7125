package protos

import (
	"math"

	"github.com/pkg/errors"
	"google.golang.org/protobuf/encoding/protowire"
)

// Unmarshal decodes a serialized ONNX ModelProto. Fields the structs don't
// model are skipped; the caller keeps the original bytes if it needs them.
func Unmarshal(b []byte) (*ModelProto, error) {
	m := &ModelProto{}
	if err := m.unmarshal(b); err != nil {
		return nil, errors.WithMessage(err, "decoding ModelProto")
	}
	return m, nil
}

// fieldFn handles one field of a message. Varint fields receive the value in
// v, length-delimited fields receive the payload in p.
type fieldFn func(num protowire.Number, v uint64, p []byte) error

// walkFields drives the protowire decode loop shared by all messages.
func walkFields(b []byte, fn fieldFn) error {
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return protowire.ParseError(n)
		}
		b = b[n:]
		switch typ {
		case protowire.VarintType:
			v, n := protowire.ConsumeVarint(b)
			if n < 0 {
				return protowire.ParseError(n)
			}
			b = b[n:]
			if err := fn(num, v, nil); err != nil {
				return err
			}
		case protowire.BytesType:
			p, n := protowire.ConsumeBytes(b)
			if n < 0 {
				return protowire.ParseError(n)
			}
			b = b[n:]
			if err := fn(num, 0, p); err != nil {
				return err
			}
		case protowire.Fixed32Type:
			v, n := protowire.ConsumeFixed32(b)
			if n < 0 {
				return protowire.ParseError(n)
			}
			b = b[n:]
			if err := fn(num, uint64(v), nil); err != nil {
				return err
			}
		case protowire.Fixed64Type:
			v, n := protowire.ConsumeFixed64(b)
			if n < 0 {
				return protowire.ParseError(n)
			}
			b = b[n:]
			if err := fn(num, v, nil); err != nil {
				return err
			}
		default:
			n := protowire.ConsumeFieldValue(num, typ, b)
			if n < 0 {
				return protowire.ParseError(n)
			}
			b = b[n:]
		}
	}
	return nil
}

func (m *ModelProto) unmarshal(b []byte) error {
	return walkFields(b, func(num protowire.Number, v uint64, p []byte) error {
		switch num {
		case modelIRVersion:
			m.IRVersion = int64(v)
		case modelVersion:
			m.ModelVersion = int64(v)
		case modelProducerName:
			m.ProducerName = string(p)
		case modelProducerVersion:
			m.ProducerVersion = string(p)
		case modelDomain:
			m.Domain = string(p)
		case modelDocString:
			m.DocString = string(p)
		case modelGraph:
			m.Graph = &GraphProto{}
			return errors.WithMessage(m.Graph.unmarshal(p), "graph")
		case modelOpsetImport:
			var opset OperatorSetID
			if err := opset.unmarshal(p); err != nil {
				return errors.WithMessage(err, "opset_import")
			}
			m.OpsetImport = append(m.OpsetImport, opset)
		case modelMetadataProps:
			var entry StringStringEntry
			if err := entry.unmarshal(p); err != nil {
				return errors.WithMessage(err, "metadata_props")
			}
			m.MetadataProps = append(m.MetadataProps, entry)
		}
		return nil
	})
}

func (g *GraphProto) unmarshal(b []byte) error {
	return walkFields(b, func(num protowire.Number, v uint64, p []byte) error {
		switch num {
		case graphName:
			g.Name = string(p)
		case graphDocString:
			g.DocString = string(p)
		case graphNode:
			var node NodeProto
			if err := node.unmarshal(p); err != nil {
				return errors.WithMessage(err, "node")
			}
			g.Nodes = append(g.Nodes, node)
		case graphInitializer:
			var t TensorProto
			if err := t.unmarshal(p); err != nil {
				return errors.WithMessage(err, "initializer")
			}
			g.Initializers = append(g.Initializers, t)
		case graphInput:
			var vi ValueInfoProto
			if err := vi.unmarshal(p); err != nil {
				return errors.WithMessage(err, "input")
			}
			g.Inputs = append(g.Inputs, vi)
		case graphOutput:
			var vi ValueInfoProto
			if err := vi.unmarshal(p); err != nil {
				return errors.WithMessage(err, "output")
			}
			g.Outputs = append(g.Outputs, vi)
		case graphValueInfo:
			var vi ValueInfoProto
			if err := vi.unmarshal(p); err != nil {
				return errors.WithMessage(err, "value_info")
			}
			g.ValueInfos = append(g.ValueInfos, vi)
		}
		return nil
	})
}

func (o *OperatorSetID) unmarshal(b []byte) error {
	return walkFields(b, func(num protowire.Number, v uint64, p []byte) error {
		switch num {
		case opsetDomain:
			o.Domain = string(p)
		case opsetVersion:
			o.Version = int64(v)
		}
		return nil
	})
}

func (e *StringStringEntry) unmarshal(b []byte) error {
	return walkFields(b, func(num protowire.Number, v uint64, p []byte) error {
		switch num {
		case entryKey:
			e.Key = string(p)
		case entryValue:
			e.Value = string(p)
		}
		return nil
	})
}

func (n *NodeProto) unmarshal(b []byte) error {
	return walkFields(b, func(num protowire.Number, v uint64, p []byte) error {
		switch num {
		case nodeInput:
			n.Inputs = append(n.Inputs, string(p))
		case nodeOutput:
			n.Outputs = append(n.Outputs, string(p))
		case nodeName:
			n.Name = string(p)
		case nodeOpType:
			n.OpType = string(p)
		case nodeDomain:
			n.Domain = string(p)
		case nodeDocString:
			n.DocString = string(p)
		case nodeAttribute:
			var attr AttributeProto
			if err := attr.unmarshal(p); err != nil {
				return errors.WithMessage(err, "attribute")
			}
			n.Attributes = append(n.Attributes, attr)
		}
		return nil
	})
}

func (t *TensorProto) unmarshal(b []byte) error {
	return walkFields(b, func(num protowire.Number, v uint64, p []byte) error {
		switch num {
		case tensorDims:
			if p != nil {
				// Packed encoding.
				for len(p) > 0 {
					d, n := protowire.ConsumeVarint(p)
					if n < 0 {
						return protowire.ParseError(n)
					}
					p = p[n:]
					t.Dims = append(t.Dims, int64(d))
				}
			} else {
				t.Dims = append(t.Dims, int64(v))
			}
		case tensorDataType:
			t.DataType = int32(v)
		case tensorName:
			t.Name = string(p)
		case tensorDocString:
			t.DocString = string(p)
		case tensorRawData:
			t.RawData = p
		}
		return nil
	})
}

func (vi *ValueInfoProto) unmarshal(b []byte) error {
	return walkFields(b, func(num protowire.Number, v uint64, p []byte) error {
		switch num {
		case valueInfoName:
			vi.Name = string(p)
		case valueInfoDocString:
			vi.DocString = string(p)
		case valueInfoType:
			vi.Type = &TypeProto{}
			return errors.WithMessage(vi.Type.unmarshal(p), "type")
		}
		return nil
	})
}

func (t *TypeProto) unmarshal(b []byte) error {
	return walkFields(b, func(num protowire.Number, v uint64, p []byte) error {
		if num == typeTensorType {
			t.TensorType = &TensorTypeProto{}
			return errors.WithMessage(t.TensorType.unmarshal(p), "tensor_type")
		}
		return nil
	})
}

func (t *TensorTypeProto) unmarshal(b []byte) error {
	return walkFields(b, func(num protowire.Number, v uint64, p []byte) error {
		switch num {
		case tensorTypeElemType:
			t.ElemType = int32(v)
		case tensorTypeShape:
			t.Shape = &TensorShapeProto{}
			return errors.WithMessage(t.Shape.unmarshal(p), "shape")
		}
		return nil
	})
}

func (s *TensorShapeProto) unmarshal(b []byte) error {
	return walkFields(b, func(num protowire.Number, v uint64, p []byte) error {
		if num == shapeDim {
			var d DimensionProto
			if err := d.unmarshal(p); err != nil {
				return errors.WithMessage(err, "dim")
			}
			s.Dims = append(s.Dims, d)
		}
		return nil
	})
}

func (d *DimensionProto) unmarshal(b []byte) error {
	return walkFields(b, func(num protowire.Number, v uint64, p []byte) error {
		switch num {
		case dimValue:
			d.DimValue = int64(v)
			d.HasValue = true
		case dimParam:
			d.DimParam = string(p)
		}
		return nil
	})
}

func (a *AttributeProto) unmarshal(b []byte) error {
	a.Raw = b
	return walkFields(b, func(num protowire.Number, v uint64, p []byte) error {
		switch num {
		case attrName:
			a.Name = string(p)
		case attrType:
			a.Type = int32(v)
		case attrF:
			a.F = math.Float32frombits(uint32(v))
		case attrI:
			a.I = int64(v)
		case attrS:
			a.S = p
		case attrInts:
			if p != nil {
				for len(p) > 0 {
					i, n := protowire.ConsumeVarint(p)
					if n < 0 {
						return protowire.ParseError(n)
					}
					p = p[n:]
					a.Ints = append(a.Ints, int64(i))
				}
			} else {
				a.Ints = append(a.Ints, int64(v))
			}
		case attrFloats:
			if p == nil {
				a.Floats = append(a.Floats, math.Float32frombits(uint32(v)))
				break
			}
			for len(p) > 0 {
				bits, n := protowire.ConsumeFixed32(p)
				if n < 0 {
					return protowire.ParseError(n)
				}
				p = p[n:]
				a.Floats = append(a.Floats, math.Float32frombits(bits))
			}
		case attrStrings:
			a.Strings = append(a.Strings, p)
		}
		return nil
	})
}
