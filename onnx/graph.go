package onnx

import (
	"fmt"
	"strconv"

	"onnxspect/internal/protos"
)

// Graph is the in-memory view of a model: the computational structure, the
// stored weights, and the model-envelope metadata (IR version, opsets,
// producer, metadata_props), flattened into one value since the inspector
// never needs them apart.
//
// A Graph is owned by the Model that produced it. The inspect package only
// reads it; the metadata package mutates only the Metadata map.
type Graph struct {
	Name            string
	DocString       string
	IRVersion       int64
	ModelVersion    int64
	ProducerName    string
	ProducerVersion string

	// OpsetVersions maps operator-set domain to version. The empty domain
	// is the default ai.onnx operator set.
	OpsetVersions map[string]int64

	// Metadata holds the model's metadata_props entries. Keys are unique;
	// a model file carrying duplicate keys keeps the last occurrence.
	Metadata map[string]string

	Nodes        []Node
	Inputs       []ValueInfo
	Outputs      []ValueInfo
	Initializers []Tensor
}

// Node is a single operator invocation in the graph.
type Node struct {
	Name       string
	OpType     string
	Domain     string
	Inputs     []string
	Outputs    []string
	Attributes []Attribute
}

// ValueInfo declares the name, element type, and (possibly symbolic) shape
// of a graph input or output.
type ValueInfo struct {
	Name     string
	ElemType DataType
	Shape    []Dimension
}

// Tensor is a stored weight (initializer). All dimensions are concrete.
type Tensor struct {
	Name     string
	ElemType DataType
	Dims     []int64
}

// Dimension is one axis of a declared shape: a concrete size, a named
// symbolic parameter, or unknown.
type Dimension struct {
	Value int64  // concrete size; negative when not concrete
	Param string // symbolic name such as "batch_size", empty when concrete
}

// IsSymbolic reports whether the dimension carries a symbolic name.
func (d Dimension) IsSymbolic() bool { return d.Param != "" }

// String renders the dimension as declared: the size, the symbolic name,
// or "?" for an unknown dimension. Symbolic and unknown dimensions are
// never coerced to numbers.
func (d Dimension) String() string {
	if d.Param != "" {
		return d.Param
	}
	if d.Value < 0 {
		return "?"
	}
	return strconv.FormatInt(d.Value, 10)
}

// AttributeKind enumerates the value arms an Attribute can carry.
type AttributeKind int

const (
	AttrUndefined AttributeKind = iota
	AttrFloat
	AttrInt
	AttrString
	AttrFloats
	AttrInts
	AttrStrings
	// AttrOpaque covers tensor-, graph-, and sparse-valued attributes:
	// the payload is retained undecoded in Raw.
	AttrOpaque
)

// String implements fmt.Stringer.
func (k AttributeKind) String() string {
	switch k {
	case AttrFloat:
		return "FLOAT"
	case AttrInt:
		return "INT"
	case AttrString:
		return "STRING"
	case AttrFloats:
		return "FLOATS"
	case AttrInts:
		return "INTS"
	case AttrStrings:
		return "STRINGS"
	case AttrOpaque:
		return "OPAQUE"
	default:
		return "UNDEFINED"
	}
}

// Attribute is a typed node attribute. Exactly the arm selected by Kind is
// meaningful; every attribute additionally keeps its raw encoding so opaque
// kinds survive a round trip.
type Attribute struct {
	Name    string
	Kind    AttributeKind
	F       float32
	I       int64
	S       string
	Floats  []float32
	Ints    []int64
	Strings []string
	Raw     []byte
}

// Value returns the attribute's value as a display string.
func (a Attribute) Value() string {
	switch a.Kind {
	case AttrFloat:
		return strconv.FormatFloat(float64(a.F), 'g', -1, 32)
	case AttrInt:
		return strconv.FormatInt(a.I, 10)
	case AttrString:
		return a.S
	case AttrFloats:
		return fmt.Sprintf("%v", a.Floats)
	case AttrInts:
		return fmt.Sprintf("%v", a.Ints)
	case AttrStrings:
		return fmt.Sprintf("%q", a.Strings)
	case AttrOpaque:
		return fmt.Sprintf("(%d bytes)", len(a.Raw))
	default:
		return ""
	}
}

// graphFromProto flattens a decoded ModelProto into a Graph.
func graphFromProto(m *protos.ModelProto) *Graph {
	g := &Graph{
		IRVersion:       m.IRVersion,
		ModelVersion:    m.ModelVersion,
		ProducerName:    m.ProducerName,
		ProducerVersion: m.ProducerVersion,
		OpsetVersions:   make(map[string]int64, len(m.OpsetImport)),
		Metadata:        make(map[string]string, len(m.MetadataProps)),
	}
	for _, opset := range m.OpsetImport {
		g.OpsetVersions[opset.Domain] = opset.Version
	}
	for _, entry := range m.MetadataProps {
		g.Metadata[entry.Key] = entry.Value
	}
	gp := m.Graph
	if gp == nil {
		return g
	}
	g.Name = gp.Name
	g.DocString = gp.DocString
	g.Nodes = make([]Node, len(gp.Nodes))
	for i := range gp.Nodes {
		g.Nodes[i] = nodeFromProto(&gp.Nodes[i])
	}
	g.Inputs = valueInfosFromProto(gp.Inputs)
	g.Outputs = valueInfosFromProto(gp.Outputs)
	g.Initializers = make([]Tensor, len(gp.Initializers))
	for i, t := range gp.Initializers {
		g.Initializers[i] = Tensor{
			Name:     t.Name,
			ElemType: DataType(t.DataType),
			Dims:     t.Dims,
		}
	}
	return g
}

func nodeFromProto(np *protos.NodeProto) Node {
	n := Node{
		Name:    np.Name,
		OpType:  np.OpType,
		Domain:  np.Domain,
		Inputs:  np.Inputs,
		Outputs: np.Outputs,
	}
	if len(np.Attributes) > 0 {
		n.Attributes = make([]Attribute, len(np.Attributes))
		for i := range np.Attributes {
			n.Attributes[i] = attributeFromProto(&np.Attributes[i])
		}
	}
	return n
}

func attributeFromProto(ap *protos.AttributeProto) Attribute {
	a := Attribute{
		Name: ap.Name,
		F:    ap.F,
		I:    ap.I,
		S:    string(ap.S),
		Raw:  ap.Raw,
	}
	switch ap.Type {
	case protos.AttrFloat:
		a.Kind = AttrFloat
	case protos.AttrInt:
		a.Kind = AttrInt
	case protos.AttrString:
		a.Kind = AttrString
	case protos.AttrFloats:
		a.Kind = AttrFloats
		a.Floats = ap.Floats
	case protos.AttrInts:
		a.Kind = AttrInts
		a.Ints = ap.Ints
	case protos.AttrStrings:
		a.Kind = AttrStrings
		a.Strings = make([]string, len(ap.Strings))
		for i, s := range ap.Strings {
			a.Strings[i] = string(s)
		}
	case protos.AttrUndefined:
		a.Kind = AttrUndefined
	default:
		a.Kind = AttrOpaque
	}
	return a
}

func valueInfosFromProto(vis []protos.ValueInfoProto) []ValueInfo {
	if len(vis) == 0 {
		return nil
	}
	out := make([]ValueInfo, len(vis))
	for i, vi := range vis {
		out[i] = ValueInfo{Name: vi.Name}
		tt := vi.Type
		if tt == nil || tt.TensorType == nil {
			continue
		}
		out[i].ElemType = DataType(tt.TensorType.ElemType)
		if tt.TensorType.Shape == nil {
			continue
		}
		dims := make([]Dimension, len(tt.TensorType.Shape.Dims))
		for j, d := range tt.TensorType.Shape.Dims {
			switch {
			case d.DimParam != "":
				dims[j] = Dimension{Value: -1, Param: d.DimParam}
			case d.HasValue:
				dims[j] = Dimension{Value: d.DimValue}
			default:
				dims[j] = Dimension{Value: -1}
			}
		}
		out[i].Shape = dims
	}
	return out
}
