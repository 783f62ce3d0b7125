// Package protos holds hand-written counterparts of the ONNX protobuf
// messages, restricted to the fields the inspector consumes, together with a
// wire-format codec built on protowire.
//
// The ONNX schema is stable and the tool only ever reads a handful of fields,
// so carrying generated bindings for the whole of onnx.proto buys nothing;
// unknown fields are skipped on decode and preserved verbatim on rewrite.
package protos

// ModelProto mirrors onnx.ModelProto.
type ModelProto struct {
	IRVersion       int64
	ProducerName    string
	ProducerVersion string
	Domain          string
	ModelVersion    int64
	DocString       string
	Graph           *GraphProto
	OpsetImport     []OperatorSetID
	MetadataProps   []StringStringEntry
}

// GraphProto mirrors onnx.GraphProto.
type GraphProto struct {
	Name         string
	Nodes        []NodeProto
	Initializers []TensorProto
	DocString    string
	Inputs       []ValueInfoProto
	Outputs      []ValueInfoProto
	ValueInfos   []ValueInfoProto
}

// NodeProto mirrors onnx.NodeProto: a single operator invocation.
type NodeProto struct {
	Inputs     []string
	Outputs    []string
	Name       string
	OpType     string
	Domain     string
	Attributes []AttributeProto
	DocString  string
}

// TensorProto mirrors onnx.TensorProto. Element data is kept as the raw
// field payloads; the inspector never decodes tensor contents, only shapes.
type TensorProto struct {
	Dims      []int64
	DataType  int32
	Name      string
	DocString string
	RawData   []byte
}

// ValueInfoProto mirrors onnx.ValueInfoProto.
type ValueInfoProto struct {
	Name      string
	Type      *TypeProto
	DocString string
}

// TypeProto mirrors onnx.TypeProto. Only the tensor_type arm is modeled;
// sequence/map/optional types are left nil and skipped.
type TypeProto struct {
	TensorType *TensorTypeProto
}

// TensorTypeProto mirrors onnx.TypeProto.Tensor.
type TensorTypeProto struct {
	ElemType int32
	Shape    *TensorShapeProto
}

// TensorShapeProto mirrors onnx.TensorShapeProto.
type TensorShapeProto struct {
	Dims []DimensionProto
}

// DimensionProto mirrors onnx.TensorShapeProto.Dimension: exactly one of
// DimValue (concrete) or DimParam (symbolic) is meaningful; HasValue
// distinguishes an explicit zero from an absent value.
type DimensionProto struct {
	DimValue int64
	DimParam string
	HasValue bool
}

// AttributeProto mirrors onnx.AttributeProto. Single-value and repeated
// scalar arms are decoded; tensor/graph-valued attributes are retained as
// raw bytes so nothing is lost but nothing heavy is parsed.
type AttributeProto struct {
	Name    string
	Type    int32
	F       float32
	I       int64
	S       []byte
	Floats  []float32
	Ints    []int64
	Strings [][]byte
	Raw     []byte // undecoded payload for tensor/graph/sparse arms
}

// OperatorSetID mirrors onnx.OperatorSetIdProto.
type OperatorSetID struct {
	Domain  string
	Version int64
}

// StringStringEntry mirrors onnx.StringStringEntryProto (metadata_props).
type StringStringEntry struct {
	Key   string
	Value string
}

// ONNX element types (onnx.TensorProto.DataType).
const (
	DataTypeUndefined  = 0
	DataTypeFloat      = 1
	DataTypeUint8      = 2
	DataTypeInt8       = 3
	DataTypeUint16     = 4
	DataTypeInt16      = 5
	DataTypeInt32      = 6
	DataTypeInt64      = 7
	DataTypeString     = 8
	DataTypeBool       = 9
	DataTypeFloat16    = 10
	DataTypeDouble     = 11
	DataTypeUint32     = 12
	DataTypeUint64     = 13
	DataTypeComplex64  = 14
	DataTypeComplex128 = 15
	DataTypeBFloat16   = 16
	DataTypeFloat8E4M3 = 17
	DataTypeFloat8E5M2 = 19
)

// ONNX attribute kinds (onnx.AttributeProto.AttributeType).
const (
	AttrUndefined = 0
	AttrFloat     = 1
	AttrInt       = 2
	AttrString    = 3
	AttrTensor    = 4
	AttrGraph     = 5
	AttrFloats    = 6
	AttrInts      = 7
	AttrStrings   = 8
	AttrTensors   = 9
	AttrGraphs    = 10
)

// Field numbers used by the codec, straight from onnx.proto.
const (
	modelIRVersion       = 1
	modelProducerName    = 2
	modelProducerVersion = 3
	modelDomain          = 4
	modelVersion         = 5
	modelDocString       = 6
	modelGraph           = 7
	modelOpsetImport     = 8
	modelMetadataProps   = 14

	graphNode        = 1
	graphName        = 2
	graphInitializer = 5
	graphDocString   = 10
	graphInput       = 11
	graphOutput      = 12
	graphValueInfo   = 13

	nodeInput     = 1
	nodeOutput    = 2
	nodeName      = 3
	nodeOpType    = 4
	nodeAttribute = 5
	nodeDocString = 6
	nodeDomain    = 7

	tensorDims      = 1
	tensorDataType  = 2
	tensorName      = 8
	tensorRawData   = 9
	tensorDocString = 12

	valueInfoName      = 1
	valueInfoType      = 2
	valueInfoDocString = 3

	typeTensorType = 1

	tensorTypeElemType = 1
	tensorTypeShape    = 2

	shapeDim = 1

	dimValue = 1
	dimParam = 2

	attrName      = 1
	attrF         = 2
	attrI         = 3
	attrS         = 4
	attrFloats    = 7
	attrInts      = 8
	attrStrings   = 9
	attrDocString = 13
	attrType      = 20

	opsetDomain  = 1
	opsetVersion = 2

	entryKey   = 1
	entryValue = 2
)
