package onnx

import (
	"fmt"

	"onnxspect/internal/protos"
)

// DataType is an ONNX tensor element type (TensorProto.DataType).
type DataType int32

const (
	Undefined  = DataType(protos.DataTypeUndefined)
	Float32    = DataType(protos.DataTypeFloat)
	Uint8      = DataType(protos.DataTypeUint8)
	Int8       = DataType(protos.DataTypeInt8)
	Uint16     = DataType(protos.DataTypeUint16)
	Int16      = DataType(protos.DataTypeInt16)
	Int32      = DataType(protos.DataTypeInt32)
	Int64      = DataType(protos.DataTypeInt64)
	String     = DataType(protos.DataTypeString)
	Bool       = DataType(protos.DataTypeBool)
	Float16    = DataType(protos.DataTypeFloat16)
	Float64    = DataType(protos.DataTypeDouble)
	Uint32     = DataType(protos.DataTypeUint32)
	Uint64     = DataType(protos.DataTypeUint64)
	Complex64  = DataType(protos.DataTypeComplex64)
	Complex128 = DataType(protos.DataTypeComplex128)
	BFloat16   = DataType(protos.DataTypeBFloat16)
	Float8E4M3 = DataType(protos.DataTypeFloat8E4M3)
	Float8E5M2 = DataType(protos.DataTypeFloat8E5M2)
)

var dataTypeNames = map[DataType]string{
	Undefined:  "UNDEFINED",
	Float32:    "FLOAT32",
	Uint8:      "UINT8",
	Int8:       "INT8",
	Uint16:     "UINT16",
	Int16:      "INT16",
	Int32:      "INT32",
	Int64:      "INT64",
	String:     "STRING",
	Bool:       "BOOL",
	Float16:    "FLOAT16",
	Float64:    "DOUBLE",
	Uint32:     "UINT32",
	Uint64:     "UINT64",
	Complex64:  "COMPLEX64",
	Complex128: "COMPLEX128",
	BFloat16:   "BFLOAT16",
	Float8E4M3: "FLOAT8E4M3FN",
	Float8E5M2: "FLOAT8E5M2",
}

// String returns the canonical upper-case ONNX name of the element type.
// Values outside the known enumeration render as UNKNOWN(n) rather than
// failing: a newer opset must not break inspection of otherwise-valid
// models.
func (dt DataType) String() string {
	if name, ok := dataTypeNames[dt]; ok {
		return name
	}
	return fmt.Sprintf("UNKNOWN(%d)", int32(dt))
}
