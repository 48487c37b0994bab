// Package tensor provides the element types, shapes and canonical buffers
// that normalized input is stored in.
package tensor

import (
	"errors"
	"fmt"
)

// ErrUnknownDataType is returned when a data type name is not recognized.
var ErrUnknownDataType = errors.New("unknown data type")

// DataType represents the element type of a canonical buffer.
type DataType int

// Supported data types.
const (
	Float32 DataType = iota
	Int32
	Bool
	String
	Complex64
)

// Size returns the byte size of one stored element.
// String elements are variable length and report 0. Complex64 buffers store
// float32 components, real and imaginary parts as consecutive elements, so
// their element size is 4.
func (dt DataType) Size() int {
	switch dt {
	case Float32, Int32, Complex64:
		return 4
	case Bool:
		return 1
	case String:
		return 0
	default:
		panic("unknown data type")
	}
}

// String returns a human-readable name for the data type.
func (dt DataType) String() string {
	switch dt {
	case Float32:
		return "float32"
	case Int32:
		return "int32"
	case Bool:
		return "bool"
	case String:
		return "string"
	case Complex64:
		return "complex64"
	default:
		return "unknown"
	}
}

// Valid reports whether dt is one of the supported data types.
func (dt DataType) Valid() bool {
	return dt >= Float32 && dt <= Complex64
}

// IsNumeric reports whether dt is stored as a flat numeric buffer.
func (dt DataType) IsNumeric() bool {
	return dt.Valid() && dt != String
}

// ParseDataType maps a data type name to a DataType.
// An empty name selects Float32, the default for unspecified targets.
func ParseDataType(name string) (DataType, error) {
	switch name {
	case "", "float32":
		return Float32, nil
	case "int32":
		return Int32, nil
	case "bool":
		return Bool, nil
	case "string":
		return String, nil
	case "complex64":
		return Complex64, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownDataType, name)
	}
}
