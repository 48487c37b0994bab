// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package tensor

import (
	"github.com/born-ml/canon/internal/tensor"
)

// Type aliases for public API

// DataType represents the element type of a canonical buffer.
type DataType = tensor.DataType

// Data type constants.
const (
	Float32   DataType = tensor.Float32
	Int32     DataType = tensor.Int32
	Bool      DataType = tensor.Bool
	String    DataType = tensor.String
	Complex64 DataType = tensor.Complex64
)

// Shape represents the dimensions of nested input.
// Example: Shape{2, 3, 4} describes three levels of nesting, 2×3×4 leaves.
type Shape = tensor.Shape

// Buffer is the canonical flat representation of normalized data.
//
// Buffer provides:
//   - Type information via DType() and Len()
//   - Zero-copy typed views via AsFloat32(), AsInt32(), AsUint8()
//   - Encoded text values via Strings() for String buffers
//
// Example:
//
//	buf, _ := tensor.NewBuffer(tensor.Float32, 6)
//	data := buf.AsFloat32() // Zero-copy view
type Buffer = tensor.Buffer

// ErrUnknownDataType is returned by ParseDataType for unrecognized names.
var ErrUnknownDataType = tensor.ErrUnknownDataType

// ParseDataType maps a name such as "int32" to a DataType.
// The empty name selects Float32.
func ParseDataType(name string) (DataType, error) {
	return tensor.ParseDataType(name)
}

// NewBuffer allocates a zeroed numeric buffer with n elements.
func NewBuffer(dtype DataType, n int) (*Buffer, error) {
	return tensor.NewBuffer(dtype, n)
}

// NewStringBuffer creates a String buffer from encoded values.
func NewStringBuffer(values [][]byte) *Buffer {
	return tensor.NewStringBuffer(values)
}

// WrapFloat32 returns a Float32 buffer sharing memory with s.
func WrapFloat32(s []float32) *Buffer {
	return tensor.WrapFloat32(s)
}

// WrapInt32 returns an Int32 buffer sharing memory with s.
func WrapInt32(s []int32) *Buffer {
	return tensor.WrapInt32(s)
}

// WrapBytes returns a Bool buffer sharing memory with s.
func WrapBytes(s []uint8) *Buffer {
	return tensor.WrapBytes(s)
}

// IsTypedBuffer reports whether v is []float32, []int32, []uint8 or a
// numeric *Buffer.
func IsTypedBuffer(v any) bool {
	return tensor.IsTypedBuffer(v)
}
