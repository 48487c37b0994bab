package tensor

import (
	"fmt"
	"unsafe"
)

// Buffer is the canonical flat representation of normalized data.
//
// Numeric buffers hold a contiguous little-endian byte slice interpreted
// according to the data type:
//   - Float32 and Complex64 store float32 components (a Complex64 value is
//     two consecutive components, real then imaginary)
//   - Int32 stores int32 values
//   - Bool stores one byte per element, 0 or 1
//
// String buffers hold one independently encoded byte sequence per value.
//
// A Buffer created by one of the Wrap functions aliases the caller's slice.
type Buffer struct {
	data    []byte
	strings [][]byte
	dtype   DataType
	length  int
}

// storageSize returns the byte width of one stored component.
func storageSize(dtype DataType) int {
	if !dtype.IsNumeric() {
		panic(fmt.Sprintf("data type %s has no fixed storage size", dtype))
	}
	return dtype.Size()
}

// NewBuffer allocates a zeroed numeric buffer with n stored components.
func NewBuffer(dtype DataType, n int) (*Buffer, error) {
	if !dtype.IsNumeric() {
		return nil, fmt.Errorf("cannot allocate numeric buffer for %s", dtype)
	}
	if n < 0 {
		return nil, fmt.Errorf("invalid buffer length: %d (must be >= 0)", n)
	}
	return &Buffer{
		data:   make([]byte, n*storageSize(dtype)),
		dtype:  dtype,
		length: n,
	}, nil
}

// NewStringBuffer creates a String buffer that takes ownership of values.
func NewStringBuffer(values [][]byte) *Buffer {
	return &Buffer{
		strings: values,
		dtype:   String,
		length:  len(values),
	}
}

// WrapFloat32 returns a Float32 buffer sharing memory with s. No data is copied.
func WrapFloat32(s []float32) *Buffer {
	return &Buffer{data: bytesOf(unsafe.Pointer(unsafe.SliceData(s)), len(s)*4), dtype: Float32, length: len(s)}
}

// WrapInt32 returns an Int32 buffer sharing memory with s. No data is copied.
func WrapInt32(s []int32) *Buffer {
	return &Buffer{data: bytesOf(unsafe.Pointer(unsafe.SliceData(s)), len(s)*4), dtype: Int32, length: len(s)}
}

// WrapBytes returns a Bool buffer sharing memory with s. No data is copied.
func WrapBytes(s []uint8) *Buffer {
	return &Buffer{data: s, dtype: Bool, length: len(s)}
}

func bytesOf(p unsafe.Pointer, n int) []byte {
	if n == 0 {
		return []byte{}
	}
	//nolint:gosec // unsafe.Slice for zero-copy aliasing, length derived from the source slice
	return unsafe.Slice((*byte)(p), n)
}

// DType returns the buffer's data type.
func (b *Buffer) DType() DataType {
	return b.dtype
}

// Len returns the number of stored components (values for String buffers).
func (b *Buffer) Len() int {
	return b.length
}

// ByteSize returns the total memory size in bytes.
func (b *Buffer) ByteSize() int {
	if b.dtype == String {
		n := 0
		for _, s := range b.strings {
			n += len(s)
		}
		return n
	}
	return len(b.data)
}

// Data returns the raw byte slice of a numeric buffer.
// WARNING: Direct access to underlying memory. Use with caution.
func (b *Buffer) Data() []byte {
	return b.data
}

// Strings returns the encoded values of a String buffer.
// Panics if the buffer's dtype is not String.
func (b *Buffer) Strings() [][]byte {
	if b.dtype != String {
		panic(fmt.Sprintf("buffer dtype is %s, not string", b.dtype))
	}
	return b.strings
}

// AsFloat32 interprets the data as []float32.
// Panics if the buffer's dtype is not Float32 or Complex64.
func (b *Buffer) AsFloat32() []float32 {
	if b.dtype != Float32 && b.dtype != Complex64 {
		panic(fmt.Sprintf("buffer dtype is %s, not float32", b.dtype))
	}
	if b.length == 0 {
		return []float32{}
	}
	//nolint:gosec // unsafe.Slice for zero-copy performance, bounds checked by length
	return unsafe.Slice((*float32)(unsafe.Pointer(&b.data[0])), b.length)
}

// AsInt32 interprets the data as []int32.
// Panics if the buffer's dtype is not Int32.
func (b *Buffer) AsInt32() []int32 {
	if b.dtype != Int32 {
		panic(fmt.Sprintf("buffer dtype is %s, not int32", b.dtype))
	}
	if b.length == 0 {
		return []int32{}
	}
	//nolint:gosec // unsafe.Slice for zero-copy performance, bounds checked by length
	return unsafe.Slice((*int32)(unsafe.Pointer(&b.data[0])), b.length)
}

// AsUint8 returns the 0/1 bytes of a Bool buffer.
// Panics if the buffer's dtype is not Bool.
func (b *Buffer) AsUint8() []uint8 {
	if b.dtype != Bool {
		panic(fmt.Sprintf("buffer dtype is %s, not bool", b.dtype))
	}
	return b.data
}

// Values returns a widened copy of a numeric buffer's contents.
func (b *Buffer) Values() []float64 {
	out := make([]float64, b.length)
	switch b.dtype {
	case Float32, Complex64:
		for i, v := range b.AsFloat32() {
			out[i] = float64(v)
		}
	case Int32:
		for i, v := range b.AsInt32() {
			out[i] = float64(v)
		}
	case Bool:
		for i, v := range b.data {
			out[i] = float64(v)
		}
	default:
		panic(fmt.Sprintf("buffer dtype is %s, not numeric", b.dtype))
	}
	return out
}

// IsTypedBuffer reports whether v is one of the homogeneous buffer kinds:
// []float32, []int32, []uint8 or a numeric *Buffer.
func IsTypedBuffer(v any) bool {
	_, ok := TypedBufferDType(v)
	return ok
}

// TypedBufferDType returns the data type a homogeneous buffer holds.
// []uint8 maps to Bool, the only byte-wide data type.
func TypedBufferDType(v any) (DataType, bool) {
	switch t := v.(type) {
	case []float32:
		return Float32, true
	case []int32:
		return Int32, true
	case []uint8:
		return Bool, true
	case *Buffer:
		if t != nil && t.dtype.IsNumeric() {
			return t.dtype, true
		}
	}
	return 0, false
}

// TypedBufferLen returns the element count of a homogeneous buffer.
func TypedBufferLen(v any) int {
	switch t := v.(type) {
	case []float32:
		return len(t)
	case []int32:
		return len(t)
	case []uint8:
		return len(t)
	case *Buffer:
		return t.length
	}
	return 0
}

// TypedBufferAt returns element i of a homogeneous buffer widened to float64.
func TypedBufferAt(v any, i int) float64 {
	switch t := v.(type) {
	case []float32:
		return float64(t[i])
	case []int32:
		return float64(t[i])
	case []uint8:
		return float64(t[i])
	case *Buffer:
		switch t.dtype {
		case Float32, Complex64:
			return float64(t.AsFloat32()[i])
		case Int32:
			return float64(t.AsInt32()[i])
		case Bool:
			return float64(t.data[i])
		}
	}
	panic(fmt.Sprintf("value of type %T is not a typed buffer", v))
}
