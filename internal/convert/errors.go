package convert

import (
	"errors"
	"fmt"

	"github.com/born-ml/canon/internal/tensor"
)

// Common errors.
var (
	ErrUnsupportedType = errors.New("unsupported data type for numeric conversion")
	ErrUnknownType     = errors.New("unknown data type")
	ErrInvalidValue    = errors.New("value cannot be converted to a number")
	ErrRange           = errors.New("value out of range for data type")
)

// RangeError describes a value the debug validator rejected.
type RangeError struct {
	Index  int             // Position in the flattened input
	Value  float64         // Offending value
	DType  tensor.DataType // Target data type
	Reason string          // Why the value is not representable
}

// Error implements the error interface.
func (e *RangeError) Error() string {
	return fmt.Sprintf("a tensor of type %s being uploaded contains %v at index %d: %s",
		e.DType, e.Value, e.Index, e.Reason)
}

// Is reports ErrRange as a match so callers can use errors.Is.
func (e *RangeError) Is(target error) bool {
	return target == ErrRange
}
