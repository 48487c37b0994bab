package convert

import (
	"math"

	"github.com/born-ml/canon/internal/tensor"
)

// CheckForErrors scans values for numbers that dtype cannot represent
// faithfully and returns a *RangeError for the first one found.
//
// NaN and infinities are rejected for every type. Int32 additionally rejects
// fractional values and values outside the int32 range; Float32 and
// Complex64 reject finite values that overflow float32. values is not
// modified.
func CheckForErrors(values []float64, dtype tensor.DataType) error {
	return checkValues(len(values), func(i int) float64 { return values[i] }, dtype)
}

func checkValues(n int, at func(int) float64, dtype tensor.DataType) error {
	for i := 0; i < n; i++ {
		x := at(i)
		if reason := rangeProblem(x, dtype); reason != "" {
			return &RangeError{Index: i, Value: x, DType: dtype, Reason: reason}
		}
	}
	return nil
}

func rangeProblem(x float64, dtype tensor.DataType) string {
	switch {
	case math.IsNaN(x):
		return "value is NaN"
	case math.IsInf(x, 0):
		return "value is not finite"
	}

	switch dtype {
	case tensor.Int32:
		if x != math.Trunc(x) {
			return "value is not an integer"
		}
		if x < math.MinInt32 || x > math.MaxInt32 {
			return "value is outside the int32 range"
		}
	case tensor.Float32, tensor.Complex64:
		if math.IsInf(float64(float32(x)), 0) {
			return "value overflows float32"
		}
	}
	return ""
}
