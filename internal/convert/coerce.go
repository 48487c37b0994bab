package convert

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/born-ml/canon/internal/env"
	"github.com/born-ml/canon/internal/flatten"
	"github.com/born-ml/canon/internal/parallel"
	"github.com/born-ml/canon/internal/tensor"
)

// ToTyped converts input into a numeric buffer of dtype.
//
// Input that the platform recognizes as a typed buffer is read directly;
// anything else is flattened first. With DEBUG on, every value is checked
// by CheckForErrors before any output is allocated. A DEBUG flag that cannot
// be read as a bool is an error, not a silent "off".
//
// When input already is a buffer of dtype ([]float32 for Float32, []int32 for
// Int32, []uint8 for Bool, or a *tensor.Buffer of the same dtype) it is
// returned without copying: a *tensor.Buffer comes back as the same pointer
// and slices are wrapped around the same memory.
//
// Conversion rules:
//   - Float32, Complex64: nearest float32
//   - Int32: truncate toward zero, wrap modulo 2^32, NaN and Inf become 0
//   - Bool: 1 if the value rounds (half up) to non-zero, else 0
func (c *Converter) ToTyped(input any, dtype tensor.DataType) (*tensor.Buffer, error) {
	if dtype == tensor.String {
		return nil, fmt.Errorf("%w: cannot convert to a %s buffer", ErrUnsupportedType, dtype)
	}
	if !dtype.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownType, int(dtype))
	}

	var (
		n  int
		at func(int) float64
	)
	kind := c.classify(input)
	switch kind {
	case flatten.KindTypedBuffer:
		n, at = typedAccessor(input)
	case flatten.KindScalar, flatten.KindSequence, flatten.KindArrayLike:
		values, err := numbers(input)
		if err != nil {
			return nil, err
		}
		n, at = len(values), func(i int) float64 { return values[i] }
	}

	debug, err := c.env.GetBool(env.Debug)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s flag: %w", env.Debug, err)
	}
	if debug {
		if err := checkValues(n, at, dtype); err != nil {
			c.logger.Debug("conversion check failed",
				zap.Stringer("dtype", dtype),
				zap.Stringer("input", kind),
				zap.Error(err))
			return nil, err
		}
	}

	if kind == flatten.KindTypedBuffer {
		if buf := noConversion(input, dtype); buf != nil {
			c.logger.Debug("no conversion needed", zap.Stringer("dtype", dtype), zap.Int("elements", n))
			return buf, nil
		}
	}

	return c.fill(n, at, dtype)
}

// classify determines the input kind once. Only values the platform accepts
// as typed buffers take the typed path; other buffers are flattened. Nested
// buffers are expanded by the flattener regardless of the platform.
func (c *Converter) classify(input any) flatten.InputKind {
	kind := flatten.Classify(input)
	if kind == flatten.KindTypedBuffer && !c.platform.IsTypedBuffer(input) {
		return flatten.KindSequence
	}
	return kind
}

// numbers flattens input and resolves every leaf to a float64.
func numbers(input any) ([]float64, error) {
	n, err := flatten.CountLeaves(input, false)
	if err != nil {
		return nil, err
	}
	values := make([]float64, 0, n)
	err = flatten.Walk(input, false, func(leaf any) error {
		x, err := toNumber(leaf)
		if err != nil {
			return fmt.Errorf("element %d: %w", len(values), err)
		}
		values = append(values, x)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return values, nil
}

// typedAccessor returns the length and an element reader for a typed buffer.
func typedAccessor(input any) (int, func(int) float64) {
	switch t := input.(type) {
	case []float32:
		return len(t), func(i int) float64 { return float64(t[i]) }
	case []int32:
		return len(t), func(i int) float64 { return float64(t[i]) }
	case []uint8:
		return len(t), func(i int) float64 { return float64(t[i]) }
	}
	return tensor.TypedBufferLen(input), func(i int) float64 { return tensor.TypedBufferAt(input, i) }
}

// noConversion returns input as a buffer when it already has dtype, or nil.
func noConversion(input any, dtype tensor.DataType) *tensor.Buffer {
	switch t := input.(type) {
	case *tensor.Buffer:
		if t.DType() == dtype {
			return t
		}
	case []float32:
		if dtype == tensor.Float32 {
			return tensor.WrapFloat32(t)
		}
	case []int32:
		if dtype == tensor.Int32 {
			return tensor.WrapInt32(t)
		}
	case []uint8:
		if dtype == tensor.Bool {
			return tensor.WrapBytes(t)
		}
	}
	return nil
}

// fill allocates a buffer of dtype and converts n values into it.
func (c *Converter) fill(n int, at func(int) float64, dtype tensor.DataType) (*tensor.Buffer, error) {
	buf, err := tensor.NewBuffer(dtype, n)
	if err != nil {
		return nil, err
	}

	cfg := c.parallelConfig()
	if chunks := cfg.Chunks(n); chunks > 1 {
		c.logger.Debug("parallel conversion",
			zap.Stringer("dtype", dtype),
			zap.Int("elements", n),
			zap.Int("chunks", chunks))
	}

	switch dtype {
	case tensor.Float32, tensor.Complex64:
		out := buf.AsFloat32()
		parallel.ForRange(n, func(start, end int) {
			for i := start; i < end; i++ {
				out[i] = float32(at(i))
			}
		}, cfg)
	case tensor.Int32:
		out := buf.AsInt32()
		parallel.ForRange(n, func(start, end int) {
			for i := start; i < end; i++ {
				out[i] = toInt32(at(i))
			}
		}, cfg)
	case tensor.Bool:
		out := buf.AsUint8()
		parallel.ForRange(n, func(start, end int) {
			for i := start; i < end; i++ {
				out[i] = toBoolByte(at(i))
			}
		}, cfg)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownType, dtype)
	}
	return buf, nil
}
