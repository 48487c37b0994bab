package convert

import (
	"fmt"

	"github.com/born-ml/canon/internal/tensor"
)

// EncodeScalar wraps a single value into a one-element buffer of dtype.
//
// For tensor.String the value must be a string, which is encoded as UTF-8,
// or a []byte holding already encoded text, which is copied. Every other
// dtype goes through ToTyped, so scalars and sequences share one set of
// numeric conversion rules.
func (c *Converter) EncodeScalar(value any, dtype tensor.DataType) (*tensor.Buffer, error) {
	if dtype != tensor.String {
		return c.ToTyped([]any{value}, dtype)
	}

	var encoded []byte
	switch v := value.(type) {
	case string:
		b, err := c.EncodeText(v, "")
		if err != nil {
			return nil, err
		}
		encoded = b
	case []byte:
		encoded = append([]byte(nil), v...)
	default:
		return nil, fmt.Errorf("%w: %T is not text", ErrInvalidValue, value)
	}
	return tensor.NewStringBuffer([][]byte{encoded}), nil
}

// EncodeStrings encodes each value with the named encoding into a String
// buffer, one byte sequence per value.
func (c *Converter) EncodeStrings(values []string, encoding string) (*tensor.Buffer, error) {
	out := make([][]byte, len(values))
	for i, s := range values {
		b, err := c.EncodeText(s, encoding)
		if err != nil {
			return nil, fmt.Errorf("value %d: %w", i, err)
		}
		out[i] = b
	}
	return tensor.NewStringBuffer(out), nil
}

// DecodeStrings decodes every value of a String buffer.
func (c *Converter) DecodeStrings(buf *tensor.Buffer, encoding string) ([]string, error) {
	if buf.DType() != tensor.String {
		return nil, fmt.Errorf("%w: cannot decode a %s buffer as text", ErrUnsupportedType, buf.DType())
	}
	values := buf.Strings()
	out := make([]string, len(values))
	for i, b := range values {
		s, err := c.DecodeText(b, encoding)
		if err != nil {
			return nil, fmt.Errorf("value %d: %w", i, err)
		}
		out[i] = s
	}
	return out, nil
}
