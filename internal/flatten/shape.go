package flatten

import (
	"errors"
	"fmt"

	"github.com/born-ml/canon/internal/tensor"
)

// ErrRaggedShape is returned when nested sequences disagree on their lengths.
var ErrRaggedShape = errors.New("ragged nested input")

// InferShape reports the shape of a regular nested input.
//
// The shape is read by descending through first elements; every container is
// then checked against it. Scalars have shape [], typed buffers are one
// dimension of their length, and array-like objects count as sequences of
// length max(key)+1.
func InferShape(input any) (tensor.Shape, error) {
	shape := tensor.Shape{}
	for first := input; ; {
		kind := Classify(first)
		if kind == KindScalar {
			break
		}
		c, err := open(first, kind)
		if err != nil {
			return nil, err
		}
		shape = append(shape, c.n)
		if c.n == 0 || kind == KindTypedBuffer {
			break
		}
		first = c.at(0)
	}

	if err := checkShape(input, shape); err != nil {
		return nil, err
	}
	return shape, nil
}

// checkShape verifies every container of input against shape. It walks
// the input with the same cursor stack as Walk; the index path of an element
// is only assembled when reporting an error.
func checkShape(input any, shape tensor.Shape) error {
	var stack []*cursor

	path := func() []int {
		p := make([]int, len(stack))
		for i, c := range stack {
			p[i] = c.index - 1
		}
		return p
	}

	check := func(v any) error {
		depth := len(stack)
		kind := Classify(v)
		if kind == KindScalar {
			if depth != len(shape) {
				return fmt.Errorf("%w: element %v should have %d dimensions but is a scalar",
					ErrRaggedShape, path(), len(shape)-depth)
			}
			return nil
		}
		if depth >= len(shape) {
			return fmt.Errorf("%w: element %v should be a scalar but is a %s",
				ErrRaggedShape, path(), kind)
		}

		c, err := open(v, kind)
		if err != nil {
			return err
		}
		if c.n != shape[depth] {
			return fmt.Errorf("%w: element %v should have %d entries but has %d",
				ErrRaggedShape, path(), shape[depth], c.n)
		}
		if kind == KindTypedBuffer {
			if depth != len(shape)-1 {
				return fmt.Errorf("%w: element %v is a typed buffer at depth %d of %d",
					ErrRaggedShape, path(), depth+1, len(shape))
			}
			return nil
		}
		if c.n > 0 {
			stack = append(stack, c)
		}
		return nil
	}

	if err := check(input); err != nil {
		return err
	}
	for len(stack) > 0 {
		top := stack[len(stack)-1]
		if top.index == top.n {
			stack = stack[:len(stack)-1]
			continue
		}
		v := top.at(top.index)
		top.index++
		if err := check(v); err != nil {
			return err
		}
	}
	return nil
}
