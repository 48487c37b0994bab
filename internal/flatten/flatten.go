// Package flatten linearizes arbitrarily nested input into an ordered
// sequence of leaf values.
//
// Traversal is depth-first and left-to-right. Sequences are walked up to
// their length; array-like objects are walked densely from index 0 up to
// their largest integer key, with Undefined filling the gaps. Typed buffers
// are either kept whole or expanded element by element.
//
// The walk keeps its own work stack, so input depth is bounded only by
// memory, not by the goroutine stack.
package flatten

import (
	"errors"
	"fmt"
	"math"
	"reflect"
	"strconv"

	"github.com/born-ml/canon/internal/tensor"
)

// ErrIndexOverflow is returned when an array-like object has an index key so
// large that its dense length max(key)+1 does not fit in an int.
var ErrIndexOverflow = errors.New("array-like index key overflows int")

// Flatten returns the leaves of input in depth-first, left-to-right order.
// When skipTypedBuffers is true a typed buffer is appended as a single leaf.
// It panics with ErrIndexOverflow where Walk would return it.
//
// Example:
//
//	flatten.Flatten([]any{[]any{1, 2}, []any{3, []any{4, []any{5}}}}, false)
//	// [1 2 3 4 5]
func Flatten(input any, skipTypedBuffers bool) []any {
	return FlattenInto(nil, input, skipTypedBuffers)
}

// FlattenInto appends the leaves of input to result and returns it.
// It panics with ErrIndexOverflow where Walk would return it.
func FlattenInto(result []any, input any, skipTypedBuffers bool) []any {
	err := Walk(input, skipTypedBuffers, func(leaf any) error {
		result = append(result, leaf)
		return nil
	})
	if err != nil {
		panic(err)
	}
	return result
}

// Count returns the number of leaves Flatten would produce.
// It panics with ErrIndexOverflow where Walk would return it.
func Count(input any, skipTypedBuffers bool) int {
	n, err := CountLeaves(input, skipTypedBuffers)
	if err != nil {
		panic(err)
	}
	return n
}

// CountLeaves is Count with ErrIndexOverflow returned instead of raised.
func CountLeaves(input any, skipTypedBuffers bool) (int, error) {
	n := 0
	err := Walk(input, skipTypedBuffers, func(any) error {
		n++
		return nil
	})
	return n, err
}

// Walk calls visit for every leaf of input in flatten order.
// It stops at and returns the first error visit returns, or ErrIndexOverflow
// when an array-like object cannot be iterated.
func Walk(input any, skipTypedBuffers bool, visit func(leaf any) error) error {
	var stack []*cursor

	push := func(v any) error {
		kind := Classify(v)
		if kind == KindScalar || (kind == KindTypedBuffer && skipTypedBuffers) {
			return visit(v)
		}
		c, err := open(v, kind)
		if err != nil {
			return err
		}
		if c.n > 0 {
			stack = append(stack, c)
		}
		return nil
	}

	if err := push(input); err != nil {
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
		if err := push(v); err != nil {
			return err
		}
	}
	return nil
}

// cursor iterates the children of one container.
type cursor struct {
	at    func(i int) any
	n     int
	index int
}

// open builds a cursor over a container of the given kind.
func open(v any, kind InputKind) (*cursor, error) {
	switch kind {
	case KindTypedBuffer:
		return openTypedBuffer(v), nil
	case KindSequence:
		return openSequence(v), nil
	case KindArrayLike:
		return openArrayLike(v)
	default:
		panic(fmt.Sprintf("flatten: %s is not a container", kind))
	}
}

func openTypedBuffer(v any) *cursor {
	switch t := v.(type) {
	case []float32:
		return &cursor{n: len(t), at: func(i int) any { return t[i] }}
	case []int32:
		return &cursor{n: len(t), at: func(i int) any { return t[i] }}
	case []uint8:
		return &cursor{n: len(t), at: func(i int) any { return t[i] }}
	}
	return &cursor{n: tensor.TypedBufferLen(v), at: func(i int) any { return tensor.TypedBufferAt(v, i) }}
}

func openSequence(v any) *cursor {
	switch t := v.(type) {
	case []any:
		return &cursor{n: len(t), at: func(i int) any { return t[i] }}
	case []float64:
		return &cursor{n: len(t), at: func(i int) any { return t[i] }}
	case []int:
		return &cursor{n: len(t), at: func(i int) any { return t[i] }}
	case []string:
		return &cursor{n: len(t), at: func(i int) any { return t[i] }}
	case []bool:
		return &cursor{n: len(t), at: func(i int) any { return t[i] }}
	}
	rv := reflect.ValueOf(v)
	return &cursor{n: rv.Len(), at: func(i int) any { return rv.Index(i).Interface() }}
}

func openArrayLike(v any) (*cursor, error) {
	var (
		keys   []string
		member func(key string) (any, bool)
	)

	switch t := v.(type) {
	case ArrayLike:
		keys, member = t.Keys(), t.Member
	case map[string]any:
		keys = make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		member = func(key string) (any, bool) {
			e, ok := t[key]
			return e, ok
		}
	case map[int]any:
		keys = make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, strconv.Itoa(k))
		}
		member = func(key string) (any, bool) {
			i, _ := strconv.Atoi(key)
			e, ok := t[i]
			return e, ok
		}
	default:
		keys, member = reflectMap(reflect.ValueOf(v))
	}

	maxIndex := -1
	for _, k := range keys {
		if i, ok := isIndexKey(k); ok && i > maxIndex {
			maxIndex = i
		}
	}
	if maxIndex == math.MaxInt {
		return nil, fmt.Errorf("%w: key %d", ErrIndexOverflow, maxIndex)
	}

	return &cursor{
		n: maxIndex + 1,
		at: func(i int) any {
			if e, ok := member(strconv.Itoa(i)); ok {
				return e
			}
			return Undefined
		},
	}, nil
}

// reflectMap adapts a map with string or integer keys.
func reflectMap(rv reflect.Value) ([]string, func(string) (any, bool)) {
	keyType := rv.Type().Key()
	keys := make([]string, 0, rv.Len())
	iter := rv.MapRange()
	for iter.Next() {
		k := iter.Key()
		switch k.Kind() {
		case reflect.String:
			keys = append(keys, k.String())
		case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
			keys = append(keys, strconv.FormatUint(k.Uint(), 10))
		default:
			keys = append(keys, strconv.FormatInt(k.Int(), 10))
		}
	}

	member := func(key string) (any, bool) {
		var k reflect.Value
		switch keyType.Kind() {
		case reflect.String:
			k = reflect.ValueOf(key).Convert(keyType)
		default:
			i, err := strconv.ParseInt(key, 10, 64)
			if err != nil {
				return nil, false
			}
			k = reflect.New(keyType).Elem()
			if k.CanInt() {
				if k.OverflowInt(i) {
					return nil, false
				}
				k.SetInt(i)
			} else {
				if i < 0 || k.OverflowUint(uint64(i)) {
					return nil, false
				}
				k.SetUint(uint64(i))
			}
		}
		e := rv.MapIndex(k)
		if !e.IsValid() {
			return nil, false
		}
		return e.Interface(), true
	}
	return keys, member
}
