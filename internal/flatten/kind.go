package flatten

import (
	"reflect"
	"strconv"

	"github.com/born-ml/canon/internal/tensor"
)

// InputKind is the shape category of a nested value.
type InputKind int

// Input kinds, determined once per value by Classify.
const (
	KindScalar InputKind = iota
	KindTypedBuffer
	KindSequence
	KindArrayLike
)

// String returns a human-readable name for the kind.
func (k InputKind) String() string {
	switch k {
	case KindScalar:
		return "scalar"
	case KindTypedBuffer:
		return "typed buffer"
	case KindSequence:
		return "sequence"
	case KindArrayLike:
		return "array-like"
	default:
		return "unknown"
	}
}

type undefinedValue struct{}

func (undefinedValue) String() string { return "undefined" }

// Undefined is the leaf produced for indices missing from an array-like
// object. It is distinct from nil, which is an explicit null leaf.
var Undefined any = undefinedValue{}

// IsUndefined reports whether v is the Undefined leaf.
func IsUndefined(v any) bool {
	_, ok := v.(undefinedValue)
	return ok
}

// Deferred is a pending numeric leaf whose value is produced on demand.
type Deferred interface {
	Resolve() (float64, error)
}

// ArrayLike is a non-sequence value exposing integer-like keys.
//
// Only keys in canonical non-negative integer form ("0", "7", not "07" or
// "-1") take part in flattening. Iteration runs densely from 0 to the largest
// such key; Member is called with the canonical decimal form of each index.
type ArrayLike interface {
	Keys() []string
	Member(key string) (any, bool)
}

// Classify returns the kind of v. Strings, numbers, booleans, nil, Undefined
// and Deferred values are scalars, as is any type that is not a recognised
// container. Typed buffers are those tensor.IsTypedBuffer accepts; Walk and
// Flatten use the same test at every depth.
func Classify(v any) InputKind {
	switch t := v.(type) {
	case nil, undefinedValue, Deferred, string, bool,
		float64, float32, int, int8, int16, int32, int64,
		uint, uint16, uint32, uint64, uint8:
		return KindScalar
	case []any:
		return KindSequence
	case ArrayLike, map[string]any, map[int]any:
		return KindArrayLike
	default:
		if tensor.IsTypedBuffer(t) {
			return KindTypedBuffer
		}
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		return KindSequence
	case reflect.Map:
		if isIndexKeyKind(rv.Type().Key().Kind()) {
			return KindArrayLike
		}
	}
	return KindScalar
}

func isIndexKeyKind(k reflect.Kind) bool {
	switch k {
	case reflect.String,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return true
	}
	return false
}

// isIndexKey reports whether key is a canonical non-negative integer and
// returns its value. Keys too large for int are ignored.
func isIndexKey(key string) (int, bool) {
	if key == "" || (key[0] == '0' && len(key) > 1) {
		return 0, false
	}
	for i := 0; i < len(key); i++ {
		if key[i] < '0' || key[i] > '9' {
			return 0, false
		}
	}
	n, err := strconv.Atoi(key)
	if err != nil {
		return 0, false
	}
	return n, true
}
