package convert

import (
	"errors"
	"fmt"
	"math"
	"math/big"
	"strconv"
	"strings"

	"github.com/born-ml/canon/internal/flatten"
)

const twoPow32 = 4294967296.0

// toNumber resolves a leaf to a float64.
//
// Booleans become 0 or 1, nil becomes 0 and Undefined becomes NaN. Strings
// are parsed as numbers: blank strings are 0 and unparseable strings NaN.
// Deferred leaves are resolved and their error returned.
func toNumber(leaf any) (float64, error) {
	switch v := leaf.(type) {
	case float64:
		return v, nil
	case float32:
		return float64(v), nil
	case int:
		return float64(v), nil
	case int8:
		return float64(v), nil
	case int16:
		return float64(v), nil
	case int32:
		return float64(v), nil
	case int64:
		return float64(v), nil
	case uint:
		return float64(v), nil
	case uint8:
		return float64(v), nil
	case uint16:
		return float64(v), nil
	case uint32:
		return float64(v), nil
	case uint64:
		return float64(v), nil
	case bool:
		if v {
			return 1, nil
		}
		return 0, nil
	case nil:
		return 0, nil
	case string:
		return parseNumber(v), nil
	case flatten.Deferred:
		x, err := v.Resolve()
		if err != nil {
			return 0, fmt.Errorf("failed to resolve deferred value: %w", err)
		}
		return x, nil
	}
	if flatten.IsUndefined(leaf) {
		return math.NaN(), nil
	}
	return 0, fmt.Errorf("%w: %T", ErrInvalidValue, leaf)
}

// parseNumber reads a decimal, hexadecimal, octal or binary literal.
// "Infinity" is accepted with an optional sign; Go spellings such as "inf"
// or "nan" are not numbers. Prefixed literals beyond uint64 round to the
// nearest float64, or +Inf past its range.
func parseNumber(s string) float64 {
	s = strings.TrimSpace(s)
	switch s {
	case "":
		return 0
	case "Infinity", "+Infinity":
		return math.Inf(1)
	case "-Infinity":
		return math.Inf(-1)
	}

	if len(s) > 2 && s[0] == '0' {
		switch s[1] {
		case 'x', 'X', 'o', 'O', 'b', 'B':
			if strings.ContainsRune(s, '_') {
				return math.NaN()
			}
			n, err := strconv.ParseUint(s, 0, 64)
			if errors.Is(err, strconv.ErrRange) {
				return parseBigInteger(s)
			}
			if err != nil {
				return math.NaN()
			}
			return float64(n)
		}
	}

	for _, r := range s {
		if !strings.ContainsRune("0123456789+-.eE", r) {
			return math.NaN()
		}
	}
	x, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return math.NaN()
	}
	return x
}

// parseBigInteger converts a prefixed integer literal too large for uint64.
func parseBigInteger(s string) float64 {
	n, ok := new(big.Int).SetString(s, 0)
	if !ok {
		return math.NaN()
	}
	x, _ := new(big.Float).SetInt(n).Float64()
	return x
}

// toInt32 narrows x the way an Int32 store does: truncate toward zero,
// wrap modulo 2^32, and map NaN and infinities to 0.
func toInt32(x float64) int32 {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return 0
	}
	x = math.Mod(math.Trunc(x), twoPow32)
	if x < 0 {
		x += twoPow32
	}
	if x >= twoPow32/2 {
		x -= twoPow32
	}
	return int32(x)
}

// roundHalfUp rounds to the nearest integer with ties toward +Inf.
func roundHalfUp(x float64) float64 {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return x
	}
	r := math.Floor(x)
	if x-r >= 0.5 {
		r++
	}
	return r
}

// toBoolByte stores 1 when x rounds to a non-zero value. NaN is non-zero.
func toBoolByte(x float64) uint8 {
	if roundHalfUp(x) != 0 {
		return 1
	}
	return 0
}
