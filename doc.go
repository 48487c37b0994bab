// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package canon normalizes nested Go values into canonical tensor buffers.
//
// # Overview
//
// Input can be any mix of:
//   - scalars (numbers, booleans, strings, nil)
//   - sequences ([]any and other Go slices or arrays)
//   - typed buffers ([]float32, []int32, []uint8, *tensor.Buffer)
//   - array-like objects (map[string]any, map[int]any, ArrayLike)
//
// A Converter flattens such input depth-first and converts it to a flat
// buffer of the requested data type:
//
//	c := canon.New()
//	buf, err := c.ToTyped([]any{[]any{1.5, -2.7}, 0}, tensor.Int32)
//	// buf.AsInt32() == []int32{1, -2, 0}
//
// Input that already has the requested layout is returned without copying.
//
// # Debug Validation
//
// When the DEBUG flag of the converter's Environment is on, every value is
// checked for NaN, infinities and values the target type cannot hold before
// any output is allocated:
//
//	e := canon.NewEnvironment()
//	_ = e.Set(canon.FlagDebug, true)
//	c := canon.New(canon.WithEnvironment(e))
//	_, err := c.ToTyped([]any{1e40}, tensor.Int32) // errors.Is(err, canon.ErrRange)
//
// # Text
//
// Strings never go through numeric conversion. Use EncodeScalar with
// tensor.String, EncodeStrings or EncodeText, which encode through the
// converter's Platform (UTF-8 unless another encoding is named).
package canon
