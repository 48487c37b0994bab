// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package tensor provides the data types and canonical buffers produced by
// the canon normalization layer.
//
// # Supported Data Types
//
//   - float32 (default for unspecified targets)
//   - int32
//   - bool, stored as one 0/1 byte per element
//   - string, stored as one encoded byte sequence per value
//   - complex64, stored as float32 components; each value takes two
//     consecutive elements (real, imaginary) and Len counts components
//
// # Buffers
//
// A Buffer is a flat, homogeneously typed block of memory. Numeric buffers
// expose zero-copy typed views:
//
//	buf, _ := tensor.NewBuffer(tensor.Int32, 4)
//	ints := buf.AsInt32()
//	ints[0] = 7
//
// Wrap functions build buffers around existing slices without copying, which
// is how already canonical input passes through conversion unchanged:
//
//	data := []float32{1, 2, 3}
//	buf := tensor.WrapFloat32(data) // shares memory with data
package tensor
