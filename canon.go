// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package canon

import (
	"github.com/born-ml/canon/internal/convert"
	"github.com/born-ml/canon/internal/env"
	"github.com/born-ml/canon/internal/flatten"
	"github.com/born-ml/canon/internal/parallel"
	"github.com/born-ml/canon/internal/platform"
	"github.com/born-ml/canon/tensor"
)

// Converter normalizes input into canonical buffers.
type Converter = convert.Converter

// Option configures a Converter.
type Option = convert.Option

// RangeError describes a value rejected by debug validation.
type RangeError = convert.RangeError

// Conversion errors.
var (
	ErrUnsupportedType = convert.ErrUnsupportedType
	ErrUnknownType     = convert.ErrUnknownType
	ErrInvalidValue    = convert.ErrInvalidValue
	ErrRange           = convert.ErrRange
	ErrRaggedShape     = flatten.ErrRaggedShape
	ErrIndexOverflow   = flatten.ErrIndexOverflow
)

// New creates a Converter. Without options it uses the Go platform, a fresh
// Environment with DEBUG off, a no-op logger and CPU-count workers.
func New(opts ...Option) *Converter {
	return convert.New(opts...)
}

// Converter options.
var (
	WithPlatform    = convert.WithPlatform
	WithEnvironment = convert.WithEnvironment
	WithLogger      = convert.WithLogger
	WithParallel    = convert.WithParallel
)

// ParallelConfig controls how element-wise conversion is split across workers.
type ParallelConfig = parallel.Config

// DefaultParallelConfig returns a worker configuration sized to the CPU count.
func DefaultParallelConfig() ParallelConfig {
	return parallel.DefaultConfig()
}

// CheckForErrors reports the first value dtype cannot represent faithfully.
func CheckForErrors(values []float64, dtype tensor.DataType) error {
	return convert.CheckForErrors(values, dtype)
}

// Environment holds configuration flags.
type Environment = env.Environment

// Flag names.
const (
	FlagDebug            = env.Debug
	FlagParallelMinChunk = env.ParallelMinChunk
)

// NewEnvironment returns an Environment with the built-in flags registered.
func NewEnvironment() *Environment {
	return env.New()
}

// Platform supplies time, network, text codecs and buffer detection.
type Platform = platform.Platform

// RequestOptions configures Platform.Fetch.
type RequestOptions = platform.RequestOptions

// NewGoPlatform returns the Platform for native Go programs.
func NewGoPlatform() Platform {
	return platform.NewGo(nil)
}

// InputKind is the shape category of a nested value.
type InputKind = flatten.InputKind

// Input kinds.
const (
	KindScalar      = flatten.KindScalar
	KindTypedBuffer = flatten.KindTypedBuffer
	KindSequence    = flatten.KindSequence
	KindArrayLike   = flatten.KindArrayLike
)

// ArrayLike is a non-sequence value exposing integer-like keys.
type ArrayLike = flatten.ArrayLike

// Deferred is a pending numeric leaf resolved during conversion.
type Deferred = flatten.Deferred

// Undefined is the leaf produced for indices missing from array-like input.
var Undefined = flatten.Undefined

// Classify returns the kind of v.
func Classify(v any) InputKind {
	return flatten.Classify(v)
}

// Flatten returns the leaves of input in depth-first, left-to-right order.
// Array-like objects are walked densely up to their largest integer key, so
// a single large key produces that many leaves. A key whose dense length
// overflows int makes Flatten panic with ErrIndexOverflow; Walk reports it
// as an error instead.
func Flatten(input any, skipTypedBuffers bool) []any {
	return flatten.Flatten(input, skipTypedBuffers)
}

// InferShape reports the shape of a regular nested input.
func InferShape(input any) (tensor.Shape, error) {
	return flatten.InferShape(input)
}

// Walk calls visit for every leaf of input in flatten order and stops at the
// first error.
func Walk(input any, skipTypedBuffers bool, visit func(leaf any) error) error {
	return flatten.Walk(input, skipTypedBuffers, visit)
}
