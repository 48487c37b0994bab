// Package convert turns nested input into canonical tensor buffers.
//
// A Converter owns no mutable state. Every call reads the DEBUG flag from
// its Environment, so validation can be switched on without rebuilding the
// converter:
//
//	c := convert.New(convert.WithEnvironment(e))
//	buf, err := c.ToTyped([]any{[]any{1, 2}, []any{3, 4}}, tensor.Int32)
//	if err != nil {
//	    return err
//	}
//	values := buf.AsInt32() // [1 2 3 4]
//
// Numeric conversion and text encoding are separate paths: ToTyped rejects
// tensor.String, and strings go through EncodeScalar, EncodeStrings or
// EncodeText instead.
package convert

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	"github.com/born-ml/canon/internal/env"
	"github.com/born-ml/canon/internal/parallel"
	"github.com/born-ml/canon/internal/platform"
)

// Converter normalizes input into canonical buffers.
// It is safe for concurrent use.
type Converter struct {
	platform platform.Platform
	env      *env.Environment
	logger   *zap.Logger
	parallel parallel.Config
}

// Option configures a Converter.
type Option func(*Converter)

// WithPlatform sets the host platform. The default is platform.NewGo(nil).
func WithPlatform(p platform.Platform) Option {
	return func(c *Converter) {
		c.platform = p
	}
}

// WithEnvironment sets the flag environment. The default is env.New().
func WithEnvironment(e *env.Environment) Option {
	return func(c *Converter) {
		c.env = e
	}
}

// WithLogger sets the logger. The default is the no-op Logger().
func WithLogger(l *zap.Logger) Option {
	return func(c *Converter) {
		c.logger = l
	}
}

// WithParallel sets the worker configuration for element-wise conversion.
// PARALLEL_MIN_CHUNK in the environment overrides cfg.MinChunkSize.
func WithParallel(cfg parallel.Config) Option {
	return func(c *Converter) {
		c.parallel = cfg
	}
}

// New creates a Converter.
func New(opts ...Option) *Converter {
	c := &Converter{}
	for _, opt := range opts {
		opt(c)
	}
	if c.platform == nil {
		c.platform = platform.NewGo(nil)
	}
	if c.env == nil {
		c.env = env.New()
	}
	if c.logger == nil {
		c.logger = Logger()
	}
	if c.parallel.NumWorkers == 0 {
		c.parallel = parallel.DefaultConfig()
	}
	return c
}

// Platform returns the converter's platform.
func (c *Converter) Platform() platform.Platform {
	return c.platform
}

// Environment returns the converter's flag environment.
func (c *Converter) Environment() *env.Environment {
	return c.env
}

// Now returns monotonic milliseconds from the platform clock.
func (c *Converter) Now() float64 {
	return c.platform.Now()
}

// Fetch performs a network retrieval through the platform.
func (c *Converter) Fetch(ctx context.Context, path string, opts *platform.RequestOptions) (*http.Response, error) {
	return c.platform.Fetch(ctx, path, opts)
}

// parallelConfig applies the PARALLEL_MIN_CHUNK flag to the base config.
func (c *Converter) parallelConfig() parallel.Config {
	cfg := c.parallel
	if n, err := c.env.GetNumber(env.ParallelMinChunk); err == nil && n >= 1 {
		cfg.MinChunkSize = int(n)
	}
	return cfg
}
