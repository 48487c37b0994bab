// Package platform defines the host services the converter relies on and a
// default implementation backed by the Go runtime.
package platform

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/unicode"

	"github.com/born-ml/canon/internal/tensor"
)

// DefaultEncoding is the text encoding used when none is named.
const DefaultEncoding = "utf-8"

// Errors returned by the Go platform.
var (
	ErrUnknownEncoding = errors.New("unknown text encoding")
	ErrInvalidText     = errors.New("text is not valid for encoding")
)

// Platform supplies time, network retrieval, text codecs and buffer
// detection to the converter.
type Platform interface {
	// Now returns monotonic milliseconds.
	Now() float64
	// Fetch performs a network retrieval.
	Fetch(ctx context.Context, path string, opts *RequestOptions) (*http.Response, error)
	// Encode returns the bytes of text under the named encoding.
	Encode(text, encoding string) ([]byte, error)
	// Decode returns the text of b under the named encoding.
	Decode(b []byte, encoding string) (string, error)
	// IsTypedBuffer reports whether v is a homogeneous buffer. The
	// converter asks only about its top-level input, where the answer picks
	// the direct read and fast path. Buffers nested in other input are
	// always expanded element by element, which yields the same values
	// whatever this returns.
	IsTypedBuffer(v any) bool
}

// RequestOptions configures a Fetch call.
type RequestOptions struct {
	Method  string
	Headers map[string]string
	Body    []byte
}

// Go is the Platform implementation for native Go programs.
type Go struct {
	client *http.Client
	start  time.Time
}

// NewGo creates a Go platform. A nil client selects http.DefaultClient.
func NewGo(client *http.Client) *Go {
	if client == nil {
		client = http.DefaultClient
	}
	return &Go{client: client, start: time.Now()}
}

// Now returns milliseconds elapsed on the monotonic clock since the platform
// was created.
func (p *Go) Now() float64 {
	return float64(time.Since(p.start).Nanoseconds()) / 1e6
}

// Fetch issues an HTTP request for path.
// The caller must close the response body.
func (p *Go) Fetch(ctx context.Context, path string, opts *RequestOptions) (*http.Response, error) {
	method := http.MethodGet
	var body io.Reader
	if opts != nil {
		if opts.Method != "" {
			method = strings.ToUpper(opts.Method)
		}
		if opts.Body != nil {
			body = bytes.NewReader(opts.Body)
		}
	}

	req, err := http.NewRequestWithContext(ctx, method, path, body)
	if err != nil {
		return nil, fmt.Errorf("failed to build request for %q: %w", path, err)
	}
	if opts != nil {
		for k, v := range opts.Headers {
			req.Header.Set(k, v)
		}
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %q: %w", path, err)
	}
	return resp, nil
}

// Encode converts text to bytes using a WHATWG encoding label such as
// "utf-8", "utf-16le" or "latin1".
func (p *Go) Encode(text, encodingName string) ([]byte, error) {
	enc, err := lookup(encodingName)
	if err != nil {
		return nil, err
	}
	if enc == unicode.UTF8 {
		return []byte(text), nil
	}
	out, err := enc.NewEncoder().Bytes([]byte(text))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrInvalidText, encodingName, err)
	}
	return out, nil
}

// Decode converts bytes to text using a WHATWG encoding label.
// Invalid UTF-8 input is rejected rather than replaced.
func (p *Go) Decode(b []byte, encodingName string) (string, error) {
	enc, err := lookup(encodingName)
	if err != nil {
		return "", err
	}
	if enc == unicode.UTF8 {
		if !utf8.Valid(b) {
			return "", fmt.Errorf("%w: %s", ErrInvalidText, encodingName)
		}
		return string(b), nil
	}
	out, err := enc.NewDecoder().Bytes(b)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %w", ErrInvalidText, encodingName, err)
	}
	return string(out), nil
}

// IsTypedBuffer reports whether v is []float32, []int32, []uint8 or a
// numeric canonical buffer.
func (p *Go) IsTypedBuffer(v any) bool {
	return tensor.IsTypedBuffer(v)
}

func lookup(name string) (encoding.Encoding, error) {
	if name == "" {
		name = DefaultEncoding
	}
	enc, err := htmlindex.Get(name)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrUnknownEncoding, name)
	}
	return enc, nil
}
