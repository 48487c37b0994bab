package platform

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/canon/internal/tensor"
)

func TestGoNowIsMonotonic(t *testing.T) {
	p := NewGo(nil)
	a := p.Now()
	time.Sleep(2 * time.Millisecond)
	b := p.Now()
	assert.GreaterOrEqual(t, a, 0.0)
	assert.Greater(t, b, a)
}

func TestGoEncodeDecodeUTF8(t *testing.T) {
	p := NewGo(nil)
	for _, name := range []string{"", "utf-8", "UTF-8", "utf8"} {
		b, err := p.Encode("héllo, 世界", name)
		require.NoError(t, err, name)
		assert.Equal(t, []byte("héllo, 世界"), b)

		s, err := p.Decode(b, name)
		require.NoError(t, err, name)
		assert.Equal(t, "héllo, 世界", s)
	}
}

func TestGoEncodeDecodeNamedEncodings(t *testing.T) {
	p := NewGo(nil)

	b, err := p.Encode("café", "latin1")
	require.NoError(t, err)
	assert.Equal(t, []byte{'c', 'a', 'f', 0xE9}, b)

	s, err := p.Decode(b, "latin1")
	require.NoError(t, err)
	assert.Equal(t, "café", s)

	for _, name := range []string{"utf-16le", "utf-16be", "shift_jis", "windows-1251"} {
		text := "abc"
		b, err := p.Encode(text, name)
		require.NoError(t, err, name)
		s, err := p.Decode(b, name)
		require.NoError(t, err, name)
		assert.Equal(t, text, s, name)
	}
}

func TestGoEncodingErrors(t *testing.T) {
	p := NewGo(nil)

	_, err := p.Encode("x", "no-such-encoding")
	assert.ErrorIs(t, err, ErrUnknownEncoding)

	_, err = p.Decode([]byte("x"), "no-such-encoding")
	assert.ErrorIs(t, err, ErrUnknownEncoding)

	_, err = p.Decode([]byte{0xff, 0xfe, 0xfd}, "utf-8")
	assert.ErrorIs(t, err, ErrInvalidText)

	_, err = p.Encode("日本", "latin1")
	assert.ErrorIs(t, err, ErrInvalidText)
}

func TestGoIsTypedBuffer(t *testing.T) {
	p := NewGo(nil)
	assert.True(t, p.IsTypedBuffer([]float32{1}))
	assert.True(t, p.IsTypedBuffer(tensor.WrapInt32(nil)))
	assert.False(t, p.IsTypedBuffer([]float64{1}))
	assert.False(t, p.IsTypedBuffer("s"))
}

func TestGoFetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		w.Header().Set("X-Method", r.Method)
		w.Header().Set("X-Token", r.Header.Get("X-Token"))
		_, _ = w.Write(append([]byte("echo:"), body...))
	}))
	defer srv.Close()

	p := NewGo(srv.Client())

	t.Run("default GET", func(t *testing.T) {
		resp, err := p.Fetch(context.Background(), srv.URL, nil)
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, http.MethodGet, resp.Header.Get("X-Method"))
	})

	t.Run("options", func(t *testing.T) {
		opts := &RequestOptions{
			Method:  "post",
			Headers: map[string]string{"X-Token": "abc"},
			Body:    []byte("payload"),
		}
		resp, err := p.Fetch(context.Background(), srv.URL, opts)
		require.NoError(t, err)
		defer resp.Body.Close()

		body, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		assert.Equal(t, "echo:payload", string(body))
		assert.Equal(t, http.MethodPost, resp.Header.Get("X-Method"))
		assert.Equal(t, "abc", resp.Header.Get("X-Token"))
	})

	t.Run("cancelled context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := p.Fetch(ctx, srv.URL, nil)
		assert.ErrorIs(t, err, context.Canceled)
	})

	t.Run("bad url", func(t *testing.T) {
		_, err := p.Fetch(context.Background(), "://bad", nil)
		assert.Error(t, err)
	})
}
