package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/born-ml/canon/internal/convert"
	"github.com/born-ml/canon/internal/env"
	"github.com/born-ml/canon/internal/flatten"
)

var nestedInput = filepath.Join("testdata", "nested.json")

// run executes the root command with args and stdin, returning stdout.
func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	t.Setenv("BORN_FLAGS", "")

	buf := &bytes.Buffer{}
	cmd := NewRootCommand()
	cmd.SetOut(buf)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

func assertGolden(t *testing.T, name, actual string) {
	t.Helper()
	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, name, []byte(actual))
}

func TestFlattenGolden(t *testing.T) {
	out, err := run(t, "", "flatten", nestedInput)
	require.NoError(t, err)
	assertGolden(t, "flatten_nested", out)
}

func TestConvertGolden(t *testing.T) {
	for _, dtype := range []string{"int32", "float32", "bool"} {
		t.Run(dtype, func(t *testing.T) {
			out, err := run(t, "", "convert", nestedInput, "--dtype", dtype)
			require.NoError(t, err)
			assertGolden(t, "convert_"+dtype, out)
		})
	}
}

func TestConvertFromStdinJSON(t *testing.T) {
	out, err := run(t, "[0, 0.4, -0.4, 1, -1]", "convert", "--dtype", "bool", "--format", "json")
	require.NoError(t, err)

	var resp Response
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)

	data := resp.Data.(map[string]any)
	assert.Equal(t, "bool", data["dtype"])
	assert.Equal(t, float64(5), data["length"])
	assert.Equal(t, []any{0.0, 0.0, 0.0, 1.0, 1.0}, data["values"])
}

func TestConvertJSONMapsNaNToNull(t *testing.T) {
	out, err := run(t, `{"1": 2}`, "convert", "--format", "json")
	require.NoError(t, err)

	var resp Response
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	data := resp.Data.(map[string]any)
	assert.Equal(t, []any{nil, 2.0}, data["values"])
}

func TestConvertDebug(t *testing.T) {
	t.Run("flag", func(t *testing.T) {
		_, err := run(t, "[1e40]", "convert", "--dtype", "int32", "--debug")
		assert.ErrorIs(t, err, convert.ErrRange)
	})

	t.Run("flag overrides", func(t *testing.T) {
		_, err := run(t, "[1e40]", "--flags", "DEBUG:true", "convert", "--dtype", "int32")
		assert.ErrorIs(t, err, convert.ErrRange)
	})

	t.Run("config file", func(t *testing.T) {
		_, err := run(t, "[1e40]", "--config", filepath.Join("testdata", "debug.yaml"), "convert", "--dtype", "int32")
		assert.ErrorIs(t, err, convert.ErrRange)
	})

	t.Run("off", func(t *testing.T) {
		_, err := run(t, "[1e40]", "convert", "--dtype", "int32")
		assert.NoError(t, err)
	})
}

func TestConvertErrors(t *testing.T) {
	_, err := run(t, "[1]", "convert", "--dtype", "string")
	assert.ErrorIs(t, err, convert.ErrUnsupportedType)

	_, err = run(t, "[1]", "convert", "--dtype", "float64")
	assert.Error(t, err)

	_, err = run(t, "[1", "convert")
	assert.ErrorContains(t, err, "failed to decode JSON input")

	_, err = run(t, "", "convert", filepath.Join("testdata", "missing.json"))
	assert.ErrorContains(t, err, "failed to open input")

	_, err = run(t, "[1]", "--flags", "NOPE:1", "convert")
	assert.Error(t, err)

	_, err = run(t, "[1e40]", "--flags", "DEBUG:1", "convert", "--dtype", "int32")
	assert.ErrorIs(t, err, env.ErrFlagType)
}

func TestShape(t *testing.T) {
	out, err := run(t, "[[1,2,3],[4,5,6]]", "shape")
	require.NoError(t, err)
	assert.Equal(t, "[2 3]\n", out)

	_, err = run(t, "", "shape", nestedInput)
	assert.Error(t, err)

	out, err = run(t, "[[1,2,3],[4,5,6]]", "shape", "--format", "json")
	require.NoError(t, err)
	var resp Response
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	data := resp.Data.(map[string]any)
	assert.Equal(t, []any{2.0, 3.0}, data["shape"])
	assert.Equal(t, []any{3.0, 1.0}, data["strides"])
	assert.Equal(t, 6.0, data["size"])
}

// syncCounter is a log sink that records flushes.
type syncCounter struct {
	bytes.Buffer
	syncs int
}

func (s *syncCounter) Sync() error {
	s.syncs++
	return nil
}

func TestVerboseLoggerIsFlushed(t *testing.T) {
	sink := &syncCounter{}
	orig := newVerboseLogger
	newVerboseLogger = func() (*zap.Logger, error) {
		enc := zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig())
		return zap.New(zapcore.NewCore(enc, sink, zapcore.DebugLevel)), nil
	}
	t.Cleanup(func() { newVerboseLogger = orig })

	_, err := run(t, "[1e40]", "--verbose", "convert", "--dtype", "int32", "--debug")
	require.ErrorIs(t, err, convert.ErrRange)
	assert.Contains(t, sink.String(), "conversion check failed")
	assert.Equal(t, 1, sink.syncs)

	_, err = run(t, "", "--verbose", "encode", "x")
	require.NoError(t, err)
	assert.Equal(t, 2, sink.syncs)
}

func TestFlattenIndexOverflow(t *testing.T) {
	input := fmt.Sprintf(`{%q: 7}`, strconv.Itoa(math.MaxInt))
	_, err := run(t, input, "flatten")
	assert.ErrorIs(t, err, flatten.ErrIndexOverflow)

	_, err = run(t, input, "convert")
	assert.ErrorIs(t, err, flatten.ErrIndexOverflow)
}

func TestFlattenJSON(t *testing.T) {
	out, err := run(t, `{"0": "a", "2": "c"}`, "flatten", "--format", "json")
	require.NoError(t, err)

	var resp Response
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	data := resp.Data.(map[string]any)
	assert.Equal(t, []any{"a", nil, "c"}, data["leaves"])
	assert.Equal(t, 3.0, data["count"])
}

func TestEncodeDecode(t *testing.T) {
	out, err := run(t, "", "encode", "café", "--encoding", "latin1")
	require.NoError(t, err)
	assert.Equal(t, "636166e9\n", out)

	out, err = run(t, "", "decode", "636166e9", "--encoding", "latin1")
	require.NoError(t, err)
	assert.Equal(t, "café\n", out)

	out, err = run(t, "", "encode", "é")
	require.NoError(t, err)
	assert.Equal(t, "c3a9\n", out)

	_, err = run(t, "", "decode", "zz")
	assert.ErrorContains(t, err, "invalid hex input")

	_, err = run(t, "", "decode", "ff")
	assert.Error(t, err)
}

func TestVersionAndFormat(t *testing.T) {
	out, err := run(t, "", "version")
	require.NoError(t, err)
	assert.Equal(t, "born "+Version+"\n", out)

	_, err = run(t, "", "version", "--format", "yaml")
	assert.ErrorContains(t, err, "invalid format")
}
