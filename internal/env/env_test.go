package env

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	e := New()

	debug, err := e.GetBool(Debug)
	require.NoError(t, err)
	assert.False(t, debug)
	assert.False(t, e.DebugEnabled())

	chunk, err := e.GetNumber(ParallelMinChunk)
	require.NoError(t, err)
	assert.Equal(t, 4096.0, chunk)

	assert.Equal(t, []string{Debug, ParallelMinChunk}, e.Names())
}

func TestNilEnvironmentIsNotDebug(t *testing.T) {
	var e *Environment
	assert.False(t, e.DebugEnabled())
}

func TestSetAndReset(t *testing.T) {
	e := New()
	require.NoError(t, e.Set(Debug, true))
	assert.True(t, e.DebugEnabled())

	e.Reset()
	assert.False(t, e.DebugEnabled())
}

func TestSetErrors(t *testing.T) {
	e := New()
	assert.ErrorIs(t, e.Set("NOPE", true), ErrUnknownFlag)
	assert.ErrorIs(t, e.Set(Debug, "yes"), ErrFlagType)

	assert.ErrorIs(t, e.Set(Debug, 1), ErrFlagType)
	assert.ErrorIs(t, e.Set(ParallelMinChunk, true), ErrFlagType)

	_, err := e.GetNumber("NOPE")
	assert.ErrorIs(t, err, ErrUnknownFlag)
}

func TestFlagKindMismatchKeepsPreviousValue(t *testing.T) {
	tests := []struct {
		name  string
		apply func(e *Environment) error
	}{
		{"parse number for bool", func(e *Environment) error { return e.ParseFlags("DEBUG:1") }},
		{"parse zero for bool", func(e *Environment) error { return e.ParseFlags("DEBUG:0") }},
		{"parse bool for number", func(e *Environment) error { return e.ParseFlags("PARALLEL_MIN_CHUNK:true") }},
		{"yaml number for bool", func(e *Environment) error { return e.LoadYAML(strings.NewReader("DEBUG: 1\n")) }},
		{"yaml bool for number", func(e *Environment) error { return e.LoadYAML(strings.NewReader("PARALLEL_MIN_CHUNK: false\n")) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := New()
			require.NoError(t, e.Set(Debug, true))

			assert.ErrorIs(t, tt.apply(e), ErrFlagType)

			debug, err := e.GetBool(Debug)
			require.NoError(t, err)
			assert.True(t, debug)
			chunk, err := e.GetNumber(ParallelMinChunk)
			require.NoError(t, err)
			assert.Equal(t, 4096.0, chunk)
		})
	}
}

func TestIntegerDefaultAcceptsNumbers(t *testing.T) {
	e := New()
	e.RegisterFlag("WORKERS", func() FlagValue { return 4 })

	n, err := e.GetNumber("WORKERS")
	require.NoError(t, err)
	assert.Equal(t, 4.0, n)

	require.NoError(t, e.ParseFlags("WORKERS:8"))
	n, err = e.GetNumber("WORKERS")
	require.NoError(t, err)
	assert.Equal(t, 8.0, n)
}

func TestLazyEvaluation(t *testing.T) {
	e := New()
	calls := 0
	e.RegisterFlag("COUNTED", func() FlagValue {
		calls++
		return true
	})
	assert.Equal(t, 0, calls)

	for i := 0; i < 3; i++ {
		on, err := e.GetBool("COUNTED")
		require.NoError(t, err)
		assert.True(t, on)
	}
	assert.Equal(t, 1, calls)
}

func TestParseFlags(t *testing.T) {
	e := New()
	require.NoError(t, e.ParseFlags("DEBUG:true, PARALLEL_MIN_CHUNK:128"))
	assert.True(t, e.DebugEnabled())

	chunk, err := e.GetNumber(ParallelMinChunk)
	require.NoError(t, err)
	assert.Equal(t, 128.0, chunk)

	require.NoError(t, e.ParseFlags(""))
	assert.Error(t, e.ParseFlags("DEBUG"))
	assert.Error(t, e.ParseFlags("DEBUG:maybe"))
	assert.ErrorIs(t, e.ParseFlags("MISSING:true"), ErrUnknownFlag)
}

func TestFromEnv(t *testing.T) {
	t.Setenv(FlagsEnvVar, "DEBUG:true")
	e := New()
	require.NoError(t, e.FromEnv())
	assert.True(t, e.DebugEnabled())

	t.Setenv(FlagsEnvVar, "DEBUG:nope")
	assert.Error(t, New().FromEnv())
}

func TestLoadYAML(t *testing.T) {
	e := New()
	doc := "DEBUG: true\nPARALLEL_MIN_CHUNK: 1024\n"
	require.NoError(t, e.LoadYAML(strings.NewReader(doc)))

	assert.True(t, e.DebugEnabled())
	chunk, err := e.GetNumber(ParallelMinChunk)
	require.NoError(t, err)
	assert.Equal(t, 1024.0, chunk)
}

func TestLoadYAMLEmptyAndInvalid(t *testing.T) {
	e := New()
	require.NoError(t, e.LoadYAML(strings.NewReader("")))
	assert.False(t, e.DebugEnabled())

	assert.Error(t, e.LoadYAML(strings.NewReader("DEBUG: [true")))
	assert.ErrorIs(t, e.LoadYAML(strings.NewReader("OTHER: 1\n")), ErrUnknownFlag)
	assert.ErrorIs(t, e.LoadYAML(strings.NewReader("DEBUG: on-ish\n")), ErrFlagType)
}
