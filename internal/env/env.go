// Package env holds the process configuration flags read by the converter.
//
// Flags are registered with a lazily evaluated default and can be
// overridden programmatically, from a "NAME:value,NAME:value" string (the
// BORN_FLAGS environment variable uses this syntax) or from a YAML mapping.
// An Environment is passed explicitly to the components that read it.
package env

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

// Built-in flag names.
const (
	// Debug enables range validation before every numeric conversion.
	Debug = "DEBUG"
	// ParallelMinChunk is the smallest element count converted per worker.
	ParallelMinChunk = "PARALLEL_MIN_CHUNK"
)

// FlagsEnvVar is the environment variable FromEnv reads flag overrides from.
const FlagsEnvVar = "BORN_FLAGS"

// Errors returned by flag operations.
var (
	ErrUnknownFlag = errors.New("unknown flag")
	ErrFlagType    = errors.New("flag value has the wrong type")
)

// FlagValue is a bool or a float64.
type FlagValue any

type flag struct {
	evaluate  func() FlagValue
	def       FlagValue
	evaluated bool
	value     FlagValue
	set       bool
}

// defaultValue evaluates the default once and caches it. Integer defaults
// are widened to float64.
func (f *flag) defaultValue() FlagValue {
	if !f.evaluated {
		f.def = f.evaluate()
		if v, err := normalize(f.def); err == nil {
			f.def = v
		}
		f.evaluated = true
	}
	return f.def
}

// current returns the override if there is one, otherwise the default.
func (f *flag) current() FlagValue {
	if f.set {
		return f.value
	}
	return f.defaultValue()
}

// Environment is a registry of named flags.
// It is safe for concurrent use.
type Environment struct {
	mu    sync.RWMutex
	flags map[string]*flag
}

// New returns an Environment with the built-in flags registered.
func New() *Environment {
	e := &Environment{flags: make(map[string]*flag)}
	e.RegisterFlag(Debug, func() FlagValue { return false })
	e.RegisterFlag(ParallelMinChunk, func() FlagValue { return float64(4096) })
	return e
}

// RegisterFlag adds a flag whose default is computed by evaluate on first read.
// Registering an existing name replaces its default and clears any override.
func (e *Environment) RegisterFlag(name string, evaluate func() FlagValue) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.flags[name] = &flag{evaluate: evaluate}
}

// Names returns the registered flag names in sorted order.
func (e *Environment) Names() []string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	names := make([]string, 0, len(e.flags))
	for name := range e.flags {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Get returns the current value of a flag.
func (e *Environment) Get(name string) (FlagValue, error) {
	e.mu.RLock()
	f, ok := e.flags[name]
	if ok && (f.set || f.evaluated) {
		v := f.current()
		e.mu.RUnlock()
		return v, nil
	}
	e.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownFlag, name)
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	return f.current(), nil
}

// GetBool returns a boolean flag.
func (e *Environment) GetBool(name string) (bool, error) {
	v, err := e.Get(name)
	if err != nil {
		return false, err
	}
	b, ok := v.(bool)
	if !ok {
		return false, fmt.Errorf("%w: %s is %T, not bool", ErrFlagType, name, v)
	}
	return b, nil
}

// GetNumber returns a numeric flag.
func (e *Environment) GetNumber(name string) (float64, error) {
	v, err := e.Get(name)
	if err != nil {
		return 0, err
	}
	n, ok := v.(float64)
	if !ok {
		return 0, fmt.Errorf("%w: %s is %T, not number", ErrFlagType, name, v)
	}
	return n, nil
}

// DebugEnabled reports whether the DEBUG flag is set. Read errors count as
// off; callers that must not miss a misconfigured flag use GetBool.
func (e *Environment) DebugEnabled() bool {
	if e == nil {
		return false
	}
	on, err := e.GetBool(Debug)
	return err == nil && on
}

// Set overrides a registered flag. The value must be a bool or a number,
// matching the kind of the flag's default.
func (e *Environment) Set(name string, value any) error {
	v, err := normalize(value)
	if err != nil {
		return fmt.Errorf("flag %s: %w", name, err)
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	f, ok := e.flags[name]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownFlag, name)
	}
	if want, got := kindOf(f.defaultValue()), kindOf(v); want != got {
		return fmt.Errorf("%w: %s expects a %s, got %s %v", ErrFlagType, name, want, got, v)
	}
	f.value = v
	f.set = true
	return nil
}

// Reset drops every override so flags re-evaluate their defaults.
func (e *Environment) Reset() {
	e.mu.Lock()
	defer e.mu.Unlock()
	for _, f := range e.flags {
		f.value = nil
		f.set = false
		f.def = nil
		f.evaluated = false
	}
}

// ParseFlags applies overrides written as "NAME:value" pairs separated by commas.
// Values are "true", "false" or numbers.
func (e *Environment) ParseFlags(s string) error {
	for _, pair := range strings.Split(s, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		name, raw, ok := strings.Cut(pair, ":")
		if !ok {
			return fmt.Errorf("flag %q: expected NAME:value", pair)
		}
		v, err := parseValue(strings.TrimSpace(raw))
		if err != nil {
			return fmt.Errorf("flag %s: %w", name, err)
		}
		if err := e.Set(strings.TrimSpace(name), v); err != nil {
			return err
		}
	}
	return nil
}

// FromEnv applies overrides from the BORN_FLAGS environment variable.
func (e *Environment) FromEnv() error {
	s, ok := os.LookupEnv(FlagsEnvVar)
	if !ok {
		return nil
	}
	if err := e.ParseFlags(s); err != nil {
		return fmt.Errorf("%s: %w", FlagsEnvVar, err)
	}
	return nil
}

// LoadYAML applies overrides from a YAML mapping of flag names to values.
//
//	DEBUG: true
//	PARALLEL_MIN_CHUNK: 1024
func (e *Environment) LoadYAML(r io.Reader) error {
	var doc map[string]any
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return fmt.Errorf("failed to decode flags: %w", err)
	}

	names := make([]string, 0, len(doc))
	for name := range doc {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if err := e.Set(name, doc[name]); err != nil {
			return err
		}
	}
	return nil
}

func parseValue(raw string) (FlagValue, error) {
	switch strings.ToLower(raw) {
	case "true":
		return true, nil
	case "false":
		return false, nil
	}
	n, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid value %q: must be true, false or a number", raw)
	}
	return n, nil
}

func normalize(value any) (FlagValue, error) {
	switch v := value.(type) {
	case bool:
		return v, nil
	case float64:
		return v, nil
	case float32:
		return float64(v), nil
	case int:
		return float64(v), nil
	case int32:
		return float64(v), nil
	case int64:
		return float64(v), nil
	case uint64:
		return float64(v), nil
	default:
		return nil, fmt.Errorf("%w: %T", ErrFlagType, value)
	}
}

// kindOf names the kind of a flag value: "bool", "number" or its Go type.
func kindOf(v FlagValue) string {
	switch v.(type) {
	case bool:
		return "bool"
	case float64:
		return "number"
	default:
		return fmt.Sprintf("%T", v)
	}
}
