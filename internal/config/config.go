package config

import (
	"errors"
	"fmt"
	"maps"
	"sync"
	"time"

	"github.com/dshills/pagetree/internal/config/loader"
)

// DefaultEnvPrefix is the prefix of environment variables read by Load.
const DefaultEnvPrefix = "PAGETREE_"

// Config holds merged settings from defaults, an optional file, the
// environment and explicit overrides, in increasing precedence.
type Config struct {
	mu sync.RWMutex

	data      map[string]any
	overrides map[string]any

	path      string
	envPrefix string
	fs        loader.FileSystem
}

// Option configures a Config instance.
type Option func(*Config)

// WithFile sets the config file. Its format follows the extension.
func WithFile(path string) Option {
	return func(c *Config) {
		c.path = path
	}
}

// WithEnvPrefix sets the environment prefix. An empty prefix disables
// environment loading.
func WithEnvPrefix(prefix string) Option {
	return func(c *Config) {
		c.envPrefix = prefix
	}
}

// WithFS sets the file system used to read the config file.
func WithFS(fs loader.FileSystem) Option {
	return func(c *Config) {
		if fs != nil {
			c.fs = fs
		}
	}
}

// New creates a Config holding only the defaults.
func New(opts ...Option) *Config {
	c := &Config{
		data:      Defaults(),
		overrides: make(map[string]any),
		envPrefix: DefaultEnvPrefix,
		fs:        loader.DefaultFS(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Load builds a Config with New and reads every source.
func Load(opts ...Option) (*Config, error) {
	c := New(opts...)
	if err := c.Reload(); err != nil {
		return nil, err
	}
	return c, nil
}

// Defaults returns the built-in settings.
func Defaults() map[string]any {
	return map[string]any{
		"engine": map[string]any{
			"max_buffer_length": int64(65535),
			"newline":           "auto",
			"verify_edits":      false,
		},
		"logging": map[string]any{
			"level": "info",
		},
		"script": map[string]any{
			"timeout":        "5s",
			"call_stack":     int64(256),
			"registry_limit": int64(1024 * 1024),
		},
	}
}

// Reload re-reads the file and the environment. The settings are replaced
// only if every source loads and the result validates.
func (c *Config) Reload() error {
	c.mu.RLock()
	path, prefix, fsys := c.path, c.envPrefix, c.fs
	overrides := maps.Clone(c.overrides)
	c.mu.RUnlock()

	data := Defaults()

	if path != "" {
		l, err := loader.ForPath(fsys, path)
		if err != nil {
			return fmt.Errorf("config file %s: %w", path, err)
		}
		fileData, err := l.Load()
		if err != nil {
			return err
		}
		data = loader.DeepMerge(data, fileData)
	}

	if prefix != "" {
		envData, err := loader.NewEnvLoader(prefix).Load()
		if err != nil {
			return fmt.Errorf("loading environment: %w", err)
		}
		data = loader.DeepMerge(data, envData)
	}

	for p, v := range overrides {
		loader.Set(data, p, v)
	}

	next := &Config{data: data}
	if err := next.Validate(); err != nil {
		return err
	}

	c.mu.Lock()
	c.data = data
	c.mu.Unlock()
	return nil
}

// Path returns the config file path, if any.
func (c *Config) Path() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.path
}

// Get returns the raw value at a dot-separated path.
func (c *Config) Get(path string) (any, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return loader.Get(c.data, path)
}

// Set stores an override that outranks every source and survives reloads.
func (c *Config) Set(path string, value any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.overrides[path] = value
	loader.Set(c.data, path, value)
}

// GetString returns a string value at the given path.
func (c *Config) GetString(path string) (string, error) {
	v, ok := c.Get(path)
	if !ok {
		return "", ErrSettingNotFound
	}
	s, ok := v.(string)
	if !ok {
		return "", &TypeError{Path: path, Expected: "string", Actual: typeName(v)}
	}
	return s, nil
}

// GetInt returns an integer value at the given path.
func (c *Config) GetInt(path string) (int, error) {
	v, ok := c.Get(path)
	if !ok {
		return 0, ErrSettingNotFound
	}
	switch val := v.(type) {
	case int:
		return val, nil
	case int64:
		return int(val), nil
	case uint64:
		return int(val), nil
	case float64:
		if val == float64(int(val)) {
			return int(val), nil
		}
	}
	return 0, &TypeError{Path: path, Expected: "int", Actual: typeName(v)}
}

// GetBool returns a boolean value at the given path.
func (c *Config) GetBool(path string) (bool, error) {
	v, ok := c.Get(path)
	if !ok {
		return false, ErrSettingNotFound
	}
	b, ok := v.(bool)
	if !ok {
		return false, &TypeError{Path: path, Expected: "bool", Actual: typeName(v)}
	}
	return b, nil
}

// GetDuration returns a duration given as a Go duration string, a
// time.Duration, or a whole number of milliseconds.
func (c *Config) GetDuration(path string) (time.Duration, error) {
	v, ok := c.Get(path)
	if !ok {
		return 0, ErrSettingNotFound
	}
	switch val := v.(type) {
	case time.Duration:
		return val, nil
	case string:
		d, err := time.ParseDuration(val)
		if err != nil {
			return 0, &TypeError{Path: path, Expected: "duration", Actual: fmt.Sprintf("string %q", val)}
		}
		return d, nil
	case int:
		return time.Duration(val) * time.Millisecond, nil
	case int64:
		return time.Duration(val) * time.Millisecond, nil
	}
	return 0, &TypeError{Path: path, Expected: "duration", Actual: typeName(v)}
}

// Validate checks every known setting for type and range.
func (c *Config) Validate() error {
	var errs []error

	if n, err := c.GetInt("engine.max_buffer_length"); err != nil {
		errs = append(errs, err)
	} else if n <= 0 {
		errs = append(errs, &ValidationError{Path: "engine.max_buffer_length", Message: "must be positive", Value: n})
	}

	if s, err := c.GetString("engine.newline"); err != nil {
		errs = append(errs, err)
	} else if s != "auto" && s != "lf" && s != "crlf" {
		errs = append(errs, &ValidationError{Path: "engine.newline", Message: "must be auto, lf or crlf", Value: s})
	}

	if _, err := c.GetBool("engine.verify_edits"); err != nil {
		errs = append(errs, err)
	}

	if s, err := c.GetString("logging.level"); err != nil {
		errs = append(errs, err)
	} else if !validLevel(s) {
		errs = append(errs, &ValidationError{Path: "logging.level", Message: "unknown level", Value: s})
	}

	if d, err := c.GetDuration("script.timeout"); err != nil {
		errs = append(errs, err)
	} else if d < 0 {
		errs = append(errs, &ValidationError{Path: "script.timeout", Message: "must not be negative", Value: d})
	}

	for _, p := range []string{"script.call_stack", "script.registry_limit"} {
		if n, err := c.GetInt(p); err != nil {
			errs = append(errs, err)
		} else if n <= 0 {
			errs = append(errs, &ValidationError{Path: p, Message: "must be positive", Value: n})
		}
	}

	return errors.Join(errs...)
}

func validLevel(s string) bool {
	switch s {
	case "debug", "info", "warn", "warning", "error":
		return true
	}
	return false
}

// typeName returns a simple type name for error messages.
func typeName(v any) string {
	if v == nil {
		return "nil"
	}
	switch v.(type) {
	case string:
		return "string"
	case int, int64, uint64:
		return "int"
	case float64:
		return "float64"
	case bool:
		return "bool"
	case time.Duration:
		return "duration"
	case []any:
		return "[]any"
	case map[string]any:
		return "map"
	default:
		return fmt.Sprintf("%T", v)
	}
}
