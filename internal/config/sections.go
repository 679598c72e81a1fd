package config

import "time"

// Section accessors return snapshot structs. Invalid values fall back to
// the defaults; Validate reports them.

// EngineConfig holds page engine settings.
type EngineConfig struct {
	// MaxBufferLength caps the size of an edit buffer in bytes.
	MaxBufferLength int

	// Newline is "auto", "lf" or "crlf". Auto detects it per document.
	Newline string

	// VerifyEdits validates both trees after every applied action.
	VerifyEdits bool
}

// LoggingConfig holds logger settings.
type LoggingConfig struct {
	Level string
}

// ScriptConfig holds Lua scripting limits.
type ScriptConfig struct {
	// Timeout bounds a single script run. Zero means no limit.
	Timeout time.Duration

	CallStackSize int
	RegistryLimit int
}

// Engine returns the engine section.
func (c *Config) Engine() EngineConfig {
	return EngineConfig{
		MaxBufferLength: c.getIntOr("engine.max_buffer_length", 65535),
		Newline:         c.getStringOr("engine.newline", "auto"),
		VerifyEdits:     c.getBoolOr("engine.verify_edits", false),
	}
}

// Logging returns the logging section.
func (c *Config) Logging() LoggingConfig {
	return LoggingConfig{
		Level: c.getStringOr("logging.level", "info"),
	}
}

// Script returns the script section.
func (c *Config) Script() ScriptConfig {
	return ScriptConfig{
		Timeout:       c.getDurationOr("script.timeout", 5*time.Second),
		CallStackSize: c.getIntOr("script.call_stack", 256),
		RegistryLimit: c.getIntOr("script.registry_limit", 1024*1024),
	}
}

func (c *Config) getStringOr(path, def string) string {
	if v, err := c.GetString(path); err == nil {
		return v
	}
	return def
}

func (c *Config) getIntOr(path string, def int) int {
	if v, err := c.GetInt(path); err == nil {
		return v
	}
	return def
}

func (c *Config) getBoolOr(path string, def bool) bool {
	if v, err := c.GetBool(path); err == nil {
		return v
	}
	return def
}

func (c *Config) getDurationOr(path string, def time.Duration) time.Duration {
	if v, err := c.GetDuration(path); err == nil {
		return v
	}
	return def
}
