// Package config loads pagetree settings.
//
// Settings come from four layers, later layers overriding earlier ones:
//
//  1. Built-in defaults (Defaults)
//  2. A config file, TOML or YAML by extension
//  3. Environment variables prefixed with PAGETREE_
//  4. Overrides set with Config.Set, such as command-line flags
//
// A TOML file looks like:
//
//	[engine]
//	max_buffer_length = 65535
//	newline = "auto"      # auto, lf or crlf
//	verify_edits = false
//
//	[logging]
//	level = "info"
//
//	[script]
//	timeout = "5s"
//
// Environment variables map PAGETREE_SECTION_SETTING onto section.setting,
// so PAGETREE_ENGINE_VERIFY_EDITS=true sets engine.verify_edits. The
// shorthands PAGETREE_LOG_LEVEL, PAGETREE_NEWLINE and PAGETREE_VERIFY are
// also recognized.
//
// Watch reloads the file when it changes on disk.
package config
