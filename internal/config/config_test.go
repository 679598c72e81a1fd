package config

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/dshills/pagetree/internal/config/watcher"
)

type memFS struct {
	files map[string][]byte
}

func newMemFS(files map[string]string) *memFS {
	m := &memFS{files: make(map[string][]byte)}
	for p, s := range files {
		m.files[p] = []byte(s)
	}
	return m
}

func (m *memFS) Open(name string) (fs.File, error) { return nil, fs.ErrNotExist }

func (m *memFS) ReadFile(path string) ([]byte, error) {
	data, ok := m.files[path]
	if !ok {
		return nil, fs.ErrNotExist
	}
	return data, nil
}

func (m *memFS) Stat(path string) (fs.FileInfo, error) {
	if _, ok := m.files[path]; ok {
		return nil, nil
	}
	return nil, fs.ErrNotExist
}

func TestDefaults(t *testing.T) {
	c, err := Load(WithEnvPrefix(""))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	e := c.Engine()
	if e.MaxBufferLength != 65535 || e.Newline != "auto" || e.VerifyEdits {
		t.Errorf("Engine() = %+v", e)
	}
	if got := c.Logging().Level; got != "info" {
		t.Errorf("Logging().Level = %q, want info", got)
	}
	s := c.Script()
	if s.Timeout != 5*time.Second || s.CallStackSize != 256 || s.RegistryLimit != 1<<20 {
		t.Errorf("Script() = %+v", s)
	}
}

func TestLoad_Files(t *testing.T) {
	files := map[string]string{
		"/pagetree.toml": `
[engine]
max_buffer_length = 16
newline = "lf"

[logging]
level = "debug"
`,
		"/pagetree.yaml": `
engine:
  verify_edits: true
script:
  timeout: 250ms
`,
	}

	tests := []struct {
		name  string
		path  string
		check func(t *testing.T, c *Config)
	}{
		{
			name: "toml",
			path: "/pagetree.toml",
			check: func(t *testing.T, c *Config) {
				e := c.Engine()
				if e.MaxBufferLength != 16 || e.Newline != "lf" {
					t.Errorf("Engine() = %+v", e)
				}
				if c.Logging().Level != "debug" {
					t.Errorf("level = %q", c.Logging().Level)
				}
			},
		},
		{
			name: "yaml",
			path: "/pagetree.yaml",
			check: func(t *testing.T, c *Config) {
				if !c.Engine().VerifyEdits {
					t.Error("verify_edits not read")
				}
				if got := c.Script().Timeout; got != 250*time.Millisecond {
					t.Errorf("timeout = %v", got)
				}
				if c.Engine().MaxBufferLength != 65535 {
					t.Error("default lost when merging")
				}
			},
		},
		{
			name: "missing file keeps defaults",
			path: "/absent.toml",
			check: func(t *testing.T, c *Config) {
				if c.Engine().Newline != "auto" {
					t.Errorf("newline = %q", c.Engine().Newline)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := Load(WithFile(tt.path), WithFS(newMemFS(files)), WithEnvPrefix(""))
			if err != nil {
				t.Fatalf("Load() error = %v", err)
			}
			if c.Path() != tt.path {
				t.Errorf("Path() = %q", c.Path())
			}
			tt.check(t, c)
		})
	}
}

func TestLoad_UnsupportedFormat(t *testing.T) {
	_, err := Load(WithFile("/pagetree.ini"), WithFS(newMemFS(nil)), WithEnvPrefix(""))
	if err == nil {
		t.Fatal("expected error for .ini")
	}
}

func TestLoad_Env(t *testing.T) {
	t.Setenv("PAGETREE_NEWLINE", "crlf")
	t.Setenv("PAGETREE_ENGINE_MAX_BUFFER_LENGTH", "128")
	t.Setenv("PAGETREE_LOG_LEVEL", "warn")

	fsys := newMemFS(map[string]string{"/p.toml": "[engine]\nmax_buffer_length = 64\n"})
	c, err := Load(WithFile("/p.toml"), WithFS(fsys))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	e := c.Engine()
	if e.Newline != "crlf" {
		t.Errorf("Newline = %q, want crlf", e.Newline)
	}
	if e.MaxBufferLength != 128 {
		t.Errorf("MaxBufferLength = %d, env should outrank the file", e.MaxBufferLength)
	}
	if c.Logging().Level != "warn" {
		t.Errorf("Level = %q", c.Logging().Level)
	}
}

func TestSet_SurvivesReload(t *testing.T) {
	t.Setenv("PAGETREE_NEWLINE", "crlf")

	c := New()
	c.Set("engine.newline", "lf")
	if err := c.Reload(); err != nil {
		t.Fatalf("Reload() error = %v", err)
	}
	if got := c.Engine().Newline; got != "lf" {
		t.Errorf("Newline = %q, override should outrank env", got)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		path    string
		value   any
		wantErr error
	}{
		{"negative buffer", "engine.max_buffer_length", int64(-1), ErrValidationFailed},
		{"bad newline", "engine.newline", "cr", ErrValidationFailed},
		{"bad level", "logging.level", "loud", ErrValidationFailed},
		{"wrong type", "engine.verify_edits", "maybe", ErrTypeMismatch},
		{"bad duration", "script.timeout", "soon", ErrTypeMismatch},
		{"zero stack", "script.call_stack", 0, ErrValidationFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := New(WithEnvPrefix(""))
			c.Set(tt.path, tt.value)
			err := c.Validate()
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Validate() = %v, want %v", err, tt.wantErr)
			}
			if rerr := c.Reload(); !errors.Is(rerr, tt.wantErr) {
				t.Errorf("Reload() = %v, want %v", rerr, tt.wantErr)
			}
		})
	}
}

func TestReload_KeepsPreviousOnError(t *testing.T) {
	fsys := newMemFS(map[string]string{"/p.toml": "[engine]\nnewline = \"lf\"\n"})
	c, err := Load(WithFile("/p.toml"), WithFS(fsys), WithEnvPrefix(""))
	if err != nil {
		t.Fatal(err)
	}

	fsys.files["/p.toml"] = []byte("[engine]\nnewline = \"cr\"\n")
	if err := c.Reload(); err == nil {
		t.Fatal("Reload() should reject newline = cr")
	}
	if got := c.Engine().Newline; got != "lf" {
		t.Errorf("Newline = %q, previous settings should stay", got)
	}
}

func TestGetters(t *testing.T) {
	c := New(WithEnvPrefix(""))

	if _, err := c.GetString("engine.missing"); !errors.Is(err, ErrSettingNotFound) {
		t.Errorf("GetString(missing) = %v", err)
	}
	if _, err := c.GetInt("engine.newline"); !errors.Is(err, ErrTypeMismatch) {
		t.Errorf("GetInt(string) = %v", err)
	}

	var te *TypeError
	_, err := c.GetBool("engine.newline")
	if !errors.As(err, &te) || te.Path != "engine.newline" || te.Expected != "bool" {
		t.Errorf("GetBool error = %#v", err)
	}

	c.Set("script.timeout", int64(1500))
	if d, err := c.GetDuration("script.timeout"); err != nil || d != 1500*time.Millisecond {
		t.Errorf("GetDuration(ms) = %v, %v", d, err)
	}
	c.Set("engine.max_buffer_length", float64(32))
	if n, err := c.GetInt("engine.max_buffer_length"); err != nil || n != 32 {
		t.Errorf("GetInt(float) = %d, %v", n, err)
	}
}

func TestWatch_NoFile(t *testing.T) {
	c := New()
	if err := c.Watch(context.Background(), nil); !errors.Is(err, ErrNoConfigFile) {
		t.Errorf("Watch() = %v, want ErrNoConfigFile", err)
	}
}

func TestWatch_Reloads(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pagetree.toml")
	if err := os.WriteFile(path, []byte("[engine]\nnewline = \"lf\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	c, err := Load(WithFile(path), WithEnvPrefix(""))
	if err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	reloaded := make(chan string, 8)
	done := make(chan error, 1)
	go func() {
		done <- c.Watch(ctx, func(c *Config, err error) {
			if err == nil {
				reloaded <- c.Engine().Newline
			}
		}, watcher.WithDebounce(20*time.Millisecond))
	}()

	// The watch is registered asynchronously; rewrite until it is seen.
	deadline := time.After(5 * time.Second)
	tick := time.NewTicker(100 * time.Millisecond)
	defer tick.Stop()
	for {
		if err := os.WriteFile(path, []byte("[engine]\nnewline = \"crlf\"\n"), 0o644); err != nil {
			t.Fatal(err)
		}
		select {
		case nl := <-reloaded:
			if nl != "crlf" {
				t.Errorf("reloaded newline = %q", nl)
			}
			cancel()
			if err := <-done; err != nil {
				t.Errorf("Watch() = %v", err)
			}
			return
		case <-deadline:
			t.Fatal("config was not reloaded")
		case <-tick.C:
		}
	}
}
