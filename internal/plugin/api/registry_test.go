package api

import (
	"context"
	"errors"
	"reflect"
	"testing"

	lua "github.com/yuin/gopher-lua"
)

type stubModule struct {
	name string
	err  error
}

func (m *stubModule) Name() string { return m.name }

func (m *stubModule) Register(L *lua.LState) (*lua.LTable, error) {
	if m.err != nil {
		return nil, m.err
	}
	mod := L.NewTable()
	mod.RawSetString("name", lua.LString(m.name))
	return mod, nil
}

func TestRegistry(t *testing.T) {
	r := NewRegistry()
	for _, name := range []string{"b", "a"} {
		if err := r.Register(&stubModule{name: name}); err != nil {
			t.Fatalf("Register(%s) error = %v", name, err)
		}
	}
	if err := r.Register(&stubModule{name: "a"}); err == nil {
		t.Error("duplicate Register() should fail")
	}

	if got := r.List(); !reflect.DeepEqual(got, []string{"a", "b"}) {
		t.Errorf("List() = %v", got)
	}
	if _, ok := r.Get("a"); !ok {
		t.Error("Get(a) not found")
	}
	if _, ok := r.Get("c"); ok {
		t.Error("Get(c) found")
	}

	L := lua.NewState()
	defer L.Close()
	if err := r.InjectAll(L); err != nil {
		t.Fatalf("InjectAll() error = %v", err)
	}
	if err := L.DoString(`
assert(a.name == "a" and b.name == "b")
assert(require("pagetree").b.name == "b")
`); err != nil {
		t.Errorf("injected modules: %v", err)
	}
}

func TestRegistry_InjectError(t *testing.T) {
	boom := errors.New("boom")
	r := NewRegistry()
	if err := r.Register(&stubModule{name: "bad", err: boom}); err != nil {
		t.Fatal(err)
	}

	L := lua.NewState()
	defer L.Close()
	if err := r.InjectAll(L); !errors.Is(err, boom) {
		t.Errorf("InjectAll() = %v, want boom", err)
	}
}

type mapConfig map[string]any

func (m mapConfig) Get(path string) (any, bool) {
	v, ok := m[path]
	return v, ok
}

func TestUtilAndConfigModules(t *testing.T) {
	cfg := mapConfig{
		"engine.newline": "lf",
		"engine":         map[string]any{"max_buffer_length": int64(64)},
	}
	state := newScriptState(t, nil, "", cfg)

	err := state.DoString(context.Background(), `
local parts = util.split("a,b,c", ",")
assert(#parts == 3 and parts[2] == "b")
assert(util.trim("  x ") == "x")
assert(util.starts_with("pagetree", "page"))
assert(util.ends_with("pagetree", "tree"))
assert(util.contains("pagetree", "get"))
assert(#util.lines("a\r\nb\nc") == 3)
assert(util.join({"a", 1, true}, "-") == "a-1-true")

assert(config.get("engine.newline") == "lf")
assert(config.get("engine").max_buffer_length == 64)
assert(config.get("missing") == nil)
assert(config.get("missing", 7) == 7)
assert(config.has("engine.newline"))
assert(not config.has("missing"))
`)
	if err != nil {
		t.Fatalf("script error = %v", err)
	}
}
