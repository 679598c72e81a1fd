package api

import (
	lua "github.com/yuin/gopher-lua"

	pluginlua "github.com/dshills/pagetree/internal/plugin/lua"
)

// ConfigProvider reads settings by dot-separated path. *config.Config
// implements it.
type ConfigProvider interface {
	Get(path string) (any, bool)
}

// ConfigModule gives scripts read-only access to the configuration.
type ConfigModule struct {
	cfg ConfigProvider
}

// NewConfigModule creates a new config module.
func NewConfigModule(cfg ConfigProvider) *ConfigModule {
	return &ConfigModule{cfg: cfg}
}

// Name returns the module name.
func (m *ConfigModule) Name() string {
	return "config"
}

// Register builds the config table.
func (m *ConfigModule) Register(L *lua.LState) (*lua.LTable, error) {
	mod := L.NewTable()
	L.SetFuncs(mod, map[string]lua.LGFunction{
		"get": m.get,
		"has": m.has,
	})
	return mod, nil
}

// get(path[, default]) -> value
// Sections come back as tables.
func (m *ConfigModule) get(L *lua.LState) int {
	path := L.CheckString(1)
	v, ok := m.lookup(path)
	if !ok {
		L.Push(L.Get(2))
		return 1
	}
	L.Push(pluginlua.NewBridge(L).ToLuaValue(v))
	return 1
}

// has(path) -> bool
func (m *ConfigModule) has(L *lua.LState) int {
	_, ok := m.lookup(L.CheckString(1))
	L.Push(lua.LBool(ok))
	return 1
}

func (m *ConfigModule) lookup(path string) (any, bool) {
	if m.cfg == nil {
		return nil, false
	}
	return m.cfg.Get(path)
}
