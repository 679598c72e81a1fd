package api

import (
	"strings"

	lua "github.com/yuin/gopher-lua"
)

// UtilModule implements string helpers that the Lua string library lacks.
type UtilModule struct{}

// NewUtilModule creates a new util module.
func NewUtilModule() *UtilModule {
	return &UtilModule{}
}

// Name returns the module name.
func (m *UtilModule) Name() string {
	return "util"
}

// Register builds the util table.
func (m *UtilModule) Register(L *lua.LState) (*lua.LTable, error) {
	mod := L.NewTable()
	L.SetFuncs(mod, map[string]lua.LGFunction{
		"split":       m.split,
		"trim":        m.trim,
		"starts_with": m.startsWith,
		"ends_with":   m.endsWith,
		"contains":    m.contains,
		"lines":       m.lines,
		"join":        m.join,
	})
	return mod, nil
}

// split(str, sep) -> {parts}
func (m *UtilModule) split(L *lua.LState) int {
	L.Push(stringList(L, strings.Split(L.CheckString(1), L.CheckString(2))))
	return 1
}

// trim(str) -> string
func (m *UtilModule) trim(L *lua.LState) int {
	L.Push(lua.LString(strings.TrimSpace(L.CheckString(1))))
	return 1
}

// starts_with(str, prefix) -> bool
func (m *UtilModule) startsWith(L *lua.LState) int {
	L.Push(lua.LBool(strings.HasPrefix(L.CheckString(1), L.CheckString(2))))
	return 1
}

// ends_with(str, suffix) -> bool
func (m *UtilModule) endsWith(L *lua.LState) int {
	L.Push(lua.LBool(strings.HasSuffix(L.CheckString(1), L.CheckString(2))))
	return 1
}

// contains(str, substr) -> bool
func (m *UtilModule) contains(L *lua.LState) int {
	L.Push(lua.LBool(strings.Contains(L.CheckString(1), L.CheckString(2))))
	return 1
}

// lines(str) -> {lines}
// Splits on LF or CRLF.
func (m *UtilModule) lines(L *lua.LState) int {
	normalized := strings.ReplaceAll(L.CheckString(1), "\r\n", "\n")
	L.Push(stringList(L, strings.Split(normalized, "\n")))
	return 1
}

// join(list, sep) -> string
func (m *UtilModule) join(L *lua.LState) int {
	tbl := L.CheckTable(1)
	sep := L.OptString(2, "")

	parts := make([]string, 0, tbl.Len())
	for i := 1; i <= tbl.Len(); i++ {
		parts = append(parts, L.ToStringMeta(tbl.RawGetInt(i)).String())
	}
	L.Push(lua.LString(strings.Join(parts, sep)))
	return 1
}

func stringList(L *lua.LState, parts []string) *lua.LTable {
	tbl := L.CreateTable(len(parts), 0)
	for i, part := range parts {
		tbl.RawSetInt(i+1, lua.LString(part))
	}
	return tbl
}
