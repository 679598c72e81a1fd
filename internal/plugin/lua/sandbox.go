package lua

import (
	"io"
	"strings"

	lua "github.com/yuin/gopher-lua"
)

// safeModules can always be required.
var safeModules = map[string]bool{
	"string": true,
	"table":  true,
	"math":   true,
}

// Sandbox restricts a Lua state to in-memory operations.
type Sandbox struct {
	L      *lua.LState
	output io.Writer
}

// NewSandbox creates a new sandbox for the Lua state. print writes to out.
func NewSandbox(L *lua.LState, out io.Writer) *Sandbox {
	return &Sandbox{L: L, output: out}
}

// Install removes loaders that reach the file system and replaces print
// and require.
func (s *Sandbox) Install() {
	for _, name := range []string{"dofile", "loadfile", "load", "loadstring"} {
		s.L.SetGlobal(name, lua.LNil)
	}
	s.installPrint()
	s.installRequire()
}

// installPrint writes tab-separated arguments and a newline to the
// sandbox output.
func (s *Sandbox) installPrint() {
	s.L.SetGlobal("print", s.L.NewFunction(func(L *lua.LState) int {
		parts := make([]string, 0, L.GetTop())
		for i := 1; i <= L.GetTop(); i++ {
			parts = append(parts, L.ToStringMeta(L.Get(i)).String())
		}
		_, _ = io.WriteString(s.output, strings.Join(parts, "\t")+"\n")
		return 0
	}))
}

// installRequire clears the search paths and only resolves the built-in
// safe modules and modules registered with PreloadModule.
func (s *Sandbox) installRequire() {
	pkg, ok := s.L.GetGlobal("package").(*lua.LTable)
	if !ok {
		return
	}
	s.L.SetField(pkg, "path", lua.LString(""))
	s.L.SetField(pkg, "cpath", lua.LString(""))

	originalRequire := s.L.GetGlobal("require")

	s.L.SetGlobal("require", s.L.NewFunction(func(L *lua.LState) int {
		modName := L.CheckString(1)

		if !safeModules[modName] && !s.preloaded(modName) {
			L.RaiseError("module %q is not available", modName)
			return 0
		}

		L.Push(originalRequire)
		L.Push(lua.LString(modName))
		L.Call(1, 1)
		return 1
	}))
}

func (s *Sandbox) preloaded(name string) bool {
	pkg, ok := s.L.GetGlobal("package").(*lua.LTable)
	if !ok {
		return false
	}
	preload, ok := s.L.GetField(pkg, "preload").(*lua.LTable)
	if !ok {
		return false
	}
	return preload.RawGetString(name) != lua.LNil
}
