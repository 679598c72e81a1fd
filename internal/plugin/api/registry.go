package api

import (
	"fmt"
	"maps"
	"slices"
	"sync"

	lua "github.com/yuin/gopher-lua"
)

// Version is reported to scripts as pagetree.version.
const Version = "1.0.0"

// Module is a Lua API module.
type Module interface {
	// Name returns the module name (e.g., "page", "util").
	Name() string

	// Register builds the module table in L and returns it.
	Register(L *lua.LState) (*lua.LTable, error)
}

// Registry manages API modules and their injection into Lua states.
type Registry struct {
	mu      sync.RWMutex
	modules map[string]Module
}

// NewRegistry creates a new API registry.
func NewRegistry() *Registry {
	return &Registry{
		modules: make(map[string]Module),
	}
}

// Register adds a module to the registry.
func (r *Registry) Register(mod Module) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.modules[mod.Name()]; exists {
		return fmt.Errorf("module %q already registered", mod.Name())
	}
	r.modules[mod.Name()] = mod
	return nil
}

// Get returns a module by name.
func (r *Registry) Get(name string) (Module, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	mod, ok := r.modules[name]
	return mod, ok
}

// List returns the registered module names in sorted order.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return slices.Sorted(maps.Keys(r.modules))
}

// InjectAll installs every module in L. Each module becomes a global of
// its own name, and require("pagetree") returns a table holding all of
// them plus the API version.
func (r *Registry) InjectAll(L *lua.LState) error {
	r.mu.RLock()
	defer r.mu.RUnlock()

	root := L.NewTable()
	for _, name := range slices.Sorted(maps.Keys(r.modules)) {
		mod, err := r.modules[name].Register(L)
		if err != nil {
			return fmt.Errorf("failed to register module %q: %w", name, err)
		}
		L.SetGlobal(name, mod)
		L.SetField(root, name, mod)
	}
	L.SetField(root, "version", lua.LString(Version))

	L.PreloadModule("pagetree", func(L *lua.LState) int {
		L.Push(root)
		return 1
	})
	return nil
}
