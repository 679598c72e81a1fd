package lua

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	lua "github.com/yuin/gopher-lua"
)

// Default limits for a Lua state.
const (
	DefaultExecutionTimeout = 5 * time.Second
	DefaultCallStackSize    = 256
	DefaultRegistryLimit    = 1024 * 1024
)

// State wraps a sandboxed gopher-lua state.
//
// gopher-lua's LState is not goroutine-safe. The mutex serializes calls
// made through State; direct use of LuaState bypasses it.
type State struct {
	L *lua.LState

	mu sync.Mutex

	executionTimeout time.Duration
	callStackSize    int
	registryLimit    int
	output           io.Writer

	sandbox *Sandbox
	closed  bool
}

// StateOption configures a State.
type StateOption func(*State)

// WithExecutionTimeout bounds each DoString, DoFile and Call. Zero
// disables the limit; the caller's context still applies.
func WithExecutionTimeout(d time.Duration) StateOption {
	return func(s *State) {
		if d >= 0 {
			s.executionTimeout = d
		}
	}
}

// WithCallStackSize sets the maximum Lua call depth.
func WithCallStackSize(n int) StateOption {
	return func(s *State) {
		if n > 0 {
			s.callStackSize = n
		}
	}
}

// WithRegistryLimit caps the size of the Lua registry (the value stack).
func WithRegistryLimit(n int) StateOption {
	return func(s *State) {
		if n > 0 {
			s.registryLimit = n
		}
	}
}

// WithOutput redirects print. The default is os.Stdout.
func WithOutput(w io.Writer) StateOption {
	return func(s *State) {
		if w != nil {
			s.output = w
		}
	}
}

// NewState creates a new sandboxed Lua state.
func NewState(opts ...StateOption) (*State, error) {
	state := &State{
		executionTimeout: DefaultExecutionTimeout,
		callStackSize:    DefaultCallStackSize,
		registryLimit:    DefaultRegistryLimit,
		output:           os.Stdout,
	}
	for _, opt := range opts {
		opt(state)
	}

	L := lua.NewState(lua.Options{
		SkipOpenLibs:    true,
		CallStackSize:   state.callStackSize,
		RegistrySize:    min(lua.RegistrySize, state.registryLimit),
		RegistryMaxSize: state.registryLimit,
	})
	state.L = L

	openSafeLibraries(L)

	state.sandbox = NewSandbox(L, state.output)
	state.sandbox.Install()

	return state, nil
}

// openSafeLibraries opens the package, base, table, string and math
// libraries. io, os and debug stay closed.
func openSafeLibraries(L *lua.LState) {
	lua.OpenPackage(L)
	lua.OpenBase(L)
	lua.OpenTable(L)
	lua.OpenString(L)
	lua.OpenMath(L)
}

// DoFile executes a Lua file.
func (s *State) DoFile(ctx context.Context, path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrStateClosed
	}
	return s.run(ctx, func() error {
		return s.L.DoFile(path)
	})
}

// DoString executes a Lua chunk.
func (s *State) DoString(ctx context.Context, code string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrStateClosed
	}
	return s.run(ctx, func() error {
		return s.L.DoString(code)
	})
}

// Call calls a global Lua function with the given arguments.
// Returns an empty slice (not nil) if the function returns no values.
func (s *State) Call(ctx context.Context, fn string, args ...lua.LValue) ([]lua.LValue, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil, ErrStateClosed
	}

	fnVal := s.L.GetGlobal(fn)
	if fnVal == lua.LNil {
		return nil, fmt.Errorf("%w: %q", ErrFunctionNotFound, fn)
	}
	if fnVal.Type() != lua.LTFunction {
		return nil, fmt.Errorf("%q is not a function (got %s)", fn, fnVal.Type())
	}

	stackTop := s.L.GetTop()
	err := s.run(ctx, func() error {
		s.L.Push(fnVal)
		for _, arg := range args {
			s.L.Push(arg)
		}
		return s.L.PCall(len(args), lua.MultRet, nil)
	})
	if err != nil {
		s.L.SetTop(stackTop)
		return nil, err
	}

	nRet := s.L.GetTop() - stackTop
	if nRet <= 0 {
		return []lua.LValue{}, nil
	}
	results := make([]lua.LValue, nRet)
	for i := range nRet {
		results[i] = s.L.Get(stackTop + i + 1)
	}
	s.L.Pop(nRet)
	return results, nil
}

// run executes fn under ctx and the execution timeout with panic
// recovery.
func (s *State) run(ctx context.Context, fn func() error) (err error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if s.executionTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.executionTimeout)
		defer cancel()
	}

	s.L.SetContext(ctx)
	defer s.L.RemoveContext()

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("lua panic: %v", r)
		}
		if err != nil && ctx.Err() != nil {
			err = contextError(ctx.Err(), err)
		}
	}()
	return fn()
}

func contextError(ctxErr, err error) error {
	if errors.Is(ctxErr, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %w", ErrExecutionTimeout, err)
	}
	return fmt.Errorf("%w: %w", ctxErr, err)
}

// GetGlobal returns a global variable value.
func (s *State) GetGlobal(name string) lua.LValue {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return lua.LNil
	}
	return s.L.GetGlobal(name)
}

// SetGlobal sets a global variable.
func (s *State) SetGlobal(name string, value lua.LValue) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}
	s.L.SetGlobal(name, value)
}

// RegisterFunc registers a Go function as a global Lua function.
func (s *State) RegisterFunc(name string, fn lua.LGFunction) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}
	s.L.SetGlobal(name, s.L.NewFunction(fn))
}

// Inject runs register against the underlying state under the lock. API
// modules use it to install their tables.
func (s *State) Inject(register func(L *lua.LState) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrStateClosed
	}
	return register(s.L)
}

// LuaState returns the underlying gopher-lua state. Direct access bypasses
// the lock.
func (s *State) LuaState() *lua.LState {
	return s.L
}

// Sandbox returns the state's sandbox.
func (s *State) Sandbox() *Sandbox {
	return s.sandbox
}

// IsClosed returns true if the state has been closed.
func (s *State) IsClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// Close releases the Lua state. Later calls return ErrStateClosed.
func (s *State) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.L.Close()
	s.closed = true
	return nil
}
