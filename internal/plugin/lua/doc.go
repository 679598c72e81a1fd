// Package lua runs page scripts on a sandboxed gopher-lua state.
//
// A State opens only the base, package, table, string and math libraries.
// The file loaders are removed, print writes to a configurable writer, and
// require resolves only those libraries and modules registered with
// PreloadModule. Every run is bounded by the caller's context and the
// state's execution timeout:
//
//	state, err := lua.NewState(lua.WithExecutionTimeout(time.Second))
//	if err != nil {
//		return err
//	}
//	defer state.Close()
//
//	if err := state.DoFile(ctx, "edit.lua"); err != nil {
//		return err
//	}
//
// Bridge converts values in both directions; structs are exposed as tables
// keyed by their json field names.
package lua
