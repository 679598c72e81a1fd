package main

import (
	"context"
	"io"

	"github.com/dshills/pagetree/internal/app"
	"github.com/dshills/pagetree/internal/plugin/api"
	pluginlua "github.com/dshills/pagetree/internal/plugin/lua"
)

// runLua executes a script file with the page, util and config modules
// available as globals and through require("pagetree").
func runLua(ctx context.Context, application *app.Application, pageID, path string, stdout io.Writer) error {
	limits := application.Config().Script()
	state, err := pluginlua.NewState(
		pluginlua.WithExecutionTimeout(limits.Timeout),
		pluginlua.WithCallStackSize(limits.CallStackSize),
		pluginlua.WithRegistryLimit(limits.RegistryLimit),
		pluginlua.WithOutput(stdout),
	)
	if err != nil {
		return err
	}
	defer state.Close()

	reg := api.NewRegistry()
	for _, mod := range []api.Module{
		api.NewPageModule(application.Store(), pageID),
		api.NewUtilModule(),
		api.NewConfigModule(application.Config()),
	} {
		if err := reg.Register(mod); err != nil {
			return err
		}
	}
	if err := state.Inject(reg.InjectAll); err != nil {
		return err
	}

	application.Logger().WithFields(map[string]any{"component": "lua", "page": pageID}).Debug("running %s", path)
	return state.DoFile(ctx, path)
}
