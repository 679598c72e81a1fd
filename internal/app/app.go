package app

import (
	"context"
	"io"
	"sync"

	"github.com/dshills/pagetree/internal/config"
	"github.com/dshills/pagetree/internal/config/watcher"
	"github.com/dshills/pagetree/internal/engine"
)

// Application wires the configuration, the logger and the page store.
type Application struct {
	mu sync.RWMutex

	config *config.Config
	logger *Logger
	store  *Store

	opts Options
}

// Options configures the application. Non-zero fields outrank the
// configuration.
type Options struct {
	// ConfigPath is the path to a TOML or YAML configuration file.
	ConfigPath string

	// LogLevel sets the logging verbosity.
	LogLevel string

	// Verify forces post-edit validation on.
	Verify bool

	// LogOutput receives log lines. Defaults to os.Stderr.
	LogOutput io.Writer

	// ConfigOptions are passed to config.Load after the file option.
	ConfigOptions []config.Option
}

// New loads the configuration and builds the logger and store from it.
func New(opts Options) (*Application, error) {
	cfgOpts := append([]config.Option{config.WithFile(opts.ConfigPath)}, opts.ConfigOptions...)
	cfg, err := config.Load(cfgOpts...)
	if err != nil {
		return nil, &InitError{Component: "config", Err: err}
	}

	app := &Application{config: cfg, opts: opts}

	logCfg := DefaultLoggerConfig()
	if opts.LogOutput != nil {
		logCfg.Output = opts.LogOutput
	}
	app.logger = NewLogger(logCfg)
	app.store = NewStore(WithLogger(app.logger))

	if err := app.applyConfig(); err != nil {
		return nil, &InitError{Component: "engine", Err: err}
	}
	app.logger.WithField("config", cfg.Path()).Debug("initialized")
	return app, nil
}

// Config returns the loaded configuration.
func (app *Application) Config() *config.Config {
	app.mu.RLock()
	defer app.mu.RUnlock()
	return app.config
}

// Logger returns the application logger.
func (app *Application) Logger() *Logger { return app.logger }

// Store returns the page store.
func (app *Application) Store() *Store { return app.store }

// applyConfig pushes the current settings into the logger and store.
// Pages already loaded keep their options.
func (app *Application) applyConfig() error {
	app.mu.Lock()
	defer app.mu.Unlock()

	level := app.config.Logging().Level
	if app.opts.LogLevel != "" {
		level = app.opts.LogLevel
	}
	app.logger.SetLevel(ParseLogLevel(level))

	eng := app.config.Engine()
	pageOpts, err := PageOptions(eng)
	if err != nil {
		return err
	}
	app.store.SetPageOptions(pageOpts...)
	app.store.SetVerify(eng.VerifyEdits || app.opts.Verify)
	return nil
}

// PageOptions converts the engine section into page options.
func PageOptions(eng config.EngineConfig) ([]engine.Option, error) {
	opts := []engine.Option{engine.WithMaxBufferLength(eng.MaxBufferLength)}
	if eng.Newline != "" && eng.Newline != "auto" {
		nl, err := engine.ParseNewline(eng.Newline)
		if err != nil {
			return nil, err
		}
		opts = append(opts, engine.WithNewline(nl))
	}
	return opts, nil
}

// WatchConfig reapplies the configuration each time its file changes,
// until ctx is done. Reload failures are logged and keep the previous
// settings.
func (app *Application) WatchConfig(ctx context.Context, opts ...watcher.Option) error {
	log := app.logger.WithComponent("config")
	return app.Config().Watch(ctx, func(c *config.Config, err error) {
		if err != nil {
			log.Warn("reload failed: %v", err)
			return
		}
		if err := app.applyConfig(); err != nil {
			log.Warn("apply failed: %v", err)
			return
		}
		log.Info("reloaded %s", c.Path())
	}, opts...)
}

// InitError represents an initialization error.
type InitError struct {
	Component string
	Err       error
}

func (e *InitError) Error() string {
	return "init " + e.Component + ": " + e.Err.Error()
}

func (e *InitError) Unwrap() error {
	return e.Err
}
