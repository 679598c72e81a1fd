package config

import (
	"context"

	"github.com/dshills/pagetree/internal/config/watcher"
)

// Watch reloads the config whenever its file changes, until ctx is done.
// onChange is called after every attempt with the reload error, if any; a
// failed reload keeps the previous settings. Watch blocks.
func (c *Config) Watch(ctx context.Context, onChange func(*Config, error), opts ...watcher.Option) error {
	path := c.Path()
	if path == "" {
		return ErrNoConfigFile
	}

	w, err := watcher.New(opts...)
	if err != nil {
		return err
	}
	if err := w.Watch(path); err != nil {
		_ = w.Close()
		return err
	}

	w.OnChange(func(e watcher.Event) {
		err := c.Reload()
		if onChange != nil {
			onChange(c, err)
		}
	})
	return w.Run(ctx)
}
