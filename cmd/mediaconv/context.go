package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"sync"

	"github.com/gofrs/flock"

	"mediaconv/internal/backend"
	"mediaconv/internal/config"
	"mediaconv/internal/conversion"
	"mediaconv/internal/history"
	"mediaconv/internal/logging"
	"mediaconv/internal/notifications"
	"mediaconv/internal/services/ffmpeg"
)

type commandContext struct {
	configFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{configFlag: configFlag}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

func (c *commandContext) newLogger() (*slog.Logger, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	return logging.New(logging.Options{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: os.Stderr,
	})
}

// engine holds the fully wired conversion stack plus the resources that need
// releasing when a command finishes.
type engine struct {
	orchestrator *conversion.Orchestrator
	store        *history.Store
	lock         *flock.Flock
}

// buildEngine wires the orchestrator and acquires the cross-process
// conversion lock so two mediaconv invocations never resolve the same
// destination.
func (c *commandContext) buildEngine(logger *slog.Logger) (*engine, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}

	lock := flock.New(cfg.LockFilePath())
	ok, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire conversion lock: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("another mediaconv conversion is already running (lock %s)", cfg.LockFilePath())
	}

	release := func() { _ = lock.Unlock() }

	exportEngine, err := ffmpeg.New(cfg.Tools.FFmpegBinary, logger)
	if err != nil {
		release()
		return nil, err
	}
	external, err := backend.NewExternalTool(cfg.Tools.ExternalBinary, logger)
	if err != nil {
		release()
		return nil, err
	}

	store, err := history.Open(cfg.HistoryDBPath())
	if err != nil {
		release()
		return nil, fmt.Errorf("open history: %w", err)
	}

	native := backend.NewNative(exportEngine, logger)
	orchestrator := conversion.New(native, external, logger,
		conversion.WithNotifications(notifications.NewService(cfg.Notifications, logger)),
		conversion.WithHistory(store),
	)

	return &engine{orchestrator: orchestrator, store: store, lock: lock}, nil
}

func (e *engine) Close() {
	if e.store != nil {
		_ = e.store.Close()
	}
	if e.lock != nil {
		_ = e.lock.Unlock()
	}
}
