package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"techsprint/internal/config"
	"techsprint/internal/logging"
)

// commandContext lazily loads configuration and logging shared by every
// subcommand.
type commandContext struct {
	configFlag *string

	cfg       *config.Config
	cfgPath   string
	cfgExists bool
	logger    *slog.Logger
	runID     string
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{
		configFlag: configFlag,
		runID:      uuid.NewString(),
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	if c.cfg != nil {
		return c.cfg, nil
	}
	flag := ""
	if c.configFlag != nil {
		flag = *c.configFlag
	}
	cfg, path, exists, err := config.Load(flag)
	if err != nil {
		return nil, err
	}
	c.cfg = cfg
	c.cfgPath = path
	c.cfgExists = exists
	return cfg, nil
}

func (c *commandContext) ensureLogger() (*slog.Logger, error) {
	if c.logger != nil {
		return c.logger, nil
	}
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	logger, err := logging.New(logging.Options{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
	})
	if err != nil {
		return nil, err
	}
	c.logger = logger.With(logging.String(logging.FieldRunID, c.runID))
	return c.logger, nil
}

// lockWorkspace takes an exclusive advisory lock on the work directory so
// concurrent runs do not interleave output files. The returned release
// function is safe to call once.
func (c *commandContext) lockWorkspace() (func(), error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("ensure directories: %w", err)
	}
	lockPath := filepath.Join(cfg.Paths.WorkDir, "techsprint.lock")
	lock := flock.New(lockPath)
	locked, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("lock workspace: %w", err)
	}
	if !locked {
		return nil, fmt.Errorf("workspace %s is locked by another run", cfg.Paths.WorkDir)
	}
	return func() {
		if err := lock.Unlock(); err != nil {
			fmt.Fprintf(os.Stderr, "release workspace lock: %v\n", err)
		}
	}, nil
}

