package main

import (
	"log/slog"
	"strings"
	"sync"

	"cplscan/internal/config"
	"cplscan/internal/logging"
)

type commandContext struct {
	configFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error

	loggerOnce sync.Once
	log        *slog.Logger
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
		c.config = cfg
	})
	return c.config, c.configErr
}

func (c *commandContext) configValue() *config.Config {
	cfg, _ := c.ensureConfig()
	if cfg == nil {
		defaults := config.Default()
		return &defaults
	}
	return cfg
}

// logger builds the process logger once, from config. Falls back to a
// console logger when config failed to load.
func (c *commandContext) logger() *slog.Logger {
	c.loggerOnce.Do(func() {
		cfg := c.configValue()
		logger, err := logging.New(logging.Options{
			Level:  cfg.Logging.Level,
			Format: cfg.Logging.Format,
		})
		if err != nil {
			logger, _ = logging.New(logging.Options{})
		}
		c.log = logger
	})
	return c.log
}
