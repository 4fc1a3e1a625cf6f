package main

import (
	"strings"
	"sync"

	"github.com/five82/marquee/internal/config"
)

type commandContext struct {
	configFlag  *string
	catalogFlag *string

	configOnce sync.Once
	config     config.Config
	configErr  error
}

func newCommandContext(configFlag, catalogFlag *string) *commandContext {
	return &commandContext{configFlag: configFlag, catalogFlag: catalogFlag}
}

func (c *commandContext) configPath() string {
	if c.configFlag == nil {
		return ""
	}
	return strings.TrimSpace(*c.configFlag)
}

func (c *commandContext) catalogPath() string {
	if c.catalogFlag == nil {
		return ""
	}
	return strings.TrimSpace(*c.catalogFlag)
}

// ensureConfig loads the config once and applies the --catalog override.
func (c *commandContext) ensureConfig() (config.Config, error) {
	c.configOnce.Do(func() {
		cfg, err := config.Load(c.configPath())
		if err != nil {
			c.configErr = err
			return
		}
		if path := c.catalogPath(); path != "" {
			expanded, err := config.ExpandPath(path)
			if err != nil {
				c.configErr = err
				return
			}
			cfg.Catalog = expanded
		}
		c.config = cfg
	})
	return c.config, c.configErr
}
