package config

import (
	"fmt"
	"time"
)

// profiles adjust the defaults per deployment environment.
var profiles = map[string]func(*Config){
	"development": func(c *Config) {
		c.Environment = EnvDevelopment
		c.Logging.Level = "debug"
		c.Logging.Format = "text"
	},
	"testing": func(c *Config) {
		c.Environment = EnvTesting
		c.Storage.Adapter = "memory"
		c.Logging.Level = "warn"
	},
	"staging": func(c *Config) {
		c.Environment = EnvStaging
		c.Storage.Adapter = "redis"
		c.Scoreboard.Dispatch = "async"
	},
	"production": func(c *Config) {
		c.Environment = EnvProduction
		c.Storage.Adapter = "sql"
		c.Storage.SQL.ConnMaxLifetime = time.Hour
		c.Storage.SQL.AutoMigrate = false
		c.Scoreboard.Dispatch = "async"
		c.Scoreboard.RejectDuplicateStarts = true
	},
}

// LoadProfile returns the defaults for a named profile with environment
// overrides applied.
func LoadProfile(name string) (*Config, error) {
	apply, ok := profiles[name]
	if !ok {
		return nil, fmt.Errorf("unknown profile %q", name)
	}
	cfg := DefaultConfig()
	cfg.Profile = name
	apply(cfg)

	if err := loadFromEnv(cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}
