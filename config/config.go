package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"scoreboardkit/adapters/redis"
	"scoreboardkit/adapters/sqlx"
	"scoreboardkit/engine"
)

// Environment represents the deployment environment
type Environment string

const (
	EnvDevelopment Environment = "development"
	EnvTesting     Environment = "testing"
	EnvStaging     Environment = "staging"
	EnvProduction  Environment = "production"
)

// Config holds the complete application configuration
type Config struct {
	Environment Environment `json:"environment" yaml:"environment" env:"SCOREBOARD_ENV"`
	Profile     string      `json:"profile" yaml:"profile" env:"SCOREBOARD_PROFILE"`

	Storage    StorageConfig    `json:"storage" yaml:"storage"`
	Logging    LoggingConfig    `json:"logging" yaml:"logging"`
	Scoreboard ScoreboardConfig `json:"scoreboard" yaml:"scoreboard"`
}

// StorageConfig selects and configures the repository
type StorageConfig struct {
	Adapter string      `json:"adapter" yaml:"adapter" env:"SCOREBOARD_STORAGE_ADAPTER"`
	Redis   RedisConfig `json:"redis" yaml:"redis,omitempty"`
	SQL     SQLConfig   `json:"sql" yaml:"sql,omitempty"`
	File    FileConfig  `json:"file" yaml:"file,omitempty"`
}

// RedisConfig mirrors redis.Config with file and env bindings
type RedisConfig struct {
	Addr         string        `json:"addr" yaml:"addr" env:"SCOREBOARD_REDIS_ADDR"`
	Password     string        `json:"password,omitempty" yaml:"password,omitempty" env:"SCOREBOARD_REDIS_PASSWORD"`
	DB           int           `json:"db" yaml:"db" env:"SCOREBOARD_REDIS_DB"`
	KeyPrefix    string        `json:"key_prefix" yaml:"key_prefix" env:"SCOREBOARD_REDIS_KEY_PREFIX"`
	PoolSize     int           `json:"pool_size" yaml:"pool_size" env:"SCOREBOARD_REDIS_POOL_SIZE"`
	DialTimeout  time.Duration `json:"dial_timeout" yaml:"dial_timeout" env:"SCOREBOARD_REDIS_DIAL_TIMEOUT"`
	ReadTimeout  time.Duration `json:"read_timeout" yaml:"read_timeout" env:"SCOREBOARD_REDIS_READ_TIMEOUT"`
	WriteTimeout time.Duration `json:"write_timeout" yaml:"write_timeout" env:"SCOREBOARD_REDIS_WRITE_TIMEOUT"`
}

// Adapter converts to the redis repository configuration.
func (r RedisConfig) Adapter() redis.Config {
	cfg := redis.DefaultConfig()
	cfg.Addr = r.Addr
	cfg.Password = r.Password
	cfg.DB = r.DB
	cfg.KeyPrefix = r.KeyPrefix
	cfg.PoolSize = r.PoolSize
	cfg.DialTimeout = r.DialTimeout
	cfg.ReadTimeout = r.ReadTimeout
	cfg.WriteTimeout = r.WriteTimeout
	return cfg
}

// SQLConfig mirrors sqlx.Config with file and env bindings
type SQLConfig struct {
	Driver          string        `json:"driver" yaml:"driver" env:"SCOREBOARD_SQL_DRIVER"`
	DSN             string        `json:"dsn,omitempty" yaml:"dsn,omitempty" env:"SCOREBOARD_SQL_DSN"`
	MaxOpenConns    int           `json:"max_open_conns" yaml:"max_open_conns" env:"SCOREBOARD_SQL_MAX_OPEN_CONNS"`
	MaxIdleConns    int           `json:"max_idle_conns" yaml:"max_idle_conns" env:"SCOREBOARD_SQL_MAX_IDLE_CONNS"`
	ConnMaxLifetime time.Duration `json:"conn_max_lifetime" yaml:"conn_max_lifetime" env:"SCOREBOARD_SQL_CONN_MAX_LIFETIME"`
	AutoMigrate     bool          `json:"auto_migrate" yaml:"auto_migrate" env:"SCOREBOARD_SQL_AUTO_MIGRATE"`
}

func (s SQLConfig) Adapter() sqlx.Config {
	return sqlx.Config{
		Driver:          sqlx.Driver(s.Driver),
		DSN:             s.DSN,
		MaxOpenConns:    s.MaxOpenConns,
		MaxIdleConns:    s.MaxIdleConns,
		ConnMaxLifetime: s.ConnMaxLifetime,
	}
}

// FileConfig holds JSON file storage configuration
type FileConfig struct {
	Path string `json:"path" yaml:"path" env:"SCOREBOARD_STORAGE_FILE_PATH"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level      string            `json:"level" yaml:"level" env:"SCOREBOARD_LOG_LEVEL"`
	Format     string            `json:"format" yaml:"format" env:"SCOREBOARD_LOG_FORMAT"`
	Output     string            `json:"output" yaml:"output" env:"SCOREBOARD_LOG_OUTPUT"`
	Attributes map[string]string `json:"attributes,omitempty" yaml:"attributes,omitempty" env:"SCOREBOARD_LOG_ATTRIBUTES"`
}

// ScoreboardConfig holds board behaviour settings
type ScoreboardConfig struct {
	RejectDuplicateStarts bool   `json:"reject_duplicate_starts" yaml:"reject_duplicate_starts" env:"SCOREBOARD_REJECT_DUPLICATE_STARTS"`
	Dispatch              string `json:"dispatch" yaml:"dispatch" env:"SCOREBOARD_DISPATCH"`
}

// DispatchMode maps the configured dispatch name to the event bus mode.
func (s ScoreboardConfig) DispatchMode() engine.DispatchMode {
	if s.Dispatch == "async" {
		return engine.DispatchAsync
	}
	return engine.DispatchSync
}

// Load loads configuration from environment variables and validates it
func Load() (*Config, error) {
	cfg := DefaultConfig()

	if err := loadFromEnv(cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// validateConfigPath validates that the config file path is safe
func validateConfigPath(path string) error {
	if path == "" {
		return errors.New("config file path cannot be empty")
	}

	cleanPath := filepath.Clean(path)

	switch strings.ToLower(filepath.Ext(cleanPath)) {
	case ".json", ".yaml", ".yml":
	default:
		return errors.New("config file must have .json, .yaml or .yml extension")
	}

	if _, err := os.Stat(cleanPath); err != nil {
		return fmt.Errorf("config file not accessible: %w", err)
	}

	return nil
}

// LoadFromFile loads configuration from a JSON or YAML file. Environment
// variables override file values.
func LoadFromFile(path string) (*Config, error) {
	if err := validateConfigPath(path); err != nil {
		return nil, fmt.Errorf("invalid config file path: %w", err)
	}

	file, err := os.Open(path) // #nosec G304 - Path validated above
	if err != nil {
		return nil, fmt.Errorf("failed to open config file %s: %w", path, err)
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	cfg := DefaultConfig()
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		err = json.Unmarshal(data, cfg)
	default:
		err = yaml.Unmarshal(data, cfg)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	if err := loadFromEnv(cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// DefaultConfig returns a configuration with sensible defaults for development
func DefaultConfig() *Config {
	rc := redis.DefaultConfig()
	sc := sqlx.DefaultConfig(sqlx.DriverPostgres)
	return &Config{
		Environment: EnvDevelopment,
		Profile:     "default",
		Storage: StorageConfig{
			Adapter: "memory",
			Redis: RedisConfig{
				Addr:         rc.Addr,
				DB:           rc.DB,
				KeyPrefix:    rc.KeyPrefix,
				PoolSize:     rc.PoolSize,
				DialTimeout:  rc.DialTimeout,
				ReadTimeout:  rc.ReadTimeout,
				WriteTimeout: rc.WriteTimeout,
			},
			SQL: SQLConfig{
				Driver:          string(sc.Driver),
				DSN:             sc.DSN,
				MaxOpenConns:    sc.MaxOpenConns,
				MaxIdleConns:    sc.MaxIdleConns,
				ConnMaxLifetime: sc.ConnMaxLifetime,
				AutoMigrate:     true,
			},
			File: FileConfig{
				Path: "./data/scoreboard.json",
			},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Output: "stdout",
		},
		Scoreboard: ScoreboardConfig{
			RejectDuplicateStarts: false,
			Dispatch:              "sync",
		},
	}
}

// Validate validates the configuration and returns detailed error messages
func (c *Config) Validate() error {
	var errs []string

	if c.Environment == "" {
		errs = append(errs, "environment cannot be empty")
	}

	if err := c.Storage.Validate(); err != nil {
		errs = append(errs, fmt.Sprintf("storage config: %v", err))
	}

	if err := c.Logging.Validate(); err != nil {
		errs = append(errs, fmt.Sprintf("logging config: %v", err))
	}

	if err := c.Scoreboard.Validate(); err != nil {
		errs = append(errs, fmt.Sprintf("scoreboard config: %v", err))
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}

	return nil
}

// String returns a JSON representation of the config (with secrets redacted)
func (c *Config) String() string {
	cfg := *c

	if cfg.Storage.SQL.DSN != "" {
		cfg.Storage.SQL.DSN = "[REDACTED]"
	}
	if cfg.Storage.Redis.Password != "" {
		cfg.Storage.Redis.Password = "[REDACTED]"
	}

	data, _ := json.MarshalIndent(cfg, "", "  ")
	return string(data)
}
