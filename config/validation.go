package config

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

var (
	validAdapters = []string{"memory", "redis", "sql", "file"}
	validDrivers  = []string{"postgres", "mysql"}
	validLevels   = []string{"debug", "info", "warn", "error"}
	validFormats  = []string{"json", "text"}
	validOutputs  = []string{"stdout", "stderr"}
	validDispatch = []string{"sync", "async"}
)

func joinErrs(errs []string) error {
	if len(errs) == 0 {
		return nil
	}
	return errors.New(strings.Join(errs, "; "))
}

func oneOf(field, value string, allowed []string) []string {
	if slices.Contains(allowed, value) {
		return nil
	}
	return []string{fmt.Sprintf("%s must be one of: %s", field, strings.Join(allowed, ", "))}
}

// Validate validates storage configuration
func (s *StorageConfig) Validate() error {
	errs := oneOf("adapter", s.Adapter, validAdapters)

	// only the selected adapter needs complete settings
	switch s.Adapter {
	case "file":
		if err := s.File.Validate(); err != nil {
			errs = append(errs, fmt.Sprintf("file config: %v", err))
		}
	case "redis":
		if err := s.Redis.Validate(); err != nil {
			errs = append(errs, fmt.Sprintf("redis config: %v", err))
		}
	case "sql":
		if err := s.SQL.Validate(); err != nil {
			errs = append(errs, fmt.Sprintf("sql config: %v", err))
		}
	}

	return joinErrs(errs)
}

// Validate validates file storage configuration
func (f *FileConfig) Validate() error {
	if f.Path == "" {
		return errors.New("path cannot be empty")
	}
	return nil
}

func (r *RedisConfig) Validate() error {
	var errs []string
	if r.Addr == "" {
		errs = append(errs, "addr cannot be empty")
	}
	if r.DB < 0 {
		errs = append(errs, "db must be >= 0")
	}
	if r.PoolSize <= 0 {
		errs = append(errs, "pool_size must be positive")
	}
	return joinErrs(errs)
}

func (s *SQLConfig) Validate() error {
	errs := oneOf("driver", s.Driver, validDrivers)
	if s.DSN == "" {
		errs = append(errs, "dsn cannot be empty")
	}
	if s.MaxOpenConns < 0 || s.MaxIdleConns < 0 {
		errs = append(errs, "connection limits must be >= 0")
	}
	return joinErrs(errs)
}

// Validate validates logging configuration
func (l *LoggingConfig) Validate() error {
	var errs []string
	errs = append(errs, oneOf("level", l.Level, validLevels)...)
	errs = append(errs, oneOf("format", l.Format, validFormats)...)
	errs = append(errs, oneOf("output", l.Output, validOutputs)...)
	return joinErrs(errs)
}

func (s *ScoreboardConfig) Validate() error {
	return joinErrs(oneOf("dispatch", s.Dispatch, validDispatch))
}
