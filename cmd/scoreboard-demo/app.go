package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jonboulle/clockwork"

	"scoreboardkit/adapters/jsonfile"
	mem "scoreboardkit/adapters/memory"
	redisAdapter "scoreboardkit/adapters/redis"
	sqlxAdapter "scoreboardkit/adapters/sqlx"
	"scoreboardkit/board"
	"scoreboardkit/config"
	"scoreboardkit/core"
	"scoreboardkit/engine"
	"scoreboardkit/logging"
	"scoreboardkit/realtime"
)

// Flags carries the command line selections into the provider graph.
type Flags struct {
	ConfigPath string
	Profile    string
	Scenario   string
}

// App aggregates the assembled demo components.
type App struct {
	Config  *config.Config
	Logger  *slog.Logger
	Hub     *realtime.Hub
	Service *engine.Service
}

func provideConfig(flags Flags) (*config.Config, error) {
	switch {
	case flags.ConfigPath != "":
		return config.LoadFromFile(flags.ConfigPath)
	case flags.Profile != "":
		return config.LoadProfile(flags.Profile)
	default:
		return config.Load()
	}
}

func provideLogger(cfg *config.Config) *slog.Logger {
	logger := logging.New(logging.Options{
		Level:      cfg.Logging.Level,
		Format:     cfg.Logging.Format,
		Output:     cfg.Logging.Output,
		Attributes: cfg.Logging.Attributes,
	})
	slog.SetDefault(logger)
	return logger
}

func provideHub() (*realtime.Hub, func()) {
	hub := realtime.NewHub()
	return hub, hub.Close
}

func provideClock() clockwork.Clock {
	return clockwork.NewRealClock()
}

// provideRepository creates the repository selected by configuration.
func provideRepository(ctx context.Context, cfg *config.Config, logger *slog.Logger) (engine.Repository, func(), error) {
	var opts []core.ScoreboardOption
	if cfg.Scoreboard.RejectDuplicateStarts {
		opts = append(opts, core.RejectDuplicateStarts())
	}
	noop := func() {}
	logger = logger.With(logging.FieldAdapter, cfg.Storage.Adapter)

	switch cfg.Storage.Adapter {
	case "memory":
		return mem.New(opts...), noop, nil
	case "file":
		store, err := jsonfile.New(cfg.Storage.File.Path, opts...)
		if err != nil {
			return nil, nil, err
		}
		return store, noop, nil
	case "redis":
		store, err := redisAdapter.New(cfg.Storage.Redis.Adapter(), opts...)
		if err != nil {
			return nil, nil, err
		}
		return store, closer(logger, store.Close), nil
	case "sql":
		store, err := sqlxAdapter.New(cfg.Storage.SQL.Adapter(), opts...)
		if err != nil {
			return nil, nil, err
		}
		if cfg.Storage.SQL.AutoMigrate {
			if err := store.Migrate(ctx); err != nil {
				_ = store.Close()
				return nil, nil, err
			}
		}
		return store, closer(logger, store.Close), nil
	default:
		return nil, nil, fmt.Errorf("unknown storage adapter: %s", cfg.Storage.Adapter)
	}
}

func closer(logger *slog.Logger, closeFn func() error) func() {
	return func() {
		if err := closeFn(); err != nil {
			logger.Error("failed to close repository", "error", err)
		}
	}
}

func provideService(cfg *config.Config, logger *slog.Logger, hub *realtime.Hub, clock clockwork.Clock, repo engine.Repository) (*engine.Service, func()) {
	svc := board.New(
		board.WithRepository(repo),
		board.WithDispatchMode(cfg.Scoreboard.DispatchMode()),
		board.WithRealtime(hub),
		board.WithClock(clock),
		board.WithLogger(logger),
	)
	return svc, svc.Close
}
