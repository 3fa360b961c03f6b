package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sort"
	"syscall"

	"scoreboardkit/realtime"
)

func main() {
	var flags Flags
	flag.StringVar(&flags.ConfigPath, "config", os.Getenv("SCOREBOARD_CONFIG"), "path to a JSON or YAML config file")
	flag.StringVar(&flags.Profile, "profile", "", "named profile: development, testing, staging, production")
	flag.StringVar(&flags.Scenario, "scenario", "all", "scenario to run: worldcup, showcase or all")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app, cleanup, err := BuildApp(ctx, flags)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize app: %v\n", err)
		os.Exit(1)
	}

	cfg := app.Config
	slog.Info("starting scoreboard demo",
		"environment", cfg.Environment,
		"profile", cfg.Profile,
		"storage_adapter", cfg.Storage.Adapter,
		"dispatch", cfg.Scoreboard.Dispatch)

	done := startTicker(app.Hub, app.Logger)
	err = run(ctx, app, flags.Scenario)
	cleanup()
	<-done

	if err != nil {
		slog.Error("demo failed", "error", err)
		os.Exit(1)
	}
	slog.Info("demo complete")
}

func run(ctx context.Context, app *App, name string) error {
	names := []string{name}
	if name == "all" {
		names = names[:0]
		for n := range scenarios {
			names = append(names, n)
		}
		sort.Strings(names)
	}
	for _, n := range names {
		sc, ok := scenarios[n]
		if !ok {
			return fmt.Errorf("unknown scenario %q", n)
		}
		if err := app.Service.Clear(ctx); err != nil {
			return err
		}
		if err := sc(ctx, app.Service, app.Logger.With("scenario", n)); err != nil {
			return fmt.Errorf("scenario %s: %w", n, err)
		}
	}
	return nil
}

// startTicker logs every hub event until the hub is closed.
func startTicker(hub *realtime.Hub, logger *slog.Logger) <-chan struct{} {
	_, events := hub.Subscribe(256)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for ev := range events {
			logger.Debug("ticker", "event", string(realtime.MarshalJSON(ev)))
		}
	}()
	return done
}
