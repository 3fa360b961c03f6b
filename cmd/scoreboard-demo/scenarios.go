package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"scoreboardkit/core"
	"scoreboardkit/engine"
	"scoreboardkit/logging"
)

// scenario drives a service through a scripted sequence of board operations.
type scenario func(ctx context.Context, svc *engine.Service, logger *slog.Logger) error

var scenarios = map[string]scenario{
	"worldcup": worldCup,
	"showcase": showcase,
}

func logSummary(ctx context.Context, svc *engine.Service, logger *slog.Logger, title string) error {
	summary, err := svc.Summary(ctx)
	if err != nil {
		return err
	}
	logger.Info(title, logging.FieldCount, len(summary))
	for i, m := range summary {
		logger.Info(fmt.Sprintf("%d. %s", i+1, m), logging.FieldTotal, m.Score().Total())
	}
	return nil
}

// worldCup starts five fixtures, sets their scores, prints the ranking, then
// finishes the first one.
func worldCup(ctx context.Context, svc *engine.Service, logger *slog.Logger) error {
	base := time.Date(2026, 6, 15, 14, 0, 0, 0, time.UTC)
	fixtures := []struct {
		home, away string
		offset     time.Duration
		h, a       int
	}{
		{"Mexico", "Canada", 0, 0, 5},
		{"Spain", "Brazil", 15 * time.Minute, 10, 2},
		{"Germany", "France", 30 * time.Minute, 2, 2},
		{"Uruguay", "Italy", 45 * time.Minute, 6, 6},
		{"Argentina", "Australia", time.Hour, 3, 1},
	}

	logger.Info("world cup live scoreboard")
	for _, f := range fixtures {
		if _, err := svc.Start(ctx, f.home, f.away, base.Add(f.offset)); err != nil {
			return err
		}
	}
	for _, f := range fixtures {
		key := core.KeyOf(f.home, f.away, base.Add(f.offset))
		if f.h > 0 {
			if _, err := svc.IncrementHomeScoreByValue(ctx, key, f.h); err != nil {
				return err
			}
		}
		if f.a > 0 {
			if _, err := svc.IncrementAwayScoreByValue(ctx, key, f.a); err != nil {
				return err
			}
		}
	}
	if err := logSummary(ctx, svc, logger, "live summary"); err != nil {
		return err
	}

	if _, err := svc.FinishMatch(ctx, core.KeyOf("Mexico", "Canada", base)); err != nil {
		return err
	}
	logger.Info("match finished", "home", "Mexico", "away", "Canada")
	return logSummary(ctx, svc, logger, "updated summary")
}

// showcase walks through every board operation on a handful of club fixtures.
func showcase(ctx context.Context, svc *engine.Service, logger *slog.Logger) error {
	kickoff := time.Date(2026, 7, 10, 20, 0, 0, 0, time.UTC)

	match, err := core.NewMatch("Real Madrid", "Barcelona", kickoff, core.WithScore(core.InitialScore()))
	if err != nil {
		return err
	}
	if err := svc.StartMatch(ctx, match); err != nil {
		return err
	}
	logger.Info("started", "match", match.String())

	updated, err := svc.IncrementHomeTeamScore(ctx, match)
	if err != nil {
		return err
	}
	if updated, err = svc.IncrementAwayTeamScore(ctx, updated); err != nil {
		return err
	}
	if updated, err = svc.IncrementHomeTeamScore(ctx, updated); err != nil {
		return err
	}
	logger.Info("goal", "match", updated.String())
	logger.Info("values are immutable", "original", match.Score().String(), "updated", updated.Score().String())

	found, ok, err := svc.FindMatch(ctx, core.KeyOf("Real Madrid", "Barcelona", kickoff))
	if err != nil {
		return err
	}
	if ok {
		logger.Info("found", "match", found.String())
	}

	corrected, err := svc.UpdateScore(ctx, core.KeyOf("Real Madrid", "Barcelona", kickoff), 1, 1)
	if err != nil {
		return err
	}
	logger.Info("review overturned a goal", "match", corrected.String())

	if _, err := svc.UpdateScore(ctx, corrected, 3, 2); err != nil {
		return err
	}
	decremented, err := svc.DecrementHomeScore(ctx, match)
	if err != nil {
		return err
	}
	logger.Info("after decrement", "match", decremented.String())

	if _, err := svc.Start(ctx, "Liverpool", "Man City", kickoff.Add(time.Hour)); err != nil {
		return err
	}
	if _, err := svc.Start(ctx, "PSG", "Bayern", kickoff.Add(2*time.Hour)); err != nil {
		return err
	}
	if _, err := svc.UpdateScore(ctx, core.KeyOf("Liverpool", "Man City", kickoff.Add(time.Hour)), 4, 4); err != nil {
		return err
	}
	if _, err := svc.UpdateScore(ctx, core.KeyOf("PSG", "Bayern", kickoff.Add(2*time.Hour)), 1, 0); err != nil {
		return err
	}
	if err := logSummary(ctx, svc, logger, "live summary"); err != nil {
		return err
	}

	top, err := svc.Top(ctx, 1)
	if err != nil {
		return err
	}
	if len(top) == 1 {
		logger.Info("leader", "match", top[0].String())
	}

	if _, err := svc.FinishMatch(ctx, match); err != nil {
		return err
	}
	if err := logSummary(ctx, svc, logger, "remaining matches"); err != nil {
		return err
	}

	_, err = svc.UpdateScore(ctx, core.KeyOf("Nonexistent", "Team", kickoff), 1, 0)
	if !errors.Is(err, core.ErrMatchNotFound) {
		return fmt.Errorf("expected missing match error, got %v", err)
	}
	logger.Info("caught expected error", "error", err)

	_, err = svc.UpdateScore(ctx, core.KeyOf("Liverpool", "Man City", kickoff.Add(time.Hour)), -1, 0)
	if !errors.Is(err, core.ErrInvalidArgument) {
		return fmt.Errorf("expected invalid score error, got %v", err)
	}
	logger.Info("caught expected error", "error", err)
	return nil
}
