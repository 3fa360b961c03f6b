// Package board assembles a ready-to-use scoreboard service from options.
package board

import (
	"log/slog"

	"github.com/jonboulle/clockwork"

	mem "scoreboardkit/adapters/memory"
	"scoreboardkit/core"
	"scoreboardkit/engine"
	"scoreboardkit/leaderboard"
	"scoreboardkit/realtime"
)

// Option configures the scoreboard service builder.
type Option func(*config)

type config struct {
	repo             engine.Repository
	mode             engine.DispatchMode
	hub              *realtime.Hub
	index            leaderboard.Board
	clock            clockwork.Clock
	logger           *slog.Logger
	rejectDuplicates bool
}

// WithRepository sets the persistence adapter.
func WithRepository(r engine.Repository) Option { return func(c *config) { c.repo = r } }

// WithDispatchMode selects sync or async event dispatch.
func WithDispatchMode(m engine.DispatchMode) Option { return func(c *config) { c.mode = m } }

// WithRealtime wires a realtime hub to receive all service events.
func WithRealtime(h *realtime.Hub) Option { return func(c *config) { c.hub = h } }

// WithIndex supplies the ranking index used for Summary and Top.
func WithIndex(b leaderboard.Board) Option { return func(c *config) { c.index = b } }

func WithClock(clock clockwork.Clock) Option { return func(c *config) { c.clock = clock } }

func WithLogger(l *slog.Logger) Option { return func(c *config) { c.logger = l } }

// RejectDuplicateStarts makes the default in-memory repository refuse to start a
// match that is already live. Repositories passed through WithRepository carry
// their own policy.
func RejectDuplicateStarts() Option { return func(c *config) { c.rejectDuplicates = true } }

// New builds a configured Service. If not provided, defaults are used:
//   - repository: in-memory
//   - dispatch: sync
//   - clock: real time
func New(opts ...Option) *engine.Service {
	cfg := &config{mode: engine.DispatchSync}
	for _, o := range opts {
		o(cfg)
	}
	if cfg.repo == nil {
		var boardOpts []core.ScoreboardOption
		if cfg.rejectDuplicates {
			boardOpts = append(boardOpts, core.RejectDuplicateStarts())
		}
		cfg.repo = mem.New(boardOpts...)
	}
	svcOpts := []engine.ServiceOption{
		engine.WithClock(cfg.clock),
		engine.WithLogger(cfg.logger),
		engine.WithIndex(cfg.index),
	}
	if cfg.hub != nil {
		svcOpts = append(svcOpts, engine.WithPublisher(cfg.hub))
	}
	return engine.NewService(cfg.repo, engine.NewEventBus(cfg.mode), svcOpts...)
}

var _ engine.Publisher = (*realtime.Hub)(nil)
