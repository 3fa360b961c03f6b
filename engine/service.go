package engine

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"scoreboardkit/core"
	"scoreboardkit/leaderboard"
	"scoreboardkit/logging"
)

// Service wires a repository, an event bus and a ranking index into the
// scoreboard API. Writers are serialized; every write works on a clone of the
// stored board and only replaces it once the operation succeeded.
//
// Events are delivered after the write lock is released, so concurrent writers
// may deliver out of order. Each event carries a Seq assigned in write order;
// consumers keeping the latest score should ignore events with a lower Seq than
// one already seen.
type Service struct {
	repo   Repository
	bus    *EventBus
	pubs   []Publisher
	index  leaderboard.Board
	clock  clockwork.Clock
	logger *slog.Logger

	mu      sync.Mutex
	indexed bool
	seq     uint64
}

// ServiceOption customizes a Service.
type ServiceOption func(*Service)

// WithClock sets the clock used for event times and StartNow.
func WithClock(c clockwork.Clock) ServiceOption {
	return func(s *Service) {
		if c != nil {
			s.clock = c
		}
	}
}

func WithLogger(l *slog.Logger) ServiceOption {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithPublisher forwards every event to p in addition to the bus subscribers.
func WithPublisher(p Publisher) ServiceOption {
	return func(s *Service) {
		if p != nil {
			s.pubs = append(s.pubs, p)
		}
	}
}

// WithIndex replaces the default skip list ranking index.
func WithIndex(b leaderboard.Board) ServiceOption {
	return func(s *Service) {
		if b != nil {
			s.index = b
		}
	}
}

func NewService(repo Repository, bus *EventBus, opts ...ServiceOption) *Service {
	if repo == nil || bus == nil {
		panic("NewService requires non-nil repository and bus")
	}
	s := &Service{
		repo:   repo,
		bus:    bus,
		index:  leaderboard.NewSkipList(),
		clock:  clockwork.NewRealClock(),
		logger: slog.Default(),
	}
	s.pubs = []Publisher{bus}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Subscribe convenience method.
func (s *Service) Subscribe(typ core.EventType, handler func(context.Context, core.Event)) func() {
	return s.bus.Subscribe(typ, handler)
}

func (s *Service) SubscribeAll(handler func(context.Context, core.Event)) func() {
	return s.bus.SubscribeAll(handler)
}

func (s *Service) Close() { s.bus.Close() }

// Start creates a 0-0 match and places it on the board.
func (s *Service) Start(ctx context.Context, home, away string, start time.Time) (core.Match, error) {
	m, err := core.NewMatch(home, away, start)
	if err != nil {
		return core.Match{}, err
	}
	if err := s.StartMatch(ctx, m); err != nil {
		return core.Match{}, err
	}
	return m, nil
}

// StartNow starts a match kicking off at the current clock time.
func (s *Service) StartNow(ctx context.Context, home, away string) (core.Match, error) {
	return s.Start(ctx, home, away, s.clock.Now())
}

func (s *Service) StartMatch(ctx context.Context, m core.Match) error {
	_, err := s.write(ctx, "start", func(b *core.Scoreboard) (core.Match, bool, error) {
		if err := b.StartMatch(m); err != nil {
			return core.Match{}, false, err
		}
		return m, true, nil
	}, core.NewMatchStarted)
	return err
}

// FinishMatch removes the match. Reports false when it was not on the board.
func (s *Service) FinishMatch(ctx context.Context, id core.Identifier) (bool, error) {
	var finished core.Match
	_, err := s.write(ctx, "finish", func(b *core.Scoreboard) (core.Match, bool, error) {
		m, ok := b.FindMatch(id)
		if !ok {
			if id != nil {
				s.logger.Debug("finish ignored, match not live", logging.Key(id.Key()))
			}
			return core.Match{}, false, nil
		}
		b.FinishMatch(m)
		finished = m
		return m, true, nil
	}, core.NewMatchFinished)
	if err != nil {
		return false, err
	}
	return !finished.IsZero(), nil
}

func (s *Service) FindMatch(ctx context.Context, id core.Identifier) (core.Match, bool, error) {
	b, err := s.repo.Scoreboard(ctx)
	if err != nil {
		return core.Match{}, false, err
	}
	m, ok := b.FindMatch(id)
	return m, ok, nil
}

func (s *Service) IncrementHomeTeamScore(ctx context.Context, id core.Identifier) (core.Match, error) {
	return s.update(ctx, "increment_home", func(b *core.Scoreboard) (core.Match, error) { return b.IncrementHomeTeamScore(id) })
}

func (s *Service) IncrementAwayTeamScore(ctx context.Context, id core.Identifier) (core.Match, error) {
	return s.update(ctx, "increment_away", func(b *core.Scoreboard) (core.Match, error) { return b.IncrementAwayTeamScore(id) })
}

func (s *Service) IncrementHomeScoreByValue(ctx context.Context, id core.Identifier, amount int) (core.Match, error) {
	return s.update(ctx, "increment_home_by", func(b *core.Scoreboard) (core.Match, error) { return b.IncrementHomeScoreByValue(id, amount) })
}

func (s *Service) IncrementAwayScoreByValue(ctx context.Context, id core.Identifier, amount int) (core.Match, error) {
	return s.update(ctx, "increment_away_by", func(b *core.Scoreboard) (core.Match, error) { return b.IncrementAwayScoreByValue(id, amount) })
}

func (s *Service) DecrementHomeScore(ctx context.Context, id core.Identifier) (core.Match, error) {
	return s.update(ctx, "decrement_home", func(b *core.Scoreboard) (core.Match, error) { return b.DecrementHomeScore(id) })
}

func (s *Service) DecrementAwayScore(ctx context.Context, id core.Identifier) (core.Match, error) {
	return s.update(ctx, "decrement_away", func(b *core.Scoreboard) (core.Match, error) { return b.DecrementAwayScore(id) })
}

func (s *Service) DecrementHomeScoreByValue(ctx context.Context, id core.Identifier, amount int) (core.Match, error) {
	return s.update(ctx, "decrement_home_by", func(b *core.Scoreboard) (core.Match, error) { return b.DecrementHomeScoreByValue(id, amount) })
}

func (s *Service) DecrementAwayScoreByValue(ctx context.Context, id core.Identifier, amount int) (core.Match, error) {
	return s.update(ctx, "decrement_away_by", func(b *core.Scoreboard) (core.Match, error) { return b.DecrementAwayScoreByValue(id, amount) })
}

// UpdateScore replaces the score outright, e.g. after a review overturns a goal.
func (s *Service) UpdateScore(ctx context.Context, id core.Identifier, home, away int) (core.Match, error) {
	return s.update(ctx, "update_score", func(b *core.Scoreboard) (core.Match, error) { return b.UpdateScore(id, home, away) })
}

// Summary returns the live matches in ranking order.
func (s *Service) Summary(ctx context.Context) ([]core.Match, error) {
	b, err := s.repo.Scoreboard(ctx)
	if err != nil {
		return nil, err
	}
	return b.Summary(), nil
}

// Top returns the first n entries of the summary from the ranking index. The
// index tracks writes made through this service; call Sync after the repository
// was changed elsewhere.
func (s *Service) Top(ctx context.Context, n int) ([]core.Match, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.indexed {
		if err := s.syncLocked(ctx); err != nil {
			return nil, err
		}
	}
	return s.index.TopN(n), nil
}

// Sync rebuilds the ranking index from the repository.
func (s *Service) Sync(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.syncLocked(ctx)
}

func (s *Service) syncLocked(ctx context.Context) error {
	b, err := s.repo.Scoreboard(ctx)
	if err != nil {
		return err
	}
	s.index.Reset(b.Summary())
	s.indexed = true
	return nil
}

// Clear removes every match from the board.
func (s *Service) Clear(ctx context.Context) error {
	s.mu.Lock()
	if err := s.repo.Clear(ctx); err != nil {
		s.mu.Unlock()
		s.logger.Error("clear scoreboard failed", "error", err)
		return err
	}
	s.index.Reset(nil)
	s.indexed = true
	ev := s.sequence(core.NewBoardCleared(s.clock.Now()))
	s.mu.Unlock()

	s.logger.Info("scoreboard cleared")
	s.publish(ctx, ev)
	return nil
}

func (s *Service) update(ctx context.Context, op string, fn func(*core.Scoreboard) (core.Match, error)) (core.Match, error) {
	return s.write(ctx, op, func(b *core.Scoreboard) (core.Match, bool, error) {
		m, err := fn(b)
		if err != nil {
			return core.Match{}, false, err
		}
		return m, true, nil
	}, core.NewScoreUpdated)
}

// write runs fn against a clone of the stored board and saves the clone when fn
// reports a change. Events are published after the lock is released.
func (s *Service) write(
	ctx context.Context,
	op string,
	fn func(*core.Scoreboard) (core.Match, bool, error),
	event func(core.Match, time.Time) core.Event,
) (core.Match, error) {
	s.mu.Lock()
	current, err := s.repo.Scoreboard(ctx)
	if err != nil {
		s.mu.Unlock()
		return core.Match{}, fmt.Errorf("load scoreboard: %w", err)
	}
	next := current.Clone()
	m, changed, err := fn(next)
	if err != nil {
		s.mu.Unlock()
		s.logger.Warn("scoreboard operation rejected", logging.FieldOperation, op, "error", err)
		return core.Match{}, err
	}
	if !changed {
		s.mu.Unlock()
		return core.Match{}, nil
	}
	if err := s.repo.Save(ctx, next); err != nil {
		s.mu.Unlock()
		s.logger.Error("save scoreboard failed", logging.FieldOperation, op, "error", err)
		return core.Match{}, fmt.Errorf("save scoreboard: %w", err)
	}
	if s.indexed {
		if _, live := next.FindMatch(m); live {
			s.index.Upsert(m)
		} else {
			s.index.Remove(m.Key())
		}
	}
	ev := s.sequence(event(m, s.clock.Now()))
	s.mu.Unlock()

	s.logger.Debug("scoreboard updated", logging.FieldOperation, op, logging.Match(m))
	s.publish(ctx, ev)
	return m, nil
}

// sequence stamps ev with the next write sequence number. Callers hold s.mu.
func (s *Service) sequence(ev core.Event) core.Event {
	s.seq++
	ev.Seq = s.seq
	return ev
}

func (s *Service) publish(ctx context.Context, ev core.Event) {
	for _, p := range s.pubs {
		p.Publish(ctx, ev)
	}
}
