package memory

import (
	"context"
	"fmt"
	"sync/atomic"

	"scoreboardkit/core"
)

// Store keeps the live scoreboard in process memory. Saves swap the stored
// board atomically so readers never observe a half-applied update.
type Store struct {
	board atomic.Pointer[core.Scoreboard]
	opts  []core.ScoreboardOption
}

// New returns an empty store. opts apply to every board the store creates.
func New(opts ...core.ScoreboardOption) *Store {
	s := &Store{opts: opts}
	s.board.Store(core.NewScoreboard(opts...))
	return s
}

// Scoreboard returns the current board. The result is shared and must be treated
// as read-only; clone it before applying changes.
func (s *Store) Scoreboard(_ context.Context) (*core.Scoreboard, error) {
	return s.board.Load(), nil
}

func (s *Store) Save(_ context.Context, b *core.Scoreboard) error {
	if b == nil {
		return fmt.Errorf("%w: scoreboard must not be nil", core.ErrInvalidArgument)
	}
	s.board.Store(b)
	return nil
}

func (s *Store) Clear(_ context.Context) error {
	s.board.Store(core.NewScoreboard(s.opts...))
	return nil
}
