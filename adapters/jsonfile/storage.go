package jsonfile

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"scoreboardkit/adapters/snapshot"
	"scoreboardkit/core"
)

// Store persists the live board to a single JSON file.
// Suitable for demos and small deployments.
type Store struct {
	path string
	opts []core.ScoreboardOption
	mu   sync.Mutex
	// in-memory copy of the file contents
	board *core.Scoreboard
}

// New opens path, loading the board if the file exists.
func New(path string, opts ...core.ScoreboardOption) (*Store, error) {
	s := &Store{path: path, opts: opts, board: core.NewScoreboard(opts...)}
	if err := s.load(); err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}
	return s, nil
}

func (s *Store) load() error {
	b, err := os.ReadFile(s.path)
	if err != nil {
		return err
	}
	board, err := snapshot.Decode(b, s.opts...)
	if err != nil {
		return fmt.Errorf("load %s: %w", s.path, err)
	}
	s.board = board
	return nil
}

func (s *Store) persist(board *core.Scoreboard) error {
	tmp := s.path + ".tmp"
	b, err := snapshot.Encode(board, true)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return err
	}
	if err := os.WriteFile(tmp, b, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, s.path)
}

// Scoreboard returns a copy of the stored board.
func (s *Store) Scoreboard(_ context.Context) (*core.Scoreboard, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.board.Clone(), nil
}

func (s *Store) Save(_ context.Context, board *core.Scoreboard) error {
	if board == nil {
		return fmt.Errorf("%w: scoreboard must not be nil", core.ErrInvalidArgument)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.persist(board); err != nil {
		return err
	}
	s.board = board.Clone()
	return nil
}

func (s *Store) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	empty := core.NewScoreboard(s.opts...)
	if err := s.persist(empty); err != nil {
		return err
	}
	s.board = empty
	return nil
}
