package engine

import (
	"context"

	"scoreboardkit/core"
)

// Repository holds the single Scoreboard aggregate of a deployment.
// Implementations must reject a nil board in Save with core.ErrInvalidArgument.
type Repository interface {
	// Scoreboard returns the current board. Callers treat it as read-only and
	// publish changes through Save.
	Scoreboard(ctx context.Context) (*core.Scoreboard, error)
	// Save replaces the stored board.
	Save(ctx context.Context, board *core.Scoreboard) error
	// Clear resets the repository to an empty board.
	Clear(ctx context.Context) error
}

// Publisher receives events emitted by the service.
type Publisher interface {
	Publish(ctx context.Context, ev core.Event)
}
