package core

import (
	"errors"
	"fmt"
)

// ErrInvalidArgument is the single error kind surfaced by the scoreboard domain.
// Every validation failure wraps it, so callers can test with errors.Is.
var ErrInvalidArgument = errors.New("invalid argument")

var (
	// ErrMatchNotFound is returned by score updates on an identity that is not live.
	ErrMatchNotFound = fmt.Errorf("%w: match does not exist on the scoreboard", ErrInvalidArgument)
	// ErrMatchAlreadyStarted is returned when a board rejects duplicate starts.
	ErrMatchAlreadyStarted = fmt.Errorf("%w: match is already on the scoreboard", ErrInvalidArgument)
)

func invalidArgument(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidArgument, fmt.Sprintf(format, args...))
}
