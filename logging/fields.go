package logging

import (
	"log/slog"
	"time"

	"scoreboardkit/core"
)

// Structured field keys shared by every component.
const (
	FieldHome      = "home"
	FieldAway      = "away"
	FieldStart     = "start"
	FieldScore     = "score"
	FieldTotal     = "total"
	FieldOperation = "op"
	FieldCount     = "count"
	FieldAdapter   = "adapter"
)

// Match returns the identity and score of m as log attributes.
func Match(m core.Match) slog.Attr {
	return slog.Group("match",
		slog.String(FieldHome, m.HomeTeam()),
		slog.String(FieldAway, m.AwayTeam()),
		slog.String(FieldStart, m.StartTime().Format(time.RFC3339)),
		slog.String(FieldScore, m.Score().String()),
	)
}

// Key returns a match identity as log attributes.
func Key(k core.MatchKey) slog.Attr {
	return slog.Group("match",
		slog.String(FieldHome, k.HomeTeam),
		slog.String(FieldAway, k.AwayTeam),
		slog.String(FieldStart, k.StartTime.Format(time.RFC3339)),
	)
}
