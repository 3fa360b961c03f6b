package core

import (
	"strconv"
	"strings"
	"time"
)

// MatchKey is the identity of a match: home team, away team and start time.
// It is comparable and used directly as a map key, so two keys built from the
// same trimmed names and the same instant are equal regardless of score.
type MatchKey struct {
	HomeTeam  string
	AwayTeam  string
	StartTime time.Time
}

// Identifier is anything that can name a live match. Both Match and MatchKey
// implement it, so board operations accept either a match value or raw identifiers.
type Identifier interface {
	Key() MatchKey
}

// KeyOf builds a normalized key from raw identifier fields.
func KeyOf(home, away string, start time.Time) MatchKey {
	return MatchKey{
		HomeTeam:  strings.TrimSpace(home),
		AwayTeam:  strings.TrimSpace(away),
		StartTime: normalizeTime(start),
	}
}

// Key returns k itself.
func (k MatchKey) Key() MatchKey { return k }

// Identity has microsecond resolution, the finest SQL timestamp columns keep.
const timeResolution = time.Microsecond

// normalizeTime drops the location and monotonic reading and truncates to
// timeResolution so equal instants compare equal with == after a storage round trip.
func normalizeTime(t time.Time) time.Time { return t.UTC().Truncate(timeResolution) }

// Match is an immutable live match. Score changes produce new values through WithScore.
type Match struct {
	homeTeam  string
	awayTeam  string
	startTime time.Time
	score     Score
}

// MatchOption configures optional parts of a match under construction.
type MatchOption func(*Match)

// WithScore sets the score a match is created with (defaults to 0-0).
func WithScore(s Score) MatchOption { return func(m *Match) { m.score = s } }

// NewMatch validates and normalizes a match. Team names are trimmed but keep their case;
// the distinct-teams check ignores case and surrounding whitespace.
func NewMatch(home, away string, start time.Time, opts ...MatchOption) (Match, error) {
	home = strings.TrimSpace(home)
	away = strings.TrimSpace(away)
	if home == "" {
		return Match{}, invalidArgument("home team name must not be blank")
	}
	if away == "" {
		return Match{}, invalidArgument("away team name must not be blank")
	}
	if start.IsZero() {
		return Match{}, invalidArgument("start time is required")
	}
	if strings.EqualFold(home, away) {
		return Match{}, invalidArgument("a team cannot play against itself: %q", home)
	}
	m := Match{homeTeam: home, awayTeam: away, startTime: normalizeTime(start)}
	for _, opt := range opts {
		opt(&m)
	}
	return m, nil
}

func (m Match) HomeTeam() string     { return m.homeTeam }
func (m Match) AwayTeam() string     { return m.awayTeam }
func (m Match) StartTime() time.Time { return m.startTime }
func (m Match) Score() Score         { return m.score }

// Key returns the identity triple of the match.
func (m Match) Key() MatchKey {
	return MatchKey{HomeTeam: m.homeTeam, AwayTeam: m.awayTeam, StartTime: m.startTime}
}

// Equal reports whether both matches share the same identity. Scores are ignored.
func (m Match) Equal(other Match) bool { return m.Key() == other.Key() }

// IsZero reports whether m is the zero Match, which never lives on a board.
func (m Match) IsZero() bool { return m.homeTeam == "" && m.awayTeam == "" && m.startTime.IsZero() }

// WithScore returns a copy of m carrying s.
func (m Match) WithScore(s Score) Match {
	m.score = s
	return m
}

// String renders "Home 1 - 0 Away".
func (m Match) String() string {
	return m.homeTeam + " " + strconv.Itoa(m.score.home) + " - " + strconv.Itoa(m.score.away) + " " + m.awayTeam
}
