package core

import (
	"cmp"
	"slices"
	"strings"
	"time"
)

// Scoreboard is the aggregate of live matches keyed by identity.
// It has a single logical owner; callers that share a board across goroutines
// must serialize access themselves (see engine.Service).
type Scoreboard struct {
	matches          map[MatchKey]Match
	rejectDuplicates bool
}

// ScoreboardOption configures a Scoreboard.
type ScoreboardOption func(*Scoreboard)

// RejectDuplicateStarts makes StartMatch fail with ErrMatchAlreadyStarted instead of
// overwriting a live match with the same identity.
func RejectDuplicateStarts() ScoreboardOption {
	return func(b *Scoreboard) { b.rejectDuplicates = true }
}

func NewScoreboard(opts ...ScoreboardOption) *Scoreboard {
	b := &Scoreboard{matches: make(map[MatchKey]Match)}
	for _, o := range opts {
		o(b)
	}
	return b
}

// RejectsDuplicates reports whether the board was built with RejectDuplicateStarts.
func (b *Scoreboard) RejectsDuplicates() bool { return b.rejectDuplicates }

// Len returns the number of live matches.
func (b *Scoreboard) Len() int { return len(b.matches) }

// Clone returns an independent board holding the same matches and policy.
// Matches are immutable values, so a shallow map copy is enough.
func (b *Scoreboard) Clone() *Scoreboard {
	cp := &Scoreboard{
		matches:          make(map[MatchKey]Match, len(b.matches)),
		rejectDuplicates: b.rejectDuplicates,
	}
	for k, m := range b.matches {
		cp.matches[k] = m
	}
	return cp
}

// Start builds a match from raw fields and puts it on the board.
func (b *Scoreboard) Start(home, away string, start time.Time) (Match, error) {
	m, err := NewMatch(home, away, start)
	if err != nil {
		return Match{}, err
	}
	if err := b.StartMatch(m); err != nil {
		return Match{}, err
	}
	return m, nil
}

// StartMatch puts an already validated match on the board. A live match with the same
// identity is replaced unless the board rejects duplicates.
func (b *Scoreboard) StartMatch(m Match) error {
	if m.IsZero() {
		return invalidArgument("match must not be empty")
	}
	key := m.Key()
	if _, live := b.matches[key]; live && b.rejectDuplicates {
		return ErrMatchAlreadyStarted
	}
	b.matches[key] = m
	return nil
}

// FinishMatch removes the identified match. Finishing a match that is not live is a
// no-op; the result reports whether anything was removed.
func (b *Scoreboard) FinishMatch(id Identifier) bool {
	if id == nil {
		return false
	}
	key := id.Key()
	if _, ok := b.matches[key]; !ok {
		return false
	}
	delete(b.matches, key)
	return true
}

// FindMatch returns the stored match for the identity, with its current score.
func (b *Scoreboard) FindMatch(id Identifier) (Match, bool) {
	if id == nil {
		return Match{}, false
	}
	m, ok := b.matches[id.Key()]
	return m, ok
}

func (b *Scoreboard) IncrementHomeTeamScore(id Identifier) (Match, error) {
	return b.apply(id, Score.IncrementHome)
}

func (b *Scoreboard) IncrementAwayTeamScore(id Identifier) (Match, error) {
	return b.apply(id, Score.IncrementAway)
}

func (b *Scoreboard) IncrementHomeScoreByValue(id Identifier, amount int) (Match, error) {
	return b.apply(id, func(s Score) (Score, error) { return s.IncrementHomeBy(amount) })
}

func (b *Scoreboard) IncrementAwayScoreByValue(id Identifier, amount int) (Match, error) {
	return b.apply(id, func(s Score) (Score, error) { return s.IncrementAwayBy(amount) })
}

func (b *Scoreboard) DecrementHomeScore(id Identifier) (Match, error) {
	return b.apply(id, Score.DecrementHome)
}

func (b *Scoreboard) DecrementAwayScore(id Identifier) (Match, error) {
	return b.apply(id, Score.DecrementAway)
}

func (b *Scoreboard) DecrementHomeScoreByValue(id Identifier, amount int) (Match, error) {
	return b.apply(id, func(s Score) (Score, error) { return s.DecrementHomeBy(amount) })
}

func (b *Scoreboard) DecrementAwayScoreByValue(id Identifier, amount int) (Match, error) {
	return b.apply(id, func(s Score) (Score, error) { return s.DecrementAwayBy(amount) })
}

// UpdateScore sets an absolute score, e.g. after a disallowed goal.
func (b *Scoreboard) UpdateScore(id Identifier, home, away int) (Match, error) {
	return b.apply(id, func(Score) (Score, error) { return NewScore(home, away) })
}

// apply runs fn on the stored match's score, never on the caller's copy, and replaces
// the entry only after the new score validated.
func (b *Scoreboard) apply(id Identifier, fn func(Score) (Score, error)) (Match, error) {
	if id == nil {
		return Match{}, invalidArgument("match must not be nil")
	}
	key := id.Key()
	stored, ok := b.matches[key]
	if !ok {
		return Match{}, ErrMatchNotFound
	}
	next, err := fn(stored.score)
	if err != nil {
		return Match{}, err
	}
	updated := stored.WithScore(next)
	b.matches[key] = updated
	return updated, nil
}

// Summary lists live matches by total score descending, then by most recent start.
// Remaining ties fall back to team names so the order is deterministic.
func (b *Scoreboard) Summary() []Match {
	out := make([]Match, 0, len(b.matches))
	for _, m := range b.matches {
		out = append(out, m)
	}
	slices.SortFunc(out, CompareRank)
	return out
}

// CompareRank orders matches the way Summary does; negative means a ranks above c.
func CompareRank(a, c Match) int {
	if n := cmp.Compare(c.score.Total(), a.score.Total()); n != 0 {
		return n
	}
	if n := c.startTime.Compare(a.startTime); n != 0 {
		return n
	}
	if n := strings.Compare(a.homeTeam, c.homeTeam); n != 0 {
		return n
	}
	return strings.Compare(a.awayTeam, c.awayTeam)
}
