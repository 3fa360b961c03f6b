package core

import (
	"time"

	"github.com/google/uuid"
)

// EventType enumerates scoreboard events.
type EventType string

const (
	EventMatchStarted  EventType = "match_started"
	EventScoreUpdated  EventType = "score_updated"
	EventMatchFinished EventType = "match_finished"
	EventBoardCleared  EventType = "board_cleared"
)

// Event is an immutable notification about a change on the board. Events are
// delivered to subscribers and never retained.
type Event struct {
	ID   string    `json:"id"`
	Type EventType `json:"type"`
	// Seq orders events by the write that produced them; zero when unsequenced.
	Seq       uint64     `json:"seq,omitempty"`
	Time      time.Time  `json:"time"`
	HomeTeam  string     `json:"home_team,omitempty"`
	AwayTeam  string     `json:"away_team,omitempty"`
	StartTime *time.Time `json:"start_time,omitempty"`
	HomeScore int        `json:"home_score"`
	AwayScore int        `json:"away_score"`
}

// Key returns the identity of the match the event refers to. Board-wide events
// return the zero key.
func (e Event) Key() MatchKey {
	k := MatchKey{HomeTeam: e.HomeTeam, AwayTeam: e.AwayTeam}
	if e.StartTime != nil {
		k.StartTime = *e.StartTime
	}
	return k
}

func newMatchEvent(typ EventType, m Match, at time.Time) Event {
	start := m.startTime
	return Event{
		ID:        uuid.NewString(),
		Type:      typ,
		Time:      at.UTC(),
		HomeTeam:  m.homeTeam,
		AwayTeam:  m.awayTeam,
		StartTime: &start,
		HomeScore: m.score.home,
		AwayScore: m.score.away,
	}
}

func NewMatchStarted(m Match, at time.Time) Event  { return newMatchEvent(EventMatchStarted, m, at) }
func NewScoreUpdated(m Match, at time.Time) Event  { return newMatchEvent(EventScoreUpdated, m, at) }
func NewMatchFinished(m Match, at time.Time) Event { return newMatchEvent(EventMatchFinished, m, at) }

func NewBoardCleared(at time.Time) Event {
	return Event{ID: uuid.NewString(), Type: EventBoardCleared, Time: at.UTC()}
}
