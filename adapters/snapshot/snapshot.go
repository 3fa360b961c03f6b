// Package snapshot converts a scoreboard to and from the flat records the
// persistent repositories store.
package snapshot

import (
	"encoding/json"
	"fmt"
	"time"

	"scoreboardkit/core"
)

// Version is bumped whenever the encoded layout changes.
const Version = 1

// Record is one live match in storage form.
type Record struct {
	HomeTeam  string    `json:"home_team" db:"home_team"`
	AwayTeam  string    `json:"away_team" db:"away_team"`
	StartTime time.Time `json:"start_time" db:"start_time"`
	HomeScore int       `json:"home_score" db:"home_score"`
	AwayScore int       `json:"away_score" db:"away_score"`
}

// Snapshot is the whole board at one instant, matches in summary order.
type Snapshot struct {
	Version int      `json:"version"`
	Matches []Record `json:"matches"`
}

func FromMatch(m core.Match) Record {
	return Record{
		HomeTeam:  m.HomeTeam(),
		AwayTeam:  m.AwayTeam(),
		StartTime: m.StartTime(),
		HomeScore: m.Score().Home(),
		AwayScore: m.Score().Away(),
	}
}

// Match validates r and rebuilds the match it describes.
func (r Record) Match() (core.Match, error) {
	score, err := core.NewScore(r.HomeScore, r.AwayScore)
	if err != nil {
		return core.Match{}, err
	}
	return core.NewMatch(r.HomeTeam, r.AwayTeam, r.StartTime, core.WithScore(score))
}

func FromBoard(b *core.Scoreboard) Snapshot {
	summary := b.Summary()
	records := make([]Record, 0, len(summary))
	for _, m := range summary {
		records = append(records, FromMatch(m))
	}
	return Snapshot{Version: Version, Matches: records}
}

// Board rebuilds a scoreboard from the records. Any invalid record fails the
// whole snapshot.
func (s Snapshot) Board(opts ...core.ScoreboardOption) (*core.Scoreboard, error) {
	return BoardFromRecords(s.Matches, opts...)
}

func BoardFromRecords(records []Record, opts ...core.ScoreboardOption) (*core.Scoreboard, error) {
	b := core.NewScoreboard(opts...)
	for i, r := range records {
		m, err := r.Match()
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
		if err := b.StartMatch(m); err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
	}
	return b, nil
}

// Encode renders the board as JSON. Indent is used for files people may read.
func Encode(b *core.Scoreboard, indent bool) ([]byte, error) {
	snap := FromBoard(b)
	if indent {
		return json.MarshalIndent(snap, "", "  ")
	}
	return json.Marshal(snap)
}

func Decode(data []byte, opts ...core.ScoreboardOption) (*core.Scoreboard, error) {
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	if snap.Version != Version {
		return nil, fmt.Errorf("unsupported snapshot version %d", snap.Version)
	}
	return snap.Board(opts...)
}
