package leaderboard

import "scoreboardkit/core"

// Board is a ranked index of live matches, ordered like core.Scoreboard.Summary.
type Board interface {
	Upsert(m core.Match)
	Remove(key core.MatchKey)
	TopN(n int) []core.Match
	Get(key core.MatchKey) (core.Match, bool)
	Len() int
	Reset(matches []core.Match)
}
