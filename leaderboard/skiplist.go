package leaderboard

import (
	cryptorand "crypto/rand"
	"encoding/binary"
	"math/rand/v2"
	"sync"

	"scoreboardkit/core"
)

// A skip list ordered by core.CompareRank (total desc, start desc, teams asc) giving
// O(log n) score changes and O(n) top-N reads without re-sorting the board.

const maxLevel = 16
const pFactor = 0.25

type node struct {
	m    core.Match
	next [maxLevel]*node
}

type SkipList struct {
	mu    sync.RWMutex
	head  *node
	lvl   int
	byKey map[core.MatchKey]*node
	rng   *rand.Rand
}

func NewSkipList() *SkipList {
	var seed [16]byte
	if _, err := cryptorand.Read(seed[:]); err != nil {
		seed = [16]byte{}
	}
	return &SkipList{
		head:  &node{},
		lvl:   1,
		byKey: map[core.MatchKey]*node{},
		rng:   rand.New(rand.NewPCG(binary.BigEndian.Uint64(seed[:8]), binary.BigEndian.Uint64(seed[8:]))),
	}
}

func (s *SkipList) randomLevel() int {
	lvl := 1
	for lvl < maxLevel && s.rng.Float64() < pFactor {
		lvl++
	}
	return lvl
}

func less(a, b core.Match) bool { return core.CompareRank(a, b) < 0 }

// Upsert inserts the match or moves it to the position of its new score.
func (s *SkipList) Upsert(m core.Match) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.upsertLocked(m)
}

func (s *SkipList) upsertLocked(m core.Match) {
	key := m.Key()
	if old, ok := s.byKey[key]; ok {
		s.removeLocked(old.m)
	}
	update := [maxLevel]*node{}
	cur := s.head
	for i := s.lvl - 1; i >= 0; i-- {
		for cur.next[i] != nil && less(cur.next[i].m, m) {
			cur = cur.next[i]
		}
		update[i] = cur
	}
	lvl := s.randomLevel()
	if lvl > s.lvl {
		for i := s.lvl; i < lvl; i++ {
			update[i] = s.head
		}
		s.lvl = lvl
	}
	n := &node{m: m}
	for i := 0; i < lvl; i++ {
		n.next[i] = update[i].next[i]
		update[i].next[i] = n
	}
	s.byKey[key] = n
}

func (s *SkipList) removeLocked(m core.Match) {
	update := [maxLevel]*node{}
	cur := s.head
	for i := s.lvl - 1; i >= 0; i-- {
		for cur.next[i] != nil && less(cur.next[i].m, m) {
			cur = cur.next[i]
		}
		update[i] = cur
	}
	target := update[0].next[0]
	if target == nil || target.m.Key() != m.Key() {
		return
	}
	for i := 0; i < s.lvl; i++ {
		if update[i].next[i] == target {
			update[i].next[i] = target.next[i]
		}
	}
	delete(s.byKey, m.Key())
	for s.lvl > 1 && s.head.next[s.lvl-1] == nil {
		s.lvl--
	}
}

// Remove drops the match with the given identity, if indexed.
func (s *SkipList) Remove(key core.MatchKey) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if n, ok := s.byKey[key]; ok {
		s.removeLocked(n.m)
	}
}

// TopN returns up to n matches in summary order; n <= 0 returns nil.
func (s *SkipList) TopN(n int) []core.Match {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if n <= 0 {
		return nil
	}
	if n > len(s.byKey) {
		n = len(s.byKey)
	}
	out := make([]core.Match, 0, n)
	for cur := s.head.next[0]; cur != nil && len(out) < n; cur = cur.next[0] {
		out = append(out, cur.m)
	}
	return out
}

func (s *SkipList) Get(key core.MatchKey) (core.Match, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if n, ok := s.byKey[key]; ok {
		return n.m, true
	}
	return core.Match{}, false
}

func (s *SkipList) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.byKey)
}

// Reset replaces the whole index, e.g. after a board was loaded from a repository.
func (s *SkipList) Reset(matches []core.Match) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.head = &node{}
	s.lvl = 1
	s.byKey = make(map[core.MatchKey]*node, len(matches))
	for _, m := range matches {
		s.upsertLocked(m)
	}
}

var _ Board = (*SkipList)(nil)
