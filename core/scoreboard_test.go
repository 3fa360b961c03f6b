package core

import (
	"errors"
	"testing"
	"time"
)

func mustStart(t *testing.T, b *Scoreboard, home, away string, start time.Time) Match {
	t.Helper()
	m, err := b.Start(home, away, start)
	if err != nil {
		t.Fatalf("start %s vs %s: %v", home, away, err)
	}
	return m
}

func TestStartAndFind(t *testing.T) {
	b := NewScoreboard()
	m := mustStart(t, b, "home", "away", kickoff)

	found, ok := b.FindMatch(KeyOf("home", "away", kickoff))
	if !ok || found != m {
		t.Fatalf("find by identifiers: %v %v", found, ok)
	}
	found, ok = b.FindMatch(m)
	if !ok || found != m {
		t.Fatalf("find by match: %v %v", found, ok)
	}
	if b.Len() != 1 {
		t.Fatalf("want 1 match, got %d", b.Len())
	}
}

func TestStartMatchRejectsZeroMatch(t *testing.T) {
	b := NewScoreboard()
	if err := b.StartMatch(Match{}); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("want ErrInvalidArgument, got %v", err)
	}
	if _, err := b.Start("", "away", kickoff); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("want ErrInvalidArgument, got %v", err)
	}
	if b.Len() != 0 {
		t.Fatal("board should stay empty")
	}
}

func TestDuplicateStartOverwritesByDefault(t *testing.T) {
	b := NewScoreboard()
	m := mustStart(t, b, "Home", "Away", kickoff)
	if _, err := b.IncrementHomeTeamScore(m); err != nil {
		t.Fatal(err)
	}
	mustStart(t, b, "Home", "Away", kickoff)

	found, _ := b.FindMatch(m)
	if found.Score() != InitialScore() || b.Len() != 1 {
		t.Fatalf("expected overwritten 0-0 entry, got %v (len %d)", found, b.Len())
	}
}

func TestDuplicateStartRejectedWhenConfigured(t *testing.T) {
	b := NewScoreboard(RejectDuplicateStarts())
	mustStart(t, b, "Home", "Away", kickoff)
	if _, err := b.Start("Home", "Away", kickoff); !errors.Is(err, ErrMatchAlreadyStarted) {
		t.Fatalf("want ErrMatchAlreadyStarted, got %v", err)
	}
	if !errors.Is(ErrMatchAlreadyStarted, ErrInvalidArgument) {
		t.Fatal("duplicate start error should be an invalid argument")
	}
}

func TestFinishMatch(t *testing.T) {
	b := NewScoreboard()
	m := mustStart(t, b, " Home ", " Away ", kickoff)

	if !b.FinishMatch(m) {
		t.Fatal("expected removal")
	}
	if _, ok := b.FindMatch(m); ok {
		t.Fatal("finished match should be gone")
	}

	mustStart(t, b, "Home", "Away", kickoff)
	b.FinishMatch(KeyOf("Home", "Away", kickoff))
	if b.Len() != 0 {
		t.Fatal("finish by identifiers should remove the match")
	}
}

func TestFinishAbsentIsNoop(t *testing.T) {
	b := NewScoreboard()
	mustStart(t, b, "Home", "Away", kickoff)

	if b.FinishMatch(KeyOf("Other", "Away", kickoff)) {
		t.Fatal("nothing should be removed")
	}
	if b.FinishMatch(nil) {
		t.Fatal("nil identifier should be a no-op")
	}
	if b.Len() != 1 {
		t.Fatal("board should be unchanged")
	}
}

func TestUpdatesApplyToStoredMatch(t *testing.T) {
	b := NewScoreboard()
	m := mustStart(t, b, "Home", "Away", kickoff)

	incremented, err := b.IncrementHomeScoreByValue(m, 2)
	if err != nil || incremented.Score().Home() != 2 {
		t.Fatalf("got %v %v", incremented, err)
	}

	// m is now stale; the board must still read its own copy.
	decremented, err := b.DecrementHomeScore(m)
	if err != nil {
		t.Fatal(err)
	}
	if decremented.Score().Home() != 1 || decremented.Score().Away() != 0 {
		t.Fatalf("got %v", decremented.Score())
	}
	found, _ := b.FindMatch(m)
	if found != decremented {
		t.Fatal("lookup by original identity should return the latest value")
	}
	if m.Score() != InitialScore() {
		t.Fatal("caller's match must not be mutated")
	}
}

func TestUpdateFamily(t *testing.T) {
	tests := []struct {
		name      string
		op        func(b *Scoreboard, id Identifier) (Match, error)
		wantHome  int
		wantAway  int
		startHome int
		startAway int
	}{
		{"increment home", func(b *Scoreboard, id Identifier) (Match, error) { return b.IncrementHomeTeamScore(id) }, 1, 0, 0, 0},
		{"increment away", func(b *Scoreboard, id Identifier) (Match, error) { return b.IncrementAwayTeamScore(id) }, 0, 1, 0, 0},
		{"increment home by", func(b *Scoreboard, id Identifier) (Match, error) { return b.IncrementHomeScoreByValue(id, 5) }, 5, 0, 0, 0},
		{"increment away by", func(b *Scoreboard, id Identifier) (Match, error) { return b.IncrementAwayScoreByValue(id, 4) }, 0, 4, 0, 0},
		{"decrement home", func(b *Scoreboard, id Identifier) (Match, error) { return b.DecrementHomeScore(id) }, 2, 3, 3, 3},
		{"decrement away", func(b *Scoreboard, id Identifier) (Match, error) { return b.DecrementAwayScore(id) }, 3, 2, 3, 3},
		{"decrement home by", func(b *Scoreboard, id Identifier) (Match, error) { return b.DecrementHomeScoreByValue(id, 3) }, 0, 3, 3, 3},
		{"decrement away by", func(b *Scoreboard, id Identifier) (Match, error) { return b.DecrementAwayScoreByValue(id, 2) }, 3, 1, 3, 3},
		{"update score", func(b *Scoreboard, id Identifier) (Match, error) { return b.UpdateScore(id, 4, 4) }, 4, 4, 1, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, byKey := range []bool{false, true} {
				b := NewScoreboard()
				m := mustStart(t, b, "Home", "Away", kickoff)
				if _, err := b.UpdateScore(m, tt.startHome, tt.startAway); err != nil {
					t.Fatal(err)
				}
				var id Identifier = m
				if byKey {
					id = KeyOf("Home", "Away", kickoff)
				}
				got, err := tt.op(b, id)
				if err != nil {
					t.Fatalf("byKey=%v: %v", byKey, err)
				}
				if got.Score().Home() != tt.wantHome || got.Score().Away() != tt.wantAway {
					t.Fatalf("byKey=%v: got %v", byKey, got.Score())
				}
				if found, _ := b.FindMatch(id); found != got {
					t.Fatalf("byKey=%v: stored %v, returned %v", byKey, found, got)
				}
			}
		})
	}
}

func TestUpdateRequiresLiveMatch(t *testing.T) {
	b := NewScoreboard()
	m, _ := NewMatch("Home", "Away", kickoff)

	if _, err := b.IncrementHomeTeamScore(m); !errors.Is(err, ErrMatchNotFound) {
		t.Fatalf("want ErrMatchNotFound, got %v", err)
	}
	if _, err := b.UpdateScore(KeyOf("Nonexistent", "Team", kickoff), 1, 0); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("want ErrInvalidArgument, got %v", err)
	}
	if _, err := b.DecrementAwayScore(nil); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("nil identifier should fail, got %v", err)
	}
	if b.Len() != 0 {
		t.Fatal("failed updates must not add entries")
	}
}

func TestFailedUpdateLeavesBoardUnchanged(t *testing.T) {
	b := NewScoreboard()
	m := mustStart(t, b, "Liverpool", "Man City", kickoff)
	before, _ := b.UpdateScore(m, 4, 4)

	if _, err := b.UpdateScore(m, -1, 0); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("want ErrInvalidArgument, got %v", err)
	}
	if _, err := b.DecrementAwayScoreByValue(m, 5); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("want ErrInvalidArgument, got %v", err)
	}
	if after, _ := b.FindMatch(m); after != before {
		t.Fatalf("entry changed: %v -> %v", before, after)
	}
}

func TestSummaryOrdering(t *testing.T) {
	b := NewScoreboard()
	base := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	fixtures := []struct {
		home, away string
		h, a       int
	}{
		{"Mexico", "Canada", 0, 5},
		{"Spain", "Brazil", 10, 2},
		{"Germany", "France", 2, 2},
		{"Uruguay", "Italy", 6, 6},
		{"Argentina", "Australia", 3, 1},
	}
	for i, f := range fixtures {
		start := base.Add(time.Duration(i) * time.Minute)
		mustStart(t, b, f.home, f.away, start)
		key := KeyOf(f.home, f.away, start)
		if _, err := b.IncrementHomeScoreByValue(key, f.h); err != nil {
			t.Fatal(err)
		}
		if _, err := b.IncrementAwayScoreByValue(key, f.a); err != nil {
			t.Fatal(err)
		}
	}

	summary := b.Summary()
	want := []string{"Uruguay", "Spain", "Mexico", "Argentina", "Germany"}
	if len(summary) != len(want) {
		t.Fatalf("want %d matches, got %d", len(want), len(summary))
	}
	for i, home := range want {
		if summary[i].HomeTeam() != home {
			t.Fatalf("position %d: want %s, got %s", i+1, home, summary[i].HomeTeam())
		}
	}
}

func TestSummaryTieBreakIsDeterministic(t *testing.T) {
	b := NewScoreboard()
	mustStart(t, b, "Bravo", "Zulu", kickoff)
	mustStart(t, b, "Alpha", "Zulu", kickoff)
	mustStart(t, b, "Alpha", "Yankee", kickoff)

	for i := 0; i < 5; i++ {
		s := b.Summary()
		if s[0].Key() != KeyOf("Alpha", "Yankee", kickoff) ||
			s[1].Key() != KeyOf("Alpha", "Zulu", kickoff) ||
			s[2].Key() != KeyOf("Bravo", "Zulu", kickoff) {
			t.Fatalf("unexpected order: %v", s)
		}
	}
}

func TestSummaryEmpty(t *testing.T) {
	s := NewScoreboard().Summary()
	if s == nil || len(s) != 0 {
		t.Fatalf("want empty non-nil slice, got %#v", s)
	}
}

func TestSingleMatchScenario(t *testing.T) {
	b := NewScoreboard()
	mustStart(t, b, "Mexico", "Canada", kickoff)
	m, err := b.IncrementAwayScoreByValue(KeyOf("Mexico", "Canada", kickoff), 5)
	if err != nil {
		t.Fatal(err)
	}
	if m.Score().Home() != 0 || m.Score().Away() != 5 {
		t.Fatalf("got %v", m.Score())
	}
	s := b.Summary()
	if len(s) != 1 || s[0].Score().Total() != 5 {
		t.Fatalf("unexpected summary %v", s)
	}
}

func TestCloneIsIndependent(t *testing.T) {
	b := NewScoreboard(RejectDuplicateStarts())
	m := mustStart(t, b, "Home", "Away", kickoff)

	cp := b.Clone()
	if _, err := cp.IncrementHomeTeamScore(m); err != nil {
		t.Fatal(err)
	}
	cp.FinishMatch(m)

	if found, ok := b.FindMatch(m); !ok || found.Score() != InitialScore() {
		t.Fatalf("original board changed: %v %v", found, ok)
	}
	if !cp.RejectsDuplicates() {
		t.Fatal("clone should keep the duplicate policy")
	}
}
