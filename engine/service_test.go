package engine

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"

	mem "scoreboardkit/adapters/memory"
	"scoreboardkit/core"
)

var kickoff = time.Date(2026, 6, 15, 14, 0, 0, 0, time.UTC)

type failingRepo struct {
	*mem.Store
	saveErr error
}

func (f *failingRepo) Save(ctx context.Context, b *core.Scoreboard) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	return f.Store.Save(ctx, b)
}

func newService(t *testing.T) (*Service, *clockwork.FakeClock) {
	t.Helper()
	clock := clockwork.NewFakeClockAt(kickoff)
	svc := NewService(mem.New(), NewEventBus(DispatchSync), WithClock(clock))
	t.Cleanup(svc.Close)
	return svc, clock
}

func TestServiceLifecycleAndEvents(t *testing.T) {
	ctx := context.Background()
	svc, clock := newService(t)

	var got []core.EventType
	svc.SubscribeAll(func(_ context.Context, e core.Event) { got = append(got, e.Type) })

	m, err := svc.StartNow(ctx, "Mexico", "Canada")
	if err != nil {
		t.Fatal(err)
	}
	if !m.StartTime().Equal(kickoff) {
		t.Fatalf("StartNow should use the clock, got %v", m.StartTime())
	}

	clock.Advance(10 * time.Minute)
	updated, err := svc.IncrementAwayScoreByValue(ctx, core.KeyOf("Mexico", "Canada", kickoff), 5)
	if err != nil {
		t.Fatal(err)
	}
	if updated.Score().Away() != 5 {
		t.Fatalf("got %v", updated.Score())
	}

	finished, err := svc.FinishMatch(ctx, m)
	if err != nil || !finished {
		t.Fatalf("finish: %v %v", finished, err)
	}
	finished, err = svc.FinishMatch(ctx, m)
	if err != nil || finished {
		t.Fatalf("second finish should be a no-op: %v %v", finished, err)
	}

	want := []core.EventType{core.EventMatchStarted, core.EventScoreUpdated, core.EventMatchFinished}
	if len(got) != len(want) {
		t.Fatalf("want events %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("want events %v, got %v", want, got)
		}
	}
}

func TestServiceEventTimeFromClock(t *testing.T) {
	ctx := context.Background()
	svc, clock := newService(t)
	clock.Advance(3 * time.Minute)

	var at time.Time
	svc.Subscribe(core.EventMatchStarted, func(_ context.Context, e core.Event) { at = e.Time })
	if _, err := svc.Start(ctx, "Home", "Away", kickoff); err != nil {
		t.Fatal(err)
	}
	if !at.Equal(kickoff.Add(3 * time.Minute)) {
		t.Fatalf("unexpected event time %v", at)
	}
}

func TestServiceRejectedUpdatePublishesNothing(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(t)
	m, _ := svc.Start(ctx, "Home", "Away", kickoff)

	events := 0
	svc.Subscribe(core.EventScoreUpdated, func(context.Context, core.Event) { events++ })

	if _, err := svc.DecrementHomeScore(ctx, m); !errors.Is(err, core.ErrInvalidArgument) {
		t.Fatalf("want ErrInvalidArgument, got %v", err)
	}
	if _, err := svc.UpdateScore(ctx, core.KeyOf("Nobody", "Away", kickoff), 1, 1); !errors.Is(err, core.ErrMatchNotFound) {
		t.Fatalf("want ErrMatchNotFound, got %v", err)
	}
	if events != 0 {
		t.Fatalf("rejected updates must not publish, got %d", events)
	}
}

func TestServiceUpdateFamily(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(t)
	m, _ := svc.Start(ctx, "Liverpool", "Man City", kickoff)

	steps := []func() (core.Match, error){
		func() (core.Match, error) { return svc.IncrementHomeTeamScore(ctx, m) },
		func() (core.Match, error) { return svc.IncrementAwayTeamScore(ctx, m) },
		func() (core.Match, error) { return svc.IncrementHomeScoreByValue(ctx, m, 3) },
		func() (core.Match, error) { return svc.IncrementAwayScoreByValue(ctx, m, 4) },
		func() (core.Match, error) { return svc.DecrementHomeScore(ctx, m) },
		func() (core.Match, error) { return svc.DecrementAwayScore(ctx, m) },
		func() (core.Match, error) { return svc.DecrementHomeScoreByValue(ctx, m, 1) },
		func() (core.Match, error) { return svc.DecrementAwayScoreByValue(ctx, m, 1) },
	}
	var last core.Match
	for i, step := range steps {
		var err error
		if last, err = step(); err != nil {
			t.Fatalf("step %d: %v", i, err)
		}
	}
	if last.Score().Home() != 2 || last.Score().Away() != 3 {
		t.Fatalf("want 2-3, got %v", last.Score())
	}

	found, ok, err := svc.FindMatch(ctx, core.KeyOf("Liverpool", "Man City", kickoff))
	if err != nil || !ok || found != last {
		t.Fatalf("find: %v %v %v", found, ok, err)
	}
}

func TestServiceTopFollowsWrites(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(t)

	a, _ := svc.Start(ctx, "Spain", "Brazil", kickoff)
	b, _ := svc.Start(ctx, "Germany", "France", kickoff.Add(time.Minute))

	top, err := svc.Top(ctx, 1)
	if err != nil || len(top) != 1 || top[0].HomeTeam() != "Germany" {
		t.Fatalf("later start should lead on equal totals: %v %v", top, err)
	}

	if _, err := svc.UpdateScore(ctx, a, 2, 0); err != nil {
		t.Fatal(err)
	}
	top, _ = svc.Top(ctx, 2)
	if top[0].HomeTeam() != "Spain" || top[1].HomeTeam() != "Germany" {
		t.Fatalf("unexpected order %v", top)
	}

	svc.FinishMatch(ctx, a)
	top, _ = svc.Top(ctx, 5)
	if len(top) != 1 || top[0].Key() != b.Key() {
		t.Fatalf("finished match should leave the index: %v", top)
	}

	summary, _ := svc.Summary(ctx)
	if len(summary) != len(top) || summary[0] != top[0] {
		t.Fatalf("index and summary disagree: %v vs %v", top, summary)
	}
}

func TestServiceSyncPicksUpExternalWrites(t *testing.T) {
	ctx := context.Background()
	repo := mem.New()
	svc := NewService(repo, NewEventBus(DispatchSync))
	defer svc.Close()

	if top, _ := svc.Top(ctx, 3); len(top) != 0 {
		t.Fatalf("want empty index, got %v", top)
	}

	board, _ := repo.Scoreboard(ctx)
	next := board.Clone()
	next.Start("Home", "Away", kickoff)
	repo.Save(ctx, next)

	if err := svc.Sync(ctx); err != nil {
		t.Fatal(err)
	}
	if top, _ := svc.Top(ctx, 3); len(top) != 1 {
		t.Fatalf("want synced index, got %v", top)
	}
}

func TestServiceClear(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(t)
	svc.Start(ctx, "Home", "Away", kickoff)

	cleared := false
	svc.Subscribe(core.EventBoardCleared, func(context.Context, core.Event) { cleared = true })
	if err := svc.Clear(ctx); err != nil {
		t.Fatal(err)
	}
	summary, _ := svc.Summary(ctx)
	top, _ := svc.Top(ctx, 10)
	if len(summary) != 0 || len(top) != 0 || !cleared {
		t.Fatalf("unexpected state after clear: %v %v %v", summary, top, cleared)
	}
}

func TestServiceSaveFailureKeepsBoard(t *testing.T) {
	ctx := context.Background()
	repo := &failingRepo{Store: mem.New()}
	svc := NewService(repo, NewEventBus(DispatchSync))
	defer svc.Close()

	m, err := svc.Start(ctx, "Home", "Away", kickoff)
	if err != nil {
		t.Fatal(err)
	}
	repo.saveErr = errors.New("disk full")
	if _, err := svc.IncrementHomeTeamScore(ctx, m); err == nil {
		t.Fatal("expected save error")
	}
	found, _, _ := svc.FindMatch(ctx, m)
	if found.Score() != core.InitialScore() {
		t.Fatalf("board changed despite failed save: %v", found.Score())
	}
}

func TestNewServicePanicsOnNil(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic")
		}
	}()
	NewService(nil, NewEventBus(DispatchSync))
}

func TestServiceConcurrentWritersAndReaders(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(t)
	m, err := svc.Start(ctx, "Argentina", "Australia", kickoff)
	if err != nil {
		t.Fatal(err)
	}

	var (
		mu     sync.Mutex
		events []core.Event
	)
	svc.Subscribe(core.EventScoreUpdated, func(_ context.Context, e core.Event) {
		mu.Lock()
		events = append(events, e)
		mu.Unlock()
	})

	const writers = 50
	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			if _, err := svc.IncrementHomeTeamScore(ctx, m); err != nil {
				t.Error(err)
			}
		}()
		go func() {
			defer wg.Done()
			if _, err := svc.Summary(ctx); err != nil {
				t.Error(err)
			}
			if _, err := svc.Top(ctx, 3); err != nil {
				t.Error(err)
			}
		}()
	}
	wg.Wait()

	got, ok, err := svc.FindMatch(ctx, m)
	if err != nil || !ok {
		t.Fatalf("find: %v %v", ok, err)
	}
	if got.Score().Home() != writers {
		t.Fatalf("lost updates: want %d, got %d", writers, got.Score().Home())
	}
	top, err := svc.Top(ctx, 1)
	if err != nil || len(top) != 1 || top[0].Score().Home() != writers {
		t.Fatalf("index out of step with board: %v %v", top, err)
	}

	// Delivery order may differ from write order; Seq restores it.
	if len(events) != writers {
		t.Fatalf("want %d events, got %d", writers, len(events))
	}
	seen := make(map[uint64]bool, writers)
	var last core.Event
	for _, e := range events {
		if e.Seq == 0 || seen[e.Seq] {
			t.Fatalf("sequence numbers must be unique and non-zero, got %d", e.Seq)
		}
		seen[e.Seq] = true
		if e.Seq > last.Seq {
			last = e
		}
	}
	if last.HomeScore != writers {
		t.Fatalf("highest sequence should carry the final score, got %d", last.HomeScore)
	}
}

func TestServiceFinishUnknownMatchLogsKey(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	svc := NewService(mem.New(), NewEventBus(DispatchSync), WithLogger(logger))
	defer svc.Close()

	finished, err := svc.FinishMatch(context.Background(), core.KeyOf("Ghost", "Town", kickoff))
	if err != nil || finished {
		t.Fatalf("unknown match should be a no-op: %v %v", finished, err)
	}
	if !strings.Contains(buf.String(), "match.home=Ghost") || !strings.Contains(buf.String(), "match.away=Town") {
		t.Fatalf("expected the key in the log, got %q", buf.String())
	}
}
