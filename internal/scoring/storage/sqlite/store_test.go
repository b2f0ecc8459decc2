package sqlite

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/louisbranch/scorebook/internal/scoring"
	"github.com/louisbranch/scorebook/internal/scoring/domain/event"
	"github.com/louisbranch/scorebook/internal/scoring/domain/game"
	"github.com/louisbranch/scorebook/internal/scoring/storage"
)

func openStore(t *testing.T) *Store {
	t.Helper()
	registry, err := scoring.NewEventRegistry()
	if err != nil {
		t.Fatalf("build registry: %v", err)
	}
	store, err := Open(t.TempDir()+"/scorebook.db", registry)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func runScoredEvent(t *testing.T, gameID, runnerID string, n int) event.Event {
	t.Helper()
	payload, err := json.Marshal(game.RunScoredPayload{RunnerID: runnerID, Side: game.SideAway})
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}
	return event.Event{
		GameID:        gameID,
		ID:            fmt.Sprintf("evt-%s-%d", runnerID, n),
		Type:          event.TypeRunScored,
		Timestamp:     time.Date(2026, time.May, 9, 14, 0, 0, 0, time.UTC),
		Version:       1,
		AggregateType: event.AggregateGame,
		AggregateID:   gameID,
		PayloadJSON:   payload,
	}
}

func TestGameRoundTripAndList(t *testing.T) {
	store := openStore(t)
	now := time.Date(2026, time.May, 9, 14, 0, 0, 0, time.UTC)

	for i := 1; i <= 3; i++ {
		rec := storage.GameRecord{
			ID:           fmt.Sprintf("g%d", i),
			Status:       game.StatusInProgress,
			HomeScore:    i,
			AwayScore:    i + 1,
			StartTime:    now,
			HomeLineupID: "lh",
			AwayLineupID: "la",
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		if err := store.PutGame(context.Background(), rec); err != nil {
			t.Fatalf("put game g%d: %v", i, err)
		}
	}

	got, err := store.GetGame(context.Background(), "g2")
	if err != nil {
		t.Fatalf("get game: %v", err)
	}
	if got.HomeScore != 2 || got.AwayScore != 3 {
		t.Fatalf("score = %d-%d, want 2-3", got.HomeScore, got.AwayScore)
	}
	if !got.StartTime.Equal(now) {
		t.Fatalf("start time = %v, want %v", got.StartTime, now)
	}

	// Update must overwrite, not duplicate.
	updated := got
	updated.Status = game.StatusCompleted
	updated.CompletionReason = "REGULATION"
	if err := store.PutGame(context.Background(), updated); err != nil {
		t.Fatalf("update game: %v", err)
	}
	got, err = store.GetGame(context.Background(), "g2")
	if err != nil {
		t.Fatalf("get updated game: %v", err)
	}
	if got.Status != game.StatusCompleted || got.CompletionReason != "REGULATION" {
		t.Fatalf("status = %s/%s, want COMPLETED/REGULATION", got.Status, got.CompletionReason)
	}

	page, err := store.ListGames(context.Background(), 2, "")
	if err != nil {
		t.Fatalf("list games: %v", err)
	}
	if len(page.Games) != 2 {
		t.Fatalf("page len = %d, want 2", len(page.Games))
	}
	if page.NextPageToken == "" {
		t.Fatal("expected a next page token")
	}
	rest, err := store.ListGames(context.Background(), 2, page.NextPageToken)
	if err != nil {
		t.Fatalf("list games page 2: %v", err)
	}
	if len(rest.Games) != 1 {
		t.Fatalf("page 2 len = %d, want 1", len(rest.Games))
	}
}

func TestGetGameNotFound(t *testing.T) {
	store := openStore(t)
	if _, err := store.GetGame(context.Background(), "missing"); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestAppendEventsAssignsSequenceAndDetectsConflicts(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()

	batch := []event.Event{
		runScoredEvent(t, "g1", "p1", 1),
		runScoredEvent(t, "g1", "p2", 2),
	}
	var expected uint64
	appended, err := store.AppendEvents(ctx, "g1", batch, &expected)
	if err != nil {
		t.Fatalf("append: %v", err)
	}
	for i, evt := range appended {
		if want := uint64(i + 1); evt.Seq != want {
			t.Fatalf("seq[%d] = %d, want %d", i, evt.Seq, want)
		}
	}

	// A stale expectation must be rejected without writing anything.
	stale := uint64(0)
	if _, err := store.AppendEvents(ctx, "g1", []event.Event{runScoredEvent(t, "g1", "p3", 3)}, &stale); !errors.Is(err, storage.ErrVersionConflict) {
		t.Fatalf("stale append err = %v, want ErrVersionConflict", err)
	}
	latest, err := store.GetLatestEventSeq(ctx, "g1")
	if err != nil {
		t.Fatalf("latest seq: %v", err)
	}
	if latest != 2 {
		t.Fatalf("latest seq = %d, want 2", latest)
	}

	// Unvalidated types never reach the journal.
	bad := runScoredEvent(t, "g1", "p4", 4)
	bad.Type = "game.unknown"
	if _, err := store.AppendEvents(ctx, "g1", []event.Event{bad}, nil); err == nil {
		t.Fatal("expected unknown type rejection")
	}

	events, err := store.ListEvents(ctx, "g1", 1, 10)
	if err != nil {
		t.Fatalf("list events: %v", err)
	}
	if len(events) != 1 || events[0].Seq != 2 {
		t.Fatalf("events after seq 1 = %+v", events)
	}
	if events[0].Type != event.TypeRunScored {
		t.Fatalf("type = %s, want %s", events[0].Type, event.TypeRunScored)
	}

	recent, err := store.ListRecentEvents(ctx, "g1", 1)
	if err != nil {
		t.Fatalf("list recent: %v", err)
	}
	if len(recent) != 1 || recent[0].Seq != 2 {
		t.Fatalf("recent = %+v, want latest event only", recent)
	}
}

func TestLineupRoundTripAwayFirst(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()
	now := time.Date(2026, time.May, 9, 14, 0, 0, 0, time.UTC)

	home := storage.LineupRecord{
		ID: "lh", GameID: "g1", TeamName: "Home", Side: game.SideHome,
		SnapshotJSON: []byte(`{"slots":{}}`), UpdatedAt: now,
	}
	away := storage.LineupRecord{
		ID: "la", GameID: "g1", TeamName: "Away", Side: game.SideAway,
		SnapshotJSON: []byte(`{"slots":{}}`), UpdatedAt: now,
	}
	if err := store.PutLineup(ctx, home); err != nil {
		t.Fatalf("put home: %v", err)
	}
	if err := store.PutLineup(ctx, away); err != nil {
		t.Fatalf("put away: %v", err)
	}

	got, err := store.GetLineup(ctx, "lh")
	if err != nil {
		t.Fatalf("get lineup: %v", err)
	}
	if got.TeamName != "Home" || got.Side != game.SideHome {
		t.Fatalf("lineup = %+v", got)
	}

	both, err := store.ListLineupsByGame(ctx, "g1")
	if err != nil {
		t.Fatalf("list lineups: %v", err)
	}
	if len(both) != 2 {
		t.Fatalf("lineups len = %d, want 2", len(both))
	}
	if both[0].Side != game.SideAway {
		t.Fatalf("first lineup side = %s, want AWAY", both[0].Side)
	}
}

func TestInningStateRoundTrip(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()
	now := time.Date(2026, time.May, 9, 14, 0, 0, 0, time.UTC)

	rec := storage.InningRecord{
		ID: "i1", GameID: "g1", Inning: 4, TopHalf: false, Outs: 2,
		BasesJSON:      []byte(`{"FIRST":"p7"}`),
		AwayBatterSlot: 5, HomeBatterSlot: 8, UpdatedAt: now,
	}
	if err := store.PutInningState(ctx, rec); err != nil {
		t.Fatalf("put inning state: %v", err)
	}

	got, err := store.GetInningState(ctx, "g1")
	if err != nil {
		t.Fatalf("get inning state: %v", err)
	}
	if got.Inning != 4 || got.TopHalf || got.Outs != 2 {
		t.Fatalf("inning state = %+v", got)
	}
	if got.AwayBatterSlot != 5 || got.HomeBatterSlot != 8 {
		t.Fatalf("batter slots = %d/%d, want 5/8", got.AwayBatterSlot, got.HomeBatterSlot)
	}
}

func TestAuditEntriesOrdered(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()
	base := time.Date(2026, time.May, 9, 14, 0, 0, 0, time.UTC)

	for i := 0; i < 3; i++ {
		rec := storage.AuditRecord{
			Timestamp:   base.Add(time.Duration(i) * time.Minute),
			GameID:      "g1",
			Kind:        "AT_BAT",
			Description: fmt.Sprintf("entry %d", i),
		}
		if err := store.PutAuditEntry(ctx, rec); err != nil {
			t.Fatalf("put audit entry %d: %v", i, err)
		}
	}

	entries, err := store.ListAuditEntries(ctx, "g1", 10)
	if err != nil {
		t.Fatalf("list audit entries: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("entries len = %d, want 3", len(entries))
	}
	for i, entry := range entries {
		if want := fmt.Sprintf("entry %d", i); entry.Description != want {
			t.Fatalf("entry[%d] = %q, want %q", i, entry.Description, want)
		}
	}
}
