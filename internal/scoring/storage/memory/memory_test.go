package memory

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/louisbranch/scorebook/internal/scoring"
	"github.com/louisbranch/scorebook/internal/scoring/domain/event"
	"github.com/louisbranch/scorebook/internal/scoring/domain/game"
	"github.com/louisbranch/scorebook/internal/scoring/storage"
)

func newStore(t *testing.T) *Store {
	t.Helper()
	registry, err := scoring.NewEventRegistry()
	if err != nil {
		t.Fatalf("registry: %v", err)
	}
	return New(registry)
}

func testEvent(gameID string, n int) event.Event {
	return event.Event{
		GameID:        gameID,
		ID:            fmt.Sprintf("evt-%d", n),
		Type:          event.TypeRunScored,
		Timestamp:     time.Date(2026, time.May, 9, 14, 0, 0, 0, time.UTC),
		Version:       1,
		AggregateType: event.AggregateGame,
		AggregateID:   gameID,
		PayloadJSON:   []byte(`{"runner_id":"p1","side":"AWAY"}`),
	}
}

func TestAppendEventsSequencingAndConflict(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()

	var expected uint64
	appended, err := store.AppendEvents(ctx, "g1", []event.Event{testEvent("g1", 1), testEvent("g1", 2)}, &expected)
	if err != nil {
		t.Fatalf("append: %v", err)
	}
	if len(appended) != 2 || appended[0].Seq != 1 || appended[1].Seq != 2 {
		t.Fatalf("appended = %+v", appended)
	}

	stale := uint64(0)
	if _, err := store.AppendEvents(ctx, "g1", []event.Event{testEvent("g1", 3)}, &stale); !errors.Is(err, storage.ErrVersionConflict) {
		t.Fatalf("stale append err = %v, want ErrVersionConflict", err)
	}

	latest, err := store.GetLatestEventSeq(ctx, "g1")
	if err != nil {
		t.Fatalf("latest seq: %v", err)
	}
	if latest != 2 {
		t.Fatalf("latest = %d, want 2", latest)
	}

	recent, err := store.ListRecentEvents(ctx, "g1", 1)
	if err != nil {
		t.Fatalf("list recent: %v", err)
	}
	if len(recent) != 1 || recent[0].Seq != 2 {
		t.Fatalf("recent = %+v", recent)
	}
}

func TestAppendEventsValidatesAgainstRegistry(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()

	bad := testEvent("g1", 1)
	bad.Type = "game.unknown"
	if _, err := store.AppendEvents(ctx, "g1", []event.Event{bad}, nil); err == nil {
		t.Fatal("expected unknown type rejection")
	}

	malformed := testEvent("g1", 2)
	malformed.PayloadJSON = []byte(`{"runner_id":`)
	if _, err := store.AppendEvents(ctx, "g1", []event.Event{malformed}, nil); err == nil {
		t.Fatal("expected malformed payload rejection")
	}

	latest, err := store.GetLatestEventSeq(ctx, "g1")
	if err != nil {
		t.Fatalf("latest seq: %v", err)
	}
	if latest != 0 {
		t.Fatalf("latest = %d, want 0 (nothing persisted)", latest)
	}
}

func TestGamePaginationIsStable(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()
	now := time.Date(2026, time.May, 9, 14, 0, 0, 0, time.UTC)

	for _, id := range []string{"g3", "g1", "g2"} {
		if err := store.PutGame(ctx, storage.GameRecord{ID: id, Status: game.StatusInProgress, UpdatedAt: now}); err != nil {
			t.Fatalf("put %s: %v", id, err)
		}
	}

	page, err := store.ListGames(ctx, 2, "")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(page.Games) != 2 || page.Games[0].ID != "g1" || page.Games[1].ID != "g2" {
		t.Fatalf("page 1 = %+v", page.Games)
	}
	rest, err := store.ListGames(ctx, 2, page.NextPageToken)
	if err != nil {
		t.Fatalf("list page 2: %v", err)
	}
	if len(rest.Games) != 1 || rest.Games[0].ID != "g3" {
		t.Fatalf("page 2 = %+v", rest.Games)
	}
	if rest.NextPageToken != "" {
		t.Fatalf("unexpected token %q on final page", rest.NextPageToken)
	}
}

func TestLineupsListAwayFirst(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()
	now := time.Date(2026, time.May, 9, 14, 0, 0, 0, time.UTC)

	if err := store.PutLineup(ctx, storage.LineupRecord{ID: "lh", GameID: "g1", Side: game.SideHome, UpdatedAt: now}); err != nil {
		t.Fatalf("put home: %v", err)
	}
	if err := store.PutLineup(ctx, storage.LineupRecord{ID: "la", GameID: "g1", Side: game.SideAway, UpdatedAt: now}); err != nil {
		t.Fatalf("put away: %v", err)
	}

	both, err := store.ListLineupsByGame(ctx, "g1")
	if err != nil {
		t.Fatalf("list lineups: %v", err)
	}
	if len(both) != 2 || both[0].Side != game.SideAway {
		t.Fatalf("lineups = %+v, want away first", both)
	}
}

func TestMissingRecordsReturnNotFound(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()

	if _, err := store.GetGame(ctx, "missing"); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("game err = %v, want ErrNotFound", err)
	}
	if _, err := store.GetLineup(ctx, "missing"); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("lineup err = %v, want ErrNotFound", err)
	}
	if _, err := store.GetInningState(ctx, "missing"); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("inning err = %v, want ErrNotFound", err)
	}
}
