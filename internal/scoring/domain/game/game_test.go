package game

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/louisbranch/scorebook/internal/scoring/domain/event"
)

func fixedNow() time.Time {
	return time.Date(2026, 6, 14, 18, 30, 0, 0, time.UTC)
}

func TestStartTransitions(t *testing.T) {
	state := NewState("g1")
	started, events, err := Start(state, "home-l", "away-l", fixedNow)
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if started.Status != StatusInProgress {
		t.Fatalf("status = %q, want %q", started.Status, StatusInProgress)
	}
	if started.HomeLineupID != "home-l" || started.AwayLineupID != "away-l" {
		t.Fatalf("lineup ids = %q/%q", started.HomeLineupID, started.AwayLineupID)
	}
	if len(events) != 1 || events[0].Type != event.TypeGameStarted {
		t.Fatalf("events = %v, want one game.started", events)
	}
	if state.Status != StatusNotStarted {
		t.Fatal("input state must not be mutated")
	}

	if _, _, err := Start(started, "home-l", "away-l", fixedNow); err == nil {
		t.Fatal("expected error starting an in-progress game")
	}
}

func TestCompleteRejectsLifecycleRegression(t *testing.T) {
	state := NewState("g1")
	if _, _, err := Complete(state, "FORFEIT", fixedNow); !errors.Is(err, ErrNotStarted) {
		t.Fatalf("complete before start: %v, want ErrNotStarted", err)
	}

	started, _, err := Start(state, "h", "a", fixedNow)
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	completed, events, err := Complete(started, "REGULATION", fixedNow)
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	if completed.Status != StatusCompleted || completed.CompletionReason != "REGULATION" {
		t.Fatalf("state = %+v", completed)
	}
	if len(events) != 1 || events[0].Type != event.TypeGameCompleted {
		t.Fatalf("events = %v", events)
	}

	if _, _, err := Complete(completed, "AGAIN", fixedNow); !errors.Is(err, ErrCompleted) {
		t.Fatalf("complete twice: %v, want ErrCompleted", err)
	}
	if _, _, err := Start(completed, "h", "a", fixedNow); !errors.Is(err, ErrCompleted) {
		t.Fatalf("restart completed game: %v, want ErrCompleted", err)
	}
}

func runScoredEvent(t *testing.T, side Side) event.Event {
	t.Helper()
	payload, err := json.Marshal(RunScoredPayload{RunnerID: "p7", Side: side})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	return event.Event{
		GameID:        "g1",
		ID:            "e1",
		Type:          event.TypeRunScored,
		Timestamp:     fixedNow(),
		Version:       1,
		AggregateType: event.AggregateGame,
		AggregateID:   "g1",
		PayloadJSON:   payload,
	}
}

func TestFoldRunScored(t *testing.T) {
	state := State{ID: "g1", Status: StatusInProgress}
	next, err := Fold(state, runScoredEvent(t, SideAway))
	if err != nil {
		t.Fatalf("fold: %v", err)
	}
	if next.Score.Away != 1 || next.Score.Home != 0 {
		t.Fatalf("score = %+v, want away 1 home 0", next.Score)
	}
}

func TestFoldScoreRevertFloorsAtZero(t *testing.T) {
	payload, _ := json.Marshal(ScoreRevertedPayload{Side: SideHome, Runs: 5})
	evt := event.Event{
		GameID: "g1", ID: "e2", Type: event.TypeScoreReverted,
		Timestamp: fixedNow(), Version: 2,
		AggregateType: event.AggregateGame, AggregateID: "g1",
		PayloadJSON: payload,
	}
	state := State{ID: "g1", Status: StatusInProgress, Score: Score{Home: 2}}
	next, err := Fold(state, evt)
	if err != nil {
		t.Fatalf("fold: %v", err)
	}
	if next.Score.Home != 0 {
		t.Fatalf("home score = %d, want 0", next.Score.Home)
	}
}

func TestFoldReplayIsDeterministic(t *testing.T) {
	events := []event.Event{
		runScoredEvent(t, SideAway),
		runScoredEvent(t, SideHome),
		runScoredEvent(t, SideHome),
	}
	replay := func() State {
		state := State{ID: "g1", Status: StatusInProgress}
		for _, evt := range events {
			next, err := Fold(state, evt)
			if err != nil {
				t.Fatalf("fold: %v", err)
			}
			state = next
		}
		return state
	}
	first := replay()
	second := replay()
	if first != second {
		t.Fatalf("replays differ: %+v vs %+v", first, second)
	}
	if first.Score != (Score{Home: 2, Away: 1}) {
		t.Fatalf("score = %+v", first.Score)
	}
}

func TestRegisterEventsRejectsUnknownPayload(t *testing.T) {
	registry := event.NewRegistry()
	if err := RegisterEvents(registry); err != nil {
		t.Fatalf("register: %v", err)
	}
	evt := runScoredEvent(t, Side("NEUTRAL"))
	if _, err := registry.ValidateForAppend(evt); err == nil {
		t.Fatal("expected validation error for bad side")
	}
}
