package inning

import (
	"encoding/json"
	"reflect"
	"testing"
	"time"

	"github.com/louisbranch/scorebook/internal/scoring/domain/event"
	"github.com/louisbranch/scorebook/internal/scoring/domain/game"
)

func TestBasesStateImmutable(t *testing.T) {
	empty := BasesState{}
	loaded := empty.
		WithRunnerOn(BaseFirst, "p1").
		WithRunnerOn(BaseSecond, "p2").
		WithRunnerOn(BaseThird, "p3")

	if empty.Runner(BaseFirst) != "" {
		t.Fatal("WithRunnerOn must not mutate the receiver")
	}
	if !loaded.Loaded() {
		t.Fatal("expected loaded bases")
	}
	if got := loaded.WithBasesCleared(); len(got.OccupiedBases()) != 0 {
		t.Fatalf("cleared bases still occupied: %v", got.OccupiedBases())
	}
}

func TestOccupiedBasesOrder(t *testing.T) {
	bases := BasesState{}.
		WithRunnerOn(BaseThird, "p3").
		WithRunnerOn(BaseFirst, "p1")
	got := bases.OccupiedBases()
	want := []Base{BaseFirst, BaseThird}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("occupied bases = %v, want %v", got, want)
	}
}

func TestWithRunnerAdvanced(t *testing.T) {
	bases := BasesState{}.WithRunnerOn(BaseFirst, "p1")

	toSecond := bases.WithRunnerAdvanced(BaseFirst, DestSecond)
	if toSecond.Runner(BaseSecond) != "p1" || toSecond.Runner(BaseFirst) != "" {
		t.Fatalf("advance to second: %v", toSecond.ToMap())
	}

	home := bases.WithRunnerAdvanced(BaseFirst, DestHome)
	if len(home.OccupiedBases()) != 0 {
		t.Fatalf("advance home should vacate: %v", home.ToMap())
	}
}

func TestBasesMapRoundTrip(t *testing.T) {
	bases := BasesState{}.
		WithRunnerOn(BaseSecond, "p2").
		WithRunnerOn(BaseThird, "p3")
	if got := BasesFromMap(bases.ToMap()); got != bases {
		t.Fatalf("round trip = %v, want %v", got.ToMap(), bases.ToMap())
	}
}

func mustEvent(t *testing.T, typ event.Type, payload any) event.Event {
	t.Helper()
	raw, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}
	return event.Event{
		GameID:        "g1",
		ID:            "e-" + string(typ),
		Type:          typ,
		Timestamp:     time.Date(2026, 6, 14, 18, 30, 0, 0, time.UTC),
		Version:       1,
		AggregateType: event.AggregateInning,
		AggregateID:   "is1",
		PayloadJSON:   raw,
	}
}

func TestFoldRunnerAdvancedTracksOuts(t *testing.T) {
	state := NewState("is1", "g1")
	state.Bases = state.Bases.WithRunnerOn(BaseFirst, "p1")

	next, err := Fold(state, mustEvent(t, event.TypeRunnerAdvanced, RunnerAdvancedPayload{
		RunnerID: "p1", From: BaseFirst, To: DestOut,
	}))
	if err != nil {
		t.Fatalf("fold: %v", err)
	}
	if next.Outs != 1 {
		t.Fatalf("outs = %d, want 1", next.Outs)
	}
	if next.Bases.Runner(BaseFirst) != "" {
		t.Fatal("out runner should vacate first base")
	}
}

func TestFoldBatterFromPlate(t *testing.T) {
	state := NewState("is1", "g1")
	next, err := Fold(state, mustEvent(t, event.TypeRunnerAdvanced, RunnerAdvancedPayload{
		RunnerID: "batter", To: DestFirst,
	}))
	if err != nil {
		t.Fatalf("fold: %v", err)
	}
	if next.Bases.Runner(BaseFirst) != "batter" {
		t.Fatalf("bases = %v", next.Bases.ToMap())
	}
}

func TestFoldHalfEndedAndInningAdvanced(t *testing.T) {
	state := NewState("is1", "g1")
	state.Outs = 3
	state.Bases = state.Bases.WithRunnerOn(BaseSecond, "p2")

	afterTop, err := Fold(state, mustEvent(t, event.TypeHalfInningEnded, HalfEndedPayload{
		Inning: 1, TopHalf: true, OutsBefore: 3, BasesBefore: state.Bases.ToMap(),
	}))
	if err != nil {
		t.Fatalf("fold half ended: %v", err)
	}
	if afterTop.TopHalf {
		t.Fatal("expected bottom half after top ends")
	}
	if afterTop.Outs != 0 || len(afterTop.Bases.OccupiedBases()) != 0 {
		t.Fatalf("half end should reset outs and bases: %+v", afterTop)
	}
	if afterTop.BattingSide() != game.SideHome {
		t.Fatalf("batting side = %q, want HOME", afterTop.BattingSide())
	}

	afterBottom := afterTop
	afterBottom.Outs = 3
	afterBottom, err = Fold(afterBottom, mustEvent(t, event.TypeHalfInningEnded, HalfEndedPayload{
		Inning: 1, TopHalf: false, OutsBefore: 3,
	}))
	if err != nil {
		t.Fatalf("fold bottom ended: %v", err)
	}
	next, err := Fold(afterBottom, mustEvent(t, event.TypeInningAdvanced, AdvancedPayload{
		FromInning: 1, ToInning: 2,
	}))
	if err != nil {
		t.Fatalf("fold inning advanced: %v", err)
	}
	if next.Inning != 2 || !next.TopHalf {
		t.Fatalf("state = %+v, want top of 2nd", next)
	}
}

func TestFoldSnapshotRevert(t *testing.T) {
	state := NewState("is1", "g1")
	state.Inning = 3
	state.TopHalf = false
	state.Outs = 2
	state.Bases = state.Bases.WithRunnerOn(BaseThird, "p3")
	state.HomeBatterSlot = 5

	snapshot := SnapshotPayload(state)
	fresh := NewState("is1", "g1")
	reverted, err := Fold(fresh, mustEvent(t, event.TypeInningStateReverted, snapshot))
	if err != nil {
		t.Fatalf("fold: %v", err)
	}
	if reverted.Inning != 3 || reverted.TopHalf || reverted.Outs != 2 {
		t.Fatalf("reverted = %+v", reverted)
	}

	full := ApplyFromSnapshot(fresh, snapshot)
	if full.Bases.Runner(BaseThird) != "p3" || full.HomeBatterSlot != 5 {
		t.Fatalf("snapshot apply = %+v", full)
	}
}

func TestReplayIdempotent(t *testing.T) {
	events := []event.Event{
		mustEvent(t, event.TypeRunnerAdvanced, RunnerAdvancedPayload{RunnerID: "b1", To: DestFirst}),
		mustEvent(t, event.TypeRunnerAdvanced, RunnerAdvancedPayload{RunnerID: "b1", From: BaseFirst, To: DestSecond}),
		mustEvent(t, event.TypeOutRecorded, nil),
		mustEvent(t, event.TypeBatterAdvanced, BatterAdvancedPayload{Side: game.SideAway, FromSlot: 1, ToSlot: 2}),
	}
	replay := func() State {
		state := NewState("is1", "g1")
		for _, evt := range events {
			next, err := Fold(state, evt)
			if err != nil {
				t.Fatalf("fold: %v", err)
			}
			state = next
		}
		return state
	}
	if first, second := replay(), replay(); first != second {
		t.Fatalf("replays differ: %+v vs %+v", first, second)
	}
}
