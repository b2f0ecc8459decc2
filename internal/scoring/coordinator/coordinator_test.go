package coordinator

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/louisbranch/scorebook/internal/scoring/domain/atbat"
	"github.com/louisbranch/scorebook/internal/scoring/domain/event"
	"github.com/louisbranch/scorebook/internal/scoring/domain/game"
	"github.com/louisbranch/scorebook/internal/scoring/domain/inning"
	"github.com/louisbranch/scorebook/internal/scoring/domain/lineup"
	"github.com/louisbranch/scorebook/internal/scoring/domain/rules"
)

func fixedNow() time.Time {
	return time.Date(2026, 6, 14, 18, 30, 0, 0, time.UTC)
}

func testLineup(t *testing.T, lineupID string, side game.Side, prefix string) lineup.State {
	t.Helper()
	state := lineup.NewState(lineupID, "g1", prefix, side)
	positions := []lineup.FieldPosition{
		lineup.PositionPitcher, lineup.PositionCatcher, lineup.PositionFirstBase,
		lineup.PositionSecondBase, lineup.PositionThirdBase, lineup.PositionShortstop,
		lineup.PositionLeftField, lineup.PositionCenterField, lineup.PositionRightField,
	}
	for i, pos := range positions {
		var err error
		state, _, err = lineup.AddPlayer(state, prefix+string(rune('1'+i)), i+1, i+1, pos, rules.Default(), fixedNow)
		if err != nil {
			t.Fatalf("add player: %v", err)
		}
	}
	return state
}

func inProgressInput(t *testing.T) Input {
	t.Helper()
	gameState := game.NewState("g1")
	gameState, _, err := game.Start(gameState, "l-home", "l-away", fixedNow)
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	return Input{
		Game:       gameState,
		Inning:     inning.NewState("i1", "g1"),
		HomeLineup: testLineup(t, "l-home", game.SideHome, "h"),
		AwayLineup: testLineup(t, "l-away", game.SideAway, "a"),
		Rules:      rules.Default(),
		Now:        fixedNow,
	}
}

func eventTypes(events []event.Event) []event.Type {
	types := make([]event.Type, len(events))
	for i, evt := range events {
		types[i] = evt.Type
	}
	return types
}

func TestRecordAtBatRejectsLifecycle(t *testing.T) {
	in := inProgressInput(t)
	in.Game = game.NewState("g1")
	in.BatterID = "a1"
	in.Result = atbat.ResultSingle
	_, err := RecordAtBat(in)
	if err == nil || err.Error() != "Game has not been started" {
		t.Fatalf("not started: %v", err)
	}

	in = inProgressInput(t)
	completed, _, err := game.Complete(in.Game, ReasonRegulation, fixedNow)
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	in.Game = completed
	in.BatterID = "a1"
	in.Result = atbat.ResultSingle
	if _, err := RecordAtBat(in); err == nil || err.Error() != "Game has already been completed" {
		t.Fatalf("completed: %v", err)
	}
}

func TestRecordAtBatSingleScoresRunners(t *testing.T) {
	in := inProgressInput(t)
	in.Inning.Bases = in.Inning.Bases.
		WithRunnerOn(inning.BaseSecond, "a8").
		WithRunnerOn(inning.BaseThird, "a9")
	in.BatterID = "a1"
	in.Result = atbat.ResultSingle

	result, err := RecordAtBat(in)
	if err != nil {
		t.Fatalf("record: %v", err)
	}
	if result.RunsScored != 2 || result.RBIs != 2 {
		t.Fatalf("runs/rbis = %d/%d, want 2/2", result.RunsScored, result.RBIs)
	}
	if result.Game.Score.Away != 2 {
		t.Fatalf("away score = %d, want 2", result.Game.Score.Away)
	}
	if result.Inning.Bases.Runner(inning.BaseFirst) != "a1" {
		t.Fatalf("first = %q, want batter", result.Inning.Bases.Runner(inning.BaseFirst))
	}
	if result.Inning.AwayBatterSlot != 2 {
		t.Fatalf("away cursor = %d, want 2", result.Inning.AwayBatterSlot)
	}
	// Input aggregates must be untouched.
	if in.Game.Score.Away != 0 || in.Inning.Bases.Runner(inning.BaseFirst) != "" {
		t.Fatal("inputs were mutated")
	}

	var runEvents int
	for _, evt := range result.Events {
		if evt.Type == event.TypeRunScored {
			runEvents++
		}
	}
	if runEvents != 2 {
		t.Fatalf("run_scored events = %d, want 2", runEvents)
	}
}

func TestRecordAtBatExplicitMovementValidation(t *testing.T) {
	in := inProgressInput(t)
	in.BatterID = "a1"
	in.Result = atbat.ResultSingle
	in.Movements = []atbat.Movement{{RunnerID: "a9", From: inning.BaseThird, To: inning.DestHome}}

	_, err := RecordAtBat(in)
	if err == nil || err.Error() != "a9 is not on THIRD" {
		t.Fatalf("err = %v, want runner-not-on-base message", err)
	}
}

func TestRecordAtBatTrailRunnerFirstOverrides(t *testing.T) {
	in := inProgressInput(t)
	in.Inning.Bases = in.Inning.Bases.
		WithRunnerOn(inning.BaseFirst, "a8").
		WithRunnerOn(inning.BaseSecond, "a9")
	in.BatterID = "a1"
	in.Result = atbat.ResultSingle
	// Trail runner listed before the lead runner.
	in.Movements = []atbat.Movement{
		{RunnerID: "a8", From: inning.BaseFirst, To: inning.DestSecond},
		{RunnerID: "a9", From: inning.BaseSecond, To: inning.DestThird},
		{RunnerID: "a1", To: inning.DestFirst},
	}

	result, err := RecordAtBat(in)
	if err != nil {
		t.Fatalf("record: %v", err)
	}
	want := map[inning.Base]string{
		inning.BaseFirst: "a1", inning.BaseSecond: "a8", inning.BaseThird: "a9",
	}
	for base, runner := range want {
		if result.Inning.Bases.Runner(base) != runner {
			t.Fatalf("%s = %q, want %q", base, result.Inning.Bases.Runner(base), runner)
		}
	}
	if result.RunsScored != 0 || result.RBIs != 0 {
		t.Fatalf("runs/rbis = %d/%d, want 0/0", result.RunsScored, result.RBIs)
	}

	// The advancement events must replay in lead-runner order.
	var advanced []string
	for _, evt := range result.Events {
		if evt.Type != event.TypeRunnerAdvanced {
			continue
		}
		var payload inning.RunnerAdvancedPayload
		if err := json.Unmarshal(evt.PayloadJSON, &payload); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
		advanced = append(advanced, payload.RunnerID)
	}
	if len(advanced) != 3 || advanced[0] != "a9" || advanced[1] != "a8" || advanced[2] != "a1" {
		t.Fatalf("advancement order = %v, want [a9 a8 a1]", advanced)
	}
}

func TestRecordAtBatRejectsDestinationCollision(t *testing.T) {
	in := inProgressInput(t)
	in.Inning.Bases = in.Inning.Bases.
		WithRunnerOn(inning.BaseFirst, "a8").
		WithRunnerOn(inning.BaseSecond, "a9")
	in.BatterID = "a1"
	in.Result = atbat.ResultSingle
	in.Movements = []atbat.Movement{
		{RunnerID: "a8", From: inning.BaseFirst, To: inning.DestThird},
		{RunnerID: "a9", From: inning.BaseSecond, To: inning.DestThird},
		{RunnerID: "a1", To: inning.DestFirst},
	}

	_, err := RecordAtBat(in)
	if err == nil || err.Error() != "a8 and a9 both end on THIRD" {
		t.Fatalf("err = %v, want destination collision message", err)
	}
}

func TestRecordAtBatThirdOutEndsHalf(t *testing.T) {
	in := inProgressInput(t)
	in.Inning.Outs = 2
	in.Inning.Bases = in.Inning.Bases.WithRunnerOn(inning.BaseFirst, "a7")
	in.BatterID = "a1"
	in.Result = atbat.ResultFlyOut

	result, err := RecordAtBat(in)
	if err != nil {
		t.Fatalf("record: %v", err)
	}
	if !result.InningComplete {
		t.Fatal("inning not marked complete")
	}
	if result.Inning.TopHalf {
		t.Fatal("half did not flip to bottom")
	}
	if result.Inning.Outs != 0 || len(result.Inning.Bases.OccupiedBases()) != 0 {
		t.Fatalf("half not reset: outs=%d bases=%v", result.Inning.Outs, result.Inning.Bases.ToMap())
	}

	types := eventTypes(result.Events)
	last := types[len(types)-1]
	if last != event.TypeHalfInningEnded {
		t.Fatalf("last event = %s, want half_ended", last)
	}
}

func TestRecordAtBatBottomHalfAdvancesInning(t *testing.T) {
	in := inProgressInput(t)
	in.Inning.TopHalf = false
	in.Inning.Outs = 2
	in.BatterID = "h1"
	in.Result = atbat.ResultStrikeout

	result, err := RecordAtBat(in)
	if err != nil {
		t.Fatalf("record: %v", err)
	}
	if result.Inning.Inning != 2 || !result.Inning.TopHalf {
		t.Fatalf("inning = %d top=%v, want 2/top", result.Inning.Inning, result.Inning.TopHalf)
	}
}

func TestRecordAtBatRegulationCompletion(t *testing.T) {
	in := inProgressInput(t)
	in.Inning.Inning = 7
	in.Inning.TopHalf = false
	in.Inning.Outs = 2
	in.Game.Score = game.Score{Home: 3, Away: 5}
	in.BatterID = "h1"
	in.Result = atbat.ResultGroundOut

	result, err := RecordAtBat(in)
	if err != nil {
		t.Fatalf("record: %v", err)
	}
	if !result.GameComplete || result.CompletionReason != ReasonRegulation {
		t.Fatalf("completion = %v/%q", result.GameComplete, result.CompletionReason)
	}
	if result.Game.Status != game.StatusCompleted {
		t.Fatalf("status = %q", result.Game.Status)
	}
}

func TestRecordAtBatWalkOff(t *testing.T) {
	in := inProgressInput(t)
	in.Inning.Inning = 7
	in.Inning.TopHalf = false
	in.Game.Score = game.Score{Home: 4, Away: 4}
	in.Inning.Bases = in.Inning.Bases.WithRunnerOn(inning.BaseSecond, "h5")
	in.BatterID = "h1"
	in.Result = atbat.ResultSingle

	result, err := RecordAtBat(in)
	if err != nil {
		t.Fatalf("record: %v", err)
	}
	if !result.GameComplete || result.CompletionReason != ReasonWalkOff {
		t.Fatalf("completion = %v/%q", result.GameComplete, result.CompletionReason)
	}
	if result.Game.Score.Home != 5 {
		t.Fatalf("home score = %d, want 5", result.Game.Score.Home)
	}
	last := result.Events[len(result.Events)-1]
	if last.Type != event.TypeGameCompleted {
		t.Fatalf("last event = %s, want game.completed", last.Type)
	}
}

func TestRecordAtBatTiedRegulationContinues(t *testing.T) {
	in := inProgressInput(t)
	in.Inning.Inning = 7
	in.Inning.TopHalf = false
	in.Inning.Outs = 2
	in.Game.Score = game.Score{Home: 4, Away: 4}
	in.BatterID = "h1"
	in.Result = atbat.ResultStrikeout

	result, err := RecordAtBat(in)
	if err != nil {
		t.Fatalf("record: %v", err)
	}
	if result.GameComplete {
		t.Fatal("tied game must continue to extra innings")
	}
	if result.Inning.Inning != 8 {
		t.Fatalf("inning = %d, want 8", result.Inning.Inning)
	}
}
