package undo

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/louisbranch/scorebook/internal/platform/id"
	"github.com/louisbranch/scorebook/internal/scoring/domain/event"
	"github.com/louisbranch/scorebook/internal/scoring/domain/game"
	"github.com/louisbranch/scorebook/internal/scoring/domain/inning"
	"github.com/louisbranch/scorebook/internal/scoring/domain/lineup"
	"github.com/louisbranch/scorebook/internal/scoring/replay"
)

// journal is the full ordered event stream for one game plus derived views.
type journal struct {
	events []event.Event
	// netUndone counts, per original sequence, undo markers minus redo
	// markers. Positive means the action is currently undone.
	netUndone map[uint64]int
	bySeq     map[uint64]event.Event
}

func buildJournal(events []event.Event) journal {
	j := journal{
		events:    events,
		netUndone: make(map[uint64]int),
		bySeq:     make(map[uint64]event.Event, len(events)),
	}
	for _, evt := range events {
		j.bySeq[evt.Seq] = evt
		switch evt.Type {
		case event.TypeActionUndone:
			j.netUndone[evt.CompensatesSeq]++
		case event.TypeActionRedone:
			j.netUndone[evt.CompensatesSeq]--
		}
	}
	return j
}

// undoableAnchors returns action anchors not currently undone, newest first.
func (j journal) undoableAnchors() []event.Event {
	var anchors []event.Event
	for i := len(j.events) - 1; i >= 0; i-- {
		evt := j.events[i]
		if !isActionAnchor(evt.Type) {
			continue
		}
		if evt.Type.IsCompensation() || evt.Type.IsRestoration() {
			continue
		}
		if j.netUndone[evt.Seq] > 0 {
			continue
		}
		anchors = append(anchors, evt)
	}
	return anchors
}

// redoableOriginals returns the originals of currently-undone actions,
// most recently undone first.
func (j journal) redoableOriginals() []event.Event {
	var originals []event.Event
	for i := len(j.events) - 1; i >= 0; i-- {
		evt := j.events[i]
		if evt.Type != event.TypeActionUndone {
			continue
		}
		if j.netUndone[evt.CompensatesSeq] <= 0 {
			continue
		}
		original, ok := j.bySeq[evt.CompensatesSeq]
		if !ok {
			continue
		}
		seen := false
		for _, existing := range originals {
			if existing.Seq == original.Seq {
				seen = true
				break
			}
		}
		if !seen {
			originals = append(originals, original)
		}
	}
	return originals
}

// totalActions counts action anchors in the journal.
func (j journal) totalActions() int {
	count := 0
	for _, evt := range j.events {
		if isActionAnchor(evt.Type) && !evt.Type.IsCompensation() && !evt.Type.IsRestoration() {
			count++
		}
	}
	return count
}

func (j journal) latestSeq() uint64 {
	if len(j.events) == 0 {
		return 0
	}
	return j.events[len(j.events)-1].Seq
}

// describeAction renders a human-readable action description for stack info.
func describeAction(evt event.Event) string {
	category := Categorize(evt.Type)
	switch evt.Type {
	case event.TypeAtBatCompleted:
		var payload game.AtBatCompletedPayload
		if err := json.Unmarshal(evt.PayloadJSON, &payload); err == nil {
			return fmt.Sprintf("%s: %s %s (%d runs)", category, payload.BatterID, payload.Result, payload.RunsScored)
		}
	case event.TypePlayerSubstituted:
		var payload lineup.PlayerSubstitutedPayload
		if err := json.Unmarshal(evt.PayloadJSON, &payload); err == nil {
			return fmt.Sprintf("%s: %s for %s in slot %d", category, payload.IncomingPlayer, payload.OutgoingPlayer, payload.Slot)
		}
	case event.TypeHalfInningEnded:
		var payload inning.HalfEndedPayload
		if err := json.Unmarshal(evt.PayloadJSON, &payload); err == nil {
			half := "bottom"
			if payload.TopHalf {
				half = "top"
			}
			return fmt.Sprintf("%s: end of the %s of inning %d", category, half, payload.Inning)
		}
	}
	return fmt.Sprintf("%s: %s", category, evt.Type)
}

// planContext carries the working snapshot that bundle events fold into, so
// multi-action plans build on intermediate state.
type planContext struct {
	snapshot  replay.Snapshot
	gameID    string
	timestamp time.Time
}

// emit builds one compensation or restoration event, folds it into the
// working snapshot, and appends it to the batch.
func (p *planContext) emit(events *[]event.Event, t event.Type, aggregate event.AggregateType, aggregateID string, original event.Event, payload any) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal %s payload: %w", t, err)
	}
	evt := event.Event{
		GameID:         p.gameID,
		ID:             id.NewID(),
		Type:           t,
		Timestamp:      p.timestamp,
		Version:        original.Version + 1,
		AggregateType:  aggregate,
		AggregateID:    aggregateID,
		CompensatesSeq: original.Seq,
		PayloadJSON:    raw,
	}
	if err := p.fold(evt); err != nil {
		return err
	}
	*events = append(*events, evt)
	return nil
}

// fold applies a generated event to the working snapshot.
func (p *planContext) fold(evt event.Event) error {
	switch evt.AggregateType {
	case event.AggregateGame:
		next, err := game.Fold(p.snapshot.Game, evt)
		if err != nil {
			return err
		}
		p.snapshot.Game = next
	case event.AggregateInning:
		next, err := inning.Fold(p.snapshot.Inning, evt)
		if err != nil {
			return err
		}
		p.snapshot.Inning = next
	case event.AggregateLineup:
		current, ok := p.snapshot.Lineups[evt.AggregateID]
		if !ok {
			current = lineup.NewState(evt.AggregateID, p.gameID, "", "")
		}
		next, err := lineup.Fold(current, evt)
		if err != nil {
			return err
		}
		p.snapshot.Lineups[evt.AggregateID] = next
	}
	return nil
}

func (p *planContext) snapshotPayload(inningNum int, topHalf bool, outs int, bases map[string]string) inning.StateSnapshotPayload {
	return inning.StateSnapshotPayload{
		Inning:         inningNum,
		TopHalf:        topHalf,
		Outs:           outs,
		Bases:          bases,
		AwayBatterSlot: p.snapshot.Inning.AwayBatterSlot,
		HomeBatterSlot: p.snapshot.Inning.HomeBatterSlot,
	}
}

// compensationBundle generates the fixed-shape undo bundle for one original
// event. The marker event always comes first.
func (p *planContext) compensationBundle(original event.Event, notes string) ([]event.Event, error) {
	var events []event.Event

	marker := ActionUndonePayload{
		UndoneSeq:  original.Seq,
		UndoneType: string(original.Type),
		Category:   string(Categorize(original.Type)),
		Notes:      notes,
	}
	if err := p.emit(&events, event.TypeActionUndone, event.AggregateGame, p.gameID, original, marker); err != nil {
		return nil, err
	}

	switch original.Type {
	case event.TypeAtBatCompleted:
		var payload game.AtBatCompletedPayload
		if err := json.Unmarshal(original.PayloadJSON, &payload); err != nil {
			return nil, fmt.Errorf("unmarshal at-bat payload: %w", err)
		}
		before := p.snapshotPayload(payload.Inning, payload.TopHalf, payload.OutsBefore, payload.BasesBefore)
		if err := p.emit(&events, event.TypeRunnerPositionReverted, event.AggregateInning, p.snapshot.Inning.ID, original, before); err != nil {
			return nil, err
		}
		if err := p.emit(&events, event.TypeScoreReverted, event.AggregateGame, p.gameID, original, game.ScoreRevertedPayload{
			Side: payload.Side,
			Runs: payload.RunsScored,
		}); err != nil {
			return nil, err
		}
	case event.TypePlayerSubstituted:
		var payload lineup.PlayerSubstitutedPayload
		if err := json.Unmarshal(original.PayloadJSON, &payload); err != nil {
			return nil, fmt.Errorf("unmarshal substitution payload: %w", err)
		}
		if err := p.emit(&events, event.TypeLineupPositionRestored, event.AggregateLineup, original.AggregateID, original, lineup.PositionRestoredPayload{
			Slot:           payload.Slot,
			Action:         lineup.RestoreActionRevert,
			OutgoingPlayer: payload.OutgoingPlayer,
			IncomingPlayer: payload.IncomingPlayer,
			Inning:         payload.Inning,
			IsReentry:      payload.IsReentry,
		}); err != nil {
			return nil, err
		}
	case event.TypeHalfInningEnded:
		var payload inning.HalfEndedPayload
		if err := json.Unmarshal(original.PayloadJSON, &payload); err != nil {
			return nil, fmt.Errorf("unmarshal half-ended payload: %w", err)
		}
		before := p.snapshotPayload(payload.Inning, payload.TopHalf, payload.OutsBefore, payload.BasesBefore)
		for _, t := range []event.Type{
			event.TypeInningStateReverted,
			event.TypeBasesStateRestored,
			event.TypeCurrentBatterReverted,
			event.TypeHalfInningReverted,
		} {
			if err := p.emit(&events, t, event.AggregateInning, p.snapshot.Inning.ID, original, before); err != nil {
				return nil, err
			}
		}
	}
	return events, nil
}

// restorationBundle generates the fixed-shape redo bundle, the mirror of
// compensationBundle.
func (p *planContext) restorationBundle(original event.Event, notes string) ([]event.Event, error) {
	var events []event.Event

	marker := ActionRedonePayload{
		RedoneSeq:  original.Seq,
		RedoneType: string(original.Type),
		Category:   string(Categorize(original.Type)),
		Notes:      notes,
	}
	if err := p.emit(&events, event.TypeActionRedone, event.AggregateGame, p.gameID, original, marker); err != nil {
		return nil, err
	}

	switch original.Type {
	case event.TypeAtBatCompleted:
		var payload game.AtBatCompletedPayload
		if err := json.Unmarshal(original.PayloadJSON, &payload); err != nil {
			return nil, fmt.Errorf("unmarshal at-bat payload: %w", err)
		}
		after := p.snapshotPayload(payload.Inning, payload.TopHalf, payload.OutsAfter, payload.BasesAfter)
		if err := p.emit(&events, event.TypeRunnerPositionRestored, event.AggregateInning, p.snapshot.Inning.ID, original, after); err != nil {
			return nil, err
		}
		if err := p.emit(&events, event.TypeScoreRestored, event.AggregateGame, p.gameID, original, game.ScoreRestoredPayload{
			Side: payload.Side,
			Runs: payload.RunsScored,
		}); err != nil {
			return nil, err
		}
	case event.TypePlayerSubstituted:
		var payload lineup.PlayerSubstitutedPayload
		if err := json.Unmarshal(original.PayloadJSON, &payload); err != nil {
			return nil, fmt.Errorf("unmarshal substitution payload: %w", err)
		}
		if err := p.emit(&events, event.TypeLineupPositionRestored, event.AggregateLineup, original.AggregateID, original, lineup.PositionRestoredPayload{
			Slot:           payload.Slot,
			Action:         lineup.RestoreActionReapply,
			OutgoingPlayer: payload.OutgoingPlayer,
			IncomingPlayer: payload.IncomingPlayer,
			Inning:         payload.Inning,
			IsReentry:      payload.IsReentry,
		}); err != nil {
			return nil, err
		}
	case event.TypeHalfInningEnded:
		var payload inning.HalfEndedPayload
		if err := json.Unmarshal(original.PayloadJSON, &payload); err != nil {
			return nil, fmt.Errorf("unmarshal half-ended payload: %w", err)
		}
		// The post-half picture: fresh outs and bases, the bottom of the
		// same inning after a top half or the top of the next inning after
		// a bottom half.
		afterInning := payload.Inning
		afterTop := false
		if !payload.TopHalf {
			afterInning = payload.Inning + 1
			afterTop = true
		}
		after := p.snapshotPayload(afterInning, afterTop, 0, nil)
		for _, t := range []event.Type{
			event.TypeInningStateRestored,
			event.TypeCurrentBatterRestored,
			event.TypeHalfInningRestored,
		} {
			if err := p.emit(&events, t, event.AggregateInning, p.snapshot.Inning.ID, original, after); err != nil {
				return nil, err
			}
		}
	}
	return events, nil
}
