package inning

import (
	"encoding/json"
	"fmt"

	"github.com/louisbranch/scorebook/internal/scoring/domain/event"
)

// FoldHandledTypes returns the event types handled by the inning fold function.
func FoldHandledTypes() []event.Type {
	return []event.Type{
		event.TypeRunnerAdvanced,
		event.TypeOutRecorded,
		event.TypeBatterAdvanced,
		event.TypeHalfInningEnded,
		event.TypeInningAdvanced,
		event.TypeRunnerPositionReverted,
		event.TypeRunnerPositionRestored,
		event.TypeInningStateReverted,
		event.TypeInningStateRestored,
		event.TypeBasesStateRestored,
		event.TypeCurrentBatterReverted,
		event.TypeCurrentBatterRestored,
		event.TypeHalfInningReverted,
		event.TypeHalfInningRestored,
	}
}

// Fold applies an event to inning state. It returns an error if a recognized
// event carries a payload that cannot be unmarshalled.
//
// Replay behavior matches request-time behavior: the coordinator and the
// undo subsystem both mutate inning state only through these transitions.
func Fold(state State, evt event.Event) (State, error) {
	switch evt.Type {
	case event.TypeRunnerAdvanced:
		var payload RunnerAdvancedPayload
		if err := json.Unmarshal(evt.PayloadJSON, &payload); err != nil {
			return state, fmt.Errorf("inning fold %s: %w", evt.Type, err)
		}
		if payload.From == "" {
			// Batter leaving the plate.
			if base, ok := payload.To.Base(); ok {
				state.Bases = state.Bases.WithRunnerOn(base, payload.RunnerID)
			}
		} else {
			state.Bases = state.Bases.WithRunnerAdvanced(payload.From, payload.To)
		}
		if payload.To == DestOut {
			state.Outs++
		}
	case event.TypeOutRecorded:
		state.Outs++
	case event.TypeBatterAdvanced:
		var payload BatterAdvancedPayload
		if err := json.Unmarshal(evt.PayloadJSON, &payload); err != nil {
			return state, fmt.Errorf("inning fold %s: %w", evt.Type, err)
		}
		state = state.withBatterSlot(payload.Side, payload.ToSlot)
	case event.TypeHalfInningEnded:
		var payload HalfEndedPayload
		if err := json.Unmarshal(evt.PayloadJSON, &payload); err != nil {
			return state, fmt.Errorf("inning fold %s: %w", evt.Type, err)
		}
		state.Outs = 0
		state.Bases = state.Bases.WithBasesCleared()
		if payload.TopHalf {
			state.TopHalf = false
		}
	case event.TypeInningAdvanced:
		var payload AdvancedPayload
		if err := json.Unmarshal(evt.PayloadJSON, &payload); err != nil {
			return state, fmt.Errorf("inning fold %s: %w", evt.Type, err)
		}
		state.Inning = payload.ToInning
		state.TopHalf = true
	case event.TypeRunnerPositionReverted, event.TypeRunnerPositionRestored:
		snapshot, err := unmarshalSnapshot(evt)
		if err != nil {
			return state, err
		}
		state.Bases = BasesFromMap(snapshot.Bases)
		state.Outs = snapshot.Outs
	case event.TypeBasesStateRestored:
		snapshot, err := unmarshalSnapshot(evt)
		if err != nil {
			return state, err
		}
		state.Bases = BasesFromMap(snapshot.Bases)
	case event.TypeInningStateReverted, event.TypeInningStateRestored:
		snapshot, err := unmarshalSnapshot(evt)
		if err != nil {
			return state, err
		}
		state.Inning = snapshot.Inning
		state.TopHalf = snapshot.TopHalf
		state.Outs = snapshot.Outs
	case event.TypeCurrentBatterReverted, event.TypeCurrentBatterRestored:
		snapshot, err := unmarshalSnapshot(evt)
		if err != nil {
			return state, err
		}
		state.AwayBatterSlot = snapshot.AwayBatterSlot
		state.HomeBatterSlot = snapshot.HomeBatterSlot
	case event.TypeHalfInningReverted, event.TypeHalfInningRestored:
		snapshot, err := unmarshalSnapshot(evt)
		if err != nil {
			return state, err
		}
		state.TopHalf = snapshot.TopHalf
		state.Outs = snapshot.Outs
		state.Bases = BasesFromMap(snapshot.Bases)
	}
	return state, nil
}

func unmarshalSnapshot(evt event.Event) (StateSnapshotPayload, error) {
	var snapshot StateSnapshotPayload
	if err := json.Unmarshal(evt.PayloadJSON, &snapshot); err != nil {
		return snapshot, fmt.Errorf("inning fold %s: %w", evt.Type, err)
	}
	return snapshot, nil
}

// ApplyFromSnapshot rebuilds a full state value from a snapshot payload,
// keeping identity fields from the current state.
func ApplyFromSnapshot(state State, snapshot StateSnapshotPayload) State {
	state.Inning = snapshot.Inning
	state.TopHalf = snapshot.TopHalf
	state.Outs = snapshot.Outs
	state.Bases = BasesFromMap(snapshot.Bases)
	state.AwayBatterSlot = snapshot.AwayBatterSlot
	state.HomeBatterSlot = snapshot.HomeBatterSlot
	return state
}
