package lineup

import (
	"encoding/json"
	"fmt"

	"github.com/louisbranch/scorebook/internal/scoring/domain/event"
)

// FoldHandledTypes returns the event types handled by the lineup fold function.
func FoldHandledTypes() []event.Type {
	return []event.Type{
		event.TypePlayerAdded,
		event.TypePlayerSubstituted,
		event.TypeFieldPositionChanged,
		event.TypeLineupPositionRestored,
	}
}

// Fold applies an event to lineup state. The input state is never mutated;
// every recognized event produces a fresh deep copy.
func Fold(state State, evt event.Event) (State, error) {
	switch evt.Type {
	case event.TypePlayerAdded:
		var payload PlayerAddedPayload
		if err := json.Unmarshal(evt.PayloadJSON, &payload); err != nil {
			return state, fmt.Errorf("lineup fold %s: %w", evt.Type, err)
		}
		next := state.clone()
		next.Slots[payload.Slot] = BattingSlot{
			Position:      payload.Slot,
			CurrentPlayer: payload.PlayerID,
			History: []SlotHistory{{
				PlayerID:      payload.PlayerID,
				EnteredInning: 1,
				WasStarter:    true,
			}},
		}
		if payload.Position != "" && payload.Position != PositionExtraPlayer {
			next.FieldPositions[payload.Position] = payload.PlayerID
		}
		if payload.JerseyNumber != 0 {
			next.Jerseys[payload.PlayerID] = payload.JerseyNumber
		}
		return next, nil
	case event.TypePlayerSubstituted:
		var payload PlayerSubstitutedPayload
		if err := json.Unmarshal(evt.PayloadJSON, &payload); err != nil {
			return state, fmt.Errorf("lineup fold %s: %w", evt.Type, err)
		}
		return applySubstitution(state, payload.Slot, payload.OutgoingPlayer, payload.IncomingPlayer, payload.Inning, payload.IsReentry), nil
	case event.TypeFieldPositionChanged:
		var payload PositionChangedPayload
		if err := json.Unmarshal(evt.PayloadJSON, &payload); err != nil {
			return state, fmt.Errorf("lineup fold %s: %w", evt.Type, err)
		}
		next := state.clone()
		if payload.From != "" && next.FieldPositions[payload.From] == payload.PlayerID {
			delete(next.FieldPositions, payload.From)
		}
		if payload.To != "" && payload.To != PositionExtraPlayer {
			next.FieldPositions[payload.To] = payload.PlayerID
		}
		return next, nil
	case event.TypeLineupPositionRestored:
		var payload PositionRestoredPayload
		if err := json.Unmarshal(evt.PayloadJSON, &payload); err != nil {
			return state, fmt.Errorf("lineup fold %s: %w", evt.Type, err)
		}
		if payload.Action == RestoreActionReapply {
			return applySubstitution(state, payload.Slot, payload.OutgoingPlayer, payload.IncomingPlayer, payload.Inning, payload.IsReentry), nil
		}
		return revertSubstitution(state, payload.Slot, payload.OutgoingPlayer, payload.IncomingPlayer), nil
	}
	return state, nil
}

// applySubstitution closes the outgoing occupancy interval and opens a new
// one for the incoming player. The incoming player inherits the outgoing
// player's defensive position.
func applySubstitution(state State, position int, outgoing, incoming string, inning int, isReentry bool) State {
	next := state.clone()
	slot, ok := next.Slots[position]
	if !ok {
		return next
	}
	for i := len(slot.History) - 1; i >= 0; i-- {
		if slot.History[i].Active() && slot.History[i].PlayerID == outgoing {
			slot.History[i].ExitedInning = inning
			break
		}
	}
	slot.History = append(slot.History, SlotHistory{
		PlayerID:      incoming,
		EnteredInning: inning,
		IsReentry:     isReentry,
	})
	slot.CurrentPlayer = incoming
	next.Slots[position] = slot

	if fieldPos, held := next.PositionOf(outgoing); held {
		next.FieldPositions[fieldPos] = incoming
	}
	return next
}

// revertSubstitution removes the incoming player's interval and reopens the
// outgoing player's interval, exactly inverting applySubstitution.
func revertSubstitution(state State, position int, outgoing, incoming string) State {
	next := state.clone()
	slot, ok := next.Slots[position]
	if !ok {
		return next
	}
	for i := len(slot.History) - 1; i >= 0; i-- {
		if slot.History[i].PlayerID == incoming && slot.History[i].Active() {
			slot.History = append(slot.History[:i], slot.History[i+1:]...)
			break
		}
	}
	for i := len(slot.History) - 1; i >= 0; i-- {
		if slot.History[i].PlayerID == outgoing && slot.History[i].ExitedInning != 0 {
			slot.History[i].ExitedInning = 0
			break
		}
	}
	slot.CurrentPlayer = outgoing
	next.Slots[position] = slot

	if fieldPos, held := next.PositionOf(incoming); held {
		next.FieldPositions[fieldPos] = outgoing
	}
	return next
}
