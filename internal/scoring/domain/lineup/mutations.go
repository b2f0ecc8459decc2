package lineup

import (
	"encoding/json"
	"fmt"
	"time"

	apperrors "github.com/louisbranch/scorebook/internal/platform/errors"
	"github.com/louisbranch/scorebook/internal/platform/id"
	"github.com/louisbranch/scorebook/internal/scoring/domain/event"
	"github.com/louisbranch/scorebook/internal/scoring/domain/rules"
)

// AddPlayer places a player into an empty batting slot before the game
// starts. The occupant becomes the slot's starter.
func AddPlayer(state State, playerID string, position int, jersey int, fieldPosition FieldPosition, cfg rules.Config, now func() time.Time) (State, []event.Event, error) {
	cfg = cfg.Normalize()
	if playerID == "" {
		return state, nil, apperrors.New(apperrors.CodeAtBatEmptyBatter, "player id is required")
	}
	if position < 1 || position > cfg.MaxBattingSlots {
		return state, nil, apperrors.New(apperrors.CodeLineupInvalidSlot,
			fmt.Sprintf("batting slot %d is outside 1..%d", position, cfg.MaxBattingSlots))
	}
	if slot, ok := state.Slots[position]; ok && slot.CurrentPlayer != "" {
		return state, nil, apperrors.New(apperrors.CodeLineupSlotOccupied,
			fmt.Sprintf("batting slot %d is already occupied by %s", position, slot.CurrentPlayer))
	}
	if existing, ok := state.SlotOf(playerID); ok {
		return state, nil, apperrors.New(apperrors.CodeLineupPlayerInLineup,
			fmt.Sprintf("%s is already in batting slot %d", playerID, existing))
	}
	if now == nil {
		now = time.Now
	}

	payload, _ := json.Marshal(PlayerAddedPayload{
		PlayerID:     playerID,
		Slot:         position,
		JerseyNumber: jersey,
		Position:     fieldPosition,
	})
	evt := event.Event{
		GameID:        state.GameID,
		ID:            id.NewID(),
		Type:          event.TypePlayerAdded,
		Timestamp:     now().UTC(),
		Version:       1,
		AggregateType: event.AggregateLineup,
		AggregateID:   state.ID,
		PayloadJSON:   payload,
	}

	folded, err := Fold(state, evt)
	if err != nil {
		return state, nil, err
	}
	return folded, []event.Event{evt}, nil
}

// Substitute replaces the active player in a batting slot. Re-entry is only
// legal for the slot's original starter and only once.
func Substitute(state State, position int, newPlayerID string, inning int, isReentry bool, now func() time.Time) (State, []event.Event, error) {
	slot, ok := state.Slots[position]
	if !ok {
		return state, nil, apperrors.New(apperrors.CodeLineupSlotEmpty,
			fmt.Sprintf("batting slot %d has no active player", position))
	}
	if err := ValidateSubstitution(slot, newPlayerID, inning, isReentry); err != nil {
		return state, nil, err
	}
	if now == nil {
		now = time.Now
	}

	payload, _ := json.Marshal(PlayerSubstitutedPayload{
		Slot:           position,
		OutgoingPlayer: slot.CurrentPlayer,
		IncomingPlayer: newPlayerID,
		Inning:         inning,
		IsReentry:      isReentry,
	})
	evt := event.Event{
		GameID:        state.GameID,
		ID:            id.NewID(),
		Type:          event.TypePlayerSubstituted,
		Timestamp:     now().UTC(),
		Version:       1,
		AggregateType: event.AggregateLineup,
		AggregateID:   state.ID,
		PayloadJSON:   payload,
	}

	folded, err := Fold(state, evt)
	if err != nil {
		return state, nil, err
	}
	return folded, []event.Event{evt}, nil
}

// ChangePosition reassigns a player's defensive position without touching
// batting slots or substitution history.
func ChangePosition(state State, playerID string, to FieldPosition, now func() time.Time) (State, []event.Event, error) {
	position, ok := state.SlotOf(playerID)
	if !ok {
		return state, nil, apperrors.New(apperrors.CodeLineupPositionNotActive,
			fmt.Sprintf("%s is not in the lineup", playerID))
	}
	if err := ValidatePositionChange(state.Slots[position], playerID); err != nil {
		return state, nil, err
	}
	if occupant, occupied := state.FieldPositions[to]; occupied && occupant != playerID && to != PositionExtraPlayer {
		return state, nil, apperrors.New(apperrors.CodeLineupSlotOccupied,
			fmt.Sprintf("position %s is already held by %s", to, occupant))
	}
	if now == nil {
		now = time.Now
	}

	from, _ := state.PositionOf(playerID)
	payload, _ := json.Marshal(PositionChangedPayload{
		PlayerID: playerID,
		From:     from,
		To:       to,
	})
	evt := event.Event{
		GameID:        state.GameID,
		ID:            id.NewID(),
		Type:          event.TypeFieldPositionChanged,
		Timestamp:     now().UTC(),
		Version:       1,
		AggregateType: event.AggregateLineup,
		AggregateID:   state.ID,
		PayloadJSON:   payload,
	}

	folded, err := Fold(state, evt)
	if err != nil {
		return state, nil, err
	}
	return folded, []event.Event{evt}, nil
}
