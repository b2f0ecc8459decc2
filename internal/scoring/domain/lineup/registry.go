package lineup

import (
	"encoding/json"
	"errors"

	"github.com/louisbranch/scorebook/internal/scoring/domain/event"
)

// RegisterEvents registers lineup events with the shared registry.
func RegisterEvents(registry *event.Registry) error {
	if registry == nil {
		return errors.New("event registry is required")
	}
	if err := registry.Register(event.Definition{
		Type:            event.TypePlayerAdded,
		Aggregate:       event.AggregateLineup,
		ValidatePayload: validatePlayerAddedPayload,
	}); err != nil {
		return err
	}
	if err := registry.Register(event.Definition{
		Type:            event.TypePlayerSubstituted,
		Aggregate:       event.AggregateLineup,
		ValidatePayload: validatePlayerSubstitutedPayload,
	}); err != nil {
		return err
	}
	if err := registry.Register(event.Definition{
		Type:            event.TypeFieldPositionChanged,
		Aggregate:       event.AggregateLineup,
		ValidatePayload: validatePositionChangedPayload,
	}); err != nil {
		return err
	}
	return registry.Register(event.Definition{
		Type:            event.TypeLineupPositionRestored,
		Aggregate:       event.AggregateLineup,
		ValidatePayload: validatePositionRestoredPayload,
	})
}

// validatePlayerAddedPayload ensures added payloads carry a player and slot.
func validatePlayerAddedPayload(raw json.RawMessage) error {
	var payload PlayerAddedPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return err
	}
	if payload.PlayerID == "" {
		return errors.New("player id is required")
	}
	if payload.Slot < 1 {
		return errors.New("batting slot must be positive")
	}
	return nil
}

// validatePlayerSubstitutedPayload ensures substitution payloads carry both occupants.
func validatePlayerSubstitutedPayload(raw json.RawMessage) error {
	var payload PlayerSubstitutedPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return err
	}
	if payload.OutgoingPlayer == "" || payload.IncomingPlayer == "" {
		return errors.New("substitution requires outgoing and incoming players")
	}
	if payload.Slot < 1 {
		return errors.New("batting slot must be positive")
	}
	if payload.Inning < 1 {
		return errors.New("inning must be positive")
	}
	return nil
}

// validatePositionChangedPayload ensures position payloads carry a destination.
func validatePositionChangedPayload(raw json.RawMessage) error {
	var payload PositionChangedPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return err
	}
	if payload.PlayerID == "" {
		return errors.New("player id is required")
	}
	if payload.To == "" {
		return errors.New("destination position is required")
	}
	return nil
}

// validatePositionRestoredPayload ensures restore payloads carry a known action.
func validatePositionRestoredPayload(raw json.RawMessage) error {
	var payload PositionRestoredPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return err
	}
	if payload.Action != RestoreActionRevert && payload.Action != RestoreActionReapply {
		return errors.New("restore action must be revert or reapply")
	}
	if payload.Slot < 1 {
		return errors.New("batting slot must be positive")
	}
	return nil
}
