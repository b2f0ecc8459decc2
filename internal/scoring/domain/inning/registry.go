package inning

import (
	"encoding/json"
	"errors"

	"github.com/louisbranch/scorebook/internal/scoring/domain/event"
)

// RegisterEvents registers inning events with the shared registry.
func RegisterEvents(registry *event.Registry) error {
	if registry == nil {
		return errors.New("event registry is required")
	}
	if err := registry.Register(event.Definition{
		Type:            event.TypeRunnerAdvanced,
		Aggregate:       event.AggregateInning,
		ValidatePayload: validateRunnerAdvancedPayload,
	}); err != nil {
		return err
	}
	if err := registry.Register(event.Definition{
		Type:      event.TypeOutRecorded,
		Aggregate: event.AggregateInning,
	}); err != nil {
		return err
	}
	if err := registry.Register(event.Definition{
		Type:            event.TypeBatterAdvanced,
		Aggregate:       event.AggregateInning,
		ValidatePayload: validateBatterAdvancedPayload,
	}); err != nil {
		return err
	}
	if err := registry.Register(event.Definition{
		Type:            event.TypeHalfInningEnded,
		Aggregate:       event.AggregateInning,
		ValidatePayload: validateHalfEndedPayload,
	}); err != nil {
		return err
	}
	if err := registry.Register(event.Definition{
		Type:            event.TypeInningAdvanced,
		Aggregate:       event.AggregateInning,
		ValidatePayload: validateAdvancedPayload,
	}); err != nil {
		return err
	}
	for _, t := range []event.Type{
		event.TypeRunnerPositionReverted,
		event.TypeRunnerPositionRestored,
		event.TypeInningStateReverted,
		event.TypeInningStateRestored,
		event.TypeBasesStateRestored,
		event.TypeCurrentBatterReverted,
		event.TypeCurrentBatterRestored,
		event.TypeHalfInningReverted,
		event.TypeHalfInningRestored,
	} {
		if err := registry.Register(event.Definition{
			Type:            t,
			Aggregate:       event.AggregateInning,
			ValidatePayload: validateSnapshotPayload,
		}); err != nil {
			return err
		}
	}
	return nil
}

// validateRunnerAdvancedPayload ensures runner movements name a runner and a
// valid destination.
func validateRunnerAdvancedPayload(raw json.RawMessage) error {
	var payload RunnerAdvancedPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return err
	}
	if payload.RunnerID == "" {
		return errors.New("runner id is required")
	}
	switch payload.To {
	case DestFirst, DestSecond, DestThird, DestHome, DestOut:
	default:
		return errors.New("destination must be a base, HOME, or OUT")
	}
	if payload.From != "" {
		switch payload.From {
		case BaseFirst, BaseSecond, BaseThird:
		default:
			return errors.New("origin must be empty or a base")
		}
	}
	return nil
}

// validateBatterAdvancedPayload ensures batting cursor moves carry valid slots.
func validateBatterAdvancedPayload(raw json.RawMessage) error {
	var payload BatterAdvancedPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return err
	}
	if payload.ToSlot < 1 {
		return errors.New("batting slot must be at least 1")
	}
	return nil
}

// validateHalfEndedPayload ensures half-ended payloads carry the inning.
func validateHalfEndedPayload(raw json.RawMessage) error {
	var payload HalfEndedPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return err
	}
	if payload.Inning < 1 {
		return errors.New("inning must be at least 1")
	}
	return nil
}

// validateAdvancedPayload ensures inning advances move forward.
func validateAdvancedPayload(raw json.RawMessage) error {
	var payload AdvancedPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return err
	}
	if payload.ToInning <= payload.FromInning {
		return errors.New("inning must advance forward")
	}
	return nil
}

// validateSnapshotPayload ensures snapshot payloads are structurally sound.
func validateSnapshotPayload(raw json.RawMessage) error {
	var payload StateSnapshotPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return err
	}
	if payload.Inning < 1 {
		return errors.New("snapshot inning must be at least 1")
	}
	if payload.Outs < 0 {
		return errors.New("snapshot outs must be non-negative")
	}
	return nil
}
