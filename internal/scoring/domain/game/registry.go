package game

import (
	"encoding/json"
	"errors"

	"github.com/louisbranch/scorebook/internal/scoring/domain/event"
)

// RegisterEvents registers game events with the shared registry.
func RegisterEvents(registry *event.Registry) error {
	if registry == nil {
		return errors.New("event registry is required")
	}
	if err := registry.Register(event.Definition{
		Type:            event.TypeGameStarted,
		Aggregate:       event.AggregateGame,
		ValidatePayload: validateStartedPayload,
	}); err != nil {
		return err
	}
	if err := registry.Register(event.Definition{
		Type:            event.TypeGameCompleted,
		Aggregate:       event.AggregateGame,
		ValidatePayload: validateCompletedPayload,
	}); err != nil {
		return err
	}
	if err := registry.Register(event.Definition{
		Type:            event.TypeRunScored,
		Aggregate:       event.AggregateGame,
		ValidatePayload: validateRunScoredPayload,
	}); err != nil {
		return err
	}
	if err := registry.Register(event.Definition{
		Type:            event.TypeAtBatCompleted,
		Aggregate:       event.AggregateGame,
		ValidatePayload: validateAtBatCompletedPayload,
	}); err != nil {
		return err
	}
	if err := registry.Register(event.Definition{
		Type:            event.TypeScoreReverted,
		Aggregate:       event.AggregateGame,
		ValidatePayload: validateScoreRevertedPayload,
	}); err != nil {
		return err
	}
	return registry.Register(event.Definition{
		Type:            event.TypeScoreRestored,
		Aggregate:       event.AggregateGame,
		ValidatePayload: validateScoreRestoredPayload,
	})
}

// validateStartedPayload ensures started payloads match the game start shape.
func validateStartedPayload(raw json.RawMessage) error {
	var payload StartedPayload
	return json.Unmarshal(raw, &payload)
}

// validateCompletedPayload ensures completed payloads match the completion shape.
func validateCompletedPayload(raw json.RawMessage) error {
	var payload CompletedPayload
	return json.Unmarshal(raw, &payload)
}

// validateRunScoredPayload ensures run scored payloads carry a side.
func validateRunScoredPayload(raw json.RawMessage) error {
	var payload RunScoredPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return err
	}
	if payload.Side != SideHome && payload.Side != SideAway {
		return errors.New("run scored side must be HOME or AWAY")
	}
	return nil
}

// validateAtBatCompletedPayload ensures at-bat payloads carry a batter.
func validateAtBatCompletedPayload(raw json.RawMessage) error {
	var payload AtBatCompletedPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return err
	}
	if payload.BatterID == "" {
		return errors.New("at-bat batter id is required")
	}
	return nil
}

// validateScoreRevertedPayload ensures score reverted payloads are non-negative.
func validateScoreRevertedPayload(raw json.RawMessage) error {
	var payload ScoreRevertedPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return err
	}
	if payload.Runs < 0 {
		return errors.New("reverted runs must be non-negative")
	}
	return nil
}

// validateScoreRestoredPayload ensures score restored payloads are non-negative.
func validateScoreRestoredPayload(raw json.RawMessage) error {
	var payload ScoreRestoredPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return err
	}
	if payload.Runs < 0 {
		return errors.New("restored runs must be non-negative")
	}
	return nil
}
