package undo

import (
	"encoding/json"
	"errors"

	"github.com/louisbranch/scorebook/internal/scoring/domain/event"
)

// ActionUndonePayload captures the payload for undo.action_undone events.
type ActionUndonePayload struct {
	UndoneSeq  uint64 `json:"undone_seq"`
	UndoneType string `json:"undone_type"`
	Category   string `json:"category"`
	Notes      string `json:"notes,omitempty"`
}

// ActionRedonePayload captures the payload for redo.action_redone events.
type ActionRedonePayload struct {
	RedoneSeq  uint64 `json:"redone_seq"`
	RedoneType string `json:"redone_type"`
	Category   string `json:"category"`
	Notes      string `json:"notes,omitempty"`
}

// RegisterEvents registers the undo/redo marker events with the shared
// registry. The state-changing compensation events are registered by the
// aggregate packages that fold them.
func RegisterEvents(registry *event.Registry) error {
	if registry == nil {
		return errors.New("event registry is required")
	}
	if err := registry.Register(event.Definition{
		Type:            event.TypeActionUndone,
		Aggregate:       event.AggregateGame,
		ValidatePayload: validateActionUndonePayload,
	}); err != nil {
		return err
	}
	return registry.Register(event.Definition{
		Type:            event.TypeActionRedone,
		Aggregate:       event.AggregateGame,
		ValidatePayload: validateActionRedonePayload,
	})
}

func validateActionUndonePayload(raw json.RawMessage) error {
	var payload ActionUndonePayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return err
	}
	if payload.UndoneSeq == 0 {
		return errors.New("undone sequence reference is required")
	}
	return nil
}

func validateActionRedonePayload(raw json.RawMessage) error {
	var payload ActionRedonePayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return err
	}
	if payload.RedoneSeq == 0 {
		return errors.New("redone sequence reference is required")
	}
	return nil
}
