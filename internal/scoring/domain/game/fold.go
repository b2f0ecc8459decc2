package game

import (
	"encoding/json"
	"fmt"

	"github.com/louisbranch/scorebook/internal/scoring/domain/event"
)

// FoldHandledTypes returns the event types handled by the game fold function.
func FoldHandledTypes() []event.Type {
	return []event.Type{
		event.TypeGameStarted,
		event.TypeGameCompleted,
		event.TypeRunScored,
		event.TypeScoreReverted,
		event.TypeScoreRestored,
		event.TypeActionUndone,
		event.TypeActionRedone,
	}
}

// actionMarkerPayload carries the fields of undo/redo markers the game fold
// cares about. Lifecycle markers roll the game status back or forward; all
// other markers leave game state untouched.
type actionMarkerPayload struct {
	UndoneType string `json:"undone_type"`
	RedoneType string `json:"redone_type"`
}

// Fold applies an event to game state. It returns an error if a recognized
// event carries a payload that cannot be unmarshalled.
//
// Folding is the only way game state changes, so replaying the same ordered
// event list always reproduces an identical state.
func Fold(state State, evt event.Event) (State, error) {
	switch evt.Type {
	case event.TypeGameStarted:
		var payload StartedPayload
		if err := json.Unmarshal(evt.PayloadJSON, &payload); err != nil {
			return state, fmt.Errorf("game fold %s: %w", evt.Type, err)
		}
		state.Status = StatusInProgress
		state.StartTime = evt.Timestamp
		state.HomeLineupID = payload.HomeLineupID
		state.AwayLineupID = payload.AwayLineupID
	case event.TypeGameCompleted:
		var payload CompletedPayload
		if err := json.Unmarshal(evt.PayloadJSON, &payload); err != nil {
			return state, fmt.Errorf("game fold %s: %w", evt.Type, err)
		}
		state.Status = StatusCompleted
		state.CompletionReason = payload.Reason
	case event.TypeRunScored:
		var payload RunScoredPayload
		if err := json.Unmarshal(evt.PayloadJSON, &payload); err != nil {
			return state, fmt.Errorf("game fold %s: %w", evt.Type, err)
		}
		state.Score = state.Score.Add(payload.Side, 1)
	case event.TypeScoreReverted:
		var payload ScoreRevertedPayload
		if err := json.Unmarshal(evt.PayloadJSON, &payload); err != nil {
			return state, fmt.Errorf("game fold %s: %w", evt.Type, err)
		}
		state.Score = state.Score.Subtract(payload.Side, payload.Runs)
	case event.TypeScoreRestored:
		var payload ScoreRestoredPayload
		if err := json.Unmarshal(evt.PayloadJSON, &payload); err != nil {
			return state, fmt.Errorf("game fold %s: %w", evt.Type, err)
		}
		state.Score = state.Score.Add(payload.Side, payload.Runs)
	case event.TypeActionUndone:
		var payload actionMarkerPayload
		if err := json.Unmarshal(evt.PayloadJSON, &payload); err != nil {
			return state, fmt.Errorf("game fold %s: %w", evt.Type, err)
		}
		switch event.Type(payload.UndoneType) {
		case event.TypeGameCompleted:
			// CompletionReason is kept so a later redo restores it.
			state.Status = StatusInProgress
		case event.TypeGameStarted:
			state.Status = StatusNotStarted
		}
	case event.TypeActionRedone:
		var payload actionMarkerPayload
		if err := json.Unmarshal(evt.PayloadJSON, &payload); err != nil {
			return state, fmt.Errorf("game fold %s: %w", evt.Type, err)
		}
		switch event.Type(payload.RedoneType) {
		case event.TypeGameCompleted:
			state.Status = StatusCompleted
		case event.TypeGameStarted:
			state.Status = StatusInProgress
		}
	}
	return state, nil
}
