package game

import (
	"encoding/json"
	"time"

	apperrors "github.com/louisbranch/scorebook/internal/platform/errors"
	"github.com/louisbranch/scorebook/internal/platform/id"
	"github.com/louisbranch/scorebook/internal/scoring/domain/event"
)

// ErrNotStarted is returned when an operation requires a started game.
var ErrNotStarted = apperrors.New(apperrors.CodeGameNotStarted, "Game has not been started")

// ErrCompleted is returned when an operation reaches a finished game.
var ErrCompleted = apperrors.New(apperrors.CodeGameCompleted, "Game has already been completed")

// Start transitions a game from NOT_STARTED to IN_PROGRESS and returns the
// folded state plus the emitted event. The input state is never mutated.
func Start(state State, homeLineupID, awayLineupID string, now func() time.Time) (State, []event.Event, error) {
	switch state.Status {
	case StatusInProgress:
		return state, nil, apperrors.New(apperrors.CodeGameAlreadyStarted, "Game has already been started")
	case StatusCompleted:
		return state, nil, ErrCompleted
	}
	if now == nil {
		now = time.Now
	}

	payload, _ := json.Marshal(StartedPayload{
		HomeLineupID: homeLineupID,
		AwayLineupID: awayLineupID,
	})
	evt := event.Event{
		GameID:        state.ID,
		ID:            id.NewID(),
		Type:          event.TypeGameStarted,
		Timestamp:     now().UTC(),
		Version:       1,
		AggregateType: event.AggregateGame,
		AggregateID:   state.ID,
		PayloadJSON:   payload,
	}

	folded, err := Fold(state, evt)
	if err != nil {
		return state, nil, err
	}
	return folded, []event.Event{evt}, nil
}

// Complete transitions a game from IN_PROGRESS to COMPLETED with a reason.
func Complete(state State, reason string, now func() time.Time) (State, []event.Event, error) {
	switch state.Status {
	case StatusNotStarted:
		return state, nil, ErrNotStarted
	case StatusCompleted:
		return state, nil, ErrCompleted
	}
	if now == nil {
		now = time.Now
	}

	payload, _ := json.Marshal(CompletedPayload{
		Reason:    reason,
		HomeScore: state.Score.Home,
		AwayScore: state.Score.Away,
	})
	evt := event.Event{
		GameID:        state.ID,
		ID:            id.NewID(),
		Type:          event.TypeGameCompleted,
		Timestamp:     now().UTC(),
		Version:       1,
		AggregateType: event.AggregateGame,
		AggregateID:   state.ID,
		PayloadJSON:   payload,
	}

	folded, err := Fold(state, evt)
	if err != nil {
		return state, nil, err
	}
	return folded, []event.Event{evt}, nil
}
