package replay

import (
	"context"

	"github.com/louisbranch/scorebook/internal/scoring/domain/event"
	"github.com/louisbranch/scorebook/internal/scoring/domain/game"
	"github.com/louisbranch/scorebook/internal/scoring/domain/inning"
	"github.com/louisbranch/scorebook/internal/scoring/domain/lineup"
)

// Snapshot is the full replayed picture of one game: the game aggregate,
// every lineup keyed by lineup id, and the inning situation.
type Snapshot struct {
	Game    game.State
	Lineups map[string]lineup.State
	Inning  inning.State
	LastSeq uint64
}

// Rebuild replays the whole journal for a game and folds each event into
// the aggregate its envelope names. Lineup aggregates are materialized
// lazily on their first event.
func Rebuild(ctx context.Context, store EventStore, gameID string) (Snapshot, error) {
	snapshot := Snapshot{
		Game:    game.NewState(gameID),
		Lineups: make(map[string]lineup.State),
		Inning:  inning.NewState("", gameID),
	}

	result, err := Replay(ctx, store, ApplierFunc(func(state any, evt event.Event) (any, error) {
		snap := state.(Snapshot)
		switch evt.AggregateType {
		case event.AggregateGame:
			next, err := game.Fold(snap.Game, evt)
			if err != nil {
				return snap, err
			}
			snap.Game = next
		case event.AggregateLineup:
			current, ok := snap.Lineups[evt.AggregateID]
			if !ok {
				current = lineup.NewState(evt.AggregateID, gameID, "", "")
			}
			next, err := lineup.Fold(current, evt)
			if err != nil {
				return snap, err
			}
			snap.Lineups[evt.AggregateID] = next
		case event.AggregateInning:
			current := snap.Inning
			if current.ID == "" {
				current.ID = evt.AggregateID
			}
			next, err := inning.Fold(current, evt)
			if err != nil {
				return snap, err
			}
			snap.Inning = next
		}
		return snap, nil
	}), gameID, snapshot, Options{})
	if err != nil {
		return snapshot, err
	}

	final := result.State.(Snapshot)
	final.LastSeq = result.LastSeq
	return final, nil
}
