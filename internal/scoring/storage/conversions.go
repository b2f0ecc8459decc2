package storage

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/louisbranch/scorebook/internal/scoring/domain/game"
	"github.com/louisbranch/scorebook/internal/scoring/domain/inning"
	"github.com/louisbranch/scorebook/internal/scoring/domain/lineup"
)

// lineupSnapshot is the JSON shape of a lineup record snapshot.
type lineupSnapshot struct {
	Slots          map[int]lineup.BattingSlot      `json:"slots"`
	FieldPositions map[lineup.FieldPosition]string `json:"field_positions"`
	Jerseys        map[string]int                  `json:"jerseys"`
}

// GameRecordFromState renders replayed game state as a projection record.
func GameRecordFromState(state game.State, updatedAt time.Time) GameRecord {
	return GameRecord{
		ID:               state.ID,
		Status:           state.Status,
		HomeScore:        state.Score.Home,
		AwayScore:        state.Score.Away,
		StartTime:        state.StartTime,
		CompletionReason: state.CompletionReason,
		HomeLineupID:     state.HomeLineupID,
		AwayLineupID:     state.AwayLineupID,
		UpdatedAt:        updatedAt,
	}
}

// GameStateFromRecord rehydrates game state from a projection record.
func GameStateFromRecord(rec GameRecord) game.State {
	return game.State{
		ID:               rec.ID,
		Status:           rec.Status,
		Score:            game.Score{Home: rec.HomeScore, Away: rec.AwayScore},
		StartTime:        rec.StartTime,
		CompletionReason: rec.CompletionReason,
		HomeLineupID:     rec.HomeLineupID,
		AwayLineupID:     rec.AwayLineupID,
	}
}

// LineupRecordFromState renders replayed lineup state as a snapshot record.
func LineupRecordFromState(state lineup.State, updatedAt time.Time) (LineupRecord, error) {
	snapshot, err := json.Marshal(lineupSnapshot{
		Slots:          state.Slots,
		FieldPositions: state.FieldPositions,
		Jerseys:        state.Jerseys,
	})
	if err != nil {
		return LineupRecord{}, fmt.Errorf("marshal lineup snapshot: %w", err)
	}
	return LineupRecord{
		ID:           state.ID,
		GameID:       state.GameID,
		TeamName:     state.TeamName,
		Side:         state.Side,
		SnapshotJSON: snapshot,
		UpdatedAt:    updatedAt,
	}, nil
}

// LineupStateFromRecord rehydrates lineup state from a snapshot record.
func LineupStateFromRecord(rec LineupRecord) (lineup.State, error) {
	state := lineup.NewState(rec.ID, rec.GameID, rec.TeamName, rec.Side)
	if len(rec.SnapshotJSON) == 0 {
		return state, nil
	}
	var snapshot lineupSnapshot
	if err := json.Unmarshal(rec.SnapshotJSON, &snapshot); err != nil {
		return lineup.State{}, fmt.Errorf("unmarshal lineup snapshot: %w", err)
	}
	if snapshot.Slots != nil {
		state.Slots = snapshot.Slots
	}
	if snapshot.FieldPositions != nil {
		state.FieldPositions = snapshot.FieldPositions
	}
	if snapshot.Jerseys != nil {
		state.Jerseys = snapshot.Jerseys
	}
	return state, nil
}

// InningRecordFromState renders replayed inning state as a projection record.
func InningRecordFromState(state inning.State, updatedAt time.Time) (InningRecord, error) {
	bases, err := json.Marshal(state.Bases.ToMap())
	if err != nil {
		return InningRecord{}, fmt.Errorf("marshal bases: %w", err)
	}
	return InningRecord{
		ID:             state.ID,
		GameID:         state.GameID,
		Inning:         state.Inning,
		TopHalf:        state.TopHalf,
		Outs:           state.Outs,
		BasesJSON:      bases,
		AwayBatterSlot: state.AwayBatterSlot,
		HomeBatterSlot: state.HomeBatterSlot,
		UpdatedAt:      updatedAt,
	}, nil
}

// InningStateFromRecord rehydrates inning state from a projection record.
func InningStateFromRecord(rec InningRecord) (inning.State, error) {
	state := inning.State{
		ID:             rec.ID,
		GameID:         rec.GameID,
		Inning:         rec.Inning,
		TopHalf:        rec.TopHalf,
		Outs:           rec.Outs,
		AwayBatterSlot: rec.AwayBatterSlot,
		HomeBatterSlot: rec.HomeBatterSlot,
	}
	if len(rec.BasesJSON) > 0 {
		var bases map[string]string
		if err := json.Unmarshal(rec.BasesJSON, &bases); err != nil {
			return inning.State{}, fmt.Errorf("unmarshal bases: %w", err)
		}
		state.Bases = inning.BasesFromMap(bases)
	}
	return state, nil
}
