// Package event defines the immutable event envelope shared by all
// scorebook aggregates and the closed set of event types they emit.
package event

import (
	"strings"
	"time"
)

// Type identifies the type of a scorebook event.
type Type string

// Game lifecycle and scoring events.
const (
	// TypeGameStarted records the start of a game.
	TypeGameStarted Type = "game.started"
	// TypeGameCompleted records the completion of a game.
	TypeGameCompleted Type = "game.completed"
	// TypeRunScored records a single run crossing home plate.
	TypeRunScored Type = "game.run_scored"
	// TypeAtBatCompleted records the full outcome of one plate appearance.
	TypeAtBatCompleted Type = "game.at_bat_completed"
)

// Lineup events.
const (
	// TypePlayerAdded records a player being added to a batting slot pre-game.
	TypePlayerAdded Type = "lineup.player_added"
	// TypePlayerSubstituted records a player substituted into a batting slot.
	TypePlayerSubstituted Type = "lineup.player_substituted"
	// TypeFieldPositionChanged records a pure defensive reassignment.
	TypeFieldPositionChanged Type = "lineup.position_changed"
)

// Inning events.
const (
	// TypeRunnerAdvanced records one runner movement between bases.
	TypeRunnerAdvanced Type = "inning.runner_advanced"
	// TypeBatterAdvanced records the batting order moving to the next slot.
	TypeBatterAdvanced Type = "inning.batter_advanced"
	// TypeOutRecorded records an out that is not already represented by a
	// runner movement, such as the batter retired on a fly out.
	TypeOutRecorded Type = "inning.out_recorded"
	// TypeHalfInningEnded records the end of a half-inning.
	TypeHalfInningEnded Type = "inning.half_ended"
	// TypeInningAdvanced records both halves completing and a new inning starting.
	TypeInningAdvanced Type = "inning.advanced"
)

// Compensation events. Each functionally reverses an earlier event without
// deleting it and carries a back-reference to the compensated sequence.
const (
	// TypeActionUndone marks an action as undone.
	TypeActionUndone Type = "undo.action_undone"
	// TypeRunnerPositionReverted restores bases and outs to their pre-action values.
	TypeRunnerPositionReverted Type = "inning.runner_position_reverted"
	// TypeScoreReverted removes runs credited by an undone action.
	TypeScoreReverted Type = "game.score_reverted"
	// TypeLineupPositionRestored reverses or re-applies a batting slot change.
	TypeLineupPositionRestored Type = "lineup.position_restored"
	// TypeInningStateReverted restores inning number and half to pre-action values.
	TypeInningStateReverted Type = "inning.state_reverted"
	// TypeBasesStateRestored restores the full bases mapping.
	TypeBasesStateRestored Type = "inning.bases_restored"
	// TypeCurrentBatterReverted restores the batting order cursor.
	TypeCurrentBatterReverted Type = "inning.batter_reverted"
	// TypeHalfInningReverted reopens a previously ended half-inning.
	TypeHalfInningReverted Type = "inning.half_reverted"
)

// Restoration events. Each re-applies an action previously reversed by a
// compensation event.
const (
	// TypeActionRedone marks an undone action as redone.
	TypeActionRedone Type = "redo.action_redone"
	// TypeRunnerPositionRestored re-applies bases and outs from a redone action.
	TypeRunnerPositionRestored Type = "inning.runner_position_restored"
	// TypeScoreRestored re-applies runs from a redone action.
	TypeScoreRestored Type = "game.score_restored"
	// TypeInningStateRestored re-applies inning number and half from a redone action.
	TypeInningStateRestored Type = "inning.state_restored"
	// TypeCurrentBatterRestored re-applies the batting order cursor.
	TypeCurrentBatterRestored Type = "inning.batter_restored"
	// TypeHalfInningRestored re-applies a half-inning ending.
	TypeHalfInningRestored Type = "inning.half_restored"
)

// AggregateType identifies which aggregate an event belongs to.
type AggregateType string

const (
	// AggregateGame links an event to the Game aggregate.
	AggregateGame AggregateType = "game"
	// AggregateLineup links an event to a TeamLineup aggregate.
	AggregateLineup AggregateType = "lineup"
	// AggregateInning links an event to the InningState aggregate.
	AggregateInning AggregateType = "inning"
)

// Event represents an immutable event in the per-game journal.
type Event struct {
	// GameID is the game stream this event belongs to.
	GameID string
	// Seq is the event sequence number within the game (starts at 1).
	// Assigned by storage on append.
	Seq uint64
	// ID uniquely identifies this event instance.
	ID string
	// Type identifies the kind of event.
	Type Type
	// Timestamp is when the event occurred.
	Timestamp time.Time
	// Version is the event schema version, not the stream version.
	// Compensation and restoration events carry the original's version + 1.
	Version int
	// AggregateType names the aggregate that owns the event.
	AggregateType AggregateType
	// AggregateID is the identity of the owning aggregate instance.
	AggregateID string
	// CompensatesSeq back-references the sequence of the event this one
	// compensates or restores. Zero for ordinary events.
	CompensatesSeq uint64
	// PayloadJSON holds event-specific data as JSON.
	PayloadJSON []byte
}

// IsValid reports whether the event type is usable.
func (t Type) IsValid() bool {
	return strings.TrimSpace(string(t)) != ""
}

// Domain returns the domain prefix of the event type (e.g., "game", "inning").
func (t Type) Domain() string {
	for i, c := range t {
		if c == '.' {
			return string(t[:i])
		}
	}
	return string(t)
}

// IsCompensation reports whether the type is produced by the undo subsystem.
func (t Type) IsCompensation() bool {
	switch t {
	case TypeActionUndone, TypeRunnerPositionReverted, TypeScoreReverted,
		TypeLineupPositionRestored, TypeInningStateReverted, TypeBasesStateRestored,
		TypeCurrentBatterReverted, TypeHalfInningReverted:
		return true
	}
	return false
}

// IsRestoration reports whether the type is produced by the redo subsystem.
func (t Type) IsRestoration() bool {
	switch t {
	case TypeActionRedone, TypeRunnerPositionRestored, TypeScoreRestored,
		TypeInningStateRestored, TypeCurrentBatterRestored, TypeHalfInningRestored:
		return true
	}
	return false
}
