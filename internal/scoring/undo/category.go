// Package undo implements the undo/redo subsystem: compensating and
// restoration events that reverse or re-apply prior actions without ever
// deleting journal history.
package undo

import "github.com/louisbranch/scorebook/internal/scoring/domain/event"

// Category classifies an original event for reporting and logging.
type Category string

const (
	CategoryAtBat        Category = "AT_BAT"
	CategorySubstitution Category = "SUBSTITUTION"
	CategoryInningEnd    Category = "INNING_END"
	CategoryGameStart    Category = "GAME_START"
	CategoryGameEnd      Category = "GAME_END"
	CategoryOther        Category = "OTHER"
)

// Categorize maps an event type to its action category. Unrecognized types
// fall back to OTHER rather than failing.
func Categorize(t event.Type) Category {
	switch t {
	case event.TypeAtBatCompleted:
		return CategoryAtBat
	case event.TypePlayerSubstituted, event.TypeFieldPositionChanged:
		return CategorySubstitution
	case event.TypeHalfInningEnded, event.TypeInningAdvanced:
		return CategoryInningEnd
	case event.TypeGameStarted:
		return CategoryGameStart
	case event.TypeGameCompleted:
		return CategoryGameEnd
	}
	return CategoryOther
}

// AffectedAggregates names the aggregates an undo of the event touches.
// Unrecognized types default to the game aggregate.
func AffectedAggregates(t event.Type) []string {
	switch Categorize(t) {
	case CategoryAtBat:
		return []string{"Game", "InningState"}
	case CategorySubstitution:
		return []string{"TeamLineup"}
	case CategoryInningEnd:
		return []string{"InningState"}
	}
	return []string{"Game"}
}

// anchorTypes are the event types that represent one operator action. Every
// other event in the journal is bookkeeping emitted alongside an anchor and
// is reversed through the anchor's compensation bundle.
func isActionAnchor(t event.Type) bool {
	switch t {
	case event.TypeAtBatCompleted, event.TypePlayerSubstituted,
		event.TypeFieldPositionChanged, event.TypeHalfInningEnded,
		event.TypeGameStarted, event.TypeGameCompleted:
		return true
	}
	return false
}

// isDangerous reports whether undoing the event warrants an operator log
// line regardless of the safety gate outcome.
func isDangerous(t event.Type) bool {
	switch t {
	case event.TypeHalfInningEnded, event.TypeGameCompleted, event.TypeGameStarted:
		return true
	}
	return false
}
