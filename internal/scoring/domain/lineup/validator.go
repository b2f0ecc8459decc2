package lineup

import (
	"fmt"

	apperrors "github.com/louisbranch/scorebook/internal/platform/errors"
)

// ValidateSubstitution runs the batting-slot substitution state machine:
// ACTIVE -> SUBSTITUTED, and for starters only a single
// SUBSTITUTED -> RE-ENTERED transition.
func ValidateSubstitution(slot BattingSlot, newPlayerID string, inInning int, isReentry bool) error {
	active, ok := slot.ActiveEntry()
	if !ok {
		return apperrors.New(apperrors.CodeLineupSlotEmpty,
			fmt.Sprintf("batting slot %d has no active player", slot.Position))
	}
	if inInning <= active.EnteredInning {
		return apperrors.New(apperrors.CodeSubstitutionSameInning,
			"Cannot substitute in the same inning the current player entered")
	}
	if isReentry {
		if !WasPlayerStarter(slot, newPlayerID) {
			return apperrors.New(apperrors.CodeSubstitutionNotStarter,
				"Player was not the original starter in this batting slot")
		}
		for _, entry := range slot.History {
			if entry.PlayerID == newPlayerID && entry.IsReentry {
				return apperrors.New(apperrors.CodeSubstitutionReentryUsed,
					"Starter can only re-enter once")
			}
		}
	}
	if newPlayerID == active.PlayerID {
		return apperrors.New(apperrors.CodeSubstitutionPlayerActive,
			fmt.Sprintf("%s is already active in batting slot %d", newPlayerID, slot.Position))
	}
	return nil
}

// WasPlayerStarter reports whether the player was the slot's original occupant.
func WasPlayerStarter(slot BattingSlot, playerID string) bool {
	starter, ok := slot.Starter()
	return ok && starter.PlayerID == playerID
}

// CanPlayerReenter reports whether the player may still re-enter this slot:
// the original starter who has never re-entered, regardless of whether they
// are currently active.
func CanPlayerReenter(slot BattingSlot, playerID string) bool {
	if !WasPlayerStarter(slot, playerID) {
		return false
	}
	for _, entry := range slot.History {
		if entry.PlayerID == playerID && entry.IsReentry {
			return false
		}
	}
	return true
}

// HasPlayerBeenSubstituted reports whether the player occupied the slot
// before and is no longer its current occupant.
func HasPlayerBeenSubstituted(slot BattingSlot, playerID string) bool {
	if slot.CurrentPlayer == playerID {
		return false
	}
	for _, entry := range slot.History {
		if entry.PlayerID == playerID && entry.ExitedInning != 0 {
			return true
		}
	}
	return false
}

// ValidatePositionChange checks that a pure defensive reassignment targets
// the slot's current active occupant. Position changes require no
// substitution bookkeeping.
func ValidatePositionChange(slot BattingSlot, playerID string) error {
	if slot.CurrentPlayer != playerID {
		return apperrors.New(apperrors.CodeLineupPositionNotActive,
			fmt.Sprintf("%s is not the active player in batting slot %d", playerID, slot.Position))
	}
	return nil
}

// SubstitutionHistory returns the slot's full chronological history. This is
// the canonical audit source for undo/redo action descriptions.
func SubstitutionHistory(slot BattingSlot) []SlotHistory {
	history := make([]SlotHistory, len(slot.History))
	copy(history, slot.History)
	return history
}
