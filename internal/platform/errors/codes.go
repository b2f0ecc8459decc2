// Package errors provides structured error handling for scorebook domains.
package errors

// Code is a machine-readable error code.
type Code string

const (
	// CodeUnknown represents an unknown error.
	CodeUnknown Code = "UNKNOWN"

	// Game errors
	CodeGameNotStarted        Code = "GAME_NOT_STARTED"
	CodeGameAlreadyStarted    Code = "GAME_ALREADY_STARTED"
	CodeGameCompleted         Code = "GAME_COMPLETED"
	CodeGameInvalidTransition Code = "GAME_INVALID_STATUS_TRANSITION"
	CodeGameNotFound          Code = "GAME_NOT_FOUND"
	CodeGameEmptyID           Code = "GAME_EMPTY_ID"

	// Lineup errors
	CodeLineupSlotOccupied      Code = "LINEUP_SLOT_OCCUPIED"
	CodeLineupPlayerInLineup    Code = "LINEUP_PLAYER_ALREADY_IN_LINEUP"
	CodeLineupInvalidSlot       Code = "LINEUP_INVALID_SLOT"
	CodeLineupLocked            Code = "LINEUP_LOCKED_AFTER_START"
	CodeLineupSlotEmpty         Code = "LINEUP_SLOT_EMPTY"
	CodeLineupInvalid           Code = "LINEUP_INVALID"
	CodeLineupPositionNotActive Code = "LINEUP_POSITION_NOT_ACTIVE"

	// Substitution errors
	CodeSubstitutionSameInning   Code = "SUBSTITUTION_SAME_INNING"
	CodeSubstitutionNotStarter   Code = "SUBSTITUTION_NOT_STARTER"
	CodeSubstitutionReentryUsed  Code = "SUBSTITUTION_REENTRY_USED"
	CodeSubstitutionPlayerActive Code = "SUBSTITUTION_PLAYER_ACTIVE"

	// Inning errors
	CodeInningInvalidOuts   Code = "INNING_INVALID_OUTS"
	CodeInningInvalidNumber Code = "INNING_INVALID_NUMBER"

	// At-bat errors
	CodeAtBatRunnerNotOnBase Code = "AT_BAT_RUNNER_NOT_ON_BASE"
	CodeAtBatInvalidResult   Code = "AT_BAT_INVALID_RESULT"
	CodeAtBatEmptyBatter     Code = "AT_BAT_EMPTY_BATTER"
	CodeAtBatInvalidMovement Code = "AT_BAT_INVALID_MOVEMENT"

	// Undo/redo errors
	CodeUndoNothingAvailable     Code = "UNDO_NOTHING_AVAILABLE"
	CodeUndoInvalidState         Code = "UNDO_INVALID_STATE"
	CodeUndoConfirmationRequired Code = "UNDO_CONFIRMATION_REQUIRED"

	// Event errors
	CodeEventUnknownType     Code = "EVENT_UNKNOWN_TYPE"
	CodeEventInvalidPayload  Code = "EVENT_INVALID_PAYLOAD"
	CodeEventInvalidEnvelope Code = "EVENT_INVALID_ENVELOPE"

	// Storage errors
	CodeNotFound        Code = "NOT_FOUND"
	CodeVersionConflict Code = "VERSION_CONFLICT"
)
