// Package game models the Game aggregate: lifecycle status and the running
// score, derived exclusively from replayed events.
package game

import "time"

// Status is the game lifecycle status. Transitions are linear and never
// regress: NOT_STARTED -> IN_PROGRESS -> COMPLETED.
type Status string

const (
	// StatusNotStarted is the initial status before the first pitch.
	StatusNotStarted Status = "NOT_STARTED"
	// StatusInProgress means the game accepts at-bats and lineup changes.
	StatusInProgress Status = "IN_PROGRESS"
	// StatusCompleted is terminal; all further mutation is rejected.
	StatusCompleted Status = "COMPLETED"
)

// Side identifies the batting or fielding team.
type Side string

const (
	// SideHome is the home team (bats in the bottom half).
	SideHome Side = "HOME"
	// SideAway is the away team (bats in the top half).
	SideAway Side = "AWAY"
)

// Score is the per-team run total. Totals never go below zero even when a
// compensation event reverts more runs than were recorded.
type Score struct {
	Home int
	Away int
}

// State captures replayed Game aggregate state.
type State struct {
	// ID is the game identity.
	ID string
	// Status is the lifecycle status.
	Status Status
	// Score is the running score.
	Score Score
	// StartTime is when the game started; zero before the start event.
	StartTime time.Time
	// CompletionReason records why the game ended (empty while in progress).
	CompletionReason string
	// HomeLineupID and AwayLineupID link the game to its lineup aggregates.
	HomeLineupID string
	AwayLineupID string
}

// NewState returns the pre-game state for a game identity.
func NewState(gameID string) State {
	return State{ID: gameID, Status: StatusNotStarted}
}

// Total returns the run total for one side.
func (s Score) Total(side Side) int {
	if side == SideHome {
		return s.Home
	}
	return s.Away
}

// Add returns a new score with runs added to one side.
func (s Score) Add(side Side, runs int) Score {
	if side == SideHome {
		s.Home += runs
	} else {
		s.Away += runs
	}
	return s
}

// Subtract returns a new score with runs removed from one side, floored at zero.
func (s Score) Subtract(side Side, runs int) Score {
	if side == SideHome {
		s.Home -= runs
		if s.Home < 0 {
			s.Home = 0
		}
	} else {
		s.Away -= runs
		if s.Away < 0 {
			s.Away = 0
		}
	}
	return s
}

// Opponent returns the other side.
func (side Side) Opponent() Side {
	if side == SideHome {
		return SideAway
	}
	return SideHome
}
