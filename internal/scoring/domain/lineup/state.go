// Package lineup models the TeamLineup aggregate: batting slots with full
// occupancy history, jersey numbers, and defensive position assignments.
package lineup

import (
	"sort"

	"github.com/louisbranch/scorebook/internal/scoring/domain/game"
)

// FieldPosition is a defensive position.
type FieldPosition string

const (
	PositionPitcher      FieldPosition = "P"
	PositionCatcher      FieldPosition = "C"
	PositionFirstBase    FieldPosition = "1B"
	PositionSecondBase   FieldPosition = "2B"
	PositionThirdBase    FieldPosition = "3B"
	PositionShortstop    FieldPosition = "SS"
	PositionLeftField    FieldPosition = "LF"
	PositionCenterField  FieldPosition = "CF"
	PositionRightField   FieldPosition = "RF"
	PositionShortFielder FieldPosition = "SHORT_FIELDER"
	// PositionExtraPlayer bats without a defensive assignment (slots 10+).
	PositionExtraPlayer FieldPosition = "EXTRA_PLAYER"
)

// SlotHistory is one occupancy interval of a batting slot.
type SlotHistory struct {
	// PlayerID is the occupant during this interval.
	PlayerID string
	// EnteredInning is when the occupancy began (>= 1).
	EnteredInning int
	// ExitedInning is when the occupancy ended; zero means still active.
	// When set it is strictly greater than EnteredInning.
	ExitedInning int
	// WasStarter marks the original occupant of the slot.
	WasStarter bool
	// IsReentry marks a starter returning after being substituted out.
	IsReentry bool
}

// Active reports whether the interval is the slot's current occupancy.
func (h SlotHistory) Active() bool {
	return h.ExitedInning == 0
}

// BattingSlot is one position in the batting order. Exactly one history
// entry is active at any time and its player equals CurrentPlayer.
type BattingSlot struct {
	// Position is the batting order position (1..MaxBattingSlots).
	Position int
	// CurrentPlayer is the player currently occupying the slot.
	CurrentPlayer string
	// History is the chronological, non-empty occupancy history.
	History []SlotHistory
}

// ActiveEntry returns the slot's single active history entry.
func (s BattingSlot) ActiveEntry() (SlotHistory, bool) {
	for i := len(s.History) - 1; i >= 0; i-- {
		if s.History[i].Active() {
			return s.History[i], true
		}
	}
	return SlotHistory{}, false
}

// Starter returns the slot's original occupant.
func (s BattingSlot) Starter() (SlotHistory, bool) {
	for _, entry := range s.History {
		if entry.WasStarter {
			return entry, true
		}
	}
	return SlotHistory{}, false
}

// State captures replayed TeamLineup aggregate state. Mutation always
// produces a new value; the slot and position maps are never shared between
// versions.
type State struct {
	// ID is the lineup identity.
	ID string
	// GameID links the lineup to its game.
	GameID string
	// TeamName is the display name of the team.
	TeamName string
	// Side is which team this lineup bats for.
	Side game.Side
	// Slots maps batting order position to its slot.
	Slots map[int]BattingSlot
	// FieldPositions maps defensive position to the current occupant.
	FieldPositions map[FieldPosition]string
	// Jerseys maps player id to jersey number.
	Jerseys map[string]int
}

// NewState returns an empty lineup for one side of a game.
func NewState(lineupID, gameID, teamName string, side game.Side) State {
	return State{
		ID:             lineupID,
		GameID:         gameID,
		TeamName:       teamName,
		Side:           side,
		Slots:          make(map[int]BattingSlot),
		FieldPositions: make(map[FieldPosition]string),
		Jerseys:        make(map[string]int),
	}
}

// PlayerInSlot returns the current occupant of a batting position.
func (s State) PlayerInSlot(position int) (string, bool) {
	slot, ok := s.Slots[position]
	if !ok {
		return "", false
	}
	return slot.CurrentPlayer, true
}

// SlotOf returns the batting position a player currently occupies.
func (s State) SlotOf(playerID string) (int, bool) {
	for position, slot := range s.Slots {
		if slot.CurrentPlayer == playerID {
			return position, true
		}
	}
	return 0, false
}

// PositionOf returns the defensive position a player currently holds.
func (s State) PositionOf(playerID string) (FieldPosition, bool) {
	for position, occupant := range s.FieldPositions {
		if occupant == playerID {
			return position, true
		}
	}
	return "", false
}

// BattingOrder returns the filled positions in ascending batting order.
func (s State) BattingOrder() []int {
	positions := make([]int, 0, len(s.Slots))
	for position := range s.Slots {
		positions = append(positions, position)
	}
	sort.Ints(positions)
	return positions
}

// clone returns a deep copy so folds never mutate shared maps or slices.
func (s State) clone() State {
	next := s
	next.Slots = make(map[int]BattingSlot, len(s.Slots))
	for position, slot := range s.Slots {
		history := make([]SlotHistory, len(slot.History))
		copy(history, slot.History)
		slot.History = history
		next.Slots[position] = slot
	}
	next.FieldPositions = make(map[FieldPosition]string, len(s.FieldPositions))
	for position, occupant := range s.FieldPositions {
		next.FieldPositions[position] = occupant
	}
	next.Jerseys = make(map[string]int, len(s.Jerseys))
	for playerID, jersey := range s.Jerseys {
		next.Jerseys[playerID] = jersey
	}
	return next
}
