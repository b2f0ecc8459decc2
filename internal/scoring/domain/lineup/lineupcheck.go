package lineup

import (
	"fmt"
	"sort"

	"github.com/louisbranch/scorebook/internal/scoring/domain/rules"
)

// Entry is one row of a candidate lineup submitted for validation.
type Entry struct {
	Slot         int
	PlayerID     string
	JerseyNumber int
	Position     FieldPosition
}

// RequiredPositions returns the defensive positions a lineup of the given
// size must cover exactly once. SHORT_FIELDER is required only with exactly
// ten starters.
func RequiredPositions(starters int) []FieldPosition {
	required := []FieldPosition{
		PositionPitcher, PositionCatcher,
		PositionFirstBase, PositionSecondBase, PositionThirdBase,
		PositionShortstop,
		PositionLeftField, PositionCenterField, PositionRightField,
	}
	if starters == 10 {
		required = append(required, PositionShortFielder)
	}
	return required
}

// ValidateLineup runs the stateless lineup checks and returns every
// violation as a human-readable error string. Violations accumulate rather
// than failing fast so a coach sees the full picture at once.
func ValidateLineup(entries []Entry, cfg rules.Config) []string {
	cfg = cfg.Normalize()
	var violations []string

	if len(entries) < 9 {
		violations = append(violations,
			fmt.Sprintf("lineup requires at least 9 players, got %d", len(entries)))
	}
	if len(entries) > cfg.MaxRosterSize {
		violations = append(violations,
			fmt.Sprintf("lineup exceeds maximum roster size of %d", cfg.MaxRosterSize))
	}

	slots := make(map[int]int)
	jerseys := make(map[int][]string)
	players := make(map[string]int)
	positions := make(map[FieldPosition]int)
	for _, entry := range entries {
		slots[entry.Slot]++
		jerseys[entry.JerseyNumber] = append(jerseys[entry.JerseyNumber], entry.PlayerID)
		players[entry.PlayerID]++
		positions[entry.Position]++

		if entry.Slot < 1 || entry.Slot > cfg.MaxBattingSlots {
			violations = append(violations,
				fmt.Sprintf("batting slot %d is out of range 1-%d", entry.Slot, cfg.MaxBattingSlots))
		}
	}

	for slot, count := range slots {
		if count > 1 {
			violations = append(violations,
				fmt.Sprintf("batting slot %d is assigned %d times", slot, count))
		}
	}

	// Slots 1-9 must be contiguous before any of 10+ are used, and 10+
	// must themselves be contiguous.
	maxSlot := 0
	for slot := range slots {
		if slot > maxSlot {
			maxSlot = slot
		}
	}
	for slot := 1; slot <= 9 && slot <= maxSlot; slot++ {
		if slots[slot] == 0 {
			violations = append(violations,
				fmt.Sprintf("batting slot %d is empty but later slots are filled", slot))
		}
	}
	if maxSlot > 9 {
		for slot := 10; slot <= maxSlot; slot++ {
			if slots[slot] == 0 {
				violations = append(violations,
					fmt.Sprintf("extra batting slot %d is empty but later slots are filled", slot))
			}
		}
	}

	jerseyNumbers := make([]int, 0, len(jerseys))
	for jersey := range jerseys {
		jerseyNumbers = append(jerseyNumbers, jersey)
	}
	sort.Ints(jerseyNumbers)
	for _, jersey := range jerseyNumbers {
		if len(jerseys[jersey]) > 1 {
			violations = append(violations,
				fmt.Sprintf("jersey number %d is worn by %d players", jersey, len(jerseys[jersey])))
		}
	}

	for playerID, count := range players {
		if count > 1 {
			violations = append(violations,
				fmt.Sprintf("player %s occupies %d batting slots", playerID, count))
		}
	}

	for _, position := range RequiredPositions(len(entries)) {
		switch positions[position] {
		case 0:
			violations = append(violations,
				fmt.Sprintf("required position %s is not covered", position))
		case 1:
		default:
			violations = append(violations,
				fmt.Sprintf("position %s is covered %d times", position, positions[position]))
		}
	}

	return violations
}
