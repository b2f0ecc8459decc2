package atbat

import (
	"fmt"
	"sort"

	apperrors "github.com/louisbranch/scorebook/internal/platform/errors"
	"github.com/louisbranch/scorebook/internal/scoring/domain/inning"
)

// Movement is one runner's path during a play. A movement with an empty From
// is the batter leaving the plate.
type Movement struct {
	// RunnerID is the moving runner.
	RunnerID string
	// From is the base the runner started on. Empty means the batter's box.
	From inning.Base
	// To is where the runner ends up.
	To inning.Destination
}

// DetermineRunnerAdvancement maps a result type to its canonical set of
// movements given the bases before the play. Out results produce no
// automatic movements; their outs are charged separately.
func DetermineRunnerAdvancement(result ResultType, bases inning.BasesState, batterID string) []Movement {
	var movements []Movement
	runnerOn := func(base inning.Base) string { return bases.Runner(base) }

	switch result {
	case ResultSingle:
		if runner := runnerOn(inning.BaseThird); runner != "" {
			movements = append(movements, Movement{RunnerID: runner, From: inning.BaseThird, To: inning.DestHome})
		}
		if runner := runnerOn(inning.BaseSecond); runner != "" {
			movements = append(movements, Movement{RunnerID: runner, From: inning.BaseSecond, To: inning.DestHome})
		}
		if runner := runnerOn(inning.BaseFirst); runner != "" {
			movements = append(movements, Movement{RunnerID: runner, From: inning.BaseFirst, To: inning.DestSecond})
		}
		movements = append(movements, Movement{RunnerID: batterID, To: inning.DestFirst})
	case ResultDouble:
		movements = append(movements, scoreAllRunners(bases)...)
		movements = append(movements, Movement{RunnerID: batterID, To: inning.DestSecond})
	case ResultTriple:
		movements = append(movements, scoreAllRunners(bases)...)
		movements = append(movements, Movement{RunnerID: batterID, To: inning.DestThird})
	case ResultHomeRun:
		movements = append(movements, scoreAllRunners(bases)...)
		movements = append(movements, Movement{RunnerID: batterID, To: inning.DestHome})
	case ResultWalk:
		movements = append(movements, forcedAdvances(bases)...)
		movements = append(movements, Movement{RunnerID: batterID, To: inning.DestFirst})
	case ResultError:
		// Every runner takes one base on the miscue.
		if runner := runnerOn(inning.BaseThird); runner != "" {
			movements = append(movements, Movement{RunnerID: runner, From: inning.BaseThird, To: inning.DestHome})
		}
		if runner := runnerOn(inning.BaseSecond); runner != "" {
			movements = append(movements, Movement{RunnerID: runner, From: inning.BaseSecond, To: inning.DestThird})
		}
		if runner := runnerOn(inning.BaseFirst); runner != "" {
			movements = append(movements, Movement{RunnerID: runner, From: inning.BaseFirst, To: inning.DestSecond})
		}
		movements = append(movements, Movement{RunnerID: batterID, To: inning.DestFirst})
	case ResultFieldersChoice:
		if runner := runnerOn(inning.BaseFirst); runner != "" {
			movements = append(movements, Movement{RunnerID: runner, From: inning.BaseFirst, To: inning.DestOut})
		}
		movements = append(movements, Movement{RunnerID: batterID, To: inning.DestFirst})
	case ResultSacrificeFly:
		if runner := runnerOn(inning.BaseThird); runner != "" {
			movements = append(movements, Movement{RunnerID: runner, From: inning.BaseThird, To: inning.DestHome})
		}
	}
	return movements
}

// scoreAllRunners moves every occupied base to HOME, lead runner first.
func scoreAllRunners(bases inning.BasesState) []Movement {
	var movements []Movement
	for _, base := range []inning.Base{inning.BaseThird, inning.BaseSecond, inning.BaseFirst} {
		if runner := bases.Runner(base); runner != "" {
			movements = append(movements, Movement{RunnerID: runner, From: base, To: inning.DestHome})
		}
	}
	return movements
}

// forcedAdvances moves only runners with no open base ahead of them, lead
// runner first so no base ever holds two runners mid-fold.
func forcedAdvances(bases inning.BasesState) []Movement {
	var movements []Movement
	if bases.Runner(inning.BaseFirst) == "" {
		return movements
	}
	if bases.Runner(inning.BaseSecond) != "" {
		if runner := bases.Runner(inning.BaseThird); runner != "" {
			movements = append(movements, Movement{RunnerID: runner, From: inning.BaseThird, To: inning.DestHome})
		}
		movements = append(movements, Movement{RunnerID: bases.Runner(inning.BaseSecond), From: inning.BaseSecond, To: inning.DestThird})
	}
	movements = append(movements, Movement{RunnerID: bases.Runner(inning.BaseFirst), From: inning.BaseFirst, To: inning.DestSecond})
	return movements
}

// ValidateMovements checks explicit advancement overrides against the
// current bases. Each movement's From must actually hold its runner, runners
// only advance, and no two runners may end up on the same base.
func ValidateMovements(movements []Movement, bases inning.BasesState, batterID string) error {
	seen := make(map[string]bool, len(movements))
	vacated := make(map[inning.Base]bool, len(movements))
	for _, m := range movements {
		if m.RunnerID == "" {
			return apperrors.New(apperrors.CodeAtBatRunnerNotOnBase, "movement runner id is required")
		}
		if seen[m.RunnerID] {
			return apperrors.New(apperrors.CodeAtBatRunnerNotOnBase,
				fmt.Sprintf("%s moves more than once in a single play", m.RunnerID))
		}
		seen[m.RunnerID] = true
		if m.From == "" {
			if m.RunnerID != batterID {
				return apperrors.New(apperrors.CodeAtBatRunnerNotOnBase,
					fmt.Sprintf("%s is not the batter", m.RunnerID))
			}
			continue
		}
		if bases.Runner(m.From) != m.RunnerID {
			return apperrors.New(apperrors.CodeAtBatRunnerNotOnBase,
				fmt.Sprintf("%s is not on %s", m.RunnerID, m.From))
		}
		vacated[m.From] = true
	}
	landed := make(map[inning.Base]string, len(movements))
	for _, m := range movements {
		base, ok := m.To.Base()
		if !ok {
			continue
		}
		if m.From != "" && baseRank(base) <= baseRank(m.From) {
			return apperrors.New(apperrors.CodeAtBatInvalidMovement,
				fmt.Sprintf("%s cannot retreat from %s to %s", m.RunnerID, m.From, base))
		}
		if other, taken := landed[base]; taken {
			return apperrors.New(apperrors.CodeAtBatInvalidMovement,
				fmt.Sprintf("%s and %s both end on %s", other, m.RunnerID, base))
		}
		landed[base] = m.RunnerID
		if occupant := bases.Runner(base); occupant != "" && !vacated[base] {
			return apperrors.New(apperrors.CodeAtBatInvalidMovement,
				fmt.Sprintf("%s is still occupied by %s", base, occupant))
		}
	}
	return nil
}

func baseRank(base inning.Base) int {
	switch base {
	case inning.BaseFirst:
		return 1
	case inning.BaseSecond:
		return 2
	case inning.BaseThird:
		return 3
	}
	return 0
}

// NormalizeMovements returns the movements ordered lead runner first with the
// batter last. Folding a valid set in this order never lands a runner on a
// base its occupant has not yet left, so the per-movement advancement events
// replay cleanly regardless of the order the caller listed them in.
func NormalizeMovements(movements []Movement) []Movement {
	normalized := make([]Movement, len(movements))
	copy(normalized, movements)
	sort.SliceStable(normalized, func(i, j int) bool {
		return baseRank(normalized[i].From) > baseRank(normalized[j].From)
	})
	return normalized
}

// ApplyMovements folds movements into a bases state, batter movements last.
func ApplyMovements(bases inning.BasesState, movements []Movement) inning.BasesState {
	next := bases
	for _, m := range movements {
		if m.From != "" {
			next = next.WithRunnerAdvanced(m.From, m.To)
		}
	}
	for _, m := range movements {
		if m.From == "" {
			if base, ok := m.To.Base(); ok {
				next = next.WithRunnerOn(base, m.RunnerID)
			}
		}
	}
	return next
}

// CalculateRunsScored counts movements that reach HOME.
func CalculateRunsScored(movements []Movement) int {
	runs := 0
	for _, m := range movements {
		if m.To == inning.DestHome {
			runs++
		}
	}
	return runs
}

// CountMovementOuts counts movements that retire their runner.
func CountMovementOuts(movements []Movement) int {
	outs := 0
	for _, m := range movements {
		if m.To == inning.DestOut {
			outs++
		}
	}
	return outs
}

// OutsOnPlay returns the total outs a play produces: the result's charged
// outs or the movement outs, whichever is larger. Explicit overrides that
// already retire enough runners are not double-counted.
func OutsOnPlay(result ResultType, movements []Movement) int {
	movementOuts := CountMovementOuts(movements)
	if charged := result.BatterOuts(); charged > movementOuts {
		return charged
	}
	return movementOuts
}
