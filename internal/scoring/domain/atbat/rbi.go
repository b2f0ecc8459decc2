package atbat

import (
	"fmt"

	apperrors "github.com/louisbranch/scorebook/internal/platform/errors"
	"github.com/louisbranch/scorebook/internal/scoring/domain/inning"
)

// CalculateRBIs attributes runs batted in for a play from the result type
// and the situation before the play. The rules apply in priority order; the
// first matching rule decides.
func CalculateRBIs(result ResultType, basesBefore inning.BasesState, outsBefore int) (int, error) {
	if outsBefore < 0 || outsBefore > 2 {
		return 0, apperrors.New(apperrors.CodeInningInvalidOuts,
			fmt.Sprintf("outs before play must be 0-2, got %d", outsBefore))
	}

	occupied := len(basesBefore.OccupiedBases())
	runnerOnThird := basesBefore.Runner(inning.BaseThird) != ""

	switch result {
	case ResultHomeRun:
		// Batter plus every runner aboard.
		return occupied + 1, nil
	case ResultSacrificeFly:
		if runnerOnThird {
			return 1, nil
		}
		return 0, nil
	case ResultSingle:
		// Only runners in scoring position come home on a single.
		rbis := 0
		if runnerOnThird {
			rbis++
		}
		if basesBefore.Runner(inning.BaseSecond) != "" {
			rbis++
		}
		return rbis, nil
	case ResultDouble, ResultTriple:
		return occupied, nil
	case ResultWalk:
		if basesBefore.Loaded() {
			return 1, nil
		}
		return 0, nil
	case ResultGroundOut, ResultFlyOut, ResultFieldersChoice, ResultDoublePlay:
		// An out that ends the half-inning negates the run and its RBI.
		if runnerOnThird && outsBefore < 2 {
			return 1, nil
		}
		return 0, nil
	case ResultError, ResultStrikeout, ResultTriplePlay:
		return 0, nil
	}
	return 0, apperrors.New(apperrors.CodeAtBatInvalidResult,
		fmt.Sprintf("unknown at-bat result %q", result))
}
