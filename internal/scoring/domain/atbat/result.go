// Package atbat defines at-bat result types and the pure rule functions for
// runner advancement, runs scored, and RBI attribution.
package atbat

// ResultType classifies the outcome of a plate appearance.
type ResultType string

const (
	ResultSingle         ResultType = "SINGLE"
	ResultDouble         ResultType = "DOUBLE"
	ResultTriple         ResultType = "TRIPLE"
	ResultHomeRun        ResultType = "HOME_RUN"
	ResultWalk           ResultType = "WALK"
	ResultStrikeout      ResultType = "STRIKEOUT"
	ResultGroundOut      ResultType = "GROUND_OUT"
	ResultFlyOut         ResultType = "FLY_OUT"
	ResultSacrificeFly   ResultType = "SACRIFICE_FLY"
	ResultFieldersChoice ResultType = "FIELDERS_CHOICE"
	ResultError          ResultType = "ERROR"
	ResultDoublePlay     ResultType = "DOUBLE_PLAY"
	ResultTriplePlay     ResultType = "TRIPLE_PLAY"
)

// AllResultTypes returns every recognized result type.
func AllResultTypes() []ResultType {
	return []ResultType{
		ResultSingle, ResultDouble, ResultTriple, ResultHomeRun,
		ResultWalk, ResultStrikeout, ResultGroundOut, ResultFlyOut,
		ResultSacrificeFly, ResultFieldersChoice, ResultError,
		ResultDoublePlay, ResultTriplePlay,
	}
}

// IsValid reports whether the result type is recognized.
func (r ResultType) IsValid() bool {
	for _, known := range AllResultTypes() {
		if r == known {
			return true
		}
	}
	return false
}

// IsHit reports whether the result is a base hit.
func (r ResultType) IsHit() bool {
	switch r {
	case ResultSingle, ResultDouble, ResultTriple, ResultHomeRun:
		return true
	}
	return false
}

// BatterOuts returns how many outs the result charges before counting
// runner movements to OUT. FIELDERS_CHOICE is zero because its out is
// always expressed as a runner movement.
func (r ResultType) BatterOuts() int {
	switch r {
	case ResultStrikeout, ResultGroundOut, ResultFlyOut, ResultSacrificeFly:
		return 1
	case ResultDoublePlay:
		return 2
	case ResultTriplePlay:
		return 3
	}
	return 0
}
