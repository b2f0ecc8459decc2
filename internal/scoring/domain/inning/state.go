package inning

import "github.com/louisbranch/scorebook/internal/scoring/domain/game"

// State captures the replayed InningState aggregate.
type State struct {
	// ID is the inning-state identity.
	ID string
	// GameID links the aggregate to its game.
	GameID string
	// Inning is the current inning number, starting at 1.
	Inning int
	// TopHalf reports whether the away team is batting.
	TopHalf bool
	// Outs is the out count in the active half-inning (0..OutsPerHalf-1
	// while active; the half ends when the limit is reached).
	Outs int
	// Bases is the current base occupation.
	Bases BasesState
	// AwayBatterSlot and HomeBatterSlot are each team's batting order cursor.
	AwayBatterSlot int
	HomeBatterSlot int
}

// NewState returns the top of the first inning with both orders at slot 1.
func NewState(inningStateID, gameID string) State {
	return State{
		ID:             inningStateID,
		GameID:         gameID,
		Inning:         1,
		TopHalf:        true,
		AwayBatterSlot: 1,
		HomeBatterSlot: 1,
	}
}

// BattingSide returns which team bats in the current half (top half: away).
func (s State) BattingSide() game.Side {
	if s.TopHalf {
		return game.SideAway
	}
	return game.SideHome
}

// CurrentBatterSlot returns the batting cursor for the side at bat.
func (s State) CurrentBatterSlot() int {
	if s.TopHalf {
		return s.AwayBatterSlot
	}
	return s.HomeBatterSlot
}

// withBatterSlot returns a new state with one side's batting cursor set.
func (s State) withBatterSlot(side game.Side, slot int) State {
	if side == game.SideAway {
		s.AwayBatterSlot = slot
	} else {
		s.HomeBatterSlot = slot
	}
	return s
}
