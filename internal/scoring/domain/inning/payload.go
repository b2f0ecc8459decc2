package inning

import "github.com/louisbranch/scorebook/internal/scoring/domain/game"

// RunnerAdvancedPayload captures the payload for inning.runner_advanced
// events. An empty From means the batter advancing from the plate.
type RunnerAdvancedPayload struct {
	RunnerID string      `json:"runner_id"`
	From     Base        `json:"from,omitempty"`
	To       Destination `json:"to"`
}

// BatterAdvancedPayload captures the payload for inning.batter_advanced events.
type BatterAdvancedPayload struct {
	Side     game.Side `json:"side"`
	FromSlot int       `json:"from_slot"`
	ToSlot   int       `json:"to_slot"`
}

// HalfEndedPayload captures the payload for inning.half_ended events. The
// before picture allows the undo subsystem to reopen the half exactly.
type HalfEndedPayload struct {
	Inning  int  `json:"inning"`
	TopHalf bool `json:"top_half"`

	OutsBefore  int               `json:"outs_before"`
	BasesBefore map[string]string `json:"bases_before"`
}

// AdvancedPayload captures the payload for inning.advanced events.
type AdvancedPayload struct {
	FromInning int `json:"from_inning"`
	ToInning   int `json:"to_inning"`
}

// StateSnapshotPayload carries a full inning-state picture. It is the payload
// for the undo/redo events that reset whole slices of inning state:
// runner_position_reverted/restored, state_reverted/restored, bases_restored,
// batter_reverted/restored, and half_reverted/restored.
type StateSnapshotPayload struct {
	Inning  int  `json:"inning"`
	TopHalf bool `json:"top_half"`
	Outs    int  `json:"outs"`

	Bases map[string]string `json:"bases"`

	AwayBatterSlot int `json:"away_batter_slot"`
	HomeBatterSlot int `json:"home_batter_slot"`
}

// SnapshotPayload renders the state as a snapshot payload.
func SnapshotPayload(s State) StateSnapshotPayload {
	return StateSnapshotPayload{
		Inning:         s.Inning,
		TopHalf:        s.TopHalf,
		Outs:           s.Outs,
		Bases:          s.Bases.ToMap(),
		AwayBatterSlot: s.AwayBatterSlot,
		HomeBatterSlot: s.HomeBatterSlot,
	}
}
