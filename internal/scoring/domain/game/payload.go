package game

// StartedPayload captures the payload for game.started events.
type StartedPayload struct {
	HomeLineupID string `json:"home_lineup_id"`
	AwayLineupID string `json:"away_lineup_id"`
}

// CompletedPayload captures the payload for game.completed events.
type CompletedPayload struct {
	Reason    string `json:"reason"`
	HomeScore int    `json:"home_score"`
	AwayScore int    `json:"away_score"`
}

// RunScoredPayload captures the payload for game.run_scored events.
type RunScoredPayload struct {
	RunnerID string `json:"runner_id"`
	Side     Side   `json:"side"`
	// RBICredited reports whether the batter earned an RBI for this run.
	RBICredited bool `json:"rbi_credited"`
}

// AtBatCompletedPayload captures the payload for game.at_bat_completed
// events. It records both the before and after pictures of the play so the
// undo subsystem can plan exact compensation from the event alone.
type AtBatCompletedPayload struct {
	BatterID   string `json:"batter_id"`
	Side       Side   `json:"side"`
	Result     string `json:"result"`
	RunsScored int    `json:"runs_scored"`
	RBIs       int    `json:"rbis"`

	Inning  int  `json:"inning"`
	TopHalf bool `json:"top_half"`

	OutsBefore int `json:"outs_before"`
	OutsAfter  int `json:"outs_after"`

	// Bases are recorded as base -> runner id maps keyed FIRST/SECOND/THIRD.
	BasesBefore map[string]string `json:"bases_before"`
	BasesAfter  map[string]string `json:"bases_after"`

	BatterSlotBefore int `json:"batter_slot_before"`
	BatterSlotAfter  int `json:"batter_slot_after"`
}

// ScoreRevertedPayload captures the payload for game.score_reverted events.
type ScoreRevertedPayload struct {
	Side Side `json:"side"`
	Runs int  `json:"runs"`
}

// ScoreRestoredPayload captures the payload for game.score_restored events.
type ScoreRestoredPayload struct {
	Side Side `json:"side"`
	Runs int  `json:"runs"`
}
