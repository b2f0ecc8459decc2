package lineup

// PlayerAddedPayload captures the payload for lineup.player_added events.
type PlayerAddedPayload struct {
	PlayerID     string        `json:"player_id"`
	Slot         int           `json:"slot"`
	JerseyNumber int           `json:"jersey_number"`
	Position     FieldPosition `json:"position"`
}

// PlayerSubstitutedPayload captures the payload for lineup.player_substituted
// events. It records both occupants so the substitution can be reversed and
// re-applied purely from the event.
type PlayerSubstitutedPayload struct {
	Slot           int    `json:"slot"`
	OutgoingPlayer string `json:"outgoing_player"`
	IncomingPlayer string `json:"incoming_player"`
	Inning         int    `json:"inning"`
	IsReentry      bool   `json:"is_reentry"`
}

// PositionChangedPayload captures the payload for lineup.position_changed events.
type PositionChangedPayload struct {
	PlayerID string        `json:"player_id"`
	From     FieldPosition `json:"from,omitempty"`
	To       FieldPosition `json:"to"`
}

// Position restore actions distinguish the undo direction from the redo
// direction for lineup.position_restored events.
const (
	// RestoreActionRevert undoes a substitution, reinstating the outgoing player.
	RestoreActionRevert = "revert"
	// RestoreActionReapply redoes a previously undone substitution.
	RestoreActionReapply = "reapply"
)

// PositionRestoredPayload captures the payload for lineup.position_restored
// events, emitted by both the undo and redo subsystems.
type PositionRestoredPayload struct {
	Slot           int    `json:"slot"`
	Action         string `json:"action"`
	OutgoingPlayer string `json:"outgoing_player"`
	IncomingPlayer string `json:"incoming_player"`
	Inning         int    `json:"inning"`
	IsReentry      bool   `json:"is_reentry"`
}
