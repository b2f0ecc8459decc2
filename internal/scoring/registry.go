// Package scoring wires the event-sourced softball scoring core together:
// the domain aggregates, the at-bat coordinator, the undo/redo subsystem,
// and their shared event registry.
package scoring

import (
	"github.com/louisbranch/scorebook/internal/scoring/domain/event"
	"github.com/louisbranch/scorebook/internal/scoring/domain/game"
	"github.com/louisbranch/scorebook/internal/scoring/domain/inning"
	"github.com/louisbranch/scorebook/internal/scoring/domain/lineup"
	"github.com/louisbranch/scorebook/internal/scoring/undo"
)

// NewEventRegistry returns a registry with every scorebook event type
// registered. The registry gates appends: events of unregistered types or
// with invalid payloads never reach the journal.
func NewEventRegistry() (*event.Registry, error) {
	registry := event.NewRegistry()
	for _, register := range []func(*event.Registry) error{
		game.RegisterEvents,
		lineup.RegisterEvents,
		inning.RegisterEvents,
		undo.RegisterEvents,
	} {
		if err := register(registry); err != nil {
			return nil, err
		}
	}
	return registry, nil
}
