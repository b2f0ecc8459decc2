// Package replay rebuilds aggregate state from the per-game event journal.
//
// Replay is strict about ordering: sequences must be contiguous, and a gap
// aborts the rebuild rather than producing a silently wrong state.
package replay

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/louisbranch/scorebook/internal/scoring/domain/event"
)

const defaultPageSize = 200

var (
	// ErrEventStoreRequired indicates a missing event store.
	ErrEventStoreRequired = errors.New("event store is required")
	// ErrApplierRequired indicates a missing applier.
	ErrApplierRequired = errors.New("applier is required")
	// ErrGameIDRequired indicates a missing game id.
	ErrGameIDRequired = errors.New("game id is required")
)

// EventStore lists events for replay.
type EventStore interface {
	ListEvents(ctx context.Context, gameID string, afterSeq uint64, limit int) ([]event.Event, error)
}

// Applier applies a domain event to replayed state.
type Applier interface {
	Apply(state any, evt event.Event) (any, error)
}

// ApplierFunc adapts a function to the Applier interface.
type ApplierFunc func(state any, evt event.Event) (any, error)

// Apply implements Applier.
func (f ApplierFunc) Apply(state any, evt event.Event) (any, error) {
	return f(state, evt)
}

// Options configures replay behavior.
type Options struct {
	// AfterSeq skips events at or below this sequence.
	AfterSeq uint64
	// UntilSeq stops replay after this sequence. Zero means no limit.
	UntilSeq uint64
	// PageSize bounds each storage read.
	PageSize int
}

// Result captures replay outcomes.
type Result struct {
	State   any
	LastSeq uint64
	Applied int
}

// Replay folds events in sequence order onto state, page by page. It fails
// on the first sequence gap.
func Replay(ctx context.Context, store EventStore, applier Applier, gameID string, state any, options Options) (Result, error) {
	if store == nil {
		return Result{}, ErrEventStoreRequired
	}
	if applier == nil {
		return Result{}, ErrApplierRequired
	}
	gameID = strings.TrimSpace(gameID)
	if gameID == "" {
		return Result{}, ErrGameIDRequired
	}

	pageSize := options.PageSize
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}

	result := Result{State: state, LastSeq: options.AfterSeq}
	for {
		events, err := store.ListEvents(ctx, gameID, result.LastSeq, pageSize)
		if err != nil {
			return result, err
		}
		if len(events) == 0 {
			return result, nil
		}
		for _, evt := range events {
			if options.UntilSeq > 0 && evt.Seq > options.UntilSeq {
				return result, nil
			}
			expectedSeq := result.LastSeq + 1
			if evt.Seq != expectedSeq {
				return result, fmt.Errorf("event sequence gap: expected %d got %d", expectedSeq, evt.Seq)
			}
			nextState, err := applier.Apply(result.State, evt)
			if err != nil {
				return result, err
			}
			result.State = nextState
			result.LastSeq = evt.Seq
			result.Applied++
		}
	}
}
