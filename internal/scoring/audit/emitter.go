// Package audit contains durable audit writes for scoring operations.
//
// This package owns the persisted trail of operator-visible actions (at-bats,
// substitutions, undo, redo) used for scorekeeping review and dispute
// resolution. The event journal itself remains the replay source of truth.
package audit

import (
	"context"
	"encoding/json"
	"time"

	"github.com/louisbranch/scorebook/internal/scoring/storage"
)

// Entry kinds recorded by the scoring service.
const (
	KindAtBat        = "AT_BAT"
	KindSubstitution = "SUBSTITUTION"
	KindUndo         = "UNDO"
	KindRedo         = "REDO"
	KindLifecycle    = "LIFECYCLE"
)

// Emitter records audit entries.
type Emitter struct {
	store storage.AuditStore
	clock func() time.Time
}

// NewEmitter creates a new audit entry emitter.
func NewEmitter(store storage.AuditStore) *Emitter {
	return &Emitter{store: store, clock: time.Now}
}

// Emit records an audit entry with optional structured details. It is a
// no-op when the store is nil so callers never guard audit writes.
func (e *Emitter) Emit(ctx context.Context, gameID, kind, description string, details any) error {
	if e == nil || e.store == nil {
		return nil
	}
	rec := storage.AuditRecord{
		GameID:      gameID,
		Kind:        kind,
		Description: description,
	}
	if e.clock == nil {
		rec.Timestamp = time.Now().UTC()
	} else {
		rec.Timestamp = e.clock().UTC()
	}
	if details != nil {
		raw, err := json.Marshal(details)
		if err != nil {
			return err
		}
		rec.DetailsJSON = raw
	}
	return e.store.PutAuditEntry(ctx, rec)
}
