package audit

import (
	"context"
	"testing"
	"time"

	"github.com/louisbranch/scorebook/internal/scoring/storage"
)

type fakeAuditStore struct {
	last  storage.AuditRecord
	count int
}

func (s *fakeAuditStore) PutAuditEntry(_ context.Context, rec storage.AuditRecord) error {
	s.last = rec
	s.count++
	return nil
}

func (s *fakeAuditStore) ListAuditEntries(context.Context, string, int) ([]storage.AuditRecord, error) {
	return nil, nil
}

func TestEmitStampsTimestampAndDetails(t *testing.T) {
	store := &fakeAuditStore{}
	emitter := NewEmitter(store)
	emitter.clock = func() time.Time {
		return time.Date(2026, 6, 14, 18, 30, 0, 0, time.UTC)
	}

	err := emitter.Emit(context.Background(), "g1", KindAtBat, "batter singled", map[string]int{"runs": 1})
	if err != nil {
		t.Fatalf("emit: %v", err)
	}
	if store.count != 1 {
		t.Fatalf("count = %d, want 1", store.count)
	}
	if store.last.GameID != "g1" || store.last.Kind != KindAtBat {
		t.Fatalf("record = %+v", store.last)
	}
	if store.last.Timestamp.IsZero() {
		t.Fatal("timestamp not stamped")
	}
	if len(store.last.DetailsJSON) == 0 {
		t.Fatal("details not serialized")
	}
}

func TestEmitNilSafe(t *testing.T) {
	var emitter *Emitter
	if err := emitter.Emit(context.Background(), "g1", KindUndo, "noop", nil); err != nil {
		t.Fatalf("nil emitter: %v", err)
	}
	if err := NewEmitter(nil).Emit(context.Background(), "g1", KindUndo, "noop", nil); err != nil {
		t.Fatalf("nil store: %v", err)
	}
}
