// Package memory provides an in-memory storage.Store used by tests and the
// demo CLI. Safe for concurrent use.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/louisbranch/scorebook/internal/scoring/domain/event"
	"github.com/louisbranch/scorebook/internal/scoring/domain/game"
	"github.com/louisbranch/scorebook/internal/scoring/storage"
)

// Store implements storage.Store with in-process maps.
type Store struct {
	mu       sync.RWMutex
	registry *event.Registry
	games    map[string]storage.GameRecord
	lineups  map[string]storage.LineupRecord
	innings  map[string]storage.InningRecord
	events   map[string][]event.Event
	audits   map[string][]storage.AuditRecord
}

// New returns an empty in-memory store. Events appended through the store
// are validated against the registry, matching the sqlite adapter. A nil
// registry skips validation.
func New(registry *event.Registry) *Store {
	return &Store{
		registry: registry,
		games:    make(map[string]storage.GameRecord),
		lineups:  make(map[string]storage.LineupRecord),
		innings:  make(map[string]storage.InningRecord),
		events:   make(map[string][]event.Event),
		audits:   make(map[string][]storage.AuditRecord),
	}
}

// PutGame stores a game record keyed by id.
func (s *Store) PutGame(_ context.Context, rec storage.GameRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.games[rec.ID] = rec
	return nil
}

// GetGame retrieves a game record by id.
func (s *Store) GetGame(_ context.Context, id string) (storage.GameRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.games[id]
	if !ok {
		return storage.GameRecord{}, storage.ErrNotFound
	}
	return rec, nil
}

// ListGames pages game records ordered by id.
func (s *Store) ListGames(_ context.Context, pageSize int, pageToken string) (storage.GamePage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if pageSize <= 0 {
		pageSize = 50
	}
	ids := make([]string, 0, len(s.games))
	for id := range s.games {
		if pageToken != "" && id <= pageToken {
			continue
		}
		ids = append(ids, id)
	}
	sort.Strings(ids)

	var page storage.GamePage
	for _, id := range ids {
		if len(page.Games) == pageSize {
			page.NextPageToken = page.Games[len(page.Games)-1].ID
			break
		}
		page.Games = append(page.Games, s.games[id])
	}
	return page, nil
}

// PutLineup stores a lineup record keyed by id.
func (s *Store) PutLineup(_ context.Context, rec storage.LineupRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lineups[rec.ID] = rec
	return nil
}

// GetLineup retrieves a lineup record by id.
func (s *Store) GetLineup(_ context.Context, id string) (storage.LineupRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.lineups[id]
	if !ok {
		return storage.LineupRecord{}, storage.ErrNotFound
	}
	return rec, nil
}

// ListLineupsByGame returns both lineups for a game, away before home.
func (s *Store) ListLineupsByGame(_ context.Context, gameID string) ([]storage.LineupRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var records []storage.LineupRecord
	for _, rec := range s.lineups {
		if rec.GameID == gameID {
			records = append(records, rec)
		}
	}
	sort.Slice(records, func(i, j int) bool {
		if records[i].Side != records[j].Side {
			return records[i].Side == game.SideAway
		}
		return records[i].ID < records[j].ID
	})
	return records, nil
}

// PutInningState stores the inning record keyed by game id.
func (s *Store) PutInningState(_ context.Context, rec storage.InningRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.innings[rec.GameID] = rec
	return nil
}

// GetInningState retrieves the inning record for a game.
func (s *Store) GetInningState(_ context.Context, gameID string) (storage.InningRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.innings[gameID]
	if !ok {
		return storage.InningRecord{}, storage.ErrNotFound
	}
	return rec, nil
}

// AppendEvents appends a batch with sequence numbers assigned, honoring the
// optimistic concurrency token.
func (s *Store) AppendEvents(_ context.Context, gameID string, events []event.Event, expectedSeq *uint64) ([]event.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stream := s.events[gameID]
	var latest uint64
	if len(stream) > 0 {
		latest = stream[len(stream)-1].Seq
	}
	if expectedSeq != nil && *expectedSeq != latest {
		return nil, storage.ErrVersionConflict
	}

	appended := make([]event.Event, 0, len(events))
	for i, evt := range events {
		evt.GameID = gameID
		if s.registry != nil {
			validated, err := s.registry.ValidateForAppend(evt)
			if err != nil {
				return nil, err
			}
			evt = validated
		}
		evt.Seq = latest + uint64(i) + 1
		appended = append(appended, evt)
	}
	s.events[gameID] = append(stream, appended...)
	return appended, nil
}

// ListEvents returns events after a sequence, ascending.
func (s *Store) ListEvents(_ context.Context, gameID string, afterSeq uint64, limit int) ([]event.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []event.Event
	for _, evt := range s.events[gameID] {
		if evt.Seq <= afterSeq {
			continue
		}
		out = append(out, evt)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

// ListRecentEvents returns the latest events in ascending order.
func (s *Store) ListRecentEvents(_ context.Context, gameID string, limit int) ([]event.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	stream := s.events[gameID]
	if limit <= 0 || limit > len(stream) {
		limit = len(stream)
	}
	out := make([]event.Event, limit)
	copy(out, stream[len(stream)-limit:])
	return out, nil
}

// GetLatestEventSeq returns the latest sequence for a game, 0 when empty.
func (s *Store) GetLatestEventSeq(_ context.Context, gameID string) (uint64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	stream := s.events[gameID]
	if len(stream) == 0 {
		return 0, nil
	}
	return stream[len(stream)-1].Seq, nil
}

// PutAuditEntry appends an audit record for a game.
func (s *Store) PutAuditEntry(_ context.Context, rec storage.AuditRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.audits[rec.GameID] = append(s.audits[rec.GameID], rec)
	return nil
}

// ListAuditEntries returns audit records for a game, oldest first.
func (s *Store) ListAuditEntries(_ context.Context, gameID string, limit int) ([]storage.AuditRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entries := s.audits[gameID]
	if limit <= 0 || limit > len(entries) {
		limit = len(entries)
	}
	out := make([]storage.AuditRecord, limit)
	copy(out, entries[:limit])
	return out, nil
}
