// Package storage defines the persistence ports for the scoring service.
// Events are the source of truth; aggregate records are read projections
// refreshed after each successful append.
package storage

import (
	"context"
	"time"

	apperrors "github.com/louisbranch/scorebook/internal/platform/errors"
	"github.com/louisbranch/scorebook/internal/scoring/domain/event"
	"github.com/louisbranch/scorebook/internal/scoring/domain/game"
)

// ErrNotFound indicates a requested persistence record is missing.
// Callers use this to differentiate between legitimate "no such entity"
// states and transport or data corruption failures.
var ErrNotFound = apperrors.New(apperrors.CodeNotFound, "record not found")

// ErrVersionConflict indicates an append raced another writer: the stream
// moved past the expected sequence between load and append.
var ErrVersionConflict = apperrors.New(apperrors.CodeVersionConflict, "event stream version conflict")

// GameRecord captures game-level projection state that list/detail reads use.
type GameRecord struct {
	ID               string
	Status           game.Status
	HomeScore        int
	AwayScore        int
	StartTime        time.Time
	CompletionReason string
	HomeLineupID     string
	AwayLineupID     string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// LineupRecord captures one team's lineup as an opaque snapshot. Slot
// history nests too deeply for useful columns; the snapshot is replay
// output, never hand-edited.
type LineupRecord struct {
	ID           string
	GameID       string
	TeamName     string
	Side         game.Side
	SnapshotJSON []byte
	UpdatedAt    time.Time
}

// InningRecord captures the current inning situation for a game.
type InningRecord struct {
	ID             string
	GameID         string
	Inning         int
	TopHalf        bool
	Outs           int
	BasesJSON      []byte
	AwayBatterSlot int
	HomeBatterSlot int
	UpdatedAt      time.Time
}

// AuditRecord captures one operator-visible action for incident review.
type AuditRecord struct {
	Timestamp   time.Time
	GameID      string
	Kind        string
	Description string
	DetailsJSON []byte
}

// GameStore owns the game projection used by list and detail reads.
type GameStore interface {
	PutGame(ctx context.Context, rec GameRecord) error
	GetGame(ctx context.Context, id string) (GameRecord, error)
	// ListGames returns a page of game records starting after the page token.
	ListGames(ctx context.Context, pageSize int, pageToken string) (GamePage, error)
}

// GamePage describes a page of game records.
type GamePage struct {
	Games         []GameRecord
	NextPageToken string
}

// LineupStore owns lineup snapshots for both sides of a game.
type LineupStore interface {
	PutLineup(ctx context.Context, rec LineupRecord) error
	GetLineup(ctx context.Context, id string) (LineupRecord, error)
	// ListLineupsByGame returns both lineups for a game, away first.
	ListLineupsByGame(ctx context.Context, gameID string) ([]LineupRecord, error)
}

// InningStore owns the per-game inning situation projection.
type InningStore interface {
	PutInningState(ctx context.Context, rec InningRecord) error
	// GetInningState retrieves the inning situation by game id.
	GetInningState(ctx context.Context, gameID string) (InningRecord, error)
}

// EventStore owns the per-game event journal that drives replay, undo, and
// redo; this is the source of truth for state reconstruction.
type EventStore interface {
	// AppendEvents atomically appends a batch and returns it with sequence
	// numbers assigned. A non-nil expectedSeq asserts the stream's latest
	// sequence; ErrVersionConflict is returned when it no longer matches.
	// All events in the batch persist or none do.
	AppendEvents(ctx context.Context, gameID string, events []event.Event, expectedSeq *uint64) ([]event.Event, error)
	// ListEvents returns events ordered by sequence ascending.
	ListEvents(ctx context.Context, gameID string, afterSeq uint64, limit int) ([]event.Event, error)
	// ListRecentEvents returns the latest events in ascending order.
	ListRecentEvents(ctx context.Context, gameID string, limit int) ([]event.Event, error)
	// GetLatestEventSeq returns the latest sequence for a game, 0 when empty.
	GetLatestEventSeq(ctx context.Context, gameID string) (uint64, error)
}

// AuditStore persists operator-visible action records.
type AuditStore interface {
	PutAuditEntry(ctx context.Context, rec AuditRecord) error
	// ListAuditEntries returns entries for a game, oldest first.
	ListAuditEntries(ctx context.Context, gameID string, limit int) ([]AuditRecord, error)
}

// Store is the composite interface the scoring service is wired against.
type Store interface {
	GameStore
	LineupStore
	InningStore
	EventStore
	AuditStore
}
