// Package sqlite provides a SQLite-backed scoring storage implementation.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	sqlitemigrate "github.com/louisbranch/scorebook/internal/platform/storage/sqlitemigrate"
	"github.com/louisbranch/scorebook/internal/scoring/domain/event"
	"github.com/louisbranch/scorebook/internal/scoring/domain/game"
	"github.com/louisbranch/scorebook/internal/scoring/storage"
	"github.com/louisbranch/scorebook/internal/scoring/storage/sqlite/migrations"
	_ "modernc.org/sqlite"
)

// Store persists scoring state in SQLite.
type Store struct {
	sqlDB    *sql.DB
	registry *event.Registry
}

func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

func fromMillis(value int64) time.Time {
	return time.UnixMilli(value).UTC()
}

// Open opens a SQLite scoring store and applies embedded migrations. Events
// appended through the store are validated against the registry.
func Open(path string, registry *event.Registry) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	if registry == nil {
		return nil, fmt.Errorf("event registry is required")
	}
	cleanPath := filepath.Clean(path)
	dsn := cleanPath + "?_journal_mode=WAL&_foreign_keys=ON&_busy_timeout=5000&_synchronous=NORMAL"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if err := sqlitemigrate.ApplyMigrations(sqlDB, migrations.FS, ""); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return &Store{sqlDB: sqlDB, registry: registry}, nil
}

// Close closes the SQLite handle.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// PutGame upserts a game projection record.
func (s *Store) PutGame(ctx context.Context, rec storage.GameRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	if strings.TrimSpace(rec.ID) == "" {
		return fmt.Errorf("game id is required")
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = rec.UpdatedAt
	}

	_, err := s.sqlDB.ExecContext(
		ctx,
		`INSERT INTO games (id, status, home_score, away_score, start_time, completion_reason,
		   home_lineup_id, away_lineup_id, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   status = excluded.status,
		   home_score = excluded.home_score,
		   away_score = excluded.away_score,
		   start_time = excluded.start_time,
		   completion_reason = excluded.completion_reason,
		   home_lineup_id = excluded.home_lineup_id,
		   away_lineup_id = excluded.away_lineup_id,
		   updated_at = excluded.updated_at`,
		rec.ID,
		string(rec.Status),
		rec.HomeScore,
		rec.AwayScore,
		toMillis(rec.StartTime),
		rec.CompletionReason,
		rec.HomeLineupID,
		rec.AwayLineupID,
		toMillis(rec.CreatedAt),
		toMillis(rec.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("put game: %w", err)
	}
	return nil
}

// GetGame returns a game projection record by id.
func (s *Store) GetGame(ctx context.Context, id string) (storage.GameRecord, error) {
	if err := ctx.Err(); err != nil {
		return storage.GameRecord{}, err
	}
	if s == nil || s.sqlDB == nil {
		return storage.GameRecord{}, fmt.Errorf("storage is not configured")
	}

	row := s.sqlDB.QueryRowContext(
		ctx,
		`SELECT id, status, home_score, away_score, start_time, completion_reason,
		   home_lineup_id, away_lineup_id, created_at, updated_at
		 FROM games WHERE id = ?`,
		id,
	)
	return scanGame(row)
}

// ListGames returns a page of game records ordered by id.
func (s *Store) ListGames(ctx context.Context, pageSize int, pageToken string) (storage.GamePage, error) {
	if err := ctx.Err(); err != nil {
		return storage.GamePage{}, err
	}
	if s == nil || s.sqlDB == nil {
		return storage.GamePage{}, fmt.Errorf("storage is not configured")
	}
	if pageSize <= 0 {
		pageSize = 50
	}

	rows, err := s.sqlDB.QueryContext(
		ctx,
		`SELECT id, status, home_score, away_score, start_time, completion_reason,
		   home_lineup_id, away_lineup_id, created_at, updated_at
		 FROM games WHERE id > ? ORDER BY id LIMIT ?`,
		pageToken,
		pageSize+1,
	)
	if err != nil {
		return storage.GamePage{}, fmt.Errorf("list games: %w", err)
	}
	defer rows.Close()

	var page storage.GamePage
	for rows.Next() {
		rec, err := scanGame(rows)
		if err != nil {
			return storage.GamePage{}, err
		}
		page.Games = append(page.Games, rec)
	}
	if err := rows.Err(); err != nil {
		return storage.GamePage{}, fmt.Errorf("list games: %w", err)
	}
	if len(page.Games) > pageSize {
		page.Games = page.Games[:pageSize]
		page.NextPageToken = page.Games[pageSize-1].ID
	}
	return page, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanGame(row rowScanner) (storage.GameRecord, error) {
	var rec storage.GameRecord
	var status string
	var startTime, createdAt, updatedAt int64
	err := row.Scan(&rec.ID, &status, &rec.HomeScore, &rec.AwayScore, &startTime,
		&rec.CompletionReason, &rec.HomeLineupID, &rec.AwayLineupID, &createdAt, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return storage.GameRecord{}, storage.ErrNotFound
	}
	if err != nil {
		return storage.GameRecord{}, fmt.Errorf("scan game: %w", err)
	}
	rec.Status = game.Status(status)
	rec.StartTime = fromMillis(startTime)
	rec.CreatedAt = fromMillis(createdAt)
	rec.UpdatedAt = fromMillis(updatedAt)
	return rec, nil
}

// PutLineup upserts a lineup snapshot record.
func (s *Store) PutLineup(ctx context.Context, rec storage.LineupRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	if strings.TrimSpace(rec.ID) == "" {
		return fmt.Errorf("lineup id is required")
	}

	_, err := s.sqlDB.ExecContext(
		ctx,
		`INSERT INTO lineups (id, game_id, team_name, side, snapshot_json, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   team_name = excluded.team_name,
		   snapshot_json = excluded.snapshot_json,
		   updated_at = excluded.updated_at`,
		rec.ID,
		rec.GameID,
		rec.TeamName,
		string(rec.Side),
		rec.SnapshotJSON,
		toMillis(rec.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("put lineup: %w", err)
	}
	return nil
}

// GetLineup returns a lineup snapshot record by id.
func (s *Store) GetLineup(ctx context.Context, id string) (storage.LineupRecord, error) {
	if err := ctx.Err(); err != nil {
		return storage.LineupRecord{}, err
	}
	if s == nil || s.sqlDB == nil {
		return storage.LineupRecord{}, fmt.Errorf("storage is not configured")
	}

	row := s.sqlDB.QueryRowContext(
		ctx,
		`SELECT id, game_id, team_name, side, snapshot_json, updated_at
		 FROM lineups WHERE id = ?`,
		id,
	)
	return scanLineup(row)
}

// ListLineupsByGame returns both lineups for a game, away before home.
func (s *Store) ListLineupsByGame(ctx context.Context, gameID string) ([]storage.LineupRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s == nil || s.sqlDB == nil {
		return nil, fmt.Errorf("storage is not configured")
	}

	rows, err := s.sqlDB.QueryContext(
		ctx,
		`SELECT id, game_id, team_name, side, snapshot_json, updated_at
		 FROM lineups WHERE game_id = ? ORDER BY side, id`,
		gameID,
	)
	if err != nil {
		return nil, fmt.Errorf("list lineups: %w", err)
	}
	defer rows.Close()

	var records []storage.LineupRecord
	for rows.Next() {
		rec, err := scanLineup(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list lineups: %w", err)
	}
	return records, nil
}

func scanLineup(row rowScanner) (storage.LineupRecord, error) {
	var rec storage.LineupRecord
	var side string
	var updatedAt int64
	err := row.Scan(&rec.ID, &rec.GameID, &rec.TeamName, &side, &rec.SnapshotJSON, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return storage.LineupRecord{}, storage.ErrNotFound
	}
	if err != nil {
		return storage.LineupRecord{}, fmt.Errorf("scan lineup: %w", err)
	}
	rec.Side = game.Side(side)
	rec.UpdatedAt = fromMillis(updatedAt)
	return rec, nil
}

// PutInningState upserts the inning projection for a game.
func (s *Store) PutInningState(ctx context.Context, rec storage.InningRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	if strings.TrimSpace(rec.GameID) == "" {
		return fmt.Errorf("game id is required")
	}

	topHalf := 0
	if rec.TopHalf {
		topHalf = 1
	}
	_, err := s.sqlDB.ExecContext(
		ctx,
		`INSERT INTO inning_states (game_id, id, inning, top_half, outs, bases_json,
		   away_batter_slot, home_batter_slot, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(game_id) DO UPDATE SET
		   inning = excluded.inning,
		   top_half = excluded.top_half,
		   outs = excluded.outs,
		   bases_json = excluded.bases_json,
		   away_batter_slot = excluded.away_batter_slot,
		   home_batter_slot = excluded.home_batter_slot,
		   updated_at = excluded.updated_at`,
		rec.GameID,
		rec.ID,
		rec.Inning,
		topHalf,
		rec.Outs,
		rec.BasesJSON,
		rec.AwayBatterSlot,
		rec.HomeBatterSlot,
		toMillis(rec.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("put inning state: %w", err)
	}
	return nil
}

// GetInningState returns the inning projection for a game.
func (s *Store) GetInningState(ctx context.Context, gameID string) (storage.InningRecord, error) {
	if err := ctx.Err(); err != nil {
		return storage.InningRecord{}, err
	}
	if s == nil || s.sqlDB == nil {
		return storage.InningRecord{}, fmt.Errorf("storage is not configured")
	}

	var rec storage.InningRecord
	var topHalf int
	var updatedAt int64
	err := s.sqlDB.QueryRowContext(
		ctx,
		`SELECT game_id, id, inning, top_half, outs, bases_json,
		   away_batter_slot, home_batter_slot, updated_at
		 FROM inning_states WHERE game_id = ?`,
		gameID,
	).Scan(&rec.GameID, &rec.ID, &rec.Inning, &topHalf, &rec.Outs, &rec.BasesJSON,
		&rec.AwayBatterSlot, &rec.HomeBatterSlot, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return storage.InningRecord{}, storage.ErrNotFound
	}
	if err != nil {
		return storage.InningRecord{}, fmt.Errorf("get inning state: %w", err)
	}
	rec.TopHalf = topHalf != 0
	rec.UpdatedAt = fromMillis(updatedAt)
	return rec, nil
}

// AppendEvents atomically appends a validated batch with sequence numbers
// assigned inside a single transaction.
func (s *Store) AppendEvents(ctx context.Context, gameID string, events []event.Event, expectedSeq *uint64) ([]event.Event, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s == nil || s.sqlDB == nil {
		return nil, fmt.Errorf("storage is not configured")
	}
	if strings.TrimSpace(gameID) == "" {
		return nil, fmt.Errorf("game id is required")
	}
	if len(events) == 0 {
		return nil, nil
	}

	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	var latest uint64
	var latestRow sql.NullInt64
	if err := tx.QueryRowContext(ctx,
		`SELECT MAX(seq) FROM events WHERE game_id = ?`, gameID,
	).Scan(&latestRow); err != nil {
		return nil, fmt.Errorf("load latest seq: %w", err)
	}
	if latestRow.Valid {
		latest = uint64(latestRow.Int64)
	}
	if expectedSeq != nil && *expectedSeq != latest {
		return nil, storage.ErrVersionConflict
	}

	appended := make([]event.Event, 0, len(events))
	for i, evt := range events {
		evt.GameID = gameID
		validated, err := s.registry.ValidateForAppend(evt)
		if err != nil {
			return nil, err
		}
		evt = validated
		evt.Seq = latest + uint64(i) + 1

		if _, err := tx.ExecContext(ctx,
			`INSERT INTO events (game_id, seq, event_id, type, timestamp, version,
			   aggregate_type, aggregate_id, compensates_seq, payload_json)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			evt.GameID,
			int64(evt.Seq),
			evt.ID,
			string(evt.Type),
			toMillis(evt.Timestamp),
			evt.Version,
			string(evt.AggregateType),
			evt.AggregateID,
			int64(evt.CompensatesSeq),
			evt.PayloadJSON,
		); err != nil {
			return nil, fmt.Errorf("append event %s: %w", evt.Type, err)
		}
		appended = append(appended, evt)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit append: %w", err)
	}
	return appended, nil
}

// ListEvents returns events ordered by sequence ascending after a cursor.
func (s *Store) ListEvents(ctx context.Context, gameID string, afterSeq uint64, limit int) ([]event.Event, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s == nil || s.sqlDB == nil {
		return nil, fmt.Errorf("storage is not configured")
	}
	if limit <= 0 {
		limit = 500
	}

	rows, err := s.sqlDB.QueryContext(ctx,
		`SELECT game_id, seq, event_id, type, timestamp, version,
		   aggregate_type, aggregate_id, compensates_seq, payload_json
		 FROM events WHERE game_id = ? AND seq > ? ORDER BY seq LIMIT ?`,
		gameID, int64(afterSeq), limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	defer rows.Close()
	return scanEvents(rows)
}

// ListRecentEvents returns the latest events in ascending order.
func (s *Store) ListRecentEvents(ctx context.Context, gameID string, limit int) ([]event.Event, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s == nil || s.sqlDB == nil {
		return nil, fmt.Errorf("storage is not configured")
	}
	if limit <= 0 {
		limit = 500
	}

	rows, err := s.sqlDB.QueryContext(ctx,
		`SELECT game_id, seq, event_id, type, timestamp, version,
		   aggregate_type, aggregate_id, compensates_seq, payload_json
		 FROM (
		   SELECT * FROM events WHERE game_id = ? ORDER BY seq DESC LIMIT ?
		 ) ORDER BY seq ASC`,
		gameID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list recent events: %w", err)
	}
	defer rows.Close()
	return scanEvents(rows)
}

// GetLatestEventSeq returns the latest sequence for a game, 0 when empty.
func (s *Store) GetLatestEventSeq(ctx context.Context, gameID string) (uint64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if s == nil || s.sqlDB == nil {
		return 0, fmt.Errorf("storage is not configured")
	}

	var latest sql.NullInt64
	if err := s.sqlDB.QueryRowContext(ctx,
		`SELECT MAX(seq) FROM events WHERE game_id = ?`, gameID,
	).Scan(&latest); err != nil {
		return 0, fmt.Errorf("get latest seq: %w", err)
	}
	if !latest.Valid {
		return 0, nil
	}
	return uint64(latest.Int64), nil
}

func scanEvents(rows *sql.Rows) ([]event.Event, error) {
	var events []event.Event
	for rows.Next() {
		var evt event.Event
		var seq, timestamp, compensates int64
		var typ, aggregateType string
		if err := rows.Scan(&evt.GameID, &seq, &evt.ID, &typ, &timestamp, &evt.Version,
			&aggregateType, &evt.AggregateID, &compensates, &evt.PayloadJSON); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		evt.Seq = uint64(seq)
		evt.Type = event.Type(typ)
		evt.Timestamp = fromMillis(timestamp)
		evt.AggregateType = event.AggregateType(aggregateType)
		evt.CompensatesSeq = uint64(compensates)
		events = append(events, evt)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("scan events: %w", err)
	}
	return events, nil
}

// PutAuditEntry appends an audit record.
func (s *Store) PutAuditEntry(ctx context.Context, rec storage.AuditRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}

	_, err := s.sqlDB.ExecContext(ctx,
		`INSERT INTO audit_entries (game_id, timestamp, kind, description, details_json)
		 VALUES (?, ?, ?, ?, ?)`,
		rec.GameID,
		toMillis(rec.Timestamp),
		rec.Kind,
		rec.Description,
		rec.DetailsJSON,
	)
	if err != nil {
		return fmt.Errorf("put audit entry: %w", err)
	}
	return nil
}

// ListAuditEntries returns audit records for a game, oldest first.
func (s *Store) ListAuditEntries(ctx context.Context, gameID string, limit int) ([]storage.AuditRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s == nil || s.sqlDB == nil {
		return nil, fmt.Errorf("storage is not configured")
	}
	if limit <= 0 {
		limit = 500
	}

	rows, err := s.sqlDB.QueryContext(ctx,
		`SELECT game_id, timestamp, kind, description, details_json
		 FROM audit_entries WHERE game_id = ? ORDER BY id LIMIT ?`,
		gameID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list audit entries: %w", err)
	}
	defer rows.Close()

	var entries []storage.AuditRecord
	for rows.Next() {
		var rec storage.AuditRecord
		var timestamp int64
		if err := rows.Scan(&rec.GameID, &timestamp, &rec.Kind, &rec.Description, &rec.DetailsJSON); err != nil {
			return nil, fmt.Errorf("scan audit entry: %w", err)
		}
		rec.Timestamp = fromMillis(timestamp)
		entries = append(entries, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list audit entries: %w", err)
	}
	return entries, nil
}
