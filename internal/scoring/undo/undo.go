package undo

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	apperrors "github.com/louisbranch/scorebook/internal/platform/errors"
	"github.com/louisbranch/scorebook/internal/scoring/audit"
	"github.com/louisbranch/scorebook/internal/scoring/domain/event"
	"github.com/louisbranch/scorebook/internal/scoring/domain/game"
	"github.com/louisbranch/scorebook/internal/scoring/replay"
	"github.com/louisbranch/scorebook/internal/scoring/storage"
)

// Messages shared by the undo and redo use cases. The wording is part of
// the operator contract and must stay stable.
const (
	msgNothingToUndo    = "No actions available to undo"
	msgNothingToRedo    = "No actions available to redo"
	msgInvalidState     = "Game is not in a valid state for undo operations"
	msgLoadGameFailed   = "Infrastructure error: failed to load game"
	msgLoadEventsFailed = "Infrastructure error: failed to load recent events"
	msgSaveFailed       = "Infrastructure error: failed to save game"
	msgUndoConflict     = "Concurrency conflict: game state changed during undo"
	msgRedoConflict     = "Concurrency conflict: game state changed during redo"
	msgConfirmRequired  = "Undoing more than 3 actions is dangerous: set ConfirmDangerous to proceed"
	msgManualCorrection = "Prefer manual correction over further undo operations"
)

// dangerousActionThreshold is the action count above which undo and redo
// require explicit confirmation.
const dangerousActionThreshold = 3

// Command drives one undo or redo invocation. An ActionLimit of zero is a
// defined no-op success, distinct from a failure.
type Command struct {
	GameID           string
	ActionLimit      int
	ConfirmDangerous bool
	Notes            string
	// Timestamp stamps the generated events. Zero means now.
	Timestamp time.Time
}

// StackInfo reports the undo/redo position for operator display.
type StackInfo struct {
	CanUndo         bool
	CanRedo         bool
	HistoryPosition int
	TotalActions    int
	NextUndo        string
	NextRedo        string
}

// Result reports the outcome of an undo or redo invocation. Failures are
// collected in Errors rather than returned as a Go error so callers always
// receive warnings and stack info alongside.
type Result struct {
	Success       bool
	ActionsUndone int
	ActionsRedone int
	Errors        []string
	Warnings      []string
	Stack         StackInfo
	Game          game.State
}

// Service implements the undo and redo use cases over the event journal.
type Service struct {
	store   storage.Store
	auditor *audit.Emitter
	logger  *log.Logger
	now     func() time.Time
}

// NewService constructs an undo service. The audit emitter may be nil.
func NewService(store storage.Store, auditor *audit.Emitter, logger *log.Logger) *Service {
	if logger == nil {
		logger = log.Default()
	}
	return &Service{
		store:   store,
		auditor: auditor,
		logger:  logger,
		now:     time.Now,
	}
}

// Undo reverses the most recent actions by appending compensation bundles.
// Original events are never deleted or mutated.
func (s *Service) Undo(ctx context.Context, cmd Command) Result {
	var res Result

	gameState, ok := s.loadGame(ctx, cmd.GameID, &res)
	if !ok {
		return res
	}
	switch gameState.Status {
	case game.StatusNotStarted:
		res.Errors = append(res.Errors, msgNothingToUndo)
		return res
	case game.StatusCompleted:
		res.Errors = append(res.Errors, msgInvalidState)
		res.Warnings = append(res.Warnings, "Completed games cannot be modified")
		return res
	}
	if cmd.ActionLimit < 0 {
		res.Errors = append(res.Errors, "action limit must not be negative")
		return res
	}

	j, snapshot, ok := s.loadJournal(ctx, cmd.GameID, &res)
	if !ok {
		return res
	}
	res.Game = snapshot.Game

	if cmd.ActionLimit == 0 {
		res.Success = true
		res.Stack = stackInfo(j)
		return res
	}

	candidates := j.undoableAnchors()
	if len(candidates) == 0 {
		res.Errors = append(res.Errors, msgNothingToUndo)
		res.Stack = stackInfo(j)
		return res
	}

	for _, evt := range candidates {
		if isDangerous(evt.Type) {
			s.logger.Printf("undo candidate for game %s touches dangerous event %s (seq %d)", cmd.GameID, evt.Type, evt.Seq)
		}
	}
	if cmd.ActionLimit > dangerousActionThreshold && len(candidates) > dangerousActionThreshold && !cmd.ConfirmDangerous {
		res.Errors = append(res.Errors, msgConfirmRequired)
		res.Stack = stackInfo(j)
		return res
	}

	count := cmd.ActionLimit
	if count > len(candidates) {
		count = len(candidates)
		res.Warnings = append(res.Warnings, fmt.Sprintf("Only %d of %d requested actions were available to undo", count, cmd.ActionLimit))
	}
	plan := candidates[:count]
	res.Warnings = append(res.Warnings, planWarnings(plan, "Undo")...)
	if count > dangerousActionThreshold {
		res.Warnings = append(res.Warnings, fmt.Sprintf("Undoing a large number of actions (%d)", count))
	}

	pc := &planContext{snapshot: snapshot, gameID: cmd.GameID, timestamp: s.timestamp(cmd)}
	var batch []event.Event
	for _, original := range plan {
		bundle, err := pc.compensationBundle(original, cmd.Notes)
		if err != nil {
			res.Errors = append(res.Errors, err.Error())
			return res
		}
		batch = append(batch, bundle...)
	}

	appended, ok := s.commit(ctx, cmd.GameID, batch, snapshot.LastSeq, pc, msgUndoConflict, &res)
	if !ok {
		res.Stack = stackInfo(j)
		return res
	}

	res.Success = true
	res.ActionsUndone = count
	res.Game = pc.snapshot.Game
	res.Stack = stackInfo(buildJournal(append(j.events, appended...)))

	_ = s.auditor.Emit(ctx, cmd.GameID, audit.KindUndo,
		fmt.Sprintf("undid %d action(s)", count), describePlan(plan))
	return res
}

// loadGame fetches the game projection, translating failures into the
// fixed operator-facing messages.
func (s *Service) loadGame(ctx context.Context, gameID string, res *Result) (game.State, bool) {
	rec, err := s.store.GetGame(ctx, gameID)
	if err != nil {
		if apperrors.CodeOf(err) == apperrors.CodeNotFound {
			res.Errors = append(res.Errors, fmt.Sprintf("Game not found: %s", gameID))
		} else {
			res.Errors = append(res.Errors, msgLoadGameFailed)
			s.logger.Printf("undo load game %s: %v", gameID, err)
		}
		return game.State{}, false
	}
	return storage.GameStateFromRecord(rec), true
}

// loadJournal reads the full stream and rebuilds the aggregate snapshot.
// Markers may appear anywhere in the stream, so planning needs the whole
// journal rather than a recent window.
func (s *Service) loadJournal(ctx context.Context, gameID string, res *Result) (journal, replay.Snapshot, bool) {
	var events []event.Event
	var after uint64
	const page = 200
	for {
		batch, err := s.store.ListEvents(ctx, gameID, after, page)
		if err != nil {
			res.Errors = append(res.Errors, msgLoadEventsFailed)
			s.logger.Printf("undo load events for game %s: %v", gameID, err)
			return journal{}, replay.Snapshot{}, false
		}
		events = append(events, batch...)
		if len(batch) < page {
			break
		}
		after = batch[len(batch)-1].Seq
	}

	snapshot, err := replay.Rebuild(ctx, s.store, gameID)
	if err != nil {
		res.Errors = append(res.Errors, msgLoadEventsFailed)
		s.logger.Printf("undo rebuild game %s: %v", gameID, err)
		return journal{}, replay.Snapshot{}, false
	}
	return buildJournal(events), snapshot, true
}

// commit appends the batch with an optimistic concurrency check and
// refreshes the stored projections from the folded snapshot.
func (s *Service) commit(ctx context.Context, gameID string, batch []event.Event, expectedSeq uint64, pc *planContext, conflictMsg string, res *Result) ([]event.Event, bool) {
	appended, err := s.store.AppendEvents(ctx, gameID, batch, &expectedSeq)
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrVersionConflict):
			res.Errors = append(res.Errors, conflictMsg)
		case apperrors.CodeOf(err) != apperrors.CodeUnknown && apperrors.CodeOf(err) != apperrors.CodeNotFound:
			res.Errors = append(res.Errors, err.Error())
			res.Warnings = append(res.Warnings, msgManualCorrection)
		default:
			res.Errors = append(res.Errors, msgSaveFailed)
			s.logger.Printf("undo append for game %s: %v", gameID, err)
		}
		return nil, false
	}

	now := s.now().UTC()
	if err := s.store.PutGame(ctx, storage.GameRecordFromState(pc.snapshot.Game, now)); err != nil {
		res.Errors = append(res.Errors, msgSaveFailed)
		s.logger.Printf("undo save game %s: %v", gameID, err)
		return nil, false
	}
	inningRec, err := storage.InningRecordFromState(pc.snapshot.Inning, now)
	if err != nil {
		res.Errors = append(res.Errors, msgSaveFailed)
		return nil, false
	}
	if err := s.store.PutInningState(ctx, inningRec); err != nil {
		res.Errors = append(res.Errors, msgSaveFailed)
		s.logger.Printf("undo save inning state for game %s: %v", gameID, err)
		return nil, false
	}
	for _, lineupState := range pc.snapshot.Lineups {
		rec, err := storage.LineupRecordFromState(lineupState, now)
		if err != nil {
			res.Errors = append(res.Errors, msgSaveFailed)
			return nil, false
		}
		if err := s.store.PutLineup(ctx, rec); err != nil {
			res.Errors = append(res.Errors, msgSaveFailed)
			s.logger.Printf("undo save lineup %s for game %s: %v", lineupState.ID, gameID, err)
			return nil, false
		}
	}
	return appended, true
}

func (s *Service) timestamp(cmd Command) time.Time {
	if !cmd.Timestamp.IsZero() {
		return cmd.Timestamp.UTC()
	}
	return s.now().UTC()
}

// planWarnings flags boundary-crossing plans. The verb is "Undo" or "Redo".
func planWarnings(plan []event.Event, verb string) []string {
	var warnings []string
	inningBoundary := false
	lifecycle := false
	for _, evt := range plan {
		switch evt.Type {
		case event.TypeHalfInningEnded:
			inningBoundary = true
		case event.TypeGameStarted, event.TypeGameCompleted:
			lifecycle = true
		}
	}
	if inningBoundary {
		warnings = append(warnings, verb+" crosses a half-inning boundary")
	}
	if lifecycle {
		warnings = append(warnings, verb+" affects game start or completion")
	}
	return warnings
}

func describePlan(plan []event.Event) []string {
	descriptions := make([]string, 0, len(plan))
	for _, evt := range plan {
		descriptions = append(descriptions, describeAction(evt))
	}
	return descriptions
}

// stackInfo derives the operator-visible undo/redo position from a journal.
func stackInfo(j journal) StackInfo {
	undoable := j.undoableAnchors()
	redoable := j.redoableOriginals()
	info := StackInfo{
		CanUndo:         len(undoable) > 0,
		CanRedo:         len(redoable) > 0,
		HistoryPosition: len(undoable),
		TotalActions:    j.totalActions(),
	}
	if len(undoable) > 0 {
		info.NextUndo = describeAction(undoable[0])
	}
	if len(redoable) > 0 {
		info.NextRedo = describeAction(redoable[0])
	}
	return info
}
