package undo

import (
	"context"
	"fmt"

	"github.com/louisbranch/scorebook/internal/scoring/audit"
	"github.com/louisbranch/scorebook/internal/scoring/domain/event"
	"github.com/louisbranch/scorebook/internal/scoring/domain/game"
)

// Redo re-applies previously undone actions, most recently undone first,
// by appending restoration bundles. It mirrors Undo: same safety gate,
// warning rules, and atomic persistence.
func (s *Service) Redo(ctx context.Context, cmd Command) Result {
	var res Result

	gameState, ok := s.loadGame(ctx, cmd.GameID, &res)
	if !ok {
		return res
	}
	switch gameState.Status {
	case game.StatusNotStarted:
		res.Errors = append(res.Errors, msgNothingToRedo)
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

	candidates := j.redoableOriginals()
	if len(candidates) == 0 {
		res.Errors = append(res.Errors, msgNothingToRedo)
		res.Stack = stackInfo(j)
		return res
	}

	for _, evt := range candidates {
		if isDangerous(evt.Type) {
			s.logger.Printf("redo candidate for game %s touches dangerous event %s (seq %d)", cmd.GameID, evt.Type, evt.Seq)
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
		res.Warnings = append(res.Warnings, fmt.Sprintf("Only %d of %d requested actions were available to redo", count, cmd.ActionLimit))
	}
	plan := candidates[:count]
	res.Warnings = append(res.Warnings, planWarnings(plan, "Redo")...)
	if count > dangerousActionThreshold {
		res.Warnings = append(res.Warnings, fmt.Sprintf("Redoing a large number of actions (%d)", count))
	}

	pc := &planContext{snapshot: snapshot, gameID: cmd.GameID, timestamp: s.timestamp(cmd)}
	var batch []event.Event
	for _, original := range plan {
		bundle, err := pc.restorationBundle(original, cmd.Notes)
		if err != nil {
			res.Errors = append(res.Errors, err.Error())
			return res
		}
		batch = append(batch, bundle...)
	}

	appended, ok := s.commit(ctx, cmd.GameID, batch, snapshot.LastSeq, pc, msgRedoConflict, &res)
	if !ok {
		res.Stack = stackInfo(j)
		return res
	}

	res.Success = true
	res.ActionsRedone = count
	res.Game = pc.snapshot.Game
	res.Stack = stackInfo(buildJournal(append(j.events, appended...)))

	_ = s.auditor.Emit(ctx, cmd.GameID, audit.KindRedo,
		fmt.Sprintf("redid %d action(s)", count), describePlan(plan))
	return res
}
