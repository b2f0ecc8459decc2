// Package coordinator orchestrates at-bats across the Game, TeamLineup, and
// InningState aggregates: runner advancement, RBI attribution, score and
// inning transitions, all computed as one atomic batch of events.
package coordinator

import (
	"encoding/json"
	"fmt"
	"time"

	apperrors "github.com/louisbranch/scorebook/internal/platform/errors"
	"github.com/louisbranch/scorebook/internal/platform/id"
	"github.com/louisbranch/scorebook/internal/scoring/domain/atbat"
	"github.com/louisbranch/scorebook/internal/scoring/domain/event"
	"github.com/louisbranch/scorebook/internal/scoring/domain/game"
	"github.com/louisbranch/scorebook/internal/scoring/domain/inning"
	"github.com/louisbranch/scorebook/internal/scoring/domain/lineup"
	"github.com/louisbranch/scorebook/internal/scoring/domain/rules"
)

// Game completion reasons emitted by the coordinator.
const (
	// ReasonRegulation ends a game after the final scheduled inning with
	// the score not tied.
	ReasonRegulation = "REGULATION"
	// ReasonWalkOff ends a game the moment the home team takes the lead in
	// the bottom of the final inning or later.
	ReasonWalkOff = "WALK_OFF"
)

// Input carries everything one at-bat needs. Aggregate states are the
// caller's loaded values; they are never mutated.
type Input struct {
	Game       game.State
	Inning     inning.State
	HomeLineup lineup.State
	AwayLineup lineup.State

	BatterID string
	Result   atbat.ResultType
	// Movements overrides the canonical advancement when non-empty. Each
	// entry is validated against the current bases.
	Movements []atbat.Movement

	Rules rules.Config
	Now   func() time.Time
}

// Result reports the outcome of one at-bat. Events hold the full ordered
// batch to append; Game and Inning are the already-folded states.
type Result struct {
	Game   game.State
	Inning inning.State

	RunsScored int
	// RBIs is the rule-table credit capped at RunsScored: explicit
	// overrides can hold runners the table expects home.
	RBIs             int
	InningComplete   bool
	GameComplete     bool
	CompletionReason string

	Events []event.Event
}

// RecordAtBat runs the at-bat coordination algorithm. It is pure: the same
// input always produces the same events, modulo ids and timestamps.
func RecordAtBat(in Input) (Result, error) {
	switch in.Game.Status {
	case game.StatusNotStarted:
		return Result{}, game.ErrNotStarted
	case game.StatusCompleted:
		return Result{}, game.ErrCompleted
	}
	if in.BatterID == "" {
		return Result{}, apperrors.New(apperrors.CodeAtBatEmptyBatter, "batter id is required")
	}
	if !in.Result.IsValid() {
		return Result{}, apperrors.New(apperrors.CodeAtBatInvalidResult,
			fmt.Sprintf("unknown at-bat result %q", in.Result))
	}
	cfg := in.Rules.Normalize()
	now := in.Now
	if now == nil {
		now = time.Now
	}

	battingSide := in.Inning.BattingSide()
	battingLineup := in.HomeLineup
	if battingSide == game.SideAway {
		battingLineup = in.AwayLineup
	}

	movements := in.Movements
	if len(movements) == 0 {
		movements = atbat.DetermineRunnerAdvancement(in.Result, in.Inning.Bases, in.BatterID)
	} else {
		if err := atbat.ValidateMovements(movements, in.Inning.Bases, in.BatterID); err != nil {
			return Result{}, err
		}
		movements = atbat.NormalizeMovements(movements)
	}

	basesBefore := in.Inning.Bases
	outsBefore := in.Inning.Outs
	rbis, err := atbat.CalculateRBIs(in.Result, basesBefore, outsBefore)
	if err != nil {
		return Result{}, err
	}
	runsScored := atbat.CalculateRunsScored(movements)
	// An RBI requires a run that actually scored; explicit overrides can
	// hold runners the rule table expects home.
	if rbis > runsScored {
		rbis = runsScored
	}
	outsOnPlay := atbat.OutsOnPlay(in.Result, movements)
	chargedOuts := outsOnPlay - atbat.CountMovementOuts(movements)

	slotBefore := in.Inning.CurrentBatterSlot()
	slotAfter := nextBattingSlot(battingLineup, slotBefore)

	timestamp := now().UTC()
	newEvent := func(t event.Type, aggregate event.AggregateType, aggregateID string, payload any) (event.Event, error) {
		raw, err := json.Marshal(payload)
		if err != nil {
			return event.Event{}, fmt.Errorf("marshal %s payload: %w", t, err)
		}
		return event.Event{
			GameID:        in.Game.ID,
			ID:            id.NewID(),
			Type:          t,
			Timestamp:     timestamp,
			Version:       1,
			AggregateType: aggregate,
			AggregateID:   aggregateID,
			PayloadJSON:   raw,
		}, nil
	}

	result := Result{
		Game:       in.Game,
		Inning:     in.Inning,
		RunsScored: runsScored,
		RBIs:       rbis,
	}
	appendAndFold := func(evt event.Event, err error) error {
		if err != nil {
			return err
		}
		switch evt.AggregateType {
		case event.AggregateGame:
			folded, err := game.Fold(result.Game, evt)
			if err != nil {
				return err
			}
			result.Game = folded
		case event.AggregateInning:
			folded, err := inning.Fold(result.Inning, evt)
			if err != nil {
				return err
			}
			result.Inning = folded
		}
		result.Events = append(result.Events, evt)
		return nil
	}

	outsAfter := outsBefore + outsOnPlay
	if outsAfter > cfg.OutsPerHalf {
		outsAfter = cfg.OutsPerHalf
	}
	if err := appendAndFold(newEvent(event.TypeAtBatCompleted, event.AggregateGame, in.Game.ID, game.AtBatCompletedPayload{
		BatterID:         in.BatterID,
		Side:             battingSide,
		Result:           string(in.Result),
		RunsScored:       runsScored,
		RBIs:             rbis,
		Inning:           in.Inning.Inning,
		TopHalf:          in.Inning.TopHalf,
		OutsBefore:       outsBefore,
		OutsAfter:        outsAfter,
		BasesBefore:      basesBefore.ToMap(),
		BasesAfter:       atbat.ApplyMovements(basesBefore, movements).ToMap(),
		BatterSlotBefore: slotBefore,
		BatterSlotAfter:  slotAfter,
	})); err != nil {
		return Result{}, err
	}

	for _, movement := range movements {
		if err := appendAndFold(newEvent(event.TypeRunnerAdvanced, event.AggregateInning, in.Inning.ID, inning.RunnerAdvancedPayload{
			RunnerID: movement.RunnerID,
			From:     movement.From,
			To:       movement.To,
		})); err != nil {
			return Result{}, err
		}
	}
	for i := 0; i < chargedOuts; i++ {
		if err := appendAndFold(newEvent(event.TypeOutRecorded, event.AggregateInning, in.Inning.ID, struct{}{})); err != nil {
			return Result{}, err
		}
	}

	credited := 0
	for _, movement := range movements {
		if movement.To != inning.DestHome {
			continue
		}
		if err := appendAndFold(newEvent(event.TypeRunScored, event.AggregateGame, in.Game.ID, game.RunScoredPayload{
			RunnerID:    movement.RunnerID,
			Side:        battingSide,
			RBICredited: credited < rbis,
		})); err != nil {
			return Result{}, err
		}
		credited++
	}

	if err := appendAndFold(newEvent(event.TypeBatterAdvanced, event.AggregateInning, in.Inning.ID, inning.BatterAdvancedPayload{
		Side:     battingSide,
		FromSlot: slotBefore,
		ToSlot:   slotAfter,
	})); err != nil {
		return Result{}, err
	}

	// Walk-off ends the game before any half-inning bookkeeping.
	finalInning := in.Inning.Inning >= cfg.TotalInnings
	if !in.Inning.TopHalf && finalInning && result.Game.Score.Home > result.Game.Score.Away && runsScored > 0 {
		completed, events, err := game.Complete(result.Game, ReasonWalkOff, now)
		if err != nil {
			return Result{}, err
		}
		result.Game = completed
		result.Events = append(result.Events, events...)
		result.GameComplete = true
		result.CompletionReason = ReasonWalkOff
		return result, nil
	}

	if result.Inning.Outs >= cfg.OutsPerHalf {
		endedTop := result.Inning.TopHalf
		if err := appendAndFold(newEvent(event.TypeHalfInningEnded, event.AggregateInning, in.Inning.ID, inning.HalfEndedPayload{
			Inning:      result.Inning.Inning,
			TopHalf:     endedTop,
			OutsBefore:  result.Inning.Outs,
			BasesBefore: result.Inning.Bases.ToMap(),
		})); err != nil {
			return Result{}, err
		}
		result.InningComplete = true

		if !endedTop {
			if finalInning && result.Game.Score.Home != result.Game.Score.Away {
				completed, events, err := game.Complete(result.Game, ReasonRegulation, now)
				if err != nil {
					return Result{}, err
				}
				result.Game = completed
				result.Events = append(result.Events, events...)
				result.GameComplete = true
				result.CompletionReason = ReasonRegulation
				return result, nil
			}
			if err := appendAndFold(newEvent(event.TypeInningAdvanced, event.AggregateInning, in.Inning.ID, inning.AdvancedPayload{
				FromInning: result.Inning.Inning,
				ToInning:   result.Inning.Inning + 1,
			})); err != nil {
				return Result{}, err
			}
		}
	}

	return result, nil
}

// nextBattingSlot returns the slot that bats after the current one, cycling
// through the lineup's filled positions.
func nextBattingSlot(state lineup.State, current int) int {
	order := state.BattingOrder()
	if len(order) == 0 {
		next := current + 1
		if next > 9 {
			next = 1
		}
		return next
	}
	for _, position := range order {
		if position > current {
			return position
		}
	}
	return order[0]
}
