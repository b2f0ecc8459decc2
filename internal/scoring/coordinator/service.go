package coordinator

import (
	"context"
	"fmt"
	"log"
	"time"

	apperrors "github.com/louisbranch/scorebook/internal/platform/errors"
	"github.com/louisbranch/scorebook/internal/platform/id"
	"github.com/louisbranch/scorebook/internal/scoring/audit"
	"github.com/louisbranch/scorebook/internal/scoring/domain/atbat"
	"github.com/louisbranch/scorebook/internal/scoring/domain/event"
	"github.com/louisbranch/scorebook/internal/scoring/domain/game"
	"github.com/louisbranch/scorebook/internal/scoring/domain/inning"
	"github.com/louisbranch/scorebook/internal/scoring/domain/lineup"
	"github.com/louisbranch/scorebook/internal/scoring/domain/rules"
	"github.com/louisbranch/scorebook/internal/scoring/storage"
)

// Service wires the coordination algorithm to persistence: it loads
// aggregate projections, runs the pure transforms, appends the event batch
// with an optimistic concurrency check, and refreshes the projections.
type Service struct {
	store   storage.Store
	auditor *audit.Emitter
	rules   rules.Config
	logger  *log.Logger
	now     func() time.Time
}

// NewService constructs a coordinator service. The audit emitter may be nil.
func NewService(store storage.Store, auditor *audit.Emitter, cfg rules.Config, logger *log.Logger) *Service {
	if logger == nil {
		logger = log.Default()
	}
	return &Service{
		store:   store,
		auditor: auditor,
		rules:   cfg.Normalize(),
		logger:  logger,
		now:     time.Now,
	}
}

// TeamSetup describes one side's team for game creation.
type TeamSetup struct {
	Name    string
	Entries []lineup.Entry
}

// GameSetup is the result of StartGame.
type GameSetup struct {
	GameID       string
	HomeLineupID string
	AwayLineupID string
}

// StartGame validates both lineups, creates the three aggregates, and
// appends the full setup batch atomically. Lineup violations are returned
// as a list before any state is written.
func (s *Service) StartGame(ctx context.Context, home, away TeamSetup) (GameSetup, []string, error) {
	var violations []string
	for _, v := range lineup.ValidateLineup(home.Entries, s.rules) {
		violations = append(violations, "home: "+v)
	}
	for _, v := range lineup.ValidateLineup(away.Entries, s.rules) {
		violations = append(violations, "away: "+v)
	}
	if len(violations) > 0 {
		return GameSetup{}, violations, nil
	}

	setup := GameSetup{
		GameID:       id.NewID(),
		HomeLineupID: id.NewID(),
		AwayLineupID: id.NewID(),
	}
	gameState := game.NewState(setup.GameID)
	homeLineup := lineup.NewState(setup.HomeLineupID, setup.GameID, home.Name, game.SideHome)
	awayLineup := lineup.NewState(setup.AwayLineupID, setup.GameID, away.Name, game.SideAway)
	inningState := inning.NewState(id.NewID(), setup.GameID)

	batch := make([]event.Event, 0, len(home.Entries)+len(away.Entries)+1)
	var err error
	for _, entry := range home.Entries {
		var events []event.Event
		homeLineup, events, err = lineup.AddPlayer(homeLineup, entry.PlayerID, entry.Slot, entry.JerseyNumber, entry.Position, s.rules, s.now)
		if err != nil {
			return GameSetup{}, nil, err
		}
		batch = append(batch, events...)
	}
	for _, entry := range away.Entries {
		var events []event.Event
		awayLineup, events, err = lineup.AddPlayer(awayLineup, entry.PlayerID, entry.Slot, entry.JerseyNumber, entry.Position, s.rules, s.now)
		if err != nil {
			return GameSetup{}, nil, err
		}
		batch = append(batch, events...)
	}
	gameState, startEvents, err := game.Start(gameState, setup.HomeLineupID, setup.AwayLineupID, s.now)
	if err != nil {
		return GameSetup{}, nil, err
	}
	batch = append(batch, startEvents...)

	for i := range batch {
		batch[i].GameID = setup.GameID
	}
	var expected uint64
	if _, err := s.store.AppendEvents(ctx, setup.GameID, batch, &expected); err != nil {
		return GameSetup{}, nil, apperrors.Wrap(apperrors.CodeUnknown, "Infrastructure error: failed to save game", err)
	}
	if err := s.persistProjections(ctx, gameState, inningState, homeLineup, awayLineup); err != nil {
		return GameSetup{}, nil, err
	}

	_ = s.auditor.Emit(ctx, setup.GameID, audit.KindLifecycle, "game started", setup)
	s.logger.Printf("game %s started: %s vs %s", setup.GameID, away.Name, home.Name)
	return setup, nil, nil
}

// RecordAtBat loads the game's aggregates, runs the at-bat, and persists
// the batch. Explicit movements may be empty for canonical advancement.
func (s *Service) RecordAtBat(ctx context.Context, gameID, batterID string, result atbat.ResultType, movements []atbat.Movement) (Result, error) {
	loaded, expectedSeq, err := s.load(ctx, gameID)
	if err != nil {
		return Result{}, err
	}

	loaded.BatterID = batterID
	loaded.Result = result
	loaded.Movements = movements
	loaded.Rules = s.rules
	loaded.Now = s.now

	outcome, err := RecordAtBat(loaded)
	if err != nil {
		return Result{}, err
	}

	if _, err := s.store.AppendEvents(ctx, gameID, outcome.Events, &expectedSeq); err != nil {
		return Result{}, err
	}
	if err := s.persistProjections(ctx, outcome.Game, outcome.Inning, loaded.HomeLineup, loaded.AwayLineup); err != nil {
		return Result{}, err
	}

	_ = s.auditor.Emit(ctx, gameID, audit.KindAtBat,
		fmt.Sprintf("%s: %s, %d runs, %d rbis", batterID, result, outcome.RunsScored, outcome.RBIs), nil)
	return outcome, nil
}

// Substitute replaces the active player in a batting slot of one lineup.
func (s *Service) Substitute(ctx context.Context, gameID, lineupID string, slot int, newPlayerID string, isReentry bool) (lineup.State, error) {
	loaded, expectedSeq, err := s.load(ctx, gameID)
	if err != nil {
		return lineup.State{}, err
	}
	if loaded.Game.Status != game.StatusInProgress {
		if loaded.Game.Status == game.StatusCompleted {
			return lineup.State{}, game.ErrCompleted
		}
		return lineup.State{}, game.ErrNotStarted
	}

	target, err := s.pickLineup(loaded, lineupID)
	if err != nil {
		return lineup.State{}, err
	}
	next, events, err := lineup.Substitute(target, slot, newPlayerID, loaded.Inning.Inning, isReentry, s.now)
	if err != nil {
		return lineup.State{}, err
	}

	if _, err := s.store.AppendEvents(ctx, gameID, events, &expectedSeq); err != nil {
		return lineup.State{}, err
	}
	if err := s.persistLineup(ctx, next); err != nil {
		return lineup.State{}, err
	}

	_ = s.auditor.Emit(ctx, gameID, audit.KindSubstitution,
		fmt.Sprintf("%s into slot %d (inning %d)", newPlayerID, slot, loaded.Inning.Inning), nil)
	return next, nil
}

// ChangePosition reassigns a player's defensive position in one lineup.
func (s *Service) ChangePosition(ctx context.Context, gameID, lineupID, playerID string, to lineup.FieldPosition) (lineup.State, error) {
	loaded, expectedSeq, err := s.load(ctx, gameID)
	if err != nil {
		return lineup.State{}, err
	}
	if loaded.Game.Status == game.StatusCompleted {
		return lineup.State{}, game.ErrCompleted
	}

	target, err := s.pickLineup(loaded, lineupID)
	if err != nil {
		return lineup.State{}, err
	}
	next, events, err := lineup.ChangePosition(target, playerID, to, s.now)
	if err != nil {
		return lineup.State{}, err
	}

	if _, err := s.store.AppendEvents(ctx, gameID, events, &expectedSeq); err != nil {
		return lineup.State{}, err
	}
	if err := s.persistLineup(ctx, next); err != nil {
		return lineup.State{}, err
	}
	return next, nil
}

// load rehydrates the four aggregate states and the journal cursor.
func (s *Service) load(ctx context.Context, gameID string) (Input, uint64, error) {
	gameRec, err := s.store.GetGame(ctx, gameID)
	if err != nil {
		if apperrors.CodeOf(err) == apperrors.CodeNotFound {
			return Input{}, 0, apperrors.New(apperrors.CodeGameNotFound, fmt.Sprintf("Game not found: %s", gameID))
		}
		return Input{}, 0, apperrors.Wrap(apperrors.CodeUnknown, "Infrastructure error: failed to load game", err)
	}
	in := Input{Game: storage.GameStateFromRecord(gameRec)}

	inningRec, err := s.store.GetInningState(ctx, gameID)
	if err != nil {
		return Input{}, 0, apperrors.Wrap(apperrors.CodeUnknown, "Infrastructure error: failed to load game", err)
	}
	in.Inning, err = storage.InningStateFromRecord(inningRec)
	if err != nil {
		return Input{}, 0, err
	}

	lineupRecs, err := s.store.ListLineupsByGame(ctx, gameID)
	if err != nil {
		return Input{}, 0, apperrors.Wrap(apperrors.CodeUnknown, "Infrastructure error: failed to load game", err)
	}
	for _, rec := range lineupRecs {
		state, err := storage.LineupStateFromRecord(rec)
		if err != nil {
			return Input{}, 0, err
		}
		if state.Side == game.SideHome {
			in.HomeLineup = state
		} else {
			in.AwayLineup = state
		}
	}

	seq, err := s.store.GetLatestEventSeq(ctx, gameID)
	if err != nil {
		return Input{}, 0, apperrors.Wrap(apperrors.CodeUnknown, "Infrastructure error: failed to load recent events", err)
	}
	return in, seq, nil
}

func (s *Service) pickLineup(in Input, lineupID string) (lineup.State, error) {
	switch lineupID {
	case in.HomeLineup.ID:
		return in.HomeLineup, nil
	case in.AwayLineup.ID:
		return in.AwayLineup, nil
	}
	return lineup.State{}, storage.ErrNotFound
}

func (s *Service) persistProjections(ctx context.Context, gameState game.State, inningState inning.State, lineups ...lineup.State) error {
	now := s.now().UTC()
	if err := s.store.PutGame(ctx, storage.GameRecordFromState(gameState, now)); err != nil {
		return apperrors.Wrap(apperrors.CodeUnknown, "Infrastructure error: failed to save game", err)
	}
	inningRec, err := storage.InningRecordFromState(inningState, now)
	if err != nil {
		return err
	}
	if err := s.store.PutInningState(ctx, inningRec); err != nil {
		return apperrors.Wrap(apperrors.CodeUnknown, "Infrastructure error: failed to save game", err)
	}
	for _, l := range lineups {
		if err := s.persistLineup(ctx, l); err != nil {
			return err
		}
	}
	return nil
}

func (s *Service) persistLineup(ctx context.Context, state lineup.State) error {
	rec, err := storage.LineupRecordFromState(state, s.now().UTC())
	if err != nil {
		return err
	}
	if err := s.store.PutLineup(ctx, rec); err != nil {
		return apperrors.Wrap(apperrors.CodeUnknown, "Infrastructure error: failed to save game", err)
	}
	return nil
}
