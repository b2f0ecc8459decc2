// Package scorebook parses scorebook command flags and runs a demonstration
// scoring session against the configured store.
package scorebook

import (
	"context"
	"flag"
	"fmt"
	"log"

	entrypoint "github.com/louisbranch/scorebook/internal/platform/cmd"
	"github.com/louisbranch/scorebook/internal/scoring"
	"github.com/louisbranch/scorebook/internal/scoring/audit"
	"github.com/louisbranch/scorebook/internal/scoring/coordinator"
	"github.com/louisbranch/scorebook/internal/scoring/domain/atbat"
	"github.com/louisbranch/scorebook/internal/scoring/domain/lineup"
	"github.com/louisbranch/scorebook/internal/scoring/domain/rules"
	"github.com/louisbranch/scorebook/internal/scoring/storage"
	"github.com/louisbranch/scorebook/internal/scoring/storage/memory"
	"github.com/louisbranch/scorebook/internal/scoring/storage/sqlite"
	"github.com/louisbranch/scorebook/internal/scoring/undo"
)

// Config holds scorebook command configuration.
type Config struct {
	// DBPath points at the SQLite database file. Empty runs in memory.
	DBPath string `env:"SCOREBOOK_DB_PATH"`
	// OutsPerHalf overrides the outs that end a half-inning.
	OutsPerHalf int `env:"SCOREBOOK_OUTS_PER_HALF" envDefault:"3"`
	// TotalInnings overrides the regulation game length.
	TotalInnings int `env:"SCOREBOOK_TOTAL_INNINGS" envDefault:"7"`
}

func (c Config) rules() rules.Config {
	return rules.Config{
		OutsPerHalf:  c.OutsPerHalf,
		TotalInnings: c.TotalInnings,
	}.Normalize()
}

// ParseConfig parses environment and flags into Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}
	fs.StringVar(&cfg.DBPath, "db", cfg.DBPath, "SQLite database path (empty for in-memory)")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run scores a demonstration game, undoes and redoes the last at-bat, and
// prints the resulting score and journal size.
func Run(ctx context.Context, cfg Config) error {
	return entrypoint.RunWithTelemetry(ctx, entrypoint.ServiceScorebook, func(ctx context.Context) error {
		return run(ctx, cfg)
	})
}

func openStore(cfg Config) (storage.Store, func() error, error) {
	registry, err := scoring.NewEventRegistry()
	if err != nil {
		return nil, nil, err
	}
	if cfg.DBPath == "" {
		return memory.New(registry), func() error { return nil }, nil
	}
	store, err := sqlite.Open(cfg.DBPath, registry)
	if err != nil {
		return nil, nil, err
	}
	return store, store.Close, nil
}

func run(ctx context.Context, cfg Config) error {
	store, closeStore, err := openStore(cfg)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer func() {
		if err := closeStore(); err != nil {
			log.Printf("close store: %v", err)
		}
	}()

	auditor := audit.NewEmitter(store)
	coord := coordinator.NewService(store, auditor, cfg.rules(), log.Default())
	undoer := undo.NewService(store, auditor, log.Default())

	setup, violations, err := coord.StartGame(ctx,
		coordinator.TeamSetup{Name: "Hornets", Entries: demoEntries("h")},
		coordinator.TeamSetup{Name: "Aviators", Entries: demoEntries("a")},
	)
	if err != nil {
		return fmt.Errorf("start game: %w", err)
	}
	if len(violations) > 0 {
		return fmt.Errorf("lineup violations: %v", violations)
	}
	log.Printf("game %s started", setup.GameID)

	script := []struct {
		batter string
		result atbat.ResultType
	}{
		{"a1", atbat.ResultSingle},
		{"a2", atbat.ResultDouble},
		{"a3", atbat.ResultHomeRun},
		{"a4", atbat.ResultStrikeout},
	}
	for _, ab := range script {
		outcome, err := coord.RecordAtBat(ctx, setup.GameID, ab.batter, ab.result, nil)
		if err != nil {
			return fmt.Errorf("at bat %s: %w", ab.batter, err)
		}
		log.Printf("%s %s: %d runs scored, score %d-%d",
			ab.batter, ab.result, outcome.RunsScored, outcome.Game.Score.Away, outcome.Game.Score.Home)
	}

	if _, err := coord.Substitute(ctx, setup.GameID, setup.AwayLineupID, 5, "a10", false); err != nil {
		return fmt.Errorf("substitute: %w", err)
	}

	undoRes := undoer.Undo(ctx, undo.Command{GameID: setup.GameID, ActionLimit: 1})
	if !undoRes.Success {
		return fmt.Errorf("undo failed: %v", undoRes.Errors)
	}
	log.Printf("undid %d action(s); next redo: %s", undoRes.ActionsUndone, undoRes.Stack.NextRedo)

	redoRes := undoer.Redo(ctx, undo.Command{GameID: setup.GameID, ActionLimit: 1})
	if !redoRes.Success {
		return fmt.Errorf("redo failed: %v", redoRes.Errors)
	}

	latest, err := store.GetLatestEventSeq(ctx, setup.GameID)
	if err != nil {
		return fmt.Errorf("latest seq: %w", err)
	}
	log.Printf("final score %d-%d after %d journal events",
		redoRes.Game.Score.Away, redoRes.Game.Score.Home, latest)
	return nil
}

func demoEntries(prefix string) []lineup.Entry {
	positions := []lineup.FieldPosition{
		lineup.PositionPitcher, lineup.PositionCatcher, lineup.PositionFirstBase,
		lineup.PositionSecondBase, lineup.PositionThirdBase, lineup.PositionShortstop,
		lineup.PositionLeftField, lineup.PositionCenterField, lineup.PositionRightField,
	}
	entries := make([]lineup.Entry, 0, len(positions))
	for i, pos := range positions {
		entries = append(entries, lineup.Entry{
			Slot:         i + 1,
			PlayerID:     fmt.Sprintf("%s%d", prefix, i+1),
			JerseyNumber: i + 1,
			Position:     pos,
		})
	}
	return entries
}
