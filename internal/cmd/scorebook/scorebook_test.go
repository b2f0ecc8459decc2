package scorebook

import (
	"context"
	"flag"
	"testing"
)

func TestParseConfigDefaults(t *testing.T) {
	fs := flag.NewFlagSet("scorebook", flag.ContinueOnError)
	cfg, err := ParseConfig(fs, nil)
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}
	if cfg.DBPath != "" {
		t.Fatalf("expected empty default db path, got %q", cfg.DBPath)
	}
	if cfg.OutsPerHalf != 3 || cfg.TotalInnings != 7 {
		t.Fatalf("expected default rules 3/7, got %d/%d", cfg.OutsPerHalf, cfg.TotalInnings)
	}
}

func TestParseConfigOverrides(t *testing.T) {
	t.Setenv("SCOREBOOK_DB_PATH", "/tmp/env.db")

	fs := flag.NewFlagSet("scorebook", flag.ContinueOnError)
	cfg, err := ParseConfig(fs, []string{"-db", "/tmp/flag.db"})
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}
	if cfg.DBPath != "/tmp/flag.db" {
		t.Fatalf("expected flag override, got %q", cfg.DBPath)
	}
}

func TestRunInMemory(t *testing.T) {
	if err := run(context.Background(), Config{}); err != nil {
		t.Fatalf("run: %v", err)
	}
}

func TestRunSQLite(t *testing.T) {
	cfg := Config{DBPath: t.TempDir() + "/scorebook.db"}
	if err := run(context.Background(), cfg); err != nil {
		t.Fatalf("run: %v", err)
	}
}
