package sqlitemigrate

import (
	"database/sql"
	"path/filepath"
	"testing"
	"testing/fstest"

	_ "modernc.org/sqlite"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	sqlDB, err := sql.Open("sqlite", filepath.Join(t.TempDir(), "migrate.db"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { _ = sqlDB.Close() })
	return sqlDB
}

func TestApplyMigrationsOnce(t *testing.T) {
	sqlDB := openTestDB(t)
	migrations := fstest.MapFS{
		"0001_games.sql": {Data: []byte("CREATE TABLE games (id TEXT PRIMARY KEY);")},
		"0002_seed.sql":  {Data: []byte("INSERT INTO games (id) VALUES ('g1');")},
	}

	if err := ApplyMigrations(sqlDB, migrations, "."); err != nil {
		t.Fatalf("first apply: %v", err)
	}
	// Re-applying must be a no-op: the insert would fail on a duplicate key.
	if err := ApplyMigrations(sqlDB, migrations, "."); err != nil {
		t.Fatalf("second apply: %v", err)
	}

	var count int
	if err := sqlDB.QueryRow("SELECT COUNT(1) FROM games").Scan(&count); err != nil {
		t.Fatalf("count games: %v", err)
	}
	if count != 1 {
		t.Fatalf("games count = %d, want 1", count)
	}
}

func TestApplyMigrationsOrdered(t *testing.T) {
	sqlDB := openTestDB(t)
	migrations := fstest.MapFS{
		"0002_alter.sql":  {Data: []byte("ALTER TABLE events ADD COLUMN kind TEXT;")},
		"0001_events.sql": {Data: []byte("CREATE TABLE events (seq INTEGER PRIMARY KEY);")},
	}

	if err := ApplyMigrations(sqlDB, migrations, "."); err != nil {
		t.Fatalf("apply: %v", err)
	}
	if _, err := sqlDB.Exec("INSERT INTO events (seq, kind) VALUES (1, 'x')"); err != nil {
		t.Fatalf("insert with migrated column: %v", err)
	}
}

func TestApplyMigrationsRequiresDB(t *testing.T) {
	if err := ApplyMigrations(nil, fstest.MapFS{}, "."); err == nil {
		t.Fatal("expected error for nil db")
	}
}
