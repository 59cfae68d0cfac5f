package db_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	dbfs "github.com/garnizeh/chronosflow/db"
	"github.com/garnizeh/chronosflow/internal/config"
	"github.com/garnizeh/chronosflow/internal/db"
)

// TestMigrateOnStart_TempWorkdir loads a config with migrate_on_start and runs
// the embedded migrations against a database in a temporary directory.
func TestMigrateOnStart_TempWorkdir(t *testing.T) {
	ctx := context.Background()
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	cfgY := "addr: \":0\"\n" +
		"database_path: '" + dbPath + "'\n" +
		"migrate_on_start: true\n" +
		"advice:\n  model: \"test-model\"\n"

	cfgPath := filepath.Join(tmpDir, "config.yaml")
	if err := os.WriteFile(cfgPath, []byte(cfgY), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	// allow insecure default JWTSecret for this test
	t.Setenv("CHRONOS_ENV", "development")
	t.Setenv("CHRONOS_JWT_SECRET", "")
	t.Setenv("CHRONOS_DATABASE_PATH", "")

	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("validate config: %v", err)
	}
	if !cfg.MigrateOnStart {
		t.Fatalf("expected migrate_on_start to be set")
	}

	dbCtx, dbCancel := context.WithTimeout(ctx, cfg.APITimeout)
	defer dbCancel()

	d, err := db.New(dbCtx, cfg.DatabasePath, nil)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	defer d.Close()

	if err := db.Migrate(dbCtx, d, dbfs.Migrations, dbfs.SeedFiles); err != nil {
		t.Fatalf("migrate failed: %v", err)
	}

	var count int
	row := d.QueryRow(ctx, `SELECT COUNT(1) FROM schema_migrations`)
	if row == nil {
		t.Fatalf("query row is nil")
	}
	if err := row.Scan(&count); err != nil {
		t.Fatalf("scan schema_migrations count: %v", err)
	}
	if count == 0 {
		t.Fatalf("expected migrations recorded, got 0")
	}

	var schemas int
	if err := d.QueryRow(ctx, `SELECT COUNT(1) FROM state_schemas`).Scan(&schemas); err != nil {
		t.Fatalf("scan state_schemas count: %v", err)
	}
	if schemas == 0 {
		t.Fatalf("expected seeded state schema")
	}
}
