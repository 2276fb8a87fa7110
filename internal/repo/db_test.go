package repo

import (
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newStoreDB opens a fresh SQLite database in a temp dir, migrates the
// full schema, and silences the GORM logger (error-path tests provoke
// constraint violations on purpose).
func newStoreDB(t *testing.T) *gorm.DB {
	t.Helper()

	path := filepath.Join(t.TempDir(), fmt.Sprintf("store_test_%d.db", time.Now().UnixNano()))
	db, err := OpenSQLite(path, Options{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	db.Logger = logger.Default.LogMode(logger.Silent)

	// Ensure the file handle is released before TempDir cleanup (Windows needs this).
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	if err := AutoMigrate(db); err != nil {
		t.Fatalf("automigrate: %v", err)
	}
	return db
}

func TestOpenSQLite_MissingParentDir(t *testing.T) {
	if _, err := OpenSQLite(filepath.Join(t.TempDir(), "nope", "store.db"), Options{}); err == nil {
		t.Fatalf("expected error for missing parent directory")
	}
}

func TestOpenSQLite_MigratesAndEnforcesForeignKeys(t *testing.T) {
	db := newStoreDB(t)

	for _, table := range []string{"parse_sessions", "profiles", "games", "profile_snapshots", "profile_games"} {
		if !db.Migrator().HasTable(table) {
			t.Fatalf("expected table %q after AutoMigrate", table)
		}
	}

	var fk int
	if err := db.Raw("PRAGMA foreign_keys").Scan(&fk).Error; err != nil {
		t.Fatalf("pragma foreign_keys: %v", err)
	}
	if fk != 1 {
		t.Fatalf("foreign_keys pragma = %d; want 1", fk)
	}
}

func TestOpenSQLite_WithTracingPlugin(t *testing.T) {
	path := filepath.Join(t.TempDir(), "traced.db")
	db, err := OpenSQLite(path, Options{Tracing: true})
	if err != nil {
		t.Fatalf("open with tracing: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	if err := AutoMigrate(db); err != nil {
		t.Fatalf("automigrate on traced handle: %v", err)
	}
}
