// Package repo implements the data persistence layer for the Steam profile
// store, backed by GORM. This file contains database bootstrapping helpers
// for SQLite (pure Go driver) and schema migrations.
package repo

import (
	"os"
	"path/filepath"
	"time"

	sqlite "github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/plugin/opentelemetry/tracing"

	"github.com/akozlov/go-steam-store/internal/domain"
)

// Options controls optional behavior of OpenSQLite.
type Options struct {
	// Tracing attaches the OpenTelemetry GORM plugin so every query is
	// recorded as a span under the globally registered tracer provider.
	Tracing bool
}

// OpenSQLite opens (or creates) a SQLite database and applies PRAGMAs.
func OpenSQLite(path string, opts Options) (*gorm.DB, error) {
	// Fail early if parent directory does not exist (instead of sqlite "out of memory (14)" on Windows).
	if dir := filepath.Dir(path); dir != "." {
		if _, err := os.Stat(dir); err != nil {
			return nil, err
		}
	}

	// foreign_keys and busy_timeout go through the DSN so every pooled
	// connection gets them; snapshot and ownership writes rely on FK
	// errors to report referential violations, and concurrent recorders
	// need the busy handler.
	dsn := path + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	// PRAGMAs
	db.Exec("PRAGMA journal_mode=WAL;")
	db.Exec("PRAGMA synchronous=NORMAL;")

	// Pool
	if sqlDB, err := db.DB(); err == nil {
		sqlDB.SetMaxOpenConns(10)
		sqlDB.SetMaxIdleConns(10)
		sqlDB.SetConnMaxIdleTime(5 * time.Minute)
		sqlDB.SetConnMaxLifetime(30 * time.Minute)
	}

	if opts.Tracing {
		if err := db.Use(tracing.NewPlugin(tracing.WithoutMetrics())); err != nil {
			return nil, err
		}
	}

	return db, nil
}

// AutoMigrate creates or updates the five entity tables.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&domain.ParseSession{},
		&domain.Profile{},
		&domain.Game{},
		&domain.Snapshot{},
		&domain.ProfileGame{},
	)
}
