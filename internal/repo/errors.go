// Package repo – storage-level error values and driver-error classification.
//
// Repositories validate inputs before any write and translate driver
// errors (unique-constraint and foreign-key violations) into stable
// sentinels, so the service layer never string-matches SQLite messages.
package repo

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

// ErrNotFound is returned when a requested record does not exist.
// It aliases gorm.ErrRecordNotFound for convenience and consistency
// across the service layer.
var ErrNotFound = gorm.ErrRecordNotFound

var (
	// ErrInvalidSteamID is returned when an identity key for a profile is
	// empty or not a decimal SteamID64.
	ErrInvalidSteamID = errors.New("invalid steam_id")

	// ErrInvalidAppID is returned when a game identity key is not positive.
	ErrInvalidAppID = errors.New("invalid app_id")

	// ErrNegativeValue is returned when a count, level, playtime, or
	// monetary amount is negative. Rejected before any write.
	ErrNegativeValue = errors.New("value must be non-negative")

	// ErrInvalidStatus is returned when a snapshot status is outside the
	// success/failed/pending vocabulary.
	ErrInvalidStatus = errors.New("invalid snapshot status")

	// ErrDuplicateSnapshot is returned when a (session, profile) pair is
	// snapshotted twice. The original row is left unchanged; a profile is
	// observed at most once per run, so this is a caller logic error.
	ErrDuplicateSnapshot = errors.New("snapshot already recorded for this session and profile")

	// ErrReferentialViolation is returned when a write references a
	// session, profile, or game row that does not exist.
	ErrReferentialViolation = errors.New("referenced row does not exist")

	// ErrSessionFinalized is returned when finalizing a session that has
	// already left the pending state.
	ErrSessionFinalized = errors.New("session already finalized")

	// ErrNotTerminalStatus is returned when finalizing with a status other
	// than success or failed.
	ErrNotTerminalStatus = errors.New("finalize requires a terminal status")
)

// isDuplicate detects unique-constraint violations across drivers that may
// not map to gorm.ErrDuplicatedKey.
func isDuplicate(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	// SQLite typically: "UNIQUE constraint failed"
	// Postgres typically: "duplicate key value violates unique constraint"
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "duplicate key")
}

// isFKViolation detects foreign-key constraint failures across drivers.
func isFKViolation(err error) bool {
	if errors.Is(err, gorm.ErrForeignKeyViolated) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "foreign key constraint")
}
