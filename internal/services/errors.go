// Package services defines the business logic for batch ingestion, session
// reporting, and profile queries. This file centralizes common
// service-level error values so that they can be consistently returned by
// service methods and checked by callers.
//
// Per-profile scrape failures are deliberately absent from this taxonomy:
// they are first-class data (failed snapshots with an error message), not
// errors, and never abort a batch.
package services

import (
	"errors"

	"github.com/akozlov/go-steam-store/internal/repo"
)

var (
	// ErrSessionNotFound indicates that the requested parse session does
	// not exist.
	ErrSessionNotFound = errors.New("session not found")

	// ErrProfileNotFound indicates that the requested profile does not
	// exist.
	ErrProfileNotFound = errors.New("profile not found")

	// ErrEmptyBatch is returned when a batch carries no observations.
	ErrEmptyBatch = errors.New("batch has no observations")

	// ErrInvalidSteamID mirrors the registry's identity-key validation:
	// empty or non-numeric steam_id, rejected before any write.
	ErrInvalidSteamID = repo.ErrInvalidSteamID

	// ErrInvalidAppID mirrors the registry's game identity validation.
	ErrInvalidAppID = repo.ErrInvalidAppID

	// ErrNegativeValue is returned when a count, level, playtime, or
	// monetary amount is negative.
	ErrNegativeValue = repo.ErrNegativeValue

	// ErrDuplicateSnapshot is returned when the same profile is reported
	// twice within one session. The first snapshot stands; this is a
	// caller logic error, not a retryable condition.
	ErrDuplicateSnapshot = repo.ErrDuplicateSnapshot

	// ErrReferentialViolation is returned when a write references a
	// session, profile, or game that does not exist.
	ErrReferentialViolation = repo.ErrReferentialViolation

	// ErrSessionFinalized is returned when finalizing a session that has
	// already reached a terminal status. The first outcome stands.
	ErrSessionFinalized = repo.ErrSessionFinalized

	// ErrNotTerminalStatus is returned when finalizing with anything other
	// than success or failed.
	ErrNotTerminalStatus = repo.ErrNotTerminalStatus
)
