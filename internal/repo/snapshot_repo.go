// Package repo – snapshot store.
//
// Snapshots are append-only history: one row per (session, profile) pair,
// immutable once written. There is deliberately no update path; a
// re-observation within the same session is a conflict, and a new session
// produces a new row. Rows disappear only through the cascade deletes in
// session_repo.go and profile_repo.go.
package repo

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/akozlov/go-steam-store/internal/domain"
)

// SnapshotValues carries the measured state recorded for one profile in
// one session.
type SnapshotValues struct {
	SteamLevel     int
	GamesCount     int
	LibraryValue   float64
	InventoryValue float64
	Status         string  // defaults to success when empty
	ErrorMessage   *string // only persisted when Status != success
}

// CreateSnapshot appends one profile observation to a session.
// total_value is derived from the two monetary inputs by the model hook;
// callers cannot supply it.
//
// Errors:
//   - ErrNegativeValue when any level, count, or amount is negative.
//   - ErrInvalidStatus when the status is outside the known vocabulary.
//   - ErrDuplicateSnapshot when the (session, profile) pair already has a
//     snapshot; the existing row is unchanged.
//   - ErrReferentialViolation when the session or profile does not exist.
//   - The underlying DB error otherwise.
func CreateSnapshot(ctx context.Context, db *gorm.DB, sessionID, profileID uint, v SnapshotValues) (*domain.Snapshot, error) {
	if v.SteamLevel < 0 || v.GamesCount < 0 || v.LibraryValue < 0 || v.InventoryValue < 0 {
		return nil, ErrNegativeValue
	}
	if v.Status == "" {
		v.Status = domain.SnapshotStatusSuccess
	}
	switch v.Status {
	case domain.SnapshotStatusSuccess, domain.SnapshotStatusFailed, domain.SnapshotStatusPending:
	default:
		return nil, ErrInvalidStatus
	}
	if v.Status == domain.SnapshotStatusSuccess {
		v.ErrorMessage = nil
	}

	s := &domain.Snapshot{
		SessionID:      sessionID,
		ProfileID:      profileID,
		SteamLevel:     v.SteamLevel,
		GamesCount:     v.GamesCount,
		LibraryValue:   v.LibraryValue,
		InventoryValue: v.InventoryValue,
		ParsedAt:       time.Now().UTC(),
		Status:         v.Status,
		ErrorMessage:   v.ErrorMessage,
	}
	if err := db.WithContext(ctx).Create(s).Error; err != nil {
		if isDuplicate(err) {
			return nil, ErrDuplicateSnapshot
		}
		if isFKViolation(err) {
			return nil, ErrReferentialViolation
		}
		return nil, err
	}
	return s, nil
}

// ListSnapshotsBySession returns all snapshots of one session ordered by
// parsed_at ascending.
func ListSnapshotsBySession(ctx context.Context, db *gorm.DB, sessionID uint) ([]domain.Snapshot, error) {
	var out []domain.Snapshot
	err := db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Order("parsed_at asc").
		Find(&out).Error
	return out, err
}

// ListSnapshotsByProfile returns up to limit snapshots of one profile,
// newest first.
func ListSnapshotsByProfile(ctx context.Context, db *gorm.DB, profileID uint, limit int) ([]domain.Snapshot, error) {
	var out []domain.Snapshot
	q := db.WithContext(ctx).
		Where("profile_id = ?", profileID).
		Order("parsed_at desc")
	if limit > 0 {
		q = q.Limit(limit)
	}
	err := q.Find(&out).Error
	return out, err
}

// SessionProfileRow is one profile joined with its snapshot within a
// session, as rendered on a session detail page.
type SessionProfileRow struct {
	ProfileID      uint       `json:"profile_id"`
	SteamID        string     `json:"steam_id"`
	Nickname       *string    `json:"nickname"`
	Country        *string    `json:"country"`
	AvatarURL      *string    `json:"avatar_url"`
	ProfileURL     *string    `json:"profile_url"`
	SnapshotID     uint       `json:"snapshot_id"`
	SteamLevel     int        `json:"steam_level"`
	GamesCount     int        `json:"games_count"`
	LibraryValue   float64    `json:"library_value"`
	InventoryValue float64    `json:"inventory_value"`
	TotalValue     float64    `json:"total_value"`
	ParsedAt       time.Time  `json:"parsed_at"`
	Status         string     `json:"status"`
	ErrorMessage   *string    `json:"error_message,omitempty"`
}

// ListSessionProfiles returns every profile observed in a session joined
// with its snapshot, most valuable first.
func ListSessionProfiles(ctx context.Context, db *gorm.DB, sessionID uint) ([]SessionProfileRow, error) {
	var out []SessionProfileRow
	err := db.WithContext(ctx).
		Table("profile_snapshots ps").
		Select(`p.id AS profile_id, p.steam_id, p.nickname, p.country, p.avatar_url, p.profile_url,
			ps.id AS snapshot_id, ps.steam_level, ps.games_count,
			ps.library_value, ps.inventory_value, ps.total_value,
			ps.parsed_at, ps.status, ps.error_message`).
		Joins("JOIN profiles p ON p.id = ps.profile_id").
		Where("ps.session_id = ?", sessionID).
		Order("ps.total_value DESC").
		Scan(&out).Error
	return out, err
}

// ProfileHistoryRow is one snapshot of a profile joined with the parse
// time of the session that produced it.
type ProfileHistoryRow struct {
	SessionID        uint      `json:"session_id"`
	ParseTime        time.Time `json:"parse_time"`
	ParseTimeDisplay string    `json:"parse_time_display"`
	SnapshotID       uint      `json:"snapshot_id"`
	SteamLevel       int       `json:"steam_level"`
	GamesCount       int       `json:"games_count"`
	LibraryValue     float64   `json:"library_value"`
	InventoryValue   float64   `json:"inventory_value"`
	TotalValue       float64   `json:"total_value"`
	Status           string    `json:"status"`
}

// ListProfileHistory returns up to limit history rows for a profile,
// newest session first.
func ListProfileHistory(ctx context.Context, db *gorm.DB, profileID uint, limit int) ([]ProfileHistoryRow, error) {
	q := db.WithContext(ctx).
		Table("profile_snapshots ps").
		Select(`s.id AS session_id, s.parse_time, s.parse_time_display,
			ps.id AS snapshot_id, ps.steam_level, ps.games_count,
			ps.library_value, ps.inventory_value, ps.total_value, ps.status`).
		Joins("JOIN parse_sessions s ON s.id = ps.session_id").
		Where("ps.profile_id = ?", profileID).
		Order("s.parse_time DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	var out []ProfileHistoryRow
	err := q.Scan(&out).Error
	return out, err
}
