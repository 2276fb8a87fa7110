// Package repo – parse session ledger.
//
// One ParseSession row records one ingestion run: aggregate counters
// maintained by atomic in-database increments, and a status that moves
// from pending to exactly one terminal value. Deleting a session cascades
// to its snapshots only; profiles and games are session-independent.
package repo

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/akozlov/go-steam-store/internal/domain"
)

// CreateSession opens a new parse session with status pending and all
// counters at zero. A zero parseTime defaults to the current instant;
// empty displayTime/timestampToken are derived from parseTime using the
// domain layouts.
func CreateSession(ctx context.Context, db *gorm.DB, parseTime time.Time, displayTime, timestampToken string) (*domain.ParseSession, error) {
	if parseTime.IsZero() {
		parseTime = time.Now().UTC()
	}
	if displayTime == "" {
		displayTime = parseTime.Format(domain.TimeDisplayLayout)
	}
	if timestampToken == "" {
		timestampToken = parseTime.Format(domain.TimestampTokenLayout)
	}

	s := &domain.ParseSession{
		ParseTime:        parseTime,
		ParseTimeDisplay: displayTime,
		TimestampStr:     timestampToken,
		Status:           domain.SessionStatusPending,
	}
	if err := db.WithContext(ctx).Create(s).Error; err != nil {
		return nil, err
	}
	return s, nil
}

// GetSession fetches a session by id. Returns ErrNotFound if missing.
func GetSession(ctx context.Context, db *gorm.DB, id uint) (*domain.ParseSession, error) {
	var s domain.ParseSession
	if err := db.WithContext(ctx).First(&s, id).Error; err != nil {
		return nil, err
	}
	return &s, nil
}

// ListSessions returns up to limit sessions ordered by parse_time
// descending (most recent run first).
func ListSessions(ctx context.Context, db *gorm.DB, limit int) ([]domain.ParseSession, error) {
	var out []domain.ParseSession
	q := db.WithContext(ctx).Order("parse_time desc")
	if limit > 0 {
		q = q.Limit(limit)
	}
	err := q.Find(&out).Error
	return out, err
}

// RecordOutcome bumps the session counters for one observed profile:
// total_profiles always, plus successful_profiles or failed_profiles
// depending on success. The increments happen in a single UPDATE with
// SQL expressions, so concurrent recorders for the same session cannot
// lose updates, and successful + failed can never exceed total.
//
// Returns ErrNotFound if the session does not exist.
func RecordOutcome(ctx context.Context, db *gorm.DB, id uint, success bool) error {
	cols := map[string]interface{}{
		"total_profiles": gorm.Expr("total_profiles + 1"),
		"updated_at":     time.Now().UTC(),
	}
	if success {
		cols["successful_profiles"] = gorm.Expr("successful_profiles + 1")
	} else {
		cols["failed_profiles"] = gorm.Expr("failed_profiles + 1")
	}

	res := db.WithContext(ctx).
		Model(&domain.ParseSession{}).
		Where("id = ?", id).
		Updates(cols)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// FinalizeSession moves a pending session to a terminal status, exactly
// once. The UPDATE is guarded by status = 'pending', so a second call
// (or a concurrent one) affects zero rows and is rejected without
// touching the first outcome.
//
// Errors:
//   - ErrNotTerminalStatus when status is not success or failed.
//   - ErrNotFound when the session does not exist.
//   - ErrSessionFinalized when the session already left pending.
func FinalizeSession(ctx context.Context, db *gorm.DB, id uint, status string) error {
	if status != domain.SessionStatusSuccess && status != domain.SessionStatusFailed {
		return ErrNotTerminalStatus
	}

	res := db.WithContext(ctx).
		Model(&domain.ParseSession{}).
		Where("id = ? AND status = ?", id, domain.SessionStatusPending).
		Updates(map[string]interface{}{
			"status":     status,
			"updated_at": time.Now().UTC(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		// Disambiguate: missing row vs. already-terminal row.
		if _, err := GetSession(ctx, db, id); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return gorm.ErrRecordNotFound
			}
			return err
		}
		return ErrSessionFinalized
	}
	return nil
}

// DeleteSession removes a session together with all its snapshots in one
// transaction (administrative purge). Profiles and games referenced by
// those snapshots are left intact. Returns ErrNotFound if the session
// does not exist.
func DeleteSession(ctx context.Context, db *gorm.DB, id uint) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("session_id = ?", id).Delete(&domain.Snapshot{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&domain.ParseSession{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}
