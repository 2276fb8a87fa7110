// Package repo – Profile identity registry.
//
// Profiles are canonical, session-independent entities keyed by SteamID64.
// UpsertProfile is the only write path: a single INSERT ... ON CONFLICT
// DO UPDATE statement keyed by steam_id, so two sessions racing to resolve
// the same identity can never create two rows. Mutable attributes are
// last-write-wins; first_seen survives every refresh.
package repo

import (
	"context"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/akozlov/go-steam-store/internal/domain"
)

// ProfileAttrs carries the mutable attributes applied on every resolution
// of a profile identity.
type ProfileAttrs struct {
	Nickname   *string
	Country    *string
	AvatarURL  *string
	ProfileURL *string
	SteamLevel int
}

// UpsertProfile resolves a SteamID64 to its canonical Profile row,
// creating it on first encounter and overwriting mutable attributes
// (and bumping last_updated) on every later one.
//
// The upsert is a single conditional statement keyed by the unique
// steam_id index, so concurrent resolutions of the same identity cannot
// duplicate the row; the loser of a race lands on the winner's row via
// the follow-up read.
//
// Errors:
//   - ErrInvalidSteamID when steamID is empty or not a decimal SteamID64.
//   - ErrNegativeValue when attrs.SteamLevel is negative.
//   - The underlying DB error otherwise.
func UpsertProfile(ctx context.Context, db *gorm.DB, steamID string, attrs ProfileAttrs) (*domain.Profile, error) {
	steamID = strings.TrimSpace(steamID)
	if !validSteamID(steamID) {
		return nil, ErrInvalidSteamID
	}
	if attrs.SteamLevel < 0 {
		return nil, ErrNegativeValue
	}

	now := time.Now().UTC()
	p := &domain.Profile{
		SteamID:     steamID,
		Nickname:    attrs.Nickname,
		Country:     attrs.Country,
		AvatarURL:   attrs.AvatarURL,
		ProfileURL:  attrs.ProfileURL,
		SteamLevel:  attrs.SteamLevel,
		FirstSeen:   now,
		LastUpdated: now,
	}
	err := db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "steam_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"nickname":     attrs.Nickname,
			"country":      attrs.Country,
			"avatar_url":   attrs.AvatarURL,
			"profile_url":  attrs.ProfileURL,
			"steam_level":  attrs.SteamLevel,
			"last_updated": now,
		}),
	}).Create(p).Error
	if err != nil && !isDuplicate(err) {
		return nil, err
	}

	// On the conflict path the insert does not report the existing ID;
	// re-read by identity key either way.
	var out domain.Profile
	if err := db.WithContext(ctx).Where("steam_id = ?", steamID).First(&out).Error; err != nil {
		return nil, err
	}
	return &out, nil
}

// GetProfileBySteamID fetches a profile by its external identity key.
// Returns ErrNotFound if no such profile exists.
func GetProfileBySteamID(ctx context.Context, db *gorm.DB, steamID string) (*domain.Profile, error) {
	var p domain.Profile
	if err := db.WithContext(ctx).Where("steam_id = ?", steamID).First(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

// GetProfile fetches a profile by surrogate id. Returns ErrNotFound if missing.
func GetProfile(ctx context.Context, db *gorm.DB, id uint) (*domain.Profile, error) {
	var p domain.Profile
	if err := db.WithContext(ctx).First(&p, id).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

// ListProfiles returns all known profiles ordered by first_seen ascending.
func ListProfiles(ctx context.Context, db *gorm.DB) ([]domain.Profile, error) {
	var out []domain.Profile
	err := db.WithContext(ctx).Order("first_seen asc").Find(&out).Error
	return out, err
}

// DeleteProfile removes a profile together with all its snapshots and
// ownership rows in one transaction. Sessions and other profiles' rows
// are untouched. Returns ErrNotFound if the profile does not exist.
func DeleteProfile(ctx context.Context, db *gorm.DB, id uint) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("profile_id = ?", id).Delete(&domain.Snapshot{}).Error; err != nil {
			return err
		}
		if err := tx.Where("profile_id = ?", id).Delete(&domain.ProfileGame{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&domain.Profile{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

// validSteamID reports whether s looks like a SteamID64: a non-empty
// string of decimal digits.
func validSteamID(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
