// Package repo – profile↔game ownership relation.
package repo

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/akozlov/go-steam-store/internal/domain"
)

// OwnershipValues carries the latest-known playtime state for one owned
// game. Values are overwritten on every refresh, never accumulated;
// per-session history lives in the snapshot store.
type OwnershipValues struct {
	PlaytimeForever int
	Playtime2Weeks  int
	LastPlayed      *time.Time
}

// UpsertOwnership records that a profile owns a game. The first
// observation inserts the row and stamps first_seen; every later one
// overwrites playtime and last_played in place. A smaller playtime than
// previously stored is accepted; external playtime can reset.
//
// Same single-statement upsert discipline as the identity registry,
// keyed by the unique (profile_id, game_id) index.
//
// Errors:
//   - ErrNegativeValue when either playtime is negative.
//   - ErrReferentialViolation when the profile or game does not exist.
//   - The underlying DB error otherwise.
func UpsertOwnership(ctx context.Context, db *gorm.DB, profileID, gameID uint, v OwnershipValues) (*domain.ProfileGame, error) {
	if v.PlaytimeForever < 0 || v.Playtime2Weeks < 0 {
		return nil, ErrNegativeValue
	}

	row := &domain.ProfileGame{
		ProfileID:       profileID,
		GameID:          gameID,
		PlaytimeForever: v.PlaytimeForever,
		Playtime2Weeks:  v.Playtime2Weeks,
		LastPlayed:      v.LastPlayed,
	}
	err := db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "profile_id"}, {Name: "game_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"playtime_forever": v.PlaytimeForever,
			"playtime_2weeks":  v.Playtime2Weeks,
			"last_played":      v.LastPlayed,
		}),
	}).Create(row).Error
	if err != nil {
		if isFKViolation(err) {
			return nil, ErrReferentialViolation
		}
		if !isDuplicate(err) {
			return nil, err
		}
	}

	var out domain.ProfileGame
	if err := db.WithContext(ctx).
		Where("profile_id = ? AND game_id = ?", profileID, gameID).
		First(&out).Error; err != nil {
		return nil, err
	}
	return &out, nil
}

// ListOwnership returns a profile's owned games ordered by total playtime
// descending.
func ListOwnership(ctx context.Context, db *gorm.DB, profileID uint) ([]domain.ProfileGame, error) {
	var out []domain.ProfileGame
	err := db.WithContext(ctx).
		Where("profile_id = ?", profileID).
		Order("playtime_forever desc").
		Find(&out).Error
	return out, err
}
