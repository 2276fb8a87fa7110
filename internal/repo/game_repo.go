// Package repo – Game identity registry.
package repo

import (
	"context"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/akozlov/go-steam-store/internal/domain"
)

// UpsertGame resolves an app id to its canonical Game row, creating it on
// first encounter. Only the name may change on later resolutions; a blank
// name never overwrites an existing one.
//
// Same race discipline as UpsertProfile: one conditional statement keyed
// by the unique app_id index, then a re-read by identity key.
//
// Errors:
//   - ErrInvalidAppID when appID is not positive.
//   - The underlying DB error otherwise.
func UpsertGame(ctx context.Context, db *gorm.DB, appID int64, name string) (*domain.Game, error) {
	if appID <= 0 {
		return nil, ErrInvalidAppID
	}

	g := &domain.Game{AppID: appID, Name: strings.TrimSpace(name)}
	conflict := clause.OnConflict{
		Columns:   []clause.Column{{Name: "app_id"}},
		DoNothing: true,
	}
	if g.Name != "" {
		conflict.DoNothing = false
		conflict.DoUpdates = clause.Assignments(map[string]interface{}{"name": g.Name})
	}
	err := db.WithContext(ctx).Clauses(conflict).Create(g).Error
	if err != nil && !isDuplicate(err) {
		return nil, err
	}

	var out domain.Game
	if err := db.WithContext(ctx).Where("app_id = ?", appID).First(&out).Error; err != nil {
		return nil, err
	}
	return &out, nil
}

// GetGameByAppID fetches a game by its external identity key.
// Returns ErrNotFound if no such game exists.
func GetGameByAppID(ctx context.Context, db *gorm.DB, appID int64) (*domain.Game, error) {
	var g domain.Game
	if err := db.WithContext(ctx).Where("app_id = ?", appID).First(&g).Error; err != nil {
		return nil, err
	}
	return &g, nil
}
