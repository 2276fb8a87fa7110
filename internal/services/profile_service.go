// Package services – ProfileService
//
// Point lookups and history reads over canonical profiles, plus the
// profile-side cascade delete.
package services

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/akozlov/go-steam-store/internal/domain"
	"github.com/akozlov/go-steam-store/internal/repo"
	"github.com/akozlov/go-steam-store/internal/utils"
)

// ProfileService implements the query use-cases around profiles.
type ProfileService struct {
	DB *gorm.DB

	// MaxHistoryLimit caps History; zero means utils.DefaultHistoryLimit.
	MaxHistoryLimit int
}

// Lookup fetches a profile by its external SteamID64.
//
// Errors:
//   - ErrInvalidSteamID when steamID is blank.
//   - ErrProfileNotFound when no such profile exists.
func (s *ProfileService) Lookup(ctx context.Context, steamID string) (*domain.Profile, error) {
	if strings.TrimSpace(steamID) == "" {
		return nil, ErrInvalidSteamID
	}
	p, err := repo.GetProfileBySteamID(ctx, s.DB, steamID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, err
	}
	return p, nil
}

// List returns every known profile, oldest first seen first.
func (s *ProfileService) List(ctx context.Context) ([]domain.Profile, error) {
	return repo.ListProfiles(ctx, s.DB)
}

// History returns a profile's snapshots joined with the parse times of
// the sessions that produced them, newest first.
func (s *ProfileService) History(ctx context.Context, profileID uint, limit int) ([]repo.ProfileHistoryRow, error) {
	if _, err := repo.GetProfile(ctx, s.DB, profileID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, err
	}
	max := s.MaxHistoryLimit
	if max <= 0 {
		max = utils.DefaultHistoryLimit
	}
	return repo.ListProfileHistory(ctx, s.DB, profileID, utils.ClampLimit(limit, max))
}

// OwnedGames returns the profile's ownership rows, most played first.
func (s *ProfileService) OwnedGames(ctx context.Context, profileID uint) ([]domain.ProfileGame, error) {
	if _, err := repo.GetProfile(ctx, s.DB, profileID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, err
	}
	return repo.ListOwnership(ctx, s.DB, profileID)
}

// Delete removes a profile together with its snapshots and ownership rows.
// Sessions and other profiles are untouched.
func (s *ProfileService) Delete(ctx context.Context, profileID uint) error {
	err := repo.DeleteProfile(ctx, s.DB, profileID)
	if errors.Is(err, repo.ErrNotFound) {
		return ErrProfileNotFound
	}
	return err
}
