// Package repo – session aggregation view.
//
// SessionSummary is a pure derived read over the ledger, the snapshot
// store, and the profile registry. It is computed on demand and never
// materialized: the ledger's own counters (total/successful/failed) stay
// the single source of truth for run accounting, while the aggregates
// here are re-derived from snapshot inputs on every call.
package repo

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/akozlov/go-steam-store/internal/domain"
	"github.com/akozlov/go-steam-store/internal/utils"
)

// SessionSummary is the per-session rollup exposed to reporting callers.
// Ledger fields are copied from the session row; the remaining fields are
// aggregated over the session's snapshots joined with their profiles.
type SessionSummary struct {
	SessionID           uint      `json:"session_id"`
	ParseTime           time.Time `json:"parse_time"`
	ParseTimeDisplay    string    `json:"parse_time_display"`
	Status              string    `json:"status"`
	TotalProfiles       int       `json:"total_profiles"`
	SuccessfulProfiles  int       `json:"successful_profiles"`
	FailedProfiles      int       `json:"failed_profiles"`
	CountriesCount      int       `json:"countries_count"`
	TotalGames          int64     `json:"total_games"`
	AvgLevel            float64   `json:"avg_level"`
	TotalLibraryValue   float64   `json:"total_library_value"`
	TotalInventoryValue float64   `json:"total_inventory_value"`
	GrandTotalValue     float64   `json:"grand_total_value"`
}

// summarySelect aggregates snapshot rows joined with profiles. The grand
// total is summed from the two monetary inputs rather than the stored
// total_value column, so the rollup can never drift from its sources.
const summarySelect = `
	COUNT(DISTINCT p.country)                              AS countries_count,
	COALESCE(SUM(ps.games_count), 0)                       AS total_games,
	COALESCE(ROUND(AVG(ps.steam_level), 2), 0)             AS avg_level,
	COALESCE(SUM(ps.library_value), 0)                     AS total_library_value,
	COALESCE(SUM(ps.inventory_value), 0)                   AS total_inventory_value,
	COALESCE(SUM(ps.library_value + ps.inventory_value), 0) AS grand_total_value`

// SummarizeSession computes the rollup for one session. A session with no
// snapshots yields zero aggregates, not an error. Returns ErrNotFound if
// the session itself does not exist.
func SummarizeSession(ctx context.Context, db *gorm.DB, sessionID uint) (*SessionSummary, error) {
	s, err := GetSession(ctx, db, sessionID)
	if err != nil {
		return nil, err
	}

	out := SessionSummary{
		SessionID:          s.ID,
		ParseTime:          s.ParseTime,
		ParseTimeDisplay:   s.ParseTimeDisplay,
		Status:             s.Status,
		TotalProfiles:      s.TotalProfiles,
		SuccessfulProfiles: s.SuccessfulProfiles,
		FailedProfiles:     s.FailedProfiles,
	}
	err = db.WithContext(ctx).
		Table("profile_snapshots ps").
		Select(summarySelect).
		Joins("JOIN profiles p ON p.id = ps.profile_id").
		Where("ps.session_id = ?", sessionID).
		Scan(&out).Error
	if err != nil {
		return nil, err
	}
	roundSummary(&out)
	return &out, nil
}

// ListSessionSummaries computes rollups for up to limit sessions, most
// recent parse_time first. Sessions without snapshots appear with zero
// aggregates.
func ListSessionSummaries(ctx context.Context, db *gorm.DB, limit int) ([]SessionSummary, error) {
	q := db.WithContext(ctx).
		Table("parse_sessions s").
		Select(`s.id AS session_id, s.parse_time, s.parse_time_display, s.status,
			s.total_profiles, s.successful_profiles, s.failed_profiles,` + summarySelect).
		Joins("LEFT JOIN profile_snapshots ps ON ps.session_id = s.id").
		Joins("LEFT JOIN profiles p ON p.id = ps.profile_id").
		Group("s.id").
		Order("s.parse_time DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	var out []SessionSummary
	if err := q.Scan(&out).Error; err != nil {
		return nil, err
	}
	for i := range out {
		roundSummary(&out[i])
	}
	return out, nil
}

// Label renders the one-line session description used by reporting
// callers when listing runs, e.g.
// "07.03.2026 14:05:00 | 5/6 ok | $1,234.56".
func (s SessionSummary) Label() string {
	return fmt.Sprintf("%s | %d/%d ok | %s",
		s.ParseTimeDisplay, s.SuccessfulProfiles, s.TotalProfiles,
		utils.FormatUSD(s.GrandTotalValue))
}

func roundSummary(s *SessionSummary) {
	s.AvgLevel = domain.Round2(s.AvgLevel)
	s.TotalLibraryValue = domain.Round2(s.TotalLibraryValue)
	s.TotalInventoryValue = domain.Round2(s.TotalInventoryValue)
	s.GrandTotalValue = domain.Round2(s.GrandTotalValue)
}
