// Package domain defines the persistence models for parse sessions, profiles,
// snapshots, games, and ownership rows. These types are mapped with GORM and
// form the core data layer of the Steam profile store.
package domain

import (
	"math"
	"time"

	"gorm.io/gorm"
)

// Session status values. A session starts pending and is finalized exactly
// once to one of the terminal values.
const (
	SessionStatusPending = "pending"
	SessionStatusSuccess = "success"
	SessionStatusFailed  = "failed"
)

// Snapshot status values (per-profile outcome within a session).
const (
	SnapshotStatusSuccess = "success"
	SnapshotStatusFailed  = "failed"
	SnapshotStatusPending = "pending"
)

// Time layouts used for the human-display time and the external
// timestamp-token correlation string on a session.
const (
	TimeDisplayLayout    = "02.01.2006 15:04:05"
	TimestampTokenLayout = "20060102_150405"
)

// ParseSession represents one ingestion run over a batch of profiles.
//
// Fields:
//   - ID: numeric surrogate primary key, assigned on creation.
//   - ParseTime: instant the run started; defaults to creation time.
//   - ParseDate: calendar date of ParseTime. Derived in BeforeSave and
//     never independently writable.
//   - ParseTimeDisplay: human-readable rendering of ParseTime.
//   - TimestampStr: raw timestamp token used as an external correlation id.
//   - TotalProfiles / SuccessfulProfiles / FailedProfiles: caller-maintained
//     counters; successful + failed never exceeds total.
//   - Status: pending | success | failed. Set to a terminal value exactly once.
//   - CreatedAt / UpdatedAt: timestamps managed by GORM.
type ParseSession struct {
	ID                 uint      `json:"id"                  gorm:"primaryKey"`
	ParseTime          time.Time `json:"parse_time"          gorm:"not null;index"`
	ParseDate          time.Time `json:"parse_date"          gorm:"type:date;not null"`
	ParseTimeDisplay   string    `json:"parse_time_display"  gorm:"type:varchar(32);not null"`
	TimestampStr       string    `json:"timestamp_str"       gorm:"type:varchar(32);not null;index"`
	TotalProfiles      int       `json:"total_profiles"      gorm:"not null;default:0;check:total_profiles >= 0"`
	SuccessfulProfiles int       `json:"successful_profiles" gorm:"not null;default:0;check:successful_profiles >= 0"`
	FailedProfiles     int       `json:"failed_profiles"     gorm:"not null;default:0;check:failed_profiles >= 0"`
	Status             string    `json:"status"              gorm:"type:varchar(16);not null;default:'pending';check:status IN ('pending','success','failed')"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

// TableName returns the database table name for ParseSession.
func (ParseSession) TableName() string { return "parse_sessions" }

// BeforeSave defaults ParseTime to the current instant and derives
// ParseDate from it. ParseDate is always recomputed here, so callers
// cannot set it independently of ParseTime.
func (s *ParseSession) BeforeSave(tx *gorm.DB) error {
	if s.ParseTime.IsZero() {
		s.ParseTime = time.Now().UTC()
	}
	y, m, d := s.ParseTime.UTC().Date()
	s.ParseDate = time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return nil
}

// Profile represents one canonical Steam identity, independent of any
// session. There is exactly one row per distinct SteamID; repeated
// ingestion updates the row in place (upsert-by-identity).
//
// Fields:
//   - ID: numeric surrogate primary key.
//   - SteamID: external SteamID64, globally unique, immutable identity key.
//   - Nickname / Country / AvatarURL / ProfileURL: mutable display
//     attributes, nullable.
//   - SteamLevel: latest known level (non-negative).
//   - FirstSeen: set on first insert, immutable.
//   - LastUpdated: bumped on every mutation.
type Profile struct {
	ID          uint      `json:"id"           gorm:"primaryKey"`
	SteamID     string    `json:"steam_id"     gorm:"type:varchar(32);not null;uniqueIndex:ux_profiles_steam_id"`
	Nickname    *string   `json:"nickname"     gorm:"type:varchar(255)"`
	Country     *string   `json:"country"      gorm:"type:varchar(8)"`
	AvatarURL   *string   `json:"avatar_url"   gorm:"type:text"`
	ProfileURL  *string   `json:"profile_url"  gorm:"type:text"`
	SteamLevel  int       `json:"steam_level"  gorm:"not null;default:0;check:steam_level >= 0"`
	FirstSeen   time.Time `json:"first_seen"   gorm:"not null;autoCreateTime"`
	LastUpdated time.Time `json:"last_updated" gorm:"not null;autoUpdateTime"`
}

// TableName returns the database table name for Profile.
func (Profile) TableName() string { return "profiles" }

// Snapshot is the immutable record of one profile's measured state within
// one session. At most one snapshot exists per (session, profile) pair;
// a re-observation within the same session is a conflict, never an update.
//
// Fields:
//   - SessionID / ProfileID: owning references; unique together.
//   - SteamLevel / GamesCount: observed values (non-negative).
//   - LibraryValue / InventoryValue: non-negative USD amounts, 2-decimal.
//   - TotalValue: derived LibraryValue + InventoryValue. Recomputed in
//     BeforeSave and again in AfterFind, so a stored value can never
//     drift from its inputs as observed by readers.
//   - ParsedAt: set on creation.
//   - Status: success | failed | pending (per-profile outcome).
//   - ErrorMessage: populated only when Status != success.
type Snapshot struct {
	ID             uint      `json:"id"              gorm:"primaryKey"`
	SessionID      uint      `json:"session_id"      gorm:"not null;uniqueIndex:ux_snapshots_session_profile,priority:1;index"`
	ProfileID      uint      `json:"profile_id"      gorm:"not null;uniqueIndex:ux_snapshots_session_profile,priority:2;index"`
	SteamLevel     int       `json:"steam_level"     gorm:"not null;default:0;check:steam_level >= 0"`
	GamesCount     int       `json:"games_count"     gorm:"not null;default:0;check:games_count >= 0"`
	LibraryValue   float64   `json:"library_value"   gorm:"type:numeric(12,2);not null;default:0"`
	InventoryValue float64   `json:"inventory_value" gorm:"type:numeric(12,2);not null;default:0"`
	TotalValue     float64   `json:"total_value"     gorm:"type:numeric(12,2);not null;default:0"`
	ParsedAt       time.Time `json:"parsed_at"       gorm:"not null;index"`
	Status         string    `json:"status"          gorm:"type:varchar(16);not null;default:'success';check:status IN ('success','failed','pending')"`
	ErrorMessage   *string   `json:"error_message,omitempty" gorm:"type:text"`
	CreatedAt      time.Time `json:"created_at"`

	// Owning references. Cascade deletion is performed explicitly by the
	// repo layer inside one transaction; the FK constraints guard against
	// snapshots pointing at rows that were never created.
	Session ParseSession `json:"-" gorm:"foreignKey:SessionID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
	Profile Profile      `json:"-" gorm:"foreignKey:ProfileID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// TableName returns the database table name for Snapshot.
func (Snapshot) TableName() string { return "profile_snapshots" }

// BeforeSave normalizes monetary inputs to 2 decimal places, derives
// TotalValue from them, and defaults ParsedAt/Status.
func (s *Snapshot) BeforeSave(tx *gorm.DB) error {
	s.LibraryValue = Round2(s.LibraryValue)
	s.InventoryValue = Round2(s.InventoryValue)
	s.TotalValue = Round2(s.LibraryValue + s.InventoryValue)
	if s.ParsedAt.IsZero() {
		s.ParsedAt = time.Now().UTC()
	}
	if s.Status == "" {
		s.Status = SnapshotStatusSuccess
	}
	return nil
}

// AfterFind re-derives TotalValue from its inputs on every read, so the
// invariant total = library + inventory holds even if the stored column
// was tampered with out of band.
func (s *Snapshot) AfterFind(tx *gorm.DB) error {
	s.TotalValue = Round2(s.LibraryValue + s.InventoryValue)
	return nil
}

// Game is the canonical reference entity for one Steam application id.
// Exactly one row exists per distinct AppID.
type Game struct {
	ID        uint      `json:"id"         gorm:"primaryKey"`
	AppID     int64     `json:"app_id"     gorm:"not null;uniqueIndex:ux_games_app_id"`
	Name      string    `json:"name"       gorm:"type:varchar(255);not null"`
	CreatedAt time.Time `json:"created_at" gorm:"not null;autoCreateTime"`
}

// TableName returns the database table name for Game.
func (Game) TableName() string { return "games" }

// ProfileGame relates a profile to a game it owns. The relation is not
// session-scoped: later sessions overwrite playtime and LastPlayed in
// place (latest-known state, not cumulative history). Playtime is allowed
// to shrink between refreshes; external playtime can legitimately reset.
//
// Exactly one row exists per (profile, game) pair.
type ProfileGame struct {
	ID              uint       `json:"id"               gorm:"primaryKey"`
	ProfileID       uint       `json:"profile_id"       gorm:"not null;uniqueIndex:ux_profile_games,priority:1;index"`
	GameID          uint       `json:"game_id"          gorm:"not null;uniqueIndex:ux_profile_games,priority:2;index"`
	PlaytimeForever int        `json:"playtime_forever" gorm:"not null;default:0;check:playtime_forever >= 0"`
	Playtime2Weeks  int        `json:"playtime_2weeks"  gorm:"column:playtime_2weeks;not null;default:0;check:playtime_2weeks >= 0"`
	FirstSeen       time.Time  `json:"first_seen"       gorm:"not null;autoCreateTime"`
	LastPlayed      *time.Time `json:"last_played,omitempty"`

	Profile Profile `json:"-" gorm:"foreignKey:ProfileID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
	Game    Game    `json:"-" gorm:"foreignKey:GameID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// TableName returns the database table name for ProfileGame.
func (ProfileGame) TableName() string { return "profile_games" }

// Round2 rounds a monetary amount to 2 decimal places, half away from zero.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
