// Package domain – inbound batch descriptor.
//
// These types describe what the scraping collaborator hands over per run:
// session framing (display time, external token) plus one observation per
// profile, each either a success record with measured values and owned
// games, or a failure record carrying only the error message.
package domain

import "time"

// Batch is one ingestion run's worth of scraped data.
//
// ParseTime, DisplayTime, and TimestampToken may be left zero/empty; the
// ingest service derives them from the current instant using
// TimeDisplayLayout and TimestampTokenLayout.
type Batch struct {
	ParseTime      time.Time            `json:"parse_time,omitempty"`
	DisplayTime    string               `json:"display_time,omitempty"`
	TimestampToken string               `json:"timestamp_token,omitempty"`
	Observations   []ProfileObservation `json:"observations"`
}

// ProfileObservation is one profile's scrape result within a batch.
// A non-empty ErrorMessage marks the observation as failed; measured
// values and OwnedGames are only meaningful on success.
type ProfileObservation struct {
	SteamID        string      `json:"steam_id"`
	Nickname       *string     `json:"nickname,omitempty"`
	Country        *string     `json:"country,omitempty"`
	AvatarURL      *string     `json:"avatar_url,omitempty"`
	ProfileURL     *string     `json:"profile_url,omitempty"`
	SteamLevel     int         `json:"steam_level"`
	GamesCount     int         `json:"games_count"`
	LibraryValue   float64     `json:"library_value"`
	InventoryValue float64     `json:"inventory_value"`
	OwnedGames     []OwnedGame `json:"owned_games,omitempty"`
	ErrorMessage   string      `json:"error_message,omitempty"`
}

// Failed reports whether the observation represents a scrape failure.
func (o ProfileObservation) Failed() bool { return o.ErrorMessage != "" }

// OwnedGame is one owned-game record inside a successful observation.
// Playtime values are minutes, as reported by the Steam Web API.
type OwnedGame struct {
	AppID           int64      `json:"app_id"`
	Name            string     `json:"name"`
	PlaytimeForever int        `json:"playtime_forever"`
	Playtime2Weeks  int        `json:"playtime_2weeks"`
	LastPlayed      *time.Time `json:"last_played,omitempty"`
}
