// Package services – IngestService
//
// This file implements IngestService, the application-level component that
// consumes one scraped batch and persists it: it opens a parse session,
// resolves every observed identity through the registries, appends one
// snapshot per profile, refreshes the ownership relation, keeps the
// session counters current, and finalizes the session exactly once.
//
// Failed observations are ingested, not rejected: they become failed
// snapshots carrying the scrape error, and a finalized session with
// failed_profiles > 0 is a normal outcome.
//
// Observability: the batch runs under an OpenTelemetry span, every step is
// logged with zerolog under a per-run correlation id, and Prometheus
// counters in internal/metrics track snapshots, finalizations, and
// identity upserts.
package services

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/akozlov/go-steam-store/internal/domain"
	"github.com/akozlov/go-steam-store/internal/metrics"
	"github.com/akozlov/go-steam-store/internal/repo"
)

// IngestService persists scraped batches. The zero value is not usable;
// DB must be set. Log may be a no-op logger.
type IngestService struct {
	DB  *gorm.DB
	Log zerolog.Logger
}

// IngestReport summarizes one completed batch ingestion.
type IngestReport struct {
	SessionID  uint   `json:"session_id"`
	RunID      string `json:"run_id"`
	Total      int    `json:"total"`
	Successful int    `json:"successful"`
	Failed     int    `json:"failed"`
	// Duplicates counts observations skipped because their profile was
	// already snapshotted in this session (caller logic error; the first
	// snapshot stands and the batch continues).
	Duplicates int    `json:"duplicates"`
	Status     string `json:"status"`
}

// IngestBatch ingests one batch as a new parse session and returns the
// resulting report. Per-profile scrape failures never abort the batch;
// only infrastructure errors (storage failures) do, in which case the
// session is left pending as partial history for an administrative purge.
//
// The session is finalized success when at least one profile succeeded,
// failed otherwise.
func (s *IngestService) IngestBatch(ctx context.Context, batch domain.Batch) (*IngestReport, error) {
	if len(batch.Observations) == 0 {
		return nil, ErrEmptyBatch
	}

	tracer := otel.Tracer("services.IngestService")
	ctx, span := tracer.Start(ctx, "IngestBatch", trace.WithAttributes(
		attribute.Int("batch.observations", len(batch.Observations)),
	))
	defer span.End()

	start := time.Now()
	runID := uuid.NewString()
	log := s.Log.With().Str("run_id", runID).Logger()

	session, err := repo.CreateSession(ctx, s.DB, batch.ParseTime, batch.DisplayTime, batch.TimestampToken)
	if err != nil {
		return nil, err
	}
	span.SetAttributes(attribute.Int64("session.id", int64(session.ID)))
	log.Info().
		Uint("session_id", session.ID).
		Int("observations", len(batch.Observations)).
		Msg("parse session opened")

	report := &IngestReport{SessionID: session.ID, RunID: runID}
	for _, obs := range batch.Observations {
		ok, err := s.ingestObservation(ctx, log, session.ID, obs)
		if err != nil {
			if errors.Is(err, repo.ErrDuplicateSnapshot) {
				report.Duplicates++
				log.Error().
					Uint("session_id", session.ID).
					Str("steam_id", obs.SteamID).
					Msg("profile reported twice in one session, first snapshot kept")
				continue
			}
			return report, err
		}

		if err := repo.RecordOutcome(ctx, s.DB, session.ID, ok); err != nil {
			return report, err
		}
		report.Total++
		if ok {
			report.Successful++
		} else {
			report.Failed++
		}
	}

	status := domain.SessionStatusFailed
	if report.Successful > 0 {
		status = domain.SessionStatusSuccess
	}
	if err := repo.FinalizeSession(ctx, s.DB, session.ID, status); err != nil {
		return report, err
	}
	report.Status = status
	metrics.SessionsFinalized.WithLabelValues(status).Inc()
	metrics.IngestDuration.Observe(time.Since(start).Seconds())

	log.Info().
		Uint("session_id", session.ID).
		Str("status", status).
		Int("successful", report.Successful).
		Int("failed", report.Failed).
		Int("duplicates", report.Duplicates).
		Dur("elapsed", time.Since(start)).
		Msg("parse session finalized")
	return report, nil
}

// ingestObservation persists one observation and reports whether it was a
// successful scrape. Validation errors on the observation itself (bad
// identity key, negative values) are demoted to failed snapshots only
// when a profile row can still be resolved; a bad steam_id aborts the
// observation with the validation error.
func (s *IngestService) ingestObservation(ctx context.Context, log zerolog.Logger, sessionID uint, obs domain.ProfileObservation) (bool, error) {
	if obs.Failed() {
		profile, err := s.ensureProfile(ctx, obs.SteamID)
		if err != nil {
			return false, err
		}
		errMsg := obs.ErrorMessage
		_, err = repo.CreateSnapshot(ctx, s.DB, sessionID, profile.ID, repo.SnapshotValues{
			Status:       domain.SnapshotStatusFailed,
			ErrorMessage: &errMsg,
		})
		if err != nil {
			return false, err
		}
		metrics.SnapshotsRecorded.WithLabelValues(domain.SnapshotStatusFailed).Inc()
		log.Warn().
			Str("steam_id", obs.SteamID).
			Str("error", obs.ErrorMessage).
			Msg("profile scrape failed")
		return false, nil
	}

	profile, err := repo.UpsertProfile(ctx, s.DB, obs.SteamID, repo.ProfileAttrs{
		Nickname:   obs.Nickname,
		Country:    obs.Country,
		AvatarURL:  obs.AvatarURL,
		ProfileURL: obs.ProfileURL,
		SteamLevel: obs.SteamLevel,
	})
	if err != nil {
		return false, err
	}
	metrics.IdentityUpserts.WithLabelValues("profile").Inc()

	_, err = repo.CreateSnapshot(ctx, s.DB, sessionID, profile.ID, repo.SnapshotValues{
		SteamLevel:     obs.SteamLevel,
		GamesCount:     obs.GamesCount,
		LibraryValue:   obs.LibraryValue,
		InventoryValue: obs.InventoryValue,
		Status:         domain.SnapshotStatusSuccess,
	})
	if err != nil {
		return false, err
	}
	metrics.SnapshotsRecorded.WithLabelValues(domain.SnapshotStatusSuccess).Inc()

	for _, og := range obs.OwnedGames {
		game, err := repo.UpsertGame(ctx, s.DB, og.AppID, og.Name)
		if err != nil {
			// A malformed game record spoils neither the profile nor the
			// batch; the snapshot already stands.
			log.Warn().
				Str("steam_id", obs.SteamID).
				Int64("app_id", og.AppID).
				Err(err).
				Msg("owned game skipped")
			continue
		}
		metrics.IdentityUpserts.WithLabelValues("game").Inc()

		if _, err := repo.UpsertOwnership(ctx, s.DB, profile.ID, game.ID, repo.OwnershipValues{
			PlaytimeForever: og.PlaytimeForever,
			Playtime2Weeks:  og.Playtime2Weeks,
			LastPlayed:      og.LastPlayed,
		}); err != nil {
			log.Warn().
				Str("steam_id", obs.SteamID).
				Int64("app_id", og.AppID).
				Err(err).
				Msg("ownership refresh skipped")
		}
	}

	log.Info().
		Str("steam_id", obs.SteamID).
		Int("steam_level", obs.SteamLevel).
		Int("games_count", obs.GamesCount).
		Msg("profile ingested")
	return true, nil
}

// ensureProfile resolves a steam_id without disturbing existing mutable
// attributes. A failed scrape observes nothing, so an existing row is
// returned as-is; only a first-ever encounter inserts a bare identity row.
func (s *IngestService) ensureProfile(ctx context.Context, steamID string) (*domain.Profile, error) {
	p, err := repo.GetProfileBySteamID(ctx, s.DB, steamID)
	if err == nil {
		return p, nil
	}
	if !errors.Is(err, repo.ErrNotFound) {
		return nil, err
	}
	p, err = repo.UpsertProfile(ctx, s.DB, steamID, repo.ProfileAttrs{})
	if err != nil {
		return nil, err
	}
	metrics.IdentityUpserts.WithLabelValues("profile").Inc()
	return p, nil
}
