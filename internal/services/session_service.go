// Package services – SessionService
//
// Read/administration use-cases over parse sessions: rollup summaries,
// per-session profile detail, explicit finalization for callers managing
// their own sessions, and the administrative purge (the only way a
// session ever disappears).
package services

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/akozlov/go-steam-store/internal/domain"
	"github.com/akozlov/go-steam-store/internal/repo"
	"github.com/akozlov/go-steam-store/internal/utils"
)

// SessionService implements the reporting and administration use-cases
// around parse sessions.
type SessionService struct {
	DB *gorm.DB

	// MaxListLimit caps ListSummaries; zero means utils.DefaultSessionLimit.
	MaxListLimit int
}

// Summarize computes the read-only rollup for one session. A session with
// zero snapshots yields zero aggregates. Returns ErrSessionNotFound if
// the session does not exist.
func (s *SessionService) Summarize(ctx context.Context, sessionID uint) (*repo.SessionSummary, error) {
	tracer := otel.Tracer("services.SessionService")
	ctx, span := tracer.Start(ctx, "Summarize", trace.WithAttributes(
		attribute.Int64("session.id", int64(sessionID)),
	))
	defer span.End()

	sum, err := repo.SummarizeSession(ctx, s.DB, sessionID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}
	return sum, nil
}

// ListSummaries returns rollups for the most recent sessions, newest
// first. A non-positive limit falls back to the configured maximum.
func (s *SessionService) ListSummaries(ctx context.Context, limit int) ([]repo.SessionSummary, error) {
	max := s.MaxListLimit
	if max <= 0 {
		max = utils.DefaultSessionLimit
	}
	return repo.ListSessionSummaries(ctx, s.DB, utils.ClampLimit(limit, max))
}

// Profiles returns every profile observed in a session joined with its
// snapshot, most valuable first. Returns ErrSessionNotFound if the
// session does not exist.
func (s *SessionService) Profiles(ctx context.Context, sessionID uint) ([]repo.SessionProfileRow, error) {
	if _, err := repo.GetSession(ctx, s.DB, sessionID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}
	return repo.ListSessionProfiles(ctx, s.DB, sessionID)
}

// Snapshots lists a session's snapshots ordered by parsed_at.
func (s *SessionService) Snapshots(ctx context.Context, sessionID uint) ([]domain.Snapshot, error) {
	if _, err := repo.GetSession(ctx, s.DB, sessionID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}
	return repo.ListSnapshotsBySession(ctx, s.DB, sessionID)
}

// Finalize moves a session to a terminal status on behalf of a caller
// that manages its own session lifecycle (e.g. an abandoned run being
// closed out). The state machine is enforced by the ledger: pending is
// the only state that can transition, and only to success or failed.
func (s *SessionService) Finalize(ctx context.Context, sessionID uint, status string) error {
	err := repo.FinalizeSession(ctx, s.DB, sessionID, status)
	if errors.Is(err, repo.ErrNotFound) {
		return ErrSessionNotFound
	}
	return err
}

// Purge deletes a session and all its snapshots (administrative cascade).
// Profiles and games survive. Returns ErrSessionNotFound if missing.
func (s *SessionService) Purge(ctx context.Context, sessionID uint) error {
	err := repo.DeleteSession(ctx, s.DB, sessionID)
	if errors.Is(err, repo.ErrNotFound) {
		return ErrSessionNotFound
	}
	return err
}
