package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/akozlov/go-steam-store/internal/domain"
	"github.com/akozlov/go-steam-store/internal/repo"
)

func TestProfileService_Lookup(t *testing.T) {
	db := newServiceDB(t)
	ingest := &IngestService{DB: db, Log: zerolog.Nop()}
	svc := &ProfileService{DB: db}
	ctx := context.Background()

	if _, err := ingest.IngestBatch(ctx, testBatch()); err != nil {
		t.Fatalf("seed batch: %v", err)
	}

	p, err := svc.Lookup(ctx, "76561199001022272")
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	if p.Nickname == nil || *p.Nickname != "alpha" {
		t.Fatalf("profile = %+v", p)
	}

	if _, err := svc.Lookup(ctx, "  "); !errors.Is(err, ErrInvalidSteamID) {
		t.Fatalf("blank id err = %v; want ErrInvalidSteamID", err)
	}
	if _, err := svc.Lookup(ctx, "76561190000000000"); !errors.Is(err, ErrProfileNotFound) {
		t.Fatalf("unknown id err = %v; want ErrProfileNotFound", err)
	}

	all, err := svc.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("profiles = %d; want 3", len(all))
	}
	if all[0].FirstSeen.After(all[1].FirstSeen) {
		t.Fatalf("not ordered by first_seen ascending")
	}
}

func TestProfileService_History(t *testing.T) {
	db := newServiceDB(t)
	ingest := &IngestService{DB: db, Log: zerolog.Nop()}
	svc := &ProfileService{DB: db, MaxHistoryLimit: 10}
	ctx := context.Background()

	// Three runs a day apart, so the profile accumulates history.
	base := testBatch()
	for i := 0; i < 3; i++ {
		b := testBatch()
		b.ParseTime = base.ParseTime.Add(time.Duration(i) * 24 * time.Hour)
		b.Observations[0].SteamLevel = 10 + i
		if _, err := ingest.IngestBatch(ctx, b); err != nil {
			t.Fatalf("run %d: %v", i, err)
		}
	}

	alpha, err := repo.GetProfileBySteamID(ctx, db, "76561199001022272")
	if err != nil {
		t.Fatalf("load profile: %v", err)
	}

	rows, err := svc.History(ctx, alpha.ID, 0)
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("rows = %d; want 3", len(rows))
	}
	// Newest first: last run's level leads.
	if rows[0].SteamLevel != 12 || rows[2].SteamLevel != 10 {
		t.Fatalf("history not newest first: %+v", rows)
	}
	if !rows[0].ParseTime.After(rows[1].ParseTime) {
		t.Fatalf("parse times out of order")
	}

	rows, err = svc.History(ctx, alpha.ID, 2)
	if err != nil {
		t.Fatalf("History limited: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("rows = %d; want 2", len(rows))
	}

	if _, err := svc.History(ctx, 9999, 0); !errors.Is(err, ErrProfileNotFound) {
		t.Fatalf("missing profile err = %v", err)
	}
}

func TestProfileService_OwnedGames(t *testing.T) {
	db := newServiceDB(t)
	ingest := &IngestService{DB: db, Log: zerolog.Nop()}
	svc := &ProfileService{DB: db}
	ctx := context.Background()

	if _, err := ingest.IngestBatch(ctx, testBatch()); err != nil {
		t.Fatalf("seed batch: %v", err)
	}
	alpha, _ := repo.GetProfileBySteamID(ctx, db, "76561199001022272")

	owned, err := svc.OwnedGames(ctx, alpha.ID)
	if err != nil {
		t.Fatalf("OwnedGames: %v", err)
	}
	if len(owned) != 2 {
		t.Fatalf("owned = %d; want 2", len(owned))
	}
	// Most played first: Dota 2 (4000) before CS2 (900).
	if owned[0].PlaytimeForever != 4000 {
		t.Fatalf("not ordered by playtime: %+v", owned)
	}

	if _, err := svc.OwnedGames(ctx, 9999); !errors.Is(err, ErrProfileNotFound) {
		t.Fatalf("missing profile err = %v", err)
	}
}

func TestProfileService_Delete(t *testing.T) {
	db := newServiceDB(t)
	ingest := &IngestService{DB: db, Log: zerolog.Nop()}
	svc := &ProfileService{DB: db}
	ctx := context.Background()

	report, err := ingest.IngestBatch(ctx, testBatch())
	if err != nil {
		t.Fatalf("seed batch: %v", err)
	}
	alpha, _ := repo.GetProfileBySteamID(ctx, db, "76561199001022272")

	if err := svc.Delete(ctx, alpha.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	if _, err := repo.GetProfile(ctx, db, alpha.ID); !errors.Is(err, repo.ErrNotFound) {
		t.Fatalf("profile survived delete: %v", err)
	}
	var snaps, owned int64
	db.Model(&domain.Snapshot{}).Where("profile_id = ?", alpha.ID).Count(&snaps)
	db.Model(&domain.ProfileGame{}).Where("profile_id = ?", alpha.ID).Count(&owned)
	if snaps != 0 || owned != 0 {
		t.Fatalf("cascade incomplete: %d snapshots, %d ownership rows", snaps, owned)
	}
	// Session, other profiles, and games are untouched.
	if _, err := repo.GetSession(ctx, db, report.SessionID); err != nil {
		t.Fatalf("session should survive: %v", err)
	}
	if _, err := repo.GetProfileBySteamID(ctx, db, "76561199219594998"); err != nil {
		t.Fatalf("other profile should survive: %v", err)
	}
	if _, err := repo.GetGameByAppID(ctx, db, 570); err != nil {
		t.Fatalf("game should survive: %v", err)
	}

	if err := svc.Delete(ctx, alpha.ID); !errors.Is(err, ErrProfileNotFound) {
		t.Fatalf("second delete err = %v; want ErrProfileNotFound", err)
	}
}
