package repo

import (
	"context"
	"errors"
	"testing"
	"time"

	"gorm.io/gorm"

	"github.com/akozlov/go-steam-store/internal/domain"
)

func TestSummarizeSession_Aggregates(t *testing.T) {
	db := newStoreDB(t)
	ctx := context.Background()

	s, err := CreateSession(ctx, db, time.Time{}, "", "")
	if err != nil {
		t.Fatalf("session: %v", err)
	}
	p1, _ := UpsertProfile(ctx, db, "76561199001022272", ProfileAttrs{Country: strptr("US")})
	p2, _ := UpsertProfile(ctx, db, "76561199219594998", ProfileAttrs{Country: strptr("US")})

	if _, err := CreateSnapshot(ctx, db, s.ID, p1.ID, SnapshotValues{
		SteamLevel: 10, GamesCount: 3, LibraryValue: 5.00, InventoryValue: 2.50,
	}); err != nil {
		t.Fatalf("snap p1: %v", err)
	}
	if _, err := CreateSnapshot(ctx, db, s.ID, p2.ID, SnapshotValues{
		SteamLevel: 20, GamesCount: 7, LibraryValue: 1.00, InventoryValue: 0.00,
	}); err != nil {
		t.Fatalf("snap p2: %v", err)
	}

	sum, err := SummarizeSession(ctx, db, s.ID)
	if err != nil {
		t.Fatalf("summarize: %v", err)
	}
	if sum.CountriesCount != 1 {
		t.Fatalf("countries = %d; want 1", sum.CountriesCount)
	}
	if sum.TotalGames != 10 {
		t.Fatalf("total games = %d; want 10", sum.TotalGames)
	}
	if sum.AvgLevel != 15.00 {
		t.Fatalf("avg level = %v; want 15.00", sum.AvgLevel)
	}
	if sum.TotalLibraryValue != 6.00 || sum.TotalInventoryValue != 2.50 {
		t.Fatalf("sums = %v/%v; want 6.00/2.50", sum.TotalLibraryValue, sum.TotalInventoryValue)
	}
	if sum.GrandTotalValue != 8.50 {
		t.Fatalf("grand total = %v; want 8.50", sum.GrandTotalValue)
	}
}

func TestSummarizeSession_EmptySessionYieldsZeroes(t *testing.T) {
	db := newStoreDB(t)
	ctx := context.Background()

	s, _ := CreateSession(ctx, db, time.Time{}, "", "")
	sum, err := SummarizeSession(ctx, db, s.ID)
	if err != nil {
		t.Fatalf("summarize empty session: %v", err)
	}
	if sum.CountriesCount != 0 || sum.TotalGames != 0 || sum.AvgLevel != 0 || sum.GrandTotalValue != 0 {
		t.Fatalf("expected zero aggregates, got %+v", sum)
	}
	if sum.SessionID != s.ID || sum.Status != domain.SessionStatusPending {
		t.Fatalf("ledger fields not carried: %+v", sum)
	}
}

func TestSummarizeSession_MissingSession(t *testing.T) {
	db := newStoreDB(t)
	if _, err := SummarizeSession(context.Background(), db, 424242); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("err = %v; want ErrRecordNotFound", err)
	}
}

func TestSummarize_LedgerCountersAreNotDerived(t *testing.T) {
	db := newStoreDB(t)
	ctx := context.Background()

	s, _ := CreateSession(ctx, db, time.Time{}, "", "")
	p, _ := UpsertProfile(ctx, db, "76561198333882340", ProfileAttrs{})
	if _, err := CreateSnapshot(ctx, db, s.ID, p.ID, SnapshotValues{}); err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	// Ledger counters deliberately out of step with snapshot count: the
	// summary must report the ledger's numbers, not recount snapshots.
	if err := RecordOutcome(ctx, db, s.ID, true); err != nil {
		t.Fatalf("outcome 1: %v", err)
	}
	if err := RecordOutcome(ctx, db, s.ID, false); err != nil {
		t.Fatalf("outcome 2: %v", err)
	}

	sum, err := SummarizeSession(ctx, db, s.ID)
	if err != nil {
		t.Fatalf("summarize: %v", err)
	}
	if sum.TotalProfiles != 2 || sum.SuccessfulProfiles != 1 || sum.FailedProfiles != 1 {
		t.Fatalf("ledger counters not authoritative: %+v", sum)
	}
}

func TestListSessionSummaries_IncludesEmptySessions(t *testing.T) {
	db := newStoreDB(t)
	ctx := context.Background()

	older, _ := CreateSession(ctx, db, time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC), "", "")
	newer, _ := CreateSession(ctx, db, time.Date(2026, 1, 2, 10, 0, 0, 0, time.UTC), "", "")

	p, _ := UpsertProfile(ctx, db, "76561199038225456", ProfileAttrs{Country: strptr("FR")})
	if _, err := CreateSnapshot(ctx, db, older.ID, p.ID, SnapshotValues{
		SteamLevel: 30, GamesCount: 4, LibraryValue: 100, InventoryValue: 50,
	}); err != nil {
		t.Fatalf("snapshot: %v", err)
	}

	list, err := ListSessionSummaries(ctx, db, 10)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("expected 2 summaries, got %d", len(list))
	}
	if list[0].SessionID != newer.ID {
		t.Fatalf("not ordered newest first: %+v", list)
	}
	if list[0].GrandTotalValue != 0 || list[0].CountriesCount != 0 {
		t.Fatalf("empty session should aggregate to zero: %+v", list[0])
	}
	if list[1].GrandTotalValue != 150 || list[1].CountriesCount != 1 || list[1].TotalGames != 4 {
		t.Fatalf("aggregates wrong for seeded session: %+v", list[1])
	}
}

func TestSessionSummary_Label(t *testing.T) {
	sum := SessionSummary{
		ParseTimeDisplay:   "07.03.2026 14:05:00",
		TotalProfiles:      6,
		SuccessfulProfiles: 5,
		GrandTotalValue:    1234.5,
	}
	want := "07.03.2026 14:05:00 | 5/6 ok | $1,234.50"
	if got := sum.Label(); got != want {
		t.Fatalf("Label() = %q; want %q", got, want)
	}
}
