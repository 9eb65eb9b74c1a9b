package filestore

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"talktoearn/internal/interfaces"
	"talktoearn/internal/models"
)

func sampleBounties() []models.Bounty {
	stake := 10.0
	return []models.Bounty{
		{
			ID:          "b-1",
			Type:        models.ListingKindBounty,
			Title:       "Help move",
			Description: "Need movers",
			Reward:      50,
			StakeAmount: &stake,
			Category:    models.CategoryGeneral,
			Owner:       "john@example.com",
			Applicants:  []string{"alice@example.com"},
			Status:      models.BountyStatusActive,
			CreatedAt:   time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC),
		},
		{
			ID:          "h-1",
			Type:        models.ListingKindHangout,
			Title:       "Coffee meetup",
			Description: "Casual chat",
			Owner:       "alice@example.com",
			Applicants:  []string{},
			Status:      models.BountyStatusActive,
			CreatedAt:   time.Date(2026, 8, 2, 9, 0, 0, 0, time.UTC),
		},
	}
}

func TestSaveLoadRoundtrip(t *testing.T) {
	store := New(filepath.Join(t.TempDir(), "bounties.db"))
	ctx := context.Background()

	records, version, err := store.LoadAll(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 0 || version != 0 {
		t.Fatalf("fresh store: records=%v version=%d", records, version)
	}

	want := sampleBounties()
	if err := store.SaveAll(ctx, want, version); err != nil {
		t.Fatal(err)
	}

	got, version, err := store.LoadAll(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if version != 1 {
		t.Fatalf("version = %d", version)
	}
	if len(got) != len(want) {
		t.Fatalf("got %d records", len(got))
	}
	for i := range want {
		if got[i].ID != want[i].ID || got[i].Title != want[i].Title || got[i].Reward != want[i].Reward {
			t.Fatalf("record %d = %+v", i, got[i])
		}
	}
	if got[0].StakeAmount == nil || *got[0].StakeAmount != 10 {
		t.Fatalf("stake = %v", got[0].StakeAmount)
	}
	if len(got[0].Applicants) != 1 || got[0].Applicants[0] != "alice@example.com" {
		t.Fatalf("applicants = %v", got[0].Applicants)
	}
	if !got[0].CreatedAt.Equal(want[0].CreatedAt) {
		t.Fatalf("created at = %v", got[0].CreatedAt)
	}
}

func TestStaleWriteRejected(t *testing.T) {
	store := New(filepath.Join(t.TempDir(), "bounties.db"))
	ctx := context.Background()

	if err := store.SaveAll(ctx, sampleBounties(), 0); err != nil {
		t.Fatal(err)
	}

	// version 0 is stale now
	err := store.SaveAll(ctx, nil, 0)
	if !errors.Is(err, interfaces.ErrStaleWrite) {
		t.Fatalf("expected ErrStaleWrite, got %v", err)
	}

	records, _, _ := store.LoadAll(ctx)
	if len(records) != 2 {
		t.Fatalf("stale write changed state: %d records", len(records))
	}
}

func TestCorruptFileFailsClosed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bounties.db")
	if err := os.WriteFile(path, []byte("not msgpack at all"), 0o600); err != nil {
		t.Fatal(err)
	}

	store := New(path)
	records, version, err := store.LoadAll(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 0 || version != 0 {
		t.Fatalf("corrupt file: records=%v version=%d", records, version)
	}

	// store is writable again from the reset state
	if err := store.SaveAll(context.Background(), sampleBounties(), 0); err != nil {
		t.Fatal(err)
	}
}
