package memstore

import (
	"context"
	"errors"
	"testing"

	"talktoearn/internal/interfaces"
	"talktoearn/internal/models"
)

func TestVersionAdvancesPerSave(t *testing.T) {
	store := New()
	ctx := context.Background()

	for want := uint64(0); want < 3; want++ {
		_, version, err := store.LoadAll(ctx)
		if err != nil {
			t.Fatal(err)
		}
		if version != want {
			t.Fatalf("version = %d, want %d", version, want)
		}
		if err := store.SaveAll(ctx, nil, version); err != nil {
			t.Fatal(err)
		}
	}
}

func TestStaleVersionRejected(t *testing.T) {
	store := New()
	ctx := context.Background()

	if err := store.SaveAll(ctx, nil, 0); err != nil {
		t.Fatal(err)
	}
	if err := store.SaveAll(ctx, nil, 0); !errors.Is(err, interfaces.ErrStaleWrite) {
		t.Fatalf("expected ErrStaleWrite, got %v", err)
	}
}

func TestLoadReturnsIsolatedCopies(t *testing.T) {
	store := New()
	ctx := context.Background()

	err := store.SaveAll(ctx, []models.Bounty{{
		ID:         "b-1",
		Title:      "Help move",
		Applicants: []string{"alice@example.com"},
	}}, 0)
	if err != nil {
		t.Fatal(err)
	}

	first, _, _ := store.LoadAll(ctx)
	first[0].Title = "mutated"
	first[0].Applicants[0] = "mallory@example.com"

	second, _, _ := store.LoadAll(ctx)
	if second[0].Title != "Help move" {
		t.Fatalf("title = %s", second[0].Title)
	}
	if second[0].Applicants[0] != "alice@example.com" {
		t.Fatalf("applicants = %v", second[0].Applicants)
	}
}
