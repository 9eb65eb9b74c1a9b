package query

import (
	"reflect"
	"testing"
	"time"

	"talktoearn/internal/models"
)

func listing(id, title, description, category string, status models.BountyStatus) models.Bounty {
	return models.Bounty{
		ID:          id,
		Type:        models.ListingKindBounty,
		Title:       title,
		Description: description,
		Category:    category,
		Status:      status,
		Reward:      10,
		Owner:       "owner@example.com",
		Applicants:  []string{},
	}
}

func fixture() []models.Bounty {
	return []models.Bounty{
		listing("1", "Help with coding project", "Need a pair of hands", "tech", models.BountyStatusActive),
		listing("2", "Coffee meetup help", "Set up chairs", "community", models.BountyStatusActive),
		listing("3", "Logo design", "Small logo", "creative", models.BountyStatusFulfilled),
	}
}

func TestSearchNoFiltersReturnsInputUnchanged(t *testing.T) {
	input := fixture()
	got := Search(input, Params{})
	if !reflect.DeepEqual(got, input) {
		t.Fatalf("expected input back unchanged, got %+v", got)
	}
}

func TestSearchText(t *testing.T) {
	got := Search(fixture(), Params{Text: "coffee"})
	if len(got) != 1 || got[0].ID != "2" {
		t.Fatalf("expected only the coffee listing, got %+v", got)
	}
}

func TestSearchTextMatchesSecondaryFields(t *testing.T) {
	input := fixture()
	input[0].Location = "Coffee shop on 5th Ave"
	got := Search(input, Params{Text: "coffee"})
	if len(got) != 2 {
		t.Fatalf("expected location match plus title match, got %+v", got)
	}
}

func TestSearchPredicatesCompose(t *testing.T) {
	got := Search(fixture(), Params{Text: "help", Category: "tech", Status: models.BountyStatusActive})
	if len(got) != 1 || got[0].ID != "1" {
		t.Fatalf("expected the tech listing, got %+v", got)
	}
}

func TestSearchStatus(t *testing.T) {
	got := Search(fixture(), Params{Status: models.BountyStatusFulfilled})
	if len(got) != 1 || got[0].ID != "3" {
		t.Fatalf("expected the fulfilled listing, got %+v", got)
	}
}

func TestSearchKindOnMixedCollection(t *testing.T) {
	input := fixture()
	hangout := listing("4", "Board games night", "Casual hangout", "community", models.BountyStatusActive)
	hangout.Type = models.ListingKindHangout
	input = append(input, hangout)

	got := Search(input, Params{Kind: models.ListingKindHangout})
	if len(got) != 1 || got[0].ID != "4" {
		t.Fatalf("expected only the hangout, got %+v", got)
	}
	got = Search(input, Params{Kind: models.ListingKindBounty})
	if len(got) != 3 {
		t.Fatalf("expected the three bounties, got %+v", got)
	}
}

func TestSearchOwnershipAndApplicants(t *testing.T) {
	input := fixture()
	input[1].Owner = "alice@example.com"
	input[2].Applicants = []string{"bob@example.com"}

	got := Search(input, Params{OwnedBy: "alice@example.com"})
	if len(got) != 1 || got[0].ID != "2" {
		t.Fatalf("ownership filter: got %+v", got)
	}
	got = Search(input, Params{AppliedBy: "bob@example.com"})
	if len(got) != 1 || got[0].ID != "3" {
		t.Fatalf("applicant filter: got %+v", got)
	}
}

func TestSearchEmptyResultIsNotAnError(t *testing.T) {
	got := Search(fixture(), Params{Text: "no such bounty anywhere"})
	if got == nil || len(got) != 0 {
		t.Fatalf("expected empty non-nil result, got %+v", got)
	}
}

func TestSearchDoesNotMutateInput(t *testing.T) {
	input := fixture()
	snapshot := make([]models.Bounty, len(input))
	copy(snapshot, input)

	Search(input, Params{Text: "help", Sort: SortRewardDesc})
	if !reflect.DeepEqual(input, snapshot) {
		t.Fatal("input collection was mutated")
	}
}

func TestSearchSortOptions(t *testing.T) {
	base := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	input := fixture()
	for i := range input {
		input[i].CreatedAt = base.Add(time.Duration(i) * time.Hour)
		input[i].Reward = float64(10 * (i + 1))
	}

	got := Search(input, Params{Sort: SortNewest})
	if got[0].ID != "3" || got[2].ID != "1" {
		t.Fatalf("newest first: got %+v", got)
	}
	got = Search(input, Params{Sort: SortRewardDesc})
	if got[0].ID != "3" || got[2].ID != "1" {
		t.Fatalf("reward desc: got %+v", got)
	}
}
