package qrtoken

import (
	"errors"
	"testing"
	"time"
)

func TestBountyTokenRoundTrip(t *testing.T) {
	issued := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	raw := MintBountyToken("9b2e7c1a", "john.doe@example.com", issued)

	token, err := Parse(raw)
	if err != nil {
		t.Fatal(err)
	}
	if token.Kind != KindBounty {
		t.Fatalf("kind = %v", token.Kind)
	}
	if token.BountyID != "9b2e7c1a" || token.Owner != "john.doe@example.com" {
		t.Fatalf("parsed %+v", token)
	}
	if !token.IssuedAt.Equal(issued) {
		t.Fatalf("issued at %v", token.IssuedAt)
	}
}

func TestBountyTokenOwnerWithUnderscores(t *testing.T) {
	raw := MintBountyToken("abc123", "jane_a_doe@example.com", time.Now())
	token, err := Parse(raw)
	if err != nil {
		t.Fatal(err)
	}
	if token.Owner != "jane_a_doe@example.com" {
		t.Fatalf("owner = %q", token.Owner)
	}
}

func TestUserToken(t *testing.T) {
	token, err := Parse(MintUserToken("alice@example.com"))
	if err != nil {
		t.Fatal(err)
	}
	if token.Kind != KindUser || token.UserID != "alice@example.com" {
		t.Fatalf("parsed %+v", token)
	}
}

func TestParseRejectsGarbage(t *testing.T) {
	for _, raw := range []string{
		"",
		"meetup_123",
		"bounty_",
		"bounty_only-id",
		"bounty_id_owner_notatimestamp",
		"user_",
	} {
		if _, err := Parse(raw); !errors.Is(err, ErrMalformedToken) {
			t.Fatalf("%q: expected ErrMalformedToken, got %v", raw, err)
		}
	}
}
