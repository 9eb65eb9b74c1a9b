package models

import (
	"time"
)

type BountyStatus string

const (
	BountyStatusActive    BountyStatus = "active"
	BountyStatusFulfilled BountyStatus = "fulfilled"
	BountyStatusCancelled BountyStatus = "cancelled"
)

// Listing kinds sharing the "bounties" collection.
const (
	ListingKindBounty  = "bounty"
	ListingKindHangout = "hangout"
)

const CategoryGeneral = "general"

// Categories is advisory; unknown categories fall back to "general"
// instead of being rejected.
var Categories = []string{
	CategoryGeneral,
	"tech",
	"creative",
	"fitness",
	"education",
	"community",
	"business",
}

func NormalizeCategory(category string) string {
	for _, known := range Categories {
		if category == known {
			return category
		}
	}
	return CategoryGeneral
}

type Bounty struct {
	ID              string               `json:"id" msgpack:"id"`
	Type            string               `json:"type" msgpack:"type"`
	Title           string               `json:"title" msgpack:"title"`
	Description     string               `json:"description" msgpack:"description"`
	Reward          float64              `json:"reward" msgpack:"reward"`
	StakeAmount     *float64             `json:"stake_amount,omitempty" msgpack:"stake_amount"`
	Category        string               `json:"category" msgpack:"category"`
	Deadline        *time.Time           `json:"deadline,omitempty" msgpack:"deadline"`
	Location        string               `json:"location,omitempty" msgpack:"location"`
	Requirements    string               `json:"requirements,omitempty" msgpack:"requirements"`
	MaxParticipants *int                 `json:"max_participants,omitempty" msgpack:"max_participants"`
	Owner           string               `json:"owner" msgpack:"owner"`
	Applicants      []string             `json:"applicants" msgpack:"applicants"`
	Status          BountyStatus         `json:"status" msgpack:"status"`
	CreatedAt       time.Time            `json:"created_at" msgpack:"created_at"`
	StakeReceipt    *TransactionReceipt  `json:"stake_receipt,omitempty" msgpack:"stake_receipt"`
}

func (bounty *Bounty) HasApplicant(id string) bool {
	for _, applicant := range bounty.Applicants {
		if applicant == id {
			return true
		}
	}
	return false
}

func (bounty *Bounty) Closed() bool {
	return bounty.Status != BountyStatusActive
}

// TransactionReceipt is an opaque acknowledgement from the ledger. The
// engine stores it verbatim and never looks inside.
type TransactionReceipt struct {
	TxHash string `json:"tx_hash" msgpack:"tx_hash"`
	Raw    []byte `json:"raw,omitempty" msgpack:"raw"`
}
