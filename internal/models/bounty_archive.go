package models

import (
	"time"

	"github.com/uptrace/bun"
)

// BountyArchive is the Postgres row a closed bounty is swept into once it
// leaves the live collection.
type BountyArchive struct {
	bun.BaseModel `bun:"table:bounty_archive"`
	ID            string       `bun:"id,pk" json:"id"`
	Title         string       `bun:"title" json:"title"`
	Description   string       `bun:"description" json:"description"`
	Reward        float64      `bun:"reward" json:"reward"`
	StakeAmount   *float64     `bun:"stake_amount" json:"stake_amount"`
	Category      string       `bun:"category" json:"category"`
	Owner         string       `bun:"owner" json:"owner"`
	Applicants    []string     `bun:"applicants,type:jsonb" json:"applicants"`
	Status        BountyStatus `bun:"status" json:"status"`
	CreatedAt     time.Time    `bun:"created_at" json:"created_at"`
	ArchivedAt    time.Time    `bun:"archived_at" json:"archived_at"`
}

func (bounty *Bounty) ToArchive(now time.Time) *BountyArchive {
	return &BountyArchive{
		ID:          bounty.ID,
		Title:       bounty.Title,
		Description: bounty.Description,
		Reward:      bounty.Reward,
		StakeAmount: bounty.StakeAmount,
		Category:    bounty.Category,
		Owner:       bounty.Owner,
		Applicants:  bounty.Applicants,
		Status:      bounty.Status,
		CreatedAt:   bounty.CreatedAt,
		ArchivedAt:  now,
	}
}
