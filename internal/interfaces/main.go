package interfaces

import (
	"context"
	"errors"

	"github.com/go-redis/redis_rate/v10"

	"talktoearn/internal/models"
)

// ErrStaleWrite is returned by SaveAll when the caller's version is no
// longer the current one. The caller re-reads and retries.
var ErrStaleWrite = errors.New("stale write")

// RecordStore persists the whole listing collection as one versioned unit.
// LoadAll returns an empty collection at version 0 when nothing is
// persisted or the persisted blob cannot be decoded; corruption never
// surfaces as an error. SaveAll replaces the collection atomically and
// fails with ErrStaleWrite unless version matches the stored one.
type RecordStore interface {
	LoadAll(ctx context.Context) ([]models.Bounty, uint64, error)
	SaveAll(ctx context.Context, records []models.Bounty, version uint64) error
}

// Ledger is the external-action capability backing stake-locked bounties.
// Receipts are opaque to callers.
type Ledger interface {
	LockStake(ctx context.Context, category, description string, durationUnits int64, rewardAmount float64) (*models.TransactionReceipt, error)
	ConfirmAcceptance(ctx context.Context, bountyRef string) (*models.TransactionReceipt, error)
}

type Limiter interface {
	Allow(ctx context.Context, key string, limit redis_rate.Limit) error
}
