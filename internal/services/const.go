package services

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var ErrBountyNotFound = errors.New("bounty not found")
var ErrSelfApplication = errors.New("cannot apply to own bounty")
var ErrAlreadyApplied = errors.New("already applied")
var ErrBountyClosed = errors.New("bounty is no longer active")
var ErrAlreadyClosed = errors.New("bounty already closed")
var ErrNotOwner = errors.New("only the owner may do this")
var ErrConflict = errors.New("concurrent update, retries exhausted")
var ErrExternalAction = errors.New("external action failed")
var ErrValidation = errors.New("invalid bounty")
var ErrNoActiveBounties = errors.New("no active bounties")
var ErrArchiveLock = errors.New("archive sweep locked")

const (
	// Mutations reload and retry this many times on a stale write before
	// surfacing ErrConflict.
	CONFLICT_RETRY_LIMIT = 3

	BOUNTY_COLLECTION = "bounties"

	CREATE_BOUNTY_RATE_LIMIT_PER_MINUTE = 10

	LEDGER_CALL_TIMEOUT = 15 * time.Second

	CACHE_TTL_5_SECONDS = 5 * time.Second
	CACHE_TTL_1_MIN     = 1 * time.Minute
	CACHE_TTL_5_MINS    = 5 * time.Minute

	ARCHIVE_RETENTION = 30 * 24 * time.Hour
)

func LockKeyBounty(bountyID string) string {
	return fmt.Sprintf("lock:bounty:%s", bountyID)
}

func LockKeyArchiveSweep() string {
	return "lock:bounty-archive-sweep"
}

// db
func DBKeyBounties() string {
	return "bounties:all"
}

func LimitKeyCreateBounty(userID string) string {
	return fmt.Sprintf("limit:create_bounty:%s", strings.ToLower(userID))
}
