package services

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/go-redsync/redsync/v4"
	"github.com/hiendaovinh/toolkit/pkg/errorx"
	"github.com/samber/do"
	"github.com/uptrace/bun"

	"talktoearn/internal/datastore"
	"talktoearn/internal/interfaces"
	"talktoearn/internal/models"
)

// ServiceArchive sweeps closed bounties out of the live collection into
// Postgres once they age past the retention window.
type ServiceArchive struct {
	store     interfaces.RecordStore
	db        *bun.DB
	rs        *redsync.Redsync
	retention time.Duration
}

func NewServiceArchive(container *do.Injector) (*ServiceArchive, error) {
	store, err := do.Invoke[interfaces.RecordStore](container)
	if err != nil {
		return nil, err
	}

	db, err := do.Invoke[*bun.DB](container)
	if err != nil {
		return nil, err
	}

	rs, _ := do.Invoke[*redsync.Redsync](container)

	return &ServiceArchive{
		store:     store,
		db:        db,
		rs:        rs,
		retention: ARCHIVE_RETENTION,
	}, nil
}

// ArchivedByOwner lists what the sweep already moved out for one owner.
func (service *ServiceArchive) ArchivedByOwner(ctx context.Context, owner string) ([]models.BountyArchive, error) {
	return datastore.GetBountyArchivesByOwner(ctx, service.db, owner)
}

// SweepClosed archives fulfilled and cancelled bounties created before the
// cutoff. Returns how many rows were moved.
func (service *ServiceArchive) SweepClosed(ctx context.Context) (int, error) {
	if service.rs != nil {
		mutex := service.rs.NewMutex(LockKeyArchiveSweep())
		if err := mutex.Lock(); err != nil {
			return 0, errorx.Wrap(ErrArchiveLock, errorx.Other)
		}
		// nolint:errcheck
		defer mutex.Unlock()
	}

	cutoff := time.Now().Add(-service.retention)

	for attempt := 0; attempt < CONFLICT_RETRY_LIMIT; attempt++ {
		records, version, err := service.store.LoadAll(ctx)
		if err != nil {
			return 0, err
		}

		remaining := make([]models.Bounty, 0, len(records))
		var archives []*models.BountyArchive
		now := time.Now()
		for _, record := range records {
			if record.Type == models.ListingKindBounty && record.Closed() && record.CreatedAt.Before(cutoff) {
				archives = append(archives, record.ToArchive(now))
				continue
			}
			remaining = append(remaining, record)
		}

		if len(archives) == 0 {
			return 0, nil
		}

		if err := datastore.InsertBountyArchives(ctx, service.db, archives); err != nil {
			return 0, err
		}

		err = service.store.SaveAll(ctx, remaining, version)
		if errors.Is(err, interfaces.ErrStaleWrite) {
			// insert is idempotent (on conflict do nothing), safe to redo
			continue
		}
		if err != nil {
			return 0, err
		}

		log.Printf("archived %d closed bounties", len(archives))
		return len(archives), nil
	}

	return 0, errorx.Wrap(ErrConflict, errorx.Other)
}
