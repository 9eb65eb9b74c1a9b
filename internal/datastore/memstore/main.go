// Package memstore keeps the listing collection in process memory. Used by
// tests and single-process deployments without Redis.
package memstore

import (
	"context"
	"sync"

	"talktoearn/internal/interfaces"
	"talktoearn/internal/models"
)

type Store struct {
	mu      sync.Mutex
	records []models.Bounty
	version uint64
}

var _ interfaces.RecordStore = (*Store)(nil)

func New() *Store {
	return &Store{}
}

func (store *Store) LoadAll(ctx context.Context) ([]models.Bounty, uint64, error) {
	store.mu.Lock()
	defer store.mu.Unlock()
	return cloneRecords(store.records), store.version, nil
}

func (store *Store) SaveAll(ctx context.Context, records []models.Bounty, version uint64) error {
	store.mu.Lock()
	defer store.mu.Unlock()

	if version != store.version {
		return interfaces.ErrStaleWrite
	}

	store.records = cloneRecords(records)
	store.version++
	return nil
}

func cloneRecords(records []models.Bounty) []models.Bounty {
	cloned := make([]models.Bounty, len(records))
	copy(cloned, records)
	for i := range cloned {
		if cloned[i].Applicants != nil {
			applicants := make([]string, len(cloned[i].Applicants))
			copy(applicants, cloned[i].Applicants)
			cloned[i].Applicants = applicants
		}
	}
	return cloned
}
