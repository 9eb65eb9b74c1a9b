// Package filestore persists the listing collection as a single msgpack
// envelope on disk, replaced atomically via rename.
package filestore

import (
	"context"
	"os"
	"path/filepath"
	"sync"

	"github.com/vmihailenco/msgpack/v5"

	"talktoearn/internal/interfaces"
	"talktoearn/internal/models"
)

type envelope struct {
	Version uint64          `msgpack:"version"`
	Records []models.Bounty `msgpack:"records"`
}

type Store struct {
	mu   sync.Mutex
	path string
}

var _ interfaces.RecordStore = (*Store)(nil)

func New(path string) *Store {
	return &Store{path: path}
}

func (store *Store) LoadAll(ctx context.Context) ([]models.Bounty, uint64, error) {
	store.mu.Lock()
	defer store.mu.Unlock()

	env := store.read()
	return env.Records, env.Version, nil
}

func (store *Store) SaveAll(ctx context.Context, records []models.Bounty, version uint64) error {
	store.mu.Lock()
	defer store.mu.Unlock()

	current := store.read()
	if version != current.Version {
		return interfaces.ErrStaleWrite
	}

	b, err := msgpack.Marshal(envelope{Version: version + 1, Records: records})
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(store.path), ".bounties-*")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(b); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}

	return os.Rename(tmp.Name(), store.path)
}

// read fails closed: a missing or undecodable file is an empty collection
// at version 0.
func (store *Store) read() envelope {
	var env envelope
	b, err := os.ReadFile(store.path)
	if err != nil {
		return envelope{Records: []models.Bounty{}}
	}
	if err := msgpack.Unmarshal(b, &env); err != nil {
		return envelope{Records: []models.Bounty{}}
	}
	if env.Records == nil {
		env.Records = []models.Bounty{}
	}
	return env
}
