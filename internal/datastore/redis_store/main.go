package redis_store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/vmihailenco/msgpack/v5"

	"talktoearn/internal/interfaces"
	"talktoearn/internal/models"
)

func dbKeyListings(collection string) string {
	return fmt.Sprintf("listings:%s", strings.ToLower(collection))
}

func dbKeyUser(userID string) string {
	return fmt.Sprintf("user:%s", strings.ToLower(userID))
}

type envelope struct {
	Version uint64          `msgpack:"version"`
	Records []models.Bounty `msgpack:"records"`
}

// RecordStore holds the whole listing collection under one key as a
// versioned msgpack envelope. SaveAll runs under WATCH so a concurrent
// writer surfaces as ErrStaleWrite instead of a lost update.
type RecordStore struct {
	client     redis.UniversalClient
	collection string
}

var _ interfaces.RecordStore = (*RecordStore)(nil)

func NewRecordStore(client redis.UniversalClient, collection string) *RecordStore {
	return &RecordStore{client: client, collection: collection}
}

func (store *RecordStore) LoadAll(ctx context.Context) ([]models.Bounty, uint64, error) {
	b, err := store.client.Get(ctx, dbKeyListings(store.collection)).Bytes()
	if err == redis.Nil {
		return []models.Bounty{}, 0, nil
	}
	if err != nil {
		return nil, 0, err
	}

	return decodeEnvelope(b)
}

func (store *RecordStore) SaveAll(ctx context.Context, records []models.Bounty, version uint64) error {
	key := dbKeyListings(store.collection)

	txf := func(tx *redis.Tx) error {
		current, err := tx.Get(ctx, key).Bytes()
		if err != nil && err != redis.Nil {
			return err
		}

		var currentVersion uint64
		if err != redis.Nil {
			_, currentVersion, _ = decodeEnvelope(current)
		}
		if version != currentVersion {
			return interfaces.ErrStaleWrite
		}

		b, err := msgpack.Marshal(envelope{Version: version + 1, Records: records})
		if err != nil {
			return err
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, b, 0)
			return nil
		})
		return err
	}

	err := store.client.Watch(ctx, txf, key)
	if errors.Is(err, redis.TxFailedErr) {
		return interfaces.ErrStaleWrite
	}
	return err
}

// decodeEnvelope fails closed on corrupt blobs: empty collection, version 0.
func decodeEnvelope(b []byte) ([]models.Bounty, uint64, error) {
	var env envelope
	if err := msgpack.Unmarshal(b, &env); err != nil {
		return []models.Bounty{}, 0, nil
	}
	if env.Records == nil {
		env.Records = []models.Bounty{}
	}
	return env.Records, env.Version, nil
}

func GetUser(ctx context.Context, cmd redis.Cmdable, userID string) (*models.User, error) {
	var v *models.User
	b, err := cmd.Get(ctx, dbKeyUser(userID)).Bytes()
	if err != nil {
		return nil, err
	}

	err = msgpack.Unmarshal(b, &v)
	return v, err
}

func SaveUser(ctx context.Context, cmd redis.Cmdable, v *models.User) (*models.User, error) {
	if v.ID == "" {
		return nil, errors.New("invalid user")
	}

	v.UpdatedAt = time.Now()
	b, err := msgpack.Marshal(v)
	if err != nil {
		return nil, err
	}

	err = cmd.Set(ctx, dbKeyUser(v.ID), b, 0).Err()
	if err != nil {
		return nil, err
	}

	return v, nil
}
