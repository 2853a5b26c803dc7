package boltdb

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.etcd.io/bbolt"

	"github.com/iudanet/vaultsync/internal/terminal/storage"
)

const (
	keyIdentity   = "identity"
	keyWatermark  = "watermark"
	keyLastSyncAt = "last_sync_at"
)

// SaveIdentity сохраняет личность кассы, выданную сервером
func (s *Store) SaveIdentity(ctx context.Context, identity *storage.Identity) error {
	if s.db == nil {
		return storage.ErrStorageClosed
	}

	data, err := json.Marshal(identity)
	if err != nil {
		return fmt.Errorf("failed to marshal identity: %w", err)
	}

	return s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketMetadata).Put([]byte(keyIdentity), data)
	})
}

// Identity возвращает сохраненную личность кассы
func (s *Store) Identity(ctx context.Context) (*storage.Identity, error) {
	if s.db == nil {
		return nil, storage.ErrStorageClosed
	}

	var identity *storage.Identity

	err := s.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket(bucketMetadata).Get([]byte(keyIdentity))
		if data == nil {
			return storage.ErrNotRegistered
		}

		identity = &storage.Identity{}
		if err := json.Unmarshal(data, identity); err != nil {
			return fmt.Errorf("failed to unmarshal identity: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return identity, nil
}

// SaveWatermark сохраняет водяную метку pull
func (s *Store) SaveWatermark(ctx context.Context, seq uint64) error {
	if s.db == nil {
		return storage.ErrStorageClosed
	}

	return s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketMetadata).Put([]byte(keyWatermark), itob(seq))
	})
}

// Watermark возвращает водяную метку pull.
// Возвращает 0, если синхронизация еще не выполнялась.
func (s *Store) Watermark(ctx context.Context) (uint64, error) {
	if s.db == nil {
		return 0, storage.ErrStorageClosed
	}

	var seq uint64

	err := s.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket(bucketMetadata).Get([]byte(keyWatermark))
		if data == nil {
			return nil
		}
		seq = btoi(data)
		return nil
	})
	if err != nil {
		return 0, err
	}

	return seq, nil
}

// SaveLastSyncAt сохраняет время последнего успешного цикла синхронизации
func (s *Store) SaveLastSyncAt(ctx context.Context, t time.Time) error {
	if s.db == nil {
		return storage.ErrStorageClosed
	}

	return s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketMetadata).Put([]byte(keyLastSyncAt), itob(uint64(t.Unix())))
	})
}

// LastSyncAt возвращает время последнего успешного цикла.
// Возвращает нулевое время, если синхронизация еще не выполнялась.
func (s *Store) LastSyncAt(ctx context.Context) (time.Time, error) {
	if s.db == nil {
		return time.Time{}, storage.ErrStorageClosed
	}

	var t time.Time

	err := s.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket(bucketMetadata).Get([]byte(keyLastSyncAt))
		if data == nil {
			return nil
		}
		t = time.Unix(int64(btoi(data)), 0).UTC()
		return nil
	})
	if err != nil {
		return time.Time{}, err
	}

	return t, nil
}
