package boltdb

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.etcd.io/bbolt"

	"github.com/iudanet/vaultsync/internal/models"
	"github.com/iudanet/vaultsync/internal/terminal/storage"
)

// Enqueue ставит запись в хвост очереди отправки.
// Ключ берется из счетчика bucket'а: big-endian кодирование дает
// обход курсором в порядке постановки.
func (s *Store) Enqueue(ctx context.Context, rec *models.ChangeRecord) (uint64, error) {
	if s.db == nil {
		return 0, storage.ErrStorageClosed
	}

	var key uint64

	err := s.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketQueue)

		seq, err := bucket.NextSequence()
		if err != nil {
			return fmt.Errorf("failed to get next sequence: %w", err)
		}
		key = seq

		item := storage.QueuedChange{
			EnqueuedAt: time.Now().UTC(),
			Record:     *rec.Clone(),
			Key:        key,
		}

		data, err := json.Marshal(&item)
		if err != nil {
			return fmt.Errorf("failed to marshal queue item: %w", err)
		}

		return bucket.Put(itob(key), data)
	})
	if err != nil {
		return 0, fmt.Errorf("enqueue transaction failed: %w", err)
	}

	return key, nil
}

// Pending возвращает записи очереди в порядке постановки, не более limit
func (s *Store) Pending(ctx context.Context, limit int) ([]storage.QueuedChange, error) {
	if s.db == nil {
		return nil, storage.ErrStorageClosed
	}

	var items []storage.QueuedChange

	err := s.db.View(func(tx *bbolt.Tx) error {
		c := tx.Bucket(bucketQueue).Cursor()

		for k, v := c.First(); k != nil; k, v = c.Next() {
			if limit > 0 && len(items) >= limit {
				break
			}

			var item storage.QueuedChange
			if err := json.Unmarshal(v, &item); err != nil {
				return fmt.Errorf("failed to unmarshal queue item: %w", err)
			}
			items = append(items, item)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return items, nil
}

// Remove убирает запись из очереди по ключу
func (s *Store) Remove(ctx context.Context, key uint64) error {
	if s.db == nil {
		return storage.ErrStorageClosed
	}

	return s.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketQueue)
		k := itob(key)

		if bucket.Get(k) == nil {
			return storage.ErrQueueItemNotFound
		}
		return bucket.Delete(k)
	})
}

// MarkFailed фиксирует неуспешную попытку отправки записи
func (s *Store) MarkFailed(ctx context.Context, key uint64, reason string) error {
	if s.db == nil {
		return storage.ErrStorageClosed
	}

	return s.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketQueue)
		k := itob(key)

		data := bucket.Get(k)
		if data == nil {
			return storage.ErrQueueItemNotFound
		}

		var item storage.QueuedChange
		if err := json.Unmarshal(data, &item); err != nil {
			return fmt.Errorf("failed to unmarshal queue item: %w", err)
		}

		item.RetryCount++
		item.LastError = reason

		updated, err := json.Marshal(&item)
		if err != nil {
			return fmt.Errorf("failed to marshal queue item: %w", err)
		}
		return bucket.Put(k, updated)
	})
}

// PendingCount возвращает число записей в очереди отправки
func (s *Store) PendingCount(ctx context.Context) (int, error) {
	if s.db == nil {
		return 0, storage.ErrStorageClosed
	}

	var count int

	err := s.db.View(func(tx *bbolt.Tx) error {
		count = tx.Bucket(bucketQueue).Stats().KeyN
		return nil
	})
	if err != nil {
		return 0, err
	}

	return count, nil
}
