package boltdb

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"go.etcd.io/bbolt"

	"github.com/iudanet/vaultsync/internal/models"
	"github.com/iudanet/vaultsync/internal/terminal/storage"
)

// GetConflict возвращает конфликт по идентификатору
func (s *Store) GetConflict(ctx context.Context, id string) (*models.SyncConflict, error) {
	if s.db == nil {
		return nil, storage.ErrStorageClosed
	}

	var conflict *models.SyncConflict

	err := s.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket(bucketConflicts).Get([]byte(id))
		if data == nil {
			return storage.ErrConflictNotFound
		}

		conflict = &models.SyncConflict{}
		if err := json.Unmarshal(data, conflict); err != nil {
			return fmt.Errorf("failed to unmarshal conflict: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return conflict, nil
}

// ListConflicts возвращает конфликты в выбранном статусе, новые первыми.
// Пустой статус означает все конфликты.
func (s *Store) ListConflicts(ctx context.Context, status models.ResolutionStatus, limit int) ([]models.SyncConflict, error) {
	if s.db == nil {
		return nil, storage.ErrStorageClosed
	}

	var conflicts []models.SyncConflict

	err := s.db.View(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketConflicts).ForEach(func(k, v []byte) error {
			var conflict models.SyncConflict
			if err := json.Unmarshal(v, &conflict); err != nil {
				return fmt.Errorf("failed to unmarshal conflict: %w", err)
			}

			if status == "" || conflict.Status == status {
				conflicts = append(conflicts, conflict)
			}
			return nil
		})
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list conflicts: %w", err)
	}

	sort.Slice(conflicts, func(i, j int) bool {
		if !conflicts[i].DetectedAt.Equal(conflicts[j].DetectedAt) {
			return conflicts[i].DetectedAt.After(conflicts[j].DetectedAt)
		}
		return conflicts[i].ID > conflicts[j].ID
	})

	if limit > 0 && len(conflicts) > limit {
		conflicts = conflicts[:limit]
	}

	return conflicts, nil
}

// MarkResolved переводит открытый конфликт в разрешенные.
// Переход односторонний: поля разрешения записываются один раз.
func (s *Store) MarkResolved(ctx context.Context, id string, strategy models.Strategy,
	resolvedBy string, resolvedAt time.Time,
) error {
	if s.db == nil {
		return storage.ErrStorageClosed
	}

	return s.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketConflicts)

		data := bucket.Get([]byte(id))
		if data == nil {
			return storage.ErrConflictNotFound
		}

		var conflict models.SyncConflict
		if err := json.Unmarshal(data, &conflict); err != nil {
			return fmt.Errorf("failed to unmarshal conflict: %w", err)
		}

		if conflict.Status != models.ResolutionPending {
			return storage.ErrConflictResolved
		}

		conflict.Status = models.ResolutionResolved
		conflict.Strategy = strategy
		conflict.ResolvedBy = resolvedBy
		resolved := resolvedAt.UTC()
		conflict.ResolvedAt = &resolved

		updated, err := json.Marshal(&conflict)
		if err != nil {
			return fmt.Errorf("failed to marshal conflict: %w", err)
		}
		return bucket.Put([]byte(id), updated)
	})
}

// CountPendingConflicts возвращает число открытых конфликтов
func (s *Store) CountPendingConflicts(ctx context.Context) (int, error) {
	if s.db == nil {
		return 0, storage.ErrStorageClosed
	}

	var count int

	err := s.db.View(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketConflicts).ForEach(func(k, v []byte) error {
			var conflict models.SyncConflict
			if err := json.Unmarshal(v, &conflict); err != nil {
				return fmt.Errorf("failed to unmarshal conflict: %w", err)
			}
			if conflict.Status == models.ResolutionPending {
				count++
			}
			return nil
		})
	})
	if err != nil {
		return 0, err
	}

	return count, nil
}
