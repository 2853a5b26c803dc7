package boltdb

import (
	"context"
	"encoding/json"
	"fmt"

	"go.etcd.io/bbolt"

	"github.com/iudanet/vaultsync/internal/models"
	"github.com/iudanet/vaultsync/internal/terminal/storage"
	"github.com/iudanet/vaultsync/internal/vclock"
)

// resourceKey строит ключ ресурса для bucket'ов records и clocks
func resourceKey(recordType models.RecordType, recordID string) []byte {
	return []byte(string(recordType) + "/" + recordID)
}

// ResourceClock возвращает последние известные часы ресурса.
// Для неизвестного ресурса возвращает пустые часы без ошибки.
func (s *Store) ResourceClock(ctx context.Context, recordType models.RecordType, recordID string) (vclock.Clock, error) {
	if s.db == nil {
		return nil, storage.ErrStorageClosed
	}

	clock := vclock.New()

	err := s.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket(bucketClocks).Get(resourceKey(recordType, recordID))
		if data == nil {
			return nil
		}
		if err := json.Unmarshal(data, &clock); err != nil {
			return fmt.Errorf("failed to unmarshal clock: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return clock, nil
}

// LastApplied возвращает последнюю примененную запись ресурса
func (s *Store) LastApplied(ctx context.Context, recordType models.RecordType, recordID string) (*models.ChangeRecord, error) {
	if s.db == nil {
		return nil, storage.ErrStorageClosed
	}

	var rec *models.ChangeRecord

	err := s.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket(bucketRecords).Get(resourceKey(recordType, recordID))
		if data == nil {
			return storage.ErrRecordNotFound
		}

		rec = &models.ChangeRecord{}
		if err := json.Unmarshal(data, rec); err != nil {
			return fmt.Errorf("failed to unmarshal record: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return rec, nil
}

// AppendApplied атомарно сохраняет примененную запись: обновляет
// материализованное состояние ресурса и его часы. Касса не присваивает
// порядковых номеров - возвращается номер, уже присвоенный записи
// сервером (0, если записи он еще не назначен).
func (s *Store) AppendApplied(ctx context.Context, rec *models.ChangeRecord) (uint64, error) {
	if s.db == nil {
		return 0, storage.ErrStorageClosed
	}

	recData, err := json.Marshal(rec)
	if err != nil {
		return 0, fmt.Errorf("failed to marshal record: %w", err)
	}
	clockData, err := json.Marshal(rec.Clock)
	if err != nil {
		return 0, fmt.Errorf("failed to marshal clock: %w", err)
	}

	key := resourceKey(rec.RecordType, rec.RecordID)

	err = s.db.Update(func(tx *bbolt.Tx) error {
		if err := tx.Bucket(bucketRecords).Put(key, recData); err != nil {
			return fmt.Errorf("failed to save record: %w", err)
		}
		if err := tx.Bucket(bucketClocks).Put(key, clockData); err != nil {
			return fmt.Errorf("failed to save clock: %w", err)
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("append transaction failed: %w", err)
	}

	return rec.Sequence, nil
}

// SaveConflict сохраняет локальный конфликт одновременного изменения
func (s *Store) SaveConflict(ctx context.Context, conflict *models.SyncConflict) error {
	if s.db == nil {
		return storage.ErrStorageClosed
	}

	data, err := json.Marshal(conflict)
	if err != nil {
		return fmt.Errorf("failed to marshal conflict: %w", err)
	}

	err = s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketConflicts).Put([]byte(conflict.ID), data)
	})
	if err != nil {
		return fmt.Errorf("failed to save conflict: %w", err)
	}

	return nil
}

// PendingConflicts возвращает открытые конфликты ресурса
func (s *Store) PendingConflicts(ctx context.Context, recordType models.RecordType, recordID string) ([]*models.SyncConflict, error) {
	if s.db == nil {
		return nil, storage.ErrStorageClosed
	}

	var conflicts []*models.SyncConflict

	err := s.db.View(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketConflicts).ForEach(func(k, v []byte) error {
			var conflict models.SyncConflict
			if err := json.Unmarshal(v, &conflict); err != nil {
				return fmt.Errorf("failed to unmarshal conflict: %w", err)
			}

			if conflict.RecordType == recordType && conflict.RecordID == recordID &&
				conflict.Status == models.ResolutionPending {
				conflicts = append(conflicts, &conflict)
			}
			return nil
		})
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list pending conflicts: %w", err)
	}

	return conflicts, nil
}
