package boltdb

import (
	"encoding/binary"
	"fmt"

	"go.etcd.io/bbolt"
)

var (
	// Имена bucket'ов кассового хранилища
	bucketMetadata  = []byte("metadata")  // личность узла, водяная метка, время синхронизации
	bucketQueue     = []byte("queue")     // очередь отправки: монотонный ключ -> QueuedChange
	bucketRecords   = []byte("records")   // последняя примененная запись на ресурс
	bucketClocks    = []byte("clocks")    // часы ресурса: ключ ресурса -> vclock.Clock
	bucketConflicts = []byte("conflicts") // локальные конфликты: UUID -> SyncConflict
)

// Store представляет bbolt-хранилище кассы: очередь отправки,
// примененное состояние с часами ресурсов, конфликты и метаданные.
// Материализованное состояние кассы - это bucket records: по одной
// последней примененной записи на каждый ресурс.
type Store struct {
	db *bbolt.DB
}

// New открывает bbolt-хранилище по указанному пути
func New(dbPath string) (*Store, error) {
	db, err := bbolt.Open(dbPath, 0o600, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to open boltdb: %w", err)
	}

	store := &Store{db: db}

	if err := store.initBuckets(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize buckets: %w", err)
	}

	return store, nil
}

// Close закрывает хранилище.
// Повторный вызов безопасен; обращения после закрытия получают ErrStorageClosed.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

// initBuckets создает необходимые bucket'ы, если они не существуют
func (s *Store) initBuckets() error {
	buckets := [][]byte{bucketMetadata, bucketQueue, bucketRecords, bucketClocks, bucketConflicts}

	return s.db.Update(func(tx *bbolt.Tx) error {
		for _, name := range buckets {
			if _, err := tx.CreateBucketIfNotExists(name); err != nil {
				return fmt.Errorf("failed to create bucket %s: %w", name, err)
			}
		}
		return nil
	})
}

// itob кодирует uint64 в big-endian ключ: лексикографический порядок
// ключей совпадает с числовым
func itob(v uint64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, v)
	return b
}

// btoi декодирует big-endian ключ обратно в uint64
func btoi(b []byte) uint64 {
	return binary.BigEndian.Uint64(b)
}
