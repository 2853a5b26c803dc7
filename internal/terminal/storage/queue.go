package storage

import (
	"context"
	"time"

	"github.com/iudanet/vaultsync/internal/models"
)

// QueuedChange представляет одну запись в очереди отправки.
// Ключ присваивается хранилищем монотонно: порядок ключей - это
// порядок создания изменений на кассе, и в этом же порядке они
// уходят на сервер.
type QueuedChange struct {
	EnqueuedAt time.Time           `json:"enqueued_at"` // EnqueuedAt время постановки в очередь
	Record     models.ChangeRecord `json:"record"`      // Record запись изменения целиком
	LastError  string              `json:"last_error"`  // LastError причина последнего отказа сервера
	Key        uint64              `json:"key"`         // Key монотонный ключ очереди
	RetryCount int                 `json:"retry_count"` // RetryCount число неуспешных попыток отправки
}

// QueueStorage определяет интерфейс очереди отправки изменений.
// Изменения встают в очередь при локальном редактировании и покидают
// ее только после того, как сервер принял запись (applied) или признал
// ее устаревшей (stale). Конфликтные и отклоненные записи остаются в
// очереди: конфликт до разрешения, отклонение - для разбора оператором.
type QueueStorage interface {
	// Enqueue ставит запись в хвост очереди и возвращает присвоенный ключ.
	Enqueue(ctx context.Context, rec *models.ChangeRecord) (uint64, error)

	// Pending возвращает записи очереди в порядке постановки, не более limit.
	Pending(ctx context.Context, limit int) ([]QueuedChange, error)

	// Remove убирает запись из очереди по ключу.
	// Возвращает ErrQueueItemNotFound, если записи нет.
	Remove(ctx context.Context, key uint64) error

	// MarkFailed фиксирует неуспешную попытку отправки: увеличивает
	// счетчик попыток и запоминает причину. Запись остается в очереди.
	MarkFailed(ctx context.Context, key uint64, reason string) error

	// PendingCount возвращает число записей, ожидающих отправки.
	PendingCount(ctx context.Context) (int, error)
}
