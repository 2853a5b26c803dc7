package storage

import (
	"context"
	"time"

	"github.com/iudanet/vaultsync/internal/models"
)

// ConflictStorage определяет интерфейс локальных конфликтов кассы.
// Конфликты создаются журналом изменений при получении конкурентной
// версии с сервера и разрешаются оператором кассы теми же стратегиями,
// что и на сервере.
type ConflictStorage interface {
	// GetConflict возвращает конфликт по идентификатору.
	// Возвращает ErrConflictNotFound, если конфликта нет.
	GetConflict(ctx context.Context, id string) (*models.SyncConflict, error)

	// ListConflicts возвращает конфликты в выбранном статусе, новые первыми.
	// Пустой статус означает все конфликты.
	ListConflicts(ctx context.Context, status models.ResolutionStatus, limit int) ([]models.SyncConflict, error)

	// MarkResolved переводит открытый конфликт в разрешенные.
	// Переход односторонний: повторное разрешение возвращает ErrConflictResolved.
	MarkResolved(ctx context.Context, id string, strategy models.Strategy,
		resolvedBy string, resolvedAt time.Time) error

	// CountPendingConflicts возвращает число открытых конфликтов.
	CountPendingConflicts(ctx context.Context) (int, error)
}
