package changelog

import (
	"context"
	"encoding/json"
	"fmt"
	"hash/fnv"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/iudanet/vaultsync/internal/crypto"
	"github.com/iudanet/vaultsync/internal/models"
	"github.com/iudanet/vaultsync/internal/validation"
	"github.com/iudanet/vaultsync/internal/vclock"
)

//go:generate moq -out store_mock.go . Store

// Store определяет интерфейс хранилища журнала изменений.
// Серверная реализация - SQLite, кассовая - bbolt; правило применения
// записей одно и то же на обеих сторонах.
type Store interface {
	// ResourceClock возвращает последние известные часы ресурса.
	// Для неизвестного ресурса возвращает пустые часы без ошибки.
	ResourceClock(ctx context.Context, recordType models.RecordType, recordID string) (vclock.Clock, error)

	// LastApplied возвращает последнюю примененную запись ресурса.
	// Возвращает ошибку, если ресурс неизвестен.
	LastApplied(ctx context.Context, recordType models.RecordType, recordID string) (*models.ChangeRecord, error)

	// AppendApplied атомарно сохраняет примененную запись: добавляет ее в журнал,
	// обновляет часы ресурса и материализует состояние. Узел слияния присваивает
	// записи порядковый номер и возвращает его; остальные узлы возвращают номер,
	// уже присвоенный записи (0, если номера еще нет).
	AppendApplied(ctx context.Context, rec *models.ChangeRecord) (uint64, error)

	// SaveConflict сохраняет конфликт одновременного изменения.
	SaveConflict(ctx context.Context, conflict *models.SyncConflict) error

	// PendingConflicts возвращает открытые конфликты ресурса.
	PendingConflicts(ctx context.Context, recordType models.RecordType, recordID string) ([]*models.SyncConflict, error)

	// MarkResolved переводит открытый конфликт в resolved, фиксируя стратегию,
	// узел и время разрешения. Переход одноразовый: уже разрешенный конфликт
	// возвращает ошибку.
	MarkResolved(ctx context.Context, id string, strategy models.Strategy,
		resolvedBy string, resolvedAt time.Time) error
}

// Result представляет исход применения одной записи к журналу.
type Result struct {
	Conflict *models.SyncConflict // Conflict созданный конфликт; заполнен при StatusConflicted
	Reason   string               // Reason причина отклонения; заполнена при StatusRejected
	Status   models.AppendStatus  // Status итог применения
	Sequence uint64               // Sequence присвоенный порядковый номер; заполнен при StatusApplied узлом слияния
}

// lockStripes - количество полос блокировок для ресурсов.
// Записи одного ресурса сериализуются, разные ресурсы идут параллельно.
const lockStripes = 64

// Engine применяет записи изменений к журналу по причинному порядку векторных
// часов. Запись новее известного состояния применяется, устаревшая тихо
// отбрасывается, конкурентная порождает конфликт и не меняет состояние.
type Engine struct {
	store  Store
	logger *slog.Logger
	nodeID string
	locks  [lockStripes]sync.Mutex
}

// New создает движок журнала изменений.
// nodeID - идентификатор собственного узла: им подписываются локальные записи.
func New(store Store, nodeID string, logger *slog.Logger) *Engine {
	return &Engine{
		store:  store,
		logger: logger,
		nodeID: nodeID,
	}
}

// lockFor возвращает мьютекс полосы, в которую попадает ключ ресурса.
func (e *Engine) lockFor(resourceKey string) *sync.Mutex {
	h := fnv.New32a()
	h.Write([]byte(resourceKey))
	return &e.locks[h.Sum32()%lockStripes]
}

// Append применяет запись изменения к журналу.
//
// Сравнение часов записи с часами ресурса дает ровно один из исходов:
//   - After: запись применяется, часы ресурса продвигаются;
//   - Before или Equal: запись устарела, состояние не меняется (повторная
//     доставка безопасна);
//   - Concurrent: создается конфликт с обеими версиями, авторитетное
//     состояние не меняется до решения оператора; повторная доставка
//     той же версии возвращает уже открытый конфликт.
//
// Некорректная запись отклоняется со статусом rejected, не прерывая пакет.
func (e *Engine) Append(ctx context.Context, rec *models.ChangeRecord) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	if err := validation.ValidateRecord(rec); err != nil {
		e.logger.Warn("change record rejected",
			"record_id", rec.RecordID,
			"error", err)
		return Result{Status: models.StatusRejected, Reason: err.Error()}, nil
	}

	if err := crypto.VerifyRecordChecksum(rec.RecordID, string(rec.RecordType),
		string(rec.Operation), rec.Payload, rec.Checksum); err != nil {
		e.logger.Warn("change record rejected",
			"record_id", rec.RecordID,
			"error", err)
		return Result{Status: models.StatusRejected, Reason: err.Error()}, nil
	}

	mu := e.lockFor(rec.ResourceKey())
	mu.Lock()
	defer mu.Unlock()

	return e.appendLocked(ctx, rec)
}

func (e *Engine) appendLocked(ctx context.Context, rec *models.ChangeRecord) (Result, error) {
	current, err := e.store.ResourceClock(ctx, rec.RecordType, rec.RecordID)
	if err != nil {
		return Result{}, fmt.Errorf("failed to get resource clock: %w", err)
	}

	switch vclock.Compare(rec.Clock, current) {
	case vclock.After:
		seq, err := e.store.AppendApplied(ctx, rec)
		if err != nil {
			return Result{}, fmt.Errorf("failed to append record: %w", err)
		}

		// Чужая запись, доминирующая над обеими сторонами открытого конфликта,
		// несет результат его разрешения на другом узле: локальный конфликт
		// закрывается без участия оператора. Собственные записи конфликтов
		// не закрывают: локальное разрешение фиксирует свою стратегию само.
		if rec.NodeID != e.nodeID {
			e.settleSuperseded(ctx, rec)
		}

		e.logger.Debug("change record applied",
			"record_id", rec.RecordID,
			"record_type", rec.RecordType,
			"node_id", rec.NodeID,
			"sequence", seq)

		return Result{Status: models.StatusApplied, Sequence: seq}, nil

	case vclock.Before, vclock.Equal:
		e.logger.Debug("stale change record skipped",
			"record_id", rec.RecordID,
			"record_clock", rec.Clock.String(),
			"known_clock", current.String())

		return Result{Status: models.StatusStale}, nil

	default: // vclock.Concurrent
		// Повторная доставка той же конкурентной версии возвращает уже
		// открытый конфликт: цикл синхронизации может слать запись заново,
		// не плодя дубликаты.
		open, err := e.store.PendingConflicts(ctx, rec.RecordType, rec.RecordID)
		if err != nil {
			return Result{}, fmt.Errorf("failed to list pending conflicts: %w", err)
		}
		for _, c := range open {
			if vclock.Compare(c.Remote.Clock, rec.Clock) == vclock.Equal {
				e.logger.Debug("concurrent record redelivered",
					"record_id", rec.RecordID,
					"conflict_id", c.ID)
				return Result{Status: models.StatusConflicted, Conflict: c}, nil
			}
		}

		local, err := e.store.LastApplied(ctx, rec.RecordType, rec.RecordID)
		if err != nil {
			return Result{}, fmt.Errorf("failed to load conflicting record: %w", err)
		}

		conflict := &models.SyncConflict{
			DetectedAt: time.Now().UTC(),
			Local:      *local.Clone(),
			Remote:     *rec.Clone(),
			ID:         uuid.New().String(),
			RecordID:   rec.RecordID,
			RecordType: rec.RecordType,
			Status:     models.ResolutionPending,
		}

		if err := e.store.SaveConflict(ctx, conflict); err != nil {
			return Result{}, fmt.Errorf("failed to save conflict: %w", err)
		}

		e.logger.Info("concurrent modification detected",
			"record_id", rec.RecordID,
			"record_type", rec.RecordType,
			"conflict_id", conflict.ID,
			"local_clock", local.Clock.String(),
			"remote_clock", rec.Clock.String())

		return Result{Status: models.StatusConflicted, Conflict: conflict}, nil
	}
}

// settleSuperseded закрывает открытые конфликты ресурса, обе версии которых
// причинно предшествуют примененной записи. Запись уже применена, поэтому
// ошибки закрытия логируются, но не меняют исход применения.
func (e *Engine) settleSuperseded(ctx context.Context, rec *models.ChangeRecord) {
	open, err := e.store.PendingConflicts(ctx, rec.RecordType, rec.RecordID)
	if err != nil {
		e.logger.Warn("failed to list conflicts for settlement",
			"record_id", rec.RecordID,
			"error", err)
		return
	}

	for _, c := range open {
		if !rec.Clock.Dominates(c.Local.Clock) || !rec.Clock.Dominates(c.Remote.Clock) {
			continue
		}

		if err := e.store.MarkResolved(ctx, c.ID, models.StrategyRemoteWins,
			rec.NodeID, time.Now().UTC()); err != nil {
			e.logger.Warn("failed to settle superseded conflict",
				"conflict_id", c.ID,
				"record_id", rec.RecordID,
				"error", err)
			continue
		}

		e.logger.Info("conflict settled by dominating record",
			"conflict_id", c.ID,
			"record_id", rec.RecordID,
			"resolved_by", rec.NodeID)
	}
}

// Stage создает локальную запись изменения и применяет ее к журналу.
// Часы ресурса читаются и продвигаются под блокировкой ресурса, поэтому
// созданная запись всегда доминирует над текущим состоянием.
// Вернувшуюся запись касса ставит в очередь отправки.
func (e *Engine) Stage(ctx context.Context, recordType models.RecordType, recordID string,
	op models.Operation, payload json.RawMessage,
) (*models.ChangeRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	mu := e.lockFor(string(recordType) + "/" + recordID)
	mu.Lock()
	defer mu.Unlock()

	current, err := e.store.ResourceClock(ctx, recordType, recordID)
	if err != nil {
		return nil, fmt.Errorf("failed to get resource clock: %w", err)
	}

	rec := &models.ChangeRecord{
		Timestamp:  time.Now().UTC(),
		Payload:    payload,
		Clock:      current.Increment(e.nodeID),
		RecordID:   recordID,
		RecordType: recordType,
		Operation:  op,
		NodeID:     e.nodeID,
	}
	rec.Checksum = crypto.RecordChecksum(rec.RecordID, string(rec.RecordType),
		string(rec.Operation), rec.Payload)

	if err := validation.ValidateRecord(rec); err != nil {
		return nil, fmt.Errorf("invalid local change: %w", err)
	}

	seq, err := e.store.AppendApplied(ctx, rec)
	if err != nil {
		return nil, fmt.Errorf("failed to append local change: %w", err)
	}
	rec.Sequence = seq

	e.logger.Debug("local change staged",
		"record_id", rec.RecordID,
		"record_type", rec.RecordType,
		"clock", rec.Clock.String())

	return rec, nil
}
