package resolver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/iudanet/vaultsync/internal/changelog"
	"github.com/iudanet/vaultsync/internal/crypto"
	"github.com/iudanet/vaultsync/internal/models"
	"github.com/iudanet/vaultsync/internal/vclock"
)

// Ошибки разрешения конфликтов
var (
	// ErrAlreadyResolved конфликт уже разрешен или проигнорирован
	ErrAlreadyResolved = errors.New("conflict already resolved")
	// ErrMergedDataRequired стратегия manual требует объединенное состояние
	ErrMergedDataRequired = errors.New("manual resolution requires merged data")
	// ErrUnknownStrategy неизвестная стратегия разрешения
	ErrUnknownStrategy = errors.New("unknown resolution strategy")
)

//go:generate moq -out conflictstore_mock.go . ConflictStore

// ConflictStore определяет интерфейс хранилища конфликтов для резольвера.
type ConflictStore interface {
	// GetConflict возвращает конфликт по идентификатору.
	GetConflict(ctx context.Context, id string) (*models.SyncConflict, error)

	// MarkResolved переводит конфликт из pending в resolved.
	// Переход односторонний: для уже разрешенного конфликта
	// возвращается ошибка, поля решения не перезаписываются.
	MarkResolved(ctx context.Context, id string, strategy models.Strategy,
		resolvedBy string, resolvedAt time.Time) error
}

//go:generate moq -out appender_mock.go . Appender

// Appender применяет разрешающую запись к журналу изменений.
type Appender interface {
	Append(ctx context.Context, rec *models.ChangeRecord) (changelog.Result, error)
}

// Resolver разрешает конфликты одновременного изменения.
// Разрешение - это новая запись изменения, часы которой доминируют над обеими
// конфликтующими версиями, поэтому она вытесняет их на всех узлах через обычную
// синхронизацию.
type Resolver struct {
	store  ConflictStore
	log    Appender
	logger *slog.Logger
	nodeID string
}

// New создает резольвер конфликтов.
// nodeID - узел, от имени которого создаются разрешающие записи.
func New(store ConflictStore, log Appender, nodeID string, logger *slog.Logger) *Resolver {
	return &Resolver{
		store:  store,
		log:    log,
		logger: logger,
		nodeID: nodeID,
	}
}

// Resolve применяет стратегию к конфликту и возвращает разрешающую запись.
//
//   - local_wins: состояние локальной версии становится авторитетным;
//   - remote_wins: состояние удаленной версии становится авторитетным;
//   - manual: оператор предоставляет объединенное состояние в mergedData.
//
// Часы разрешающей записи - merge(local, remote) с инкрементом разрешающего
// узла: они причинно следуют за обеими версиями, поэтому повторная доставка
// любой из них после разрешения дает статус stale.
func (r *Resolver) Resolve(ctx context.Context, conflictID string, strategy models.Strategy,
	mergedData json.RawMessage,
) (*models.ChangeRecord, error) {
	conflict, err := r.store.GetConflict(ctx, conflictID)
	if err != nil {
		return nil, fmt.Errorf("failed to load conflict: %w", err)
	}

	if conflict.Status != models.ResolutionPending {
		return nil, ErrAlreadyResolved
	}

	rec, err := r.buildResolution(conflict, strategy, mergedData)
	if err != nil {
		return nil, err
	}

	result, err := r.log.Append(ctx, rec)
	if err != nil {
		return nil, fmt.Errorf("failed to append resolution: %w", err)
	}

	// Разрешающая запись строится поверх часов конфликта; если ресурс успел
	// уйти вперед, append фиксирует новый конфликт - решение оператора по
	// исходному конфликту при этом остается в силе.
	if result.Status != models.StatusApplied {
		r.logger.Warn("resolution did not apply cleanly",
			"conflict_id", conflictID,
			"status", result.Status)
	}
	rec.Sequence = result.Sequence

	if err := r.store.MarkResolved(ctx, conflictID, strategy, r.nodeID, time.Now().UTC()); err != nil {
		return nil, fmt.Errorf("failed to mark conflict resolved: %w", err)
	}

	r.logger.Info("conflict resolved",
		"conflict_id", conflictID,
		"record_id", conflict.RecordID,
		"strategy", strategy,
		"resolved_by", r.nodeID)

	return rec, nil
}

// buildResolution строит разрешающую запись по стратегии.
func (r *Resolver) buildResolution(conflict *models.SyncConflict, strategy models.Strategy,
	mergedData json.RawMessage,
) (*models.ChangeRecord, error) {
	var payload json.RawMessage
	var op models.Operation

	switch strategy {
	case models.StrategyLocalWins:
		payload = conflict.Local.Payload
		op = conflict.Local.Operation
	case models.StrategyRemoteWins:
		payload = conflict.Remote.Payload
		op = conflict.Remote.Operation
	case models.StrategyManual:
		if len(mergedData) == 0 {
			return nil, ErrMergedDataRequired
		}
		payload = mergedData
		op = models.OperationUpdate
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownStrategy, strategy)
	}

	clock := vclock.Merge(conflict.Local.Clock, conflict.Remote.Clock).Increment(r.nodeID)

	// Инвариант разрешения: новые часы строго доминируют над обеими версиями
	if vclock.Compare(clock, conflict.Local.Clock) != vclock.After ||
		vclock.Compare(clock, conflict.Remote.Clock) != vclock.After {
		return nil, fmt.Errorf("resolution clock %s does not dominate both versions", clock)
	}

	rec := &models.ChangeRecord{
		Timestamp:  time.Now().UTC(),
		Payload:    payload,
		Clock:      clock,
		RecordID:   conflict.RecordID,
		RecordType: conflict.RecordType,
		Operation:  op,
		NodeID:     r.nodeID,
	}
	rec.Checksum = crypto.RecordChecksum(rec.RecordID, string(rec.RecordType),
		string(rec.Operation), rec.Payload)

	return rec, nil
}
