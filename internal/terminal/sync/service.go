package sync

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/sethvargo/go-retry"

	"github.com/iudanet/vaultsync/internal/changelog"
	"github.com/iudanet/vaultsync/internal/models"
	httpapi "github.com/iudanet/vaultsync/internal/terminal/api"
	"github.com/iudanet/vaultsync/internal/terminal/storage"
	"github.com/iudanet/vaultsync/pkg/api"
)

// Ошибки цикла синхронизации
var (
	// ErrSyncInProgress цикл синхронизации уже выполняется
	ErrSyncInProgress = errors.New("sync cycle already in progress")
	// ErrTokenExpired токен кассы отклонен сервером; нужна перерегистрация
	ErrTokenExpired = errors.New("node token rejected, re-register the node")
)

const (
	// defaultBatchLimit максимум записей в одном пакете отправки и приема
	defaultBatchLimit = 100
	// retryAttempts количество повторов сетевого запроса
	retryAttempts = 3
	// retryBase базовая задержка между повторами
	retryBase = 500 * time.Millisecond
)

//go:generate moq -out peer_mock.go . Peer

// Peer определяет серверную сторону обмена, нужную циклу синхронизации.
// Реализуется HTTP клиентом кассы.
type Peer interface {
	// Push отправляет пакет локальных изменений серверу
	Push(ctx context.Context, token string, req api.PushRequest) (*api.PushResponse, error)

	// Pull забирает изменения сервера после порядкового номера since
	Pull(ctx context.Context, token string, since uint64, limit int) (*api.PullResponse, error)
}

// Changelog определяет операции журнала изменений, нужные циклу синхронизации
type Changelog interface {
	Append(ctx context.Context, rec *models.ChangeRecord) (changelog.Result, error)
	Stage(ctx context.Context, recordType models.RecordType, recordID string,
		op models.Operation, payload json.RawMessage) (*models.ChangeRecord, error)
}

// ConflictResolver определяет разрешение локальных конфликтов
type ConflictResolver interface {
	Resolve(ctx context.Context, conflictID string, strategy models.Strategy,
		mergedData json.RawMessage) (*models.ChangeRecord, error)
}

//go:generate moq -out service_mock.go . Service

// Service определяет интерфейс синхронизации кассы
type Service interface {
	// Cycle выполняет один цикл синхронизации: отправка, затем прием.
	// Возвращает ErrSyncInProgress, если цикл уже идет.
	Cycle(ctx context.Context) (*CycleResult, error)

	// Run запускает периодическую синхронизацию до отмены контекста
	Run(ctx context.Context, interval time.Duration) error

	// Status возвращает локальное состояние синхронизации без обращения к серверу
	Status(ctx context.Context) (*Status, error)

	// Stage создает локальное изменение и ставит его в очередь отправки
	Stage(ctx context.Context, recordType models.RecordType, recordID string,
		op models.Operation, payload json.RawMessage) (*models.ChangeRecord, error)

	// ListConflicts возвращает локальные конфликты в выбранном статусе
	ListConflicts(ctx context.Context, status models.ResolutionStatus, limit int) ([]models.SyncConflict, error)

	// ResolveConflict разрешает локальный конфликт и ставит разрешающую
	// запись в очередь отправки
	ResolveConflict(ctx context.Context, conflictID string, strategy models.Strategy,
		mergedData json.RawMessage) (*models.ChangeRecord, error)
}

// service синхронизирует кассу с сервером магазина
type service struct {
	peer       Peer
	queue      storage.QueueStorage
	metadata   storage.MetadataStorage
	conflicts  storage.ConflictStorage
	engine     Changelog
	resolver   ConflictResolver
	logger     *slog.Logger
	batchLimit int
	inProgress atomic.Bool
}

// NewService создает сервис синхронизации кассы
func NewService(peer Peer, queue storage.QueueStorage, metadata storage.MetadataStorage,
	conflicts storage.ConflictStorage, engine Changelog, res ConflictResolver,
	logger *slog.Logger,
) Service {
	return &service{
		peer:       peer,
		queue:      queue,
		metadata:   metadata,
		conflicts:  conflicts,
		engine:     engine,
		resolver:   res,
		logger:     logger,
		batchLimit: defaultBatchLimit,
	}
}

// CycleResult содержит итоги одного цикла синхронизации
type CycleResult struct {
	Pushed         int    // отправлено записей из очереди
	Applied        int    // принято сервером
	Stale          int    // отброшено сервером как устаревшие
	Conflicted     int    // конфликтует на сервере, осталось в очереди
	Rejected       int    // отклонено валидацией сервера
	Pulled         int    // получено записей от сервера
	PulledApplied  int    // применено локально
	PulledStale    int    // уже известно локально
	LocalConflicts int    // конфликтов создано локально
	Watermark      uint64 // водяной знак после цикла
}

// Status представляет локальное состояние синхронизации кассы.
// Собирается только из локального хранилища: касса честно показывает,
// что еще не отправлено и не разрешено, даже без связи с сервером.
type Status struct {
	LastSyncAt       time.Time // время последнего успешного цикла
	NodeID           string    // идентификатор кассы
	NodeName         string    // имя кассы
	Watermark        uint64    // порядковый номер последней принятой записи сервера
	QueuedChanges    int       // изменений в очереди отправки
	PendingConflicts int       // открытых локальных конфликтов
	InProgress       bool      // цикл синхронизации выполняется
}

// Cycle выполняет один цикл синхронизации: сначала отправка локальной очереди,
// затем прием изменений сервера. Порядок важен: конфликтные записи кассы
// фиксируются на сервере до того, как касса примет чужие изменения.
func (s *service) Cycle(ctx context.Context) (*CycleResult, error) {
	if !s.inProgress.CompareAndSwap(false, true) {
		return nil, ErrSyncInProgress
	}
	defer s.inProgress.Store(false)

	ident, err := s.metadata.Identity(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load node identity: %w", err)
	}

	s.logger.Info("starting sync cycle", "node_id", ident.NodeID)

	result := &CycleResult{}

	if err := s.push(ctx, ident, result); err != nil {
		return nil, err
	}

	if err := s.pull(ctx, ident, result); err != nil {
		return nil, err
	}

	// Время последней синхронизации пишется только после полного цикла
	if err := s.metadata.SaveLastSyncAt(ctx, time.Now().UTC()); err != nil {
		s.logger.Warn("failed to save last sync time", "error", err)
	}

	s.logger.Info("sync cycle completed",
		"pushed", result.Pushed,
		"applied", result.Applied,
		"stale", result.Stale,
		"conflicted", result.Conflicted,
		"rejected", result.Rejected,
		"pulled", result.Pulled,
		"local_conflicts", result.LocalConflicts,
		"watermark", result.Watermark)

	return result, nil
}

// push отправляет очередь локальных изменений пакетами.
// Принятые и устаревшие записи покидают очередь, конфликтные остаются до
// разрешения, отклоненные остаются с причиной отказа.
func (s *service) push(ctx context.Context, ident *storage.Identity, result *CycleResult) error {
	for {
		batch, err := s.queue.Pending(ctx, s.batchLimit)
		if err != nil {
			return fmt.Errorf("failed to read outbound queue: %w", err)
		}
		if len(batch) == 0 {
			return nil
		}

		req := api.PushRequest{
			NodeID:  ident.NodeID,
			Records: make([]api.ChangeRecord, 0, len(batch)),
		}
		for i := range batch {
			req.Records = append(req.Records, toAPIRecord(&batch[i].Record))
		}

		resp, err := s.callPush(ctx, ident.Token, req)
		if err != nil {
			return err
		}
		if len(resp.Results) != len(batch) {
			return fmt.Errorf("push response size mismatch: sent %d, got %d results",
				len(batch), len(resp.Results))
		}

		result.Pushed += len(batch)

		removed := 0
		for i, res := range resp.Results {
			item := batch[i]
			switch res.Status {
			case api.RecordStatusApplied:
				result.Applied++
				if err := s.queue.Remove(ctx, item.Key); err != nil {
					return fmt.Errorf("failed to remove queued change: %w", err)
				}
				removed++
			case api.RecordStatusStale:
				result.Stale++
				if err := s.queue.Remove(ctx, item.Key); err != nil {
					return fmt.Errorf("failed to remove queued change: %w", err)
				}
				removed++
			case api.RecordStatusConflicted:
				// Запись остается в очереди: после разрешения конфликта
				// повторная отправка вернет тот же конфликт, без дубликатов
				result.Conflicted++
				s.logger.Warn("change conflicted on server",
					"record_id", res.RecordID,
					"conflict_id", res.ConflictID)
			case api.RecordStatusRejected:
				result.Rejected++
				if err := s.queue.MarkFailed(ctx, item.Key, res.Error); err != nil {
					return fmt.Errorf("failed to mark queued change failed: %w", err)
				}
				s.logger.Warn("change rejected by server",
					"record_id", res.RecordID,
					"error", res.Error)
			default:
				return fmt.Errorf("unknown record status %q", res.Status)
			}
		}

		// Конец очереди или пакет целиком застрял - выходим, иначе тот же
		// пакет уйдет на сервер повторно в этом же цикле
		if len(batch) < s.batchLimit || removed == 0 {
			return nil
		}
	}
}

// pull принимает изменения сервера пакетами, начиная с водяного знака.
// Водяной знак продвигается только после полного применения пакета: прерванный
// цикл безопасно перечитает те же записи, повторная доставка идемпотентна.
func (s *service) pull(ctx context.Context, ident *storage.Identity, result *CycleResult) error {
	watermark, err := s.metadata.Watermark(ctx)
	if err != nil {
		return fmt.Errorf("failed to read watermark: %w", err)
	}
	result.Watermark = watermark

	for {
		resp, err := s.callPull(ctx, ident.Token, watermark)
		if err != nil {
			return err
		}
		if len(resp.Records) == 0 {
			return nil
		}

		batchMax := watermark
		for i := range resp.Records {
			rec := fromAPIRecord(resp.Records[i])

			res, err := s.engine.Append(ctx, rec)
			if err != nil {
				return fmt.Errorf("failed to apply server change: %w", err)
			}

			switch res.Status {
			case models.StatusApplied:
				result.PulledApplied++
			case models.StatusStale:
				result.PulledStale++
			case models.StatusConflicted:
				result.LocalConflicts++
				s.logger.Warn("concurrent change from server",
					"record_id", rec.RecordID,
					"conflict_id", res.Conflict.ID)
			case models.StatusRejected:
				// Некорректная запись от сервера: двигать водяной знак дальше
				// нельзя, иначе запись потеряется навсегда
				return fmt.Errorf("server sent invalid record %s: %s", rec.RecordID, res.Reason)
			}

			result.Pulled++
			if rec.Sequence > batchMax {
				batchMax = rec.Sequence
			}
		}

		if batchMax > watermark {
			if err := s.metadata.SaveWatermark(ctx, batchMax); err != nil {
				return fmt.Errorf("failed to save watermark: %w", err)
			}
			watermark = batchMax
			result.Watermark = watermark
		}

		if len(resp.Records) < s.batchLimit {
			return nil
		}
	}
}

// callPush выполняет отправку пакета с повторами на сетевых сбоях
func (s *service) callPush(ctx context.Context, token string, req api.PushRequest) (*api.PushResponse, error) {
	var resp *api.PushResponse
	err := retry.Do(ctx, s.backoff(), func(ctx context.Context) error {
		var err error
		resp, err = s.peer.Push(ctx, token, req)
		return retryable(err)
	})
	if err != nil {
		return nil, fmt.Errorf("push failed: %w", err)
	}
	return resp, nil
}

// callPull выполняет прием пакета с повторами на сетевых сбоях
func (s *service) callPull(ctx context.Context, token string, since uint64) (*api.PullResponse, error) {
	var resp *api.PullResponse
	err := retry.Do(ctx, s.backoff(), func(ctx context.Context) error {
		var err error
		resp, err = s.peer.Pull(ctx, token, since, s.batchLimit)
		return retryable(err)
	})
	if err != nil {
		return nil, fmt.Errorf("pull failed: %w", err)
	}
	return resp, nil
}

func (s *service) backoff() retry.Backoff {
	b := retry.NewExponential(retryBase)
	b = retry.WithJitter(retryBase/2, b)
	return retry.WithMaxRetries(retryAttempts, b)
}

// retryable помечает сетевые сбои для повтора. Ответы сервера повтором не
// лечатся: просроченный токен сразу превращается в ErrTokenExpired, остальные
// ошибки сервера возвращаются как есть. Повтор отправки безопасен: принятая
// ранее запись при повторе получит статус stale.
func retryable(err error) error {
	if err == nil {
		return nil
	}

	var srvErr *httpapi.ServerError
	if errors.As(err, &srvErr) {
		if srvErr.StatusCode == http.StatusUnauthorized {
			return ErrTokenExpired
		}
		return err
	}

	return retry.RetryableError(err)
}

// Run запускает периодическую синхронизацию до отмены контекста.
// Первый цикл выполняется сразу, дальше по интервалу. Недоступность сервера -
// обычное состояние кассы: цикл просто повторится на следующем тике.
func (s *service) Run(ctx context.Context, interval time.Duration) error {
	s.logger.Info("starting periodic sync", "interval", interval.String())

	if err := s.runCycle(ctx); err != nil {
		return err
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("periodic sync stopped")
			return nil
		case <-ticker.C:
			if err := s.runCycle(ctx); err != nil {
				return err
			}
		}
	}
}

// runCycle выполняет цикл внутри Run и решает, останавливать ли демон
func (s *service) runCycle(ctx context.Context) error {
	_, err := s.Cycle(ctx)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, ErrSyncInProgress):
		return nil
	case errors.Is(err, ErrTokenExpired):
		// Без валидного токена дальнейшие циклы бессмысленны
		return err
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return nil
	default:
		s.logger.Error("sync cycle failed", "error", err)
		return nil
	}
}

// Status возвращает локальное состояние синхронизации
func (s *service) Status(ctx context.Context) (*Status, error) {
	ident, err := s.metadata.Identity(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load node identity: %w", err)
	}

	watermark, err := s.metadata.Watermark(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read watermark: %w", err)
	}

	lastSync, err := s.metadata.LastSyncAt(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read last sync time: %w", err)
	}

	queued, err := s.queue.PendingCount(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count queued changes: %w", err)
	}

	pending, err := s.conflicts.CountPendingConflicts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count pending conflicts: %w", err)
	}

	return &Status{
		LastSyncAt:       lastSync,
		NodeID:           ident.NodeID,
		NodeName:         ident.NodeName,
		Watermark:        watermark,
		QueuedChanges:    queued,
		PendingConflicts: pending,
		InProgress:       s.inProgress.Load(),
	}, nil
}

// Stage создает локальное изменение и ставит его в очередь отправки
func (s *service) Stage(ctx context.Context, recordType models.RecordType, recordID string,
	op models.Operation, payload json.RawMessage,
) (*models.ChangeRecord, error) {
	rec, err := s.engine.Stage(ctx, recordType, recordID, op, payload)
	if err != nil {
		return nil, fmt.Errorf("failed to stage local change: %w", err)
	}

	if _, err := s.queue.Enqueue(ctx, rec); err != nil {
		return nil, fmt.Errorf("failed to enqueue local change: %w", err)
	}

	s.logger.Debug("local change enqueued",
		"record_id", rec.RecordID,
		"clock", rec.Clock.String())

	return rec, nil
}

// ListConflicts возвращает локальные конфликты в выбранном статусе
func (s *service) ListConflicts(ctx context.Context, status models.ResolutionStatus, limit int) ([]models.SyncConflict, error) {
	return s.conflicts.ListConflicts(ctx, status, limit)
}

// ResolveConflict разрешает локальный конфликт. Разрешающая запись уходит
// на сервер обычным путем - через очередь отправки.
func (s *service) ResolveConflict(ctx context.Context, conflictID string, strategy models.Strategy,
	mergedData json.RawMessage,
) (*models.ChangeRecord, error) {
	winner, err := s.resolver.Resolve(ctx, conflictID, strategy, mergedData)
	if err != nil {
		return nil, err
	}

	if _, err := s.queue.Enqueue(ctx, winner); err != nil {
		return nil, fmt.Errorf("failed to enqueue resolution: %w", err)
	}

	return winner, nil
}
