package reconcile

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/iudanet/vaultsync/internal/models"
)

// Ошибки сверки остатков
var (
	// ErrNoItems пересчет без единой позиции не имеет смысла
	ErrNoItems = errors.New("blind count must contain at least one item")
	// ErrDuplicateItem одна позиция посчитана дважды в одной сдаче
	ErrDuplicateItem = errors.New("duplicate item in blind count")
	// ErrInvalidItem позиция с неизвестным состоянием или отрицательным количеством
	ErrInvalidItem = errors.New("invalid blind count item")
	// ErrInvalidResolution статус решения должен быть resolved или ignored
	ErrInvalidResolution = errors.New("resolution status must be resolved or ignored")
)

// Пороги серьезности расхождения: отклонение от учетного остатка
// на 50% и больше - high, на 20% и больше - medium, иначе low.
const (
	severityHighRatio   = 0.5
	severityMediumRatio = 0.2
)

// ItemKey однозначно определяет позицию учета: товар в конкретном состоянии.
type ItemKey struct {
	ProductUUID string
	Condition   models.Condition
}

// CountedItem представляет одну позицию слепого пересчета.
type CountedItem struct {
	ProductUUID string
	Condition   models.Condition
	Quantity    int64
}

//go:generate moq -out store_mock.go . Store

// Store определяет интерфейс хранилища для сверки остатков.
type Store interface {
	// SnapshotQuantities возвращает учетные остатки для заданных позиций,
	// прочитанные в одной транзакции. Неизвестная позиция дает остаток 0.
	SnapshotQuantities(ctx context.Context, keys []ItemKey) (map[ItemKey]int64, error)

	// SaveAuditSession атомарно сохраняет сессию пересчета и ее расхождения.
	SaveAuditSession(ctx context.Context, session *models.AuditSession,
		discrepancies []models.Discrepancy) error

	// NegativeInventory возвращает позиции с отрицательным учетным остатком.
	NegativeInventory(ctx context.Context) ([]models.InventoryItem, error)

	// MismatchedPrices возвращает позиции, где цена последней продажи
	// расходится с актуальным прайсом.
	MismatchedPrices(ctx context.Context) ([]PriceDeviation, error)

	// NegativeCredits возвращает покупателей с отрицательным магазинным кредитом.
	NegativeCredits(ctx context.Context) ([]models.Customer, error)

	// SaveDiscrepancies сохраняет расхождения фоновой проверки, пропуская
	// позиции, по которым уже есть открытое расхождение того же типа.
	// Возвращает количество действительно сохраненных.
	SaveDiscrepancies(ctx context.Context, discrepancies []models.Discrepancy) (int, error)

	// ResolveDiscrepancy переводит расхождение из pending в указанный статус.
	// Поля решения заполняются один раз; повторное разрешение - ошибка.
	ResolveDiscrepancy(ctx context.Context, id string, status models.ResolutionStatus,
		notes, resolvedBy string, resolvedAt time.Time) error
}

// PriceDeviation представляет расхождение цены продажи с актуальным прайсом.
type PriceDeviation struct {
	ProductUUID     string
	Condition       models.Condition
	TransactionUUID string
	RecordedPrice   int64
	CurrentPrice    int64
}

// Engine выполняет сверку остатков: принимает слепые пересчеты,
// ищет аномалии в учетных данных и ведет жизненный цикл расхождений.
type Engine struct {
	store  Store
	logger *slog.Logger
}

// New создает движок сверки.
func New(store Store, logger *slog.Logger) *Engine {
	return &Engine{
		store:  store,
		logger: logger,
	}
}

// ClassifySeverity определяет серьезность расхождения по доле отклонения
// от учетного остатка. Нулевой учетный остаток не дает делить - такие
// расхождения всегда low, сколько бы ни нашлось на полке.
func ClassifySeverity(expected, variance int64) models.Severity {
	if expected == 0 {
		return models.SeverityLow
	}

	abs := variance
	if abs < 0 {
		abs = -abs
	}
	ratio := float64(abs) / float64(expected)

	switch {
	case ratio >= severityHighRatio:
		return models.SeverityHigh
	case ratio >= severityMediumRatio:
		return models.SeverityMedium
	default:
		return models.SeverityLow
	}
}

// SubmitBlindCount принимает сдачу слепого пересчета.
//
// Учетные остатки фиксируются одним снимком в момент сдачи и сохраняются в
// расхождении навсегда: более поздние продажи не меняют уже зафиксированные
// ожидания. Позиции с нулевым отклонением расхождений не создают.
func (e *Engine) SubmitBlindCount(ctx context.Context, nodeID, locationTag string,
	items []CountedItem,
) (*models.AuditSession, []models.Discrepancy, error) {
	if len(items) == 0 {
		return nil, nil, ErrNoItems
	}

	keys := make([]ItemKey, 0, len(items))
	seen := make(map[ItemKey]struct{}, len(items))
	for _, item := range items {
		if item.ProductUUID == "" || !models.ValidCondition(item.Condition) || item.Quantity < 0 {
			return nil, nil, fmt.Errorf("%w: product=%q condition=%q quantity=%d",
				ErrInvalidItem, item.ProductUUID, item.Condition, item.Quantity)
		}

		key := ItemKey{ProductUUID: item.ProductUUID, Condition: item.Condition}
		if _, dup := seen[key]; dup {
			return nil, nil, fmt.Errorf("%w: product=%s condition=%s",
				ErrDuplicateItem, item.ProductUUID, item.Condition)
		}
		seen[key] = struct{}{}
		keys = append(keys, key)
	}

	expected, err := e.store.SnapshotQuantities(ctx, keys)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to snapshot expected quantities: %w", err)
	}

	session := &models.AuditSession{
		SubmittedAt:  time.Now().UTC(),
		ID:           uuid.New().String(),
		LocationTag:  locationTag,
		NodeID:       nodeID,
		ItemsCounted: len(items),
	}

	var discrepancies []models.Discrepancy
	for _, item := range items {
		key := ItemKey{ProductUUID: item.ProductUUID, Condition: item.Condition}
		exp := expected[key]
		variance := item.Quantity - exp
		if variance == 0 {
			continue
		}

		discrepancies = append(discrepancies, models.Discrepancy{
			CreatedAt:   session.SubmittedAt,
			ID:          uuid.New().String(),
			SessionID:   session.ID,
			ProductUUID: item.ProductUUID,
			Condition:   item.Condition,
			Type:        models.ConflictTypeMiscount,
			Severity:    ClassifySeverity(exp, variance),
			Status:      models.ResolutionPending,
			Expected:    exp,
			Actual:      item.Quantity,
			Variance:    variance,
		})
	}
	session.Discrepancies = len(discrepancies)

	if err := e.store.SaveAuditSession(ctx, session, discrepancies); err != nil {
		return nil, nil, fmt.Errorf("failed to save audit session: %w", err)
	}

	e.logger.Info("blind count submitted",
		"session_id", session.ID,
		"node_id", nodeID,
		"location_tag", locationTag,
		"items_counted", session.ItemsCounted,
		"discrepancies", session.Discrepancies)

	return session, discrepancies, nil
}

// DetectConflicts ищет аномалии в учетных данных: отрицательные остатки,
// продажи мимо прайса и отрицательный кредит покупателей. Найденные
// расхождения информационные: они не меняют ни остатки, ни журнал изменений.
func (e *Engine) DetectConflicts(ctx context.Context) ([]models.Discrepancy, error) {
	now := time.Now().UTC()
	var found []models.Discrepancy

	oversold, err := e.store.NegativeInventory(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to scan inventory: %w", err)
	}
	for _, item := range oversold {
		found = append(found, models.Discrepancy{
			CreatedAt:   now,
			ID:          uuid.New().String(),
			ProductUUID: item.ProductUUID,
			Condition:   item.Condition,
			Type:        models.ConflictTypeOversold,
			Severity:    models.SeverityHigh,
			Status:      models.ResolutionPending,
			Expected:    0,
			Actual:      item.Quantity,
			Variance:    item.Quantity,
		})
	}

	deviations, err := e.store.MismatchedPrices(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to scan prices: %w", err)
	}
	for _, dev := range deviations {
		found = append(found, models.Discrepancy{
			CreatedAt:   now,
			ID:          uuid.New().String(),
			ProductUUID: dev.ProductUUID,
			Condition:   dev.Condition,
			Type:        models.ConflictTypePriceMismatch,
			Severity:    models.SeverityMedium,
			Status:      models.ResolutionPending,
			Expected:    dev.CurrentPrice,
			Actual:      dev.RecordedPrice,
			Variance:    dev.RecordedPrice - dev.CurrentPrice,
		})
	}

	credits, err := e.store.NegativeCredits(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to scan customer credits: %w", err)
	}
	for _, customer := range credits {
		found = append(found, models.Discrepancy{
			CreatedAt:   now,
			ID:          uuid.New().String(),
			ProductUUID: customer.UUID,
			Type:        models.ConflictTypeCreditAnomaly,
			Severity:    models.SeverityHigh,
			Status:      models.ResolutionPending,
			Expected:    0,
			Actual:      customer.StoreCredit,
			Variance:    customer.StoreCredit,
		})
	}

	if len(found) == 0 {
		return nil, nil
	}

	saved, err := e.store.SaveDiscrepancies(ctx, found)
	if err != nil {
		return nil, fmt.Errorf("failed to save discrepancies: %w", err)
	}

	e.logger.Info("conflict detection sweep finished",
		"found", len(found),
		"new", saved)

	return found, nil
}

// Resolve закрывает расхождение решением оператора.
// Допустимые статусы - resolved и ignored; переход односторонний.
func (e *Engine) Resolve(ctx context.Context, id string, status models.ResolutionStatus,
	notes, resolvedBy string,
) error {
	if !models.TerminalResolution(status) {
		return fmt.Errorf("%w: got %q", ErrInvalidResolution, status)
	}

	if err := e.store.ResolveDiscrepancy(ctx, id, status, notes, resolvedBy, time.Now().UTC()); err != nil {
		return fmt.Errorf("failed to resolve discrepancy: %w", err)
	}

	e.logger.Info("discrepancy resolved",
		"discrepancy_id", id,
		"status", status,
		"resolved_by", resolvedBy)

	return nil
}
