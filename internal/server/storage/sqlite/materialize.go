package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/iudanet/vaultsync/internal/models"
)

// stateTables таблицы материализованного состояния по типам записей
var stateTables = map[models.RecordType]string{
	models.RecordTypeProduct:       "products",
	models.RecordTypeInventoryItem: "inventory",
	models.RecordTypePriceInfo:     "prices",
	models.RecordTypeTransaction:   "transactions",
	models.RecordTypeCustomer:      "customers",
}

// materializeState применяет запись журнала к таблицам текущего состояния.
// Состояние - это проекция журнала: ее строки всегда выводимы из
// примененных записей, сверка и отчеты читают ее вместо журнала.
func materializeState(ctx context.Context, tx *sql.Tx, rec *models.ChangeRecord) error {
	if rec.Operation == models.OperationDelete {
		return deleteState(ctx, tx, rec)
	}

	switch rec.RecordType {
	case models.RecordTypeProduct:
		return upsertProduct(ctx, tx, rec)
	case models.RecordTypeInventoryItem:
		return upsertInventoryItem(ctx, tx, rec)
	case models.RecordTypePriceInfo:
		return upsertPrice(ctx, tx, rec)
	case models.RecordTypeTransaction:
		return upsertTransaction(ctx, tx, rec)
	case models.RecordTypeCustomer:
		return upsertCustomer(ctx, tx, rec)
	default:
		return fmt.Errorf("unknown record type %q", rec.RecordType)
	}
}

// deleteState удаляет строку состояния по идентификатору записи.
// Удаление несуществующей строки не ошибка: запись могла быть
// удалена до того, как узел увидел ее создание.
func deleteState(ctx context.Context, tx *sql.Tx, rec *models.ChangeRecord) error {
	table, ok := stateTables[rec.RecordType]
	if !ok {
		return fmt.Errorf("unknown record type %q", rec.RecordType)
	}

	query := fmt.Sprintf("DELETE FROM %s WHERE uuid = ?", table)
	if _, err := tx.ExecContext(ctx, query, rec.RecordID); err != nil {
		return fmt.Errorf("failed to delete %s state: %w", rec.RecordType, err)
	}

	return nil
}

func upsertProduct(ctx context.Context, tx *sql.Tx, rec *models.ChangeRecord) error {
	var p models.Product
	if err := json.Unmarshal(rec.Payload, &p); err != nil {
		return fmt.Errorf("failed to unmarshal product payload: %w", err)
	}

	query := `
		INSERT INTO products (uuid, sku, name, set_name, rarity, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (uuid) DO UPDATE SET
			sku = excluded.sku,
			name = excluded.name,
			set_name = excluded.set_name,
			rarity = excluded.rarity,
			updated_at = excluded.updated_at
	`

	_, err := tx.ExecContext(ctx, query,
		rec.RecordID,
		p.SKU,
		p.Name,
		p.SetName,
		p.Rarity,
		unixOr(p.CreatedAt, rec.Timestamp),
		unixOr(p.UpdatedAt, rec.Timestamp),
	)
	if err != nil {
		return fmt.Errorf("failed to upsert product state: %w", err)
	}

	return nil
}

func upsertInventoryItem(ctx context.Context, tx *sql.Tx, rec *models.ChangeRecord) error {
	var item models.InventoryItem
	if err := json.Unmarshal(rec.Payload, &item); err != nil {
		return fmt.Errorf("failed to unmarshal inventory payload: %w", err)
	}

	query := `
		INSERT INTO inventory (uuid, product_uuid, condition, location, quantity, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (uuid) DO UPDATE SET
			product_uuid = excluded.product_uuid,
			condition = excluded.condition,
			location = excluded.location,
			quantity = excluded.quantity,
			updated_at = excluded.updated_at
		ON CONFLICT (product_uuid, condition) DO UPDATE SET
			location = excluded.location,
			quantity = excluded.quantity,
			updated_at = excluded.updated_at
	`

	_, err := tx.ExecContext(ctx, query,
		rec.RecordID,
		item.ProductUUID,
		string(item.Condition),
		item.Location,
		item.Quantity,
		unixOr(item.UpdatedAt, rec.Timestamp),
	)
	if err != nil {
		return fmt.Errorf("failed to upsert inventory state: %w", err)
	}

	return nil
}

func upsertPrice(ctx context.Context, tx *sql.Tx, rec *models.ChangeRecord) error {
	var price models.PriceInfo
	if err := json.Unmarshal(rec.Payload, &price); err != nil {
		return fmt.Errorf("failed to unmarshal price payload: %w", err)
	}

	query := `
		INSERT INTO prices (uuid, product_uuid, condition, price, currency, effective_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (uuid) DO UPDATE SET
			product_uuid = excluded.product_uuid,
			condition = excluded.condition,
			price = excluded.price,
			currency = excluded.currency,
			effective_at = excluded.effective_at
		ON CONFLICT (product_uuid, condition) DO UPDATE SET
			price = excluded.price,
			currency = excluded.currency,
			effective_at = excluded.effective_at
	`

	_, err := tx.ExecContext(ctx, query,
		rec.RecordID,
		price.ProductUUID,
		string(price.Condition),
		price.Price,
		price.Currency,
		unixOr(price.EffectiveAt, rec.Timestamp),
	)
	if err != nil {
		return fmt.Errorf("failed to upsert price state: %w", err)
	}

	return nil
}

func upsertTransaction(ctx context.Context, tx *sql.Tx, rec *models.ChangeRecord) error {
	var trx models.Transaction
	if err := json.Unmarshal(rec.Payload, &trx); err != nil {
		return fmt.Errorf("failed to unmarshal transaction payload: %w", err)
	}

	lines, err := json.Marshal(trx.Lines)
	if err != nil {
		return fmt.Errorf("failed to marshal transaction lines: %w", err)
	}

	query := `
		INSERT INTO transactions (uuid, node_id, customer_uuid, kind, total, lines, occurred_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (uuid) DO UPDATE SET
			node_id = excluded.node_id,
			customer_uuid = excluded.customer_uuid,
			kind = excluded.kind,
			total = excluded.total,
			lines = excluded.lines,
			occurred_at = excluded.occurred_at
	`

	_, err = tx.ExecContext(ctx, query,
		rec.RecordID,
		rec.NodeID,
		trx.CustomerUUID,
		trx.Kind,
		trx.Total,
		string(lines),
		unixOr(trx.CreatedAt, rec.Timestamp),
	)
	if err != nil {
		return fmt.Errorf("failed to upsert transaction state: %w", err)
	}

	return nil
}

func upsertCustomer(ctx context.Context, tx *sql.Tx, rec *models.ChangeRecord) error {
	var customer models.Customer
	if err := json.Unmarshal(rec.Payload, &customer); err != nil {
		return fmt.Errorf("failed to unmarshal customer payload: %w", err)
	}

	query := `
		INSERT INTO customers (uuid, name, email, store_credit, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (uuid) DO UPDATE SET
			name = excluded.name,
			email = excluded.email,
			store_credit = excluded.store_credit,
			updated_at = excluded.updated_at
	`

	_, err := tx.ExecContext(ctx, query,
		rec.RecordID,
		customer.Name,
		customer.Email,
		customer.StoreCredit,
		unixOr(customer.UpdatedAt, rec.Timestamp),
	)
	if err != nil {
		return fmt.Errorf("failed to upsert customer state: %w", err)
	}

	return nil
}

// unixOr возвращает unix время t, либо fallback, если t не задано
func unixOr(t, fallback time.Time) int64 {
	if t.IsZero() {
		return fallback.Unix()
	}
	return t.Unix()
}
