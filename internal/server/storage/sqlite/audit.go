package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/iudanet/vaultsync/internal/models"
	"github.com/iudanet/vaultsync/internal/reconcile"
	"github.com/iudanet/vaultsync/internal/server/storage"
)

// SnapshotQuantities returns expected quantities for the given positions
// read in a single transaction, so a concurrent sync cannot skew the
// baseline in the middle of a blind count submission
func (s *Storage) SnapshotQuantities(ctx context.Context, keys []reconcile.ItemKey) (map[reconcile.ItemKey]int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin snapshot transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	query := `
		SELECT quantity
		FROM inventory
		WHERE product_uuid = ? AND condition = ?
	`

	snapshot := make(map[reconcile.ItemKey]int64, len(keys))
	for _, key := range keys {
		var quantity int64
		err := tx.QueryRowContext(ctx, query, key.ProductUUID, string(key.Condition)).Scan(&quantity)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				// Позиция не числится на остатке, ожидаемое количество ноль
				continue
			}
			return nil, fmt.Errorf("failed to snapshot quantity: %w", err)
		}
		snapshot[key] = quantity
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit snapshot: %w", err)
	}

	return snapshot, nil
}

// SaveAuditSession atomically persists a count session with its discrepancies
func (s *Storage) SaveAuditSession(ctx context.Context, session *models.AuditSession,
	discrepancies []models.Discrepancy,
) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	sessionQuery := `
		INSERT INTO audit_sessions (id, node_id, location_tag, items_counted, discrepancies, submitted_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	_, err = tx.ExecContext(ctx, sessionQuery,
		session.ID,
		session.NodeID,
		session.LocationTag,
		session.ItemsCounted,
		session.Discrepancies,
		session.SubmittedAt.Unix(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert audit session: %w", err)
	}

	for i := range discrepancies {
		if _, err := insertDiscrepancy(ctx, tx, &discrepancies[i], false); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit audit session: %w", err)
	}

	return nil
}

// SaveDiscrepancies persists anomaly discrepancies, skipping positions that
// already have a pending discrepancy of the same type.
// Returns the number of actually inserted records.
func (s *Storage) SaveDiscrepancies(ctx context.Context, discrepancies []models.Discrepancy) (int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	inserted := 0
	for i := range discrepancies {
		rows, err := insertDiscrepancy(ctx, tx, &discrepancies[i], true)
		if err != nil {
			return 0, err
		}
		inserted += int(rows)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit discrepancies: %w", err)
	}

	return inserted, nil
}

// insertDiscrepancy inserts a single discrepancy row and returns the number
// of inserted rows. ignoreDuplicates skips rows violating the unique pending
// index instead of failing, used by the background anomaly sweep.
func insertDiscrepancy(ctx context.Context, tx *sql.Tx, d *models.Discrepancy, ignoreDuplicates bool) (int64, error) {
	verb := "INSERT"
	if ignoreDuplicates {
		verb = "INSERT OR IGNORE"
	}

	query := fmt.Sprintf(`
		%s INTO discrepancies (
			id, session_id, product_uuid, condition, type, severity,
			status, expected, actual, variance, notes, resolved_by, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, verb)

	result, err := tx.ExecContext(ctx, query,
		d.ID,
		d.SessionID,
		d.ProductUUID,
		string(d.Condition),
		string(d.Type),
		string(d.Severity),
		string(d.Status),
		d.Expected,
		d.Actual,
		d.Variance,
		d.Notes,
		d.ResolvedBy,
		d.CreatedAt.Unix(),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to insert discrepancy: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return rows, nil
}

// ListDiscrepancies retrieves discrepancies filtered by status and count
// session, newest first. Empty status or sessionID disables that filter
func (s *Storage) ListDiscrepancies(ctx context.Context, status models.ResolutionStatus,
	sessionID string, limit int,
) ([]models.Discrepancy, error) {
	query := `
		SELECT id, session_id, product_uuid, condition, type, severity,
		       status, expected, actual, variance, notes, resolved_by,
		       created_at, resolved_at
		FROM discrepancies
		WHERE (? = '' OR status = ?)
		  AND (? = '' OR session_id = ?)
		ORDER BY created_at DESC, id DESC
		LIMIT ?
	`

	rows, err := s.db.QueryContext(ctx, query, string(status), string(status),
		sessionID, sessionID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query discrepancies: %w", err)
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			err = cerr
		}
	}()

	var discrepancies []models.Discrepancy
	for rows.Next() {
		d := models.Discrepancy{}
		var (
			condition, dType, severity, dStatus string
			createdAt                           int64
			resolvedAt                          sql.NullInt64
		)

		err := rows.Scan(
			&d.ID,
			&d.SessionID,
			&d.ProductUUID,
			&condition,
			&dType,
			&severity,
			&dStatus,
			&d.Expected,
			&d.Actual,
			&d.Variance,
			&d.Notes,
			&d.ResolvedBy,
			&createdAt,
			&resolvedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan discrepancy: %w", err)
		}

		d.Condition = models.Condition(condition)
		d.Type = models.ConflictType(dType)
		d.Severity = models.Severity(severity)
		d.Status = models.ResolutionStatus(dStatus)
		d.CreatedAt = time.Unix(createdAt, 0)
		if resolvedAt.Valid {
			t := time.Unix(resolvedAt.Int64, 0)
			d.ResolvedAt = &t
		}

		discrepancies = append(discrepancies, d)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return discrepancies, nil
}

// ResolveDiscrepancy transitions a pending discrepancy to the given status.
// The transition is one-way, resolution fields are never overwritten.
func (s *Storage) ResolveDiscrepancy(ctx context.Context, id string, status models.ResolutionStatus,
	notes, resolvedBy string, resolvedAt time.Time,
) error {
	query := `
		UPDATE discrepancies
		SET status = ?, notes = ?, resolved_by = ?, resolved_at = ?
		WHERE id = ? AND status = ?
	`

	result, err := s.db.ExecContext(ctx, query,
		string(status),
		notes,
		resolvedBy,
		resolvedAt.Unix(),
		id,
		string(models.ResolutionPending),
	)
	if err != nil {
		return fmt.Errorf("failed to resolve discrepancy: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rows == 0 {
		var exists int
		err := s.db.QueryRowContext(ctx,
			`SELECT COUNT(*) FROM discrepancies WHERE id = ?`, id).Scan(&exists)
		if err != nil {
			return fmt.Errorf("failed to check discrepancy: %w", err)
		}
		if exists == 0 {
			return storage.ErrDiscrepancyNotFound
		}
		return storage.ErrDiscrepancyResolved
	}

	return nil
}

// NegativeInventory returns positions with negative on-hand quantity
func (s *Storage) NegativeInventory(ctx context.Context) ([]models.InventoryItem, error) {
	query := `
		SELECT product_uuid, condition, location, quantity, updated_at
		FROM inventory
		WHERE quantity < 0
		ORDER BY product_uuid, condition
	`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query negative inventory: %w", err)
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			err = cerr
		}
	}()

	var items []models.InventoryItem
	for rows.Next() {
		item := models.InventoryItem{}
		var condition string
		var updatedAt int64

		err := rows.Scan(&item.ProductUUID, &condition, &item.Location, &item.Quantity, &updatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan inventory item: %w", err)
		}

		item.Condition = models.Condition(condition)
		item.UpdatedAt = time.Unix(updatedAt, 0)
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return items, nil
}

// MismatchedPrices returns sale lines whose recorded price deviates from
// the current price list. Positions without a current price are skipped.
func (s *Storage) MismatchedPrices(ctx context.Context) ([]reconcile.PriceDeviation, error) {
	type priceKey struct {
		productUUID string
		condition   string
	}

	priceQuery := `SELECT product_uuid, condition, price FROM prices`

	rows, err := s.db.QueryContext(ctx, priceQuery)
	if err != nil {
		return nil, fmt.Errorf("failed to query prices: %w", err)
	}

	prices := make(map[priceKey]int64)
	for rows.Next() {
		var key priceKey
		var price int64
		if err := rows.Scan(&key.productUUID, &key.condition, &price); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan price: %w", err)
		}
		prices[key] = price
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}
	rows.Close()

	trxQuery := `SELECT uuid, lines FROM transactions WHERE kind = 'sale'`

	trxRows, err := s.db.QueryContext(ctx, trxQuery)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions: %w", err)
	}
	defer func() {
		if cerr := trxRows.Close(); cerr != nil {
			err = cerr
		}
	}()

	var deviations []reconcile.PriceDeviation
	for trxRows.Next() {
		var trxUUID, linesJSON string
		if err := trxRows.Scan(&trxUUID, &linesJSON); err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}

		var lines []models.TransactionLine
		if err := json.Unmarshal([]byte(linesJSON), &lines); err != nil {
			return nil, fmt.Errorf("failed to unmarshal transaction lines: %w", err)
		}

		for _, line := range lines {
			current, ok := prices[priceKey{line.ProductUUID, string(line.Condition)}]
			if !ok || current == line.UnitPrice {
				continue
			}

			deviations = append(deviations, reconcile.PriceDeviation{
				ProductUUID:     line.ProductUUID,
				Condition:       line.Condition,
				TransactionUUID: trxUUID,
				RecordedPrice:   line.UnitPrice,
				CurrentPrice:    current,
			})
		}
	}

	if err := trxRows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return deviations, nil
}

// NegativeCredits returns customers with negative store credit
func (s *Storage) NegativeCredits(ctx context.Context) ([]models.Customer, error) {
	query := `
		SELECT uuid, name, email, store_credit, updated_at
		FROM customers
		WHERE store_credit < 0
		ORDER BY uuid
	`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query negative credits: %w", err)
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			err = cerr
		}
	}()

	var customers []models.Customer
	for rows.Next() {
		customer := models.Customer{}
		var updatedAt int64

		err := rows.Scan(&customer.UUID, &customer.Name, &customer.Email,
			&customer.StoreCredit, &updatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan customer: %w", err)
		}

		customer.UpdatedAt = time.Unix(updatedAt, 0)
		customers = append(customers, customer)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return customers, nil
}
