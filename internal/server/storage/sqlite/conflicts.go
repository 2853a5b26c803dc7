package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/iudanet/vaultsync/internal/models"
	"github.com/iudanet/vaultsync/internal/server/storage"
)

// GetConflict retrieves a conflict by ID
// Returns ErrConflictNotFound if conflict doesn't exist
func (s *Storage) GetConflict(ctx context.Context, id string) (*models.SyncConflict, error) {
	query := `
		SELECT id, record_id, record_type, local_record, remote_record,
		       status, strategy, resolved_by, detected_at, resolved_at
		FROM sync_conflicts
		WHERE id = ?
	`

	row := s.db.QueryRowContext(ctx, query, id)

	conflict, err := scanConflict(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrConflictNotFound
		}
		return nil, fmt.Errorf("failed to get conflict: %w", err)
	}

	return conflict, nil
}

// ListConflicts retrieves conflicts filtered by status, newest first
// Empty status means all conflicts
func (s *Storage) ListConflicts(ctx context.Context, status models.ResolutionStatus, limit int) ([]models.SyncConflict, error) {
	query := `
		SELECT id, record_id, record_type, local_record, remote_record,
		       status, strategy, resolved_by, detected_at, resolved_at
		FROM sync_conflicts
		WHERE (? = '' OR status = ?)
		ORDER BY detected_at DESC, id DESC
		LIMIT ?
	`

	rows, err := s.db.QueryContext(ctx, query, string(status), string(status), limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query conflicts: %w", err)
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			err = cerr
		}
	}()

	var conflicts []models.SyncConflict
	for rows.Next() {
		conflict, err := scanConflict(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("failed to scan conflict: %w", err)
		}
		conflicts = append(conflicts, *conflict)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return conflicts, nil
}

// PendingConflicts returns open conflicts for a single resource, oldest first.
// Used by the changelog engine to detect redelivered concurrent records.
func (s *Storage) PendingConflicts(ctx context.Context, recordType models.RecordType, recordID string) ([]*models.SyncConflict, error) {
	query := `
		SELECT id, record_id, record_type, local_record, remote_record,
		       status, strategy, resolved_by, detected_at, resolved_at
		FROM sync_conflicts
		WHERE record_type = ? AND record_id = ? AND status = ?
		ORDER BY detected_at ASC, id ASC
	`

	rows, err := s.db.QueryContext(ctx, query,
		string(recordType), recordID, string(models.ResolutionPending))
	if err != nil {
		return nil, fmt.Errorf("failed to query pending conflicts: %w", err)
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			err = cerr
		}
	}()

	var conflicts []*models.SyncConflict
	for rows.Next() {
		conflict, err := scanConflict(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("failed to scan conflict: %w", err)
		}
		conflicts = append(conflicts, conflict)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return conflicts, nil
}

// MarkResolved transitions a pending conflict to resolved.
// The transition is one-way: resolution fields are never overwritten.
func (s *Storage) MarkResolved(ctx context.Context, id string, strategy models.Strategy,
	resolvedBy string, resolvedAt time.Time,
) error {
	query := `
		UPDATE sync_conflicts
		SET status = ?, strategy = ?, resolved_by = ?, resolved_at = ?
		WHERE id = ? AND status = ?
	`

	result, err := s.db.ExecContext(ctx, query,
		string(models.ResolutionResolved),
		string(strategy),
		resolvedBy,
		resolvedAt.Unix(),
		id,
		string(models.ResolutionPending),
	)
	if err != nil {
		return fmt.Errorf("failed to mark conflict resolved: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rows == 0 {
		// Либо конфликта нет, либо он уже разрешен
		if _, err := s.GetConflict(ctx, id); err != nil {
			return err
		}
		return storage.ErrConflictResolved
	}

	return nil
}

// CountPendingConflicts returns the number of unresolved conflicts
func (s *Storage) CountPendingConflicts(ctx context.Context) (int, error) {
	query := `SELECT COUNT(*) FROM sync_conflicts WHERE status = ?`

	var count int
	err := s.db.QueryRowContext(ctx, query, string(models.ResolutionPending)).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count pending conflicts: %w", err)
	}

	return count, nil
}

// scanConflict scans a conflict row via the given scan function
func scanConflict(scan func(dest ...any) error) (*models.SyncConflict, error) {
	conflict := &models.SyncConflict{}
	var (
		recordType, status, strategy string
		localJSON, remoteJSON        string
		detectedAt                   int64
		resolvedAt                   sql.NullInt64
	)

	err := scan(
		&conflict.ID,
		&conflict.RecordID,
		&recordType,
		&localJSON,
		&remoteJSON,
		&status,
		&strategy,
		&conflict.ResolvedBy,
		&detectedAt,
		&resolvedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(localJSON), &conflict.Local); err != nil {
		return nil, fmt.Errorf("failed to unmarshal local record: %w", err)
	}
	if err := json.Unmarshal([]byte(remoteJSON), &conflict.Remote); err != nil {
		return nil, fmt.Errorf("failed to unmarshal remote record: %w", err)
	}

	conflict.RecordType = models.RecordType(recordType)
	conflict.Status = models.ResolutionStatus(status)
	conflict.Strategy = models.Strategy(strategy)
	conflict.DetectedAt = time.Unix(detectedAt, 0)
	if resolvedAt.Valid {
		t := time.Unix(resolvedAt.Int64, 0)
		conflict.ResolvedAt = &t
	}

	return conflict, nil
}
