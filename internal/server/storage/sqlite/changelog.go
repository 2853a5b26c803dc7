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
	"github.com/iudanet/vaultsync/internal/vclock"
)

// ResourceClock returns the last known vector clock of a resource
// Returns an empty clock without error for unknown resources
func (s *Storage) ResourceClock(ctx context.Context, recordType models.RecordType, recordID string) (vclock.Clock, error) {
	query := `
		SELECT vector_clock
		FROM resource_clocks
		WHERE record_type = ? AND record_id = ?
	`

	var clockJSON string
	err := s.db.QueryRowContext(ctx, query, string(recordType), recordID).Scan(&clockJSON)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return vclock.New(), nil
		}
		return nil, fmt.Errorf("failed to get resource clock: %w", err)
	}

	return unmarshalClock(clockJSON)
}

// LastApplied returns the last applied change record of a resource
// Returns ErrRecordNotFound if the resource is unknown
func (s *Storage) LastApplied(ctx context.Context, recordType models.RecordType, recordID string) (*models.ChangeRecord, error) {
	query := `
		SELECT sequence, record_id, record_type, operation, payload,
		       vector_clock, node_id, checksum, created_at
		FROM change_log
		WHERE record_type = ? AND record_id = ?
		ORDER BY sequence DESC
		LIMIT 1
	`

	row := s.db.QueryRowContext(ctx, query, string(recordType), recordID)

	rec, err := scanChangeRecord(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrRecordNotFound
		}
		return nil, fmt.Errorf("failed to get last applied record: %w", err)
	}

	return rec, nil
}

// AppendApplied atomically appends an applied record to the change log,
// advances the resource clock and materializes the record state.
// The AUTOINCREMENT sequence of the change log is the global order
// terminals pull by, assigned here and nowhere else.
func (s *Storage) AppendApplied(ctx context.Context, rec *models.ChangeRecord) (uint64, error) {
	clockJSON, err := json.Marshal(rec.Clock)
	if err != nil {
		return 0, fmt.Errorf("failed to marshal vector clock: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	insertQuery := `
		INSERT INTO change_log (
			record_id, record_type, operation, payload,
			vector_clock, node_id, checksum, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	result, err := tx.ExecContext(ctx, insertQuery,
		rec.RecordID,
		string(rec.RecordType),
		string(rec.Operation),
		[]byte(rec.Payload),
		string(clockJSON),
		rec.NodeID,
		rec.Checksum,
		rec.Timestamp.Unix(),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to insert change record: %w", err)
	}

	seq, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get assigned sequence: %w", err)
	}

	clockQuery := `
		INSERT INTO resource_clocks (record_type, record_id, vector_clock)
		VALUES (?, ?, ?)
		ON CONFLICT (record_type, record_id)
		DO UPDATE SET vector_clock = excluded.vector_clock
	`

	if _, err := tx.ExecContext(ctx, clockQuery,
		string(rec.RecordType), rec.RecordID, string(clockJSON)); err != nil {
		return 0, fmt.Errorf("failed to advance resource clock: %w", err)
	}

	if err := materializeState(ctx, tx, rec); err != nil {
		return 0, err
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit append: %w", err)
	}

	return uint64(seq), nil
}

// SaveConflict persists a concurrent modification conflict
func (s *Storage) SaveConflict(ctx context.Context, conflict *models.SyncConflict) error {
	localJSON, err := json.Marshal(conflict.Local)
	if err != nil {
		return fmt.Errorf("failed to marshal local record: %w", err)
	}

	remoteJSON, err := json.Marshal(conflict.Remote)
	if err != nil {
		return fmt.Errorf("failed to marshal remote record: %w", err)
	}

	query := `
		INSERT INTO sync_conflicts (
			id, record_id, record_type, local_record, remote_record,
			status, strategy, resolved_by, detected_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = s.db.ExecContext(ctx, query,
		conflict.ID,
		conflict.RecordID,
		string(conflict.RecordType),
		string(localJSON),
		string(remoteJSON),
		string(conflict.Status),
		string(conflict.Strategy),
		conflict.ResolvedBy,
		conflict.DetectedAt.Unix(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert conflict: %w", err)
	}

	return nil
}

// RecordsSince returns records with sequence number strictly greater than
// since, ordered by sequence number ascending, at most limit records
func (s *Storage) RecordsSince(ctx context.Context, since uint64, limit int) ([]models.ChangeRecord, error) {
	query := `
		SELECT sequence, record_id, record_type, operation, payload,
		       vector_clock, node_id, checksum, created_at
		FROM change_log
		WHERE sequence > ?
		ORDER BY sequence ASC
		LIMIT ?
	`

	rows, err := s.db.QueryContext(ctx, query, since, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query records since sequence: %w", err)
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			err = cerr
		}
	}()

	var records []models.ChangeRecord
	for rows.Next() {
		rec, err := scanChangeRecord(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("failed to scan change record: %w", err)
		}
		records = append(records, *rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return records, nil
}

// LatestSequence returns the highest assigned sequence number,
// 0 for an empty change log
func (s *Storage) LatestSequence(ctx context.Context) (uint64, error) {
	query := `SELECT COALESCE(MAX(sequence), 0) FROM change_log`

	var seq uint64
	if err := s.db.QueryRowContext(ctx, query).Scan(&seq); err != nil {
		return 0, fmt.Errorf("failed to get latest sequence: %w", err)
	}

	return seq, nil
}

// scanChangeRecord scans a change log row via the given scan function,
// so it works for both sql.Row and sql.Rows
func scanChangeRecord(scan func(dest ...any) error) (*models.ChangeRecord, error) {
	rec := &models.ChangeRecord{}
	var (
		recordType, operation, clockJSON string
		payload                          []byte
		createdAt                        int64
	)

	err := scan(
		&rec.Sequence,
		&rec.RecordID,
		&recordType,
		&operation,
		&payload,
		&clockJSON,
		&rec.NodeID,
		&rec.Checksum,
		&createdAt,
	)
	if err != nil {
		return nil, err
	}

	clock, err := unmarshalClock(clockJSON)
	if err != nil {
		return nil, err
	}

	rec.RecordType = models.RecordType(recordType)
	rec.Operation = models.Operation(operation)
	rec.Payload = payload
	rec.Clock = clock
	rec.Timestamp = time.Unix(createdAt, 0)

	return rec, nil
}

// unmarshalClock разбирает векторные часы из JSON колонки
func unmarshalClock(clockJSON string) (vclock.Clock, error) {
	clock := vclock.New()
	if err := json.Unmarshal([]byte(clockJSON), &clock); err != nil {
		return nil, fmt.Errorf("failed to unmarshal vector clock: %w", err)
	}
	return clock, nil
}
