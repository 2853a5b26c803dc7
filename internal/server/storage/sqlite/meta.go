package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/iudanet/vaultsync/internal/server/storage"
)

// GetMeta retrieves a server metadata value by key
func (s *Storage) GetMeta(ctx context.Context, key string) (string, error) {
	query := `SELECT value FROM server_meta WHERE key = ?`

	var value string
	err := s.db.QueryRowContext(ctx, query, key).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", storage.ErrMetaNotFound
		}
		return "", fmt.Errorf("failed to get meta value: %w", err)
	}

	return value, nil
}

// SetMeta creates or overwrites a server metadata value
func (s *Storage) SetMeta(ctx context.Context, key, value string) error {
	query := `
		INSERT INTO server_meta (key, value)
		VALUES (?, ?)
		ON CONFLICT (key) DO UPDATE SET value = excluded.value
	`

	if _, err := s.db.ExecContext(ctx, query, key, value); err != nil {
		return fmt.Errorf("failed to set meta value: %w", err)
	}

	return nil
}
