package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/iudanet/vaultsync/internal/models"
	"github.com/iudanet/vaultsync/internal/server/storage"
)

// CreateNode registers a new terminal node
func (s *Storage) CreateNode(ctx context.Context, node *models.Node) error {
	query := `
		INSERT INTO nodes (id, name, registered_at, last_seen_at)
		VALUES (?, ?, ?, ?)
	`

	_, err := s.db.ExecContext(ctx, query,
		node.ID,
		node.Name,
		node.RegisteredAt.Unix(),
		node.LastSeenAt.Unix(),
	)
	if err != nil {
		// Проверяем на duplicate name
		if strings.Contains(err.Error(), "UNIQUE constraint failed: nodes.name") {
			return storage.ErrNodeAlreadyExists
		}
		return fmt.Errorf("failed to insert node: %w", err)
	}

	return nil
}

// GetNode retrieves a node by ID
func (s *Storage) GetNode(ctx context.Context, id string) (*models.Node, error) {
	query := `
		SELECT id, name, registered_at, last_seen_at
		FROM nodes
		WHERE id = ?
	`

	node := &models.Node{}
	var registeredAt, lastSeenAt int64

	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&node.ID,
		&node.Name,
		&registeredAt,
		&lastSeenAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrNodeNotFound
		}
		return nil, fmt.Errorf("failed to get node: %w", err)
	}

	node.RegisteredAt = time.Unix(registeredAt, 0)
	node.LastSeenAt = time.Unix(lastSeenAt, 0)

	return node, nil
}

// ListNodes retrieves all registered nodes ordered by registration time
func (s *Storage) ListNodes(ctx context.Context) ([]models.Node, error) {
	query := `
		SELECT id, name, registered_at, last_seen_at
		FROM nodes
		ORDER BY registered_at ASC, id ASC
	`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query nodes: %w", err)
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			err = cerr
		}
	}()

	var nodes []models.Node
	for rows.Next() {
		node := models.Node{}
		var registeredAt, lastSeenAt int64

		err := rows.Scan(&node.ID, &node.Name, &registeredAt, &lastSeenAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan node: %w", err)
		}

		node.RegisteredAt = time.Unix(registeredAt, 0)
		node.LastSeenAt = time.Unix(lastSeenAt, 0)
		nodes = append(nodes, node)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return nodes, nil
}

// TouchNode updates the last seen timestamp of a node
func (s *Storage) TouchNode(ctx context.Context, id string, seenAt time.Time) error {
	query := `UPDATE nodes SET last_seen_at = ? WHERE id = ?`

	result, err := s.db.ExecContext(ctx, query, seenAt.Unix(), id)
	if err != nil {
		return fmt.Errorf("failed to touch node: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rows == 0 {
		return storage.ErrNodeNotFound
	}

	return nil
}

// CountNodes returns the number of registered nodes
func (s *Storage) CountNodes(ctx context.Context) (int, error) {
	query := `SELECT COUNT(*) FROM nodes`

	var count int
	if err := s.db.QueryRowContext(ctx, query).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count nodes: %w", err)
	}

	return count, nil
}
