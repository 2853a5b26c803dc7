package storage

import (
	"context"
	"time"

	"github.com/iudanet/vaultsync/internal/models"
)

// NodeStorage defines interface for the terminal node registry
type NodeStorage interface {
	// CreateNode registers a new node.
	// Returns ErrNodeAlreadyExists if the name is taken.
	CreateNode(ctx context.Context, node *models.Node) error

	// GetNode retrieves a node by ID.
	// Returns ErrNodeNotFound if node doesn't exist.
	GetNode(ctx context.Context, id string) (*models.Node, error)

	// ListNodes retrieves all registered nodes ordered by registration time
	ListNodes(ctx context.Context) ([]models.Node, error)

	// TouchNode updates the last seen timestamp of a node.
	// Returns ErrNodeNotFound if node doesn't exist.
	TouchNode(ctx context.Context, id string, seenAt time.Time) error

	// CountNodes returns the number of registered nodes
	CountNodes(ctx context.Context) (int, error)
}
