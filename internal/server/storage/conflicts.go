package storage

import (
	"context"
	"time"

	"github.com/iudanet/vaultsync/internal/models"
)

// ConflictStorage defines interface for sync conflict persistence
type ConflictStorage interface {
	// GetConflict retrieves a conflict by ID.
	// Returns ErrConflictNotFound if conflict doesn't exist.
	GetConflict(ctx context.Context, id string) (*models.SyncConflict, error)

	// ListConflicts retrieves conflicts filtered by status, newest first,
	// at most limit records. Empty status means all conflicts.
	ListConflicts(ctx context.Context, status models.ResolutionStatus, limit int) ([]models.SyncConflict, error)

	// MarkResolved transitions a pending conflict to resolved.
	// The transition is one-way: returns ErrConflictResolved if the
	// conflict is already resolved, resolution fields are never overwritten.
	MarkResolved(ctx context.Context, id string, strategy models.Strategy,
		resolvedBy string, resolvedAt time.Time) error

	// CountPendingConflicts returns the number of unresolved conflicts
	CountPendingConflicts(ctx context.Context) (int, error)
}
