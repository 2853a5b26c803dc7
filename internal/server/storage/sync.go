package storage

import (
	"context"

	"github.com/iudanet/vaultsync/internal/models"
	"github.com/iudanet/vaultsync/internal/vclock"
)

// SyncStorage defines interface for the append-only change log persistence.
// The server is the merge authority: AppendApplied assigns the global
// sequence number that orders records for pull synchronization.
type SyncStorage interface {
	// ResourceClock returns the last known vector clock of a resource.
	// Returns an empty clock without error for unknown resources.
	ResourceClock(ctx context.Context, recordType models.RecordType, recordID string) (vclock.Clock, error)

	// LastApplied returns the last applied change record of a resource.
	// Returns ErrRecordNotFound if the resource is unknown.
	LastApplied(ctx context.Context, recordType models.RecordType, recordID string) (*models.ChangeRecord, error)

	// AppendApplied atomically appends an applied record to the change log,
	// advances the resource clock and materializes the record state.
	// Returns the sequence number assigned to the record.
	AppendApplied(ctx context.Context, rec *models.ChangeRecord) (uint64, error)

	// SaveConflict persists a concurrent modification conflict.
	SaveConflict(ctx context.Context, conflict *models.SyncConflict) error

	// RecordsSince returns records with sequence number strictly greater
	// than since, ordered by sequence number ascending, at most limit records.
	// Returns empty slice if there is nothing newer.
	RecordsSince(ctx context.Context, since uint64, limit int) ([]models.ChangeRecord, error)

	// LatestSequence returns the highest assigned sequence number.
	// Returns 0 for an empty change log.
	LatestSequence(ctx context.Context) (uint64, error)
}
