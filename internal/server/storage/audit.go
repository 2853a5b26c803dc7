package storage

import (
	"context"
	"time"

	"github.com/iudanet/vaultsync/internal/models"
	"github.com/iudanet/vaultsync/internal/reconcile"
)

// AuditStorage defines interface for inventory audit persistence:
// blind count sessions, discrepancies and anomaly scan queries.
type AuditStorage interface {
	// SnapshotQuantities returns expected quantities for the given positions
	// read in a single transaction. Unknown positions are absent from the map.
	SnapshotQuantities(ctx context.Context, keys []reconcile.ItemKey) (map[reconcile.ItemKey]int64, error)

	// SaveAuditSession atomically persists a count session with its discrepancies.
	SaveAuditSession(ctx context.Context, session *models.AuditSession,
		discrepancies []models.Discrepancy) error

	// SaveDiscrepancies persists anomaly discrepancies, skipping positions
	// that already have a pending discrepancy of the same type.
	// Returns the number of actually inserted records.
	SaveDiscrepancies(ctx context.Context, discrepancies []models.Discrepancy) (int, error)

	// ListDiscrepancies retrieves discrepancies filtered by status and count
	// session, newest first, at most limit records. Empty status or sessionID
	// means no filtering by that field.
	ListDiscrepancies(ctx context.Context, status models.ResolutionStatus, sessionID string, limit int) ([]models.Discrepancy, error)

	// ResolveDiscrepancy transitions a pending discrepancy to the given status.
	// Returns ErrDiscrepancyNotFound if it doesn't exist and
	// ErrDiscrepancyResolved if it is no longer pending.
	ResolveDiscrepancy(ctx context.Context, id string, status models.ResolutionStatus,
		notes, resolvedBy string, resolvedAt time.Time) error

	// NegativeInventory returns positions with negative on-hand quantity
	NegativeInventory(ctx context.Context) ([]models.InventoryItem, error)

	// MismatchedPrices returns transaction lines whose recorded price
	// deviates from the current price list
	MismatchedPrices(ctx context.Context) ([]reconcile.PriceDeviation, error)

	// NegativeCredits returns customers with negative store credit
	NegativeCredits(ctx context.Context) ([]models.Customer, error)
}
