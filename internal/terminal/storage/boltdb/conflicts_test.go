package boltdb

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/vaultsync/internal/models"
	"github.com/iudanet/vaultsync/internal/terminal/storage"
	"github.com/iudanet/vaultsync/internal/vclock"
)

// makeConflict создает открытый конфликт одновременного изменения для тестов
func makeConflict(detectedAt time.Time) *models.SyncConflict {
	recordID := uuid.New().String()
	return &models.SyncConflict{
		DetectedAt: detectedAt,
		Local:      *makeInventoryRecord(recordID, "kassa-1", vclock.Clock{"kassa-1": 2}),
		Remote:     *makeInventoryRecord(recordID, "kassa-2", vclock.Clock{"kassa-2": 1}),
		ID:         uuid.New().String(),
		RecordID:   recordID,
		RecordType: models.RecordTypeInventoryItem,
		Status:     models.ResolutionPending,
	}
}

func TestStore_GetConflict(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	conflict := makeConflict(time.Now().UTC())
	require.NoError(t, store.SaveConflict(ctx, conflict))

	got, err := store.GetConflict(ctx, conflict.ID)
	require.NoError(t, err)
	assert.Equal(t, conflict.ID, got.ID)
	assert.Equal(t, conflict.RecordID, got.RecordID)
	assert.Equal(t, models.ResolutionPending, got.Status)
	assert.Equal(t, conflict.Local.Checksum, got.Local.Checksum)
	assert.Equal(t, conflict.Remote.Checksum, got.Remote.Checksum)
	assert.True(t, conflict.DetectedAt.Equal(got.DetectedAt))
	assert.Nil(t, got.ResolvedAt)
}

func TestStore_GetConflict_NotFound(t *testing.T) {
	store := setupTestStore(t)

	_, err := store.GetConflict(context.Background(), uuid.New().String())

	assert.ErrorIs(t, err, storage.ErrConflictNotFound)
}

func TestStore_ListConflicts(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()
	base := time.Now().UTC().Truncate(time.Second)

	oldest := makeConflict(base.Add(-2 * time.Minute))
	middle := makeConflict(base.Add(-time.Minute))
	newest := makeConflict(base)
	for _, c := range []*models.SyncConflict{oldest, middle, newest} {
		require.NoError(t, store.SaveConflict(ctx, c))
	}
	require.NoError(t, store.MarkResolved(ctx, middle.ID, models.StrategyLocalWins, "kassa-1", base))

	// Открытые конфликты, новые первыми
	pending, err := store.ListConflicts(ctx, models.ResolutionPending, 0)
	require.NoError(t, err)
	require.Len(t, pending, 2)
	assert.Equal(t, newest.ID, pending[0].ID)
	assert.Equal(t, oldest.ID, pending[1].ID)

	resolved, err := store.ListConflicts(ctx, models.ResolutionResolved, 0)
	require.NoError(t, err)
	require.Len(t, resolved, 1)
	assert.Equal(t, middle.ID, resolved[0].ID)

	// Пустой статус - все конфликты
	all, err := store.ListConflicts(ctx, "", 0)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	limited, err := store.ListConflicts(ctx, models.ResolutionPending, 1)
	require.NoError(t, err)
	require.Len(t, limited, 1)
	assert.Equal(t, newest.ID, limited[0].ID)
}

func TestStore_ListConflicts_Empty(t *testing.T) {
	store := setupTestStore(t)

	conflicts, err := store.ListConflicts(context.Background(), models.ResolutionPending, 0)

	require.NoError(t, err)
	assert.Empty(t, conflicts)
}

func TestStore_MarkResolved(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	conflict := makeConflict(time.Now().UTC())
	require.NoError(t, store.SaveConflict(ctx, conflict))

	resolvedAt := time.Now().UTC().Truncate(time.Second)
	err := store.MarkResolved(ctx, conflict.ID, models.StrategyRemoteWins, "kassa-1", resolvedAt)
	require.NoError(t, err)

	got, err := store.GetConflict(ctx, conflict.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ResolutionResolved, got.Status)
	assert.Equal(t, models.StrategyRemoteWins, got.Strategy)
	assert.Equal(t, "kassa-1", got.ResolvedBy)
	require.NotNil(t, got.ResolvedAt)
	assert.True(t, resolvedAt.Equal(*got.ResolvedAt))
}

func TestStore_MarkResolved_AlreadyResolved(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	conflict := makeConflict(time.Now().UTC())
	require.NoError(t, store.SaveConflict(ctx, conflict))
	require.NoError(t, store.MarkResolved(ctx, conflict.ID, models.StrategyLocalWins, "kassa-1", time.Now().UTC()))

	// Переход односторонний: повторное разрешение не перезаписывает исход
	err := store.MarkResolved(ctx, conflict.ID, models.StrategyRemoteWins, "kassa-2", time.Now().UTC())
	assert.ErrorIs(t, err, storage.ErrConflictResolved)

	got, err := store.GetConflict(ctx, conflict.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StrategyLocalWins, got.Strategy)
	assert.Equal(t, "kassa-1", got.ResolvedBy)
}

func TestStore_MarkResolved_NotFound(t *testing.T) {
	store := setupTestStore(t)

	err := store.MarkResolved(context.Background(), uuid.New().String(),
		models.StrategyLocalWins, "kassa-1", time.Now().UTC())

	assert.ErrorIs(t, err, storage.ErrConflictNotFound)
}

func TestStore_CountPendingConflicts(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	count, err := store.CountPendingConflicts(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, count)

	first := makeConflict(time.Now().UTC())
	second := makeConflict(time.Now().UTC())
	require.NoError(t, store.SaveConflict(ctx, first))
	require.NoError(t, store.SaveConflict(ctx, second))

	count, err = store.CountPendingConflicts(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	require.NoError(t, store.MarkResolved(ctx, first.ID, models.StrategyManual, "kassa-1", time.Now().UTC()))

	count, err = store.CountPendingConflicts(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}
