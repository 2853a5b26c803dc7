package cli

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/vaultsync/internal/models"
	"github.com/iudanet/vaultsync/internal/terminal/sync"
	"github.com/iudanet/vaultsync/internal/vclock"
)

// TestRunConflicts выводит открытые конфликты с обеими версиями записи
func TestRunConflicts(t *testing.T) {
	// Setup
	conflict := models.SyncConflict{
		DetectedAt: time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC),
		Local: models.ChangeRecord{
			Clock:   vclock.Clock{"node-local": 2},
			Payload: json.RawMessage(`{"quantity":5}`),
		},
		Remote: models.ChangeRecord{
			Clock:   vclock.Clock{"server": 3},
			Payload: json.RawMessage(`{"quantity":7}`),
		},
		ID:         "conflict-1",
		RecordID:   "rec-1",
		RecordType: models.RecordTypeInventoryItem,
		Status:     models.ResolutionPending,
	}
	svcMock := &sync.ServiceMock{
		ListConflictsFunc: func(ctx context.Context, status models.ResolutionStatus, limit int) ([]models.SyncConflict, error) {
			return []models.SyncConflict{conflict}, nil
		},
	}

	store := setupStore(t)
	ioMock, out := testIO()
	cli := New(nil, svcMock, store, store, ioMock, time.Second)

	// Execute
	err := cli.runConflicts(context.Background(), nil)

	// Assert
	require.NoError(t, err)
	require.Len(t, svcMock.ListConflictsCalls(), 1)
	assert.Equal(t, models.ResolutionPending, svcMock.ListConflictsCalls()[0].Status)

	output := out.String()
	assert.Contains(t, output, "Found 1 conflict(s)")
	assert.Contains(t, output, "conflict-1")
	assert.Contains(t, output, "inventory_item/rec-1")
	assert.Contains(t, output, `{"quantity":5}`)
	assert.Contains(t, output, `{"quantity":7}`)
	assert.Contains(t, output, "vaultsync-terminal resolve")
}

// TestRunConflicts_StatusArg фильтр статуса передается сервису как есть
func TestRunConflicts_StatusArg(t *testing.T) {
	// Setup
	svcMock := &sync.ServiceMock{
		ListConflictsFunc: func(ctx context.Context, status models.ResolutionStatus, limit int) ([]models.SyncConflict, error) {
			return nil, nil
		},
	}
	store := setupStore(t)
	ioMock, out := testIO()
	cli := New(nil, svcMock, store, store, ioMock, time.Second)

	// Execute
	err := cli.runConflicts(context.Background(), []string{"resolved"})

	// Assert
	require.NoError(t, err)
	require.Len(t, svcMock.ListConflictsCalls(), 1)
	assert.Equal(t, models.ResolutionResolved, svcMock.ListConflictsCalls()[0].Status)
	assert.Contains(t, out.String(), "No conflicts found")
}

// TestRunConflicts_AllStatuses "all" снимает фильтр статуса
func TestRunConflicts_AllStatuses(t *testing.T) {
	// Setup
	svcMock := &sync.ServiceMock{
		ListConflictsFunc: func(ctx context.Context, status models.ResolutionStatus, limit int) ([]models.SyncConflict, error) {
			return nil, nil
		},
	}
	store := setupStore(t)
	ioMock, _ := testIO()
	cli := New(nil, svcMock, store, store, ioMock, time.Second)

	// Execute
	err := cli.runConflicts(context.Background(), []string{"all"})

	// Assert
	require.NoError(t, err)
	require.Len(t, svcMock.ListConflictsCalls(), 1)
	assert.Equal(t, models.ResolutionStatus(""), svcMock.ListConflictsCalls()[0].Status)
}

// TestRunConflicts_BadStatus неизвестный фильтр отклоняется до вызова сервиса
func TestRunConflicts_BadStatus(t *testing.T) {
	// Setup
	svcMock := &sync.ServiceMock{}
	store := setupStore(t)
	ioMock, _ := testIO()
	cli := New(nil, svcMock, store, store, ioMock, time.Second)

	// Execute
	err := cli.runConflicts(context.Background(), []string{"wat"})

	// Assert
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown conflict status")
	assert.Empty(t, svcMock.ListConflictsCalls())
}

// TestRunResolve_LocalWins стратегия передается сервису, победитель показан оператору
func TestRunResolve_LocalWins(t *testing.T) {
	// Setup
	winner := &models.ChangeRecord{
		RecordID:   "rec-1",
		RecordType: models.RecordTypeInventoryItem,
		Operation:  models.OperationUpdate,
		Clock:      vclock.Clock{"node-local": 3, "server": 3},
	}
	svcMock := &sync.ServiceMock{
		ResolveConflictFunc: func(ctx context.Context, conflictID string, strategy models.Strategy,
			mergedData json.RawMessage,
		) (*models.ChangeRecord, error) {
			return winner, nil
		},
	}

	store := setupStore(t)
	ioMock, out := testIO("local_wins")
	cli := New(nil, svcMock, store, store, ioMock, time.Second)

	// Execute
	err := cli.runResolve(context.Background(), []string{"conflict-1"})

	// Assert
	require.NoError(t, err)
	require.Len(t, svcMock.ResolveConflictCalls(), 1)
	call := svcMock.ResolveConflictCalls()[0]
	assert.Equal(t, "conflict-1", call.ConflictID)
	assert.Equal(t, models.StrategyLocalWins, call.Strategy)
	assert.Nil(t, call.MergedData)

	output := out.String()
	assert.Contains(t, output, "✓ Conflict resolved!")
	assert.Contains(t, output, "inventory_item/rec-1")
	assert.Contains(t, output, "queued for the next sync cycle")
}

// TestRunResolve_Manual ручная стратегия передает объединенную нагрузку
func TestRunResolve_Manual(t *testing.T) {
	// Setup
	svcMock := &sync.ServiceMock{
		ResolveConflictFunc: func(ctx context.Context, conflictID string, strategy models.Strategy,
			mergedData json.RawMessage,
		) (*models.ChangeRecord, error) {
			return &models.ChangeRecord{
				RecordID:   "rec-1",
				RecordType: models.RecordTypeInventoryItem,
				Clock:      vclock.Clock{"node-local": 4},
			}, nil
		},
	}

	store := setupStore(t)
	ioMock, _ := testIO("manual", `{"quantity":6}`)
	cli := New(nil, svcMock, store, store, ioMock, time.Second)

	// Execute
	err := cli.runResolve(context.Background(), []string{"conflict-1"})

	// Assert
	require.NoError(t, err)
	require.Len(t, svcMock.ResolveConflictCalls(), 1)
	call := svcMock.ResolveConflictCalls()[0]
	assert.Equal(t, models.StrategyManual, call.Strategy)
	assert.JSONEq(t, `{"quantity":6}`, string(call.MergedData))
}

// TestRunResolve_ManualEmptyPayload ручная стратегия без нагрузки отклоняется
func TestRunResolve_ManualEmptyPayload(t *testing.T) {
	// Setup
	svcMock := &sync.ServiceMock{}
	store := setupStore(t)
	ioMock, _ := testIO("manual", "")
	cli := New(nil, svcMock, store, store, ioMock, time.Second)

	// Execute
	err := cli.runResolve(context.Background(), []string{"conflict-1"})

	// Assert
	require.Error(t, err)
	assert.Contains(t, err.Error(), "manual strategy requires a merged payload")
	assert.Empty(t, svcMock.ResolveConflictCalls())
}

// TestRunResolve_UnknownStrategy неизвестная стратегия отклоняется
func TestRunResolve_UnknownStrategy(t *testing.T) {
	// Setup
	svcMock := &sync.ServiceMock{}
	store := setupStore(t)
	ioMock, _ := testIO("newest_wins")
	cli := New(nil, svcMock, store, store, ioMock, time.Second)

	// Execute
	err := cli.runResolve(context.Background(), []string{"conflict-1"})

	// Assert
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown strategy")
	assert.Empty(t, svcMock.ResolveConflictCalls())
}

// TestRunResolve_NoArgs без идентификатора конфликта показываем usage
func TestRunResolve_NoArgs(t *testing.T) {
	// Setup
	store := setupStore(t)
	ioMock, _ := testIO()
	cli := New(nil, &sync.ServiceMock{}, store, store, ioMock, time.Second)

	// Execute
	err := cli.runResolve(context.Background(), nil)

	// Assert
	require.Error(t, err)
	assert.Contains(t, err.Error(), "usage: vaultsync-terminal resolve")
}
