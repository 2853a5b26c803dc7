package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/vaultsync/internal/models"
	"github.com/iudanet/vaultsync/internal/terminal/iocli"
	"github.com/iudanet/vaultsync/internal/terminal/storage"
	"github.com/iudanet/vaultsync/internal/terminal/storage/boltdb"
	"github.com/iudanet/vaultsync/internal/terminal/sync"
	"github.com/iudanet/vaultsync/internal/vclock"
	"github.com/iudanet/vaultsync/pkg/api"

	httpapi "github.com/iudanet/vaultsync/internal/terminal/api"
)

// testIO отдает команде заранее заготовленный ввод и собирает весь вывод.
// Ввод и пароли читаются из одного списка в порядке диалога.
func testIO(inputs ...string) (*iocli.IOMock, *strings.Builder) {
	var out strings.Builder
	idx := 0
	next := func() (string, error) {
		if idx >= len(inputs) {
			return "", io.EOF
		}
		v := inputs[idx]
		idx++
		return v, nil
	}
	mock := &iocli.IOMock{
		PrintlnFunc: func(a ...any) {
			out.WriteString(fmt.Sprintln(a...))
		},
		PrintfFunc: func(format string, a ...any) {
			fmt.Fprintf(&out, format, a...)
		},
		WriteFunc: func(p []byte) (int, error) {
			return out.Write(p)
		},
		ReadInputFunc: func(prompt string) (string, error) {
			return next()
		},
		ReadPasswordFunc: func(prompt string) (string, error) {
			return next()
		},
	}
	return mock, &out
}

// setupStore открывает настоящее bbolt-хранилище во временном каталоге
func setupStore(t *testing.T) *boltdb.Store {
	t.Helper()
	store, err := boltdb.New(filepath.Join(t.TempDir(), "terminal.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

// saveIdentity сохраняет регистрацию кассы, как ее записала бы команда register
func saveIdentity(t *testing.T, store *boltdb.Store) *storage.Identity {
	t.Helper()
	identity := &storage.Identity{
		RegisteredAt: time.Now(),
		ExpiresAt:    time.Now().Add(24 * time.Hour),
		NodeID:       "node-local",
		NodeName:     "kassa-1",
		Token:        "test_token",
	}
	require.NoError(t, store.SaveIdentity(context.Background(), identity))
	return identity
}

// TestRunStatus_NotRegistered проверяет подсказку до регистрации
func TestRunStatus_NotRegistered(t *testing.T) {
	// Setup
	store := setupStore(t)
	ioMock, out := testIO()
	cli := New(nil, nil, store, store, ioMock, time.Second)

	// Execute
	err := cli.runStatus(context.Background())

	// Assert
	require.NoError(t, err)
	assert.Contains(t, out.String(), "Status: Not registered")
	assert.Contains(t, out.String(), "vaultsync-terminal register")
}

// TestRunStatus_ServerUnreachable проверяет локальный статус: недоступный
// сервер - не ошибка, касса показывает свое состояние честно
func TestRunStatus_ServerUnreachable(t *testing.T) {
	// Setup
	store := setupStore(t)
	saveIdentity(t, store)

	svcMock := &sync.ServiceMock{
		StatusFunc: func(ctx context.Context) (*sync.Status, error) {
			return &sync.Status{
				LastSyncAt:       time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC),
				NodeID:           "node-local",
				NodeName:         "kassa-1",
				Watermark:        42,
				QueuedChanges:    3,
				PendingConflicts: 1,
			}, nil
		},
	}

	// Сервер закрыт сразу: соединение будет отклонено
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	ts.Close()
	apiClient := httpapi.NewClient(ts.URL)

	ioMock, out := testIO()
	cli := New(apiClient, svcMock, store, store, ioMock, time.Second)

	// Execute
	err := cli.runStatus(context.Background())

	// Assert
	require.NoError(t, err)
	output := out.String()
	assert.Contains(t, output, "Node name: kassa-1")
	assert.Contains(t, output, "Watermark: 42")
	assert.Contains(t, output, "Pending sync: 3 record(s)")
	assert.Contains(t, output, "Open conflicts: 1")
	assert.Contains(t, output, "Server: unreachable")
}

// TestRunStatus_ServerReachable проверяет, что сводка сервера добавляется к локальной
func TestRunStatus_ServerReachable(t *testing.T) {
	// Setup
	store := setupStore(t)
	saveIdentity(t, store)

	svcMock := &sync.ServiceMock{
		StatusFunc: func(ctx context.Context) (*sync.Status, error) {
			return &sync.Status{
				NodeID:   "node-local",
				NodeName: "kassa-1",
			}, nil
		},
	}

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/sync/status", r.URL.Path)
		assert.Equal(t, "Bearer test_token", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(api.SyncStatusResponse{
			ServerNodeID:     "server-node",
			LatestSequence:   99,
			PendingConflicts: 2,
			RegisteredNodes:  3,
		})
	}))
	defer ts.Close()
	apiClient := httpapi.NewClient(ts.URL)

	ioMock, out := testIO()
	cli := New(apiClient, svcMock, store, store, ioMock, time.Second)

	// Execute
	err := cli.runStatus(context.Background())

	// Assert
	require.NoError(t, err)
	output := out.String()
	assert.Contains(t, output, "✓ All local changes pushed to the server")
	assert.Contains(t, output, "Server: reachable")
	assert.Contains(t, output, "Latest sequence:   99")
	assert.Contains(t, output, "Registered nodes:  3")
}

// TestRunQueue проверяет вывод очереди отправки с историей ошибок
func TestRunQueue(t *testing.T) {
	// Setup
	store := setupStore(t)
	ctx := context.Background()

	rec := &models.ChangeRecord{
		Timestamp:  time.Now(),
		Payload:    json.RawMessage(`{"name":"Lightning Bolt"}`),
		Clock:      vclock.Clock{"node-local": 1},
		RecordID:   uuid.New().String(),
		RecordType: models.RecordTypeProduct,
		Operation:  models.OperationUpdate,
		NodeID:     "node-local",
	}
	key, err := store.Enqueue(ctx, rec)
	require.NoError(t, err)
	require.NoError(t, store.MarkFailed(ctx, key, "checksum mismatch"))

	ioMock, out := testIO()
	cli := New(nil, nil, store, store, ioMock, time.Second)

	// Execute
	err = cli.runQueue(ctx)

	// Assert
	require.NoError(t, err)
	output := out.String()
	assert.Contains(t, output, "Found 1 queued change(s)")
	assert.Contains(t, output, rec.RecordID)
	assert.Contains(t, output, "Retries:  1")
	assert.Contains(t, output, "Last error: checksum mismatch")
}

// TestRunQueue_Empty пустая очередь - положительное сообщение, не ошибка
func TestRunQueue_Empty(t *testing.T) {
	// Setup
	store := setupStore(t)
	ioMock, out := testIO()
	cli := New(nil, nil, store, store, ioMock, time.Second)

	// Execute
	err := cli.runQueue(context.Background())

	// Assert
	require.NoError(t, err)
	assert.Contains(t, out.String(), "Queue is empty")
}

// TestRunStage проверяет создание локального изменения через диалог
func TestRunStage(t *testing.T) {
	// Setup
	recordID := uuid.New().String()
	staged := &models.ChangeRecord{
		RecordID:   recordID,
		RecordType: models.RecordTypeInventoryItem,
		Operation:  models.OperationUpdate,
		Clock:      vclock.Clock{"node-local": 1},
	}
	svcMock := &sync.ServiceMock{
		StageFunc: func(ctx context.Context, recordType models.RecordType, recordID string,
			op models.Operation, payload json.RawMessage,
		) (*models.ChangeRecord, error) {
			return staged, nil
		},
	}

	store := setupStore(t)
	ioMock, out := testIO("inventory_item", recordID, "update", `{"quantity":3}`)
	cli := New(nil, svcMock, store, store, ioMock, time.Second)

	// Execute
	err := cli.runStage(context.Background())

	// Assert
	require.NoError(t, err)
	require.Len(t, svcMock.StageCalls(), 1)
	call := svcMock.StageCalls()[0]
	assert.Equal(t, models.RecordTypeInventoryItem, call.RecordType)
	assert.Equal(t, recordID, call.RecordID)
	assert.Equal(t, models.OperationUpdate, call.Op)
	assert.JSONEq(t, `{"quantity":3}`, string(call.Payload))
	assert.Contains(t, out.String(), "✓ Change staged!")
}

// TestRunStage_GeneratesRecordID пустой ID заменяется новым UUID
func TestRunStage_GeneratesRecordID(t *testing.T) {
	// Setup
	svcMock := &sync.ServiceMock{
		StageFunc: func(ctx context.Context, recordType models.RecordType, recordID string,
			op models.Operation, payload json.RawMessage,
		) (*models.ChangeRecord, error) {
			return &models.ChangeRecord{
				RecordID:   recordID,
				RecordType: recordType,
				Operation:  op,
				Clock:      vclock.Clock{"node-local": 1},
			}, nil
		},
	}

	store := setupStore(t)
	ioMock, out := testIO("product", "", "insert", `{"name":"Counterspell"}`)
	cli := New(nil, svcMock, store, store, ioMock, time.Second)

	// Execute
	err := cli.runStage(context.Background())

	// Assert
	require.NoError(t, err)
	require.Len(t, svcMock.StageCalls(), 1)
	generated := svcMock.StageCalls()[0].RecordID
	_, err = uuid.Parse(generated)
	assert.NoError(t, err)
	assert.Contains(t, out.String(), "Generated record ID: "+generated)
}

// TestRunStage_UnknownType отклоняет неизвестный тип записи до обращения к сервису
func TestRunStage_UnknownType(t *testing.T) {
	// Setup
	svcMock := &sync.ServiceMock{}
	store := setupStore(t)
	ioMock, _ := testIO("warehouse_robot")
	cli := New(nil, svcMock, store, store, ioMock, time.Second)

	// Execute
	err := cli.runStage(context.Background())

	// Assert
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown record type")
	assert.Empty(t, svcMock.StageCalls())
}

// TestRunStage_InvalidPayload полезная нагрузка должна быть валидным JSON
func TestRunStage_InvalidPayload(t *testing.T) {
	// Setup
	svcMock := &sync.ServiceMock{}
	store := setupStore(t)
	ioMock, _ := testIO("product", uuid.New().String(), "update", "{not json")
	cli := New(nil, svcMock, store, store, ioMock, time.Second)

	// Execute
	err := cli.runStage(context.Background())

	// Assert
	require.Error(t, err)
	assert.Contains(t, err.Error(), "payload must be valid JSON")
	assert.Empty(t, svcMock.StageCalls())
}

// TestRunStage_NotRegistered без регистрации сервис недоступен
func TestRunStage_NotRegistered(t *testing.T) {
	// Setup
	store := setupStore(t)
	ioMock, _ := testIO()
	cli := New(nil, nil, store, store, ioMock, time.Second)

	// Execute
	err := cli.runStage(context.Background())

	// Assert
	require.Error(t, err)
	assert.Contains(t, err.Error(), "terminal is not registered")
}
