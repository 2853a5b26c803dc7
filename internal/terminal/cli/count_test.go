package cli

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/vaultsync/pkg/api"

	httpapi "github.com/iudanet/vaultsync/internal/terminal/api"
)

// TestRunCount полный слепой пересчет: диалог, запрос, расхождения на экране
func TestRunCount(t *testing.T) {
	// Setup
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/v1/audit/blind-count", r.URL.Path)
		assert.Equal(t, "Bearer test_token", r.Header.Get("Authorization"))

		var req api.BlindCountRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "shelf-A3", req.LocationTag)
		require.Len(t, req.Items, 2)
		assert.Equal(t, "NM", req.Items[0].Condition)
		assert.Equal(t, int64(4), req.Items[0].CountedQuantity)
		assert.Equal(t, "LP", req.Items[1].Condition)
		assert.Equal(t, int64(2), req.Items[1].CountedQuantity)

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(api.BlindCountResponse{
			SessionID:    "sess-1",
			ItemsCounted: 2,
			Discrepancies: []api.Discrepancy{
				{
					CreatedAt:    time.Now(),
					ID:           "disc-1",
					ProductUUID:  req.Items[0].ProductUUID,
					Condition:    "NM",
					ConflictType: "physical_miscount",
					Severity:     "medium",
					Status:       "pending",
					Expected:     6,
					Actual:       4,
					Variance:     -2,
				},
			},
		})
	}))
	defer ts.Close()

	store := setupStore(t)
	saveIdentity(t, store)
	apiClient := httpapi.NewClient(ts.URL)

	// Диалог: место, затем позиции; пустой UUID завершает список
	ioMock, out := testIO(
		"shelf-A3",
		"9b2f0c4e-7d7a-4f5e-9a8b-3c2d1e0f9a8b", "NM", "4",
		"4c8e2a1b-5f6d-4e3c-8b7a-9d0e1f2a3b4c", "LP", "2",
		"",
	)
	cli := New(apiClient, nil, store, store, ioMock, time.Second)

	// Execute
	err := cli.runCount(context.Background())

	// Assert
	require.NoError(t, err)
	output := out.String()
	assert.Contains(t, output, "✓ Count session sess-1 recorded: 2 item(s).")
	assert.Contains(t, output, "1 discrepancy(ies) detected")
	assert.Contains(t, output, "disc-1")
	assert.Contains(t, output, "physical_miscount (medium)")
	assert.Contains(t, output, "Expected: 6, actual: 4, variance: -2")
}

// TestRunCount_NoDiscrepancies чистый пересчет - положительное сообщение
func TestRunCount_NoDiscrepancies(t *testing.T) {
	// Setup
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(api.BlindCountResponse{
			SessionID:    "sess-2",
			ItemsCounted: 1,
		})
	}))
	defer ts.Close()

	store := setupStore(t)
	saveIdentity(t, store)
	apiClient := httpapi.NewClient(ts.URL)

	ioMock, out := testIO("shelf-B1", "9b2f0c4e-7d7a-4f5e-9a8b-3c2d1e0f9a8b", "NM", "4", "")
	cli := New(apiClient, nil, store, store, ioMock, time.Second)

	// Execute
	err := cli.runCount(context.Background())

	// Assert
	require.NoError(t, err)
	assert.Contains(t, out.String(), "✓ No discrepancies")
}

// TestRunCount_NoItems пересчет без позиций не отправляется
func TestRunCount_NoItems(t *testing.T) {
	// Setup
	store := setupStore(t)
	saveIdentity(t, store)
	ioMock, _ := testIO("shelf-A3", "")
	cli := New(nil, nil, store, store, ioMock, time.Second)

	// Execute
	err := cli.runCount(context.Background())

	// Assert
	require.Error(t, err)
	assert.Contains(t, err.Error(), "at least one counted item is required")
}

// TestRunCount_BadCondition неизвестное состояние товара отклоняется сразу
func TestRunCount_BadCondition(t *testing.T) {
	// Setup
	store := setupStore(t)
	saveIdentity(t, store)
	ioMock, _ := testIO("shelf-A3", "9b2f0c4e-7d7a-4f5e-9a8b-3c2d1e0f9a8b", "MINT")
	cli := New(nil, nil, store, store, ioMock, time.Second)

	// Execute
	err := cli.runCount(context.Background())

	// Assert
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown condition")
}

// TestRunCount_NotRegistered пересчет требует регистрации
func TestRunCount_NotRegistered(t *testing.T) {
	// Setup
	store := setupStore(t)
	ioMock, _ := testIO()
	cli := New(nil, nil, store, store, ioMock, time.Second)

	// Execute
	err := cli.runCount(context.Background())

	// Assert
	require.Error(t, err)
	assert.Contains(t, err.Error(), "terminal is not registered")
}

// TestRunDiscrepancies список расхождений с сервера со статусным фильтром
func TestRunDiscrepancies(t *testing.T) {
	// Setup
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/v1/audit/discrepancies", r.URL.Path)
		assert.Equal(t, "pending", r.URL.Query().Get("status"))
		assert.Equal(t, "50", r.URL.Query().Get("limit"))

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(api.DiscrepancyListResponse{
			Discrepancies: []api.Discrepancy{
				{
					CreatedAt:    time.Now(),
					ID:           "disc-7",
					ConflictType: "oversold",
					Severity:     "high",
					Status:       "pending",
					Expected:     0,
					Actual:       -3,
					Variance:     -3,
				},
			},
		})
	}))
	defer ts.Close()

	store := setupStore(t)
	saveIdentity(t, store)
	apiClient := httpapi.NewClient(ts.URL)

	ioMock, out := testIO()
	cli := New(apiClient, nil, store, store, ioMock, time.Second)

	// Execute
	err := cli.runDiscrepancies(context.Background(), nil)

	// Assert
	require.NoError(t, err)
	output := out.String()
	assert.Contains(t, output, "=== Audit Discrepancies ===")
	assert.Contains(t, output, "disc-7")
	assert.Contains(t, output, "oversold (high)")
}

// TestRunDiscrepancies_Resolve решение оператора уходит на сервер
func TestRunDiscrepancies_Resolve(t *testing.T) {
	// Setup
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/v1/audit/discrepancies/disc-7/resolve", r.URL.Path)

		var req api.ResolveDiscrepancyRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "resolved", req.Status)
		assert.Equal(t, "пересчитал вручную", req.Notes)

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(api.ResolveDiscrepancyResponse{
			ID:     "disc-7",
			Status: "resolved",
		})
	}))
	defer ts.Close()

	store := setupStore(t)
	saveIdentity(t, store)
	apiClient := httpapi.NewClient(ts.URL)

	ioMock, out := testIO("resolved", "пересчитал вручную")
	cli := New(apiClient, nil, store, store, ioMock, time.Second)

	// Execute
	err := cli.runDiscrepancies(context.Background(), []string{"resolve", "disc-7"})

	// Assert
	require.NoError(t, err)
	assert.Contains(t, out.String(), "✓ Discrepancy disc-7 marked resolved.")
}

// TestRunDiscrepancies_ResolveBadDecision решение вне словаря отклоняется
func TestRunDiscrepancies_ResolveBadDecision(t *testing.T) {
	// Setup
	store := setupStore(t)
	saveIdentity(t, store)
	ioMock, _ := testIO("maybe")
	cli := New(nil, nil, store, store, ioMock, time.Second)

	// Execute
	err := cli.runDiscrepancies(context.Background(), []string{"resolve", "disc-7"})

	// Assert
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown decision")
}
