package api

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
)

// TestNewClient проверяет создание нового клиента
func TestNewClient(t *testing.T) {
	baseURL := "http://localhost:8080"
	client := NewClient(baseURL)

	assert.NotNil(t, client)
	assert.Equal(t, baseURL, client.baseURL)
	assert.NotNil(t, client.httpClient)
	assert.Equal(t, 30*time.Second, client.httpClient.Timeout)
}

// TestClient_Register проверяет успешную регистрацию кассы
func TestClient_Register(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Проверяем метод и путь
		assert.Equal(t, "POST", r.Method)
		assert.Equal(t, "/api/v1/nodes/register", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		// Регистрация идет без токена
		assert.Empty(t, r.Header.Get("Authorization"))

		var req api.RegisterNodeRequest
		err := json.NewDecoder(r.Body).Decode(&req)
		require.NoError(t, err)

		assert.Equal(t, "kassa-1", req.Name)
		assert.Equal(t, "store-join-key", req.JoinKey)

		w.WriteHeader(http.StatusCreated)
		resp := api.RegisterNodeResponse{
			NodeID:    "2afeb7d9-7aea-47af-a96e-bbfbf3b3a5bf",
			Token:     "jwt_token_123",
			ExpiresIn: 86400,
		}
		_ = json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	client := NewClient(server.URL)
	ctx := context.Background()
	req := api.RegisterNodeRequest{
		Name:    "kassa-1",
		JoinKey: "store-join-key",
	}

	resp, err := client.Register(ctx, req)

	require.NoError(t, err)
	assert.NotNil(t, resp)
	// NodeID - UUID, присвоенный сервером; касса им подписывает свои часы
	assert.Equal(t, "2afeb7d9-7aea-47af-a96e-bbfbf3b3a5bf", resp.NodeID)
	assert.Equal(t, "jwt_token_123", resp.Token)
	assert.Equal(t, int64(86400), resp.ExpiresIn)
}

// TestClient_Register_Error проверяет обработку ошибок при регистрации
func TestClient_Register_Error(t *testing.T) {
	tests := []struct {
		responseBody   interface{}
		name           string
		expectedErrMsg string
		statusCode     int
	}{
		{
			name:       "Invalid join key",
			statusCode: http.StatusForbidden,
			responseBody: api.ErrorResponse{
				Message: "invalid join key",
			},
			expectedErrMsg: "server error (403): invalid join key",
		},
		{
			name:       "Invalid node name",
			statusCode: http.StatusBadRequest,
			responseBody: api.ErrorResponse{
				Message: "node name must be at least 3 characters long",
			},
			expectedErrMsg: "server error (400): node name must be at least 3 characters long",
		},
		{
			name:           "Internal server error",
			statusCode:     http.StatusInternalServerError,
			responseBody:   "Internal Server Error",
			expectedErrMsg: "request failed with status 500",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.statusCode)
				if errResp, ok := tt.responseBody.(api.ErrorResponse); ok {
					_ = json.NewEncoder(w).Encode(errResp)
				} else {
					_, _ = w.Write([]byte(tt.responseBody.(string)))
				}
			}))
			defer server.Close()

			client := NewClient(server.URL)
			ctx := context.Background()
			req := api.RegisterNodeRequest{
				Name:    "kassa-1",
				JoinKey: "store-join-key",
			}

			resp, err := client.Register(ctx, req)

			require.Error(t, err)
			assert.Nil(t, resp)
			assert.Contains(t, err.Error(), tt.expectedErrMsg)
		})
	}
}

// TestClient_Push проверяет отправку пакета изменений
func TestClient_Push(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "POST", r.Method)
		assert.Equal(t, "/api/v1/sync", r.URL.Path)
		assert.Equal(t, "Bearer test_token", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var req api.PushRequest
		err := json.NewDecoder(r.Body).Decode(&req)
		require.NoError(t, err)

		assert.Equal(t, "node-1", req.NodeID)
		assert.Len(t, req.Records, 2)
		assert.Equal(t, "inventory_item", req.Records[0].RecordType)

		w.WriteHeader(http.StatusOK)
		resp := api.PushResponse{
			Results: []api.RecordResult{
				{
					RecordID:       req.Records[0].RecordID,
					Status:         api.RecordStatusApplied,
					SequenceNumber: 101,
				},
				{
					RecordID:   req.Records[1].RecordID,
					Status:     api.RecordStatusConflicted,
					ConflictID: "conflict-1",
				},
			},
		}
		_ = json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	client := NewClient(server.URL)
	ctx := context.Background()
	req := api.PushRequest{
		NodeID: "node-1",
		Records: []api.ChangeRecord{
			{
				Timestamp:       time.Now().UTC(),
				Data:            json.RawMessage(`{"quantity":4}`),
				VectorTimestamp: map[string]uint64{"node-1": 1},
				RecordID:        "rec-1",
				RecordType:      "inventory_item",
				Operation:       "update",
				NodeID:          "node-1",
			},
			{
				Timestamp:       time.Now().UTC(),
				Data:            json.RawMessage(`{"quantity":2}`),
				VectorTimestamp: map[string]uint64{"node-1": 2},
				RecordID:        "rec-2",
				RecordType:      "inventory_item",
				Operation:       "update",
				NodeID:          "node-1",
			},
		},
	}

	resp, err := client.Push(ctx, "test_token", req)

	require.NoError(t, err)
	require.NotNil(t, resp)
	require.Len(t, resp.Results, 2)
	assert.Equal(t, api.RecordStatusApplied, resp.Results[0].Status)
	assert.Equal(t, uint64(101), resp.Results[0].SequenceNumber)
	assert.Equal(t, api.RecordStatusConflicted, resp.Results[1].Status)
	assert.Equal(t, "conflict-1", resp.Results[1].ConflictID)
}

// TestClient_Push_Unauthorized проверяет обработку просроченного токена
func TestClient_Push_Unauthorized(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		resp := api.ErrorResponse{
			Message: "token expired",
		}
		_ = json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	client := NewClient(server.URL)
	ctx := context.Background()
	req := api.PushRequest{NodeID: "node-1"}

	resp, err := client.Push(ctx, "expired_token", req)

	require.Error(t, err)
	assert.Nil(t, resp)
	assert.Contains(t, err.Error(), "server error (401): token expired")

	// Статус код доступен через типизированную ошибку
	var srvErr *ServerError
	require.ErrorAs(t, err, &srvErr)
	assert.Equal(t, http.StatusUnauthorized, srvErr.StatusCode)
	assert.Equal(t, "token expired", srvErr.Message)
}

// TestClient_Pull проверяет получение изменений после водяного знака
func TestClient_Pull(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "GET", r.Method)
		assert.Equal(t, "/api/v1/sync", r.URL.Path)
		assert.Equal(t, "42", r.URL.Query().Get("since"))
		assert.Equal(t, "100", r.URL.Query().Get("limit"))
		assert.Equal(t, "Bearer test_token", r.Header.Get("Authorization"))

		w.WriteHeader(http.StatusOK)
		resp := api.PullResponse{
			Records: []api.ChangeRecord{
				{
					Timestamp:       time.Now().UTC(),
					Data:            json.RawMessage(`{"quantity":7}`),
					VectorTimestamp: map[string]uint64{"node-2": 3},
					RecordID:        "rec-9",
					RecordType:      "inventory_item",
					Operation:       "update",
					NodeID:          "node-2",
					SequenceNumber:  43,
				},
			},
			LatestSequence: 43,
		}
		_ = json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	client := NewClient(server.URL)
	ctx := context.Background()

	resp, err := client.Pull(ctx, "test_token", 42, 100)

	require.NoError(t, err)
	require.NotNil(t, resp)
	require.Len(t, resp.Records, 1)
	assert.Equal(t, "rec-9", resp.Records[0].RecordID)
	assert.Equal(t, uint64(43), resp.Records[0].SequenceNumber)
	assert.Equal(t, uint64(43), resp.LatestSequence)
}

// TestClient_Pull_DefaultLimit проверяет, что нулевой limit не попадает в запрос
func TestClient_Pull_DefaultLimit(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "0", r.URL.Query().Get("since"))
		assert.False(t, r.URL.Query().Has("limit"))

		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(api.PullResponse{})
	}))
	defer server.Close()

	client := NewClient(server.URL)

	resp, err := client.Pull(context.Background(), "test_token", 0, 0)

	require.NoError(t, err)
	assert.NotNil(t, resp)
	assert.Empty(t, resp.Records)
}

// TestClient_Status проверяет получение сводки синхронизации
func TestClient_Status(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "GET", r.Method)
		assert.Equal(t, "/api/v1/sync/status", r.URL.Path)
		assert.Equal(t, "Bearer test_token", r.Header.Get("Authorization"))

		w.WriteHeader(http.StatusOK)
		resp := api.SyncStatusResponse{
			ServerNodeID:     "server-uuid",
			LatestSequence:   120,
			PendingConflicts: 2,
			RegisteredNodes:  3,
		}
		_ = json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	client := NewClient(server.URL)

	resp, err := client.Status(context.Background(), "test_token")

	require.NoError(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, "server-uuid", resp.ServerNodeID)
	assert.Equal(t, uint64(120), resp.LatestSequence)
	assert.Equal(t, 2, resp.PendingConflicts)
	assert.Equal(t, 3, resp.RegisteredNodes)
}

// TestClient_ListNodes проверяет получение списка касс
func TestClient_ListNodes(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "GET", r.Method)
		assert.Equal(t, "/api/v1/nodes", r.URL.Path)
		assert.Equal(t, "Bearer test_token", r.Header.Get("Authorization"))

		w.WriteHeader(http.StatusOK)
		resp := api.NodeListResponse{
			Nodes: []api.Node{
				{ID: "node-1", Name: "kassa-1", RegisteredAt: time.Now().UTC()},
				{ID: "node-2", Name: "kassa-2", RegisteredAt: time.Now().UTC()},
			},
		}
		_ = json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	client := NewClient(server.URL)

	resp, err := client.ListNodes(context.Background(), "test_token")

	require.NoError(t, err)
	require.NotNil(t, resp)
	require.Len(t, resp.Nodes, 2)
	assert.Equal(t, "kassa-1", resp.Nodes[0].Name)
}

// TestClient_ListConflicts проверяет фильтр статуса и лимит в запросе
func TestClient_ListConflicts(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "GET", r.Method)
		assert.Equal(t, "/api/v1/conflicts", r.URL.Path)
		assert.Equal(t, "pending", r.URL.Query().Get("status"))
		assert.Equal(t, "10", r.URL.Query().Get("limit"))

		w.WriteHeader(http.StatusOK)
		resp := api.ConflictListResponse{
			Conflicts: []api.Conflict{
				{
					DetectedAt: time.Now().UTC(),
					ID:         "conflict-1",
					RecordID:   "rec-1",
					RecordType: "inventory_item",
					Status:     "pending",
				},
			},
		}
		_ = json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	client := NewClient(server.URL)

	resp, err := client.ListConflicts(context.Background(), "test_token", "pending", 10)

	require.NoError(t, err)
	require.NotNil(t, resp)
	require.Len(t, resp.Conflicts, 1)
	assert.Equal(t, "conflict-1", resp.Conflicts[0].ID)
}

// TestClient_ListConflicts_NoFilter проверяет запрос без фильтров
func TestClient_ListConflicts_NoFilter(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.URL.RawQuery)

		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(api.ConflictListResponse{})
	}))
	defer server.Close()

	client := NewClient(server.URL)

	resp, err := client.ListConflicts(context.Background(), "test_token", "", 0)

	require.NoError(t, err)
	assert.NotNil(t, resp)
}

// TestClient_ResolveConflict проверяет отправку решения по конфликту
func TestClient_ResolveConflict(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "POST", r.Method)
		assert.Equal(t, "/api/v1/conflicts/conflict-1/resolve", r.URL.Path)
		assert.Equal(t, "Bearer test_token", r.Header.Get("Authorization"))

		var req api.ResolveConflictRequest
		err := json.NewDecoder(r.Body).Decode(&req)
		require.NoError(t, err)
		assert.Equal(t, "local_wins", req.Resolution)

		w.WriteHeader(http.StatusOK)
		resp := api.ResolveConflictResponse{
			Winner: api.ChangeRecord{
				RecordID:        "rec-1",
				RecordType:      "inventory_item",
				Operation:       "update",
				Data:            json.RawMessage(`{"quantity":4}`),
				VectorTimestamp: map[string]uint64{"node-1": 3, "node-2": 2},
			},
			ConflictID: "conflict-1",
			Status:     "resolved",
		}
		_ = json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	client := NewClient(server.URL)
	req := api.ResolveConflictRequest{Resolution: "local_wins"}

	resp, err := client.ResolveConflict(context.Background(), "test_token", "conflict-1", req)

	require.NoError(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, "conflict-1", resp.ConflictID)
	assert.Equal(t, "resolved", resp.Status)
	// Часы победителя доминируют над обеими версиями
	assert.Equal(t, map[string]uint64{"node-1": 3, "node-2": 2}, resp.Winner.VectorTimestamp)
}

// TestClient_SubmitBlindCount проверяет сдачу слепого пересчета
func TestClient_SubmitBlindCount(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "POST", r.Method)
		assert.Equal(t, "/api/v1/audit/blind-count", r.URL.Path)
		assert.Equal(t, "Bearer test_token", r.Header.Get("Authorization"))

		var req api.BlindCountRequest
		err := json.NewDecoder(r.Body).Decode(&req)
		require.NoError(t, err)
		assert.Equal(t, "shelf-A3", req.LocationTag)
		require.Len(t, req.Items, 2)
		assert.Equal(t, int64(5), req.Items[0].CountedQuantity)

		w.WriteHeader(http.StatusCreated)
		resp := api.BlindCountResponse{
			SessionID:    "session-1",
			ItemsCounted: 2,
			Discrepancies: []api.Discrepancy{
				{
					ID:           "disc-1",
					ConflictType: "physical_miscount",
					Severity:     "medium",
					Status:       "pending",
					Expected:     8,
					Actual:       5,
					Variance:     -3,
				},
			},
		}
		_ = json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	client := NewClient(server.URL)
	req := api.BlindCountRequest{
		LocationTag: "shelf-A3",
		Items: []api.BlindCountItem{
			{ProductUUID: "prod-1", Condition: "NM", CountedQuantity: 5},
			{ProductUUID: "prod-2", Condition: "LP", CountedQuantity: 1},
		},
	}

	resp, err := client.SubmitBlindCount(context.Background(), "test_token", req)

	require.NoError(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, "session-1", resp.SessionID)
	assert.Equal(t, 2, resp.ItemsCounted)
	require.Len(t, resp.Discrepancies, 1)
	assert.Equal(t, int64(-3), resp.Discrepancies[0].Variance)
	assert.Equal(t, "medium", resp.Discrepancies[0].Severity)
}

// TestClient_ListDiscrepancies проверяет получение списка расхождений
func TestClient_ListDiscrepancies(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "GET", r.Method)
		assert.Equal(t, "/api/v1/audit/discrepancies", r.URL.Path)
		assert.Equal(t, "pending", r.URL.Query().Get("status"))
		assert.Equal(t, "session-7", r.URL.Query().Get("session_id"))

		w.WriteHeader(http.StatusOK)
		resp := api.DiscrepancyListResponse{
			Discrepancies: []api.Discrepancy{
				{ID: "disc-1", ConflictType: "oversold", Severity: "high", Status: "pending"},
			},
		}
		_ = json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	client := NewClient(server.URL)

	resp, err := client.ListDiscrepancies(context.Background(), "test_token", "pending", "session-7", 0)

	require.NoError(t, err)
	require.NotNil(t, resp)
	require.Len(t, resp.Discrepancies, 1)
	assert.Equal(t, "oversold", resp.Discrepancies[0].ConflictType)
}

// TestClient_ResolveDiscrepancy проверяет отправку решения по расхождению
func TestClient_ResolveDiscrepancy(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "POST", r.Method)
		assert.Equal(t, "/api/v1/audit/discrepancies/disc-1/resolve", r.URL.Path)

		var req api.ResolveDiscrepancyRequest
		err := json.NewDecoder(r.Body).Decode(&req)
		require.NoError(t, err)
		assert.Equal(t, "resolved", req.Status)
		assert.Equal(t, "пересчитал вручную", req.Notes)

		w.WriteHeader(http.StatusOK)
		resp := api.ResolveDiscrepancyResponse{
			ID:     "disc-1",
			Status: "resolved",
		}
		_ = json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	client := NewClient(server.URL)
	req := api.ResolveDiscrepancyRequest{Status: "resolved", Notes: "пересчитал вручную"}

	resp, err := client.ResolveDiscrepancy(context.Background(), "test_token", "disc-1", req)

	require.NoError(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, "disc-1", resp.ID)
	assert.Equal(t, "resolved", resp.Status)
}

// TestClient_ContextCancellation проверяет отмену запроса через контекст
func TestClient_ContextCancellation(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Имитируем долгий запрос
		time.Sleep(2 * time.Second)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := NewClient(server.URL)

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	resp, err := client.Status(ctx, "test_token")

	require.Error(t, err)
	assert.Nil(t, resp)
	assert.Contains(t, err.Error(), "context deadline exceeded")
}

// TestClient_InvalidJSON проверяет обработку невалидного JSON в ответе
func TestClient_InvalidJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("invalid json {{{"))
	}))
	defer server.Close()

	client := NewClient(server.URL)

	resp, err := client.Pull(context.Background(), "test_token", 0, 0)

	require.Error(t, err)
	assert.Nil(t, resp)
	assert.Contains(t, err.Error(), "failed to decode response")
}

// TestClient_HTTPClientRedirect проверяет, что заголовок Authorization
// переживает редиректы
func TestClient_HTTPClientRedirect(t *testing.T) {
	redirectCount := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if redirectCount < 3 {
			redirectCount++
			w.Header().Set("Location", "/redirected")
			w.WriteHeader(http.StatusFound)
			return
		}

		assert.Equal(t, "Bearer test_token", r.Header.Get("Authorization"))

		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(api.SyncStatusResponse{ServerNodeID: "server-uuid"})
	}))
	defer server.Close()

	client := NewClient(server.URL)

	resp, err := client.Status(context.Background(), "test_token")

	require.NoError(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, "server-uuid", resp.ServerNodeID)
	assert.Equal(t, 3, redirectCount) // Проверяем что было 3 редиректа
}
