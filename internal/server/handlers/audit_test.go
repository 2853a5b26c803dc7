package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/vaultsync/internal/models"
	"github.com/iudanet/vaultsync/internal/reconcile"
	"github.com/iudanet/vaultsync/internal/server/storage"
	"github.com/iudanet/vaultsync/pkg/api"
)

type blindCountCall struct {
	nodeID      string
	locationTag string
	items       []reconcile.CountedItem
}

type auditResolveCall struct {
	id         string
	status     models.ResolutionStatus
	notes      string
	resolvedBy string
}

// mockAuditEngine is a mock implementation of AuditEngine for testing
type mockAuditEngine struct {
	session       *models.AuditSession
	discrepancies []models.Discrepancy
	submitError   error
	resolveError  error
	blindCounts   []blindCountCall
	resolved      []auditResolveCall
}

func (m *mockAuditEngine) SubmitBlindCount(ctx context.Context, nodeID, locationTag string,
	items []reconcile.CountedItem,
) (*models.AuditSession, []models.Discrepancy, error) {
	m.blindCounts = append(m.blindCounts, blindCountCall{
		nodeID:      nodeID,
		locationTag: locationTag,
		items:       items,
	})
	if m.submitError != nil {
		return nil, nil, m.submitError
	}
	return m.session, m.discrepancies, nil
}

func (m *mockAuditEngine) Resolve(ctx context.Context, id string, status models.ResolutionStatus,
	notes, resolvedBy string,
) error {
	m.resolved = append(m.resolved, auditResolveCall{
		id:         id,
		status:     status,
		notes:      notes,
		resolvedBy: resolvedBy,
	})
	return m.resolveError
}

// mockDiscrepancyStorage is a mock implementation of DiscrepancyStorage for testing
type mockDiscrepancyStorage struct {
	discrepancies []models.Discrepancy
	listError     error
	lastStatus    models.ResolutionStatus
	lastSessionID string
	lastLimit     int
}

func (m *mockDiscrepancyStorage) ListDiscrepancies(ctx context.Context,
	status models.ResolutionStatus, sessionID string, limit int,
) ([]models.Discrepancy, error) {
	m.lastStatus = status
	m.lastSessionID = sessionID
	m.lastLimit = limit
	if m.listError != nil {
		return nil, m.listError
	}
	return m.discrepancies, nil
}

func TestAuditHandler_BlindCount(t *testing.T) {
	engine := &mockAuditEngine{
		session: &models.AuditSession{
			ID:            "session-1",
			NodeID:        "node-1",
			LocationTag:   "shelf-A",
			ItemsCounted:  2,
			Discrepancies: 1,
			SubmittedAt:   time.Now().UTC(),
		},
		discrepancies: []models.Discrepancy{
			{
				ID:          "disc-1",
				SessionID:   "session-1",
				ProductUUID: "1b671a64-40d5-491e-99b0-da01ff1f3341",
				Condition:   models.ConditionNearMint,
				Type:        models.ConflictTypeMiscount,
				Severity:    models.SeverityMedium,
				Status:      models.ResolutionPending,
				Expected:    10,
				Actual:      7,
				Variance:    -3,
			},
		},
	}
	handler := NewAuditHandler(setupTestLogger(), engine, &mockDiscrepancyStorage{})

	body, err := json.Marshal(api.BlindCountRequest{
		LocationTag: "shelf-A",
		Items: []api.BlindCountItem{
			{ProductUUID: "1b671a64-40d5-491e-99b0-da01ff1f3341", Condition: "NM", CountedQuantity: 7},
			{ProductUUID: "9f86d081-884c-4d63-a1b3-4f1c2e8a6b21", Condition: "LP", CountedQuantity: 3},
		},
	})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/audit/blind-count", bytes.NewReader(body))
	req = authedContext(req, "node-1")

	w := httptest.NewRecorder()
	handler.BlindCount(w, req)

	require.Equal(t, http.StatusCreated, w.Code)

	var resp api.BlindCountResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))

	assert.Equal(t, "session-1", resp.SessionID)
	assert.Equal(t, 2, resp.ItemsCounted)
	require.Len(t, resp.Discrepancies, 1)
	assert.Equal(t, "physical_miscount", resp.Discrepancies[0].ConflictType)
	assert.Equal(t, "medium", resp.Discrepancies[0].Severity)
	assert.Equal(t, int64(10), resp.Discrepancies[0].Expected)
	assert.Equal(t, int64(7), resp.Discrepancies[0].Actual)
	assert.Equal(t, int64(-3), resp.Discrepancies[0].Variance)

	// Пересчет передан движку от имени кассы из токена
	require.Len(t, engine.blindCounts, 1)
	call := engine.blindCounts[0]
	assert.Equal(t, "node-1", call.nodeID)
	assert.Equal(t, "shelf-A", call.locationTag)
	require.Len(t, call.items, 2)
	assert.Equal(t, models.ConditionNearMint, call.items[0].Condition)
	assert.Equal(t, int64(7), call.items[0].Quantity)
}

func TestAuditHandler_BlindCount_ValidationErrors(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{name: "no items", err: reconcile.ErrNoItems},
		{name: "duplicate item", err: fmt.Errorf("%w: %s", reconcile.ErrDuplicateItem, "rec-1/NM")},
		{name: "invalid item", err: fmt.Errorf("%w: negative quantity", reconcile.ErrInvalidItem)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			engine := &mockAuditEngine{submitError: tt.err}
			handler := NewAuditHandler(setupTestLogger(), engine, &mockDiscrepancyStorage{})

			body, err := json.Marshal(api.BlindCountRequest{Items: []api.BlindCountItem{}})
			require.NoError(t, err)

			req := httptest.NewRequest(http.MethodPost, "/api/v1/audit/blind-count", bytes.NewReader(body))
			req = authedContext(req, "node-1")

			w := httptest.NewRecorder()
			handler.BlindCount(w, req)

			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}

func TestAuditHandler_BlindCount_EngineError(t *testing.T) {
	engine := &mockAuditEngine{submitError: errors.New("database is locked")}
	handler := NewAuditHandler(setupTestLogger(), engine, &mockDiscrepancyStorage{})

	body, err := json.Marshal(api.BlindCountRequest{
		Items: []api.BlindCountItem{{ProductUUID: "rec-1", Condition: "NM", CountedQuantity: 1}},
	})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/audit/blind-count", bytes.NewReader(body))
	req = authedContext(req, "node-1")

	w := httptest.NewRecorder()
	handler.BlindCount(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestAuditHandler_BlindCount_Unauthorized(t *testing.T) {
	handler := NewAuditHandler(setupTestLogger(), &mockAuditEngine{}, &mockDiscrepancyStorage{})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/audit/blind-count", bytes.NewReader([]byte("{}")))
	w := httptest.NewRecorder()
	handler.BlindCount(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuditHandler_ListDiscrepancies(t *testing.T) {
	st := &mockDiscrepancyStorage{
		discrepancies: []models.Discrepancy{
			{
				ID:       "disc-1",
				Type:     models.ConflictTypeOversold,
				Severity: models.SeverityHigh,
				Status:   models.ResolutionPending,
				Expected: 0,
				Actual:   -2,
				Variance: -2,
			},
		},
	}
	handler := NewAuditHandler(setupTestLogger(), &mockAuditEngine{}, st)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/audit/discrepancies?status=pending", nil)
	req = authedContext(req, "node-1")

	w := httptest.NewRecorder()
	handler.ListDiscrepancies(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp api.DiscrepancyListResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))

	require.Len(t, resp.Discrepancies, 1)
	assert.Equal(t, "oversold", resp.Discrepancies[0].ConflictType)
	assert.Equal(t, "high", resp.Discrepancies[0].Severity)
	assert.Equal(t, int64(-2), resp.Discrepancies[0].Actual)

	assert.Equal(t, models.ResolutionPending, st.lastStatus)
	assert.Empty(t, st.lastSessionID)
}

func TestAuditHandler_ListDiscrepancies_SessionFilter(t *testing.T) {
	st := &mockDiscrepancyStorage{}
	handler := NewAuditHandler(setupTestLogger(), &mockAuditEngine{}, st)

	req := httptest.NewRequest(http.MethodGet,
		"/api/v1/audit/discrepancies?session_id=session-7", nil)
	req = authedContext(req, "node-1")

	w := httptest.NewRecorder()
	handler.ListDiscrepancies(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "session-7", st.lastSessionID)
}

func TestAuditHandler_ListDiscrepancies_InvalidStatus(t *testing.T) {
	handler := NewAuditHandler(setupTestLogger(), &mockAuditEngine{}, &mockDiscrepancyStorage{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/audit/discrepancies?status=open", nil)
	req = authedContext(req, "node-1")

	w := httptest.NewRecorder()
	handler.ListDiscrepancies(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAuditHandler_ResolveDiscrepancy(t *testing.T) {
	engine := &mockAuditEngine{}
	handler := NewAuditHandler(setupTestLogger(), engine, &mockDiscrepancyStorage{})

	body, err := json.Marshal(api.ResolveDiscrepancyRequest{
		Status: "ignored",
		Notes:  "known shrinkage",
	})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/audit/discrepancies/disc-1/resolve", bytes.NewReader(body))
	req.SetPathValue("id", "disc-1")
	req = authedContext(req, "manager-1")

	w := httptest.NewRecorder()
	handler.ResolveDiscrepancy(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp api.ResolveDiscrepancyResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Equal(t, "disc-1", resp.ID)
	assert.Equal(t, "ignored", resp.Status)

	require.Len(t, engine.resolved, 1)
	assert.Equal(t, "disc-1", engine.resolved[0].id)
	assert.Equal(t, models.ResolutionIgnored, engine.resolved[0].status)
	assert.Equal(t, "known shrinkage", engine.resolved[0].notes)
	assert.Equal(t, "manager-1", engine.resolved[0].resolvedBy)
}

func TestAuditHandler_ResolveDiscrepancy_ErrorMapping(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
	}{
		{
			name:     "invalid resolution status",
			err:      fmt.Errorf("%w: got %q", reconcile.ErrInvalidResolution, "closed"),
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "not found",
			err:      fmt.Errorf("failed to resolve discrepancy: %w", storage.ErrDiscrepancyNotFound),
			wantCode: http.StatusNotFound,
		},
		{
			name:     "already resolved",
			err:      fmt.Errorf("failed to resolve discrepancy: %w", storage.ErrDiscrepancyResolved),
			wantCode: http.StatusConflict,
		},
		{
			name:     "storage failure",
			err:      errors.New("database is locked"),
			wantCode: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			engine := &mockAuditEngine{resolveError: tt.err}
			handler := NewAuditHandler(setupTestLogger(), engine, &mockDiscrepancyStorage{})

			body, err := json.Marshal(api.ResolveDiscrepancyRequest{Status: "resolved"})
			require.NoError(t, err)

			req := httptest.NewRequest(http.MethodPost, "/api/v1/audit/discrepancies/disc-1/resolve", bytes.NewReader(body))
			req.SetPathValue("id", "disc-1")
			req = authedContext(req, "manager-1")

			w := httptest.NewRecorder()
			handler.ResolveDiscrepancy(w, req)

			assert.Equal(t, tt.wantCode, w.Code)
		})
	}
}
