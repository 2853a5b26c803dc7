package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/iudanet/vaultsync/internal/metrics"
	"github.com/iudanet/vaultsync/internal/models"
	"github.com/iudanet/vaultsync/internal/reconcile"
	"github.com/iudanet/vaultsync/internal/server/storage"
	"github.com/iudanet/vaultsync/pkg/api"
)

// AuditEngine выполняет сверку остатков и ведет расхождения
type AuditEngine interface {
	SubmitBlindCount(ctx context.Context, nodeID, locationTag string,
		items []reconcile.CountedItem) (*models.AuditSession, []models.Discrepancy, error)
	Resolve(ctx context.Context, id string, status models.ResolutionStatus,
		notes, resolvedBy string) error
}

// DiscrepancyStorage определяет доступ к списку расхождений
type DiscrepancyStorage interface {
	ListDiscrepancies(ctx context.Context, status models.ResolutionStatus,
		sessionID string, limit int) ([]models.Discrepancy, error)
}

// AuditHandler обрабатывает слепые пересчеты и расхождения сверки
type AuditHandler struct {
	logger  *slog.Logger
	engine  AuditEngine
	storage DiscrepancyStorage
}

// NewAuditHandler создает новый handler сверки
func NewAuditHandler(logger *slog.Logger, engine AuditEngine, st DiscrepancyStorage) *AuditHandler {
	return &AuditHandler{
		logger:  logger,
		engine:  engine,
		storage: st,
	}
}

// BlindCount обрабатывает POST /api/v1/audit/blind-count.
// Сличает фактический пересчет с учетным остатком на момент сдачи
// и возвращает только позиции с ненулевым расхождением.
func (h *AuditHandler) BlindCount(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	nodeID, ok := GetNodeID(ctx)
	if !ok {
		h.logger.Error("node id not found in context")
		sendError(h.logger, w, "unauthorized", http.StatusUnauthorized)
		return
	}

	var req api.BlindCountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("failed to decode blind count request", "error", err)
		sendError(h.logger, w, "invalid request body", http.StatusBadRequest)
		return
	}

	items := make([]reconcile.CountedItem, 0, len(req.Items))
	for _, item := range req.Items {
		items = append(items, reconcile.CountedItem{
			ProductUUID: item.ProductUUID,
			Condition:   models.Condition(item.Condition),
			Quantity:    item.CountedQuantity,
		})
	}

	session, discrepancies, err := h.engine.SubmitBlindCount(ctx, nodeID, req.LocationTag, items)
	if err != nil {
		switch {
		case errors.Is(err, reconcile.ErrNoItems),
			errors.Is(err, reconcile.ErrDuplicateItem),
			errors.Is(err, reconcile.ErrInvalidItem):
			h.logger.Warn("blind count rejected", "error", err, "node_id", nodeID)
			sendError(h.logger, w, err.Error(), http.StatusBadRequest)
		default:
			h.logger.Error("failed to submit blind count", "error", err, "node_id", nodeID)
			sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
		}
		return
	}

	metrics.RecordAuditSession()
	apiDiscrepancies := make([]api.Discrepancy, 0, len(discrepancies))
	for i := range discrepancies {
		metrics.RecordDiscrepancy(string(discrepancies[i].Type), string(discrepancies[i].Severity))
		apiDiscrepancies = append(apiDiscrepancies, toAPIDiscrepancy(&discrepancies[i]))
	}

	h.logger.Info("blind count submitted",
		"node_id", nodeID,
		"session_id", session.ID,
		"items_counted", session.ItemsCounted,
		"discrepancies", session.Discrepancies)

	sendJSON(h.logger, w, api.BlindCountResponse{
		SessionID:     session.ID,
		ItemsCounted:  session.ItemsCounted,
		Discrepancies: apiDiscrepancies,
	}, http.StatusCreated)
}

// ListDiscrepancies обрабатывает GET /api/v1/audit/discrepancies?status=pending&session_id=X.
// Без параметра status возвращаются расхождения во всех статусах,
// без session_id - по всем сессиям пересчета.
func (h *AuditHandler) ListDiscrepancies(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if _, ok := GetNodeID(ctx); !ok {
		h.logger.Error("node id not found in context")
		sendError(h.logger, w, "unauthorized", http.StatusUnauthorized)
		return
	}

	status, ok := parseStatusParam(r)
	if !ok {
		sendError(h.logger, w, "invalid status parameter", http.StatusBadRequest)
		return
	}

	limit, ok := parseLimitParam(r)
	if !ok {
		sendError(h.logger, w, "invalid limit parameter", http.StatusBadRequest)
		return
	}

	sessionID := r.URL.Query().Get("session_id")

	discrepancies, err := h.storage.ListDiscrepancies(ctx, status, sessionID, limit)
	if err != nil {
		h.logger.Error("failed to list discrepancies", "error", err)
		sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}

	apiDiscrepancies := make([]api.Discrepancy, 0, len(discrepancies))
	for i := range discrepancies {
		apiDiscrepancies = append(apiDiscrepancies, toAPIDiscrepancy(&discrepancies[i]))
	}

	sendJSON(h.logger, w, api.DiscrepancyListResponse{Discrepancies: apiDiscrepancies}, http.StatusOK)
}

// ResolveDiscrepancy обрабатывает POST /api/v1/audit/discrepancies/{id}/resolve.
// Решение принимается ровно один раз; повторный запрос получает 409.
func (h *AuditHandler) ResolveDiscrepancy(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	nodeID, ok := GetNodeID(ctx)
	if !ok {
		h.logger.Error("node id not found in context")
		sendError(h.logger, w, "unauthorized", http.StatusUnauthorized)
		return
	}

	id := r.PathValue("id")
	if id == "" {
		sendError(h.logger, w, "discrepancy id is required", http.StatusBadRequest)
		return
	}

	var req api.ResolveDiscrepancyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("failed to decode resolve request", "error", err)
		sendError(h.logger, w, "invalid request body", http.StatusBadRequest)
		return
	}

	status := models.ResolutionStatus(req.Status)
	if err := h.engine.Resolve(ctx, id, status, req.Notes, nodeID); err != nil {
		switch {
		case errors.Is(err, reconcile.ErrInvalidResolution):
			sendError(h.logger, w, err.Error(), http.StatusBadRequest)
		case errors.Is(err, storage.ErrDiscrepancyNotFound):
			sendError(h.logger, w, "discrepancy not found", http.StatusNotFound)
		case errors.Is(err, storage.ErrDiscrepancyResolved):
			sendError(h.logger, w, "discrepancy already resolved", http.StatusConflict)
		default:
			h.logger.Error("failed to resolve discrepancy", "error", err, "discrepancy_id", id)
			sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
		}
		return
	}

	h.logger.Info("discrepancy resolved",
		"discrepancy_id", id,
		"status", status,
		"resolved_by", nodeID)

	sendJSON(h.logger, w, api.ResolveDiscrepancyResponse{
		ID:     id,
		Status: string(status),
	}, http.StatusOK)
}
