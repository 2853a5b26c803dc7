package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/iudanet/vaultsync/internal/metrics"
	"github.com/iudanet/vaultsync/internal/models"
	"github.com/iudanet/vaultsync/internal/resolver"
	"github.com/iudanet/vaultsync/internal/server/storage"
	"github.com/iudanet/vaultsync/pkg/api"
)

// defaultListLimit ограничивает списочные ответы, если клиент не задал limit
const defaultListLimit = 100

// ConflictResolver разрешает конфликт по выбранной стратегии
type ConflictResolver interface {
	Resolve(ctx context.Context, conflictID string, strategy models.Strategy,
		mergedData json.RawMessage) (*models.ChangeRecord, error)
}

// ConflictStorage определяет доступ к списку конфликтов
type ConflictStorage interface {
	ListConflicts(ctx context.Context, status models.ResolutionStatus, limit int) ([]models.SyncConflict, error)
}

// ConflictsHandler обрабатывает просмотр и разрешение конфликтов
type ConflictsHandler struct {
	logger   *slog.Logger
	resolver ConflictResolver
	storage  ConflictStorage
}

// NewConflictsHandler создает новый handler конфликтов
func NewConflictsHandler(logger *slog.Logger, res ConflictResolver, st ConflictStorage) *ConflictsHandler {
	return &ConflictsHandler{
		logger:   logger,
		resolver: res,
		storage:  st,
	}
}

// List обрабатывает GET /api/v1/conflicts?status=pending.
// Без параметра status возвращаются конфликты во всех статусах.
func (h *ConflictsHandler) List(w http.ResponseWriter, r *http.Request) {
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

	conflicts, err := h.storage.ListConflicts(ctx, status, limit)
	if err != nil {
		h.logger.Error("failed to list conflicts", "error", err)
		sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}

	apiConflicts := make([]api.Conflict, 0, len(conflicts))
	for i := range conflicts {
		apiConflicts = append(apiConflicts, toAPIConflict(&conflicts[i]))
	}

	sendJSON(h.logger, w, api.ConflictListResponse{Conflicts: apiConflicts}, http.StatusOK)
}

// Resolve обрабатывает POST /api/v1/conflicts/{id}/resolve.
// Разрешение применяется ровно один раз: повторный запрос по тому же
// конфликту получает 409 независимо от стратегии.
func (h *ConflictsHandler) Resolve(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if _, ok := GetNodeID(ctx); !ok {
		h.logger.Error("node id not found in context")
		sendError(h.logger, w, "unauthorized", http.StatusUnauthorized)
		return
	}

	conflictID := r.PathValue("id")
	if conflictID == "" {
		sendError(h.logger, w, "conflict id is required", http.StatusBadRequest)
		return
	}

	var req api.ResolveConflictRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("failed to decode resolve request", "error", err)
		sendError(h.logger, w, "invalid request body", http.StatusBadRequest)
		return
	}

	strategy := models.Strategy(req.Resolution)

	winner, err := h.resolver.Resolve(ctx, conflictID, strategy, req.MergedData)
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrConflictNotFound):
			sendError(h.logger, w, "conflict not found", http.StatusNotFound)
		case errors.Is(err, resolver.ErrAlreadyResolved):
			sendError(h.logger, w, "conflict already resolved", http.StatusConflict)
		case errors.Is(err, resolver.ErrUnknownStrategy),
			errors.Is(err, resolver.ErrMergedDataRequired):
			sendError(h.logger, w, err.Error(), http.StatusBadRequest)
		default:
			h.logger.Error("failed to resolve conflict",
				"error", err,
				"conflict_id", conflictID)
			sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
		}
		return
	}
	metrics.RecordConflictResolved(string(strategy))

	sendJSON(h.logger, w, api.ResolveConflictResponse{
		Winner:     toAPIRecord(winner),
		ConflictID: conflictID,
		Status:     string(models.ResolutionResolved),
	}, http.StatusOK)
}

// parseStatusParam читает фильтр статуса из query; пустой фильтр означает все статусы
func parseStatusParam(r *http.Request) (models.ResolutionStatus, bool) {
	raw := r.URL.Query().Get("status")
	if raw == "" {
		return "", true
	}

	status := models.ResolutionStatus(raw)
	switch status {
	case models.ResolutionPending, models.ResolutionResolved, models.ResolutionIgnored:
		return status, true
	default:
		return "", false
	}
}

// parseLimitParam читает limit из query с верхней границей по умолчанию
func parseLimitParam(r *http.Request) (int, bool) {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return defaultListLimit, true
	}

	limit, err := strconv.Atoi(raw)
	if err != nil || limit <= 0 {
		return 0, false
	}
	if limit > defaultListLimit {
		limit = defaultListLimit
	}
	return limit, true
}
