package handlers

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/iudanet/vaultsync/internal/changelog"
	"github.com/iudanet/vaultsync/internal/metrics"
	"github.com/iudanet/vaultsync/internal/models"
	"github.com/iudanet/vaultsync/pkg/api"
)

// ChangeAppender применяет одну запись изменения к журналу
type ChangeAppender interface {
	Append(ctx context.Context, rec *models.ChangeRecord) (changelog.Result, error)
}

// SyncStorage определяет доступ к журналу и сводке узла слияния
type SyncStorage interface {
	RecordsSince(ctx context.Context, since uint64, limit int) ([]models.ChangeRecord, error)
	LatestSequence(ctx context.Context) (uint64, error)
	CountPendingConflicts(ctx context.Context) (int, error)
	CountNodes(ctx context.Context) (int, error)
	TouchNode(ctx context.Context, id string, seenAt time.Time) error
}

// SyncHandler обрабатывает push и pull запросы синхронизации
type SyncHandler struct {
	logger       *slog.Logger
	engine       ChangeAppender
	storage      SyncStorage
	serverNodeID string
	maxBatch     int
}

// NewSyncHandler создает новый handler синхронизации.
// maxBatch ограничивает количество записей в одном запросе в обе стороны.
func NewSyncHandler(logger *slog.Logger, engine ChangeAppender, storage SyncStorage,
	serverNodeID string, maxBatch int,
) *SyncHandler {
	return &SyncHandler{
		logger:       logger,
		engine:       engine,
		storage:      storage,
		serverNodeID: serverNodeID,
		maxBatch:     maxBatch,
	}
}

// HandlePush обрабатывает POST /api/v1/sync.
// Принимает пакет изменений от кассы и применяет их по одному:
// исход одной записи не влияет на остальные, каждая запись получает
// свой результат в том же порядке, что и в запросе.
func (h *SyncHandler) HandlePush(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	nodeID, ok := GetNodeID(ctx)
	if !ok {
		h.logger.Error("node id not found in context")
		sendError(h.logger, w, "unauthorized", http.StatusUnauthorized)
		return
	}

	var req api.PushRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("failed to decode push request", "error", err)
		sendError(h.logger, w, "invalid request body", http.StatusBadRequest)
		return
	}

	// Касса может подписывать пакет только своим идентификатором
	if req.NodeID != "" && req.NodeID != nodeID {
		h.logger.Warn("push node_id mismatch",
			"expected", nodeID,
			"got", req.NodeID)
		sendError(h.logger, w, "node_id mismatch", http.StatusForbidden)
		return
	}

	if len(req.Records) > h.maxBatch {
		sendError(h.logger, w,
			"batch exceeds maximum size of "+strconv.Itoa(h.maxBatch)+" records",
			http.StatusBadRequest)
		return
	}

	h.logger.Info("push request",
		"node_id", nodeID,
		"records_count", len(req.Records))
	metrics.ObservePushBatch(len(req.Records))

	results := make([]api.RecordResult, 0, len(req.Records))
	for _, apiRec := range req.Records {
		rec := fromAPIRecord(apiRec)

		result, err := h.engine.Append(ctx, rec)
		if err != nil {
			h.logger.Error("failed to append record",
				"error", err,
				"record_id", rec.RecordID)
			sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
			return
		}

		rr := api.RecordResult{
			RecordID: rec.RecordID,
			Status:   string(result.Status),
		}
		switch result.Status {
		case models.StatusApplied:
			rr.SequenceNumber = result.Sequence
		case models.StatusConflicted:
			rr.ConflictID = result.Conflict.ID
			metrics.RecordConflictDetected()
		case models.StatusRejected:
			rr.Error = result.Reason
		}
		metrics.RecordPushRecord(string(result.Status))

		results = append(results, rr)
	}

	// Время последней синхронизации обновляется по факту обращения;
	// неуспех не отменяет уже примененные записи
	if err := h.storage.TouchNode(ctx, nodeID, time.Now().UTC()); err != nil {
		h.logger.Warn("failed to touch node", "error", err, "node_id", nodeID)
	}

	sendJSON(h.logger, w, api.PushResponse{Results: results}, http.StatusOK)

	h.logger.Info("push completed",
		"node_id", nodeID,
		"records_count", len(results))
}

// HandlePull обрабатывает GET /api/v1/sync?since=N.
// Возвращает записи с порядковым номером строго больше since,
// по возрастанию номера, не более maxBatch за один запрос.
func (h *SyncHandler) HandlePull(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	nodeID, ok := GetNodeID(ctx)
	if !ok {
		h.logger.Error("node id not found in context")
		sendError(h.logger, w, "unauthorized", http.StatusUnauthorized)
		return
	}

	var since uint64
	if sinceStr := r.URL.Query().Get("since"); sinceStr != "" {
		var err error
		since, err = strconv.ParseUint(sinceStr, 10, 64)
		if err != nil {
			h.logger.Warn("invalid since parameter", "since", sinceStr, "error", err)
			sendError(h.logger, w, "invalid since parameter", http.StatusBadRequest)
			return
		}
	}

	limit := h.maxBatch
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		parsed, err := strconv.Atoi(limitStr)
		if err != nil || parsed <= 0 {
			sendError(h.logger, w, "invalid limit parameter", http.StatusBadRequest)
			return
		}
		if parsed < limit {
			limit = parsed
		}
	}

	records, err := h.storage.RecordsSince(ctx, since, limit)
	if err != nil {
		h.logger.Error("failed to load records", "error", err, "since", since)
		sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}

	latest, err := h.storage.LatestSequence(ctx)
	if err != nil {
		h.logger.Error("failed to load latest sequence", "error", err)
		sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}

	apiRecords := make([]api.ChangeRecord, 0, len(records))
	for i := range records {
		apiRecords = append(apiRecords, toAPIRecord(&records[i]))
	}
	metrics.AddPullRecords(len(apiRecords))

	if err := h.storage.TouchNode(ctx, nodeID, time.Now().UTC()); err != nil {
		h.logger.Warn("failed to touch node", "error", err, "node_id", nodeID)
	}

	sendJSON(h.logger, w, api.PullResponse{
		Records:        apiRecords,
		LatestSequence: latest,
	}, http.StatusOK)

	h.logger.Info("pull completed",
		"node_id", nodeID,
		"since", since,
		"records_count", len(apiRecords))
}

// HandleStatus обрабатывает GET /api/v1/sync/status.
// Все значения сводки читаются из хранилища, ничего не вычисляется на лету.
func (h *SyncHandler) HandleStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if _, ok := GetNodeID(ctx); !ok {
		h.logger.Error("node id not found in context")
		sendError(h.logger, w, "unauthorized", http.StatusUnauthorized)
		return
	}

	latest, err := h.storage.LatestSequence(ctx)
	if err != nil {
		h.logger.Error("failed to load latest sequence", "error", err)
		sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}

	pending, err := h.storage.CountPendingConflicts(ctx)
	if err != nil {
		h.logger.Error("failed to count pending conflicts", "error", err)
		sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}

	nodes, err := h.storage.CountNodes(ctx)
	if err != nil {
		h.logger.Error("failed to count nodes", "error", err)
		sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}

	sendJSON(h.logger, w, api.SyncStatusResponse{
		ServerNodeID:     h.serverNodeID,
		LatestSequence:   latest,
		PendingConflicts: pending,
		RegisteredNodes:  nodes,
	}, http.StatusOK)
}
