package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/iudanet/vaultsync/internal/crypto"
	"github.com/iudanet/vaultsync/internal/models"
	"github.com/iudanet/vaultsync/internal/server/storage"
	"github.com/iudanet/vaultsync/internal/validation"
	"github.com/iudanet/vaultsync/pkg/api"
)

// NodeStorage определяет доступ к реестру касс
type NodeStorage interface {
	CreateNode(ctx context.Context, node *models.Node) error
	ListNodes(ctx context.Context) ([]models.Node, error)
}

// NodesHandler обрабатывает регистрацию и список касс
type NodesHandler struct {
	logger    *slog.Logger
	storage   NodeStorage
	jwtConfig JWTConfig
	joinSalt  []byte
	joinHash  string
}

// NewNodesHandler создает новый handler реестра касс.
// joinSalt и joinHash - соль и Argon2id хеш ключа подключения магазина,
// загруженные из server_meta при старте.
func NewNodesHandler(logger *slog.Logger, nodeStorage NodeStorage, jwtConfig JWTConfig,
	joinSalt []byte, joinHash string,
) *NodesHandler {
	return &NodesHandler{
		logger:    logger,
		storage:   nodeStorage,
		jwtConfig: jwtConfig,
		joinSalt:  joinSalt,
		joinHash:  joinHash,
	}
}

// Register обрабатывает POST /api/v1/nodes/register.
// Касса предъявляет имя и ключ подключения; сервер присваивает ей UUID
// ровно один раз и выдает JWT. Имя узла уникально: оно входит в векторные
// часы, и перерегистрация под тем же именем запрещена.
func (h *NodesHandler) Register(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req api.RegisterNodeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.ErrorContext(ctx, "failed to decode register request", slog.Any("error", err))
		sendError(h.logger, w, "invalid request body", http.StatusBadRequest)
		return
	}

	if err := validation.ValidateNodeName(req.Name); err != nil {
		h.logger.WarnContext(ctx, "invalid node name",
			slog.String("name", req.Name),
			slog.Any("error", err))
		sendError(h.logger, w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := crypto.VerifyJoinKey(req.JoinKey, h.joinSalt, h.joinHash); err != nil {
		h.logger.WarnContext(ctx, "join key rejected", slog.String("name", req.Name))
		sendError(h.logger, w, "invalid join key", http.StatusUnauthorized)
		return
	}

	now := time.Now().UTC()
	node := &models.Node{
		ID:           uuid.New().String(),
		Name:         req.Name,
		RegisteredAt: now,
		LastSeenAt:   now,
	}

	if err := h.storage.CreateNode(ctx, node); err != nil {
		if errors.Is(err, storage.ErrNodeAlreadyExists) {
			h.logger.WarnContext(ctx, "node already registered", slog.String("name", req.Name))
			sendError(h.logger, w, "node name already taken", http.StatusConflict)
			return
		}
		h.logger.ErrorContext(ctx, "failed to create node", slog.Any("error", err))
		sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}

	token, expiresIn, err := GenerateAccessToken(h.jwtConfig, node.ID, node.Name)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to generate token", slog.Any("error", err))
		sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}

	h.logger.InfoContext(ctx, "node registered successfully",
		slog.String("name", node.Name),
		slog.String("node_id", node.ID))

	sendJSON(h.logger, w, api.RegisterNodeResponse{
		NodeID:    node.ID,
		Token:     token,
		ExpiresIn: expiresIn,
	}, http.StatusCreated)
}

// List обрабатывает GET /api/v1/nodes.
// Возвращает все зарегистрированные кассы в порядке регистрации.
func (h *NodesHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if _, ok := GetNodeID(ctx); !ok {
		h.logger.Error("node id not found in context")
		sendError(h.logger, w, "unauthorized", http.StatusUnauthorized)
		return
	}

	nodes, err := h.storage.ListNodes(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to list nodes", slog.Any("error", err))
		sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}

	apiNodes := make([]api.Node, 0, len(nodes))
	for i := range nodes {
		apiNodes = append(apiNodes, api.Node{
			RegisteredAt: nodes[i].RegisteredAt,
			LastSeenAt:   nodes[i].LastSeenAt,
			ID:           nodes[i].ID,
			Name:         nodes[i].Name,
		})
	}

	sendJSON(h.logger, w, api.NodeListResponse{Nodes: apiNodes}, http.StatusOK)
}
