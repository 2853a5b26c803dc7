package main

import (
	"context"
	"encoding/base64"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/iudanet/vaultsync/internal/changelog"
	"github.com/iudanet/vaultsync/internal/config"
	"github.com/iudanet/vaultsync/internal/crypto"
	"github.com/iudanet/vaultsync/internal/metrics"
	"github.com/iudanet/vaultsync/internal/models"
	"github.com/iudanet/vaultsync/internal/reconcile"
	"github.com/iudanet/vaultsync/internal/resolver"
	"github.com/iudanet/vaultsync/internal/server/handlers"
	"github.com/iudanet/vaultsync/internal/server/middleware"
	"github.com/iudanet/vaultsync/internal/server/storage"
	"github.com/iudanet/vaultsync/internal/server/storage/sqlite"
	"golang.org/x/sync/errgroup"
)

var (
	// Version information set via ldflags during build
	Version   = "dev"
	BuildDate = "unknown"
	GitCommit = "unknown"
)

// registerRateLimit - попыток регистрации с одного IP за окно лимитера.
// Регистрация проверяет ключ подключения, перебор должен упираться в лимит.
const registerRateLimit = 5

func main() {
	// Parse flags
	showVersion := flag.Bool("version", false, "Show version information")
	configPath := flag.String("config", "config.yaml", "Path to configuration file")
	flag.Parse()

	// Show version and exit if requested
	if *showVersion {
		printVersion()
		os.Exit(0)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	if err := run(cfg, logger); err != nil {
		logger.Error("server stopped with error", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, err := sqlite.New(ctx, cfg.Storage.DatabasePath)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			logger.Error("failed to close database", "error", err)
		}
	}()

	serverNodeID, err := bootstrapIdentity(ctx, store, logger)
	if err != nil {
		return err
	}
	if err := registerServerNode(ctx, store, serverNodeID, cfg.Server.NodeName); err != nil {
		return fmt.Errorf("failed to register server node: %w", err)
	}
	joinSalt, joinHash, err := bootstrapJoinKey(ctx, store, cfg.Auth.JoinKey, logger)
	if err != nil {
		return err
	}

	engine := changelog.New(store, serverNodeID, logger)
	res := resolver.New(store, engine, serverNodeID, logger)
	recon := reconcile.New(store, logger)

	jwtCfg := handlers.JWTConfig{
		Secret:   []byte(cfg.Auth.JWTSecret),
		TokenTTL: cfg.Auth.TokenTTL.Std(),
	}

	nodesHandler := handlers.NewNodesHandler(logger, store, jwtCfg, joinSalt, joinHash)
	syncHandler := handlers.NewSyncHandler(logger, engine, store, serverNodeID, cfg.Sync.MaxBatchSize)
	conflictsHandler := handlers.NewConflictsHandler(logger, res, store)
	auditHandler := handlers.NewAuditHandler(logger, recon, store)
	healthHandler := handlers.NewHealthHandler(logger, store, Version)

	apiLimiter := middleware.NewRateLimiter(cfg.Server.RateLimit, cfg.Server.RateWindow.Std(), logger)
	defer apiLimiter.Stop()
	registerLimiter := middleware.NewRateLimiter(registerRateLimit, cfg.Server.RateWindow.Std(), logger)
	defer registerLimiter.Stop()

	auth := middleware.AuthMiddleware(logger, jwtCfg)
	// Лимит по узлу применяется после аутентификации: до нее ключом
	// был бы IP, а за одним NAT может стоять весь магазин.
	limit := apiLimiter.Middleware(middleware.NodeKey)
	protected := func(h http.HandlerFunc) http.Handler {
		return auth(limit(h))
	}

	mux := http.NewServeMux()
	mux.Handle("POST /api/v1/nodes/register",
		registerLimiter.Middleware(middleware.ClientIPKey)(http.HandlerFunc(nodesHandler.Register)))
	mux.Handle("GET /api/v1/nodes", protected(nodesHandler.List))
	mux.Handle("POST /api/v1/sync", protected(syncHandler.HandlePush))
	mux.Handle("GET /api/v1/sync", protected(syncHandler.HandlePull))
	mux.Handle("GET /api/v1/sync/status", protected(syncHandler.HandleStatus))
	mux.Handle("GET /api/v1/conflicts", protected(conflictsHandler.List))
	mux.Handle("POST /api/v1/conflicts/{id}/resolve", protected(conflictsHandler.Resolve))
	mux.Handle("POST /api/v1/audit/blind-count", protected(auditHandler.BlindCount))
	mux.Handle("GET /api/v1/audit/discrepancies", protected(auditHandler.ListDiscrepancies))
	mux.Handle("POST /api/v1/audit/discrepancies/{id}/resolve", protected(auditHandler.ResolveDiscrepancy))
	mux.Handle("GET /api/v1/health", http.HandlerFunc(healthHandler.Health))
	mux.Handle("GET /metrics", metrics.Handler())

	handler := middleware.RecoveryMiddleware(logger)(middleware.LoggingMiddleware(logger)(mux))

	srv := &http.Server{
		Addr:              cfg.Server.ListenAddr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	logger.Info("VaultSync server starting",
		"version", Version,
		"listen_addr", cfg.Server.ListenAddr,
		"node_id", serverNodeID,
		"node_name", cfg.Server.NodeName,
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server failed: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		return runReconcileSweep(gctx, recon, cfg.Reconcile.SweepInterval.Std(), logger)
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout.Std())
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

// bootstrapIdentity возвращает постоянный node_id сервера, генерируя его
// при первом запуске. Идентичность переживает рестарты: записи сервера
// в векторных часах иначе расщепились бы на новые узлы.
func bootstrapIdentity(ctx context.Context, store *sqlite.Storage, logger *slog.Logger) (string, error) {
	nodeID, err := store.GetMeta(ctx, storage.MetaServerNodeID)
	switch {
	case err == nil:
		return nodeID, nil
	case errors.Is(err, storage.ErrMetaNotFound):
	default:
		return "", fmt.Errorf("failed to load server node id: %w", err)
	}

	nodeID = uuid.New().String()
	if err := store.SetMeta(ctx, storage.MetaServerNodeID, nodeID); err != nil {
		return "", fmt.Errorf("failed to persist server node id: %w", err)
	}

	logger.Info("generated server node id", "node_id", nodeID)
	return nodeID, nil
}

// registerServerNode заносит сервер в реестр узлов под именем из конфига.
// Сервер участвует в векторных часах наравне с кассами, и команда nodes
// на кассе показывает его вместе с остальными.
func registerServerNode(ctx context.Context, store *sqlite.Storage, nodeID, name string) error {
	_, err := store.GetNode(ctx, nodeID)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, storage.ErrNodeNotFound):
	default:
		return fmt.Errorf("failed to look up server node: %w", err)
	}

	now := time.Now().UTC()
	return store.CreateNode(ctx, &models.Node{
		ID:           nodeID,
		Name:         name,
		RegisteredAt: now,
		LastSeenAt:   now,
	})
}

// bootstrapJoinKey загружает соль и Argon2id хеш ключа подключения из
// server_meta. При первом запуске или смене ключа в конфиге хеш
// пересчитывается: конфиг - источник истины, а в базе и ее резервных
// копиях ключ хранится только в виде хеша.
func bootstrapJoinKey(ctx context.Context, store *sqlite.Storage, joinKey string, logger *slog.Logger) ([]byte, string, error) {
	saltB64, saltErr := store.GetMeta(ctx, storage.MetaJoinKeySalt)
	if saltErr != nil && !errors.Is(saltErr, storage.ErrMetaNotFound) {
		return nil, "", fmt.Errorf("failed to load join key salt: %w", saltErr)
	}
	hash, hashErr := store.GetMeta(ctx, storage.MetaJoinKeyHash)
	if hashErr != nil && !errors.Is(hashErr, storage.ErrMetaNotFound) {
		return nil, "", fmt.Errorf("failed to load join key hash: %w", hashErr)
	}

	if saltErr == nil && hashErr == nil {
		salt, err := base64.StdEncoding.DecodeString(saltB64)
		if err != nil {
			return nil, "", fmt.Errorf("failed to decode join key salt: %w", err)
		}
		if err := crypto.VerifyJoinKey(joinKey, salt, hash); err == nil {
			return salt, hash, nil
		}
		logger.Warn("join key in config does not match the stored hash, rotating")
	}

	salt, err := crypto.GenerateSalt()
	if err != nil {
		return nil, "", err
	}
	hash, err = crypto.HashJoinKey(joinKey, salt)
	if err != nil {
		return nil, "", err
	}

	if err := store.SetMeta(ctx, storage.MetaJoinKeySalt, base64.StdEncoding.EncodeToString(salt)); err != nil {
		return nil, "", fmt.Errorf("failed to persist join key salt: %w", err)
	}
	if err := store.SetMeta(ctx, storage.MetaJoinKeyHash, hash); err != nil {
		return nil, "", fmt.Errorf("failed to persist join key hash: %w", err)
	}

	return salt, hash, nil
}

// runReconcileSweep периодически ищет аномалии в материализованном
// состоянии магазина. Нулевой интервал отключает фоновую сверку.
func runReconcileSweep(ctx context.Context, engine *reconcile.Engine, interval time.Duration, logger *slog.Logger) error {
	if interval <= 0 {
		logger.Info("reconciliation sweep disabled")
		return nil
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			// Сверка информационная, ее ошибка не роняет сервер
			if _, err := engine.DetectConflicts(ctx); err != nil {
				logger.Error("reconciliation sweep failed", "error", err)
			}
		}
	}
}

func printVersion() {
	fmt.Printf("VaultSync Server\n")
	fmt.Printf("Version:    %s\n", Version)
	fmt.Printf("Build Date: %s\n", BuildDate)
	fmt.Printf("Git Commit: %s\n", GitCommit)
}
