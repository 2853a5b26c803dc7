package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/iudanet/vaultsync/internal/changelog"
	"github.com/iudanet/vaultsync/internal/resolver"
	"github.com/iudanet/vaultsync/internal/terminal/api"
	"github.com/iudanet/vaultsync/internal/terminal/cli"
	"github.com/iudanet/vaultsync/internal/terminal/iocli"
	"github.com/iudanet/vaultsync/internal/terminal/storage"
	"github.com/iudanet/vaultsync/internal/terminal/storage/boltdb"
	"github.com/iudanet/vaultsync/internal/terminal/sync"
)

var (
	// Version information set via ldflags during build
	Version   = "dev"
	BuildDate = "unknown"
	GitCommit = "unknown"
)

func main() {
	// Глобальные флаги
	showVersion := flag.Bool("version", false, "Show version information")
	serverURL := flag.String("server", "http://localhost:8080", "Store server URL")
	dbPath := flag.String("db", "vaultsync-terminal.db", "Path to local database")
	syncInterval := flag.Duration("sync-interval", 30*time.Second, "Background sync interval for 'run'")

	flag.Parse()

	// Show version and exit if requested
	if *showVersion {
		printVersion()
		os.Exit(0)
	}

	// Получаем команду
	args := flag.Args()
	if len(args) == 0 {
		cli.PrintUsage()
		os.Exit(1)
	}
	command := args[0]

	// Сигналы останавливают фоновую синхронизацию и прерывают длинные запросы
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	// Открываем локальное хранилище кассы
	store, err := boltdb.New(*dbPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open database: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		if err := store.Close(); err != nil {
			logger.Error("failed to close database", "error", err)
		}
	}()

	apiClient := api.NewClient(*serverURL)

	// Журнал изменений и сервис синхронизации требуют NodeID, который
	// сервер присваивает при регистрации. До регистрации доступны только
	// команды register и status.
	var syncService sync.Service
	identity, err := store.Identity(ctx)
	switch {
	case err == nil:
		engine := changelog.New(store, identity.NodeID, logger)
		res := resolver.New(store, engine, identity.NodeID, logger)
		syncService = sync.NewService(apiClient, store, store, store, engine, res, logger)
	case errors.Is(err, storage.ErrNotRegistered):
		// Касса еще не зарегистрирована
	default:
		fmt.Fprintf(os.Stderr, "Failed to load terminal identity: %v\n", err)
		os.Exit(1)
	}

	c := cli.New(apiClient, syncService, store, store, iocli.NewStdio(), *syncInterval)
	c.Run(ctx, command, args[1:])
}

func printVersion() {
	fmt.Printf("VaultSync Terminal\n")
	fmt.Printf("Version:    %s\n", Version)
	fmt.Printf("Build Date: %s\n", BuildDate)
	fmt.Printf("Git Commit: %s\n", GitCommit)
}
