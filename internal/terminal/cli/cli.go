package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/iudanet/vaultsync/internal/terminal/iocli"
	"github.com/iudanet/vaultsync/internal/terminal/storage"
	"github.com/iudanet/vaultsync/internal/terminal/sync"

	httpapi "github.com/iudanet/vaultsync/internal/terminal/api"
)

type Cli struct {
	apiClient    *httpapi.Client
	syncService  sync.Service
	queue        storage.QueueStorage
	metadata     storage.MetadataStorage
	io           iocli.IO
	syncInterval time.Duration
}

// New собирает CLI кассы. syncService может быть nil, пока касса не
// зарегистрирована: команды, которым он нужен, сообщат об этом сами.
func New(apiClient *httpapi.Client, syncService sync.Service, queue storage.QueueStorage,
	metadata storage.MetadataStorage, io iocli.IO, syncInterval time.Duration,
) *Cli {
	return &Cli{
		apiClient:    apiClient,
		syncService:  syncService,
		queue:        queue,
		metadata:     metadata,
		io:           io,
		syncInterval: syncInterval,
	}
}

// requireService возвращает сервис синхронизации или понятную ошибку,
// если касса еще не проходила регистрацию.
func (c *Cli) requireService() (sync.Service, error) {
	if c.syncService == nil {
		return nil, fmt.Errorf("terminal is not registered. Please run 'vaultsync-terminal register' first")
	}
	return c.syncService, nil
}

// requireIdentity возвращает личность кассы для запросов к серверу.
// Просроченный токен - отдельная ошибка: оператору нужна перерегистрация,
// а не повтор команды.
func (c *Cli) requireIdentity(ctx context.Context) (*storage.Identity, error) {
	identity, err := c.metadata.Identity(ctx)
	if err != nil {
		if errors.Is(err, storage.ErrNotRegistered) {
			return nil, fmt.Errorf("terminal is not registered. Please run 'vaultsync-terminal register' first")
		}
		return nil, fmt.Errorf("failed to load terminal identity: %w", err)
	}
	if time.Now().After(identity.ExpiresAt) {
		return nil, fmt.Errorf("node token has expired. Please run 'vaultsync-terminal register' again")
	}
	return identity, nil
}

func PrintUsage() {
	fmt.Print(usageTemplate)
}
