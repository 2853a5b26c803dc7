package boltdb

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/vaultsync/internal/terminal/storage"
)

func TestStore_Identity_Roundtrip(t *testing.T) {
	ctx := context.Background()
	store := setupTestStore(t)

	identity := &storage.Identity{
		RegisteredAt: time.Now().UTC().Truncate(time.Second),
		ExpiresAt:    time.Now().UTC().Add(24 * time.Hour).Truncate(time.Second),
		NodeID:       uuid.New().String(),
		NodeName:     "kassa-1",
		Token:        "jwt-token-value",
	}

	require.NoError(t, store.SaveIdentity(ctx, identity))

	got, err := store.Identity(ctx)
	require.NoError(t, err)
	assert.Equal(t, identity.NodeID, got.NodeID)
	assert.Equal(t, identity.NodeName, got.NodeName)
	assert.Equal(t, identity.Token, got.Token)
	assert.True(t, identity.ExpiresAt.Equal(got.ExpiresAt))
	assert.True(t, identity.RegisteredAt.Equal(got.RegisteredAt))
}

func TestStore_Identity_NotRegistered(t *testing.T) {
	ctx := context.Background()
	store := setupTestStore(t)

	_, err := store.Identity(ctx)

	assert.ErrorIs(t, err, storage.ErrNotRegistered)
}

func TestStore_Identity_TokenRefreshOverwrites(t *testing.T) {
	ctx := context.Background()
	store := setupTestStore(t)
	nodeID := uuid.New().String()

	first := &storage.Identity{
		NodeID:    nodeID,
		NodeName:  "kassa-1",
		Token:     "old-token",
		ExpiresAt: time.Now().UTC(),
	}
	require.NoError(t, store.SaveIdentity(ctx, first))

	// Перерегистрация обновляет токен, но NodeID кассы остается прежним
	second := &storage.Identity{
		NodeID:    nodeID,
		NodeName:  "kassa-1",
		Token:     "new-token",
		ExpiresAt: time.Now().UTC().Add(24 * time.Hour),
	}
	require.NoError(t, store.SaveIdentity(ctx, second))

	got, err := store.Identity(ctx)
	require.NoError(t, err)
	assert.Equal(t, "new-token", got.Token)
	assert.Equal(t, nodeID, got.NodeID)
}

func TestStore_Watermark(t *testing.T) {
	ctx := context.Background()
	store := setupTestStore(t)

	// До первой синхронизации метка равна нулю
	watermark, err := store.Watermark(ctx)
	require.NoError(t, err)
	assert.Zero(t, watermark)

	require.NoError(t, store.SaveWatermark(ctx, 7))

	watermark, err = store.Watermark(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint64(7), watermark)
}

func TestStore_LastSyncAt(t *testing.T) {
	ctx := context.Background()
	store := setupTestStore(t)

	// До первой синхронизации время нулевое
	lastSync, err := store.LastSyncAt(ctx)
	require.NoError(t, err)
	assert.True(t, lastSync.IsZero())

	syncedAt := time.Now().UTC().Truncate(time.Second)
	require.NoError(t, store.SaveLastSyncAt(ctx, syncedAt))

	lastSync, err = store.LastSyncAt(ctx)
	require.NoError(t, err)
	assert.True(t, syncedAt.Equal(lastSync))
}
