package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/vaultsync/internal/models"
	"github.com/iudanet/vaultsync/internal/server/storage"
)

func TestStorage_CreateNode(t *testing.T) {
	ctx := context.Background()
	s, cleanup := setupTestStorage(t)
	defer cleanup()

	node := &models.Node{
		RegisteredAt: time.Now().UTC(),
		LastSeenAt:   time.Now().UTC(),
		ID:           uuid.New().String(),
		Name:         "kassa-1",
	}

	err := s.CreateNode(ctx, node)
	require.NoError(t, err)

	got, err := s.GetNode(ctx, node.ID)
	require.NoError(t, err)
	assert.Equal(t, node.ID, got.ID)
	assert.Equal(t, "kassa-1", got.Name)
	assert.Equal(t, node.RegisteredAt.Unix(), got.RegisteredAt.Unix())
}

func TestStorage_CreateNode_DuplicateName(t *testing.T) {
	ctx := context.Background()
	s, cleanup := setupTestStorage(t)
	defer cleanup()

	first := &models.Node{
		RegisteredAt: time.Now().UTC(),
		LastSeenAt:   time.Now().UTC(),
		ID:           uuid.New().String(),
		Name:         "kassa-1",
	}
	require.NoError(t, s.CreateNode(ctx, first))

	// Имя узла уникально, оно входит в векторные часы
	second := &models.Node{
		RegisteredAt: time.Now().UTC(),
		LastSeenAt:   time.Now().UTC(),
		ID:           uuid.New().String(),
		Name:         "kassa-1",
	}
	err := s.CreateNode(ctx, second)

	assert.ErrorIs(t, err, storage.ErrNodeAlreadyExists)
}

func TestStorage_GetNode_NotFound(t *testing.T) {
	ctx := context.Background()
	s, cleanup := setupTestStorage(t)
	defer cleanup()

	_, err := s.GetNode(ctx, uuid.New().String())

	assert.ErrorIs(t, err, storage.ErrNodeNotFound)
}

func TestStorage_TouchNode(t *testing.T) {
	ctx := context.Background()
	s, cleanup := setupTestStorage(t)
	defer cleanup()

	node := &models.Node{
		RegisteredAt: time.Now().UTC().Add(-time.Hour),
		LastSeenAt:   time.Now().UTC().Add(-time.Hour),
		ID:           uuid.New().String(),
		Name:         "kassa-1",
	}
	require.NoError(t, s.CreateNode(ctx, node))

	seenAt := time.Now().UTC()
	err := s.TouchNode(ctx, node.ID, seenAt)
	require.NoError(t, err)

	got, err := s.GetNode(ctx, node.ID)
	require.NoError(t, err)
	assert.Equal(t, seenAt.Unix(), got.LastSeenAt.Unix())

	err = s.TouchNode(ctx, uuid.New().String(), seenAt)
	assert.ErrorIs(t, err, storage.ErrNodeNotFound)
}

func TestStorage_ListNodes(t *testing.T) {
	ctx := context.Background()
	s, cleanup := setupTestStorage(t)
	defer cleanup()

	count, err := s.CountNodes(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, count)

	names := []string{"kassa-1", "kassa-2", "sklad-1"}
	for i, name := range names {
		node := &models.Node{
			RegisteredAt: time.Now().UTC().Add(time.Duration(i) * time.Hour),
			LastSeenAt:   time.Now().UTC(),
			ID:           uuid.New().String(),
			Name:         name,
		}
		require.NoError(t, s.CreateNode(ctx, node))
	}

	nodes, err := s.ListNodes(ctx)
	require.NoError(t, err)
	require.Len(t, nodes, 3)
	assert.Equal(t, "kassa-1", nodes[0].Name)
	assert.Equal(t, "sklad-1", nodes[2].Name)

	count, err = s.CountNodes(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, count)
}

func TestStorage_Meta(t *testing.T) {
	ctx := context.Background()
	s, cleanup := setupTestStorage(t)
	defer cleanup()

	_, err := s.GetMeta(ctx, storage.MetaServerNodeID)
	assert.ErrorIs(t, err, storage.ErrMetaNotFound)

	require.NoError(t, s.SetMeta(ctx, storage.MetaServerNodeID, "server-uuid"))

	value, err := s.GetMeta(ctx, storage.MetaServerNodeID)
	require.NoError(t, err)
	assert.Equal(t, "server-uuid", value)

	// Перезапись значения
	require.NoError(t, s.SetMeta(ctx, storage.MetaServerNodeID, "rotated"))

	value, err = s.GetMeta(ctx, storage.MetaServerNodeID)
	require.NoError(t, err)
	assert.Equal(t, "rotated", value)
}
