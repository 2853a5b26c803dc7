package storage

import "context"

// Server metadata keys
const (
	// MetaServerNodeID stable server identity, generated on first start
	MetaServerNodeID = "server_node_id"

	// MetaJoinKeySalt salt of the terminal join key hash
	MetaJoinKeySalt = "join_key_salt"

	// MetaJoinKeyHash argon2id hash of the terminal join key
	MetaJoinKeyHash = "join_key_hash"
)

// MetaStorage defines interface for server metadata persistence
type MetaStorage interface {
	// GetMeta retrieves a metadata value by key.
	// Returns ErrMetaNotFound if key doesn't exist.
	GetMeta(ctx context.Context, key string) (string, error)

	// SetMeta creates or overwrites a metadata value
	SetMeta(ctx context.Context, key, value string) error
}
