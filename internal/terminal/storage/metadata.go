package storage

import (
	"context"
	"time"
)

// Identity представляет личность кассы, выданную сервером при регистрации.
// NodeID присваивается ровно один раз и никогда не пересчитывается:
// он входит в векторные часы всех записей кассы.
type Identity struct {
	RegisteredAt time.Time `json:"registered_at"` // RegisteredAt время регистрации
	ExpiresAt    time.Time `json:"expires_at"`    // ExpiresAt срок действия токена
	NodeID       string    `json:"node_id"`       // NodeID UUID узла, присвоенный сервером
	NodeName     string    `json:"node_name"`     // NodeName имя кассы, выбранное при регистрации
	Token        string    `json:"token"`         // Token JWT для запросов к серверу
}

// MetadataStorage определяет интерфейс служебных данных кассы:
// личность узла, водяная метка pull и время последней синхронизации.
type MetadataStorage interface {
	// SaveIdentity сохраняет личность кассы.
	SaveIdentity(ctx context.Context, identity *Identity) error

	// Identity возвращает сохраненную личность кассы.
	// Возвращает ErrNotRegistered, если касса не регистрировалась.
	Identity(ctx context.Context) (*Identity, error)

	// SaveWatermark сохраняет водяную метку pull: старший порядковый
	// номер сервера, до которого все записи применены локально.
	SaveWatermark(ctx context.Context, seq uint64) error

	// Watermark возвращает водяную метку pull.
	// Возвращает 0, если синхронизация еще не выполнялась.
	Watermark(ctx context.Context) (uint64, error)

	// SaveLastSyncAt сохраняет время последнего успешного цикла синхронизации.
	SaveLastSyncAt(ctx context.Context, t time.Time) error

	// LastSyncAt возвращает время последнего успешного цикла.
	// Возвращает нулевое время, если синхронизация еще не выполнялась.
	LastSyncAt(ctx context.Context) (time.Time, error)
}
