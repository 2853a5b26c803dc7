package models

import "time"

// Node представляет зарегистрированный узел: кассу или сервер.
// Идентификатор узла присваивается сервером один раз при регистрации
// и становится ключом кассы в векторных часах.
type Node struct {
	RegisteredAt time.Time `json:"registered_at"` // RegisteredAt время регистрации узла
	LastSeenAt   time.Time `json:"last_seen_at"`  // LastSeenAt время последней синхронизации
	ID           string    `json:"id"`            // ID UUID узла
	Name         string    `json:"name"`          // Name человекочитаемое имя (например, "касса-1")
}
