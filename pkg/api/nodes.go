package api

import "time"

// RegisterNodeRequest представляет запрос на регистрацию новой кассы
type RegisterNodeRequest struct {
	Name    string `json:"name"`     // человекочитаемое имя узла (например, "kassa-1")
	JoinKey string `json:"join_key"` // ключ подключения магазина
}

// RegisterNodeResponse представляет ответ на успешную регистрацию.
// NodeID присваивается сервером ровно один раз; касса сохраняет его
// и использует как свой ключ в векторных часах.
type RegisterNodeResponse struct {
	NodeID    string `json:"node_id"`    // UUID, присвоенный узлу
	Token     string `json:"token"`      // JWT для последующих запросов
	ExpiresIn int64  `json:"expires_in"` // время жизни токена в секундах
}

// Node представляет зарегистрированную кассу
type Node struct {
	RegisteredAt time.Time `json:"registered_at"` // время регистрации
	LastSeenAt   time.Time `json:"last_seen_at"`  // время последней синхронизации
	ID           string    `json:"id"`            // UUID узла
	Name         string    `json:"name"`          // человекочитаемое имя
}

// NodeListResponse представляет список зарегистрированных касс
type NodeListResponse struct {
	Nodes []Node `json:"nodes"`
}

// ErrorResponse представляет ответ с ошибкой
type ErrorResponse struct {
	Error   string `json:"error"`             // описание ошибки
	Message string `json:"message,omitempty"` // дополнительное сообщение
}
