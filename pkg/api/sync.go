package api

import (
	"encoding/json"
	"time"
)

// ChangeRecord представляет одну запись изменения в протоколе обмена
type ChangeRecord struct {
	Timestamp       time.Time         `json:"timestamp"`                 // физическое время создания (информационное)
	Data            json.RawMessage   `json:"data"`                      // сериализованное состояние записи
	VectorTimestamp map[string]uint64 `json:"vector_timestamp"`          // векторные часы записи
	RecordID        string            `json:"record_id"`                 // UUID изменяемой записи
	RecordType      string            `json:"record_type"`               // тип записи
	Operation       string            `json:"operation"`                 // insert, update, delete
	NodeID          string            `json:"node_id,omitempty"`         // узел, создавший изменение
	Checksum        string            `json:"checksum,omitempty"`        // SHA256 контрольная сумма (опциональная)
	SequenceNumber  uint64            `json:"sequence_number,omitempty"` // порядковый номер узла слияния; присваивается сервером
}

// RecordStatus константы для статусов применения записи
const (
	RecordStatusApplied    = "applied"    // запись применена
	RecordStatusStale      = "stale"      // запись устарела, состояние не изменено
	RecordStatusConflicted = "conflicted" // запись конкурентна, создан конфликт
	RecordStatusRejected   = "rejected"   // запись не прошла валидацию
)

// PushRequest представляет пакет изменений от кассы серверу.
// Записи идут в порядке их создания на кассе.
type PushRequest struct {
	Records []ChangeRecord `json:"records"`
	NodeID  string         `json:"node_id"`
}

// RecordResult представляет результат применения одной записи
type RecordResult struct {
	RecordID       string `json:"record_id"`                 // UUID записи из запроса
	Status         string `json:"status"`                    // applied, stale, conflicted, rejected
	ConflictID     string `json:"conflict_id,omitempty"`     // UUID конфликта при статусе conflicted
	Error          string `json:"error,omitempty"`           // причина при статусе rejected
	SequenceNumber uint64 `json:"sequence_number,omitempty"` // присвоенный номер при статусе applied
}

// PushResponse представляет ответ сервера на пакет изменений:
// по одному результату на каждую запись запроса, в том же порядке.
type PushResponse struct {
	Results []RecordResult `json:"results"`
}

// PullResponse представляет изменения сервера после заданного порядкового номера.
// Записи отсортированы по возрастанию sequence_number.
type PullResponse struct {
	Records        []ChangeRecord `json:"records"`
	LatestSequence uint64         `json:"latest_sequence"` // старший присвоенный номер на сервере
}

// SyncStatusResponse представляет сводку состояния синхронизации на сервере
type SyncStatusResponse struct {
	ServerNodeID     string `json:"server_node_id"`    // идентификатор узла сервера
	LatestSequence   uint64 `json:"latest_sequence"`   // старший присвоенный порядковый номер
	PendingConflicts int    `json:"pending_conflicts"` // открытые конфликты одновременного изменения
	RegisteredNodes  int    `json:"registered_nodes"`  // зарегистрированные кассы
}
