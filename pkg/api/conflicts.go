package api

import (
	"encoding/json"
	"time"
)

// Conflict представляет конфликт одновременного изменения в протоколе обмена
type Conflict struct {
	DetectedAt time.Time    `json:"detected_at"`           // время обнаружения
	ResolvedAt *time.Time   `json:"resolved_at,omitempty"` // время разрешения; null, пока конфликт открыт
	Local      ChangeRecord `json:"local_record"`          // версия, принятая узлом ранее
	Remote     ChangeRecord `json:"remote_record"`         // конкурентная версия
	ID         string       `json:"id"`                    // UUID конфликта
	RecordID   string       `json:"record_id"`             // UUID конфликтующей записи
	RecordType string       `json:"record_type"`           // тип конфликтующей записи
	Status     string       `json:"status"`                // pending, resolved, ignored
	Strategy   string       `json:"strategy,omitempty"`    // примененная стратегия
	ResolvedBy string       `json:"resolved_by,omitempty"` // узел, разрешивший конфликт
}

// ConflictListResponse представляет список конфликтов
type ConflictListResponse struct {
	Conflicts []Conflict `json:"conflicts"`
}

// ResolveConflictRequest представляет запрос на разрешение конфликта
type ResolveConflictRequest struct {
	MergedData json.RawMessage `json:"merged_data,omitempty"` // объединенное состояние для стратегии manual
	Resolution string          `json:"resolution"`            // local_wins, remote_wins, manual
}

// ResolveConflictResponse представляет результат разрешения конфликта.
// Winner - запись, ставшая авторитетной; ее часы доминируют над обеими версиями.
type ResolveConflictResponse struct {
	Winner     ChangeRecord `json:"winner"`
	ConflictID string       `json:"conflict_id"`
	Status     string       `json:"status"`
}
