package models

import (
	"encoding/json"
	"time"

	"github.com/iudanet/vaultsync/internal/vclock"
)

// Operation представляет тип операции над записью.
type Operation string

// Operation константы для типов операций
const (
	OperationInsert Operation = "insert"
	OperationUpdate Operation = "update"
	OperationDelete Operation = "delete"
)

// RecordType представляет тип синхронизируемой записи.
type RecordType string

// RecordType константы для типов записей
const (
	RecordTypeProduct       RecordType = "product"
	RecordTypeInventoryItem RecordType = "inventory_item"
	RecordTypePriceInfo     RecordType = "price_info"
	RecordTypeTransaction   RecordType = "transaction"
	RecordTypeCustomer      RecordType = "customer"
)

// AppendStatus представляет результат применения записи к журналу изменений.
type AppendStatus string

// AppendStatus константы для результатов применения
const (
	// StatusApplied запись причинно новее известного состояния и применена
	StatusApplied AppendStatus = "applied"
	// StatusStale запись уже известна или устарела, состояние не изменено
	StatusStale AppendStatus = "stale"
	// StatusConflicted запись конкурентна известному состоянию, создан конфликт
	StatusConflicted AppendStatus = "conflicted"
	// StatusRejected запись не прошла валидацию и не была применена
	StatusRejected AppendStatus = "rejected"
)

// ChangeRecord представляет одно изменение одной записи.
// Это единица обмена между кассами и сервером: журнал изменений хранит
// такие записи в порядке применения, очередь отправки - в порядке создания.
type ChangeRecord struct {
	Timestamp  time.Time       `json:"timestamp"`                 // Timestamp физическое время создания (информационное, не участвует в упорядочивании)
	Payload    json.RawMessage `json:"data"`                      // Payload сериализованное состояние записи (JSON); для delete может быть пустым
	Clock      vclock.Clock    `json:"vector_timestamp"`          // Clock векторные часы записи на момент изменения
	RecordID   string          `json:"record_id"`                 // RecordID UUID изменяемой записи
	RecordType RecordType      `json:"record_type"`               // RecordType тип записи (product, inventory_item, ...)
	Operation  Operation       `json:"operation"`                 // Operation тип операции (insert, update, delete)
	NodeID     string          `json:"node_id"`                   // NodeID идентификатор узла, создавшего изменение
	Checksum   string          `json:"checksum,omitempty"`        // Checksum sha256 контрольная сумма записи (опциональная)
	Sequence   uint64          `json:"sequence_number,omitempty"` // Sequence порядковый номер, присвоенный узлом слияния; 0 = не присвоен
}

// Clone создает глубокую копию записи изменения.
func (r *ChangeRecord) Clone() *ChangeRecord {
	payload := make(json.RawMessage, len(r.Payload))
	copy(payload, r.Payload)

	return &ChangeRecord{
		Timestamp:  r.Timestamp,
		Payload:    payload,
		Clock:      r.Clock.Clone(),
		RecordID:   r.RecordID,
		RecordType: r.RecordType,
		Operation:  r.Operation,
		NodeID:     r.NodeID,
		Checksum:   r.Checksum,
		Sequence:   r.Sequence,
	}
}

// ResourceKey возвращает ключ ресурса, к которому относится запись.
// Записи с одинаковым ключом изменяют одно и то же состояние и
// упорядочиваются векторными часами между собой.
func (r *ChangeRecord) ResourceKey() string {
	return string(r.RecordType) + "/" + r.RecordID
}

// ValidOperation сообщает, известен ли тип операции.
func ValidOperation(op Operation) bool {
	switch op {
	case OperationInsert, OperationUpdate, OperationDelete:
		return true
	default:
		return false
	}
}

// ValidRecordType сообщает, известен ли тип записи.
func ValidRecordType(rt RecordType) bool {
	switch rt {
	case RecordTypeProduct, RecordTypeInventoryItem, RecordTypePriceInfo,
		RecordTypeTransaction, RecordTypeCustomer:
		return true
	default:
		return false
	}
}
