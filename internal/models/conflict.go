package models

import "time"

// ConflictType классифицирует обнаруженное расхождение данных.
type ConflictType string

// ConflictType константы для типов конфликтов
const (
	// ConflictTypeConcurrent две кассы независимо изменили одну запись
	ConflictTypeConcurrent ConflictType = "concurrent_modification"
	// ConflictTypeOversold продано больше, чем числится на остатке
	ConflictTypeOversold ConflictType = "oversold"
	// ConflictTypePriceMismatch зафиксированная цена расходится с актуальной
	ConflictTypePriceMismatch ConflictType = "price_mismatch"
	// ConflictTypeCreditAnomaly отрицательный кредит покупателя
	ConflictTypeCreditAnomaly ConflictType = "credit_anomaly"
	// ConflictTypeMiscount физический пересчет разошелся с учетным остатком
	ConflictTypeMiscount ConflictType = "physical_miscount"
)

// ResolutionStatus представляет статус жизненного цикла конфликта.
// Переходы односторонние: pending → resolved или pending → ignored.
type ResolutionStatus string

// ResolutionStatus константы
const (
	ResolutionPending  ResolutionStatus = "pending"
	ResolutionResolved ResolutionStatus = "resolved"
	ResolutionIgnored  ResolutionStatus = "ignored"
)

// Strategy представляет стратегию разрешения конфликта одновременного изменения.
type Strategy string

// Strategy константы
const (
	// StrategyLocalWins сохраненная локальная версия становится авторитетной
	StrategyLocalWins Strategy = "local_wins"
	// StrategyRemoteWins удаленная версия становится авторитетной
	StrategyRemoteWins Strategy = "remote_wins"
	// StrategyManual оператор предоставляет объединенное состояние вручную
	StrategyManual Strategy = "manual"
)

// Severity представляет серьезность расхождения при пересчете.
type Severity string

// Severity константы
const (
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

// SyncConflict представляет конфликт одновременного изменения одной записи
// двумя узлами. Хранит обе версии целиком: разрешение выбирает победителя
// или принимает объединенное состояние от оператора.
type SyncConflict struct {
	DetectedAt time.Time        `json:"detected_at"`           // DetectedAt время обнаружения конфликта
	ResolvedAt *time.Time       `json:"resolved_at,omitempty"` // ResolvedAt время разрешения; nil, пока конфликт открыт
	Local      ChangeRecord     `json:"local_record"`          // Local версия, уже принятая этим узлом
	Remote     ChangeRecord     `json:"remote_record"`         // Remote конкурентная версия, полученная при синхронизации
	ID         string           `json:"id"`                    // ID UUID конфликта
	RecordID   string           `json:"record_id"`             // RecordID UUID конфликтующей записи
	RecordType RecordType       `json:"record_type"`           // RecordType тип конфликтующей записи
	Status     ResolutionStatus `json:"status"`                // Status текущий статус (pending/resolved/ignored)
	Strategy   Strategy         `json:"strategy,omitempty"`    // Strategy примененная стратегия; заполняется один раз при разрешении
	ResolvedBy string           `json:"resolved_by,omitempty"` // ResolvedBy узел, разрешивший конфликт
}

// Discrepancy представляет расхождение, найденное сверкой остатков:
// либо результат слепого пересчета, либо аномалия фоновой проверки.
type Discrepancy struct {
	CreatedAt   time.Time        `json:"created_at"`             // CreatedAt время фиксации расхождения
	ResolvedAt  *time.Time       `json:"resolved_at,omitempty"`  // ResolvedAt время разрешения; nil, пока открыто
	ID          string           `json:"id"`                     // ID UUID расхождения
	SessionID   string           `json:"session_id,omitempty"`   // SessionID UUID сессии пересчета; пустой для фоновых проверок
	ProductUUID string           `json:"product_uuid,omitempty"` // ProductUUID товар, к которому относится расхождение
	Condition   Condition        `json:"condition,omitempty"`    // Condition состояние товара
	Type        ConflictType     `json:"conflict_type"`          // Type классификация расхождения
	Severity    Severity         `json:"severity"`               // Severity серьезность, вычисленная при фиксации
	Status      ResolutionStatus `json:"status"`                 // Status текущий статус (pending/resolved/ignored)
	Notes       string           `json:"notes,omitempty"`        // Notes заметки оператора; заполняются один раз при разрешении
	ResolvedBy  string           `json:"resolved_by,omitempty"`  // ResolvedBy узел, разрешивший расхождение
	Expected    int64            `json:"expected"`               // Expected учетное количество на момент фиксации; не пересчитывается
	Actual      int64            `json:"actual"`                 // Actual фактическое количество
	Variance    int64            `json:"variance"`               // Variance разница actual - expected
}

// AuditSession представляет одну сессию слепого пересчета остатков.
type AuditSession struct {
	SubmittedAt   time.Time `json:"submitted_at"`  // SubmittedAt время сдачи пересчета
	ID            string    `json:"id"`            // ID UUID сессии
	LocationTag   string    `json:"location_tag"`  // LocationTag метка места пересчета (стеллаж, витрина)
	NodeID        string    `json:"node_id"`       // NodeID узел, проводивший пересчет
	ItemsCounted  int       `json:"items_counted"` // ItemsCounted сколько позиций было посчитано
	Discrepancies int       `json:"discrepancies"` // Discrepancies сколько позиций разошлось с учетом
}

// ValidStrategy сообщает, известна ли стратегия разрешения.
func ValidStrategy(s Strategy) bool {
	switch s {
	case StrategyLocalWins, StrategyRemoteWins, StrategyManual:
		return true
	default:
		return false
	}
}

// TerminalResolution сообщает, допустим ли статус как решение оператора
// по расхождению: разрешить или проигнорировать. Pending решением не является.
func TerminalResolution(s ResolutionStatus) bool {
	return s == ResolutionResolved || s == ResolutionIgnored
}
