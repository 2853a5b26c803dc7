package api

import "time"

// BlindCountItem представляет одну посчитанную позицию.
// Кассир вводит только фактическое количество: учетный остаток
// ему не показывается, чтобы не влиять на результат.
type BlindCountItem struct {
	ProductUUID     string `json:"product_uuid"`
	Condition       string `json:"condition"`
	CountedQuantity int64  `json:"counted_quantity"`
}

// BlindCountRequest представляет сдачу слепого пересчета
type BlindCountRequest struct {
	LocationTag string           `json:"location_tag"` // метка места пересчета
	Items       []BlindCountItem `json:"items"`
}

// Discrepancy представляет расхождение сверки в протоколе обмена
type Discrepancy struct {
	CreatedAt    time.Time  `json:"created_at"`
	ResolvedAt   *time.Time `json:"resolved_at,omitempty"`
	ID           string     `json:"id"`
	SessionID    string     `json:"session_id,omitempty"`
	ProductUUID  string     `json:"product_uuid,omitempty"`
	Condition    string     `json:"condition,omitempty"`
	ConflictType string     `json:"conflict_type"` // physical_miscount, oversold, price_mismatch, credit_anomaly
	Severity     string     `json:"severity"`      // low, medium, high
	Status       string     `json:"status"`        // pending, resolved, ignored
	Notes        string     `json:"notes,omitempty"`
	ResolvedBy   string     `json:"resolved_by,omitempty"`
	Expected     int64      `json:"expected"`
	Actual       int64      `json:"actual"`
	Variance     int64      `json:"variance"`
}

// BlindCountResponse представляет результат сдачи пересчета
type BlindCountResponse struct {
	SessionID     string        `json:"session_id"`
	ItemsCounted  int           `json:"items_counted"`
	Discrepancies []Discrepancy `json:"discrepancies"` // только позиции с ненулевым расхождением
}

// DiscrepancyListResponse представляет список расхождений
type DiscrepancyListResponse struct {
	Discrepancies []Discrepancy `json:"discrepancies"`
}

// ResolveDiscrepancyRequest представляет решение оператора по расхождению
type ResolveDiscrepancyRequest struct {
	Status string `json:"status"`          // resolved или ignored
	Notes  string `json:"notes,omitempty"` // пояснение оператора
}

// ResolveDiscrepancyResponse подтверждает принятое решение
type ResolveDiscrepancyResponse struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}
