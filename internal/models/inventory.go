package models

import "time"

// Condition представляет состояние экземпляра товара.
// Остатки и цены учитываются отдельно по каждому состоянию.
type Condition string

// Condition константы состояний
const (
	ConditionNearMint  Condition = "NM"  // Near Mint
	ConditionLightPlay Condition = "LP"  // Lightly Played
	ConditionModPlay   Condition = "MP"  // Moderately Played
	ConditionHeavyPlay Condition = "HP"  // Heavily Played
	ConditionDamaged   Condition = "DMG" // Damaged
)

// ValidCondition сообщает, известно ли состояние товара.
func ValidCondition(c Condition) bool {
	switch c {
	case ConditionNearMint, ConditionLightPlay, ConditionModPlay,
		ConditionHeavyPlay, ConditionDamaged:
		return true
	default:
		return false
	}
}

// Product представляет товар каталога.
type Product struct {
	CreatedAt time.Time `json:"created_at"` // CreatedAt время добавления в каталог
	UpdatedAt time.Time `json:"updated_at"` // UpdatedAt время последнего изменения
	UUID      string    `json:"uuid"`       // UUID уникальный идентификатор товара
	SKU       string    `json:"sku"`        // SKU артикул
	Name      string    `json:"name"`       // Name название товара
	SetName   string    `json:"set_name"`   // SetName название выпуска
	Rarity    string    `json:"rarity"`     // Rarity редкость
}

// InventoryItem представляет остаток товара в конкретном состоянии.
type InventoryItem struct {
	UpdatedAt   time.Time `json:"updated_at"`   // UpdatedAt время последнего изменения остатка
	ProductUUID string    `json:"product_uuid"` // ProductUUID товар
	Condition   Condition `json:"condition"`    // Condition состояние экземпляров
	Location    string    `json:"location"`     // Location место хранения (стеллаж, витрина)
	Quantity    int64     `json:"quantity"`     // Quantity количество на остатке
}

// PriceInfo представляет актуальную цену товара в конкретном состоянии.
// Цены хранятся в минимальных единицах валюты (копейки, центы),
// чтобы исключить ошибки плавающей точки.
type PriceInfo struct {
	EffectiveAt time.Time `json:"effective_at"` // EffectiveAt время вступления цены в силу
	ProductUUID string    `json:"product_uuid"` // ProductUUID товар
	Condition   Condition `json:"condition"`    // Condition состояние экземпляров
	Currency    string    `json:"currency"`     // Currency код валюты (ISO 4217)
	Price       int64     `json:"price"`        // Price цена в минимальных единицах валюты
}

// TransactionLine представляет одну строку чека.
type TransactionLine struct {
	ProductUUID string    `json:"product_uuid"` // ProductUUID товар
	Condition   Condition `json:"condition"`    // Condition состояние экземпляров
	Quantity    int64     `json:"quantity"`     // Quantity количество в строке
	UnitPrice   int64     `json:"unit_price"`   // UnitPrice цена за единицу в минимальных единицах валюты
}

// Transaction представляет продажу, закупку или корректировку остатка.
type Transaction struct {
	CreatedAt    time.Time         `json:"created_at"`              // CreatedAt время проведения
	UUID         string            `json:"uuid"`                    // UUID уникальный идентификатор транзакции
	Kind         string            `json:"kind"`                    // Kind тип: sale, purchase, adjustment
	CustomerUUID string            `json:"customer_uuid,omitempty"` // CustomerUUID покупатель, если известен
	Lines        []TransactionLine `json:"lines"`                   // Lines строки чека
	Total        int64             `json:"total"`                   // Total итоговая сумма в минимальных единицах валюты
}

// Customer представляет покупателя с накопленным магазинным кредитом.
type Customer struct {
	UpdatedAt   time.Time `json:"updated_at"`   // UpdatedAt время последнего изменения
	UUID        string    `json:"uuid"`         // UUID уникальный идентификатор покупателя
	Name        string    `json:"name"`         // Name имя покупателя
	Email       string    `json:"email"`        // Email контактный email
	StoreCredit int64     `json:"store_credit"` // StoreCredit магазинный кредит в минимальных единицах валюты
}
