package dto

import "time"

// InventoryItem is one row of a batch availability lookup. SKU echoes the
// trimmed input form, not the canonical lookup key. Price and stock stay nil
// for SKUs the catalog does not know about; those still report available so
// an incomplete catalog never blocks a sale.
type InventoryItem struct {
	SKU         string   `json:"sku"`
	UnitPrice   *float64 `json:"unitPrice"`
	StockAmount *int64   `json:"stockAmount"`
	Stock       *int64   `json:"stock"` // legacy alias of stockAmount
	Available   bool     `json:"available"`
}

type AdjustStockInput struct {
	SKU            string
	QuantityChange int64
	Reason         string
	ReferenceID    string
	ReferenceType  string // 'manual_adjustment', 'sale', 'return'
}

type MovementFilters struct {
	SKU           string
	ReferenceType string
	StartDate     *time.Time
	EndDate       *time.Time
	Page          int
	PageSize      int
}
