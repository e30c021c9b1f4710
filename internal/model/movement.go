package model

import "time"

// StockMovement is the audit trail of stock changes, one row per adjustment.
type StockMovement struct {
	ID             string    `db:"id" json:"id"`
	SKU            string    `db:"sku" json:"sku"`
	QuantityChange int64     `db:"quantity_change" json:"quantityChange"`
	QuantityBefore int64     `db:"quantity_before" json:"quantityBefore"`
	QuantityAfter  int64     `db:"quantity_after" json:"quantityAfter"`
	ReferenceType  *string   `db:"reference_type" json:"referenceType"` // 'sale', 'return', 'manual_adjustment'
	ReferenceID    *string   `db:"reference_id" json:"referenceId"`
	Notes          string    `db:"notes" json:"notes"`
	CreatedAt      time.Time `db:"created_at" json:"createdAt"`
}
