package dto

import "github.com/petstack/catalog-service/internal/identity"

type CreateProductInput struct {
	SKU         string // optional; encoded from attributes when empty
	Attributes  []identity.Attribute
	UnitPrice   float64
	StockAmount int64
}

// UpdateProductInput carries partial updates; nil means "not sent".
// RecomputeSKU re-derives the SKU from the updated attributes when the
// caller did not supply one explicitly. It is a per-call switch, not ambient
// process configuration, so update behavior stays deterministic per request.
type UpdateProductInput struct {
	ID           string // uuid or SKU
	SKU          *string
	Attributes   *[]identity.Attribute
	UnitPrice    *float64
	StockAmount  *int64
	RecomputeSKU bool
}
