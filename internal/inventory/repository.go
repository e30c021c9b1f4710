package inventory

import (
	"context"

	"github.com/petstack/catalog-service/internal/inventory/dto"
	"github.com/petstack/catalog-service/internal/model"
)

type Repository interface {
	// BatchBySKUs returns the products matching any of the given canonical
	// SKUs. Unknown SKUs are simply absent from the result.
	BatchBySKUs(ctx context.Context, skus []string) ([]model.Product, error)

	// AdjustStock applies a stock delta and writes the movement row in one
	// transaction. Returns the updated product, or nil when the SKU is
	// unknown.
	AdjustStock(ctx context.Context, sku string, movement *model.StockMovement) (*model.Product, error)

	ListMovements(ctx context.Context, filters *dto.MovementFilters) ([]model.StockMovement, int, error)
}
