package inventory

import (
	"context"

	"github.com/petstack/catalog-service/internal/inventory/dto"
	"github.com/petstack/catalog-service/internal/model"
)

type UseCase interface {
	Lookup(ctx context.Context, skus []string) ([]dto.InventoryItem, error)
	AdjustStock(ctx context.Context, input *dto.AdjustStockInput) (*model.Product, error)
	ListMovements(ctx context.Context, filters *dto.MovementFilters) ([]model.StockMovement, int, error)
}
