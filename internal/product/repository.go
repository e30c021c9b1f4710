package product

import (
	"context"

	"github.com/petstack/catalog-service/internal/model"
	"github.com/petstack/catalog-service/internal/product/dto"
)

type Repository interface {
	Create(ctx context.Context, product *model.Product) error
	FindByID(ctx context.Context, id string) (*model.Product, error)
	FindBySKU(ctx context.Context, sku string) (*model.Product, error)
	FindAll(ctx context.Context, filters *dto.ProductFilters) ([]model.Product, int, error)
	Update(ctx context.Context, product *model.Product) error
	Delete(ctx context.Context, id string) error

	// Uniqueness pre-checks; the DB indexes remain the authority.
	ExistsBySKU(ctx context.Context, sku, excludeID string) (bool, error)
	ExistsByFingerprintHash(ctx context.Context, fpHash, excludeID string) (bool, error)
}
