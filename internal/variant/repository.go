package variant

import (
	"context"

	"github.com/petstack/catalog-service/internal/model"
)

type Repository interface {
	// FindBySKU looks up one record by canonical SKU; (nil, nil) when absent.
	FindBySKU(ctx context.Context, sku string) (*model.Product, error)

	// FindFamilyMembers fetches every record matching the family predicate,
	// regardless of stock.
	FindFamilyMembers(ctx context.Context, fam *Family) ([]model.Product, error)

	// FindOneInFamily fetches the first record matching the family predicate
	// plus one exact canonical match per selection pair; (nil, nil) when none.
	FindOneInFamily(ctx context.Context, fam *Family, selections map[string]string) (*model.Product, error)
}
