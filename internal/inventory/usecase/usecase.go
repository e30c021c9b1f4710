package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/petstack/catalog-service/internal/identity"
	"github.com/petstack/catalog-service/internal/inventory"
	"github.com/petstack/catalog-service/internal/inventory/dto"
	"github.com/petstack/catalog-service/internal/model"
	"github.com/petstack/catalog-service/pkg/apperr"
	"github.com/petstack/catalog-service/pkg/cache"
	"github.com/petstack/catalog-service/pkg/logger"
)

type inventoryUseCase struct {
	repo   inventory.Repository
	cache  *cache.RedisClient
	logger logger.ZapLogger
}

func NewInventoryUseCase(repo inventory.Repository, cache *cache.RedisClient, log logger.ZapLogger) inventory.UseCase {
	return &inventoryUseCase{
		repo:   repo,
		cache:  cache,
		logger: log,
	}
}

// Lookup answers one availability row per requested SKU, in request order,
// duplicates included. SKUs the catalog does not know stay available with no
// price or stock, so callers are never blocked by an incomplete catalog.
func (uc *inventoryUseCase) Lookup(ctx context.Context, skus []string) ([]dto.InventoryItem, error) {
	items := make([]dto.InventoryItem, 0, len(skus))
	if len(skus) == 0 {
		return items, nil
	}

	keys := make([]string, 0, len(skus))
	seen := map[string]bool{}
	for _, s := range skus {
		key := identity.NormalizeSKU(s)
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		keys = append(keys, key)
	}

	products, err := uc.repo.BatchBySKUs(ctx, keys)
	if err != nil {
		return nil, err
	}

	byKey := make(map[string]*model.Product, len(products))
	for i := range products {
		byKey[products[i].SKU] = &products[i]
	}

	for _, s := range skus {
		item := dto.InventoryItem{
			SKU:       strings.TrimSpace(s),
			Available: true,
		}
		if p, ok := byKey[identity.NormalizeSKU(s)]; ok {
			price := p.UnitPrice
			stock := p.StockAmount
			item.UnitPrice = &price
			item.StockAmount = &stock
			item.Stock = &stock
			item.Available = stock > 0
		}
		items = append(items, item)
	}

	return items, nil
}

func (uc *inventoryUseCase) AdjustStock(ctx context.Context, input *dto.AdjustStockInput) (*model.Product, error) {
	sku := identity.NormalizeSKU(input.SKU)
	if sku == "" {
		return nil, apperr.InvalidInput("sku is required")
	}

	if uc.cache != nil {
		lockKey := "lock:stock:" + sku
		lockValue := uuid.New().String()

		acquired := false
		for i := 0; i < 3; i++ {
			ok, err := uc.cache.AcquireLock(ctx, lockKey, lockValue, 5*time.Second)
			if err != nil {
				uc.logger.Error("failed to acquire lock redis error", zap.Error(err))
			}
			if ok {
				acquired = true
				break
			}
			time.Sleep(100 * time.Millisecond)
		}
		if !acquired {
			return nil, apperr.Conflict("stock adjustment in progress, please retry")
		}
		defer uc.cache.ReleaseLock(context.Background(), lockKey, lockValue)
	}

	now := time.Now()
	movement := &model.StockMovement{
		ID:             uuid.New().String(),
		SKU:            sku,
		QuantityChange: input.QuantityChange,
		Notes:          input.Reason,
		CreatedAt:      now,
	}
	if input.ReferenceID != "" {
		movement.ReferenceID = &input.ReferenceID
	}
	if input.ReferenceType != "" {
		movement.ReferenceType = &input.ReferenceType
	}

	p, err := uc.repo.AdjustStock(ctx, sku, movement)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, apperr.NotFound("product not found")
	}
	return p, nil
}

func (uc *inventoryUseCase) ListMovements(ctx context.Context, filters *dto.MovementFilters) ([]model.StockMovement, int, error) {
	if filters.SKU != "" {
		filters.SKU = identity.NormalizeSKU(filters.SKU)
	}
	return uc.repo.ListMovements(ctx, filters)
}
