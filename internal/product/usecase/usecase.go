package usecase

import (
	"context"
	"crypto/md5"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/petstack/catalog-service/internal/identity"
	"github.com/petstack/catalog-service/internal/model"
	"github.com/petstack/catalog-service/internal/product"
	"github.com/petstack/catalog-service/internal/product/dto"
	"github.com/petstack/catalog-service/pkg/apperr"
	"github.com/petstack/catalog-service/pkg/cache"
	"github.com/petstack/catalog-service/pkg/logger"
	"github.com/petstack/catalog-service/pkg/search"
)

const (
	productsIndex = "products"
	listCacheTTL  = 5 * time.Minute
)

type productUseCase struct {
	repo   product.Repository
	cache  *cache.RedisClient
	es     *search.Client
	logger logger.ZapLogger
}

func NewProductUseCase(repo product.Repository, cache *cache.RedisClient, es *search.Client, log logger.ZapLogger) product.UseCase {
	return &productUseCase{
		repo:   repo,
		cache:  cache,
		es:     es,
		logger: log,
	}
}

func (uc *productUseCase) CreateProduct(ctx context.Context, input *dto.CreateProductInput) (*model.Product, error) {
	if input.UnitPrice < 0 {
		return nil, apperr.InvalidInput("unitPrice must be non-negative")
	}
	if input.StockAmount < 0 {
		return nil, apperr.InvalidInput("stockAmount must be non-negative")
	}

	attrs := identity.Clean(input.Attributes)
	if err := checkAddonCompat(attrs); err != nil {
		return nil, err
	}

	sku := identity.NormalizeSKU(input.SKU)
	if sku == "" && len(attrs) > 0 {
		sku = identity.EncodeSKU(attrs)
	}
	if sku == "" {
		return nil, apperr.InvalidInput("sku is required")
	}

	fp, fpHash := identity.BuildFingerprint(attrs)

	// Friendly pre-checks; the unique indexes are the authority under races.
	if taken, err := uc.repo.ExistsBySKU(ctx, sku, ""); err != nil {
		return nil, err
	} else if taken {
		return nil, apperr.Conflict("SKU already exists")
	}
	if taken, err := uc.repo.ExistsByFingerprintHash(ctx, fpHash, ""); err != nil {
		return nil, err
	} else if taken {
		return nil, apperr.Conflict("a product with these attributes already exists")
	}

	now := time.Now()
	p := &model.Product{
		BaseModel:       model.BaseModel{ID: uuid.New().String(), CreatedAt: now, UpdatedAt: now},
		SKU:             sku,
		Attributes:      attrs,
		AttrsCanon:      identity.CanonicalSet(attrs),
		UnitPrice:       input.UnitPrice,
		StockAmount:     input.StockAmount,
		Fingerprint:     fp,
		FingerprintHash: fpHash,
	}

	if err := uc.repo.Create(ctx, p); err != nil {
		return nil, err
	}

	go uc.invalidateListCache(context.Background())
	go uc.syncToElastic(context.Background(), p)

	return p, nil
}

func (uc *productUseCase) GetProduct(ctx context.Context, idOrSKU string) (*model.Product, error) {
	p, err := uc.findByIDOrSKU(ctx, idOrSKU)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, apperr.NotFound("product not found")
	}
	return p, nil
}

func (uc *productUseCase) ListProducts(ctx context.Context, filters *dto.ProductFilters) ([]model.Product, int, error) {
	cacheKey, keyErr := uc.listCacheKey(filters)
	if keyErr == nil && uc.cache != nil {
		if val, err := uc.cache.Client.Get(ctx, cacheKey).Result(); err == nil {
			var cached struct {
				Products []model.Product
				Count    int
			}
			if err := json.Unmarshal([]byte(val), &cached); err == nil {
				return cached.Products, cached.Count, nil
			}
		}
	}

	if filters.SearchQuery != "" && uc.es != nil {
		if products, count, err := uc.searchElastic(ctx, filters); err == nil {
			return products, count, nil
		} else {
			uc.logger.Error("ES search failed, falling back to DB", zap.Error(err))
		}
	}

	products, count, err := uc.repo.FindAll(ctx, filters)
	if err != nil {
		return nil, 0, err
	}

	if keyErr == nil && uc.cache != nil {
		payload := struct {
			Products []model.Product
			Count    int
		}{products, count}
		if data, err := json.Marshal(payload); err == nil {
			uc.cache.Client.Set(ctx, cacheKey, data, listCacheTTL)
		}
	}

	return products, count, nil
}

func (uc *productUseCase) UpdateProduct(ctx context.Context, input *dto.UpdateProductInput) (*model.Product, error) {
	p, err := uc.findByIDOrSKU(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, apperr.NotFound("product not found")
	}

	if input.Attributes != nil {
		attrs := identity.Clean(*input.Attributes)
		if err := checkAddonCompat(attrs); err != nil {
			return nil, err
		}
		p.Attributes = attrs
		p.AttrsCanon = identity.CanonicalSet(attrs)
		p.Fingerprint, p.FingerprintHash = identity.BuildFingerprint(attrs)

		if input.SKU == nil && input.RecomputeSKU {
			p.SKU = identity.EncodeSKU(attrs)
		}
	}

	if input.SKU != nil {
		sku := identity.NormalizeSKU(*input.SKU)
		if sku == "" {
			return nil, apperr.InvalidInput("sku must not be empty")
		}
		p.SKU = sku
	}

	if input.UnitPrice != nil {
		if *input.UnitPrice < 0 {
			return nil, apperr.InvalidInput("unitPrice must be non-negative")
		}
		p.UnitPrice = *input.UnitPrice
	}
	if input.StockAmount != nil {
		if *input.StockAmount < 0 {
			return nil, apperr.InvalidInput("stockAmount must be non-negative")
		}
		p.StockAmount = *input.StockAmount
	}

	if taken, err := uc.repo.ExistsBySKU(ctx, p.SKU, p.ID); err != nil {
		return nil, err
	} else if taken {
		return nil, apperr.Conflict("SKU already exists")
	}
	if taken, err := uc.repo.ExistsByFingerprintHash(ctx, p.FingerprintHash, p.ID); err != nil {
		return nil, err
	} else if taken {
		return nil, apperr.Conflict("a product with these attributes already exists")
	}

	p.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, p); err != nil {
		return nil, err
	}

	go uc.invalidateListCache(context.Background())
	go uc.syncToElastic(context.Background(), p)

	return p, nil
}

func (uc *productUseCase) DeleteProduct(ctx context.Context, idOrSKU string) error {
	p, err := uc.findByIDOrSKU(ctx, idOrSKU)
	if err != nil {
		return err
	}
	if p == nil {
		return apperr.NotFound("product not found")
	}

	if err := uc.repo.Delete(ctx, p.ID); err != nil {
		return err
	}

	go uc.invalidateListCache(context.Background())
	if uc.es != nil {
		go func(id string) {
			if err := uc.es.Delete(context.Background(), productsIndex, id); err != nil {
				uc.logger.Error("failed to delete product from ES", zap.Error(err))
			}
		}(p.ID)
	}

	return nil
}

// findByIDOrSKU accepts either a record UUID or a SKU, trying the id first
// and falling back to the canonical SKU form.
func (uc *productUseCase) findByIDOrSKU(ctx context.Context, idOrSKU string) (*model.Product, error) {
	if _, err := uuid.Parse(idOrSKU); err == nil {
		p, err := uc.repo.FindByID(ctx, idOrSKU)
		if err != nil || p != nil {
			return p, err
		}
	}
	return uc.repo.FindBySKU(ctx, identity.NormalizeSKU(idOrSKU))
}

// checkAddonCompat enforces that add-on records declare what they attach to.
func checkAddonCompat(attrs []identity.Attribute) error {
	kind := identity.Canonicalize(identity.Get(attrs, "kind"))
	if kind != "addon" && kind != "add-on" {
		return nil
	}
	if identity.Get(attrs, "for type") == "" {
		return apperr.InvalidInput("For Type is required for add-ons")
	}
	return nil
}

func (uc *productUseCase) listCacheKey(filters *dto.ProductFilters) (string, error) {
	data, err := json.Marshal(filters)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("products:list:%x", md5.Sum(data)), nil
}

func (uc *productUseCase) invalidateListCache(ctx context.Context) {
	if uc.cache == nil {
		return
	}
	keys, err := uc.cache.Client.Keys(ctx, "products:list:*").Result()
	if err == nil && len(keys) > 0 {
		uc.cache.Client.Del(ctx, keys...)
	}
}

func (uc *productUseCase) syncToElastic(ctx context.Context, p *model.Product) {
	if uc.es == nil {
		return
	}

	mapping := `{
		"mappings": {
			"properties": {
				"sku": { "type": "keyword" },
				"attributes": {
					"type": "nested",
					"properties": {
						"k": { "type": "keyword" },
						"v": { "type": "text" }
					}
				},
				"unitPrice": { "type": "double" },
				"stockAmount": { "type": "long" },
				"createdAt": { "type": "date" }
			}
		}
	}`
	_ = uc.es.CreateIndex(ctx, productsIndex, mapping)

	if err := uc.es.Index(ctx, productsIndex, p.ID, p); err != nil {
		uc.logger.Error("failed to index product", zap.Error(err))
	}
}

func (uc *productUseCase) searchElastic(ctx context.Context, filters *dto.ProductFilters) ([]model.Product, int, error) {
	q := map[string]interface{}{
		"query": map[string]interface{}{
			"bool": map[string]interface{}{
				"should": []map[string]interface{}{
					{
						"wildcard": map[string]interface{}{
							"sku": map[string]interface{}{
								"value": fmt.Sprintf("*%s*", identity.NormalizeSKU(filters.SearchQuery)),
							},
						},
					},
					{
						"nested": map[string]interface{}{
							"path": "attributes",
							"query": map[string]interface{}{
								"match": map[string]interface{}{
									"attributes.v": filters.SearchQuery,
								},
							},
						},
					},
				},
				"minimum_should_match": 1,
			},
		},
	}
	if filters.PageSize > 0 {
		q["size"] = filters.PageSize
		if filters.Page > 1 {
			q["from"] = (filters.Page - 1) * filters.PageSize
		}
	}

	res, err := uc.es.Search(ctx, productsIndex, q)
	if err != nil {
		return nil, 0, err
	}

	products := make([]model.Product, 0, len(res.Hits.Hits))
	for _, hit := range res.Hits.Hits {
		var p model.Product
		if err := json.Unmarshal(hit.Source, &p); err == nil {
			products = append(products, p)
		}
	}
	return products, res.Hits.Total.Value, nil
}
