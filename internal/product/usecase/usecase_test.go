package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/petstack/catalog-service/internal/identity"
	"github.com/petstack/catalog-service/internal/model"
	"github.com/petstack/catalog-service/internal/product/dto"
	"github.com/petstack/catalog-service/pkg/apperr"
	"github.com/petstack/catalog-service/pkg/logger"
)

type fakeRepo struct {
	byID   map[string]*model.Product
	bySKU  map[string]*model.Product
	byHash map[string]*model.Product

	created *model.Product
	updated *model.Product
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		byID:   map[string]*model.Product{},
		bySKU:  map[string]*model.Product{},
		byHash: map[string]*model.Product{},
	}
}

func (f *fakeRepo) add(p *model.Product) {
	f.byID[p.ID] = p
	f.bySKU[p.SKU] = p
	if p.FingerprintHash != "" {
		f.byHash[p.FingerprintHash] = p
	}
}

func (f *fakeRepo) Create(_ context.Context, p *model.Product) error {
	f.created = p
	f.add(p)
	return nil
}

func (f *fakeRepo) FindByID(_ context.Context, id string) (*model.Product, error) {
	return f.byID[id], nil
}

func (f *fakeRepo) FindBySKU(_ context.Context, sku string) (*model.Product, error) {
	return f.bySKU[sku], nil
}

func (f *fakeRepo) FindAll(_ context.Context, _ *dto.ProductFilters) ([]model.Product, int, error) {
	out := make([]model.Product, 0, len(f.byID))
	for _, p := range f.byID {
		out = append(out, *p)
	}
	return out, len(out), nil
}

func (f *fakeRepo) Update(_ context.Context, p *model.Product) error {
	f.updated = p
	return nil
}

func (f *fakeRepo) Delete(_ context.Context, id string) error {
	delete(f.byID, id)
	return nil
}

func (f *fakeRepo) ExistsBySKU(_ context.Context, sku, excludeID string) (bool, error) {
	p, ok := f.bySKU[sku]
	return ok && p.ID != excludeID, nil
}

func (f *fakeRepo) ExistsByFingerprintHash(_ context.Context, fpHash, excludeID string) (bool, error) {
	if fpHash == "" {
		return false, nil
	}
	p, ok := f.byHash[fpHash]
	return ok && p.ID != excludeID, nil
}

type nopLogger struct{}

func (nopLogger) Debug(string, ...zap.Field) {}
func (nopLogger) Info(string, ...zap.Field)  {}
func (nopLogger) Warn(string, ...zap.Field)  {}
func (nopLogger) Error(string, ...zap.Field) {}
func (nopLogger) Fatal(string, ...zap.Field) {}
func (nopLogger) Sync() error                { return nil }

var _ logger.ZapLogger = nopLogger{}

func collarAttrs() []identity.Attribute {
	return []identity.Attribute{
		{K: "Kind", V: "Variant"},
		{K: "Type", V: "Collar"},
		{K: "Color", V: "Black"},
		{K: "Size", V: "M"},
	}
}

func TestCreateProductEncodesSKUWhenOmitted(t *testing.T) {
	repo := newFakeRepo()
	uc := NewProductUseCase(repo, nil, nil, nopLogger{})

	p, err := uc.CreateProduct(context.Background(), &dto.CreateProductInput{
		Attributes: collarAttrs(),
		UnitPrice:  25,
	})
	require.NoError(t, err)
	assert.Equal(t, "COL-M-BLK-VARIANT", p.SKU)
	assert.NotEmpty(t, p.Fingerprint)
	assert.Len(t, p.FingerprintHash, 64)
}

func TestCreateProductNormalizesSKU(t *testing.T) {
	repo := newFakeRepo()
	uc := NewProductUseCase(repo, nil, nil, nopLogger{})

	p, err := uc.CreateProduct(context.Background(), &dto.CreateProductInput{
		SKU:        "  col-blk-m ",
		Attributes: collarAttrs(),
	})
	require.NoError(t, err)
	assert.Equal(t, "COL-BLK-M", p.SKU)
}

func TestCreateProductRequiresSKUOrAttributes(t *testing.T) {
	repo := newFakeRepo()
	uc := NewProductUseCase(repo, nil, nil, nopLogger{})

	_, err := uc.CreateProduct(context.Background(), &dto.CreateProductInput{})
	assert.True(t, apperr.IsInvalidInput(err))
}

func TestCreateProductSKUConflict(t *testing.T) {
	repo := newFakeRepo()
	repo.add(&model.Product{BaseModel: model.BaseModel{ID: "a"}, SKU: "COL-BLK-M"})
	uc := NewProductUseCase(repo, nil, nil, nopLogger{})

	_, err := uc.CreateProduct(context.Background(), &dto.CreateProductInput{SKU: "col-blk-m"})
	assert.True(t, apperr.IsConflict(err))
}

func TestCreateProductFingerprintConflict(t *testing.T) {
	repo := newFakeRepo()
	uc := NewProductUseCase(repo, nil, nil, nopLogger{})

	_, err := uc.CreateProduct(context.Background(), &dto.CreateProductInput{
		SKU:        "COL-A",
		Attributes: collarAttrs(),
	})
	require.NoError(t, err)

	// same attribute combination under a different label is rejected
	_, err = uc.CreateProduct(context.Background(), &dto.CreateProductInput{
		SKU: "COL-B",
		Attributes: []identity.Attribute{
			{K: " size ", V: "m"},
			{K: "COLOR", V: " BLACK "},
			{K: "type", V: "collar"},
			{K: "kind", V: "variant"},
		},
	})
	assert.True(t, apperr.IsConflict(err))
}

func TestCreateProductEmptyFingerprintExemption(t *testing.T) {
	repo := newFakeRepo()
	uc := NewProductUseCase(repo, nil, nil, nopLogger{})

	_, err := uc.CreateProduct(context.Background(), &dto.CreateProductInput{SKU: "BARE-1"})
	require.NoError(t, err)

	// a second record with no attributes must not trigger a conflict
	_, err = uc.CreateProduct(context.Background(), &dto.CreateProductInput{SKU: "BARE-2"})
	assert.NoError(t, err)
}

func TestCreateProductAddonRequiresForType(t *testing.T) {
	repo := newFakeRepo()
	uc := NewProductUseCase(repo, nil, nil, nopLogger{})

	_, err := uc.CreateProduct(context.Background(), &dto.CreateProductInput{
		SKU: "ACC-GPS",
		Attributes: []identity.Attribute{
			{K: "Kind", V: "Addon"},
			{K: "Feature", V: "GPS"},
		},
	})
	assert.True(t, apperr.IsInvalidInput(err))

	_, err = uc.CreateProduct(context.Background(), &dto.CreateProductInput{
		SKU: "ACC-GPS",
		Attributes: []identity.Attribute{
			{K: "Kind", V: "Addon"},
			{K: "Feature", V: "GPS"},
			{K: "For Type", V: "Collar"},
		},
	})
	assert.NoError(t, err)
}

func TestCreateProductRejectsNegativeValues(t *testing.T) {
	repo := newFakeRepo()
	uc := NewProductUseCase(repo, nil, nil, nopLogger{})

	_, err := uc.CreateProduct(context.Background(), &dto.CreateProductInput{SKU: "X", UnitPrice: -1})
	assert.True(t, apperr.IsInvalidInput(err))

	_, err = uc.CreateProduct(context.Background(), &dto.CreateProductInput{SKU: "X", StockAmount: -1})
	assert.True(t, apperr.IsInvalidInput(err))
}

func TestUpdateProductRecomputesIdentityOnAttributeChange(t *testing.T) {
	repo := newFakeRepo()
	uc := NewProductUseCase(repo, nil, nil, nopLogger{})

	created, err := uc.CreateProduct(context.Background(), &dto.CreateProductInput{
		SKU:        "COL-BLK-M",
		Attributes: collarAttrs(),
	})
	require.NoError(t, err)
	oldHash := created.FingerprintHash

	newAttrs := []identity.Attribute{
		{K: "Kind", V: "Variant"},
		{K: "Type", V: "Collar"},
		{K: "Color", V: "White"},
		{K: "Size", V: "M"},
	}
	updated, err := uc.UpdateProduct(context.Background(), &dto.UpdateProductInput{
		ID:         created.ID,
		Attributes: &newAttrs,
	})
	require.NoError(t, err)
	assert.NotEqual(t, oldHash, updated.FingerprintHash)
	assert.Contains(t, updated.Fingerprint, "color=white")
	// sku untouched without the explicit recompute flag
	assert.Equal(t, "COL-BLK-M", updated.SKU)
}

func TestUpdateProductRecomputeSKUFlag(t *testing.T) {
	repo := newFakeRepo()
	uc := NewProductUseCase(repo, nil, nil, nopLogger{})

	created, err := uc.CreateProduct(context.Background(), &dto.CreateProductInput{
		SKU:        "LEGACY-1",
		Attributes: collarAttrs(),
	})
	require.NoError(t, err)

	newAttrs := []identity.Attribute{
		{K: "Type", V: "Collar"},
		{K: "Color", V: "Blue"},
		{K: "Size", V: "L"},
	}
	updated, err := uc.UpdateProduct(context.Background(), &dto.UpdateProductInput{
		ID:           created.ID,
		Attributes:   &newAttrs,
		RecomputeSKU: true,
	})
	require.NoError(t, err)
	assert.Equal(t, "COL-L-BLU", updated.SKU)
}

func TestUpdateProductByCanonicalSKU(t *testing.T) {
	repo := newFakeRepo()
	uc := NewProductUseCase(repo, nil, nil, nopLogger{})

	_, err := uc.CreateProduct(context.Background(), &dto.CreateProductInput{SKU: "COL-BLK-M"})
	require.NoError(t, err)

	price := 42.0
	updated, err := uc.UpdateProduct(context.Background(), &dto.UpdateProductInput{
		ID:        " col-blk-m ",
		UnitPrice: &price,
	})
	require.NoError(t, err)
	assert.Equal(t, 42.0, updated.UnitPrice)
}

func TestUpdateProductNotFound(t *testing.T) {
	repo := newFakeRepo()
	uc := NewProductUseCase(repo, nil, nil, nopLogger{})

	price := 1.0
	_, err := uc.UpdateProduct(context.Background(), &dto.UpdateProductInput{ID: "MISSING", UnitPrice: &price})
	assert.True(t, apperr.IsNotFound(err))
}

func TestGetProductNotFound(t *testing.T) {
	repo := newFakeRepo()
	uc := NewProductUseCase(repo, nil, nil, nopLogger{})

	_, err := uc.GetProduct(context.Background(), "MISSING")
	assert.True(t, apperr.IsNotFound(err))
}
