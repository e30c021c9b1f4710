package usecase

import (
	"context"

	"go.uber.org/zap"

	"github.com/petstack/catalog-service/internal/identity"
	"github.com/petstack/catalog-service/internal/variant"
	"github.com/petstack/catalog-service/internal/variant/dto"
	"github.com/petstack/catalog-service/pkg/apperr"
	"github.com/petstack/catalog-service/pkg/logger"
)

type variantUseCase struct {
	repo   variant.Repository
	logger logger.ZapLogger
}

func NewVariantUseCase(repo variant.Repository, log logger.ZapLogger) variant.UseCase {
	return &variantUseCase{
		repo:   repo,
		logger: log,
	}
}

func (uc *variantUseCase) Availability(ctx context.Context, anchorSKU string, selections map[string]string) (map[string][]variant.OptionValue, error) {
	anchor, err := uc.repo.FindBySKU(ctx, identity.NormalizeSKU(anchorSKU))
	if err != nil {
		return nil, err
	}
	if anchor == nil {
		return nil, apperr.NotFound("anchor SKU not found")
	}

	fam := variant.ResolveFamily(anchor)
	if fam == nil {
		return nil, apperr.NotFound("family not found")
	}

	members, err := uc.repo.FindFamilyMembers(ctx, fam)
	if err != nil {
		return nil, err
	}

	return variant.ComputeAvailability(members, selections), nil
}

func (uc *variantUseCase) Resolve(ctx context.Context, identifier string, selections map[string]string) (*dto.ResolveResult, error) {
	sku := identity.NormalizeSKU(identifier)

	// Direct hit: a concrete SKU wins outright and bypasses family logic,
	// so one entry point serves both concrete-SKU and anchor callers.
	exact, err := uc.repo.FindBySKU(ctx, sku)
	if err != nil {
		return nil, err
	}
	if exact != nil {
		return &dto.ResolveResult{
			Found:  true,
			SKU:    exact.SKU,
			Price:  exact.UnitPrice,
			Stock:  exact.StockAmount,
			Attrs:  exact.AttrsMap(),
			Direct: true,
		}, nil
	}

	// Anchor flow. Anchor-only resolution is ambiguous, so at least one
	// usable selection is required before touching the store again.
	sel := variant.CleanSelections(selections)
	if len(sel) == 0 {
		return nil, apperr.InvalidInput("incomplete selections")
	}

	anchor, err := uc.repo.FindBySKU(ctx, sku)
	if err != nil {
		return nil, err
	}
	if anchor == nil {
		return nil, apperr.NotFound("anchor SKU not found")
	}

	fam := variant.ResolveFamily(anchor)
	if fam == nil {
		return nil, apperr.NotFound("family not found")
	}

	doc, err := uc.repo.FindOneInFamily(ctx, fam, sel)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		uc.logger.Debug("no variant matched selections", zap.String("anchor", sku))
		return nil, apperr.NotFound("no matching variant")
	}

	return &dto.ResolveResult{
		Found:  true,
		SKU:    doc.SKU,
		Price:  doc.UnitPrice,
		Stock:  doc.StockAmount,
		Attrs:  doc.AttrsMap(),
		Direct: false,
	}, nil
}
