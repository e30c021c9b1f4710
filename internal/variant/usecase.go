package variant

import (
	"context"

	"github.com/petstack/catalog-service/internal/variant/dto"
)

type UseCase interface {
	// Availability reports, per attribute key, which values remain reachable
	// in the anchor's family under the given partial selections.
	Availability(ctx context.Context, anchorSKU string, selections map[string]string) (map[string][]OptionValue, error)

	// Resolve returns the concrete record for an identifier plus selections:
	// a direct SKU hit short-circuits, otherwise the identifier anchors a
	// family search over the selections.
	Resolve(ctx context.Context, identifier string, selections map[string]string) (*dto.ResolveResult, error)
}
