package variant

import (
	"strings"

	"github.com/petstack/catalog-service/internal/identity"
	"github.com/petstack/catalog-service/internal/model"
)

// Canonical attribute marker shared by all variant records of a family.
const (
	kindKey     = "kind"
	kindVariant = "variant"
)

// Family is the derived predicate selecting the sibling variants of an
// anchor: every member carries Kind=Variant, shares the anchor's SKU prefix
// (text before the first hyphen), and, when the anchor declares one, the
// exact Type. The prefix guard prevents accidental cross-family matches when
// Type is missing or two unrelated families happen to share a Type value.
type Family struct {
	SKUPrefix string // canonical uppercase, without trailing hyphen
	Type      string // canonical type value, empty when the anchor has none
}

// ResolveFamily derives the family predicate from an anchor record. Returns
// nil when the anchor is missing or unusable; callers must surface not-found,
// never an empty family.
func ResolveFamily(anchor *model.Product) *Family {
	if anchor == nil {
		return nil
	}
	sku := identity.NormalizeSKU(anchor.SKU)
	if sku == "" {
		return nil
	}

	prefix := sku
	if i := strings.Index(sku, "-"); i >= 0 {
		prefix = sku[:i]
	}

	return &Family{
		SKUPrefix: prefix,
		Type:      identity.CanonicalSet(anchor.Attributes)["type"],
	}
}
