package variant

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/petstack/catalog-service/internal/identity"
	"github.com/petstack/catalog-service/internal/model"
)

func member(sku string, stock int64, pairs ...string) model.Product {
	attrs := make(model.AttributeList, 0, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		attrs = append(attrs, identity.Attribute{K: pairs[i], V: pairs[i+1]})
	}
	return model.Product{
		SKU:         sku,
		Attributes:  attrs,
		StockAmount: stock,
	}
}

func collarFamily() []model.Product {
	return []model.Product{
		member("COL-M-RED", 5, "Kind", "Variant", "Type", "Collar", "Color", "Red", "Size", "M"),
		member("COL-M-BLU", 3, "Kind", "Variant", "Type", "Collar", "Color", "Blue", "Size", "M"),
		member("COL-L-RED", 0, "Kind", "Variant", "Type", "Collar", "Color", "Red", "Size", "L"),
	}
}

func availFor(t *testing.T, byOption map[string][]OptionValue, key string) map[string]bool {
	t.Helper()
	values, ok := byOption[key]
	require.True(t, ok, "missing option key %q", key)
	out := map[string]bool{}
	for _, v := range values {
		out[v.Value] = v.Available
	}
	return out
}

func TestComputeAvailabilitySizeSelected(t *testing.T) {
	byOption := ComputeAvailability(collarFamily(), map[string]string{"Size": "M"})

	colors := availFor(t, byOption, "Color")
	assert.True(t, colors["Red"])
	assert.True(t, colors["Blue"])

	sizes := availFor(t, byOption, "Size")
	assert.True(t, sizes["M"])
	assert.False(t, sizes["L"], "L member is out of stock")
}

func TestComputeAvailabilityColorSelected(t *testing.T) {
	byOption := ComputeAvailability(collarFamily(), map[string]string{"Color": "Red"})

	sizes := availFor(t, byOption, "Size")
	assert.True(t, sizes["M"])
	assert.False(t, sizes["L"], "red L is out of stock")
}

func TestComputeAvailabilityEmptySelections(t *testing.T) {
	byOption := ComputeAvailability(collarFamily(), nil)

	sizes := availFor(t, byOption, "Size")
	assert.True(t, sizes["M"])
	assert.False(t, sizes["L"], "only an out-of-stock member carries L")

	// the Kind marker key never appears as an option
	_, ok := byOption["Kind"]
	assert.False(t, ok)
}

func TestComputeAvailabilitySelectionMatchingIsCanonical(t *testing.T) {
	byOption := ComputeAvailability(collarFamily(), map[string]string{" size ": " m "})
	colors := availFor(t, byOption, "Color")
	assert.True(t, colors["Red"])
	assert.True(t, colors["Blue"])
}

func TestComputeAvailabilityNoDontCareMatching(t *testing.T) {
	family := append(collarFamily(),
		// in stock but has no Size attribute at all
		member("COL-TAGLESS", 9, "Kind", "Variant", "Type", "Collar", "Color", "Green"),
	)

	byOption := ComputeAvailability(family, map[string]string{"Size": "M"})
	colors := availFor(t, byOption, "Color")
	assert.False(t, colors["Green"], "members lacking the selected key are excluded")
}

func TestComputeAvailabilityEmptySelectionValueIgnored(t *testing.T) {
	byOption := ComputeAvailability(collarFamily(), map[string]string{"Size": ""})
	colors := availFor(t, byOption, "Color")
	assert.True(t, colors["Red"])
	assert.True(t, colors["Blue"])
}

func TestComputeAvailabilityUniverseIncludesOutOfStockValues(t *testing.T) {
	byOption := ComputeAvailability(collarFamily(), nil)
	sizes := availFor(t, byOption, "Size")
	_, hasL := sizes["L"]
	assert.True(t, hasL, "universe lists every observed value regardless of stock")
}
