package variant

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/petstack/catalog-service/internal/model"
)

func TestResolveFamilyWithType(t *testing.T) {
	anchor := &model.Product{
		SKU: "col-blk-m",
		Attributes: model.AttributeList{
			{K: "Kind", V: "Variant"},
			{K: "Type", V: "Collar"},
		},
	}

	fam := ResolveFamily(anchor)
	require.NotNil(t, fam)
	assert.Equal(t, "COL", fam.SKUPrefix)
	assert.Equal(t, "collar", fam.Type)
}

func TestResolveFamilyWithoutType(t *testing.T) {
	anchor := &model.Product{
		SKU:        "FDR-STD",
		Attributes: model.AttributeList{{K: "Kind", V: "Variant"}},
	}

	fam := ResolveFamily(anchor)
	require.NotNil(t, fam)
	assert.Equal(t, "FDR", fam.SKUPrefix)
	assert.Equal(t, "", fam.Type)
}

func TestResolveFamilyNoHyphenUsesWholeSKU(t *testing.T) {
	anchor := &model.Product{SKU: "COL", Attributes: model.AttributeList{}}

	fam := ResolveFamily(anchor)
	require.NotNil(t, fam)
	assert.Equal(t, "COL", fam.SKUPrefix)
}

func TestResolveFamilyUnusableAnchor(t *testing.T) {
	assert.Nil(t, ResolveFamily(nil))
	assert.Nil(t, ResolveFamily(&model.Product{SKU: "   "}))
}
